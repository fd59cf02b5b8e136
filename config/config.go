package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port     int    `env:"PORT" envDefault:"3000"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// DataDir holds the local settings store (persisted readers and credentials).
	DataDir string `env:"DATA_DIR" envDefault:"./data"`

	StripeBaseURL        string        `env:"STRIPE_BASE_URL" envDefault:"https://api.stripe.com/v1"`
	TrustCommerceBaseURL string        `env:"TRUST_COMMERCE_BASE_URL" envDefault:"https://vault.trustcommerce.com/trans/"`
	TrustCommerceDemo    bool          `env:"TRUST_COMMERCE_DEMO" envDefault:"true"`
	HTTPClientTimeout    time.Duration `env:"HTTP_CLIENT_TIMEOUT" envDefault:"20s"`

	// ProcessTimeout bounds a single process call, which blocks on
	// cardholder interaction at the physical reader.
	ProcessTimeout time.Duration `env:"PROCESS_TIMEOUT" envDefault:"2m"`
}

func New() (Config, error) {
	c, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}

	return c, nil
}
