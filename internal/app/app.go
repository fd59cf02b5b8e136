package app

import (
	"fmt"
	"net/http"
	"time"

	"terminalpay/config"
	"terminalpay/internal/controller/rest"
	"terminalpay/internal/controller/rest/handlers"
	"terminalpay/internal/domain/gateway"
	"terminalpay/internal/domain/payment"
	"terminalpay/internal/domain/session"
	"terminalpay/internal/external/stripe"
	"terminalpay/internal/external/trustcommerce"
	"terminalpay/internal/repo/credstore"
	"terminalpay/pkg/health"
	"terminalpay/pkg/logger"
	"terminalpay/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	stripeLabel        = "Stripe"
	trustCommerceLabel = "Trust Commerce"
)

func Run(cfg config.Config) {
	l := logger.New(cfg.LogLevel)

	engine := NewGinEngine(l)

	store, err := credstore.NewBadgerStore(cfg.DataDir)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - credstore.NewBadgerStore: %w", err))
	}
	defer store.Close()

	sessions := session.NewModel(store, l)
	// TrustCommerce readers are entered by device name, not discovered, so
	// the selection survives restarts
	sessions.PersistReaderFor(trustCommerceLabel)

	apiClient := &http.Client{Timeout: cfg.HTTPClientTimeout}
	// cloud-pay calls long-poll through the cardholder interaction
	pollClient := &http.Client{Timeout: cfg.ProcessTimeout}

	stripeDriver := stripe.New(cfg.StripeBaseURL, apiClient)
	tcDriver := trustcommerce.New(cfg.TrustCommerceBaseURL, cfg.TrustCommerceDemo, pollClient)

	registry := gateway.NewRegistry(l)
	for _, d := range []struct {
		label  string
		driver gateway.Driver
	}{
		{stripeLabel, stripeDriver},
		{trustCommerceLabel, tcDriver},
	} {
		label := d.label
		if err := registry.Register(&gateway.Descriptor{
			Label:    label,
			Driver:   d.driver,
			Setup:    func() error { return sessions.Load(label) },
			Teardown: func() { sessions.Reset(label) },
		}); err != nil {
			l.Fatal(fmt.Errorf("app - Run - registry.Register: %w", err))
		}
	}

	orchestrator := payment.NewOrchestrator(l)

	router := rest.NewRouter(
		handlers.NewGatewayHandler(registry),
		handlers.NewSessionHandler(registry, sessions),
		handlers.NewPaymentHandler(registry, sessions, orchestrator),
	)
	router.SetUp(engine)

	healthRegistry := health.NewRegistry(
		health.NewGatewayChecker("stripe", cfg.StripeBaseURL, apiClient),
		health.NewGatewayChecker("trustcommerce", cfg.TrustCommerceBaseURL, apiClient),
	)
	engine.GET("/health/live", health.LivenessHandler())
	engine.GET("/health/ready", health.ReadinessHandler(healthRegistry, 5*time.Second))
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	if err := engine.Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		l.Fatal(fmt.Errorf("app - Run - engine.Run: %w", err))
	}
}
