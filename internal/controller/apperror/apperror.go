package apperror

import (
	"errors"
	"fmt"
)

var ErrValidation = errors.New("validation failed")
var ErrAuth = errors.New("invalid gateway credentials")
var ErrTransport = errors.New("gateway unreachable")
var ErrDevice = errors.New("reader device unavailable")
var ErrOperationInFlight = errors.New("a transaction is already in flight for this session")
var ErrNotSupported = errors.New("operation not supported by this gateway")
var ErrNoActiveGateway = errors.New("no active gateway selected")
var ErrNoTransaction = errors.New("no transaction awaiting confirmation")

// GatewayError is a provider-side rejection: a decline, a business-rule
// failure or a malformed-request response. Code is the provider's own
// error code and is compared verbatim (e.g. "amount_too_small").
type GatewayError struct {
	Code    string
	Message string
}

func (e *GatewayError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("gateway error: %s", e.Message)
	}
	return fmt.Sprintf("gateway error %s: %s", e.Code, e.Message)
}

// AsGatewayError unwraps err into a *GatewayError if one is in the chain.
func AsGatewayError(err error) (*GatewayError, bool) {
	var ge *GatewayError
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}
