package health

import (
	"context"
	"net/http"
)

// GatewayChecker checks that a payment gateway's API endpoint is reachable.
// Any HTTP response counts as up; only transport failures count as down.
type GatewayChecker struct {
	name    string
	baseURL string
	client  *http.Client
}

// NewGatewayChecker creates a reachability checker for one gateway.
func NewGatewayChecker(name, baseURL string, client *http.Client) *GatewayChecker {
	if client == nil {
		client = http.DefaultClient
	}
	return &GatewayChecker{name: name, baseURL: baseURL, client: client}
}

// Name returns the gateway label.
func (c *GatewayChecker) Name() string {
	return c.name
}

// Check issues a HEAD request against the gateway base URL.
func (c *GatewayChecker) Check(ctx context.Context) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL, nil)
	if err != nil {
		return Result{Status: StatusDown, Message: err.Error()}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{Status: StatusDown, Message: "gateway unreachable"}
	}
	_ = resp.Body.Close()

	return Result{Status: StatusUp}
}
