// Package trustcommerce implements the legacy terminal gateway driver over
// the TrustCommerce cloud-pay API: one endpoint, form-encoded actions,
// key=value replies.
package trustcommerce

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"terminalpay/internal/controller/apperror"
	"terminalpay/internal/domain/gateway"

	"github.com/google/go-querystring/query"
)

const driverName = "trustcommerce"

type Client struct {
	BaseURL string
	Demo    bool
	HTTP    *http.Client

	mu sync.Mutex
	// transstatus and cancel require the device name, which the API only
	// accepts on the sale; remembered per cloudpay id. In-memory only,
	// which matches the orchestrator discarding transactions at process
	// death: if transactions ever become persistent, this map must be
	// persisted with them or polls after a restart lose the device name.
	devices map[string]string
}

func New(baseURL string, demo bool, httpClient *http.Client) *Client {
	if httpClient == nil {
		// long_polling holds the connection open until the cardholder acts
		httpClient = &http.Client{Timeout: 2 * time.Minute}
	}
	return &Client{
		BaseURL: baseURL,
		Demo:    demo,
		HTTP:    httpClient,
		devices: make(map[string]string),
	}
}

func (c *Client) Name() string { return driverName }

// request covers every action's parameters; omitted fields stay off the
// wire.
type request struct {
	CustID      string `url:"custid"`
	Password    string `url:"password"`
	Action      string `url:"action"`
	DeviceName  string `url:"device_name,omitempty"`
	Amount      int64  `url:"amount,omitempty"`
	CloudPayID  string `url:"cloudpayid,omitempty"`
	LongPolling string `url:"long_polling,omitempty"`
	Demo        string `url:"demo,omitempty"`
}

// ListReaders is not available; the reader is identified by the device
// name the operator enters.
func (c *Client) ListReaders(_ context.Context, _ gateway.Credentials) ([]gateway.Reader, error) {
	return nil, apperror.ErrNotSupported
}

func (c *Client) CheckDeviceReady(ctx context.Context, creds gateway.Credentials, reader gateway.Reader) (gateway.DeviceStatus, error) {
	r, err := c.do(ctx, request{
		CustID:     creds.CustomerID,
		Password:   creds.Password,
		Action:     "devicestatus",
		DeviceName: reader.ID,
	})
	if err != nil {
		return "", err
	}

	switch r.DeviceStatus {
	case "connected":
		return gateway.DeviceConnected, nil
	case "busy", "inuse":
		return gateway.DeviceBusy, nil
	case "":
		return "", &apperror.GatewayError{Code: "devicestatus", Message: r.describe()}
	default:
		return gateway.DeviceOffline, nil
	}
}

// CreateIntent has no equivalent; the sale itself opens the cloud payment.
func (c *Client) CreateIntent(_ context.Context, _ gateway.Credentials, _ int64) (gateway.Intent, error) {
	return gateway.Intent{}, apperror.ErrNotSupported
}

// Process starts a sale on the device. The reply only acknowledges
// submission; settlement is read back via PollStatus.
func (c *Client) Process(ctx context.Context, creds gateway.Credentials, req gateway.ProcessRequest) (gateway.ProcessResult, error) {
	r, err := c.do(ctx, request{
		CustID:     creds.CustomerID,
		Password:   creds.Password,
		Action:     "sale",
		DeviceName: req.Reader.ID,
		Amount:     req.Amount,
	})
	if err != nil {
		return gateway.ProcessResult{}, err
	}

	if r.CloudPayStatus != "submitted" || r.CloudPayID == "" {
		return gateway.ProcessResult{}, &apperror.GatewayError{Code: "sale", Message: r.describe()}
	}

	c.rememberDevice(r.CloudPayID, req.Reader.ID)
	return gateway.ProcessResult{Status: gateway.ProcessSubmitted, Ref: r.CloudPayID}, nil
}

// PollStatus long-polls the cloud payment once. A decline or error status
// is terminal and carried in StatusResult.Err; only transport failures are
// returned as errors so the caller may poll again.
func (c *Client) PollStatus(ctx context.Context, creds gateway.Credentials, ref string) (gateway.StatusResult, error) {
	r, err := c.do(ctx, request{
		CustID:      creds.CustomerID,
		Password:    creds.Password,
		Action:      "transstatus",
		DeviceName:  c.deviceFor(ref),
		CloudPayID:  ref,
		LongPolling: "y",
	})
	if err != nil {
		return gateway.StatusResult{}, err
	}

	switch r.CloudPayStatus {
	case "complete":
		c.forgetDevice(ref)
		return gateway.StatusResult{Terminal: true, Outcome: gateway.OutcomeComplete}, nil
	case "cancel", "canceled":
		c.forgetDevice(ref)
		return gateway.StatusResult{Terminal: true, Outcome: gateway.OutcomeCanceled}, nil
	case "decline", "error":
		c.forgetDevice(ref)
		return gateway.StatusResult{
			Terminal: true,
			Err:      &apperror.GatewayError{Code: r.CloudPayStatus, Message: r.describe()},
		}, nil
	case "submitted", "inprogress":
		return gateway.StatusResult{Terminal: false}, nil
	default:
		return gateway.StatusResult{}, &apperror.GatewayError{Code: "transstatus", Message: r.describe()}
	}
}

func (c *Client) Cancel(ctx context.Context, creds gateway.Credentials, ref string) (gateway.CancelAck, error) {
	r, err := c.do(ctx, request{
		CustID:     creds.CustomerID,
		Password:   creds.Password,
		Action:     "cancel",
		DeviceName: c.deviceFor(ref),
		CloudPayID: ref,
	})
	if err != nil {
		return gateway.CancelAck{}, err
	}

	c.forgetDevice(ref)
	return gateway.CancelAck{PriorState: r.CloudPayStatus}, nil
}

func (c *Client) do(ctx context.Context, form request) (reply, error) {
	if c.Demo {
		form.Demo = "y"
	}
	values, err := query.Values(form)
	if err != nil {
		return reply{}, fmt.Errorf("encode form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, strings.NewReader(values.Encode()))
	if err != nil {
		return reply{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return reply{}, fmt.Errorf("%w: %s", apperror.ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return reply{}, fmt.Errorf("%w: read body: %s", apperror.ErrTransport, err)
	}
	if resp.StatusCode/100 != 2 {
		return reply{}, fmt.Errorf("%w: gateway %s", apperror.ErrTransport, resp.Status)
	}

	r := parseReply(raw)
	if r.Status == "baddata" && (strings.Contains(r.Offenders, "password") || strings.Contains(r.Offenders, "custid")) {
		return reply{}, fmt.Errorf("%w: %s", apperror.ErrAuth, r.describe())
	}
	return r, nil
}

func (c *Client) rememberDevice(ref, device string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.devices[ref] = device
}

func (c *Client) deviceFor(ref string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.devices[ref]
}

func (c *Client) forgetDevice(ref string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.devices, ref)
}
