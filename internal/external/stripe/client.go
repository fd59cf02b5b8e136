// Package stripe implements the card-present gateway driver over the
// Stripe Terminal REST API.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"terminalpay/internal/controller/apperror"
	"terminalpay/internal/domain/gateway"

	"github.com/google/go-querystring/query"
)

const driverName = "stripe"

// errCodeIntentUnexpectedState marks a cancel of an already resolved
// intent; the driver treats it as success.
const errCodeIntentUnexpectedState = "payment_intent_unexpected_state"

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTP:    httpClient,
	}
}

func (c *Client) Name() string { return driverName }

type apiError struct {
	Code          string `json:"code"`
	Message       string `json:"message"`
	PaymentIntent struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"payment_intent"`
}

type errorEnvelope struct {
	Error *apiError `json:"error"`
}

func (e *apiError) domain() error {
	return &apperror.GatewayError{Code: e.Code, Message: e.Message}
}

type readerResource struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	DeviceType string `json:"device_type"`
	Status     string `json:"status"`
	Action     *struct {
		Status               string `json:"status"`
		ProcessPaymentIntent struct {
			PaymentIntent string `json:"payment_intent"`
		} `json:"process_payment_intent"`
	} `json:"action"`
}

type intentResource struct {
	ID               string    `json:"id"`
	Status           string    `json:"status"`
	Amount           int64     `json:"amount"`
	LastPaymentError *apiError `json:"last_payment_error"`
}

func (c *Client) ListReaders(ctx context.Context, creds gateway.Credentials) ([]gateway.Reader, error) {
	var out struct {
		errorEnvelope
		Data []readerResource `json:"data"`
	}
	if err := c.do(ctx, creds, http.MethodGet, "/terminal/readers", nil, &out); err != nil {
		return nil, err
	}
	if out.Error != nil {
		return nil, out.Error.domain()
	}

	readers := make([]gateway.Reader, 0, len(out.Data))
	for _, r := range out.Data {
		readers = append(readers, gateway.Reader{
			ID:         r.ID,
			Label:      r.Label,
			DeviceType: r.DeviceType,
			Status:     r.Status,
		})
	}
	return readers, nil
}

// CheckDeviceReady is not part of this protocol; process_payment_intent
// reports reader problems itself.
func (c *Client) CheckDeviceReady(_ context.Context, _ gateway.Credentials, _ gateway.Reader) (gateway.DeviceStatus, error) {
	return "", apperror.ErrNotSupported
}

type createIntentForm struct {
	Amount             int64    `url:"amount"`
	Currency           string   `url:"currency"`
	PaymentMethodTypes []string `url:"payment_method_types[]"`
}

// CreateIntent opens a payment intent for the amount in minor units. On a
// provider error the returned Intent still carries the id of any intent
// resource the provider created, so the caller can undo it.
func (c *Client) CreateIntent(ctx context.Context, creds gateway.Credentials, amount int64) (gateway.Intent, error) {
	form, err := query.Values(createIntentForm{
		Amount:             amount,
		Currency:           "usd",
		PaymentMethodTypes: []string{"card_present"},
	})
	if err != nil {
		return gateway.Intent{}, fmt.Errorf("encode form: %w", err)
	}

	var out struct {
		errorEnvelope
		intentResource
	}
	if err := c.do(ctx, creds, http.MethodPost, "/payment_intents", form, &out); err != nil {
		return gateway.Intent{}, err
	}
	if out.Error != nil {
		id := out.ID
		if id == "" {
			id = out.Error.PaymentIntent.ID
		}
		return gateway.Intent{ID: id}, out.Error.domain()
	}
	return gateway.Intent{ID: out.ID}, nil
}

// Process hands the intent to the reader. The reader starts the cardholder
// interaction asynchronously, so a success here only means submitted; the
// outcome arrives via PollStatus.
func (c *Client) Process(ctx context.Context, creds gateway.Credentials, req gateway.ProcessRequest) (gateway.ProcessResult, error) {
	if req.Intent == nil {
		return gateway.ProcessResult{}, fmt.Errorf("%w: payment intent is required", apperror.ErrValidation)
	}

	form := url.Values{"payment_intent": {req.Intent.ID}}
	path := "/terminal/readers/" + url.PathEscape(req.Reader.ID) + "/process_payment_intent"

	var out struct {
		errorEnvelope
		readerResource
	}
	if err := c.do(ctx, creds, http.MethodPost, path, form, &out); err != nil {
		return gateway.ProcessResult{}, err
	}
	if out.Error != nil {
		return gateway.ProcessResult{}, out.Error.domain()
	}

	ref := req.Intent.ID
	if out.Action != nil && out.Action.ProcessPaymentIntent.PaymentIntent != "" {
		ref = out.Action.ProcessPaymentIntent.PaymentIntent
	}
	return gateway.ProcessResult{Status: gateway.ProcessSubmitted, Ref: ref}, nil
}

// PollStatus retrieves the intent. A recorded last_payment_error wins over
// whatever status the intent reports.
func (c *Client) PollStatus(ctx context.Context, creds gateway.Credentials, ref string) (gateway.StatusResult, error) {
	var out struct {
		errorEnvelope
		intentResource
	}
	if err := c.do(ctx, creds, http.MethodGet, "/payment_intents/"+url.PathEscape(ref), nil, &out); err != nil {
		return gateway.StatusResult{}, err
	}
	if out.Error != nil {
		return gateway.StatusResult{}, out.Error.domain()
	}

	if out.LastPaymentError != nil {
		return gateway.StatusResult{Terminal: true, Err: out.LastPaymentError.domain()}, nil
	}

	switch out.Status {
	case "succeeded":
		return gateway.StatusResult{Terminal: true, Outcome: gateway.OutcomeComplete}, nil
	case "canceled":
		return gateway.StatusResult{Terminal: true, Outcome: gateway.OutcomeCanceled}, nil
	default:
		// requires_payment_method, processing, requires_capture: the
		// cardholder interaction is still running
		return gateway.StatusResult{Terminal: false}, nil
	}
}

// Cancel voids the intent. Canceling an intent that already reached a
// resolved state is reported as success with the state it reached.
func (c *Client) Cancel(ctx context.Context, creds gateway.Credentials, ref string) (gateway.CancelAck, error) {
	var out struct {
		errorEnvelope
		intentResource
	}
	path := "/payment_intents/" + url.PathEscape(ref) + "/cancel"
	if err := c.do(ctx, creds, http.MethodPost, path, url.Values{}, &out); err != nil {
		return gateway.CancelAck{}, err
	}
	if out.Error != nil {
		if out.Error.Code == errCodeIntentUnexpectedState {
			return gateway.CancelAck{PriorState: out.Error.PaymentIntent.Status}, nil
		}
		return gateway.CancelAck{}, out.Error.domain()
	}
	return gateway.CancelAck{PriorState: out.Status}, nil
}

// do issues one API call and decodes the JSON reply into out. Provider
// error envelopes are left for the caller; do only maps transport and
// authentication failures.
func (c *Client) do(ctx context.Context, creds gateway.Credentials, method, path string, form url.Values, out any) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+creds.APIKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", apperror.ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %s", apperror.ErrTransport, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: api key rejected", apperror.ErrAuth)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode %s: %s", apperror.ErrTransport, resp.Status, err)
	}
	return nil
}
