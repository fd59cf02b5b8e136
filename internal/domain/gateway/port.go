package gateway

import (
	"context"
)

//go:generate mockgen -source port.go -destination mock_port.go -package gateway

// Driver is the capability set a payment gateway exposes to the
// orchestrator. Drivers are stateless: credentials and reader handles are
// passed on every call and never retained.
//
// Operations a gateway's protocol does not have return
// apperror.ErrNotSupported; the orchestrator skips that step of the flow.
type Driver interface {
	// Name returns the gateway label used in logs, metrics and storage keys.
	Name() string

	// ListReaders discovers the reader devices registered to the account.
	ListReaders(ctx context.Context, creds Credentials) ([]Reader, error)

	// CheckDeviceReady queries reader liveness before charging.
	CheckDeviceReady(ctx context.Context, creds Credentials, reader Reader) (DeviceStatus, error)

	// CreateIntent creates a provider-side pending payment resource. A
	// created intent must eventually be settled or canceled.
	CreateIntent(ctx context.Context, creds Credentials, amount int64) (Intent, error)

	// Process drives the money movement on the physical device. Blocks on
	// cardholder interaction; the context bounds how long.
	Process(ctx context.Context, creds Credentials, req ProcessRequest) (ProcessResult, error)

	// PollStatus re-queries a submitted transaction's settlement state.
	PollStatus(ctx context.Context, creds Credentials, ref string) (StatusResult, error)

	// Cancel voids the referenced resource. Idempotent: canceling an
	// already-canceled or already-completed reference returns an Ack
	// describing the prior state rather than an error, because recovery
	// paths call it speculatively.
	Cancel(ctx context.Context, creds Credentials, ref string) (CancelAck, error)
}

// Reader is a physical card-accepting device addressed by an opaque handle.
type Reader struct {
	ID         string `json:"id"`
	Label      string `json:"label,omitempty"`
	DeviceType string `json:"device_type,omitempty"`
	Status     string `json:"status,omitempty"`
}

// Credentials is gateway-specific secret material. Card-present gateways
// use APIKey; the legacy gateway uses CustomerID/Password. Scoped per
// gateway, never shared across gateways.
type Credentials struct {
	APIKey     string `json:"api_key,omitempty"`
	CustomerID string `json:"customer_id,omitempty"`
	Password   string `json:"password,omitempty"`
}

// Empty reports whether no secret material is set at all.
func (c Credentials) Empty() bool {
	return c.APIKey == "" && c.CustomerID == "" && c.Password == ""
}

// DeviceStatus is the liveness of a reader device.
type DeviceStatus string

const (
	DeviceConnected DeviceStatus = "connected"
	DeviceBusy      DeviceStatus = "busy"
	DeviceOffline   DeviceStatus = "offline"
)

// Intent is a provider-side pending-payment resource handle.
type Intent struct {
	ID string
}

// ProcessRequest carries everything Process needs for one charge attempt.
type ProcessRequest struct {
	// Intent is nil for gateways with no intent concept.
	Intent *Intent
	Reader Reader
	// Amount is in minor currency units.
	Amount int64
}

// ProcessStatus says how far the device processing step got.
type ProcessStatus string

const (
	// ProcessSubmitted means the charge was handed to the device and
	// settlement requires external confirmation.
	ProcessSubmitted ProcessStatus = "submitted"
	// ProcessCompleted means the gateway already reports a final outcome.
	ProcessCompleted ProcessStatus = "completed"
)

// ProcessResult is the normalized outcome of one Process call.
type ProcessResult struct {
	Status ProcessStatus
	// Ref identifies the in-flight transaction for PollStatus and Cancel.
	Ref string
}

// Outcome is a settled transaction's final disposition.
type Outcome string

const (
	OutcomeComplete Outcome = "complete"
	// OutcomeCanceled is a customer- or timeout-initiated abort. Distinct
	// from a decline, which surfaces as StatusResult.Err.
	OutcomeCanceled Outcome = "canceled"
)

// StatusResult is the normalized reply of one PollStatus call. When both
// Err and Outcome are populated the error takes precedence.
type StatusResult struct {
	Terminal bool
	Outcome  Outcome
	// Err carries the provider's last payment error, if any.
	Err error
}

// CancelAck acknowledges a cancel request.
type CancelAck struct {
	// PriorState is the provider's description of the resource state the
	// cancel found (e.g. "requires_payment_method", "canceled", "complete").
	PriorState string
}
