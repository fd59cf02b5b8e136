package payment

import (
	"fmt"
	"slices"
	"time"
)

// State is a transaction's position in the pay flow.
type State string

const (
	StateIdle                 State = "idle"
	StateIntentPending        State = "intent_pending"
	StateDeviceProcessing     State = "device_processing"
	StateAwaitingConfirmation State = "awaiting_confirmation"
	StateSucceeded            State = "succeeded"
	StateFailed               State = "failed"
	StateCanceled             State = "canceled"
)

// Terminal reports whether no further driver calls are made for the
// transaction.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed || s == StateCanceled
}

// CanBeUpdatedTo reports whether the state machine permits the move.
func (s State) CanBeUpdatedTo(next State) bool {
	switch s {
	case StateIdle:
		return slices.Contains([]State{StateIntentPending, StateDeviceProcessing, StateFailed}, next)
	case StateIntentPending:
		return slices.Contains([]State{StateDeviceProcessing, StateFailed}, next)
	case StateDeviceProcessing:
		return slices.Contains([]State{StateAwaitingConfirmation, StateSucceeded, StateFailed, StateCanceled}, next)
	case StateAwaitingConfirmation:
		return slices.Contains([]State{StateSucceeded, StateFailed, StateCanceled}, next)
	default:
		return false
	}
}

// Transaction is one pay attempt. Created when a pay operation begins and
// discarded once a terminal state is acknowledged by starting the next pay;
// never persisted past the process lifetime.
type Transaction struct {
	// ID is the provider-assigned reference (payment intent id or cloud-pay
	// id). Empty until the gateway assigns one.
	ID      string
	Gateway string
	// Amount is in minor currency units.
	Amount    int64
	State     State
	LastError string

	startedAt time.Time
}

// DisplayAmount renders the amount in major units, e.g. 1250 -> "12.50".
func (t Transaction) DisplayAmount() string {
	return fmt.Sprintf("%d.%02d", t.Amount/100, t.Amount%100)
}
