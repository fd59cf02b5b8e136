package payment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"terminalpay/internal/controller/apperror"
	"terminalpay/internal/domain/gateway"
	"terminalpay/internal/domain/session"
	"terminalpay/pkg/logger"
	"terminalpay/pkg/metrics"
)

// amountTooSmallCode is the one provider error code that proves no intent
// resource was created, so no compensating cancel is owed.
const amountTooSmallCode = "amount_too_small"

// Orchestrator drives the pay flow for any gateway driver to a terminal
// outcome, applying the compensation rules on partial failure. It performs
// no automatic retries: a transient transport failure terminates the
// transaction and retrying is left to human judgment, because blindly
// re-sending a process call risks double-charging.
type Orchestrator struct {
	l logger.Interface

	mu sync.Mutex
	// at most one transaction per gateway; replaced when the next pay starts
	current map[string]*Transaction
}

func NewOrchestrator(l logger.Interface) *Orchestrator {
	return &Orchestrator{
		l:       l,
		current: make(map[string]*Transaction),
	}
}

// Pay runs one transaction for the given driver and session.
//
// Validation and concurrency failures are returned as errors before any
// remote call is made. Failures inside the flow terminate the transaction
// instead: the returned Transaction carries the terminal state and
// LastError, and the error result is nil.
func (o *Orchestrator) Pay(ctx context.Context, driver gateway.Driver, sess session.Session, rawAmount string) (Transaction, error) {
	amount, err := ParseAmount(rawAmount)
	if err != nil {
		return Transaction{}, err
	}
	if !sess.Ready() {
		return Transaction{}, fmt.Errorf("%w: select a reader and set credentials first", apperror.ErrValidation)
	}

	tx, err := o.begin(driver.Name(), amount)
	if err != nil {
		return Transaction{}, err
	}

	creds := *sess.Credentials
	reader := *sess.Reader

	// Legacy gateways expose an explicit device liveness probe; gateways
	// that fold the check into process report ErrNotSupported.
	status, err := driver.CheckDeviceReady(ctx, creds, reader)
	if err != nil && !errors.Is(err, apperror.ErrNotSupported) {
		return o.fail(tx, fmt.Errorf("check device: %w", err)), nil
	}
	if err == nil && status != gateway.DeviceConnected {
		return o.fail(tx, fmt.Errorf("%w: device is %s", apperror.ErrDevice, status)), nil
	}

	var intent *gateway.Intent
	created, err := driver.CreateIntent(ctx, creds, amount)
	switch {
	case errors.Is(err, apperror.ErrNotSupported):
		// no intent concept; straight to device processing
	case err != nil:
		// An intent resource may exist even when creation reports an
		// error; undo it unless the code proves nothing was created.
		if created.ID != "" && !isAmountTooSmall(err) {
			o.compensate(ctx, driver, creds, created.ID)
		}
		return o.fail(tx, fmt.Errorf("create intent: %w", err)), nil
	default:
		o.transition(tx, StateIntentPending)
		intent = &created
		tx.ID = created.ID
	}

	o.transition(tx, StateDeviceProcessing)

	result, err := driver.Process(ctx, creds, gateway.ProcessRequest{
		Intent: intent,
		Reader: reader,
		Amount: amount,
	})
	if err != nil {
		if intent != nil {
			o.compensate(ctx, driver, creds, intent.ID)
		}
		return o.fail(tx, fmt.Errorf("process: %w", err)), nil
	}

	if result.Ref != "" {
		tx.ID = result.Ref
	}

	switch result.Status {
	case gateway.ProcessCompleted:
		return o.settle(tx, StateSucceeded, nil), nil
	default:
		o.transition(tx, StateAwaitingConfirmation)
		return o.snapshot(tx), nil
	}
}

// CheckTransaction re-queries the gateway for the in-flight transaction's
// settlement state. Idempotent and safely re-callable: a transport failure
// leaves the transaction awaiting confirmation, and checking an already
// terminal transaction just returns it.
func (o *Orchestrator) CheckTransaction(ctx context.Context, driver gateway.Driver, sess session.Session) (Transaction, error) {
	tx := o.inFlight(driver.Name())
	if tx == nil {
		return Transaction{}, apperror.ErrNoTransaction
	}
	if tx.State.Terminal() {
		return o.snapshot(tx), nil
	}
	if tx.State != StateAwaitingConfirmation {
		return Transaction{}, fmt.Errorf("%w: transaction is %s", apperror.ErrOperationInFlight, tx.State)
	}
	if sess.Credentials == nil {
		return Transaction{}, fmt.Errorf("%w: credentials missing", apperror.ErrValidation)
	}

	result, err := driver.PollStatus(ctx, *sess.Credentials, tx.ID)
	if err != nil {
		// state unchanged; the caller may check again
		return o.snapshot(tx), fmt.Errorf("poll status: %w", err)
	}

	// An error in the reply wins over any status code it carries.
	if result.Err != nil {
		o.compensate(ctx, driver, *sess.Credentials, tx.ID)
		return o.settle(tx, StateFailed, result.Err), nil
	}

	if !result.Terminal {
		return o.snapshot(tx), nil
	}

	switch result.Outcome {
	case gateway.OutcomeCanceled:
		return o.settle(tx, StateCanceled, fmt.Errorf("transaction canceled before completion")), nil
	default:
		return o.settle(tx, StateSucceeded, nil), nil
	}
}

// begin registers a fresh transaction, failing fast while a previous one
// for the same gateway is still non-terminal. Starting a new pay is the
// caller's acknowledgment of the previous terminal transaction, which is
// discarded here.
func (o *Orchestrator) begin(gatewayLabel string, amount int64) (*Transaction, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if existing, ok := o.current[gatewayLabel]; ok && !existing.State.Terminal() {
		return nil, apperror.ErrOperationInFlight
	}

	tx := &Transaction{
		Gateway:   gatewayLabel,
		Amount:    amount,
		State:     StateIdle,
		startedAt: time.Now(),
	}
	o.current[gatewayLabel] = tx
	return tx, nil
}

func (o *Orchestrator) inFlight(gatewayLabel string) *Transaction {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current[gatewayLabel]
}

func (o *Orchestrator) transition(tx *Transaction, next State) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !tx.State.CanBeUpdatedTo(next) {
		// transition table bug; keep the flow alive but loud
		o.l.Error("illegal transaction state change %s -> %s", tx.State, next)
	}
	tx.State = next
}

func (o *Orchestrator) fail(tx *Transaction, err error) Transaction {
	return o.settle(tx, StateFailed, err)
}

func (o *Orchestrator) settle(tx *Transaction, terminal State, err error) Transaction {
	o.transition(tx, terminal)

	o.mu.Lock()
	if err != nil {
		tx.LastError = err.Error()
		o.l.Warn("transaction on %s settled %s: %s", tx.Gateway, terminal, err)
	}
	elapsed := time.Since(tx.startedAt).Seconds()
	out := *tx
	o.mu.Unlock()

	metrics.PaymentsTotal.WithLabelValues(tx.Gateway, string(terminal)).Inc()
	metrics.PaymentDuration.WithLabelValues(tx.Gateway, string(terminal)).Observe(elapsed)
	return out
}

func (o *Orchestrator) snapshot(tx *Transaction) Transaction {
	o.mu.Lock()
	defer o.mu.Unlock()
	return *tx
}

// compensate issues a best-effort cancel for a partially created gateway
// resource. Cancel failures are logged and swallowed: the original error
// decides the transaction's terminal state.
func (o *Orchestrator) compensate(ctx context.Context, driver gateway.Driver, creds gateway.Credentials, ref string) {
	ack, err := driver.Cancel(ctx, creds, ref)
	if err != nil {
		o.l.Error("compensating cancel of %s on %s failed: %s", ref, driver.Name(), err)
		metrics.CompensatingCancelsTotal.WithLabelValues(driver.Name(), "error").Inc()
		return
	}
	o.l.Info("compensating cancel of %s on %s acknowledged (was %s)", ref, driver.Name(), ack.PriorState)
	metrics.CompensatingCancelsTotal.WithLabelValues(driver.Name(), "ok").Inc()
}

func isAmountTooSmall(err error) bool {
	if ge, ok := apperror.AsGatewayError(err); ok {
		return ge.Code == amountTooSmallCode
	}
	return false
}
