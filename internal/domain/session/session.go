package session

import (
	"encoding/json"
	"fmt"
	"sync"

	"terminalpay/internal/controller/apperror"
	"terminalpay/internal/domain/gateway"
	"terminalpay/pkg/logger"
)

// SettingsStore is the persistence port for per-gateway settings. Keys are
// namespaced by gateway label; the backend choice stays outside the domain.
type SettingsStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Session is what a gateway needs before a pay operation is permitted:
// a selected reader and credentials. Both must be populated.
type Session struct {
	Reader      *gateway.Reader
	Credentials *gateway.Credentials
}

// Ready reports whether the session permits a pay operation.
func (s Session) Ready() bool {
	return s.Reader != nil && s.Credentials != nil && !s.Credentials.Empty()
}

type state struct {
	reader *gateway.Reader
	creds  *gateway.Credentials
}

// Model tracks which reader and credentials are currently selected, one
// session per gateway. Session state is gateway-scoped: switching the
// active gateway never carries state across.
type Model struct {
	mu       sync.Mutex
	store    SettingsStore
	l        logger.Interface
	sessions map[string]*state

	// gateways whose reader handle is entered manually and survives
	// restarts, rather than being rediscovered per session
	persistReader map[string]bool
}

func NewModel(store SettingsStore, l logger.Interface) *Model {
	return &Model{
		store:         store,
		l:             l,
		sessions:      make(map[string]*state),
		persistReader: make(map[string]bool),
	}
}

// PersistReaderFor marks a gateway's reader selection as durable.
// Called at wiring time, before any session activity.
func (m *Model) PersistReaderFor(gatewayLabel string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.persistReader[gatewayLabel] = true
}

// SelectReader makes the reader the session's active device. Selecting
// while another reader is selected implicitly deselects the previous one:
// one card terminal is in use at a time.
func (m *Model) SelectReader(gatewayLabel string, r gateway.Reader) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.state(gatewayLabel)
	if st.reader != nil && st.reader.ID != r.ID {
		m.l.Info("deselecting reader %s in favor of %s", st.reader.ID, r.ID)
	}
	st.reader = &r

	if !m.persistReader[gatewayLabel] {
		return nil
	}

	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode reader: %w", err)
	}
	if err := m.store.Set(key(gatewayLabel, "reader"), string(raw)); err != nil {
		return fmt.Errorf("persist reader: %w", err)
	}
	return nil
}

// DeselectReader clears the selected reader, leaving credentials intact.
func (m *Model) DeselectReader(gatewayLabel string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state(gatewayLabel).reader = nil
}

// SetCredentials stores the gateway's secret material and persists it under
// the gateway's own key namespace.
func (m *Model) SetCredentials(gatewayLabel string, c gateway.Credentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c.Empty() {
		return fmt.Errorf("%w: empty credentials", apperror.ErrValidation)
	}
	m.state(gatewayLabel).creds = &c

	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := m.store.Set(key(gatewayLabel, "credentials"), string(raw)); err != nil {
		return fmt.Errorf("persist credentials: %w", err)
	}
	return nil
}

// Session returns a copy of the gateway's current session.
func (m *Model) Session(gatewayLabel string) Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.state(gatewayLabel)
	out := Session{}
	if st.reader != nil {
		r := *st.reader
		out.Reader = &r
	}
	if st.creds != nil {
		c := *st.creds
		out.Credentials = &c
	}
	return out
}

// Load restores the gateway's persisted settings into its session. Invoked
// from the gateway's setup hook when it becomes active.
func (m *Model) Load(gatewayLabel string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.state(gatewayLabel)

	if raw, ok, err := m.store.Get(key(gatewayLabel, "credentials")); err != nil {
		return fmt.Errorf("load credentials: %w", err)
	} else if ok {
		var c gateway.Credentials
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return fmt.Errorf("decode credentials: %w", err)
		}
		st.creds = &c
	}

	if !m.persistReader[gatewayLabel] {
		return nil
	}
	if raw, ok, err := m.store.Get(key(gatewayLabel, "reader")); err != nil {
		return fmt.Errorf("load reader: %w", err)
	} else if ok {
		var r gateway.Reader
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return fmt.Errorf("decode reader: %w", err)
		}
		st.reader = &r
	}
	return nil
}

// Reset clears the in-memory session. Persisted settings survive so the
// next activation can restore them. Invoked when the reader disconnects,
// credentials fail, or the gateway is deactivated.
func (m *Model) Reset(gatewayLabel string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, gatewayLabel)
}

func (m *Model) state(gatewayLabel string) *state {
	st, ok := m.sessions[gatewayLabel]
	if !ok {
		st = &state{}
		m.sessions[gatewayLabel] = st
	}
	return st
}

func key(gatewayLabel, field string) string {
	return gatewayLabel + "/" + field
}
