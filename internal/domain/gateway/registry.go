package gateway

import (
	"fmt"
	"sync"

	"terminalpay/internal/controller/apperror"
	"terminalpay/pkg/logger"
)

// Descriptor pairs a gateway label with its driver and lifecycle hooks.
// Immutable once registered; the descriptor set is fixed for the process
// lifetime.
type Descriptor struct {
	Label  string
	Driver Driver

	// Setup is invoked when the gateway becomes active. Optional.
	Setup func() error
	// Teardown is invoked when the gateway is deactivated, releasing its
	// session and view resources. Optional.
	Teardown func()
}

// Registry holds the set of supported gateways and which one is currently
// active. At most one gateway is active at any time: selecting a new one
// tears the previous one down first, so only one gateway's resources are
// live at any instant.
type Registry struct {
	mu      sync.Mutex
	ordered []*Descriptor
	byLabel map[string]*Descriptor
	active  *Descriptor
	l       logger.Interface
}

func NewRegistry(l logger.Interface) *Registry {
	return &Registry{
		byLabel: make(map[string]*Descriptor),
		l:       l,
	}
}

// Register adds a gateway descriptor. Called at process start only.
func (r *Registry) Register(d *Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d.Label == "" || d.Driver == nil {
		return fmt.Errorf("%w: descriptor needs a label and a driver", apperror.ErrValidation)
	}
	if _, exists := r.byLabel[d.Label]; exists {
		return fmt.Errorf("gateway %q already registered", d.Label)
	}

	r.byLabel[d.Label] = d
	r.ordered = append(r.ordered, d)
	return nil
}

// Descriptors returns the registered gateways in registration order.
func (r *Registry) Descriptors() []*Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Descriptor, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Select activates the named gateway. A no-op if it is already active.
// Otherwise the previous gateway's teardown runs before the new one's
// setup; a setup failure leaves no gateway active.
func (r *Registry) Select(label string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next, exists := r.byLabel[label]
	if !exists {
		return fmt.Errorf("%w: no gateway registered with label %q", apperror.ErrValidation, label)
	}

	if r.active == next {
		return nil
	}

	if r.active != nil {
		r.l.Info("deactivating gateway %s", r.active.Label)
		if r.active.Teardown != nil {
			r.active.Teardown()
		}
		r.active = nil
	}

	if next.Setup != nil {
		if err := next.Setup(); err != nil {
			return fmt.Errorf("setup gateway %s: %w", next.Label, err)
		}
	}

	r.active = next
	r.l.Info("activated gateway %s", next.Label)
	return nil
}

// Current returns the active gateway descriptor, or false if none is active.
func (r *Registry) Current() (*Descriptor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active == nil {
		return nil, false
	}
	return r.active, true
}
