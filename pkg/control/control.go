package control

import (
	"fmt"
	"log/slog"
	"sync"
)

// Control is the adaptive input control. It owns its value and UI state and
// talks to the host form only through the Host binding.
type Control struct {
	mu sync.RWMutex

	kind   Kind
	attrs  Attributes
	host   Host[Value]
	logger *slog.Logger

	value    Value
	err      string
	disabled bool
	touched  bool
}

// New constructs a control for kind. Unknown kinds are rejected so every
// control maps onto exactly one render mode.
func New(kind Kind, options ...Option) (*Control, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("control: unknown kind %q", kind)
	}
	c := &Control{
		kind:   kind,
		host:   noopHost[Value]{},
		logger: discardLogger(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.attrs.ID == "" {
		c.attrs.ID = NewID()
	}
	if c.value.IsNull() && kind == KindCheckbox {
		c.value = BoolValue(false)
	}
	return c, nil
}

// MustNew mirrors New but panics on an unknown kind.
func MustNew(kind Kind, options ...Option) *Control {
	c, err := New(kind, options...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Control) Kind() Kind { return c.kind }

func (c *Control) Mode() RenderMode { return c.kind.Mode() }

func (c *Control) ID() string { return c.attrs.ID }

func (c *Control) Name() string { return c.attrs.Name }

// Attributes returns a copy of the declarative attributes.
func (c *Control) Attributes() Attributes {
	attrs := c.attrs
	attrs.Options = append(Catalog(nil), c.attrs.Options...)
	return attrs
}

// SetValue writes a value pushed by the host (reset, patch). The host is not
// notified.
func (c *Control) SetValue(value Value) {
	c.mu.Lock()
	c.value = value
	c.mu.Unlock()
}

// SetDisabled toggles interactivity. Disabled controls drop UI input.
func (c *Control) SetDisabled(disabled bool) {
	c.mu.Lock()
	c.disabled = disabled
	c.mu.Unlock()
}

// SetError replaces the host supplied error text; "" clears it.
func (c *Control) SetError(message string) {
	c.mu.Lock()
	c.err = message
	c.mu.Unlock()
}

// Reset clears the touched flag. It is the only way touched reverts.
func (c *Control) Reset() {
	c.mu.Lock()
	c.touched = false
	c.mu.Unlock()
}

// MarkTouched sets touched without notifying the host, for host driven
// "mark all as touched" passes.
func (c *Control) MarkTouched() {
	c.mu.Lock()
	c.touched = true
	c.mu.Unlock()
}

// HandleInput applies a UI event: the event is normalised, stored, and pushed
// to the host. Events are ignored while the control is disabled.
func (c *Control) HandleInput(event Event) {
	c.mu.Lock()
	if c.disabled {
		c.mu.Unlock()
		c.logger.Debug("control: input ignored while disabled", "id", c.attrs.ID)
		return
	}
	value := Normalize(c.kind, event)
	c.value = value
	c.mu.Unlock()

	c.host.ValueChanged(value)
}

// HandleBlur records a loss of focus. The host hears about it only on the
// untouched to touched transition.
func (c *Control) HandleBlur() {
	c.mu.Lock()
	if c.touched {
		c.mu.Unlock()
		return
	}
	c.touched = true
	c.mu.Unlock()

	c.host.Touched()
}

func (c *Control) Value() Value {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

func (c *Control) Touched() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.touched
}

func (c *Control) Disabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.disabled
}

// Error returns the host supplied error text, whether or not it is displayed.
func (c *Control) Error() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Invalid reports whether the error should be displayed: touched and an
// error is present.
func (c *Control) Invalid() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.touched && c.err != ""
}
