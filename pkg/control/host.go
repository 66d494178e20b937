package control

// Host is the form-side half of the binding contract. A control calls
// ValueChanged whenever the user edits its value through the UI and Touched
// once, on its first loss of focus. Programmatic writes never reach the host.
//
// Callbacks run on the goroutine that delivered the UI event. They may read
// from the control but must not push values back synchronously.
type Host[T any] interface {
	ValueChanged(value T)
	Touched()
}

// Funcs adapts plain functions into a Host. Nil fields are ignored.
type Funcs[T any] struct {
	Changed func(T)
	Blurred func()
}

func (f Funcs[T]) ValueChanged(value T) {
	if f.Changed != nil {
		f.Changed(value)
	}
}

func (f Funcs[T]) Touched() {
	if f.Blurred != nil {
		f.Blurred()
	}
}

// OnValueChange builds a Host that only listens to value changes.
func OnValueChange[T any](fn func(T)) Host[T] {
	return Funcs[T]{Changed: fn}
}

// OnTouched builds a Host that only listens to touch transitions.
func OnTouched[T any](fn func()) Host[T] {
	return Funcs[T]{Blurred: fn}
}

// Hosts fans notifications out to several hosts in order.
type Hosts[T any] []Host[T]

func (h Hosts[T]) ValueChanged(value T) {
	for _, host := range h {
		if host != nil {
			host.ValueChanged(value)
		}
	}
}

func (h Hosts[T]) Touched() {
	for _, host := range h {
		if host != nil {
			host.Touched()
		}
	}
}

type noopHost[T any] struct{}

func (noopHost[T]) ValueChanged(T) {}
func (noopHost[T]) Touched()       {}
