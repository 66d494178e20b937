package control

import (
	"fmt"
	"strconv"
)

// SelectOption is a single label/value pair offered by select and radio
// controls. Value holds a string, a number, or a bool.
type SelectOption struct {
	Label string `json:"label" yaml:"label"`
	Value any    `json:"value" yaml:"value"`
}

// Catalog is an ordered, externally supplied list of options.
type Catalog []SelectOption

// Labels returns the option labels in order.
func (c Catalog) Labels() []string {
	out := make([]string, len(c))
	for idx, opt := range c {
		out[idx] = opt.Label
	}
	return out
}

// Index returns the position of the option whose value matches v, or -1.
// Values are compared through their submitted string form so a select posting
// "18" matches an option declared with the number 18.
func (c Catalog) Index(v any) int {
	want := OptionString(v)
	for idx, opt := range c {
		if OptionString(opt.Value) == want {
			return idx
		}
	}
	return -1
}

// Lookup maps a submitted string back to the typed option value.
func (c Catalog) Lookup(raw string) (any, bool) {
	for _, opt := range c {
		if OptionString(opt.Value) == raw {
			return opt.Value, true
		}
	}
	return nil, false
}

// OptionString renders an option value the way it travels through a form
// submission.
func OptionString(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return fmt.Sprint(typed)
	}
}
