package form

import (
	"errors"
	"sort"
	"strings"
)

// ErrInvalid is matched by errors.Is for every failed submission.
var ErrInvalid = errors.New("form: invalid submission")

// ValidationErrors maps field names to the message currently failing.
type ValidationErrors map[string]string

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ErrInvalid.Error()
	}
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(ErrInvalid.Error())
	b.WriteString(": ")
	for idx, name := range names {
		if idx > 0 {
			b.WriteString("; ")
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(e[name])
	}
	return b.String()
}

func (e ValidationErrors) Is(target error) bool {
	return target == ErrInvalid
}

// Fields returns the failing field names in sorted order.
func (e ValidationErrors) Fields() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
