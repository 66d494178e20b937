package control

import (
	"errors"
	"math"
	"strconv"
)

// Event is a raw UI event as delivered by a front end. Text carries the
// element's textual value, Checked the checkbox state, Files the selection of
// a file input.
type Event struct {
	Text    string
	Checked bool
	Files   []File
}

// Normalize maps a raw event onto the Value shape for kind:
//
//   - checkbox: the checked state
//   - number: the parsed text, with "" mapped to null rather than zero
//   - file: the first selected file, or null
//   - everything else: the text, untouched
func Normalize(kind Kind, event Event) Value {
	switch kind {
	case KindCheckbox:
		return BoolValue(event.Checked)
	case KindNumber:
		return normalizeNumber(event.Text)
	case KindFile:
		if len(event.Files) == 0 {
			return NullValue()
		}
		return FileValue(event.Files[0])
	default:
		return StringValue(event.Text)
	}
}

// normalizeNumber does not guard malformed text: whatever the parse yields
// (NaN for garbage) is what the host sees.
func normalizeNumber(text string) Value {
	if text == "" {
		return NullValue()
	}
	n, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return NumberValue(math.NaN())
	}
	return NumberValue(n)
}
