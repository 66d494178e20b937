package control

import (
	"fmt"
	"strings"
)

// Kind selects how a control is presented and how its events are normalised.
// The set is closed; use the Kind* constants.
type Kind string

const (
	KindText     Kind = "text"
	KindPassword Kind = "password"
	KindEmail    Kind = "email"
	KindNumber   Kind = "number"
	KindSelect   Kind = "select"
	KindTextarea Kind = "textarea"
	KindCheckbox Kind = "checkbox"
	KindRadio    Kind = "radio"
	KindDate     Kind = "date"
	KindFile     Kind = "file"
)

// RenderMode identifies the single presentation chosen for a Kind.
type RenderMode string

const (
	ModeUnknown  RenderMode = ""
	ModeTextBox  RenderMode = "textbox"
	ModePassword RenderMode = "password"
	ModeEmail    RenderMode = "email"
	ModeNumber   RenderMode = "number"
	ModeDropdown RenderMode = "dropdown"
	ModeTextArea RenderMode = "textarea"
	ModeCheckbox RenderMode = "checkbox"
	ModeRadio    RenderMode = "radio"
	ModeDate     RenderMode = "date"
	ModeFile     RenderMode = "file"
)

var kinds = []Kind{
	KindText,
	KindPassword,
	KindEmail,
	KindNumber,
	KindSelect,
	KindTextarea,
	KindCheckbox,
	KindRadio,
	KindDate,
	KindFile,
}

// Kinds lists every supported kind in declaration order.
func Kinds() []Kind {
	return append([]Kind(nil), kinds...)
}

// ParseKind resolves a case-insensitive kind name. An empty name defaults to
// KindText.
func ParseKind(raw string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return KindText, nil
	}
	kind := Kind(name)
	if !kind.Valid() {
		return "", fmt.Errorf("control: unknown kind %q", raw)
	}
	return kind, nil
}

// Valid reports whether k belongs to the closed kind set.
func (k Kind) Valid() bool {
	return k.Mode() != ModeUnknown
}

// Mode returns the presentation for k. Every kind maps to exactly one mode.
func (k Kind) Mode() RenderMode {
	switch k {
	case KindText:
		return ModeTextBox
	case KindPassword:
		return ModePassword
	case KindEmail:
		return ModeEmail
	case KindNumber:
		return ModeNumber
	case KindSelect:
		return ModeDropdown
	case KindTextarea:
		return ModeTextArea
	case KindCheckbox:
		return ModeCheckbox
	case KindRadio:
		return ModeRadio
	case KindDate:
		return ModeDate
	case KindFile:
		return ModeFile
	default:
		return ModeUnknown
	}
}

// InputType returns the HTML input type attribute for modes rendered with an
// <input> element, or "" for select/textarea/radio group.
func (m RenderMode) InputType() string {
	switch m {
	case ModeTextBox:
		return "text"
	case ModePassword:
		return "password"
	case ModeEmail:
		return "email"
	case ModeNumber:
		return "number"
	case ModeCheckbox:
		return "checkbox"
	case ModeDate:
		return "date"
	case ModeFile:
		return "file"
	default:
		return ""
	}
}

// UsesOptions reports whether the mode is populated from an option catalog.
func (m RenderMode) UsesOptions() bool {
	return m == ModeDropdown || m == ModeRadio
}
