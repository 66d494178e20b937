package form

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formkit/pkg/control"
)

// Rule kinds understood by the validator.
const (
	RuleRequired  = "required"
	RuleMinLength = "minLength"
	RuleMaxLength = "maxLength"
	RuleMin       = "min"
	RuleMax       = "max"
	RuleEmail     = "email"
	RulePattern   = "pattern"
)

// Rule is a single validation constraint. Value holds the threshold for
// length and numeric rules and the expression for patterns. Message overrides
// the default text; "{value}" is replaced with Value.
type Rule struct {
	Kind    string `json:"kind" yaml:"kind"`
	Value   any    `json:"value,omitempty" yaml:"value,omitempty"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// FieldDef declares one field of a form.
type FieldDef struct {
	Name        string          `json:"name" yaml:"name"`
	Kind        control.Kind    `json:"kind" yaml:"kind"`
	Label       string          `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string          `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Hint        string          `json:"hint,omitempty" yaml:"hint,omitempty"`
	Options     control.Catalog `json:"options,omitempty" yaml:"options,omitempty"`
	Default     any             `json:"default,omitempty" yaml:"default,omitempty"`
	Rules       []Rule          `json:"rules,omitempty" yaml:"rules,omitempty"`
	Disabled    bool            `json:"disabled,omitempty" yaml:"disabled,omitempty"`

	// File fields only.
	AllowedTypes []string `json:"allowedTypes,omitempty" yaml:"allowedTypes,omitempty"`
	MaxFileSize  int64    `json:"maxFileSize,omitempty" yaml:"maxFileSize,omitempty"`
	UploadURL    string   `json:"uploadUrl,omitempty" yaml:"uploadUrl,omitempty"`
}

// Required reports whether the field carries a required rule.
func (f FieldDef) Required() bool {
	return f.rule(RuleRequired) != nil
}

func (f FieldDef) rule(kind string) *Rule {
	for idx := range f.Rules {
		if f.Rules[idx].Kind == kind {
			return &f.Rules[idx]
		}
	}
	return nil
}

// Definition is the declarative description of a form.
type Definition struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title,omitempty" yaml:"title,omitempty"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	SubmitLabel string     `json:"submitLabel,omitempty" yaml:"submitLabel,omitempty"`
	ResetLabel  string     `json:"resetLabel,omitempty" yaml:"resetLabel,omitempty"`
	Fields      []FieldDef `json:"fields" yaml:"fields"`
}

// Validate checks names and kinds and normalises kind spelling in place.
func (d *Definition) Validate() error {
	if d == nil {
		return fmt.Errorf("form: definition is nil")
	}
	seen := make(map[string]struct{}, len(d.Fields))
	for idx := range d.Fields {
		field := &d.Fields[idx]
		field.Name = strings.TrimSpace(field.Name)
		if field.Name == "" {
			return fmt.Errorf("form: field %d has no name", idx)
		}
		if _, dup := seen[field.Name]; dup {
			return fmt.Errorf("form: duplicate field %q", field.Name)
		}
		seen[field.Name] = struct{}{}

		kind, err := control.ParseKind(string(field.Kind))
		if err != nil {
			return fmt.Errorf("form: field %q: %w", field.Name, err)
		}
		field.Kind = kind

		for _, rule := range field.Rules {
			if !knownRule(rule.Kind) {
				return fmt.Errorf("form: field %q: unknown rule %q", field.Name, rule.Kind)
			}
		}
	}
	return nil
}

func knownRule(kind string) bool {
	switch kind {
	case RuleRequired, RuleMinLength, RuleMaxLength, RuleMin, RuleMax, RuleEmail, RulePattern:
		return true
	default:
		return false
	}
}
