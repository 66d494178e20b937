package form

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-formkit/pkg/control"
	"github.com/goliatone/go-formkit/pkg/upload"
)

// messagePriority orders competing failures; the first match is shown.
var messagePriority = []string{
	RuleRequired,
	RuleEmail,
	RuleMinLength,
	RuleMaxLength,
	RuleMin,
	RuleMax,
	RulePattern,
}

var defaultMessages = map[string]string{
	RuleRequired:  "This field is required",
	RuleEmail:     "Invalid email",
	RuleMinLength: "Minimum {value} characters",
	RuleMaxLength: "Maximum {value} characters",
	RuleMin:       "Must be at least {value}",
	RuleMax:       "Must be at most {value}",
	RulePattern:   "Invalid format",
}

// keywordRules maps JSON Schema keywords back onto rule kinds.
var keywordRules = map[string]string{
	"format":    RuleEmail,
	"minLength": RuleMinLength,
	"maxLength": RuleMaxLength,
	"minimum":   RuleMin,
	"maximum":   RuleMax,
	"pattern":   RulePattern,
}

// fieldValidator checks one field's value against its rules.
type fieldValidator struct {
	field  FieldDef
	schema *jsonschema.Schema
}

func newFieldValidator(field FieldDef) (*fieldValidator, error) {
	v := &fieldValidator{field: field}
	doc := fieldSchema(field)
	if len(doc) <= 1 {
		return v, nil
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("form: field %q: marshal schema: %w", field.Name, err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true
	url := "formkit://fields/" + field.Name + ".json"
	if err := compiler.AddResource(url, bytes.NewReader(payload)); err != nil {
		return nil, fmt.Errorf("form: field %q: add schema: %w", field.Name, err)
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("form: field %q: compile schema: %w", field.Name, err)
	}
	v.schema = schema
	return v, nil
}

// fieldSchema translates rules into a JSON Schema document. Rules that do not
// apply to the field's kind are skipped.
func fieldSchema(field FieldDef) map[string]any {
	doc := map[string]any{}
	switch field.Kind {
	case control.KindNumber:
		doc["type"] = "number"
	case control.KindCheckbox:
		doc["type"] = "boolean"
		return doc
	case control.KindFile:
		doc["type"] = "array"
		return doc
	default:
		doc["type"] = "string"
	}

	for _, rule := range field.Rules {
		switch rule.Kind {
		case RuleMinLength, RuleMaxLength:
			if field.Kind == control.KindNumber {
				continue
			}
			if n, ok := ruleNumber(rule.Value); ok {
				doc[rule.Kind] = int(n)
			}
		case RuleMin, RuleMax:
			if field.Kind != control.KindNumber {
				continue
			}
			if n, ok := ruleNumber(rule.Value); ok {
				if rule.Kind == RuleMin {
					doc["minimum"] = n
				} else {
					doc["maximum"] = n
				}
			}
		case RuleEmail:
			if field.Kind != control.KindNumber {
				doc["format"] = "email"
			}
		case RulePattern:
			if expr, ok := rule.Value.(string); ok && expr != "" && field.Kind != control.KindNumber {
				doc["pattern"] = expr
			}
		}
	}
	return doc
}

// check returns the message for the highest priority failure, or "".
func (v *fieldValidator) check(value any) string {
	if isEmpty(value) {
		if v.field.Required() {
			return v.message(RuleRequired)
		}
		return ""
	}
	if v.schema == nil {
		return ""
	}
	// Non-finite numbers never compare against a bound.
	if n, ok := value.(float64); ok && (math.IsNaN(n) || math.IsInf(n, 0)) {
		return ""
	}
	err := v.schema.Validate(value)
	if err == nil {
		return ""
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return err.Error()
	}
	failed := make(map[string]struct{})
	collectFailedRules(verr, failed)
	for _, kind := range messagePriority {
		if _, ok := failed[kind]; ok {
			return v.message(kind)
		}
	}
	return strings.TrimSpace(verr.Message)
}

func (v *fieldValidator) message(kind string) string {
	template := defaultMessages[kind]
	var value any
	if rule := v.field.rule(kind); rule != nil {
		if rule.Message != "" {
			template = rule.Message
		}
		value = rule.Value
	}
	return strings.ReplaceAll(template, "{value}", control.OptionString(value))
}

func collectFailedRules(verr *jsonschema.ValidationError, out map[string]struct{}) {
	if verr == nil {
		return
	}
	location := verr.KeywordLocation
	if idx := strings.LastIndexByte(location, '/'); idx >= 0 {
		if kind, ok := keywordRules[location[idx+1:]]; ok {
			out[kind] = struct{}{}
		}
	}
	for _, cause := range verr.Causes {
		collectFailedRules(cause, out)
	}
}

func ruleNumber(raw any) (float64, bool) {
	switch typed := raw.(type) {
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case float64:
		return typed, true
	case json.Number:
		n, err := typed.Float64()
		return n, err == nil
	default:
		return 0, false
	}
}

// isEmpty decides what "required" rejects: null, the empty string, and empty
// lists. An unchecked checkbox is a present value.
func isEmpty(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return typed == ""
	case []upload.Record:
		return len(typed) == 0
	case []any:
		return len(typed) == 0
	default:
		return false
	}
}
