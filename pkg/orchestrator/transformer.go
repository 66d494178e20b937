package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-formkit/pkg/form"
)

// Transformer mutates a Definition before the form is built. Implementations
// can rename fields, relabel them, or perform arbitrary rewrites.
type Transformer interface {
	Transform(ctx context.Context, def *form.Definition) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, def *form.Definition) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, def *form.Definition) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, def)
}

// JSONPresetTransformer applies declarative overrides loaded from a JSON file.
// The document shape supports form-level text and per-field patches:
//
//	{
//	  "title": "Sign up",
//	  "fields": {
//	    "fullName": {"label": "Name", "hint": "As on your passport"},
//	    "bio": {"disabled": true}
//	  }
//	}
type JSONPresetTransformer struct {
	document jsonTransformDocument
}

type jsonTransformDocument struct {
	Title       string                    `json:"title"`
	Description string                    `json:"description"`
	SubmitLabel string                    `json:"submitLabel"`
	Fields      map[string]jsonFieldPatch `json:"fields"`
}

type jsonFieldPatch struct {
	Label       string `json:"label"`
	Hint        string `json:"hint"`
	Placeholder string `json:"placeholder"`
	Rename      string `json:"rename"`
	Disabled    *bool  `json:"disabled"`
	Default     any    `json:"default"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document jsonTransformDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the declarative patches onto the supplied definition.
func (t *JSONPresetTransformer) Transform(ctx context.Context, def *form.Definition) error {
	if def == nil {
		return errors.New("json preset transformer: definition is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if t.document.Title != "" {
		def.Title = t.document.Title
	}
	if t.document.Description != "" {
		def.Description = t.document.Description
	}
	if t.document.SubmitLabel != "" {
		def.SubmitLabel = t.document.SubmitLabel
	}

	for name, patch := range t.document.Fields {
		field := findField(def.Fields, name)
		if field == nil {
			return fmt.Errorf("json preset transformer: field %q not found", name)
		}
		applyFieldPatch(field, patch)
	}
	return nil
}

func applyFieldPatch(field *form.FieldDef, patch jsonFieldPatch) {
	if patch.Label != "" {
		field.Label = patch.Label
	}
	if patch.Hint != "" {
		field.Hint = patch.Hint
	}
	if patch.Placeholder != "" {
		field.Placeholder = patch.Placeholder
	}
	if patch.Disabled != nil {
		field.Disabled = *patch.Disabled
	}
	if patch.Default != nil {
		field.Default = patch.Default
	}
	if strings.TrimSpace(patch.Rename) != "" {
		field.Name = strings.TrimSpace(patch.Rename)
	}
}

func findField(fields []form.FieldDef, name string) *form.FieldDef {
	for idx := range fields {
		if fields[idx].Name == name {
			return &fields[idx]
		}
	}
	return nil
}

func mergeStringMap(dst, src map[string]string) {
	for key, value := range src {
		dst[key] = value
	}
}
