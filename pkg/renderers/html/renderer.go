package html

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/goliatone/go-formkit/pkg/control"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/render"
	rendertemplate "github.com/goliatone/go-formkit/pkg/render/template"
	"github.com/goliatone/go-formkit/pkg/render/template/gotemplate"
)

const (
	formTemplate   = "templates/form.tmpl"
	uploadTemplate = "templates/controls/upload.tmpl"

	defaultMethod = "POST"
)

// Option configures the renderer.
type Option func(*config)

type config struct {
	overrides        []fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	logger           *slog.Logger
}

// WithTemplatesFS layers a bundle over the built-in templates. Files with the
// same path replace the defaults.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.overrides = append(cfg.overrides, files)
		}
	}
}

// WithTemplatesDir layers templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if strings.TrimSpace(path) == "" {
			return
		}
		cfg.overrides = append(cfg.overrides, os.DirFS(path))
	}
}

// WithTemplateRenderer replaces the template engine entirely.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Renderer produces server-side HTML for a form.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	logger    *slog.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engineOpts := []gotemplate.Option{
			gotemplate.WithFS(TemplatesFS()),
			gotemplate.WithExtension(".tmpl"),
		}
		for _, override := range cfg.overrides {
			engineOpts = append(engineOpts, gotemplate.WithFS(override))
		}
		engine, err := gotemplate.New(engineOpts...)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	return &Renderer{templates: templates, logger: cfg.logger}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render emits the form markup. Error text appears only for controls that are
// both touched and failing.
func (r *Renderer) Render(ctx context.Context, f *form.Form, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}
	if f == nil {
		return nil, fmt.Errorf("html renderer: form is nil")
	}

	theme := render.BuildTheme(options.Theme)
	classes := classTokens(theme)

	entries := f.Entries()
	fields := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		field, err := r.renderEntry(entry, theme, classes)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}

	def := f.Definition()
	method := strings.ToUpper(strings.TrimSpace(options.Method))
	if method == "" {
		method = defaultMethod
	}
	data := map[string]any{
		"form": map[string]any{
			"id":          def.ID,
			"title":       def.Title,
			"description": def.Description,
			"action":      options.Action,
			"method":      method,
			"submitLabel": labelOr(def.SubmitLabel, "Submit"),
			"resetLabel":  labelOr(def.ResetLabel, "Reset"),
		},
		"fields":       fields,
		"hiddenFields": render.SortedHiddenFields(options.Hidden),
		"theme":        theme,
	}
	if len(options.Submitted) > 0 {
		payload, err := json.MarshalIndent(render.Finite(options.Submitted), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("html renderer: encode submission: %w", err)
		}
		data["submitted"] = string(payload)
	}

	result, err := r.templates.RenderTemplate(theme.Partial("form", formTemplate), data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render form: %w", err)
	}
	r.logger.Debug("html renderer: rendered form", "form", def.ID, "fields", len(fields), "bytes", len(result))
	return []byte(result), nil
}

func (r *Renderer) renderEntry(entry form.Entry, theme render.Theme, classes map[string]string) (map[string]any, error) {
	var (
		tmpl  string
		data  map[string]any
		field = map[string]any{"name": entry.Name()}
	)

	if entry.Upload != nil {
		view := entry.Upload.View()
		tmpl = theme.Partial("controls.upload", uploadTemplate)
		data = map[string]any{"field": view, "classes": classes}
		field["id"] = view.ID
		field["mode"] = string(control.ModeFile)
		field["hint"] = render.SanitizeHint(view.Hint)
		field["error"] = view.Error
	} else {
		view := entry.Input.View()
		tmpl = theme.Partial("controls."+string(view.Mode), ControlTemplate(view.Mode))
		data = map[string]any{"field": view, "classes": classes}
		field["id"] = view.ID
		field["mode"] = string(view.Mode)
		field["hint"] = render.SanitizeHint(view.Hint)
		field["error"] = view.Error
	}

	html, err := r.templates.RenderTemplate(tmpl, data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render field %q: %w", entry.Name(), err)
	}
	field["html"] = strings.TrimSpace(html)
	return field, nil
}

// ControlTemplate returns the built-in template path for a render mode.
func ControlTemplate(mode control.RenderMode) string {
	switch mode {
	case control.ModeDropdown:
		return "templates/controls/dropdown.tmpl"
	case control.ModeTextArea:
		return "templates/controls/textarea.tmpl"
	case control.ModeCheckbox:
		return "templates/controls/checkbox.tmpl"
	case control.ModeRadio:
		return "templates/controls/radio.tmpl"
	default:
		return "templates/controls/input.tmpl"
	}
}

func classTokens(theme render.Theme) map[string]string {
	return map[string]string{
		"label":  theme.Token("label.class", "form-label"),
		"input":  theme.Token("input.class", "form-control"),
		"select": theme.Token("select.class", "form-select"),
		"check":  theme.Token("check.class", "form-check-input"),
	}
}

func labelOr(label, fallback string) string {
	if trimmed := strings.TrimSpace(label); trimmed != "" {
		return trimmed
	}
	return fallback
}
