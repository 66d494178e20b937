package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formkit/pkg/control"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/upload"
)

const (
	noneOption = "(none)"
	nanMessage = "Enter a number"
)

// Renderer runs a terminal session against a form. Each answer is fed to the
// field's control as a UI event followed by a blur, so the form validates it
// exactly as it would for any other front end.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	maxAttempts       int
	logger            *slog.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		theme:        DefaultTheme,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if _, ok := ParseOutputFormat(string(r.outputFormat)); !ok {
		return nil, fmt.Errorf("tui: unknown output format %q", r.outputFormat)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render prompts for every enabled field in order, re-prompting while the
// field's error is showing, then submits the form and serializes the values.
func (r *Renderer) Render(ctx context.Context, f *form.Form, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}
	if f == nil {
		return nil, errors.New("tui: form is nil")
	}

	def := f.Definition()
	if def.Title != "" {
		if err := r.info(ctx, def.Title); err != nil {
			return nil, err
		}
	}

	for _, entry := range f.Entries() {
		var err error
		if entry.Upload != nil {
			err = r.promptUpload(ctx, f, entry)
		} else {
			err = r.promptInput(ctx, f, entry)
		}
		if err != nil {
			return nil, err
		}
	}

	values, err := f.Submit()
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}
	for _, hidden := range render.SortedHiddenFields(opts.Hidden) {
		values[hidden.Name] = hidden.Value
	}
	if r.submitTransformer != nil {
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	r.logger.Debug("tui: session complete", "form", def.ID, "fields", len(values))
	return r.serialize(values)
}

func (r *Renderer) promptInput(ctx context.Context, f *form.Form, entry form.Entry) error {
	c := entry.Input
	if c.Disabled() {
		return nil
	}
	for attempt := 1; ; attempt++ {
		view := c.View()
		event, err := r.ask(ctx, entry.Field, view)
		if err != nil {
			return err
		}
		c.HandleInput(event)
		c.HandleBlur()

		msg := f.ErrorMessage(entry.Name())
		if msg == "" && c.Mode() == control.ModeNumber {
			if n, ok := c.Value().AsNumber(); ok && math.IsNaN(n) {
				msg = nanMessage
			}
		}
		if msg == "" {
			return nil
		}
		if err := r.reject(ctx, entry.Name(), labelOf(view.Label, view.Name), msg, attempt); err != nil {
			return err
		}
	}
}

// ask prompts once according to the control's render mode and returns the
// answer as a UI event.
func (r *Renderer) ask(ctx context.Context, field form.FieldDef, view control.View) (control.Event, error) {
	label := labelOf(view.Label, view.Name)
	help := render.PlainText(view.Hint)

	switch view.Mode {
	case control.ModePassword:
		text, err := r.driver.Password(ctx, InputConfig{Message: label, Help: help})
		return control.Event{Text: text}, err
	case control.ModeTextArea:
		text, err := r.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: view.Text, Help: help})
		return control.Event{Text: text}, err
	case control.ModeCheckbox:
		checked, err := r.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: view.Checked, Help: help})
		return control.Event{Checked: checked}, err
	case control.ModeDropdown, control.ModeRadio:
		return r.choose(ctx, field, view, label, help)
	case control.ModeDate:
		help = strings.TrimSpace(help + " (YYYY-MM-DD)")
		fallthrough
	default:
		text, err := r.driver.Input(ctx, InputConfig{Message: label, Default: view.Text, Help: help})
		return control.Event{Text: text}, err
	}
}

func (r *Renderer) choose(ctx context.Context, field form.FieldDef, view control.View, label, help string) (control.Event, error) {
	var (
		labels     []string
		values     []string
		defaultIdx = -1
	)
	if view.Mode == control.ModeDropdown && !field.Required() {
		labels = append(labels, labelOf(view.Placeholder, noneOption))
		values = append(values, "")
		defaultIdx = 0
	}
	for _, opt := range view.Options {
		labels = append(labels, opt.Label)
		values = append(values, opt.Value)
		if opt.Selected {
			defaultIdx = len(values) - 1
		}
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      label,
		Options:      labels,
		DefaultIndex: defaultIdx,
		Help:         help,
	})
	if err != nil {
		return control.Event{}, err
	}
	if idx < 0 || idx >= len(values) {
		return control.Event{}, nil
	}
	return control.Event{Text: values[idx]}, nil
}

func (r *Renderer) promptUpload(ctx context.Context, f *form.Form, entry form.Entry) error {
	up := entry.Upload
	if up.Disabled() {
		return nil
	}
	view := up.View()
	label := labelOf(view.Label, view.Name)
	help := uploadHelp(view)

	for attempt := 1; ; attempt++ {
		answer, err := r.driver.Input(ctx, InputConfig{Message: label, Help: help})
		if err != nil {
			return err
		}

		files, problems := openFiles(up.Filter(), answer)
		for _, problem := range problems {
			if err := r.info(ctx, r.theme.ErrorPrefix+problem); err != nil {
				return err
			}
		}
		if len(files) > 0 {
			before := len(up.Value())
			up.AddFiles(files...)
			up.Wait()
			if added := len(up.Value()) - before; added < len(files) {
				if err := r.info(ctx, fmt.Sprintf("%s%d file(s) could not be read", r.theme.ErrorPrefix, len(files)-added)); err != nil {
					return err
				}
			}
		}
		up.HandleBlur()

		msg := f.ErrorMessage(entry.Name())
		if msg == "" {
			for _, rec := range up.Value() {
				if err := r.info(ctx, fmt.Sprintf("%s+ %s (%s)", r.theme.InfoPrefix, rec.Name, upload.FormatSize(rec.Size))); err != nil {
					return err
				}
			}
			return nil
		}
		if err := r.reject(ctx, entry.Name(), label, msg, attempt); err != nil {
			return err
		}
	}
}

// openFiles resolves a comma separated list of paths. Paths that cannot be
// opened or that the filter refuses are reported and skipped.
func openFiles(filter upload.Filter, answer string) ([]upload.File, []string) {
	var (
		files    []upload.File
		problems []string
	)
	for _, raw := range strings.Split(answer, ",") {
		path := strings.TrimSpace(raw)
		if path == "" {
			continue
		}
		file, err := upload.FileFromPath(path)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		if err := filter.Check(upload.NewRecord(file)); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", file.Name, err))
			continue
		}
		files = append(files, file)
	}
	return files, problems
}

func uploadHelp(view upload.View) string {
	parts := []string{"Comma separated file paths"}
	if view.Accept != "" {
		parts = append(parts, "accepted: "+view.Accept)
	}
	if view.MaxSize > 0 {
		parts = append(parts, "max "+upload.FormatSize(view.MaxSize)+" each")
	}
	if hint := render.PlainText(view.Hint); hint != "" {
		parts = append(parts, hint)
	}
	return strings.Join(parts, "; ")
}

func (r *Renderer) reject(ctx context.Context, name, label, msg string, attempt int) error {
	if err := r.info(ctx, r.theme.ErrorPrefix+label+": "+msg); err != nil {
		return err
	}
	r.logger.Debug("tui: answer rejected", "field", name, "attempt", attempt, "message", msg)
	if r.maxAttempts > 0 && attempt >= r.maxAttempts {
		return fmt.Errorf("%w: %s", ErrTooManyAttempts, name)
	}
	return nil
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, msg)
}

func labelOf(label, fallback string) string {
	if trimmed := strings.TrimSpace(label); trimmed != "" {
		return trimmed
	}
	return fallback
}

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		generic, err := toGeneric(values)
		if err != nil {
			return nil, fmt.Errorf("tui: encode values: %w", err)
		}
		return []byte(flattenForm(generic)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		payload, err := json.Marshal(values)
		if err != nil {
			return nil, fmt.Errorf("tui: encode values: %w", err)
		}
		return payload, nil
	}
}

func toGeneric(values map[string]any) (map[string]any, error) {
	payload, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	flatten("", values, flattened)
	return flattened.Encode()
}

func flatten(prefix string, value any, out url.Values) {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			next := key
			if prefix != "" {
				next = prefix + "." + key
			}
			flatten(next, val, out)
		}
	case []any:
		for idx, val := range v {
			if _, nested := val.(map[string]any); nested {
				flatten(fmt.Sprintf("%s[%d]", prefix, idx), val, out)
				continue
			}
			out.Add(prefix+"[]", scalarString(val))
		}
	default:
		out.Set(prefix, scalarString(v))
	}
}

func prettyPrint(values map[string]any) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "%s=%s\n", key, prettyValue(values[key]))
	}
	return b.String()
}

func prettyValue(value any) string {
	records, ok := value.([]upload.Record)
	if !ok {
		return scalarString(value)
	}
	if len(records) == 0 {
		return noneOption
	}
	parts := make([]string, len(records))
	for idx, rec := range records {
		parts[idx] = fmt.Sprintf("%s (%s)", rec.Name, upload.FormatSize(rec.Size))
	}
	return strings.Join(parts, ", ")
}

func scalarString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
