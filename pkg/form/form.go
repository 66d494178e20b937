package form

import (
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"github.com/goliatone/go-formkit/pkg/control"
	"github.com/goliatone/go-formkit/pkg/upload"
)

// Entry pairs a field definition with the control created for it. Exactly one
// of Input and Upload is set.
type Entry struct {
	Field  FieldDef
	Input  *control.Control
	Upload *upload.Control
}

// Name returns the field name.
func (e Entry) Name() string { return e.Field.Name }

// Touched reports the control's touched flag.
func (e Entry) Touched() bool {
	if e.Upload != nil {
		return e.Upload.Touched()
	}
	return e.Input.Touched()
}

// Error returns the error text currently pushed into the control.
func (e Entry) Error() string {
	if e.Upload != nil {
		return e.Upload.Error()
	}
	return e.Input.Error()
}

// Value returns the control value unwrapped for submission.
func (e Entry) Value() any {
	if e.Upload != nil {
		return e.Upload.Value()
	}
	return e.Input.Value().Interface()
}

func (e Entry) setError(message string) {
	if e.Upload != nil {
		e.Upload.SetError(message)
		return
	}
	e.Input.SetError(message)
}

func (e Entry) markTouched() {
	if e.Upload != nil {
		e.Upload.MarkTouched()
		return
	}
	e.Input.MarkTouched()
}

func (e Entry) reset() {
	if e.Upload != nil {
		e.Upload.SetValue(nil)
		e.Upload.Reset()
		return
	}
	e.Input.SetValue(defaultValue(e.Field))
	e.Input.Reset()
}

// Form hosts a set of controls built from a Definition.
type Form struct {
	def    Definition
	logger *slog.Logger

	reader       upload.Reader
	onReject     func(string, upload.Rejection)
	onChange     func(string)
	maxFileSize  int64
	allowedTypes []string

	entries    []Entry
	byName     map[string]int
	validators map[string]*fieldValidator

	// mu guards the form's own state only; it is never held while calling
	// into a control.
	mu        sync.Mutex
	dirty     map[string]bool
	submitted map[string]any
}

// New builds a form and its controls. Initial values come from field
// defaults; initial errors are computed but stay hidden until touched.
func New(def Definition, options ...Option) (*Form, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	f := &Form{
		def:         def,
		logger:      discardLogger(),
		maxFileSize: upload.DefaultMaxFileSize,
		byName:      make(map[string]int, len(def.Fields)),
		validators:  make(map[string]*fieldValidator, len(def.Fields)),
		dirty:       make(map[string]bool),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}

	for _, field := range def.Fields {
		validator, err := newFieldValidator(field)
		if err != nil {
			return nil, err
		}
		f.validators[field.Name] = validator

		entry, err := f.buildEntry(field)
		if err != nil {
			return nil, err
		}
		f.byName[field.Name] = len(f.entries)
		f.entries = append(f.entries, entry)
	}

	for _, entry := range f.entries {
		f.revalidate(entry)
	}
	f.logger.Debug("form: constructed", "form", def.ID, "fields", len(f.entries))
	return f, nil
}

func (f *Form) buildEntry(field FieldDef) (Entry, error) {
	entry := Entry{Field: field}
	if field.Kind == control.KindFile {
		opts := []upload.Option{
			upload.WithID(field.Name),
			upload.WithName(field.Name),
			upload.WithLabel(field.Label),
			upload.WithHint(field.Hint),
			upload.WithUploadURL(field.UploadURL),
			upload.WithLogger(f.logger),
			upload.WithHost(uploadHost{form: f, name: field.Name}),
			upload.WithMaxFileSize(firstPositive(field.MaxFileSize, f.maxFileSize)),
		}
		if types := firstNonEmpty(field.AllowedTypes, f.allowedTypes); len(types) > 0 {
			opts = append(opts, upload.WithAllowedTypes(types...))
		}
		if f.reader != nil {
			opts = append(opts, upload.WithReader(f.reader))
		}
		if f.onReject != nil {
			name := field.Name
			opts = append(opts, upload.WithRejectHandler(func(r upload.Rejection) {
				f.onReject(name, r)
			}))
		}
		entry.Upload = upload.New(opts...)
		entry.Upload.SetDisabled(field.Disabled)
		return entry, nil
	}

	input, err := control.New(field.Kind,
		control.WithID(field.Name),
		control.WithName(field.Name),
		control.WithLabel(field.Label),
		control.WithPlaceholder(field.Placeholder),
		control.WithHint(field.Hint),
		control.WithOptions(field.Options),
		control.WithValue(defaultValue(field)),
		control.WithLogger(f.logger),
		control.WithHost(inputHost{form: f, name: field.Name}),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("form: field %q: %w", field.Name, err)
	}
	input.SetDisabled(field.Disabled)
	entry.Input = input
	return entry, nil
}

// Definition returns the definition the form was built from.
func (f *Form) Definition() Definition { return f.def }

// Entries returns the fields and their controls in declaration order.
func (f *Form) Entries() []Entry {
	return append([]Entry(nil), f.entries...)
}

// Entry looks up a field by name.
func (f *Form) Entry(name string) (Entry, bool) {
	idx, ok := f.byName[name]
	if !ok {
		return Entry{}, false
	}
	return f.entries[idx], true
}

// Control returns the input control for a non-file field.
func (f *Form) Control(name string) (*control.Control, bool) {
	entry, ok := f.Entry(name)
	if !ok || entry.Input == nil {
		return nil, false
	}
	return entry.Input, true
}

// Upload returns the upload control for a file field.
func (f *Form) Upload(name string) (*upload.Control, bool) {
	entry, ok := f.Entry(name)
	if !ok || entry.Upload == nil {
		return nil, false
	}
	return entry.Upload, true
}

// Values snapshots every field value keyed by name.
func (f *Form) Values() map[string]any {
	out := make(map[string]any, len(f.entries))
	for _, entry := range f.entries {
		out[entry.Name()] = entry.Value()
	}
	return out
}

// Validate re-evaluates every field, pushes the messages into the controls,
// and returns the failing fields.
func (f *Form) Validate() ValidationErrors {
	failed := ValidationErrors{}
	for _, entry := range f.entries {
		if msg := f.revalidate(entry); msg != "" {
			failed[entry.Name()] = msg
		}
	}
	return failed
}

// Valid reports whether every field passes its rules.
func (f *Form) Valid() bool {
	return len(f.Validate()) == 0
}

// Errors returns the current message for name whether or not it is shown.
func (f *Form) Errors(name string) string {
	entry, ok := f.Entry(name)
	if !ok {
		return ""
	}
	return entry.Error()
}

// ErrorMessage returns the message for name only once the field is touched.
func (f *Form) ErrorMessage(name string) string {
	entry, ok := f.Entry(name)
	if !ok || !entry.Touched() {
		return ""
	}
	return entry.Error()
}

// Dirty reports whether the user changed any field since the last reset.
func (f *Form) Dirty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, dirty := range f.dirty {
		if dirty {
			return true
		}
	}
	return false
}

// FieldDirty reports whether the user changed name since the last reset.
func (f *Form) FieldDirty(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dirty[name]
}

// MarkAllAsTouched reveals every pending error.
func (f *Form) MarkAllAsTouched() {
	for _, entry := range f.entries {
		entry.markTouched()
	}
}

// Submit validates the form. A valid form's values are stored and returned;
// an invalid form has every control marked touched and returns
// ValidationErrors, which matches ErrInvalid.
func (f *Form) Submit() (map[string]any, error) {
	if failed := f.Validate(); len(failed) > 0 {
		f.MarkAllAsTouched()
		f.logger.Debug("form: submission rejected", "form", f.def.ID, "fields", failed.Fields())
		return nil, failed
	}
	values := f.Values()

	f.mu.Lock()
	f.submitted = maps.Clone(values)
	f.mu.Unlock()

	f.logger.Info("form: submitted", "form", f.def.ID)
	return values, nil
}

// Submitted returns the last accepted submission.
func (f *Form) Submitted() (map[string]any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitted == nil {
		return nil, false
	}
	return maps.Clone(f.submitted), true
}

// Reset restores defaults, clears touched and dirty state, and drops the
// stored submission. Controls are not notified of the restored values.
func (f *Form) Reset() {
	for _, entry := range f.entries {
		entry.reset()
		f.revalidate(entry)
	}
	f.mu.Lock()
	f.dirty = make(map[string]bool)
	f.submitted = nil
	f.mu.Unlock()
}

// Patch writes values programmatically. Unknown names and mistyped upload
// values are rejected before anything is written.
func (f *Form) Patch(values map[string]any) error {
	type patch struct {
		entry   Entry
		value   control.Value
		records []upload.Record
	}
	patches := make([]patch, 0, len(values))
	for name, raw := range values {
		entry, ok := f.Entry(name)
		if !ok {
			return fmt.Errorf("form: unknown field %q", name)
		}
		p := patch{entry: entry}
		if entry.Upload != nil {
			records, ok := raw.([]upload.Record)
			if !ok && raw != nil {
				return fmt.Errorf("form: field %q expects []upload.Record, got %T", name, raw)
			}
			p.records = records
		} else {
			p.value = control.Coerce(entry.Field.Kind, raw)
		}
		patches = append(patches, p)
	}
	for _, p := range patches {
		if p.entry.Upload != nil {
			p.entry.Upload.SetValue(p.records)
		} else {
			p.entry.Input.SetValue(p.value)
		}
		f.revalidate(p.entry)
	}
	return nil
}

// Close stops pending preview reads on every file field.
func (f *Form) Close() {
	for _, entry := range f.entries {
		if entry.Upload != nil {
			entry.Upload.Close()
		}
	}
}

func (f *Form) revalidate(entry Entry) string {
	validator := f.validators[entry.Name()]
	if validator == nil {
		return ""
	}
	msg := validator.check(entry.Value())
	entry.setError(msg)
	return msg
}

func (f *Form) changed(name string) {
	entry, ok := f.Entry(name)
	if !ok {
		return
	}
	f.revalidate(entry)

	f.mu.Lock()
	f.dirty[name] = true
	f.mu.Unlock()

	if f.onChange != nil {
		f.onChange(name)
	}
}

func (f *Form) touched(name string) {
	entry, ok := f.Entry(name)
	if !ok {
		return
	}
	f.revalidate(entry)
	if f.onChange != nil {
		f.onChange(name)
	}
}

type inputHost struct {
	form *Form
	name string
}

func (h inputHost) ValueChanged(control.Value) { h.form.changed(h.name) }
func (h inputHost) Touched()                   { h.form.touched(h.name) }

type uploadHost struct {
	form *Form
	name string
}

func (h uploadHost) ValueChanged([]upload.Record) { h.form.changed(h.name) }
func (h uploadHost) Touched()                     { h.form.touched(h.name) }

func defaultValue(field FieldDef) control.Value {
	value := control.Coerce(field.Kind, field.Default)
	if value.IsNull() && field.Kind == control.KindCheckbox {
		return control.BoolValue(false)
	}
	return value
}

func firstPositive(values ...int64) int64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

func firstNonEmpty(lists ...[]string) []string {
	for _, list := range lists {
		if len(list) > 0 {
			return list
		}
	}
	return nil
}
