package form

import (
	"errors"
	"io"
	"math"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/control"
	"github.com/goliatone/go-formkit/pkg/upload"
)

func newDemoForm(t *testing.T, opts ...Option) *Form {
	t.Helper()
	f, err := New(DemoDefinition(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(f.Close)
	return f
}

func input(t *testing.T, f *Form, name, text string) {
	t.Helper()
	c, ok := f.Control(name)
	if !ok {
		t.Fatalf("control %q not found", name)
	}
	c.HandleInput(control.Event{Text: text})
}

func fillValid(t *testing.T, f *Form) {
	t.Helper()
	input(t, f, "fullName", "Jane Doe")
	input(t, f, "email", "jane@example.com")
	input(t, f, "password", "secret123")
	input(t, f, "age", "30")
	input(t, f, "country", "FR")
}

func TestDemoDefinitionFields(t *testing.T) {
	def := DemoDefinition()

	var names []string
	kinds := map[string]control.Kind{}
	for _, field := range def.Fields {
		names = append(names, field.Name)
		kinds[field.Name] = field.Kind
	}
	want := []string{"fullName", "email", "password", "age", "gender", "country", "bio", "newsletter", "birthDate", "attachments"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("field names mismatch (-want +got):\n%s", diff)
	}
	if kinds["attachments"] != control.KindFile || kinds["gender"] != control.KindRadio {
		t.Fatalf("unexpected kinds: %v", kinds)
	}
}

func TestNewSeedsDefaults(t *testing.T) {
	f := newDemoForm(t)

	values := f.Values()
	if values["gender"] != "M" {
		t.Fatalf("expected gender default M, got %v", values["gender"])
	}
	if values["newsletter"] != false {
		t.Fatalf("expected newsletter false, got %v", values["newsletter"])
	}
	if values["age"] != nil {
		t.Fatalf("expected age null, got %v", values["age"])
	}
	if records, ok := values["attachments"].([]upload.Record); !ok || len(records) != 0 {
		t.Fatalf("expected empty attachment list, got %#v", values["attachments"])
	}
	if _, ok := f.Upload("attachments"); !ok {
		t.Fatalf("expected attachments to be an upload control")
	}
	if _, ok := f.Control("attachments"); ok {
		t.Fatalf("attachments must not be an input control")
	}
}

func TestValidationMessages(t *testing.T) {
	cases := []struct {
		field string
		text  string
		want  string
	}{
		{field: "fullName", text: "", want: "This field is required"},
		{field: "fullName", text: "Al", want: "Minimum 3 characters"},
		{field: "fullName", text: "Alice", want: ""},
		{field: "email", text: "not-an-email", want: "Invalid email"},
		{field: "email", text: "jane@example.com", want: ""},
		{field: "password", text: "short", want: "Minimum 8 characters"},
		{field: "age", text: "16", want: "You must be at least 18 years old"},
		{field: "age", text: "18", want: ""},
		{field: "age", text: "", want: ""},
		{field: "country", text: "", want: "This field is required"},
		{field: "bio", text: "", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.field+"/"+tc.text, func(t *testing.T) {
			f := newDemoForm(t)
			input(t, f, tc.field, tc.text)
			if got := f.Errors(tc.field); got != tc.want {
				t.Fatalf("Errors(%q) = %q, want %q", tc.field, got, tc.want)
			}
		})
	}
}

func TestErrorHiddenUntilTouched(t *testing.T) {
	f := newDemoForm(t)
	c, _ := f.Control("fullName")

	if f.Errors("fullName") == "" {
		t.Fatalf("expected a pending required error")
	}
	if f.ErrorMessage("fullName") != "" || c.Invalid() {
		t.Fatalf("error must stay hidden before touch")
	}

	c.HandleBlur()
	if got := f.ErrorMessage("fullName"); got != "This field is required" {
		t.Fatalf("unexpected message %q", got)
	}
	if !c.Invalid() {
		t.Fatalf("expected control to be invalid after blur")
	}
}

func TestSubmitInvalidMarksAllTouched(t *testing.T) {
	f := newDemoForm(t)

	values, err := f.Submit()
	if values != nil {
		t.Fatalf("expected no values, got %v", values)
	}
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	var failed ValidationErrors
	if !errors.As(err, &failed) {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if diff := cmp.Diff([]string{"country", "email", "fullName", "password"}, failed.Fields()); diff != "" {
		t.Fatalf("failed fields mismatch (-want +got):\n%s", diff)
	}
	for _, entry := range f.Entries() {
		if !entry.Touched() {
			t.Fatalf("expected %q to be touched", entry.Name())
		}
	}
	if c, _ := f.Control("email"); !c.Invalid() {
		t.Fatalf("expected email to be invalid after submit")
	}
	if _, ok := f.Submitted(); ok {
		t.Fatalf("invalid submit must not store values")
	}
}

func TestSubmitValidStoresValues(t *testing.T) {
	f := newDemoForm(t)
	fillValid(t, f)

	if !f.Valid() {
		t.Fatalf("expected form to be valid")
	}
	values, err := f.Submit()
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if values["fullName"] != "Jane Doe" || values["age"] != float64(30) || values["country"] != "FR" {
		t.Fatalf("unexpected values: %v", values)
	}
	stored, ok := f.Submitted()
	if !ok {
		t.Fatalf("expected stored submission")
	}
	if diff := cmp.Diff(values, stored); diff != "" {
		t.Fatalf("stored submission mismatch (-want +got):\n%s", diff)
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	f := newDemoForm(t)
	fillValid(t, f)
	input(t, f, "gender", "F")
	newsletter, _ := f.Control("newsletter")
	newsletter.HandleInput(control.Event{Checked: true})
	newsletter.HandleBlur()
	if _, err := f.Submit(); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !f.Dirty() {
		t.Fatalf("expected dirty form")
	}

	f.Reset()

	values := f.Values()
	if values["gender"] != "M" || values["newsletter"] != false || values["fullName"] != "" {
		t.Fatalf("unexpected values after reset: %v", values)
	}
	if f.Dirty() {
		t.Fatalf("reset must clear dirty state")
	}
	if newsletter.Touched() {
		t.Fatalf("reset must clear touched state")
	}
	if _, ok := f.Submitted(); ok {
		t.Fatalf("reset must clear the stored submission")
	}
	if f.Errors("fullName") != "This field is required" {
		t.Fatalf("reset must recompute errors, got %q", f.Errors("fullName"))
	}
}

func TestDirtyTracksUserChangesOnly(t *testing.T) {
	f := newDemoForm(t)
	if err := f.Patch(map[string]any{"fullName": "Jane"}); err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if f.Dirty() {
		t.Fatalf("programmatic writes must not mark the form dirty")
	}
	if f.Errors("fullName") != "" {
		t.Fatalf("patched value should pass, got %q", f.Errors("fullName"))
	}

	input(t, f, "bio", "hello")
	if !f.Dirty() || !f.FieldDirty("bio") || f.FieldDirty("fullName") {
		t.Fatalf("unexpected dirty state")
	}
}

func TestPatchRejectsUnknownField(t *testing.T) {
	f := newDemoForm(t)
	err := f.Patch(map[string]any{"fullName": "Jane", "nickname": "JJ"})
	if err == nil || !strings.Contains(err.Error(), "nickname") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if f.Values()["fullName"] != "" {
		t.Fatalf("nothing should be written when a name is unknown")
	}
}

func TestUploadFieldNotifiesForm(t *testing.T) {
	var (
		mu      sync.Mutex
		changed []string
	)
	f := newDemoForm(t, WithChangeHook(func(field string) {
		mu.Lock()
		changed = append(changed, field)
		mu.Unlock()
	}))

	up, _ := f.Upload("attachments")
	up.AddFiles(upload.File{
		Name: "report.pdf",
		Size: 4,
		Type: "application/pdf",
		Open: func() (io.ReadCloser, error) { return io.NopCloser(strings.NewReader("%PDF")), nil },
	})

	records, _ := f.Values()["attachments"].([]upload.Record)
	if len(records) != 1 || records[0].Extension != "pdf" {
		t.Fatalf("unexpected attachments: %#v", records)
	}
	mu.Lock()
	defer mu.Unlock()
	if diff := cmp.Diff([]string{"attachments"}, changed); diff != "" {
		t.Fatalf("change hook mismatch (-want +got):\n%s", diff)
	}
	if !f.FieldDirty("attachments") {
		t.Fatalf("expected attachments to be dirty")
	}
}

func TestUploadFieldRejectionsReachHandler(t *testing.T) {
	var got []error
	f := newDemoForm(t, WithRejectHandler(func(field string, r upload.Rejection) {
		if field != "attachments" {
			t.Errorf("unexpected field %q", field)
		}
		got = append(got, r.Reason)
	}))

	up, _ := f.Upload("attachments")
	up.AddFiles(upload.File{Name: "notes.txt", Size: 10, Type: "text/plain"})

	if len(got) != 1 || !errors.Is(got[0], upload.ErrTypeNotAllowed) {
		t.Fatalf("expected one type rejection, got %v", got)
	}
	if len(up.Value()) != 0 {
		t.Fatalf("rejected file must not be in the value")
	}
}

func TestRequiredFileField(t *testing.T) {
	def := Definition{
		ID: "docs",
		Fields: []FieldDef{{
			Name:  "scan",
			Kind:  control.KindFile,
			Rules: []Rule{{Kind: RuleRequired}},
		}},
	}
	f, err := New(def)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer f.Close()

	if f.Errors("scan") != "This field is required" {
		t.Fatalf("expected required error, got %q", f.Errors("scan"))
	}
	if err := f.Patch(map[string]any{"scan": []upload.Record{{Name: "a.pdf", Extension: "pdf"}}}); err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if f.Errors("scan") != "" {
		t.Fatalf("expected no error after patch, got %q", f.Errors("scan"))
	}
}

func TestNaNSkipsBounds(t *testing.T) {
	f := newDemoForm(t)
	input(t, f, "age", "abc")
	if got := f.Errors("age"); got != "" {
		t.Fatalf("expected malformed number to skip bounds, got %q", got)
	}
}

func TestOverflowingNumberSkipsBounds(t *testing.T) {
	f := newDemoForm(t)
	for _, text := range []string{"1e400", "-1e400"} {
		input(t, f, "age", text)
		if got := f.Errors("age"); got != "" {
			t.Fatalf("age=%s: expected bounds to be skipped, got %q", text, got)
		}
		age, ok := f.Values()["age"].(float64)
		if !ok || !math.IsInf(age, 0) {
			t.Fatalf("age=%s: expected an infinite number, got %#v", text, f.Values()["age"])
		}
	}
}

func TestPatchRejectsMistypedUploadBeforeWriting(t *testing.T) {
	for run := 0; run < 20; run++ {
		f := newDemoForm(t)
		err := f.Patch(map[string]any{
			"fullName":    "Jane",
			"bio":         "hello",
			"age":         30,
			"attachments": "not-a-list",
		})
		if err == nil || !strings.Contains(err.Error(), "attachments") {
			t.Fatalf("expected attachments type error, got %v", err)
		}
		values := f.Values()
		if values["fullName"] != "" || values["bio"] != "" || values["age"] != nil {
			t.Fatalf("run %d: patch was partially applied: %#v", run, values)
		}
	}
}

func TestPatternRule(t *testing.T) {
	def := Definition{
		ID: "codes",
		Fields: []FieldDef{{
			Name:  "zip",
			Kind:  control.KindText,
			Rules: []Rule{{Kind: RulePattern, Value: "^[0-9]{5}$"}},
		}},
	}
	f, err := New(def)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	input(t, f, "zip", "12a45")
	if got := f.Errors("zip"); got != "Invalid format" {
		t.Fatalf("unexpected message %q", got)
	}
	input(t, f, "zip", "12345")
	if got := f.Errors("zip"); got != "" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestParseDefinition(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		def, err := ParseDefinition([]byte(`{"id":"x","fields":[{"name":"a","kind":"TEXT"}]}`), "x.json")
		if err != nil {
			t.Fatalf("ParseDefinition: %v", err)
		}
		if def.Fields[0].Kind != control.KindText {
			t.Fatalf("expected kind to normalise to text, got %q", def.Fields[0].Kind)
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := ParseDefinition([]byte("id: x\nfields:\n  - name: a\n    kind: slider\n"), "x.yaml")
		if err == nil || !strings.Contains(err.Error(), "slider") {
			t.Fatalf("expected unknown kind error, got %v", err)
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		_, err := ParseDefinition([]byte("id: x\nfields:\n  - name: a\n  - name: a\n"), "x.yaml")
		if err == nil || !strings.Contains(err.Error(), "duplicate") {
			t.Fatalf("expected duplicate error, got %v", err)
		}
	})

	t.Run("unknown rule", func(t *testing.T) {
		_, err := ParseDefinition([]byte("id: x\nfields:\n  - name: a\n    rules:\n      - kind: luhn\n"), "x.yaml")
		if err == nil {
			t.Fatalf("expected unknown rule error")
		}
	})

	t.Run("empty", func(t *testing.T) {
		if _, err := ParseDefinition([]byte("  "), "blank.yaml"); err == nil {
			t.Fatalf("expected empty definition error")
		}
	})
}

func TestLoadDefinition(t *testing.T) {
	fsys := fstest.MapFS{
		"forms/contact.yaml": {Data: []byte("id: contact\nfields:\n  - name: message\n    kind: textarea\n")},
	}
	def, err := LoadDefinition(fsys, "forms/contact.yaml")
	if err != nil {
		t.Fatalf("LoadDefinition: %v", err)
	}
	if def.ID != "contact" || def.Fields[0].Kind != control.KindTextarea {
		t.Fatalf("unexpected definition: %+v", def)
	}
	if _, err := LoadDefinition(fsys, "missing.yaml"); err == nil {
		t.Fatalf("expected missing file error")
	}
}

func TestValidationErrorsString(t *testing.T) {
	err := ValidationErrors{"b": "two", "a": "one"}
	want := "form: invalid submission: a: one; b: two"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}
