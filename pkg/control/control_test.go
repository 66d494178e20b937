package control

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type recordingHost struct {
	changes []Value
	touches int
}

func (h *recordingHost) ValueChanged(v Value) { h.changes = append(h.changes, v) }
func (h *recordingHost) Touched()             { h.touches++ }

func TestControlPushesUserInputUpstream(t *testing.T) {
	host := &recordingHost{}
	ctrl := MustNew(KindText, WithLabel("Test Label"), WithHost(host))

	ctrl.HandleInput(Event{Text: "Hello"})

	if len(host.changes) != 1 || !host.changes[0].Equal(StringValue("Hello")) {
		t.Fatalf("expected one change with Hello, got %+v", host.changes)
	}
	if !ctrl.Value().Equal(StringValue("Hello")) {
		t.Fatalf("control value not updated")
	}
}

func TestSetValueDoesNotNotifyHost(t *testing.T) {
	host := &recordingHost{}
	ctrl := MustNew(KindNumber, WithHost(host))

	ctrl.SetValue(NumberValue(21))

	if got := ctrl.Value(); !got.Equal(NumberValue(21)) {
		t.Fatalf("round trip: got %v", got.Interface())
	}
	if len(host.changes) != 0 {
		t.Fatalf("programmatic set must not notify host, got %d changes", len(host.changes))
	}
	if got := ctrl.View().Text; got != "21" {
		t.Fatalf("view should reflect pushed value, got %q", got)
	}
}

func TestBlurNotifiesOnceAndStaysTouched(t *testing.T) {
	host := &recordingHost{}
	ctrl := MustNew(KindEmail, WithHost(host))

	ctrl.HandleBlur()
	ctrl.HandleBlur()
	ctrl.HandleInput(Event{Text: "x"})
	ctrl.HandleBlur()

	if host.touches != 1 {
		t.Fatalf("expected exactly one touched notification, got %d", host.touches)
	}
	if !ctrl.Touched() {
		t.Fatalf("expected touched")
	}

	ctrl.Reset()
	if ctrl.Touched() {
		t.Fatalf("reset should clear touched")
	}
	ctrl.HandleBlur()
	if host.touches != 2 {
		t.Fatalf("expected a second notification after reset, got %d", host.touches)
	}
}

func TestInvalidRequiresTouchedAndError(t *testing.T) {
	cases := []struct {
		touched bool
		err     string
		want    bool
	}{
		{false, "", false},
		{false, "Invalid email", false},
		{true, "", false},
		{true, "Invalid email", true},
	}
	for _, tc := range cases {
		ctrl := MustNew(KindEmail, WithError(tc.err))
		if tc.touched {
			ctrl.HandleBlur()
		}
		if got := ctrl.Invalid(); got != tc.want {
			t.Fatalf("touched=%v err=%q: want invalid=%v, got %v", tc.touched, tc.err, tc.want, got)
		}
		view := ctrl.View()
		if view.Invalid != tc.want {
			t.Fatalf("view invalid mismatch for touched=%v err=%q", tc.touched, tc.err)
		}
		if tc.want && view.Error != tc.err {
			t.Fatalf("expected view error %q, got %q", tc.err, view.Error)
		}
		if !tc.want && view.Error != "" {
			t.Fatalf("error text must be hidden, got %q", view.Error)
		}
	}
}

func TestDisabledControlRejectsInput(t *testing.T) {
	host := &recordingHost{}
	ctrl := MustNew(KindText, WithHost(host), WithValue(StringValue("keep")))

	ctrl.SetDisabled(true)
	ctrl.HandleInput(Event{Text: "changed"})

	if !ctrl.Value().Equal(StringValue("keep")) {
		t.Fatalf("disabled control accepted input")
	}
	if len(host.changes) != 0 {
		t.Fatalf("disabled control notified host")
	}

	ctrl.SetDisabled(false)
	ctrl.HandleInput(Event{Text: "changed"})
	if !ctrl.Value().Equal(StringValue("changed")) {
		t.Fatalf("re-enabled control ignored input")
	}
}

func TestFallbackIDsAreUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 500; i++ {
		id := MustNew(KindText).ID()
		if !strings.HasPrefix(id, "input-") {
			t.Fatalf("unexpected id %q", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}

	if got := MustNew(KindText, WithID("email")).ID(); got != "email" {
		t.Fatalf("explicit id ignored, got %q", got)
	}
}

func TestViewResolvesSelectedOption(t *testing.T) {
	ctrl := MustNew(KindRadio,
		WithID("gender"),
		WithName("gender"),
		WithOptions(Catalog{
			{Label: "Male", Value: "M"},
			{Label: "Female", Value: "F"},
			{Label: "Other", Value: "O"},
		}),
		WithValue(StringValue("F")),
	)

	want := []OptionView{
		{ID: "gender-0", Label: "Male", Value: "M"},
		{ID: "gender-1", Label: "Female", Value: "F", Selected: true},
		{ID: "gender-2", Label: "Other", Value: "O"},
	}
	if diff := cmp.Diff(want, ctrl.View().Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckboxDefaultsToFalse(t *testing.T) {
	ctrl := MustNew(KindCheckbox)
	if !ctrl.Value().Equal(BoolValue(false)) {
		t.Fatalf("checkbox should start unchecked, got %s", ctrl.Value().Type())
	}
	ctrl.HandleInput(Event{Checked: true})
	if !ctrl.View().Checked {
		t.Fatalf("view should report checked")
	}
}

func TestFuncsAndHostsFanOut(t *testing.T) {
	var changed []Value
	var touched int
	hosts := Hosts[Value]{
		OnValueChange(func(v Value) { changed = append(changed, v) }),
		OnTouched[Value](func() { touched++ }),
		nil,
	}
	ctrl := MustNew(KindText, WithHost(hosts))
	ctrl.HandleInput(Event{Text: "a"})
	ctrl.HandleBlur()

	if len(changed) != 1 || touched != 1 {
		t.Fatalf("fan out failed: changed=%d touched=%d", len(changed), touched)
	}
}
