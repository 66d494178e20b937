package formkit

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-formkit/pkg/control"
	"github.com/goliatone/go-formkit/pkg/form"
)

func TestEmbeddedTemplatesContainsControls(t *testing.T) {
	fsys := EmbeddedTemplates()
	for _, name := range []string{"templates/form.tmpl", "templates/controls/upload.tmpl"} {
		if _, err := fs.ReadFile(fsys, name); err != nil {
			t.Fatalf("expected %s to be readable: %v", name, err)
		}
	}
}

func TestGenerateHTML(t *testing.T) {
	def := Definition{
		ID:    "contact",
		Title: "Contact",
		Fields: []form.FieldDef{
			{Name: "message", Kind: control.KindTextarea, Label: "Message"},
		},
	}
	out, err := GenerateHTML(context.Background(), def)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, `<form id="contact"`) || !strings.Contains(html, `<textarea`) {
		t.Fatalf("unexpected output:\n%s", html)
	}
}

func TestGenerateDemoHTML(t *testing.T) {
	out, err := GenerateDemoHTML(context.Background())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), `data-field="attachments"`) {
		t.Fatalf("expected demo attachments field")
	}
}
