package render

import (
	theme "github.com/goliatone/go-theme"
)

// RenderOptions carry per-request presentation settings. They never change
// control state.
type RenderOptions struct {
	// Action and Method populate the <form> element. Method defaults to POST.
	Action string
	Method string
	// Hidden fields are emitted sorted by name, e.g. a CSRF token.
	Hidden []HiddenField
	// Theme supplies partial overrides, class tokens, CSS variables and an
	// asset resolver.
	Theme *theme.RendererConfig
	// Submitted, when set, is rendered as a JSON summary below the form.
	Submitted map[string]any
}
