// Package template defines the seam between renderers and a template engine.
// The gotemplate subpackage provides the pongo2 backed implementation.
package template
