// Package httpform serves a form as a page. Posted fields become UI events on
// the form's controls (input followed by blur), uploaded parts are ingested
// by file controls, and the response is re-rendered from control state.
//
// One handler owns one form; requests are applied one at a time.
package httpform
