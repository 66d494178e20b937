// Package orchestrator wires the definition → form → renderer pipeline,
// providing dependency injection friendly helpers for consumers that prefer a
// single entry point.
package orchestrator
