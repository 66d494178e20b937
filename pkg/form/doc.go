// Package form is the host side of the binding contract. A Form owns field
// definitions and validation rules, creates one control per field, listens to
// the controls through their Host binding, and pushes error text back into
// them. Controls decide only whether to show that text.
//
// Definitions are plain YAML or JSON documents:
//
//	id: profile
//	fields:
//	  - name: email
//	    kind: email
//	    label: Email
//	    rules:
//	      - kind: required
//	      - kind: email
//
// Field rules compile to per-field JSON Schemas; "required" is handled by the
// form itself because an empty string is a present JSON value.
package form
