// Package control implements the adaptive input control: a form control that
// renders according to a declared Kind, normalises raw UI events into a typed
// Value, and exchanges values with a host form through the Host binding.
//
// Controls never validate. The host pushes error text in with SetError and the
// control reports itself invalid only once the user has touched it:
//
//	ctrl, _ := control.New(control.KindNumber,
//	    control.WithLabel("Age"),
//	    control.WithHost(control.Funcs[control.Value]{
//	        Changed: func(v control.Value) { /* re-validate */ },
//	    }),
//	)
//	ctrl.HandleInput(control.Event{Text: ""}) // pushes control.NullValue()
//
// Front ends (HTML, terminal) consume View snapshots and feed Events back in.
package control
