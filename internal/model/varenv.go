// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

// varEnv is a scope-local variable environment preserving insertion order,
// shared by Project, Module and Target.
type varEnv struct {
	vars  map[string]*Variable
	order []string
}

func newVarEnv() varEnv {
	return varEnv{vars: make(map[string]*Variable)}
}

// getLocal returns the variable by name in this scope only.
func (e *varEnv) getLocal(name string) (*Variable, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// add registers v in this scope, preserving the order in which distinct
// names were first added.
func (e *varEnv) add(v *Variable) {
	if _, exists := e.vars[v.Name]; !exists {
		e.order = append(e.order, v.Name)
	}
	e.vars[v.Name] = v
}

// ordered returns this scope's variables in insertion order.
func (e *varEnv) ordered() []*Variable {
	out := make([]*Variable, len(e.order))
	for i, n := range e.order {
		out[i] = e.vars[n]
	}
	return out
}

// Variables returns this scope's own variables (not inherited ones), in the
// order they were first assigned. Exported for consumers outside package
// model, such as the --dump-model renderer.
func (e *varEnv) Variables() []*Variable { return e.ordered() }

// scopeLink is the minimal shape resolveVariable walks: a local lookup plus
// a link to the enclosing scope (nil at the root).
type scopeLink interface {
	localGet(name string) (*Variable, bool)
	parentScope() scopeLink
}

// resolveVariable walks from s toward the root, returning the first
// matching variable.
func resolveVariable(s scopeLink, name string) (*Variable, bool) {
	for cur := s; cur != nil; cur = cur.parentScope() {
		if v, ok := cur.localGet(name); ok {
			return v, true
		}
	}
	return nil, false
}
