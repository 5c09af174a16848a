// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"fmt"

	"bakefile.org/core/internal/bklerr"
	"bakefile.org/core/internal/expr"
)

// Project is the root of the model tree. It owns the configurations map
// (insertion order significant, with "Debug" and "Release" always present)
// and the global target-id namespace.
type Project struct {
	varEnv
	Registry PropertyRegistry
	Modules  []*Module

	targetsByID map[string]*Target
	configOrder []string
	configs     map[string]*Configuration
}

// NewProject creates an empty project seeded with the predefined "Debug"
// and "Release" configurations.
func NewProject(registry PropertyRegistry) *Project {
	p := &Project{
		varEnv:      newVarEnv(),
		Registry:    registry,
		targetsByID: make(map[string]*Target),
		configs:     make(map[string]*Configuration),
	}
	for _, name := range []string{"Debug", "Release"} {
		p.configs[name] = &Configuration{Name: name}
		p.configOrder = append(p.configOrder, name)
	}
	return p
}

func (p *Project) localGet(name string) (*Variable, bool) { return p.getLocal(name) }
func (p *Project) parentScope() scopeLink                  { return nil }

// GetVariable returns a variable local to the project scope only.
func (p *Project) GetVariable(name string) (*Variable, bool) { return p.getLocal(name) }

// ResolveVariable walks from the project (the root) — i.e. it is
// project-local only, since Project has no enclosing scope.
func (p *Project) ResolveVariable(name string) (*Variable, bool) { return resolveVariable(p, name) }

// ResolveVariableValue implements expr.Scope.
func (p *Project) ResolveVariableValue(name string) (expr.Expr, bool) {
	if v, ok := p.ResolveVariable(name); ok {
		return v.Value, true
	}
	return nil, false
}

// ScopeName implements expr.Scope.
func (p *Project) ScopeName() string { return "project" }

// GetProp looks up a property registered for project scope.
func (p *Project) GetProp(name string) (*Property, bool) {
	if p.Registry == nil {
		return nil, false
	}
	return p.Registry.GetProp(KindProject, name)
}

// AddVariable adds v to the project's variable environment.
func (p *Project) AddVariable(v *Variable) { p.add(v) }

// HasTarget reports whether a target with the given id already exists
// anywhere in the project.
func (p *Project) HasTarget(id string) bool {
	_, ok := p.targetsByID[id]
	return ok
}

// GetTarget returns the target with the given id, if any.
func (p *Project) GetTarget(id string) (*Target, bool) {
	t, ok := p.targetsByID[id]
	return t, ok
}

// addTarget registers t project-wide. Callers (the builder) are responsible
// for the HasTarget uniqueness check beforehand, so that a duplicate-id
// error can cite the *existing* target's position.
func (p *Project) addTarget(t *Target) {
	p.targetsByID[t.ID] = t
}

// AddModule appends a freshly built module to the project, in the order
// modules are encountered.
func (p *Project) AddModule(m *Module) { p.Modules = append(p.Modules, m) }

// Configurations returns the project's configurations in declaration order.
func (p *Project) Configurations() []*Configuration {
	out := make([]*Configuration, len(p.configOrder))
	for i, n := range p.configOrder {
		out[i] = p.configs[n]
	}
	return out
}

// GetConfiguration looks up a configuration by name.
func (p *Project) GetConfiguration(name string) (*Configuration, bool) {
	c, ok := p.configs[name]
	return c, ok
}

// AddConfiguration registers a new, non-predefined configuration. It is an
// error if the name is already defined or if base is unknown, per spec
// §4.4's "Configuration" rules and §8 test 10.
func (p *Project) AddConfiguration(name, base string, pos bklerr.Pos) (*Configuration, error) {
	if name == "Debug" || name == "Release" {
		return nil, bklerr.WithPos(
			bklerr.New(bklerr.ParserError, "Debug and Release configurations can't be derived from another"), pos)
	}
	if base == "" {
		return nil, bklerr.WithPos(
			bklerr.New(bklerr.ParserError, "configurations other than Debug and Release must derive from another"), pos)
	}
	if existing, ok := p.configs[name]; ok {
		return nil, bklerr.WithPos(
			bklerr.New(bklerr.ParserError, "configuration %q already defined (at %s)", name, existing.SourcePos), pos)
	}
	baseCfg, ok := p.configs[base]
	if !ok {
		return nil, bklerr.WithPos(
			bklerr.New(bklerr.ParserError, "unknown base configuration %q", base), pos)
	}
	cfg := baseCfg.clone(name, pos)
	p.configs[name] = cfg
	p.configOrder = append(p.configOrder, name)
	return cfg, nil
}

func (p *Project) String() string { return fmt.Sprintf("project(%d modules)", len(p.Modules)) }
