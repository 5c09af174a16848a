// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"bakefile.org/core/internal/astbkl"
	"bakefile.org/core/internal/bklerr"
)

// Configuration is a named bundle of overrides realized as conditional
// variable assignments.
type Configuration struct {
	Name       string
	Base       string // "" for the predefined Debug/Release
	Definition []astbkl.Node
	SourcePos  bklerr.Pos
}

// clone produces a new configuration named name, deriving from c: it
// inherits c's definition AST (prepended), and SourcePos is set to pos. The
// caller (Project.AddConfiguration) appends the new configuration's own
// definition block afterward: a non-base configuration is cloned from its
// base and its own definition block is appended.
func (c *Configuration) clone(name string, pos bklerr.Pos) *Configuration {
	def := make([]astbkl.Node, len(c.Definition))
	copy(def, c.Definition)
	return &Configuration{
		Name:       name,
		Base:       c.Name,
		Definition: def,
		SourcePos:  pos,
	}
}

// AppendDefinition appends additional AST nodes to the configuration's
// definition block (its own override statements, after the inherited base
// definition).
func (c *Configuration) AppendDefinition(nodes []astbkl.Node) {
	c.Definition = append(c.Definition, nodes...)
}
