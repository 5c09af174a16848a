// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package builder implements the AST-to-model builder: the driver that
// consumes a parsed .bkl AST and produces a tree of modules/targets/
// variables, enforcing scope, condition propagation, property typing,
// append semantics, target uniqueness, configuration inheritance and
// submodule inclusion.
//
// Structured as a dispatch-table-driven tree walker with a mutable
// traversal-state receiver.
package builder

import (
	"context"

	log "github.com/golang/glog"

	"bakefile.org/core/internal/astbkl"
	"bakefile.org/core/internal/bklerr"
	"bakefile.org/core/internal/cond"
	"bakefile.org/core/internal/expr"
	"bakefile.org/core/internal/ignorelist"
	"bakefile.org/core/internal/model"
)

// scope is the minimal surface the builder needs from its current context,
// satisfied by *model.Module, *model.Target and *model.Project.
type scope interface {
	expr.Scope
	GetVariable(name string) (*model.Variable, bool)
	ResolveVariable(name string) (*model.Variable, bool)
	GetProp(name string) (*model.Property, bool)
	AddVariable(v *model.Variable)
}

// fileListHost is implemented only by *model.Module: only modules own a
// source/header file list.
type fileListHost interface {
	AppendSource(sf *model.SourceFile)
	AppendHeader(sf *model.SourceFile)
}

// SubmoduleLoader loads and builds the submodule named by filename fn
// (already resolved by the builder relative to the including module's
// directory), attaching it to the same project. Implemented by the caller, outside this package's
// scope: file I/O and parsing are external collaborators.
type SubmoduleLoader interface {
	LoadSubmodule(ctx context.Context, fn string, pos bklerr.Pos) error
}

// Builder drives construction of a project Model from a parsed AST.
type Builder struct {
	cond     *cond.Stack
	context  scope
	loader   SubmoduleLoader
	ignore   *ignorelist.List // nil means "ignore nothing"
}

// New creates a Builder. loader is consulted for `submodule` statements;
// ignore (optional, may be nil) lets `generate --ignore` skip matching
// submodule paths without treating them as an error.
func New(loader SubmoduleLoader, ignore *ignorelist.List) *Builder {
	return &Builder{
		cond:   cond.New(),
		loader: loader,
		ignore: ignore,
	}
}

// BuildModule consumes ast and produces a constructed *model.Module as a
// child of project. Ported from Builder.create_model.
func (b *Builder) BuildModule(ctx context.Context, ast *astbkl.ModuleNode, project *model.Project, sourceFile string) (*model.Module, error) {
	ProfileAdd(ctx, "build-module:"+sourceFile)
	mod := model.NewModule(project, sourceFile)
	b.context = mod

	if err := b.handleChildren(ctx, ast.Children, mod); err != nil {
		return nil, err
	}
	project.AddModule(mod)
	return mod, nil
}

// CreateExpression builds a standalone expr.Expr in parent's context.
// Ported from Builder.create_expression.
func (b *Builder) CreateExpression(ast astbkl.ExprNode, parent scope) (expr.Expr, error) {
	b.context = parent
	return b.buildExpression(ast)
}

// handleChildren runs model creation for each of children, with context set
// as the current scope for the duration of the call. Ported from
// Builder.handle_children.
func (b *Builder) handleChildren(ctx context.Context, children []astbkl.Node, sc scope) error {
	old := b.context
	b.context = sc
	defer func() { b.context = old }()

	for _, n := range children {
		if err := b.handleNode(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

// handleNode dispatches on node's concrete type, attaching node's position
// to any error that escapes without one already (Builder._handle_node's
// error_context).
func (b *Builder) handleNode(ctx context.Context, node astbkl.Node) error {
	var err error
	switch n := node.(type) {
	case *astbkl.AssignmentNode:
		err = b.onAssignment(n.Var, n.Value, false, n.Position())
	case *astbkl.AppendNode:
		err = b.onAssignment(n.Var, n.Value, true, n.Position())
	case *astbkl.FilesListNode:
		err = b.onFilesList(n)
	case *astbkl.TargetNode:
		err = b.onTarget(ctx, n)
	case *astbkl.IfNode:
		err = b.onIf(ctx, n)
	case *astbkl.ConfigurationNode:
		err = b.onConfiguration(ctx, n)
	case *astbkl.SubmoduleNode:
		err = b.onSubmodule(ctx, n)
	case *astbkl.SrcdirNode:
		err = b.onSrcdir(n)
	case *astbkl.NilNode:
		// do nothing
	default:
		err = bklerr.New(bklerr.ParserError, "unrecognized AST node (%T)", node)
	}
	if err != nil {
		return bklerr.WithPos(err, node.Position())
	}
	return nil
}

// onAssignment implements the shared `=`/`+=` assignment semantics.
func (b *Builder) onAssignment(varname string, valueAST astbkl.ExprNode, isAppend bool, pos bklerr.Pos) error {
	value, err := b.buildExpression(valueAST)
	if err != nil {
		return err
	}

	if len(varname) > 0 && varname[0] == '_' {
		bklerr.Warningf(pos, "variable names beginning with underscore are reserved for internal use (%q)", varname)
	}

	activeCond := b.cond.Active()
	hasCond := activeCond != nil

	variable, localOK := b.context.GetVariable(varname)
	var previousValue *model.Variable
	if !localOK {
		previousValue, _ = b.context.ResolveVariable(varname)
	} else {
		previousValue = variable
	}

	if !localOK {
		if prop, ok := b.context.GetProp(varname); ok {
			var propVal expr.Expr
			if isAppend || hasCond {
				propVal = prop.DefaultExpr(b.context)
			} else {
				propVal = expr.NewNull() // overwritten below
			}
			variable = model.FromProperty(prop, propVal)
			b.context.AddVariable(variable)
			if previousValue == nil {
				previousValue = variable
			}
		}
	}

	if hasCond {
		if isAppend {
			if list, ok := value.(*expr.List); ok {
				ifs := make([]expr.Expr, len(list.Items))
				for i, it := range list.Items {
					ifs[i] = expr.NewIf(activeCond, it, expr.NewNull()).WithPos(it.Pos())
				}
				value = expr.NewList(ifs).WithPos(value.Pos())
			} else {
				value = expr.NewIf(activeCond, value, expr.NewNull()).WithPos(pos)
			}
		} else {
			var elseVal expr.Expr = expr.NewNull()
			if previousValue != nil {
				elseVal = previousValue.Value
			}
			value = expr.NewIf(activeCond, value, elseVal).WithPos(pos)
		}
	}

	if variable == nil {
		if isAppend && previousValue == nil {
			return bklerr.New(bklerr.ParserError, "unknown variable %q", varname)
		}
		if previousValue != nil {
			variable = model.NewVariableTyped(varname, previousValue.Value, previousValue.Type)
		} else {
			variable = model.NewVariable(varname, value)
		}
		b.context.AddVariable(variable)
	}

	if isAppend {
		if previousValue == nil {
			return bklerr.New(bklerr.ParserError, "unknown variable %q", varname)
		}
		if !model.IsList(variable.Type) {
			if model.IsAny(variable.Type) {
				variable.Type = model.ListType(model.AnyType)
			} else {
				return bklerr.New(bklerr.ParserError, "cannot append to non-list variable %q (type: %s)", varname, variable.Type)
			}
		}
		var newValues []expr.Expr
		if list, ok := value.(*expr.List); ok {
			newValues = list.Items
		} else {
			newValues = []expr.Expr{value}
		}
		var combined []expr.Expr
		if prevList, ok := previousValue.Value.(*expr.List); ok {
			combined = append(append([]expr.Expr{}, prevList.Items...), newValues...)
		} else {
			combined = append([]expr.Expr{previousValue.Value}, newValues...)
		}
		listVal := expr.NewList(combined).WithPos(pos)
		variable.SetValue(listVal)
	} else {
		variable.SetValue(value)
	}

	return nil
}

// onFilesList handles a `sources`/`headers` files list: each possible element
// becomes its own SourceFile, carrying its own per-element condition.
func (b *Builder) onFilesList(node *astbkl.FilesListNode) error {
	host, ok := b.context.(fileListHost)
	if !ok {
		return bklerr.New(bklerr.ParserError, "%q is only valid inside a module", node.Kind)
	}

	files, err := b.buildExpression(node.Files)
	if err != nil {
		return err
	}
	list, ok := files.(*expr.List)
	if !ok {
		list = expr.NewList([]expr.Expr{files})
	}

	elements, err := enumPossibleValues(list, b.cond.Active())
	if err != nil {
		return err
	}
	for _, pair := range elements {
		sf := model.NewSourceFile(pair.value)
		if pair.cond != nil {
			sf.SetCondition(pair.cond)
		}
		switch node.Kind {
		case "sources":
			host.AppendSource(sf)
		case "headers":
			host.AppendHeader(sf)
		default:
			return bklerr.New(bklerr.ParserError, "invalid files list kind %q", node.Kind)
		}
	}
	return nil
}

// onTarget handles a target declaration: project-wide uniqueness,
// condition capture, and a reset condition stack for the target body.
func (b *Builder) onTarget(ctx context.Context, node *astbkl.TargetNode) error {
	mod, ok := b.context.(*model.Module)
	if !ok {
		return bklerr.New(bklerr.ParserError, "targets can only be declared inside a module")
	}

	name := node.Name.Text
	if existing, ok := mod.Project.GetTarget(name); ok {
		return bklerr.WithPos(
			bklerr.New(bklerr.ParserError, "target with ID %q already exists (see %s)", name, existing.SourcePos),
			node.Name.Pos)
	}

	target := model.NewTarget(mod, name, node.Type.Text, node.Position())
	if c := b.cond.Active(); c != nil {
		target.SetCondition(c)
	}
	mod.AddTarget(target)

	token := b.cond.Reset()
	err := b.handleChildren(ctx, node.Content, target)
	b.cond.Restore(token)
	return err
}

// onIf handles an if-block: push, recurse, pop.
func (b *Builder) onIf(ctx context.Context, node *astbkl.IfNode) error {
	condExpr, err := b.buildExpression(node.Cond)
	if err != nil {
		return err
	}
	b.cond.Push(condExpr)
	err = b.handleChildren(ctx, node.Content, b.context)
	b.cond.Pop()
	return err
}

// onConfiguration handles a configuration declaration.
func (b *Builder) onConfiguration(ctx context.Context, node *astbkl.ConfigurationNode) error {
	sc := b.context
	project := projectOf(sc)
	if project == nil {
		return bklerr.New(bklerr.ParserError, "configurations can only be declared at project scope")
	}

	var cfg *model.Configuration
	if node.Name == "Debug" || node.Name == "Release" {
		if node.Base != "" {
			return bklerr.New(bklerr.ParserError, "Debug and Release configurations can't be derived from another")
		}
		cfg, _ = project.GetConfiguration(node.Name)
		cfg.AppendDefinition(node.Content)
	} else {
		var err error
		cfg, err = project.AddConfiguration(node.Name, node.Base, node.Position())
		if err != nil {
			return err
		}
		cfg.AppendDefinition(node.Content)
	}

	configCond := expr.NewBool(expr.EQUAL,
		expr.NewReference("config", sc),
		expr.NewLiteral(node.Name)).WithPos(node.Position())

	b.cond.Push(configCond)
	err := b.handleChildren(ctx, cfg.Definition, sc)
	b.cond.Pop()
	return err
}

// onSubmodule handles a submodule declaration, including rejecting
// conditional inclusion and the optional ignore-list extension.
func (b *Builder) onSubmodule(ctx context.Context, node *astbkl.SubmoduleNode) error {
	if b.cond.Active() != nil {
		active := b.cond.Active()
		return bklerr.New(bklerr.ParserError,
			"conditionally included submodules not supported yet (condition %q set at %s)", active, active.Pos())
	}
	if b.ignore != nil && b.ignore.Contains(node.File) {
		log.Infof("skipping ignored submodule %q", node.File)
		return nil
	}
	if b.loader == nil {
		return bklerr.New(bklerr.ParserError, "no submodule loader configured")
	}
	fn := node.File
	switch s := b.context.(type) {
	case *model.Module:
		fn = joinSrcdir(s.SourceFile, node.File)
	case *model.Target:
		fn = joinSrcdir(s.Module.SourceFile, node.File)
	}
	return b.loader.LoadSubmodule(ctx, fn, node.Position())
}

// onSrcdir handles an @srcdir declaration: module-scope only,
// unconditional only.
func (b *Builder) onSrcdir(node *astbkl.SrcdirNode) error {
	mod, ok := b.context.(*model.Module)
	if !ok {
		return bklerr.New(bklerr.ParserError, "srcdir can only be set at module scope")
	}
	if b.cond.Active() != nil {
		return bklerr.New(bklerr.ParserError, "srcdir cannot be set conditionally")
	}
	mod.Srcdir = joinSrcdir(mod.SourceFile, node.Srcdir)
	log.V(1).Infof("setting @srcdir for %s to %s", mod.ScopeName(), mod.Srcdir)
	return nil
}

func projectOf(sc scope) *model.Project {
	switch s := sc.(type) {
	case *model.Project:
		return s
	case *model.Module:
		return s.Project
	case *model.Target:
		return s.Module.Project
	default:
		return nil
	}
}
