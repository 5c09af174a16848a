// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pipeline wires together the interpreter core — parser, builder,
// ledger and back-end emitter — into the single end-to-end run the
// `generate` subcommand drives. The concrete `.bkl` grammar/lexer and the
// back-end toolset emitters are external collaborators: this package
// depends on them only through the Parser and Backend interfaces, never on
// a concrete implementation of either.
package pipeline

import (
	"context"
	"path/filepath"

	log "github.com/golang/glog"

	"bakefile.org/core/internal/astbkl"
	"bakefile.org/core/internal/bklerr"
	"bakefile.org/core/internal/builder"
	"bakefile.org/core/internal/ignorelist"
	"bakefile.org/core/internal/ledger"
	"bakefile.org/core/internal/model"
	"bakefile.org/core/internal/registry"
)

// Parser produces an AST with positions from a .bkl file on disk. Spec §1
// lists "the concrete grammar and lexer" as out of scope for the
// interpreter core; this interface is the seam a grammar/lexer plugs into.
type Parser interface {
	Parse(path string) (*astbkl.ModuleNode, error)
}

// Backend emits native build files for one toolset from a finished model,
// returning the paths of the files it wrote (for ledger bookkeeping). Spec
// §1 lists "back-end emitters for specific toolsets" as out of scope; this
// interface is that seam.
type Backend interface {
	// Name identifies the toolset, e.g. "make", "msvs". Used as the
	// ledger's OutputFormat component of its Key.
	Name() string
	Emit(ctx context.Context, project *model.Project, outDir string) ([]string, error)
}

// Result is everything a single Run produced, for the CLI to report.
type Result struct {
	Project *model.Project
	Outputs []string
	// Skipped is true when the ledger determined nothing needed
	// regenerating and Emit was not called.
	Skipped bool
}

// Options configures one Run.
type Options struct {
	OutDir     string
	LedgerPath string // empty disables ledger consultation/update
	DryRun     bool
	Ignore     *ignorelist.List
	// Force bypasses the ledger's staleness check.
	Force bool
}

// Build runs parse → build model only, with no backend and no ledger
// involvement. Used by the --dump-model diagnostic, which has no output
// files whose staleness the ledger could track.
func Build(ctx context.Context, p Parser, rootFile string, ignore *ignorelist.List) (*model.Project, error) {
	loader := &fsSubmoduleLoader{parser: p, ignore: ignore}
	b := builder.New(loader, ignore)
	loader.builder = b

	project := model.NewProject(registry.Default)
	ast, err := p.Parse(rootFile)
	if err != nil {
		return nil, bklerr.New(bklerr.ParserError, "parse %s: %v", rootFile, err)
	}
	if _, err := b.BuildModule(ctx, ast, project, rootFile); err != nil {
		return nil, err
	}
	loader.project = project
	if err := loader.buildPending(ctx); err != nil {
		return nil, err
	}
	return project, nil
}

// Run executes parse → build model → (ledger check) → emit → ledger update
// for the project rooted at rootFile.
func Run(ctx context.Context, p Parser, backend Backend, rootFile string, opts Options) (*Result, error) {
	cmdline := []string{"bakefile", "-f", backend.Name(), rootFile}

	var ldg *ledger.Ledger
	if opts.LedgerPath != "" {
		ldg = ledger.New()
		if err := ldg.Load(opts.LedgerPath); err != nil {
			log.Infof("no usable ledger at %s: %v", opts.LedgerPath, err)
		}
		if !opts.Force {
			key := ledger.Key{InputFile: rootFile, OutputFormat: backend.Name()}
			stale, err := ldg.NeedsUpdate(key, rootFile, cmdline)
			if err != nil {
				return nil, err
			}
			if !stale {
				return &Result{Skipped: true}, nil
			}
		}
	}

	loader := &fsSubmoduleLoader{parser: p, ignore: opts.Ignore}
	b := builder.New(loader, opts.Ignore)
	loader.builder = b

	project := model.NewProject(registry.Default)
	ast, err := p.Parse(rootFile)
	if err != nil {
		return nil, bklerr.New(bklerr.ParserError, "parse %s: %v", rootFile, err)
	}
	if _, err := b.BuildModule(ctx, ast, project, rootFile); err != nil {
		return nil, err
	}
	loader.project = project
	if err := loader.buildPending(ctx); err != nil {
		return nil, err
	}

	outputs, err := backend.Emit(ctx, project, opts.OutDir)
	if err != nil {
		return nil, err
	}

	if ldg != nil && !opts.DryRun {
		ldg.AddCmdline(rootFile, backend.Name(), cmdline)
		for _, out := range outputs {
			ldg.AddOutput(rootFile, backend.Name(), out, backend.Name())
		}
		for _, dep := range loader.visitedFiles() {
			ldg.AddDependency(rootFile, backend.Name(), dep)
		}
		if err := ldg.Save(opts.LedgerPath); err != nil {
			return nil, err
		}
	}

	return &Result{Project: project, Outputs: outputs}, nil
}

// fsSubmoduleLoader implements builder.SubmoduleLoader, parsing each
// `submodule` filename it is handed (already resolved by the builder
// relative to the including module's directory) and building it as a new
// module of the same project.
// Submodules named during one onSubmodule call are queued rather than built
// immediately, since the including module's own BuildModule call is still
// in progress when onSubmodule fires (mirrors create_model's own
// breadth-first walk in original_source/src/bkl/interpreter/builder.py).
type fsSubmoduleLoader struct {
	parser  Parser
	builder *builder.Builder
	project *model.Project
	ignore  *ignorelist.List

	pending []pendingSubmodule
	visited map[string]bool
}

type pendingSubmodule struct {
	file string
	pos  bklerr.Pos
}

func (l *fsSubmoduleLoader) LoadSubmodule(ctx context.Context, fn string, pos bklerr.Pos) error {
	l.pending = append(l.pending, pendingSubmodule{file: fn, pos: pos})
	return nil
}

func (l *fsSubmoduleLoader) buildPending(ctx context.Context) error {
	if l.visited == nil {
		l.visited = make(map[string]bool)
	}
	for len(l.pending) > 0 {
		next := l.pending[0]
		l.pending = l.pending[1:]

		abs := filepath.Clean(next.file)
		if l.visited[abs] {
			continue
		}
		l.visited[abs] = true

		ast, err := l.parser.Parse(abs)
		if err != nil {
			return bklerr.WithPos(bklerr.New(bklerr.ParserError, "parse submodule %s: %v", abs, err), next.pos)
		}
		builder.ProfileAdd(ctx, "build-module:"+abs)
		if _, err := l.builder.BuildModule(ctx, ast, l.project, abs); err != nil {
			return err
		}
	}
	return nil
}

func (l *fsSubmoduleLoader) visitedFiles() []string {
	out := make([]string, 0, len(l.visited))
	for f := range l.visited {
		out = append(out, f)
	}
	return out
}
