// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package generate implements the "generate" subcommand: the default
// pipeline (parse → build model → emit → update ledger), wired up as a
// subcommands.Command.
package generate

import (
	"context"
	"flag"
	"fmt"
	"strings"

	log "github.com/golang/glog"
	"github.com/google/subcommands"

	"bakefile.org/core/internal/bklerr"
	"bakefile.org/core/internal/builder"
	"bakefile.org/core/internal/dumpmodel"
	"bakefile.org/core/internal/ignorelist"
	"bakefile.org/core/internal/pipeline"
)

// Cmd implements the generate subcommand. Its Parser and Backend fields are
// set by main() before registration — the concrete grammar/lexer and
// back-end emitters are external collaborators that this package never
// constructs itself.
type Cmd struct {
	Parser  pipeline.Parser
	Backend pipeline.Backend

	verbose      bool
	debug        bool
	dryRun       bool
	dumpModel    bool
	ledgerPath   string
	force        bool
	ignoreFlags  stringList
	ignoreFile   string
	outDir       string
}

// stringList implements flag.Value, accumulating one entry per flag
// occurrence — the repeatable --ignore flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// Name implements subcommand.Command.
func (*Cmd) Name() string { return "generate" }

// Synopsis implements subcommand.Command.
func (*Cmd) Synopsis() string { return "parse a project, build its model and emit build files" }

// Usage implements subcommand.Command.
func (*Cmd) Usage() string {
	return `Usage: bakefile generate [flags] <project.bkl>

Runs the full pipeline: parse the given .bkl file (and any submodules it
includes), build the in-memory project model, and either emit native build
files via the registered back-end or, with --dump-model, print the model
tree instead.

Command-line flag documentation follows:
`
}

// SetFlags implements subcommand.Command.
func (cmd *Cmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.verbose, "verbose", false, "log informational messages during the build")
	f.BoolVar(&cmd.verbose, "v", false, "shorthand for --verbose")
	f.BoolVar(&cmd.debug, "debug", false, "log phase timings and re-raise internal errors with a full trace instead of a one-line message")
	f.BoolVar(&cmd.dryRun, "dry-run", false, "compute what would change without writing any files or updating the ledger")
	f.BoolVar(&cmd.dumpModel, "dump-model", false, "print the finished project model instead of emitting build files")
	f.StringVar(&cmd.ledgerPath, "ledger", ".bakefile-deps", "path to the dependency ledger file")
	f.BoolVar(&cmd.force, "force", false, "ignore the ledger's staleness check and always regenerate")
	f.Var(&cmd.ignoreFlags, "ignore", "submodule path to skip, or a directory prefix ending in \"/\" (repeatable; no wildcards)")
	f.StringVar(&cmd.ignoreFile, "ignore-file", "", "file of newline-separated --ignore patterns")
	f.StringVar(&cmd.outDir, "outdir", ".", "directory the back-end writes generated files into")
}

func (cmd *Cmd) buildIgnoreList() (*ignorelist.List, error) {
	if len(cmd.ignoreFlags) == 0 && cmd.ignoreFile == "" {
		return nil, nil
	}
	list := ignorelist.New(cmd.ignoreFlags)
	if cmd.ignoreFile != "" {
		fromFile, err := ignorelist.LoadFile(cmd.ignoreFile)
		if err != nil {
			return nil, fmt.Errorf("--ignore-file: %w", err)
		}
		for f := range fromFile.IgnoredFiles {
			list.IgnoredFiles[f] = true
		}
		list.IgnoredDirs = append(list.IgnoredDirs, fromFile.IgnoredDirs...)
	}
	return list, nil
}

// Execute implements subcommand.Command. Exit codes: 0 success, 1
// ParserError/other pipeline error, 2 cancellation, 3 wrong argument count.
// --verbose/-v raises glog's stderr threshold to INFO, and --debug also sets
// glog's verbosity to 1, mirroring tool.py's translation of --verbose and
// --debug into logging levels.
func (cmd *Cmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(f.Output(), cmd.Usage())
		return subcommands.ExitStatus(3)
	}
	rootFile := f.Arg(0)

	if cmd.verbose || cmd.debug {
		flag.Set("stderrthreshold", "INFO")
	}
	if cmd.debug {
		flag.Set("v", "1")
	}

	ignore, err := cmd.buildIgnoreList()
	if err != nil {
		log.Errorf("%v", err)
		return subcommands.ExitFailure
	}

	if cmd.debug {
		ctx = builder.NewProfileContext(ctx)
	}

	if cmd.Parser == nil {
		log.Errorf("no .bkl parser registered with this build of bakefile (the grammar/lexer is supplied by the surrounding system)")
		return subcommands.ExitFailure
	}

	handleErr := func(err error) subcommands.ExitStatus {
		if ctx.Err() != nil {
			return subcommands.ExitStatus(2)
		}
		if cmd.debug {
			panic(err)
		}
		if be, ok := err.(*bklerr.Error); ok {
			log.Errorf("%s", be.Error())
		} else {
			log.Errorf("%v", err)
		}
		return subcommands.ExitFailure
	}

	if cmd.dumpModel {
		// --dump-model bypasses the back-end and the ledger entirely: it's
		// a diagnostic alternative interpreter, not a generation run whose
		// staleness the ledger should track, and it has no output files a
		// Backend would need to produce.
		project, err := pipeline.Build(ctx, cmd.Parser, rootFile, ignore)
		if err != nil {
			return handleErr(err)
		}
		if cmd.debug {
			log.Infof("%s", builder.ProfileDump(ctx))
		}
		fmt.Println(dumpmodel.Dump(project))
		return subcommands.ExitSuccess
	}

	if cmd.Backend == nil {
		log.Errorf("no back-end emitter registered with this build of bakefile (back-ends are supplied by the surrounding system); use --dump-model to inspect the model without one")
		return subcommands.ExitFailure
	}

	result, err := pipeline.Run(ctx, cmd.Parser, cmd.Backend, rootFile, pipeline.Options{
		OutDir:     cmd.outDir,
		LedgerPath: cmd.ledgerPath,
		DryRun:     cmd.dryRun,
		Ignore:     ignore,
		Force:      cmd.force,
	})
	if err != nil {
		return handleErr(err)
	}

	if cmd.debug {
		log.Infof("%s", builder.ProfileDump(ctx))
	}

	if result.Skipped {
		log.Infof("%s: up to date, nothing to do", rootFile)
		return subcommands.ExitSuccess
	}

	for _, out := range result.Outputs {
		log.Infof("wrote %s", out)
	}
	return subcommands.ExitSuccess
}

// Command returns an initialized Cmd for registration with the subcommands
// package. parser and backend are the injected grammar/lexer and back-end
// emitter collaborators.
func Command(parser pipeline.Parser, backend pipeline.Backend) *Cmd {
	return &Cmd{Parser: parser, Backend: backend}
}
