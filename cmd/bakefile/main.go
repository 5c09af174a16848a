// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The bakefile command runs the Bakefile interpreter core: it parses a
// project description, builds the semantic model and emits native build
// files, using a grouped subcommands.Commander structure.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path"

	log "github.com/golang/glog"
	"github.com/google/subcommands"

	"bakefile.org/core/internal/generate"
	"bakefile.org/core/internal/version"
)

const groupOther = "working with this tool"
const groupGenerate = "generating build files"

func main() {
	ctx := context.Background()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	defaultExplain := commander.Explain
	commander.Explain = func(w io.Writer) {
		fmt.Fprintf(w, "bakefile reads a high-level declarative project description (.bkl files)\n")
		fmt.Fprintf(w, "and emits native build files (Makefiles, Visual Studio projects, etc.) for\n")
		fmt.Fprintf(w, "multiple toolsets.\n\n")
		defaultExplain(w)
	}

	commander.Register(commander.HelpCommand(), groupOther)
	commander.Register(commander.FlagsCommand(), groupOther)
	commander.Register(version.Command(), groupOther)

	// This build of the tool has no concrete .bkl grammar/lexer or back-end
	// emitter linked in (both are external collaborators); generate.Command's
	// Parser/Backend are therefore nil here. A distribution wiring this up
	// for real use would link concrete implementations and pass them to
	// generate.Command instead.
	commander.Register(generate.Command(nil, nil), groupGenerate)

	flag.Usage = func() {
		commander.HelpCommand().Execute(ctx, flag.CommandLine)
	}

	flag.Parse()

	code := int(commander.Execute(ctx))
	log.Flush()
	os.Exit(code)
}
