// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package iowriter implements the atomic, compare-before-write output file
// mechanism from original_source/src/bkl/io.py's OutputFile: a generated
// file is only actually written (and only then counts as "changed" for
// reporting purposes) if its content differs from what's already on disk,
// and a --dry-run run never touches the filesystem at all.
package iowriter

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/golang/glog"
	"github.com/kylelemons/godebug/diff"

	"bakefile.org/core/internal/bklerr"
)

// EOL selects the line-ending convention an OutputFile writes.
type EOL int

const (
	// EOLNative uses the host platform's native line ending (spec default).
	EOLNative EOL = iota
	// EOLUnix forces "\n".
	EOLUnix
	// EOLWindows forces "\r\n".
	EOLWindows
)

func (e EOL) terminator() string {
	switch e {
	case EOLUnix:
		return "\n"
	case EOLWindows:
		return "\r\n"
	default:
		if os.PathSeparator == '\\' {
			return "\r\n"
		}
		return "\n"
	}
}

// OutputFile buffers generated content for one output path and commits it
// atomically, skipping the write entirely when the content is unchanged.
type OutputFile struct {
	path   string
	eol    EOL
	dryRun bool
	buf    bytes.Buffer
}

// New returns an OutputFile that will write to path on Commit, honoring eol
// and, if dryRun is true, never touching the filesystem.
func New(path string, eol EOL, dryRun bool) *OutputFile {
	return &OutputFile{path: path, eol: eol, dryRun: dryRun}
}

// Write appends to the buffered content. Lines fed to Write should be
// "\n"-terminated; the configured EOL substitution happens at Commit time.
func (f *OutputFile) Write(s string) {
	f.buf.WriteString(s)
}

// Writef is a fmt.Sprintf-style convenience wrapper around Write.
func (f *OutputFile) Writef(format string, args ...any) {
	fmt.Fprintf(&f.buf, format, args...)
}

// Commit finalizes the file: converts line endings, compares against any
// existing content at f.path, and if they differ (or the file doesn't yet
// exist), writes it via write-then-rename. It reports whether the file was
// actually (or, in dry-run mode, would have been) changed.
func (f *OutputFile) Commit() (changed bool, err error) {
	defer bklerr.Annotatef(&err, "commit %s", f.path)

	content := applyEOL(f.buf.String(), f.eol)

	existing, readErr := os.ReadFile(f.path)
	if readErr == nil && bytes.Equal(existing, []byte(content)) {
		log.V(1).Infof("%s: unchanged, not written", f.path)
		return false, nil
	}
	if readErr == nil {
		log.V(1).Infof("%s: content differs:\n%s", f.path, diff.Diff(string(existing), content))
	}

	if f.dryRun {
		log.Infof("%s: would be %s (dry run)", f.path, changeVerb(readErr))
		return true, nil
	}

	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, bklerr.New(bklerr.IOError, "create directory %s: %v", dir, err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".tmp-*")
	if err != nil {
		return false, bklerr.New(bklerr.IOError, "create temp file: %v", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return false, bklerr.New(bklerr.IOError, "write temp file: %v", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return false, bklerr.New(bklerr.IOError, "close temp file: %v", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return false, bklerr.New(bklerr.IOError, "rename into place: %v", err)
	}

	log.Infof("%s: %s", f.path, changeVerb(readErr))
	return true, nil
}

func changeVerb(readErr error) string {
	if readErr != nil {
		return "created"
	}
	return "updated"
}

// applyEOL rewrites the "\n"-terminated lines of s to use the terminator
// selected by eol.
func applyEOL(s string, eol EOL) string {
	term := eol.terminator()
	if term == "\n" {
		return s
	}
	lines := strings.Split(s, "\n")
	// strings.Split on a trailing "\n" yields a final empty element; avoid
	// appending a spurious terminator for it.
	last := len(lines) - 1
	var b strings.Builder
	for i, line := range lines {
		b.WriteString(line)
		if i != last {
			b.WriteString(term)
		}
	}
	return b.String()
}
