// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ledger implements the incremental-dependency ledger: a persistent
// record of inputs, outputs and invocation parameters per generation unit,
// and the staleness decision that determines whether a regeneration is
// required.
//
// Ported from original_source/bakefile/src/dependencies.py. Persistence uses
// encoding/gob rather than the original's cPickle (see DESIGN.md for why no
// pack-provided codec fits without fabricating protoc-generated code); the
// write-then-rename atomicity and the three-maps-in-fixed-order on-disk
// shape are preserved.
package ledger

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	log "github.com/golang/glog"

	"bakefile.org/core/internal/bklerr"
)

// FormatVersion is the current on-disk format version. A mismatch on load
// is a hard error that triggers full regeneration.
const FormatVersion = 4

// Key identifies one generation unit: an input .bkl file and the output
// format (toolset) it was generated for.
type Key struct {
	InputFile    string
	OutputFormat string
}

// Output is one (file, method) pair recorded as produced by a Key.
type Output struct {
	File   string
	Method string
}

// Record is the per-Key ledger entry: declared input dependencies and
// declared outputs.
type Record struct {
	Deps    []string
	Outputs []Output
}

// Ledger is the process-wide, mutable dependency record. It is loaded once
// at startup, mutated append-only during a build, and saved atomically at
// shutdown.
type Ledger struct {
	mu sync.Mutex

	Deps     map[Key]*Record
	Modtimes map[string]time.Time
	Cmdlines map[Key][]string
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{
		Deps:     make(map[Key]*Record),
		Modtimes: make(map[string]time.Time),
		Cmdlines: make(map[Key][]string),
	}
}

func (l *Ledger) recordFor(key Key) *Record {
	r, ok := l.Deps[key]
	if !ok {
		r = &Record{}
		l.Deps[key] = r
	}
	return r
}

// AddDependency records that dependencyFile is a dependency of the bakefile
// identified by (inputFile, format). A self-dependency is a no-op, matching
// addDependency's "if bakefile == dependency_file: return".
func (l *Ledger) AddDependency(inputFile, format, dependencyFile string) {
	if inputFile == dependencyFile {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	r := l.recordFor(Key{inputFile, format})
	r.Deps = append(r.Deps, dependencyFile)
}

// AddOutput records outputFile (created via outputMethod) as produced by the
// bakefile identified by (inputFile, format), stamping its configure-time
// modtime.
func (l *Ledger) AddOutput(inputFile, format, outputFile, outputMethod string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	r := l.recordFor(Key{inputFile, format})
	r.Outputs = append(r.Outputs, Output{File: outputFile, Method: outputMethod})
	l.Modtimes[outputFile] = time.Now()
}

// AddCmdline records the invocation argument vector used to produce
// (inputFile, format).
func (l *Ledger) AddCmdline(inputFile, format string, cmdline []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Cmdlines[Key{inputFile, format}] = append([]string(nil), cmdline...)
}

// onDiskGob is the exact shape written to/read from the ledger file: a
// format version followed by the three maps in fixed order.
type onDiskGob struct {
	Deps     map[Key]*Record
	Modtimes map[string]time.Time
	Cmdlines map[Key][]string
}

// Save persists the ledger to filename, writing to a temporary file in the
// same directory and renaming over the target, to avoid corruption if the
// process dies mid-save.
func (l *Ledger) Save(filename string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(FormatVersion); err != nil {
		return fmt.Errorf("ledger: encode version: %w", err)
	}
	if err := enc.Encode(onDiskGob{Deps: l.Deps, Modtimes: l.Modtimes, Cmdlines: l.Cmdlines}); err != nil {
		return fmt.Errorf("ledger: encode body: %w", err)
	}

	dir := filepath.Dir(filename)
	tmp, err := os.CreateTemp(dir, ".ledger-*.tmp")
	if err != nil {
		return fmt.Errorf("ledger: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("ledger: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("ledger: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, filename); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("ledger: rename into place: %w", err)
	}
	return nil
}

// Load reads filename and merges its contents into l: existing entries for
// keys present in both are overwritten by the loaded file's values, ported
// from dependencies.py's load()/__loadDb (file entries overwrite equal
// keys; this allows incremental accumulation across invocations, spec
// §4.5). A version mismatch or unreadable file is a LoadError, non-fatal —
// callers should treat it as "no prior knowledge" and proceed with an empty
// or unmodified ledger.
func (l *Ledger) Load(filename string) error {
	b, err := os.ReadFile(filename)
	if err != nil {
		return bklerr.New(bklerr.LoadError, "read %s: %v", filename, err)
	}
	dec := gob.NewDecoder(bytes.NewReader(b))

	var version int
	if err := dec.Decode(&version); err != nil {
		return bklerr.New(bklerr.LoadError, "decode version: %v", err)
	}
	if version != FormatVersion {
		return bklerr.New(bklerr.LoadError, "format version %d, want %d", version, FormatVersion)
	}

	var body onDiskGob
	if err := dec.Decode(&body); err != nil {
		return bklerr.New(bklerr.LoadError, "decode body: %v", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	mergeRecords(l.Deps, body.Deps)
	mergeModtimes(l.Modtimes, body.Modtimes)
	mergeCmdlines(l.Cmdlines, body.Cmdlines)
	log.Infof("loaded ledger %s: %d keys", filename, len(l.Deps))
	return nil
}

func mergeRecords(dst, src map[Key]*Record) {
	for k, v := range src {
		dst[k] = v
	}
}

func mergeModtimes(dst, src map[string]time.Time) {
	for k, v := range src {
		dst[k] = v
	}
}

func mergeCmdlines(dst, src map[Key][]string) {
	for k, v := range src {
		dst[k] = v
	}
}

// cmdlinesEqual reports whether two invocation argument vectors match
// exactly, in order.
func cmdlinesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// NeedsUpdate runs the six-check staleness decision for key, ported from
// dependencies.py's needsUpdate:
//
//  1. key is unknown (no recorded deps/cmdline) -> stale.
//  2. the recorded cmdline differs from cmdline -> stale.
//  3. any recorded output is missing from disk -> stale.
//  4. any recorded input dependency is missing from disk -> stale.
//  5. the oldest effective output time predates inputFile's mtime -> stale.
//  6. the oldest effective output time predates any dependency's mtime -> stale.
//
// "Effective output time" is the later of the ledger's recorded modtime (set
// at the moment the output was produced) and the file's current on-disk
// mtime, so that a file touched or regenerated by another tool after the
// ledger was last saved is not considered stale relative to itself.
func (l *Ledger) NeedsUpdate(key Key, inputFile string, cmdline []string) (bool, error) {
	l.mu.Lock()
	rec, haveRec := l.Deps[key]
	recordedCmdline, haveCmdline := l.Cmdlines[key]
	modtimes := l.Modtimes
	l.mu.Unlock()

	if !haveRec || !haveCmdline {
		return true, nil
	}
	if !cmdlinesEqual(recordedCmdline, cmdline) {
		return true, nil
	}
	if len(rec.Outputs) == 0 {
		return true, nil
	}

	var oldestOutput time.Time
	for _, out := range rec.Outputs {
		st, err := os.Stat(out.File)
		if err != nil {
			if os.IsNotExist(err) {
				return true, nil
			}
			return false, fmt.Errorf("ledger: stat output %s: %w", out.File, err)
		}
		eff := st.ModTime()
		if recorded, ok := modtimes[out.File]; ok && recorded.After(eff) {
			eff = recorded
		}
		if oldestOutput.IsZero() || eff.Before(oldestOutput) {
			oldestOutput = eff
		}
	}

	inputMtime, err := mtimeOf(inputFile)
	if err != nil {
		return false, err
	}
	if oldestOutput.Before(inputMtime) {
		return true, nil
	}

	for _, dep := range rec.Deps {
		depMtime, err := os.Stat(dep)
		if err != nil {
			if os.IsNotExist(err) {
				return true, nil
			}
			return false, fmt.Errorf("ledger: stat dependency %s: %w", dep, err)
		}
		if oldestOutput.Before(depMtime.ModTime()) {
			return true, nil
		}
	}

	return false, nil
}

func mtimeOf(path string) (time.Time, error) {
	st, err := os.Stat(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("ledger: stat %s: %w", path, err)
	}
	return st.ModTime(), nil
}
