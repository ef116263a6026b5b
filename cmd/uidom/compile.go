package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/uidom/uidom/internal/builtins"
	"github.com/uidom/uidom/internal/checker"
	"github.com/uidom/uidom/internal/codegen"
	"github.com/uidom/uidom/internal/diag"
	"github.com/uidom/uidom/internal/module"
	"github.com/uidom/uidom/internal/parser"
	"github.com/uidom/uidom/internal/source"
)

// compileOnce parses, checks and generates Go source for the component at
// path, writing it into outDir under a kebab-cased file name derived from
// the component's (already PascalCase) name.
func compileOnce(path, outDir, pkg string) error {
	text, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}

	comp, parseDiags := parser.Parse(source.New(path, string(text)))
	diags := &diag.Bag{}
	diags.Merge(parseDiags)
	if diags.Failed() {
		return fmt.Errorf("parse failed:\n%s", diags.Render())
	}

	m := module.New(builtins.Table(), diags)
	checked, ok := checker.CheckComponent(comp, m)
	if !ok {
		return fmt.Errorf("check failed:\n%s", m.Diags.Render())
	}

	src, err := codegen.Generate(checked, pkg)
	if err != nil {
		return fmt.Errorf("codegen failed: %w", err)
	}

	outPath := filepath.Join(outDir, kebabCase(checked.Name)+"_generated.go")
	if err := writeFileAtomic(outPath, []byte(src)); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	fmt.Printf("%s built %s -> %s\n", green("✓"), path, outPath)
	return nil
}

// writeFileAtomic writes to a temp file in the same directory and renames
// it into place, so a reader never observes a partially-written output.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".uidom-*.go.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}

// kebabCase turns a PascalCase component name into a lowercase, hyphenated
// file stem (MyButton -> my-button), mirroring the reference compiler's
// convert_case-based output naming.
func kebabCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
		}
		b.WriteRune(r)
	}
	return cases.Lower(language.Und).String(b.String())
}

// watchAndCompile recompiles path whenever it changes, until interrupted.
// Write events on the containing directory are filtered down to path
// itself, and a short debounce collapses the burst of events many editors
// emit for a single save. Only path itself is watched: files it imports
// are not, and a change to one of them does not trigger a rebuild.
func watchAndCompile(path, outDir, pkg string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	fmt.Printf("%s watching %s for changes (ctrl-c to stop)\n", cyan("→"), path)

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	var debounce *time.Timer
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			eventAbs, err := filepath.Abs(event.Name)
			if err != nil || eventAbs != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(100*time.Millisecond, func() {
				if err := compileOnce(path, outDir, pkg); err != nil {
					fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "%s: watcher: %v\n", yellow("Warning"), err)
		}
	}
}
