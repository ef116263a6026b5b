// Package loader resolves a component's transitive import graph: it
// parses each imported .ui file, derives the importable shape of the
// component it defines, and detects import cycles.
//
// This is supplemental to the single-file pipeline the rest of the
// compiler models directly: the core checker only ever consumes a
// single parsed Component plus a pre-populated import table of
// module.ComponentDef, which this package is responsible for building.
package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/uidom/uidom/internal/ast"
	"github.com/uidom/uidom/internal/checker"
	"github.com/uidom/uidom/internal/diag"
	"github.com/uidom/uidom/internal/module"
	"github.com/uidom/uidom/internal/parser"
	"github.com/uidom/uidom/internal/source"
)

// status mirrors the original compiler's Ready/Building/Done states: a
// file currently Building that is requested again is a cycle.
type status int

const (
	ready status = iota
	building
	done
)

// Entry is one resolved file: its parsed component, the derived
// definition other files see when they import it, and its own
// transitive import table (alias -> Entry), so a caller can recurse
// into dependencies in load order.
type Entry struct {
	AbsPath   string
	Component *ast.Component
	Def       *module.ComponentDef
	Imports   map[string]*Entry
	Diags     *diag.Bag
}

// Loader resolves and caches entries across an entire compile,
// detecting import cycles via a load stack the way the original
// resolve_ui_import/build_impl pair does with a Building sentinel.
type Loader struct {
	cache     map[string]*Entry
	status    map[string]status
	loadStack []string
}

// New creates an empty Loader.
func New() *Loader {
	return &Loader{
		cache:  map[string]*Entry{},
		status: map[string]status{},
	}
}

// Load resolves absPath and its full transitive import graph.
func (l *Loader) Load(absPath string) (*Entry, error) {
	absPath, err := filepath.Abs(absPath)
	if err != nil {
		return nil, err
	}

	switch l.status[absPath] {
	case done:
		return l.cache[absPath], nil
	case building:
		return nil, l.cycleError(absPath)
	}

	l.status[absPath] = building
	l.loadStack = append(l.loadStack, absPath)
	defer func() {
		l.loadStack = l.loadStack[:len(l.loadStack)-1]
	}()

	entry, err := l.loadOne(absPath)
	if err != nil {
		l.status[absPath] = ready
		return nil, err
	}

	l.status[absPath] = done
	l.cache[absPath] = entry
	return entry, nil
}

func (l *Loader) loadOne(absPath string) (*Entry, error) {
	f, err := source.Load(absPath)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", absPath, err)
	}

	comp, diags := parser.Parse(f)
	entry := &Entry{AbsPath: absPath, Component: comp, Diags: diags, Imports: map[string]*Entry{}}
	if comp == nil {
		return entry, nil
	}

	dir := filepath.Dir(absPath)
	for _, imp := range comp.Imports {
		depPath := imp.Path
		if !strings.HasSuffix(depPath, ".ui") {
			depPath += ".ui"
		}
		if !filepath.IsAbs(depPath) {
			depPath = filepath.Join(dir, depPath)
		}
		dep, err := l.Load(depPath)
		if err != nil {
			return entry, err
		}
		alias := imp.Alias
		if alias == "" {
			alias = dep.Component.Name
		}
		entry.Imports[alias] = dep
		entry.Diags.Merge(dep.Diags)
	}

	entry.Def = deriveDef(comp, entry.Diags)
	return entry, nil
}

// deriveDef builds the ComponentDef an importer sees for comp: its
// public properties, plus the child rules aggregated from every
// `Children` slot placeholder anywhere in its root element's subtree
// (see checker.AggregateSlotRules), diagnosing any conflicting
// placeholders into diags.
func deriveDef(comp *ast.Component, diags *diag.Bag) *module.ComponentDef {
	props := make(map[string]module.PropertyDef, len(comp.Props))
	for _, p := range comp.Props {
		if !p.IsPub {
			continue
		}
		props[p.Name] = module.PropertyDef{Type: module.TypeByName(p.Type)}
	}
	rules := module.NoChildren()
	if comp.Root != nil {
		rules = checker.AggregateSlotRules(comp.Root, diags)
	}
	return &module.ComponentDef{Name: comp.Name, Props: props, ChildRules: rules}
}

func (l *Loader) cycleError(absPath string) error {
	var chain []string
	chain = append(chain, l.loadStack...)
	chain = append(chain, absPath)
	return fmt.Errorf("import cycle detected: %s", strings.Join(chain, " -> "))
}

// ImportDefs flattens an Entry's direct imports into the alias ->
// ComponentDef table a checker's Module.Builtins should be extended
// with before checking that entry's own component.
func (e *Entry) ImportDefs() map[string]module.Type {
	out := make(map[string]module.Type, len(e.Imports))
	for alias, dep := range e.Imports {
		out[alias] = module.ComponentOf(dep.Def)
	}
	return out
}
