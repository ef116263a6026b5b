package module

import (
	"strings"

	"github.com/uidom/uidom/internal/diag"
	"github.com/uidom/uidom/internal/source"
)

// CtxKind tags the origin of a name a lookup resolved: the fixed
// builtin registry, the checked component's own declared properties, or
// a lexical scope frame at some depth.
type CtxKind int

const (
	CtxBuiltin CtxKind = iota
	CtxComponent
	CtxScope
)

// Ctx is the resolved origin of a name. Scope carries the frame depth
// (0 = outermost) the name was found at.
type Ctx struct {
	Kind  CtxKind
	Depth int
}

// Module is the per-component name-resolution state: the fixed builtin
// registry, this file's import map, this component's declared
// properties, and the stack of lexical scopes opened by repeater
// bindings. Resolution order is always builtins, then innermost scope
// out to outermost, then component properties.
type Module struct {
	Builtins       map[string]Type
	Imports        map[string]string // alias/name -> resolved import path
	ComponentProps map[string]PropertyDecl
	Stack          []map[string]PropertyDecl

	Diags *diag.Bag
}

// New creates a Module seeded with the given builtin registry.
func New(builtins map[string]Type, diags *diag.Bag) *Module {
	return &Module{
		Builtins:       builtins,
		Imports:        map[string]string{},
		ComponentProps: map[string]PropertyDecl{},
		Diags:          diags,
	}
}

// PushScope opens a new, empty lexical scope frame. Every call must be
// paired with a PopScope bracketing exactly the region it applies to
// (an element's repeater binding and its subtree).
func (m *Module) PushScope() {
	m.Stack = append(m.Stack, map[string]PropertyDecl{})
}

// PopScope closes the innermost lexical scope frame.
func (m *Module) PopScope() {
	if len(m.Stack) == 0 {
		return
	}
	m.Stack = m.Stack[:len(m.Stack)-1]
}

// Declare adds name into the innermost scope frame. Shadowing a name
// already visible in an enclosing (already-pushed) scope frame is a
// warning; shadowing a component property or a builtin is an error,
// since those are visible from everywhere and an accidental shadow is
// almost always a mistake.
func (m *Module) Declare(name string, t Type, span source.Span) {
	if len(m.Stack) == 0 {
		m.Stack = append(m.Stack, map[string]PropertyDecl{})
	}
	if _, ok := m.Builtins[name]; ok {
		m.Diags.Errorf(diag.RES009, span, "%q shadows a builtin name", name)
	} else if _, ok := m.ComponentProps[name]; ok {
		m.Diags.Errorf(diag.RES009, span, "%q shadows a component property", name)
	} else {
		for i := 0; i < len(m.Stack)-1; i++ {
			if _, ok := m.Stack[i][name]; ok {
				m.Diags.Warnf(diag.RES009, span, "%q shadows an outer binding", name)
				break
			}
		}
	}
	top := m.Stack[len(m.Stack)-1]
	top[name] = PropertyDecl{Name: name, Type: t, Span: span}
}

// Lookup resolves a dotted path, walking it segment by segment: the
// first segment is resolved against builtins, then scopes innermost to
// outermost, then component properties; each further segment descends
// into the previous segment's type, which must be Object or Module.
func (m *Module) Lookup(path []string, span source.Span) (Ctx, Type, bool) {
	if len(path) == 0 {
		return Ctx{}, nil, false
	}

	ctx, t, ok := m.lookupBase(path[0])
	if !ok {
		m.Diags.Errorf(diag.RES001, span, "unknown name %q", path[0])
		return Ctx{}, nil, false
	}

	for _, seg := range path[1:] {
		next, ok := descend(t, seg)
		if !ok {
			m.Diags.Errorf(diag.RES008, span, "%q has no child properties", pathString(path))
			return Ctx{}, nil, false
		}
		t = next
	}
	return ctx, t, true
}

func (m *Module) lookupBase(name string) (Ctx, Type, bool) {
	if t, ok := m.Builtins[name]; ok {
		return Ctx{Kind: CtxBuiltin}, t, true
	}
	for i := len(m.Stack) - 1; i >= 0; i-- {
		if decl, ok := m.Stack[i][name]; ok {
			return Ctx{Kind: CtxScope, Depth: i}, decl.Type, true
		}
	}
	if decl, ok := m.ComponentProps[name]; ok {
		return Ctx{Kind: CtxComponent}, decl.Type, true
	}
	return Ctx{}, nil, false
}

func descend(t Type, seg string) (Type, bool) {
	if def, ok := AsModuleDef(t); ok {
		if decl, ok := def.Props[seg]; ok {
			return decl.Type, true
		}
		return nil, false
	}
	if fields, ok := AsObject(t); ok {
		if ft, ok := fields[seg]; ok {
			return ft, true
		}
		return nil, false
	}
	return nil, false
}

func pathString(path []string) string { return strings.Join(path, ".") }

// GetComponentDef resolves path and requires it to name a Component
// type, for use as an element's tag.
func (m *Module) GetComponentDef(path []string, span source.Span) (*ComponentDef, bool) {
	_, t, ok := m.Lookup(path, span)
	if !ok {
		return nil, false
	}
	def, ok := AsComponentDef(t)
	if !ok {
		m.Diags.Errorf(diag.RES002, span, "%q is not a component", pathString(path))
		return nil, false
	}
	return def, true
}
