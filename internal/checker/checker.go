// Package checker resolves names and types over the untyped element
// tree, producing a typed tree the code generator can walk without
// re-deriving any of this information.
package checker

import (
	"strings"

	"github.com/uidom/uidom/internal/ast"
	"github.com/uidom/uidom/internal/builtins"
	"github.com/uidom/uidom/internal/diag"
	"github.com/uidom/uidom/internal/module"
	"github.com/uidom/uidom/internal/source"
)

// Coercion records which implicit conversion (if any) was applied to
// reach an expression's final checked type, so the code generator knows
// whether to emit the expression as-is or wrapped in a conversion.
type Coercion int

const (
	NoCoercion Coercion = iota
	IntToFloat
	ToString
)

// CheckedExpression is an expression after resolution: its original
// (untyped) form, its final type post-coercion, which coercion (if any)
// was applied, and the component-property names it depends on.
type CheckedExpression struct {
	Expr     ast.Expr
	Type     module.Type
	Coercion Coercion
	Bindings []string
}

// CheckedRepeater is a `for` clause after the collection has been
// rewritten into an AsIter(source, elemType) adapter.
type CheckedRepeater struct {
	Index      string
	Item       string
	ElemType   module.Type
	Collection CheckedExpression
}

// PropAssign is a checked assignment to a plain (non-composite) property.
type PropAssign struct {
	Name string
	Expr CheckedExpression
}

// Preset is a checked assignment to a composite property that fans out
// to a set of sibling properties (e.g. Rect's scaleToParent).
type Preset struct {
	Name     string
	Expr     CheckedExpression
	Clobbers []string
}

// Content is one checked child of an element: either a nested *Element
// or a pass-through *ast.ChildrenFilter slot (unchanged from parsing,
// since a slot carries no expression to type-check).
type Content = any

// Element is the typed counterpart of ast.Element.
type Element struct {
	Tag       []string
	Span      source.Span
	Condition *CheckedExpression
	Repeater  *CheckedRepeater
	Props     []PropAssign
	Presets   []Preset
	Children  []Content
}

// Component is the typed counterpart of ast.Component.
type Component struct {
	Name       string
	Props      []ast.PropDecl
	Root       *Element
	ChildRules module.ChildRules
}

// CheckComponent type-checks comp's entire tree against m, which must
// already carry the builtin registry and any resolved import defs in
// m.Builtins. The component's own declared properties are registered
// into m.ComponentProps before the root element is checked. ChildRules
// is populated by aggregating every `Children` slot placeholder in the
// component's subtree (see AggregateSlotRules), diagnosing conflicts via
// TYP005 into m.Diags. Returns the typed component and whether checking
// succeeded (!m.Diags.Failed()).
func CheckComponent(comp *ast.Component, m *module.Module) (*Component, bool) {
	for _, p := range comp.Props {
		m.ComponentProps[p.Name] = module.NewComponentProp(p.Name, module.TypeByName(p.Type), p.IsPub, p.Span)
	}

	checked := &Component{Name: comp.Name, Props: comp.Props}
	if comp.Root == nil {
		return checked, !m.Diags.Failed()
	}
	checked.ChildRules = AggregateSlotRules(comp.Root, m.Diags)
	checked.Root = checkElement(m, comp.Root)
	return checked, !m.Diags.Failed()
}

func checkElement(m *module.Module, el *ast.Element) *Element {
	m.PushScope()
	defer m.PopScope()

	out := &Element{Tag: el.Tag, Span: el.Span()}

	if el.Condition != nil {
		cond := checkExpr(m, el.Condition.Expr, module.Boolean)
		out.Condition = &cond
	}

	if el.Repeater != nil {
		out.Repeater = checkRepeater(m, el.Repeater)
	}

	def, ok := m.GetComponentDef(el.Tag, el.NameSpan)
	if !ok {
		for _, child := range el.Children {
			out.Children = append(out.Children, checkContent(m, child, nil))
		}
		return out
	}

	clobbered := map[string]source.Span{}
	explicit := map[string]bool{}
	for _, pa := range el.Props {
		explicit[pa.Name] = true
	}

	for _, pa := range el.Props {
		propDef, ok := def.Props[pa.Name]
		if !ok {
			m.Diags.Errorf(diag.RES003, pa.Span, "%s: no such property", pa.Name)
			continue
		}
		checked := checkExpr(m, pa.Expr, propDef.Type)
		if len(propDef.ChildNames) > 0 {
			out.Presets = append(out.Presets, Preset{Name: pa.Name, Expr: checked, Clobbers: propDef.ChildNames})
			for _, c := range propDef.ChildNames {
				clobbered[c] = pa.Span
			}
		} else {
			out.Props = append(out.Props, PropAssign{Name: pa.Name, Expr: checked})
		}
	}
	for name, span := range clobbered {
		if explicit[name] {
			m.Diags.Errorf(diag.TYP003, span, "preset assignment also clobbers explicitly assigned property %q", name)
		}
	}

	rules := def.ChildRules.Clone()
	for _, child := range el.Children {
		out.Children = append(out.Children, checkContent(m, child, &rules))
	}

	return out
}

func checkContent(m *module.Module, content ast.Content, rules *module.ChildRules) Content {
	switch c := content.(type) {
	case *ast.ChildrenFilter:
		return c
	case *ast.Element:
		if rules != nil {
			path := strings.Join(c.Tag, ".")
			ok, consumes := rules.Permits(path)
			if !ok {
				m.Diags.Errorf(diag.TYP004, c.NameSpan, "%q is not a permitted child here", path)
			} else if consumes {
				delete(rules.OneOf, path)
			}
		}
		return checkElement(m, c)
	default:
		return nil
	}
}

func checkRepeater(m *module.Module, rep *ast.Repeater) *CheckedRepeater {
	collChecked := checkExpr(m, rep.Collection, nil)
	elemType, ok := module.IterType(collChecked.Type)
	if !ok {
		m.Diags.Errorf(diag.TYP002, rep.Collection.Span(), "expression of type %s is not iterable", collChecked.Type)
		elemType = module.Int
	}
	out := &CheckedRepeater{Index: rep.Index, Item: rep.Item, ElemType: elemType, Collection: collChecked}
	if rep.Index != "" {
		m.Declare(rep.Index, module.Int, rep.Span())
	}
	if rep.Item != "" {
		m.Declare(rep.Item, elemType, rep.Span())
	}
	return out
}

// checkExpr type-checks expr, optionally against an implicit expected
// type. When implicit is nil the expression's natural type is returned
// unchanged; otherwise implicit coercion (Int->Float, any->String) is
// attempted before falling back to an equality check.
func checkExpr(m *module.Module, expr ast.Expr, implicit module.Type) CheckedExpression {
	var found module.Type
	var bindings []string

	switch e := expr.(type) {
	case *ast.PxLit:
		found = module.Length
	case *ast.FloatLit:
		found = module.Float
	case *ast.IntLit:
		found = module.Int
	case *ast.ColorLit:
		found = module.Brush
	case *ast.StringLit:
		found = module.String
	case *ast.BoolLit:
		found = module.Boolean
	case *ast.EnumLit:
		found = checkEnumLit(m, e, implicit)
	case *ast.PathExpr:
		found, bindings = checkPath(m, e)
	case *ast.CallExpr:
		found, bindings = checkCall(m, e)
	default:
		m.Diags.Errorf(diag.TYP001, expr.Span(), "unsupported expression")
		found = module.String
	}

	checked := CheckedExpression{Expr: expr, Type: found, Bindings: bindings}
	if implicit == nil {
		return checked
	}
	if found.Equal(implicit) {
		return checked
	}
	if found.Kind() == module.KInt && implicit.Kind() == module.KFloat {
		checked.Coercion = IntToFloat
		checked.Type = module.Float
		return checked
	}
	if implicit.Kind() == module.KString {
		checked.Coercion = ToString
		checked.Type = module.String
		return checked
	}
	m.Diags.Errorf(diag.TYP001, expr.Span(), "expected type %s, found %s", implicit, found)
	checked.Type = implicit
	return checked
}

func checkEnumLit(m *module.Module, e *ast.EnumLit, implicit module.Type) module.Type {
	if implicit == nil {
		m.Diags.Errorf(diag.RES006, e.Span(), "enum literal %q used outside of an enum-typed context", e.Name)
		return module.EnumLayout
	}
	if implicit.Kind() != module.KEnumLayout {
		m.Diags.Errorf(diag.RES006, e.Span(), "enum literal %q is not valid for type %s", e.Name, implicit)
		return implicit
	}
	if !builtins.EnumLayoutMembers()[e.Name] {
		m.Diags.Errorf(diag.RES007, e.Span(), "%q is not a member of EnumLayout", e.Name)
	}
	return module.EnumLayout
}

func checkPath(m *module.Module, e *ast.PathExpr) (module.Type, []string) {
	ctx, t, ok := m.Lookup(e.Segments, e.Span())
	if !ok {
		return module.String, nil
	}
	if ctx.Kind == module.CtxComponent {
		return t, []string{strings.Join(e.Segments, ".")}
	}
	return t, nil
}

func checkCall(m *module.Module, e *ast.CallExpr) (module.Type, []string) {
	ctx, calleeType, ok := m.Lookup(e.Callee.Segments, e.Callee.Span())
	if !ok {
		return module.String, nil
	}
	args, ret, isFn := module.AsFunction(calleeType)
	if !isFn {
		m.Diags.Errorf(diag.RES004, e.Callee.Span(), "%q is not callable", strings.Join(e.Callee.Segments, "."))
		return module.String, nil
	}
	if len(args) != len(e.Args) {
		m.Diags.Errorf(diag.RES005, e.Span(), "%q expects %d argument(s), found %d", strings.Join(e.Callee.Segments, "."), len(args), len(e.Args))
	}

	var bindings []string
	if ctx.Kind == module.CtxComponent {
		bindings = append(bindings, strings.Join(e.Callee.Segments, "."))
	}
	for i, arg := range e.Args {
		var want module.Type
		if i < len(args) {
			want = args[i]
		}
		checked := checkExpr(m, arg, want)
		bindings = append(bindings, checked.Bindings...)
	}
	return ret, bindings
}

// AggregateSlotRules recursively scans root's entire subtree for
// `Children` slot placeholders, producing the ChildRules an importer
// should see for the component root defines: a placeholder nested
// several elements deep (e.g. inside a builtin container like Layout
// or Pane) contributes exactly the same as one directly on root, since
// it is still reachable without going through another component's own
// boundary. Conflicting placeholders (a bare Children() alongside a
// filtered Children(...), or the same child path admitted by more than
// one filter) are diagnosed via TYP005 when diags is non-nil; diags may
// be nil for a check-free shallow scan.
func AggregateSlotRules(root *ast.Element, diags *diag.Bag) module.ChildRules {
	rules := module.NoChildren()
	seenAt := map[string]source.Span{}

	var walk func(el *ast.Element)
	walk = func(el *ast.Element) {
		for _, child := range el.Children {
			switch c := child.(type) {
			case *ast.ChildrenFilter:
				aggregateFilter(&rules, seenAt, c, diags)
			case *ast.Element:
				walk(c)
			}
		}
	}
	walk(root)
	return rules
}

func aggregateFilter(rules *module.ChildRules, seenAt map[string]source.Span, filter *ast.ChildrenFilter, diags *diag.Bag) {
	if len(filter.Paths) == 0 {
		if diags != nil && len(rules.AnyOf) > 0 {
			diags.Errorf(diag.TYP005, filter.Span(), "an unfiltered Children() slot conflicts with an already-declared filtered Children(...) slot")
		}
		rules.Any = true
		return
	}
	if diags != nil && rules.Any {
		diags.Errorf(diag.TYP005, filter.Span(), "a filtered Children(...) slot conflicts with an already-declared unfiltered Children() slot")
	}
	for _, path := range filter.Paths {
		name := strings.Join(path, ".")
		if prior, ok := seenAt[name]; ok {
			if diags != nil {
				diags.Errorf(diag.TYP005, filter.Span(), "child path %q is already admitted by a Children(...) slot at %s", name, prior)
			}
			continue
		}
		seenAt[name] = filter.Span()
		if rules.AnyOf == nil {
			rules.AnyOf = map[string]bool{}
		}
		rules.AnyOf[name] = true
	}
}
