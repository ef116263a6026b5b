// Package codegen is the thin external emitter of spec §6.3: it walks a
// checked component and produces Go source text that, compiled against
// internal/host and internal/property, constructs the component's
// property model and its element tree. It never re-checks anything the
// checker has already decided; a checked tree that passed CheckComponent
// is assumed well-formed here.
package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/uidom/uidom/internal/ast"
	"github.com/uidom/uidom/internal/checker"
	"github.com/uidom/uidom/internal/module"
)

// Generate renders comp as a complete Go source file in package pkg.
func Generate(comp *checker.Component, pkg string) (string, error) {
	g := &generator{comp: comp, propTypes: map[string]module.Type{}}
	for _, p := range comp.Props {
		g.propTypes[p.Name] = module.TypeByName(p.Type)
	}
	return g.run(pkg)
}

type generator struct {
	comp      *checker.Component
	propTypes map[string]module.Type
	usesRand  bool
}

func (g *generator) run(pkg string) (string, error) {
	var b strings.Builder

	name := g.comp.Name
	if name == "" {
		return "", fmt.Errorf("codegen: component has no name")
	}

	fmt.Fprintf(&b, "// %sProps holds %s's declared component properties as source cells.\n", name, name)
	fmt.Fprintf(&b, "type %sProps struct {\n", name)
	for _, p := range sortedProps(g.comp.Props) {
		t := g.propTypes[p.Name]
		goT, err := goType(t)
		if err != nil {
			return "", fmt.Errorf("property %q: %w", p.Name, err)
		}
		fmt.Fprintf(&b, "\t%s *property.Cell[%s]\n", exportedName(p.Name), goT)
	}
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "// %s is the generated element tree for component %q.\n", name, name)
	fmt.Fprintf(&b, "type %s struct {\n\tProps %sProps\n", name, name)
	if g.comp.Root != nil {
		b.WriteString("\tRoot  host.Node\n")
	}
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "// New%s constructs %s's property model and element tree against f.\n", name, name)
	fmt.Fprintf(&b, "func New%s(f *property.Factory) *%s {\n", name, name)
	fmt.Fprintf(&b, "\tc := &%s{}\n", name)
	for _, p := range sortedProps(g.comp.Props) {
		cellExpr, err := newCellExpr(g.propTypes[p.Name])
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "\tc.Props.%s = %s\n", exportedName(p.Name), cellExpr)
	}
	if g.comp.Root != nil {
		rootExpr, err := g.emitElement(g.comp.Root, map[string]string{})
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "\tc.Root = %s\n", rootExpr)
	}
	b.WriteString("\treturn c\n}\n")

	var header strings.Builder
	fmt.Fprintf(&header, "package %s\n\n", pkg)
	header.WriteString("import (\n")
	if g.usesRand {
		header.WriteString("\t\"math/rand\"\n\n")
	}
	header.WriteString("\t\"github.com/uidom/uidom/internal/host\"\n\t\"github.com/uidom/uidom/internal/property\"\n)\n\n")

	return header.String() + b.String(), nil
}

// sortedProps returns comp.Props in a stable (name) order so repeated
// generation of the same checked component produces byte-identical
// output, matching the checker's own determinism guarantee.
func sortedProps(props []ast.PropDecl) []ast.PropDecl {
	out := append([]ast.PropDecl(nil), props...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// emitElement renders el as a self-contained Go expression of type
// host.Node: an immediately-invoked function literal that allocates the
// element (or Slot/Repeater wrapper), applies its props/presets, appends
// its children, and returns it. An `if` and a `for` modifier can both be
// present on the same tag, in which case the condition gates the whole
// repeated construct, so Slot wraps Repeater and not the reverse.
func (g *generator) emitElement(el *checker.Element, scope map[string]string) (string, error) {
	var base string
	var err error
	if el.Repeater != nil {
		base, err = g.emitRepeater(el, scope)
	} else {
		base, err = g.emitElementLeaf(el, scope)
	}
	if err != nil {
		return "", err
	}
	if el.Condition == nil {
		return base, nil
	}
	insertStmt, err := g.genAssign("slot.Insert", *el.Condition, scope, nil, "")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("func() host.Node {\n\t\tslot := host.NewSlot(f, %s)\n\t\t%s\n\t\treturn slot\n\t}()", base, insertStmt), nil
}

// emitElementLeaf builds the element's own builtin node and its
// props/presets/children, ignoring any condition or repeater modifier
// (both are handled by emitElement and emitRepeater respectively, which
// call this for the innermost construction).
func (g *generator) emitElementLeaf(el *checker.Element, scope map[string]string) (string, error) {
	if len(el.Tag) == 0 {
		return "", fmt.Errorf("codegen: element has no tag")
	}
	tag := el.Tag[0]
	ctor, fields, ok := builtinShape(tag)
	if !ok {
		return "", fmt.Errorf("codegen: %q is not a builtin component (custom-component codegen is not implemented)", tag)
	}

	var stmts []string
	stmts = append(stmts, fmt.Sprintf("e := %s", ctor))

	for _, pa := range el.Props {
		field, ok := fields[pa.Name]
		if !ok {
			return "", fmt.Errorf("codegen: %q has no generated field for property %q", tag, pa.Name)
		}
		stmt, err := g.genAssign("e."+field, pa.Expr, scope, nil, "")
		if err != nil {
			return "", err
		}
		stmts = append(stmts, stmt)
	}
	for _, preset := range el.Presets {
		field, ok := fields[preset.Name]
		if !ok {
			return "", fmt.Errorf("codegen: %q has no generated field for preset %q", tag, preset.Name)
		}
		stmt, err := g.genAssign("e."+field, preset.Expr, scope, nil, "")
		if err != nil {
			return "", err
		}
		stmts = append(stmts, stmt)
	}
	for _, child := range el.Children {
		switch c := child.(type) {
		case *checker.Element:
			childExpr, err := g.emitElement(c, scope)
			if err != nil {
				return "", err
			}
			stmts = append(stmts, fmt.Sprintf("e.AppendChild(%s)", childExpr))
		case *ast.ChildrenFilter:
			// A Children slot placeholder has no content of its own to
			// emit here; it only matters when this component is imported
			// and instantiated with a body, which this emitter does not
			// yet support (the reference generator has the same gap).
		default:
			return "", fmt.Errorf("codegen: unrecognized child content %T", child)
		}
	}

	return fmt.Sprintf("func() host.Node {\n\t\t%s\n\t\treturn e\n\t}()", strings.Join(stmts, "\n\t\t")), nil
}

func (g *generator) emitRepeater(el *checker.Element, scope map[string]string) (string, error) {
	rep := el.Repeater
	itemGoType, err := goType(rep.ElemType)
	if err != nil {
		return "", fmt.Errorf("repeater item type: %w", err)
	}
	ops, err := opsExpr(rep.ElemType)
	if err != nil {
		return "", fmt.Errorf("repeater item type: %w", err)
	}

	innerScope := map[string]string{}
	for k, v := range scope {
		innerScope[k] = v
	}
	if rep.Item != "" {
		innerScope[rep.Item] = "item"
	}
	if rep.Index != "" {
		innerScope[rep.Index] = "index"
	}

	innerExpr, err := g.emitElementLeaf(el, innerScope)
	if err != nil {
		return "", err
	}

	collWrap, collType := collectionWrap(rep.Collection.Type)
	collStmt, err := g.genAssign("rep.Collection", rep.Collection, scope, collWrap, collType)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(
		"func() host.Node {\n\t\trep := host.NewRepeater[%s](f, %s, func(index int64, item %s) []host.Node {\n\t\t\treturn []host.Node{%s}\n\t\t})\n\t\t%s\n\t\treturn rep\n\t}()",
		itemGoType, ops, itemGoType, innerExpr, collStmt,
	), nil
}

// collectionWrap decides how a repeater's checked collection expression
// (of type Int or Iter(elem)) must be adapted into an Iter value: Int
// collections rewrite through property.FromInt, matching the AsIter(Int,
// Int) adapter spec.md §4.3/§8 scenario 5 names; an already-Iter
// collection passes through unchanged.
func collectionWrap(t module.Type) (wrap func(string) string, resultGoType string) {
	if t.Kind() == module.KInt {
		return func(v string) string { return fmt.Sprintf("property.FromInt(%s)", v) }, "property.Iter[int64]"
	}
	return func(v string) string { return v }, ""
}

// genAssign renders one property/preset/condition/collection assignment
// as a Go statement against target (an already-addressable *property.Cell
// expression): Set(...) when the checked expression has no bindings,
// BindN(...) when it depends on N component properties. wrap, if
// non-nil, transforms the rendered value expression (and is applied
// uniformly to both the constant and the bound closure's return value);
// wrapGoType overrides the declared Go type of the wrapped result when
// it differs from the checked expression's own type (repeater
// collections are the only user of this).
func (g *generator) genAssign(target string, ce checker.CheckedExpression, scope map[string]string, wrap func(string) string, wrapGoType string) (string, error) {
	if wrap == nil {
		wrap = func(v string) string { return v }
	}

	resultGoType := wrapGoType
	if resultGoType == "" {
		t, err := goType(ce.Type)
		if err != nil {
			return "", err
		}
		resultGoType = t
	}

	if len(ce.Bindings) == 0 {
		val, err := g.exprToGo(ce.Expr, scope)
		if err != nil {
			return "", err
		}
		val = applyCoercion(val, ce.Coercion)
		return fmt.Sprintf("%s.Set(%s)", target, wrap(val)), nil
	}

	names := map[string]string{}
	for k, v := range scope {
		names[k] = v
	}
	for _, b := range ce.Bindings {
		names[b] = b
	}
	val, err := g.exprToGo(ce.Expr, names)
	if err != nil {
		return "", err
	}
	val = applyCoercion(val, ce.Coercion)

	var params, args []string
	for _, b := range ce.Bindings {
		t, ok := g.propTypes[b]
		if !ok {
			return "", fmt.Errorf("codegen: binding %q does not name a declared property", b)
		}
		goT, err := goType(t)
		if err != nil {
			return "", fmt.Errorf("binding %q: %w", b, err)
		}
		params = append(params, fmt.Sprintf("%s %s", b, goT))
		args = append(args, "c.Props."+exportedName(b))
	}

	bindFn, ok := map[int]string{1: "Bind1", 2: "Bind2", 3: "Bind3", 4: "Bind4"}[len(ce.Bindings)]
	if !ok {
		return "", fmt.Errorf("codegen: expression depends on %d properties, at most 4 are supported per binding", len(ce.Bindings))
	}

	return fmt.Sprintf(
		"property.%s(%s, %s, func(%s) %s { return %s })",
		bindFn, target, strings.Join(args, ", "), strings.Join(params, ", "), resultGoType, wrap(val),
	), nil
}

func applyCoercion(val string, c checker.Coercion) string {
	switch c {
	case checker.IntToFloat:
		return fmt.Sprintf("float64(%s)", val)
	case checker.ToString:
		return fmt.Sprintf("property.Stringify(%s)", val)
	default:
		return val
	}
}

// exprToGo renders expr as a Go expression. names resolves every single-
// segment path this expression can legally reference: a repeater-bound
// loop variable or a component property participating in this
// assignment's bindings, each mapped to the Go identifier that holds it
// in the surrounding scope (a closure parameter, in the bound case).
func (g *generator) exprToGo(expr ast.Expr, names map[string]string) (string, error) {
	switch e := expr.(type) {
	case *ast.PxLit:
		return fmt.Sprintf("property.Px(%s)", formatFloat(e.Value)), nil
	case *ast.FloatLit:
		return formatFloat(e.Value), nil
	case *ast.IntLit:
		return fmt.Sprintf("int64(%d)", e.Value), nil
	case *ast.ColorLit:
		return fmt.Sprintf("property.RGBA(%s, %s, %s, %s)", formatFloat(e.R), formatFloat(e.G), formatFloat(e.B), formatFloat(e.A)), nil
	case *ast.StringLit:
		return fmt.Sprintf("%q", e.Value), nil
	case *ast.BoolLit:
		if e.Value {
			return "true", nil
		}
		return "false", nil
	case *ast.EnumLit:
		switch e.Name {
		case "row":
			return "property.LayoutRow", nil
		case "column":
			return "property.LayoutColumn", nil
		default:
			return "", fmt.Errorf("codegen: unrecognized enum member %q", e.Name)
		}
	case *ast.PathExpr:
		if len(e.Segments) == 1 {
			if id, ok := names[e.Segments[0]]; ok {
				return id, nil
			}
		}
		return "", fmt.Errorf("codegen: unresolved reference %q", strings.Join(e.Segments, "."))
	case *ast.CallExpr:
		return g.builtinCall(e, names)
	default:
		return "", fmt.Errorf("codegen: unsupported expression %T", expr)
	}
}

// builtinCall renders a call to one of the fixed builtin module
// functions (spec §6.2: Brush.rgb, Math.random); no other callee is
// reachable here since the checker only admits calls through a resolved
// function type and the builtin registry is the only source of one.
func (g *generator) builtinCall(e *ast.CallExpr, names map[string]string) (string, error) {
	path := strings.Join(e.Callee.Segments, ".")
	switch path {
	case "Brush.rgb":
		if len(e.Args) != 3 {
			return "", fmt.Errorf("codegen: Brush.rgb expects 3 arguments, found %d", len(e.Args))
		}
		args := make([]string, 3)
		for i, a := range e.Args {
			v, err := g.exprToGo(a, names)
			if err != nil {
				return "", err
			}
			args[i] = fmt.Sprintf("float64(%s)", v)
		}
		return fmt.Sprintf("property.RGB(%s)", strings.Join(args, ", ")), nil
	case "Math.random":
		g.usesRand = true
		return "rand.Float64()", nil
	default:
		return "", fmt.Errorf("codegen: unsupported call %q", path)
	}
}

func formatFloat(v float64) string {
	s := fmt.Sprintf("%g", v)
	return s
}

// goType maps a checked Type to the Go type its value lives as.
func goType(t module.Type) (string, error) {
	switch t.Kind() {
	case module.KInt:
		return "int64", nil
	case module.KFloat:
		return "float64", nil
	case module.KLength:
		return "property.Length", nil
	case module.KBrush:
		return "property.Brush", nil
	case module.KString:
		return "string", nil
	case module.KBoolean:
		return "bool", nil
	case module.KEnumLayout:
		return "property.EnumLayout", nil
	case module.KIter:
		elem, ok := module.IterType(t)
		if !ok {
			return "", fmt.Errorf("type %s has no iterable element type", t)
		}
		elemGo, err := goType(elem)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("property.Iter[%s]", elemGo), nil
	default:
		return "", fmt.Errorf("type %s has no generated cell representation (see DESIGN.md: Callback is a checked-only type)", t)
	}
}

// opsExpr mirrors goType for the Ops vtable a generated Factory
// constructor or Repeater needs for a given checked Type.
func opsExpr(t module.Type) (string, error) {
	switch t.Kind() {
	case module.KInt:
		return "property.IntOps", nil
	case module.KFloat:
		return "property.FloatOps", nil
	case module.KLength:
		return "property.LengthOps", nil
	case module.KBrush:
		return "property.BrushOps", nil
	case module.KString:
		return "property.StringOps", nil
	case module.KBoolean:
		return "property.BooleanOps", nil
	case module.KEnumLayout:
		return "property.EnumLayoutOps", nil
	default:
		return "", fmt.Errorf("type %s has no Ops vtable for codegen", t)
	}
}

// newCellExpr renders the Factory constructor call that allocates a
// fresh source cell for a component's own declared property.
func newCellExpr(t module.Type) (string, error) {
	switch t.Kind() {
	case module.KInt:
		return "f.NewInt(0, nil)", nil
	case module.KFloat:
		return "f.NewFloat(0, nil)", nil
	case module.KLength:
		return "f.NewLength(property.Px(0), nil)", nil
	case module.KBrush:
		return "f.NewBrush(property.Transparent(), nil)", nil
	case module.KString:
		return "f.NewString(\"\", nil)", nil
	case module.KBoolean:
		return "f.NewBoolean(false, nil)", nil
	case module.KEnumLayout:
		return "f.NewEnumLayout(property.LayoutRow, nil)", nil
	default:
		return "", fmt.Errorf("type %s cannot be a component property cell (see DESIGN.md: Callback is a checked-only type)", t)
	}
}

// builtinShape returns the constructor call and the prop/preset-name ->
// generated-field-name map for one of the fixed builtin tags (spec §6.2).
func builtinShape(tag string) (ctor string, fields map[string]string, ok bool) {
	switch tag {
	case "Rect":
		return "host.NewRect(f)", map[string]string{
			"x1": "X1", "y1": "Y1", "x2": "X2", "y2": "Y2",
			"fill": "Fill", "scaleToParent": "ScaleToParent",
		}, true
	case "Layout":
		return "host.NewLayout(f)", map[string]string{
			"layout": "LayoutDir", "padding": "Padding",
		}, true
	case "Pane":
		return "host.NewPane(f)", map[string]string{}, true
	case "Text":
		return "host.NewText(f)", map[string]string{
			"content": "Content",
		}, true
	default:
		return "", nil, false
	}
}

// exportedName title-cases a source property name for use as a Go
// struct field (size -> Size, scaleToParent -> ScaleToParent).
func exportedName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
