package module

import "github.com/uidom/uidom/internal/source"

// PropertyDef is one entry in a ComponentDef's prop table: the
// property's type, and the set of sibling property names it overrides
// when used as a preset (e.g. Rect's scaleToParent overrides x1/y1/x2/y2).
type PropertyDef struct {
	Type       Type
	ChildNames []string
}

// ChildRules restricts which elements may appear as children of a
// component instance. Any admits every child; AnyOf admits only listed
// tag paths (repeatable); OneOf admits each listed path at most once,
// removed from the set on first match.
type ChildRules struct {
	Any   bool
	AnyOf map[string]bool
	OneOf map[string]bool
}

// AnyChildren returns a ChildRules admitting any child element.
func AnyChildren() ChildRules { return ChildRules{Any: true} }

// NoChildren returns a ChildRules admitting no children at all.
func NoChildren() ChildRules { return ChildRules{} }

// AnyOfChildren returns a ChildRules admitting only the listed paths,
// each repeatable any number of times.
func AnyOfChildren(paths ...string) ChildRules {
	m := make(map[string]bool, len(paths))
	for _, p := range paths {
		m[p] = true
	}
	return ChildRules{AnyOf: m}
}

// IsContainer reports whether this component can hold any children at
// all.
func (r ChildRules) IsContainer() bool {
	return r.Any || len(r.AnyOf) > 0 || len(r.OneOf) > 0
}

// Clone returns a copy of r whose OneOf set (if any) is independent, so
// a caller can consume one-of slots per-instance without mutating the
// shared ComponentDef the rules were read from.
func (r ChildRules) Clone() ChildRules {
	out := ChildRules{Any: r.Any, AnyOf: r.AnyOf}
	if r.OneOf != nil {
		out.OneOf = make(map[string]bool, len(r.OneOf))
		for k, v := range r.OneOf {
			out.OneOf[k] = v
		}
	}
	return out
}

// Permits reports whether a child with the given tag path is admitted,
// and whether admitting it consumes a one-of slot (the caller should
// remove the path from OneOf on a true, true result).
func (r ChildRules) Permits(path string) (ok bool, consumesOneOf bool) {
	if r.Any {
		return true, false
	}
	if r.AnyOf[path] {
		return true, false
	}
	if r.OneOf[path] {
		return true, true
	}
	return false, false
}

// ComponentDef is a fixed or authored component's shape: its property
// table and child admission rules. Equality is name-identified, not
// structural, matching the Type set's rule for Component/Module.
type ComponentDef struct {
	Name       string
	Props      map[string]PropertyDef
	ChildRules ChildRules
}

// ModuleDef is a builtin module's shape (Brush, Math): a table of
// callable, Function-typed members.
type ModuleDef struct {
	Name  string
	Props map[string]PropertyDecl
}

// PropertyDecl is a declared property: an input of a component, a
// module member, or a scope binding synthesized for a repeater. Two
// PropertyDecls compare equal (for duplicate-declaration checks) by
// name and type only, ignoring visibility/default/span.
type PropertyDecl struct {
	IsPub   bool
	Name    string
	Type    Type
	Default interface{} // ast.Expr; kept as interface{} to avoid an import cycle
	Span    source.Span
}

// SameAs reports the mod.rs PropDecl equality rule: name and type only.
func (d PropertyDecl) SameAs(o PropertyDecl) bool {
	return d.Name == o.Name && d.Type.Equal(o.Type)
}

// NewComponentProp builds a public or private component input property.
func NewComponentProp(name string, t Type, isPub bool, span source.Span) PropertyDecl {
	return PropertyDecl{IsPub: isPub, Name: name, Type: t, Span: span}
}

// NewModuleProp builds a module member property (always public).
func NewModuleProp(name string, t Type) PropertyDecl {
	return PropertyDecl{IsPub: true, Name: name, Type: t}
}

// NewFunctionProp builds a Function-typed module member.
func NewFunctionProp(name string, args []Type, ret Type) PropertyDecl {
	return PropertyDecl{IsPub: true, Name: name, Type: FunctionOf(args, ret)}
}
