// Package module resolves names: the fixed builtin registry, a
// component's own declared properties, and the stack of lexical scopes
// opened by repeater bindings. It also defines the closed Type set every
// expression and property is checked against.
package module

import (
	"fmt"
	"strings"
)

// Kind discriminates the closed Type set.
type Kind int

const (
	KInt Kind = iota
	KFloat
	KLength
	KBrush
	KString
	KBoolean
	KEnumLayout
	KIter
	KObject
	KComponent
	KModule
	KFunction
	KCallback
)

// Type is the closed value-type set: Int, Float, Length, Brush, String,
// Boolean, EnumLayout, Iter(elem), Object(fields), Component(def),
// Module(def), Function(args, ret), Callback. Equality is structural
// except for Component and Module, which compare by definition name.
type Type interface {
	Kind() Kind
	Equal(Type) bool
	String() string
}

type scalar struct {
	kind Kind
	name string
}

func (s scalar) Kind() Kind   { return s.kind }
func (s scalar) String() string { return s.name }
func (s scalar) Equal(o Type) bool {
	os, ok := o.(scalar)
	return ok && os.kind == s.kind
}

var (
	Int        Type = scalar{KInt, "Int"}
	Float      Type = scalar{KFloat, "Float"}
	Length     Type = scalar{KLength, "Length"}
	Brush      Type = scalar{KBrush, "Brush"}
	String     Type = scalar{KString, "String"}
	Boolean    Type = scalar{KBoolean, "Boolean"}
	EnumLayout Type = scalar{KEnumLayout, "EnumLayout"}
	Callback   Type = scalar{KCallback, "Callback"}
)

// IterOf builds an Iter(elem) type.
func IterOf(elem Type) Type { return iterType{elem} }

type iterType struct{ Elem Type }

func (iterType) Kind() Kind        { return KIter }
func (t iterType) String() string  { return fmt.Sprintf("Iter(%s)", t.Elem) }
func (t iterType) Equal(o Type) bool {
	ot, ok := o.(iterType)
	return ok && t.Elem.Equal(ot.Elem)
}

// ObjectOf builds a structural Object(fields) type; reserved per the
// grammar but never produced by the parser (see DESIGN.md open question).
func ObjectOf(fields map[string]Type) Type { return objectType{fields} }

type objectType struct{ Fields map[string]Type }

func (objectType) Kind() Kind { return KObject }
func (t objectType) String() string {
	var b strings.Builder
	b.WriteString("Object{")
	first := true
	for k, v := range t.Fields {
		if !first {
			b.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&b, "%s: %s", k, v)
	}
	b.WriteString("}")
	return b.String()
}
func (t objectType) Equal(o Type) bool {
	ot, ok := o.(objectType)
	if !ok || len(ot.Fields) != len(t.Fields) {
		return false
	}
	for k, v := range t.Fields {
		ov, ok := ot.Fields[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// FunctionOf builds a Function(args, ret) type.
func FunctionOf(args []Type, ret Type) Type { return functionType{args, ret} }

type functionType struct {
	Args []Type
	Ret  Type
}

func (functionType) Kind() Kind { return KFunction }
func (t functionType) String() string {
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), t.Ret)
}
func (t functionType) Equal(o Type) bool {
	ot, ok := o.(functionType)
	if !ok || len(ot.Args) != len(t.Args) || !t.Ret.Equal(ot.Ret) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equal(ot.Args[i]) {
			return false
		}
	}
	return true
}

// ComponentOf builds a Component(def) type; equality is name-identified.
func ComponentOf(def *ComponentDef) Type { return componentType{def} }

type componentType struct{ Def *ComponentDef }

func (componentType) Kind() Kind       { return KComponent }
func (t componentType) String() string { return t.Def.Name }
func (t componentType) Equal(o Type) bool {
	ot, ok := o.(componentType)
	return ok && ot.Def.Name == t.Def.Name
}

// ModuleOf builds a Module(def) type; equality is name-identified.
func ModuleOf(def *ModuleDef) Type { return moduleType{def} }

type moduleType struct{ Def *ModuleDef }

func (moduleType) Kind() Kind       { return KModule }
func (t moduleType) String() string { return t.Def.Name }
func (t moduleType) Equal(o Type) bool {
	ot, ok := o.(moduleType)
	return ok && ot.Def.Name == t.Def.Name
}

// IterType returns the element type this type can be iterated as, and
// whether it is iterable at all: Int iterates 1..=n; Iter(e) yields e.
func IterType(t Type) (Type, bool) {
	switch v := t.(type) {
	case scalar:
		if v.kind == KInt {
			return Int, true
		}
	case iterType:
		return v.Elem, true
	}
	return nil, false
}

// TypeByName maps a source type name (as written after ":" in a
// PropDecl) to its Type, defaulting to String for anything unrecognized
// — matching the original implementation's parse_type fallback.
func TypeByName(name string) Type {
	switch name {
	case "Int":
		return Int
	case "Float":
		return Float
	case "Length":
		return Length
	case "Brush":
		return Brush
	case "String":
		return String
	case "Boolean":
		return Boolean
	case "Alignment":
		return EnumLayout
	case "Callback":
		return Callback
	default:
		return String
	}
}

// AsComponentDef unwraps a Component(def) type.
func AsComponentDef(t Type) (*ComponentDef, bool) {
	c, ok := t.(componentType)
	if !ok {
		return nil, false
	}
	return c.Def, true
}

// AsModuleDef unwraps a Module(def) type.
func AsModuleDef(t Type) (*ModuleDef, bool) {
	m, ok := t.(moduleType)
	if !ok {
		return nil, false
	}
	return m.Def, true
}

// AsObject unwraps an Object(fields) type.
func AsObject(t Type) (map[string]Type, bool) {
	o, ok := t.(objectType)
	if !ok {
		return nil, false
	}
	return o.Fields, true
}

// AsFunction unwraps a Function(args, ret) type.
func AsFunction(t Type) (args []Type, ret Type, ok bool) {
	f, ok := t.(functionType)
	if !ok {
		return nil, nil, false
	}
	return f.Args, f.Ret, true
}
