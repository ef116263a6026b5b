package property

import (
	"fmt"
	"strconv"
)

// Kind tags the storage form a WrappedValue actually holds.
type Kind int

const (
	KBoolean Kind = iota
	KInt
	KFloat
	KString
	KLength
	KBrush
	KEnumLayout
	KIter
)

// WrappedValue is the language-neutral bridge every supported type wraps
// into and unwraps out of: the only shape that travels across a
// dynamically-bound ChildTransform or an FFI boundary. Numeric and
// boolean variants cross-convert using C-like coercions; other
// cross-type unwraps yield that type's default.
type WrappedValue struct {
	kind   Kind
	b      bool
	i      int64
	f      float64
	s      string
	length Length
	brush  Brush
	layout EnumLayout
	iter   wrappedIter
}

func WrapBoolean(v bool) WrappedValue        { return WrappedValue{kind: KBoolean, b: v} }
func WrapInt(v int64) WrappedValue           { return WrappedValue{kind: KInt, i: v} }
func WrapFloat(v float64) WrappedValue       { return WrappedValue{kind: KFloat, f: v} }
func WrapString(v string) WrappedValue       { return WrappedValue{kind: KString, s: v} }
func WrapLength(v Length) WrappedValue       { return WrappedValue{kind: KLength, length: v} }
func WrapBrush(v Brush) WrappedValue         { return WrappedValue{kind: KBrush, brush: v} }
func WrapEnumLayout(v EnumLayout) WrappedValue { return WrappedValue{kind: KEnumLayout, layout: v} }
func wrapIter(it wrappedIter) WrappedValue   { return WrappedValue{kind: KIter, iter: it} }

// Kind reports which variant is actually stored.
func (w WrappedValue) Kind() Kind { return w.kind }

func (w WrappedValue) UnwrapBoolean() bool {
	switch w.kind {
	case KBoolean:
		return w.b
	case KFloat:
		return w.f != 0
	case KInt:
		return w.i != 0
	default:
		return false
	}
}

func (w WrappedValue) UnwrapInt() int64 {
	switch w.kind {
	case KBoolean:
		if w.b {
			return 1
		}
		return 0
	case KFloat:
		return int64(w.f)
	case KInt:
		return w.i
	default:
		return 0
	}
}

func (w WrappedValue) UnwrapFloat() float64 {
	switch w.kind {
	case KBoolean:
		if w.b {
			return 1
		}
		return 0
	case KFloat:
		return w.f
	case KInt:
		return float64(w.i)
	default:
		return 0
	}
}

func (w WrappedValue) UnwrapString() string {
	switch w.kind {
	case KBoolean:
		return strconv.FormatBool(w.b)
	case KFloat:
		return strconv.FormatFloat(w.f, 'g', -1, 64)
	case KInt:
		return strconv.FormatInt(w.i, 10)
	case KString:
		return w.s
	default:
		return ""
	}
}

func (w WrappedValue) UnwrapLength() Length {
	switch w.kind {
	case KBoolean:
		if w.b {
			return Px(1)
		}
		return Px(0)
	case KFloat:
		return Px(w.f)
	case KInt:
		return Px(float64(w.i))
	case KLength:
		return w.length
	default:
		return Length{}
	}
}

func (w WrappedValue) UnwrapBrush() Brush {
	if w.kind == KBrush {
		return w.brush
	}
	return Brush{}
}

func (w WrappedValue) UnwrapEnumLayout() EnumLayout {
	if w.kind == KEnumLayout {
		return w.layout
	}
	return LayoutRow
}

// Ops is the explicit vtable a TypedCell needs for its value type V: a
// zero value, a wrap/unwrap pair into WrappedValue, and an equality test
// used to decide whether a set() actually changes anything. Go has no
// associated-type traits, so this stands in for the reference
// implementation's per-type Value/ValueItem implementations.
//
// Clone is optional and only meaningful for storage forms that hide
// mutable state behind a pointer (Iter[V]'s cursor); Cell.Get() calls it
// before handing the value back so that reading a cell never advances
// its own cached cursor out from under it, mirroring every stored value
// being Clone in the reference implementation. Plain value types leave
// it nil since a Go value copy is already an independent read.
type Ops[V any] struct {
	Default func() V
	Wrap    func(V) WrappedValue
	Unwrap  func(WrappedValue) V
	Equal   func(a, b V) bool
	Clone   func(V) V
}

var IntOps = Ops[int64]{
	Default: func() int64 { return 0 },
	Wrap:    WrapInt,
	Unwrap:  func(w WrappedValue) int64 { return w.UnwrapInt() },
	Equal:   func(a, b int64) bool { return a == b },
}

var FloatOps = Ops[float64]{
	Default: func() float64 { return 0 },
	Wrap:    WrapFloat,
	Unwrap:  func(w WrappedValue) float64 { return w.UnwrapFloat() },
	Equal:   func(a, b float64) bool { return a == b },
}

var BooleanOps = Ops[bool]{
	Default: func() bool { return false },
	Wrap:    WrapBoolean,
	Unwrap:  func(w WrappedValue) bool { return w.UnwrapBoolean() },
	Equal:   func(a, b bool) bool { return a == b },
}

var StringOps = Ops[string]{
	Default: func() string { return "" },
	Wrap:    WrapString,
	Unwrap:  func(w WrappedValue) string { return w.UnwrapString() },
	Equal:   func(a, b string) bool { return a == b },
}

var LengthOps = Ops[Length]{
	Default: func() Length { return Px(0) },
	Wrap:    WrapLength,
	Unwrap:  func(w WrappedValue) Length { return w.UnwrapLength() },
	Equal:   func(a, b Length) bool { return a == b },
}

var BrushOps = Ops[Brush]{
	Default: Transparent,
	Wrap:    WrapBrush,
	Unwrap:  func(w WrappedValue) Brush { return w.UnwrapBrush() },
	Equal:   func(a, b Brush) bool { return a == b },
}

var EnumLayoutOps = Ops[EnumLayout]{
	Default: func() EnumLayout { return LayoutRow },
	Wrap:    WrapEnumLayout,
	Unwrap:  func(w WrappedValue) EnumLayout { return w.UnwrapEnumLayout() },
	Equal:   func(a, b EnumLayout) bool { return a == b },
}

// LengthUnit distinguishes the units Length can be constructed in. Only
// Px is reachable from surface syntax (the grammar's only numeric-suffix
// literal); In/Cm exist for host-side transform functions that want to
// compute in other units before handing a Length to a cell.
type LengthUnit int

const (
	UnitPx LengthUnit = iota
	UnitIn
	UnitCm
)

// Length is a dimensioned value, Px(0) by default. Add/Sub normalize
// both operands to pixels before combining: unlike the reference
// implementation's symbolic deferred-unit expression tree, nothing in
// this pipeline ever renders an unresolved mixed-unit Length, so the
// normalized form is sufficient here.
type Length struct {
	Unit  LengthUnit
	Value float64
}

func Px(v float64) Length { return Length{Unit: UnitPx, Value: v} }
func In(v float64) Length { return Length{Unit: UnitIn, Value: v} }
func Cm(v float64) Length { return Length{Unit: UnitCm, Value: v} }

// Px converts l to its pixel value (96 px per inch, the usual CSS ratio).
func (l Length) Px() float64 {
	switch l.Unit {
	case UnitIn:
		return l.Value * 96
	case UnitCm:
		return l.Value * 96 / 2.54
	default:
		return l.Value
	}
}

func (l Length) Add(r Length) Length { return Length{Unit: UnitPx, Value: l.Px() + r.Px()} }
func (l Length) Sub(r Length) Length { return Length{Unit: UnitPx, Value: l.Px() - r.Px()} }
func (l Length) Mul(k float64) Length { return Length{Unit: l.Unit, Value: l.Value * k} }

func (l Length) Div(k float64) Length {
	if k == 0 {
		return Length{Unit: UnitPx, Value: 0}
	}
	return Length{Unit: l.Unit, Value: l.Value / k}
}

func (l Length) Neg() Length { return Length{Unit: l.Unit, Value: -l.Value} }

func (l Length) String() string {
	switch l.Unit {
	case UnitIn:
		return fmt.Sprintf("%gin", l.Value)
	case UnitCm:
		return fmt.Sprintf("%gcm", l.Value)
	default:
		return fmt.Sprintf("%gpx", l.Value)
	}
}

// Brush is a solid color: r/g/b/a channels in 0..1, matching the
// hex-color literal's normalized range.
type Brush struct {
	R, G, B, A float64
}

func Transparent() Brush       { return Brush{} }
func RGB(r, g, b float64) Brush { return Brush{R: r, G: g, B: b, A: 1} }
func RGBA(r, g, b, a float64) Brush { return Brush{R: r, G: g, B: b, A: a} }

// CSS renders the brush as an rgba(...) string for a host target.
func (b Brush) CSS() string {
	return fmt.Sprintf("rgba(%g, %g, %g, %g)", b.R*255, b.G*255, b.B*255, b.A)
}

// EnumLayout is the sole enum type the builtin registry admits.
type EnumLayout int

const (
	LayoutRow EnumLayout = iota
	LayoutColumn
)

func (e EnumLayout) String() string {
	if e == LayoutColumn {
		return "column"
	}
	return "row"
}

// Stringify renders any of this package's cell value types as a string,
// backing the generated code's ToString coercion (spec §4.5.1): by the
// time codegen emits a call to it, the checker has already confirmed v's
// static type is one the coercion is defined for.
func Stringify(v any) string {
	switch x := v.(type) {
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case string:
		return x
	case Length:
		return x.String()
	case Brush:
		return x.CSS()
	case EnumLayout:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}
