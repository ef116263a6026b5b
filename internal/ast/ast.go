// Package ast defines the untyped element tree the parser builds: the
// shape a .ui file has before any name or type resolution has happened.
package ast

import "github.com/uidom/uidom/internal/source"

// Node is implemented by every untyped tree node, so a single interface
// value can carry span information regardless of concrete shape.
type Node interface {
	Span() source.Span
}

// Expr is the untyped expression sum type: PxLit, FloatLit, IntLit,
// ColorLit, StringLit, EnumLit, BoolLit, PathExpr, CallExpr. Each
// concrete type also embeds a Span.
type Expr interface {
	Node
	exprNode()
}

type exprBase struct{ span source.Span }

func (e exprBase) Span() source.Span { return e.span }

// PxLit is a numeric literal written with the "px" suffix.
type PxLit struct {
	exprBase
	Value float64
}

// FloatLit is a plain (non-suffixed, fractional) numeric literal.
type FloatLit struct {
	exprBase
	Value float64
}

// IntLit is a plain (non-suffixed, non-fractional) numeric literal.
type IntLit struct {
	exprBase
	Value int64
}

// ColorLit is a hex color literal, already expanded to normalized
// 0..1 components (see parser's hex expansion rules).
type ColorLit struct {
	exprBase
	R, G, B, A float64
}

// StringLit is a double-quoted string literal, unescaped.
type StringLit struct {
	exprBase
	Value string
}

// EnumLit is a `.name` enum literal; its admissible enum type is
// resolved later by the checker from the implicit expected type.
type EnumLit struct {
	exprBase
	Name string
}

// BoolLit is `true` or `false`.
type BoolLit struct {
	exprBase
	Value bool
}

// PathExpr is a dotted sequence of names (and enum-literal suffixes,
// which the lexer emits as Enum tokens and the parser folds into further
// segments), e.g.
// `Dom.Enum.Layout.Row` or a bare property reference like `size`.
type PathExpr struct {
	exprBase
	Segments []string
}

// CallExpr is `callee(args...)`, used for builtin module functions
// like `Brush.rgb(...)` and `Math.random()`.
type CallExpr struct {
	exprBase
	Callee *PathExpr
	Args   []Expr
}

// NewPxLit builds a px-suffixed numeric literal.
func NewPxLit(span source.Span, value float64) *PxLit {
	return &PxLit{exprBase{span}, value}
}

// NewFloatLit builds a plain fractional numeric literal.
func NewFloatLit(span source.Span, value float64) *FloatLit {
	return &FloatLit{exprBase{span}, value}
}

// NewIntLit builds a plain non-fractional numeric literal.
func NewIntLit(span source.Span, value int64) *IntLit {
	return &IntLit{exprBase{span}, value}
}

// NewColorLit builds a hex color literal from already-normalized 0..1 components.
func NewColorLit(span source.Span, r, g, b, a float64) *ColorLit {
	return &ColorLit{exprBase{span}, r, g, b, a}
}

// NewStringLit builds a string literal.
func NewStringLit(span source.Span, value string) *StringLit {
	return &StringLit{exprBase{span}, value}
}

// NewEnumLit builds a `.name` enum literal.
func NewEnumLit(span source.Span, name string) *EnumLit {
	return &EnumLit{exprBase{span}, name}
}

// NewBoolLit builds a `true`/`false` literal.
func NewBoolLit(span source.Span, value bool) *BoolLit {
	return &BoolLit{exprBase{span}, value}
}

// NewPathExpr builds a dotted path expression.
func NewPathExpr(span source.Span, segments []string) *PathExpr {
	return &PathExpr{exprBase{span}, segments}
}

// NewCallExpr builds a `callee(args...)` call expression.
func NewCallExpr(span source.Span, callee *PathExpr, args []Expr) *CallExpr {
	return &CallExpr{exprBase{span}, callee, args}
}

func (*PxLit) exprNode()     {}
func (*FloatLit) exprNode()  {}
func (*IntLit) exprNode()    {}
func (*ColorLit) exprNode()  {}
func (*StringLit) exprNode() {}
func (*EnumLit) exprNode()   {}
func (*BoolLit) exprNode()   {}
func (*PathExpr) exprNode()  {}
func (*CallExpr) exprNode()  {}

// Negate returns a copy of e with its sign flipped, used by the parser
// to fold a leading unary "-" directly into a numeric literal, since
// unary sign is the only arithmetic this language's grammar admits.
func Negate(e Expr) Expr {
	switch v := e.(type) {
	case *PxLit:
		n := *v
		n.Value = -n.Value
		return &n
	case *FloatLit:
		n := *v
		n.Value = -n.Value
		return &n
	case *IntLit:
		n := *v
		n.Value = -n.Value
		return &n
	default:
		return e
	}
}

// Repeater is the optional `for item[, index] in collection` clause on
// an element. Index and Item are empty when the corresponding binding
// was written as `_`.
type Repeater struct {
	span       source.Span
	Index      string
	Item       string
	Collection Expr
}

func NewRepeater(span source.Span, index, item string, collection Expr) *Repeater {
	return &Repeater{span: span, Index: index, Item: item, Collection: collection}
}
func (r *Repeater) Span() source.Span { return r.span }

// Condition is the optional `if expr` clause on an element.
type Condition struct {
	span source.Span
	Expr Expr
}

func NewCondition(span source.Span, expr Expr) *Condition { return &Condition{span: span, Expr: expr} }
func (c *Condition) Span() source.Span                    { return c.span }

// PropAssign is one `name: value;` assignment inside an element body.
// The grammar's target production is a dotted Path, but every builtin
// and authored component declares its properties by a single simple
// name, so Name is kept as the single segment actually resolved by the
// checker (see DESIGN.md).
type PropAssign struct {
	Name string
	Expr Expr
	Span source.Span
}

// ChildrenFilter is a `Children` slot placeholder inside an element
// body: an empty Paths list means "admit any child"; otherwise it lists
// the admitted tag paths, each added to the containing component's
// aggregated child rules.
type ChildrenFilter struct {
	span  source.Span
	Paths [][]string
}

func NewChildrenFilter(span source.Span, paths [][]string) *ChildrenFilter {
	return &ChildrenFilter{span: span, Paths: paths}
}
func (c *ChildrenFilter) Span() source.Span { return c.span }

// Content is one child of an element body: either a nested Element, or
// a ChildrenFilter slot placeholder. Bare strings and parenthesized
// expressions are desugared by the parser into a synthetic
// `Text { content: <expr> }` Element, per the spec's content-coercion
// rule, so Content never needs its own string/expr variants.
type Content interface {
	Node
	contentNode()
}

func (*Element) contentNode()        {}
func (*ChildrenFilter) contentNode() {}

// Element is one untyped node of the element tree.
type Element struct {
	span      source.Span
	NameSpan  source.Span
	Tag       []string
	Condition *Condition
	Repeater  *Repeater
	Props     []PropAssign
	Children  []Content
}

func NewElement(span, nameSpan source.Span, tag []string) *Element {
	return &Element{span: span, NameSpan: nameSpan, Tag: tag}
}
func (e *Element) Span() source.Span { return e.span }

// Extend widens e's span to also cover extra, used by the parser once an
// element's full extent (through its closing brace) is known.
func (e *Element) Extend(extra source.Span) {
	e.span = source.Merge(e.span, extra)
}

// Text synthesizes the `Text { content: value }` wrapper the parser
// produces for a bare string or parenthesized-expression child.
func Text(value Expr, span source.Span) *Element {
	el := NewElement(span, span, []string{"Text"})
	el.Props = []PropAssign{{Name: "content", Expr: value, Span: span}}
	return el
}

// PropDecl is a top-level `[pub] name: Type;` declaration.
type PropDecl struct {
	IsPub   bool
	Name    string
	Type    string
	Default Expr
	Span    source.Span
}

// Import is an `import "path" [as Name];` declaration.
type Import struct {
	Path  string
	Alias string
	Span  source.Span
}

// Component is the parsed (untyped) whole of one .ui file: its derived
// name, declarations, and single root element.
type Component struct {
	Name    string
	Imports []Import
	Props   []PropDecl
	Root    *Element
}
