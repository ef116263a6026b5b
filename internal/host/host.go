// Package host is the minimal element toolkit the code generator targets:
// one Go type per builtin component (Rect, Layout, Pane, Text), each a
// thin struct of property cells, plus the two structural wrappers every
// generated tree can need regardless of which builtins it uses (Slot for
// a conditional child, Repeater for a `for` loop). Every cell here lives
// on the property.Factory passed to the constructor, so a whole tree
// shares one commit/drain graph.
package host

import "github.com/uidom/uidom/internal/property"

// Node is any element a generated tree can hold as a child: a builtin
// component, a Slot, or a Repeater instantiation.
type Node interface {
	isNode()
}

// Rect is a positioned, fillable rectangle. ScaleToParent is left as a
// plain cell rather than wired to derive X1/Y1/X2/Y2 automatically: the
// specification marks that rewrite as host-runtime behavior outside the
// compiler pipeline's scope (DESIGN.md, Open Question 5), so a concrete
// host embedding this tree is expected to observe ScaleToParent itself
// and write the four corners it clobbers.
type Rect struct {
	X1, Y1, X2, Y2 *property.Cell[property.Length]
	Fill           *property.Cell[property.Brush]
	ScaleToParent  *property.Cell[float64]
	Children       []Node
}

func (*Rect) isNode() {}

// NewRect allocates a Rect with its own source cells, all zero/transparent
// until a generated constructor sets or binds them.
func NewRect(f *property.Factory) *Rect {
	return &Rect{
		X1:            f.NewLength(property.Px(0), nil),
		Y1:            f.NewLength(property.Px(0), nil),
		X2:            f.NewLength(property.Px(0), nil),
		Y2:            f.NewLength(property.Px(0), nil),
		Fill:          f.NewBrush(property.Transparent(), nil),
		ScaleToParent: f.NewFloat(0, nil),
	}
}

func (r *Rect) AppendChild(n Node) { r.Children = append(r.Children, n) }

// Layout arranges its Pane children in a row or column.
type Layout struct {
	LayoutDir *property.Cell[property.EnumLayout]
	Padding   *property.Cell[property.Length]
	Children  []Node
}

func (*Layout) isNode() {}

func NewLayout(f *property.Factory) *Layout {
	return &Layout{
		LayoutDir: f.NewEnumLayout(property.LayoutRow, nil),
		Padding:   f.NewLength(property.Px(0), nil),
	}
}

func (l *Layout) AppendChild(n Node) { l.Children = append(l.Children, n) }

// Pane is a plain, unstyled container: a slot for Layout's children.
type Pane struct {
	Children []Node
}

func (*Pane) isNode() {}

func NewPane(f *property.Factory) *Pane { return &Pane{} }

func (p *Pane) AppendChild(n Node) { p.Children = append(p.Children, n) }

// Text renders its content as a string; it accepts no children.
type Text struct {
	Content *property.Cell[string]
}

func (*Text) isNode() {}

func NewText(f *property.Factory) *Text {
	return &Text{Content: f.NewString("", nil)}
}

// Slot wraps an always-built inner component that is shown only while
// Insert holds true, mirroring the generated `(condition) ? inner : null`
// shape without making the inner element's construction conditional.
type Slot struct {
	Component Node
	Insert    *property.Cell[bool]
}

func (*Slot) isNode() {}

func NewSlot(f *property.Factory, component Node) *Slot {
	return &Slot{Component: component, Insert: f.NewBoolean(true, nil)}
}

// Repeater rebuilds its Built slice from Collection every time Collection
// changes, by calling Build once per element the iterator yields (index,
// item) -> the nodes that one iteration contributes.
type Repeater[Item any] struct {
	Collection *property.Cell[property.Iter[Item]]
	Build      func(index int64, item Item) []Node
	Built      []Node
}

func (*Repeater[Item]) isNode() {}

// NewRepeater allocates a Repeater whose Collection cell observes itself
// and re-runs build on every change, so Built always reflects the most
// recently committed collection.
func NewRepeater[Item any](f *property.Factory, elemOps property.Ops[Item], build func(index int64, item Item) []Node) *Repeater[Item] {
	r := &Repeater[Item]{Build: build}
	iterOps := property.IterOps(elemOps)
	r.Collection = property.New(f, iterOps, iterOps.Default(), func(property.Iter[Item]) {
		r.rebuild()
	})
	return r
}

func (r *Repeater[Item]) rebuild() {
	for _, n := range r.Built {
		ReleaseNode(n)
	}

	it := r.Collection.Get()
	var out []Node
	var idx int64
	for {
		v, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, r.Build(idx, v)...)
		idx++
	}
	r.Built = out
}

// ReleaseNode releases every property cell a node (and its children, for
// the container kinds) owns, the way a host is expected to tear down an
// element this toolkit no longer holds: Repeater.rebuild calls it on the
// generation it is replacing, and a host discarding a Slot's component
// wholesale should call it too. A Repeater node is not handled: neither
// its Collection cell nor its Built nodes are released by this call.
func ReleaseNode(n Node) {
	switch v := n.(type) {
	case *Rect:
		v.X1.Release()
		v.Y1.Release()
		v.X2.Release()
		v.Y2.Release()
		v.Fill.Release()
		v.ScaleToParent.Release()
		for _, c := range v.Children {
			ReleaseNode(c)
		}
	case *Layout:
		v.LayoutDir.Release()
		v.Padding.Release()
		for _, c := range v.Children {
			ReleaseNode(c)
		}
	case *Pane:
		for _, c := range v.Children {
			ReleaseNode(c)
		}
	case *Text:
		v.Content.Release()
	case *Slot:
		v.Insert.Release()
		ReleaseNode(v.Component)
	}
}
