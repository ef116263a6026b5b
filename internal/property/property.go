// Package property implements the reactive dataflow graph the compiled
// output binds against at runtime: a factory-scoped set of typed cells,
// each either a settable source or derived from N parent cells through a
// transform, propagated to quiescence by a commit/drain loop.
//
// Parent-to-child edges are ordinary Go pointers rather than the weak
// references the reference implementation uses: that design exists to
// let a reference-counted runtime break cycles, but Go's tracing
// collector reclaims cycles on its own. A transform that has been
// unbound is instead marked dead so a parent's next commit compacts it
// out of its children list, matching the drop-compaction behavior
// without needing weak handles.
package property

import "fmt"

// Factory is the owning registry for a set of cells: a live count, an
// id allocator, and the pending change set a commit drains. A Factory
// and its cells do no internal locking; a caller sharing one across
// goroutines must synchronize access itself.
type Factory struct {
	count     int
	nextID    uint64
	changeSet map[uint64]DynCell
}

// NewFactory returns an empty Factory.
func NewFactory() *Factory {
	return &Factory{changeSet: map[uint64]DynCell{}}
}

func (f *Factory) allocID() uint64 {
	f.nextID++
	return f.nextID
}

func (f *Factory) enqueue(c DynCell) {
	f.changeSet[c.ID()] = c
}

// CommitChanges drains the change set until the graph is quiescent: each
// round recomputes every cell enqueued by the previous one, and any new
// work a recomputation produces is drained in the next round. Once
// stable, every cell touched during the drain has its observer (if any)
// invoked exactly once, with its final value — never mid-propagation.
func (f *Factory) CommitChanges() {
	touched := map[uint64]DynCell{}
	for len(f.changeSet) > 0 {
		pending := f.changeSet
		f.changeSet = map[uint64]DynCell{}
		for id, c := range pending {
			c.commitChanges(f)
			touched[id] = c
		}
	}
	for _, c := range touched {
		c.notifyObserver()
	}
}

// Count reports the number of live cells this factory has allocated.
func (f *Factory) Count() int { return f.count }

// DynCell is a type-erased handle onto a Cell[V]: what the change set
// and parent/child wiring traffic in, since Go generics can't express a
// heterogeneous collection of Cell[V] for differing V directly.
type DynCell interface {
	ID() uint64
	Wrapped() WrappedValue
	AddChild(t dynTransform, index int)
	commitChanges(f *Factory)
	notifyObserver()
}

// dynTransform is the type-erased interface a parent cell drives on
// commit: update its cached parent-value slot, and report whether it has
// been unbound (in which case the parent drops the edge).
type dynTransform interface {
	parentChanged(v WrappedValue, index int)
	updateValue()
	child() DynCell
	dead() bool
	markDead()
}

type childEdge struct {
	transform dynTransform
	index     int
}

// Cell is a typed reactive slot. It is either a settable source
// (transform == nil) or a value derived from parent cells through a
// bound transform; either way reads never block or recompute, they just
// return the last committed value.
type Cell[V any] struct {
	factory   *Factory
	ops       Ops[V]
	id        uint64
	value     V
	readOnly  bool
	released  bool
	transform dynTransform
	children  []childEdge
	observer  func(V)
}

// New allocates a settable source cell seeded with initial. observer, if
// non-nil, is invoked at most once per commit drain in which the cell was
// enqueued or recomputed, with the stabilized final value. The final
// value is not compared with the value before the drain, so a drain that
// leaves it unchanged (a recompute yielding the same value, or sets that
// return to the starting value) still invokes the observer.
func New[V any](f *Factory, ops Ops[V], initial V, observer func(V)) *Cell[V] {
	f.count++
	return &Cell[V]{factory: f, ops: ops, id: f.allocID(), value: initial, observer: observer}
}

func (f *Factory) NewInt(initial int64, observer func(int64)) *Cell[int64] {
	return New(f, IntOps, initial, observer)
}

func (f *Factory) NewFloat(initial float64, observer func(float64)) *Cell[float64] {
	return New(f, FloatOps, initial, observer)
}

func (f *Factory) NewString(initial string, observer func(string)) *Cell[string] {
	return New(f, StringOps, initial, observer)
}

func (f *Factory) NewBoolean(initial bool, observer func(bool)) *Cell[bool] {
	return New(f, BooleanOps, initial, observer)
}

func (f *Factory) NewLength(initial Length, observer func(Length)) *Cell[Length] {
	return New(f, LengthOps, initial, observer)
}

func (f *Factory) NewBrush(initial Brush, observer func(Brush)) *Cell[Brush] {
	return New(f, BrushOps, initial, observer)
}

func (f *Factory) NewEnumLayout(initial EnumLayout, observer func(EnumLayout)) *Cell[EnumLayout] {
	return New(f, EnumLayoutOps, initial, observer)
}

// ID is this cell's factory-scoped arena identity, used for change-set
// deduplication instead of pointer identity.
func (c *Cell[V]) ID() uint64 { return c.id }

// Get returns the cached value. It never blocks and never evaluates.
// Get returns the cell's current value, never blocking and never
// triggering evaluation. If the value's Ops declares a Clone (Iter[V]
// does, since its cursor lives behind a pointer), Get returns a clone so
// that repeated reads of the same cell each see the sequence from where
// it was last set, instead of sharing one cursor that the first reader's
// consumption would exhaust out from under the others.
func (c *Cell[V]) Get() V {
	if c.ops.Clone != nil {
		return c.ops.Clone(c.value)
	}
	return c.value
}

// Wrapped returns the cached value through the WrappedValue bridge.
func (c *Cell[V]) Wrapped() WrappedValue { return c.ops.Wrap(c.value) }

// Freeze flips the cell read-only; every subsequent Set/Bind/Unbind on
// it fails.
func (c *Cell[V]) Freeze() { c.readOnly = true }

// Dynamic returns a type-erased handle onto c, for use as a heterogeneous
// BindDynamic parent or across an FFI boundary.
func (c *Cell[V]) Dynamic() DynCell { return c }

func (c *Cell[V]) AddChild(t dynTransform, index int) {
	c.children = append(c.children, childEdge{transform: t, index: index})
}

func (c *Cell[V]) checkSettable(forUnbind bool) error {
	if c.released {
		return fmt.Errorf("cell has been released")
	}
	if !forUnbind && c.transform != nil {
		return fmt.Errorf("cell is bound to a transform; unbind it first")
	}
	if c.readOnly {
		return fmt.Errorf("cell is frozen")
	}
	return nil
}

// TrySet stores value if the cell is a settable, unfrozen source; if the
// new value differs from the old, the cell is enqueued for the next
// commit.
func (c *Cell[V]) TrySet(value V) error {
	if err := c.checkSettable(false); err != nil {
		return err
	}
	if !c.ops.Equal(c.value, value) {
		c.value = value
		c.factory.enqueue(c)
	}
	return nil
}

// Set panics if TrySet fails.
func (c *Cell[V]) Set(value V) {
	if err := c.TrySet(value); err != nil {
		panic(err)
	}
}

// TryUnbind drops this cell's transform and resets its value to V's
// default (its Ops.Default), requiring the cell to currently be derived and not
// frozen. The formerly-bound transform is marked dead so its parents
// compact the edge out on their next commit.
func (c *Cell[V]) TryUnbind() error {
	if c.transform == nil {
		return fmt.Errorf("cell is not derived")
	}
	if err := c.checkSettable(true); err != nil {
		return err
	}
	c.transform.markDead()
	c.transform = nil
	c.value = c.ops.Default()
	c.factory.enqueue(c)
	return nil
}

// Unbind panics if TryUnbind fails.
func (c *Cell[V]) Unbind() {
	if err := c.TryUnbind(); err != nil {
		panic(err)
	}
}

// Release drops c's last strong handle: it decrements its factory's live
// cell count and detaches c from the rest of the graph, the Go stand-in
// for the reference implementation's weak-handle drop (package doc).
// Idempotent, so a component tearing down its whole tree can release
// every cell it owns without tracking which ones another path already
// released.
//
// If c is itself derived, its transform is marked dead exactly like
// TryUnbind, so c's parents compact the edge out on their next commit.
// Any cells still bound as children of c receive one synthetic "parent
// went to default" update and are re-enqueued, since a plain Go pointer
// gives a child no other signal that its parent is gone.
func (c *Cell[V]) Release() {
	if c.released {
		return
	}
	c.released = true
	c.factory.count--

	if c.transform != nil {
		c.transform.markDead()
		c.transform = nil
	}

	children := c.children
	c.children = nil
	c.value = c.ops.Default()
	defaulted := c.Wrapped()
	for _, edge := range children {
		if edge.transform.dead() {
			continue
		}
		edge.transform.parentChanged(defaulted, edge.index)
		c.factory.enqueue(edge.transform.child())
	}
}

// commitChanges is the per-cell commit step: if derived, recompute from
// the cached parent tuple; then push this cell's new value into every
// still-alive child transform's slot and enqueue that transform's owning
// cell for the next round. Dead child transforms are compacted out.
func (c *Cell[V]) commitChanges(f *Factory) {
	if c.transform != nil {
		c.transform.updateValue()
	}
	children := c.children
	c.children = nil
	wrapped := c.Wrapped()
	for _, edge := range children {
		if edge.transform.dead() {
			continue
		}
		edge.transform.parentChanged(wrapped, edge.index)
		c.children = append(c.children, edge)
		f.enqueue(edge.transform.child())
	}
}

func (c *Cell[V]) notifyObserver() {
	if c.observer != nil {
		c.observer(c.value)
	}
}

// childTransform is the one ChildTransform shape the property graph
// needs: a cached slice of parent values (indexed the way Bind1..BindN
// register them) and a pure function from that slice to V. The typed
// BindN helpers are thin adapters that build the WrappedValue-consuming
// closure so callers write ordinary typed functions; BindDynamic passes
// its function straight through. The reference implementation keeps
// these as two trait impls (tuple-typed vs. Vec<WrappedValue>-typed)
// because Rust's Parents trait needs a distinct marshalling shape per
// arity; Go has no variadic generics to mirror that, so one transform
// type serves both call shapes.
type childTransform[V any] struct {
	values []WrappedValue
	fn     func([]WrappedValue) V
	cell   *Cell[V]
	isDead bool
}

func (ct *childTransform[V]) parentChanged(v WrappedValue, index int) { ct.values[index] = v }
func (ct *childTransform[V]) updateValue()                            { ct.cell.value = ct.fn(ct.values) }
func (ct *childTransform[V]) child() DynCell                          { return ct.cell }
func (ct *childTransform[V]) dead() bool                              { return ct.isDead }
func (ct *childTransform[V]) markDead()                               { ct.isDead = true }

func bindValues[V any](child *Cell[V], parents []DynCell, fn func([]WrappedValue) V) {
	values := make([]WrappedValue, len(parents))
	for i, p := range parents {
		values[i] = p.Wrapped()
	}
	ct := &childTransform[V]{values: values, fn: fn, cell: child}
	child.transform = ct
	ct.updateValue()
	for i, p := range parents {
		p.AddChild(ct, i)
	}
	child.factory.enqueue(child)
}

// TryBindDynamic attaches child (which must not already be derived or
// frozen) to a transform over a heterogeneous parent list via the
// WrappedValue bridge, matching try_bind_dynamic's contract.
func TryBindDynamic[V any](child *Cell[V], parents []DynCell, fn func([]WrappedValue) V) error {
	if err := child.checkSettable(false); err != nil {
		return err
	}
	bindValues(child, parents, fn)
	return nil
}

// BindDynamic panics if TryBindDynamic fails.
func BindDynamic[V any](child *Cell[V], parents []DynCell, fn func([]WrappedValue) V) {
	if err := TryBindDynamic(child, parents, fn); err != nil {
		panic(err)
	}
}

// NewBindDynamic allocates a fresh cell and immediately binds it via
// TryBindDynamic, matching Factory::bind's "allocate and attach" shape.
func NewBindDynamic[V any](f *Factory, ops Ops[V], observer func(V), parents []DynCell, fn func([]WrappedValue) V) *Cell[V] {
	child := New(f, ops, ops.Default(), observer)
	bindValues(child, parents, fn)
	return child
}

// TryBind1 attaches child to a unary transform over a.
func TryBind1[A, V any](child *Cell[V], a *Cell[A], fn func(A) V) error {
	return TryBindDynamic(child, []DynCell{a}, func(vals []WrappedValue) V {
		return fn(a.ops.Unwrap(vals[0]))
	})
}

// Bind1 panics if TryBind1 fails.
func Bind1[A, V any](child *Cell[V], a *Cell[A], fn func(A) V) {
	if err := TryBind1(child, a, fn); err != nil {
		panic(err)
	}
}

// NewBind1 allocates a fresh cell bound to a unary transform over a.
func NewBind1[A, V any](f *Factory, ops Ops[V], observer func(V), a *Cell[A], fn func(A) V) *Cell[V] {
	child := New(f, ops, ops.Default(), observer)
	Bind1(child, a, fn)
	return child
}

// TryBind2 attaches child to a binary transform over a and b.
func TryBind2[A, B, V any](child *Cell[V], a *Cell[A], b *Cell[B], fn func(A, B) V) error {
	return TryBindDynamic(child, []DynCell{a, b}, func(vals []WrappedValue) V {
		return fn(a.ops.Unwrap(vals[0]), b.ops.Unwrap(vals[1]))
	})
}

// Bind2 panics if TryBind2 fails.
func Bind2[A, B, V any](child *Cell[V], a *Cell[A], b *Cell[B], fn func(A, B) V) {
	if err := TryBind2(child, a, b, fn); err != nil {
		panic(err)
	}
}

// NewBind2 allocates a fresh cell bound to a binary transform over a, b.
func NewBind2[A, B, V any](f *Factory, ops Ops[V], observer func(V), a *Cell[A], b *Cell[B], fn func(A, B) V) *Cell[V] {
	child := New(f, ops, ops.Default(), observer)
	Bind2(child, a, b, fn)
	return child
}

// TryBind3 attaches child to a ternary transform over a, b and c.
func TryBind3[A, B, C, V any](child *Cell[V], a *Cell[A], b *Cell[B], c *Cell[C], fn func(A, B, C) V) error {
	return TryBindDynamic(child, []DynCell{a, b, c}, func(vals []WrappedValue) V {
		return fn(a.ops.Unwrap(vals[0]), b.ops.Unwrap(vals[1]), c.ops.Unwrap(vals[2]))
	})
}

// Bind3 panics if TryBind3 fails.
func Bind3[A, B, C, V any](child *Cell[V], a *Cell[A], b *Cell[B], c *Cell[C], fn func(A, B, C) V) {
	if err := TryBind3(child, a, b, c, fn); err != nil {
		panic(err)
	}
}

// NewBind3 allocates a fresh cell bound to a ternary transform.
func NewBind3[A, B, C, V any](f *Factory, ops Ops[V], observer func(V), a *Cell[A], b *Cell[B], c *Cell[C], fn func(A, B, C) V) *Cell[V] {
	child := New(f, ops, ops.Default(), observer)
	Bind3(child, a, b, c, fn)
	return child
}

// TryBind4 attaches child to a 4-ary transform over a, b, c and d.
func TryBind4[A, B, C, D, V any](child *Cell[V], a *Cell[A], b *Cell[B], c *Cell[C], d *Cell[D], fn func(A, B, C, D) V) error {
	return TryBindDynamic(child, []DynCell{a, b, c, d}, func(vals []WrappedValue) V {
		return fn(a.ops.Unwrap(vals[0]), b.ops.Unwrap(vals[1]), c.ops.Unwrap(vals[2]), d.ops.Unwrap(vals[3]))
	})
}

// Bind4 panics if TryBind4 fails.
func Bind4[A, B, C, D, V any](child *Cell[V], a *Cell[A], b *Cell[B], c *Cell[C], d *Cell[D], fn func(A, B, C, D) V) {
	if err := TryBind4(child, a, b, c, d, fn); err != nil {
		panic(err)
	}
}

// NewBind4 allocates a fresh cell bound to a 4-ary transform.
func NewBind4[A, B, C, D, V any](f *Factory, ops Ops[V], observer func(V), a *Cell[A], b *Cell[B], c *Cell[C], d *Cell[D], fn func(A, B, C, D) V) *Cell[V] {
	child := New(f, ops, ops.Default(), observer)
	Bind4(child, a, b, c, d, fn)
	return child
}
