package property

import "fmt"

// dynIterator is the type-erased engine behind Iter<V>: it produces
// WrappedValues so Iter<V> can be stored as a cell value regardless of
// its element type, mirroring the wrapped-value bridge the rest of the
// property graph uses for dynamic binding.
type dynIterator interface {
	next() (WrappedValue, bool)
	clone() dynIterator
	describe() string
}

// iterHandle is the identity an Iter<V> and its clones compare by: a
// clone gets its own handle wrapping an independently-cursored copy of
// the engine, so two clones never compare equal even when they are
// about to yield the same remaining elements.
type iterHandle struct {
	it dynIterator
}

// wrappedIter is the non-generic carrier stored inside a WrappedValue's
// Iter variant; Iter[V].ops supplies the Unwrap needed to turn its
// WrappedValue elements back into V.
type wrappedIter struct {
	handle *iterHandle
}

// Iter presents a restartable lazy sequence over V and is itself usable
// as a cell value: its internal state is a pointer, so cloning is O(1).
// A clone gets its own handle (so it never compares equal to the
// original) and its own cursor, and shares only the read-only backing
// sequence.
type Iter[V any] struct {
	handle *iterHandle
	ops    Ops[V]
}

// EmptyIter returns an Iter that yields no elements.
func EmptyIter[V any](ops Ops[V]) Iter[V] {
	return Iter[V]{handle: &iterHandle{it: emptyIterator{}}, ops: ops}
}

// FromInt iterates 1..=n, empty if n < 1.
func FromInt(n int64) Iter[int64] {
	return Iter[int64]{handle: &iterHandle{it: &intIterator{limit: n, cur: 1}}, ops: IntOps}
}

// FromSlice copies items into an owned, reference-counted-in-spirit
// backing sequence and returns an iterator over it.
func FromSlice[V any](ops Ops[V], items []V) Iter[V] {
	owned := append([]V(nil), items...)
	return Iter[V]{handle: &iterHandle{it: &sliceIterator[V]{items: owned, ops: ops}}, ops: ops}
}

// Next advances the cursor, returning the unwrapped element and whether
// one was available.
func (it Iter[V]) Next() (V, bool) {
	w, ok := it.handle.it.next()
	if !ok {
		var zero V
		return zero, false
	}
	return it.ops.Unwrap(w), true
}

// NextWrapped advances the cursor without unwrapping, for dynamic
// consumers that only carry the WrappedValue bridge.
func (it Iter[V]) NextWrapped() (WrappedValue, bool) {
	return it.handle.it.next()
}

// Clone produces an independent cursor over the same underlying
// sequence; it is never equal to the original (or to any other clone).
func (it Iter[V]) Clone() Iter[V] {
	return Iter[V]{handle: &iterHandle{it: it.handle.it.clone()}, ops: it.ops}
}

// Equal compares reference identity of the underlying iterator object,
// not cursor position or remaining elements.
func (it Iter[V]) Equal(other Iter[V]) bool {
	return it.handle == other.handle
}

func (it Iter[V]) String() string {
	return it.handle.it.describe()
}

// IterOps builds the Ops[Iter[V]] vtable needed to store an Iter[V]
// itself as a cell value, given the element ops.
func IterOps[V any](elem Ops[V]) Ops[Iter[V]] {
	return Ops[Iter[V]]{
		Default: func() Iter[V] { return EmptyIter(elem) },
		Wrap:    func(v Iter[V]) WrappedValue { return wrapIter(wrappedIter{handle: v.handle}) },
		Unwrap: func(w WrappedValue) Iter[V] {
			if w.kind != KIter {
				return EmptyIter(elem)
			}
			return Iter[V]{handle: w.iter.handle, ops: elem}
		},
		Equal: func(a, b Iter[V]) bool { return a.handle == b.handle },
		Clone: func(v Iter[V]) Iter[V] { return v.Clone() },
	}
}

type emptyIterator struct{}

func (emptyIterator) next() (WrappedValue, bool) { return WrappedValue{}, false }
func (emptyIterator) clone() dynIterator         { return emptyIterator{} }
func (emptyIterator) describe() string           { return "<empty>" }

type intIterator struct {
	limit, cur int64
}

func (it *intIterator) next() (WrappedValue, bool) {
	if it.cur > it.limit {
		return WrappedValue{}, false
	}
	v := it.cur
	it.cur++
	return WrapInt(v), true
}

func (it *intIterator) clone() dynIterator {
	cp := *it
	return &cp
}

func (it *intIterator) describe() string {
	if it.cur > it.limit {
		return "<empty>"
	}
	return fmt.Sprintf("[%d,%d]", it.cur, it.limit)
}

type sliceIterator[V any] struct {
	items []V
	pos   int
	ops   Ops[V]
}

func (s *sliceIterator[V]) next() (WrappedValue, bool) {
	if s.pos >= len(s.items) {
		return WrappedValue{}, false
	}
	v := s.items[s.pos]
	s.pos++
	return s.ops.Wrap(v), true
}

func (s *sliceIterator[V]) clone() dynIterator {
	return &sliceIterator[V]{items: s.items, pos: s.pos, ops: s.ops}
}

func (s *sliceIterator[V]) describe() string {
	return fmt.Sprintf("%v", s.items[s.pos:])
}
