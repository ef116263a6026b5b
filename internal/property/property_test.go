package property

import "testing"

func TestSourceCellChain(t *testing.T) {
	f := NewFactory()
	a := f.NewInt(0, nil)
	b := NewBind1(f, IntOps, nil, a, func(v int64) int64 { return v * 2 })
	c := NewBind1(f, IntOps, nil, b, func(v int64) int64 { return v * 2 })
	d := NewBind1(f, IntOps, nil, c, func(v int64) int64 { return v * 2 })

	a.Set(2)
	f.CommitChanges()
	if a.Get() != 2 || b.Get() != 4 || c.Get() != 8 || d.Get() != 16 {
		t.Fatalf("got a=%d b=%d c=%d d=%d", a.Get(), b.Get(), c.Get(), d.Get())
	}

	a.Set(4)
	f.CommitChanges()
	if a.Get() != 4 || b.Get() != 8 || c.Get() != 16 || d.Get() != 32 {
		t.Fatalf("got a=%d b=%d c=%d d=%d", a.Get(), b.Get(), c.Get(), d.Get())
	}
}

func TestMultiParentDerived(t *testing.T) {
	f := NewFactory()
	a := f.NewInt(0, nil)
	b := NewBind1(f, IntOps, nil, a, func(v int64) int64 { return v * 2 })
	c := NewBind1(f, IntOps, nil, b, func(v int64) int64 { return v * 2 })
	d := NewBind1(f, IntOps, nil, c, func(v int64) int64 { return v * 2 })

	s := f.NewString("", nil)
	parents := []DynCell{a.Dynamic(), b.Dynamic(), c.Dynamic(), d.Dynamic()}
	BindDynamic(s, parents, func(vals []WrappedValue) string {
		return "your final numbers are " +
			vals[0].UnwrapString() + ", " + vals[1].UnwrapString() + ", " +
			vals[2].UnwrapString() + ", and " + vals[3].UnwrapString() + "!"
	})

	tVal := NewBind2(f, StringOps, nil, a, s, func(av int64, sv string) string {
		digits := WrapInt(av).UnwrapString()
		return digits + sv + digits
	})

	a.Set(2)
	f.CommitChanges()
	wantS := "your final numbers are 2, 4, 8, and 16!"
	if s.Get() != wantS {
		t.Fatalf("got %q want %q", s.Get(), wantS)
	}
	wantT := "2your final numbers are 2, 4, 8, and 16!2"
	if tVal.Get() != wantT {
		t.Fatalf("got %q want %q", tVal.Get(), wantT)
	}
}

func TestIterableSourceCell(t *testing.T) {
	f := NewFactory()
	iterOps := IterOps(IntOps)
	cell := New(f, iterOps, iterOps.Default(), nil)

	it := cell.Get()
	if _, ok := it.Next(); ok {
		t.Fatalf("expected empty() to yield nothing")
	}

	cell.Set(FromInt(8))
	f.CommitChanges()

	var got []int64
	it = cell.Get()
	for {
		v, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, v)
	}
	want := []int64{1, 2, 3, 4, 5, 6, 7, 8}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}

	clone := cell.Get().Clone()
	var cloneGot []int64
	for {
		v, ok := clone.Next()
		if !ok {
			break
		}
		cloneGot = append(cloneGot, v)
	}
	if len(cloneGot) != len(want) {
		t.Fatalf("clone got %v want %v", cloneGot, want)
	}
	if clone.Equal(cell.Get()) {
		t.Fatalf("a clone must not compare equal to the original handle")
	}
}

func TestFreezeRejectsSet(t *testing.T) {
	f := NewFactory()
	a := f.NewInt(1, nil)
	a.Freeze()
	if err := a.TrySet(2); err == nil {
		t.Fatalf("expected TrySet on a frozen cell to fail")
	}
}

func TestSetOnDerivedCellRequiresUnbindFirst(t *testing.T) {
	f := NewFactory()
	a := f.NewInt(1, nil)
	b := NewBind1(f, IntOps, nil, a, func(v int64) int64 { return v + 1 })
	if err := b.TrySet(10); err == nil {
		t.Fatalf("expected TrySet on a derived cell to fail")
	}
	b.Unbind()
	if err := b.TrySet(10); err != nil {
		t.Fatalf("expected TrySet to succeed after Unbind: %v", err)
	}
}

func TestUnbindResetsToDefaultAndDropsParentEdge(t *testing.T) {
	f := NewFactory()
	a := f.NewInt(1, nil)
	b := NewBind1(f, IntOps, nil, a, func(v int64) int64 { return v + 1 })
	f.CommitChanges()
	if b.Get() != 2 {
		t.Fatalf("got %d want 2", b.Get())
	}

	b.Unbind()
	if b.Get() != 0 {
		t.Fatalf("got %d want 0 after unbind", b.Get())
	}

	a.Set(5)
	f.CommitChanges()
	if b.Get() != 0 {
		t.Fatalf("unbound cell should not have been recomputed, got %d", b.Get())
	}
}

func TestObserverFiresOnceAfterStabilization(t *testing.T) {
	f := NewFactory()
	var seen []int64
	a := f.NewInt(0, nil)
	b := New(f, IntOps, int64(0), func(v int64) { seen = append(seen, v) })
	Bind1(b, a, func(v int64) int64 { return v * 10 })

	a.Set(1)
	a.Set(2)
	a.Set(3)
	f.CommitChanges()

	if len(seen) != 1 || seen[0] != 30 {
		t.Fatalf("expected exactly one observer call with 30, got %v", seen)
	}
}

func TestSharedBindingsObserveOnce(t *testing.T) {
	f := NewFactory()
	s1 := f.NewInt(0, nil)
	s2 := f.NewInt(0, nil)

	var dCalls, eCalls []int64
	d := New(f, IntOps, int64(0), func(v int64) { dCalls = append(dCalls, v) })
	Bind2(d, s1, s2, func(a, b int64) int64 { return a + b })

	e := New(f, IntOps, int64(0), func(v int64) { eCalls = append(eCalls, v) })
	Bind2(e, d, s1, func(dv, s1v int64) int64 { return dv + s1v })

	s1.Set(5)
	f.CommitChanges()

	if len(dCalls) != 1 || dCalls[0] != 5 {
		t.Fatalf("expected d to observe 5 once, got %v", dCalls)
	}
	if len(eCalls) != 1 {
		t.Fatalf("expected e to observe exactly once, got %v", eCalls)
	}
}

func TestSetCoalescesUnchangedValueDoesNotEnqueue(t *testing.T) {
	f := NewFactory()
	calls := 0
	a := New(f, IntOps, int64(5), func(int64) { calls++ })
	a.Set(5)
	f.CommitChanges()
	if calls != 0 {
		t.Fatalf("expected no observer call when the value didn't change, got %d calls", calls)
	}
}

func TestFactoryCountReturnsToZeroAfterRelease(t *testing.T) {
	f := NewFactory()
	cells := make([]*Cell[int64], 0, 5)
	for i := 0; i < 5; i++ {
		cells = append(cells, f.NewInt(int64(i), nil))
	}
	if f.Count() != 5 {
		t.Fatalf("got count %d want 5", f.Count())
	}

	for _, c := range cells {
		c.Release()
	}
	if f.Count() != 0 {
		t.Fatalf("got count %d want 0 after releasing every cell", f.Count())
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	f := NewFactory()
	a := f.NewInt(1, nil)
	a.Release()
	a.Release()
	if f.Count() != 0 {
		t.Fatalf("got count %d want 0", f.Count())
	}
}

func TestReleaseRejectsFurtherSets(t *testing.T) {
	f := NewFactory()
	a := f.NewInt(1, nil)
	a.Release()
	if err := a.TrySet(2); err == nil {
		t.Fatalf("expected TrySet on a released cell to fail")
	}
}

func TestReleaseOfDerivedCellMarksTransformDead(t *testing.T) {
	f := NewFactory()
	a := f.NewInt(1, nil)
	b := NewBind1(f, IntOps, nil, a, func(v int64) int64 { return v + 1 })
	f.CommitChanges()
	if f.Count() != 2 {
		t.Fatalf("got count %d want 2", f.Count())
	}

	b.Release()
	if f.Count() != 1 {
		t.Fatalf("got count %d want 1 after releasing the derived cell", f.Count())
	}

	// a's edge to b's transform should be compacted out on the next
	// commit rather than recomputing a released cell.
	a.Set(5)
	f.CommitChanges()
}

func TestReleaseOfParentPropagatesDefaultToChildren(t *testing.T) {
	f := NewFactory()
	a := f.NewInt(7, nil)
	b := NewBind1(f, IntOps, nil, a, func(v int64) int64 { return v * 2 })
	f.CommitChanges()
	if b.Get() != 14 {
		t.Fatalf("got %d want 14", b.Get())
	}

	a.Release()
	f.CommitChanges()
	if b.Get() != 0 {
		t.Fatalf("got %d want 0 after the parent cell was released", b.Get())
	}
}

func TestBrushAndLengthOps(t *testing.T) {
	f := NewFactory()
	fill := f.NewBrush(Transparent(), nil)
	fill.Set(RGB(1, 0, 0))
	f.CommitChanges()
	if fill.Get() != (Brush{R: 1, A: 1}) {
		t.Fatalf("got %+v", fill.Get())
	}

	x1 := f.NewLength(Px(10), nil)
	width := f.NewLength(Px(5), nil)
	x2 := NewBind2(f, LengthOps, nil, x1, width, func(a, b Length) Length { return a.Add(b) })
	f.CommitChanges()
	if x2.Get() != Px(15) {
		t.Fatalf("got %v want 15px", x2.Get())
	}
}
