package kgpu

import "testing"

func TestHandleDefaultInvalid(t *testing.T) {
	var h Handle[int]
	if h.IsValid() {
		t.Fatal("default handle must be invalid")
	}
}

func TestPoolInsertGet(t *testing.T) {
	p := NewPool[string]()
	h := p.Insert("a")
	if !h.IsValid() {
		t.Fatal("handle from Insert must be valid")
	}
	got := p.Get(h)
	if got == nil || *got != "a" {
		t.Fatalf("Get(h) = %v, want \"a\"", got)
	}
}

func TestPoolRemoveInvalidatesHandle(t *testing.T) {
	p := NewPool[string]()
	h1 := p.Insert("a")
	h2 := p.Insert("b")
	p.Remove(h1)

	if p.Get(h1) != nil {
		t.Fatal("Get on a removed handle must return nil")
	}
	if got := p.Get(h2); got == nil || *got != "b" {
		t.Fatal("removing one handle must not affect another live handle")
	}
}

func TestPoolReuseBumpsGeneration(t *testing.T) {
	p := NewPool[string]()
	h1 := p.Insert("a")
	p.Remove(h1)
	h2 := p.Insert("b")

	if h2.Index() != h1.Index() {
		t.Fatalf("expected slot reuse: h1.Index()=%d h2.Index()=%d", h1.Index(), h2.Index())
	}
	if h2.Generation() <= h1.Generation() {
		t.Fatalf("expected h2's generation (%d) > h1's (%d)", h2.Generation(), h1.Generation())
	}
	if p.Get(h1) != nil {
		t.Fatal("the old generation must never resolve again")
	}
}

func TestPoolClearPreservesCapacityInvalidatesHandles(t *testing.T) {
	p := NewPool[string]()
	h1 := p.Insert("a")
	h2 := p.Insert("b")
	itemsCap, slotsCap := cap(p.items), cap(p.slots)
	p.Clear()

	if p.Get(h1) != nil || p.Get(h2) != nil {
		t.Fatal("Clear must invalidate every handle issued to date")
	}
	if p.Len() != 0 {
		t.Fatalf("Len() after Clear = %d, want 0", p.Len())
	}
	if cap(p.items) != itemsCap || cap(p.slots) != slotsCap {
		t.Fatalf("capacity after Clear = (%d, %d), want (%d, %d)", cap(p.items), cap(p.slots), itemsCap, slotsCap)
	}
	h3 := p.Insert("c")
	if !h3.IsValid() {
		t.Fatal("pool must remain usable after Clear")
	}
}

func TestPoolContains(t *testing.T) {
	p := NewPool[int]()
	h := p.Insert(42)
	if !p.Contains(h) {
		t.Fatal("Contains must be true for a live handle")
	}
	p.Remove(h)
	if p.Contains(h) {
		t.Fatal("Contains must be false after Remove")
	}
}

func TestPoolEachVisitsLiveOnly(t *testing.T) {
	p := NewPool[int]()
	h1 := p.Insert(1)
	p.Insert(2)
	p.Remove(h1)

	seen := map[int]bool{}
	p.Each(func(h Handle[int], v *int) {
		seen[*v] = true
	})
	if seen[1] {
		t.Fatal("Each must not visit a removed element")
	}
	if !seen[2] {
		t.Fatal("Each must visit every live element")
	}
}
