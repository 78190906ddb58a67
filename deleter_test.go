package kgpu

import "testing"

type fakeReleasable struct {
	released *bool
}

func (f fakeReleasable) Release() {
	*f.released = true
}

func TestResourceDeleterWaitsForEveryFrameSlot(t *testing.T) {
	const frames = 3
	d := NewResourceDeleter(frames)

	var released bool
	d.DeleteLater(fakeReleasable{released: &released})

	for i := 0; i < frames; i++ {
		d.MoveToNextFrame()
	}
	if released {
		t.Fatal("resource must not be released before every frame slot has been dereffed")
	}

	for i := uint32(0); i < frames-1; i++ {
		d.DerefFrameIndex(i)
		if released {
			t.Fatalf("resource released early after only %d of %d deref calls", i+1, frames)
		}
	}
	d.DerefFrameIndex(frames - 1)
	if !released {
		t.Fatal("resource must be released once every frame slot has been dereffed")
	}
}

func TestResourceDeleterPendingCount(t *testing.T) {
	d := NewResourceDeleter(2)
	var r1, r2 bool
	d.DeleteLater(fakeReleasable{released: &r1})
	d.DeleteLater(fakeReleasable{released: &r2})
	if got := d.PendingCount(); got != 2 {
		t.Fatalf("PendingCount() = %d, want 2", got)
	}
}

func TestResourceDeleterNilIsNoop(t *testing.T) {
	d := NewResourceDeleter(1)
	d.DeleteLater(nil)
	if d.PendingCount() != 0 {
		t.Fatal("DeleteLater(nil) must not enqueue anything")
	}
}

func TestResourceDeleterSeparatesFrameBins(t *testing.T) {
	d := NewResourceDeleter(1)
	var r1, r2 bool
	d.DeleteLater(fakeReleasable{released: &r1})
	d.MoveToNextFrame()
	d.DeleteLater(fakeReleasable{released: &r2})

	d.DerefFrameIndex(0)
	if !r1 {
		t.Fatal("frame 0's bin must be destroyed once slot 0 is dereffed past it")
	}
	if r2 {
		t.Fatal("frame 1's bin must not be destroyed yet; it has not aged past the current frame")
	}
}
