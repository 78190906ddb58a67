package kgpu

import "testing"

// fakeStagingApi backs StagingBufferPool with plain host memory instead of a
// real device, exercising the same CreateBuffer/BufferAccessor surface the
// backend provides (spec.md section 4.11).
type fakeStagingApi struct {
	GraphicsApi
	pool *Pool[[]byte]
}

func newFakeStagingApi() *fakeStagingApi {
	return &fakeStagingApi{pool: NewPool[[]byte]()}
}

func (f *fakeStagingApi) CreateBuffer(device Handle[Device], opts BufferOptions) (Handle[BufferTag], error) {
	h := f.pool.Insert(make([]byte, opts.Size))
	return Handle[BufferTag](h), nil
}

func (f *fakeStagingApi) DeleteBuffer(h Handle[BufferTag]) {
	f.pool.Remove(Handle[[]byte](h))
}

func (f *fakeStagingApi) MapBuffer(h Handle[BufferTag]) ([]byte, error) {
	buf := f.pool.Get(Handle[[]byte](h))
	if buf == nil {
		return nil, &Error{Kind: KindInvalidArgument, Site: "fakeStagingApi.MapBuffer"}
	}
	return *buf, nil
}

func (f *fakeStagingApi) UnmapBuffer(Handle[BufferTag]) error                       { return nil }
func (f *fakeStagingApi) FlushBuffer(Handle[BufferTag]) error                       { return nil }
func (f *fakeStagingApi) InvalidateBuffer(Handle[BufferTag]) error                  { return nil }
func (f *fakeStagingApi) BufferDeviceAddress(Handle[BufferTag]) (uint64, error)     { return 0, nil }
func (f *fakeStagingApi) BufferExternalMemoryHandle(Handle[BufferTag]) (ExternalMemoryHandle, error) {
	return ExternalMemoryHandle{}, nil
}

// Handle[[]byte] and Handle[BufferTag] share layout (index, generation), so
// a direct conversion between them is safe here; the fake owns both tags.

func TestStagingPoolStageFitsWithinBin(t *testing.T) {
	api := newFakeStagingApi()
	deleter := NewResourceDeleter(1)
	p := NewStagingBufferPool(api, Handle[Device]{}, 64, 1, deleter)

	data := []byte("hello")
	offset, _, err := p.Stage(data)
	if err != nil {
		t.Fatalf("Stage: %v", err)
	}
	if offset+uint64(len(data)) > 64 {
		t.Fatalf("offset+len(data) = %d, want <= BinSize (64)", offset+uint64(len(data)))
	}
}

func TestStagingPoolAllocationsWithinBinDoNotOverlap(t *testing.T) {
	api := newFakeStagingApi()
	deleter := NewResourceDeleter(1)
	p := NewStagingBufferPool(api, Handle[Device]{}, 64, 1, deleter)

	off1, buf1, err := p.Stage([]byte("aaaa"))
	if err != nil {
		t.Fatalf("Stage 1: %v", err)
	}
	off2, buf2, err := p.Stage([]byte("bbbb"))
	if err != nil {
		t.Fatalf("Stage 2: %v", err)
	}
	if !buf1.Equal(buf2) {
		t.Fatal("two allocations that fit in one bin should land in the same buffer")
	}
	if off1 == off2 {
		t.Fatal("two in-flight allocations against the same bin must not share an offset")
	}
	lo, hi := off1, off2
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo+4 > hi {
		t.Fatalf("allocations overlap: [%d,%d) and [%d,%d)", off1, off1+4, off2, off2+4)
	}
}

func TestStagingPoolOverflowAllocatesNewBin(t *testing.T) {
	api := newFakeStagingApi()
	deleter := NewResourceDeleter(1)
	p := NewStagingBufferPool(api, Handle[Device]{}, 8, 1, deleter)

	_, buf1, err := p.Stage([]byte("abcdefgh"))
	if err != nil {
		t.Fatalf("Stage 1: %v", err)
	}
	_, buf2, err := p.Stage([]byte("x"))
	if err != nil {
		t.Fatalf("Stage 2: %v", err)
	}
	if buf1.Equal(buf2) {
		t.Fatal("an allocation that does not fit in the last bin must land in a new bin")
	}
}

func TestStagingPoolRejectsOversizedStage(t *testing.T) {
	api := newFakeStagingApi()
	deleter := NewResourceDeleter(1)
	p := NewStagingBufferPool(api, Handle[Device]{}, 4, 1, deleter)

	if _, _, err := p.Stage([]byte("toolong")); err == nil {
		t.Fatal("Stage with data larger than BinSize must return an error")
	}
}

func TestStagingPoolMoveToNextFrameRespectsMinimumBinCount(t *testing.T) {
	api := newFakeStagingApi()
	deleter := NewResourceDeleter(1)
	p := NewStagingBufferPool(api, Handle[Device]{}, 8, 1, deleter)

	// Force three bins into frame index 0's slice by filling each fully.
	for i := 0; i < 3; i++ {
		if _, _, err := p.Stage([]byte("abcdefgh")); err != nil {
			t.Fatalf("Stage %d: %v", i, err)
		}
	}
	if got := len(p.binsByFrame[0]); got != 3 {
		t.Fatalf("setup: binsByFrame[0] has %d bins, want 3", got)
	}

	p.MoveToNextFrame(1)

	if got := len(p.binsByFrame[0]); got > 1 {
		t.Fatalf("after MoveToNextFrame, binsByFrame[0] retained %d bins, want <= MinimumBinCount (1)", got)
	}
}
