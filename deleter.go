package kgpu

// Releasable is satisfied by every front-end type (BufferFrontend,
// TextureFrontend, ...); ResourceDeleter stores resources as this
// interface so it never has to know the concrete kind, matching spec.md
// section 4.10's "the deleter specializes per resource type only to
// permit custom future extensions" -- this module needs no such
// specialization yet.
type Releasable interface {
	Release()
}

// deleterBin holds every resource queued for destruction while frame
// FrameNumber was the current frame, plus a bit per frame-in-flight slot
// recording whether that slot might still reference the bin's resources.
type deleterBin struct {
	frameNumber uint64
	items       []Releasable
	refs        []bool
}

func (b *deleterBin) deletable() bool {
	for _, r := range b.refs {
		if r {
			return false
		}
	}
	return true
}

// ResourceDeleter implements N-frame deferred destruction (spec.md
// section 4.10). It is constructed with the max frames in flight and
// driven by the render loop: moveToNextFrame() before recording each
// frame, deleteLater(resource) when dropping something that may still be
// referenced by in-flight command buffers, and derefFrameIndex(i) when
// frame slot i's fence has signalled.
type ResourceDeleter struct {
	maxFramesInFlight uint32
	currentFrame      uint64
	bins              []*deleterBin
}

// NewResourceDeleter constructs a deleter for maxFramesInFlight frame
// slots (>=1).
func NewResourceDeleter(maxFramesInFlight uint32) *ResourceDeleter {
	if maxFramesInFlight < 1 {
		maxFramesInFlight = 1
	}
	return &ResourceDeleter{maxFramesInFlight: maxFramesInFlight}
}

// MoveToNextFrame advances the monotonically increasing frame number.
func (d *ResourceDeleter) MoveToNextFrame() {
	d.currentFrame++
}

// DeleteLater moves resource into the bin for the current frame number,
// to be destroyed once every frame slot that might still reference it has
// been dereffed.
func (d *ResourceDeleter) DeleteLater(resource Releasable) {
	if resource == nil {
		return
	}
	var bin *deleterBin
	for _, b := range d.bins {
		if b.frameNumber == d.currentFrame {
			bin = b
			break
		}
	}
	if bin == nil {
		refs := make([]bool, d.maxFramesInFlight)
		for i := range refs {
			refs[i] = true
		}
		bin = &deleterBin{frameNumber: d.currentFrame, refs: refs}
		d.bins = append(d.bins, bin)
	}
	bin.items = append(bin.items, resource)
}

// DerefFrameIndex clears frame slot i's reference bit on every bin whose
// frame number predates the current frame, then destroys and drops any
// bin left with no remaining references (spec.md section 4.10's
// frame-reference accounting).
func (d *ResourceDeleter) DerefFrameIndex(i uint32) {
	if i >= d.maxFramesInFlight {
		return
	}
	kept := d.bins[:0]
	for _, b := range d.bins {
		if b.frameNumber < d.currentFrame {
			b.refs[i] = false
		}
		if b.deletable() {
			for _, item := range b.items {
				item.Release()
			}
			continue
		}
		kept = append(kept, b)
	}
	d.bins = kept
}

// PendingCount reports how many resources are still waiting on a
// reference to clear; exposed for tests asserting bin accounting.
func (d *ResourceDeleter) PendingCount() int {
	n := 0
	for _, b := range d.bins {
		n += len(b.items)
	}
	return n
}
