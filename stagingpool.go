package kgpu

// stagingBin is one bump-allocated CPU-visible buffer backing the pool.
type stagingBin struct {
	buffer *BufferFrontend
	mapped []byte
	cursor uint64
}

// StagingBufferPool is a bump-allocator arena backed by one or more
// CPU-visible buffers (bins), each of fixed size BinSize (spec.md section
// 4.11). Bins are grouped by frame index so a frame's staged data is
// never reused while that frame might still be in flight.
type StagingBufferPool struct {
	api             GraphicsApi
	device          Handle[Device]
	binSize         uint64
	minimumBinCount uint32
	deleter         *ResourceDeleter
	binsByFrame     map[uint32][]*stagingBin
	frameIndex      uint32
}

// NewStagingBufferPool constructs a pool with the given bin size (use
// DefaultStagingBinSize for the core's default) and minimum resident bin
// count per frame index, backed by deleter for bins retired on
// MoveToNextFrame.
func NewStagingBufferPool(api GraphicsApi, device Handle[Device], binSize uint64, minimumBinCount uint32, deleter *ResourceDeleter) *StagingBufferPool {
	if binSize == 0 {
		binSize = DefaultStagingBinSize
	}
	if minimumBinCount == 0 {
		minimumBinCount = DefaultMinimumBinCount
	}
	return &StagingBufferPool{
		api:             api,
		device:          device,
		binSize:         binSize,
		minimumBinCount: minimumBinCount,
		deleter:         deleter,
		binsByFrame:     make(map[uint32][]*stagingBin),
	}
}

func (p *StagingBufferPool) newBin() (*stagingBin, error) {
	buf, err := CreateBuffer(p.api, p.device, BufferOptions{
		Size:        p.binSize,
		Usage:       BufferUsageTransferSrc,
		MemoryUsage: MemoryUsageCpuToGpu,
	})
	if err != nil {
		return nil, err
	}
	return &stagingBin{buffer: buf}, nil
}

func (p *StagingBufferPool) ensureMapped(b *stagingBin) error {
	if b.mapped != nil {
		return nil
	}
	mem, err := b.buffer.Map()
	if err != nil {
		return err
	}
	b.mapped = mem
	return nil
}

// Stage copies data into the most recent bin for the current frame index
// with room for len(data) bytes, mapping it on demand, falling back to
// other bins of the current frame index and finally to a freshly created
// bin (spec.md section 4.11). Returns the byte offset within the backing
// buffer and the buffer's handle.
func (p *StagingBufferPool) Stage(data []byte) (offset uint64, buffer Handle[BufferTag], err error) {
	byteSize := uint64(len(data))
	if byteSize > p.binSize {
		return 0, Handle[BufferTag]{}, &Error{Kind: KindInvalidArgument, Site: "StagingBufferPool.Stage: byteSize exceeds BinSize"}
	}
	bins := p.binsByFrame[p.frameIndex]
	var target *stagingBin
	if n := len(bins); n > 0 {
		last := bins[n-1]
		if p.binSize-last.cursor >= byteSize {
			target = last
		}
	}
	if target == nil {
		for _, b := range bins {
			if p.binSize-b.cursor >= byteSize {
				target = b
				break
			}
		}
	}
	if target == nil {
		target, err = p.newBin()
		if err != nil {
			return 0, Handle[BufferTag]{}, err
		}
		p.binsByFrame[p.frameIndex] = append(bins, target)
	}
	if err = p.ensureMapped(target); err != nil {
		return 0, Handle[BufferTag]{}, err
	}
	copy(target.mapped[target.cursor:], data)
	offset = target.cursor
	buffer = target.buffer.Handle()
	target.cursor += byteSize
	return offset, buffer, nil
}

// Flush unmaps every mapped bin of the current frame index; callers must
// flush before the resulting buffer is used on the device (spec.md
// section 4.11).
func (p *StagingBufferPool) Flush() error {
	for _, b := range p.binsByFrame[p.frameIndex] {
		if b.mapped == nil {
			continue
		}
		if err := b.buffer.Flush(); err != nil {
			return err
		}
		if err := b.buffer.Unmap(); err != nil {
			return err
		}
		b.mapped = nil
	}
	return nil
}

// MoveToNextFrame keeps at most MinimumBinCount bins for the frame index
// about to be reused and schedules the rest for deletion via the
// ResourceDeleter (spec.md section 4.11).
func (p *StagingBufferPool) MoveToNextFrame(frameCount uint32) {
	p.frameIndex = (p.frameIndex + 1) % frameCount
	bins := p.binsByFrame[p.frameIndex]
	keep := int(p.minimumBinCount)
	if keep > len(bins) {
		keep = len(bins)
	}
	for _, b := range bins[keep:] {
		p.deleter.DeleteLater(b.buffer)
	}
	for _, b := range bins[:keep] {
		b.cursor = 0
	}
	p.binsByFrame[p.frameIndex] = bins[:keep]
}
