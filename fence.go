package kgpu

// FenceOptions mirrors spec.md section 3's Fence: host<->device sync,
// optionally exportable, optionally created in the already-signalled
// state so the first frame of a render loop does not block on it.
type FenceOptions struct {
	CreateSignalled          bool
	ExternalMemoryHandleType ExternalMemoryHandleType
}

// Fence is the move-only front-end for a Fence.
type Fence struct {
	api    GraphicsApi
	device Handle[Device]
	handle Handle[FenceTag]
}

func CreateFence(api GraphicsApi, device Handle[Device], opts FenceOptions) (*Fence, error) {
	h, err := api.CreateFence(device, opts)
	if err != nil {
		return nil, err
	}
	return &Fence{api: api, device: device, handle: h}, nil
}

func (f *Fence) IsValid() bool                { return f != nil && f.handle.IsValid() }
func (f *Fence) Handle() Handle[FenceTag]      { return f.handle }

func (f *Fence) Release() {
	if f == nil || !f.handle.IsValid() {
		return
	}
	f.api.DeleteFence(f.handle)
	f.handle = Handle[FenceTag]{}
}

// Wait blocks the calling thread up to timeoutNanos nanoseconds (spec.md
// section 5); use ^uint64(0) for an indefinite wait. Returns ResultTimeout
// rather than an error if the deadline elapses.
func (f *Fence) Wait(timeoutNanos uint64) (Result, error) {
	return f.api.FenceWait(f.handle, timeoutNanos)
}

func (f *Fence) Reset() error {
	return f.api.FenceReset(f.handle)
}

func (f *Fence) Status() FenceStatus {
	return f.api.FenceStatus(f.handle)
}

// WaitIndefinite is a convenience for Wait(^uint64(0)), the "UINT64_MAX"
// timeout spec.md section 4.3/5 uses throughout.
func (f *Fence) WaitIndefinite() (Result, error) {
	return f.Wait(^uint64(0))
}
