package kgpu

// SemaphoreOptions mirrors spec.md section 3's GpuSemaphore: an opaque
// device-to-device sync object, optionally exportable via an external
// handle type.
type SemaphoreOptions struct {
	ExternalMemoryHandleType ExternalMemoryHandleType
}

// GpuSemaphore is the move-only front-end for a GpuSemaphore.
type GpuSemaphore struct {
	api    GraphicsApi
	device Handle[Device]
	handle Handle[GpuSemaphoreTag]
}

func CreateSemaphore(api GraphicsApi, device Handle[Device], opts SemaphoreOptions) (*GpuSemaphore, error) {
	h, err := api.CreateSemaphore(device, opts)
	if err != nil {
		return nil, err
	}
	return &GpuSemaphore{api: api, device: device, handle: h}, nil
}

func (s *GpuSemaphore) IsValid() bool                     { return s != nil && s.handle.IsValid() }
func (s *GpuSemaphore) Handle() Handle[GpuSemaphoreTag]    { return s.handle }

func (s *GpuSemaphore) Release() {
	if s == nil || !s.handle.IsValid() {
		return
	}
	s.api.DeleteSemaphore(s.handle)
	s.handle = Handle[GpuSemaphoreTag]{}
}
