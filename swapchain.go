package kgpu

// SwapchainOptions mirrors spec.md section 4.3's SwapchainOptions.
type SwapchainOptions struct {
	Surface       Handle[Surface]
	Format        Format
	ColorSpace    uint32 // backend-specific color space enum, passed through opaquely
	MinImageCount uint32
	ImageExtentW  uint32
	ImageExtentH  uint32
	ImageLayers   uint32 // >= 2 for stereo
	Usage         TextureUsage
	PresentMode   PresentMode
	OldSwapchain  Handle[Swapchain]
}

// SwapchainHandle is the move-only front-end for a swapchain.
type SwapchainHandle struct {
	api    GraphicsApi
	device Handle[Device]
	handle Handle[Swapchain]
}

// CreateSwapchain creates a swapchain from a device (spec.md section 4.3).
func CreateSwapchain(api GraphicsApi, device Handle[Device], opts SwapchainOptions) (*SwapchainHandle, error) {
	h, err := api.CreateSwapchain(device, opts)
	if err != nil {
		return nil, err
	}
	return &SwapchainHandle{api: api, device: device, handle: h}, nil
}

func (s *SwapchainHandle) IsValid() bool           { return s != nil && s.handle.IsValid() }
func (s *SwapchainHandle) Handle() Handle[Swapchain] { return s.handle }

func (s *SwapchainHandle) Release() {
	if s == nil || !s.handle.IsValid() {
		return
	}
	s.api.DeleteSwapchain(s.handle)
	s.handle = Handle[Swapchain]{}
}

// Textures returns the images owned by the swapchain, each wrapped as a
// non-owning Texture front-end per spec.md section 4.3: "the wrappers must
// never attempt to free these." The backend marks these texture entries
// as swapchain-owned so Texture.Release is a no-op for them.
func (s *SwapchainHandle) Textures() []*TextureFrontend {
	raw := s.api.SwapchainTextures(s.handle)
	out := make([]*TextureFrontend, len(raw))
	for i, h := range raw {
		out[i] = &TextureFrontend{api: s.api, device: s.device, handle: h, nonOwning: true}
	}
	return out
}

// GetNextImageIndex blocks (indefinite timeout, per spec.md section 4.3
// and section 5) until an image is available, signalling semaphore on
// completion.
func (s *SwapchainHandle) GetNextImageIndex(semaphore *GpuSemaphore) (uint32, AcquireImageResult) {
	var sem Handle[GpuSemaphoreTag]
	if semaphore != nil {
		sem = semaphore.handle
	}
	return s.api.AcquireNextImage(s.handle, sem)
}
