package kgpu

// TextureOptions mirrors spec.md section 3's Texture attributes.
type TextureOptions struct {
	Type                     TextureType
	Format                   Format
	ExtentW, ExtentH, ExtentD uint32
	MipLevels                uint32
	ArrayLayers              uint32
	Samples                  SampleCount
	Tiling                   TilingMode
	Usage                    TextureUsage
	MemoryUsage              MemoryUsage
	ExternalMemoryHandleType ExternalMemoryHandleType
	InitialLayout            ImageLayout
}

// TilingMode per spec.md section 3.
type TilingMode int

const (
	TilingOptimal TilingMode = iota
	TilingLinear
)

// TextureViewOptions mirrors spec.md section 3's TextureView attributes.
type TextureViewOptions struct {
	ViewType     TextureViewType
	FormatOverride Format // FormatUndefined => inherit the texture's format
	Aspects      ImageAspect
	BaseMipLevel uint32
	MipLevelCount uint32
	BaseArrayLayer uint32
	ArrayLayerCount uint32
	Swizzle      ComponentSwizzle
}

// ImageAspect is a bitmask of subresource aspects.
type ImageAspect uint32

const (
	ImageAspectColor ImageAspect = 1 << iota
	ImageAspectDepth
	ImageAspectStencil
)

// SwizzleComponent names a per-channel remap; ComponentIdentity leaves a
// channel unchanged.
type SwizzleComponent int

const (
	ComponentIdentity SwizzleComponent = iota
	ComponentZero
	ComponentOne
	ComponentR
	ComponentG
	ComponentB
	ComponentA
)

type ComponentSwizzle struct {
	R, G, B, A SwizzleComponent
}

// TextureFrontend is the move-only front-end for a Texture. nonOwning
// marks swapchain-owned images whose Release must be a no-op (spec.md
// section 4.3).
type TextureFrontend struct {
	api       GraphicsApi
	device    Handle[Device]
	handle    Handle[TextureTag]
	nonOwning bool
}

func CreateTexture(api GraphicsApi, device Handle[Device], opts TextureOptions) (*TextureFrontend, error) {
	h, err := api.CreateTexture(device, opts)
	if err != nil {
		return nil, err
	}
	return &TextureFrontend{api: api, device: device, handle: h}, nil
}

func (t *TextureFrontend) IsValid() bool             { return t != nil && t.handle.IsValid() }
func (t *TextureFrontend) Handle() Handle[TextureTag] { return t.handle }

func (t *TextureFrontend) Release() {
	if t == nil || !t.handle.IsValid() || t.nonOwning {
		return
	}
	t.api.DeleteTexture(t.handle)
	t.handle = Handle[TextureTag]{}
}

// CreateView creates a TextureView over this texture.
func (t *TextureFrontend) CreateView(opts TextureViewOptions) (*TextureViewFrontend, error) {
	h, err := t.api.CreateTextureView(t.device, t.handle, opts)
	if err != nil {
		return nil, err
	}
	return &TextureViewFrontend{api: t.api, device: t.device, handle: h}, nil
}

// MipmapGenerator is implemented by the backend to give Texture its
// generateMipMaps operation (spec.md section 4.8) without widening
// GraphicsApi for every resource kind.
type MipmapGenerator interface {
	GenerateMipMaps(device Handle[Device], queue QueueHandle, texture Handle[TextureTag], initialLayout ImageLayout) error
	HostCopyTexture(device Handle[Device], texture Handle[TextureTag], data []byte, subresource ImageAspect) error
	TransitionHostLayout(device Handle[Device], texture Handle[TextureTag], newLayout ImageLayout) error
}

// GenerateMipMaps implements spec.md section 4.8's algorithm via the
// backend: records a one-shot command buffer that transitions/blits/
// transitions each mip level and waits for completion. It does not check
// that the format supports blitting.
func (t *TextureFrontend) GenerateMipMaps(queue *Queue, initialLayout ImageLayout) error {
	gen, ok := t.api.(MipmapGenerator)
	if !ok {
		return &Error{Kind: KindInvalidArgument, Site: "TextureFrontend.GenerateMipMaps: backend does not implement MipmapGenerator"}
	}
	return gen.GenerateMipMaps(t.device, queue.handle, t.handle, initialLayout)
}

// TextureViewFrontend is the move-only front-end for a TextureView.
type TextureViewFrontend struct {
	api    GraphicsApi
	device Handle[Device]
	handle Handle[TextureViewTag]
}

func (v *TextureViewFrontend) IsValid() bool                { return v != nil && v.handle.IsValid() }
func (v *TextureViewFrontend) Handle() Handle[TextureViewTag] { return v.handle }

func (v *TextureViewFrontend) Release() {
	if v == nil || !v.handle.IsValid() {
		return
	}
	v.api.DeleteTextureView(v.handle)
	v.handle = Handle[TextureViewTag]{}
}
