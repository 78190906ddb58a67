package kgpu

// CommandRecorderOptions targets a command recorder at a queue, by index
// into the device's materialized queue array (spec.md section 4.4). It
// carries no inheritance context: every recorder records a primary
// command buffer.
type CommandRecorderOptions struct {
	QueueIndex uint32
}

// Offset3D / Extent3D name a texel-space point and size, used throughout
// the copy/blit/resolve options below.
type Offset3D struct{ X, Y, Z int32 }
type Extent3D struct{ Width, Height, Depth uint32 }

// BufferCopy describes one buffer-to-buffer copy region.
type BufferCopy struct {
	Src, Dst             Handle[BufferTag]
	SrcOffset, DstOffset uint64
	Size                 uint64
}

// TextureSubresource names one mip level + array layer range of a texture.
type TextureSubresource struct {
	Aspect       ImageAspect
	MipLevel     uint32
	BaseArrayLayer uint32
	LayerCount   uint32
}

// BufferTextureCopy describes a buffer<->texture copy region, used for
// both CopyBufferToTexture and CopyTextureToBuffer (the Buffer/Texture
// fields are interpreted per the call direction).
type BufferTextureCopy struct {
	Buffer         Handle[BufferTag]
	BufferOffset   uint64
	BufferRowLength, BufferImageHeight uint32 // 0: tightly packed
	Texture        Handle[TextureTag]
	TextureLayout  ImageLayout
	Subresource    TextureSubresource
	TextureOffset  Offset3D
	Extent         Extent3D
}

// TextureCopy describes a texture-to-texture copy region.
type TextureCopy struct {
	Src, Dst           Handle[TextureTag]
	SrcLayout, DstLayout ImageLayout
	SrcSubresource, DstSubresource TextureSubresource
	SrcOffset, DstOffset Offset3D
	Extent             Extent3D
}

// TextureBlit describes a filtered, extent-scaling blit between two
// texture regions.
type TextureBlit struct {
	Src, Dst             Handle[TextureTag]
	SrcLayout, DstLayout ImageLayout
	SrcSubresource, DstSubresource TextureSubresource
	SrcOffsets, DstOffsets [2]Offset3D // opposing corners of the region
	Filter               FilterMode
}

// TextureResolve describes a multisample-resolve region.
type TextureResolve struct {
	Src, Dst             Handle[TextureTag]
	SrcLayout, DstLayout ImageLayout
	SrcSubresource, DstSubresource TextureSubresource
	Extent               Extent3D
}

// MemoryBarrierOptions is a global memory barrier with no resource scope.
type MemoryBarrierOptions struct {
	SrcStageMask, DstStageMask   uint32
	SrcAccessMask, DstAccessMask uint32
}

// BufferBarrierOptions scopes a barrier to one buffer range.
type BufferBarrierOptions struct {
	Buffer                       Handle[BufferTag]
	Offset, Size                 uint64
	SrcStageMask, DstStageMask   uint32
	SrcAccessMask, DstAccessMask uint32
	SrcQueueFamily, DstQueueFamily uint32 // ^uint32(0): no ownership transfer
}

// ImageBarrierOptions scopes a barrier to one texture subresource range
// and optionally performs a layout transition.
type ImageBarrierOptions struct {
	Texture                      Handle[TextureTag]
	Subresource                  TextureSubresource
	OldLayout, NewLayout         ImageLayout
	SrcStageMask, DstStageMask   uint32
	SrcAccessMask, DstAccessMask uint32
	SrcQueueFamily, DstQueueFamily uint32
}

// ClearColor / ClearDepthStencil name the clear values an attachment may
// carry when its load op is Clear.
type ClearColor struct{ R, G, B, A float32 }
type ClearDepthStencil struct {
	Depth   float32
	Stencil uint32
}

// RenderPassColorAttachment mirrors one entry of spec.md section 4.5's
// colorAttachments[].
type RenderPassColorAttachment struct {
	View          Handle[TextureViewTag]
	ResolveView   Handle[TextureViewTag] // zero value: no MSAA resolve
	LoadOp        LoadOp
	StoreOp       StoreOp
	InitialLayout ImageLayout
	FinalLayout   ImageLayout
	Clear         ClearColor
	ResolveMode   ResolveMode
}

// RenderPassDepthStencilAttachment mirrors spec.md section 4.5's optional
// depthStencilAttachment.
type RenderPassDepthStencilAttachment struct {
	View               Handle[TextureViewTag]
	ResolveView        Handle[TextureViewTag]
	DepthLoadOp        LoadOp
	DepthStoreOp       StoreOp
	StencilLoadOp      LoadOp
	StencilStoreOp     StoreOp
	InitialLayout      ImageLayout
	FinalLayout        ImageLayout
	Clear              ClearDepthStencil
	DepthResolveMode   ResolveMode
	StencilResolveMode ResolveMode
}

// RenderPassOptions mirrors spec.md section 4.5's
// RenderPassCommandRecorderOptions.
type RenderPassOptions struct {
	ColorAttachments       []RenderPassColorAttachment
	DepthStencilAttachment *RenderPassDepthStencilAttachment
	Samples                SampleCount // default 1
	ViewCount              uint32      // default 1; >=2 enables multiview
	FramebufferWidth       uint32      // 0: computed from attachments
	FramebufferHeight      uint32
	FramebufferLayers      uint32
}

// ComputePassOptions is currently empty but kept as a distinct type so
// compute-pass-specific options (predication, future extensions) can be
// added without changing BeginComputePass's signature.
type ComputePassOptions struct{}

// RayTracingPassOptions mirrors ComputePassOptions's role for ray-tracing
// passes.
type RayTracingPassOptions struct{}

// Viewport / Rect2D are the dynamic-state shapes setViewport/setScissor
// consume.
type Viewport struct {
	X, Y, Width, Height float32
	MinDepth, MaxDepth  float32
}

type Rect2D struct {
	X, Y          int32
	Width, Height uint32
}

// DrawOptions / DrawIndexedOptions carry the batch parameters of
// draw/drawIndexed (spec.md section 4.5: "take a single command or a
// batch").
type DrawOptions struct {
	VertexCount, InstanceCount uint32
	FirstVertex, FirstInstance uint32
}

type DrawIndexedOptions struct {
	IndexCount, InstanceCount uint32
	FirstIndex                uint32
	VertexOffset              int32
	FirstInstance              uint32
}

// TraceRaysOptions names the shader-binding-table regions and dispatch
// extent for traceRays (spec.md section 4.7).
type TraceRaysOptions struct {
	RaygenRegion, MissRegion, HitRegion, CallableRegion ShaderBindingTableRegion
	Width, Height, Depth uint32
}

// CommandRecorderFrontend is the move-only front-end for a
// CommandRecorder (spec.md section 3/4.4). It owns exactly one open pass
// at a time; beginning a second pass before ending the first is an
// InvalidArgument error enforced by the backend.
type CommandRecorderFrontend struct {
	api    GraphicsApi
	device Handle[Device]
	handle Handle[CommandRecorderTag]
	done   bool
}

func CreateCommandRecorder(api GraphicsApi, device Handle[Device], opts CommandRecorderOptions) (*CommandRecorderFrontend, error) {
	h, err := api.CreateCommandRecorder(device, opts)
	if err != nil {
		return nil, err
	}
	return &CommandRecorderFrontend{api: api, device: device, handle: h}, nil
}

func (c *CommandRecorderFrontend) IsValid() bool { return c != nil && c.handle.IsValid() }
func (c *CommandRecorderFrontend) Handle() Handle[CommandRecorderTag] { return c.handle }

// BeginRenderPass opens a render pass recorder, resolving the attachment
// descriptions into a cached RenderPass + Framebuffer (spec.md section
// 4.6).
func (c *CommandRecorderFrontend) BeginRenderPass(opts RenderPassOptions) (*RenderPassRecorder, error) {
	h, err := c.api.BeginRenderPass(c.handle, opts)
	if err != nil {
		return nil, err
	}
	return &RenderPassRecorder{api: c.api, handle: h}, nil
}

func (c *CommandRecorderFrontend) BeginComputePass(opts ComputePassOptions) (*ComputePassRecorder, error) {
	h, err := c.api.BeginComputePass(c.handle, opts)
	if err != nil {
		return nil, err
	}
	return &ComputePassRecorder{api: c.api, handle: h}, nil
}

func (c *CommandRecorderFrontend) BeginRayTracingPass(opts RayTracingPassOptions) (*RayTracingPassRecorder, error) {
	h, err := c.api.BeginRayTracingPass(c.handle, opts)
	if err != nil {
		return nil, err
	}
	return &RayTracingPassRecorder{api: c.api, handle: h}, nil
}

func (c *CommandRecorderFrontend) CopyBufferToBuffer(opts BufferCopy) error {
	return c.api.CopyBufferToBuffer(c.handle, opts)
}

func (c *CommandRecorderFrontend) CopyBufferToTexture(opts BufferTextureCopy) error {
	return c.api.CopyBufferToTexture(c.handle, opts)
}

func (c *CommandRecorderFrontend) CopyTextureToBuffer(opts BufferTextureCopy) error {
	return c.api.CopyTextureToBuffer(c.handle, opts)
}

func (c *CommandRecorderFrontend) CopyTextureToTexture(opts TextureCopy) error {
	return c.api.CopyTextureToTexture(c.handle, opts)
}

func (c *CommandRecorderFrontend) BlitTexture(opts TextureBlit) error {
	return c.api.BlitTexture(c.handle, opts)
}

func (c *CommandRecorderFrontend) ResolveTexture(opts TextureResolve) error {
	return c.api.ResolveTexture(c.handle, opts)
}

func (c *CommandRecorderFrontend) MemoryBarrier(opts MemoryBarrierOptions) error {
	return c.api.MemoryBarrier(c.handle, opts)
}

func (c *CommandRecorderFrontend) BufferBarrier(opts BufferBarrierOptions) error {
	return c.api.BufferBarrier(c.handle, opts)
}

func (c *CommandRecorderFrontend) ImageBarrier(opts ImageBarrierOptions) error {
	return c.api.ImageBarrier(c.handle, opts)
}

func (c *CommandRecorderFrontend) BeginDebugLabel(name string, color [4]float32) {
	c.api.BeginDebugLabel(c.handle, name, color)
}

func (c *CommandRecorderFrontend) EndDebugLabel() {
	c.api.EndDebugLabel(c.handle)
}

// Finish closes recording and yields a CommandBuffer. Calling Finish more
// than once returns an error, since the recorder no longer resolves. A
// recorder dropped without Finish is not cancelled: its native command
// buffer stays allocated until the device's command pools are destroyed.
func (c *CommandRecorderFrontend) Finish() (*CommandBufferFrontend, error) {
	h, err := c.api.FinishCommandRecorder(c.handle)
	if err != nil {
		return nil, err
	}
	c.done = true
	return &CommandBufferFrontend{api: c.api, device: c.device, handle: h}, nil
}

// CommandBufferFrontend is the move-only front-end for a CommandBuffer.
type CommandBufferFrontend struct {
	api    GraphicsApi
	device Handle[Device]
	handle Handle[CommandBufferTag]
}

func (b *CommandBufferFrontend) IsValid() bool { return b != nil && b.handle.IsValid() }
func (b *CommandBufferFrontend) Handle() Handle[CommandBufferTag] { return b.handle }

func (b *CommandBufferFrontend) Release() {
	if b == nil || !b.handle.IsValid() {
		return
	}
	b.api.DeleteCommandBuffer(b.handle)
	b.handle = Handle[CommandBufferTag]{}
}
