package vkcore

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/kdgpu/kgpucore"
)

type passKind int

const (
	passNone passKind = iota
	passRender
	passCompute
	passRayTracing
)

// vkCommandRecorder wraps one allocated primary VkCommandBuffer while it is
// being recorded. Per spec.md section 4.4 only one pass may be open at a
// time; seq is bumped on every BeginXxxPass so stale RenderPassRecorderHandle/
// ComputePassRecorderHandle/RayTracingPassRecorderHandle values from an
// already-ended pass are rejected. boundLayout records whichever pipeline's
// layout was last bound for the currently open pass, letting
// SetXxxBindGroup/XxxPushConstant calls made with a zero pipelineLayout
// resolve to it, per the contract documented in root renderpass_recorder.go.
type vkCommandRecorder struct {
	device      kgpu.Handle[kgpu.Device]
	queue       kgpu.QueueHandle
	pool        vk.CommandPool
	handle      vk.CommandBuffer
	open        passKind
	seq         uint64
	boundLayout kgpu.Handle[kgpu.PipelineLayoutTag]
}

// vkCommandBuffer is the finished, no-longer-recording sibling of
// vkCommandRecorder, returned by FinishCommandRecorder and submitted via
// QueueSubmit.
type vkCommandBuffer struct {
	device vk.Device
	pool   vk.CommandPool
	handle vk.CommandBuffer
}

func (a *VulkanApi) CreateCommandRecorder(h kgpu.Handle[kgpu.Device], opts kgpu.CommandRecorderOptions) (kgpu.Handle[kgpu.CommandRecorderTag], error) {
	dev := resolve[vkDevice, kgpu.Device](a.devices, h)
	if dev == nil {
		return kgpu.Handle[kgpu.CommandRecorderTag]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreateCommandRecorder: device does not resolve"}
	}
	if int(opts.QueueIndex) >= len(dev.queues) {
		return kgpu.Handle[kgpu.CommandRecorderTag]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreateCommandRecorder: queue index out of range"}
	}
	pool, err := a.commandPoolFor(dev, dev.queues[opts.QueueIndex].family)
	if err != nil {
		return kgpu.Handle[kgpu.CommandRecorderTag]{}, err
	}

	bufs := make([]vk.CommandBuffer, 1)
	ret := vk.AllocateCommandBuffers(dev.handle, &vk.CommandBufferAllocateInfo{
		SType: vk.StructureTypeCommandBufferAllocateInfo, CommandPool: pool, Level: vk.CommandBufferLevelPrimary, CommandBufferCount: 1,
	}, bufs)
	if err := checkResult(ret, "VulkanApi.CreateCommandRecorder"); err != nil {
		return kgpu.Handle[kgpu.CommandRecorderTag]{}, err
	}
	if ret := vk.BeginCommandBuffer(bufs[0], &vk.CommandBufferBeginInfo{SType: vk.StructureTypeCommandBufferBeginInfo}); checkResult(ret, "VulkanApi.CreateCommandRecorder: BeginCommandBuffer") != nil {
		err := checkResult(ret, "VulkanApi.CreateCommandRecorder: BeginCommandBuffer")
		vk.FreeCommandBuffers(dev.handle, pool, 1, bufs)
		return kgpu.Handle[kgpu.CommandRecorderTag]{}, err
	}

	return insert[vkCommandRecorder, kgpu.CommandRecorderTag](a.commandRecorders, vkCommandRecorder{
		device: h, queue: kgpu.QueueHandle{Device: h, Index: opts.QueueIndex}, pool: pool, handle: bufs[0],
	}), nil
}

// BeginRenderPass resolves each attachment's TextureView into the device's
// renderPassCache/framebufferCache (spec.md section 4.6) and records
// vkCmdBeginRenderPass. FramebufferWidth/Height default to the extent of the
// first attachment's backing texture when left zero.
func (a *VulkanApi) BeginRenderPass(crh kgpu.Handle[kgpu.CommandRecorderTag], opts kgpu.RenderPassOptions) (kgpu.RenderPassRecorderHandle, error) {
	cr := resolve[vkCommandRecorder, kgpu.CommandRecorderTag](a.commandRecorders, crh)
	if cr == nil {
		return kgpu.RenderPassRecorderHandle{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.BeginRenderPass: recorder does not resolve"}
	}
	if cr.open != passNone {
		return kgpu.RenderPassRecorderHandle{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.BeginRenderPass: a pass is already open"}
	}
	dev := resolve[vkDevice, kgpu.Device](a.devices, cr.device)
	if dev == nil {
		return kgpu.RenderPassRecorderHandle{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.BeginRenderPass: device does not resolve"}
	}

	colorFormats := make([]kgpu.Format, len(opts.ColorAttachments))
	viewHandles := make([]kgpu.Handle[kgpu.TextureViewTag], 0, len(opts.ColorAttachments)+1)
	nativeViews := make([]vk.ImageView, 0, cap(viewHandles))
	clearValues := make([]vk.ClearValue, 0, cap(viewHandles))
	width, height := opts.FramebufferWidth, opts.FramebufferHeight
	layers := opts.FramebufferLayers
	if layers == 0 {
		layers = 1
	}

	for i, ca := range opts.ColorAttachments {
		view := resolve[vkTextureView, kgpu.TextureViewTag](a.textureViews, ca.View)
		if view == nil {
			return kgpu.RenderPassRecorderHandle{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.BeginRenderPass: color attachment view does not resolve"}
		}
		colorFormats[i] = view.format
		viewHandles = append(viewHandles, ca.View)
		nativeViews = append(nativeViews, view.handle)
		clearValues = append(clearValues, vk.NewClearValue([]float32{ca.Clear.R, ca.Clear.G, ca.Clear.B, ca.Clear.A}))
		if width == 0 || height == 0 {
			if tex := resolve[vkTexture, kgpu.TextureTag](a.textures, view.texture); tex != nil {
				width, height = tex.extentW, tex.extentH
			}
		}
	}

	var depthFormat kgpu.Format
	if opts.DepthStencilAttachment != nil {
		d := opts.DepthStencilAttachment
		view := resolve[vkTextureView, kgpu.TextureViewTag](a.textureViews, d.View)
		if view == nil {
			return kgpu.RenderPassRecorderHandle{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.BeginRenderPass: depth attachment view does not resolve"}
		}
		depthFormat = view.format
		viewHandles = append(viewHandles, d.View)
		nativeViews = append(nativeViews, view.handle)
		clearValues = append(clearValues, vk.NewClearDepthStencil(d.Clear.Depth, d.Clear.Stencil))
		if width == 0 || height == 0 {
			if tex := resolve[vkTexture, kgpu.TextureTag](a.textures, view.texture); tex != nil {
				width, height = tex.extentW, tex.extentH
			}
		}
	}

	renderPass, err := dev.renderPasses.getOrCreate(opts, colorFormats, depthFormat)
	if err != nil {
		return kgpu.RenderPassRecorderHandle{}, err
	}
	framebuffer, err := dev.framebuffers.getOrCreate(renderPass, viewHandles, nativeViews, width, height, layers)
	if err != nil {
		return kgpu.RenderPassRecorderHandle{}, err
	}

	vk.CmdBeginRenderPass(cr.handle, &vk.RenderPassBeginInfo{
		SType:           vk.StructureTypeRenderPassBeginInfo,
		RenderPass:      renderPass,
		Framebuffer:     framebuffer,
		RenderArea:      vk.Rect2D{Extent: vk.Extent2D{Width: width, Height: height}},
		ClearValueCount: uint32(len(clearValues)),
		PClearValues:    clearValues,
	}, vk.SubpassContentsInline)

	cr.open = passRender
	cr.seq++
	cr.boundLayout = kgpu.Handle[kgpu.PipelineLayoutTag]{}
	return kgpu.RenderPassRecorderHandle{Recorder: crh, Seq: cr.seq}, nil
}

// BeginComputePass/BeginRayTracingPass record no native command of their
// own -- Vulkan dispatches and trace-rays calls are valid directly on a
// command buffer outside a render pass -- they only guard the "one open
// pass at a time" invariant and hand back a sequence-stamped handle.
func (a *VulkanApi) BeginComputePass(crh kgpu.Handle[kgpu.CommandRecorderTag], opts kgpu.ComputePassOptions) (kgpu.ComputePassRecorderHandle, error) {
	cr := resolve[vkCommandRecorder, kgpu.CommandRecorderTag](a.commandRecorders, crh)
	if cr == nil {
		return kgpu.ComputePassRecorderHandle{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.BeginComputePass: recorder does not resolve"}
	}
	if cr.open != passNone {
		return kgpu.ComputePassRecorderHandle{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.BeginComputePass: a pass is already open"}
	}
	cr.open = passCompute
	cr.seq++
	cr.boundLayout = kgpu.Handle[kgpu.PipelineLayoutTag]{}
	return kgpu.ComputePassRecorderHandle{Recorder: crh, Seq: cr.seq}, nil
}

func (a *VulkanApi) BeginRayTracingPass(crh kgpu.Handle[kgpu.CommandRecorderTag], opts kgpu.RayTracingPassOptions) (kgpu.RayTracingPassRecorderHandle, error) {
	cr := resolve[vkCommandRecorder, kgpu.CommandRecorderTag](a.commandRecorders, crh)
	if cr == nil {
		return kgpu.RayTracingPassRecorderHandle{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.BeginRayTracingPass: recorder does not resolve"}
	}
	if cr.open != passNone {
		return kgpu.RayTracingPassRecorderHandle{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.BeginRayTracingPass: a pass is already open"}
	}
	cr.open = passRayTracing
	cr.seq++
	cr.boundLayout = kgpu.Handle[kgpu.PipelineLayoutTag]{}
	return kgpu.RayTracingPassRecorderHandle{Recorder: crh, Seq: cr.seq}, nil
}

func (a *VulkanApi) FinishCommandRecorder(crh kgpu.Handle[kgpu.CommandRecorderTag]) (kgpu.Handle[kgpu.CommandBufferTag], error) {
	cr := resolve[vkCommandRecorder, kgpu.CommandRecorderTag](a.commandRecorders, crh)
	if cr == nil {
		return kgpu.Handle[kgpu.CommandBufferTag]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.FinishCommandRecorder: recorder does not resolve"}
	}
	if cr.open != passNone {
		return kgpu.Handle[kgpu.CommandBufferTag]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.FinishCommandRecorder: a pass is still open"}
	}
	if ret := vk.EndCommandBuffer(cr.handle); checkResult(ret, "VulkanApi.FinishCommandRecorder") != nil {
		return kgpu.Handle[kgpu.CommandBufferTag]{}, checkResult(ret, "VulkanApi.FinishCommandRecorder")
	}

	dev := resolve[vkDevice, kgpu.Device](a.devices, cr.device)
	var devHandle vk.Device
	if dev != nil {
		devHandle = dev.handle
	}
	cb := insert[vkCommandBuffer, kgpu.CommandBufferTag](a.commandBuffers, vkCommandBuffer{device: devHandle, pool: cr.pool, handle: cr.handle})
	remove[vkCommandRecorder, kgpu.CommandRecorderTag](a.commandRecorders, crh)
	return cb, nil
}

func (a *VulkanApi) DeleteCommandBuffer(h kgpu.Handle[kgpu.CommandBufferTag]) {
	cb := resolve[vkCommandBuffer, kgpu.CommandBufferTag](a.commandBuffers, h)
	if cb == nil {
		return
	}
	if cb.device != vk.NullHandle {
		vk.FreeCommandBuffers(cb.device, cb.pool, 1, []vk.CommandBuffer{cb.handle})
	}
	remove[vkCommandBuffer, kgpu.CommandBufferTag](a.commandBuffers, h)
}

// resolveRenderPass/resolveComputePass/resolveRayTracingPass validate a pass
// recorder handle against the owning vkCommandRecorder's pass-local
// sequence number, rejecting calls made on a handle from an already-ended
// pass (spec.md section 4.5/4.7).
func (a *VulkanApi) resolveRenderPass(h kgpu.RenderPassRecorderHandle) (*vkCommandRecorder, error) {
	cr := resolve[vkCommandRecorder, kgpu.CommandRecorderTag](a.commandRecorders, h.Recorder)
	if cr == nil || cr.open != passRender || cr.seq != h.Seq {
		return nil, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "vkcore: render pass recorder is stale or no longer open"}
	}
	return cr, nil
}

func (a *VulkanApi) resolveComputePass(h kgpu.ComputePassRecorderHandle) (*vkCommandRecorder, error) {
	cr := resolve[vkCommandRecorder, kgpu.CommandRecorderTag](a.commandRecorders, h.Recorder)
	if cr == nil || cr.open != passCompute || cr.seq != h.Seq {
		return nil, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "vkcore: compute pass recorder is stale or no longer open"}
	}
	return cr, nil
}

func (a *VulkanApi) resolveRayTracingPass(h kgpu.RayTracingPassRecorderHandle) (*vkCommandRecorder, error) {
	cr := resolve[vkCommandRecorder, kgpu.CommandRecorderTag](a.commandRecorders, h.Recorder)
	if cr == nil || cr.open != passRayTracing || cr.seq != h.Seq {
		return nil, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "vkcore: ray tracing pass recorder is stale or no longer open"}
	}
	return cr, nil
}

// resolvePipelineLayout returns layout if non-zero, otherwise the layout of
// the pipeline currently bound to cr, per the contract documented on root
// RenderPassRecorder.SetBindGroup.
func (a *VulkanApi) resolvePipelineLayout(cr *vkCommandRecorder, layout kgpu.Handle[kgpu.PipelineLayoutTag]) (*vkPipelineLayout, error) {
	if layout.IsValid() {
		if pl := resolve[vkPipelineLayout, kgpu.PipelineLayoutTag](a.pipelineLayouts, layout); pl != nil {
			return pl, nil
		}
		return nil, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "vkcore: pipeline layout does not resolve"}
	}
	if !cr.boundLayout.IsValid() {
		return nil, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "vkcore: no pipeline layout bound and none given"}
	}
	pl := resolve[vkPipelineLayout, kgpu.PipelineLayoutTag](a.pipelineLayouts, cr.boundLayout)
	if pl == nil {
		return nil, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "vkcore: bound pipeline layout does not resolve"}
	}
	return pl, nil
}

func (a *VulkanApi) CopyBufferToBuffer(crh kgpu.Handle[kgpu.CommandRecorderTag], opts kgpu.BufferCopy) error {
	cr := resolve[vkCommandRecorder, kgpu.CommandRecorderTag](a.commandRecorders, crh)
	src := resolve[vkBuffer, kgpu.BufferTag](a.buffers, opts.Src)
	dst := resolve[vkBuffer, kgpu.BufferTag](a.buffers, opts.Dst)
	if cr == nil || src == nil || dst == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CopyBufferToBuffer: recorder or buffer does not resolve"}
	}
	vk.CmdCopyBuffer(cr.handle, src.handle, dst.handle, 1, []vk.BufferCopy{{
		SrcOffset: vk.DeviceSize(opts.SrcOffset), DstOffset: vk.DeviceSize(opts.DstOffset), Size: vk.DeviceSize(opts.Size),
	}})
	return nil
}

func toVkSubresourceLayers(s kgpu.TextureSubresource) vk.ImageSubresourceLayers {
	return vk.ImageSubresourceLayers{
		AspectMask:     vk.ImageAspectFlags(toVkImageAspect(s.Aspect)),
		MipLevel:       s.MipLevel,
		BaseArrayLayer: s.BaseArrayLayer,
		LayerCount:     s.LayerCount,
	}
}

func toVkOffset3D(o kgpu.Offset3D) vk.Offset3D { return vk.Offset3D{X: o.X, Y: o.Y, Z: o.Z} }
func toVkExtent3D(e kgpu.Extent3D) vk.Extent3D {
	return vk.Extent3D{Width: e.Width, Height: e.Height, Depth: e.Depth}
}

func (a *VulkanApi) CopyBufferToTexture(crh kgpu.Handle[kgpu.CommandRecorderTag], opts kgpu.BufferTextureCopy) error {
	cr := resolve[vkCommandRecorder, kgpu.CommandRecorderTag](a.commandRecorders, crh)
	buf := resolve[vkBuffer, kgpu.BufferTag](a.buffers, opts.Buffer)
	tex := resolve[vkTexture, kgpu.TextureTag](a.textures, opts.Texture)
	if cr == nil || buf == nil || tex == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CopyBufferToTexture: recorder, buffer, or texture does not resolve"}
	}
	vk.CmdCopyBufferToImage(cr.handle, buf.handle, tex.image, toVkImageLayout(opts.TextureLayout), 1, []vk.BufferImageCopy{{
		BufferOffset:      vk.DeviceSize(opts.BufferOffset),
		BufferRowLength:   opts.BufferRowLength,
		BufferImageHeight: opts.BufferImageHeight,
		ImageSubresource:  toVkSubresourceLayers(opts.Subresource),
		ImageOffset:       toVkOffset3D(opts.TextureOffset),
		ImageExtent:       toVkExtent3D(opts.Extent),
	}})
	return nil
}

func (a *VulkanApi) CopyTextureToBuffer(crh kgpu.Handle[kgpu.CommandRecorderTag], opts kgpu.BufferTextureCopy) error {
	cr := resolve[vkCommandRecorder, kgpu.CommandRecorderTag](a.commandRecorders, crh)
	buf := resolve[vkBuffer, kgpu.BufferTag](a.buffers, opts.Buffer)
	tex := resolve[vkTexture, kgpu.TextureTag](a.textures, opts.Texture)
	if cr == nil || buf == nil || tex == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CopyTextureToBuffer: recorder, buffer, or texture does not resolve"}
	}
	vk.CmdCopyImageToBuffer(cr.handle, tex.image, toVkImageLayout(opts.TextureLayout), buf.handle, 1, []vk.BufferImageCopy{{
		BufferOffset:      vk.DeviceSize(opts.BufferOffset),
		BufferRowLength:   opts.BufferRowLength,
		BufferImageHeight: opts.BufferImageHeight,
		ImageSubresource:  toVkSubresourceLayers(opts.Subresource),
		ImageOffset:       toVkOffset3D(opts.TextureOffset),
		ImageExtent:       toVkExtent3D(opts.Extent),
	}})
	return nil
}

func (a *VulkanApi) CopyTextureToTexture(crh kgpu.Handle[kgpu.CommandRecorderTag], opts kgpu.TextureCopy) error {
	cr := resolve[vkCommandRecorder, kgpu.CommandRecorderTag](a.commandRecorders, crh)
	src := resolve[vkTexture, kgpu.TextureTag](a.textures, opts.Src)
	dst := resolve[vkTexture, kgpu.TextureTag](a.textures, opts.Dst)
	if cr == nil || src == nil || dst == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CopyTextureToTexture: recorder or texture does not resolve"}
	}
	vk.CmdCopyImage(cr.handle, src.image, toVkImageLayout(opts.SrcLayout), dst.image, toVkImageLayout(opts.DstLayout), 1, []vk.ImageCopy{{
		SrcSubresource: toVkSubresourceLayers(opts.SrcSubresource),
		SrcOffset:      toVkOffset3D(opts.SrcOffset),
		DstSubresource: toVkSubresourceLayers(opts.DstSubresource),
		DstOffset:      toVkOffset3D(opts.DstOffset),
		Extent:         toVkExtent3D(opts.Extent),
	}})
	return nil
}

func (a *VulkanApi) BlitTexture(crh kgpu.Handle[kgpu.CommandRecorderTag], opts kgpu.TextureBlit) error {
	cr := resolve[vkCommandRecorder, kgpu.CommandRecorderTag](a.commandRecorders, crh)
	src := resolve[vkTexture, kgpu.TextureTag](a.textures, opts.Src)
	dst := resolve[vkTexture, kgpu.TextureTag](a.textures, opts.Dst)
	if cr == nil || src == nil || dst == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.BlitTexture: recorder or texture does not resolve"}
	}
	vk.CmdBlitImage(cr.handle, src.image, toVkImageLayout(opts.SrcLayout), dst.image, toVkImageLayout(opts.DstLayout), 1, []vk.ImageBlit{{
		SrcSubresource: toVkSubresourceLayers(opts.SrcSubresource),
		SrcOffsets:     [2]vk.Offset3D{toVkOffset3D(opts.SrcOffsets[0]), toVkOffset3D(opts.SrcOffsets[1])},
		DstSubresource: toVkSubresourceLayers(opts.DstSubresource),
		DstOffsets:     [2]vk.Offset3D{toVkOffset3D(opts.DstOffsets[0]), toVkOffset3D(opts.DstOffsets[1])},
	}}, toVkFilter(opts.Filter))
	return nil
}

func (a *VulkanApi) ResolveTexture(crh kgpu.Handle[kgpu.CommandRecorderTag], opts kgpu.TextureResolve) error {
	cr := resolve[vkCommandRecorder, kgpu.CommandRecorderTag](a.commandRecorders, crh)
	src := resolve[vkTexture, kgpu.TextureTag](a.textures, opts.Src)
	dst := resolve[vkTexture, kgpu.TextureTag](a.textures, opts.Dst)
	if cr == nil || src == nil || dst == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.ResolveTexture: recorder or texture does not resolve"}
	}
	vk.CmdResolveImage(cr.handle, src.image, toVkImageLayout(opts.SrcLayout), dst.image, toVkImageLayout(opts.DstLayout), 1, []vk.ImageResolve{{
		SrcSubresource: toVkSubresourceLayers(opts.SrcSubresource),
		DstSubresource: toVkSubresourceLayers(opts.DstSubresource),
		Extent:         toVkExtent3D(opts.Extent),
	}})
	return nil
}

func (a *VulkanApi) MemoryBarrier(crh kgpu.Handle[kgpu.CommandRecorderTag], opts kgpu.MemoryBarrierOptions) error {
	cr := resolve[vkCommandRecorder, kgpu.CommandRecorderTag](a.commandRecorders, crh)
	if cr == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.MemoryBarrier: recorder does not resolve"}
	}
	vk.CmdPipelineBarrier(cr.handle, vk.PipelineStageFlags(opts.SrcStageMask), vk.PipelineStageFlags(opts.DstStageMask), 0,
		1, []vk.MemoryBarrier{{SType: vk.StructureTypeMemoryBarrier, SrcAccessMask: vk.AccessFlags(opts.SrcAccessMask), DstAccessMask: vk.AccessFlags(opts.DstAccessMask)}},
		0, nil, 0, nil)
	return nil
}

func (a *VulkanApi) BufferBarrier(crh kgpu.Handle[kgpu.CommandRecorderTag], opts kgpu.BufferBarrierOptions) error {
	cr := resolve[vkCommandRecorder, kgpu.CommandRecorderTag](a.commandRecorders, crh)
	buf := resolve[vkBuffer, kgpu.BufferTag](a.buffers, opts.Buffer)
	if cr == nil || buf == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.BufferBarrier: recorder or buffer does not resolve"}
	}
	size := opts.Size
	vkSize := vk.DeviceSize(size)
	if size == 0 {
		vkSize = vk.WholeSize
	}
	srcFamily, dstFamily := opts.SrcQueueFamily, opts.DstQueueFamily
	if srcFamily == 0 && dstFamily == 0 {
		srcFamily, dstFamily = vk.QueueFamilyIgnored, vk.QueueFamilyIgnored
	}
	vk.CmdPipelineBarrier(cr.handle, vk.PipelineStageFlags(opts.SrcStageMask), vk.PipelineStageFlags(opts.DstStageMask), 0,
		0, nil,
		1, []vk.BufferMemoryBarrier{{
			SType: vk.StructureTypeBufferMemoryBarrier, SrcAccessMask: vk.AccessFlags(opts.SrcAccessMask), DstAccessMask: vk.AccessFlags(opts.DstAccessMask),
			SrcQueueFamilyIndex: srcFamily, DstQueueFamilyIndex: dstFamily,
			Buffer: buf.handle, Offset: vk.DeviceSize(opts.Offset), Size: vkSize,
		}},
		0, nil)
	return nil
}

func (a *VulkanApi) ImageBarrier(crh kgpu.Handle[kgpu.CommandRecorderTag], opts kgpu.ImageBarrierOptions) error {
	cr := resolve[vkCommandRecorder, kgpu.CommandRecorderTag](a.commandRecorders, crh)
	tex := resolve[vkTexture, kgpu.TextureTag](a.textures, opts.Texture)
	if cr == nil || tex == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.ImageBarrier: recorder or texture does not resolve"}
	}
	srcFamily, dstFamily := opts.SrcQueueFamily, opts.DstQueueFamily
	if srcFamily == 0 && dstFamily == 0 {
		srcFamily, dstFamily = vk.QueueFamilyIgnored, vk.QueueFamilyIgnored
	}
	sub := opts.Subresource
	mipCount, layerCount := sub.LayerCount, sub.LayerCount
	if sub.MipLevel == 0 && mipCount == 0 {
		mipCount = tex.mipLevels
	}
	if layerCount == 0 {
		layerCount = tex.arrayLayers
	}
	vk.CmdPipelineBarrier(cr.handle, vk.PipelineStageFlags(opts.SrcStageMask), vk.PipelineStageFlags(opts.DstStageMask), 0,
		0, nil, 0, nil,
		1, []vk.ImageMemoryBarrier{{
			SType: vk.StructureTypeImageMemoryBarrier, SrcAccessMask: vk.AccessFlags(opts.SrcAccessMask), DstAccessMask: vk.AccessFlags(opts.DstAccessMask),
			OldLayout: toVkImageLayout(opts.OldLayout), NewLayout: toVkImageLayout(opts.NewLayout),
			SrcQueueFamilyIndex: srcFamily, DstQueueFamilyIndex: dstFamily, Image: tex.image,
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask: vk.ImageAspectFlags(toVkImageAspect(sub.Aspect)), BaseMipLevel: sub.MipLevel, LevelCount: mipCountOr1(mipCount),
				BaseArrayLayer: sub.BaseArrayLayer, LayerCount: layerCount,
			},
		}})
	return nil
}

func mipCountOr1(c uint32) uint32 {
	if c == 0 {
		return 1
	}
	return c
}

func (a *VulkanApi) BeginDebugLabel(crh kgpu.Handle[kgpu.CommandRecorderTag], name string, color [4]float32) {
	cr := resolve[vkCommandRecorder, kgpu.CommandRecorderTag](a.commandRecorders, crh)
	if cr == nil {
		return
	}
	vk.CmdDebugMarkerBegin(cr.handle, &vk.DebugMarkerMarkerInfo{
		SType: vk.StructureTypeDebugMarkerMarkerInfo, PMarkerName: name + "\x00", Color: color,
	})
}

func (a *VulkanApi) EndDebugLabel(crh kgpu.Handle[kgpu.CommandRecorderTag]) {
	cr := resolve[vkCommandRecorder, kgpu.CommandRecorderTag](a.commandRecorders, crh)
	if cr == nil {
		return
	}
	vk.CmdDebugMarkerEnd(cr.handle)
}
