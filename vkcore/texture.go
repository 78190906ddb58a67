package vkcore

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/kdgpu/kgpucore"
)

// vkTexture wraps a native VkImage plus its dedicated allocation.
// swapchainOwned images (created by CreateSwapchain) carry no memory
// allocation of their own and must never be destroyed by DeleteTexture
// directly (spec.md section 4.3); they are only removed from the pool by
// DeleteSwapchain.
type vkTexture struct {
	device         kgpu.Handle[kgpu.Device]
	image          vk.Image
	memory         vk.DeviceMemory
	format         kgpu.Format
	extentW, extentH, extentD uint32
	mipLevels      uint32
	arrayLayers    uint32
	samples        kgpu.SampleCount
	swapchainOwned bool
	externalHandleType kgpu.ExternalMemoryHandleType
}

// vkTextureView wraps a native VkImageView. format is the resolved view
// format (the texture's own format unless FormatOverride was set), kept
// so render-pass/framebuffer attachment matching doesn't need to chase
// back through the texture pool.
type vkTextureView struct {
	device  kgpu.Handle[kgpu.Device]
	texture kgpu.Handle[kgpu.TextureTag]
	handle  vk.ImageView
	format  kgpu.Format
}

func (a *VulkanApi) CreateTexture(h kgpu.Handle[kgpu.Device], opts kgpu.TextureOptions) (kgpu.Handle[kgpu.TextureTag], error) {
	dev := resolve[vkDevice, kgpu.Device](a.devices, h)
	if dev == nil {
		return kgpu.Handle[kgpu.TextureTag]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreateTexture: device does not resolve"}
	}
	ad := resolve[vkAdapter, kgpu.Adapter](a.adapters, dev.adapter)
	if ad == nil {
		return kgpu.Handle[kgpu.TextureTag]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreateTexture: adapter does not resolve"}
	}

	mipLevels := opts.MipLevels
	if mipLevels == 0 {
		mipLevels = 1
	}
	arrayLayers := opts.ArrayLayers
	if arrayLayers == 0 {
		arrayLayers = 1
	}
	tiling := vk.ImageTilingOptimal
	if opts.Tiling == kgpu.TilingLinear {
		tiling = vk.ImageTilingLinear
	}

	createInfo := &vk.ImageCreateInfo{
		SType:       vk.StructureTypeImageCreateInfo,
		ImageType:   toVkImageType(opts.Type),
		Format:      toVkFormat(opts.Format),
		Extent:      vk.Extent3D{Width: opts.ExtentW, Height: opts.ExtentH, Depth: maxu32(opts.ExtentD, 1)},
		MipLevels:   mipLevels,
		ArrayLayers: arrayLayers,
		Samples:     toVkSampleCount(opts.Samples),
		Tiling:      tiling,
		Usage:       vk.ImageUsageFlags(toVkImageUsage(opts.Usage)),
		SharingMode: vk.SharingModeExclusive,
		InitialLayout: toVkImageLayout(opts.InitialLayout),
	}
	if opts.Type == kgpu.TextureTypeCube {
		createInfo.Flags = vk.ImageCreateFlags(vk.ImageCreateCubeCompatibleBit)
	}
	var exportInfo vk.ExternalMemoryImageCreateInfo
	if opts.ExternalMemoryHandleType != kgpu.ExternalMemoryHandleNone {
		exportInfo = vk.ExternalMemoryImageCreateInfo{
			SType:       vk.StructureTypeExternalMemoryImageCreateInfo,
			HandleTypes: vk.ExternalMemoryHandleTypeFlags(externalMemoryHandleTypeFlag(opts.ExternalMemoryHandleType)),
		}
		createInfo.PNext = unsafeNext(&exportInfo)
	}

	var img vk.Image
	ret := vk.CreateImage(dev.handle, createInfo, nil, &img)
	if err := checkResult(ret, "VulkanApi.CreateTexture"); err != nil {
		return kgpu.Handle[kgpu.TextureTag]{}, err
	}

	var reqs vk.MemoryRequirements
	vk.GetImageMemoryRequirements(dev.handle, img, &reqs)
	mem, err := allocateDeviceMemory(dev.handle, ad.memProps, reqs, toVkMemoryProperty(opts.MemoryUsage))
	if err != nil {
		vk.DestroyImage(dev.handle, img, nil)
		return kgpu.Handle[kgpu.TextureTag]{}, err
	}
	if ret := vk.BindImageMemory(dev.handle, img, mem, 0); checkResult(ret, "VulkanApi.CreateTexture: BindImageMemory") != nil {
		vk.FreeMemory(dev.handle, mem, nil)
		vk.DestroyImage(dev.handle, img, nil)
		return kgpu.Handle[kgpu.TextureTag]{}, checkResult(ret, "VulkanApi.CreateTexture: BindImageMemory")
	}

	tex := vkTexture{
		device: h, image: img, memory: mem, format: opts.Format,
		extentW: opts.ExtentW, extentH: opts.ExtentH, extentD: maxu32(opts.ExtentD, 1),
		mipLevels: mipLevels, arrayLayers: arrayLayers, samples: opts.Samples,
		externalHandleType: opts.ExternalMemoryHandleType,
	}
	return insert[vkTexture, kgpu.TextureTag](a.textures, tex), nil
}

func maxu32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

func (a *VulkanApi) DeleteTexture(h kgpu.Handle[kgpu.TextureTag]) {
	t := resolve[vkTexture, kgpu.TextureTag](a.textures, h)
	if t == nil || t.swapchainOwned {
		return
	}
	dev := resolve[vkDevice, kgpu.Device](a.devices, t.device)
	if dev != nil {
		vk.DestroyImage(dev.handle, t.image, nil)
		vk.FreeMemory(dev.handle, t.memory, nil)
	}
	remove[vkTexture, kgpu.TextureTag](a.textures, h)
}

func (a *VulkanApi) CreateTextureView(h kgpu.Handle[kgpu.Device], texHandle kgpu.Handle[kgpu.TextureTag], opts kgpu.TextureViewOptions) (kgpu.Handle[kgpu.TextureViewTag], error) {
	dev := resolve[vkDevice, kgpu.Device](a.devices, h)
	tex := resolve[vkTexture, kgpu.TextureTag](a.textures, texHandle)
	if dev == nil || tex == nil {
		return kgpu.Handle[kgpu.TextureViewTag]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreateTextureView: device or texture does not resolve"}
	}

	format := tex.format
	if opts.FormatOverride != kgpu.FormatUndefined {
		format = opts.FormatOverride
	}
	aspects := opts.Aspects
	if aspects == 0 {
		if isDepthFormat(format) {
			aspects = kgpu.ImageAspectDepth
			if hasStencil(format) {
				aspects |= kgpu.ImageAspectStencil
			}
		} else {
			aspects = kgpu.ImageAspectColor
		}
	}
	mipCount := opts.MipLevelCount
	if mipCount == 0 {
		mipCount = tex.mipLevels
	}
	layerCount := opts.ArrayLayerCount
	if layerCount == 0 {
		layerCount = tex.arrayLayers
	}

	var view vk.ImageView
	ret := vk.CreateImageView(dev.handle, &vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    tex.image,
		ViewType: toVkImageViewType(opts.ViewType),
		Format:   toVkFormat(format),
		Components: vk.ComponentMapping{
			R: toVkComponentSwizzle(opts.Swizzle.R),
			G: toVkComponentSwizzle(opts.Swizzle.G),
			B: toVkComponentSwizzle(opts.Swizzle.B),
			A: toVkComponentSwizzle(opts.Swizzle.A),
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     vk.ImageAspectFlags(toVkImageAspect(aspects)),
			BaseMipLevel:   opts.BaseMipLevel,
			LevelCount:     mipCount,
			BaseArrayLayer: opts.BaseArrayLayer,
			LayerCount:     layerCount,
		},
	}, nil, &view)
	if err := checkResult(ret, "VulkanApi.CreateTextureView"); err != nil {
		return kgpu.Handle[kgpu.TextureViewTag]{}, err
	}

	return insert[vkTextureView, kgpu.TextureViewTag](a.textureViews, vkTextureView{device: h, texture: texHandle, handle: view, format: format}), nil
}

func (a *VulkanApi) DeleteTextureView(h kgpu.Handle[kgpu.TextureViewTag]) {
	v := resolve[vkTextureView, kgpu.TextureViewTag](a.textureViews, h)
	if v == nil {
		return
	}
	dev := resolve[vkDevice, kgpu.Device](a.devices, v.device)
	if dev != nil {
		dev.framebuffers.evictView(h)
		vk.DestroyImageView(dev.handle, v.handle, nil)
	}
	remove[vkTextureView, kgpu.TextureViewTag](a.textureViews, h)
}

// GenerateMipMaps/HostCopyTexture/TransitionHostLayout implement
// kgpu.MipmapGenerator (spec.md section 4.8). GenerateMipMaps records a
// one-shot command buffer that blits each mip level from the one above it
// and waits for queue idle, the straightforward single-shot variant of
// the blit loop every Vulkan mipmap-generation tutorial (and this pack's
// vulkan-go-asche image.go transition helpers) implements.
func (a *VulkanApi) GenerateMipMaps(h kgpu.Handle[kgpu.Device], queue kgpu.QueueHandle, texHandle kgpu.Handle[kgpu.TextureTag], initialLayout kgpu.ImageLayout) error {
	dev := resolve[vkDevice, kgpu.Device](a.devices, h)
	tex := resolve[vkTexture, kgpu.TextureTag](a.textures, texHandle)
	if dev == nil || tex == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.GenerateMipMaps: device or texture does not resolve"}
	}
	if tex.mipLevels < 2 {
		return nil
	}

	pool, err := a.commandPoolFor(dev, dev.queues[queue.Index].family)
	if err != nil {
		return err
	}
	cmd, err := allocateOneShotCommandBuffer(dev.handle, pool)
	if err != nil {
		return err
	}
	defer vk.FreeCommandBuffers(dev.handle, pool, 1, []vk.CommandBuffer{cmd})

	barrier := vk.ImageMemoryBarrier{
		SType:               vk.StructureTypeImageMemoryBarrier,
		Image:               tex.image,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		SubresourceRange:    vk.ImageSubresourceRange{AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit), LevelCount: 1, LayerCount: tex.arrayLayers},
	}

	w, hh := int32(tex.extentW), int32(tex.extentH)
	for level := uint32(1); level < tex.mipLevels; level++ {
		barrier.SubresourceRange.BaseMipLevel = level - 1
		barrier.OldLayout = toVkImageLayout(initialLayout)
		if level > 1 {
			barrier.OldLayout = vk.ImageLayoutTransferDstOptimal
		}
		barrier.NewLayout = vk.ImageLayoutTransferSrcOptimal
		barrier.SrcAccessMask = vk.AccessFlags(vk.AccessTransferWriteBit)
		barrier.DstAccessMask = vk.AccessFlags(vk.AccessTransferReadBit)
		vk.CmdPipelineBarrier(cmd, vk.PipelineStageFlags(vk.PipelineStageTransferBit), vk.PipelineStageFlags(vk.PipelineStageTransferBit), 0, 0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{barrier})

		nextW, nextH := w, hh
		if nextW > 1 {
			nextW /= 2
		}
		if nextH > 1 {
			nextH /= 2
		}
		vk.CmdBlitImage(cmd, tex.image, vk.ImageLayoutTransferSrcOptimal, tex.image, vk.ImageLayoutTransferDstOptimal, 1, []vk.ImageBlit{{
			SrcSubresource: vk.ImageSubresourceLayers{AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit), MipLevel: level - 1, LayerCount: tex.arrayLayers},
			SrcOffsets:     [2]vk.Offset3D{{}, {X: w, Y: hh, Z: 1}},
			DstSubresource: vk.ImageSubresourceLayers{AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit), MipLevel: level, LayerCount: tex.arrayLayers},
			DstOffsets:     [2]vk.Offset3D{{}, {X: nextW, Y: nextH, Z: 1}},
		}}, vk.FilterLinear)

		barrier.OldLayout = vk.ImageLayoutTransferSrcOptimal
		barrier.NewLayout = vk.ImageLayoutShaderReadOnlyOptimal
		barrier.SrcAccessMask = vk.AccessFlags(vk.AccessTransferReadBit)
		barrier.DstAccessMask = vk.AccessFlags(vk.AccessShaderReadBit)
		vk.CmdPipelineBarrier(cmd, vk.PipelineStageFlags(vk.PipelineStageTransferBit), vk.PipelineStageFlags(vk.PipelineStageFragmentShaderBit), 0, 0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{barrier})

		w, hh = nextW, nextH
	}

	barrier.SubresourceRange.BaseMipLevel = tex.mipLevels - 1
	barrier.OldLayout = vk.ImageLayoutTransferDstOptimal
	barrier.NewLayout = vk.ImageLayoutShaderReadOnlyOptimal
	barrier.SrcAccessMask = vk.AccessFlags(vk.AccessTransferWriteBit)
	barrier.DstAccessMask = vk.AccessFlags(vk.AccessShaderReadBit)
	vk.CmdPipelineBarrier(cmd, vk.PipelineStageFlags(vk.PipelineStageTransferBit), vk.PipelineStageFlags(vk.PipelineStageFragmentShaderBit), 0, 0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{barrier})

	return submitOneShotCommandBuffer(dev, queue, cmd)
}

// HostCopyTexture uploads through a staging buffer copy recorded on a
// one-shot command buffer; VK_EXT_host_image_copy is not used.
func (a *VulkanApi) HostCopyTexture(h kgpu.Handle[kgpu.Device], texHandle kgpu.Handle[kgpu.TextureTag], data []byte, subresource kgpu.ImageAspect) error {
	dev := resolve[vkDevice, kgpu.Device](a.devices, h)
	tex := resolve[vkTexture, kgpu.TextureTag](a.textures, texHandle)
	if dev == nil || tex == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.HostCopyTexture: device or texture does not resolve"}
	}

	stagingHandle, err := a.CreateBuffer(h, kgpu.BufferOptions{Size: uint64(len(data)), Usage: kgpu.BufferUsageTransferSrc, MemoryUsage: kgpu.MemoryUsageCpuToGpu})
	if err != nil {
		return err
	}
	defer a.DeleteBuffer(stagingHandle)
	mapped, err := a.MapBuffer(stagingHandle)
	if err != nil {
		return err
	}
	copy(mapped, data)
	if err := a.FlushBuffer(stagingHandle); err != nil {
		return err
	}
	stagingBuf := resolve[vkBuffer, kgpu.BufferTag](a.buffers, stagingHandle)

	queues := a.DeviceQueues(h)
	if len(queues) == 0 {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.HostCopyTexture: device has no queues"}
	}
	pool, err := a.commandPoolFor(dev, dev.queues[queues[0].Index].family)
	if err != nil {
		return err
	}
	cmd, err := allocateOneShotCommandBuffer(dev.handle, pool)
	if err != nil {
		return err
	}
	defer vk.FreeCommandBuffers(dev.handle, pool, 1, []vk.CommandBuffer{cmd})

	aspectMask := vk.ImageAspectFlags(toVkImageAspect(subresource))
	transition(cmd, tex.image, aspectMask, vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal, tex.mipLevels, tex.arrayLayers)
	vk.CmdCopyBufferToImage(cmd, stagingBuf.handle, tex.image, vk.ImageLayoutTransferDstOptimal, 1, []vk.BufferImageCopy{{
		ImageSubresource: vk.ImageSubresourceLayers{AspectMask: aspectMask, LayerCount: tex.arrayLayers},
		ImageExtent:      vk.Extent3D{Width: tex.extentW, Height: tex.extentH, Depth: tex.extentD},
	}})
	transition(cmd, tex.image, aspectMask, vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutShaderReadOnlyOptimal, tex.mipLevels, tex.arrayLayers)

	return submitOneShotCommandBuffer(dev, queues[0], cmd)
}

func (a *VulkanApi) TransitionHostLayout(h kgpu.Handle[kgpu.Device], texHandle kgpu.Handle[kgpu.TextureTag], newLayout kgpu.ImageLayout) error {
	dev := resolve[vkDevice, kgpu.Device](a.devices, h)
	tex := resolve[vkTexture, kgpu.TextureTag](a.textures, texHandle)
	if dev == nil || tex == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.TransitionHostLayout: device or texture does not resolve"}
	}
	queues := a.DeviceQueues(h)
	if len(queues) == 0 {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.TransitionHostLayout: device has no queues"}
	}
	pool, err := a.commandPoolFor(dev, dev.queues[queues[0].Index].family)
	if err != nil {
		return err
	}
	cmd, err := allocateOneShotCommandBuffer(dev.handle, pool)
	if err != nil {
		return err
	}
	defer vk.FreeCommandBuffers(dev.handle, pool, 1, []vk.CommandBuffer{cmd})

	aspect := vk.ImageAspectFlags(vk.ImageAspectColorBit)
	if isDepthFormat(tex.format) {
		aspect = vk.ImageAspectFlags(vk.ImageAspectDepthBit)
		if hasStencil(tex.format) {
			aspect |= vk.ImageAspectFlags(vk.ImageAspectStencilBit)
		}
	}
	transition(cmd, tex.image, aspect, vk.ImageLayoutUndefined, toVkImageLayout(newLayout), tex.mipLevels, tex.arrayLayers)
	return submitOneShotCommandBuffer(dev, queues[0], cmd)
}

func transition(cmd vk.CommandBuffer, image vk.Image, aspect vk.ImageAspectFlags, oldLayout, newLayout vk.ImageLayout, mipLevels, layers uint32) {
	vk.CmdPipelineBarrier(cmd, vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit), vk.PipelineStageFlags(vk.PipelineStageBottomOfPipeBit), 0, 0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{{
		SType:               vk.StructureTypeImageMemoryBarrier,
		OldLayout:           oldLayout,
		NewLayout:           newLayout,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               image,
		SubresourceRange:    vk.ImageSubresourceRange{AspectMask: aspect, LevelCount: mipLevels, LayerCount: layers},
	}})
}

func allocateOneShotCommandBuffer(dev vk.Device, pool vk.CommandPool) (vk.CommandBuffer, error) {
	bufs := make([]vk.CommandBuffer, 1)
	ret := vk.AllocateCommandBuffers(dev, &vk.CommandBufferAllocateInfo{
		SType: vk.StructureTypeCommandBufferAllocateInfo, CommandPool: pool, Level: vk.CommandBufferLevelPrimary, CommandBufferCount: 1,
	}, bufs)
	if err := checkResult(ret, "allocateOneShotCommandBuffer"); err != nil {
		return nil, err
	}
	ret = vk.BeginCommandBuffer(bufs[0], &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo, Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	})
	if err := checkResult(ret, "allocateOneShotCommandBuffer: BeginCommandBuffer"); err != nil {
		return nil, err
	}
	return bufs[0], nil
}

func submitOneShotCommandBuffer(dev *vkDevice, q kgpu.QueueHandle, cmd vk.CommandBuffer) error {
	if ret := vk.EndCommandBuffer(cmd); checkResult(ret, "submitOneShotCommandBuffer: EndCommandBuffer") != nil {
		return checkResult(ret, "submitOneShotCommandBuffer: EndCommandBuffer")
	}
	queue := dev.queues[q.Index].queue
	ret := vk.QueueSubmit(queue, 1, []vk.SubmitInfo{{SType: vk.StructureTypeSubmitInfo, CommandBufferCount: 1, PCommandBuffers: []vk.CommandBuffer{cmd}}}, vk.NullFence)
	if err := checkResult(ret, "submitOneShotCommandBuffer: QueueSubmit"); err != nil {
		return err
	}
	return checkResult(vk.QueueWaitIdle(queue), "submitOneShotCommandBuffer: QueueWaitIdle")
}
