package vkcore

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/kdgpu/kgpucore"
)

// vkSwapchain wraps a native VkSwapchainKHR plus its owned image handles,
// grounded on the teacher's swapchain.go CoreSwapchain: surface
// capability query, format/present-mode/transform/composite-alpha
// selection, and the desired-image-count clamp against
// Min/MaxImageCount.
type vkSwapchain struct {
	device  kgpu.Handle[kgpu.Device]
	surface kgpu.Handle[kgpu.Surface]
	handle  vk.Swapchain
	format  kgpu.Format
	extentW uint32
	extentH uint32
	textures []kgpu.Handle[kgpu.TextureTag]
}

func (a *VulkanApi) CreateSwapchain(h kgpu.Handle[kgpu.Device], opts kgpu.SwapchainOptions) (kgpu.Handle[kgpu.Swapchain], error) {
	dev := resolve[vkDevice, kgpu.Device](a.devices, h)
	if dev == nil {
		return kgpu.Handle[kgpu.Swapchain]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreateSwapchain: device does not resolve"}
	}
	sf := resolve[vkSurface, kgpu.Surface](a.surfaces, opts.Surface)
	if sf == nil {
		return kgpu.Handle[kgpu.Swapchain]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreateSwapchain: surface does not resolve"}
	}

	var caps vk.SurfaceCapabilities
	ret := vk.GetPhysicalDeviceSurfaceCapabilities(dev.physDevice, sf.handle, &caps)
	if err := checkResult(ret, "VulkanApi.CreateSwapchain: GetPhysicalDeviceSurfaceCapabilities"); err != nil {
		return kgpu.Handle[kgpu.Swapchain]{}, err
	}
	caps.Deref()
	caps.CurrentExtent.Deref()

	width, height := opts.ImageExtentW, opts.ImageExtentH
	if caps.CurrentExtent.Width != vk.MaxUint32 {
		width = caps.CurrentExtent.Width
		height = caps.CurrentExtent.Height
	}

	desired := opts.MinImageCount
	if desired == 0 {
		desired = caps.MinImageCount + 1
	}
	if caps.MaxImageCount > 0 && desired > caps.MaxImageCount {
		desired = caps.MaxImageCount
	}
	if desired < caps.MinImageCount {
		desired = caps.MinImageCount
	}

	preTransform := caps.CurrentTransform
	if vk.SurfaceTransformFlagBits(caps.SupportedTransforms)&vk.SurfaceTransformIdentityBit != 0 {
		preTransform = vk.SurfaceTransformIdentityBit
	}

	compositeAlpha := vk.CompositeAlphaOpaqueBit
	for _, candidate := range []vk.CompositeAlphaFlagBits{
		vk.CompositeAlphaOpaqueBit, vk.CompositeAlphaPreMultipliedBit,
		vk.CompositeAlphaPostMultipliedBit, vk.CompositeAlphaInheritBit,
	} {
		if caps.SupportedCompositeAlpha&vk.CompositeAlphaFlags(candidate) != 0 {
			compositeAlpha = candidate
			break
		}
	}

	layers := opts.ImageLayers
	if layers == 0 {
		layers = 1
	}

	var oldSwapchain vk.Swapchain
	if old := resolve[vkSwapchain, kgpu.Swapchain](a.swapchains, opts.OldSwapchain); old != nil {
		oldSwapchain = old.handle
	}

	vkFormat := toVkFormat(opts.Format)
	var handle vk.Swapchain
	ret = vk.CreateSwapchain(dev.handle, &vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          sf.handle,
		MinImageCount:    desired,
		ImageFormat:      vkFormat,
		ImageColorSpace:  vk.ColorSpace(opts.ColorSpace),
		ImageExtent:      vk.Extent2D{Width: width, Height: height},
		ImageArrayLayers: layers,
		ImageUsage:       vk.ImageUsageFlags(toVkImageUsage(opts.Usage) | vk.ImageUsageColorAttachmentBit),
		ImageSharingMode: vk.SharingModeExclusive,
		PreTransform:     preTransform,
		CompositeAlpha:   compositeAlpha,
		PresentMode:      toVkPresentMode(opts.PresentMode),
		Clipped:          vk.True,
		OldSwapchain:     oldSwapchain,
	}, nil, &handle)
	if err := checkResult(ret, "VulkanApi.CreateSwapchain"); err != nil {
		return kgpu.Handle[kgpu.Swapchain]{}, err
	}
	if oldSwapchain != vk.NullSwapchain {
		vk.DestroySwapchain(dev.handle, oldSwapchain, nil)
	}

	var imageCount uint32
	vk.GetSwapchainImages(dev.handle, handle, &imageCount, nil)
	images := make([]vk.Image, imageCount)
	vk.GetSwapchainImages(dev.handle, handle, &imageCount, images)

	sc := vkSwapchain{device: h, surface: opts.Surface, handle: handle, format: opts.Format, extentW: width, extentH: height}
	for _, img := range images {
		th := insert[vkTexture, kgpu.TextureTag](a.textures, vkTexture{
			device: h, image: img, format: opts.Format,
			extentW: width, extentH: height, extentD: 1,
			mipLevels: 1, arrayLayers: layers, samples: kgpu.SampleCount1,
			swapchainOwned: true,
		})
		sc.textures = append(sc.textures, th)
	}

	return insert[vkSwapchain, kgpu.Swapchain](a.swapchains, sc), nil
}

func (a *VulkanApi) DeleteSwapchain(h kgpu.Handle[kgpu.Swapchain]) {
	sc := resolve[vkSwapchain, kgpu.Swapchain](a.swapchains, h)
	if sc == nil {
		return
	}
	dev := resolve[vkDevice, kgpu.Device](a.devices, sc.device)
	for _, th := range sc.textures {
		remove[vkTexture, kgpu.TextureTag](a.textures, th)
	}
	if dev != nil {
		vk.DestroySwapchain(dev.handle, sc.handle, nil)
	}
	remove[vkSwapchain, kgpu.Swapchain](a.swapchains, h)
}

// SwapchainTextures returns the swapchain-owned images, marked
// swapchainOwned so DeleteTexture called on them directly (should a
// caller bypass TextureFrontend.nonOwning) is a no-op (spec.md section
// 4.3: "the wrappers must never attempt to free these").
func (a *VulkanApi) SwapchainTextures(h kgpu.Handle[kgpu.Swapchain]) []kgpu.Handle[kgpu.TextureTag] {
	sc := resolve[vkSwapchain, kgpu.Swapchain](a.swapchains, h)
	if sc == nil {
		return nil
	}
	out := make([]kgpu.Handle[kgpu.TextureTag], len(sc.textures))
	copy(out, sc.textures)
	return out
}

// AcquireNextImage blocks with an indefinite timeout per spec.md section
// 4.3/5.
func (a *VulkanApi) AcquireNextImage(h kgpu.Handle[kgpu.Swapchain], signal kgpu.Handle[kgpu.GpuSemaphoreTag]) (uint32, kgpu.AcquireImageResult) {
	sc := resolve[vkSwapchain, kgpu.Swapchain](a.swapchains, h)
	if sc == nil {
		return 0, kgpu.AcquireUnknown
	}
	dev := resolve[vkDevice, kgpu.Device](a.devices, sc.device)
	if dev == nil {
		return 0, kgpu.AcquireUnknown
	}
	var sem vk.Semaphore
	if s := resolve[vkSemaphore, kgpu.GpuSemaphoreTag](a.semaphores, signal); s != nil {
		sem = s.handle
	}
	var index uint32
	ret := vk.AcquireNextImage(dev.handle, sc.handle, vk.MaxUint64, sem, vk.NullFence, &index)
	switch ret {
	case vk.Success:
		return index, kgpu.AcquireSuccess
	case vk.Suboptimal:
		return index, kgpu.AcquireSubOptimal
	case vk.NotReady:
		return index, kgpu.AcquireNotReady
	case vk.ErrorOutOfDateKhr:
		return index, kgpu.AcquireOutOfDate
	case vk.ErrorSurfaceLostKhr:
		return index, kgpu.AcquireSurfaceLost
	case vk.ErrorOutOfHostMemory, vk.ErrorOutOfDeviceMemory:
		return index, kgpu.AcquireOutOfMemory
	case vk.ErrorDeviceLost:
		return index, kgpu.AcquireDeviceLost
	case vk.ErrorValidationFailedExt:
		return index, kgpu.AcquireValidationFailed
	default:
		return index, kgpu.AcquireUnknown
	}
}
