package vkcore

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/kdgpu/kgpucore"
)

// CreateDevice materializes queue create-infos from the requests (one
// queue of family 0 if none given), creates the logical device, pulls the
// requested queues, and sets up the per-queue-family command pool
// lazily on first use. Grounded on the teacher's queue.go
// CoreQueue.GetCreateInfos/CreateQueues and core.go's single-device flow.
func (a *VulkanApi) CreateDevice(h kgpu.Handle[kgpu.Adapter], opts kgpu.DeviceOptions) (kgpu.Handle[kgpu.Device], error) {
	ad := resolve[vkAdapter, kgpu.Adapter](a.adapters, h)
	if ad == nil {
		return kgpu.Handle[kgpu.Device]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreateDevice: adapter does not resolve"}
	}

	requests := opts.QueueRequests
	if len(requests) == 0 {
		requests = []kgpu.QueueRequest{{QueueTypeIndex: 0, Count: 1, Priorities: []float32{1.0}}}
	}

	createInfos := make([]vk.DeviceQueueCreateInfo, 0, len(requests))
	for _, r := range requests {
		priorities := r.Priorities
		if len(priorities) == 0 {
			priorities = make([]float32, r.Count)
			for i := range priorities {
				priorities[i] = 1.0
			}
		}
		createInfos = append(createInfos, vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: r.QueueTypeIndex,
			QueueCount:       r.Count,
			PQueuePriorities: priorities,
		})
	}

	extensions := safeStrings(opts.Extensions)
	var deviceHandle vk.Device
	ret := vk.CreateDevice(ad.physDevice, &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(createInfos)),
		PQueueCreateInfos:       createInfos,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
	}, nil, &deviceHandle)
	if err := checkResult(ret, "VulkanApi.CreateDevice"); err != nil {
		return kgpu.Handle[kgpu.Device]{}, err
	}

	dev := vkDevice{
		adapter:      h,
		physDevice:   ad.physDevice,
		handle:       deviceHandle,
		commandPools: make(map[uint32]vk.CommandPool),
		renderPasses: newRenderPassCache(deviceHandle),
		framebuffers: newFramebufferCache(deviceHandle),
	}
	for _, r := range requests {
		count := r.Count
		if count == 0 {
			count = 1
		}
		for i := uint32(0); i < count; i++ {
			var q vk.Queue
			vk.GetDeviceQueue(deviceHandle, r.QueueTypeIndex, i, &q)
			dev.queues = append(dev.queues, vkQueueEntry{family: r.QueueTypeIndex, queue: q})
		}
	}

	return insert[vkDevice, kgpu.Device](a.devices, dev), nil
}

func (a *VulkanApi) DeleteDevice(h kgpu.Handle[kgpu.Device]) {
	dev := resolve[vkDevice, kgpu.Device](a.devices, h)
	if dev == nil {
		return
	}
	for _, pool := range dev.commandPools {
		vk.DestroyCommandPool(dev.handle, pool, nil)
	}
	if dev.timestampPool != vk.NullQueryPool {
		vk.DestroyQueryPool(dev.handle, dev.timestampPool, nil)
	}
	dev.renderPasses.destroyAll()
	dev.framebuffers.destroyAll()
	vk.DestroyDevice(dev.handle, nil)
	remove[vkDevice, kgpu.Device](a.devices, h)
}

// DeviceQueues returns the materialized queues (spec.md section 4.2).
func (a *VulkanApi) DeviceQueues(h kgpu.Handle[kgpu.Device]) []kgpu.QueueHandle {
	dev := resolve[vkDevice, kgpu.Device](a.devices, h)
	if dev == nil {
		return nil
	}
	out := make([]kgpu.QueueHandle, len(dev.queues))
	for i := range dev.queues {
		out[i] = kgpu.QueueHandle{Device: h, Index: uint32(i)}
	}
	return out
}

func (a *VulkanApi) DeviceWaitIdle(h kgpu.Handle[kgpu.Device]) error {
	dev := resolve[vkDevice, kgpu.Device](a.devices, h)
	if dev == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.DeviceWaitIdle"}
	}
	return checkResult(vk.DeviceWaitIdle(dev.handle), "VulkanApi.DeviceWaitIdle")
}

// commandPoolFor returns (creating lazily if needed) the command pool for
// the given queue family, per spec.md section 4.2 point 5.
func (a *VulkanApi) commandPoolFor(dev *vkDevice, family uint32) (vk.CommandPool, error) {
	if pool, ok := dev.commandPools[family]; ok {
		return pool, nil
	}
	var pool vk.CommandPool
	ret := vk.CreateCommandPool(dev.handle, &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
		QueueFamilyIndex: family,
	}, nil, &pool)
	if err := checkResult(ret, "VulkanApi.commandPoolFor"); err != nil {
		return vk.NullCommandPool, err
	}
	dev.commandPools[family] = pool
	return pool, nil
}

func (a *VulkanApi) QueueWaitIdle(q kgpu.QueueHandle) error {
	dev := resolve[vkDevice, kgpu.Device](a.devices, q.Device)
	if dev == nil || int(q.Index) >= len(dev.queues) {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.QueueWaitIdle"}
	}
	return checkResult(vk.QueueWaitIdle(dev.queues[q.Index].queue), "VulkanApi.QueueWaitIdle")
}

// QueueSubmit mirrors spec.md section 4.2's SubmitOptions: ordered
// command buffers, wait semaphores (wait stage hard-coded to TopOfPipe
// per the Open Question resolved in DESIGN.md), signal semaphores, an
// optional signal fence.
func (a *VulkanApi) QueueSubmit(q kgpu.QueueHandle, opts kgpu.SubmitOptions) error {
	dev := resolve[vkDevice, kgpu.Device](a.devices, q.Device)
	if dev == nil || int(q.Index) >= len(dev.queues) {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.QueueSubmit"}
	}

	cmdBufs := make([]vk.CommandBuffer, 0, len(opts.CommandBuffers))
	for _, ch := range opts.CommandBuffers {
		cb := resolve[vkCommandBuffer, kgpu.CommandBufferTag](a.commandBuffers, ch)
		if cb == nil {
			return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.QueueSubmit: command buffer does not resolve"}
		}
		cmdBufs = append(cmdBufs, cb.handle)
	}

	waitSems := make([]vk.Semaphore, 0, len(opts.WaitSemaphores))
	waitStages := make([]vk.PipelineStageFlags, 0, len(opts.WaitSemaphores))
	for _, sh := range opts.WaitSemaphores {
		s := resolve[vkSemaphore, kgpu.GpuSemaphoreTag](a.semaphores, sh)
		if s == nil {
			return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.QueueSubmit: wait semaphore does not resolve"}
		}
		waitSems = append(waitSems, s.handle)
		waitStages = append(waitStages, vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit))
	}

	signalSems := make([]vk.Semaphore, 0, len(opts.SignalSemaphores))
	for _, sh := range opts.SignalSemaphores {
		s := resolve[vkSemaphore, kgpu.GpuSemaphoreTag](a.semaphores, sh)
		if s == nil {
			return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.QueueSubmit: signal semaphore does not resolve"}
		}
		signalSems = append(signalSems, s.handle)
	}

	var fenceHandle vk.Fence
	if opts.SignalFence.IsValid() {
		f := resolve[vkFence, kgpu.FenceTag](a.fences, opts.SignalFence)
		if f == nil {
			return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.QueueSubmit: signal fence does not resolve"}
		}
		fenceHandle = f.handle
	}

	ret := vk.QueueSubmit(dev.queues[q.Index].queue, 1, []vk.SubmitInfo{{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   uint32(len(waitSems)),
		PWaitSemaphores:      waitSems,
		PWaitDstStageMask:    waitStages,
		CommandBufferCount:   uint32(len(cmdBufs)),
		PCommandBuffers:      cmdBufs,
		SignalSemaphoreCount: uint32(len(signalSems)),
		PSignalSemaphores:    signalSems,
	}}, fenceHandle)
	return checkResult(ret, "VulkanApi.QueueSubmit")
}

// QueuePresent mirrors spec.md section 4.2's PresentOptions/PresentResult
// coalescing: the first return is a single coalesced Result and the
// second carries the per-swapchain detail.
func (a *VulkanApi) QueuePresent(q kgpu.QueueHandle, opts kgpu.PresentOptions) (kgpu.PresentResult, []kgpu.PresentResult) {
	dev := resolve[vkDevice, kgpu.Device](a.devices, q.Device)
	if dev == nil || int(q.Index) >= len(dev.queues) {
		return kgpu.PresentSurfaceLost, nil
	}

	waitSems := make([]vk.Semaphore, 0, len(opts.WaitSemaphores))
	for _, sh := range opts.WaitSemaphores {
		s := resolve[vkSemaphore, kgpu.GpuSemaphoreTag](a.semaphores, sh)
		if s != nil {
			waitSems = append(waitSems, s.handle)
		}
	}

	swapchains := make([]vk.Swapchain, 0, len(opts.Swapchains))
	indices := make([]uint32, 0, len(opts.Swapchains))
	for _, sw := range opts.Swapchains {
		sc := resolve[vkSwapchain, kgpu.Swapchain](a.swapchains, sw.Swapchain)
		if sc == nil {
			continue
		}
		swapchains = append(swapchains, sc.handle)
		indices = append(indices, sw.ImageIndex)
	}

	results := make([]vk.Result, len(swapchains))
	ret := vk.QueuePresent(dev.queues[q.Index].queue, &vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: uint32(len(waitSems)),
		PWaitSemaphores:    waitSems,
		SwapchainCount:     uint32(len(swapchains)),
		PSwapchains:        swapchains,
		PImageIndices:      indices,
		PResults:           results,
	})

	per := make([]kgpu.PresentResult, len(results))
	for i, r := range results {
		per[i] = presentResultFromVk(r)
	}
	return presentResultFromVk(ret), per
}

func presentResultFromVk(ret vk.Result) kgpu.PresentResult {
	switch ret {
	case vk.Success:
		return kgpu.PresentSuccess
	case vk.ErrorOutOfHostMemory, vk.ErrorOutOfDeviceMemory:
		return kgpu.PresentOutOfMemory
	case vk.ErrorDeviceLost:
		return kgpu.PresentDeviceLost
	case vk.ErrorOutOfDateKhr:
		return kgpu.PresentOutOfDate
	case vk.ErrorSurfaceLostKhr:
		return kgpu.PresentSurfaceLost
	default:
		return kgpu.PresentOutOfMemory
	}
}
