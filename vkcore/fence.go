package vkcore

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/kdgpu/kgpucore"
)

type vkFence struct {
	device kgpu.Handle[kgpu.Device]
	handle vk.Fence
}

func (a *VulkanApi) CreateFence(h kgpu.Handle[kgpu.Device], opts kgpu.FenceOptions) (kgpu.Handle[kgpu.FenceTag], error) {
	dev := resolve[vkDevice, kgpu.Device](a.devices, h)
	if dev == nil {
		return kgpu.Handle[kgpu.FenceTag]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreateFence: device does not resolve"}
	}
	var flags vk.FenceCreateFlags
	if opts.CreateSignalled {
		flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}
	createInfo := &vk.FenceCreateInfo{SType: vk.StructureTypeFenceCreateInfo, Flags: flags}
	var exportInfo vk.ExportFenceCreateInfo
	if opts.ExternalMemoryHandleType != kgpu.ExternalMemoryHandleNone {
		exportInfo = vk.ExportFenceCreateInfo{
			SType:      vk.StructureTypeExportFenceCreateInfo,
			HandleTypes: vk.ExternalFenceHandleTypeFlags(externalMemoryHandleTypeFlag(opts.ExternalMemoryHandleType)),
		}
		createInfo.PNext = unsafeNext(&exportInfo)
	}

	var fence vk.Fence
	ret := vk.CreateFence(dev.handle, createInfo, nil, &fence)
	if err := checkResult(ret, "VulkanApi.CreateFence"); err != nil {
		return kgpu.Handle[kgpu.FenceTag]{}, err
	}
	return insert[vkFence, kgpu.FenceTag](a.fences, vkFence{device: h, handle: fence}), nil
}

func (a *VulkanApi) DeleteFence(h kgpu.Handle[kgpu.FenceTag]) {
	f := resolve[vkFence, kgpu.FenceTag](a.fences, h)
	if f == nil {
		return
	}
	dev := resolve[vkDevice, kgpu.Device](a.devices, f.device)
	if dev != nil {
		vk.DestroyFence(dev.handle, f.handle, nil)
	}
	remove[vkFence, kgpu.FenceTag](a.fences, h)
}

func (a *VulkanApi) FenceWait(h kgpu.Handle[kgpu.FenceTag], timeoutNanos uint64) (kgpu.Result, error) {
	f := resolve[vkFence, kgpu.FenceTag](a.fences, h)
	if f == nil {
		return kgpu.ResultUnknown, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.FenceWait: fence does not resolve"}
	}
	dev := resolve[vkDevice, kgpu.Device](a.devices, f.device)
	if dev == nil {
		return kgpu.ResultUnknown, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.FenceWait: device does not resolve"}
	}
	ret := vk.WaitForFences(dev.handle, 1, []vk.Fence{f.handle}, vk.True, timeoutNanos)
	switch ret {
	case vk.Success:
		return kgpu.ResultSuccess, nil
	case vk.Timeout:
		return kgpu.ResultTimeout, nil
	default:
		return kgpu.ResultUnknown, checkResult(ret, "VulkanApi.FenceWait")
	}
}

func (a *VulkanApi) FenceReset(h kgpu.Handle[kgpu.FenceTag]) error {
	f := resolve[vkFence, kgpu.FenceTag](a.fences, h)
	if f == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.FenceReset: fence does not resolve"}
	}
	dev := resolve[vkDevice, kgpu.Device](a.devices, f.device)
	if dev == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.FenceReset: device does not resolve"}
	}
	return checkResult(vk.ResetFences(dev.handle, 1, []vk.Fence{f.handle}), "VulkanApi.FenceReset")
}

func (a *VulkanApi) FenceStatus(h kgpu.Handle[kgpu.FenceTag]) kgpu.FenceStatus {
	f := resolve[vkFence, kgpu.FenceTag](a.fences, h)
	if f == nil {
		return kgpu.FenceNotSignalled
	}
	dev := resolve[vkDevice, kgpu.Device](a.devices, f.device)
	if dev == nil {
		return kgpu.FenceNotSignalled
	}
	if vk.GetFenceStatus(dev.handle, f.handle) == vk.Success {
		return kgpu.FenceSignalled
	}
	return kgpu.FenceNotSignalled
}
