package vkcore

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/kdgpu/kgpucore"
)

type vkSemaphore struct {
	device kgpu.Handle[kgpu.Device]
	handle vk.Semaphore
}

func (a *VulkanApi) CreateSemaphore(h kgpu.Handle[kgpu.Device], opts kgpu.SemaphoreOptions) (kgpu.Handle[kgpu.GpuSemaphoreTag], error) {
	dev := resolve[vkDevice, kgpu.Device](a.devices, h)
	if dev == nil {
		return kgpu.Handle[kgpu.GpuSemaphoreTag]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreateSemaphore: device does not resolve"}
	}
	createInfo := &vk.SemaphoreCreateInfo{SType: vk.StructureTypeSemaphoreCreateInfo}
	var exportInfo vk.ExportSemaphoreCreateInfo
	if opts.ExternalMemoryHandleType != kgpu.ExternalMemoryHandleNone {
		exportInfo = vk.ExportSemaphoreCreateInfo{
			SType:      vk.StructureTypeExportSemaphoreCreateInfo,
			HandleTypes: vk.ExternalSemaphoreHandleTypeFlags(externalMemoryHandleTypeFlag(opts.ExternalMemoryHandleType)),
		}
		createInfo.PNext = unsafeNext(&exportInfo)
	}

	var sem vk.Semaphore
	ret := vk.CreateSemaphore(dev.handle, createInfo, nil, &sem)
	if err := checkResult(ret, "VulkanApi.CreateSemaphore"); err != nil {
		return kgpu.Handle[kgpu.GpuSemaphoreTag]{}, err
	}
	return insert[vkSemaphore, kgpu.GpuSemaphoreTag](a.semaphores, vkSemaphore{device: h, handle: sem}), nil
}

func (a *VulkanApi) DeleteSemaphore(h kgpu.Handle[kgpu.GpuSemaphoreTag]) {
	s := resolve[vkSemaphore, kgpu.GpuSemaphoreTag](a.semaphores, h)
	if s == nil {
		return
	}
	dev := resolve[vkDevice, kgpu.Device](a.devices, s.device)
	if dev != nil {
		vk.DestroySemaphore(dev.handle, s.handle, nil)
	}
	remove[vkSemaphore, kgpu.GpuSemaphoreTag](a.semaphores, h)
}
