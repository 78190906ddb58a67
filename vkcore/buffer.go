package vkcore

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"

	"github.com/kdgpu/kgpucore"
)

// vkBuffer wraps a native VkBuffer plus its dedicated VkDeviceMemory
// allocation. The teacher's CoreBuffer (buffers.go) pairs a buffer array
// with a device-memory array for double/triple-buffered uniform data;
// this module's staging pool (StagingBufferPool, package kgpu) is what
// provides that per-frame multiplicity, so vkBuffer itself owns exactly
// one allocation.
type vkBuffer struct {
	device  kgpu.Handle[kgpu.Device]
	handle  vk.Buffer
	memory  vk.DeviceMemory
	size    uint64
	usage   kgpu.BufferUsage
	mapped  []byte
	externalHandleType kgpu.ExternalMemoryHandleType
}

func (a *VulkanApi) CreateBuffer(h kgpu.Handle[kgpu.Device], opts kgpu.BufferOptions) (kgpu.Handle[kgpu.BufferTag], error) {
	dev := resolve[vkDevice, kgpu.Device](a.devices, h)
	if dev == nil {
		return kgpu.Handle[kgpu.BufferTag]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreateBuffer: device does not resolve"}
	}
	ad := resolve[vkAdapter, kgpu.Adapter](a.adapters, dev.adapter)
	if ad == nil {
		return kgpu.Handle[kgpu.BufferTag]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreateBuffer: adapter does not resolve"}
	}

	usage := toVkBufferUsage(opts.Usage)
	createInfo := &vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(opts.Size),
		Usage:       vk.BufferUsageFlags(usage),
		SharingMode: vk.SharingModeExclusive,
	}
	var exportInfo vk.ExternalMemoryBufferCreateInfo
	if opts.ExternalMemoryHandleType != kgpu.ExternalMemoryHandleNone {
		exportInfo = vk.ExternalMemoryBufferCreateInfo{
			SType:             vk.StructureTypeExternalMemoryBufferCreateInfo,
			HandleTypes:       vk.ExternalMemoryHandleTypeFlags(externalMemoryHandleTypeFlag(opts.ExternalMemoryHandleType)),
		}
		createInfo.PNext = unsafeNext(&exportInfo)
	}

	var buf vk.Buffer
	ret := vk.CreateBuffer(dev.handle, createInfo, nil, &buf)
	if err := checkResult(ret, "VulkanApi.CreateBuffer"); err != nil {
		return kgpu.Handle[kgpu.BufferTag]{}, err
	}

	var reqs vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(dev.handle, buf, &reqs)

	mem, err := allocateDeviceMemory(dev.handle, ad.memProps, reqs, toVkMemoryProperty(opts.MemoryUsage))
	if err != nil {
		vk.DestroyBuffer(dev.handle, buf, nil)
		return kgpu.Handle[kgpu.BufferTag]{}, err
	}
	if ret := vk.BindBufferMemory(dev.handle, buf, mem, 0); checkResult(ret, "VulkanApi.CreateBuffer: BindBufferMemory") != nil {
		vk.FreeMemory(dev.handle, mem, nil)
		vk.DestroyBuffer(dev.handle, buf, nil)
		return kgpu.Handle[kgpu.BufferTag]{}, checkResult(ret, "VulkanApi.CreateBuffer: BindBufferMemory")
	}

	vb := vkBuffer{device: h, handle: buf, memory: mem, size: opts.Size, usage: opts.Usage, externalHandleType: opts.ExternalMemoryHandleType}
	return insert[vkBuffer, kgpu.BufferTag](a.buffers, vb), nil
}

func (a *VulkanApi) DeleteBuffer(h kgpu.Handle[kgpu.BufferTag]) {
	b := resolve[vkBuffer, kgpu.BufferTag](a.buffers, h)
	if b == nil {
		return
	}
	dev := resolve[vkDevice, kgpu.Device](a.devices, b.device)
	if dev != nil {
		if b.mapped != nil {
			vk.UnmapMemory(dev.handle, b.memory)
		}
		vk.DestroyBuffer(dev.handle, b.handle, nil)
		vk.FreeMemory(dev.handle, b.memory, nil)
	}
	remove[vkBuffer, kgpu.BufferTag](a.buffers, h)
}

// MapBuffer/UnmapBuffer/FlushBuffer/InvalidateBuffer/BufferDeviceAddress/
// BufferExternalMemoryHandle implement kgpu.BufferAccessor.
func (a *VulkanApi) MapBuffer(h kgpu.Handle[kgpu.BufferTag]) ([]byte, error) {
	b := resolve[vkBuffer, kgpu.BufferTag](a.buffers, h)
	if b == nil {
		return nil, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.MapBuffer"}
	}
	dev := resolve[vkDevice, kgpu.Device](a.devices, b.device)
	if dev == nil {
		return nil, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.MapBuffer: device does not resolve"}
	}
	if b.mapped != nil {
		return nil, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.MapBuffer: buffer is already mapped"}
	}
	var data unsafe.Pointer
	ret := vk.MapMemory(dev.handle, b.memory, 0, vk.DeviceSize(b.size), 0, &data)
	if err := checkResult(ret, "VulkanApi.MapBuffer"); err != nil {
		return nil, err
	}
	b.mapped = ptrToBytes(data, int(b.size))
	return b.mapped, nil
}

func (a *VulkanApi) UnmapBuffer(h kgpu.Handle[kgpu.BufferTag]) error {
	b := resolve[vkBuffer, kgpu.BufferTag](a.buffers, h)
	if b == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.UnmapBuffer"}
	}
	dev := resolve[vkDevice, kgpu.Device](a.devices, b.device)
	if dev == nil || b.mapped == nil {
		return nil
	}
	vk.UnmapMemory(dev.handle, b.memory)
	b.mapped = nil
	return nil
}

func (a *VulkanApi) FlushBuffer(h kgpu.Handle[kgpu.BufferTag]) error {
	b := resolve[vkBuffer, kgpu.BufferTag](a.buffers, h)
	if b == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.FlushBuffer"}
	}
	dev := resolve[vkDevice, kgpu.Device](a.devices, b.device)
	if dev == nil {
		return nil
	}
	ret := vk.FlushMappedMemoryRanges(dev.handle, 1, []vk.MappedMemoryRange{{
		SType: vk.StructureTypeMappedMemoryRange, Memory: b.memory, Offset: 0, Size: vk.WholeSize,
	}})
	return checkResult(ret, "VulkanApi.FlushBuffer")
}

func (a *VulkanApi) InvalidateBuffer(h kgpu.Handle[kgpu.BufferTag]) error {
	b := resolve[vkBuffer, kgpu.BufferTag](a.buffers, h)
	if b == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.InvalidateBuffer"}
	}
	dev := resolve[vkDevice, kgpu.Device](a.devices, b.device)
	if dev == nil {
		return nil
	}
	ret := vk.InvalidateMappedMemoryRanges(dev.handle, 1, []vk.MappedMemoryRange{{
		SType: vk.StructureTypeMappedMemoryRange, Memory: b.memory, Offset: 0, Size: vk.WholeSize,
	}})
	return checkResult(ret, "VulkanApi.InvalidateBuffer")
}

func (a *VulkanApi) BufferDeviceAddress(h kgpu.Handle[kgpu.BufferTag]) (uint64, error) {
	b := resolve[vkBuffer, kgpu.BufferTag](a.buffers, h)
	if b == nil {
		return 0, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.BufferDeviceAddress"}
	}
	if !b.usage.Has(kgpu.BufferUsageShaderDeviceAddress) {
		return 0, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.BufferDeviceAddress: buffer was not created with BufferUsageShaderDeviceAddress"}
	}
	dev := resolve[vkDevice, kgpu.Device](a.devices, b.device)
	if dev == nil {
		return 0, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.BufferDeviceAddress: device does not resolve"}
	}
	addr := vk.GetBufferDeviceAddress(dev.handle, &vk.BufferDeviceAddressInfo{
		SType: vk.StructureTypeBufferDeviceAddressInfo, Buffer: b.handle,
	})
	return uint64(addr), nil
}

func (a *VulkanApi) BufferExternalMemoryHandle(h kgpu.Handle[kgpu.BufferTag]) (kgpu.ExternalMemoryHandle, error) {
	b := resolve[vkBuffer, kgpu.BufferTag](a.buffers, h)
	if b == nil {
		return kgpu.ExternalMemoryHandle{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.BufferExternalMemoryHandle"}
	}
	if b.externalHandleType == kgpu.ExternalMemoryHandleNone {
		return kgpu.ExternalMemoryHandle{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.BufferExternalMemoryHandle: buffer has no external memory handle type"}
	}
	dev := resolve[vkDevice, kgpu.Device](a.devices, b.device)
	if dev == nil {
		return kgpu.ExternalMemoryHandle{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.BufferExternalMemoryHandle: device does not resolve"}
	}
	return exportMemoryHandle(dev.handle, b.memory, b.size, b.externalHandleType)
}
