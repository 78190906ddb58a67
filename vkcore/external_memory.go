package vkcore

import (
	"runtime"

	vk "github.com/vulkan-go/vulkan"

	"github.com/kdgpu/kgpucore"
)

// externalMemoryHandleTypeFlag maps the core's platform-neutral
// ExternalMemoryHandleType to the VK_KHR_external_memory_{fd,win32}
// handle-type bit, per spec.md section 6's CUDA/OpenGL interop gap.
func externalMemoryHandleTypeFlag(t kgpu.ExternalMemoryHandleType) vk.ExternalMemoryHandleTypeFlagBits {
	switch t {
	case kgpu.ExternalMemoryHandleOpaqueWin32:
		return vk.ExternalMemoryHandleTypeOpaqueWin32Bit
	case kgpu.ExternalMemoryHandleOpaqueFD:
		return vk.ExternalMemoryHandleTypeOpaqueFdBit
	default:
		return 0
	}
}

// exportMemoryHandle retrieves the opaque {fd|HANDLE, allocationSize}
// pair spec.md section 3/6 describes exporting from a VkDeviceMemory
// allocation, dispatching on GOOS the way the teacher's platform.go
// dispatches windowing calls per build target.
func exportMemoryHandle(dev vk.Device, mem vk.DeviceMemory, size uint64, handleType kgpu.ExternalMemoryHandleType) (kgpu.ExternalMemoryHandle, error) {
	switch handleType {
	case kgpu.ExternalMemoryHandleOpaqueFD:
		if runtime.GOOS == "windows" {
			return kgpu.ExternalMemoryHandle{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "exportMemoryHandle: opaque fd handles are not available on windows"}
		}
		var fd int
		ret := vk.GetMemoryFdKHR(dev, &vk.MemoryGetFdInfoKHR{
			SType:      vk.StructureTypeMemoryGetFdInfoKhr,
			Memory:     mem,
			HandleType: vk.ExternalMemoryHandleTypeFlagBits(vk.ExternalMemoryHandleTypeOpaqueFdBit),
		}, &fd)
		if err := checkResult(ret, "exportMemoryHandle: GetMemoryFdKHR"); err != nil {
			return kgpu.ExternalMemoryHandle{}, err
		}
		return kgpu.ExternalMemoryHandle{FD: int32(fd), Win32Handle: 0, AllocationSize: size}, nil
	case kgpu.ExternalMemoryHandleOpaqueWin32:
		if runtime.GOOS != "windows" {
			return kgpu.ExternalMemoryHandle{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "exportMemoryHandle: win32 handles are only available on windows"}
		}
		var handle vk.HANDLE
		ret := vk.GetMemoryWin32HandleKHR(dev, &vk.MemoryGetWin32HandleInfoKHR{
			SType:      vk.StructureTypeMemoryGetWin32HandleInfoKhr,
			Memory:     mem,
			HandleType: vk.ExternalMemoryHandleTypeFlagBits(vk.ExternalMemoryHandleTypeOpaqueWin32Bit),
		}, &handle)
		if err := checkResult(ret, "exportMemoryHandle: GetMemoryWin32HandleKHR"); err != nil {
			return kgpu.ExternalMemoryHandle{}, err
		}
		return kgpu.ExternalMemoryHandle{FD: -1, Win32Handle: uintptr(handle), AllocationSize: size}, nil
	default:
		return kgpu.ExternalMemoryHandle{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "exportMemoryHandle: no external memory handle type requested"}
	}
}
