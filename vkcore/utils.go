package vkcore

import "unsafe"

// unsafeNext adapts a pNext chain struct pointer to the unsafe.Pointer
// vulkan-go's PNext fields expect.
func unsafeNext[T any](p *T) unsafe.Pointer {
	return unsafe.Pointer(p)
}

// ptrToBytes reinterprets a vk.MapMemory result as a byte slice backed by
// the mapped range, in the idiom retrieved from
// other_examples/gogpu-wgpu's hal/vulkan/unsafe.go copyToMappedMemory
// (unsafe.Slice over the FFI-returned base pointer).
func ptrToBytes(ptr unsafe.Pointer, n int) []byte {
	if ptr == nil || n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(ptr), n)
}
