package kgpu

// ExternalMemoryHandle is the opaque {fd|HANDLE, allocationSize} pair
// spec.md section 3/6 describes for Buffer/Texture external-memory export.
type ExternalMemoryHandle struct {
	FD             int32  // POSIX file descriptor; -1 when unused
	Win32Handle    uintptr // Windows HANDLE; 0 when unused
	AllocationSize uint64
}

// BufferOptions mirrors spec.md section 3's Buffer attributes.
type BufferOptions struct {
	Size                    uint64
	Usage                   BufferUsage
	MemoryUsage             MemoryUsage
	ExternalMemoryHandleType ExternalMemoryHandleType
}

// BufferFrontend is the move-only front-end for a Buffer (spec.md section
// 3). Copy is forbidden by convention (do not assign a BufferFrontend
// value, pass its pointer); a zero-handle front-end's Release is a no-op.
type BufferFrontend struct {
	api    GraphicsApi
	device Handle[Device]
	handle Handle[BufferTag]
}

// CreateBuffer creates a buffer on device.
func CreateBuffer(api GraphicsApi, device Handle[Device], opts BufferOptions) (*BufferFrontend, error) {
	h, err := api.CreateBuffer(device, opts)
	if err != nil {
		return nil, err
	}
	return &BufferFrontend{api: api, device: device, handle: h}, nil
}

func (b *BufferFrontend) IsValid() bool            { return b != nil && b.handle.IsValid() }
func (b *BufferFrontend) Handle() Handle[BufferTag] { return b.handle }

func (b *BufferFrontend) Release() {
	if b == nil || !b.handle.IsValid() {
		return
	}
	b.api.DeleteBuffer(b.handle)
	b.handle = Handle[BufferTag]{}
}

func (b *BufferFrontend) Equal(other *BufferFrontend) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.handle.Equal(other.handle)
}

// BufferAccessor is implemented by the backend to give BufferFrontend its
// map/unmap/flush/invalidate/address/external-handle operations without
// widening the GraphicsApi interface with buffer-only methods every other
// resource kind would have to stub. vkcore.VulkanApi implements it.
type BufferAccessor interface {
	MapBuffer(Handle[BufferTag]) ([]byte, error)
	UnmapBuffer(Handle[BufferTag]) error
	FlushBuffer(Handle[BufferTag]) error
	InvalidateBuffer(Handle[BufferTag]) error
	BufferDeviceAddress(Handle[BufferTag]) (uint64, error)
	BufferExternalMemoryHandle(Handle[BufferTag]) (ExternalMemoryHandle, error)
}

func (b *BufferFrontend) accessor() (BufferAccessor, error) {
	acc, ok := b.api.(BufferAccessor)
	if !ok {
		return nil, &Error{Kind: KindInvalidArgument, Site: "BufferFrontend: backend does not implement BufferAccessor"}
	}
	return acc, nil
}

// Map returns a host pointer (as a byte slice) valid until Unmap. Calling
// Map twice without Unmap is an error (spec.md section 6).
func (b *BufferFrontend) Map() ([]byte, error) {
	acc, err := b.accessor()
	if err != nil {
		return nil, err
	}
	return acc.MapBuffer(b.handle)
}

func (b *BufferFrontend) Unmap() error {
	acc, err := b.accessor()
	if err != nil {
		return err
	}
	return acc.UnmapBuffer(b.handle)
}

// Flush/Invalidate are no-ops for host-coherent memory and cache
// maintenance otherwise (spec.md section 6).
func (b *BufferFrontend) Flush() error {
	acc, err := b.accessor()
	if err != nil {
		return err
	}
	return acc.FlushBuffer(b.handle)
}

func (b *BufferFrontend) Invalidate() error {
	acc, err := b.accessor()
	if err != nil {
		return err
	}
	return acc.InvalidateBuffer(b.handle)
}

// BufferDeviceAddress returns the GPU-visible address when the
// shader-device-address feature is enabled.
func (b *BufferFrontend) BufferDeviceAddress() (uint64, error) {
	acc, err := b.accessor()
	if err != nil {
		return 0, err
	}
	return acc.BufferDeviceAddress(b.handle)
}

// ExternalMemoryHandle returns the exported {fd|HANDLE, allocationSize}
// pair (spec.md section 3/6).
func (b *BufferFrontend) ExternalMemoryHandle() (ExternalMemoryHandle, error) {
	acc, err := b.accessor()
	if err != nil {
		return ExternalMemoryHandle{}, err
	}
	return acc.BufferExternalMemoryHandle(b.handle)
}
