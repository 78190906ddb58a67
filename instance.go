package kgpu

// InstanceOptions mirrors spec.md section 4.2's Instance creation
// parameters.
type InstanceOptions struct {
	ApplicationName    string
	ApplicationVersion uint32
	EngineName         string
	ApiVersion         uint32
	Layers             []string
	Extensions         []string
	EnableValidation   bool
}

// InstanceHandle is the move-only front-end for a created Vulkan instance
// (spec.md section 3, "Public resource front-end"). It is the entry point
// client code uses to enumerate adapters and create surfaces.
type InstanceHandle struct {
	api    GraphicsApi
	handle Handle[Instance]
}

// CreateInstance creates a new instance front-end from any GraphicsApi
// implementation (in practice, vkcore.NewVulkanApi()'s returned value).
func CreateInstance(api GraphicsApi, opts InstanceOptions) (*InstanceHandle, error) {
	h, err := api.CreateInstance(opts)
	if err != nil {
		return nil, err
	}
	return &InstanceHandle{api: api, handle: h}, nil
}

func (i *InstanceHandle) IsValid() bool { return i != nil && i.handle.IsValid() }

func (i *InstanceHandle) Handle() Handle[Instance] { return i.handle }

// Release destroys the instance if still valid. Idempotent.
func (i *InstanceHandle) Release() {
	if i == nil || !i.handle.IsValid() {
		return
	}
	i.api.DeleteInstance(i.handle)
	i.handle = Handle[Instance]{}
}

// Adapters returns the process-memoized list of adapters behind this
// instance (spec.md section 4.2: "Returns stable pointers into the
// memoized vector; these pointers must remain valid across moves of the
// Instance" -- in Go, AdapterHandle values are cheap and carry no pointer
// into backend-owned memory beyond the stable Handle, so this invariant
// holds trivially).
func (i *InstanceHandle) Adapters() []*AdapterHandle {
	raw := i.api.Adapters(i.handle)
	out := make([]*AdapterHandle, len(raw))
	for idx, h := range raw {
		out[idx] = &AdapterHandle{api: i.api, handle: h}
	}
	return out
}

// SelectAdapter is the convenience spec.md section 4.2 describes: the
// first adapter of the requested AdapterDeviceType, otherwise a discrete
// adapter, then an integrated one, then any adapter.
func (i *InstanceHandle) SelectAdapter(kind AdapterDeviceType) (*AdapterHandle, bool) {
	h, ok := i.api.SelectAdapter(i.handle, kind)
	if !ok {
		return nil, false
	}
	return &AdapterHandle{api: i.api, handle: h}, true
}

// CreateSurface binds to a native window per the platform-specific options
// carried in SurfaceOptions.
func (i *InstanceHandle) CreateSurface(opts SurfaceOptions) (*SurfaceHandle, error) {
	h, err := i.api.CreateSurface(i.handle, opts)
	if err != nil {
		return nil, err
	}
	return &SurfaceHandle{api: i.api, handle: h}, nil
}

// CreateDefaultDevice is the end-to-end convenience spec.md section 4.2
// describes: select an adapter and create a device with one queue from
// family 0, enabling the adapter's reported features. It does not check
// which operations queue family 0 supports or whether it can present to
// surface; the surface argument is not used.
func (i *InstanceHandle) CreateDefaultDevice(surface *SurfaceHandle, kind AdapterDeviceType) (*DeviceHandle, *AdapterHandle, error) {
	adapter, ok := i.SelectAdapter(kind)
	if !ok {
		return nil, nil, &Error{Kind: KindInvalidArgument, Site: "CreateDefaultDevice: no suitable adapter"}
	}
	features := adapter.Features()
	dev, err := adapter.CreateDevice(DeviceOptions{
		Features: features,
		QueueRequests: []QueueRequest{
			{QueueTypeIndex: 0, Count: 1, Priorities: []float32{1.0}},
		},
	})
	if err != nil {
		return nil, adapter, err
	}
	return dev, adapter, nil
}
