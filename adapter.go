package kgpu

// AdapterFeatures is a semantic (not bit-exact) subset of the roughly 100
// capability booleans spec.md section 4.2 describes an Adapter as caching.
// Only the capabilities this core's component design actually branches on
// are modeled as named fields; anything else a caller needs can be probed
// through the backend-specific escape hatch in vkcore.
type AdapterFeatures struct {
	RayTracing             bool
	MeshShading            bool
	BufferDeviceAddress    bool
	Multiview              bool
	DescriptorIndexing     bool
	HostImageCopy          bool
	YCbCrConversion        bool
	DynamicRendering       bool
	PushDescriptor         bool
	ExternalMemory         bool
	ExternalSemaphoreFence bool
	Synchronization2       bool
}

// AdapterProperties mirrors spec.md section 4.2's cached property structs.
type AdapterProperties struct {
	ApiVersion    uint32
	DriverVersion uint32
	DeviceName    string
	DeviceType    AdapterDeviceType

	Limits RayTracingLimits

	MaxPushConstantsSize       uint32
	MinUniformBufferOffsetAlign uint64
	MaxBoundDescriptorSets     uint32
	MaxColorAttachments        uint32
	MaxViewports               uint32
	MaxMultiviewViewCount      uint32
}

// RayTracingLimits holds the adapter-reported alignment/size values spec.md
// section 3 names for building a RayTracingShaderBindingTable.
type RayTracingLimits struct {
	ShaderGroupHandleSize      uint32
	ShaderGroupHandleAlignment uint32
	ShaderGroupBaseAlignment   uint32
	MaxRayRecursionDepth       uint32
}

// QueueRequest describes one queue-creation request passed to
// Adapter.CreateDevice (spec.md section 4.2).
type QueueRequest struct {
	QueueTypeIndex uint32
	Count          uint32
	Priorities     []float32
}

// DeviceOptions are the parameters spec.md section 4.2 "Device. Creation
// takes" lists.
type DeviceOptions struct {
	Extensions    []string
	Features      AdapterFeatures
	QueueRequests []QueueRequest
}

// AdapterHandle is the move-only front-end for a queried physical device.
type AdapterHandle struct {
	api    GraphicsApi
	handle Handle[Adapter]
}

func (a *AdapterHandle) IsValid() bool        { return a != nil && a.handle.IsValid() }
func (a *AdapterHandle) Handle() Handle[Adapter] { return a.handle }

// Features queries (and the backend caches) this adapter's capability
// booleans. Per the Open Question resolved in DESIGN.md, the backend
// queries eagerly and idempotently rather than lazily copying a possibly
// stale zero value.
func (a *AdapterHandle) Features() AdapterFeatures {
	return a.api.AdapterFeatures(a.handle)
}

// Properties queries this adapter's cached property struct.
func (a *AdapterHandle) Properties() AdapterProperties {
	return a.api.AdapterProperties(a.handle)
}

// CreateDevice creates a logical device from this adapter.
func (a *AdapterHandle) CreateDevice(opts DeviceOptions) (*DeviceHandle, error) {
	h, err := a.api.CreateDevice(a.handle, opts)
	if err != nil {
		return nil, err
	}
	return &DeviceHandle{api: a.api, handle: h}, nil
}
