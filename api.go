package kgpu

// This file declares the resource-manager/abstract-factory surface from
// spec.md section 4.1 ("Contract"). Per the design note in spec.md section
// 9 ("Dynamic dispatch"), there is exactly one concrete implementation in
// this module (package vkcore's VulkanApi) -- the interface exists to keep
// every front-end's dependency on the backend to a single narrow seam, not
// to support swapping backends at runtime.
//
// Each resource kind gets a phantom tag type (empty struct) used only as
// the type parameter to Handle[T]; it is never instantiated. Backends
// adapt their own internal pool bookkeeping into these tags via
// MakeHandle, so the concrete backend storage type never has to be named
// outside its own package.
type (
	Instance               struct{}
	Adapter                struct{}
	Device                 struct{}
	Surface                struct{}
	Swapchain              struct{}
	BufferTag              struct{}
	TextureTag             struct{}
	TextureViewTag         struct{}
	SamplerTag             struct{}
	ShaderModuleTag        struct{}
	BindGroupLayoutTag     struct{}
	BindGroupPoolTag       struct{}
	BindGroupTag           struct{}
	PipelineLayoutTag      struct{}
	GraphicsPipelineTag    struct{}
	ComputePipelineTag     struct{}
	RayTracingPipelineTag  struct{}
	ShaderBindingTableTag  struct{}
	AccelerationStructTag  struct{}
	YCbCrConversionTag     struct{}
	CommandRecorderTag     struct{}
	CommandBufferTag       struct{}
	GpuSemaphoreTag        struct{}
	FenceTag               struct{}
	TimestampQueryTag      struct{}
)

// GraphicsApi is the per-process abstract factory + store spec.md section
// 4.1 describes. It is implemented by vkcore.VulkanApi.
type GraphicsApi interface {
	// Instance / Adapter / Device / Queue
	CreateInstance(opts InstanceOptions) (Handle[Instance], error)
	DeleteInstance(Handle[Instance])
	Adapters(instance Handle[Instance]) []Handle[Adapter]
	SelectAdapter(instance Handle[Instance], kind AdapterDeviceType) (Handle[Adapter], bool)
	AdapterFeatures(adapter Handle[Adapter]) AdapterFeatures
	AdapterProperties(adapter Handle[Adapter]) AdapterProperties
	CreateDevice(adapter Handle[Adapter], opts DeviceOptions) (Handle[Device], error)
	DeleteDevice(Handle[Device])
	DeviceQueues(device Handle[Device]) []QueueHandle
	DeviceWaitIdle(device Handle[Device]) error

	QueueWaitIdle(q QueueHandle) error
	QueueSubmit(q QueueHandle, opts SubmitOptions) error
	QueuePresent(q QueueHandle, opts PresentOptions) (PresentResult, []PresentResult)

	// Surface / Swapchain
	CreateSurface(instance Handle[Instance], opts SurfaceOptions) (Handle[Surface], error)
	DeleteSurface(Handle[Surface])
	CreateSwapchain(device Handle[Device], opts SwapchainOptions) (Handle[Swapchain], error)
	DeleteSwapchain(Handle[Swapchain])
	SwapchainTextures(sc Handle[Swapchain]) []Handle[TextureTag]
	AcquireNextImage(sc Handle[Swapchain], signal Handle[GpuSemaphoreTag]) (uint32, AcquireImageResult)

	// Resources
	CreateBuffer(device Handle[Device], opts BufferOptions) (Handle[BufferTag], error)
	DeleteBuffer(Handle[BufferTag])
	CreateTexture(device Handle[Device], opts TextureOptions) (Handle[TextureTag], error)
	DeleteTexture(Handle[TextureTag])
	CreateTextureView(device Handle[Device], texture Handle[TextureTag], opts TextureViewOptions) (Handle[TextureViewTag], error)
	DeleteTextureView(Handle[TextureViewTag])
	CreateSampler(device Handle[Device], opts SamplerOptions) (Handle[SamplerTag], error)
	DeleteSampler(Handle[SamplerTag])
	CreateShaderModule(device Handle[Device], code []uint32) (Handle[ShaderModuleTag], error)
	DeleteShaderModule(Handle[ShaderModuleTag])
	CreateYCbCrConversion(device Handle[Device], opts YCbCrConversionOptions) (Handle[YCbCrConversionTag], error)
	DeleteYCbCrConversion(Handle[YCbCrConversionTag])
	CreateAccelerationStructure(device Handle[Device], opts AccelerationStructureOptions) (Handle[AccelerationStructTag], error)
	DeleteAccelerationStructure(Handle[AccelerationStructTag])

	// Bind groups
	CreateBindGroupLayout(device Handle[Device], opts BindGroupLayoutOptions) (Handle[BindGroupLayoutTag], error)
	DeleteBindGroupLayout(Handle[BindGroupLayoutTag])
	CreateBindGroupPool(device Handle[Device], opts BindGroupPoolOptions) (Handle[BindGroupPoolTag], error)
	DeleteBindGroupPool(Handle[BindGroupPoolTag])
	ResetBindGroupPool(Handle[BindGroupPoolTag]) error
	CreateBindGroup(device Handle[Device], opts BindGroupOptions) (Handle[BindGroupTag], error)
	DeleteBindGroup(Handle[BindGroupTag])
	UpdateBindGroup(bg Handle[BindGroupTag], entry BindGroupEntry) error

	CreatePipelineLayout(device Handle[Device], opts PipelineLayoutOptions) (Handle[PipelineLayoutTag], error)
	DeletePipelineLayout(Handle[PipelineLayoutTag])
	CreateGraphicsPipeline(device Handle[Device], opts GraphicsPipelineOptions) (Handle[GraphicsPipelineTag], error)
	DeleteGraphicsPipeline(Handle[GraphicsPipelineTag])
	CreateComputePipeline(device Handle[Device], opts ComputePipelineOptions) (Handle[ComputePipelineTag], error)
	DeleteComputePipeline(Handle[ComputePipelineTag])
	CreateRayTracingPipeline(device Handle[Device], opts RayTracingPipelineOptions) (Handle[RayTracingPipelineTag], error)
	DeleteRayTracingPipeline(Handle[RayTracingPipelineTag])
	CreateShaderBindingTable(device Handle[Device], pipeline Handle[RayTracingPipelineTag], opts ShaderBindingTableOptions) (Handle[ShaderBindingTableTag], error)
	DeleteShaderBindingTable(Handle[ShaderBindingTableTag])

	// Command recording
	CreateCommandRecorder(device Handle[Device], opts CommandRecorderOptions) (Handle[CommandRecorderTag], error)
	BeginRenderPass(cr Handle[CommandRecorderTag], opts RenderPassOptions) (RenderPassRecorderHandle, error)
	BeginComputePass(cr Handle[CommandRecorderTag], opts ComputePassOptions) (ComputePassRecorderHandle, error)
	BeginRayTracingPass(cr Handle[CommandRecorderTag], opts RayTracingPassOptions) (RayTracingPassRecorderHandle, error)
	FinishCommandRecorder(cr Handle[CommandRecorderTag]) (Handle[CommandBufferTag], error)
	DeleteCommandBuffer(Handle[CommandBufferTag])

	// Copy/blit/resolve (spec.md section 4.4 group 2).
	CopyBufferToBuffer(cr Handle[CommandRecorderTag], opts BufferCopy) error
	CopyBufferToTexture(cr Handle[CommandRecorderTag], opts BufferTextureCopy) error
	CopyTextureToBuffer(cr Handle[CommandRecorderTag], opts BufferTextureCopy) error
	CopyTextureToTexture(cr Handle[CommandRecorderTag], opts TextureCopy) error
	BlitTexture(cr Handle[CommandRecorderTag], opts TextureBlit) error
	ResolveTexture(cr Handle[CommandRecorderTag], opts TextureResolve) error

	// Barriers (spec.md section 4.4 group 3). No implicit barrier insertion
	// is performed by the core.
	MemoryBarrier(cr Handle[CommandRecorderTag], opts MemoryBarrierOptions) error
	BufferBarrier(cr Handle[CommandRecorderTag], opts BufferBarrierOptions) error
	ImageBarrier(cr Handle[CommandRecorderTag], opts ImageBarrierOptions) error

	BeginDebugLabel(cr Handle[CommandRecorderTag], name string, color [4]float32)
	EndDebugLabel(cr Handle[CommandRecorderTag])

	// RenderPassCommandRecorder operations (spec.md section 4.5).
	SetPipeline(h RenderPassRecorderHandle, pipeline Handle[GraphicsPipelineTag]) error
	SetVertexBuffer(h RenderPassRecorderHandle, index uint32, buffer Handle[BufferTag], offset uint64) error
	SetIndexBuffer(h RenderPassRecorderHandle, buffer Handle[BufferTag], offset uint64, indexType IndexType) error
	SetRenderBindGroup(h RenderPassRecorderHandle, group uint32, bindGroup Handle[BindGroupTag], pipelineLayout Handle[PipelineLayoutTag], dynamicOffsets []uint32) error
	SetViewport(h RenderPassRecorderHandle, v Viewport) error
	SetScissor(h RenderPassRecorderHandle, r Rect2D) error
	SetStencilReference(h RenderPassRecorderHandle, faceMask uint32, value uint32) error
	Draw(h RenderPassRecorderHandle, opts DrawOptions) error
	DrawIndexed(h RenderPassRecorderHandle, opts DrawIndexedOptions) error
	DrawIndirect(h RenderPassRecorderHandle, buffer Handle[BufferTag], offset uint64, drawCount uint32, stride uint32) error
	DrawIndexedIndirect(h RenderPassRecorderHandle, buffer Handle[BufferTag], offset uint64, drawCount uint32, stride uint32) error
	DrawMeshTasks(h RenderPassRecorderHandle, x, y, z uint32) error
	DrawMeshTasksIndirect(h RenderPassRecorderHandle, buffer Handle[BufferTag], offset uint64, drawCount uint32, stride uint32) error
	RenderPushConstant(h RenderPassRecorderHandle, r PushConstantRange, data []byte, pipelineLayout Handle[PipelineLayoutTag]) error
	RenderPushBindGroup(h RenderPassRecorderHandle, group uint32, entries []BindGroupEntry, pipelineLayout Handle[PipelineLayoutTag]) error
	NextSubpass(h RenderPassRecorderHandle) error
	EndRenderPass(h RenderPassRecorderHandle) error

	// ComputePassCommandRecorder / RayTracingPassCommandRecorder operations
	// (spec.md section 4.7).
	SetComputePipeline(h ComputePassRecorderHandle, pipeline Handle[ComputePipelineTag]) error
	SetComputeBindGroup(h ComputePassRecorderHandle, group uint32, bindGroup Handle[BindGroupTag], pipelineLayout Handle[PipelineLayoutTag], dynamicOffsets []uint32) error
	ComputePushConstant(h ComputePassRecorderHandle, r PushConstantRange, data []byte, pipelineLayout Handle[PipelineLayoutTag]) error
	ComputePushBindGroup(h ComputePassRecorderHandle, group uint32, entries []BindGroupEntry, pipelineLayout Handle[PipelineLayoutTag]) error
	DispatchCompute(h ComputePassRecorderHandle, x, y, z uint32) error
	DispatchComputeIndirect(h ComputePassRecorderHandle, buffer Handle[BufferTag], offset uint64) error
	EndComputePass(h ComputePassRecorderHandle) error

	SetRayTracingPipeline(h RayTracingPassRecorderHandle, pipeline Handle[RayTracingPipelineTag]) error
	SetRayTracingBindGroup(h RayTracingPassRecorderHandle, group uint32, bindGroup Handle[BindGroupTag], pipelineLayout Handle[PipelineLayoutTag], dynamicOffsets []uint32) error
	RayTracingPushConstant(h RayTracingPassRecorderHandle, r PushConstantRange, data []byte, pipelineLayout Handle[PipelineLayoutTag]) error
	RayTracingPushBindGroup(h RayTracingPassRecorderHandle, group uint32, entries []BindGroupEntry, pipelineLayout Handle[PipelineLayoutTag]) error
	TraceRays(h RayTracingPassRecorderHandle, opts TraceRaysOptions) error
	EndRayTracingPass(h RayTracingPassRecorderHandle) error

	// Sync
	CreateSemaphore(device Handle[Device], opts SemaphoreOptions) (Handle[GpuSemaphoreTag], error)
	DeleteSemaphore(Handle[GpuSemaphoreTag])
	CreateFence(device Handle[Device], opts FenceOptions) (Handle[FenceTag], error)
	DeleteFence(Handle[FenceTag])
	FenceWait(f Handle[FenceTag], timeoutNanos uint64) (Result, error)
	FenceReset(f Handle[FenceTag]) error
	FenceStatus(f Handle[FenceTag]) FenceStatus

	// Timestamp queries draw from the device's single timestamp-query pool
	// (spec.md section 4.2 point 5); CreateTimestampQueryRecorder reserves
	// a contiguous query range within it.
	CreateTimestampQueryRecorder(device Handle[Device], opts TimestampQueryOptions) (Handle[TimestampQueryTag], error)
	DeleteTimestampQueryRecorder(Handle[TimestampQueryTag])
	WriteTimestamp(cr Handle[CommandRecorderTag], query Handle[TimestampQueryTag], index uint32, stage ShaderStage) error
	ResolveTimestampQueries(query Handle[TimestampQueryTag], firstIndex, count uint32) ([]uint64, error)

	Logger() *Logger
}

// QueueHandle identifies one of a device's materialized queues. Unlike
// other resources, a queue is not stored in its own Pool -- it is a thin
// index into the device's queue array (spec.md section 4.2, "queues()
// returns the materialized queues") -- so it carries the owning device
// alongside a plain index rather than a generational Handle.
type QueueHandle struct {
	Device Handle[Device]
	Index  uint32
}

// RenderPassRecorderHandle / ComputePassRecorderHandle /
// RayTracingPassRecorderHandle identify an open pass recorder. They are
// not pooled resources (a pass recorder's lifetime is scoped to the
// CommandRecorder that opened it and to a single begin/end cycle) so they
// carry the parent CommandRecorder handle plus a pass-local sequence
// number the backend uses to reject stale calls after End().
type RenderPassRecorderHandle struct {
	Recorder Handle[CommandRecorderTag]
	Seq      uint64
}

type ComputePassRecorderHandle struct {
	Recorder Handle[CommandRecorderTag]
	Seq      uint64
}

type RayTracingPassRecorderHandle struct {
	Recorder Handle[CommandRecorderTag]
	Seq      uint64
}
