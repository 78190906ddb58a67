package kgpu

// This file defines the public, backend-agnostic enums and flag types used
// throughout the resource descriptions in spec.md section 3. The Vulkan
// backend (package vkcore) maps each of these to its vk.* counterpart via
// lookup tables, in the idiom of the teacher's scattered vk.Format*/
// vk.ImageUsage* literals (buffers.go, swapchain.go) and, more
// systematically, the enum-to-backend mapping tables retrieved from
// other_examples/f2b31105_cogentcore-core__vgpu-opts.go.go.

// Format enumerates the pixel/vertex-attribute formats the core exposes.
// Only the subset exercised by the component design is listed; backends
// may support more and reject unsupported ones with InvalidArgument.
type Format int

const (
	FormatUndefined Format = iota
	FormatR8Unorm
	FormatR8G8Unorm
	FormatR8G8B8A8Unorm
	FormatR8G8B8A8Srgb
	FormatB8G8R8A8Unorm
	FormatB8G8R8A8Srgb
	FormatR16G16Sfloat
	FormatR16G16B16A16Sfloat
	FormatR32Sfloat
	FormatR32G32Sfloat
	FormatR32G32B32Sfloat
	FormatR32G32B32A32Sfloat
	FormatD16Unorm
	FormatD24UnormS8Uint
	FormatD32Sfloat
	FormatD32SfloatS8Uint
)

// TextureType enumerates dimensionality per spec.md section 3.
type TextureType int

const (
	TextureType1D TextureType = iota
	TextureType2D
	TextureType3D
	TextureTypeCube
)

// TextureViewType enumerates the view shapes spec.md section 3 lists.
type TextureViewType int

const (
	ViewType1D TextureViewType = iota
	ViewType2D
	ViewType2DArray
	ViewTypeCube
	ViewTypeCubeArray
	ViewType3D
)

// TextureUsage is a bitmask of how a texture may be used.
type TextureUsage uint32

const (
	TextureUsageTransferSrc TextureUsage = 1 << iota
	TextureUsageTransferDst
	TextureUsageSampled
	TextureUsageStorage
	TextureUsageColorAttachment
	TextureUsageDepthStencilAttachment
	TextureUsageInputAttachment
)

func (u TextureUsage) Has(flag TextureUsage) bool { return u&flag != 0 }

// BufferUsage is a bitmask of how a buffer may be used, per spec.md
// section 3's enumerated list (vertex/index/uniform/storage/indirect/
// transfer/shader-binding-table/shader-device-address).
type BufferUsage uint32

const (
	BufferUsageVertex BufferUsage = 1 << iota
	BufferUsageIndex
	BufferUsageUniform
	BufferUsageStorage
	BufferUsageIndirect
	BufferUsageTransferSrc
	BufferUsageTransferDst
	BufferUsageShaderBindingTable
	BufferUsageShaderDeviceAddress
)

func (u BufferUsage) Has(flag BufferUsage) bool { return u&flag != 0 }

// MemoryUsage classifies which heap and access pattern a resource's
// allocation should favor (spec.md section 3).
type MemoryUsage int

const (
	MemoryUsageGpuOnly MemoryUsage = iota
	MemoryUsageCpuToGpu
	MemoryUsageGpuToCpu
	MemoryUsageCpuOnly
)

// ExternalMemoryHandleType per spec.md section 6.
type ExternalMemoryHandleType int

const (
	ExternalMemoryHandleNone ExternalMemoryHandleType = iota
	ExternalMemoryHandleOpaqueFD
	ExternalMemoryHandleOpaqueWin32
)

// LoadOp / StoreOp per spec.md section 4.5 attachment description.
type LoadOp int

const (
	LoadOpLoad LoadOp = iota
	LoadOpClear
	LoadOpDontCare
)

type StoreOp int

const (
	StoreOpStore StoreOp = iota
	StoreOpDontCare
)

// ImageLayout enumerates the subset of Vulkan image layouts the core's
// attachment/transition contracts reference.
type ImageLayout int

const (
	ImageLayoutUndefined ImageLayout = iota
	ImageLayoutGeneral
	ImageLayoutColorAttachmentOptimal
	ImageLayoutDepthStencilAttachmentOptimal
	ImageLayoutDepthStencilReadOnlyOptimal
	ImageLayoutShaderReadOnlyOptimal
	ImageLayoutTransferSrcOptimal
	ImageLayoutTransferDstOptimal
	ImageLayoutPresentSrc
)

// ResolveMode per spec.md section 4.5 depth/color resolve attachments.
type ResolveMode int

const (
	ResolveModeNone ResolveMode = iota
	ResolveModeAverage
	ResolveModeMin
	ResolveModeMax
	ResolveModeSampleZero
)

// CompareOp for samplers and depth tests.
type CompareOp int

const (
	CompareOpNever CompareOp = iota
	CompareOpLess
	CompareOpEqual
	CompareOpLessOrEqual
	CompareOpGreater
	CompareOpNotEqual
	CompareOpGreaterOrEqual
	CompareOpAlways
)

// FilterMode / MipmapMode / AddressMode for samplers (spec.md section 3).
type FilterMode int

const (
	FilterNearest FilterMode = iota
	FilterLinear
)

type MipmapMode int

const (
	MipmapNearest MipmapMode = iota
	MipmapLinear
)

type AddressMode int

const (
	AddressRepeat AddressMode = iota
	AddressMirroredRepeat
	AddressClampToEdge
	AddressClampToBorder
)

// PresentMode per spec.md section 4.3.
type PresentMode int

const (
	PresentModeImmediate PresentMode = iota
	PresentModeMailbox
	PresentModeFifo
	PresentModeFifoRelaxed
)

// ShaderStage is a bitmask of shader stages, used by bind-group bindings,
// push-constant ranges, and pipeline shader-stage tables.
type ShaderStage uint32

const (
	ShaderStageVertex ShaderStage = 1 << iota
	ShaderStageFragment
	ShaderStageCompute
	ShaderStageTessControl
	ShaderStageTessEvaluation
	ShaderStageGeometry
	ShaderStageMesh
	ShaderStageTask
	ShaderStageRaygen
	ShaderStageAnyHit
	ShaderStageClosestHit
	ShaderStageMiss
	ShaderStageIntersection
	ShaderStageCallable
)

func (s ShaderStage) Has(flag ShaderStage) bool { return s&flag != 0 }

// ResourceBindingType enumerates the BindGroupLayout binding kinds listed
// in spec.md section 3.
type ResourceBindingType int

const (
	BindingUniformBuffer ResourceBindingType = iota
	BindingDynamicUniformBuffer
	BindingStorageBuffer
	BindingDynamicStorageBuffer
	BindingSampler
	BindingCombinedImageSampler
	BindingSampledImage
	BindingStorageImage
	BindingUniformTexelBuffer
	BindingStorageTexelBuffer
	BindingInputAttachment
	BindingAccelerationStructure
)

// BindingFlags is a bitmask of per-binding flags (spec.md section 3).
type BindingFlags uint32

const (
	BindingFlagVariableBindGroupEntriesCount BindingFlags = 1 << iota
	BindingFlagPartiallyBound
	BindingFlagUpdateAfterBind
	BindingFlagUpdateUnusedWhilePending
)

func (f BindingFlags) Has(flag BindingFlags) bool { return f&flag != 0 }

// LayoutFlags is a bitmask of BindGroupLayout-level flags.
type LayoutFlags uint32

const (
	LayoutFlagPushBindGroup LayoutFlags = 1 << iota
)

func (f LayoutFlags) Has(flag LayoutFlags) bool { return f&flag != 0 }

// BindGroupPoolFlags per spec.md section 3.
type BindGroupPoolFlags uint32

const (
	PoolFlagCreateFreeBindGroups BindGroupPoolFlags = 1 << iota
	PoolFlagUpdateAfterBind
)

func (f BindGroupPoolFlags) Has(flag BindGroupPoolFlags) bool { return f&flag != 0 }

// PrimitiveTopology, CullMode, FrontFace, PolygonMode per spec.md section 3
// GraphicsPipeline rasterization/input-assembly state.
type PrimitiveTopology int

const (
	TopologyPointList PrimitiveTopology = iota
	TopologyLineList
	TopologyLineStrip
	TopologyTriangleList
	TopologyTriangleStrip
	TopologyTriangleFan
)

type CullMode int

const (
	CullModeNone CullMode = iota
	CullModeFront
	CullModeBack
	CullModeFrontAndBack
)

type FrontFace int

const (
	FrontFaceCounterClockwise FrontFace = iota
	FrontFaceClockwise
)

type PolygonMode int

const (
	PolygonModeFill PolygonMode = iota
	PolygonModeLine
	PolygonModePoint
)

// SampleCount mirrors Vulkan's power-of-two MSAA sample counts.
type SampleCount int

const (
	SampleCount1 SampleCount = 1 << iota
	SampleCount2
	SampleCount4
	SampleCount8
	SampleCount16
	SampleCount32
	SampleCount64
)

// IndexType for Buffer::setIndexBuffer.
type IndexType int

const (
	IndexTypeUint16 IndexType = iota
	IndexTypeUint32
)

// AdapterDeviceType classifies the physical device kind (spec.md section
// 4.2's selectAdapter convenience).
type AdapterDeviceType int

const (
	AdapterDeviceOther AdapterDeviceType = iota
	AdapterDeviceIntegratedGpu
	AdapterDeviceDiscreteGpu
	AdapterDeviceVirtualGpu
	AdapterDeviceCpu
)

// RayTracingShaderGroupType per spec.md section 3 RayTracingPipeline.
type RayTracingShaderGroupType int

const (
	ShaderGroupGeneral RayTracingShaderGroupType = iota
	ShaderGroupTriangleHit
	ShaderGroupProceduralHit
)

// AcquireImageResult enumerates Swapchain::getNextImageIndex outcomes
// (spec.md section 4.3).
type AcquireImageResult int

const (
	AcquireSuccess AcquireImageResult = iota
	AcquireSubOptimal
	AcquireNotReady
	AcquireOutOfDate
	AcquireSurfaceLost
	AcquireOutOfMemory
	AcquireDeviceLost
	AcquireValidationFailed
	AcquireUnknown
)

// PresentResult enumerates Queue::present's coalesced outcome (spec.md
// section 4.2).
type PresentResult int

const (
	PresentSuccess PresentResult = iota
	PresentOutOfMemory
	PresentDeviceLost
	PresentOutOfDate
	PresentSurfaceLost
)
