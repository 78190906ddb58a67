package vkcore

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/kdgpu/kgpucore"
)

// toVkFormat/fromVkFormat translate between kgpu's pared-down Format
// enumeration and vk.Format, in the spirit of the enum-to-backend mapping
// tables retrieved from other_examples/f2b31105_cogentcore-core__vgpu-opts.go.go.
func toVkFormat(f kgpu.Format) vk.Format {
	switch f {
	case kgpu.FormatR8Unorm:
		return vk.FormatR8Unorm
	case kgpu.FormatR8G8Unorm:
		return vk.FormatR8g8Unorm
	case kgpu.FormatR8G8B8A8Unorm:
		return vk.FormatR8g8b8a8Unorm
	case kgpu.FormatR8G8B8A8Srgb:
		return vk.FormatR8g8b8a8Srgb
	case kgpu.FormatB8G8R8A8Unorm:
		return vk.FormatB8g8r8a8Unorm
	case kgpu.FormatB8G8R8A8Srgb:
		return vk.FormatB8g8r8a8Srgb
	case kgpu.FormatR16G16Sfloat:
		return vk.FormatR16g16Sfloat
	case kgpu.FormatR16G16B16A16Sfloat:
		return vk.FormatR16g16b16a16Sfloat
	case kgpu.FormatR32Sfloat:
		return vk.FormatR32Sfloat
	case kgpu.FormatR32G32Sfloat:
		return vk.FormatR32g32Sfloat
	case kgpu.FormatR32G32B32Sfloat:
		return vk.FormatR32g32b32Sfloat
	case kgpu.FormatR32G32B32A32Sfloat:
		return vk.FormatR32g32b32a32Sfloat
	case kgpu.FormatD16Unorm:
		return vk.FormatD16Unorm
	case kgpu.FormatD24UnormS8Uint:
		return vk.FormatD24UnormS8Uint
	case kgpu.FormatD32Sfloat:
		return vk.FormatD32Sfloat
	case kgpu.FormatD32SfloatS8Uint:
		return vk.FormatD32SfloatS8Uint
	default:
		return vk.FormatUndefined
	}
}

func fromVkFormat(f vk.Format) kgpu.Format {
	switch f {
	case vk.FormatR8Unorm:
		return kgpu.FormatR8Unorm
	case vk.FormatR8g8Unorm:
		return kgpu.FormatR8G8Unorm
	case vk.FormatR8g8b8a8Unorm:
		return kgpu.FormatR8G8B8A8Unorm
	case vk.FormatR8g8b8a8Srgb:
		return kgpu.FormatR8G8B8A8Srgb
	case vk.FormatB8g8r8a8Unorm:
		return kgpu.FormatB8G8R8A8Unorm
	case vk.FormatB8g8r8a8Srgb:
		return kgpu.FormatB8G8R8A8Srgb
	case vk.FormatR16g16Sfloat:
		return kgpu.FormatR16G16Sfloat
	case vk.FormatR16g16b16a16Sfloat:
		return kgpu.FormatR16G16B16A16Sfloat
	case vk.FormatR32Sfloat:
		return kgpu.FormatR32Sfloat
	case vk.FormatR32g32Sfloat:
		return kgpu.FormatR32G32Sfloat
	case vk.FormatR32g32b32Sfloat:
		return kgpu.FormatR32G32B32Sfloat
	case vk.FormatR32g32b32a32Sfloat:
		return kgpu.FormatR32G32B32A32Sfloat
	case vk.FormatD16Unorm:
		return kgpu.FormatD16Unorm
	case vk.FormatD24UnormS8Uint:
		return kgpu.FormatD24UnormS8Uint
	case vk.FormatD32Sfloat:
		return kgpu.FormatD32Sfloat
	case vk.FormatD32SfloatS8Uint:
		return kgpu.FormatD32SfloatS8Uint
	default:
		return kgpu.FormatUndefined
	}
}

func isDepthFormat(f kgpu.Format) bool {
	switch f {
	case kgpu.FormatD16Unorm, kgpu.FormatD24UnormS8Uint, kgpu.FormatD32Sfloat, kgpu.FormatD32SfloatS8Uint:
		return true
	default:
		return false
	}
}

func hasStencil(f kgpu.Format) bool {
	return f == kgpu.FormatD24UnormS8Uint || f == kgpu.FormatD32SfloatS8Uint
}

func toVkImageType(t kgpu.TextureType) vk.ImageType {
	switch t {
	case kgpu.TextureType1D:
		return vk.ImageType1d
	case kgpu.TextureType3D:
		return vk.ImageType3d
	default:
		return vk.ImageType2d
	}
}

func toVkImageViewType(t kgpu.TextureViewType) vk.ImageViewType {
	switch t {
	case kgpu.ViewType1D:
		return vk.ImageViewType1d
	case kgpu.ViewType2DArray:
		return vk.ImageViewType2dArray
	case kgpu.ViewTypeCube:
		return vk.ImageViewTypeCube
	case kgpu.ViewTypeCubeArray:
		return vk.ImageViewTypeCubeArray
	case kgpu.ViewType3D:
		return vk.ImageViewType3d
	default:
		return vk.ImageViewType2d
	}
}

func toVkImageUsage(u kgpu.TextureUsage) vk.ImageUsageFlagBits {
	var out vk.ImageUsageFlagBits
	if u.Has(kgpu.TextureUsageTransferSrc) {
		out |= vk.ImageUsageTransferSrcBit
	}
	if u.Has(kgpu.TextureUsageTransferDst) {
		out |= vk.ImageUsageTransferDstBit
	}
	if u.Has(kgpu.TextureUsageSampled) {
		out |= vk.ImageUsageSampledBit
	}
	if u.Has(kgpu.TextureUsageStorage) {
		out |= vk.ImageUsageStorageBit
	}
	if u.Has(kgpu.TextureUsageColorAttachment) {
		out |= vk.ImageUsageColorAttachmentBit
	}
	if u.Has(kgpu.TextureUsageDepthStencilAttachment) {
		out |= vk.ImageUsageDepthStencilAttachmentBit
	}
	if u.Has(kgpu.TextureUsageInputAttachment) {
		out |= vk.ImageUsageInputAttachmentBit
	}
	return out
}

func toVkBufferUsage(u kgpu.BufferUsage) vk.BufferUsageFlagBits {
	var out vk.BufferUsageFlagBits
	if u.Has(kgpu.BufferUsageVertex) {
		out |= vk.BufferUsageVertexBufferBit
	}
	if u.Has(kgpu.BufferUsageIndex) {
		out |= vk.BufferUsageIndexBufferBit
	}
	if u.Has(kgpu.BufferUsageUniform) {
		out |= vk.BufferUsageUniformBufferBit
	}
	if u.Has(kgpu.BufferUsageStorage) {
		out |= vk.BufferUsageStorageBufferBit
	}
	if u.Has(kgpu.BufferUsageIndirect) {
		out |= vk.BufferUsageIndirectBufferBit
	}
	if u.Has(kgpu.BufferUsageTransferSrc) {
		out |= vk.BufferUsageTransferSrcBit
	}
	if u.Has(kgpu.BufferUsageTransferDst) {
		out |= vk.BufferUsageTransferDstBit
	}
	if u.Has(kgpu.BufferUsageShaderBindingTable) {
		out |= vk.BufferUsageFlagBits(vk.BufferUsageShaderBindingTableBitKhr)
	}
	if u.Has(kgpu.BufferUsageShaderDeviceAddress) {
		out |= vk.BufferUsageFlagBits(vk.BufferUsageShaderDeviceAddressBit)
	}
	return out
}

// toVkMemoryProperty maps the MemoryUsage classification to the memory
// property flags the allocator searches for, grounded in the teacher's
// buffers.go memory-type search loop.
func toVkMemoryProperty(u kgpu.MemoryUsage) vk.MemoryPropertyFlagBits {
	switch u {
	case kgpu.MemoryUsageCpuToGpu:
		return vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit
	case kgpu.MemoryUsageGpuToCpu:
		return vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit | vk.MemoryPropertyHostCachedBit
	case kgpu.MemoryUsageCpuOnly:
		return vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit
	default:
		return vk.MemoryPropertyDeviceLocalBit
	}
}

func toVkImageLayout(l kgpu.ImageLayout) vk.ImageLayout {
	switch l {
	case kgpu.ImageLayoutGeneral:
		return vk.ImageLayoutGeneral
	case kgpu.ImageLayoutColorAttachmentOptimal:
		return vk.ImageLayoutColorAttachmentOptimal
	case kgpu.ImageLayoutDepthStencilAttachmentOptimal:
		return vk.ImageLayoutDepthStencilAttachmentOptimal
	case kgpu.ImageLayoutDepthStencilReadOnlyOptimal:
		return vk.ImageLayoutDepthStencilReadOnlyOptimal
	case kgpu.ImageLayoutShaderReadOnlyOptimal:
		return vk.ImageLayoutShaderReadOnlyOptimal
	case kgpu.ImageLayoutTransferSrcOptimal:
		return vk.ImageLayoutTransferSrcOptimal
	case kgpu.ImageLayoutTransferDstOptimal:
		return vk.ImageLayoutTransferDstOptimal
	case kgpu.ImageLayoutPresentSrc:
		return vk.ImageLayoutPresentSrcKhr
	default:
		return vk.ImageLayoutUndefined
	}
}

func toVkAttachmentLoadOp(op kgpu.LoadOp) vk.AttachmentLoadOp {
	switch op {
	case kgpu.LoadOpClear:
		return vk.AttachmentLoadOpClear
	case kgpu.LoadOpDontCare:
		return vk.AttachmentLoadOpDontCare
	default:
		return vk.AttachmentLoadOpLoad
	}
}

func toVkAttachmentStoreOp(op kgpu.StoreOp) vk.AttachmentStoreOp {
	if op == kgpu.StoreOpDontCare {
		return vk.AttachmentStoreOpDontCare
	}
	return vk.AttachmentStoreOpStore
}

func toVkSampleCount(s kgpu.SampleCount) vk.SampleCountFlagBits {
	switch s {
	case kgpu.SampleCount2:
		return vk.SampleCount2Bit
	case kgpu.SampleCount4:
		return vk.SampleCount4Bit
	case kgpu.SampleCount8:
		return vk.SampleCount8Bit
	case kgpu.SampleCount16:
		return vk.SampleCount16Bit
	case kgpu.SampleCount32:
		return vk.SampleCount32Bit
	case kgpu.SampleCount64:
		return vk.SampleCount64Bit
	default:
		return vk.SampleCount1Bit
	}
}

func toVkResolveMode(m kgpu.ResolveMode) vk.ResolveModeFlagBits {
	switch m {
	case kgpu.ResolveModeAverage:
		return vk.ResolveModeAverageBit
	case kgpu.ResolveModeMin:
		return vk.ResolveModeMinBit
	case kgpu.ResolveModeMax:
		return vk.ResolveModeMaxBit
	case kgpu.ResolveModeSampleZero:
		return vk.ResolveModeSampleZeroBit
	default:
		return vk.ResolveModeNone
	}
}

func toVkCompareOp(op kgpu.CompareOp) vk.CompareOp {
	switch op {
	case kgpu.CompareOpLess:
		return vk.CompareOpLess
	case kgpu.CompareOpEqual:
		return vk.CompareOpEqual
	case kgpu.CompareOpLessOrEqual:
		return vk.CompareOpLessOrEqual
	case kgpu.CompareOpGreater:
		return vk.CompareOpGreater
	case kgpu.CompareOpNotEqual:
		return vk.CompareOpNotEqual
	case kgpu.CompareOpGreaterOrEqual:
		return vk.CompareOpGreaterOrEqual
	case kgpu.CompareOpAlways:
		return vk.CompareOpAlways
	default:
		return vk.CompareOpNever
	}
}

func toVkFilter(f kgpu.FilterMode) vk.Filter {
	if f == kgpu.FilterLinear {
		return vk.FilterLinear
	}
	return vk.FilterNearest
}

func toVkMipmapMode(m kgpu.MipmapMode) vk.SamplerMipmapMode {
	if m == kgpu.MipmapLinear {
		return vk.SamplerMipmapModeLinear
	}
	return vk.SamplerMipmapModeNearest
}

func toVkAddressMode(a kgpu.AddressMode) vk.SamplerAddressMode {
	switch a {
	case kgpu.AddressMirroredRepeat:
		return vk.SamplerAddressModeMirroredRepeat
	case kgpu.AddressClampToEdge:
		return vk.SamplerAddressModeClampToEdge
	case kgpu.AddressClampToBorder:
		return vk.SamplerAddressModeClampToBorder
	default:
		return vk.SamplerAddressModeRepeat
	}
}

func toVkPrimitiveTopology(t kgpu.PrimitiveTopology) vk.PrimitiveTopology {
	switch t {
	case kgpu.TopologyPointList:
		return vk.PrimitiveTopologyPointList
	case kgpu.TopologyLineList:
		return vk.PrimitiveTopologyLineList
	case kgpu.TopologyLineStrip:
		return vk.PrimitiveTopologyLineStrip
	case kgpu.TopologyTriangleStrip:
		return vk.PrimitiveTopologyTriangleStrip
	case kgpu.TopologyTriangleFan:
		return vk.PrimitiveTopologyTriangleFan
	default:
		return vk.PrimitiveTopologyTriangleList
	}
}

func toVkCullMode(c kgpu.CullMode) vk.CullModeFlagBits {
	switch c {
	case kgpu.CullModeFront:
		return vk.CullModeFrontBit
	case kgpu.CullModeBack:
		return vk.CullModeBackBit
	case kgpu.CullModeFrontAndBack:
		return vk.CullModeFrontAndBack
	default:
		return vk.CullModeNone
	}
}

func toVkFrontFace(f kgpu.FrontFace) vk.FrontFace {
	if f == kgpu.FrontFaceClockwise {
		return vk.FrontFaceClockwise
	}
	return vk.FrontFaceCounterClockwise
}

func toVkPolygonMode(p kgpu.PolygonMode) vk.PolygonMode {
	switch p {
	case kgpu.PolygonModeLine:
		return vk.PolygonModeLine
	case kgpu.PolygonModePoint:
		return vk.PolygonModePoint
	default:
		return vk.PolygonModeFill
	}
}

func toVkBlendFactor(f kgpu.BlendFactor) vk.BlendFactor {
	switch f {
	case kgpu.BlendFactorOne:
		return vk.BlendFactorOne
	case kgpu.BlendFactorSrcAlpha:
		return vk.BlendFactorSrcAlpha
	case kgpu.BlendFactorOneMinusSrcAlpha:
		return vk.BlendFactorOneMinusSrcAlpha
	case kgpu.BlendFactorDstAlpha:
		return vk.BlendFactorDstAlpha
	case kgpu.BlendFactorOneMinusDstAlpha:
		return vk.BlendFactorOneMinusDstAlpha
	default:
		return vk.BlendFactorZero
	}
}

func toVkBlendOp(op kgpu.BlendOp) vk.BlendOp {
	switch op {
	case kgpu.BlendOpSubtract:
		return vk.BlendOpSubtract
	case kgpu.BlendOpReverseSubtract:
		return vk.BlendOpReverseSubtract
	case kgpu.BlendOpMin:
		return vk.BlendOpMin
	case kgpu.BlendOpMax:
		return vk.BlendOpMax
	default:
		return vk.BlendOpAdd
	}
}

func toVkShaderStageFlags(s kgpu.ShaderStage) vk.ShaderStageFlagBits {
	var out vk.ShaderStageFlagBits
	if s.Has(kgpu.ShaderStageVertex) {
		out |= vk.ShaderStageVertexBit
	}
	if s.Has(kgpu.ShaderStageFragment) {
		out |= vk.ShaderStageFragmentBit
	}
	if s.Has(kgpu.ShaderStageCompute) {
		out |= vk.ShaderStageComputeBit
	}
	if s.Has(kgpu.ShaderStageTessControl) {
		out |= vk.ShaderStageTessellationControlBit
	}
	if s.Has(kgpu.ShaderStageTessEvaluation) {
		out |= vk.ShaderStageTessellationEvaluationBit
	}
	if s.Has(kgpu.ShaderStageGeometry) {
		out |= vk.ShaderStageGeometryBit
	}
	if s.Has(kgpu.ShaderStageMesh) {
		out |= vk.ShaderStageFlagBits(vk.ShaderStageMeshBitExt)
	}
	if s.Has(kgpu.ShaderStageTask) {
		out |= vk.ShaderStageFlagBits(vk.ShaderStageTaskBitExt)
	}
	if s.Has(kgpu.ShaderStageRaygen) {
		out |= vk.ShaderStageFlagBits(vk.ShaderStageRaygenBitKhr)
	}
	if s.Has(kgpu.ShaderStageAnyHit) {
		out |= vk.ShaderStageFlagBits(vk.ShaderStageAnyHitBitKhr)
	}
	if s.Has(kgpu.ShaderStageClosestHit) {
		out |= vk.ShaderStageFlagBits(vk.ShaderStageClosestHitBitKhr)
	}
	if s.Has(kgpu.ShaderStageMiss) {
		out |= vk.ShaderStageFlagBits(vk.ShaderStageMissBitKhr)
	}
	if s.Has(kgpu.ShaderStageIntersection) {
		out |= vk.ShaderStageFlagBits(vk.ShaderStageIntersectionBitKhr)
	}
	if s.Has(kgpu.ShaderStageCallable) {
		out |= vk.ShaderStageFlagBits(vk.ShaderStageCallableBitKhr)
	}
	return out
}

func toVkDescriptorType(t kgpu.ResourceBindingType) vk.DescriptorType {
	switch t {
	case kgpu.BindingDynamicUniformBuffer:
		return vk.DescriptorTypeUniformBufferDynamic
	case kgpu.BindingStorageBuffer:
		return vk.DescriptorTypeStorageBuffer
	case kgpu.BindingDynamicStorageBuffer:
		return vk.DescriptorTypeStorageBufferDynamic
	case kgpu.BindingSampler:
		return vk.DescriptorTypeSampler
	case kgpu.BindingCombinedImageSampler:
		return vk.DescriptorTypeCombinedImageSampler
	case kgpu.BindingSampledImage:
		return vk.DescriptorTypeSampledImage
	case kgpu.BindingStorageImage:
		return vk.DescriptorTypeStorageImage
	case kgpu.BindingUniformTexelBuffer:
		return vk.DescriptorTypeUniformTexelBuffer
	case kgpu.BindingStorageTexelBuffer:
		return vk.DescriptorTypeStorageTexelBuffer
	case kgpu.BindingInputAttachment:
		return vk.DescriptorTypeInputAttachment
	case kgpu.BindingAccelerationStructure:
		return vk.DescriptorType(vk.DescriptorTypeAccelerationStructureKhr)
	default:
		return vk.DescriptorTypeUniformBuffer
	}
}

func toVkIndexType(t kgpu.IndexType) vk.IndexType {
	if t == kgpu.IndexTypeUint32 {
		return vk.IndexTypeUint32
	}
	return vk.IndexTypeUint16
}

func toVkPresentMode(m kgpu.PresentMode) vk.PresentMode {
	switch m {
	case kgpu.PresentModeImmediate:
		return vk.PresentModeImmediate
	case kgpu.PresentModeMailbox:
		return vk.PresentModeMailbox
	case kgpu.PresentModeFifoRelaxed:
		return vk.PresentModeFifoRelaxed
	default:
		return vk.PresentModeFifo
	}
}

func toVkComponentSwizzle(s kgpu.SwizzleComponent) vk.ComponentSwizzle {
	switch s {
	case kgpu.ComponentZero:
		return vk.ComponentSwizzleZero
	case kgpu.ComponentOne:
		return vk.ComponentSwizzleOne
	case kgpu.ComponentR:
		return vk.ComponentSwizzleR
	case kgpu.ComponentG:
		return vk.ComponentSwizzleG
	case kgpu.ComponentB:
		return vk.ComponentSwizzleB
	case kgpu.ComponentA:
		return vk.ComponentSwizzleA
	default:
		return vk.ComponentSwizzleIdentity
	}
}

func toVkImageAspect(a kgpu.ImageAspect) vk.ImageAspectFlagBits {
	var out vk.ImageAspectFlagBits
	if a.Has(kgpu.ImageAspectColor) {
		out |= vk.ImageAspectColorBit
	}
	if a.Has(kgpu.ImageAspectDepth) {
		out |= vk.ImageAspectDepthBit
	}
	if a.Has(kgpu.ImageAspectStencil) {
		out |= vk.ImageAspectStencilBit
	}
	if out == 0 {
		out = vk.ImageAspectColorBit
	}
	return out
}
