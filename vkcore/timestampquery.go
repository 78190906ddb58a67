package vkcore

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"

	"github.com/kdgpu/kgpucore"
)

// timestampPoolCapacity bounds the single per-device timestamp query pool
// (spec.md section 4.2 point 5). CreateTimestampQueryRecorder bump-allocates
// contiguous ranges out of it; the pool is never resized.
const timestampPoolCapacity = 4096

type vkTimestampQueryRange struct {
	device kgpu.Handle[kgpu.Device]
	first  uint32
	count  uint32
}

func pipelineStageForShaderStage(s kgpu.ShaderStage) vk.PipelineStageFlagBits {
	switch {
	case s.Has(kgpu.ShaderStageVertex):
		return vk.PipelineStageVertexShaderBit
	case s.Has(kgpu.ShaderStageFragment):
		return vk.PipelineStageFragmentShaderBit
	case s.Has(kgpu.ShaderStageCompute):
		return vk.PipelineStageComputeShaderBit
	case s.Has(kgpu.ShaderStageTessControl):
		return vk.PipelineStageTessellationControlShaderBit
	case s.Has(kgpu.ShaderStageTessEvaluation):
		return vk.PipelineStageTessellationEvaluationShaderBit
	case s.Has(kgpu.ShaderStageGeometry):
		return vk.PipelineStageGeometryShaderBit
	case s.Has(kgpu.ShaderStageMesh), s.Has(kgpu.ShaderStageTask):
		return vk.PipelineStageMeshShaderBit
	case s.Has(kgpu.ShaderStageRaygen), s.Has(kgpu.ShaderStageAnyHit), s.Has(kgpu.ShaderStageClosestHit),
		s.Has(kgpu.ShaderStageMiss), s.Has(kgpu.ShaderStageIntersection), s.Has(kgpu.ShaderStageCallable):
		return vk.PipelineStageRayTracingShaderBitKhr
	default:
		return vk.PipelineStageAllCommandsBit
	}
}

// ensureTimestampPool lazily creates dev.timestampPool on first use and
// resets every slot via a one-shot command buffer, since a VkQueryPool must
// be reset before its first use (no VK_EXT_host_query_reset dependency
// here; the one-shot command buffer idiom already used by
// HostCopyTexture/GenerateMipMaps in texture.go covers it).
func (a *VulkanApi) ensureTimestampPool(h kgpu.Handle[kgpu.Device], dev *vkDevice) error {
	if dev.timestampPool != nil {
		return nil
	}
	var pool vk.QueryPool
	ret := vk.CreateQueryPool(dev.handle, &vk.QueryPoolCreateInfo{
		SType:      vk.StructureTypeQueryPoolCreateInfo,
		QueryType:  vk.QueryTypeTimestamp,
		QueryCount: timestampPoolCapacity,
	}, nil, &pool)
	if err := checkResult(ret, "VulkanApi.ensureTimestampPool: CreateQueryPool"); err != nil {
		return err
	}

	queues := a.DeviceQueues(h)
	if len(queues) == 0 {
		vk.DestroyQueryPool(dev.handle, pool, nil)
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.ensureTimestampPool: device has no queues"}
	}
	cmdPool, err := a.commandPoolFor(dev, dev.queues[queues[0].Index].family)
	if err != nil {
		vk.DestroyQueryPool(dev.handle, pool, nil)
		return err
	}
	cmd, err := allocateOneShotCommandBuffer(dev.handle, cmdPool)
	if err != nil {
		vk.DestroyQueryPool(dev.handle, pool, nil)
		return err
	}
	vk.CmdResetQueryPool(cmd, pool, 0, timestampPoolCapacity)
	if err := submitOneShotCommandBuffer(dev, queues[0], cmd); err != nil {
		vk.FreeCommandBuffers(dev.handle, cmdPool, 1, []vk.CommandBuffer{cmd})
		vk.DestroyQueryPool(dev.handle, pool, nil)
		return err
	}
	vk.FreeCommandBuffers(dev.handle, cmdPool, 1, []vk.CommandBuffer{cmd})

	dev.timestampPool = pool
	dev.timestampCap = timestampPoolCapacity
	dev.timestampNext = 0
	return nil
}

func (a *VulkanApi) CreateTimestampQueryRecorder(h kgpu.Handle[kgpu.Device], opts kgpu.TimestampQueryOptions) (kgpu.Handle[kgpu.TimestampQueryTag], error) {
	dev := resolve[vkDevice, kgpu.Device](a.devices, h)
	if dev == nil {
		return kgpu.Handle[kgpu.TimestampQueryTag]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreateTimestampQueryRecorder: device does not resolve"}
	}
	if opts.QueryCount == 0 {
		return kgpu.Handle[kgpu.TimestampQueryTag]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreateTimestampQueryRecorder: QueryCount must be nonzero"}
	}
	if err := a.ensureTimestampPool(h, dev); err != nil {
		return kgpu.Handle[kgpu.TimestampQueryTag]{}, err
	}
	if dev.timestampNext+opts.QueryCount > dev.timestampCap {
		return kgpu.Handle[kgpu.TimestampQueryTag]{}, &kgpu.Error{Kind: kgpu.KindOutOfMemory, Site: "VulkanApi.CreateTimestampQueryRecorder: device timestamp query pool exhausted"}
	}
	rng := vkTimestampQueryRange{device: h, first: dev.timestampNext, count: opts.QueryCount}
	dev.timestampNext += opts.QueryCount
	return insert[vkTimestampQueryRange, kgpu.TimestampQueryTag](a.timestampQueries, rng), nil
}

func (a *VulkanApi) DeleteTimestampQueryRecorder(h kgpu.Handle[kgpu.TimestampQueryTag]) {
	remove[vkTimestampQueryRange, kgpu.TimestampQueryTag](a.timestampQueries, h)
}

func (a *VulkanApi) WriteTimestamp(crh kgpu.Handle[kgpu.CommandRecorderTag], query kgpu.Handle[kgpu.TimestampQueryTag], index uint32, stage kgpu.ShaderStage) error {
	cr := resolve[vkCommandRecorder, kgpu.CommandRecorderTag](a.commandRecorders, crh)
	if cr == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.WriteTimestamp: command recorder does not resolve"}
	}
	rng := resolve[vkTimestampQueryRange, kgpu.TimestampQueryTag](a.timestampQueries, query)
	if rng == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.WriteTimestamp: timestamp recorder does not resolve"}
	}
	if index >= rng.count {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.WriteTimestamp: index out of range"}
	}
	dev := resolve[vkDevice, kgpu.Device](a.devices, rng.device)
	if dev == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.WriteTimestamp: device does not resolve"}
	}
	vk.CmdWriteTimestamp(cr.handle, pipelineStageForShaderStage(stage), dev.timestampPool, rng.first+index)
	return nil
}

func (a *VulkanApi) ResolveTimestampQueries(query kgpu.Handle[kgpu.TimestampQueryTag], firstIndex, count uint32) ([]uint64, error) {
	rng := resolve[vkTimestampQueryRange, kgpu.TimestampQueryTag](a.timestampQueries, query)
	if rng == nil {
		return nil, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.ResolveTimestampQueries: timestamp recorder does not resolve"}
	}
	if firstIndex+count > rng.count {
		return nil, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.ResolveTimestampQueries: range out of bounds"}
	}
	dev := resolve[vkDevice, kgpu.Device](a.devices, rng.device)
	if dev == nil {
		return nil, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.ResolveTimestampQueries: device does not resolve"}
	}
	if count == 0 {
		return nil, nil
	}
	results := make([]uint64, count)
	dataSize := int(count) * 8
	ret := vk.GetQueryPoolResults(dev.handle, dev.timestampPool, rng.first+firstIndex, count, dataSize, unsafe.Pointer(&results[0]), 8,
		vk.QueryResultFlags(vk.QueryResult64Bit|vk.QueryResultWaitBit))
	if err := checkResult(ret, "VulkanApi.ResolveTimestampQueries: GetQueryPoolResults"); err != nil {
		return nil, err
	}
	return results, nil
}
