package vkcore

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/kdgpu/kgpucore"
)

type vkRayTracingPipeline struct {
	device       kgpu.Handle[kgpu.Device]
	handle       vk.Pipeline
	layout       kgpu.Handle[kgpu.PipelineLayoutTag]
	groupCount   uint32
}

func (a *VulkanApi) CreateRayTracingPipeline(h kgpu.Handle[kgpu.Device], opts kgpu.RayTracingPipelineOptions) (kgpu.Handle[kgpu.RayTracingPipelineTag], error) {
	dev := resolve[vkDevice, kgpu.Device](a.devices, h)
	layout := resolve[vkPipelineLayout, kgpu.PipelineLayoutTag](a.pipelineLayouts, opts.Layout)
	if dev == nil || layout == nil {
		return kgpu.Handle[kgpu.RayTracingPipelineTag]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreateRayTracingPipeline: device or layout does not resolve"}
	}
	ad := resolve[vkAdapter, kgpu.Adapter](a.adapters, dev.adapter)
	if ad == nil || ad.properties.Limits.ShaderGroupHandleSize == 0 {
		return kgpu.Handle[kgpu.RayTracingPipelineTag]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreateRayTracingPipeline: adapter does not support ray tracing"}
	}

	stages := make([]vk.PipelineShaderStageCreateInfo, len(opts.ShaderStages))
	for i, s := range opts.ShaderStages {
		mod := resolve[vkShaderModule, kgpu.ShaderModuleTag](a.shaderModules, s.Module)
		if mod == nil {
			return kgpu.Handle[kgpu.RayTracingPipelineTag]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreateRayTracingPipeline: shader module does not resolve"}
		}
		entry := s.EntryPoint
		if entry == "" {
			entry = "main"
		}
		stages[i] = vk.PipelineShaderStageCreateInfo{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  toVkShaderStageFlags(s.Stage),
			Module: mod.handle,
			PName:  entry + "\x00",
		}
	}

	groups := make([]vk.RayTracingShaderGroupCreateInfoKHR, len(opts.ShaderGroups))
	for i, g := range opts.ShaderGroups {
		groups[i] = vk.RayTracingShaderGroupCreateInfoKHR{
			SType:              vk.StructureTypeRayTracingShaderGroupCreateInfoKhr,
			GeneralShader:      vk.ShaderUnusedKhr,
			ClosestHitShader:   vk.ShaderUnusedKhr,
			AnyHitShader:       vk.ShaderUnusedKhr,
			IntersectionShader: vk.ShaderUnusedKhr,
		}
		switch g.Kind {
		case kgpu.ShaderGroupGeneral:
			groups[i].Type = vk.RayTracingShaderGroupTypeGeneralKhr
			groups[i].GeneralShader = rtIndex(g.GeneralIndex)
		case kgpu.ShaderGroupTriangleHit:
			groups[i].Type = vk.RayTracingShaderGroupTypeTrianglesHitGroupKhr
			groups[i].ClosestHitShader = rtIndex(g.ClosestHitIndex)
			groups[i].AnyHitShader = rtIndex(g.AnyHitIndex)
		case kgpu.ShaderGroupProceduralHit:
			groups[i].Type = vk.RayTracingShaderGroupTypeProceduralHitGroupKhr
			groups[i].IntersectionShader = rtIndex(g.IntersectionIndex)
			groups[i].ClosestHitShader = rtIndex(g.ClosestHitIndex)
			groups[i].AnyHitShader = rtIndex(g.AnyHitIndex)
		}
	}

	createInfos := []vk.RayTracingPipelineCreateInfoKHR{{
		SType:                         vk.StructureTypeRayTracingPipelineCreateInfoKhr,
		StageCount:                    uint32(len(stages)),
		PStages:                       stages,
		GroupCount:                    uint32(len(groups)),
		PGroups:                       groups,
		MaxPipelineRayRecursionDepth:  opts.MaxRecursionDepth,
		Layout:                        layout.handle,
	}}

	pipelines := make([]vk.Pipeline, 1)
	ret := vk.CreateRayTracingPipelinesKHR(dev.handle, vk.NullDeferredOperationKHR, vk.NullPipelineCache, 1, createInfos, nil, pipelines)
	if err := checkResult(ret, "VulkanApi.CreateRayTracingPipeline"); err != nil {
		return kgpu.Handle[kgpu.RayTracingPipelineTag]{}, err
	}

	return insert[vkRayTracingPipeline, kgpu.RayTracingPipelineTag](a.rtPipelines, vkRayTracingPipeline{
		device: h, handle: pipelines[0], layout: opts.Layout, groupCount: uint32(len(groups)),
	}), nil
}

func rtIndex(i int32) uint32 {
	if i < 0 {
		return vk.ShaderUnusedKhr
	}
	return uint32(i)
}

func (a *VulkanApi) DeleteRayTracingPipeline(h kgpu.Handle[kgpu.RayTracingPipelineTag]) {
	p := resolve[vkRayTracingPipeline, kgpu.RayTracingPipelineTag](a.rtPipelines, h)
	if p == nil {
		return
	}
	dev := resolve[vkDevice, kgpu.Device](a.devices, p.device)
	if dev != nil {
		vk.DestroyPipeline(dev.handle, p.handle, nil)
	}
	remove[vkRayTracingPipeline, kgpu.RayTracingPipelineTag](a.rtPipelines, h)
}

// vkShaderBindingTable packs raygen/miss/hit/callable group handles into a
// single buffer, aligned per the adapter's reported handle/base
// alignment (spec.md section 4.7). Each region is stored contiguously;
// stride is rounded up to ShaderGroupHandleAlignment and each region's
// start is rounded up to ShaderGroupBaseAlignment, matching the layout
// every KHR ray-tracing sample uses since traceRaysKHR requires base
// addresses aligned to shaderGroupBaseAlignment.
type vkShaderBindingTable struct {
	device   kgpu.Handle[kgpu.Device]
	pipeline kgpu.Handle[kgpu.RayTracingPipelineTag]
	buffer   kgpu.Handle[kgpu.BufferTag]
	raygen, miss, hit, callable kgpu.ShaderBindingTableRegion
}

func alignUp(v, align uint64) uint64 {
	if align == 0 {
		return v
	}
	return (v + align - 1) / align * align
}

func (a *VulkanApi) CreateShaderBindingTable(h kgpu.Handle[kgpu.Device], pipelineHandle kgpu.Handle[kgpu.RayTracingPipelineTag], opts kgpu.ShaderBindingTableOptions) (kgpu.Handle[kgpu.ShaderBindingTableTag], error) {
	dev := resolve[vkDevice, kgpu.Device](a.devices, h)
	pipeline := resolve[vkRayTracingPipeline, kgpu.RayTracingPipelineTag](a.rtPipelines, pipelineHandle)
	if dev == nil || pipeline == nil {
		return kgpu.Handle[kgpu.ShaderBindingTableTag]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreateShaderBindingTable: device or pipeline does not resolve"}
	}
	ad := resolve[vkAdapter, kgpu.Adapter](a.adapters, dev.adapter)
	if ad == nil || ad.properties.Limits.ShaderGroupHandleSize == 0 {
		return kgpu.Handle[kgpu.ShaderBindingTableTag]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreateShaderBindingTable: adapter does not support ray tracing"}
	}
	limits := ad.properties.Limits
	handleSize := uint64(limits.ShaderGroupHandleSize)
	handleAlign := uint64(limits.ShaderGroupHandleAlignment)
	baseAlign := uint64(limits.ShaderGroupBaseAlignment)
	stride := alignUp(handleSize, handleAlign)

	allHandles := make([]byte, handleSize*uint64(pipeline.groupCount))
	ret := vk.GetRayTracingShaderGroupHandlesKHR(dev.handle, pipeline.handle, 0, pipeline.groupCount, len(allHandles), allHandles)
	if err := checkResult(ret, "VulkanApi.CreateShaderBindingTable"); err != nil {
		return kgpu.Handle[kgpu.ShaderBindingTableTag]{}, err
	}

	type sbtSection struct {
		indices []uint32
		region  *kgpu.ShaderBindingTableRegion
	}
	var raygen, miss, hitR, callable kgpu.ShaderBindingTableRegion
	sections := []sbtSection{
		{opts.RaygenGroupIndices, &raygen},
		{opts.MissGroupIndices, &miss},
		{opts.HitGroupIndices, &hitR},
		{opts.CallableGroupIndices, &callable},
	}

	packed := make([]byte, 0, 256)
	growTo := func(n uint64) {
		for uint64(len(packed)) < n {
			packed = append(packed, 0)
		}
	}
	for _, s := range sections {
		if len(s.indices) == 0 {
			continue
		}
		start := alignUp(uint64(len(packed)), baseAlign)
		growTo(start)
		for _, idx := range s.indices {
			src := allHandles[uint64(idx)*handleSize : uint64(idx)*handleSize+handleSize]
			packed = append(packed, src...)
			growTo(uint64(len(packed)) - handleSize + stride)
		}
		*s.region = kgpu.ShaderBindingTableRegion{
			Offset: start,
			Stride: stride,
			Size:   uint64(len(packed)) - start,
		}
	}

	bufHandle, err := a.CreateBuffer(h, kgpu.BufferOptions{
		Size:        uint64(len(packed)),
		Usage:       kgpu.BufferUsageShaderBindingTable | kgpu.BufferUsageShaderDeviceAddress | kgpu.BufferUsageTransferDst,
		MemoryUsage: kgpu.MemoryUsageCpuToGpu,
	})
	if err != nil {
		return kgpu.Handle[kgpu.ShaderBindingTableTag]{}, err
	}
	mapped, err := a.MapBuffer(bufHandle)
	if err != nil {
		a.DeleteBuffer(bufHandle)
		return kgpu.Handle[kgpu.ShaderBindingTableTag]{}, err
	}
	copy(mapped, packed)
	if err := a.FlushBuffer(bufHandle); err != nil {
		a.DeleteBuffer(bufHandle)
		return kgpu.Handle[kgpu.ShaderBindingTableTag]{}, err
	}
	a.UnmapBuffer(bufHandle)

	raygen.Buffer, miss.Buffer, hitR.Buffer, callable.Buffer = bufHandle, bufHandle, bufHandle, bufHandle

	return insert[vkShaderBindingTable, kgpu.ShaderBindingTableTag](a.sbts, vkShaderBindingTable{
		device: h, pipeline: pipelineHandle, buffer: bufHandle,
		raygen: raygen, miss: miss, hit: hitR, callable: callable,
	}), nil
}

func (a *VulkanApi) DeleteShaderBindingTable(h kgpu.Handle[kgpu.ShaderBindingTableTag]) {
	sbt := resolve[vkShaderBindingTable, kgpu.ShaderBindingTableTag](a.sbts, h)
	if sbt == nil {
		return
	}
	a.DeleteBuffer(sbt.buffer)
	remove[vkShaderBindingTable, kgpu.ShaderBindingTableTag](a.sbts, h)
}

// ShaderBindingTableRegions implements kgpu.RegionProvider.
func (a *VulkanApi) ShaderBindingTableRegions(h kgpu.Handle[kgpu.ShaderBindingTableTag]) (raygen, miss, hit, callable kgpu.ShaderBindingTableRegion) {
	sbt := resolve[vkShaderBindingTable, kgpu.ShaderBindingTableTag](a.sbts, h)
	if sbt == nil {
		return
	}
	return sbt.raygen, sbt.miss, sbt.hit, sbt.callable
}
