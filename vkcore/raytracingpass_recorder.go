package vkcore

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/kdgpu/kgpucore"
)

func (a *VulkanApi) SetRayTracingPipeline(h kgpu.RayTracingPassRecorderHandle, pipeline kgpu.Handle[kgpu.RayTracingPipelineTag]) error {
	cr, err := a.resolveRayTracingPass(h)
	if err != nil {
		return err
	}
	p := resolve[vkRayTracingPipeline, kgpu.RayTracingPipelineTag](a.rtPipelines, pipeline)
	if p == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.SetRayTracingPipeline: pipeline does not resolve"}
	}
	vk.CmdBindPipeline(cr.handle, vk.PipelineBindPointRayTracingKhr, p.handle)
	cr.boundLayout = p.layout
	return nil
}

func (a *VulkanApi) SetRayTracingBindGroup(h kgpu.RayTracingPassRecorderHandle, group uint32, bindGroup kgpu.Handle[kgpu.BindGroupTag], pipelineLayout kgpu.Handle[kgpu.PipelineLayoutTag], dynamicOffsets []uint32) error {
	cr, err := a.resolveRayTracingPass(h)
	if err != nil {
		return err
	}
	bg := resolve[vkBindGroup, kgpu.BindGroupTag](a.bindGroups, bindGroup)
	if bg == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.SetRayTracingBindGroup: bind group does not resolve"}
	}
	pl, err := a.resolvePipelineLayout(cr, pipelineLayout)
	if err != nil {
		return err
	}
	vk.CmdBindDescriptorSets(cr.handle, vk.PipelineBindPointRayTracingKhr, pl.handle, group, 1, []vk.DescriptorSet{bg.handle}, uint32(len(dynamicOffsets)), dynamicOffsets)
	return nil
}

func (a *VulkanApi) RayTracingPushConstant(h kgpu.RayTracingPassRecorderHandle, r kgpu.PushConstantRange, data []byte, pipelineLayout kgpu.Handle[kgpu.PipelineLayoutTag]) error {
	cr, err := a.resolveRayTracingPass(h)
	if err != nil {
		return err
	}
	pl, err := a.resolvePipelineLayout(cr, pipelineLayout)
	if err != nil {
		return err
	}
	vk.CmdPushConstants(cr.handle, pl.handle, vk.ShaderStageFlags(toVkShaderStageFlags(r.ShaderStages)), r.Offset, r.Size, pushConstantData(data))
	return nil
}

func (a *VulkanApi) RayTracingPushBindGroup(h kgpu.RayTracingPassRecorderHandle, group uint32, entries []kgpu.BindGroupEntry, pipelineLayout kgpu.Handle[kgpu.PipelineLayoutTag]) error {
	cr, err := a.resolveRayTracingPass(h)
	if err != nil {
		return err
	}
	pl, err := a.resolvePipelineLayout(cr, pipelineLayout)
	if err != nil {
		return err
	}
	writes, err := a.buildPushDescriptorWrites(pl, group, entries)
	if err != nil {
		return err
	}
	vk.CmdPushDescriptorSetKHR(cr.handle, vk.PipelineBindPointRayTracingKhr, pl.handle, group, uint32(len(writes)), writes)
	return nil
}

func toVkStridedAddressRegion(a *VulkanApi, r kgpu.ShaderBindingTableRegion) (vk.StridedDeviceAddressRegionKHR, error) {
	if r.Size == 0 {
		return vk.StridedDeviceAddressRegionKHR{}, nil
	}
	addr, err := a.BufferDeviceAddress(r.Buffer)
	if err != nil {
		return vk.StridedDeviceAddressRegionKHR{}, err
	}
	return vk.StridedDeviceAddressRegionKHR{
		DeviceAddress: vk.DeviceAddress(addr + r.Offset),
		Stride:        vk.DeviceSize(r.Stride),
		Size:          vk.DeviceSize(r.Size),
	}, nil
}

// TraceRays records vkCmdTraceRaysKHR, resolving each shader-binding-table
// region's device address via BufferDeviceAddress (spec.md section 4.7;
// the buffer backing the region must have been created with
// BufferUsageShaderDeviceAddress, enforced when the table was built).
func (a *VulkanApi) TraceRays(h kgpu.RayTracingPassRecorderHandle, opts kgpu.TraceRaysOptions) error {
	cr, err := a.resolveRayTracingPass(h)
	if err != nil {
		return err
	}
	raygen, err := toVkStridedAddressRegion(a, opts.RaygenRegion)
	if err != nil {
		return err
	}
	miss, err := toVkStridedAddressRegion(a, opts.MissRegion)
	if err != nil {
		return err
	}
	hit, err := toVkStridedAddressRegion(a, opts.HitRegion)
	if err != nil {
		return err
	}
	callable, err := toVkStridedAddressRegion(a, opts.CallableRegion)
	if err != nil {
		return err
	}
	vk.CmdTraceRaysKHR(cr.handle, &raygen, &miss, &hit, &callable, opts.Width, opts.Height, opts.Depth)
	return nil
}

func (a *VulkanApi) EndRayTracingPass(h kgpu.RayTracingPassRecorderHandle) error {
	cr, err := a.resolveRayTracingPass(h)
	if err != nil {
		return err
	}
	cr.open = passNone
	cr.boundLayout = kgpu.Handle[kgpu.PipelineLayoutTag]{}
	return nil
}
