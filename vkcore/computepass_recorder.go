package vkcore

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/kdgpu/kgpucore"
)

func (a *VulkanApi) SetComputePipeline(h kgpu.ComputePassRecorderHandle, pipeline kgpu.Handle[kgpu.ComputePipelineTag]) error {
	cr, err := a.resolveComputePass(h)
	if err != nil {
		return err
	}
	p := resolve[vkComputePipeline, kgpu.ComputePipelineTag](a.computePipelines, pipeline)
	if p == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.SetComputePipeline: pipeline does not resolve"}
	}
	vk.CmdBindPipeline(cr.handle, vk.PipelineBindPointCompute, p.handle)
	cr.boundLayout = p.layout
	return nil
}

func (a *VulkanApi) SetComputeBindGroup(h kgpu.ComputePassRecorderHandle, group uint32, bindGroup kgpu.Handle[kgpu.BindGroupTag], pipelineLayout kgpu.Handle[kgpu.PipelineLayoutTag], dynamicOffsets []uint32) error {
	cr, err := a.resolveComputePass(h)
	if err != nil {
		return err
	}
	bg := resolve[vkBindGroup, kgpu.BindGroupTag](a.bindGroups, bindGroup)
	if bg == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.SetComputeBindGroup: bind group does not resolve"}
	}
	pl, err := a.resolvePipelineLayout(cr, pipelineLayout)
	if err != nil {
		return err
	}
	vk.CmdBindDescriptorSets(cr.handle, vk.PipelineBindPointCompute, pl.handle, group, 1, []vk.DescriptorSet{bg.handle}, uint32(len(dynamicOffsets)), dynamicOffsets)
	return nil
}

func (a *VulkanApi) ComputePushConstant(h kgpu.ComputePassRecorderHandle, r kgpu.PushConstantRange, data []byte, pipelineLayout kgpu.Handle[kgpu.PipelineLayoutTag]) error {
	cr, err := a.resolveComputePass(h)
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

func (a *VulkanApi) ComputePushBindGroup(h kgpu.ComputePassRecorderHandle, group uint32, entries []kgpu.BindGroupEntry, pipelineLayout kgpu.Handle[kgpu.PipelineLayoutTag]) error {
	cr, err := a.resolveComputePass(h)
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
	vk.CmdPushDescriptorSetKHR(cr.handle, vk.PipelineBindPointCompute, pl.handle, group, uint32(len(writes)), writes)
	return nil
}

func (a *VulkanApi) DispatchCompute(h kgpu.ComputePassRecorderHandle, x, y, z uint32) error {
	cr, err := a.resolveComputePass(h)
	if err != nil {
		return err
	}
	vk.CmdDispatch(cr.handle, x, y, z)
	return nil
}

func (a *VulkanApi) DispatchComputeIndirect(h kgpu.ComputePassRecorderHandle, buffer kgpu.Handle[kgpu.BufferTag], offset uint64) error {
	cr, err := a.resolveComputePass(h)
	if err != nil {
		return err
	}
	buf := resolve[vkBuffer, kgpu.BufferTag](a.buffers, buffer)
	if buf == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.DispatchComputeIndirect: buffer does not resolve"}
	}
	vk.CmdDispatchIndirect(cr.handle, buf.handle, vk.DeviceSize(offset))
	return nil
}

func (a *VulkanApi) EndComputePass(h kgpu.ComputePassRecorderHandle) error {
	cr, err := a.resolveComputePass(h)
	if err != nil {
		return err
	}
	cr.open = passNone
	cr.boundLayout = kgpu.Handle[kgpu.PipelineLayoutTag]{}
	return nil
}
