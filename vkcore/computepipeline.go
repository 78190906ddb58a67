package vkcore

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/kdgpu/kgpucore"
)

type vkComputePipeline struct {
	device kgpu.Handle[kgpu.Device]
	handle vk.Pipeline
	layout kgpu.Handle[kgpu.PipelineLayoutTag]
}

func (a *VulkanApi) CreateComputePipeline(h kgpu.Handle[kgpu.Device], opts kgpu.ComputePipelineOptions) (kgpu.Handle[kgpu.ComputePipelineTag], error) {
	dev := resolve[vkDevice, kgpu.Device](a.devices, h)
	layout := resolve[vkPipelineLayout, kgpu.PipelineLayoutTag](a.pipelineLayouts, opts.Layout)
	mod := resolve[vkShaderModule, kgpu.ShaderModuleTag](a.shaderModules, opts.Stage.Module)
	if dev == nil || layout == nil || mod == nil {
		return kgpu.Handle[kgpu.ComputePipelineTag]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreateComputePipeline: device, layout, or shader module does not resolve"}
	}

	entry := opts.Stage.EntryPoint
	if entry == "" {
		entry = "main"
	}

	createInfos := []vk.ComputePipelineCreateInfo{{
		SType: vk.StructureTypeComputePipelineCreateInfo,
		Stage: vk.PipelineShaderStageCreateInfo{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageComputeBit,
			Module: mod.handle,
			PName:  entry + "\x00",
		},
		Layout: layout.handle,
	}}

	pipelines := make([]vk.Pipeline, 1)
	ret := vk.CreateComputePipelines(dev.handle, vk.NullPipelineCache, 1, createInfos, nil, pipelines)
	if err := checkResult(ret, "VulkanApi.CreateComputePipeline"); err != nil {
		return kgpu.Handle[kgpu.ComputePipelineTag]{}, err
	}
	return insert[vkComputePipeline, kgpu.ComputePipelineTag](a.computePipelines, vkComputePipeline{device: h, handle: pipelines[0], layout: opts.Layout}), nil
}

func (a *VulkanApi) DeleteComputePipeline(h kgpu.Handle[kgpu.ComputePipelineTag]) {
	p := resolve[vkComputePipeline, kgpu.ComputePipelineTag](a.computePipelines, h)
	if p == nil {
		return
	}
	dev := resolve[vkDevice, kgpu.Device](a.devices, p.device)
	if dev != nil {
		vk.DestroyPipeline(dev.handle, p.handle, nil)
	}
	remove[vkComputePipeline, kgpu.ComputePipelineTag](a.computePipelines, h)
}
