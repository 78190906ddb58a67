package vkcore

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/kdgpu/kgpucore"
)

type vkGraphicsPipeline struct {
	device kgpu.Handle[kgpu.Device]
	handle vk.Pipeline
	layout kgpu.Handle[kgpu.PipelineLayoutTag]
}

// pipelineCompatibleRenderPass synthesizes a RenderPassOptions shape from
// a GraphicsPipelineOptions's color targets/depth format/sample count,
// using it only to obtain a VkRenderPass *compatible* with whatever real
// render pass BeginRenderPass later builds (per the Vulkan render-pass
// compatibility rules, a pipeline's creation-time render pass need only
// match attachment formats/samples/references, not load/store ops).
func pipelineCompatibleRenderPass(cache *renderPassCache, opts kgpu.GraphicsPipelineOptions) (vk.RenderPass, error) {
	colorFormats := make([]kgpu.Format, len(opts.ColorTargets))
	colorAttachments := make([]kgpu.RenderPassColorAttachment, len(opts.ColorTargets))
	for i, ct := range opts.ColorTargets {
		colorFormats[i] = ct.Format
		colorAttachments[i] = kgpu.RenderPassColorAttachment{
			LoadOp: kgpu.LoadOpClear, StoreOp: kgpu.StoreOpStore,
			InitialLayout: kgpu.ImageLayoutColorAttachmentOptimal, FinalLayout: kgpu.ImageLayoutColorAttachmentOptimal,
		}
	}

	renderOpts := kgpu.RenderPassOptions{
		ColorAttachments: colorAttachments,
		Samples:          opts.Multisample.Samples,
		ViewCount:        opts.ViewCount,
	}
	if opts.DepthFormat != kgpu.FormatUndefined {
		renderOpts.DepthStencilAttachment = &kgpu.RenderPassDepthStencilAttachment{
			DepthLoadOp: kgpu.LoadOpClear, DepthStoreOp: kgpu.StoreOpStore,
			StencilLoadOp: kgpu.LoadOpDontCare, StencilStoreOp: kgpu.StoreOpDontCare,
			InitialLayout: kgpu.ImageLayoutDepthStencilAttachmentOptimal, FinalLayout: kgpu.ImageLayoutDepthStencilAttachmentOptimal,
		}
	}
	return cache.getOrCreate(renderOpts, colorFormats, opts.DepthFormat)
}

func (a *VulkanApi) CreateGraphicsPipeline(h kgpu.Handle[kgpu.Device], opts kgpu.GraphicsPipelineOptions) (kgpu.Handle[kgpu.GraphicsPipelineTag], error) {
	dev := resolve[vkDevice, kgpu.Device](a.devices, h)
	layout := resolve[vkPipelineLayout, kgpu.PipelineLayoutTag](a.pipelineLayouts, opts.Layout)
	if dev == nil || layout == nil {
		return kgpu.Handle[kgpu.GraphicsPipelineTag]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreateGraphicsPipeline: device or layout does not resolve"}
	}

	renderPass, err := pipelineCompatibleRenderPass(dev.renderPasses, opts)
	if err != nil {
		return kgpu.Handle[kgpu.GraphicsPipelineTag]{}, err
	}

	stages := make([]vk.PipelineShaderStageCreateInfo, 0, len(opts.ShaderStages))
	for _, s := range opts.ShaderStages {
		mod := resolve[vkShaderModule, kgpu.ShaderModuleTag](a.shaderModules, s.Module)
		if mod == nil {
			return kgpu.Handle[kgpu.GraphicsPipelineTag]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreateGraphicsPipeline: shader module does not resolve"}
		}
		entry := s.EntryPoint
		if entry == "" {
			entry = "main"
		}
		stages = append(stages, vk.PipelineShaderStageCreateInfo{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageFlagBits(toVkShaderStageFlags(s.Stage)),
			Module: mod.handle,
			PName:  entry + "\x00",
		})
	}

	var bindingDescs []vk.VertexInputBindingDescription
	var attrDescs []vk.VertexInputAttributeDescription
	for _, vb := range opts.VertexBuffers {
		rate := vk.VertexInputRateVertex
		if vb.InputRate == kgpu.InputRateInstance {
			rate = vk.VertexInputRateInstance
		}
		bindingDescs = append(bindingDescs, vk.VertexInputBindingDescription{Binding: vb.Binding, Stride: vb.Stride, InputRate: rate})
		for _, at := range vb.Attributes {
			attrDescs = append(attrDescs, vk.VertexInputAttributeDescription{
				Location: at.Location, Binding: at.Binding, Format: toVkFormat(at.Format), Offset: at.Offset,
			})
		}
	}
	vertexInput := &vk.PipelineVertexInputStateCreateInfo{
		SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
		VertexBindingDescriptionCount:   uint32(len(bindingDescs)),
		PVertexBindingDescriptions:      bindingDescs,
		VertexAttributeDescriptionCount: uint32(len(attrDescs)),
		PVertexAttributeDescriptions:    attrDescs,
	}

	inputAssembly := &vk.PipelineInputAssemblyStateCreateInfo{
		SType:                  vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology:               toVkPrimitiveTopology(opts.InputAssembly.Topology),
		PrimitiveRestartEnable: vk.Bool32(boolToU32(opts.InputAssembly.PrimitiveRestart)),
	}

	viewportState := &vk.PipelineViewportStateCreateInfo{
		SType: vk.StructureTypePipelineViewportStateCreateInfo, ViewportCount: 1, ScissorCount: 1,
	}

	rasterization := &vk.PipelineRasterizationStateCreateInfo{
		SType:                   vk.StructureTypePipelineRasterizationStateCreateInfo,
		PolygonMode:             toVkPolygonMode(opts.Rasterization.PolygonMode),
		CullMode:                vk.CullModeFlags(toVkCullMode(opts.Rasterization.CullMode)),
		FrontFace:               toVkFrontFace(opts.Rasterization.FrontFace),
		LineWidth:               nonZeroOr(opts.Rasterization.LineWidth, 1.0),
		DepthBiasEnable:         vk.Bool32(boolToU32(opts.Rasterization.DepthBiasEnable)),
		DepthBiasConstantFactor: opts.Rasterization.DepthBiasConstantFactor,
		DepthBiasClamp:          opts.Rasterization.DepthBiasClamp,
		DepthBiasSlopeFactor:    opts.Rasterization.DepthBiasSlopeFactor,
	}

	multisample := &vk.PipelineMultisampleStateCreateInfo{
		SType:                vk.StructureTypePipelineMultisampleStateCreateInfo,
		RasterizationSamples: toVkSampleCount(opts.Multisample.Samples),
		SampleShadingEnable:  vk.Bool32(boolToU32(opts.Multisample.SampleShading)),
		MinSampleShading:     opts.Multisample.MinSampleShading,
	}

	var depthStencil *vk.PipelineDepthStencilStateCreateInfo
	if opts.DepthFormat != kgpu.FormatUndefined || opts.DepthStencil.DepthTestEnable || opts.DepthStencil.StencilTestEnable {
		depthStencil = &vk.PipelineDepthStencilStateCreateInfo{
			SType:            vk.StructureTypePipelineDepthStencilStateCreateInfo,
			DepthTestEnable:  vk.Bool32(boolToU32(opts.DepthStencil.DepthTestEnable)),
			DepthWriteEnable: vk.Bool32(boolToU32(opts.DepthStencil.DepthWriteEnable)),
			DepthCompareOp:   toVkCompareOp(opts.DepthStencil.DepthCompareOp),
			StencilTestEnable: vk.Bool32(boolToU32(opts.DepthStencil.StencilTestEnable)),
			Front:            toVkStencilOpState(opts.DepthStencil.Front),
			Back:             toVkStencilOpState(opts.DepthStencil.Back),
		}
	}

	attachments := make([]vk.PipelineColorBlendAttachmentState, len(opts.ColorTargets))
	for i, ct := range opts.ColorTargets {
		mask := ct.ColorWriteMask
		if mask == 0 {
			mask = uint32(vk.ColorComponentRBit | vk.ColorComponentGBit | vk.ColorComponentBBit | vk.ColorComponentABit)
		}
		attachments[i] = vk.PipelineColorBlendAttachmentState{
			BlendEnable:         vk.Bool32(boolToU32(ct.BlendEnable)),
			SrcColorBlendFactor: toVkBlendFactor(ct.SrcColorBlendFactor),
			DstColorBlendFactor: toVkBlendFactor(ct.DstColorBlendFactor),
			ColorBlendOp:        toVkBlendOp(ct.ColorBlendOp),
			SrcAlphaBlendFactor: toVkBlendFactor(ct.SrcAlphaBlendFactor),
			DstAlphaBlendFactor: toVkBlendFactor(ct.DstAlphaBlendFactor),
			AlphaBlendOp:        toVkBlendOp(ct.AlphaBlendOp),
			ColorWriteMask:      vk.ColorComponentFlags(mask),
		}
	}
	colorBlend := &vk.PipelineColorBlendStateCreateInfo{
		SType: vk.StructureTypePipelineColorBlendStateCreateInfo, AttachmentCount: uint32(len(attachments)), PAttachments: attachments,
	}

	dynamicStates := []vk.DynamicState{vk.DynamicStateViewport, vk.DynamicStateScissor}
	if opts.DepthStencil.DynamicDepthTest {
		dynamicStates = append(dynamicStates, vk.DynamicStateDepthTestEnableExt)
	}
	dynamicState := &vk.PipelineDynamicStateCreateInfo{
		SType: vk.StructureTypePipelineDynamicStateCreateInfo, DynamicStateCount: uint32(len(dynamicStates)), PDynamicStates: dynamicStates,
	}

	createInfos := []vk.GraphicsPipelineCreateInfo{{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount:          uint32(len(stages)),
		PStages:             stages,
		PVertexInputState:   vertexInput,
		PInputAssemblyState: inputAssembly,
		PViewportState:      viewportState,
		PRasterizationState: rasterization,
		PMultisampleState:   multisample,
		PDepthStencilState:  depthStencil,
		PColorBlendState:    colorBlend,
		PDynamicState:       dynamicState,
		Layout:              layout.handle,
		RenderPass:          renderPass,
	}}

	pipelines := make([]vk.Pipeline, 1)
	ret := vk.CreateGraphicsPipelines(dev.handle, vk.NullPipelineCache, 1, createInfos, nil, pipelines)
	if err := checkResult(ret, "VulkanApi.CreateGraphicsPipeline"); err != nil {
		return kgpu.Handle[kgpu.GraphicsPipelineTag]{}, err
	}
	return insert[vkGraphicsPipeline, kgpu.GraphicsPipelineTag](a.graphicsPipelines, vkGraphicsPipeline{device: h, handle: pipelines[0], layout: opts.Layout}), nil
}

func (a *VulkanApi) DeleteGraphicsPipeline(h kgpu.Handle[kgpu.GraphicsPipelineTag]) {
	p := resolve[vkGraphicsPipeline, kgpu.GraphicsPipelineTag](a.graphicsPipelines, h)
	if p == nil {
		return
	}
	dev := resolve[vkDevice, kgpu.Device](a.devices, p.device)
	if dev != nil {
		vk.DestroyPipeline(dev.handle, p.handle, nil)
	}
	remove[vkGraphicsPipeline, kgpu.GraphicsPipelineTag](a.graphicsPipelines, h)
}

func nonZeroOr(v, def float32) float32 {
	if v == 0 {
		return def
	}
	return v
}

func toVkStencilOpState(s kgpu.StencilOpState) vk.StencilOpState {
	return vk.StencilOpState{
		FailOp:      vk.StencilOp(s.FailOp),
		PassOp:      vk.StencilOp(s.PassOp),
		DepthFailOp: vk.StencilOp(s.DepthFailOp),
		CompareOp:   toVkCompareOp(s.CompareOp),
		CompareMask: s.CompareMask,
		WriteMask:   s.WriteMask,
		Reference:   s.Reference,
	}
}
