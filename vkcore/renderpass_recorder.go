package vkcore

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"

	"github.com/kdgpu/kgpucore"
)

func (a *VulkanApi) SetPipeline(h kgpu.RenderPassRecorderHandle, pipeline kgpu.Handle[kgpu.GraphicsPipelineTag]) error {
	cr, err := a.resolveRenderPass(h)
	if err != nil {
		return err
	}
	p := resolve[vkGraphicsPipeline, kgpu.GraphicsPipelineTag](a.graphicsPipelines, pipeline)
	if p == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.SetPipeline: pipeline does not resolve"}
	}
	vk.CmdBindPipeline(cr.handle, vk.PipelineBindPointGraphics, p.handle)
	cr.boundLayout = p.layout
	return nil
}

func (a *VulkanApi) SetVertexBuffer(h kgpu.RenderPassRecorderHandle, index uint32, buffer kgpu.Handle[kgpu.BufferTag], offset uint64) error {
	cr, err := a.resolveRenderPass(h)
	if err != nil {
		return err
	}
	buf := resolve[vkBuffer, kgpu.BufferTag](a.buffers, buffer)
	if buf == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.SetVertexBuffer: buffer does not resolve"}
	}
	vk.CmdBindVertexBuffers(cr.handle, index, 1, []vk.Buffer{buf.handle}, []vk.DeviceSize{vk.DeviceSize(offset)})
	return nil
}

func (a *VulkanApi) SetIndexBuffer(h kgpu.RenderPassRecorderHandle, buffer kgpu.Handle[kgpu.BufferTag], offset uint64, indexType kgpu.IndexType) error {
	cr, err := a.resolveRenderPass(h)
	if err != nil {
		return err
	}
	buf := resolve[vkBuffer, kgpu.BufferTag](a.buffers, buffer)
	if buf == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.SetIndexBuffer: buffer does not resolve"}
	}
	vk.CmdBindIndexBuffer(cr.handle, buf.handle, vk.DeviceSize(offset), toVkIndexType(indexType))
	return nil
}

func (a *VulkanApi) SetRenderBindGroup(h kgpu.RenderPassRecorderHandle, group uint32, bindGroup kgpu.Handle[kgpu.BindGroupTag], pipelineLayout kgpu.Handle[kgpu.PipelineLayoutTag], dynamicOffsets []uint32) error {
	cr, err := a.resolveRenderPass(h)
	if err != nil {
		return err
	}
	bg := resolve[vkBindGroup, kgpu.BindGroupTag](a.bindGroups, bindGroup)
	if bg == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.SetRenderBindGroup: bind group does not resolve"}
	}
	pl, err := a.resolvePipelineLayout(cr, pipelineLayout)
	if err != nil {
		return err
	}
	vk.CmdBindDescriptorSets(cr.handle, vk.PipelineBindPointGraphics, pl.handle, group, 1, []vk.DescriptorSet{bg.handle}, uint32(len(dynamicOffsets)), dynamicOffsets)
	return nil
}

func (a *VulkanApi) SetViewport(h kgpu.RenderPassRecorderHandle, v kgpu.Viewport) error {
	cr, err := a.resolveRenderPass(h)
	if err != nil {
		return err
	}
	vk.CmdSetViewport(cr.handle, 0, 1, []vk.Viewport{{X: v.X, Y: v.Y, Width: v.Width, Height: v.Height, MinDepth: v.MinDepth, MaxDepth: v.MaxDepth}})
	return nil
}

func (a *VulkanApi) SetScissor(h kgpu.RenderPassRecorderHandle, r kgpu.Rect2D) error {
	cr, err := a.resolveRenderPass(h)
	if err != nil {
		return err
	}
	vk.CmdSetScissor(cr.handle, 0, 1, []vk.Rect2D{{
		Offset: vk.Offset2D{X: r.X, Y: r.Y}, Extent: vk.Extent2D{Width: r.Width, Height: r.Height},
	}})
	return nil
}

func (a *VulkanApi) SetStencilReference(h kgpu.RenderPassRecorderHandle, faceMask uint32, value uint32) error {
	cr, err := a.resolveRenderPass(h)
	if err != nil {
		return err
	}
	vk.CmdSetStencilReference(cr.handle, vk.StencilFaceFlags(faceMask), value)
	return nil
}

func (a *VulkanApi) Draw(h kgpu.RenderPassRecorderHandle, opts kgpu.DrawOptions) error {
	cr, err := a.resolveRenderPass(h)
	if err != nil {
		return err
	}
	vk.CmdDraw(cr.handle, opts.VertexCount, opts.InstanceCount, opts.FirstVertex, opts.FirstInstance)
	return nil
}

func (a *VulkanApi) DrawIndexed(h kgpu.RenderPassRecorderHandle, opts kgpu.DrawIndexedOptions) error {
	cr, err := a.resolveRenderPass(h)
	if err != nil {
		return err
	}
	vk.CmdDrawIndexed(cr.handle, opts.IndexCount, opts.InstanceCount, opts.FirstIndex, opts.VertexOffset, opts.FirstInstance)
	return nil
}

func (a *VulkanApi) DrawIndirect(h kgpu.RenderPassRecorderHandle, buffer kgpu.Handle[kgpu.BufferTag], offset uint64, drawCount uint32, stride uint32) error {
	cr, err := a.resolveRenderPass(h)
	if err != nil {
		return err
	}
	buf := resolve[vkBuffer, kgpu.BufferTag](a.buffers, buffer)
	if buf == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.DrawIndirect: buffer does not resolve"}
	}
	vk.CmdDrawIndirect(cr.handle, buf.handle, vk.DeviceSize(offset), drawCount, stride)
	return nil
}

func (a *VulkanApi) DrawIndexedIndirect(h kgpu.RenderPassRecorderHandle, buffer kgpu.Handle[kgpu.BufferTag], offset uint64, drawCount uint32, stride uint32) error {
	cr, err := a.resolveRenderPass(h)
	if err != nil {
		return err
	}
	buf := resolve[vkBuffer, kgpu.BufferTag](a.buffers, buffer)
	if buf == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.DrawIndexedIndirect: buffer does not resolve"}
	}
	vk.CmdDrawIndexedIndirect(cr.handle, buf.handle, vk.DeviceSize(offset), drawCount, stride)
	return nil
}

// DrawMeshTasks/DrawMeshTasksIndirect require VK_EXT_mesh_shader; the
// adapter/device feature check is the caller's responsibility per spec.md
// section 4.5.
func (a *VulkanApi) DrawMeshTasks(h kgpu.RenderPassRecorderHandle, x, y, z uint32) error {
	cr, err := a.resolveRenderPass(h)
	if err != nil {
		return err
	}
	vk.CmdDrawMeshTasks(cr.handle, x, y, z)
	return nil
}

func (a *VulkanApi) DrawMeshTasksIndirect(h kgpu.RenderPassRecorderHandle, buffer kgpu.Handle[kgpu.BufferTag], offset uint64, drawCount uint32, stride uint32) error {
	cr, err := a.resolveRenderPass(h)
	if err != nil {
		return err
	}
	buf := resolve[vkBuffer, kgpu.BufferTag](a.buffers, buffer)
	if buf == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.DrawMeshTasksIndirect: buffer does not resolve"}
	}
	vk.CmdDrawMeshTasksIndirect(cr.handle, buf.handle, vk.DeviceSize(offset), drawCount, stride)
	return nil
}

func pushConstantData(data []byte) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Pointer(&data[0])
}

func (a *VulkanApi) RenderPushConstant(h kgpu.RenderPassRecorderHandle, r kgpu.PushConstantRange, data []byte, pipelineLayout kgpu.Handle[kgpu.PipelineLayoutTag]) error {
	cr, err := a.resolveRenderPass(h)
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

// RenderPushBindGroup writes entries directly into the command buffer via
// VK_KHR_push_descriptor, which requires the bind group layout to have
// been created with that usage (spec.md section 4.9).
func (a *VulkanApi) RenderPushBindGroup(h kgpu.RenderPassRecorderHandle, group uint32, entries []kgpu.BindGroupEntry, pipelineLayout kgpu.Handle[kgpu.PipelineLayoutTag]) error {
	cr, err := a.resolveRenderPass(h)
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
	vk.CmdPushDescriptorSetKHR(cr.handle, vk.PipelineBindPointGraphics, pl.handle, group, uint32(len(writes)), writes)
	return nil
}

func (a *VulkanApi) NextSubpass(h kgpu.RenderPassRecorderHandle) error {
	cr, err := a.resolveRenderPass(h)
	if err != nil {
		return err
	}
	vk.CmdNextSubpass(cr.handle, vk.SubpassContentsInline)
	return nil
}

func (a *VulkanApi) EndRenderPass(h kgpu.RenderPassRecorderHandle) error {
	cr, err := a.resolveRenderPass(h)
	if err != nil {
		return err
	}
	vk.CmdEndRenderPass(cr.handle)
	cr.open = passNone
	cr.boundLayout = kgpu.Handle[kgpu.PipelineLayoutTag]{}
	return nil
}
