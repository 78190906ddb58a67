package kgpu

// RenderPassRecorder is the move-only front-end for a
// RenderPassCommandRecorder (spec.md section 4.5). It forwards purely to
// the native command buffer; the backend is responsible for tracking the
// bound pipeline so SetBindGroup/PushConstant calls made without an
// explicit pipeline layout can resolve one.
type RenderPassRecorder struct {
	api    GraphicsApi
	handle RenderPassRecorderHandle
	ended  bool
}

func (r *RenderPassRecorder) IsValid() bool { return r != nil && !r.ended }

func (r *RenderPassRecorder) SetPipeline(pipeline Handle[GraphicsPipelineTag]) error {
	return r.api.SetPipeline(r.handle, pipeline)
}

func (r *RenderPassRecorder) SetVertexBuffer(index uint32, buffer Handle[BufferTag], offset uint64) error {
	return r.api.SetVertexBuffer(r.handle, index, buffer, offset)
}

func (r *RenderPassRecorder) SetIndexBuffer(buffer Handle[BufferTag], offset uint64, indexType IndexType) error {
	return r.api.SetIndexBuffer(r.handle, buffer, offset, indexType)
}

// SetBindGroup binds bindGroup to group; an empty pipelineLayout defaults
// to that of the currently bound pipeline (spec.md section 4.5), which is
// an error if no pipeline is bound.
func (r *RenderPassRecorder) SetBindGroup(group uint32, bindGroup Handle[BindGroupTag], pipelineLayout Handle[PipelineLayoutTag], dynamicOffsets []uint32) error {
	return r.api.SetRenderBindGroup(r.handle, group, bindGroup, pipelineLayout, dynamicOffsets)
}

func (r *RenderPassRecorder) SetViewport(v Viewport) error {
	return r.api.SetViewport(r.handle, v)
}

func (r *RenderPassRecorder) SetScissor(rect Rect2D) error {
	return r.api.SetScissor(r.handle, rect)
}

func (r *RenderPassRecorder) SetStencilReference(faceMask uint32, value uint32) error {
	return r.api.SetStencilReference(r.handle, faceMask, value)
}

func (r *RenderPassRecorder) Draw(opts DrawOptions) error {
	return r.api.Draw(r.handle, opts)
}

func (r *RenderPassRecorder) DrawIndexed(opts DrawIndexedOptions) error {
	return r.api.DrawIndexed(r.handle, opts)
}

func (r *RenderPassRecorder) DrawIndirect(buffer Handle[BufferTag], offset uint64, drawCount, stride uint32) error {
	return r.api.DrawIndirect(r.handle, buffer, offset, drawCount, stride)
}

func (r *RenderPassRecorder) DrawIndexedIndirect(buffer Handle[BufferTag], offset uint64, drawCount, stride uint32) error {
	return r.api.DrawIndexedIndirect(r.handle, buffer, offset, drawCount, stride)
}

// DrawMeshTasks is only valid when the mesh-shader feature is enabled on
// the device (spec.md section 4.5); the backend rejects it otherwise.
func (r *RenderPassRecorder) DrawMeshTasks(x, y, z uint32) error {
	return r.api.DrawMeshTasks(r.handle, x, y, z)
}

func (r *RenderPassRecorder) DrawMeshTasksIndirect(buffer Handle[BufferTag], offset uint64, drawCount, stride uint32) error {
	return r.api.DrawMeshTasksIndirect(r.handle, buffer, offset, drawCount, stride)
}

func (r *RenderPassRecorder) PushConstant(rng PushConstantRange, data []byte, pipelineLayout Handle[PipelineLayoutTag]) error {
	return r.api.RenderPushConstant(r.handle, rng, data, pipelineLayout)
}

// PushBindGroup is only valid when the layout uses PushBindGroup (spec.md
// section 4.9).
func (r *RenderPassRecorder) PushBindGroup(group uint32, entries []BindGroupEntry, pipelineLayout Handle[PipelineLayoutTag]) error {
	return r.api.RenderPushBindGroup(r.handle, group, entries, pipelineLayout)
}

func (r *RenderPassRecorder) NextSubpass() error {
	return r.api.NextSubpass(r.handle)
}

// End closes the render pass. Idempotent after the first call (spec.md
// section 4.5).
func (r *RenderPassRecorder) End() error {
	if r.ended {
		return nil
	}
	err := r.api.EndRenderPass(r.handle)
	r.ended = true
	return err
}
