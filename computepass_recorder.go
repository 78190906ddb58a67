package kgpu

// ComputePassRecorder is the move-only front-end for a
// ComputePassCommandRecorder (spec.md section 4.7).
type ComputePassRecorder struct {
	api    GraphicsApi
	handle ComputePassRecorderHandle
	ended  bool
}

func (r *ComputePassRecorder) IsValid() bool { return r != nil && !r.ended }

func (r *ComputePassRecorder) SetPipeline(pipeline Handle[ComputePipelineTag]) error {
	return r.api.SetComputePipeline(r.handle, pipeline)
}

func (r *ComputePassRecorder) SetBindGroup(group uint32, bindGroup Handle[BindGroupTag], pipelineLayout Handle[PipelineLayoutTag], dynamicOffsets []uint32) error {
	return r.api.SetComputeBindGroup(r.handle, group, bindGroup, pipelineLayout, dynamicOffsets)
}

func (r *ComputePassRecorder) PushConstant(rng PushConstantRange, data []byte, pipelineLayout Handle[PipelineLayoutTag]) error {
	return r.api.ComputePushConstant(r.handle, rng, data, pipelineLayout)
}

func (r *ComputePassRecorder) PushBindGroup(group uint32, entries []BindGroupEntry, pipelineLayout Handle[PipelineLayoutTag]) error {
	return r.api.ComputePushBindGroup(r.handle, group, entries, pipelineLayout)
}

func (r *ComputePassRecorder) DispatchCompute(x, y, z uint32) error {
	return r.api.DispatchCompute(r.handle, x, y, z)
}

func (r *ComputePassRecorder) DispatchComputeIndirect(buffer Handle[BufferTag], offset uint64) error {
	return r.api.DispatchComputeIndirect(r.handle, buffer, offset)
}

func (r *ComputePassRecorder) End() error {
	if r.ended {
		return nil
	}
	err := r.api.EndComputePass(r.handle)
	r.ended = true
	return err
}
