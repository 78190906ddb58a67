package kgpu

// RayTracingPassRecorder is the move-only front-end for a
// RayTracingPassCommandRecorder (spec.md section 4.7). Nesting passes is
// not supported; multiple recorders may be opened serially from one
// CommandRecorder.
type RayTracingPassRecorder struct {
	api    GraphicsApi
	handle RayTracingPassRecorderHandle
	ended  bool
}

func (r *RayTracingPassRecorder) IsValid() bool { return r != nil && !r.ended }

func (r *RayTracingPassRecorder) SetPipeline(pipeline Handle[RayTracingPipelineTag]) error {
	return r.api.SetRayTracingPipeline(r.handle, pipeline)
}

func (r *RayTracingPassRecorder) SetBindGroup(group uint32, bindGroup Handle[BindGroupTag], pipelineLayout Handle[PipelineLayoutTag], dynamicOffsets []uint32) error {
	return r.api.SetRayTracingBindGroup(r.handle, group, bindGroup, pipelineLayout, dynamicOffsets)
}

func (r *RayTracingPassRecorder) PushConstant(rng PushConstantRange, data []byte, pipelineLayout Handle[PipelineLayoutTag]) error {
	return r.api.RayTracingPushConstant(r.handle, rng, data, pipelineLayout)
}

func (r *RayTracingPassRecorder) PushBindGroup(group uint32, entries []BindGroupEntry, pipelineLayout Handle[PipelineLayoutTag]) error {
	return r.api.RayTracingPushBindGroup(r.handle, group, entries, pipelineLayout)
}

// TraceRays dispatches rays over the given extent using the named
// raygen/miss/hit/callable shader-binding-table regions (spec.md section
// 4.7).
func (r *RayTracingPassRecorder) TraceRays(opts TraceRaysOptions) error {
	return r.api.TraceRays(r.handle, opts)
}

func (r *RayTracingPassRecorder) End() error {
	if r.ended {
		return nil
	}
	err := r.api.EndRayTracingPass(r.handle)
	r.ended = true
	return err
}
