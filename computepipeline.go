package kgpu

// ComputePipelineOptions mirrors spec.md section 3's ComputePipeline:
// a pipeline layout plus a single compute shader stage.
type ComputePipelineOptions struct {
	Layout Handle[PipelineLayoutTag]
	Stage  ShaderStageEntry
}

// ComputePipelineFrontend is the move-only front-end for a
// ComputePipeline.
type ComputePipelineFrontend struct {
	api    GraphicsApi
	device Handle[Device]
	handle Handle[ComputePipelineTag]
}

func CreateComputePipeline(api GraphicsApi, device Handle[Device], opts ComputePipelineOptions) (*ComputePipelineFrontend, error) {
	h, err := api.CreateComputePipeline(device, opts)
	if err != nil {
		return nil, err
	}
	return &ComputePipelineFrontend{api: api, device: device, handle: h}, nil
}

func (p *ComputePipelineFrontend) IsValid() bool { return p != nil && p.handle.IsValid() }
func (p *ComputePipelineFrontend) Handle() Handle[ComputePipelineTag] { return p.handle }

func (p *ComputePipelineFrontend) Release() {
	if p == nil || !p.handle.IsValid() {
		return
	}
	p.api.DeleteComputePipeline(p.handle)
	p.handle = Handle[ComputePipelineTag]{}
}
