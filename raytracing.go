package kgpu

// RayTracingShaderGroup names 1-3 stage indices into the pipeline's
// ShaderStages array, interpreted according to Kind:
//   - General: GeneralIndex names a raygen/miss/callable stage.
//   - TriangleHit: ClosestHitIndex and optional AnyHitIndex.
//   - ProceduralHit: IntersectionIndex plus optional ClosestHit/AnyHit.
// An unused index field is -1.
type RayTracingShaderGroup struct {
	Kind              RayTracingShaderGroupType
	GeneralIndex      int32
	ClosestHitIndex   int32
	AnyHitIndex       int32
	IntersectionIndex int32
}

// RayTracingPipelineOptions mirrors spec.md section 3's
// RayTracingPipeline: pipeline layout + ordered shader stages + ordered
// shader groups + max recursion depth.
type RayTracingPipelineOptions struct {
	Layout             Handle[PipelineLayoutTag]
	ShaderStages       []ShaderStageEntry
	ShaderGroups       []RayTracingShaderGroup
	MaxRecursionDepth  uint32
}

// RayTracingPipelineFrontend is the move-only front-end for a
// RayTracingPipeline.
type RayTracingPipelineFrontend struct {
	api    GraphicsApi
	device Handle[Device]
	handle Handle[RayTracingPipelineTag]
}

func CreateRayTracingPipeline(api GraphicsApi, device Handle[Device], opts RayTracingPipelineOptions) (*RayTracingPipelineFrontend, error) {
	h, err := api.CreateRayTracingPipeline(device, opts)
	if err != nil {
		return nil, err
	}
	return &RayTracingPipelineFrontend{api: api, device: device, handle: h}, nil
}

func (p *RayTracingPipelineFrontend) IsValid() bool { return p != nil && p.handle.IsValid() }
func (p *RayTracingPipelineFrontend) Handle() Handle[RayTracingPipelineTag] { return p.handle }

func (p *RayTracingPipelineFrontend) Release() {
	if p == nil || !p.handle.IsValid() {
		return
	}
	p.api.DeleteRayTracingPipeline(p.handle)
	p.handle = Handle[RayTracingPipelineTag]{}
}

// ShaderBindingTableOptions requests the derived table spec.md section 3
// describes: a ShaderBindingTable|ShaderDeviceAddress|TransferSrc|
// TransferDst buffer sized and aligned per the adapter-reported group
// handle size/alignment, holding raygen/miss/hit regions.
type ShaderBindingTableOptions struct {
	RaygenGroupIndices []uint32
	MissGroupIndices   []uint32
	HitGroupIndices    []uint32
	CallableGroupIndices []uint32
}

// ShaderBindingTableRegion names one {buffer, offset, stride, size}
// region of the table, the shape traceRays consumes (spec.md section 4.7).
type ShaderBindingTableRegion struct {
	Buffer Handle[BufferTag]
	Offset uint64
	Stride uint64
	Size   uint64
}

// ShaderBindingTableFrontend is the move-only front-end for a
// RayTracingShaderBindingTable.
type ShaderBindingTableFrontend struct {
	api      GraphicsApi
	device   Handle[Device]
	pipeline Handle[RayTracingPipelineTag]
	handle   Handle[ShaderBindingTableTag]
}

func CreateShaderBindingTable(api GraphicsApi, device Handle[Device], pipeline Handle[RayTracingPipelineTag], opts ShaderBindingTableOptions) (*ShaderBindingTableFrontend, error) {
	h, err := api.CreateShaderBindingTable(device, pipeline, opts)
	if err != nil {
		return nil, err
	}
	return &ShaderBindingTableFrontend{api: api, device: device, pipeline: pipeline, handle: h}, nil
}

func (t *ShaderBindingTableFrontend) IsValid() bool { return t != nil && t.handle.IsValid() }
func (t *ShaderBindingTableFrontend) Handle() Handle[ShaderBindingTableTag] { return t.handle }

func (t *ShaderBindingTableFrontend) Release() {
	if t == nil || !t.handle.IsValid() {
		return
	}
	t.api.DeleteShaderBindingTable(t.handle)
	t.handle = Handle[ShaderBindingTableTag]{}
}

// RegionProvider is implemented by the backend so ShaderBindingTable can
// hand traceRays its raygen/miss/hit/callable regions without widening
// GraphicsApi.
type RegionProvider interface {
	ShaderBindingTableRegions(Handle[ShaderBindingTableTag]) (raygen, miss, hit, callable ShaderBindingTableRegion)
}

func (t *ShaderBindingTableFrontend) Regions() (raygen, miss, hit, callable ShaderBindingTableRegion, err error) {
	rp, ok := t.api.(RegionProvider)
	if !ok {
		err = &Error{Kind: KindInvalidArgument, Site: "ShaderBindingTableFrontend.Regions: backend does not implement RegionProvider"}
		return
	}
	raygen, miss, hit, callable = rp.ShaderBindingTableRegions(t.handle)
	return
}
