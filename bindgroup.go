package kgpu

// BindGroupLayoutEntry describes one binding slot of a bind group layout.
// ImmutableSamplers holds the compile-time-fixed samplers spec.md section 3
// allows an entry to carry; when present, its length must equal Count.
type BindGroupLayoutEntry struct {
	Binding           uint32
	Count             uint32
	ResourceType      ResourceBindingType
	ShaderStages      ShaderStage
	Flags             BindingFlags
	ImmutableSamplers []Handle[SamplerTag] // len == Count, or nil
}

// BindGroupLayoutOptions mirrors spec.md section 3's BindGroupLayout.
type BindGroupLayoutOptions struct {
	Bindings []BindGroupLayoutEntry
	Flags    LayoutFlags
}

// BindGroupLayoutFrontend is the move-only front-end for a BindGroupLayout.
type BindGroupLayoutFrontend struct {
	api    GraphicsApi
	device Handle[Device]
	handle Handle[BindGroupLayoutTag]
	opts   BindGroupLayoutOptions
}

func CreateBindGroupLayout(api GraphicsApi, device Handle[Device], opts BindGroupLayoutOptions) (*BindGroupLayoutFrontend, error) {
	h, err := api.CreateBindGroupLayout(device, opts)
	if err != nil {
		return nil, err
	}
	return &BindGroupLayoutFrontend{api: api, device: device, handle: h, opts: opts}, nil
}

func (l *BindGroupLayoutFrontend) IsValid() bool { return l != nil && l.handle.IsValid() }
func (l *BindGroupLayoutFrontend) Handle() Handle[BindGroupLayoutTag] { return l.handle }
func (l *BindGroupLayoutFrontend) UsesPushBindGroup() bool { return l.opts.Flags.Has(LayoutFlagPushBindGroup) }

func (l *BindGroupLayoutFrontend) Release() {
	if l == nil || !l.handle.IsValid() {
		return
	}
	l.api.DeleteBindGroupLayout(l.handle)
	l.handle = Handle[BindGroupLayoutTag]{}
}

// BindGroupPoolBudget names a per-resource-type allocation budget (spec.md
// section 3).
type BindGroupPoolBudget struct {
	ResourceType ResourceBindingType
	Count        uint32
}

// BindGroupPoolOptions mirrors spec.md section 3's BindGroupPool.
type BindGroupPoolOptions struct {
	Budgets           []BindGroupPoolBudget
	MaxBindGroupCount uint32
	Flags             BindGroupPoolFlags
}

// BindGroupPoolFrontend is the move-only front-end for a BindGroupPool.
type BindGroupPoolFrontend struct {
	api    GraphicsApi
	device Handle[Device]
	handle Handle[BindGroupPoolTag]
}

func CreateBindGroupPool(api GraphicsApi, device Handle[Device], opts BindGroupPoolOptions) (*BindGroupPoolFrontend, error) {
	h, err := api.CreateBindGroupPool(device, opts)
	if err != nil {
		return nil, err
	}
	return &BindGroupPoolFrontend{api: api, device: device, handle: h}, nil
}

func (p *BindGroupPoolFrontend) IsValid() bool { return p != nil && p.handle.IsValid() }
func (p *BindGroupPoolFrontend) Handle() Handle[BindGroupPoolTag] { return p.handle }

func (p *BindGroupPoolFrontend) Release() {
	if p == nil || !p.handle.IsValid() {
		return
	}
	p.api.DeleteBindGroupPool(p.handle)
	p.handle = Handle[BindGroupPoolTag]{}
}

// Reset invalidates every group allocated from this pool. Per spec.md
// section 4.9, the groups' own front-end handles are not automatically
// cleared by this call -- callers must drop them.
func (p *BindGroupPoolFrontend) Reset() error {
	return p.api.ResetBindGroupPool(p.handle)
}

// BindGroupResourceBinding is the tagged variant spec.md section 4.9
// enumerates for BindGroupEntry's resource payload.
type BindGroupResourceBinding struct {
	UniformBuffer        *BufferBinding
	DynamicUniformBuffer *BufferBinding
	StorageBuffer        *BufferBinding
	DynamicStorageBuffer *BufferBinding
	Sampler              *Handle[SamplerTag]
	TextureView          *Handle[TextureViewTag]
	TextureViewSampler   *TextureViewSamplerBinding
	Image                *ImageBinding
	AccelerationStructure *Handle[AccelerationStructTag]
}

type BufferBinding struct {
	Buffer Handle[BufferTag]
	Offset uint64
	Size   uint64
}

type TextureViewSamplerBinding struct {
	TextureView Handle[TextureViewTag]
	Sampler     Handle[SamplerTag]
}

type ImageBinding struct {
	TextureView Handle[TextureViewTag]
	Layout      ImageLayout
}

// BindGroupEntry names the binding slot being written plus its resource.
type BindGroupEntry struct {
	Binding  uint32
	Resource BindGroupResourceBinding
}

// BindGroupOptions mirrors spec.md section 3's BindGroup: a layout handle,
// an optional explicit pool, and an initial set of resource bindings.
type BindGroupOptions struct {
	Layout                Handle[BindGroupLayoutTag]
	Pool                  Handle[BindGroupPoolTag] // zero value: device default pool
	Entries               []BindGroupEntry
	MaxVariableArrayLength uint32 // only meaningful if the layout's last binding is VariableBindGroupEntriesCount
}

// BindGroupFrontend is the move-only front-end for a BindGroup.
type BindGroupFrontend struct {
	api    GraphicsApi
	device Handle[Device]
	handle Handle[BindGroupTag]
}

func CreateBindGroup(api GraphicsApi, device Handle[Device], opts BindGroupOptions) (*BindGroupFrontend, error) {
	h, err := api.CreateBindGroup(device, opts)
	if err != nil {
		return nil, err
	}
	return &BindGroupFrontend{api: api, device: device, handle: h}, nil
}

func (g *BindGroupFrontend) IsValid() bool { return g != nil && g.handle.IsValid() }
func (g *BindGroupFrontend) Handle() Handle[BindGroupTag] { return g.handle }

func (g *BindGroupFrontend) Release() {
	if g == nil || !g.handle.IsValid() {
		return
	}
	g.api.DeleteBindGroup(g.handle)
	g.handle = Handle[BindGroupTag]{}
}

// Update rewrites a single binding. A call whose resource payload does not
// match the layout's declared ResourceType for that binding fails with
// InvalidArgument (spec.md section 4.9).
func (g *BindGroupFrontend) Update(entry BindGroupEntry) error {
	return g.api.UpdateBindGroup(g.handle, entry)
}

// PushConstantRange mirrors spec.md section 3's PipelineLayout push
// constant entries.
type PushConstantRange struct {
	Offset       uint32
	Size         uint32
	ShaderStages ShaderStage
}

// PipelineLayoutOptions mirrors spec.md section 3's PipelineLayout:
// ordered bind-group layouts and optional push-constant ranges.
type PipelineLayoutOptions struct {
	BindGroupLayouts   []Handle[BindGroupLayoutTag]
	PushConstantRanges []PushConstantRange
}

// PipelineLayoutFrontend is the move-only front-end for a PipelineLayout.
type PipelineLayoutFrontend struct {
	api    GraphicsApi
	device Handle[Device]
	handle Handle[PipelineLayoutTag]
}

func CreatePipelineLayout(api GraphicsApi, device Handle[Device], opts PipelineLayoutOptions) (*PipelineLayoutFrontend, error) {
	h, err := api.CreatePipelineLayout(device, opts)
	if err != nil {
		return nil, err
	}
	return &PipelineLayoutFrontend{api: api, device: device, handle: h}, nil
}

func (l *PipelineLayoutFrontend) IsValid() bool { return l != nil && l.handle.IsValid() }
func (l *PipelineLayoutFrontend) Handle() Handle[PipelineLayoutTag] { return l.handle }

func (l *PipelineLayoutFrontend) Release() {
	if l == nil || !l.handle.IsValid() {
		return
	}
	l.api.DeletePipelineLayout(l.handle)
	l.handle = Handle[PipelineLayoutTag]{}
}
