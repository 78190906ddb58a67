package kgpu

// VertexAttribute describes one shader input attribute sourced from a
// vertex buffer binding.
type VertexAttribute struct {
	Location uint32
	Binding  uint32
	Format   Format
	Offset   uint32
}

// VertexInputRate selects whether a vertex buffer binding advances per
// vertex or per instance.
type VertexInputRate int

const (
	InputRateVertex VertexInputRate = iota
	InputRateInstance
)

// VertexBufferLayout describes one bound vertex buffer slot (spec.md
// section 3's "vertex input (buffer strides + attributes)").
type VertexBufferLayout struct {
	Binding    uint32
	Stride     uint32
	InputRate  VertexInputRate
	Attributes []VertexAttribute
}

// InputAssemblyState names topology and primitive-restart behavior.
type InputAssemblyState struct {
	Topology          PrimitiveTopology
	PrimitiveRestart  bool
}

// RasterizationState mirrors spec.md section 3's rasterization group.
type RasterizationState struct {
	CullMode       CullMode
	FrontFace      FrontFace
	PolygonMode    PolygonMode
	LineWidth      float32
	DepthBiasEnable bool
	DepthBiasConstantFactor float32
	DepthBiasClamp          float32
	DepthBiasSlopeFactor    float32
}

// MultisampleState mirrors spec.md section 3's multisample group.
type MultisampleState struct {
	Samples          SampleCount
	SampleShading    bool
	MinSampleShading float32
}

// StencilOpState describes one face's stencil op set.
type StencilOpState struct {
	FailOp      int
	PassOp      int
	DepthFailOp int
	CompareOp   CompareOp
	CompareMask uint32
	WriteMask   uint32
	Reference   uint32
}

// DepthStencilState mirrors spec.md section 3's depth/stencil group.
// DynamicDepthTest, when set, defers the depth-test-enable state to
// command-buffer recording (extendedDynamicState).
type DepthStencilState struct {
	DepthTestEnable  bool
	DepthWriteEnable bool
	DepthCompareOp   CompareOp
	DynamicDepthTest bool
	StencilTestEnable bool
	Front, Back      StencilOpState
}

// BlendFactor and BlendOp name a standard fixed-function blend equation.
type BlendFactor int

const (
	BlendFactorZero BlendFactor = iota
	BlendFactorOne
	BlendFactorSrcAlpha
	BlendFactorOneMinusSrcAlpha
	BlendFactorDstAlpha
	BlendFactorOneMinusDstAlpha
)

type BlendOp int

const (
	BlendOpAdd BlendOp = iota
	BlendOpSubtract
	BlendOpReverseSubtract
	BlendOpMin
	BlendOpMax
)

// ColorTargetState describes one color-attachment's format and blend
// equation (spec.md section 3's "blend per color target").
type ColorTargetState struct {
	Format              Format
	BlendEnable         bool
	SrcColorBlendFactor BlendFactor
	DstColorBlendFactor BlendFactor
	ColorBlendOp        BlendOp
	SrcAlphaBlendFactor BlendFactor
	DstAlphaBlendFactor BlendFactor
	AlphaBlendOp        BlendOp
	ColorWriteMask      uint32
}

// GraphicsPipelineOptions mirrors spec.md section 3's GraphicsPipeline.
type GraphicsPipelineOptions struct {
	Layout         Handle[PipelineLayoutTag]
	ShaderStages   []ShaderStageEntry // vertex, fragment, and optionally tessellation/geometry/mesh/task
	VertexBuffers  []VertexBufferLayout
	InputAssembly  InputAssemblyState
	Rasterization  RasterizationState
	Multisample    MultisampleState
	DepthStencil   DepthStencilState
	ColorTargets   []ColorTargetState
	DepthFormat    Format // FormatUndefined: no depth attachment
	ViewCount      uint32 // 0 or 1: no multiview
}

// GraphicsPipelineFrontend is the move-only front-end for a
// GraphicsPipeline.
type GraphicsPipelineFrontend struct {
	api    GraphicsApi
	device Handle[Device]
	handle Handle[GraphicsPipelineTag]
}

func CreateGraphicsPipeline(api GraphicsApi, device Handle[Device], opts GraphicsPipelineOptions) (*GraphicsPipelineFrontend, error) {
	h, err := api.CreateGraphicsPipeline(device, opts)
	if err != nil {
		return nil, err
	}
	return &GraphicsPipelineFrontend{api: api, device: device, handle: h}, nil
}

func (p *GraphicsPipelineFrontend) IsValid() bool { return p != nil && p.handle.IsValid() }
func (p *GraphicsPipelineFrontend) Handle() Handle[GraphicsPipelineTag] { return p.handle }

func (p *GraphicsPipelineFrontend) Release() {
	if p == nil || !p.handle.IsValid() {
		return
	}
	p.api.DeleteGraphicsPipeline(p.handle)
	p.handle = Handle[GraphicsPipelineTag]{}
}
