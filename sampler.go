package kgpu

// SamplerOptions mirrors spec.md section 3's Sampler attributes.
type SamplerOptions struct {
	MagFilter       FilterMode
	MinFilter       FilterMode
	MipmapMode      MipmapMode
	AddressModeU    AddressMode
	AddressModeV    AddressMode
	AddressModeW    AddressMode
	MaxAnisotropy   float32 // 0 disables anisotropic filtering
	CompareEnable   bool
	CompareOp       CompareOp
	MinLod, MaxLod  float32
	YCbCrConversion Handle[YCbCrConversionTag] // zero value: none
}

// SamplerFrontend is the move-only front-end for a Sampler.
type SamplerFrontend struct {
	api    GraphicsApi
	device Handle[Device]
	handle Handle[SamplerTag]
}

func CreateSampler(api GraphicsApi, device Handle[Device], opts SamplerOptions) (*SamplerFrontend, error) {
	h, err := api.CreateSampler(device, opts)
	if err != nil {
		return nil, err
	}
	return &SamplerFrontend{api: api, device: device, handle: h}, nil
}

func (s *SamplerFrontend) IsValid() bool             { return s != nil && s.handle.IsValid() }
func (s *SamplerFrontend) Handle() Handle[SamplerTag] { return s.handle }

func (s *SamplerFrontend) Release() {
	if s == nil || !s.handle.IsValid() {
		return
	}
	s.api.DeleteSampler(s.handle)
	s.handle = Handle[SamplerTag]{}
}

// YCbCrConversionOptions describes a YCbCr sampler conversion, referenced
// optionally by SamplerOptions (spec.md section 3).
type YCbCrConversionOptions struct {
	Format              Format
	YCbCrModel          int
	YCbCrRange          int
	ChromaFilter        FilterMode
	ForceExplicitReconstruction bool
}

// YCbCrConversionFrontend is the move-only front-end for a YCbCrConversion.
type YCbCrConversionFrontend struct {
	api    GraphicsApi
	device Handle[Device]
	handle Handle[YCbCrConversionTag]
}

func CreateYCbCrConversion(api GraphicsApi, device Handle[Device], opts YCbCrConversionOptions) (*YCbCrConversionFrontend, error) {
	h, err := api.CreateYCbCrConversion(device, opts)
	if err != nil {
		return nil, err
	}
	return &YCbCrConversionFrontend{api: api, device: device, handle: h}, nil
}

func (y *YCbCrConversionFrontend) IsValid() bool { return y != nil && y.handle.IsValid() }
func (y *YCbCrConversionFrontend) Handle() Handle[YCbCrConversionTag] { return y.handle }

func (y *YCbCrConversionFrontend) Release() {
	if y == nil || !y.handle.IsValid() {
		return
	}
	y.api.DeleteYCbCrConversion(y.handle)
	y.handle = Handle[YCbCrConversionTag]{}
}
