package kgpu

// ShaderModuleFrontend is the move-only front-end for a ShaderModule. The
// core consumes already-compiled SPIR-V (spec.md section 1's "Out of
// scope": shader compilation is external); CreateShaderModule takes the
// raw word array directly, grounded in the teacher's
// shader.go:LoadShaderModule, which reads a .spv file and hands the bytes
// (reinterpreted as uint32 words) straight to vk.CreateShaderModule.
type ShaderModuleFrontend struct {
	api    GraphicsApi
	device Handle[Device]
	handle Handle[ShaderModuleTag]
}

// CreateShaderModule wraps already-compiled SPIR-V words.
func CreateShaderModule(api GraphicsApi, device Handle[Device], spirv []uint32) (*ShaderModuleFrontend, error) {
	h, err := api.CreateShaderModule(device, spirv)
	if err != nil {
		return nil, err
	}
	return &ShaderModuleFrontend{api: api, device: device, handle: h}, nil
}

func (s *ShaderModuleFrontend) IsValid() bool { return s != nil && s.handle.IsValid() }
func (s *ShaderModuleFrontend) Handle() Handle[ShaderModuleTag] { return s.handle }

func (s *ShaderModuleFrontend) Release() {
	if s == nil || !s.handle.IsValid() {
		return
	}
	s.api.DeleteShaderModule(s.handle)
	s.handle = Handle[ShaderModuleTag]{}
}

// ShaderStageEntry pairs a shader module + entry point + stage, the unit
// pipelines assemble their shader-stage tables from (spec.md section 3).
type ShaderStageEntry struct {
	Module     Handle[ShaderModuleTag]
	EntryPoint string
	Stage      ShaderStage
}
