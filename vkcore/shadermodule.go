package vkcore

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/kdgpu/kgpucore"
)

type vkShaderModule struct {
	device kgpu.Handle[kgpu.Device]
	handle vk.ShaderModule
}

// CreateShaderModule hands already-compiled SPIR-V words straight to
// vk.CreateShaderModule, the same shape as the teacher's shader.go
// LoadShaderModule (minus the file read -- spec.md takes the words
// directly rather than a path).
func (a *VulkanApi) CreateShaderModule(h kgpu.Handle[kgpu.Device], spirv []uint32) (kgpu.Handle[kgpu.ShaderModuleTag], error) {
	dev := resolve[vkDevice, kgpu.Device](a.devices, h)
	if dev == nil {
		return kgpu.Handle[kgpu.ShaderModuleTag]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreateShaderModule: device does not resolve"}
	}
	if len(spirv) == 0 {
		return kgpu.Handle[kgpu.ShaderModuleTag]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreateShaderModule: empty spirv"}
	}

	var module vk.ShaderModule
	ret := vk.CreateShaderModule(dev.handle, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(spirv) * 4),
		PCode:    spirv,
	}, nil, &module)
	if err := checkResult(ret, "VulkanApi.CreateShaderModule"); err != nil {
		return kgpu.Handle[kgpu.ShaderModuleTag]{}, err
	}
	return insert[vkShaderModule, kgpu.ShaderModuleTag](a.shaderModules, vkShaderModule{device: h, handle: module}), nil
}

func (a *VulkanApi) DeleteShaderModule(h kgpu.Handle[kgpu.ShaderModuleTag]) {
	s := resolve[vkShaderModule, kgpu.ShaderModuleTag](a.shaderModules, h)
	if s == nil {
		return
	}
	dev := resolve[vkDevice, kgpu.Device](a.devices, s.device)
	if dev != nil {
		vk.DestroyShaderModule(dev.handle, s.handle, nil)
	}
	remove[vkShaderModule, kgpu.ShaderModuleTag](a.shaderModules, h)
}
