package vkcore

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/kdgpu/kgpucore"
)

type vkSampler struct {
	device kgpu.Handle[kgpu.Device]
	handle vk.Sampler
}

func (a *VulkanApi) CreateSampler(h kgpu.Handle[kgpu.Device], opts kgpu.SamplerOptions) (kgpu.Handle[kgpu.SamplerTag], error) {
	dev := resolve[vkDevice, kgpu.Device](a.devices, h)
	if dev == nil {
		return kgpu.Handle[kgpu.SamplerTag]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreateSampler: device does not resolve"}
	}

	createInfo := &vk.SamplerCreateInfo{
		SType:                   vk.StructureTypeSamplerCreateInfo,
		MagFilter:               toVkFilter(opts.MagFilter),
		MinFilter:               toVkFilter(opts.MinFilter),
		MipmapMode:              toVkMipmapMode(opts.MipmapMode),
		AddressModeU:            toVkAddressMode(opts.AddressModeU),
		AddressModeV:            toVkAddressMode(opts.AddressModeV),
		AddressModeW:            toVkAddressMode(opts.AddressModeW),
		AnisotropyEnable:        vk.Bool32(boolToU32(opts.MaxAnisotropy > 0)),
		MaxAnisotropy:           opts.MaxAnisotropy,
		CompareEnable:           vk.Bool32(boolToU32(opts.CompareEnable)),
		CompareOp:               toVkCompareOp(opts.CompareOp),
		MinLod:                  opts.MinLod,
		MaxLod:                  opts.MaxLod,
		BorderColor:             vk.BorderColorFloatTransparentBlack,
	}

	var ycbcrInfo vk.SamplerYcbcrConversionInfo
	if opts.YCbCrConversion.IsValid() {
		conv := resolve[vkYCbCrConversion, kgpu.YCbCrConversionTag](a.ycbcr, opts.YCbCrConversion)
		if conv == nil {
			return kgpu.Handle[kgpu.SamplerTag]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreateSampler: ycbcr conversion does not resolve"}
		}
		ycbcrInfo = vk.SamplerYcbcrConversionInfo{SType: vk.StructureTypeSamplerYcbcrConversionInfo, Conversion: conv.handle}
		createInfo.PNext = unsafeNext(&ycbcrInfo)
		// Combined image samplers built against a ycbcr conversion must use
		// CLAMP_TO_EDGE addressing and nearest/linear filters matching the
		// conversion's chroma filter, per the VK_KHR_sampler_ycbcr_conversion
		// valid-usage rules.
		createInfo.AddressModeU = vk.SamplerAddressModeClampToEdge
		createInfo.AddressModeV = vk.SamplerAddressModeClampToEdge
		createInfo.AddressModeW = vk.SamplerAddressModeClampToEdge
		createInfo.AnisotropyEnable = vk.False
	}

	var sampler vk.Sampler
	ret := vk.CreateSampler(dev.handle, createInfo, nil, &sampler)
	if err := checkResult(ret, "VulkanApi.CreateSampler"); err != nil {
		return kgpu.Handle[kgpu.SamplerTag]{}, err
	}
	return insert[vkSampler, kgpu.SamplerTag](a.samplers, vkSampler{device: h, handle: sampler}), nil
}

func (a *VulkanApi) DeleteSampler(h kgpu.Handle[kgpu.SamplerTag]) {
	s := resolve[vkSampler, kgpu.SamplerTag](a.samplers, h)
	if s == nil {
		return
	}
	dev := resolve[vkDevice, kgpu.Device](a.devices, s.device)
	if dev != nil {
		vk.DestroySampler(dev.handle, s.handle, nil)
	}
	remove[vkSampler, kgpu.SamplerTag](a.samplers, h)
}

type vkYCbCrConversion struct {
	device kgpu.Handle[kgpu.Device]
	handle vk.SamplerYcbcrConversion
}

func (a *VulkanApi) CreateYCbCrConversion(h kgpu.Handle[kgpu.Device], opts kgpu.YCbCrConversionOptions) (kgpu.Handle[kgpu.YCbCrConversionTag], error) {
	dev := resolve[vkDevice, kgpu.Device](a.devices, h)
	if dev == nil {
		return kgpu.Handle[kgpu.YCbCrConversionTag]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreateYCbCrConversion: device does not resolve"}
	}

	reconstruction := vk.ChromaLocationCositedEven
	var conv vk.SamplerYcbcrConversion
	ret := vk.CreateSamplerYcbcrConversion(dev.handle, &vk.SamplerYcbcrConversionCreateInfo{
		SType:                       vk.StructureTypeSamplerYcbcrConversionCreateInfo,
		Format:                      toVkFormat(opts.Format),
		YcbcrModel:                  vk.SamplerYcbcrModelConversion(opts.YCbCrModel),
		YcbcrRange:                  vk.SamplerYcbcrRange(opts.YCbCrRange),
		Components:                  vk.ComponentMapping{R: vk.ComponentSwizzleIdentity, G: vk.ComponentSwizzleIdentity, B: vk.ComponentSwizzleIdentity, A: vk.ComponentSwizzleIdentity},
		XChromaOffset:               reconstruction,
		YChromaOffset:               reconstruction,
		ChromaFilter:                toVkFilter(opts.ChromaFilter),
		ForceExplicitReconstruction: vk.Bool32(boolToU32(opts.ForceExplicitReconstruction)),
	}, nil, &conv)
	if err := checkResult(ret, "VulkanApi.CreateYCbCrConversion"); err != nil {
		return kgpu.Handle[kgpu.YCbCrConversionTag]{}, err
	}
	return insert[vkYCbCrConversion, kgpu.YCbCrConversionTag](a.ycbcr, vkYCbCrConversion{device: h, handle: conv}), nil
}

func (a *VulkanApi) DeleteYCbCrConversion(h kgpu.Handle[kgpu.YCbCrConversionTag]) {
	c := resolve[vkYCbCrConversion, kgpu.YCbCrConversionTag](a.ycbcr, h)
	if c == nil {
		return
	}
	dev := resolve[vkDevice, kgpu.Device](a.devices, c.device)
	if dev != nil {
		vk.DestroySamplerYcbcrConversion(dev.handle, c.handle, nil)
	}
	remove[vkYCbCrConversion, kgpu.YCbCrConversionTag](a.ycbcr, h)
}

func boolToU32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
