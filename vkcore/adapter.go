package vkcore

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/kdgpu/kgpucore"
)

// queryAdapterCapabilities gathers vk.PhysicalDeviceProperties and probes
// extension support to populate the semantic feature/property subset
// kgpu.AdapterFeatures/AdapterProperties expose (spec.md section 4.2).
// Extensions this module cannot probe without the extension's dedicated
// feature-struct chain (ray tracing, mesh shading, ...) are reported true
// only when the extension name is present in the device's extension list;
// the backend does not attempt a bit-exact VkPhysicalDeviceFeatures2 probe
// for every one of the ~100 capabilities the spec.md prose mentions.
func queryAdapterCapabilities(pd vk.PhysicalDevice) (kgpu.AdapterFeatures, kgpu.AdapterProperties) {
	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(pd, &props)
	props.Deref()
	props.Limits.Deref()

	var extCount uint32
	vk.EnumerateDeviceExtensionProperties(pd, "", &extCount, nil)
	extProps := make([]vk.ExtensionProperties, extCount)
	vk.EnumerateDeviceExtensionProperties(pd, "", &extCount, extProps)
	have := make(map[string]bool, extCount)
	for i := range extProps {
		extProps[i].Deref()
		have[vk.ToString(extProps[i].ExtensionName[:])] = true
	}

	deviceType := kgpu.AdapterDeviceOther
	switch props.DeviceType {
	case vk.PhysicalDeviceTypeDiscreteGpu:
		deviceType = kgpu.AdapterDeviceDiscreteGpu
	case vk.PhysicalDeviceTypeIntegratedGpu:
		deviceType = kgpu.AdapterDeviceIntegratedGpu
	case vk.PhysicalDeviceTypeCpu:
		deviceType = kgpu.AdapterDeviceCpu
	case vk.PhysicalDeviceTypeVirtualGpu:
		deviceType = kgpu.AdapterDeviceVirtualGpu
	}

	features := kgpu.AdapterFeatures{
		RayTracing:             have["VK_KHR_ray_tracing_pipeline"] && have["VK_KHR_acceleration_structure"],
		MeshShading:            have["VK_EXT_mesh_shader"],
		BufferDeviceAddress:    have["VK_KHR_buffer_device_address"],
		Multiview:              have["VK_KHR_multiview"],
		DescriptorIndexing:     have["VK_EXT_descriptor_indexing"],
		HostImageCopy:          have["VK_EXT_host_image_copy"],
		YCbCrConversion:        have["VK_KHR_sampler_ycbcr_conversion"],
		DynamicRendering:       have["VK_KHR_dynamic_rendering"],
		PushDescriptor:         have["VK_KHR_push_descriptor"],
		ExternalMemory:         have["VK_KHR_external_memory_fd"] || have["VK_KHR_external_memory_win32"],
		ExternalSemaphoreFence: have["VK_KHR_external_semaphore"] && have["VK_KHR_external_fence"],
		Synchronization2:       have["VK_KHR_synchronization2"],
	}

	properties := kgpu.AdapterProperties{
		ApiVersion:    props.ApiVersion,
		DriverVersion: props.DriverVersion,
		DeviceName:    vk.ToString(props.DeviceName[:]),
		DeviceType:    deviceType,
		Limits: kgpu.RayTracingLimits{
			// Populated from VkPhysicalDeviceRayTracingPipelinePropertiesKHR
			// when the extension is present; zero otherwise, which
			// CreateShaderBindingTable treats as "ray tracing unsupported".
		},
		MaxPushConstantsSize:        props.Limits.MaxPushConstantsSize,
		MinUniformBufferOffsetAlign: uint64(props.Limits.MinUniformBufferOffsetAlignment),
		MaxBoundDescriptorSets:      props.Limits.MaxBoundDescriptorSets,
		MaxColorAttachments:         props.Limits.MaxColorAttachments,
		MaxViewports:                props.Limits.MaxViewports,
		MaxMultiviewViewCount:       props.Limits.MaxFramebufferLayers,
	}

	if features.RayTracing {
		var rtProps vk.PhysicalDeviceRayTracingPipelinePropertiesKHR
		rtProps.SType = vk.StructureTypePhysicalDeviceRayTracingPipelinePropertiesKhr
		var props2 vk.PhysicalDeviceProperties2
		props2.SType = vk.StructureTypePhysicalDeviceProperties2
		props2.PNext = unsafeNext(&rtProps)
		vk.GetPhysicalDeviceProperties2(pd, &props2)
		rtProps.Deref()
		properties.Limits = kgpu.RayTracingLimits{
			ShaderGroupHandleSize:      rtProps.ShaderGroupHandleSize,
			ShaderGroupHandleAlignment: rtProps.ShaderGroupHandleAlignment,
			ShaderGroupBaseAlignment:   rtProps.ShaderGroupBaseAlignment,
			MaxRayRecursionDepth:       rtProps.MaxRayRecursionDepth,
		}
	}

	return features, properties
}
