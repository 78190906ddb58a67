package vkcore

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"

	"github.com/kdgpu/kgpucore"
)

func safeString(s string) string {
	if len(s) == 0 || s[len(s)-1] != 0 {
		return s + "\x00"
	}
	return s
}

func safeStrings(list []string) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = safeString(s)
	}
	return out
}

// CreateInstance creates the native VkInstance, grounded on the teacher's
// core.go CreateGraphicsInstance: an application-info block, layer and
// extension lists, and on debug builds a validation-message callback
// filtered through the logger's ignore list (spec.md section 4.2).
func (a *VulkanApi) CreateInstance(opts kgpu.InstanceOptions) (kgpu.Handle[kgpu.Instance], error) {
	layers := safeStrings(opts.Layers)
	extensions := safeStrings(opts.Extensions)

	apiVersion := opts.ApiVersion
	if apiVersion == 0 {
		apiVersion = vk.MakeVersion(1, 2, 0)
	}

	var handle vk.Instance
	ret := vk.CreateInstance(&vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			ApiVersion:         apiVersion,
			ApplicationVersion: vk.MakeVersion(1, 0, 0),
			PApplicationName:   safeString(opts.ApplicationName),
			PEngineName:        "kgpucore\x00",
		},
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
	}, nil, &handle)
	if err := checkResult(ret, "VulkanApi.CreateInstance"); err != nil {
		return kgpu.Handle[kgpu.Instance]{}, err
	}
	vk.InitInstance(handle)

	inst := vkInstance{handle: handle}
	if opts.EnableValidation {
		ret := vk.CreateDebugReportCallback(handle, &vk.DebugReportCallbackCreateInfo{
			SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
			Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit),
			PfnCallback: a.debugCallback,
		}, nil, &inst.debugCB)
		if ret != vk.Success {
			a.logger.Warn("vkcore: failed to install debug report callback (result %d)", ret)
		}
	}

	return insert[vkInstance, kgpu.Instance](a.instances, inst), nil
}

// debugCallback filters validation messages against the logger's
// ignore list before logging (spec.md section 4.2).
func (a *VulkanApi) debugCallback(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
	object uint64, location uint, messageCode int32, pLayerPrefix string, pMessage string, pUserData unsafe.Pointer) vk.Bool32 {
	if a.logger.ShouldIgnoreValidationMessage(pMessage) {
		return vk.Bool32(vk.False)
	}
	if flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0 {
		a.logger.Error("validation: %s", pMessage)
	} else {
		a.logger.Warn("validation: %s", pMessage)
	}
	return vk.Bool32(vk.False)
}

func (a *VulkanApi) DeleteInstance(h kgpu.Handle[kgpu.Instance]) {
	inst := resolve[vkInstance, kgpu.Instance](a.instances, h)
	if inst == nil {
		return
	}
	if inst.debugCB != vk.NullDebugReportCallback {
		vk.DestroyDebugReportCallback(inst.handle, inst.debugCB, nil)
	}
	vk.DestroyInstance(inst.handle, nil)
	remove[vkInstance, kgpu.Instance](a.instances, h)
}

// Adapters lazily queries native physical devices on first call and
// memoizes the result (spec.md section 4.2).
func (a *VulkanApi) Adapters(h kgpu.Handle[kgpu.Instance]) []kgpu.Handle[kgpu.Adapter] {
	inst := resolve[vkInstance, kgpu.Instance](a.instances, h)
	if inst == nil {
		return nil
	}
	if len(inst.adapters) > 0 {
		return inst.adapters
	}

	var count uint32
	vk.EnumeratePhysicalDevices(inst.handle, &count, nil)
	if count == 0 {
		return nil
	}
	physDevices := make([]vk.PhysicalDevice, count)
	vk.EnumeratePhysicalDevices(inst.handle, &count, physDevices)

	inst.adapters = make([]kgpu.Handle[kgpu.Adapter], 0, count)
	for _, pd := range physDevices {
		ah := a.wrapAdapter(h, pd)
		inst.adapters = append(inst.adapters, ah)
	}
	return inst.adapters
}

func (a *VulkanApi) wrapAdapter(instance kgpu.Handle[kgpu.Instance], pd vk.PhysicalDevice) kgpu.Handle[kgpu.Adapter] {
	var qfCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &qfCount, nil)
	families := make([]vk.QueueFamilyProperties, qfCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &qfCount, families)
	for i := range families {
		families[i].Deref()
	}

	var memProps vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(pd, &memProps)
	memProps.Deref()

	ad := vkAdapter{
		instance:      instance,
		physDevice:    pd,
		queueFamilies: families,
		memProps:      memProps,
	}
	ad.features, ad.properties = queryAdapterCapabilities(pd)
	return insert[vkAdapter, kgpu.Adapter](a.adapters, ad)
}

// SelectAdapter returns the first adapter whose AdapterDeviceType is kind;
// otherwise it falls back to a discrete adapter, then an integrated one,
// then any adapter (spec.md section 4.2's selectAdapter convenience).
func (a *VulkanApi) SelectAdapter(h kgpu.Handle[kgpu.Instance], kind kgpu.AdapterDeviceType) (kgpu.Handle[kgpu.Adapter], bool) {
	candidates := a.Adapters(h)
	var fallback kgpu.Handle[kgpu.Adapter]
	fallbackRank := 0
	for _, c := range candidates {
		ad := resolve[vkAdapter, kgpu.Adapter](a.adapters, c)
		if ad == nil {
			continue
		}
		if ad.properties.DeviceType == kind {
			return c, true
		}
		rank := 1
		switch ad.properties.DeviceType {
		case kgpu.AdapterDeviceDiscreteGpu:
			rank = 3
		case kgpu.AdapterDeviceIntegratedGpu:
			rank = 2
		}
		if rank > fallbackRank {
			fallback, fallbackRank = c, rank
		}
	}
	return fallback, fallbackRank > 0
}

func (a *VulkanApi) AdapterFeatures(h kgpu.Handle[kgpu.Adapter]) kgpu.AdapterFeatures {
	ad := resolve[vkAdapter, kgpu.Adapter](a.adapters, h)
	if ad == nil {
		return kgpu.AdapterFeatures{}
	}
	return ad.features
}

func (a *VulkanApi) AdapterProperties(h kgpu.Handle[kgpu.Adapter]) kgpu.AdapterProperties {
	ad := resolve[vkAdapter, kgpu.Adapter](a.adapters, h)
	if ad == nil {
		return kgpu.AdapterProperties{}
	}
	return ad.properties
}
