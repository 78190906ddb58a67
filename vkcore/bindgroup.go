package vkcore

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/kdgpu/kgpucore"
)

// vkBindGroupLayout caches the layout options alongside the native handle
// so UpdateBindGroup and PushBindGroup can validate resource-type
// agreement, per spec.md section 4.9.
type vkBindGroupLayout struct {
	device  kgpu.Handle[kgpu.Device]
	handle  vk.DescriptorSetLayout
	entries []kgpu.BindGroupLayoutEntry
	flags   kgpu.LayoutFlags
}

func (a *VulkanApi) CreateBindGroupLayout(h kgpu.Handle[kgpu.Device], opts kgpu.BindGroupLayoutOptions) (kgpu.Handle[kgpu.BindGroupLayoutTag], error) {
	dev := resolve[vkDevice, kgpu.Device](a.devices, h)
	if dev == nil {
		return kgpu.Handle[kgpu.BindGroupLayoutTag]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreateBindGroupLayout: device does not resolve"}
	}

	bindings := make([]vk.DescriptorSetLayoutBinding, len(opts.Bindings))
	bindingFlags := make([]vk.DescriptorBindingFlags, len(opts.Bindings))
	needsFlags := false
	for i, e := range opts.Bindings {
		count := e.Count
		if count == 0 {
			count = 1
		}
		b := vk.DescriptorSetLayoutBinding{
			Binding:         e.Binding,
			DescriptorType:  toVkDescriptorType(e.ResourceType),
			DescriptorCount: count,
			StageFlags:      vk.ShaderStageFlags(toVkShaderStageFlags(e.ShaderStages)),
		}
		if len(e.ImmutableSamplers) > 0 {
			samplers := make([]vk.Sampler, len(e.ImmutableSamplers))
			for j, sh := range e.ImmutableSamplers {
				s := resolve[vkSampler, kgpu.SamplerTag](a.samplers, sh)
				if s == nil {
					return kgpu.Handle[kgpu.BindGroupLayoutTag]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreateBindGroupLayout: immutable sampler does not resolve"}
				}
				samplers[j] = s.handle
			}
			b.PImmutableSamplers = samplers
		}
		bindings[i] = b

		var flags vk.DescriptorBindingFlagBits
		if e.Flags.Has(kgpu.BindingFlagVariableBindGroupEntriesCount) {
			flags |= vk.DescriptorBindingVariableDescriptorCountBit
		}
		if e.Flags.Has(kgpu.BindingFlagPartiallyBound) {
			flags |= vk.DescriptorBindingPartiallyBoundBit
		}
		if e.Flags.Has(kgpu.BindingFlagUpdateAfterBind) {
			flags |= vk.DescriptorBindingUpdateAfterBindBit
		}
		if e.Flags.Has(kgpu.BindingFlagUpdateUnusedWhilePending) {
			flags |= vk.DescriptorBindingUpdateUnusedWhilePendingBit
		}
		if flags != 0 {
			needsFlags = true
		}
		bindingFlags[i] = vk.DescriptorBindingFlags(flags)
	}

	createInfo := &vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(bindings)),
		PBindings:    bindings,
	}
	var flagsInfo vk.DescriptorSetLayoutBindingFlagsCreateInfo
	if needsFlags {
		flagsInfo = vk.DescriptorSetLayoutBindingFlagsCreateInfo{
			SType:         vk.StructureTypeDescriptorSetLayoutBindingFlagsCreateInfo,
			BindingCount:  uint32(len(bindingFlags)),
			PBindingFlags: bindingFlags,
		}
		createInfo.PNext = unsafeNext(&flagsInfo)
	}
	if opts.Flags.Has(kgpu.LayoutFlagPushBindGroup) {
		createInfo.Flags = vk.DescriptorSetLayoutCreateFlags(vk.DescriptorSetLayoutCreatePushDescriptorBitKhr)
	}

	var layout vk.DescriptorSetLayout
	ret := vk.CreateDescriptorSetLayout(dev.handle, createInfo, nil, &layout)
	if err := checkResult(ret, "VulkanApi.CreateBindGroupLayout"); err != nil {
		return kgpu.Handle[kgpu.BindGroupLayoutTag]{}, err
	}
	return insert[vkBindGroupLayout, kgpu.BindGroupLayoutTag](a.bindGroupLayouts, vkBindGroupLayout{
		device: h, handle: layout, entries: append([]kgpu.BindGroupLayoutEntry(nil), opts.Bindings...), flags: opts.Flags,
	}), nil
}

func (a *VulkanApi) DeleteBindGroupLayout(h kgpu.Handle[kgpu.BindGroupLayoutTag]) {
	l := resolve[vkBindGroupLayout, kgpu.BindGroupLayoutTag](a.bindGroupLayouts, h)
	if l == nil {
		return
	}
	dev := resolve[vkDevice, kgpu.Device](a.devices, l.device)
	if dev != nil {
		vk.DestroyDescriptorSetLayout(dev.handle, l.handle, nil)
	}
	remove[vkBindGroupLayout, kgpu.BindGroupLayoutTag](a.bindGroupLayouts, h)
}

// vkBindGroupPool wraps a native VkDescriptorPool. freeable mirrors
// PoolFlagCreateFreeBindGroups -- without it, individual bind groups
// cannot be vkFreeDescriptorSets'd and DeleteBindGroup is a pool-side
// no-op until Reset.
type vkBindGroupPool struct {
	device   kgpu.Handle[kgpu.Device]
	handle   vk.DescriptorPool
	freeable bool
}

func (a *VulkanApi) CreateBindGroupPool(h kgpu.Handle[kgpu.Device], opts kgpu.BindGroupPoolOptions) (kgpu.Handle[kgpu.BindGroupPoolTag], error) {
	dev := resolve[vkDevice, kgpu.Device](a.devices, h)
	if dev == nil {
		return kgpu.Handle[kgpu.BindGroupPoolTag]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreateBindGroupPool: device does not resolve"}
	}

	sizes := make([]vk.DescriptorPoolSize, len(opts.Budgets))
	for i, b := range opts.Budgets {
		sizes[i] = vk.DescriptorPoolSize{Type: toVkDescriptorType(b.ResourceType), DescriptorCount: b.Count}
	}
	maxSets := opts.MaxBindGroupCount
	if maxSets == 0 {
		maxSets = 1
	}

	var flags vk.DescriptorPoolCreateFlagBits
	freeable := opts.Flags.Has(kgpu.PoolFlagCreateFreeBindGroups)
	if freeable {
		flags |= vk.DescriptorPoolCreateFreeDescriptorSetBit
	}
	if opts.Flags.Has(kgpu.PoolFlagUpdateAfterBind) {
		flags |= vk.DescriptorPoolCreateUpdateAfterBindBit
	}

	var pool vk.DescriptorPool
	ret := vk.CreateDescriptorPool(dev.handle, &vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		Flags:         vk.DescriptorPoolCreateFlags(flags),
		MaxSets:       maxSets,
		PoolSizeCount: uint32(len(sizes)),
		PPoolSizes:    sizes,
	}, nil, &pool)
	if err := checkResult(ret, "VulkanApi.CreateBindGroupPool"); err != nil {
		return kgpu.Handle[kgpu.BindGroupPoolTag]{}, err
	}
	return insert[vkBindGroupPool, kgpu.BindGroupPoolTag](a.bindGroupPools, vkBindGroupPool{device: h, handle: pool, freeable: freeable}), nil
}

func (a *VulkanApi) DeleteBindGroupPool(h kgpu.Handle[kgpu.BindGroupPoolTag]) {
	p := resolve[vkBindGroupPool, kgpu.BindGroupPoolTag](a.bindGroupPools, h)
	if p == nil {
		return
	}
	dev := resolve[vkDevice, kgpu.Device](a.devices, p.device)
	if dev != nil {
		vk.DestroyDescriptorPool(dev.handle, p.handle, nil)
		if dev.defaultBindGroupPool == h {
			dev.defaultBindGroupPool = kgpu.Handle[kgpu.BindGroupPoolTag]{}
		}
	}
	remove[vkBindGroupPool, kgpu.BindGroupPoolTag](a.bindGroupPools, h)
}

func (a *VulkanApi) ResetBindGroupPool(h kgpu.Handle[kgpu.BindGroupPoolTag]) error {
	p := resolve[vkBindGroupPool, kgpu.BindGroupPoolTag](a.bindGroupPools, h)
	if p == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.ResetBindGroupPool"}
	}
	dev := resolve[vkDevice, kgpu.Device](a.devices, p.device)
	if dev == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.ResetBindGroupPool: device does not resolve"}
	}
	return checkResult(vk.ResetDescriptorPool(dev.handle, p.handle, 0), "VulkanApi.ResetBindGroupPool")
}

// defaultBindGroupPoolBudgets sizes the lazily-created per-device default
// pool generously across every descriptor type, mirroring the teacher's
// buffers.go TODO ("CREATE MANAGING DESCRIPTOR POOLS IN INSTANCE") --
// this module resolves that TODO with one pool-per-device allocated on
// first use of a zero-value BindGroupOptions.Pool.
var defaultBindGroupPoolBudgets = []kgpu.BindGroupPoolBudget{
	{ResourceType: kgpu.BindingUniformBuffer, Count: 256},
	{ResourceType: kgpu.BindingDynamicUniformBuffer, Count: 64},
	{ResourceType: kgpu.BindingStorageBuffer, Count: 256},
	{ResourceType: kgpu.BindingDynamicStorageBuffer, Count: 64},
	{ResourceType: kgpu.BindingSampler, Count: 256},
	{ResourceType: kgpu.BindingCombinedImageSampler, Count: 256},
	{ResourceType: kgpu.BindingSampledImage, Count: 256},
	{ResourceType: kgpu.BindingStorageImage, Count: 256},
	{ResourceType: kgpu.BindingUniformTexelBuffer, Count: 64},
	{ResourceType: kgpu.BindingStorageTexelBuffer, Count: 64},
	{ResourceType: kgpu.BindingInputAttachment, Count: 64},
	{ResourceType: kgpu.BindingAccelerationStructure, Count: 64},
}

func (a *VulkanApi) defaultPoolFor(h kgpu.Handle[kgpu.Device], dev *vkDevice) (kgpu.Handle[kgpu.BindGroupPoolTag], error) {
	if dev.defaultBindGroupPool.IsValid() {
		return dev.defaultBindGroupPool, nil
	}
	ph, err := a.CreateBindGroupPool(h, kgpu.BindGroupPoolOptions{
		Budgets:           defaultBindGroupPoolBudgets,
		MaxBindGroupCount: 512,
		Flags:             kgpu.PoolFlagCreateFreeBindGroups,
	})
	if err != nil {
		return kgpu.Handle[kgpu.BindGroupPoolTag]{}, err
	}
	dev.defaultBindGroupPool = ph
	return ph, nil
}

type vkBindGroup struct {
	device kgpu.Handle[kgpu.Device]
	pool   kgpu.Handle[kgpu.BindGroupPoolTag]
	handle vk.DescriptorSet
	layout kgpu.Handle[kgpu.BindGroupLayoutTag]
}

func (a *VulkanApi) CreateBindGroup(h kgpu.Handle[kgpu.Device], opts kgpu.BindGroupOptions) (kgpu.Handle[kgpu.BindGroupTag], error) {
	dev := resolve[vkDevice, kgpu.Device](a.devices, h)
	layout := resolve[vkBindGroupLayout, kgpu.BindGroupLayoutTag](a.bindGroupLayouts, opts.Layout)
	if dev == nil || layout == nil {
		return kgpu.Handle[kgpu.BindGroupTag]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreateBindGroup: device or layout does not resolve"}
	}

	poolHandle := opts.Pool
	if !poolHandle.IsValid() {
		ph, err := a.defaultPoolFor(h, dev)
		if err != nil {
			return kgpu.Handle[kgpu.BindGroupTag]{}, err
		}
		poolHandle = ph
	}
	pool := resolve[vkBindGroupPool, kgpu.BindGroupPoolTag](a.bindGroupPools, poolHandle)
	if pool == nil {
		return kgpu.Handle[kgpu.BindGroupTag]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreateBindGroup: pool does not resolve"}
	}

	allocInfo := &vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     pool.handle,
		DescriptorSetCount: 1,
		PSetLayouts:        []vk.DescriptorSetLayout{layout.handle},
	}
	var variableCountInfo vk.DescriptorSetVariableDescriptorCountAllocateInfo
	if opts.MaxVariableArrayLength > 0 {
		variableCountInfo = vk.DescriptorSetVariableDescriptorCountAllocateInfo{
			SType:              vk.StructureTypeDescriptorSetVariableDescriptorCountAllocateInfo,
			DescriptorSetCount: 1,
			PDescriptorCounts:  []uint32{opts.MaxVariableArrayLength},
		}
		allocInfo.PNext = unsafeNext(&variableCountInfo)
	}

	sets := make([]vk.DescriptorSet, 1)
	ret := vk.AllocateDescriptorSets(dev.handle, allocInfo, sets)
	if err := checkResult(ret, "VulkanApi.CreateBindGroup"); err != nil {
		return kgpu.Handle[kgpu.BindGroupTag]{}, err
	}

	bgHandle := insert[vkBindGroup, kgpu.BindGroupTag](a.bindGroups, vkBindGroup{device: h, pool: poolHandle, handle: sets[0], layout: opts.Layout})
	for _, e := range opts.Entries {
		if err := a.UpdateBindGroup(bgHandle, e); err != nil {
			a.DeleteBindGroup(bgHandle)
			return kgpu.Handle[kgpu.BindGroupTag]{}, err
		}
	}
	return bgHandle, nil
}

func (a *VulkanApi) DeleteBindGroup(h kgpu.Handle[kgpu.BindGroupTag]) {
	bg := resolve[vkBindGroup, kgpu.BindGroupTag](a.bindGroups, h)
	if bg == nil {
		return
	}
	dev := resolve[vkDevice, kgpu.Device](a.devices, bg.device)
	pool := resolve[vkBindGroupPool, kgpu.BindGroupPoolTag](a.bindGroupPools, bg.pool)
	if dev != nil && pool != nil && pool.freeable {
		vk.FreeDescriptorSets(dev.handle, pool.handle, 1, []vk.DescriptorSet{bg.handle})
	}
	remove[vkBindGroup, kgpu.BindGroupTag](a.bindGroups, h)
}

// UpdateBindGroup validates the entry's tagged-union payload against the
// layout's declared ResourceType for that binding (spec.md section 4.9)
// before issuing a single vkUpdateDescriptorSets write.
func (a *VulkanApi) UpdateBindGroup(h kgpu.Handle[kgpu.BindGroupTag], entry kgpu.BindGroupEntry) error {
	bg := resolve[vkBindGroup, kgpu.BindGroupTag](a.bindGroups, h)
	if bg == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.UpdateBindGroup"}
	}
	layout := resolve[vkBindGroupLayout, kgpu.BindGroupLayoutTag](a.bindGroupLayouts, bg.layout)
	if layout == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.UpdateBindGroup: layout does not resolve"}
	}
	write, err := a.buildDescriptorWrite(layout.entries, entry, "VulkanApi.UpdateBindGroup")
	if err != nil {
		return err
	}
	write.DstSet = bg.handle

	nativeDevice := resolve[vkDevice, kgpu.Device](a.devices, bg.device)
	if nativeDevice == nil {
		return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.UpdateBindGroup: device does not resolve"}
	}
	vk.UpdateDescriptorSets(nativeDevice.handle, 1, []vk.WriteDescriptorSet{write}, 0, nil)
	return nil
}

// buildDescriptorWrite builds a WriteDescriptorSet for entry against the
// bind group layout's declared binding, validating resource-type
// agreement. Shared between UpdateBindGroup and the push-descriptor path
// (VK_KHR_push_descriptor) used by RenderPushBindGroup/ComputePushBindGroup/
// RayTracingPushBindGroup, which writes descriptors directly into a command
// buffer without ever populating DstSet.
func (a *VulkanApi) buildDescriptorWrite(layoutEntries []kgpu.BindGroupLayoutEntry, entry kgpu.BindGroupEntry, site string) (vk.WriteDescriptorSet, error) {
	var declared *kgpu.BindGroupLayoutEntry
	for i := range layoutEntries {
		if layoutEntries[i].Binding == entry.Binding {
			declared = &layoutEntries[i]
			break
		}
	}
	if declared == nil {
		return vk.WriteDescriptorSet{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: site + ": no such binding in layout"}
	}

	write := vk.WriteDescriptorSet{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstBinding:      entry.Binding,
		DescriptorCount: 1,
		DescriptorType:  toVkDescriptorType(declared.ResourceType),
	}
	r := entry.Resource

	bufferBindingFor := func(bb *kgpu.BufferBinding, wantType kgpu.ResourceBindingType) error {
		if declared.ResourceType != wantType {
			return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: site + ": resource type mismatch"}
		}
		buf := resolve[vkBuffer, kgpu.BufferTag](a.buffers, bb.Buffer)
		if buf == nil {
			return &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: site + ": buffer does not resolve"}
		}
		size := bb.Size
		if size == 0 {
			size = vk.WholeSize
		}
		write.PBufferInfo = []vk.DescriptorBufferInfo{{Buffer: buf.handle, Offset: vk.DeviceSize(bb.Offset), Range: vk.DeviceSize(size)}}
		return nil
	}

	switch {
	case r.UniformBuffer != nil:
		if err := bufferBindingFor(r.UniformBuffer, kgpu.BindingUniformBuffer); err != nil {
			return vk.WriteDescriptorSet{}, err
		}
	case r.DynamicUniformBuffer != nil:
		if err := bufferBindingFor(r.DynamicUniformBuffer, kgpu.BindingDynamicUniformBuffer); err != nil {
			return vk.WriteDescriptorSet{}, err
		}
	case r.StorageBuffer != nil:
		if err := bufferBindingFor(r.StorageBuffer, kgpu.BindingStorageBuffer); err != nil {
			return vk.WriteDescriptorSet{}, err
		}
	case r.DynamicStorageBuffer != nil:
		if err := bufferBindingFor(r.DynamicStorageBuffer, kgpu.BindingDynamicStorageBuffer); err != nil {
			return vk.WriteDescriptorSet{}, err
		}
	case r.Sampler != nil:
		if declared.ResourceType != kgpu.BindingSampler {
			return vk.WriteDescriptorSet{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: site + ": resource type mismatch"}
		}
		s := resolve[vkSampler, kgpu.SamplerTag](a.samplers, *r.Sampler)
		if s == nil {
			return vk.WriteDescriptorSet{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: site + ": sampler does not resolve"}
		}
		write.PImageInfo = []vk.DescriptorImageInfo{{Sampler: s.handle}}
	case r.TextureView != nil:
		if declared.ResourceType != kgpu.BindingSampledImage {
			return vk.WriteDescriptorSet{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: site + ": resource type mismatch"}
		}
		v := resolve[vkTextureView, kgpu.TextureViewTag](a.textureViews, *r.TextureView)
		if v == nil {
			return vk.WriteDescriptorSet{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: site + ": texture view does not resolve"}
		}
		write.PImageInfo = []vk.DescriptorImageInfo{{ImageView: v.handle, ImageLayout: vk.ImageLayoutShaderReadOnlyOptimal}}
	case r.TextureViewSampler != nil:
		if declared.ResourceType != kgpu.BindingCombinedImageSampler {
			return vk.WriteDescriptorSet{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: site + ": resource type mismatch"}
		}
		v := resolve[vkTextureView, kgpu.TextureViewTag](a.textureViews, r.TextureViewSampler.TextureView)
		s := resolve[vkSampler, kgpu.SamplerTag](a.samplers, r.TextureViewSampler.Sampler)
		if v == nil || s == nil {
			return vk.WriteDescriptorSet{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: site + ": texture view or sampler does not resolve"}
		}
		write.PImageInfo = []vk.DescriptorImageInfo{{ImageView: v.handle, Sampler: s.handle, ImageLayout: vk.ImageLayoutShaderReadOnlyOptimal}}
	case r.Image != nil:
		if declared.ResourceType != kgpu.BindingStorageImage && declared.ResourceType != kgpu.BindingInputAttachment {
			return vk.WriteDescriptorSet{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: site + ": resource type mismatch"}
		}
		v := resolve[vkTextureView, kgpu.TextureViewTag](a.textureViews, r.Image.TextureView)
		if v == nil {
			return vk.WriteDescriptorSet{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: site + ": texture view does not resolve"}
		}
		write.PImageInfo = []vk.DescriptorImageInfo{{ImageView: v.handle, ImageLayout: toVkImageLayout(r.Image.Layout)}}
	case r.AccelerationStructure != nil:
		if declared.ResourceType != kgpu.BindingAccelerationStructure {
			return vk.WriteDescriptorSet{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: site + ": resource type mismatch"}
		}
		as := resolve[vkAccelerationStructure, kgpu.AccelerationStructTag](a.accelStructs, *r.AccelerationStructure)
		if as == nil {
			return vk.WriteDescriptorSet{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: site + ": acceleration structure does not resolve"}
		}
		asInfo := vk.WriteDescriptorSetAccelerationStructureKHR{
			SType: vk.StructureTypeWriteDescriptorSetAccelerationStructureKhr, AccelerationStructureCount: 1,
			PAccelerationStructures: []vk.AccelerationStructureKHR{as.handle},
		}
		write.PNext = unsafeNext(&asInfo)
		write.DescriptorCount = 1
	default:
		return vk.WriteDescriptorSet{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: site + ": no resource payload set"}
	}

	return write, nil
}

// buildPushDescriptorWrites builds one WriteDescriptorSet per entry for use
// with vkCmdPushDescriptorSetKHR, validating each against the bind group
// layout bound at the given set number within pl (spec.md section 4.9:
// PushBindGroup is only valid when that layout was created for push-
// descriptor usage).
func (a *VulkanApi) buildPushDescriptorWrites(pl *vkPipelineLayout, group uint32, entries []kgpu.BindGroupEntry) ([]vk.WriteDescriptorSet, error) {
	if int(group) >= len(pl.setLayouts) {
		return nil, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.PushBindGroup: set number out of range for pipeline layout"}
	}
	layout := resolve[vkBindGroupLayout, kgpu.BindGroupLayoutTag](a.bindGroupLayouts, pl.setLayouts[group])
	if layout == nil {
		return nil, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.PushBindGroup: bind group layout does not resolve"}
	}
	if !layout.flags.Has(kgpu.LayoutFlagPushBindGroup) {
		return nil, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.PushBindGroup: bind group layout was not created with LayoutFlagPushBindGroup"}
	}
	writes := make([]vk.WriteDescriptorSet, 0, len(entries))
	for _, e := range entries {
		write, err := a.buildDescriptorWrite(layout.entries, e, "VulkanApi.PushBindGroup")
		if err != nil {
			return nil, err
		}
		writes = append(writes, write)
	}
	return writes, nil
}

type vkPipelineLayout struct {
	device     kgpu.Handle[kgpu.Device]
	handle     vk.PipelineLayout
	ranges     []kgpu.PushConstantRange
	setLayouts []kgpu.Handle[kgpu.BindGroupLayoutTag]
}

func (a *VulkanApi) CreatePipelineLayout(h kgpu.Handle[kgpu.Device], opts kgpu.PipelineLayoutOptions) (kgpu.Handle[kgpu.PipelineLayoutTag], error) {
	dev := resolve[vkDevice, kgpu.Device](a.devices, h)
	if dev == nil {
		return kgpu.Handle[kgpu.PipelineLayoutTag]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreatePipelineLayout: device does not resolve"}
	}

	setLayouts := make([]vk.DescriptorSetLayout, len(opts.BindGroupLayouts))
	for i, lh := range opts.BindGroupLayouts {
		l := resolve[vkBindGroupLayout, kgpu.BindGroupLayoutTag](a.bindGroupLayouts, lh)
		if l == nil {
			return kgpu.Handle[kgpu.PipelineLayoutTag]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreatePipelineLayout: bind group layout does not resolve"}
		}
		setLayouts[i] = l.handle
	}
	pushRanges := make([]vk.PushConstantRange, len(opts.PushConstantRanges))
	for i, r := range opts.PushConstantRanges {
		pushRanges[i] = vk.PushConstantRange{StageFlags: vk.ShaderStageFlags(toVkShaderStageFlags(r.ShaderStages)), Offset: r.Offset, Size: r.Size}
	}

	var layout vk.PipelineLayout
	ret := vk.CreatePipelineLayout(dev.handle, &vk.PipelineLayoutCreateInfo{
		SType:                  vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount:         uint32(len(setLayouts)),
		PSetLayouts:            setLayouts,
		PushConstantRangeCount: uint32(len(pushRanges)),
		PPushConstantRanges:    pushRanges,
	}, nil, &layout)
	if err := checkResult(ret, "VulkanApi.CreatePipelineLayout"); err != nil {
		return kgpu.Handle[kgpu.PipelineLayoutTag]{}, err
	}
	return insert[vkPipelineLayout, kgpu.PipelineLayoutTag](a.pipelineLayouts, vkPipelineLayout{
		device: h, handle: layout, ranges: append([]kgpu.PushConstantRange(nil), opts.PushConstantRanges...),
		setLayouts: append([]kgpu.Handle[kgpu.BindGroupLayoutTag](nil), opts.BindGroupLayouts...),
	}), nil
}

func (a *VulkanApi) DeletePipelineLayout(h kgpu.Handle[kgpu.PipelineLayoutTag]) {
	l := resolve[vkPipelineLayout, kgpu.PipelineLayoutTag](a.pipelineLayouts, h)
	if l == nil {
		return
	}
	dev := resolve[vkDevice, kgpu.Device](a.devices, l.device)
	if dev != nil {
		vk.DestroyPipelineLayout(dev.handle, l.handle, nil)
	}
	remove[vkPipelineLayout, kgpu.PipelineLayoutTag](a.pipelineLayouts, h)
}
