package vkcore

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/kdgpu/kgpucore"
)

// vkAccelerationStructure wraps a native VkAccelerationStructureKHR plus
// the backing buffer it was built into. No teacher precedent exists (the
// teacher predates KHR ray tracing); built directly from spec.md's
// field-level description, in the same CreateInfo-struct-literal idiom as
// the rest of this package.
type vkAccelerationStructure struct {
	device       kgpu.Handle[kgpu.Device]
	handle       vk.AccelerationStructureKHR
	buffer       vk.Buffer
	memory       vk.DeviceMemory
	deviceAddress uint64
	asType       kgpu.AccelerationStructureType
}

func (a *VulkanApi) CreateAccelerationStructure(h kgpu.Handle[kgpu.Device], opts kgpu.AccelerationStructureOptions) (kgpu.Handle[kgpu.AccelerationStructTag], error) {
	dev := resolve[vkDevice, kgpu.Device](a.devices, h)
	if dev == nil {
		return kgpu.Handle[kgpu.AccelerationStructTag]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreateAccelerationStructure: device does not resolve"}
	}
	ad := resolve[vkAdapter, kgpu.Adapter](a.adapters, dev.adapter)
	if ad == nil || ad.properties.Limits.ShaderGroupHandleSize == 0 {
		return kgpu.Handle[kgpu.AccelerationStructTag]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreateAccelerationStructure: adapter does not support ray tracing"}
	}

	geoms, maxPrimCounts, buildType, err := buildGeometryInfos(a, opts)
	if err != nil {
		return kgpu.Handle[kgpu.AccelerationStructTag]{}, err
	}

	buildInfo := vk.AccelerationStructureBuildGeometryInfoKHR{
		SType:         vk.StructureTypeAccelerationStructureBuildGeometryInfoKhr,
		Type:          buildType,
		Flags:         accelStructBuildFlags(opts),
		Mode:          vk.BuildAccelerationStructureModeBuildKhr,
		GeometryCount: uint32(len(geoms)),
		PGeometries:   geoms,
	}

	var sizeInfo vk.AccelerationStructureBuildSizesInfoKHR
	sizeInfo.SType = vk.StructureTypeAccelerationStructureBuildSizesInfoKhr
	vk.GetAccelerationStructureBuildSizesKHR(dev.handle, vk.AccelerationStructureBuildTypeDeviceKhr, &buildInfo, maxPrimCounts, &sizeInfo)
	sizeInfo.Deref()

	bufHandle, err := a.CreateBuffer(h, kgpu.BufferOptions{
		Size: sizeInfo.AccelerationStructureSize,
		Usage: kgpu.BufferUsageStorage | kgpu.BufferUsageShaderDeviceAddress,
		MemoryUsage: kgpu.MemoryUsageGpuOnly,
	})
	if err != nil {
		return kgpu.Handle[kgpu.AccelerationStructTag]{}, err
	}
	backing := resolve[vkBuffer, kgpu.BufferTag](a.buffers, bufHandle)

	var asHandle vk.AccelerationStructureKHR
	ret := vk.CreateAccelerationStructureKHR(dev.handle, &vk.AccelerationStructureCreateInfoKHR{
		SType:  vk.StructureTypeAccelerationStructureCreateInfoKhr,
		Buffer: backing.handle,
		Size:   sizeInfo.AccelerationStructureSize,
		Type:   buildType,
	}, nil, &asHandle)
	if err := checkResult(ret, "VulkanApi.CreateAccelerationStructure"); err != nil {
		a.DeleteBuffer(bufHandle)
		return kgpu.Handle[kgpu.AccelerationStructTag]{}, err
	}

	scratchHandle, err := a.CreateBuffer(h, kgpu.BufferOptions{
		Size: sizeInfo.BuildScratchSize,
		Usage: kgpu.BufferUsageStorage | kgpu.BufferUsageShaderDeviceAddress,
		MemoryUsage: kgpu.MemoryUsageGpuOnly,
	})
	if err != nil {
		vk.DestroyAccelerationStructureKHR(dev.handle, asHandle, nil)
		a.DeleteBuffer(bufHandle)
		return kgpu.Handle[kgpu.AccelerationStructTag]{}, err
	}
	defer a.DeleteBuffer(scratchHandle)
	scratchAddr, err := a.BufferDeviceAddress(scratchHandle)
	if err != nil {
		vk.DestroyAccelerationStructureKHR(dev.handle, asHandle, nil)
		a.DeleteBuffer(bufHandle)
		return kgpu.Handle[kgpu.AccelerationStructTag]{}, err
	}

	buildInfo.DstAccelerationStructure = asHandle
	buildInfo.ScratchData = vk.DeviceOrHostAddressKHR{DeviceAddress: vk.DeviceAddress(scratchAddr)}

	rangeInfos := make([]vk.AccelerationStructureBuildRangeInfoKHR, len(geoms))
	for i, c := range maxPrimCounts {
		rangeInfos[i] = vk.AccelerationStructureBuildRangeInfoKHR{PrimitiveCount: c}
	}

	queues := a.DeviceQueues(h)
	if len(queues) == 0 {
		vk.DestroyAccelerationStructureKHR(dev.handle, asHandle, nil)
		a.DeleteBuffer(bufHandle)
		return kgpu.Handle[kgpu.AccelerationStructTag]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreateAccelerationStructure: device has no queues"}
	}
	pool, err := a.commandPoolFor(dev, dev.queues[queues[0].Index].family)
	if err != nil {
		vk.DestroyAccelerationStructureKHR(dev.handle, asHandle, nil)
		a.DeleteBuffer(bufHandle)
		return kgpu.Handle[kgpu.AccelerationStructTag]{}, err
	}
	cmd, err := allocateOneShotCommandBuffer(dev.handle, pool)
	if err != nil {
		vk.DestroyAccelerationStructureKHR(dev.handle, asHandle, nil)
		a.DeleteBuffer(bufHandle)
		return kgpu.Handle[kgpu.AccelerationStructTag]{}, err
	}
	vk.CmdBuildAccelerationStructuresKHR(cmd, 1, []vk.AccelerationStructureBuildGeometryInfoKHR{buildInfo}, [][]vk.AccelerationStructureBuildRangeInfoKHR{rangeInfos})
	buildErr := submitOneShotCommandBuffer(dev, queues[0], cmd)
	vk.FreeCommandBuffers(dev.handle, pool, 1, []vk.CommandBuffer{cmd})
	if buildErr != nil {
		vk.DestroyAccelerationStructureKHR(dev.handle, asHandle, nil)
		a.DeleteBuffer(bufHandle)
		return kgpu.Handle[kgpu.AccelerationStructTag]{}, buildErr
	}

	deviceAddr := vk.GetAccelerationStructureDeviceAddressKHR(dev.handle, &vk.AccelerationStructureDeviceAddressInfoKHR{
		SType: vk.StructureTypeAccelerationStructureDeviceAddressInfoKhr, AccelerationStructure: asHandle,
	})

	return insert[vkAccelerationStructure, kgpu.AccelerationStructTag](a.accelStructs, vkAccelerationStructure{
		device: h, handle: asHandle, buffer: backing.handle, memory: backing.memory,
		deviceAddress: uint64(deviceAddr), asType: opts.Type,
	}), nil
}

func accelStructBuildFlags(opts kgpu.AccelerationStructureOptions) vk.BuildAccelerationStructureFlagsKHR {
	var flags vk.BuildAccelerationStructureFlagBitsKHR
	flags |= vk.BuildAccelerationStructureFlagBitsKHR(vk.BuildAccelerationStructurePreferFastTraceBitKhr)
	if opts.AllowUpdate {
		flags |= vk.BuildAccelerationStructureFlagBitsKHR(vk.BuildAccelerationStructureAllowUpdateBitKhr)
	}
	if opts.AllowCompaction {
		flags |= vk.BuildAccelerationStructureFlagBitsKHR(vk.BuildAccelerationStructureAllowCompactionBitKhr)
	}
	return vk.BuildAccelerationStructureFlagsKHR(flags)
}

// buildGeometryInfos translates the geometry entries' buffer handles into
// VkAccelerationStructureGeometryKHR structs, resolving each buffer's
// device address since KHR acceleration-structure builds address their
// vertex/index/instance data by GPU pointer rather than descriptor.
func buildGeometryInfos(a *VulkanApi, opts kgpu.AccelerationStructureOptions) ([]vk.AccelerationStructureGeometryKHR, []uint32, vk.AccelerationStructureTypeKHR, error) {
	buildType := vk.AccelerationStructureTypeBottomLevelKhr
	if opts.Type == kgpu.AccelerationStructureTopLevel {
		buildType = vk.AccelerationStructureTypeTopLevelKhr
	}

	geoms := make([]vk.AccelerationStructureGeometryKHR, 0, len(opts.Geometries))
	counts := make([]uint32, 0, len(opts.Geometries))
	for _, g := range opts.Geometries {
		switch g.Type {
		case kgpu.GeometryTypeTriangles:
			vAddr, err := a.BufferDeviceAddress(g.VertexBuffer)
			if err != nil {
				return nil, nil, 0, err
			}
			tri := vk.AccelerationStructureGeometryTrianglesDataKHR{
				SType:        vk.StructureTypeAccelerationStructureGeometryTrianglesDataKhr,
				VertexFormat: toVkFormat(g.VertexFormat),
				VertexStride: vk.DeviceSize(g.VertexStride),
				MaxVertex:    g.VertexCount,
			}
			tri.VertexData.DeviceAddress = vk.DeviceAddress(vAddr)
			if g.IndexBuffer.IsValid() {
				iAddr, err := a.BufferDeviceAddress(g.IndexBuffer)
				if err != nil {
					return nil, nil, 0, err
				}
				tri.IndexType = toVkIndexType(g.IndexType)
				tri.IndexData.DeviceAddress = vk.DeviceAddress(iAddr)
			} else {
				tri.IndexType = vk.IndexTypeNoneKhr
			}
			if g.TransformBuffer.IsValid() {
				tAddr, err := a.BufferDeviceAddress(g.TransformBuffer)
				if err != nil {
					return nil, nil, 0, err
				}
				tri.TransformData.DeviceAddress = vk.DeviceAddress(tAddr)
			}
			geom := vk.AccelerationStructureGeometryKHR{
				SType:       vk.StructureTypeAccelerationStructureGeometryKhr,
				GeometryType: vk.GeometryTypeTrianglesKhr,
				Flags:       geometryFlags(g.Opaque),
			}
			geom.Geometry.Triangles = tri
			geoms = append(geoms, geom)
			counts = append(counts, g.VertexCount/3)
		case kgpu.GeometryTypeAABBs:
			aAddr, err := a.BufferDeviceAddress(g.AABBBuffer)
			if err != nil {
				return nil, nil, 0, err
			}
			aabbs := vk.AccelerationStructureGeometryAabbsDataKHR{
				SType: vk.StructureTypeAccelerationStructureGeometryAabbsDataKhr, Stride: 24,
			}
			aabbs.Data.DeviceAddress = vk.DeviceAddress(aAddr)
			geom := vk.AccelerationStructureGeometryKHR{
				SType: vk.StructureTypeAccelerationStructureGeometryKhr, GeometryType: vk.GeometryTypeAabbsKhr, Flags: geometryFlags(g.Opaque),
			}
			geom.Geometry.Aabbs = aabbs
			geoms = append(geoms, geom)
			counts = append(counts, 1)
		case kgpu.GeometryTypeInstances:
			iAddr, err := a.BufferDeviceAddress(g.InstanceBuffer)
			if err != nil {
				return nil, nil, 0, err
			}
			insts := vk.AccelerationStructureGeometryInstancesDataKHR{SType: vk.StructureTypeAccelerationStructureGeometryInstancesDataKhr}
			insts.Data.DeviceAddress = vk.DeviceAddress(iAddr)
			geom := vk.AccelerationStructureGeometryKHR{
				SType: vk.StructureTypeAccelerationStructureGeometryKhr, GeometryType: vk.GeometryTypeInstancesKhr,
			}
			geom.Geometry.Instances = insts
			geoms = append(geoms, geom)
			counts = append(counts, g.InstanceCount)
		}
	}
	return geoms, counts, buildType, nil
}

func geometryFlags(opaque bool) vk.GeometryFlagsKHR {
	if opaque {
		return vk.GeometryFlagsKHR(vk.GeometryOpaqueBitKhr)
	}
	return 0
}

func (a *VulkanApi) DeleteAccelerationStructure(h kgpu.Handle[kgpu.AccelerationStructTag]) {
	as := resolve[vkAccelerationStructure, kgpu.AccelerationStructTag](a.accelStructs, h)
	if as == nil {
		return
	}
	dev := resolve[vkDevice, kgpu.Device](a.devices, as.device)
	if dev != nil {
		vk.DestroyAccelerationStructureKHR(dev.handle, as.handle, nil)
		vk.DestroyBuffer(dev.handle, as.buffer, nil)
		vk.FreeMemory(dev.handle, as.memory, nil)
	}
	remove[vkAccelerationStructure, kgpu.AccelerationStructTag](a.accelStructs, h)
}
