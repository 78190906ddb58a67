package kgpu

// AccelerationStructureType distinguishes top-level (instances of
// bottom-level structures) from bottom-level (geometry) acceleration
// structures.
type AccelerationStructureType int

const (
	AccelerationStructureTopLevel AccelerationStructureType = iota
	AccelerationStructureBottomLevel
)

// AccelerationStructureGeometryType names what a bottom-level geometry
// entry describes.
type AccelerationStructureGeometryType int

const (
	GeometryTypeTriangles AccelerationStructureGeometryType = iota
	GeometryTypeAABBs
	GeometryTypeInstances
)

// AccelerationStructureGeometry describes one geometry entry of a
// bottom-level acceleration structure build, or the instance buffer of a
// top-level build.
type AccelerationStructureGeometry struct {
	Type                AccelerationStructureGeometryType
	VertexBuffer        Handle[BufferTag]
	VertexFormat        Format
	VertexStride        uint64
	VertexCount         uint32
	IndexBuffer         Handle[BufferTag]
	IndexType           IndexType
	IndexCount          uint32
	TransformBuffer     Handle[BufferTag] // optional per-geometry 3x4 transform
	AABBBuffer          Handle[BufferTag]
	InstanceBuffer      Handle[BufferTag]
	InstanceCount       uint32
	Opaque              bool
}

// AccelerationStructureOptions mirrors the build inputs ray-tracing
// pipelines consume via BindingAccelerationStructure bindings (spec.md
// section 3/4.9).
type AccelerationStructureOptions struct {
	Type       AccelerationStructureType
	Geometries []AccelerationStructureGeometry
	AllowUpdate bool
	AllowCompaction bool
}

// AccelerationStructureFrontend is the move-only front-end for an
// AccelerationStructure.
type AccelerationStructureFrontend struct {
	api    GraphicsApi
	device Handle[Device]
	handle Handle[AccelerationStructTag]
}

func CreateAccelerationStructure(api GraphicsApi, device Handle[Device], opts AccelerationStructureOptions) (*AccelerationStructureFrontend, error) {
	h, err := api.CreateAccelerationStructure(device, opts)
	if err != nil {
		return nil, err
	}
	return &AccelerationStructureFrontend{api: api, device: device, handle: h}, nil
}

func (a *AccelerationStructureFrontend) IsValid() bool { return a != nil && a.handle.IsValid() }
func (a *AccelerationStructureFrontend) Handle() Handle[AccelerationStructTag] { return a.handle }

func (a *AccelerationStructureFrontend) Release() {
	if a == nil || !a.handle.IsValid() {
		return
	}
	a.api.DeleteAccelerationStructure(a.handle)
	a.handle = Handle[AccelerationStructTag]{}
}
