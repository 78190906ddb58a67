package kgpu

// TimestampQueryOptions reserves a contiguous range of slots in the
// device's single timestamp-query pool (spec.md section 4.2 point 5).
type TimestampQueryOptions struct {
	QueryCount uint32
}

// TimestampQueryRecorderFrontend is the move-only front-end for a
// TimestampQueryRecorder.
type TimestampQueryRecorderFrontend struct {
	api    GraphicsApi
	device Handle[Device]
	handle Handle[TimestampQueryTag]
}

func CreateTimestampQueryRecorder(api GraphicsApi, device Handle[Device], opts TimestampQueryOptions) (*TimestampQueryRecorderFrontend, error) {
	h, err := api.CreateTimestampQueryRecorder(device, opts)
	if err != nil {
		return nil, err
	}
	return &TimestampQueryRecorderFrontend{api: api, device: device, handle: h}, nil
}

func (t *TimestampQueryRecorderFrontend) IsValid() bool { return t != nil && t.handle.IsValid() }
func (t *TimestampQueryRecorderFrontend) Handle() Handle[TimestampQueryTag] { return t.handle }

func (t *TimestampQueryRecorderFrontend) Release() {
	if t == nil || !t.handle.IsValid() {
		return
	}
	t.api.DeleteTimestampQueryRecorder(t.handle)
	t.handle = Handle[TimestampQueryTag]{}
}

// WriteTimestamp records a timestamp write into the given query slot
// against the named command recorder (spec.md section 4.4 group 4,
// "timestamp writes via the TimestampQueryRecorder").
func (t *TimestampQueryRecorderFrontend) WriteTimestamp(cr Handle[CommandRecorderTag], index uint32, stage ShaderStage) error {
	return t.api.WriteTimestamp(cr, t.handle, index, stage)
}

// Resolve reads back count timestamp values starting at firstIndex, in
// device ticks; callers convert to nanoseconds using the adapter's
// reported timestamp period.
func (t *TimestampQueryRecorderFrontend) Resolve(firstIndex, count uint32) ([]uint64, error) {
	return t.api.ResolveTimestampQueries(t.handle, firstIndex, count)
}
