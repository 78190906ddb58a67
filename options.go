package kgpu

// Options is a typed property bag carrying the process-wide knobs that
// spec.md calls out as configuration rather than per-resource state: the
// validation-message ignore list, max frames in flight, staging bin size,
// and similar. It generalizes the teacher's Usage type (usage.go in
// vulkan-go-asche), which played the same role with string/int/bool/float
// maps and a Linked_usage chain for nested option groups.
type Options struct {
	Name        string
	StringProps map[string]string
	IntProps    map[string]int
	BoolProps   map[string]bool
	FloatProps  map[string]float64
	Parent      *Options
}

// NewOptions returns an Options with its property maps pre-sized to
// defaultSize, mirroring Usage's constructor signature.
func NewOptions(name string, defaultSize int) *Options {
	return &Options{
		Name:        name,
		StringProps: make(map[string]string, defaultSize),
		IntProps:    make(map[string]int, defaultSize),
		BoolProps:   make(map[string]bool, defaultSize),
		FloatProps:  make(map[string]float64, defaultSize),
	}
}

// HasParent reports whether this Options links to a parent group.
func (o *Options) HasParent() bool {
	return o.Parent != nil
}

// DefaultMaxFramesInFlight is the core's default frames-in-flight count.
// NewResourceDeleter and StagingBufferPool.MoveToNextFrame take the count
// as an argument and do not read this constant.
const DefaultMaxFramesInFlight = 2

// DefaultStagingBinSize is the StagingBufferPool's default bin size (2 MiB,
// spec.md section 4.11).
const DefaultStagingBinSize = 2 * 1024 * 1024

// DefaultMinimumBinCount is the StagingBufferPool's default minimum bin
// retention per frame index (spec.md section 4.11).
const DefaultMinimumBinCount = 1
