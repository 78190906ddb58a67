package kgpu

import (
	"fmt"
	"runtime"
)

// Kind classifies a core-level failure per spec.md section 7.
type Kind int

const (
	// KindInvalidArgument: a handle does not resolve, an option is out of
	// range, a layout/pipeline mismatch, or an unsupported feature was
	// toggled without adapter support.
	KindInvalidArgument Kind = iota
	// KindOutOfMemory: host or device allocation failed.
	KindOutOfMemory
	// KindDeviceLost: the device has entered a lost state.
	KindDeviceLost
	// KindSurfaceLost: the swapchain's surface became unusable.
	KindSurfaceLost
	// KindOutOfDate: the swapchain no longer matches the surface and must
	// be recreated.
	KindOutOfDate
	// KindSubOptimal: presentation succeeded but the swapchain should be
	// recreated soon.
	KindSubOptimal
	// KindTimeout: a fence or wait exceeded its timeout.
	KindTimeout
	// KindValidationFailed: the validation layer rejected a call.
	KindValidationFailed
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindOutOfMemory:
		return "OutOfMemory"
	case KindDeviceLost:
		return "DeviceLost"
	case KindSurfaceLost:
		return "SurfaceLost"
	case KindOutOfDate:
		return "OutOfDate"
	case KindSubOptimal:
		return "SubOptimal"
	case KindTimeout:
		return "Timeout"
	case KindValidationFailed:
		return "ValidationFailed"
	default:
		return "Unknown"
	}
}

// Error wraps a Kind, the originating backend result code, and the call
// site, in the style of the teacher's errors.go (newError/newStackFrame),
// extended with the typed Kind vocabulary spec.md section 7 specifies in
// place of the teacher's bare "vulkan error: %d" string.
type Error struct {
	Kind    Kind
	Backend int32 // underlying vk.Result, stored as int32 to avoid importing vk here
	Site    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("kgpu: %s (backend result %d) at %s", e.Kind, e.Backend, e.Site)
}

// NewError captures the caller's stack frame and wraps it with kind and
// the raw backend result code, mirroring errors.go's newError.
func NewError(kind Kind, backendResult int32) *Error {
	site := "unknown"
	if pc, _, _, ok := runtime.Caller(1); ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			file, line := fn.FileLine(pc)
			site = fmt.Sprintf("%s:%d", file, line)
		}
	}
	return &Error{Kind: kind, Backend: backendResult, Site: site}
}

// Result is the coalesced outcome of submit/present/acquire/fence-wait
// style operations per spec.md section 7 ("Operations that must report
// rich status ... return a typed result enum").
type Result int

const (
	ResultSuccess Result = iota
	ResultSubOptimal
	ResultNotReady
	ResultOutOfDate
	ResultSurfaceLost
	ResultOutOfMemory
	ResultDeviceLost
	ResultValidationFailed
	ResultTimeout
	ResultUnknown
)

func (r Result) String() string {
	switch r {
	case ResultSuccess:
		return "Success"
	case ResultSubOptimal:
		return "SubOptimal"
	case ResultNotReady:
		return "NotReady"
	case ResultOutOfDate:
		return "OutOfDate"
	case ResultSurfaceLost:
		return "SurfaceLost"
	case ResultOutOfMemory:
		return "OutOfMemory"
	case ResultDeviceLost:
		return "DeviceLost"
	case ResultValidationFailed:
		return "ValidationFailed"
	case ResultTimeout:
		return "Timeout"
	default:
		return "Unknown"
	}
}

// IsSuccess reports whether r represents an outcome the caller can proceed
// past without recreating anything (Success or SubOptimal -- SubOptimal is
// "never fatal at the core level" per spec.md section 7).
func (r Result) IsSuccess() bool {
	return r == ResultSuccess || r == ResultSubOptimal
}

// FenceStatus is the result of Fence.Status (spec.md section 3).
type FenceStatus int

const (
	FenceSignalled FenceStatus = iota
	FenceNotSignalled
)
