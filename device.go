package kgpu

// DeviceHandle is the move-only front-end for a logical device (spec.md
// section 3). Virtually every other resource is created from it.
type DeviceHandle struct {
	api    GraphicsApi
	handle Handle[Device]
}

func (d *DeviceHandle) IsValid() bool         { return d != nil && d.handle.IsValid() }
func (d *DeviceHandle) Handle() Handle[Device] { return d.handle }

// Release destroys the device. Per spec.md section 3's invariants,
// resources derived from the device must be destroyed before or with it;
// this module does not detect or prevent dangling dependents, matching
// "behavior is undefined if the device is torn down while dependents
// live."
func (d *DeviceHandle) Release() {
	if d == nil || !d.handle.IsValid() {
		return
	}
	d.api.DeleteDevice(d.handle)
	d.handle = Handle[Device]{}
}

// Queues returns the materialized queues (spec.md section 4.2).
func (d *DeviceHandle) Queues() []*Queue {
	raw := d.api.DeviceQueues(d.handle)
	out := make([]*Queue, len(raw))
	for i, qh := range raw {
		out[i] = &Queue{api: d.api, handle: qh}
	}
	return out
}

// WaitUntilIdle blocks until the device is fully drained (spec.md section
// 4.2 / section 5).
func (d *DeviceHandle) WaitUntilIdle() error {
	return d.api.DeviceWaitIdle(d.handle)
}

// SubmitOptions carries the ordered submission parameters spec.md section
// 4.2 describes: command buffers, wait semaphores, signal semaphores, an
// optional signal fence. Wait stages default to "top of pipe"; per the
// Open Question resolved in DESIGN.md, per-semaphore wait-stage overrides
// are not exposed.
type SubmitOptions struct {
	CommandBuffers []Handle[CommandBufferTag]
	WaitSemaphores []Handle[GpuSemaphoreTag]
	SignalSemaphores []Handle[GpuSemaphoreTag]
	SignalFence    Handle[FenceTag] // zero value: no fence
}

// PresentSwapchainImage names one swapchain/image-index pair to present.
type PresentSwapchainImage struct {
	Swapchain  Handle[Swapchain]
	ImageIndex uint32
}

// PresentOptions carries Queue::present's parameters (spec.md section 4.2).
type PresentOptions struct {
	WaitSemaphores []Handle[GpuSemaphoreTag]
	Swapchains     []PresentSwapchainImage
}

// Queue is the move-only front-end for one of a device's materialized
// queues (spec.md section 3/4.2).
type Queue struct {
	api    GraphicsApi
	handle QueueHandle
}

func (q *Queue) IsValid() bool { return q != nil }

func (q *Queue) WaitUntilIdle() error {
	return q.api.QueueWaitIdle(q.handle)
}

func (q *Queue) Submit(opts SubmitOptions) error {
	return q.api.QueueSubmit(q.handle, opts)
}

// Present returns the coalesced PresentResult and, as its second value,
// the per-swapchain detail of the same call (spec.md section 4.2).
func (q *Queue) Present(opts PresentOptions) (PresentResult, []PresentResult) {
	return q.api.QueuePresent(q.handle, opts)
}
