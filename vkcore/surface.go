package vkcore

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"

	"github.com/kdgpu/kgpucore"
)

// vkSurface wraps a native VkSurfaceKHR. Grounded on the teacher's
// display.go CoreDisplay.GetVulkanSurface, which hands the GLFW window's
// CreateWindowSurface result straight to vk.SurfaceFromPointer.
type vkSurface struct {
	instance kgpu.Handle[kgpu.Instance]
	handle   vk.Surface
}

// CreateSurface binds to a native window. This module's example driver
// exercises only the GLFW (kgpu.SurfaceOptions.Window) path; the other
// platform fields are accepted but unused until a target needs them, per
// spec.md section 6's platform list.
func (a *VulkanApi) CreateSurface(h kgpu.Handle[kgpu.Instance], opts kgpu.SurfaceOptions) (kgpu.Handle[kgpu.Surface], error) {
	inst := resolve[vkInstance, kgpu.Instance](a.instances, h)
	if inst == nil {
		return kgpu.Handle[kgpu.Surface]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreateSurface: instance does not resolve"}
	}
	win, ok := opts.Window.(*glfw.Window)
	if !ok || win == nil {
		return kgpu.Handle[kgpu.Surface]{}, &kgpu.Error{Kind: kgpu.KindInvalidArgument, Site: "VulkanApi.CreateSurface: opts.Window must be a *glfw.Window"}
	}
	surfacePtr, err := win.CreateWindowSurface(inst.handle, nil)
	if err != nil {
		return kgpu.Handle[kgpu.Surface]{}, &kgpu.Error{Kind: kgpu.KindSurfaceLost, Site: "VulkanApi.CreateSurface: " + err.Error()}
	}
	sf := vkSurface{instance: h, handle: vk.SurfaceFromPointer(surfacePtr)}
	return insert[vkSurface, kgpu.Surface](a.surfaces, sf), nil
}

func (a *VulkanApi) DeleteSurface(h kgpu.Handle[kgpu.Surface]) {
	sf := resolve[vkSurface, kgpu.Surface](a.surfaces, h)
	if sf == nil {
		return
	}
	inst := resolve[vkInstance, kgpu.Instance](a.instances, sf.instance)
	if inst != nil {
		vk.DestroySurface(inst.handle, sf.handle, nil)
	}
	remove[vkSurface, kgpu.Surface](a.surfaces, h)
}
