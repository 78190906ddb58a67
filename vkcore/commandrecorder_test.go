package vkcore

import (
	"testing"

	"github.com/kdgpu/kgpucore"
)

func TestResolvePipelineLayoutPrefersExplicitLayout(t *testing.T) {
	a := NewVulkanApi(nil)
	explicit := a.pipelineLayouts.Insert(vkPipelineLayout{})
	bound := a.pipelineLayouts.Insert(vkPipelineLayout{})
	cr := &vkCommandRecorder{boundLayout: bound}

	pl, err := a.resolvePipelineLayout(cr, explicit)
	if err != nil {
		t.Fatalf("resolvePipelineLayout: %v", err)
	}
	if pl != a.pipelineLayouts.Get(explicit) {
		t.Fatal("an explicit, resolving layout must win over the recorder's bound layout")
	}
}

func TestResolvePipelineLayoutFallsBackToBoundLayout(t *testing.T) {
	a := NewVulkanApi(nil)
	bound := a.pipelineLayouts.Insert(vkPipelineLayout{})
	cr := &vkCommandRecorder{boundLayout: bound}

	pl, err := a.resolvePipelineLayout(cr, kgpu.Handle[kgpu.PipelineLayoutTag]{})
	if err != nil {
		t.Fatalf("resolvePipelineLayout: %v", err)
	}
	if pl != a.pipelineLayouts.Get(bound) {
		t.Fatal("a zero explicit layout must fall back to the recorder's bound layout")
	}
}

func TestResolvePipelineLayoutErrorsWithNeitherLayout(t *testing.T) {
	a := NewVulkanApi(nil)
	cr := &vkCommandRecorder{}

	if _, err := a.resolvePipelineLayout(cr, kgpu.Handle[kgpu.PipelineLayoutTag]{}); err == nil {
		t.Fatal("resolvePipelineLayout must error when neither an explicit nor a bound layout is available")
	}
}

func TestResolvePipelineLayoutErrorsOnStaleExplicitHandle(t *testing.T) {
	a := NewVulkanApi(nil)
	stale := a.pipelineLayouts.Insert(vkPipelineLayout{})
	a.pipelineLayouts.Remove(stale)
	cr := &vkCommandRecorder{}

	if _, err := a.resolvePipelineLayout(cr, stale); err == nil {
		t.Fatal("resolvePipelineLayout must error on a removed explicit layout handle, not silently fall back")
	}
}
