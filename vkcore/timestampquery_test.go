package vkcore

import (
	"testing"

	vk "github.com/vulkan-go/vulkan"

	"github.com/kdgpu/kgpucore"
)

func TestPipelineStageForShaderStageMapsKnownStages(t *testing.T) {
	cases := []struct {
		stage kgpu.ShaderStage
		want  vk.PipelineStageFlagBits
	}{
		{kgpu.ShaderStageVertex, vk.PipelineStageVertexShaderBit},
		{kgpu.ShaderStageFragment, vk.PipelineStageFragmentShaderBit},
		{kgpu.ShaderStageCompute, vk.PipelineStageComputeShaderBit},
		{kgpu.ShaderStageRaygen, vk.PipelineStageRayTracingShaderBitKhr},
	}
	for _, c := range cases {
		if got := pipelineStageForShaderStage(c.stage); got != c.want {
			t.Errorf("pipelineStageForShaderStage(%v) = %v, want %v", c.stage, got, c.want)
		}
	}
}

func TestPipelineStageForShaderStageDefaultsOnUnknown(t *testing.T) {
	if got := pipelineStageForShaderStage(kgpu.ShaderStage(0)); got != vk.PipelineStageAllCommandsBit {
		t.Fatalf("pipelineStageForShaderStage(0) = %v, want PipelineStageAllCommandsBit", got)
	}
}
