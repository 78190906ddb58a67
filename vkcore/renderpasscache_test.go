package vkcore

import (
	"testing"

	vk "github.com/vulkan-go/vulkan"

	"github.com/kdgpu/kgpucore"
)

func baseRenderPassOptions() kgpu.RenderPassOptions {
	return kgpu.RenderPassOptions{
		ColorAttachments: []kgpu.RenderPassColorAttachment{
			{LoadOp: kgpu.LoadOpClear, StoreOp: kgpu.StoreOpStore, InitialLayout: kgpu.ImageLayoutUndefined, FinalLayout: kgpu.ImageLayoutPresentSrc},
		},
	}
}

func TestBuildRenderPassKeyIgnoresAttachmentViews(t *testing.T) {
	opts := baseRenderPassOptions()
	formats := []kgpu.Format{kgpu.FormatB8G8R8A8Unorm}

	// buildRenderPassKey never takes view handles at all -- only the
	// attachment *descriptions* participate, so two calls describing the
	// same shape with (hypothetically) different bound views must match.
	k1 := buildRenderPassKey(opts, formats, kgpu.FormatUndefined)
	k2 := buildRenderPassKey(opts, formats, kgpu.FormatUndefined)
	if k1 != k2 {
		t.Fatalf("identical attachment descriptions produced different keys: %q vs %q", k1, k2)
	}
}

func TestBuildRenderPassKeyDiffersOnLoadOp(t *testing.T) {
	opts1 := baseRenderPassOptions()
	opts2 := baseRenderPassOptions()
	opts2.ColorAttachments[0].LoadOp = kgpu.LoadOpLoad
	formats := []kgpu.Format{kgpu.FormatB8G8R8A8Unorm}

	k1 := buildRenderPassKey(opts1, formats, kgpu.FormatUndefined)
	k2 := buildRenderPassKey(opts2, formats, kgpu.FormatUndefined)
	if k1 == k2 {
		t.Fatal("differing load ops must produce distinct render pass keys")
	}
}

func TestBuildRenderPassKeyDiffersOnFormat(t *testing.T) {
	opts := baseRenderPassOptions()

	k1 := buildRenderPassKey(opts, []kgpu.Format{kgpu.FormatB8G8R8A8Unorm}, kgpu.FormatUndefined)
	k2 := buildRenderPassKey(opts, []kgpu.Format{kgpu.FormatR8G8B8A8Unorm}, kgpu.FormatUndefined)
	if k1 == k2 {
		t.Fatal("differing attachment formats must produce distinct render pass keys")
	}
}

func TestBuildFramebufferKeyDiffersOnViews(t *testing.T) {
	rp := vk.RenderPass(1)
	k1 := buildFramebufferKey(rp, []vk.ImageView{1}, 1920, 1080, 1)
	k2 := buildFramebufferKey(rp, []vk.ImageView{2}, 1920, 1080, 1)
	if k1 == k2 {
		t.Fatal("differing attachment views must produce distinct framebuffer keys")
	}
}

func TestBuildFramebufferKeySameViewsSameKey(t *testing.T) {
	rp := vk.RenderPass(1)
	k1 := buildFramebufferKey(rp, []vk.ImageView{7, 8}, 640, 480, 1)
	k2 := buildFramebufferKey(rp, []vk.ImageView{7, 8}, 640, 480, 1)
	if k1 != k2 {
		t.Fatal("identical (render pass, views, extent) must produce the same framebuffer key")
	}
}
