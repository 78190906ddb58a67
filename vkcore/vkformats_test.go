package vkcore

import (
	"testing"

	vk "github.com/vulkan-go/vulkan"

	"github.com/kdgpu/kgpucore"
)

func TestFormatRoundTrip(t *testing.T) {
	formats := []kgpu.Format{
		kgpu.FormatR8Unorm, kgpu.FormatR8G8Unorm, kgpu.FormatR8G8B8A8Unorm,
		kgpu.FormatR8G8B8A8Srgb, kgpu.FormatB8G8R8A8Unorm, kgpu.FormatB8G8R8A8Srgb,
		kgpu.FormatR16G16Sfloat, kgpu.FormatR16G16B16A16Sfloat, kgpu.FormatR32Sfloat,
		kgpu.FormatR32G32Sfloat, kgpu.FormatR32G32B32Sfloat, kgpu.FormatR32G32B32A32Sfloat,
		kgpu.FormatD16Unorm, kgpu.FormatD24UnormS8Uint, kgpu.FormatD32Sfloat, kgpu.FormatD32SfloatS8Uint,
	}
	for _, f := range formats {
		if got := fromVkFormat(toVkFormat(f)); got != f {
			t.Errorf("fromVkFormat(toVkFormat(%v)) = %v, want %v", f, got, f)
		}
	}
}

func TestFormatUndefinedIsNotDepthOrStencil(t *testing.T) {
	if toVkFormat(kgpu.Format(9999)) != vk.FormatUndefined {
		t.Fatal("an unrecognized Format must map to vk.FormatUndefined")
	}
	if isDepthFormat(kgpu.FormatR8G8B8A8Unorm) {
		t.Fatal("a color format must not be classified as a depth format")
	}
	if hasStencil(kgpu.FormatD32Sfloat) {
		t.Fatal("D32Sfloat carries no stencil aspect")
	}
}

func TestHasStencilOnlyDepthStencilCombinedFormats(t *testing.T) {
	for _, f := range []kgpu.Format{kgpu.FormatD24UnormS8Uint, kgpu.FormatD32SfloatS8Uint} {
		if !hasStencil(f) {
			t.Errorf("hasStencil(%v) = false, want true", f)
		}
	}
	for _, f := range []kgpu.Format{kgpu.FormatD16Unorm, kgpu.FormatD32Sfloat} {
		if hasStencil(f) {
			t.Errorf("hasStencil(%v) = true, want false", f)
		}
	}
}

func TestToVkImageUsageCombinesFlags(t *testing.T) {
	u := kgpu.TextureUsageSampled | kgpu.TextureUsageColorAttachment
	got := toVkImageUsage(u)
	if got&vk.ImageUsageSampledBit == 0 {
		t.Error("expected ImageUsageSampledBit set")
	}
	if got&vk.ImageUsageColorAttachmentBit == 0 {
		t.Error("expected ImageUsageColorAttachmentBit set")
	}
	if got&vk.ImageUsageStorageBit != 0 {
		t.Error("unexpected ImageUsageStorageBit set")
	}
}

func TestToVkBufferUsageCombinesFlags(t *testing.T) {
	u := kgpu.BufferUsageVertex | kgpu.BufferUsageTransferDst
	got := toVkBufferUsage(u)
	if got&vk.BufferUsageVertexBufferBit == 0 {
		t.Error("expected BufferUsageVertexBufferBit set")
	}
	if got&vk.BufferUsageTransferDstBit == 0 {
		t.Error("expected BufferUsageTransferDstBit set")
	}
	if got&vk.BufferUsageIndexBufferBit != 0 {
		t.Error("unexpected BufferUsageIndexBufferBit set")
	}
}

func TestToVkAttachmentLoadStoreOps(t *testing.T) {
	if toVkAttachmentLoadOp(kgpu.LoadOpClear) != vk.AttachmentLoadOpClear {
		t.Error("LoadOpClear must map to AttachmentLoadOpClear")
	}
	if toVkAttachmentLoadOp(kgpu.LoadOpDontCare) != vk.AttachmentLoadOpDontCare {
		t.Error("LoadOpDontCare must map to AttachmentLoadOpDontCare")
	}
	if toVkAttachmentLoadOp(kgpu.LoadOpLoad) != vk.AttachmentLoadOpLoad {
		t.Error("LoadOpLoad must map to AttachmentLoadOpLoad")
	}
	if toVkAttachmentStoreOp(kgpu.StoreOpDontCare) != vk.AttachmentStoreOpDontCare {
		t.Error("StoreOpDontCare must map to AttachmentStoreOpDontCare")
	}
	if toVkAttachmentStoreOp(kgpu.StoreOpStore) != vk.AttachmentStoreOpStore {
		t.Error("StoreOpStore must map to AttachmentStoreOpStore")
	}
}

func TestToVkSampleCountDefaultsToOne(t *testing.T) {
	if toVkSampleCount(kgpu.SampleCount(0)) != vk.SampleCount1Bit {
		t.Fatal("an unrecognized sample count must default to SampleCount1Bit")
	}
	if toVkSampleCount(kgpu.SampleCount4) != vk.SampleCount4Bit {
		t.Fatal("SampleCount4 must map to SampleCount4Bit")
	}
}
