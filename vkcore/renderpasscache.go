package vkcore

import (
	"fmt"
	"strings"
	"sync"

	vk "github.com/vulkan-go/vulkan"

	"github.com/kdgpu/kgpucore"
)

// renderPassKey captures every field of RenderPassOptions that changes the
// native VkRenderPass layout (spec.md section 4.6): per-attachment format,
// load/store ops, initial/final layout, sample count, resolve presence,
// plus the pass's sample count and view mask. Two BeginRenderPass calls
// that differ only in the actual TextureView handles bound share an entry.
type renderPassKey string

func buildRenderPassKey(opts kgpu.RenderPassOptions, colorFormats []kgpu.Format, depthFormat kgpu.Format) renderPassKey {
	var b strings.Builder
	fmt.Fprintf(&b, "s%d|v%d|", opts.Samples, opts.ViewCount)
	for i, c := range opts.ColorAttachments {
		fmt.Fprintf(&b, "c%d:f%d:l%d:s%d:i%d:o%d:r%d;", i, colorFormats[i], c.LoadOp, c.StoreOp, c.InitialLayout, c.FinalLayout, c.ResolveMode)
	}
	if opts.DepthStencilAttachment != nil {
		d := opts.DepthStencilAttachment
		fmt.Fprintf(&b, "d:f%d:dl%d:ds%d:sl%d:ss%d:i%d:o%d;", depthFormat, d.DepthLoadOp, d.DepthStoreOp, d.StencilLoadOp, d.StencilStoreOp, d.InitialLayout, d.FinalLayout)
	}
	return renderPassKey(b.String())
}

// renderPassCache is the process-per-device hash cache spec.md section 4.6
// describes: render passes are keyed purely by the shape of their
// attachment descriptions and outlive the framebuffers that reference
// them, destroyed only with the device.
type renderPassCache struct {
	mu     sync.Mutex
	device vk.Device
	byKey  map[renderPassKey]vk.RenderPass
}

func newRenderPassCache(device vk.Device) *renderPassCache {
	return &renderPassCache{device: device, byKey: make(map[renderPassKey]vk.RenderPass)}
}

// getOrCreate builds a VkRenderPass with one subpass referencing every
// color attachment (plus depth/stencil and resolve attachments when
// present), returning the cached instance on a key hit.
func (c *renderPassCache) getOrCreate(opts kgpu.RenderPassOptions, colorFormats []kgpu.Format, depthFormat kgpu.Format) (vk.RenderPass, error) {
	key := buildRenderPassKey(opts, colorFormats, depthFormat)

	c.mu.Lock()
	defer c.mu.Unlock()
	if rp, ok := c.byKey[key]; ok {
		return rp, nil
	}

	var attachments []vk.AttachmentDescription
	var colorRefs []vk.AttachmentReference
	var resolveRefs []vk.AttachmentReference
	haveResolve := false

	for i, ca := range opts.ColorAttachments {
		attachments = append(attachments, vk.AttachmentDescription{
			Format:        toVkFormat(colorFormats[i]),
			Samples:       toVkSampleCount(opts.Samples),
			LoadOp:        toVkAttachmentLoadOp(ca.LoadOp),
			StoreOp:       toVkAttachmentStoreOp(ca.StoreOp),
			StencilLoadOp: vk.AttachmentLoadOpDontCare,
			StencilStoreOp: vk.AttachmentStoreOpDontCare,
			InitialLayout: toVkImageLayout(ca.InitialLayout),
			FinalLayout:   toVkImageLayout(ca.FinalLayout),
		})
		colorRefs = append(colorRefs, vk.AttachmentReference{
			Attachment: uint32(len(attachments) - 1),
			Layout:     vk.ImageLayoutColorAttachmentOptimal,
		})
		if ca.ResolveMode != kgpu.ResolveModeNone {
			haveResolve = true
		}
	}

	if haveResolve {
		for i, ca := range opts.ColorAttachments {
			if ca.ResolveMode == kgpu.ResolveModeNone {
				resolveRefs = append(resolveRefs, vk.AttachmentReference{Attachment: vk.AttachmentUnused})
				continue
			}
			attachments = append(attachments, vk.AttachmentDescription{
				Format:        toVkFormat(colorFormats[i]),
				Samples:       vk.SampleCount1Bit,
				LoadOp:        vk.AttachmentLoadOpDontCare,
				StoreOp:       vk.AttachmentStoreOpStore,
				StencilLoadOp: vk.AttachmentLoadOpDontCare,
				StencilStoreOp: vk.AttachmentStoreOpDontCare,
				InitialLayout: vk.ImageLayoutUndefined,
				FinalLayout:   toVkImageLayout(ca.FinalLayout),
			})
			resolveRefs = append(resolveRefs, vk.AttachmentReference{
				Attachment: uint32(len(attachments) - 1),
				Layout:     vk.ImageLayoutColorAttachmentOptimal,
			})
		}
	}

	var depthRef *vk.AttachmentReference
	if opts.DepthStencilAttachment != nil {
		d := opts.DepthStencilAttachment
		stencilLoad, stencilStore := vk.AttachmentLoadOpDontCare, vk.AttachmentStoreOpDontCare
		if hasStencil(depthFormat) {
			stencilLoad = toVkAttachmentLoadOp(d.StencilLoadOp)
			stencilStore = toVkAttachmentStoreOp(d.StencilStoreOp)
		}
		attachments = append(attachments, vk.AttachmentDescription{
			Format:        toVkFormat(depthFormat),
			Samples:       toVkSampleCount(opts.Samples),
			LoadOp:        toVkAttachmentLoadOp(d.DepthLoadOp),
			StoreOp:       toVkAttachmentStoreOp(d.DepthStoreOp),
			StencilLoadOp: stencilLoad,
			StencilStoreOp: stencilStore,
			InitialLayout: toVkImageLayout(d.InitialLayout),
			FinalLayout:   toVkImageLayout(d.FinalLayout),
		})
		depthRef = &vk.AttachmentReference{
			Attachment: uint32(len(attachments) - 1),
			Layout:     vk.ImageLayoutDepthStencilAttachmentOptimal,
		}
	}

	subpass := vk.SubpassDescription{
		PipelineBindPoint:    vk.PipelineBindPointGraphics,
		ColorAttachmentCount: uint32(len(colorRefs)),
		PColorAttachments:    colorRefs,
	}
	if haveResolve {
		subpass.PResolveAttachments = resolveRefs
	}
	if depthRef != nil {
		subpass.PDepthStencilAttachment = depthRef
	}

	createInfo := &vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
	}

	var viewMask uint32
	if opts.ViewCount > 1 {
		viewMask = (1 << opts.ViewCount) - 1
		multiview := &vk.RenderPassMultiviewCreateInfo{
			SType:                vk.StructureTypeRenderPassMultiviewCreateInfo,
			SubpassCount:         1,
			PViewMasks:           []uint32{viewMask},
			CorrelationMaskCount: 1,
			PCorrelationMasks:    []uint32{viewMask},
		}
		createInfo.PNext = unsafeNext(multiview)
	}

	var rp vk.RenderPass
	ret := vk.CreateRenderPass(c.device, createInfo, nil, &rp)
	if err := checkResult(ret, "renderPassCache.getOrCreate"); err != nil {
		return vk.NullRenderPass, err
	}
	c.byKey[key] = rp
	return rp, nil
}

func (c *renderPassCache) destroyAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, rp := range c.byKey {
		vk.DestroyRenderPass(c.device, rp, nil)
	}
	c.byKey = make(map[renderPassKey]vk.RenderPass)
}
