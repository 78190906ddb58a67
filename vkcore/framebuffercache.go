package vkcore

import (
	"fmt"
	"strings"
	"sync"

	vk "github.com/vulkan-go/vulkan"

	"github.com/kdgpu/kgpucore"
)

type framebufferKey string

func buildFramebufferKey(renderPass vk.RenderPass, views []vk.ImageView, width, height, layers uint32) framebufferKey {
	var b strings.Builder
	fmt.Fprintf(&b, "%d|%dx%dx%d|", renderPass, width, height, layers)
	for _, v := range views {
		fmt.Fprintf(&b, "%d,", v)
	}
	return framebufferKey(b.String())
}

// framebufferEntry pairs a native VkFramebuffer with the views it
// references, so the view->framebuffer reverse index can evict it.
type framebufferEntry struct {
	framebuffer vk.Framebuffer
	views       []kgpu.Handle[kgpu.TextureViewTag]
}

// framebufferCache is spec.md section 4.6's second process-per-device
// cache: "Framebuffer key. {render pass handle, ordered attachment view
// handles, width, height, layers, viewCount}... Created framebuffers are
// tracked by the views they reference: when a TextureView is destroyed,
// every framebuffer referencing it is removed from the cache and its
// native object destroyed."
type framebufferCache struct {
	mu          sync.Mutex
	device      vk.Device
	byKey       map[framebufferKey]*framebufferEntry
	byView      map[kgpu.Handle[kgpu.TextureViewTag]]map[framebufferKey]bool
}

func newFramebufferCache(device vk.Device) *framebufferCache {
	return &framebufferCache{
		device: device,
		byKey:  make(map[framebufferKey]*framebufferEntry),
		byView: make(map[kgpu.Handle[kgpu.TextureViewTag]]map[framebufferKey]bool),
	}
}

func (c *framebufferCache) getOrCreate(renderPass vk.RenderPass, viewHandles []kgpu.Handle[kgpu.TextureViewTag], nativeViews []vk.ImageView, width, height, layers uint32) (vk.Framebuffer, error) {
	key := buildFramebufferKey(renderPass, nativeViews, width, height, layers)

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.byKey[key]; ok {
		return e.framebuffer, nil
	}

	var fb vk.Framebuffer
	ret := vk.CreateFramebuffer(c.device, &vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      renderPass,
		AttachmentCount: uint32(len(nativeViews)),
		PAttachments:    nativeViews,
		Width:           width,
		Height:          height,
		Layers:          layers,
	}, nil, &fb)
	if err := checkResult(ret, "framebufferCache.getOrCreate"); err != nil {
		return vk.NullFramebuffer, err
	}

	entry := &framebufferEntry{framebuffer: fb, views: viewHandles}
	c.byKey[key] = entry
	for _, vh := range viewHandles {
		if c.byView[vh] == nil {
			c.byView[vh] = make(map[framebufferKey]bool)
		}
		c.byView[vh][key] = true
	}
	return fb, nil
}

// evictView destroys and removes every framebuffer referencing view,
// called from DeleteTextureView (spec.md section 4.6).
func (c *framebufferCache) evictView(view kgpu.Handle[kgpu.TextureViewTag]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := c.byView[view]
	delete(c.byView, view)
	for key := range keys {
		entry, ok := c.byKey[key]
		if !ok {
			continue
		}
		vk.DestroyFramebuffer(c.device, entry.framebuffer, nil)
		delete(c.byKey, key)
		for _, vh := range entry.views {
			if vh == view {
				continue
			}
			if set := c.byView[vh]; set != nil {
				delete(set, key)
			}
		}
	}
}

func (c *framebufferCache) destroyAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.byKey {
		vk.DestroyFramebuffer(c.device, e.framebuffer, nil)
	}
	c.byKey = make(map[framebufferKey]*framebufferEntry)
	c.byView = make(map[kgpu.Handle[kgpu.TextureViewTag]]map[framebufferKey]bool)
}
