// Command triangle is the end-to-end "triangle, no depth" scenario: it
// creates an instance, device, surface, and swapchain, records a single
// render pass clearing to gray and drawing one triangle spinning under a
// push-constant model-view-projection matrix, and presents it every frame
// until the window is closed.
package main

import (
	"log"
	"math"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"
	lin "github.com/xlab/linmath"

	kgpu "github.com/kdgpu/kgpucore"
	"github.com/kdgpu/kgpucore/vkcore"
)

const (
	windowWidth  = 1280
	windowHeight = 720

	mvpPushConstantSize = 4 * 4 * 4 // one column-major mat4 of float32
)

// trianglePositionsColors interleaves a 2D position and an RGB color per
// vertex, matching the vertex buffer layout built below.
var trianglePositionsColors = []float32{
	0.0, -0.5, 1.0, 0.0, 0.0,
	0.5, 0.5, 0.0, 1.0, 0.0,
	-0.5, 0.5, 0.0, 0.0, 1.0,
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		log.Fatalf("glfw.Init: %v", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	vk.SetGetInstanceProcAddr(glfw.GetVulkanGetInstanceProcAddress())
	must(vk.Init())

	window, err := glfw.CreateWindow(windowWidth, windowHeight, "triangle", nil, nil)
	must(err)
	defer window.Destroy()

	logger := kgpu.NewStderrLogger()
	api := vkcore.NewVulkanApi(logger)

	instance, err := kgpu.CreateInstance(api, kgpu.InstanceOptions{
		ApplicationName:  "triangle",
		EngineName:       "kgpu",
		Extensions:       append(window.GetRequiredInstanceExtensions(), "VK_EXT_debug_report"),
		EnableValidation: true,
	})
	must(err)
	defer instance.Release()

	surface, err := instance.CreateSurface(kgpu.SurfaceOptions{Window: window})
	must(err)
	defer surface.Release()

	device, adapter, err := instance.CreateDefaultDevice(surface, kgpu.AdapterDeviceDiscreteGpu)
	must(err)
	defer device.Release()
	_ = adapter

	queue := device.Queues()[0]

	swapchain, err := kgpu.CreateSwapchain(api, device.Handle(), kgpu.SwapchainOptions{
		Surface:       surface.Handle(),
		Format:        kgpu.FormatB8G8R8A8Unorm,
		MinImageCount: 2,
		ImageExtentW:  windowWidth,
		ImageExtentH:  windowHeight,
		ImageLayers:   1,
		Usage:         kgpu.TextureUsageColorAttachment,
		PresentMode:   kgpu.PresentModeFifo,
	})
	must(err)
	defer swapchain.Release()

	swapchainTextures := swapchain.Textures()
	swapchainViews := make([]*kgpu.TextureViewFrontend, len(swapchainTextures))
	for i, tex := range swapchainTextures {
		view, err := tex.CreateView(kgpu.TextureViewOptions{
			ViewType: kgpu.ViewType2D,
			Aspects:  kgpu.ImageAspectColor,
		})
		must(err)
		swapchainViews[i] = view
	}

	vsSpirv := loadSpirv()
	fsSpirv := loadSpirv()
	vsModule, err := kgpu.CreateShaderModule(api, device.Handle(), vsSpirv)
	must(err)
	defer vsModule.Release()
	fsModule, err := kgpu.CreateShaderModule(api, device.Handle(), fsSpirv)
	must(err)
	defer fsModule.Release()

	layout, err := kgpu.CreatePipelineLayout(api, device.Handle(), kgpu.PipelineLayoutOptions{
		PushConstantRanges: []kgpu.PushConstantRange{
			{Offset: 0, Size: mvpPushConstantSize, ShaderStages: kgpu.ShaderStageVertex},
		},
	})
	must(err)
	defer layout.Release()

	pipeline, err := kgpu.CreateGraphicsPipeline(api, device.Handle(), kgpu.GraphicsPipelineOptions{
		Layout: layout.Handle(),
		ShaderStages: []kgpu.ShaderStageEntry{
			{Module: vsModule.Handle(), EntryPoint: "main", Stage: kgpu.ShaderStageVertex},
			{Module: fsModule.Handle(), EntryPoint: "main", Stage: kgpu.ShaderStageFragment},
		},
		VertexBuffers: []kgpu.VertexBufferLayout{
			{
				Binding:   0,
				Stride:    5 * 4,
				InputRate: kgpu.InputRateVertex,
				Attributes: []kgpu.VertexAttribute{
					{Location: 0, Binding: 0, Format: kgpu.FormatR32G32Sfloat, Offset: 0},
					{Location: 1, Binding: 0, Format: kgpu.FormatR32G32B32Sfloat, Offset: 2 * 4},
				},
			},
		},
		InputAssembly: kgpu.InputAssemblyState{Topology: kgpu.TopologyTriangleList},
		Rasterization: kgpu.RasterizationState{CullMode: kgpu.CullModeNone, FrontFace: kgpu.FrontFaceClockwise, PolygonMode: kgpu.PolygonModeFill, LineWidth: 1},
		Multisample:   kgpu.MultisampleState{Samples: kgpu.SampleCount1},
		ColorTargets: []kgpu.ColorTargetState{
			{Format: kgpu.FormatB8G8R8A8Unorm, ColorWriteMask: 0xF},
		},
	})
	must(err)
	defer pipeline.Release()

	vertexData := f32bytes(trianglePositionsColors)
	vertexBuffer, err := kgpu.CreateBuffer(api, device.Handle(), kgpu.BufferOptions{
		Size:        uint64(len(vertexData)),
		Usage:       kgpu.BufferUsageVertex,
		MemoryUsage: kgpu.MemoryUsageCpuToGpu,
	})
	must(err)
	defer vertexBuffer.Release()
	mapped, err := vertexBuffer.Map()
	must(err)
	copy(mapped, vertexData)
	must(vertexBuffer.Flush())
	must(vertexBuffer.Unmap())

	acquireSem, err := kgpu.CreateSemaphore(api, device.Handle(), kgpu.SemaphoreOptions{})
	must(err)
	defer acquireSem.Release()
	renderSem, err := kgpu.CreateSemaphore(api, device.Handle(), kgpu.SemaphoreOptions{})
	must(err)
	defer renderSem.Release()
	frameFence, err := kgpu.CreateFence(api, device.Handle(), kgpu.FenceOptions{CreateSignalled: true})
	must(err)
	defer frameFence.Release()

	for !window.ShouldClose() {
		glfw.PollEvents()

		if _, err := frameFence.WaitIndefinite(); err != nil {
			log.Fatalf("frameFence.Wait: %v", err)
		}
		must(frameFence.Reset())

		imageIndex, acquireResult := swapchain.GetNextImageIndex(acquireSem)
		if acquireResult != kgpu.AcquireSuccess && acquireResult != kgpu.AcquireSubOptimal {
			log.Fatalf("GetNextImageIndex: %v", acquireResult)
		}

		recorder, err := kgpu.CreateCommandRecorder(api, device.Handle(), kgpu.CommandRecorderOptions{QueueIndex: 0})
		must(err)

		pass, err := recorder.BeginRenderPass(kgpu.RenderPassOptions{
			ColorAttachments: []kgpu.RenderPassColorAttachment{
				{
					View:          swapchainViews[imageIndex].Handle(),
					LoadOp:        kgpu.LoadOpClear,
					StoreOp:       kgpu.StoreOpStore,
					InitialLayout: kgpu.ImageLayoutUndefined,
					FinalLayout:   kgpu.ImageLayoutPresentSrc,
					Clear:         kgpu.ClearColor{R: 0.3, G: 0.3, B: 0.3, A: 1.0},
				},
			},
			FramebufferWidth:  windowWidth,
			FramebufferHeight: windowHeight,
		})
		must(err)

		must(pass.SetPipeline(pipeline.Handle()))
		must(pass.SetVertexBuffer(0, vertexBuffer.Handle(), 0))
		must(pass.SetViewport(kgpu.Viewport{Width: windowWidth, Height: windowHeight, MinDepth: 0, MaxDepth: 1}))
		must(pass.SetScissor(kgpu.Rect2D{Width: windowWidth, Height: windowHeight}))
		must(pass.PushConstant(
			kgpu.PushConstantRange{Offset: 0, Size: mvpPushConstantSize, ShaderStages: kgpu.ShaderStageVertex},
			rotatingModelViewProjectionBytes(glfw.GetTime()),
			layout.Handle(),
		))
		must(pass.Draw(kgpu.DrawOptions{VertexCount: 3, InstanceCount: 1}))
		must(pass.End())

		cmdBuffer, err := recorder.Finish()
		must(err)

		must(queue.Submit(kgpu.SubmitOptions{
			CommandBuffers:   []kgpu.Handle[kgpu.CommandBufferTag]{cmdBuffer.Handle()},
			WaitSemaphores:   []kgpu.Handle[kgpu.GpuSemaphoreTag]{acquireSem.Handle()},
			SignalSemaphores: []kgpu.Handle[kgpu.GpuSemaphoreTag]{renderSem.Handle()},
			SignalFence:      frameFence.Handle(),
		}))

		result, _ := queue.Present(kgpu.PresentOptions{
			WaitSemaphores: []kgpu.Handle[kgpu.GpuSemaphoreTag]{renderSem.Handle()},
			Swapchains: []kgpu.PresentSwapchainImage{
				{Swapchain: swapchain.Handle(), ImageIndex: imageIndex},
			},
		})
		if result != kgpu.PresentSuccess {
			log.Fatalf("Present: %v", result)
		}

		cmdBuffer.Release()
	}

	must(device.WaitUntilIdle())
}

// loadSpirv is a placeholder for this example's asset pipeline: real SPIR-V
// words for the fixed-function position+color triangle shaders compiled
// offline (spec.md section 1's "shader compilation is out of scope").
func loadSpirv() []uint32 {
	return nil
}

// fixupClipSpace rewrites proj in place to go from GL's [-1,1] Y-up, [-1,1]
// depth clip volume to Vulkan's Y-down, [0,1] depth clip volume, the same
// correction the fixed-function triangle example applied with linmath.
func fixupClipSpace(proj *lin.Mat4x4) lin.Mat4x4 {
	var fixup lin.Mat4x4
	fixup.Fill(1.0)
	fixup.ScaleAniso(&fixup, 1.0, -1.0, 1.0)
	fixup.ScaleAniso(&fixup, 1.0, 1.0, 0.5)
	fixup.Translate(0.0, 0.0, 1.0)
	fixup.Mult(&fixup, proj)
	return fixup
}

// rotatingModelViewProjectionBytes builds a model-view-projection matrix for
// a triangle spinning about the vertical axis and returns it as the raw
// bytes pushed into the vertex shader's mat4 push constant.
func rotatingModelViewProjectionBytes(elapsedSeconds float64) []byte {
	const aspect = float32(windowWidth) / float32(windowHeight)

	var model lin.Mat4x4
	model.Identity()
	model.Rotate(&model, 0.0, 1.0, 0.0, float32(elapsedSeconds))

	eye := lin.Vec3{0.0, 0.0, 2.0}
	center := lin.Vec3{0.0, 0.0, 0.0}
	up := lin.Vec3{0.0, 1.0, 0.0}
	var view lin.Mat4x4
	view.LookAt(&eye, &center, &up)

	var proj lin.Mat4x4
	proj.Perspective(lin.DegreesToRadians(45.0), aspect, 0.1, 100.0)
	proj = fixupClipSpace(&proj)

	var mvp lin.Mat4x4
	mvp.Mult(&proj, &view)
	mvp.Mult(&mvp, &model)

	return mvp.Data()
}

func f32bytes(values []float32) []byte {
	out := make([]byte, len(values)*4)
	for i, v := range values {
		bits := math.Float32bits(v)
		out[i*4+0] = byte(bits)
		out[i*4+1] = byte(bits >> 8)
		out[i*4+2] = byte(bits >> 16)
		out[i*4+3] = byte(bits >> 24)
	}
	return out
}
