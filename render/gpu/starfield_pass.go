package gpu

import (
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/starfield/render/core"
	"github.com/gekko3d/starfield/render/shaders"
	"github.com/go-gl/mathgl/mgl32"
)

// FrameUniforms matches the WGSL FrameUniforms struct (160 bytes).
type FrameUniforms struct {
	ViewProj   mgl32.Mat4
	View       mgl32.Mat4
	Viewport   [2]float32
	Time       float32
	Far        float32
	PixelRatio float32
	_          [3]float32
}

// verticesPerStar is the quad (two triangles) expanded in the vertex shader.
const verticesPerStar = 6

type StarfieldRenderPass struct {
	Pipeline       *wgpu.RenderPipeline
	BindGroup      *wgpu.BindGroup
	UniformBuffer  *wgpu.Buffer
	InstanceBuffer *wgpu.Buffer
	InstanceCap    uint32
	InstanceCount  uint32
	Device         *wgpu.Device

	instances []core.StarInstance
}

func NewStarfieldRenderPass(device *wgpu.Device, format wgpu.TextureFormat) (*StarfieldRenderPass, error) {
	shaderModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "StarfieldShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.StarfieldWGSL},
	})
	if err != nil {
		return nil, err
	}
	defer shaderModule.Release()

	bgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "StarfieldFrameBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:             wgpu.BufferBindingTypeUniform,
					MinBindingSize:   uint64(unsafe.Sizeof(FrameUniforms{})),
					HasDynamicOffset: false,
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		return nil, err
	}

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "StarfieldPipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shaderModule,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: uint64(unsafe.Sizeof(core.StarInstance{})),
					StepMode:    wgpu.VertexStepModeInstance,
					Attributes: []wgpu.VertexAttribute{
						{
							Format:         wgpu.VertexFormatFloat32x3,
							Offset:         0,
							ShaderLocation: 0,
						},
						{
							Format:         wgpu.VertexFormatFloat32,
							Offset:         12,
							ShaderLocation: 1,
						},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shaderModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					WriteMask: wgpu.ColorWriteMaskAll,
					// additive: overlapping stars add up
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorSrcAlpha,
							DstFactor: wgpu.BlendFactorOne,
						},
						Alpha: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOne,
						},
					},
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: nil,
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}

	uniforms, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "StarfieldFrameUniforms",
		Size:  uint64(unsafe.Sizeof(FrameUniforms{})),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}

	bindGroup, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "StarfieldFrameBG",
		Layout: bgl,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  uniforms,
				Size:    uint64(unsafe.Sizeof(FrameUniforms{})),
			},
		},
	})
	if err != nil {
		return nil, err
	}

	return &StarfieldRenderPass{
		Pipeline:      pipeline,
		BindGroup:     bindGroup,
		UniformBuffer: uniforms,
		Device:        device,
	}, nil
}

// UploadStars writes the whole instance buffer, growing it when the star
// count exceeds capacity.
func (p *StarfieldRenderPass) UploadStars(queue *wgpu.Queue, positions, sizes []float32) error {
	p.instances = core.PackInstances(p.instances, positions, sizes)
	count := uint32(len(p.instances))
	p.InstanceCount = count
	if count == 0 {
		return nil
	}

	stride := uint64(unsafe.Sizeof(core.StarInstance{}))
	if p.InstanceBuffer == nil || p.InstanceCap < count {
		if p.InstanceBuffer != nil {
			p.InstanceBuffer.Release()
		}
		buf, err := p.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "StarfieldInstanceBuffer",
			Size:  uint64(count) * stride,
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return err
		}
		p.InstanceBuffer = buf
		p.InstanceCap = count
	}

	sizeBytes := uint64(count) * stride
	return queue.WriteBuffer(p.InstanceBuffer, 0, unsafe.Slice((*byte)(unsafe.Pointer(&p.instances[0])), sizeBytes))
}

// UploadPositions refreshes positions in place; sizes were uploaded with the
// first UploadStars.
func (p *StarfieldRenderPass) UploadPositions(queue *wgpu.Queue, positions []float32) error {
	if p.InstanceBuffer == nil || len(p.instances) == 0 {
		return nil
	}
	core.UpdatePositions(p.instances, positions)
	sizeBytes := uint64(len(p.instances)) * uint64(unsafe.Sizeof(core.StarInstance{}))
	return queue.WriteBuffer(p.InstanceBuffer, 0, unsafe.Slice((*byte)(unsafe.Pointer(&p.instances[0])), sizeBytes))
}

func (p *StarfieldRenderPass) UpdateFrame(queue *wgpu.Queue, u FrameUniforms) error {
	return queue.WriteBuffer(p.UniformBuffer, 0, unsafe.Slice((*byte)(unsafe.Pointer(&u)), unsafe.Sizeof(u)))
}

func (p *StarfieldRenderPass) Draw(pass *wgpu.RenderPassEncoder) {
	if p.InstanceBuffer == nil || p.InstanceCount == 0 {
		return
	}

	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, p.BindGroup, nil)
	pass.SetVertexBuffer(0, p.InstanceBuffer, 0, p.InstanceBuffer.GetSize())
	pass.Draw(verticesPerStar, p.InstanceCount, 0, 0)
}

func (p *StarfieldRenderPass) Release() {
	if p.InstanceBuffer != nil {
		p.InstanceBuffer.Release()
		p.InstanceBuffer = nil
	}
	if p.UniformBuffer != nil {
		p.UniformBuffer.Release()
		p.UniformBuffer = nil
	}
	if p.BindGroup != nil {
		p.BindGroup.Release()
		p.BindGroup = nil
	}
	if p.Pipeline != nil {
		p.Pipeline.Release()
		p.Pipeline = nil
	}
	p.instances = nil
}
