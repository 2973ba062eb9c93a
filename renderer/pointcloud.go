// Package renderer draws the point cloud with raylib.
package renderer

import (
	_ "embed"
	"fmt"
	"image"
	"image/color"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pixeldust/camera"
	"github.com/pthm-cable/pixeldust/particles"
)

//go:embed shaders/points.vs
var pointsVS string

//go:embed shaders/points.fs
var pointsFS string

// quadCorners are the two counter-clockwise triangles of one sprite.
var quadCorners = [6][2]float32{
	{0, 0}, {1, 0}, {0, 1},
	{1, 0}, {1, 1}, {0, 1},
}

// PointCloud is the raylib Backend for particles.Field. Each instance becomes six
// vertices carrying its pixel offset, quad corner and (pixel index, angle); the
// vertex shader does all displacement.
type PointCloud struct {
	shader   rl.Shader
	material rl.Material

	timeLoc        int32
	randomLoc      int32
	depthLoc       int32
	sizeLoc        int32
	strengthLoc    int32
	spatialLoc     int32
	parallaxLoc    int32
	textureSizeLoc int32
	pointerLoc     int32

	mesh    rl.Mesh
	texture rl.Texture2D
	touch   rl.Texture2D
	touchW  int
	pixels  []color.RGBA

	live        bool
	initialized bool
}

// NewPointCloud creates an uninitialized renderer. GPU objects are created on
// first upload, which must happen after the window exists.
func NewPointCloud() *PointCloud {
	return &PointCloud{}
}

// Init compiles the shader and creates the material.
func (p *PointCloud) Init() {
	if p.initialized {
		return
	}

	p.shader = rl.LoadShaderFromMemory(pointsVS, pointsFS)
	p.timeLoc = rl.GetShaderLocation(p.shader, "uTime")
	p.randomLoc = rl.GetShaderLocation(p.shader, "uRandom")
	p.depthLoc = rl.GetShaderLocation(p.shader, "uDepth")
	p.sizeLoc = rl.GetShaderLocation(p.shader, "uSize")
	p.strengthLoc = rl.GetShaderLocation(p.shader, "uStrength")
	p.spatialLoc = rl.GetShaderLocation(p.shader, "uSpatialMode")
	p.parallaxLoc = rl.GetShaderLocation(p.shader, "uParallax")
	p.textureSizeLoc = rl.GetShaderLocation(p.shader, "uTextureSize")
	p.pointerLoc = rl.GetShaderLocation(p.shader, "uPointer")

	rl.SetShaderValue(p.shader, p.parallaxLoc, []float32{particles.SpatialParallax}, rl.ShaderUniformFloat)

	p.material = rl.LoadMaterialDefault()
	p.material.Shader = p.shader

	p.initialized = true
}

// Upload implements particles.Backend.
func (p *PointCloud) Upload(inst *particles.Instances, tex *image.NRGBA) error {
	if !rl.IsWindowReady() {
		return fmt.Errorf("uploading point cloud: window not ready")
	}
	p.Init()
	p.Release()

	if inst.Len() == 0 {
		// Nothing visible: keep the texture so the material stays valid
		p.uploadTexture(tex)
		p.live = true
		return nil
	}

	n := inst.Len() * len(quadCorners)
	verts := make([]float32, 0, n*3)
	uvs := make([]float32, 0, n*2)
	attrs := make([]float32, 0, n*2)
	for i, idx := range inst.Indices {
		x, y := inst.Offsets[2*i], inst.Offsets[2*i+1]
		for _, c := range quadCorners {
			verts = append(verts, x, y, 0)
			uvs = append(uvs, c[0], c[1])
			attrs = append(attrs, float32(idx), inst.Angles[i])
		}
	}

	p.mesh = rl.Mesh{
		VertexCount:   int32(n),
		TriangleCount: int32(n / 3),
		Vertices:      &verts[0],
		Texcoords:     &uvs[0],
		Texcoords2:    &attrs[0],
	}

	var pinner runtime.Pinner
	pinner.Pin(&verts[0])
	pinner.Pin(&uvs[0])
	pinner.Pin(&attrs[0])
	rl.UploadMesh(&p.mesh, false)
	pinner.Unpin()

	// The GPU owns the data now; raylib must not free Go memory on unload
	p.mesh.Vertices = nil
	p.mesh.Texcoords = nil
	p.mesh.Texcoords2 = nil

	p.uploadTexture(tex)
	p.live = true
	return nil
}

// uploadTexture creates the source texture, flipped so row 0 is v = 0.
func (p *PointCloud) uploadTexture(tex *image.NRGBA) {
	w, h := tex.Rect.Dx(), tex.Rect.Dy()
	img := rl.GenImageColor(w, h, rl.Black)
	p.texture = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(p.texture, rl.FilterBilinear)
	rl.UnloadImage(img)

	pixels := make([]color.RGBA, w*h)
	for y := 0; y < h; y++ {
		src := tex.Pix[(h-1-y)*tex.Stride:]
		for x := 0; x < w; x++ {
			o := x * 4
			pixels[y*w+x] = color.RGBA{R: src[o], G: src[o+1], B: src[o+2], A: src[o+3]}
		}
	}
	rl.UpdateTexture(p.texture, pixels)
	rl.SetMaterialTexture(&p.material, rl.MapDiffuse, p.texture)
}

// UpdateTouch implements particles.Backend.
func (p *PointCloud) UpdateTouch(img *image.Gray) {
	if !p.initialized {
		return
	}
	size := img.Rect.Dx()
	if p.touchW != size {
		if p.touchW > 0 {
			rl.UnloadTexture(p.touch)
		}
		blank := rl.GenImageColor(size, size, rl.Black)
		p.touch = rl.LoadTextureFromImage(blank)
		rl.SetTextureFilter(p.touch, rl.FilterBilinear)
		rl.SetTextureWrap(p.touch, rl.WrapClamp)
		rl.UnloadImage(blank)
		p.touchW = size
		p.pixels = make([]color.RGBA, size*size)
		rl.SetMaterialTexture(&p.material, rl.MapSpecular, p.touch)
	}

	for i, v := range img.Pix[:size*size] {
		p.pixels[i] = color.RGBA{R: v, G: v, B: v, A: 255}
	}
	rl.UpdateTexture(p.touch, p.pixels)
}

// Release implements particles.Backend.
func (p *PointCloud) Release() {
	if !p.live {
		return
	}
	if p.mesh.VertexCount > 0 {
		rl.UnloadMesh(&p.mesh)
	}
	p.mesh = rl.Mesh{}
	rl.UnloadTexture(p.texture)
	p.live = false
}

// Draw renders the cloud through cam with the frame's uniforms.
func (p *PointCloud) Draw(cam *camera.Camera, u particles.Uniforms) {
	if !p.live || p.mesh.VertexCount == 0 {
		return
	}

	rl.SetShaderValue(p.shader, p.timeLoc, []float32{u.Time}, rl.ShaderUniformFloat)
	rl.SetShaderValue(p.shader, p.randomLoc, []float32{u.Spread}, rl.ShaderUniformFloat)
	rl.SetShaderValue(p.shader, p.depthLoc, []float32{u.Depth}, rl.ShaderUniformFloat)
	rl.SetShaderValue(p.shader, p.sizeLoc, []float32{u.Size}, rl.ShaderUniformFloat)
	rl.SetShaderValue(p.shader, p.strengthLoc, []float32{u.Strength}, rl.ShaderUniformFloat)
	rl.SetShaderValue(p.shader, p.spatialLoc, []float32{u.SpatialMode}, rl.ShaderUniformFloat)
	rl.SetShaderValue(p.shader, p.textureSizeLoc, u.TextureSize[:], rl.ShaderUniformVec2)
	rl.SetShaderValue(p.shader, p.pointerLoc, u.Pointer[:], rl.ShaderUniformVec2)

	rl.BeginMode3D(Camera3D(cam))
	rl.DisableDepthTest()
	rl.BeginBlendMode(rl.BlendAlpha)

	transform := rl.MatrixMultiply(
		rl.MatrixScale(u.Scale, u.Scale, 1),
		rl.MatrixTranslate(u.OffsetX, 0, 0),
	)
	rl.DrawMesh(p.mesh, p.material, transform)

	rl.EndBlendMode()
	rl.EnableDepthTest()
	rl.EndMode3D()
}

// Unload frees every GPU object.
func (p *PointCloud) Unload() {
	p.Release()
	if p.touchW > 0 {
		rl.UnloadTexture(p.touch)
		p.touchW = 0
	}
	if p.initialized {
		rl.UnloadShader(p.shader)
		p.initialized = false
	}
}

// Camera3D converts the engine camera for raylib's 3D mode.
func Camera3D(cam *camera.Camera) rl.Camera3D {
	return rl.Camera3D{
		Position:   rl.NewVector3(cam.Position.X(), cam.Position.Y(), cam.Position.Z()),
		Target:     rl.NewVector3(cam.Target.X(), cam.Target.Y(), cam.Target.Z()),
		Up:         rl.NewVector3(cam.Up.X(), cam.Up.Y(), cam.Up.Z()),
		Fovy:       cam.FOV,
		Projection: rl.CameraPerspective,
	}
}
