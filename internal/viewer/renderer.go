package viewer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/rockforge/pkg/asteroid"
)

var (
	rockColor = mgl32.Vec3{0.55, 0.5, 0.45}
	lightDir  = mgl32.Vec3{-0.4, -0.7, -0.6}.Normalize()
)

// rockRenderer draws one asteroid mesh with a single directional light.
type rockRenderer struct {
	program uint32
	locMVP  int32
	locMod  int32
	locDir  int32
	locCol  int32

	vao, vbo, ebo uint32
	indexCount    int32
}

func newRockRenderer() (*rockRenderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl init: %w", err)
	}

	program, err := compileProgram(rockVertexShader, rockFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("rock shader: %w", err)
	}

	r := &rockRenderer{
		program: program,
		locMVP:  uniform(program, "uMVP"),
		locMod:  uniform(program, "uModel"),
		locDir:  uniform(program, "uLightDir"),
		locCol:  uniform(program, "uColor"),
	}

	gl.GenVertexArrays(1, &r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.GenBuffers(1, &r.ebo)

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
	gl.Enable(gl.MULTISAMPLE)
	gl.ClearColor(0.02, 0.02, 0.05, 1)
	return r, nil
}

// Upload replaces the GPU buffers with m.
func (r *rockRenderer) Upload(m *asteroid.Mesh) {
	vertices, indices := interleave(m)
	r.indexCount = int32(len(indices))
	if len(vertices) == 0 || len(indices) == 0 {
		return
	}

	gl.BindVertexArray(r.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	stride := int32(floatsPerVertex * 4)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
}

// Draw renders the uploaded mesh. model is the asteroid's spin.
func (r *rockRenderer) Draw(viewProj, model mgl32.Mat4, width, height int32, wireframe bool) {
	gl.Viewport(0, 0, width, height)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	if r.indexCount == 0 {
		return
	}

	if wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	mvp := viewProj.Mul4(model)
	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.locMVP, 1, false, &mvp[0])
	gl.UniformMatrix4fv(r.locMod, 1, false, &model[0])
	gl.Uniform3f(r.locDir, lightDir[0], lightDir[1], lightDir[2])
	gl.Uniform3f(r.locCol, rockColor[0], rockColor[1], rockColor[2])

	gl.BindVertexArray(r.vao)
	gl.DrawElements(gl.TRIANGLES, r.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (r *rockRenderer) Close() {
	gl.DeleteVertexArrays(1, &r.vao)
	gl.DeleteBuffers(1, &r.vbo)
	gl.DeleteBuffers(1, &r.ebo)
	gl.DeleteProgram(r.program)
}

// readPixels returns the back buffer as bottom-up RGBA rows.
func readPixels(width, height int32) []byte {
	pixels := make([]byte, int(width)*int(height)*4)
	if len(pixels) == 0 {
		return pixels
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, width, height, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels
}
