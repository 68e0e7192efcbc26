package app

//OpenGL windowing calls and GPU buffers for the cloth viewer
import (
	_ "embed"
	"fmt"
	"log"
	"math"
	"strings"

	C "diesel.com/cloth/cloth"
	G "diesel.com/cloth/geometry"
	U "diesel.com/cloth/utils"
	V "diesel.com/cloth/vector"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.2/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

//go:embed shaders/cloth.vert.glsl
var vertexSRC string

//go:embed shaders/cloth.frag.glsl
var fragSRC string

//VAO / VBO slots
const (
	clothSurface = iota
	clothWire
	poles
	sphere
	ground
	slots
)

const sizeofVec32 = 12

var (
	clothColor  = mgl32.Vec4{0.85, 0.35, 0.25, 1}
	wireColor   = mgl32.Vec4{0.2, 0.1, 0.1, 1}
	poleColor   = mgl32.Vec4{0.5, 0.5, 0.5, 1}
	sphereColor = mgl32.Vec4{0.2, 0.4, 0.9, 1}
	groundColor = mgl32.Vec4{0.75, 0.78, 0.72, 1}
)

type AppWindow struct {
	Width  int
	Height int
	Name   string
}

//DieselContext holds the GL program and buffers. All calls must come from the
//thread that created the window.
type DieselContext struct {
	PrgID        uint32
	VAO          [slots]uint32
	VBO          [slots]uint32
	EBO          [2]uint32 //surface triangles, wire lines
	MVPLoc       int32
	ColorLoc     int32
	PointSizeLoc int32
	RoundLoc     int32
	Counts       [slots]int32
	Vertices     int //cloth vertex count
	poleVerts    []V.Vec32
	poleFloats   []float32
}

// InitGLFW initializes glfw and returns a Window to use.
func InitGLFW(a *AppWindow) (*glfw.Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, errors.Wrap(err, "glfw init")
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Samples, 4)

	window, err := glfw.CreateWindow(a.Width, a.Height, a.Name, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, errors.Wrap(err, "create window")
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)
	return window, nil
}

// InitOpenGL compiles the program and allocates buffers sized for the grid.
func InitOpenGL(g *C.Grid, groundY float32) (*DieselContext, error) {
	if err := gl.Init(); err != nil {
		return nil, errors.Wrap(err, "gl init")
	}
	log.Println("OpenGL version", gl.GoStr(gl.GetString(gl.VERSION)))

	vtx, err := compileShader(vertexSRC+"\x00", gl.VERTEX_SHADER)
	if err != nil {
		return nil, err
	}
	frg, err := compileShader(fragSRC+"\x00", gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, err
	}
	prog, err := linkProgram(vtx, frg)
	if err != nil {
		return nil, err
	}

	dsl := &DieselContext{PrgID: prog, Vertices: g.Count()}
	dsl.MVPLoc = gl.GetUniformLocation(prog, gl.Str("mvp\x00"))
	dsl.ColorLoc = gl.GetUniformLocation(prog, gl.Str("color\x00"))
	dsl.PointSizeLoc = gl.GetUniformLocation(prog, gl.Str("pointSize\x00"))
	dsl.RoundLoc = gl.GetUniformLocation(prog, gl.Str("roundPoint\x00"))

	MakeVAO(dsl, g, groundY)

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	return dsl, nil
}

//MakeVAO allocates every vertex array. The cloth VBO is shared by the surface and
//wire arrays, each with its own element buffer.
func MakeVAO(dsl *DieselContext, g *C.Grid, groundY float32) {
	gl.GenVertexArrays(slots, &dsl.VAO[0])
	gl.GenBuffers(slots, &dsl.VBO[0])
	gl.GenBuffers(2, &dsl.EBO[0])

	verts := U.ClothVertices(g, nil)
	tris := U.GridIndices(g.Nx, g.Ny)
	lines := U.LineIndices(g.Nx, g.Ny)

	gl.BindBuffer(gl.ARRAY_BUFFER, dsl.VBO[clothSurface])
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*sizeofVec32, gl.Ptr(&verts[0][0]), gl.DYNAMIC_DRAW)

	bindElements := func(slot int, ebo uint32, idx []uint32) {
		gl.BindVertexArray(dsl.VAO[slot])
		gl.BindBuffer(gl.ARRAY_BUFFER, dsl.VBO[clothSurface])
		gl.EnableVertexAttribArray(0)
		gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 0, nil)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(idx)*4, gl.Ptr(idx), gl.STATIC_DRAW)
		dsl.Counts[slot] = int32(len(idx))
	}
	bindElements(clothSurface, dsl.EBO[0], tris)
	bindElements(clothWire, dsl.EBO[1], lines)

	//pole edges change every frame; 2 boxes of 36 edge pairs
	poleBytes := 2 * 72 * sizeofVec32
	bindArray(dsl.VAO[poles], dsl.VBO[poles], poleBytes, nil, gl.DYNAMIC_DRAW)
	bindArray(dsl.VAO[sphere], dsl.VBO[sphere], sizeofVec32, nil, gl.DYNAMIC_DRAW)

	g0 := groundQuad(groundY, 2)
	bindArray(dsl.VAO[ground], dsl.VBO[ground], len(g0)*4, gl.Ptr(g0), gl.STATIC_DRAW)
	dsl.Counts[ground] = int32(len(g0) / 3)
	gl.BindVertexArray(0)
}

func bindArray(vao, vbo uint32, size int, data interface{}, usage uint32) {
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, size, gl.Ptr(data), usage)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 0, nil)
}

//groundQuad - two triangles of half width w at height y
func groundQuad(y, w float32) []float32 {
	return []float32{
		-w, y, -w, w, y, -w, w, y, w,
		-w, y, -w, w, y, w, -w, y, w,
	}
}

//UploadCloth streams the current positions into the mapped cloth buffer
func (dsl *DieselContext) UploadCloth(verts []V.Vec32) error {
	gl.BindBuffer(gl.ARRAY_BUFFER, dsl.VBO[clothSurface])
	size := len(verts) * sizeofVec32
	ptr := gl.MapBufferRange(gl.ARRAY_BUFFER, 0, size, gl.MAP_WRITE_BIT|gl.MAP_INVALIDATE_BUFFER_BIT)
	err := U.TransferPositionData(ptr, verts, len(verts))
	gl.UnmapBuffer(gl.ARRAY_BUFFER)
	return err
}

//UploadPoles rebuilds the pole line boxes from their bodies
func (dsl *DieselContext) UploadPoles(bodies []*C.Body) {
	dsl.poleVerts = dsl.poleVerts[:0]
	for _, b := range bodies {
		if b == nil || b.Shape == nil {
			continue
		}
		dsl.poleVerts = append(dsl.poleVerts, b.Shape.Mesh(b.Position, b.Orientation).Edges()...)
	}
	if len(dsl.poleVerts) > 2*72 {
		dsl.poleVerts = dsl.poleVerts[:2*72]
	}
	dsl.poleFloats = U.PackPositions(dsl.poleFloats, dsl.poleVerts)
	dsl.Counts[poles] = int32(len(dsl.poleVerts))
	if len(dsl.poleFloats) == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, dsl.VBO[poles])
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(dsl.poleFloats)*4, gl.Ptr(dsl.poleFloats))
}

//UploadSphere - a nil sphere hides the point sprite
func (dsl *DieselContext) UploadSphere(s *G.Sphere) {
	if s == nil {
		dsl.Counts[sphere] = 0
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, dsl.VBO[sphere])
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, sizeofVec32, gl.Ptr(&s.Origin[0]))
	dsl.Counts[sphere] = 1
}

//Draw issues every draw call for one frame
func (dsl *DieselContext) Draw(cam *Camera, sphereRadius float32, fbHeight int) {
	gl.ClearColor(0.9, 0.9, 0.9, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.UseProgram(dsl.PrgID)
	mvp := cam.ViewProjection()
	gl.UniformMatrix4fv(dsl.MVPLoc, 1, false, &mvp[0])
	gl.Uniform1f(dsl.PointSizeLoc, 1)
	gl.Uniform1i(dsl.RoundLoc, 0)

	setColor := func(c mgl32.Vec4) { gl.Uniform4f(dsl.ColorLoc, c[0], c[1], c[2], c[3]) }

	setColor(groundColor)
	gl.BindVertexArray(dsl.VAO[ground])
	gl.DrawArrays(gl.TRIANGLES, 0, dsl.Counts[ground])

	gl.Enable(gl.POLYGON_OFFSET_FILL)
	gl.PolygonOffset(1, 1)
	setColor(clothColor)
	gl.BindVertexArray(dsl.VAO[clothSurface])
	gl.DrawElements(gl.TRIANGLES, dsl.Counts[clothSurface], gl.UNSIGNED_INT, gl.PtrOffset(0))
	gl.Disable(gl.POLYGON_OFFSET_FILL)

	setColor(wireColor)
	gl.BindVertexArray(dsl.VAO[clothWire])
	gl.DrawElements(gl.LINES, dsl.Counts[clothWire], gl.UNSIGNED_INT, gl.PtrOffset(0))

	setColor(poleColor)
	gl.BindVertexArray(dsl.VAO[poles])
	gl.DrawArrays(gl.LINES, 0, dsl.Counts[poles])

	if dsl.Counts[sphere] > 0 {
		setColor(sphereColor)
		gl.Uniform1i(dsl.RoundLoc, 1)
		gl.Uniform1f(dsl.PointSizeLoc, PointSize(cam, sphereRadius, fbHeight))
		gl.BindVertexArray(dsl.VAO[sphere])
		gl.DrawArrays(gl.POINTS, 0, 1)
	}
	gl.BindVertexArray(0)
}

func setViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

//PointSize approximates the on screen diameter in pixels of a sphere of radius r
//seen from the camera distance
func PointSize(cam *Camera, r float32, fbHeight int) float32 {
	if cam.Distance <= 0 || fbHeight <= 0 {
		return 1
	}
	f := float32(1 / math.Tan(float64(mgl32.DegToRad(cam.Fovy))/2))
	return 2 * r * f / cam.Distance * float32(fbHeight) / 2
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		return 0, fmt.Errorf("GLSL shader failed to compile: %v", log)
	}
	return shader, nil
}

func linkProgram(shaders ...uint32) (uint32, error) {
	prog := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(prog, s)
	}
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(prog, logLength, nil, gl.Str(log))
		return 0, fmt.Errorf("GLSL program failed to link: %v", log)
	}
	for _, s := range shaders {
		gl.DeleteShader(s)
	}
	return prog, nil
}
