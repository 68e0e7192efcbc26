package app

//Desktop viewer: owns the window, routes input to the scene and camera, drives one
//frame per vsync
import (
	"fmt"
	"log"
	"runtime"
	"time"

	G "diesel.com/cloth/geometry"
	S "diesel.com/cloth/scene"
	U "diesel.com/cloth/utils"
	V "diesel.com/cloth/vector"
	"github.com/go-gl/glfw/v3.2/glfw"
)

//AnimationTimer - wall clock bookkeeping for the frame loop
type AnimationTimer struct {
	AppStart    time.Time
	CurrentTime time.Time
	LastTitle   time.Time
	Frames      int
}

//Seconds since start
func (a *AnimationTimer) Elapsed() float64 {
	return a.CurrentTime.Sub(a.AppStart).Seconds()
}

//Viewer binds a Scene to a window. Input handlers are registered once at creation and
//only flip flags or move the camera; the simulation advances in Run.
type Viewer struct {
	Scene   *S.Scene
	Camera  *Camera
	Anim    *AnimationTimer
	Context *DieselContext
	Window  *glfw.Window
	Drag    Drag
	Logger  *log.Logger
	CatchUp bool //step by wall time through Scene.Advance instead of once per frame

	verts []V.Vec32
	quit  bool
}

func NewViewer(scene *S.Scene, width, height int, logger *log.Logger) *Viewer {
	if logger == nil {
		logger = log.New(log.Writer(), "", log.LstdFlags)
	}
	now := time.Now()
	return &Viewer{
		Scene:  scene,
		Camera: NewCamera(width, height),
		Anim:    &AnimationTimer{AppStart: now, CurrentTime: now, LastTitle: now},
		Logger:  logger,
		CatchUp: scene.Config.CatchUp,
	}
}

//Apply performs an input action
func (v *Viewer) Apply(a Action) {
	switch a {
	case ToggleWind:
		v.Logger.Printf("wind %v", onOff(v.Scene.ToggleWind()))
	case ToggleSphere:
		v.Logger.Printf("sphere %v", onOff(v.Scene.ToggleSphere()))
	case OrbitLeft:
		v.Camera.Rotate(-orbitStep, 0)
	case OrbitRight:
		v.Camera.Rotate(orbitStep, 0)
	case OrbitUp:
		v.Camera.Rotate(0, orbitStep)
	case OrbitDown:
		v.Camera.Rotate(0, -orbitStep)
	case ZoomIn:
		v.Camera.Zoom(zoomStep)
	case ZoomOut:
		v.Camera.Zoom(1 / zoomStep)
	case PrintTime:
		v.Logger.Printf("simulation time %.3fs, %d ticks", v.Scene.World.Timer.T, v.Scene.Ticks())
	case Quit:
		v.quit = true
		if v.Window != nil {
			v.Window.SetShouldClose(true)
		}
	}
}

//Title shown in the window bar
func (v *Viewer) Title() string {
	return fmt.Sprintf("Cloth | wind %s | sphere %s | t=%.1fs",
		onOff(v.Scene.WindEnabled()), onOff(v.Scene.SphereEnabled()), v.Scene.World.Timer.T)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (v *Viewer) processKey(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	v.Apply(KeyAction(key, action))
}

func (v *Viewer) processMouse(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft {
		return
	}
	if action == glfw.Press {
		x, y := w.GetCursorPos()
		v.Drag.Press(x, y)
	} else if action == glfw.Release {
		v.Drag.Release()
	}
}

func (v *Viewer) processCursor(w *glfw.Window, x float64, y float64) {
	dx, dy := v.Drag.Move(x, y)
	if dx != 0 || dy != 0 {
		v.Camera.Rotate(float32(-dx*dragScale), float32(dy*dragScale))
	}
}

func (v *Viewer) processScroll(w *glfw.Window, xoff float64, yoff float64) {
	if yoff > 0 {
		v.Camera.Zoom(zoomStep)
	} else if yoff < 0 {
		v.Camera.Zoom(1 / zoomStep)
	}
}

func (v *Viewer) processResize(w *glfw.Window, width int, height int) {
	v.Camera.Resize(width, height)
}

//register installs every callback exactly once
func (v *Viewer) register(w *glfw.Window) {
	v.Window = w
	w.SetKeyCallback(v.processKey)
	w.SetMouseButtonCallback(v.processMouse)
	w.SetCursorPosCallback(v.processCursor)
	w.SetScrollCallback(v.processScroll)
	w.SetFramebufferSizeCallback(v.processResize)
}

//Frame takes one fixed step per frame, or with CatchUp as many as the wall time
//covers. Returns the steps taken.
func (v *Viewer) Frame(now time.Time) int {
	v.Anim.CurrentTime = now
	v.Anim.Frames++
	if v.CatchUp {
		return v.Scene.Advance(v.Anim.Elapsed())
	}
	v.Scene.Tick(v.Anim.Elapsed())
	return 1
}

//RenderClothGL opens a window on the calling goroutine and runs until it closes
func RenderClothGL(scene *S.Scene, win *AppWindow, logger *log.Logger) error {
	//GL contexts are bound to one OS thread
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	window, err := InitGLFW(win)
	if err != nil {
		return err
	}
	defer glfw.Terminate()

	dsl, err := InitOpenGL(scene.Cloth, scene.Ground.Point[1])
	if err != nil {
		return err
	}

	v := NewViewer(scene, win.Width, win.Height, logger)
	v.Context = dsl
	fbw, fbh := window.GetFramebufferSize()
	v.Camera.Resize(fbw, fbh)
	v.register(window)
	return v.Run()
}

//Main render loop. Must run on the thread that created the context.
func (v *Viewer) Run() error {
	for !v.Window.ShouldClose() && !v.quit {
		now := time.Now()
		v.Frame(now)

		v.verts = U.ClothVertices(v.Scene.Cloth, v.verts)
		if err := v.Context.UploadCloth(v.verts); err != nil {
			return err
		}
		v.Context.UploadPoles(v.Scene.Poles[:])
		var sphere *G.Sphere
		if v.Scene.SphereEnabled() {
			sp := v.Scene.World.Sphere.Geometry()
			sphere = &sp
		}
		v.Context.UploadSphere(sphere)

		fbw, fbh := v.Window.GetFramebufferSize()
		setViewport(fbw, fbh)
		radius := float32(0)
		if v.Scene.World.Sphere != nil {
			radius = v.Scene.World.Sphere.Radius
		}
		v.Context.Draw(v.Camera, radius, fbh)

		if now.Sub(v.Anim.LastTitle) > 250*time.Millisecond {
			v.Window.SetTitle(v.Title())
			v.Anim.LastTitle = now
		}
		v.Window.SwapBuffers()
		glfw.PollEvents()
	}
	return nil
}
