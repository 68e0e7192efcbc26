package app

import (
	"github.com/go-gl/glfw/v3.2/glfw"
)

//Action a key or gesture maps to
type Action int

const (
	NoAction Action = iota
	ToggleWind
	ToggleSphere
	OrbitLeft
	OrbitRight
	OrbitUp
	OrbitDown
	ZoomIn
	ZoomOut
	PrintTime
	Quit
)

const (
	orbitStep = 0.05  //radians per key press
	dragScale = 0.005 //radians per cursor pixel
	zoomStep  = 0.9
)

var keyActions = map[glfw.Key]Action{
	glfw.KeyW:          ToggleWind,
	glfw.KeyB:          ToggleSphere,
	glfw.KeyLeft:       OrbitLeft,
	glfw.KeyRight:      OrbitRight,
	glfw.KeyUp:         OrbitUp,
	glfw.KeyDown:       OrbitDown,
	glfw.KeyEqual:      ZoomIn,
	glfw.KeyKPAdd:      ZoomIn,
	glfw.KeyMinus:      ZoomOut,
	glfw.KeyKPSubtract: ZoomOut,
	glfw.KeyTab:        PrintTime,
	glfw.KeyEscape:     Quit,
}

//KeyAction maps a key event. Toggles fire on press only; camera keys also repeat.
func KeyAction(key glfw.Key, action glfw.Action) Action {
	a, ok := keyActions[key]
	if !ok || action == glfw.Release {
		return NoAction
	}
	if action == glfw.Repeat {
		switch a {
		case OrbitLeft, OrbitRight, OrbitUp, OrbitDown, ZoomIn, ZoomOut:
			return a
		}
		return NoAction
	}
	return a
}

//Drag tracks the left button orbit gesture
type Drag struct {
	Held bool
	X, Y float64
}

func (d *Drag) Press(x, y float64) {
	d.Held = true
	d.X, d.Y = x, y
}

func (d *Drag) Release() {
	d.Held = false
}

//Move returns the cursor delta since the last event while held
func (d *Drag) Move(x, y float64) (float64, float64) {
	if !d.Held {
		return 0, 0
	}
	dx, dy := x-d.X, y-d.Y
	d.X, d.Y = x, y
	return dx, dy
}
