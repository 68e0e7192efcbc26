package app

import (
	"math"

	V "diesel.com/cloth/vector"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	maxPitch    = 1.5
	minDistance = 0.5
	maxDistance = 10
)

//Camera orbits Target at Distance. Yaw turns about +Y, Pitch lifts the eye.
type Camera struct {
	Target   V.Vec32
	Yaw      float32
	Pitch    float32
	Distance float32
	Fovy     float32 //degrees
	Aspect   float32
}

func NewCamera(width, height int) *Camera {
	c := &Camera{Target: V.Vec32{0, -0.2, 0}, Pitch: 0.2, Distance: 2.2, Fovy: 45}
	c.Resize(width, height)
	return c
}

func (c *Camera) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

//Eye position in world space
func (c *Camera) Eye() V.Vec32 {
	cp := float32(math.Cos(float64(c.Pitch)))
	sp := float32(math.Sin(float64(c.Pitch)))
	sy := float32(math.Sin(float64(c.Yaw)))
	cy := float32(math.Cos(float64(c.Yaw)))
	return V.Add(c.Target, V.Scale(V.Vec32{cp * sy, sp, cp * cy}, c.Distance))
}

//Rotate the orbit by yaw and pitch radians, pitch clamped short of the poles
func (c *Camera) Rotate(yaw, pitch float32) {
	c.Yaw += yaw
	c.Pitch = mgl32.Clamp(c.Pitch+pitch, -maxPitch, maxPitch)
}

//Zoom scales the orbit distance
func (c *Camera) Zoom(factor float32) {
	if factor <= 0 {
		return
	}
	c.Distance = mgl32.Clamp(c.Distance*factor, minDistance, maxDistance)
}

func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye(), c.Target, V.UnitY)
}

func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.Fovy), c.Aspect, 0.05, 50)
}

//ViewProjection - combined matrix handed to the shader
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}
