package cloth

import (
	G "diesel.com/cloth/geometry"
	V "diesel.com/cloth/vector"
)

// BodyType for anchor bodies; Dynamic, Kinematic or Static
type BodyType uint8

const (
	Dynamic   BodyType = 0
	Kinematic BodyType = 1 //moved externally, infinite mass
	Static    BodyType = 2
)

// Body is a rigid anchor body (pole, sphere). It integrates like a particle when
// dynamic. Orientation only affects where attachment points sit.
type Body struct {
	Particle
	ID          int
	Type        BodyType
	Orientation V.Quat
	Shape       *G.Box //nil for point-like bodies
}

// NewBody creates a dynamic body with the given mass.
func NewBody(mass float32, shape *G.Box) *Body {
	b := &Body{Type: Dynamic, Orientation: V.Identity(), Shape: shape, ID: -1}
	b.Particle = *NewParticle(V.Vec32{}, V.Vec32{}, mass)
	if b.InvMass == 0 {
		b.Type = Static
	}
	return b
}

// NewStaticBody creates an immovable body.
func NewStaticBody(shape *G.Box) *Body {
	return NewBody(0, shape)
}

// NewKinematicBody creates a body whose position is driven from outside the solver.
func NewKinematicBody() *Body {
	b := NewBody(0, nil)
	b.Type = Kinematic
	return b
}

// SetPosition teleports the body, resetting integration history.
func (b *Body) SetPosition(p V.Vec32) {
	b.Position = p
	b.prev = p
	b.predicted = p
}

// WorldPoint transforms a body-local point into world coordinates.
func (b *Body) WorldPoint(local V.Vec32) V.Vec32 {
	return V.Add(b.Position, V.Rotate(b.Orientation, local))
}
