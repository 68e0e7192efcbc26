package cloth

import (
	V "diesel.com/cloth/vector"
)

//Particle is a point mass node of the cloth. InvMass of zero pins the particle in
//place: forces and integration never move it.
type Particle struct {
	Position V.Vec32
	Velocity V.Vec32
	Force    V.Vec32 //Accumulated force, cleared by Integrate
	InvMass  float32

	prev      V.Vec32 //position before integration
	predicted V.Vec32 //position right after integration
}

//NewParticle creates a particle. mass <= 0 makes it immovable.
func NewParticle(position V.Vec32, velocity V.Vec32, mass float32) *Particle {
	p := &Particle{Position: position, Velocity: velocity}
	if mass > 0 {
		p.InvMass = 1 / mass
	}
	p.prev = position
	p.predicted = position
	return p
}

//Mass returns 0 for fixed particles
func (p *Particle) Mass() float32 {
	if p.InvMass == 0 {
		return 0
	}
	return 1 / p.InvMass
}

func (p *Particle) Fixed() bool {
	return p.InvMass == 0
}

//ApplyForce - Accumulate the Force vector
func (p *Particle) ApplyForce(f V.Vec32) {
	p.Force = V.Add(p.Force, f)
}

//Clears particle Force vector
func (p *Particle) Clear() {
	p.Force = V.Vec32{}
}

//Integrate the accumulated force with semi-implicit Euler: velocity first, then position
//from the new velocity. keep scales the velocity for linear damping (1 = none). Clears force.
func (p *Particle) Integrate(dt float32, keep float32) {
	p.prev = p.Position
	if p.InvMass == 0 {
		p.Clear()
		p.predicted = p.Position
		return
	}

	p.Velocity = V.Add(p.Velocity, V.Scale(p.Force, p.InvMass*dt))
	if keep != 1 {
		p.Velocity = V.Scale(p.Velocity, keep)
	}
	p.Position = V.Add(p.Position, V.Scale(p.Velocity, dt))
	p.Clear()
	p.predicted = p.Position
}

//syncVelocity folds the positional correction made since integration into the velocity
func (p *Particle) syncVelocity(invDt float32) {
	if p.InvMass == 0 {
		return
	}
	d := V.Sub(p.Position, p.predicted)
	if V.VecEquals(d, V.Zero) {
		return
	}
	p.Velocity = V.Add(p.Velocity, V.Scale(d, invDt))
}

//recover resets a particle whose state went non-finite. Returns true if a reset happened.
func (p *Particle) recover() bool {
	if V.IsFinite(p.Position) && V.IsFinite(p.Velocity) {
		return false
	}
	if V.IsFinite(p.prev) {
		p.Position = p.prev
	} else {
		p.Position = V.Vec32{}
	}
	p.Velocity = V.Vec32{}
	p.Force = V.Vec32{}
	p.predicted = p.Position
	return true
}
