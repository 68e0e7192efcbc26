package cloth

import (
	"testing"

	V "diesel.com/cloth/vector"
)

func TestParticleMass(t *testing.T) {
	p := NewParticle(V.Vec32{}, V.Vec32{}, 2)
	if p.InvMass != 0.5 || p.Mass() != 2 || p.Fixed() {
		t.Errorf("mass 2 particle: inv %v mass %v fixed %v", p.InvMass, p.Mass(), p.Fixed())
	}
	f := NewParticle(V.Vec32{}, V.Vec32{}, 0)
	if !f.Fixed() || f.Mass() != 0 {
		t.Errorf("mass 0 particle should be fixed")
	}
}

func TestParticleIntegrate(t *testing.T) {
	dt := float32(0.5)
	p := NewParticle(V.Vec32{0, 1, 0}, V.Vec32{1, 0, 0}, 1)
	p.ApplyForce(V.Vec32{0, -2, 0})
	p.Integrate(dt, 1)

	//velocity updated before position
	if !V.ApproxEquals(p.Velocity, V.Vec32{1, -1, 0}) {
		t.Errorf("velocity %v", p.Velocity)
	}
	if !V.ApproxEquals(p.Position, V.Vec32{0.5, 0.5, 0}) {
		t.Errorf("position %v", p.Position)
	}
	if !V.VecEquals(p.Force, V.Zero) {
		t.Errorf("force not cleared: %v", p.Force)
	}
}

func TestParticleDamping(t *testing.T) {
	p := NewParticle(V.Vec32{}, V.Vec32{2, 0, 0}, 1)
	p.Integrate(1, 0.5)
	if !V.ApproxEquals(p.Velocity, V.Vec32{1, 0, 0}) {
		t.Errorf("damped velocity %v", p.Velocity)
	}
}

func TestFixedParticleIntegrate(t *testing.T) {
	pos := V.Vec32{1, 2, 3}
	p := NewParticle(pos, V.Vec32{}, 0)
	p.ApplyForce(V.Vec32{100, 100, 100})
	p.Integrate(1.0/60.0, 1)
	if !V.VecEquals(p.Position, pos) || !V.VecEquals(p.Velocity, V.Zero) {
		t.Errorf("fixed particle moved: %v %v", p.Position, p.Velocity)
	}
}
