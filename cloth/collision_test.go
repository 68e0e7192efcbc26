package cloth

import (
	"math"
	rand "math/rand"
	"testing"

	G "diesel.com/cloth/geometry"
	V "diesel.com/cloth/vector"
)

func TestPlaneCollision(t *testing.T) {
	ground := G.GroundPlane(-0.7)

	p := NewParticle(V.Vec32{0.2, -1, 0.1}, V.Vec32{1, -2, 0}, 1)
	if !ResolvePlaneCollision(p, ground) {
		t.Fatalf("expected contact")
	}
	if math.Abs(float64(p.Position[1]+0.7)) > 1e-5 {
		t.Errorf("particle y %v after projection", p.Position[1])
	}
	if !V.ApproxEquals(p.Velocity, V.Vec32{1, 0, 0}) {
		t.Errorf("velocity %v, want inward part removed", p.Velocity)
	}

	//moving away keeps its velocity
	up := NewParticle(V.Vec32{0, -0.8, 0}, V.Vec32{0, 3, 0}, 1)
	ResolvePlaneCollision(up, ground)
	if up.Velocity[1] != 3 {
		t.Errorf("separating velocity changed to %v", up.Velocity)
	}

	above := NewParticle(V.Vec32{0, 0, 0}, V.Vec32{0, -1, 0}, 1)
	if ResolvePlaneCollision(above, ground) {
		t.Errorf("contact reported above the plane")
	}

	fixed := NewParticle(V.Vec32{0, -1, 0}, V.Vec32{}, 0)
	ResolvePlaneCollision(fixed, ground)
	if fixed.Position[1] != -1 {
		t.Errorf("fixed particle projected")
	}
}

func TestSphereCollision(t *testing.T) {
	sphere := G.Sphere{Origin: V.Vec32{0, -0.6, 0}, Radius: 0.13}
	rnd := rand.New(rand.NewSource(295275912632))

	for k := 0; k < 200; k++ {
		pos := V.Add(sphere.Origin, V.Vec32{
			(rnd.Float32()*2 - 1) * 0.2,
			(rnd.Float32()*2 - 1) * 0.2,
			(rnd.Float32()*2 - 1) * 0.2,
		})
		vel := V.Vec32{rnd.Float32()*2 - 1, rnd.Float32()*2 - 1, rnd.Float32()*2 - 1}
		p := NewParticle(pos, vel, 1)
		inside := sphere.Contains(pos)

		hit := ResolveSphereCollision(p, sphere)
		if hit != inside {
			t.Errorf("contact %v for point inside=%v", hit, inside)
		}
		d := V.Distance(p.Position, sphere.Origin)
		if d < sphere.Radius-1e-5 {
			t.Errorf("particle left at distance %v inside radius %v", d, sphere.Radius)
		}
		if hit {
			n := V.Normalize(V.Sub(p.Position, sphere.Origin))
			if V.Dot(p.Velocity, n) < -1e-5 {
				t.Errorf("inward velocity %v remains", V.Dot(p.Velocity, n))
			}
			if V.Length(p.Velocity) > V.Length(vel)+1e-5 {
				t.Errorf("collision added speed %v -> %v", V.Length(vel), V.Length(p.Velocity))
			}
		} else if !V.VecEquals(p.Position, pos) {
			t.Errorf("outside particle moved")
		}
	}

	center := NewParticle(sphere.Origin, V.Vec32{}, 1)
	ResolveSphereCollision(center, sphere)
	if !V.ApproxEquals(center.Position, V.Vec32{0, -0.6 + 0.13, 0}) {
		t.Errorf("particle at center pushed to %v", center.Position)
	}
}

func TestBodyPlaneCollision(t *testing.T) {
	ground := G.GroundPlane(-0.7)
	pole := NewBody(1, &G.Box{HalfExtents: V.Vec32{0.05, 0.5, 0.05}})
	pole.SetPosition(V.Vec32{0, -0.5, 0})
	pole.Velocity = V.Vec32{0, -1, 0}

	if !ResolveBodyPlaneCollision(pole, ground) {
		t.Fatalf("expected pole contact")
	}
	if math.Abs(float64(pole.Position[1]+0.2)) > 1e-5 {
		t.Errorf("pole center %v, want bottom resting on ground", pole.Position[1])
	}
	if pole.Velocity[1] != 0 {
		t.Errorf("pole velocity %v", pole.Velocity)
	}
}

func TestSphereContactKeepsTangentialVelocity(t *testing.T) {
	sphere := G.Sphere{Origin: V.Vec32{0, -0.6, 0}, Radius: 0.13}
	p := NewParticle(V.Vec32{0.05, -0.6, 0}, V.Vec32{-1, 0.5, 0.25}, 1)
	if !ResolveSphereCollision(p, sphere) {
		t.Fatalf("expected contact")
	}
	if !V.ApproxEquals(p.Position, V.Vec32{0.13, -0.6, 0}) {
		t.Errorf("position %v, want on the surface along +X", p.Position)
	}
	if !V.ApproxEquals(p.Velocity, V.Vec32{0, 0.5, 0.25}) {
		t.Errorf("velocity %v, want tangential part only", p.Velocity)
	}
}
