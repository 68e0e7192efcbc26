package cloth

import (
	G "diesel.com/cloth/geometry"
	V "diesel.com/cloth/vector"
)

//SphereCollider is a kinematic sphere the cloth drapes over. Disabled colliders are inert.
type SphereCollider struct {
	Body    *Body
	Radius  float32
	Enabled bool
}

//Geometry at the body's current position
func (s *SphereCollider) Geometry() G.Sphere {
	return G.Sphere{Origin: s.Body.Position, Radius: s.Radius}
}

//ResolvePlaneCollision projects a particle below the plane back onto it and removes
//the velocity component into the plane. Returns true on contact.
func ResolvePlaneCollision(p *Particle, plane G.Plane) bool {
	if p.InvMass == 0 {
		return false
	}
	d := plane.SignedDistance(p.Position)
	if d >= 0 {
		return false
	}
	p.Position = V.Sub(p.Position, V.Scale(plane.Normal, d))
	removeInward(&p.Velocity, plane.Normal)
	return true
}

//ResolveSphereCollision pushes a particle inside the sphere out to its surface along the
//center to particle direction and removes the inward velocity component.
func ResolveSphereCollision(p *Particle, sphere G.Sphere) bool {
	if p.InvMass == 0 {
		return false
	}
	if !sphere.Contains(p.Position) {
		return false
	}
	n := V.NormalizeOr(V.Sub(p.Position, sphere.Origin), V.UnitY)
	p.Position = sphere.Surface(p.Position)
	removeInward(&p.Velocity, n)
	return true
}

//ResolveBodyPlaneCollision keeps a box shaped body above the plane using its
//orientation aware half width. Bodies without a shape collide as points.
func ResolveBodyPlaneCollision(b *Body, plane G.Plane) bool {
	if b.InvMass == 0 {
		return false
	}
	var extent float32
	if b.Shape != nil {
		extent = b.Shape.Extent(b.Orientation, plane.Normal)
	}
	d := plane.SignedDistance(b.Position) - extent
	if d >= 0 {
		return false
	}
	b.Position = V.Sub(b.Position, V.Scale(plane.Normal, d))
	removeInward(&b.Velocity, plane.Normal)
	return true
}

//removeInward keeps only the tangential part of v when it points into the surface
func removeInward(v *V.Vec32, n V.Vec32) {
	if V.Dot(*v, n) < 0 {
		*v = V.Tan(*v, n)
	}
}
