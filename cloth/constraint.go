package cloth

import (
	V "diesel.com/cloth/vector"
)

//Constraint is anything the relaxation pass can project. Validate is checked once
//when the constraint is added to a World.
type Constraint interface {
	Project()
	Validate() error
}

//DistanceConstraint keeps two particles at RestLength apart
type DistanceConstraint struct {
	A          *Particle
	B          *Particle
	RestLength float32
}

func NewDistanceConstraint(a *Particle, b *Particle, rest float32) *DistanceConstraint {
	return &DistanceConstraint{A: a, B: b, RestLength: rest}
}

func (c *DistanceConstraint) Validate() error {
	if c.A == nil || c.B == nil {
		return invalidf("distance constraint with nil particle")
	}
	if c.A == c.B {
		return invalidf("distance constraint links a particle to itself")
	}
	if c.RestLength < 0 {
		return invalidf("negative rest length %v", c.RestLength)
	}
	if c.A.InvMass+c.B.InvMass == 0 {
		return invalidf("distance constraint between two fixed particles")
	}
	return nil
}

//Project moves both ends along their separation so the distance returns to
//RestLength, split by inverse mass.
func (c *DistanceConstraint) Project() {
	delta := V.Sub(c.B.Position, c.A.Position)
	correct(&c.A.Position, c.A.InvMass, &c.B.Position, c.B.InvMass, delta, c.RestLength)
}

//Current distance between the ends
func (c *DistanceConstraint) Length() float32 {
	return V.Distance(c.A.Position, c.B.Position)
}

//PointPinConstraint joins a point fixed in a body's frame to a point offset from a particle
type PointPinConstraint struct {
	Body     *Body
	Local    V.Vec32 //attachment in body coordinates
	Particle *Particle
	Offset   V.Vec32 //attachment relative to the particle
}

func NewPointPinConstraint(body *Body, local V.Vec32, p *Particle, offset V.Vec32) *PointPinConstraint {
	return &PointPinConstraint{Body: body, Local: local, Particle: p, Offset: offset}
}

func (c *PointPinConstraint) Validate() error {
	if c.Body == nil || c.Particle == nil {
		return invalidf("pin constraint with nil endpoint")
	}
	if c.Body.InvMass == 0 && c.Particle.InvMass == 0 {
		return invalidf("pin constraint between two immovable endpoints (body %d)", c.Body.ID)
	}
	return nil
}

//Anchors returns the world-space attachment points (body side, particle side)
func (c *PointPinConstraint) Anchors() (V.Vec32, V.Vec32) {
	return c.Body.WorldPoint(c.Local), V.Add(c.Particle.Position, c.Offset)
}

//Separation between the two attachment points, zero when satisfied
func (c *PointPinConstraint) Separation() float32 {
	a, b := c.Anchors()
	return V.Distance(a, b)
}

func (c *PointPinConstraint) Project() {
	a, b := c.Anchors()
	correct(&c.Body.Position, c.Body.InvMass, &c.Particle.Position, c.Particle.InvMass, V.Sub(b, a), 0)
}

//correct shifts pa and pb so that |delta| becomes rest. delta is measured from a to b.
//Nothing moves when both inverse masses are zero or the points coincide.
func correct(pa *V.Vec32, wa float32, pb *V.Vec32, wb float32, delta V.Vec32, rest float32) {
	w := wa + wb
	if w == 0 {
		return
	}
	current := V.Length(delta)
	if current == 0 {
		return
	}
	diff := (current - rest) / current
	if wa != 0 {
		*pa = V.Add(*pa, V.Scale(delta, diff*wa/w))
	}
	if wb != 0 {
		*pb = V.Sub(*pb, V.Scale(delta, diff*wb/w))
	}
}
