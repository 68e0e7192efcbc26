package geometry

import (
	V "diesel.com/cloth/vector"
)

//diesel geometry library - collision primitives for the cloth particle system and
//triangle meshes for drawing anchor bodies. Everything is in world coordinates.

const (
	EPSILON = 0.00001
)

//Plane is infinite, described by a point on the surface and a unit normal
type Plane struct {
	Point  V.Vec32
	Normal V.Vec32
}

//Sphere collider
type Sphere struct {
	Origin V.Vec32
	Radius float32
}

//Box is an oriented box shape described by its half extents
type Box struct {
	HalfExtents V.Vec32
}

type Triangle struct {
	Verts [3]V.Vec32
}

//Triangle Mesh Storage
type Mesh struct {
	Vertexes []V.Vec32
	Normals  []V.Vec32
}

//NewPlane normalizes n. A zero normal falls back to +Y.
func NewPlane(point V.Vec32, n V.Vec32) Plane {
	return Plane{Point: point, Normal: V.NormalizeOr(n, V.UnitY)}
}

//Ground plane at height y facing +Y
func GroundPlane(y float32) Plane {
	return Plane{Point: V.Vec32{0, y, 0}, Normal: V.UnitY}
}

//SignedDistance is negative below the surface
func (p Plane) SignedDistance(pos V.Vec32) float32 {
	return V.Dot(V.Sub(pos, p.Point), p.Normal)
}

//Project moves pos onto the plane along the normal
func (p Plane) Project(pos V.Vec32) V.Vec32 {
	return V.Sub(pos, V.Scale(p.Normal, p.SignedDistance(pos)))
}

//Surface returns the closest point on the sphere surface in the direction of pos.
//A point exactly at the origin maps to the top of the sphere.
func (s Sphere) Surface(pos V.Vec32) V.Vec32 {
	n := V.NormalizeOr(V.Sub(pos, s.Origin), V.UnitY)
	return V.Add(s.Origin, V.Scale(n, s.Radius))
}

func (s Sphere) Contains(pos V.Vec32) bool {
	return V.LengthSq(V.Sub(pos, s.Origin)) < s.Radius*s.Radius
}

//Extent is the half width of the rotated box measured along direction n
func (b Box) Extent(q V.Quat, n V.Vec32) float32 {
	axes := [3]V.Vec32{V.UnitX, V.UnitY, V.UnitZ}
	var e float32
	for i := 0; i < 3; i++ {
		d := V.Dot(V.Rotate(q, axes[i]), n)
		if d < 0 {
			d = -d
		}
		e += d * b.HalfExtents[i]
	}
	return e
}

//Mesh of the box centered at o with orientation q
func (b Box) Mesh(o V.Vec32, q V.Quat) *Mesh {
	h := b.HalfExtents
	local := BoxMesh(h[0]*2, h[1]*2, h[2]*2, V.Vec32{})
	for i := range local.Vertexes {
		local.Vertexes[i] = V.Add(o, V.Rotate(q, local.Vertexes[i]))
	}
	for i := range local.Normals {
		local.Normals[i] = V.Rotate(q, local.Normals[i])
	}
	return local
}

func InitTriangle(a V.Vec32, b V.Vec32, c V.Vec32) Triangle {
	return Triangle{Verts: [3]V.Vec32{a, b, c}}
}

func InitMesh(vertices []V.Vec32, origin V.Vec32) Mesh {
	nMesh := Mesh{}
	nMesh.Vertexes = vertices
	nMesh.Normals = make([]V.Vec32, len(vertices)/3)
	//Makes the normals from triangle vertices - all normals point away from origin
	for i := 0; i+2 < len(vertices); i += 3 {
		thisTriangle := InitTriangle(vertices[i], vertices[i+1], vertices[i+2])
		n := thisTriangle.Normal()
		v0 := V.Sub(vertices[i], origin)
		if V.Dot(n, v0) < 0 {
			n = V.Scale(n, -1.0)
		}
		nMesh.Normals[i/3] = n
	}

	return nMesh
}

func (tri *Triangle) Normal() V.Vec32 {
	N := V.Cross(V.Sub(tri.Verts[1], tri.Verts[0]), V.Sub(tri.Verts[2], tri.Verts[0]))
	return V.Normalize(N)
}

//Edges returns the triangle outlines as a line list (pairs of points)
func (g *Mesh) Edges() []V.Vec32 {
	lines := make([]V.Vec32, 0, len(g.Vertexes)*2)
	for i := 0; i+2 < len(g.Vertexes); i += 3 {
		a, b, c := g.Vertexes[i], g.Vertexes[i+1], g.Vertexes[i+2]
		lines = append(lines, a, b, b, c, c, a)
	}
	return lines
}

//Triangle Mesh Box with 12 Triangles // 36 Vertexes
func BoxMesh(w float32, h float32, d float32, o V.Vec32) *Mesh {
	const TRIANGLES = 12
	var Verts = make([]V.Vec32, TRIANGLES*3)

	x := o[0]
	y := o[1]
	z := o[2]

	p := w / 2
	q := h / 2
	s := d / 2

	//FRONT FACE +Z
	Verts[0] = V.Vec32{x - p, y - q, z + s} //LFB
	Verts[1] = V.Vec32{x - p, y + q, z + s} //LFT
	Verts[2] = V.Vec32{x + p, y + q, z + s} //RFT

	Verts[3] = V.Vec32{x + p, y + q, z + s} //RFT
	Verts[4] = V.Vec32{x + p, y - q, z + s} //RFB
	Verts[5] = V.Vec32{x - p, y - q, z + s} //LFB

	//BACK FACE -Z
	Verts[6] = V.Vec32{x - p, y - q, z - s} //LBB
	Verts[7] = V.Vec32{x - p, y + q, z - s} //LBT
	Verts[8] = V.Vec32{x + p, y - q, z - s} //RBB

	Verts[9] = V.Vec32{x - p, y + q, z - s}  //LBT
	Verts[10] = V.Vec32{x + p, y + q, z - s} //RBT
	Verts[11] = V.Vec32{x + p, y - q, z - s} //RBB

	//BOTTOM FACE -Y
	Verts[12] = V.Vec32{x - p, y - q, z + s} //LFB
	Verts[13] = V.Vec32{x - p, y - q, z - s} //LBB
	Verts[14] = V.Vec32{x + p, y - q, z - s} //RBB

	Verts[15] = V.Vec32{x - p, y - q, z + s} //LFB
	Verts[16] = V.Vec32{x + p, y - q, z - s} //RBB
	Verts[17] = V.Vec32{x + p, y - q, z + s} //RFB

	//TOP FACE +Y
	Verts[18] = V.Vec32{x - p, y + q, z + s} //LFT
	Verts[19] = V.Vec32{x - p, y + q, z - s} //LBT
	Verts[20] = V.Vec32{x + p, y + q, z - s} //RBT

	Verts[21] = V.Vec32{x + p, y + q, z - s} //RBT
	Verts[22] = V.Vec32{x + p, y + q, z + s} //RFT
	Verts[23] = V.Vec32{x - p, y + q, z + s} //LFT

	//LEFT FACE -X
	Verts[24] = V.Vec32{x - p, y - q, z + s} //LFB
	Verts[25] = V.Vec32{x - p, y - q, z - s} //LBB
	Verts[26] = V.Vec32{x - p, y + q, z + s} //LFT

	Verts[27] = V.Vec32{x - p, y - q, z - s} //LBB
	Verts[28] = V.Vec32{x - p, y + q, z - s} //LBT
	Verts[29] = V.Vec32{x - p, y + q, z + s} //LFT

	//RIGHT FACE +X
	Verts[30] = V.Vec32{x + p, y + q, z + s} //RFT
	Verts[31] = V.Vec32{x + p, y - q, z + s} //RFB
	Verts[32] = V.Vec32{x + p, y - q, z - s} //RBB

	Verts[33] = V.Vec32{x + p, y + q, z + s} //RFT
	Verts[34] = V.Vec32{x + p, y + q, z - s} //RBT
	Verts[35] = V.Vec32{x + p, y - q, z - s} //RBB

	boxMesh := InitMesh(Verts, o)
	return &boxMesh
}
