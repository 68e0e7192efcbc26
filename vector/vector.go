package vector

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

//Vector construct for the cloth solver. Vec32 is the mathgl Vec3 so values can be
//handed to the GL side without conversion. All functions are immutable.

//Vec32 Default Vector Implementation
type Vec32 = mgl32.Vec3

//Quat orientation for rigid anchor bodies
type Quat = mgl32.Quat

//Epsilon used by approximate comparisons
const Epsilon = 0.00001

var (
	Zero  = Vec32{0, 0, 0}
	UnitX = Vec32{1, 0, 0}
	UnitY = Vec32{0, 1, 0}
	UnitZ = Vec32{0, 0, 1}
)

//NewVec32 Returns vector with all components set to a
func NewVec32(a float32) Vec32 {
	return Vec32{a, a, a}
}

//Identity orientation
func Identity() Quat {
	return mgl32.QuatIdent()
}

func Dot(a Vec32, b Vec32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

//Scale - Scales vector v by scalar a
func Scale(v Vec32, a float32) Vec32 {
	return Vec32{v[0] * a, v[1] * a, v[2] * a}
}

func Add(v Vec32, b Vec32) Vec32 {
	return Vec32{v[0] + b[0], v[1] + b[1], v[2] + b[2]}
}

func Sub(v Vec32, b Vec32) Vec32 {
	return Vec32{v[0] - b[0], v[1] - b[1], v[2] - b[2]}
}

//Cross Product
func Cross(a Vec32, b Vec32) Vec32 {
	return a.Cross(b)
}

func LengthSq(a Vec32) float32 {
	return a[0]*a[0] + a[1]*a[1] + a[2]*a[2]
}

func Length(a Vec32) float32 {
	return float32(math.Sqrt(float64(LengthSq(a))))
}

func Distance(a Vec32, b Vec32) float32 {
	return Length(Sub(a, b))
}

//Normalize returns the unit vector of a. Zero length input gives the zero vector,
//collision code calls this on coincident points.
func Normalize(a Vec32) Vec32 {
	l := Length(a)
	if l == 0 {
		return Vec32{}
	}
	return Vec32{a[0] / l, a[1] / l, a[2] / l}
}

//NormalizeOr normalizes a or returns fallback when a has no direction
func NormalizeOr(a Vec32, fallback Vec32) Vec32 {
	if LengthSq(a) == 0 {
		return fallback
	}
	return Normalize(a)
}

//Produces a vector which is a projection of a onto arbitrary vector n
func Proj(a Vec32, n Vec32) Vec32 {
	nn := LengthSq(n)
	if nn == 0 {
		return Vec32{}
	}
	return Scale(n, Dot(a, n)/nn)
}

//Given a vector and some normal vector remove the component of a along n
func ProjPlane(a Vec32, n Vec32) Vec32 {
	return Sub(a, Proj(a, n))
}

//Tangential component of a relative to norm
func Tan(a Vec32, norm Vec32) Vec32 {
	return ProjPlane(a, norm)
}

//Rotate v by orientation q
func Rotate(q Quat, v Vec32) Vec32 {
	return q.Rotate(v)
}

func VecEquals(v Vec32, a Vec32) bool {
	return v[0] == a[0] && v[1] == a[1] && v[2] == a[2]
}

//ApproxEquals compares within Epsilon per component
func ApproxEquals(v Vec32, a Vec32) bool {
	for i := 0; i < 3; i++ {
		if math.Abs(float64(v[i]-a[i])) > Epsilon {
			return false
		}
	}
	return true
}

//IsFinite reports whether no component is NaN or Inf
func IsFinite(v Vec32) bool {
	for i := 0; i < 3; i++ {
		f := float64(v[i])
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

func String(a Vec32) string {
	return fmt.Sprintf("[ %f, %f, %f]", a[0], a[1], a[2])
}

//Other Math Helper Functions
func isEpsilon(a float32, b float32) bool {
	return math.Abs(float64(b-a)) <= 0.00000019
}
