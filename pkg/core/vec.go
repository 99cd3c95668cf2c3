package core

import (
	"math"
)

// Vec2 represents a 2D point, typically a pair of uniform samples in [0,1)
type Vec2 struct {
	X, Y float64
}

// NewVec2 creates a new Vec2
func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Vec3 represents a 3D vector. Directions passed to scattering code live in
// the local shading frame, where the z-axis is the surface normal.
type Vec3 struct {
	X, Y, Z float64
}

// NewVec3 creates a new Vec3
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns the sum of two vectors
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Subtract returns the difference of two vectors
func (v Vec3) Subtract(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Multiply returns the vector scaled by a scalar
func (v Vec3) Multiply(scalar float64) Vec3 {
	return Vec3{v.X * scalar, v.Y * scalar, v.Z * scalar}
}

// Negate returns the negative of the vector
func (v Vec3) Negate() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Length returns the magnitude of the vector
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// LengthSquared returns the squared magnitude of the vector
func (v Vec3) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Dot returns the dot product of two vectors
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// AbsDot returns the absolute value of the dot product
func (v Vec3) AbsDot(other Vec3) float64 {
	return math.Abs(v.Dot(other))
}

// Cross returns the cross product of two vectors
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Normalize returns a unit vector in the same direction
func (v Vec3) Normalize() Vec3 {
	length := v.Length()
	if length == 0 {
		return Vec3{0, 0, 0}
	}
	return Vec3{v.X / length, v.Y / length, v.Z / length}
}

// Shading-frame trigonometry. These read angles directly off a unit vector
// expressed in the local frame, so no inverse trig is needed.

// CosTheta returns the cosine of the angle between w and the shading normal
func CosTheta(w Vec3) float64 {
	return w.Z
}

// Cos2Theta returns the squared cosine of the normal angle
func Cos2Theta(w Vec3) float64 {
	return w.Z * w.Z
}

// AbsCosTheta returns the absolute cosine of the normal angle
func AbsCosTheta(w Vec3) float64 {
	return math.Abs(w.Z)
}

// Sin2Theta returns the squared sine of the normal angle
func Sin2Theta(w Vec3) float64 {
	return math.Max(0, 1-Cos2Theta(w))
}

// SinTheta returns the sine of the normal angle
func SinTheta(w Vec3) float64 {
	return math.Sqrt(Sin2Theta(w))
}

// TanTheta returns the tangent of the normal angle
func TanTheta(w Vec3) float64 {
	return SinTheta(w) / CosTheta(w)
}

// Tan2Theta returns the squared tangent of the normal angle
func Tan2Theta(w Vec3) float64 {
	return Sin2Theta(w) / Cos2Theta(w)
}

// CosPhi returns the cosine of the azimuthal angle of w
func CosPhi(w Vec3) float64 {
	sinTheta := SinTheta(w)
	if sinTheta == 0 {
		return 1
	}
	return Clamp(w.X/sinTheta, -1, 1)
}

// SinPhi returns the sine of the azimuthal angle of w
func SinPhi(w Vec3) float64 {
	sinTheta := SinTheta(w)
	if sinTheta == 0 {
		return 0
	}
	return Clamp(w.Y/sinTheta, -1, 1)
}

// SameHemisphere reports whether two directions lie on the same side of the surface
func SameHemisphere(a, b Vec3) bool {
	return a.Z*b.Z > 0
}

// FaceForward flips v so it lies in the hemisphere around n
func FaceForward(v, n Vec3) Vec3 {
	if v.Dot(n) < 0 {
		return v.Negate()
	}
	return v
}

// Reflect mirrors wo about the normal n. wo points away from the surface.
func Reflect(wo, n Vec3) Vec3 {
	return wo.Negate().Add(n.Multiply(2 * wo.Dot(n)))
}

// Refract computes the transmitted direction for wi arriving at a surface
// with normal n and relative refraction ratio eta (transmitted over incident
// side). It returns the transmitted direction, the ratio actually applied
// after orienting to wi's side, and false on total internal reflection.
func Refract(wi, n Vec3, eta float64) (Vec3, float64, bool) {
	cosThetaI := n.Dot(wi)
	// Flip the interface orientation when wi is on the far side of n
	if cosThetaI < 0 {
		eta = 1 / eta
		cosThetaI = -cosThetaI
		n = n.Negate()
	}

	sin2ThetaI := math.Max(0, 1-cosThetaI*cosThetaI)
	sin2ThetaT := sin2ThetaI / (eta * eta)
	if sin2ThetaT >= 1 {
		return Vec3{}, 0, false // total internal reflection
	}
	cosThetaT := math.Sqrt(1 - sin2ThetaT)

	wt := wi.Negate().Multiply(1 / eta).Add(n.Multiply(cosThetaI/eta - cosThetaT))
	return wt, eta, true
}

// Frame is an orthonormal basis used to move directions between a local
// coordinate system and the frame its axes are expressed in.
type Frame struct {
	X, Y, Z Vec3
}

// NewFrameFromZ builds a frame whose z-axis is the given unit vector
func NewFrameFromZ(z Vec3) Frame {
	// Duff et al. branchless basis construction
	sign := math.Copysign(1, z.Z)
	a := -1 / (sign + z.Z)
	b := z.X * z.Y * a
	return Frame{
		X: NewVec3(1+sign*z.X*z.X*a, sign*b, -sign*z.X),
		Y: NewVec3(b, sign+z.Y*z.Y*a, -z.Y),
		Z: z,
	}
}

// FromLocal transforms a vector expressed in the frame into the parent space
func (f Frame) FromLocal(v Vec3) Vec3 {
	return f.X.Multiply(v.X).Add(f.Y.Multiply(v.Y)).Add(f.Z.Multiply(v.Z))
}

// ToLocal transforms a parent-space vector into the frame's coordinates
func (f Frame) ToLocal(v Vec3) Vec3 {
	return NewVec3(v.Dot(f.X), v.Dot(f.Y), v.Dot(f.Z))
}
