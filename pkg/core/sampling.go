package core

import (
	"math"
	"math/rand"
)

// Seed is the process-wide seed mixed into every hash-derived sample stream.
// Set it once at startup, before any scattering calls, to vary stochastic
// estimates between runs; identical seeds reproduce identical estimates.
var Seed uint64

// Sampler provides random sampling for scattering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// mix64 is the splitmix64 finalizer, used to scramble hash state
func mix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// HashFloats mixes a seed and a sequence of float64 arguments into a single
// 64-bit hash. Identical inputs always produce identical hashes, which is
// what makes the stochastic estimators reproducible.
func HashFloats(seed uint64, vals ...float64) uint64 {
	h := mix64(seed)
	for _, v := range vals {
		h = mix64(h ^ math.Float64bits(v))
	}
	return h
}

// NewHashSampler creates an independent sample stream seeded from the
// process-wide Seed and the given call arguments. Each public scattering
// operation creates its own stream at entry and discards it on return, so
// concurrent calls never share generator state.
func NewHashSampler(vals ...float64) *RandomSampler {
	h := HashFloats(Seed, vals...)
	return NewRandomSampler(rand.New(rand.NewSource(int64(h))))
}

// SampleUniformDiskPolar maps a uniform 2D sample to the unit disk using
// polar coordinates
func SampleUniformDiskPolar(u Vec2) Vec2 {
	r := math.Sqrt(u.X)
	theta := 2 * math.Pi * u.Y
	return NewVec2(r*math.Cos(theta), r*math.Sin(theta))
}

// SampleUniformDiskConcentric maps a uniform 2D sample to the unit disk with
// the concentric mapping, which avoids rejection sampling and preserves
// stratification
func SampleUniformDiskConcentric(u Vec2) Vec2 {
	// Map sample to [-1,1]² and handle degeneracy at the origin
	uOffset := NewVec2(2*u.X-1, 2*u.Y-1)
	if uOffset.X == 0 && uOffset.Y == 0 {
		return Vec2{}
	}

	var theta, r float64
	if math.Abs(uOffset.X) > math.Abs(uOffset.Y) {
		r = uOffset.X
		theta = math.Pi / 4 * (uOffset.Y / uOffset.X)
	} else {
		r = uOffset.Y
		theta = math.Pi/2 - math.Pi/4*(uOffset.X/uOffset.Y)
	}
	return NewVec2(r*math.Cos(theta), r*math.Sin(theta))
}

// SampleCosineHemisphere generates a cosine-weighted direction in the
// upper hemisphere of the local shading frame (z up)
func SampleCosineHemisphere(u Vec2) Vec3 {
	d := SampleUniformDiskConcentric(u)
	z := math.Sqrt(math.Max(0, 1-d.X*d.X-d.Y*d.Y))
	return NewVec3(d.X, d.Y, z)
}

// CosineHemispherePDF returns the density of cosine-weighted hemisphere
// sampling for a direction with the given normal cosine
func CosineHemispherePDF(cosTheta float64) float64 {
	return cosTheta / math.Pi
}

// SampleUniformSphere generates a uniform random direction on the unit sphere
func SampleUniformSphere(u Vec2) Vec3 {
	z := 1 - 2*u.X // z ∈ [-1, 1]
	r := math.Sqrt(math.Max(0, 1-z*z))
	phi := 2 * math.Pi * u.Y
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// UniformSpherePDF returns the constant density of uniform sphere sampling
func UniformSpherePDF() float64 {
	return 1 / (4 * math.Pi)
}

// SampleExponential warps a uniform sample to an exponential distribution
// with rate a
func SampleExponential(u, a float64) float64 {
	return -math.Log(1-u) / a
}

// PowerHeuristic computes the power heuristic (beta = 2) weight for
// combining two sampling strategies with nf/ng samples at densities
// fPdf/gPdf
func PowerHeuristic(nf int, fPdf float64, ng int, gPdf float64) float64 {
	f := float64(nf) * fPdf
	g := float64(ng) * gPdf
	if f*f+g*g == 0 {
		return 0
	}
	return (f * f) / (f*f + g*g)
}
