package bxdf

import (
	"math"

	"github.com/df07/go-bsdf/pkg/core"
)

// PhaseSample is the result of importance-sampling a phase function. For a
// normalized lobe the sampled density equals the phase value.
type PhaseSample struct {
	P   float64
	Wi  core.Vec3
	PDF float64
}

// HGPhase is the single-lobe Henyey-Greenstein phase function with
// asymmetry parameter g in (-1, 1); positive g scatters forward. It models
// the medium inside a layered material's slab.
type HGPhase struct {
	g float64
}

// NewHGPhase creates a Henyey-Greenstein phase function
func NewHGPhase(g float64) HGPhase {
	return HGPhase{g: g}
}

// P evaluates the phase function for a direction pair
func (p HGPhase) P(wo, wi core.Vec3) float64 {
	return core.HenyeyGreenstein(wo.Dot(wi), p.g)
}

// PDF returns the density with which Sample draws wi; equal to P for a
// normalized lobe
func (p HGPhase) PDF(wo, wi core.Vec3) float64 {
	return p.P(wo, wi)
}

// Sample draws a direction from the phase function's distribution about wo
func (p HGPhase) Sample(wo core.Vec3, u core.Vec2) (PhaseSample, bool) {
	g := p.g
	var cosTheta float64
	if math.Abs(g) < 1e-3 {
		cosTheta = 1 - 2*u.X
	} else {
		cosTheta = -1 / (2 * g) *
			(1 + g*g - core.Sqr((1-g*g)/(1+g-2*g*u.X)))
	}

	sinTheta := core.SafeSqrt(1 - cosTheta*cosTheta)
	phi := 2 * math.Pi * u.Y
	frame := core.NewFrameFromZ(wo)
	wi := frame.FromLocal(core.NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta))

	phase := core.HenyeyGreenstein(cosTheta, g)
	return PhaseSample{P: phase, Wi: wi, PDF: phase}, true
}
