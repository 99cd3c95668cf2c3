// Package bxdf implements bidirectional scattering distribution functions
// for a single shading point: evaluation of the scattering density for a
// direction pair, importance sampling of scattered directions, and the
// densities those samples are drawn from. All directions are unit vectors
// in the local shading frame (z-axis along the shading normal).
//
// Every operation is a pure function of its inputs plus a walk-local sample
// stream derived from hashing the call's arguments, so all calls are safe
// to issue concurrently without synchronization. The one exception is
// Regularize, which must run at most once, before any concurrent use.
package bxdf

import (
	"github.com/df07/go-bsdf/pkg/core"
)

// BxDF is the contract shared by every scattering model. The set of
// implementations is closed: Diffuse, DiffuseTransmission, Conductor,
// Dielectric, ThinDielectric, Principled, Hair, Measured,
// NormalizedFresnel and Layered.
type BxDF interface {
	// F evaluates the scattering distribution for an outgoing/incoming
	// direction pair. It returns exact zero outside the model's support
	// (wrong hemisphere, degenerate geometry, delta-only models).
	F(wo, wi core.Vec3, mode TransportMode) core.Spectrum

	// Sample draws a scattered direction for wo. uc selects among the
	// model's internal strategies (e.g. reflection vs transmission), u
	// drives direction sampling, and sampleFlags restricts which
	// strategies may be chosen. The second return value is false for
	// zero-probability or degenerate events; a returned sample never has
	// a direction with zero surface-normal component.
	Sample(wo core.Vec3, uc float64, u core.Vec2, mode TransportMode, sampleFlags ReflTransFlags) (Sample, bool)

	// PDF returns the density with which Sample would draw wi from wo
	// under the given strategy restriction; zero when incompatible.
	PDF(wo, wi core.Vec3, mode TransportMode, sampleFlags ReflTransFlags) float64

	// Flags returns the union of the flags of every sample the model can
	// produce.
	Flags() Flags

	// Regularize widens near-specular roughness to tame fireflies. It is
	// idempotent and must be called before any concurrent use.
	Regularize()
}
