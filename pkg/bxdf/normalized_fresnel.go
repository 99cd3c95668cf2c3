package bxdf

import (
	"math"

	"github.com/df07/go-bsdf/pkg/core"
)

// NormalizedFresnel is the normalized diffuse transmission term used at the
// boundary of subsurface scattering: a cosine-weighted lobe scaled by one
// minus the Fresnel reflectance, normalized so it integrates to one over
// the hemisphere.
type NormalizedFresnel struct {
	eta float64
}

// NewNormalizedFresnel creates the model for a relative index of refraction
func NewNormalizedFresnel(eta float64) *NormalizedFresnel {
	return &NormalizedFresnel{eta: eta}
}

// F implements the BxDF interface
func (n *NormalizedFresnel) F(wo, wi core.Vec3, mode TransportMode) core.Spectrum {
	if !core.SameHemisphere(wo, wi) {
		return core.Spectrum{}
	}
	c := 1 - 2*core.FresnelMoment1(1/n.eta)
	f := (1 - core.FrDielectric(core.CosTheta(wi), n.eta)) / (c * math.Pi)

	// Account for adjoint light transport through the boundary
	if mode == Radiance {
		f *= core.Sqr(n.eta)
	}
	return core.NewSpectrum(f)
}

// Sample implements the BxDF interface
func (n *NormalizedFresnel) Sample(wo core.Vec3, uc float64, u core.Vec2, mode TransportMode, sampleFlags ReflTransFlags) (Sample, bool) {
	if !sampleFlags.HasReflection() {
		return Sample{}, false
	}
	wi := core.SampleCosineHemisphere(u)
	if wo.Z < 0 {
		wi.Z *= -1
	}
	if wi.Z == 0 {
		return Sample{}, false
	}
	pdf := n.PDF(wo, wi, mode, sampleFlags)
	return Sample{F: n.F(wo, wi, mode), Wi: wi, PDF: pdf, Flags: FlagDiffuseReflection, Eta: 1}, true
}

// PDF implements the BxDF interface
func (n *NormalizedFresnel) PDF(wo, wi core.Vec3, mode TransportMode, sampleFlags ReflTransFlags) float64 {
	if !sampleFlags.HasReflection() || !core.SameHemisphere(wo, wi) {
		return 0
	}
	return core.CosineHemispherePDF(core.AbsCosTheta(wi))
}

// Flags implements the BxDF interface
func (n *NormalizedFresnel) Flags() Flags { return FlagReflection | FlagDiffuse }

// Regularize implements the BxDF interface
func (n *NormalizedFresnel) Regularize() {}
