package bxdf

import (
	"github.com/df07/go-bsdf/pkg/core"
)

// Conductor is a metallic reflector with a per-wavelength complex index of
// refraction (eta + i·k). A smooth distribution degenerates to a perfect
// mirror weighted by the conductor Fresnel term.
type Conductor struct {
	distrib TrowbridgeReitz
	eta, k  core.Spectrum
}

// NewConductor creates a conductor with the given microfacet distribution,
// refraction index spectrum and absorption spectrum
func NewConductor(distrib TrowbridgeReitz, eta, k core.Spectrum) *Conductor {
	return &Conductor{distrib: distrib, eta: eta, k: k}
}

// F implements the BxDF interface
func (c *Conductor) F(wo, wi core.Vec3, mode TransportMode) core.Spectrum {
	if !core.SameHemisphere(wo, wi) {
		return core.Spectrum{}
	}
	if c.distrib.EffectivelySmooth() {
		return core.Spectrum{}
	}

	cosThetaO, cosThetaI := core.AbsCosTheta(wo), core.AbsCosTheta(wi)
	if cosThetaI == 0 || cosThetaO == 0 {
		return core.Spectrum{}
	}
	wm := wi.Add(wo)
	if wm.LengthSquared() == 0 {
		return core.Spectrum{}
	}
	wm = wm.Normalize()

	fr := core.FrComplex(wo.AbsDot(wm), c.eta, c.k)
	return fr.Scale(c.distrib.D(wm) * c.distrib.G(wo, wi) / (4 * cosThetaI * cosThetaO))
}

// Sample draws a reflection off a sampled visible microfacet normal, or
// the delta mirror direction when effectively smooth
func (c *Conductor) Sample(wo core.Vec3, uc float64, u core.Vec2, mode TransportMode, sampleFlags ReflTransFlags) (Sample, bool) {
	if !sampleFlags.HasReflection() {
		return Sample{}, false
	}
	if c.distrib.EffectivelySmooth() {
		wi := core.NewVec3(-wo.X, -wo.Y, wo.Z)
		if wi.Z == 0 {
			return Sample{}, false
		}
		f := core.FrComplex(core.AbsCosTheta(wi), c.eta, c.k).Scale(1 / core.AbsCosTheta(wi))
		return NewSample(f, wi, 1, FlagSpecularReflection), true
	}

	if wo.Z == 0 {
		return Sample{}, false
	}
	wm := c.distrib.SampleWm(wo, u)
	wi := core.Reflect(wo, wm)
	if !core.SameHemisphere(wo, wi) || wi.Z == 0 {
		return Sample{}, false
	}

	pdf := c.distrib.PDF(wo, wm) / (4 * wo.AbsDot(wm))

	cosThetaO, cosThetaI := core.AbsCosTheta(wo), core.AbsCosTheta(wi)
	if cosThetaI == 0 || cosThetaO == 0 {
		return Sample{}, false
	}
	fr := core.FrComplex(wo.AbsDot(wm), c.eta, c.k)
	f := fr.Scale(c.distrib.D(wm) * c.distrib.G(wo, wi) / (4 * cosThetaI * cosThetaO))
	return NewSample(f, wi, pdf, FlagGlossyReflection), true
}

// PDF implements the BxDF interface
func (c *Conductor) PDF(wo, wi core.Vec3, mode TransportMode, sampleFlags ReflTransFlags) float64 {
	if !sampleFlags.HasReflection() || !core.SameHemisphere(wo, wi) {
		return 0
	}
	if c.distrib.EffectivelySmooth() {
		return 0
	}
	wm := wo.Add(wi)
	if wm.LengthSquared() == 0 {
		return 0
	}
	wm = core.FaceForward(wm.Normalize(), core.NewVec3(0, 0, 1))
	return c.distrib.PDF(wo, wm) / (4 * wo.AbsDot(wm))
}

// Flags implements the BxDF interface
func (c *Conductor) Flags() Flags {
	if c.distrib.EffectivelySmooth() {
		return FlagSpecularReflection
	}
	return FlagGlossyReflection
}

// Regularize implements the BxDF interface
func (c *Conductor) Regularize() {
	c.distrib.Regularize()
}
