package bxdf

import (
	"math"

	"github.com/df07/go-bsdf/pkg/core"
)

// Dielectric is a smooth or rough interface between two dielectric media,
// such as glass or a clear coating. eta is the refraction index of the far
// side relative to the near side; an effectively smooth distribution
// produces perfect specular reflection and refraction.
type Dielectric struct {
	eta     float64
	distrib TrowbridgeReitz
}

// NewDielectric creates a dielectric interface with the given relative
// refraction index and microfacet distribution
func NewDielectric(eta float64, distrib TrowbridgeReitz) *Dielectric {
	return &Dielectric{eta: eta, distrib: distrib}
}

// NewSmoothDielectric creates a perfectly specular dielectric interface
func NewSmoothDielectric(eta float64) *Dielectric {
	return &Dielectric{eta: eta, distrib: NewTrowbridgeReitz(0, 0)}
}

// F implements the BxDF interface. Smooth interfaces are pure delta
// distributions and evaluate to zero.
func (d *Dielectric) F(wo, wi core.Vec3, mode TransportMode) core.Spectrum {
	if d.eta == 1 || d.distrib.EffectivelySmooth() {
		return core.Spectrum{}
	}

	cosThetaO, cosThetaI := core.CosTheta(wo), core.CosTheta(wi)
	reflect := cosThetaI*cosThetaO > 0
	etap := 1.0
	if !reflect {
		if cosThetaO > 0 {
			etap = d.eta
		} else {
			etap = 1 / d.eta
		}
	}

	// Generalized half vector for reflection or refraction
	wm := wi.Multiply(etap).Add(wo)
	if cosThetaI == 0 || cosThetaO == 0 || wm.LengthSquared() == 0 {
		return core.Spectrum{}
	}
	wm = core.FaceForward(wm.Normalize(), core.NewVec3(0, 0, 1))

	// Discard backfacing microfacets
	if wm.Dot(wi)*cosThetaI < 0 || wm.Dot(wo)*cosThetaO < 0 {
		return core.Spectrum{}
	}

	fr := core.FrDielectric(wo.Dot(wm), d.eta)
	if reflect {
		return core.NewSpectrum(d.distrib.D(wm) * d.distrib.G(wo, wi) * fr /
			math.Abs(4 * cosThetaI * cosThetaO))
	}

	denom := core.Sqr(wi.Dot(wm)+wo.Dot(wm)/etap) * cosThetaI * cosThetaO
	ft := d.distrib.D(wm) * (1 - fr) * d.distrib.G(wo, wi) *
		math.Abs(wi.Dot(wm)*wo.Dot(wm)/denom)
	// Account for non-symmetry with transmission to different medium
	if mode == Radiance {
		ft /= core.Sqr(etap)
	}
	return core.NewSpectrum(ft)
}

// Sample draws either a Fresnel-weighted reflection or refraction. Smooth
// interfaces return delta samples; rough interfaces sample the visible
// normal distribution first.
func (d *Dielectric) Sample(wo core.Vec3, uc float64, u core.Vec2, mode TransportMode, sampleFlags ReflTransFlags) (Sample, bool) {
	if d.eta == 1 || d.distrib.EffectivelySmooth() {
		// Sample perfect specular reflection or transmission
		r := core.FrDielectric(core.CosTheta(wo), d.eta)
		t := 1 - r
		pr, pt := r, t
		if !sampleFlags.HasReflection() {
			pr = 0
		}
		if !sampleFlags.HasTransmission() {
			pt = 0
		}
		if pr == 0 && pt == 0 {
			return Sample{}, false
		}

		if uc < pr/(pr+pt) {
			wi := core.NewVec3(-wo.X, -wo.Y, wo.Z)
			fr := core.NewSpectrum(r / core.AbsCosTheta(wi))
			return NewSample(fr, wi, pr/(pr+pt), FlagSpecularReflection), true
		}

		wi, etap, ok := core.Refract(wo, core.NewVec3(0, 0, 1), d.eta)
		if !ok || wi.Z == 0 {
			return Sample{}, false
		}
		ft := t / core.AbsCosTheta(wi)
		if mode == Radiance {
			ft /= core.Sqr(etap)
		}
		s := NewSample(core.NewSpectrum(ft), wi, pt/(pr+pt), FlagSpecularTransmission)
		s.Eta = etap
		return s, true
	}

	// Sample rough dielectric BSDF
	if wo.Z == 0 {
		return Sample{}, false
	}
	wm := d.distrib.SampleWm(wo, u)
	r := core.FrDielectric(wo.Dot(wm), d.eta)
	t := 1 - r
	pr, pt := r, t
	if !sampleFlags.HasReflection() {
		pr = 0
	}
	if !sampleFlags.HasTransmission() {
		pt = 0
	}
	if pr == 0 && pt == 0 {
		return Sample{}, false
	}

	if uc < pr/(pr+pt) {
		wi := core.Reflect(wo, wm)
		if !core.SameHemisphere(wo, wi) || wi.Z == 0 {
			return Sample{}, false
		}
		pdf := d.distrib.PDF(wo, wm) / (4 * wo.AbsDot(wm)) * pr / (pr + pt)
		f := core.NewSpectrum(d.distrib.D(wm) * d.distrib.G(wo, wi) * r /
			(4 * core.AbsCosTheta(wi) * core.AbsCosTheta(wo)))
		return NewSample(f, wi, pdf, FlagGlossyReflection), true
	}

	wi, etap, ok := core.Refract(wo, wm, d.eta)
	if !ok || core.SameHemisphere(wo, wi) || wi.Z == 0 {
		return Sample{}, false
	}

	// Jacobian of the half-vector mapping for refraction
	denom := core.Sqr(wi.Dot(wm) + wo.Dot(wm)/etap)
	dwmDwi := wi.AbsDot(wm) / denom
	pdf := d.distrib.PDF(wo, wm) * dwmDwi * pt / (pr + pt)

	ft := t * d.distrib.D(wm) * d.distrib.G(wo, wi) *
		math.Abs(wi.Dot(wm)*wo.Dot(wm)/(core.CosTheta(wi)*core.CosTheta(wo)*denom))
	if mode == Radiance {
		ft /= core.Sqr(etap)
	}
	s := NewSample(core.NewSpectrum(ft), wi, pdf, FlagGlossyTransmission)
	s.Eta = etap
	return s, true
}

// PDF implements the BxDF interface
func (d *Dielectric) PDF(wo, wi core.Vec3, mode TransportMode, sampleFlags ReflTransFlags) float64 {
	if d.eta == 1 || d.distrib.EffectivelySmooth() {
		return 0
	}

	cosThetaO, cosThetaI := core.CosTheta(wo), core.CosTheta(wi)
	reflect := cosThetaI*cosThetaO > 0
	etap := 1.0
	if !reflect {
		if cosThetaO > 0 {
			etap = d.eta
		} else {
			etap = 1 / d.eta
		}
	}

	wm := wi.Multiply(etap).Add(wo)
	if cosThetaI == 0 || cosThetaO == 0 || wm.LengthSquared() == 0 {
		return 0
	}
	wm = core.FaceForward(wm.Normalize(), core.NewVec3(0, 0, 1))
	if wm.Dot(wi)*cosThetaI < 0 || wm.Dot(wo)*cosThetaO < 0 {
		return 0
	}

	r := core.FrDielectric(wo.Dot(wm), d.eta)
	t := 1 - r
	pr, pt := r, t
	if !sampleFlags.HasReflection() {
		pr = 0
	}
	if !sampleFlags.HasTransmission() {
		pt = 0
	}
	if pr == 0 && pt == 0 {
		return 0
	}

	if reflect {
		return d.distrib.PDF(wo, wm) / (4 * wo.AbsDot(wm)) * pr / (pr + pt)
	}
	denom := core.Sqr(wi.Dot(wm) + wo.Dot(wm)/etap)
	dwmDwi := wi.AbsDot(wm) / denom
	return d.distrib.PDF(wo, wm) * dwmDwi * pt / (pr + pt)
}

// Flags implements the BxDF interface
func (d *Dielectric) Flags() Flags {
	flags := FlagReflection | FlagTransmission
	if d.eta == 1 {
		flags = FlagTransmission
	}
	if d.distrib.EffectivelySmooth() {
		return flags | FlagSpecular
	}
	return flags | FlagGlossy
}

// Regularize implements the BxDF interface
func (d *Dielectric) Regularize() {
	d.distrib.Regularize()
}

// ThinDielectric models a dielectric slab thin enough that internal
// reflections are summed analytically rather than traced, e.g. a soap
// bubble or window pane. It is a pure delta distribution.
type ThinDielectric struct {
	eta float64
}

// NewThinDielectric creates a thin dielectric slab
func NewThinDielectric(eta float64) *ThinDielectric {
	return &ThinDielectric{eta: eta}
}

// F implements the BxDF interface; the slab has no non-specular
// contribution
func (t *ThinDielectric) F(wo, wi core.Vec3, mode TransportMode) core.Spectrum {
	return core.Spectrum{}
}

// Sample draws either the specular reflection with the slab's multi-bounce
// reflectance or the straight-through transmission
func (t *ThinDielectric) Sample(wo core.Vec3, uc float64, u core.Vec2, mode TransportMode, sampleFlags ReflTransFlags) (Sample, bool) {
	r := core.FrDielectric(core.AbsCosTheta(wo), t.eta)
	tr := 1 - r
	// Account for scattering between the slab interfaces
	if r < 1 {
		r += core.Sqr(tr) * r / (1 - core.Sqr(r))
		tr = 1 - r
	}

	pr, pt := r, tr
	if !sampleFlags.HasReflection() {
		pr = 0
	}
	if !sampleFlags.HasTransmission() {
		pt = 0
	}
	if pr == 0 && pt == 0 {
		return Sample{}, false
	}

	if uc < pr/(pr+pt) {
		wi := core.NewVec3(-wo.X, -wo.Y, wo.Z)
		fr := core.NewSpectrum(r / core.AbsCosTheta(wi))
		return NewSample(fr, wi, pr/(pr+pt), FlagSpecularReflection), true
	}

	wi := wo.Negate()
	if wi.Z == 0 {
		return Sample{}, false
	}
	ft := core.NewSpectrum(tr / core.AbsCosTheta(wi))
	return NewSample(ft, wi, pt/(pr+pt), FlagSpecularTransmission), true
}

// PDF implements the BxDF interface; delta distributions have no finite
// density
func (t *ThinDielectric) PDF(wo, wi core.Vec3, mode TransportMode, sampleFlags ReflTransFlags) float64 {
	return 0
}

// Flags implements the BxDF interface
func (t *ThinDielectric) Flags() Flags {
	return FlagReflection | FlagTransmission | FlagSpecular
}

// Regularize implements the BxDF interface
func (t *ThinDielectric) Regularize() {}
