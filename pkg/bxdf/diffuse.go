package bxdf

import (
	"math"

	"github.com/df07/go-bsdf/pkg/core"
)

// Diffuse is an ideal Lambertian reflector with spectral reflectance R
type Diffuse struct {
	R core.Spectrum
}

// NewDiffuse creates a new Lambertian reflector
func NewDiffuse(r core.Spectrum) *Diffuse {
	return &Diffuse{R: r}
}

// F implements the BxDF interface: the constant R/π over the reflection
// hemisphere
func (d *Diffuse) F(wo, wi core.Vec3, mode TransportMode) core.Spectrum {
	if !core.SameHemisphere(wo, wi) {
		return core.Spectrum{}
	}
	return d.R.Scale(1 / math.Pi)
}

// Sample draws a cosine-weighted direction in wo's hemisphere
func (d *Diffuse) Sample(wo core.Vec3, uc float64, u core.Vec2, mode TransportMode, sampleFlags ReflTransFlags) (Sample, bool) {
	if !sampleFlags.HasReflection() {
		return Sample{}, false
	}
	wi := core.SampleCosineHemisphere(u)
	if wo.Z < 0 {
		wi.Z = -wi.Z
	}
	if wi.Z == 0 {
		return Sample{}, false
	}
	pdf := core.CosineHemispherePDF(core.AbsCosTheta(wi))
	return NewSample(d.R.Scale(1/math.Pi), wi, pdf, FlagDiffuseReflection), true
}

// PDF implements the BxDF interface
func (d *Diffuse) PDF(wo, wi core.Vec3, mode TransportMode, sampleFlags ReflTransFlags) float64 {
	if !sampleFlags.HasReflection() || !core.SameHemisphere(wo, wi) {
		return 0
	}
	return core.CosineHemispherePDF(core.AbsCosTheta(wi))
}

// Flags implements the BxDF interface
func (d *Diffuse) Flags() Flags {
	if d.R.IsZero() {
		return FlagUnset
	}
	return FlagDiffuseReflection
}

// Regularize implements the BxDF interface; a diffuse lobe is already as
// wide as it gets
func (d *Diffuse) Regularize() {}

// DiffuseTransmission scatters Lambertian lobes to both sides of the
// surface, with reflectance R and transmittance T
type DiffuseTransmission struct {
	R, T core.Spectrum
}

// NewDiffuseTransmission creates a two-sided Lambertian scatterer
func NewDiffuseTransmission(r, t core.Spectrum) *DiffuseTransmission {
	return &DiffuseTransmission{R: r, T: t}
}

// F implements the BxDF interface
func (d *DiffuseTransmission) F(wo, wi core.Vec3, mode TransportMode) core.Spectrum {
	if core.SameHemisphere(wo, wi) {
		return d.R.Scale(1 / math.Pi)
	}
	return d.T.Scale(1 / math.Pi)
}

// Sample chooses between the reflection and transmission lobes in
// proportion to their maximum components, then samples the chosen
// hemisphere cosine-weighted
func (d *DiffuseTransmission) Sample(wo core.Vec3, uc float64, u core.Vec2, mode TransportMode, sampleFlags ReflTransFlags) (Sample, bool) {
	pr, pt := d.R.MaxComponent(), d.T.MaxComponent()
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
		wi := core.SampleCosineHemisphere(u)
		if wo.Z < 0 {
			wi.Z = -wi.Z
		}
		if wi.Z == 0 {
			return Sample{}, false
		}
		pdf := core.CosineHemispherePDF(core.AbsCosTheta(wi)) * pr / (pr + pt)
		return NewSample(d.F(wo, wi, mode), wi, pdf, FlagDiffuseReflection), true
	}

	wi := core.SampleCosineHemisphere(u)
	if wo.Z > 0 {
		wi.Z = -wi.Z
	}
	if wi.Z == 0 {
		return Sample{}, false
	}
	pdf := core.CosineHemispherePDF(core.AbsCosTheta(wi)) * pt / (pr + pt)
	return NewSample(d.F(wo, wi, mode), wi, pdf, FlagDiffuseTransmission), true
}

// PDF implements the BxDF interface
func (d *DiffuseTransmission) PDF(wo, wi core.Vec3, mode TransportMode, sampleFlags ReflTransFlags) float64 {
	pr, pt := d.R.MaxComponent(), d.T.MaxComponent()
	if !sampleFlags.HasReflection() {
		pr = 0
	}
	if !sampleFlags.HasTransmission() {
		pt = 0
	}
	if pr == 0 && pt == 0 {
		return 0
	}

	if core.SameHemisphere(wo, wi) {
		return pr / (pr + pt) * core.CosineHemispherePDF(core.AbsCosTheta(wi))
	}
	return pt / (pr + pt) * core.CosineHemispherePDF(core.AbsCosTheta(wi))
}

// Flags implements the BxDF interface
func (d *DiffuseTransmission) Flags() Flags {
	flags := FlagUnset
	if !d.R.IsZero() {
		flags |= FlagDiffuseReflection
	}
	if !d.T.IsZero() {
		flags |= FlagDiffuseTransmission
	}
	return flags
}

// Regularize implements the BxDF interface
func (d *DiffuseTransmission) Regularize() {}
