package bxdf

import (
	"github.com/df07/go-bsdf/pkg/core"
)

// TransportMode distinguishes paths traced from the observer (Radiance)
// from paths traced from a light source (Importance). It flips the adjoint
// scaling of non-reciprocal terms such as refraction.
type TransportMode int

const (
	Radiance TransportMode = iota
	Importance
)

// Reversed returns the opposite transport mode, used when a sub-call
// evaluates the reverse direction of a bidirectional technique
func (m TransportMode) Reversed() TransportMode {
	if m == Radiance {
		return Importance
	}
	return Radiance
}

// Sample is the result of importance-sampling a BxDF: the spectral weight,
// the drawn direction, its density and classification, and the relative
// refraction ratio when the sample crossed a refracting interface.
type Sample struct {
	F     core.Spectrum
	Wi    core.Vec3
	PDF   float64
	Flags Flags
	// Eta is the relative refraction ratio applied by the sampled event (1
	// when no refraction occurred)
	Eta float64
	// PDFIsProportional marks a density that is only proportional to the
	// true sampling density. Such a value is usable solely inside a
	// self-normalizing ratio estimator and must never be combined with an
	// exact density from another strategy.
	PDFIsProportional bool
}

// NewSample builds a sample with the default refraction ratio of 1
func NewSample(f core.Spectrum, wi core.Vec3, pdf float64, flags Flags) Sample {
	return Sample{F: f, Wi: wi, PDF: pdf, Flags: flags, Eta: 1}
}

// IsReflection reports whether the sample is a reflection event
func (s Sample) IsReflection() bool { return s.Flags.IsReflective() }

// IsTransmission reports whether the sample is a transmission event
func (s Sample) IsTransmission() bool { return s.Flags.IsTransmissive() }

// IsSpecular reports whether the sample came from a specular lobe
func (s Sample) IsSpecular() bool { return s.Flags.IsSpecular() }

// IsDiffuse reports whether the sample came from a diffuse lobe
func (s Sample) IsDiffuse() bool { return s.Flags.IsDiffuse() }

// IsGlossy reports whether the sample came from a glossy lobe
func (s Sample) IsGlossy() bool { return s.Flags.IsGlossy() }

// ExactPDF returns the sample's density when it is an exact, normalized
// density safe to combine with other strategies' densities in a multiple
// importance sampling weight. It reports false for proportional densities.
func (s Sample) ExactPDF() (float64, bool) {
	if s.PDFIsProportional {
		return 0, false
	}
	return s.PDF, true
}
