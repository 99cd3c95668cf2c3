package bxdf

// Flags classifies the scattering behavior of a BxDF or of a single drawn
// sample. A sample always carries exactly one roughness class
// (Diffuse/Glossy/Specular) and at least one transport class
// (Reflection/Transmission); a BxDF's Flags() is the union over every
// sample it can produce.
type Flags int

const (
	FlagUnset        Flags = 0
	FlagReflection   Flags = 1 << 0
	FlagTransmission Flags = 1 << 1
	FlagDiffuse      Flags = 1 << 2
	FlagGlossy       Flags = 1 << 3
	FlagSpecular     Flags = 1 << 4

	FlagDiffuseReflection    = FlagDiffuse | FlagReflection
	FlagDiffuseTransmission  = FlagDiffuse | FlagTransmission
	FlagGlossyReflection     = FlagGlossy | FlagReflection
	FlagGlossyTransmission   = FlagGlossy | FlagTransmission
	FlagSpecularReflection   = FlagSpecular | FlagReflection
	FlagSpecularTransmission = FlagSpecular | FlagTransmission

	FlagAll = FlagReflection | FlagTransmission | FlagDiffuse | FlagGlossy | FlagSpecular
)

// IsReflective reports whether the flags include reflection
func (f Flags) IsReflective() bool { return f&FlagReflection != 0 }

// IsTransmissive reports whether the flags include transmission
func (f Flags) IsTransmissive() bool { return f&FlagTransmission != 0 }

// IsDiffuse reports whether the flags include diffuse scattering
func (f Flags) IsDiffuse() bool { return f&FlagDiffuse != 0 }

// IsGlossy reports whether the flags include glossy scattering
func (f Flags) IsGlossy() bool { return f&FlagGlossy != 0 }

// IsSpecular reports whether the flags include specular scattering
func (f Flags) IsSpecular() bool { return f&FlagSpecular != 0 }

// IsNonSpecular reports whether the flags include any finite-density lobe
func (f Flags) IsNonSpecular() bool { return f&(FlagDiffuse|FlagGlossy) != 0 }

// ReflTransFlags restricts Sample and PDF to a subset of a BxDF's
// reflection and transmission strategies
type ReflTransFlags int

const (
	SampleNone         ReflTransFlags = 0
	SampleReflection   ReflTransFlags = 1 << 0
	SampleTransmission ReflTransFlags = 1 << 1
	SampleAll                         = SampleReflection | SampleTransmission
)

// HasReflection reports whether reflection strategies are enabled
func (f ReflTransFlags) HasReflection() bool { return f&SampleReflection != 0 }

// HasTransmission reports whether transmission strategies are enabled
func (f ReflTransFlags) HasTransmission() bool { return f&SampleTransmission != 0 }
