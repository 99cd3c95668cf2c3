package core

import (
	"math"
	"math/cmplx"
)

// FrDielectric computes the unpolarized Fresnel reflectance at a dielectric
// interface with relative refraction ratio eta. cosThetaI is measured against
// the interface normal; a negative value means the ray arrives from the far
// side and the ratio is inverted. Returns 1 under total internal reflection.
func FrDielectric(cosThetaI, eta float64) float64 {
	cosThetaI = Clamp(cosThetaI, -1, 1)
	if cosThetaI < 0 {
		eta = 1 / eta
		cosThetaI = -cosThetaI
	}

	sin2ThetaI := 1 - Sqr(cosThetaI)
	sin2ThetaT := sin2ThetaI / Sqr(eta)
	if sin2ThetaT >= 1 {
		return 1
	}
	cosThetaT := SafeSqrt(1 - sin2ThetaT)

	rParl := (eta*cosThetaI - cosThetaT) / (eta*cosThetaI + cosThetaT)
	rPerp := (cosThetaI - eta*cosThetaT) / (cosThetaI + eta*cosThetaT)
	return (Sqr(rParl) + Sqr(rPerp)) / 2
}

// frComplex computes the Fresnel reflectance for a single wavelength against
// a conductor with complex index of refraction eta
func frComplex(cosThetaI float64, eta complex128) float64 {
	cosThetaI = Clamp(cosThetaI, 0, 1)
	sin2ThetaI := complex(1-Sqr(cosThetaI), 0)
	sin2ThetaT := sin2ThetaI / (eta * eta)
	cosThetaT := cmplx.Sqrt(1 - sin2ThetaT)

	ci := complex(cosThetaI, 0)
	rParl := (eta*ci - cosThetaT) / (eta*ci + cosThetaT)
	rPerp := (ci - eta*cosThetaT) / (ci + eta*cosThetaT)
	return (Sqr(cmplx.Abs(rParl)) + Sqr(cmplx.Abs(rPerp))) / 2
}

// FrComplex computes the per-wavelength Fresnel reflectance for a conductor
// with spectral index of refraction eta and absorption coefficient k
func FrComplex(cosThetaI float64, eta, k Spectrum) Spectrum {
	var result Spectrum
	for i := range result {
		result[i] = frComplex(cosThetaI, complex(eta[i], k[i]))
	}
	return result
}

// SchlickWeight returns the fifth-power grazing term (1-u)^5 used by the
// Schlick Fresnel approximation
func SchlickWeight(u float64) float64 {
	m := Clamp(1-u, 0, 1)
	m2 := m * m
	return m2 * m2 * m
}

// SchlickR0FromEta returns the normal-incidence reflectance implied by a
// relative refraction ratio
func SchlickR0FromEta(eta float64) float64 {
	return Sqr(eta-1) / Sqr(eta+1)
}

// FresnelMoment1 approximates the first moment of the Fresnel reflectance
// function, used to normalize diffuse subsurface exit terms
func FresnelMoment1(eta float64) float64 {
	eta2 := eta * eta
	eta3 := eta2 * eta
	eta4 := eta3 * eta
	eta5 := eta4 * eta
	if eta < 1 {
		return 0.45966 - 1.73965*eta + 3.37668*eta2 - 3.904945*eta3 +
			2.49277*eta4 - 0.68441*eta5
	}
	return -4.61686 + 11.1136*eta - 10.4646*eta2 + 5.11455*eta3 -
		1.27198*eta4 + 0.12746*eta5
}

// HenyeyGreenstein evaluates the normalized single-lobe phase function for
// the angle cosine between two directions and asymmetry parameter g
func HenyeyGreenstein(cosTheta, g float64) float64 {
	denom := 1 + g*g + 2*g*cosTheta
	return (1 - g*g) / (4 * math.Pi * denom * SafeSqrt(denom))
}
