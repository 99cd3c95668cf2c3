package bxdf

import (
	"math"

	"github.com/df07/go-bsdf/pkg/core"
)

// pMax is the number of explicitly tracked fiber scattering orders; higher
// orders are folded into one residual lobe
const pMax = 3

const sqrtPiOver8 = 0.626657069

// Hair models scattering from a dielectric fiber with an absorbing
// interior, factored into longitudinal lobes, per-order attenuations and
// azimuthal logistic lobes. Directions use the fiber frame: the x-axis
// runs along the fiber and h in [-1, 1] is the offset of the intersection
// across the fiber width.
type Hair struct {
	h, eta     float64
	sigmaA     core.Spectrum
	betaM      float64
	betaN      float64
	v          [pMax + 1]float64
	s          float64
	sin2kAlpha [pMax]float64
	cos2kAlpha [pMax]float64
}

// NewHair builds the fiber model. h is the intersection offset, eta the
// interior index of refraction, sigmaA the interior absorption, betaM and
// betaN the longitudinal and azimuthal roughness in [0, 1], and alpha the
// scale tilt in degrees.
func NewHair(h, eta float64, sigmaA core.Spectrum, betaM, betaN, alpha float64) *Hair {
	hr := &Hair{h: h, eta: eta, sigmaA: sigmaA, betaM: betaM, betaN: betaN}

	// Longitudinal variance per scattering order
	hr.v[0] = core.Sqr(0.726*betaM + 0.812*core.Sqr(betaM) + 3.7*pow20(betaM))
	hr.v[1] = 0.25 * hr.v[0]
	hr.v[2] = 4 * hr.v[0]
	for p := 3; p <= pMax; p++ {
		hr.v[p] = hr.v[2]
	}

	// Azimuthal logistic scale
	hr.s = sqrtPiOver8 * (0.265*betaN + 1.194*core.Sqr(betaN) + 5.372*pow22(betaN))

	// Scale-tilt terms for 2^k alpha via the double-angle recurrence
	hr.sin2kAlpha[0] = math.Sin(alpha * math.Pi / 180)
	hr.cos2kAlpha[0] = core.SafeSqrt(1 - core.Sqr(hr.sin2kAlpha[0]))
	for i := 1; i < pMax; i++ {
		sin, cos := hr.sin2kAlpha[i-1], hr.cos2kAlpha[i-1]
		hr.sin2kAlpha[i] = 2 * cos * sin
		hr.cos2kAlpha[i] = core.Sqr(cos) - core.Sqr(sin)
	}
	return hr
}

func pow20(x float64) float64 {
	x4 := core.Sqr(core.Sqr(x))
	return core.Sqr(core.Sqr(x4)) * x4
}

func pow22(x float64) float64 {
	return pow20(x) * core.Sqr(x)
}

// i0 is a truncated series for the modified Bessel function of the first
// kind, order zero
func i0(x float64) float64 {
	val, x2i := 0.0, 1.0
	ifact := int64(1)
	i4 := int64(1)
	for i := 0; i < 10; i++ {
		if i > 1 {
			ifact *= int64(i)
		}
		val += x2i / float64(i4*ifact*ifact)
		x2i *= x * x
		i4 *= 4
	}
	return val
}

func logI0(x float64) float64 {
	if x > 12 {
		return x + 0.5*(-math.Log(2*math.Pi)+math.Log(1/x)+1/(8*x))
	}
	return math.Log(i0(x))
}

func logistic(x, s float64) float64 {
	x = math.Abs(x)
	e := math.Exp(-x / s)
	return e / (s * core.Sqr(1+e))
}

func logisticCDF(x, s float64) float64 {
	return 1 / (1 + math.Exp(-x/s))
}

func trimmedLogistic(x, s, a, b float64) float64 {
	return logistic(x, s) / (logisticCDF(b, s) - logisticCDF(a, s))
}

func sampleTrimmedLogistic(u, s, a, b float64) float64 {
	k := logisticCDF(b, s) - logisticCDF(a, s)
	x := -s * math.Log(1/(u*k+logisticCDF(a, s))-1)
	return core.Clamp(x, a, b)
}

// mp is the longitudinal scattering lobe; the v <= 0.1 branch evaluates in
// log space to stay finite at low roughness
func mp(cosThetaI, cosThetaO, sinThetaI, sinThetaO, v float64) float64 {
	a := cosThetaI * cosThetaO / v
	b := sinThetaI * sinThetaO / v
	if v <= 0.1 {
		return math.Exp(logI0(a) - b - 1/v + 0.6931 + math.Log(1/(2*v)))
	}
	return math.Exp(-b) * i0(a) / (math.Sinh(1/v) * 2 * v)
}

// ap returns the attenuation of each scattering order for a single interior
// transmittance t
func ap(cosThetaO, eta, h float64, t core.Spectrum) [pMax + 1]core.Spectrum {
	var a [pMax + 1]core.Spectrum

	// Fresnel reflectance at the initial cylinder intersection
	cosGammaO := core.SafeSqrt(1 - core.Sqr(h))
	cosTheta := cosThetaO * cosGammaO
	f := core.FrDielectric(cosTheta, eta)
	a[0] = core.NewSpectrum(f)

	a[1] = t.Scale(core.Sqr(1 - f))
	for p := 2; p < pMax; p++ {
		a[p] = a[p-1].Mul(t).Scale(f)
	}

	// Residual term summing the geometric series of remaining orders
	for i := range a[pMax] {
		denom := 1 - t[i]*f
		if denom > 0 {
			a[pMax][i] = a[pMax-1][i] * f * t[i] / denom
		}
	}
	return a
}

// phiFn is the net azimuthal deflection of scattering order p
func phiFn(p int, gammaO, gammaT float64) float64 {
	return 2*float64(p)*gammaT - 2*gammaO + float64(p)*math.Pi
}

// np is the azimuthal scattering lobe for order p
func np(phi float64, p int, s, gammaO, gammaT float64) float64 {
	dphi := phi - phiFn(p, gammaO, gammaT)
	for dphi > math.Pi {
		dphi -= 2 * math.Pi
	}
	for dphi < -math.Pi {
		dphi += 2 * math.Pi
	}
	return trimmedLogistic(dphi, s, -math.Pi, math.Pi)
}

// tiltedThetaO applies the scale tilt of order p to the outgoing angle
func (hr *Hair) tiltedThetaO(p int, sinThetaO, cosThetaO float64) (float64, float64) {
	var sinThetaOp, cosThetaOp float64
	switch p {
	case 0:
		sinThetaOp = sinThetaO*hr.cos2kAlpha[1] - cosThetaO*hr.sin2kAlpha[1]
		cosThetaOp = cosThetaO*hr.cos2kAlpha[1] + sinThetaO*hr.sin2kAlpha[1]
	case 1:
		sinThetaOp = sinThetaO*hr.cos2kAlpha[0] + cosThetaO*hr.sin2kAlpha[0]
		cosThetaOp = cosThetaO*hr.cos2kAlpha[0] - sinThetaO*hr.sin2kAlpha[0]
	case 2:
		sinThetaOp = sinThetaO*hr.cos2kAlpha[2] + cosThetaO*hr.sin2kAlpha[2]
		cosThetaOp = cosThetaO*hr.cos2kAlpha[2] - sinThetaO*hr.sin2kAlpha[2]
	default:
		sinThetaOp, cosThetaOp = sinThetaO, cosThetaO
	}
	return sinThetaOp, math.Abs(cosThetaOp)
}

// transmittanceT is the interior absorption along one internal segment
func (hr *Hair) transmittanceT(cosThetaO float64) core.Spectrum {
	sinThetaO := core.SafeSqrt(1 - core.Sqr(cosThetaO))
	sinThetaT := sinThetaO / hr.eta
	cosThetaT := core.SafeSqrt(1 - core.Sqr(sinThetaT))

	etap := core.SafeSqrt(core.Sqr(hr.eta)-core.Sqr(sinThetaO)) / cosThetaO
	sinGammaT := hr.h / etap
	cosGammaT := core.SafeSqrt(1 - core.Sqr(sinGammaT))

	var t core.Spectrum
	for i := range t {
		t[i] = math.Exp(-hr.sigmaA[i] * 2 * cosGammaT / cosThetaT)
	}
	return t
}

// F implements the BxDF interface
func (hr *Hair) F(wo, wi core.Vec3, mode TransportMode) core.Spectrum {
	// Fiber-frame angles for wo and wi
	sinThetaO := wo.X
	cosThetaO := core.SafeSqrt(1 - core.Sqr(sinThetaO))
	phiO := math.Atan2(wo.Z, wo.Y)
	gammaO := core.SafeASin(hr.h)

	sinThetaI := wi.X
	cosThetaI := core.SafeSqrt(1 - core.Sqr(sinThetaI))
	phiI := math.Atan2(wi.Z, wi.Y)

	// Refracted azimuthal offset angle
	etap := core.SafeSqrt(core.Sqr(hr.eta)-core.Sqr(sinThetaO)) / cosThetaO
	sinGammaT := hr.h / etap
	gammaT := core.SafeASin(sinGammaT)

	t := hr.transmittanceT(cosThetaO)
	phi := phiI - phiO
	a := ap(cosThetaO, hr.eta, hr.h, t)

	var fsum core.Spectrum
	for p := 0; p < pMax; p++ {
		sinThetaOp, cosThetaOp := hr.tiltedThetaO(p, sinThetaO, cosThetaO)
		fsum = fsum.Add(a[p].Scale(
			mp(cosThetaI, cosThetaOp, sinThetaI, sinThetaOp, hr.v[p]) *
				np(phi, p, hr.s, gammaO, gammaT)))
	}
	// Residual lobe, uniform in azimuth
	fsum = fsum.Add(a[pMax].Scale(
		mp(cosThetaI, cosThetaO, sinThetaI, sinThetaO, hr.v[pMax]) / (2 * math.Pi)))

	if core.AbsCosTheta(wi) > 0 {
		fsum = fsum.Div(core.AbsCosTheta(wi))
	}
	return fsum
}

// apPDF returns the discrete probability of sampling each scattering order,
// proportional to the orders' average attenuations
func (hr *Hair) apPDF(cosThetaO float64) [pMax + 1]float64 {
	t := hr.transmittanceT(cosThetaO)
	a := ap(cosThetaO, hr.eta, hr.h, t)

	sumY := 0.0
	for _, s := range a {
		sumY += s.Average()
	}

	var pdf [pMax + 1]float64
	for i, s := range a {
		pdf[i] = s.Average() / sumY
	}
	return pdf
}

// Sample implements the BxDF interface. A scattering order is chosen by
// its attenuation, then the longitudinal and azimuthal lobes of that order
// are sampled exactly.
func (hr *Hair) Sample(wo core.Vec3, uc float64, u core.Vec2, mode TransportMode, sampleFlags ReflTransFlags) (Sample, bool) {
	sinThetaO := wo.X
	cosThetaO := core.SafeSqrt(1 - core.Sqr(sinThetaO))
	phiO := math.Atan2(wo.Z, wo.Y)
	gammaO := core.SafeASin(hr.h)

	// Choose the scattering order, then rescale uc for reuse
	apPDF := hr.apPDF(cosThetaO)
	p := 0
	for ; p < pMax; p++ {
		if uc < apPDF[p] {
			break
		}
		uc -= apPDF[p]
	}
	uc = math.Min(uc/apPDF[p], 1-1e-9)

	// Sample the longitudinal lobe for the incident inclination
	sinThetaOp, cosThetaOp := hr.tiltedThetaO(p, sinThetaO, cosThetaO)
	cosTheta := 1 + hr.v[p]*math.Log(math.Max(u.X, 1e-5)+(1-u.X)*math.Exp(-2/hr.v[p]))
	sinTheta := core.SafeSqrt(1 - core.Sqr(cosTheta))
	cosPhi := math.Cos(2 * math.Pi * u.Y)
	sinThetaI := -cosTheta*sinThetaOp + sinTheta*cosPhi*cosThetaOp
	cosThetaI := core.SafeSqrt(1 - core.Sqr(sinThetaI))

	// Sample the azimuthal lobe
	etap := core.SafeSqrt(core.Sqr(hr.eta)-core.Sqr(sinThetaO)) / cosThetaO
	sinGammaT := hr.h / etap
	gammaT := core.SafeASin(sinGammaT)
	var dphi float64
	if p < pMax {
		dphi = phiFn(p, gammaO, gammaT) + sampleTrimmedLogistic(uc, hr.s, -math.Pi, math.Pi)
	} else {
		dphi = 2 * math.Pi * uc
	}

	phiI := phiO + dphi
	wi := core.NewVec3(sinThetaI, cosThetaI*math.Cos(phiI), cosThetaI*math.Sin(phiI))

	// Sum the density over all orders for the sampled direction
	pdf := 0.0
	for p := 0; p < pMax; p++ {
		sinThetaOp, cosThetaOp := hr.tiltedThetaO(p, sinThetaO, cosThetaO)
		pdf += mp(cosThetaI, cosThetaOp, sinThetaI, sinThetaOp, hr.v[p]) *
			apPDF[p] * np(dphi, p, hr.s, gammaO, gammaT)
	}
	pdf += mp(cosThetaI, cosThetaO, sinThetaI, sinThetaO, hr.v[pMax]) *
		apPDF[pMax] / (2 * math.Pi)

	if pdf == 0 {
		return Sample{}, false
	}
	return Sample{F: hr.F(wo, wi, mode), Wi: wi, PDF: pdf, Flags: FlagGlossyReflection, Eta: 1}, true
}

// PDF implements the BxDF interface
func (hr *Hair) PDF(wo, wi core.Vec3, mode TransportMode, sampleFlags ReflTransFlags) float64 {
	sinThetaO := wo.X
	cosThetaO := core.SafeSqrt(1 - core.Sqr(sinThetaO))
	phiO := math.Atan2(wo.Z, wo.Y)
	gammaO := core.SafeASin(hr.h)

	sinThetaI := wi.X
	cosThetaI := core.SafeSqrt(1 - core.Sqr(sinThetaI))
	phiI := math.Atan2(wi.Z, wi.Y)

	etap := core.SafeSqrt(core.Sqr(hr.eta)-core.Sqr(sinThetaO)) / cosThetaO
	sinGammaT := hr.h / etap
	gammaT := core.SafeASin(sinGammaT)

	apPDF := hr.apPDF(cosThetaO)
	phi := phiI - phiO

	pdf := 0.0
	for p := 0; p < pMax; p++ {
		sinThetaOp, cosThetaOp := hr.tiltedThetaO(p, sinThetaO, cosThetaO)
		pdf += mp(cosThetaI, cosThetaOp, sinThetaI, sinThetaOp, hr.v[p]) *
			apPDF[p] * np(phi, p, hr.s, gammaO, gammaT)
	}
	pdf += mp(cosThetaI, cosThetaO, sinThetaI, sinThetaO, hr.v[pMax]) *
		apPDF[pMax] / (2 * math.Pi)
	return pdf
}

// Flags implements the BxDF interface
func (hr *Hair) Flags() Flags { return FlagGlossyReflection }

// Regularize implements the BxDF interface
func (hr *Hair) Regularize() {}

// SigmaAFromConcentration maps eumelanin and pheomelanin pigment
// concentrations to an absorption spectrum sampled at the fixed channel
// wavelengths
func SigmaAFromConcentration(ce, cp float64) core.Spectrum {
	eumelanin := [core.SpectrumSamples]float64{8.795, 5.382, 3.536, 2.443}
	pheomelanin := [core.SpectrumSamples]float64{3.443, 1.997, 1.228, 0.797}
	var sigmaA core.Spectrum
	for i := range sigmaA {
		sigmaA[i] = ce*eumelanin[i] + cp*pheomelanin[i]
	}
	return sigmaA
}

// SigmaAFromReflectance inverts a target reflectance into an absorption
// spectrum for the given azimuthal roughness
func SigmaAFromReflectance(c core.Spectrum, betaN float64) core.Spectrum {
	denom := 5.969 - 0.215*betaN + 2.532*core.Sqr(betaN) -
		10.73*betaN*betaN*betaN + 5.574*core.Sqr(core.Sqr(betaN)) +
		0.245*core.Sqr(core.Sqr(betaN))*betaN
	var sigmaA core.Spectrum
	for i := range sigmaA {
		sigmaA[i] = core.Sqr(math.Log(c[i]) / denom)
	}
	return sigmaA
}
