package bxdf

import (
	"math"

	"github.com/df07/go-bsdf/pkg/core"
)

// Principled is an artist-facing uber-model combining a GTR2 specular lobe,
// a GTR1 clearcoat lobe, a retro-reflective diffuse term, a sheen term and
// an optional diffuse subsurface transmission, blended by scalar controls.
// It is always evaluated two-sided.
//
// https://blog.selfshadow.com/publications/s2012-shading-course/burley/s2012_pbs_disney_brdf_notes_v3.pdf
type Principled struct {
	color          core.Spectrum
	lum            float64 // luminance of color, for the tint term
	eta            float64
	roughness      float64
	specular       float64
	clearcoat      float64
	metallic       float64
	subsurface     float64
	sheen          float64
	sheenTint      float64
	clearcoatGloss float64
	isSpecular     bool
}

// NewPrincipled builds the principled model. lum is the luminance of color
// and drives the tint used by the sheen term; isSpecular selects the
// Schlick specular control in place of the dielectric Fresnel term.
func NewPrincipled(color core.Spectrum, lum, eta, roughness, specular, clearcoat, metallic, subsurface, sheen, sheenTint, clearcoatGloss float64, isSpecular bool) *Principled {
	return &Principled{
		color:          color,
		lum:            lum,
		eta:            eta,
		roughness:      roughness,
		specular:       specular,
		clearcoat:      clearcoat,
		metallic:       metallic,
		subsurface:     subsurface,
		sheen:          sheen,
		sheenTint:      sheenTint,
		clearcoatGloss: clearcoatGloss,
		isSpecular:     isSpecular,
	}
}

// gtr1 is the clearcoat distribution; wide tails, normalized by the log
// term. Degenerates to uniform at a >= 1.
func gtr1(cosTheta, a float64) float64 {
	if a >= 1 {
		return 1 / math.Pi
	}
	a2 := a * a
	t := 1 + (a2-1)*cosTheta*cosTheta
	return (a2 - 1) / (math.Pi * math.Log(a2) * t)
}

// gtr2 is the primary specular distribution, equivalent to GGX with the
// roughness control used directly as alpha
func gtr2(cosTheta, a float64) float64 {
	a2 := a * a
	t := 1 + (a2-1)*cosTheta*cosTheta
	return a2 / (math.Pi * t * t)
}

// smithGGXVN is the separable Smith masking term for the GTR lobes
func smithGGXVN(w core.Vec3, a float64) float64 {
	th := core.TanTheta(w)
	root := math.Sqrt(1 + a*a*th*th)
	return 2 / (1 + root)
}

// sampleWm draws a visible GTR2 microfacet normal for w
func (p *Principled) sampleWm(w core.Vec3, u core.Vec2) core.Vec3 {
	a := p.roughness
	vh := core.NewVec3(a*w.X, a*w.Y, w.Z).Normalize()

	lensq := vh.X*vh.X + vh.Y*vh.Y
	t1 := core.NewVec3(1, 0, 0)
	if lensq > 0 {
		t1 = core.NewVec3(-vh.Y, vh.X, 0).Multiply(1 / math.Sqrt(lensq))
	}
	t2 := vh.Cross(t1)

	r := math.Sqrt(u.X)
	phi := 2 * math.Pi * u.Y
	p1 := r * math.Cos(phi)
	p2 := r * math.Sin(phi)
	s := 0.5 * (1 + vh.Z)
	p2 = (1-s)*math.Sqrt(1-p1*p1) + s*p2

	nh := t1.Multiply(p1).Add(t2.Multiply(p2)).
		Add(vh.Multiply(math.Sqrt(math.Max(0, 1-p1*p1-p2*p2))))

	return core.NewVec3(a*nh.X, a*nh.Y, math.Max(0, nh.Z)).Normalize()
}

// sampleCoating draws a reflection off the GTR1 clearcoat lobe by inverting
// its distribution directly
func (p *Principled) sampleCoating(wo core.Vec3, u core.Vec2) core.Vec3 {
	gloss := core.Lerp(p.clearcoatGloss, 0.1, 0.001)
	alpha2 := gloss * gloss
	cosTheta := math.Sqrt(math.Max(0.0001, (1-math.Pow(alpha2, 1-u.X))/(1-alpha2)))
	sinTheta := math.Sqrt(math.Max(0.0001, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * u.Y

	wh := core.NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta)
	if core.CosTheta(wo)*core.CosTheta(wh) <= 0 {
		wh = wh.Negate()
	}
	return wh.Multiply(2 * wh.Dot(wo)).Subtract(wo).Normalize()
}

// computeWeights returns the normalized selection probabilities for the
// specular, diffuse and clearcoat strategies
func (p *Principled) computeWeights() (sr, dr, cr float64) {
	d := 1 - p.metallic
	dw := d
	sw := p.metallic + d
	cw := p.clearcoat
	norm := 1 / (sw + dw + cw)
	return sw * norm, dw * norm, cw * norm
}

// diffuseF is the retro-reflective diffuse term
func (p *Principled) diffuseF(wo, wi, wh core.Vec3) core.Spectrum {
	rc := math.Max(0.001, p.roughness)
	fo := core.SchlickWeight(core.CosTheta(wo))
	fi := core.SchlickWeight(core.CosTheta(wi))
	c := wi.Dot(wh)
	fd90 := 0.5 + 2*rc*c*c
	fd := core.Lerp(fi, 1, fd90) * core.Lerp(fo, 1, fd90)
	return p.color.Scale(fd * (1 - p.metallic) / math.Pi)
}

// subsurfaceF is the Hanrahan-Krueger approximation used for the diffuse
// transmission lobe
func (p *Principled) subsurfaceF(wo, wi, wh core.Vec3) core.Spectrum {
	rc := math.Max(0.001, p.roughness)
	cosWo := core.AbsCosTheta(wo)
	cosWi := core.AbsCosTheta(wi)
	fl := core.SchlickWeight(cosWi)
	fv := core.SchlickWeight(cosWo)
	c := wi.Dot(wh)
	fss90 := c * c * rc
	fss := core.Lerp(fl, 1, fss90) * core.Lerp(fv, 1, fss90)
	ss := 1.25 * (fss*(1/(cosWi+cosWo)-0.5) + 0.5)
	return p.color.Scale(ss * (1 - p.metallic) / math.Pi)
}

func (p *Principled) brdfF(wo, wi core.Vec3) core.Spectrum {
	if wo.Z < 0 {
		wo = wo.Negate()
		wi = wi.Negate()
	}

	wh := wi.Add(wo).Normalize()
	wh = core.FaceForward(wh, core.NewVec3(0, 0, 1))
	cosWh := core.CosTheta(wh)

	if !core.SameHemisphere(wo, wi) {
		if p.subsurface > 0 {
			return p.subsurfaceF(wo, wi, wh)
		}
		return core.Spectrum{}
	}

	ctint := core.NewSpectrum(1)
	if p.lum > 0 {
		ctint = p.color.Div(p.lum)
	}
	fh := core.SchlickWeight(wi.Dot(wh))

	// Main reflection lobe
	d := gtr2(cosWh, p.roughness)
	f := core.NewSpectrum(core.FrDielectric(wo.Dot(wh), p.eta))
	if p.isSpecular {
		f = core.LerpSpectrum(fh, core.NewSpectrum(p.specular*0.08), core.NewSpectrum(1))
	}
	f = core.LerpSpectrum(p.metallic, f, p.color)
	g := smithGGXVN(wo, p.roughness) * smithGGXVN(wi, p.roughness)

	// Clearcoat lobe, fixed 0.25 roughness masking
	dc := gtr1(cosWh, core.Lerp(p.clearcoatGloss, 0.1, 0.001))
	fc := core.Lerp(fh, 0.04, 1)
	gc := smithGGXVN(wo, 0.25) * smithGGXVN(wi, 0.25)

	j := 1 / (4 * core.AbsCosTheta(wo) * core.AbsCosTheta(wi))
	spec := f.Scale(d * g * j)
	diffuse := p.diffuseF(wo, wi, wh)
	coat := dc * fc * gc * j

	tintF := core.LerpSpectrum(p.sheenTint, core.NewSpectrum(1), ctint)
	sheenC := tintF.Scale(fh * p.sheen)

	return diffuse.Add(sheenC).Add(spec).Add(core.NewSpectrum(p.clearcoat * coat))
}

func (p *Principled) brdfPDF(wo, wi core.Vec3) float64 {
	if wo.Z < 0 {
		wo = wo.Negate()
		wi = wi.Negate()
	}
	wh := wo.Add(wi).Normalize()
	wh = core.FaceForward(wh, core.NewVec3(0, 0, 1))

	sr, dr, cr := p.computeWeights()

	absCosWh := core.AbsCosTheta(wh)
	g1 := smithGGXVN(wo, p.roughness)
	d := gtr2(absCosWh, p.roughness)
	j := 1 / (4 * wo.AbsDot(wh))
	pdfSpec := g1 * wo.AbsDot(wh) * d * j / core.AbsCosTheta(wo)
	pdfDiff := core.CosineHemispherePDF(core.AbsCosTheta(wi))

	dc := gtr1(absCosWh, core.Lerp(p.clearcoatGloss, 0.1, 0.001))
	pdfCc := dc * absCosWh * j

	return pdfSpec*sr + pdfDiff*dr + pdfCc*cr
}

// F implements the BxDF interface
func (p *Principled) F(wo, wi core.Vec3, mode TransportMode) core.Spectrum {
	return p.brdfF(wo, wi)
}

// Sample implements the BxDF interface. uc partitions the strategies by
// the weights from computeWeights; the subsurface reflect-or-transmit
// choice draws from a sample stream hashed from the call's arguments.
func (p *Principled) Sample(wo core.Vec3, uc float64, u core.Vec2, mode TransportMode, sampleFlags ReflTransFlags) (Sample, bool) {
	flip := false
	if wo.Z < 0 {
		wo = wo.Negate()
		flip = true
	}

	sampler := core.NewHashSampler(wo.X, wo.Y, wo.Z, uc, u.X, u.Y)

	sr, dr, cr := p.computeWeights()
	coatingTh := sr + cr
	diffuseTh := sr + cr + dr

	var wi core.Vec3
	var flag Flags
	switch {
	case uc <= sr:
		wm := p.sampleWm(wo, u)
		if core.CosTheta(wo)*core.CosTheta(wm) <= 0 {
			wm = wm.Negate()
		}
		wi = core.Reflect(wo, wm)
		if !core.SameHemisphere(wo, wi) {
			return Sample{}, false
		}
		flag = FlagGlossyReflection
	case uc <= coatingTh:
		wi = p.sampleCoating(wo, u)
		if !core.SameHemisphere(wo, wi) {
			return Sample{}, false
		}
		flag = FlagGlossyReflection
	case uc <= diffuseTh:
		if sampler.Get1D() <= p.subsurface {
			wi = core.SampleCosineHemisphere(u)
			if wi.Z == 0 {
				return Sample{}, false
			}
			if wo.Z > 0 {
				wi.Z *= -1
			}
			flag = FlagDiffuseTransmission
		} else {
			wi = core.SampleCosineHemisphere(u)
			if wi.Z == 0 {
				return Sample{}, false
			}
			if wo.Z < 0 {
				wi.Z *= -1
			}
			flag = FlagDiffuseReflection
		}
	default:
		return Sample{}, false
	}

	pdf := p.brdfPDF(wo, wi)
	fd := p.brdfF(wo, wi)
	if flip {
		wi = wi.Negate()
	}
	return Sample{F: fd, Wi: wi, PDF: pdf, Flags: flag, Eta: 1}, true
}

// PDF implements the BxDF interface
func (p *Principled) PDF(wo, wi core.Vec3, mode TransportMode, sampleFlags ReflTransFlags) float64 {
	return p.brdfPDF(wo, wi)
}

// Flags implements the BxDF interface
func (p *Principled) Flags() Flags {
	return FlagReflection | FlagSpecular | FlagGlossyReflection |
		FlagDiffuseReflection | FlagDiffuseTransmission
}

// Regularize implements the BxDF interface
func (p *Principled) Regularize() {}
