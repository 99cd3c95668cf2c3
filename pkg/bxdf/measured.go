package bxdf

import (
	"fmt"
	"math"

	"github.com/df07/go-bsdf/pkg/core"
)

// MeasuredData holds an isotropic measured reflectance table. Values are
// indexed by outgoing inclination, incident inclination and relative
// azimuth, with inclinations warped by theta2U so resolution concentrates
// near grazing angles.
type MeasuredData struct {
	NThetaO, NThetaI, NPhi int
	Values                 []core.Spectrum
}

// NewMeasuredData validates the table dimensions against the value count
func NewMeasuredData(nThetaO, nThetaI, nPhi int, values []core.Spectrum) (*MeasuredData, error) {
	if nThetaO < 2 || nThetaI < 2 || nPhi < 2 {
		return nil, fmt.Errorf("measured data grid too small: %dx%dx%d", nThetaO, nThetaI, nPhi)
	}
	if len(values) != nThetaO*nThetaI*nPhi {
		return nil, fmt.Errorf("measured data has %d values, want %d",
			len(values), nThetaO*nThetaI*nPhi)
	}
	return &MeasuredData{NThetaO: nThetaO, NThetaI: nThetaI, NPhi: nPhi, Values: values}, nil
}

// theta2U warps an inclination to [0, 1] with extra resolution near pi/2
func theta2U(theta float64) float64 {
	return math.Sqrt(theta * (2 / math.Pi))
}

// phi2U maps a relative azimuth in [-pi, pi] to [0, 1]
func phi2U(phi float64) float64 {
	return phi/(2*math.Pi) + 0.5
}

func (d *MeasuredData) at(io, ii, ip int) core.Spectrum {
	return d.Values[(io*d.NThetaI+ii)*d.NPhi+ip]
}

// lookup trilinearly interpolates the table at the warped coordinates
func (d *MeasuredData) lookup(uo, ui, up float64) core.Spectrum {
	fo := core.Clamp(uo, 0, 1) * float64(d.NThetaO-1)
	fi := core.Clamp(ui, 0, 1) * float64(d.NThetaI-1)
	fp := core.Clamp(up, 0, 1) * float64(d.NPhi-1)

	io, ii, ip := int(fo), int(fi), int(fp)
	if io > d.NThetaO-2 {
		io = d.NThetaO - 2
	}
	if ii > d.NThetaI-2 {
		ii = d.NThetaI - 2
	}
	if ip > d.NPhi-2 {
		ip = d.NPhi - 2
	}
	to, ti, tp := fo-float64(io), fi-float64(ii), fp-float64(ip)

	var result core.Spectrum
	for dlo := 0; dlo < 2; dlo++ {
		wo := 1 - to
		if dlo == 1 {
			wo = to
		}
		for dli := 0; dli < 2; dli++ {
			wi := 1 - ti
			if dli == 1 {
				wi = ti
			}
			for dlp := 0; dlp < 2; dlp++ {
				wp := 1 - tp
				if dlp == 1 {
					wp = tp
				}
				result = result.Add(d.at(io+dlo, ii+dli, ip+dlp).Scale(wo * wi * wp))
			}
		}
	}
	return result
}

// Measured evaluates a tabulated isotropic BRDF. Sampling falls back to the
// cosine-weighted hemisphere since the table carries no invertible density.
type Measured struct {
	data *MeasuredData
}

// NewMeasured wraps a reflectance table as a scattering model
func NewMeasured(data *MeasuredData) *Measured {
	return &Measured{data: data}
}

// F implements the BxDF interface
func (m *Measured) F(wo, wi core.Vec3, mode TransportMode) core.Spectrum {
	if wo.Z < 0 {
		wo = wo.Negate()
		wi = wi.Negate()
	}
	if !core.SameHemisphere(wo, wi) {
		return core.Spectrum{}
	}

	thetaO := math.Acos(core.Clamp(core.CosTheta(wo), -1, 1))
	thetaI := math.Acos(core.Clamp(core.CosTheta(wi), -1, 1))
	phi := math.Atan2(core.SinPhi(wi), core.CosPhi(wi)) -
		math.Atan2(core.SinPhi(wo), core.CosPhi(wo))
	for phi > math.Pi {
		phi -= 2 * math.Pi
	}
	for phi < -math.Pi {
		phi += 2 * math.Pi
	}

	return m.data.lookup(theta2U(thetaO), theta2U(thetaI), phi2U(phi))
}

// Sample implements the BxDF interface
func (m *Measured) Sample(wo core.Vec3, uc float64, u core.Vec2, mode TransportMode, sampleFlags ReflTransFlags) (Sample, bool) {
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
	pdf := core.CosineHemispherePDF(core.AbsCosTheta(wi))
	return Sample{F: m.F(wo, wi, mode), Wi: wi, PDF: pdf, Flags: FlagGlossyReflection, Eta: 1}, true
}

// PDF implements the BxDF interface
func (m *Measured) PDF(wo, wi core.Vec3, mode TransportMode, sampleFlags ReflTransFlags) float64 {
	if !sampleFlags.HasReflection() || !core.SameHemisphere(wo, wi) {
		return 0
	}
	return core.CosineHemispherePDF(core.AbsCosTheta(wi))
}

// Flags implements the BxDF interface
func (m *Measured) Flags() Flags { return FlagReflection | FlagGlossy }

// Regularize implements the BxDF interface
func (m *Measured) Regularize() {}
