package bxdf

import (
	"math"

	"github.com/df07/go-bsdf/pkg/core"
)

// Layered models a dielectric coating slab over a base interface,
// optionally filled with a scattering medium, by estimating its scattering
// function with an unbiased Monte Carlo random walk between the two
// interfaces. The slab spans depths [0, thickness] with the bottom
// interface at 0 and the top at thickness.
//
// The estimator uses next-event estimation toward a presampled exit
// direction, multiple importance sampling with the power heuristic, and
// Russian-roulette termination. At least one of the two interfaces must be
// transmissive.
type Layered struct {
	Top, Bottom BxDF

	thickness float64
	albedo    core.Spectrum // in-medium single-scattering albedo; zero disables the medium
	g         float64       // phase function asymmetry
	maxDepth  int
	nSamples  int
	twoSided  bool
}

// NewLayered composes a top and bottom interface into a layered material.
// thickness is the slab's optical depth, albedo and g configure the
// in-medium phase function (zero albedo means a clear slab), maxDepth caps
// the random walk and nSamples sets the trial count for evaluation and
// density estimates.
func NewLayered(top, bottom BxDF, thickness float64, albedo core.Spectrum, g float64, maxDepth, nSamples int, twoSided bool) *Layered {
	if !top.Flags().IsTransmissive() && !bottom.Flags().IsTransmissive() {
		panic("bxdf: layered material requires at least one transmissive interface")
	}
	return &Layered{
		Top:       top,
		Bottom:    bottom,
		thickness: math.Max(thickness, math.SmallestNonzeroFloat64),
		albedo:    albedo,
		g:         g,
		maxDepth:  maxDepth,
		nSamples:  nSamples,
		twoSided:  twoSided,
	}
}

// NewCoatedDiffuse creates a dielectric coating over a Lambertian base
func NewCoatedDiffuse(top *Dielectric, bottom *Diffuse, thickness float64, albedo core.Spectrum, g float64, maxDepth, nSamples int) *Layered {
	return NewLayered(top, bottom, thickness, albedo, g, maxDepth, nSamples, true)
}

// NewCoatedConductor creates a dielectric coating over a conductor base
func NewCoatedConductor(top *Dielectric, bottom *Conductor, thickness float64, albedo core.Spectrum, g float64, maxDepth, nSamples int) *Layered {
	return NewLayered(top, bottom, thickness, albedo, g, maxDepth, nSamples, true)
}

// transmittance returns the slab transmittance for a path crossing a depth
// difference dz along direction w
func transmittance(dz float64, w core.Vec3) float64 {
	if math.Abs(dz) <= math.SmallestNonzeroFloat64 {
		return 1
	}
	return math.Exp(-math.Abs(dz / w.Z))
}

// F estimates the layered scattering function for a direction pair with
// nSamples independent random-walk trials
func (l *Layered) F(wo, wi core.Vec3, mode TransportMode) core.Spectrum {
	var f core.Spectrum
	if l.twoSided && wo.Z < 0 {
		wo = wo.Negate()
		wi = wi.Negate()
	}

	// Determine entrance interface
	enteredTop := l.twoSided || wo.Z > 0
	var enter BxDF
	if enteredTop {
		enter = l.Top
	} else {
		enter = l.Bottom
	}

	// Determine exit interface and exit depth
	var exit, nonExit BxDF
	var exitZ float64
	if core.SameHemisphere(wo, wi) != enteredTop {
		exit, nonExit = l.Bottom, l.Top
		exitZ = 0
	} else {
		exit, nonExit = l.Top, l.Bottom
		exitZ = l.thickness
	}

	// Single reflection at the entrance interface; scaled by the trial
	// count to offset the final division
	if core.SameHemisphere(wo, wi) {
		f = enter.F(wo, wi, mode).Scale(float64(l.nSamples))
	}

	sampler := core.NewHashSampler(wo.X, wo.Y, wo.Z, wi.X, wi.Y, wi.Z)
	phase := NewHGPhase(l.g)

	for s := 0; s < l.nSamples; s++ {
		// Transmit into the slab from wo
		wos, ok := enter.Sample(wo, sampler.Get1D(), sampler.Get2D(), mode, SampleTransmission)
		if !ok || wos.F.IsZero() || wos.PDF == 0 || wos.Wi.Z == 0 {
			continue
		}

		// Presample an exit transmission from wi for next-event estimation,
		// in the reverse transport mode
		wis, ok := exit.Sample(wi, sampler.Get1D(), sampler.Get2D(), mode.Reversed(), SampleTransmission)
		if !ok || wis.F.IsZero() || wis.PDF == 0 || wis.Wi.Z == 0 {
			continue
		}

		beta := wos.F.Scale(core.AbsCosTheta(wos.Wi) / wos.PDF)
		z := 0.0
		if enteredTop {
			z = l.thickness
		}
		w := wos.Wi

		for depth := 0; depth < l.maxDepth; depth++ {
			// Russian roulette once the throughput drops low
			if depth > 3 && beta.MaxComponent() < 0.25 {
				q := math.Max(0, 1-beta.MaxComponent())
				if sampler.Get1D() < q {
					break
				}
				beta = beta.Scale(1 / (1 - q))
			}

			if l.albedo.IsZero() {
				// Clear slab: advance to the opposite interface
				if z == l.thickness {
					z = 0
				} else {
					z = l.thickness
				}
				beta = beta.Scale(transmittance(l.thickness, w))
			} else {
				// Sample an exponential free-flight distance in the medium
				sigmaT := 1.0
				dz := core.SampleExponential(sampler.Get1D(), sigmaT/math.Abs(w.Z))
				zp := z - dz
				if w.Z > 0 {
					zp = z + dz
				}
				if zp == z {
					continue
				}
				if 0 < zp && zp < l.thickness {
					// In-medium scattering: connect toward the presampled
					// exit direction, MIS-weighted against the phase density
					wt := 1.0
					if !exit.Flags().IsSpecular() {
						wt = core.PowerHeuristic(1, wis.PDF, 1, phase.PDF(w.Negate(), wis.Wi.Negate()))
					}
					f = f.Add(beta.Mul(l.albedo).Mul(wis.F).
						Scale(phase.P(w.Negate(), wis.Wi.Negate()) * wt *
							transmittance(zp-exitZ, wis.Wi) / wis.PDF))

					// Continue the walk with a phase-function sample
					ps, ok := phase.Sample(w.Negate(), sampler.Get2D())
					if !ok || ps.PDF == 0 || ps.Wi.Z == 0 {
						continue
					}
					beta = beta.Mul(l.albedo).Scale(ps.P / ps.PDF)
					w = ps.Wi
					z = zp

					// The phase sample may itself connect through the exit
					// interface
					if ((z < exitZ && w.Z > 0) || (z > exitZ && w.Z < 0)) &&
						!exit.Flags().IsSpecular() {
						fExit := exit.F(w.Negate(), wi, mode)
						if !fExit.IsZero() {
							exitPDF := exit.PDF(w.Negate(), wi, mode, SampleTransmission)
							wt := core.PowerHeuristic(1, ps.PDF, 1, exitPDF)
							f = f.Add(beta.Mul(fExit).Scale(transmittance(zp-exitZ, ps.Wi) * wt))
						}
					}
					continue
				}
				z = core.Clamp(zp, 0, l.thickness)
			}

			if z == exitZ {
				// Reflect off the exit interface to keep walking
				bs, ok := exit.Sample(w.Negate(), sampler.Get1D(), sampler.Get2D(), mode, SampleReflection)
				if !ok || bs.F.IsZero() || bs.PDF == 0 || bs.Wi.Z == 0 {
					break
				}
				beta = beta.Mul(bs.F).Scale(core.AbsCosTheta(bs.Wi) / bs.PDF)
				w = bs.Wi
			} else {
				// Next-event contribution through the non-exit interface
				if !nonExit.Flags().IsSpecular() {
					wt := 1.0
					if !exit.Flags().IsSpecular() {
						wt = core.PowerHeuristic(1, wis.PDF, 1,
							nonExit.PDF(w.Negate(), wis.Wi.Negate(), mode, SampleAll))
					}
					f = f.Add(beta.Mul(nonExit.F(w.Negate(), wis.Wi.Negate(), mode)).Mul(wis.F).
						Scale(core.AbsCosTheta(wis.Wi) * wt *
							transmittance(l.thickness, wis.Wi) / wis.PDF))
				}

				// Reflect off the non-exit interface
				bs, ok := nonExit.Sample(w.Negate(), sampler.Get1D(), sampler.Get2D(), mode, SampleReflection)
				if !ok || bs.F.IsZero() || bs.PDF == 0 || bs.Wi.Z == 0 {
					break
				}
				beta = beta.Mul(bs.F).Scale(core.AbsCosTheta(bs.Wi) / bs.PDF)
				w = bs.Wi

				// The reflected direction may connect through the exit
				// interface as well
				if !exit.Flags().IsSpecular() {
					fExit := exit.F(w.Negate(), wi, mode)
					if !fExit.IsZero() {
						// No next-event sample competes when the non-exit
						// interface is specular, so the path keeps full weight
						wt := 1.0
						if !nonExit.Flags().IsSpecular() {
							exitPDF := exit.PDF(w.Negate(), wi, mode, SampleTransmission)
							wt = core.PowerHeuristic(1, bs.PDF, 1, exitPDF)
						}
						f = f.Add(beta.Mul(fExit).Scale(transmittance(l.thickness, bs.Wi) * wt))
					}
				}
			}
		}
	}

	return f.Div(float64(l.nSamples))
}

// Sample draws a scattered direction with a single forward random walk. An
// immediate reflection off the entrance interface is returned as-is with a
// proportional density; otherwise the walk continues until a transmission
// sample leaves the slab.
func (l *Layered) Sample(wo core.Vec3, uc float64, u core.Vec2, mode TransportMode, sampleFlags ReflTransFlags) (Sample, bool) {
	// Only the full strategy set is supported for layered sampling
	if sampleFlags != SampleAll {
		return Sample{}, false
	}

	flipWi := false
	if l.twoSided && wo.Z < 0 {
		wo = wo.Negate()
		flipWi = true
	}

	// Sample the entrance interface to enter the slab
	enteredTop := l.twoSided || wo.Z > 0
	var enter BxDF
	if enteredTop {
		enter = l.Top
	} else {
		enter = l.Bottom
	}
	bs, ok := enter.Sample(wo, uc, u, mode, SampleAll)
	if !ok || bs.F.IsZero() || bs.PDF == 0 || bs.Wi.Z == 0 {
		return Sample{}, false
	}
	if bs.IsReflection() {
		if flipWi {
			bs.Wi = bs.Wi.Negate()
		}
		bs.PDFIsProportional = true
		return bs, true
	}

	w := bs.Wi
	specularPath := bs.IsSpecular()

	sampler := core.NewHashSampler(wo.X, wo.Y, wo.Z, uc, u.X, u.Y)
	phase := NewHGPhase(l.g)

	f := bs.F.Scale(core.AbsCosTheta(bs.Wi))
	pdf := bs.PDF
	z := 0.0
	if enteredTop {
		z = l.thickness
	}

	for depth := 0; depth < l.maxDepth; depth++ {
		// Russian roulette on the throughput-to-density ratio
		rrBeta := f.MaxComponent() / pdf
		if depth > 3 && rrBeta < 0.25 {
			q := math.Max(0, 1-rrBeta)
			if sampler.Get1D() < q {
				return Sample{}, false
			}
			pdf *= 1 - q
		}
		if w.Z == 0 {
			return Sample{}, false
		}

		if !l.albedo.IsZero() {
			sigmaT := 1.0
			dz := core.SampleExponential(sampler.Get1D(), sigmaT/core.AbsCosTheta(w))
			zp := z - dz
			if w.Z > 0 {
				zp = z + dz
			}
			if zp == z {
				return Sample{}, false
			}
			if 0 < zp && zp < l.thickness {
				ps, ok := phase.Sample(w.Negate(), sampler.Get2D())
				if !ok || ps.PDF == 0 || ps.Wi.Z == 0 {
					return Sample{}, false
				}
				f = f.Mul(l.albedo).Scale(ps.P)
				pdf *= ps.PDF
				specularPath = false
				w = ps.Wi
				z = zp
				continue
			}
			z = core.Clamp(zp, 0, l.thickness)
		} else {
			if z == l.thickness {
				z = 0
			} else {
				z = l.thickness
			}
			f = f.Scale(transmittance(l.thickness, w))
		}

		var iface BxDF
		if z == 0 {
			iface = l.Bottom
		} else {
			iface = l.Top
		}

		bs, ok := iface.Sample(w.Negate(), sampler.Get1D(), sampler.Get2D(), mode, SampleAll)
		if !ok || bs.F.IsZero() || bs.PDF == 0 || bs.Wi.Z == 0 {
			return Sample{}, false
		}
		f = f.Mul(bs.F)
		pdf *= bs.PDF
		specularPath = specularPath && bs.IsSpecular()
		w = bs.Wi

		// A transmission event means the walk has left the slab
		if bs.IsTransmission() {
			flags := FlagTransmission
			if core.SameHemisphere(wo, w) {
				flags = FlagReflection
			}
			if specularPath {
				flags |= FlagSpecular
			} else {
				flags |= FlagGlossy
			}
			if flipWi {
				w = w.Negate()
			}
			return Sample{F: f, Wi: w, PDF: pdf, Flags: flags, Eta: 1, PDFIsProportional: true}, true
		}

		f = f.Scale(core.AbsCosTheta(bs.Wi))
	}
	return Sample{}, false
}

// PDF stochastically estimates the density with which Sample draws wi from
// wo, blended with a uniform-sphere floor so the result is always strictly
// positive and finite
func (l *Layered) PDF(wo, wi core.Vec3, mode TransportMode, sampleFlags ReflTransFlags) float64 {
	if l.twoSided && wo.Z < 0 {
		wo = wo.Negate()
		wi = wi.Negate()
	}

	sampler := core.NewHashSampler(wi.X, wi.Y, wi.Z, wo.X, wo.Y, wo.Z)

	// Exact density of reflection at the entrance interface
	enteredTop := l.twoSided || wo.Z > 0
	pdfSum := 0.0
	if core.SameHemisphere(wo, wi) {
		if enteredTop {
			pdfSum += float64(l.nSamples) * l.Top.PDF(wo, wi, mode, SampleReflection)
		} else {
			pdfSum += float64(l.nSamples) * l.Bottom.PDF(wo, wi, mode, SampleReflection)
		}
	}

	for s := 0; s < l.nSamples; s++ {
		if core.SameHemisphere(wo, wi) {
			// Reflect-transmit-reflect estimate: enter through one
			// interface, reflect off the other, exit back out
			rInterface, tInterface := BxDF(l.Bottom), BxDF(l.Top)
			if !enteredTop {
				rInterface, tInterface = l.Top, l.Bottom
			}

			wos, osOK := tInterface.Sample(wo, sampler.Get1D(), sampler.Get2D(), mode, SampleTransmission)
			wis, isOK := tInterface.Sample(wi, sampler.Get1D(), sampler.Get2D(), mode.Reversed(), SampleTransmission)
			if !osOK || wos.F.IsZero() || wos.PDF <= 0 ||
				!isOK || wis.F.IsZero() || wis.PDF <= 0 {
				continue
			}

			if !tInterface.Flags().IsNonSpecular() {
				pdfSum += rInterface.PDF(wos.Wi.Negate(), wis.Wi.Negate(), mode, SampleAll)
			} else {
				// Both connections have finite densities; combine them with
				// the power heuristic
				rs, rsOK := rInterface.Sample(wos.Wi.Negate(), sampler.Get1D(), sampler.Get2D(), mode, SampleAll)
				if !rsOK || rs.F.IsZero() || rs.PDF <= 0 {
					continue
				}
				if !rInterface.Flags().IsNonSpecular() {
					pdfSum += tInterface.PDF(rs.Wi.Negate(), wi, mode, SampleAll)
				} else {
					rPDF := rInterface.PDF(wos.Wi.Negate(), wis.Wi.Negate(), mode, SampleAll)
					pdfSum += core.PowerHeuristic(1, wis.PDF, 1, rPDF) * rPDF

					tPDF := tInterface.PDF(rs.Wi.Negate(), wi, mode, SampleAll)
					pdfSum += core.PowerHeuristic(1, rs.PDF, 1, tPDF) * tPDF
				}
			}
		} else {
			// Transmit-transmit estimate: independent transmissions from
			// each side
			toInterface, tiInterface := BxDF(l.Top), BxDF(l.Bottom)
			if !enteredTop {
				toInterface, tiInterface = l.Bottom, l.Top
			}

			wos, ok := toInterface.Sample(wo, sampler.Get1D(), sampler.Get2D(), mode, SampleAll)
			if !ok || wos.F.IsZero() || wos.PDF == 0 || wos.Wi.Z == 0 || wos.IsReflection() {
				continue
			}
			wis, ok := tiInterface.Sample(wi, sampler.Get1D(), sampler.Get2D(), mode.Reversed(), SampleAll)
			if !ok || wis.F.IsZero() || wis.PDF == 0 || wis.Wi.Z == 0 || wis.IsReflection() {
				continue
			}

			if toInterface.Flags().IsSpecular() {
				pdfSum += tiInterface.PDF(wos.Wi.Negate(), wi, mode, SampleAll)
			} else if tiInterface.Flags().IsSpecular() {
				pdfSum += toInterface.PDF(wo, wis.Wi.Negate(), mode, SampleAll)
			} else {
				pdfSum += (toInterface.PDF(wo, wis.Wi.Negate(), mode, SampleAll) +
					tiInterface.PDF(wos.Wi.Negate(), wi, mode, SampleAll)) / 2
			}
		}
	}

	// Blend with a uniform density so the result is never zero
	return core.Lerp(0.9, core.UniformSpherePDF(), pdfSum/float64(l.nSamples))
}

// Flags implements the BxDF interface
func (l *Layered) Flags() Flags {
	topFlags, bottomFlags := l.Top.Flags(), l.Bottom.Flags()

	flags := FlagReflection
	if topFlags.IsSpecular() {
		flags |= FlagSpecular
	}
	if topFlags.IsDiffuse() || bottomFlags.IsDiffuse() || !l.albedo.IsZero() {
		flags |= FlagDiffuse
	} else if topFlags.IsGlossy() || bottomFlags.IsGlossy() {
		flags |= FlagGlossy
	}
	if topFlags.IsTransmissive() && bottomFlags.IsTransmissive() {
		flags |= FlagTransmission
	}
	return flags
}

// Regularize implements the BxDF interface
func (l *Layered) Regularize() {
	l.Top.Regularize()
	l.Bottom.Regularize()
}
