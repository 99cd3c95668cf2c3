package bxdf

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-bsdf/pkg/core"
)

func TestHairWhiteFurnace(t *testing.T) {
	// With no interior absorption every scattering order is preserved, so
	// the sampled energy integrates to one
	rng := rand.New(rand.NewSource(42))
	for _, beta := range []struct{ m, n float64 }{
		{0.3, 0.4}, {0.6, 0.3}, {0.8, 0.8},
	} {
		h := -1 + 2*rng.Float64()
		hair := NewHair(h, 1.55, core.Spectrum{}, beta.m, beta.n, 0)

		wo := core.SampleUniformSphere(core.NewVec2(rng.Float64(), rng.Float64()))
		n := 30000
		sum := 0.0
		for i := 0; i < n; i++ {
			s, ok := hair.Sample(wo, rng.Float64(),
				core.NewVec2(rng.Float64(), rng.Float64()), Radiance, SampleAll)
			if !ok {
				continue
			}
			sum += s.F.Average() * core.AbsCosTheta(s.Wi) / s.PDF
		}
		estimate := sum / float64(n)
		if math.Abs(estimate-1) > 0.05 {
			t.Errorf("beta_m=%.1f beta_n=%.1f: scattered energy %f, expected ~1",
				beta.m, beta.n, estimate)
		}
	}
}

func TestHairSamplePDFMatchesPDF(t *testing.T) {
	hair := NewHair(0.4, 1.55, SigmaAFromConcentration(1.3, 0.2), 0.25, 0.3, 2)
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 2000; i++ {
		wo := core.SampleUniformSphere(core.NewVec2(rng.Float64(), rng.Float64()))
		s, ok := hair.Sample(wo, rng.Float64(),
			core.NewVec2(rng.Float64(), rng.Float64()), Radiance, SampleAll)
		if !ok {
			continue
		}
		pdf := hair.PDF(wo, s.Wi, Radiance, SampleAll)
		if math.Abs(pdf-s.PDF) > 1e-6*math.Max(1, s.PDF) {
			t.Fatalf("PDF mismatch for wo=%v wi=%v: %g vs %g", wo, s.Wi, pdf, s.PDF)
		}
		if f := hair.F(wo, s.Wi, Radiance); core.MaxSpectrumDiff(f, s.F) > 1e-9*math.Max(1, s.F.MaxComponent()) {
			t.Fatalf("F mismatch: %v vs %v", f, s.F)
		}
	}
}

func TestHairFNonNegativeFinite(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	hair := NewHair(-0.6, 1.55, SigmaAFromConcentration(0.5, 0.8), 0.4, 0.5, 2)

	for i := 0; i < 1000; i++ {
		wo := core.SampleUniformSphere(core.NewVec2(rng.Float64(), rng.Float64()))
		wi := core.SampleUniformSphere(core.NewVec2(rng.Float64(), rng.Float64()))
		f := hair.F(wo, wi, Radiance)
		for c, v := range f {
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("channel %d: invalid value %g for wo=%v wi=%v", c, v, wo, wi)
			}
		}
	}
}

func TestHairAbsorptionDarkens(t *testing.T) {
	// More pigment always means less reflected energy
	light := NewHair(0.3, 1.55, SigmaAFromConcentration(0.3, 0), 0.3, 0.3, 0)
	dark := NewHair(0.3, 1.55, SigmaAFromConcentration(8, 0), 0.3, 0.3, 0)

	wo := core.NewVec3(0.2, 0.5, 0.84).Normalize()
	rng := rand.New(rand.NewSource(42))
	sumLight, sumDark := 0.0, 0.0

	n := 5000
	for i := 0; i < n; i++ {
		wi := core.SampleUniformSphere(core.NewVec2(rng.Float64(), rng.Float64()))
		sumLight += light.F(wo, wi, Radiance).Average()
		sumDark += dark.F(wo, wi, Radiance).Average()
	}
	if sumDark >= sumLight {
		t.Errorf("pigmented hair reflects more than light hair: %f vs %f",
			sumDark/float64(n), sumLight/float64(n))
	}
}

func TestHairFlags(t *testing.T) {
	hair := NewHair(0, 1.55, core.Spectrum{}, 0.3, 0.3, 2)
	if hair.Flags() != FlagGlossyReflection {
		t.Errorf("flags %v, expected glossy reflection", hair.Flags())
	}
}

func TestSigmaAFromReflectance(t *testing.T) {
	// Darker target colors require more absorption
	lightSigma := SigmaAFromReflectance(core.NewSpectrum(0.8), 0.3)
	darkSigma := SigmaAFromReflectance(core.NewSpectrum(0.1), 0.3)
	for i := range lightSigma {
		if lightSigma[i] >= darkSigma[i] {
			t.Errorf("channel %d: light sigma %f >= dark sigma %f",
				i, lightSigma[i], darkSigma[i])
		}
		if lightSigma[i] < 0 {
			t.Errorf("negative absorption %f", lightSigma[i])
		}
	}
}
