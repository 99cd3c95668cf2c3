package bxdf

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-bsdf/pkg/core"
)

// Gold-like spectral constants used across the conductor tests
var (
	goldEta = core.Spectrum{0.2, 0.9, 1.4, 1.6}
	goldK   = core.Spectrum{3.9, 2.5, 2.1, 1.9}
)

func TestSmoothConductorSample(t *testing.T) {
	mirror := NewConductor(NewTrowbridgeReitz(0, 0), goldEta, goldK)
	wo := core.NewVec3(0.5, -0.3, 0.81).Normalize()

	s, ok := mirror.Sample(wo, 0.5, core.NewVec2(0.2, 0.8), Radiance, SampleAll)
	if !ok {
		t.Fatal("sampling failed")
	}
	expected := core.NewVec3(-wo.X, -wo.Y, wo.Z)
	if s.Wi.Subtract(expected).Length() > 1e-12 {
		t.Errorf("mirror direction %v, expected %v", s.Wi, expected)
	}
	if s.PDF != 1 || !s.IsSpecular() || !s.IsReflection() {
		t.Errorf("delta sample pdf=%f flags=%v", s.PDF, s.Flags)
	}

	// Throughput is exactly the Fresnel reflectance
	weight := s.F.Scale(core.AbsCosTheta(s.Wi) / s.PDF)
	fr := core.FrComplex(core.AbsCosTheta(wo), goldEta, goldK)
	if core.MaxSpectrumDiff(weight, fr) > 1e-12 {
		t.Errorf("throughput %v, expected %v", weight, fr)
	}

	// Delta distributions have no finite F or PDF
	if !mirror.F(wo, expected, Radiance).IsZero() {
		t.Error("smooth conductor F should be zero")
	}
	if mirror.PDF(wo, expected, Radiance, SampleAll) != 0 {
		t.Error("smooth conductor PDF should be zero")
	}
}

func TestRoughConductorConsistency(t *testing.T) {
	c := NewConductor(NewTrowbridgeReitz(0.3, 0.3), goldEta, goldK)
	wo := core.NewVec3(0.1, 0.4, 0.91).Normalize()
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	for i := 0; i < 2000; i++ {
		s, ok := c.Sample(wo, sampler.Get1D(), sampler.Get2D(), Radiance, SampleAll)
		if !ok {
			continue
		}
		if !core.SameHemisphere(wo, s.Wi) {
			t.Fatalf("conductor sample crossed the surface: %v", s.Wi)
		}
		pdf := c.PDF(wo, s.Wi, Radiance, SampleAll)
		if math.Abs(pdf-s.PDF) > 1e-6*math.Max(1, s.PDF) {
			t.Fatalf("PDF mismatch: %g vs %g", pdf, s.PDF)
		}
		f := c.F(wo, s.Wi, Radiance)
		if core.MaxSpectrumDiff(f, s.F) > 1e-6*math.Max(1, s.F.MaxComponent()) {
			t.Fatalf("F mismatch: %v vs %v", f, s.F)
		}
	}
}

func TestRoughConductorReciprocity(t *testing.T) {
	c := NewConductor(NewTrowbridgeReitz(0.5, 0.5), goldEta, goldK)
	wo := core.NewVec3(0.4, 0.2, 0.89).Normalize()
	wi := core.NewVec3(-0.1, -0.6, 0.79).Normalize()
	if core.MaxSpectrumDiff(c.F(wo, wi, Radiance), c.F(wi, wo, Radiance)) > 1e-9 {
		t.Error("conductor reflection should be reciprocal")
	}
}

func TestRoughConductorEnergyConservation(t *testing.T) {
	c := NewConductor(NewTrowbridgeReitz(0.4, 0.4), core.NewSpectrum(0.01), core.NewSpectrum(10))
	wo := core.NewVec3(0.2, 0, 0.98).Normalize()
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	n := 50000
	sum := 0.0
	for i := 0; i < n; i++ {
		s, ok := c.Sample(wo, sampler.Get1D(), sampler.Get2D(), Radiance, SampleAll)
		if !ok {
			continue
		}
		sum += s.F.Average() * core.AbsCosTheta(s.Wi) / s.PDF
	}
	if estimate := sum / float64(n); estimate > 1.02 {
		t.Errorf("reflected energy %f exceeds 1", estimate)
	}
}

func TestConductorTransmissionRefused(t *testing.T) {
	c := NewConductor(NewTrowbridgeReitz(0.3, 0.3), goldEta, goldK)
	wo := core.NewVec3(0, 0, 1)
	if _, ok := c.Sample(wo, 0.5, core.NewVec2(0.5, 0.5), Radiance, SampleTransmission); ok {
		t.Error("a conductor should refuse transmission-only sampling")
	}
}

func TestConductorFlags(t *testing.T) {
	if f := NewConductor(NewTrowbridgeReitz(0, 0), goldEta, goldK).Flags(); f != FlagSpecularReflection {
		t.Errorf("smooth conductor flags %v", f)
	}
	if f := NewConductor(NewTrowbridgeReitz(0.3, 0.3), goldEta, goldK).Flags(); f != FlagGlossyReflection {
		t.Errorf("rough conductor flags %v", f)
	}
}
