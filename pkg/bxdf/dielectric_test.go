package bxdf

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-bsdf/pkg/core"
)

func TestSmoothDielectricSample(t *testing.T) {
	glass := NewSmoothDielectric(1.5)
	wo := core.NewVec3(1, 0, 1).Normalize()

	// Force reflection by keeping uc below the Fresnel probability
	s, ok := glass.Sample(wo, 0.0, core.NewVec2(0.5, 0.5), Radiance, SampleAll)
	if !ok {
		t.Fatal("sampling failed")
	}
	if !s.IsReflection() || !s.IsSpecular() {
		t.Errorf("expected specular reflection, got flags %v", s.Flags)
	}
	expected := core.NewVec3(-wo.X, -wo.Y, wo.Z)
	if s.Wi.Subtract(expected).Length() > 1e-12 {
		t.Errorf("specular reflection %v, expected %v", s.Wi, expected)
	}
	// The reflection branch keeps unit relative index
	if s.Eta != 1 {
		t.Errorf("reflection Eta = %f, expected 1", s.Eta)
	}

	// Force refraction with uc above the Fresnel probability
	s, ok = glass.Sample(wo, 0.999, core.NewVec2(0.5, 0.5), Radiance, SampleAll)
	if !ok {
		t.Fatal("sampling failed")
	}
	if !s.IsTransmission() || !s.IsSpecular() {
		t.Errorf("expected specular transmission, got flags %v", s.Flags)
	}
	if s.Wi.Z >= 0 {
		t.Errorf("transmission should cross the surface, got %v", s.Wi)
	}
	if math.Abs(s.Eta-1.5) > 1e-12 {
		t.Errorf("transmission Eta = %f, expected 1.5", s.Eta)
	}
	// Snell's law for the refracted direction
	if math.Abs(core.SinTheta(wo)-1.5*core.SinTheta(s.Wi)) > 1e-9 {
		t.Error("refracted direction violates Snell's law")
	}
}

func TestSmoothDielectricThroughput(t *testing.T) {
	// Each smooth sample carries unit throughput, modulo the radiance
	// scaling of transmission
	glass := NewSmoothDielectric(1.5)
	wo := core.NewVec3(0.3, -0.1, 0.95).Normalize()
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	for i := 0; i < 1000; i++ {
		s, ok := glass.Sample(wo, sampler.Get1D(), sampler.Get2D(), Radiance, SampleAll)
		if !ok {
			t.Fatal("sampling failed")
		}
		weight := s.F.Scale(core.AbsCosTheta(s.Wi) / s.PDF)
		expected := 1.0
		if s.IsTransmission() {
			expected = 1 / core.Sqr(s.Eta)
		}
		if math.Abs(weight[0]-expected) > 1e-9 {
			t.Fatalf("throughput %f, expected %f", weight[0], expected)
		}
	}
}

func TestSmoothDielectricDeltaOnly(t *testing.T) {
	glass := NewSmoothDielectric(1.5)
	wo := core.NewVec3(0, 0, 1)
	wi := core.NewVec3(0.5, 0, 0.866).Normalize()
	if !glass.F(wo, wi, Radiance).IsZero() {
		t.Error("a smooth dielectric has no finite scattering to evaluate")
	}
	if glass.PDF(wo, wi, Radiance, SampleAll) != 0 {
		t.Error("a smooth dielectric has no finite density")
	}
}

func TestRoughDielectricFAndPDFConsistency(t *testing.T) {
	d := NewDielectric(1.5, NewTrowbridgeReitz(0.3, 0.3))
	wo := core.NewVec3(0.2, 0.3, 0.93).Normalize()
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	for i := 0; i < 2000; i++ {
		s, ok := d.Sample(wo, sampler.Get1D(), sampler.Get2D(), Radiance, SampleAll)
		if !ok {
			continue
		}
		if s.Wi.Z == 0 {
			t.Fatal("sample with zero normal cosine")
		}
		pdf := d.PDF(wo, s.Wi, Radiance, SampleAll)
		if math.Abs(pdf-s.PDF) > 1e-6*math.Max(1, s.PDF) {
			t.Fatalf("PDF mismatch: %g vs %g", pdf, s.PDF)
		}
		f := d.F(wo, s.Wi, Radiance)
		if core.MaxSpectrumDiff(f, s.F) > 1e-6*math.Max(1, s.F.MaxComponent()) {
			t.Fatalf("F mismatch: %v vs %v", f, s.F)
		}
	}
}

func TestRoughDielectricReflectionReciprocity(t *testing.T) {
	d := NewDielectric(1.5, NewTrowbridgeReitz(0.4, 0.4))
	wo := core.NewVec3(0.5, 0.1, 0.86).Normalize()
	wi := core.NewVec3(-0.3, 0.4, 0.87).Normalize()
	if core.MaxSpectrumDiff(d.F(wo, wi, Radiance), d.F(wi, wo, Radiance)) > 1e-9 {
		t.Error("rough dielectric reflection should be reciprocal")
	}
}

func TestRoughDielectricEnergyConservation(t *testing.T) {
	// Monte Carlo furnace check: total scattered energy never exceeds one
	d := NewDielectric(1.5, NewTrowbridgeReitz(0.5, 0.5))
	wo := core.NewVec3(0.3, 0, 0.95).Normalize()
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	n := 50000
	sum := 0.0
	for i := 0; i < n; i++ {
		s, ok := d.Sample(wo, sampler.Get1D(), sampler.Get2D(), Radiance, SampleAll)
		if !ok {
			continue
		}
		weight := s.F.Average() * core.AbsCosTheta(s.Wi) / s.PDF
		if s.IsTransmission() {
			// Undo the radiance-mode scaling so energy is comparable
			weight *= core.Sqr(s.Eta)
		}
		sum += weight
	}
	if estimate := sum / float64(n); estimate > 1.02 {
		t.Errorf("scattered energy %f exceeds 1", estimate)
	}
}

func TestDielectricFlags(t *testing.T) {
	if f := NewSmoothDielectric(1.5).Flags(); !f.IsSpecular() || !f.IsReflective() || !f.IsTransmissive() {
		t.Errorf("smooth dielectric flags %v", f)
	}
	if f := NewDielectric(1.5, NewTrowbridgeReitz(0.3, 0.3)).Flags(); !f.IsGlossy() || f.IsSpecular() {
		t.Errorf("rough dielectric flags %v", f)
	}
	// Index-matched interfaces only ever transmit
	if f := NewSmoothDielectric(1).Flags(); f.IsReflective() || !f.IsTransmissive() {
		t.Errorf("index-matched flags %v", f)
	}
}

func TestDielectricRegularize(t *testing.T) {
	d := NewDielectric(1.5, NewTrowbridgeReitz(0.05, 0.05))
	d.Regularize()
	s, ok := d.Sample(core.NewVec3(0.2, 0, 0.98).Normalize(), 0.1, core.NewVec2(0.4, 0.6), Radiance, SampleAll)
	if !ok {
		t.Fatal("sampling failed after regularization")
	}
	if s.IsSpecular() {
		t.Error("regularized roughness should sample finite lobes")
	}
}

func TestThinDielectric(t *testing.T) {
	td := NewThinDielectric(1.5)
	wo := core.NewVec3(0, 0, 1)

	// No finite scattering component
	if !td.F(wo, core.NewVec3(0.3, 0, 0.95).Normalize(), Radiance).IsZero() {
		t.Error("thin dielectric F should be zero")
	}
	if td.PDF(wo, core.NewVec3(0.3, 0, 0.95).Normalize(), Radiance, SampleAll) != 0 {
		t.Error("thin dielectric PDF should be zero")
	}

	// At normal incidence for eta=1.5 the slab reflectance includes the
	// internal bounce series: R' = R + T^2 R / (1 - R^2)
	r := core.FrDielectric(1, 1.5)
	rSeries := r + core.Sqr(1-r)*r/(1-r*r)

	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	nRefl := 0
	n := 50000
	for i := 0; i < n; i++ {
		s, ok := td.Sample(wo, sampler.Get1D(), sampler.Get2D(), Radiance, SampleAll)
		if !ok {
			t.Fatal("thin dielectric sampling failed")
		}
		if !s.IsSpecular() {
			t.Fatal("thin dielectric samples must be specular")
		}
		if s.IsReflection() {
			if s.Wi != (core.NewVec3(0, 0, 1)) {
				t.Fatalf("reflection direction %v", s.Wi)
			}
			nRefl++
		} else if s.Wi != (core.NewVec3(0, 0, -1)) {
			t.Fatalf("transmission should pass straight through, got %v", s.Wi)
		}
	}
	frac := float64(nRefl) / float64(n)
	if math.Abs(frac-rSeries) > 0.01 {
		t.Errorf("reflection fraction %f, expected %f", frac, rSeries)
	}
}
