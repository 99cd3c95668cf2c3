package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestPowerHeuristic(t *testing.T) {
	tests := []struct {
		name     string
		nf       int
		fPdf     float64
		ng       int
		gPdf     float64
		expected float64
	}{
		{"equal PDFs", 1, 1.0, 1, 1.0, 0.5},
		{"first PDF zero", 1, 0.0, 1, 1.0, 0.0},
		{"second PDF zero", 1, 1.0, 1, 0.0, 1.0},
		{"first PDF dominant", 1, 0.8, 1, 0.2, 0.941176},
		{"both PDFs zero", 1, 0.0, 1, 0.0, 0.0},
		{"unequal sample counts", 4, 0.5, 1, 2.0, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := PowerHeuristic(tt.nf, tt.fPdf, tt.ng, tt.gPdf)
			if math.Abs(result-tt.expected) > 1e-6 {
				t.Errorf("PowerHeuristic(%d, %f, %d, %f) = %f, expected %f",
					tt.nf, tt.fPdf, tt.ng, tt.gPdf, result, tt.expected)
			}
		})
	}
}

func TestHashSamplerDeterminism(t *testing.T) {
	s1 := NewHashSampler(0.1, 0.2, 0.3)
	s2 := NewHashSampler(0.1, 0.2, 0.3)

	for i := 0; i < 10; i++ {
		a, b := s1.Get1D(), s2.Get1D()
		if a != b {
			t.Fatalf("draw %d: identical seeds diverged: %v vs %v", i, a, b)
		}
	}
}

func TestHashSamplerVariesWithArguments(t *testing.T) {
	s1 := NewHashSampler(0.1, 0.2, 0.3)
	s2 := NewHashSampler(0.1, 0.2, 0.30001)

	// Streams from different arguments should decorrelate almost surely
	same := 0
	for i := 0; i < 10; i++ {
		if s1.Get1D() == s2.Get1D() {
			same++
		}
	}
	if same == 10 {
		t.Error("different hash arguments produced an identical sample stream")
	}
}

func TestHashFloatsStable(t *testing.T) {
	h1 := HashFloats(7, 1.5, -2.5)
	h2 := HashFloats(7, 1.5, -2.5)
	if h1 != h2 {
		t.Errorf("HashFloats is not stable: %x vs %x", h1, h2)
	}
	if HashFloats(7, 1.5, -2.5) == HashFloats(8, 1.5, -2.5) {
		t.Error("HashFloats ignored the seed")
	}
}

func TestSampleCosineHemisphere(t *testing.T) {
	sampler := NewRandomSampler(rand.New(rand.NewSource(42)))

	// All samples land in the upper hemisphere on the unit sphere
	sum := 0.0
	n := 10000
	for i := 0; i < n; i++ {
		w := SampleCosineHemisphere(sampler.Get2D())
		if w.Z < 0 {
			t.Fatalf("sample below the horizon: %v", w)
		}
		if math.Abs(w.Length()-1) > 1e-9 {
			t.Fatalf("sample not unit length: %v", w)
		}
		sum += w.Z
	}

	// E[cos theta] under cosine weighting is 2/3
	mean := sum / float64(n)
	if math.Abs(mean-2.0/3.0) > 0.01 {
		t.Errorf("mean cosine %f, expected ~0.667", mean)
	}
}

func TestCosineHemispherePDFNormalization(t *testing.T) {
	// Integrate the density over the hemisphere with uniform quadrature
	n := 1000
	integral := 0.0
	for i := 0; i < n; i++ {
		cosTheta := (float64(i) + 0.5) / float64(n)
		// 2*pi*sin(theta) d(theta) band, expressed in cos theta
		integral += CosineHemispherePDF(cosTheta) * 2 * math.Pi / float64(n)
	}
	if math.Abs(integral-1) > 1e-3 {
		t.Errorf("cosine hemisphere PDF integrates to %f, expected 1", integral)
	}
}

func TestSampleUniformDiskConcentric(t *testing.T) {
	sampler := NewRandomSampler(rand.New(rand.NewSource(42)))
	for i := 0; i < 10000; i++ {
		d := SampleUniformDiskConcentric(sampler.Get2D())
		if d.X*d.X+d.Y*d.Y > 1+1e-9 {
			t.Fatalf("disk sample outside unit disk: %v", d)
		}
	}
	if (SampleUniformDiskConcentric(NewVec2(0.5, 0.5)) != Vec2{}) {
		t.Error("center sample should map to the origin")
	}
}

func TestSampleUniformSphere(t *testing.T) {
	sampler := NewRandomSampler(rand.New(rand.NewSource(42)))
	var sum Vec3
	n := 20000
	for i := 0; i < n; i++ {
		w := SampleUniformSphere(sampler.Get2D())
		if math.Abs(w.Length()-1) > 1e-9 {
			t.Fatalf("sphere sample not unit length: %v", w)
		}
		sum = sum.Add(w)
	}
	// Mean direction of a uniform sphere distribution is the origin
	if sum.Multiply(1 / float64(n)).Length() > 0.02 {
		t.Errorf("sphere samples are biased: mean %v", sum.Multiply(1/float64(n)))
	}
}

func TestSampleExponential(t *testing.T) {
	sampler := NewRandomSampler(rand.New(rand.NewSource(42)))
	a := 2.5
	sum := 0.0
	n := 50000
	for i := 0; i < n; i++ {
		x := SampleExponential(sampler.Get1D(), a)
		if x < 0 {
			t.Fatalf("negative exponential sample: %f", x)
		}
		sum += x
	}
	// Mean of Exp(a) is 1/a
	mean := sum / float64(n)
	if math.Abs(mean-1/a) > 0.01 {
		t.Errorf("exponential mean %f, expected %f", mean, 1/a)
	}
}
