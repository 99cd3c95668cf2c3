package core

import "math"

// SpectrumSamples is the fixed number of wavelength samples carried by a Spectrum.
const SpectrumSamples = 4

// Spectrum holds per-wavelength scattering ratios for a fixed set of
// wavelength samples. The core treats the wavelengths themselves as opaque;
// it only adds, scales and compares components. Components are non-negative
// for physically valid results, and callers must tolerate exact zero.
type Spectrum [SpectrumSamples]float64

// NewSpectrum creates a spectrum with every component set to c
func NewSpectrum(c float64) Spectrum {
	var s Spectrum
	for i := range s {
		s[i] = c
	}
	return s
}

// Add returns the component-wise sum of two spectra
func (s Spectrum) Add(other Spectrum) Spectrum {
	for i := range s {
		s[i] += other[i]
	}
	return s
}

// Mul returns the component-wise product of two spectra
func (s Spectrum) Mul(other Spectrum) Spectrum {
	for i := range s {
		s[i] *= other[i]
	}
	return s
}

// Scale returns the spectrum with every component multiplied by f
func (s Spectrum) Scale(f float64) Spectrum {
	for i := range s {
		s[i] *= f
	}
	return s
}

// Div returns the spectrum with every component divided by f
func (s Spectrum) Div(f float64) Spectrum {
	for i := range s {
		s[i] /= f
	}
	return s
}

// MaxComponent returns the largest component value
func (s Spectrum) MaxComponent() float64 {
	m := s[0]
	for _, v := range s[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Average returns the mean of the component values
func (s Spectrum) Average() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v
	}
	return sum / SpectrumSamples
}

// IsZero reports whether every component is exactly zero
func (s Spectrum) IsZero() bool {
	for _, v := range s {
		if v != 0 {
			return false
		}
	}
	return true
}

// LerpSpectrum interpolates component-wise between a and b by t
func LerpSpectrum(t float64, a, b Spectrum) Spectrum {
	for i := range a {
		a[i] += t * (b[i] - a[i])
	}
	return a
}

// MaxSpectrumDiff returns the largest absolute component difference,
// useful for tolerance checks in tests
func MaxSpectrumDiff(a, b Spectrum) float64 {
	m := 0.0
	for i := range a {
		if d := math.Abs(a[i] - b[i]); d > m {
			m = d
		}
	}
	return m
}
