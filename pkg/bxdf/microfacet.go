package bxdf

import (
	"math"

	"github.com/df07/go-bsdf/pkg/core"
)

// TrowbridgeReitz is the GGX microfacet normal distribution with the Smith
// height-correlated shadow-masking approximation. It is shared by the rough
// conductor, the rough dielectric and the coating interface of layered
// materials.
type TrowbridgeReitz struct {
	alphaX, alphaY float64
}

// NewTrowbridgeReitz creates a distribution with the given anisotropic
// roughness parameters
func NewTrowbridgeReitz(alphaX, alphaY float64) TrowbridgeReitz {
	return TrowbridgeReitz{alphaX: alphaX, alphaY: alphaY}
}

// RoughnessToAlpha maps user-facing roughness in [0,1] to the
// distribution's alpha parameter
func RoughnessToAlpha(roughness float64) float64 {
	return math.Sqrt(roughness)
}

// EffectivelySmooth reports whether the roughness is low enough that the
// surface should be treated as perfectly specular
func (d TrowbridgeReitz) EffectivelySmooth() bool {
	return math.Max(d.alphaX, d.alphaY) < 1e-3
}

// D returns the differential area of microfacets with surface normal wm
func (d TrowbridgeReitz) D(wm core.Vec3) float64 {
	tan2Theta := core.Tan2Theta(wm)
	if math.IsInf(tan2Theta, 0) {
		return 0
	}
	cos4Theta := core.Sqr(core.Cos2Theta(wm))
	if cos4Theta < 1e-16 {
		return 0
	}
	e := tan2Theta * (core.Sqr(core.CosPhi(wm)/d.alphaX) + core.Sqr(core.SinPhi(wm)/d.alphaY))
	return 1 / (math.Pi * d.alphaX * d.alphaY * cos4Theta * core.Sqr(1+e))
}

// Lambda is the Smith auxiliary function measuring invisible microfacet
// area along w
func (d TrowbridgeReitz) Lambda(w core.Vec3) float64 {
	tan2Theta := core.Tan2Theta(w)
	if math.IsInf(tan2Theta, 0) {
		return 0
	}
	alpha2 := core.Sqr(core.CosPhi(w)*d.alphaX) + core.Sqr(core.SinPhi(w)*d.alphaY)
	return (math.Sqrt(1+alpha2*tan2Theta) - 1) / 2
}

// G1 returns the masking function for a single direction
func (d TrowbridgeReitz) G1(w core.Vec3) float64 {
	return 1 / (1 + d.Lambda(w))
}

// G returns the joint shadow-masking term for a direction pair
func (d TrowbridgeReitz) G(wo, wi core.Vec3) float64 {
	return 1 / (1 + d.Lambda(wo) + d.Lambda(wi))
}

// VisibleD returns the distribution of normals visible from w
func (d TrowbridgeReitz) VisibleD(w, wm core.Vec3) float64 {
	return d.G1(w) / core.AbsCosTheta(w) * d.D(wm) * w.AbsDot(wm)
}

// PDF returns the density with which SampleWm draws wm for direction w
func (d TrowbridgeReitz) PDF(w, wm core.Vec3) float64 {
	return d.VisibleD(w, wm)
}

// SampleWm draws a microfacet normal from the distribution of normals
// visible along w
func (d TrowbridgeReitz) SampleWm(w core.Vec3, u core.Vec2) core.Vec3 {
	// Transform w to the hemispherical configuration
	wh := core.NewVec3(d.alphaX*w.X, d.alphaY*w.Y, w.Z).Normalize()
	if wh.Z < 0 {
		wh = wh.Negate()
	}

	// Orthonormal basis around wh
	var t1 core.Vec3
	if wh.Z < 0.999 {
		t1 = core.NewVec3(0, 0, 1).Cross(wh).Normalize()
	} else {
		t1 = core.NewVec3(1, 0, 0)
	}
	t2 := wh.Cross(t1)

	// Uniform disk point warped to the visible hemisphere
	p := core.SampleUniformDiskPolar(u)
	h := math.Sqrt(1 - core.Sqr(p.X))
	p.Y = core.Lerp((1+wh.Z)/2, h, p.Y)

	pz := math.Sqrt(math.Max(0, 1-p.X*p.X-p.Y*p.Y))
	nh := t1.Multiply(p.X).Add(t2.Multiply(p.Y)).Add(wh.Multiply(pz))
	return core.NewVec3(d.alphaX*nh.X, d.alphaY*nh.Y, math.Max(1e-6, nh.Z)).Normalize()
}

// Regularize widens near-specular roughness so sampled lobes keep a
// finite density. Call at most once, before concurrent use.
func (d *TrowbridgeReitz) Regularize() {
	if d.alphaX < 0.3 {
		d.alphaX = core.Clamp(2*d.alphaX, 0.1, 0.3)
	}
	if d.alphaY < 0.3 {
		d.alphaY = core.Clamp(2*d.alphaY, 0.1, 0.3)
	}
}
