package cmd

import (
	"fmt"

	"github.com/df07/go-bsdf/pkg/bxdf"
	"github.com/df07/go-bsdf/pkg/core"
	"github.com/urfave/cli"
)

// Spectral constants roughly matching gold, used for the conductor models
var (
	goldEta = core.Spectrum{0.2, 0.9, 1.4, 1.6}
	goldK   = core.Spectrum{3.9, 2.5, 2.1, 1.9}
)

// modelFromContext builds a scattering model from the shared CLI flags
func modelFromContext(ctx *cli.Context) (bxdf.BxDF, error) {
	name := ctx.String("model")
	eta := ctx.Float64("eta")
	alpha := bxdf.RoughnessToAlpha(ctx.Float64("roughness"))
	reflectance := core.NewSpectrum(ctx.Float64("reflectance"))
	distrib := bxdf.NewTrowbridgeReitz(alpha, alpha)

	switch name {
	case "diffuse":
		return bxdf.NewDiffuse(reflectance), nil
	case "conductor":
		return bxdf.NewConductor(distrib, goldEta, goldK), nil
	case "dielectric":
		return bxdf.NewDielectric(eta, distrib), nil
	case "thin-dielectric":
		return bxdf.NewThinDielectric(eta), nil
	case "coated-diffuse":
		return bxdf.NewCoatedDiffuse(bxdf.NewDielectric(eta, distrib),
			bxdf.NewDiffuse(reflectance), 0.01, core.Spectrum{}, 0, 10, 4), nil
	case "coated-conductor":
		return bxdf.NewCoatedConductor(bxdf.NewDielectric(eta, distrib),
			bxdf.NewConductor(distrib, goldEta, goldK), 0.01, core.Spectrum{}, 0, 10, 4), nil
	case "principled":
		color := core.Spectrum{0.8, 0.5, 0.3, 0.2}
		return bxdf.NewPrincipled(color, color.Average(), eta,
			ctx.Float64("roughness"), 0.5, 0.2, 0.1, 0, 0.2, 0.5, 0.8, false), nil
	case "hair":
		return bxdf.NewHair(0.3, 1.55,
			bxdf.SigmaAFromConcentration(1.3, 0.2), 0.3, 0.3, 2), nil
	case "normalized-fresnel":
		return bxdf.NewNormalizedFresnel(eta), nil
	}
	return nil, fmt.Errorf("unknown model %q", name)
}

// ModelFlags are shared by every command that builds a model
var ModelFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "model, m",
		Value: "diffuse",
		Usage: "scattering model: diffuse, conductor, dielectric, thin-dielectric, coated-diffuse, coated-conductor, principled, hair, normalized-fresnel",
	},
	cli.Float64Flag{
		Name:  "roughness",
		Value: 0.25,
		Usage: "surface roughness in [0, 1]",
	},
	cli.Float64Flag{
		Name:  "eta",
		Value: 1.5,
		Usage: "relative index of refraction",
	},
	cli.Float64Flag{
		Name:  "reflectance",
		Value: 0.5,
		Usage: "diffuse reflectance in [0, 1]",
	},
	cli.Float64Flag{
		Name:  "theta",
		Value: 30,
		Usage: "outgoing inclination in degrees",
	},
}
