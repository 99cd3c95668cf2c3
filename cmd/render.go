package cmd

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/df07/go-bsdf/pkg/bxdf"
	"github.com/df07/go-bsdf/pkg/core"
	"github.com/urfave/cli"
)

// RenderMap writes a false-color hemisphere map of a model's scattering
// distribution for a fixed outgoing direction. Each pixel maps to an
// incident direction on the upper hemisphere via the concentric disk
// warp, so the full image covers every wi with wi.z > 0.
func RenderMap(ctx *cli.Context) error {
	setupLogging(ctx)

	model, err := modelFromContext(ctx)
	if err != nil {
		return err
	}

	size := ctx.Int("size")
	theta := ctx.Float64("theta") * math.Pi / 180
	wo := core.NewVec3(math.Sin(theta), 0, math.Cos(theta))

	logger.Noticef("rendering %dx%d hemisphere map for %s at theta=%.1f deg",
		size, size, ctx.String("model"), ctx.Float64("theta"))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	maxValue := 0.0
	values := make([]float64, size*size)

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			// Pixel center to a direction on the hemisphere
			u := core.NewVec2((float64(x)+0.5)/float64(size), (float64(y)+0.5)/float64(size))
			d := core.SampleUniformDiskConcentric(u)
			wiZ := math.Sqrt(math.Max(0, 1-d.X*d.X-d.Y*d.Y))
			if wiZ == 0 {
				continue
			}
			wi := core.NewVec3(d.X, d.Y, wiZ)

			f := model.F(wo, wi, bxdf.Radiance).Average() * core.AbsCosTheta(wi)
			values[y*size+x] = f
			if f > maxValue {
				maxValue = f
			}
		}
	}

	if maxValue == 0 {
		logger.Warning("distribution is zero everywhere, likely a delta-only model")
		maxValue = 1
	}

	// Tone-map with a simple gamma so glossy highlights stay visible
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v := math.Pow(values[y*size+x]/maxValue, 1/2.2)
			g := uint8(255 * core.Clamp(v, 0, 1))
			img.SetRGBA(x, y, color.RGBA{R: g, G: g, B: g, A: 255})
		}
	}

	out, err := os.Create(ctx.String("out"))
	if err != nil {
		return err
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		return err
	}
	logger.Noticef("wrote %s (peak value %.4f)", ctx.String("out"), maxValue)
	return nil
}
