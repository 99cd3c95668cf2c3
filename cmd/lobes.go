package cmd

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/df07/go-bsdf/pkg/bxdf"
	"github.com/df07/go-bsdf/pkg/core"
	"github.com/urfave/cli"
)

// Lobes samples a model many times and reports which scattering lobes the
// samples landed in, along with the mean sampled throughput. It is a quick
// sanity check that a model's Flags match what Sample actually produces.
func Lobes(ctx *cli.Context) error {
	setupLogging(ctx)

	model, err := modelFromContext(ctx)
	if err != nil {
		return err
	}

	theta := ctx.Float64("theta") * math.Pi / 180
	wo := core.NewVec3(math.Sin(theta), 0, math.Cos(theta))
	n := ctx.Int("samples")

	logger.Noticef("drawing %d samples from %s at theta=%.1f deg",
		n, ctx.String("model"), ctx.Float64("theta"))

	counts := map[string]int{}
	throughput := 0.0
	failed := 0

	sampler := core.NewRandomSampler(rand.New(rand.NewSource(int64(ctx.Int("seed")))))
	for i := 0; i < n; i++ {
		s, ok := model.Sample(wo, sampler.Get1D(), sampler.Get2D(), bxdf.Radiance, bxdf.SampleAll)
		if !ok {
			failed++
			continue
		}
		counts[describeFlags(s.Flags)]++
		if pdf, exact := s.ExactPDF(); exact && pdf > 0 {
			throughput += s.F.Average() * core.AbsCosTheta(s.Wi) / pdf
		}
	}

	fmt.Printf("model flags: %s\n", describeFlags(model.Flags()))
	for flags, count := range counts {
		fmt.Printf("  %7.3f%%  %s\n", 100*float64(count)/float64(n), flags)
	}
	if failed > 0 {
		fmt.Printf("  %7.3f%%  no sample\n", 100*float64(failed)/float64(n))
	}
	fmt.Printf("mean throughput: %.4f\n", throughput/float64(n))
	return nil
}

func describeFlags(f bxdf.Flags) string {
	out := ""
	add := func(name string) {
		if out != "" {
			out += "|"
		}
		out += name
	}
	if f.IsReflective() {
		add("reflection")
	}
	if f.IsTransmissive() {
		add("transmission")
	}
	if f.IsDiffuse() {
		add("diffuse")
	}
	if f.IsGlossy() {
		add("glossy")
	}
	if f.IsSpecular() {
		add("specular")
	}
	if out == "" {
		out = "unset"
	}
	return out
}
