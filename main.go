package main

import (
	"os"

	"github.com/df07/go-bsdf/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "bsdfview"
	app.Usage = "inspect scattering distribution functions"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a hemisphere map of a model's scattering distribution",
			Description: `
Evaluate a scattering model over the incident hemisphere for a fixed outgoing
direction and write the result as a grayscale PNG. Pixels map to directions
through the concentric disk warp; brightness is cosine-weighted and
gamma-mapped relative to the peak value.`,
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "size",
					Value: 512,
					Usage: "image width and height",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "bsdf.png",
					Usage: "image filename for the rendered map",
				},
			}, cmd.ModelFlags...),
			Action: cmd.RenderMap,
		},
		{
			Name:  "lobes",
			Usage: "sample a model and report the lobes its samples land in",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "samples",
					Value: 100000,
					Usage: "number of samples to draw",
				},
				cli.IntFlag{
					Name:  "seed",
					Value: 1,
					Usage: "random seed",
				},
			}, cmd.ModelFlags...),
			Action: cmd.Lobes,
		},
	}

	app.Run(os.Args)
}
