package shell

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/abiosoft/ishell"
	flag "github.com/ogier/pflag"

	"github.com/ddvk/kanahwr/dataset"
	"github.com/ddvk/kanahwr/raster"
)

func previewCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "preview",
		Help: "render a record as an image, usage: preview [--test] [--format png|pgm] [--scale N] <stroke> <record> <output>",
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("preview", flag.ContinueOnError)
			var test bool
			var opts raster.PreviewOptions
			flagSet.BoolVar(&test, "test", false, "read the testing records")
			flagSet.StringVarP(&opts.Format, "format", "f", raster.PNG, "png or pgm")
			flagSet.IntVarP(&opts.Scale, "scale", "s", 10, "pixels per cell")
			if err := flagSet.Parse(c.Args); err != nil {
				if err != flag.ErrHelp {
					c.Err(err)
				}
				return
			}
			args := flagSet.Args()
			if len(args) != 3 {
				c.Err(errors.New("usage: preview <stroke> <record> <output>"))
				return
			}
			stroke, err := strconv.Atoi(args[0])
			if err != nil {
				c.Err(err)
				return
			}
			n, err := strconv.Atoi(args[1])
			if err != nil {
				c.Err(err)
				return
			}

			role := dataset.Train
			if test {
				role = dataset.Test
			}
			samples, err := ctx.store.Load(stroke, role)
			if err != nil {
				c.Err(err)
				return
			}
			if n < 1 || n > len(samples) {
				c.Err(fmt.Errorf("record %d of %d", n, len(samples)))
				return
			}

			f, err := os.Create(args[2])
			if err != nil {
				c.Err(err)
				return
			}
			defer f.Close()
			if err := raster.WritePreview(f, samples[n-1].Pixels, opts); err != nil {
				c.Err(err)
				return
			}
			c.Printf("%s (%s) written to %s\n", samples[n-1].Label, role, args[2])
		},
	}
}
