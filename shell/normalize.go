package shell

import (
	"errors"
	"fmt"

	"github.com/abiosoft/ishell"
	flag "github.com/ogier/pflag"

	"github.com/ddvk/kanahwr/dataset"
	"github.com/ddvk/kanahwr/raster"
)

func normalizeCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "normalize",
		Help: "reduce stroke images to records, usage: normalize --char <id|sound> [--save] [--test] <stroke1.png> [stroke2.png...]",
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("normalize", flag.ContinueOnError)
			var charArg string
			var save, test bool
			flagSet.StringVarP(&charArg, "char", "c", "", "the character that was drawn")
			flagSet.BoolVar(&save, "save", false, "append the records to the stroke files")
			flagSet.BoolVar(&test, "test", false, "save as testing records")
			if err := flagSet.Parse(c.Args); err != nil {
				if err != flag.ErrHelp {
					c.Err(err)
				}
				return
			}
			files := flagSet.Args()
			if charArg == "" || len(files) == 0 {
				c.Err(errors.New("missing character or images"))
				return
			}
			if save && len(files) > 4 {
				c.Err(errors.New("a drawing has at most 4 strokes"))
				return
			}
			label, err := parseChar(charArg)
			if err != nil {
				c.Err(err)
				return
			}
			role := dataset.Train
			if test {
				role = dataset.Test
			}

			for i, f := range files {
				img, err := loadImage(f)
				if err != nil {
					c.Err(err)
					return
				}
				grid, err := raster.Normalize(img, ctx.cfg.Raster())
				if err != nil {
					c.Err(fmt.Errorf("%s: %w", f, err))
					return
				}
				sample := dataset.FromGrid(label, grid)
				if !save {
					c.Println(sample.String())
					continue
				}
				if err := ctx.store.Append(i+1, role, sample); err != nil {
					c.Err(err)
					return
				}
			}
			if save {
				c.Printf("saved %d %s records of %s\n", len(files), role, label)
			}
		},
	}
}
