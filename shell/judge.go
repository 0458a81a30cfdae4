package shell

import (
	"errors"
	"fmt"

	"github.com/abiosoft/ishell"
	flag "github.com/ogier/pflag"

	"github.com/ddvk/kanahwr/hwr"
	"github.com/ddvk/kanahwr/raster"
)

func judgeCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "judge",
		Help: "grade a drawing, one image per stroke, usage: judge --char <id|sound> <stroke1.png> [stroke2.png...]",
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("judge", flag.ContinueOnError)
			var charArg string
			flagSet.StringVarP(&charArg, "char", "c", "", "the character that was drawn")
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
			target, err := parseChar(charArg)
			if err != nil {
				c.Err(err)
				return
			}

			vectors := make([][]float64, len(files))
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
				vectors[i] = grid.Vector()
			}

			v, err := hwr.Judge(ctx.bank, target, vectors)
			if err != nil {
				c.Err(err)
				return
			}

			if ctx.JSONOutput {
				if err := printJSON(c, VerdictToJSON(v)); err != nil {
					c.Err(err)
				}
				return
			}
			c.Printf("%s: %s\n", target, v.State)
			for i, ok := range v.PerStrokeCorrect {
				c.Printf("\tstroke %d: %v\n", i+1, ok)
			}
			for _, id := range v.MistakenFor {
				c.Printf("\tmistaken for %s\n", id)
			}
		},
	}
}
