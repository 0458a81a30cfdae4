package shell

import (
	"context"
	"errors"

	"github.com/abiosoft/ishell"
	flag "github.com/ogier/pflag"

	"github.com/ddvk/kanahwr/dataset"
	"github.com/ddvk/kanahwr/report"
)

func reportCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "report",
		Help: "write the evaluation as pdf, usage: report [--stroke 1,2|all] [--samples N] [--page-numbers] <output.pdf>",
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("report", flag.ContinueOnError)
			var strokeArg string
			var samples int
			var opts report.Options
			flagSet.StringVarP(&strokeArg, "stroke", "s", "all", "stroke indices to test")
			flagSet.IntVarP(&samples, "samples", "n", 0, "previews of the first testing records of each stroke")
			flagSet.IntVarP(&opts.TopConfusions, "top", "t", 10, "mistakes to list per stroke")
			flagSet.BoolVarP(&opts.AddPageNumbers, "page-numbers", "p", false, "number the pages")
			if err := flagSet.Parse(c.Args); err != nil {
				if err != flag.ErrHelp {
					c.Err(err)
				}
				return
			}
			args := flagSet.Args()
			if len(args) != 1 {
				c.Err(errors.New("missing output file"))
				return
			}
			strokes, err := parseStrokes(strokeArg)
			if err != nil {
				c.Err(err)
				return
			}

			results, err := ctx.evaluator().EvaluateAll(context.Background(), strokes)
			if err != nil {
				c.Err(err)
				return
			}

			var previews []dataset.Sample
			if samples > 0 {
				for _, s := range strokes {
					records, err := ctx.store.LoadTest(s)
					if err != nil {
						c.Err(err)
						return
					}
					if len(records) > samples {
						records = records[:samples]
					}
					previews = append(previews, records...)
				}
			}

			if err := report.CreateGenerator(args[0], opts).Generate(results, previews); err != nil {
				c.Err(err)
				return
			}
			c.Println("OK")
		},
	}
}
