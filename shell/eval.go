package shell

import (
	"context"

	"github.com/abiosoft/ishell"
	flag "github.com/ogier/pflag"

	"github.com/ddvk/kanahwr/report"
	"github.com/ddvk/kanahwr/train"
)

func (ctx *ShellCtxt) evaluator() *train.Evaluator {
	return &train.Evaluator{
		Store:   ctx.store,
		Network: ctx.cfg.Network(),
		Workers: int64(ctx.cfg.Workers),
	}
}

func evalCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "eval",
		Help: "test the networks, usage: eval [--stroke 1,2|all] [--top N]",
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("eval", flag.ContinueOnError)
			var strokeArg string
			var top int
			flagSet.StringVarP(&strokeArg, "stroke", "s", "all", "stroke indices to test")
			flagSet.IntVarP(&top, "top", "t", 5, "mistakes to list per stroke")
			if err := flagSet.Parse(c.Args); err != nil {
				if err != flag.ErrHelp {
					c.Err(err)
				}
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

			if ctx.JSONOutput {
				out := make([]map[string]interface{}, len(results))
				for i, r := range results {
					out[i] = map[string]interface{}{
						"stroke":   r.Stroke,
						"tested":   r.Tested,
						"correct":  r.Correct,
						"accuracy": r.Accuracy,
					}
				}
				if err := printJSON(c, out); err != nil {
					c.Err(err)
				}
				return
			}
			for _, r := range results {
				c.Println(r.String())
				for _, row := range report.ConfusionRows(r, top) {
					c.Printf("\t%s read as %s: %s\n", row[0], row[1], row[2])
				}
			}
		},
	}
}
