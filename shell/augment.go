package shell

import (
	"context"
	"errors"

	"github.com/abiosoft/ishell"
	flag "github.com/ogier/pflag"

	"github.com/ddvk/kanahwr/augment"
	"github.com/ddvk/kanahwr/dataset"
)

func augmentCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "augment",
		Help: "write shifted and rotated copies of the records, usage: augment [--shift] [--rotate] [--test] <output dir>",
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("augment", flag.ContinueOnError)
			b := augment.Batch{Source: ctx.store, MaxShift: ctx.cfg.MaxShift, Workers: ctx.cfg.Workers}
			var test bool
			flagSet.BoolVar(&b.Shift, "shift", false, "move within the margins of the final drawing")
			flagSet.BoolVar(&b.Rotate, "rotate", false, "rotate from -5 to 4 degrees")
			flagSet.BoolVar(&test, "test", false, "augment the testing records")
			if err := flagSet.Parse(c.Args); err != nil {
				if err != flag.ErrHelp {
					c.Err(err)
				}
				return
			}
			args := flagSet.Args()
			if len(args) != 1 {
				c.Err(errors.New("missing output dir"))
				return
			}
			if !b.Shift && !b.Rotate {
				c.Err(errors.New("nothing to do, use --shift and/or --rotate"))
				return
			}
			if args[0] == ctx.store.Dir {
				c.Err(errors.New("output dir must differ from the data dir"))
				return
			}
			if test {
				b.Role = dataset.Test
			}
			b.Dest = dataset.NewStore(args[0], "")

			written, err := b.Run(context.Background())
			if err != nil {
				c.Err(err)
				return
			}
			for i, n := range written {
				c.Printf("stroke %d: %d records\n", i+1, n)
			}
		},
	}
}
