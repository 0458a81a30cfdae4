package shell

import (
	"context"

	"github.com/abiosoft/ishell"
	flag "github.com/ogier/pflag"

	"github.com/ddvk/kanahwr/train"
)

func trainCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "train",
		Help: "train the networks, usage: train [--epochs N] [--stroke 1,2|all]",
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("train", flag.ContinueOnError)
			var epochs int
			var strokeArg string
			flagSet.IntVarP(&epochs, "epochs", "e", ctx.cfg.Epochs, "passes over the training records")
			flagSet.StringVarP(&strokeArg, "stroke", "s", "all", "stroke indices to train")
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

			trainer := train.NewTrainer(ctx.store, ctx.cfg.Network(), ctx.cfg.Seed)
			for e := 1; e <= epochs; e++ {
				for _, s := range strokes {
					stats, err := trainer.Epoch(context.Background(), s)
					if err != nil {
						c.Err(err)
						return
					}
					c.Printf("epoch %d stroke %d: %d trained, %d skipped\n", e, s, stats.Trained, stats.Skipped)
				}
			}
			ctx.reloadModels()
			c.Println("OK")
		},
	}
}
