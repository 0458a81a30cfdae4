package shell

import (
	"github.com/abiosoft/ishell"
	flag "github.com/ogier/pflag"

	"github.com/ddvk/kanahwr/kana"
)

func charsCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "chars",
		Help: "list the characters, usage: chars [--level N] [--strokes N]",
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("chars", flag.ContinueOnError)
			var level, strokes int
			flagSet.IntVarP(&level, "level", "l", 0, "only characters of this level")
			flagSet.IntVarP(&strokes, "strokes", "s", 0, "only characters with this many strokes")
			if err := flagSet.Parse(c.Args); err != nil {
				if err != flag.ErrHelp {
					c.Err(err)
				}
				return
			}

			var chars []CharJSON
			for _, ch := range kana.All() {
				if level > 0 && ch.Level != level {
					continue
				}
				if strokes > 0 && ch.Strokes != strokes {
					continue
				}
				chars = append(chars, CharToJSON(ch))
			}

			if ctx.JSONOutput {
				if err := printJSON(c, chars); err != nil {
					c.Err(err)
				}
				return
			}
			for _, ch := range chars {
				c.Printf("%2d\t%s\t%s\tlevel %d\t%d strokes\n", ch.ID, ch.Kana, ch.Sound, ch.Level, ch.Strokes)
			}
		},
	}
}
