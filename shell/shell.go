// Package shell is the operator console of the engine.
package shell

import (
	"fmt"
	"image"
	"os"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/ddvk/kanahwr/classifier"
	"github.com/ddvk/kanahwr/config"
	"github.com/ddvk/kanahwr/dataset"
	"github.com/ddvk/kanahwr/kana"
	"github.com/ddvk/kanahwr/version"
)

type ShellCtxt struct {
	cfg   config.Config
	store *dataset.Store
	// bank is replaced after training so judging sees the new weights
	bank       *classifier.Bank
	JSONOutput bool
}

func NewShellCtxt(cfg config.Config) *ShellCtxt {
	store := cfg.Store()
	return &ShellCtxt{
		cfg:   cfg,
		store: store,
		bank:  classifier.NewBank(store, cfg.Network()),
	}
}

func (ctx *ShellCtxt) prompt() string {
	return fmt.Sprintf("[%s]>", ctx.cfg.DataDir)
}

func (ctx *ShellCtxt) reloadModels() {
	ctx.bank = classifier.NewBank(ctx.store, ctx.cfg.Network())
}

// RunShell runs args as one command, or the interactive console without
// args.
func RunShell(cfg config.Config, args []string) error {
	shell := ishell.New()
	ctx := NewShellCtxt(cfg)
	ctx.JSONOutput = UseJSON()

	shell.SetPrompt(ctx.prompt())
	shell.AddCmd(charsCmd(ctx))
	shell.AddCmd(trainCmd(ctx))
	shell.AddCmd(evalCmd(ctx))
	shell.AddCmd(judgeCmd(ctx))
	shell.AddCmd(normalizeCmd(ctx))
	shell.AddCmd(previewCmd(ctx))
	shell.AddCmd(augmentCmd(ctx))
	shell.AddCmd(reportCmd(ctx))
	shell.AddCmd(versionCmd())

	if len(args) > 0 {
		return shell.Process(args...)
	}
	shell.Printf("kanahwr %s, data: %s\n", version.Version, cfg.DataDir)
	shell.Run()
	return nil
}

// UseJSON reports whether output should be JSON instead of text.
func UseJSON() bool {
	return os.Getenv("KANAHWR_JSON") == "1"
}

func versionCmd() *ishell.Cmd {
	return &ishell.Cmd{
		Name: "version",
		Help: "show the version",
		Func: func(c *ishell.Context) {
			c.Println(version.Version)
		},
	}
}

// parseChar accepts a CharID or a romaji sound.
func parseChar(s string) (kana.CharID, error) {
	if n, err := strconv.Atoi(s); err == nil {
		id := kana.CharID(n)
		if !id.Valid() {
			return 0, fmt.Errorf("%w: %d", kana.ErrUnknownChar, n)
		}
		return id, nil
	}
	if ch, ok := kana.BySound(strings.ToLower(s)); ok {
		return ch.ID, nil
	}
	return 0, fmt.Errorf("%w: %q", kana.ErrUnknownChar, s)
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// parseStrokes turns "1,3" or "all" into stroke indices.
func parseStrokes(s string) ([]int, error) {
	if s == "" || s == "all" {
		return []int{1, 2, 3, 4}, nil
	}
	var out []int
	for _, f := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || !kana.ValidStroke(n) {
			return nil, fmt.Errorf("%w: %q", kana.ErrStrokeIndex, f)
		}
		out = append(out, n)
	}
	return out, nil
}
