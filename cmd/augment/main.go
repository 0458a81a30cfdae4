package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/ddvk/kanahwr/augment"
	"github.com/ddvk/kanahwr/dataset"
	"github.com/ddvk/kanahwr/log"
)

func main() {
	inputDir := flag.String("i", "", "dataset dir to augment")
	outputDir := flag.String("o", "", "dir for the augmented records")
	mode := flag.String("m", "sr", "s - shift, r - rotate, sr - both")
	test := flag.Bool("test", false, "augment the testing records")
	maxShift := flag.Int("shift", augment.MaxShift, "largest move in cells")
	workers := flag.Int("w", 4, "stroke files augmented at once")
	flag.Parse()

	log.InitLog()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, *inputDir, *outputDir, *mode, *test, *maxShift, *workers); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, inputDir, outputDir, mode string, test bool, maxShift, workers int) error {
	if inputDir == "" {
		return errors.New("missing input dir")
	}
	if outputDir == "" {
		outputDir = inputDir + "-augmented"
	}
	if outputDir == inputDir {
		return errors.New("output dir must differ from the input dir")
	}

	b := &augment.Batch{
		Source:   dataset.NewStore(inputDir, ""),
		Dest:     dataset.NewStore(outputDir, ""),
		MaxShift: maxShift,
		Workers:  workers,
	}
	switch mode {
	case "s":
		b.Shift = true
	case "r":
		b.Rotate = true
	case "sr", "rs":
		b.Shift, b.Rotate = true, true
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
	if test {
		b.Role = dataset.Test
	}

	written, err := b.Run(ctx)
	if err != nil {
		return err
	}
	for i, n := range written {
		fmt.Printf("stroke %d: %d records\n", i+1, n)
	}
	return nil
}
