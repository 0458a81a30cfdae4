// Package report renders evaluation results and dataset previews as a PDF.
package report

import (
	"fmt"
	"image"
	"io"
	"time"

	"github.com/unidoc/unipdf/v3/creator"
	"golang.org/x/image/draw"

	"github.com/ddvk/kanahwr/dataset"
	"github.com/ddvk/kanahwr/kana"
	"github.com/ddvk/kanahwr/log"
	"github.com/ddvk/kanahwr/raster"
	"github.com/ddvk/kanahwr/train"
	"github.com/ddvk/kanahwr/version"
)

const (
	margin     = 40.0
	thumbSize  = 56.0
	thumbGap   = 14.0
	thumbsWide = 7
)

type Options struct {
	Title string
	// TopConfusions limits the confusions listed per stroke.
	TopConfusions  int
	AddPageNumbers bool
}

// Generator writes one report file.
type Generator struct {
	outputFilePath string
	options        Options
}

func CreateGenerator(outputFilePath string, options Options) *Generator {
	if options.Title == "" {
		options.Title = "Stroke classifier evaluation"
	}
	if options.TopConfusions <= 0 {
		options.TopConfusions = 10
	}
	return &Generator{outputFilePath: outputFilePath, options: options}
}

// Generate writes the report of results, followed by previews of samples.
func (g *Generator) Generate(results []train.Result, samples []dataset.Sample) error {
	c, err := g.build(results, samples)
	if err != nil {
		return err
	}
	log.Info.Printf("writing report to %s", g.outputFilePath)
	return c.WriteToFile(g.outputFilePath)
}

// Write is Generate to a writer.
func (g *Generator) Write(w io.Writer, results []train.Result, samples []dataset.Sample) error {
	c, err := g.build(results, samples)
	if err != nil {
		return err
	}
	return c.Write(w)
}

func (g *Generator) build(results []train.Result, samples []dataset.Sample) (*creator.Creator, error) {
	c := creator.New()
	c.SetPageSize(creator.PageSizeA4)
	c.SetPageMargins(margin, margin, margin, margin)

	if g.options.AddPageNumbers {
		c.DrawFooter(func(block *creator.Block, args creator.FooterFunctionArgs) {
			p := c.NewParagraph(fmt.Sprintf("%d / %d", args.PageNum, args.TotalPages))
			p.SetFontSize(8)
			p.SetPos(block.Width()-margin-20, block.Height()-20)
			block.Draw(p)
		})
	}

	c.NewPage()
	title := c.NewParagraph(g.options.Title)
	title.SetFontSize(18)
	title.SetMargins(0, 0, 0, 6)
	if err := c.Draw(title); err != nil {
		return nil, err
	}
	sub := c.NewParagraph(fmt.Sprintf("kanahwr %s, %s", version.Version, time.Now().Format("2006-01-02 15:04")))
	sub.SetFontSize(9)
	sub.SetMargins(0, 0, 0, 14)
	if err := c.Draw(sub); err != nil {
		return nil, err
	}

	if err := g.drawTable(c, []string{"Stroke", "Tested", "Correct", "Accuracy"}, SummaryRows(results)); err != nil {
		return nil, err
	}

	for _, r := range results {
		rows := ConfusionRows(r, g.options.TopConfusions)
		if len(rows) == 0 {
			continue
		}
		h := c.NewParagraph(fmt.Sprintf("Stroke %d: most frequent mistakes", r.Stroke))
		h.SetFontSize(12)
		h.SetMargins(0, 0, 16, 6)
		if err := c.Draw(h); err != nil {
			return nil, err
		}
		if err := g.drawTable(c, []string{"Drawn", "Read as", "Count"}, rows); err != nil {
			return nil, err
		}
	}

	if len(samples) > 0 {
		if err := g.drawSamples(c, samples); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (g *Generator) drawTable(c *creator.Creator, header []string, rows [][]string) error {
	table := c.NewTable(len(header))
	cell := func(text string, size float64) error {
		p := c.NewParagraph(text)
		p.SetFontSize(size)
		cl := table.NewCell()
		cl.SetBorder(creator.CellBorderSideAll, creator.CellBorderStyleSingle, 0.5)
		cl.SetIndent(4)
		return cl.SetContent(p)
	}
	for _, h := range header {
		if err := cell(h, 10); err != nil {
			return err
		}
	}
	for _, row := range rows {
		for _, v := range row {
			if err := cell(v, 9); err != nil {
				return err
			}
		}
	}
	return c.Draw(table)
}

// drawSamples lays the previews out in a grid, a new page when one is full.
func (g *Generator) drawSamples(c *creator.Creator, samples []dataset.Sample) error {
	c.NewPage()
	h := c.NewParagraph(fmt.Sprintf("Samples (%d)", len(samples)))
	h.SetFontSize(12)
	if err := c.Draw(h); err != nil {
		return err
	}

	top := margin + 30
	x, y := margin, top
	for i, s := range samples {
		if i > 0 && i%thumbsWide == 0 {
			x = margin
			y += thumbSize + thumbGap + 10
		}
		if y+thumbSize+thumbGap > c.Height()-margin {
			c.NewPage()
			x, y = margin, margin
		}

		gray, err := raster.Render(s.Pixels)
		if err != nil {
			return fmt.Errorf("sample %d: %w", i, err)
		}
		rgba := image.NewRGBA(gray.Bounds())
		draw.Draw(rgba, rgba.Bounds(), gray, image.Point{}, draw.Src)

		img, err := c.NewImageFromGoImage(rgba)
		if err != nil {
			return err
		}
		img.ScaleToWidth(thumbSize)
		img.SetPos(x, y)
		if err := c.Draw(img); err != nil {
			return err
		}

		label := c.NewParagraph(s.Label.String())
		label.SetFontSize(8)
		label.SetPos(x, y+thumbSize+2)
		if err := c.Draw(label); err != nil {
			return err
		}
		x += thumbSize + thumbGap
	}
	return nil
}

// SummaryRows formats one row per result and a total row.
func SummaryRows(results []train.Result) [][]string {
	var rows [][]string
	tested, correct := 0, 0
	for _, r := range results {
		rows = append(rows, []string{
			fmt.Sprint(r.Stroke),
			fmt.Sprint(r.Tested),
			fmt.Sprint(r.Correct),
			percent(r.Correct, r.Tested),
		})
		tested += r.Tested
		correct += r.Correct
	}
	if len(results) > 1 {
		rows = append(rows, []string{"all", fmt.Sprint(tested), fmt.Sprint(correct), percent(correct, tested)})
	}
	return rows
}

// ConfusionRows lists the n most frequent mistakes of a result by sound.
func ConfusionRows(r train.Result, n int) [][]string {
	var rows [][]string
	for _, c := range r.TopConfusions(n) {
		rows = append(rows, []string{sound(c.Truth), sound(c.Predicted), fmt.Sprint(c.Count)})
	}
	return rows
}

func sound(id kana.CharID) string {
	ch, err := kana.Lookup(id)
	if err != nil {
		return fmt.Sprint(int(id))
	}
	return fmt.Sprintf("%s (%d)", ch.Sound, id)
}

func percent(n, of int) string {
	if of == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(n)*100/float64(of))
}
