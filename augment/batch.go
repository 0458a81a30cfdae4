package augment

import (
	"context"
	"io/fs"

	"github.com/pkg/errors"
	"github.com/sourcegraph/conc/pool"

	"github.com/ddvk/kanahwr/dataset"
	"github.com/ddvk/kanahwr/kana"
	"github.com/ddvk/kanahwr/log"
)

// Finals pairs every record with the final drawing of the same character.
// files[s-1] holds the records of stroke file s in order. The k-th record of
// a character with c strokes in any file belongs to the same drawing as the
// k-th record of a c-stroke character in file c. Records without a partner
// are their own final drawing.
func Finals(files [kana.MaxStrokes][]dataset.Sample) [kana.MaxStrokes][]dataset.Sample {
	// finals[c-1] lists the records of c-stroke characters in file c
	var finals [kana.MaxStrokes][]dataset.Sample
	for c := 1; c <= kana.MaxStrokes; c++ {
		for _, s := range files[c-1] {
			if kana.StrokeCount(s.Label) == c {
				finals[c-1] = append(finals[c-1], s)
			}
		}
	}

	var out [kana.MaxStrokes][]dataset.Sample
	for i, records := range files {
		seen := make(map[int]int)
		out[i] = make([]dataset.Sample, len(records))
		for j, s := range records {
			c := kana.StrokeCount(s.Label)
			k := seen[c]
			seen[c]++
			if c >= 1 && c <= kana.MaxStrokes && k < len(finals[c-1]) {
				out[i][j] = finals[c-1][k]
				continue
			}
			log.Trace.Printf("stroke %d record %d: no final drawing for %s", i+1, j+1, s.Label)
			out[i][j] = s
		}
	}
	return out
}

// Batch writes augmented copies of the records of Source into Dest.
type Batch struct {
	Source *dataset.Store
	Dest   *dataset.Store
	Role   dataset.Role
	// Shift moves every record within the margins of its final drawing.
	Shift bool
	// Rotate adds the rotations of every record, shifted ones included.
	Rotate   bool
	MaxShift int
	Workers  int
}

// Run augments the four stroke files, one worker per file. It returns how
// many records were written per stroke.
func (b *Batch) Run(ctx context.Context) ([kana.MaxStrokes]int, error) {
	var written [kana.MaxStrokes]int

	var files [kana.MaxStrokes][]dataset.Sample
	for s := 1; s <= kana.MaxStrokes; s++ {
		records, err := b.Source.Load(s, b.Role)
		if errors.Is(err, fs.ErrNotExist) {
			log.Warning.Printf("no %s records for stroke %d", b.Role, s)
			continue
		}
		if err != nil {
			return written, errors.Wrapf(err, "stroke %d", s)
		}
		files[s-1] = records
	}
	finals := Finals(files)

	limit := b.MaxShift
	if limit <= 0 {
		limit = MaxShift
	}
	workers := b.Workers
	if workers < 1 {
		workers = 1
	}

	p := pool.New().WithMaxGoroutines(workers).WithErrors().WithContext(ctx)
	for i := range files {
		i := i
		if len(files[i]) == 0 {
			continue
		}
		p.Go(func(ctx context.Context) error {
			out, err := b.augment(ctx, files[i], finals[i], limit)
			if err != nil {
				return errors.Wrapf(err, "stroke %d", i+1)
			}
			if err := b.Dest.Append(i+1, b.Role, out...); err != nil {
				return err
			}
			written[i] = len(out)
			log.Info.Printf("stroke %d: %d records from %d", i+1, len(out), len(files[i]))
			return nil
		})
	}
	err := p.Wait()
	return written, err
}

func (b *Batch) augment(ctx context.Context, records, finals []dataset.Sample, limit int) ([]dataset.Sample, error) {
	var out []dataset.Sample
	for j, s := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		copies := []dataset.Sample{s}
		if b.Shift {
			copies = Shifts(s, finals[j], limit)
		}
		if b.Rotate {
			var rotated []dataset.Sample
			for _, c := range copies {
				rotated = append(rotated, Rotations(c)...)
			}
			copies = rotated
		}
		out = append(out, copies...)
	}
	return out, nil
}
