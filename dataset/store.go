package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/ddvk/kanahwr/encoding/weights"
	"github.com/ddvk/kanahwr/kana"
	"github.com/ddvk/kanahwr/log"
)

// Role tells training records from testing records.
type Role int

const (
	Train Role = iota
	Test
)

func (r Role) String() string {
	if r == Test {
		return "test"
	}
	return "train"
}

const maxLine = 1 << 20

// Store keeps the records and weights as plain files:
//
//	<Dir>/stroke<N>.csv        training records
//	<Dir>/stroke<N>-test.csv   testing records
//	<WeightsDir>/weights-<N>.bin
type Store struct {
	Dir        string
	WeightsDir string
}

// NewStore uses dir for records; weights go to weightsDir, or dir if empty.
func NewStore(dir, weightsDir string) *Store {
	if weightsDir == "" {
		weightsDir = dir
	}
	return &Store{Dir: dir, WeightsDir: weightsDir}
}

// Path returns the record file of a stroke index and role.
func (s *Store) Path(stroke int, role Role) string {
	if role == Test {
		return filepath.Join(s.Dir, fmt.Sprintf("stroke%d-test.csv", stroke))
	}
	return filepath.Join(s.Dir, fmt.Sprintf("stroke%d.csv", stroke))
}

// WeightsPath returns the weight file of a stroke index.
func (s *Store) WeightsPath(stroke int) string {
	return filepath.Join(s.WeightsDir, fmt.Sprintf("weights-%d.bin", stroke))
}

// LoadTrain reads the training records of a stroke index in file order.
func (s *Store) LoadTrain(stroke int) ([]Sample, error) {
	return s.Load(stroke, Train)
}

// LoadTest reads the testing records of a stroke index in file order.
func (s *Store) LoadTest(stroke int) ([]Sample, error) {
	return s.Load(stroke, Test)
}

// Load reads every well formed record of a file. Malformed lines are logged
// and skipped.
func (s *Store) Load(stroke int, role Role) ([]Sample, error) {
	if !kana.ValidStroke(stroke) {
		return nil, fmt.Errorf("%w: %d", kana.ErrStrokeIndex, stroke)
	}

	path := s.Path(stroke, role)
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open %s records", role)
	}
	defer f.Close()

	samples, err := ReadRecords(f, path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	log.Trace.Printf("loaded %d %s records for stroke %d", len(samples), role, stroke)
	return samples, nil
}

// ReadRecords parses a record stream. name is used in log messages.
func ReadRecords(r io.Reader, name string) ([]Sample, error) {
	var samples []Sample
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)

	lineNo := 0
	skipped := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if len(line) == 0 {
			continue
		}
		sample, err := ParseRecord(line)
		if err != nil {
			skipped++
			log.Trace.Printf("%s:%d: %v", name, lineNo, err)
			continue
		}
		samples = append(samples, sample)
	}
	if err := sc.Err(); err != nil {
		return samples, err
	}
	if skipped > 0 {
		log.Warning.Printf("%s: skipped %d malformed records", name, skipped)
	}
	return samples, nil
}

// Append adds records to the end of a stroke's file.
func (s *Store) Append(stroke int, role Role, samples ...Sample) error {
	if !kana.ValidStroke(stroke) {
		return fmt.Errorf("%w: %d", kana.ErrStrokeIndex, stroke)
	}
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return errors.Wrap(err, "can't create dataset dir")
	}

	f, err := os.OpenFile(s.Path(stroke, role), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "can't open %s records", role)
	}
	w := bufio.NewWriter(f)
	for _, sample := range samples {
		w.WriteString(sample.String())
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return errors.Wrap(err, "can't append records")
	}
	return f.Close()
}

// AppendTrain adds one training record.
func (s *Store) AppendTrain(stroke int, sample Sample) error {
	return s.Append(stroke, Train, sample)
}

// LoadWeights reads a stroke's weights. A missing file is not an error: it
// returns nil so the caller can start from fresh weights.
func (s *Store) LoadWeights(stroke int) (*weights.Pair, error) {
	path := s.WeightsPath(stroke)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "can't read %s", path)
	}

	pair := &weights.Pair{}
	if err := pair.UnmarshalBinary(data); err != nil {
		return nil, errors.Wrapf(err, "corrupt weights %s", path)
	}
	if pair.Stroke != stroke {
		return nil, fmt.Errorf("dataset: %s holds weights of stroke %d", path, pair.Stroke)
	}
	return pair, nil
}

// SaveWeights replaces a stroke's weight file atomically.
func (s *Store) SaveWeights(stroke int, pair *weights.Pair) error {
	pair.Stroke = stroke
	data, err := pair.MarshalBinary()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.WeightsDir, 0755); err != nil {
		return errors.Wrap(err, "can't create weights dir")
	}

	path := s.WeightsPath(stroke)
	tmp, err := os.CreateTemp(s.WeightsDir, ".weights-*")
	if err != nil {
		return errors.Wrap(err, "can't create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "can't write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "can't replace %s", path)
	}
	log.Trace.Printf("saved weights for stroke %d to %s", stroke, path)
	return nil
}
