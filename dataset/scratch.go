package dataset

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Scratch keeps the drawing a user is currently submitting, one record per
// stroke. Each user has their own file; nothing removes abandoned ones.
type Scratch struct {
	Dir string
}

// Path returns the scratch file of a user. The name is the hex encoding of
// the identity, so distinct users never share a file.
func (s *Scratch) Path(user string) string {
	name := hex.EncodeToString([]byte(user))
	if name == "" {
		name = "_"
	}
	return filepath.Join(s.Dir, name+".csv")
}

// Write stores stroke n of the user's drawing. The first stroke starts a new
// drawing, later strokes are appended.
func (s *Scratch) Write(user string, n int, sample Sample) error {
	if n < 1 {
		return fmt.Errorf("dataset: stroke number %d", n)
	}
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return errors.Wrap(err, "can't create scratch dir")
	}

	flag := os.O_APPEND | os.O_CREATE | os.O_WRONLY
	if n == 1 {
		flag = os.O_TRUNC | os.O_CREATE | os.O_WRONLY
	}
	f, err := os.OpenFile(s.Path(user), flag, 0644)
	if err != nil {
		return errors.Wrapf(err, "can't open scratch drawing of %s", user)
	}
	if _, err := f.WriteString(sample.String() + "\n"); err != nil {
		f.Close()
		return errors.Wrap(err, "can't write stroke")
	}
	return f.Close()
}

// Load returns the strokes of the user's drawing in order.
func (s *Scratch) Load(user string) ([]Sample, error) {
	path := s.Path(user)
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open scratch drawing of %s", user)
	}
	defer f.Close()
	return ReadRecords(f, path)
}

// Remove deletes the user's drawing.
func (s *Scratch) Remove(user string) error {
	err := os.Remove(s.Path(user))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
