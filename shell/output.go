package shell

import (
	"encoding/json"

	"github.com/abiosoft/ishell"

	"github.com/ddvk/kanahwr/hwr"
	"github.com/ddvk/kanahwr/kana"
)

type CharJSON struct {
	ID      int    `json:"id"`
	Sound   string `json:"sound"`
	Kana    string `json:"kana"`
	Level   int    `json:"level"`
	Strokes int    `json:"strokes"`
	Points  int    `json:"points"`
}

func CharToJSON(ch kana.Char) CharJSON {
	return CharJSON{
		ID:      int(ch.ID),
		Sound:   ch.Sound,
		Kana:    ch.Kana,
		Level:   ch.Level,
		Strokes: ch.Strokes,
		Points:  kana.Points(ch.ID),
	}
}

type VerdictJSON struct {
	Target           string   `json:"target"`
	State            string   `json:"state"`
	Success          bool     `json:"success"`
	CorrectStrokes   []int    `json:"correct_strokes"`
	IncorrectStrokes []int    `json:"incorrect_strokes"`
	MistakenFor      []string `json:"mistaken_for"`
	Incomplete       bool     `json:"incomplete,omitempty"`
}

func VerdictToJSON(v hwr.Verdict) VerdictJSON {
	mistaken := make([]string, len(v.MistakenFor))
	for i, id := range v.MistakenFor {
		mistaken[i] = id.String()
	}
	return VerdictJSON{
		Target:           v.Target.String(),
		State:            v.State.String(),
		Success:          v.Success(),
		CorrectStrokes:   v.CorrectStrokes(),
		IncorrectStrokes: v.IncorrectStrokes(),
		MistakenFor:      mistaken,
		Incomplete:       v.Incomplete,
	}
}

func printJSON(c *ishell.Context, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	c.Println(string(data))
	return nil
}
