// Package kana holds the reference tables of the recognizer: the 46 hiragana,
// their stroke counts, the per-stroke output spaces and the similarity groups
// used to tolerate ambiguous early strokes.
package kana

import (
	"errors"
	"fmt"
)

// CharID identifies a hiragana character, 1..46.
type CharID int

const (
	// Count is the number of characters known to the recognizer.
	Count = 46
	// MaxStrokes is the highest stroke index with a classifier.
	MaxStrokes = 4
)

var ErrUnknownChar = errors.New("kana: unknown character")

// Char is one row of the character table.
type Char struct {
	ID      CharID
	Sound   string
	Kana    string
	Level   int
	Strokes int
}

var table = [Count]Char{
	{1, "n", "ん", 1, 1},
	{2, "a", "あ", 1, 3},
	{3, "i", "い", 1, 2},
	{4, "u", "う", 1, 2},
	{5, "e", "え", 1, 2},
	{6, "o", "お", 1, 3},
	{7, "ka", "か", 2, 3},
	{8, "ki", "き", 2, 3},
	{9, "ku", "く", 2, 1},
	{10, "ke", "け", 2, 3},
	{11, "ko", "こ", 2, 2},
	{12, "sa", "さ", 3, 2},
	{13, "shi", "し", 3, 1},
	{14, "su", "す", 3, 2},
	{15, "se", "せ", 3, 3},
	{16, "so", "そ", 3, 1},
	{17, "ta", "た", 4, 4},
	{18, "chi", "ち", 4, 2},
	{19, "tsu", "つ", 4, 1},
	{20, "te", "て", 4, 1},
	{21, "to", "と", 4, 2},
	{22, "na", "な", 5, 4},
	{23, "ni", "に", 5, 3},
	{24, "nu", "ぬ", 5, 2},
	{25, "ne", "ね", 5, 2},
	{26, "no", "の", 5, 1},
	{27, "ha", "は", 6, 3},
	{28, "hi", "ひ", 6, 1},
	{29, "fu", "ふ", 6, 3},
	{30, "he", "へ", 6, 1},
	{31, "ho", "ほ", 6, 4},
	{32, "ma", "ま", 7, 3},
	{33, "mi", "み", 7, 2},
	{34, "mu", "む", 7, 3},
	{35, "me", "め", 7, 2},
	{36, "mo", "も", 7, 3},
	{37, "ya", "や", 8, 3},
	{38, "yu", "ゆ", 8, 2},
	{39, "yo", "よ", 8, 2},
	{40, "ra", "ら", 9, 2},
	{41, "ri", "り", 9, 1},
	{42, "ru", "る", 9, 1},
	{43, "re", "れ", 9, 2},
	{44, "ro", "ろ", 9, 1},
	{45, "wa", "わ", 8, 2},
	{46, "wo", "を", 8, 3},
}

// Valid reports whether id is in the character table.
func (id CharID) Valid() bool {
	return id >= 1 && id <= Count
}

func (id CharID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("CharID(%d)", int(id))
	}
	return table[id-1].Sound
}

// Lookup returns the table row for id.
func Lookup(id CharID) (Char, error) {
	if !id.Valid() {
		return Char{}, fmt.Errorf("%w: %d", ErrUnknownChar, int(id))
	}
	return table[id-1], nil
}

// BySound finds a character by its romaji.
func BySound(sound string) (Char, bool) {
	for _, c := range table {
		if c.Sound == sound {
			return c, true
		}
	}
	return Char{}, false
}

// All returns the table in CharID order.
func All() []Char {
	out := make([]Char, Count)
	copy(out, table[:])
	return out
}

// StrokeCount is the number of strokes needed to complete id, 0 if unknown.
func StrokeCount(id CharID) int {
	if !id.Valid() {
		return 0
	}
	return table[id-1].Strokes
}

// Points awarded for a fully correct drawing of id.
func Points(id CharID) int {
	if !id.Valid() {
		return 0
	}
	return table[id-1].Level * 2
}
