package kana

// Characters that look alike after the first stroke.
var similarFirst = [][]CharID{
	{45, 27, 23, 43, 3, 25, 10, 31},
	{40, 4, 5, 32, 22, 17, 12, 2, 18, 8, 34, 14, 15, 11, 6, 46},
	{36, 39, 29},
	{24, 35},
}

// Characters that look alike after the second stroke.
var similarSecond = [][]CharID{
	{32, 36, 8},
	{17, 22},
	{27, 31, 23},
}

// SimilarGroups returns the similarity groups applied at a stroke index.
// Only the first two strokes have any.
func SimilarGroups(stroke int) [][]CharID {
	switch stroke {
	case 1:
		return similarFirst
	case 2:
		return similarSecond
	}
	return nil
}

// Similar reports whether a and b share a similarity group at the stroke index.
func Similar(stroke int, a, b CharID) bool {
	for _, group := range SimilarGroups(stroke) {
		if contains(group, a) && contains(group, b) {
			return true
		}
	}
	return false
}

// Tolerated decides whether a prediction counts as correct at the stroke
// index: an exact match, or a look-alike at strokes 1 and 2.
func Tolerated(stroke int, predicted, truth CharID) bool {
	return predicted == truth || Similar(stroke, predicted, truth)
}

func contains(group []CharID, id CharID) bool {
	for _, g := range group {
		if g == id {
			return true
		}
	}
	return false
}
