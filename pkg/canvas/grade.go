package canvas

import (
	"math"
	"strconv"
	"strings"
)

// GradeValue is a locally validated grade ready for submission: either a
// finite score or the clear sentinel that un-posts the grade. The zero
// value is the clear sentinel.
type GradeValue struct {
	Clear bool
	Score float64
}

// ParseGradeValue classifies raw cell text. An empty cell (after trimming)
// is the clear sentinel, meaning "remove this grade" rather than "set to
// zero". Anything else must parse as a finite number; text that does not
// is rejected here with a *ValidationError and never reaches the network.
func ParseGradeValue(text string) (GradeValue, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return GradeValue{Clear: true}, nil
	}

	score, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return GradeValue{}, &ValidationError{Input: text, Reason: "grade must be a number or empty"}
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return GradeValue{}, &ValidationError{Input: text, Reason: "grade must be finite"}
	}

	return GradeValue{Score: score}, nil
}

// PostedGrade renders the wire value for the submission body: the empty
// string clears the grade on the remote side.
func (g GradeValue) PostedGrade() string {
	if g.Clear {
		return ""
	}
	return strconv.FormatFloat(g.Score, 'f', -1, 64)
}

// CellValue renders the local cell content for a pulled score; a nil score
// clears the cell.
func CellValue(score *float64) string {
	if score == nil {
		return ""
	}
	return strconv.FormatFloat(*score, 'f', -1, 64)
}
