// Package grading maps scores to letter grades and grade points on the A–F / 5.0–0.0 scale.
package grading

type Grade string

const (
	A Grade = "A"
	B Grade = "B"
	C Grade = "C"
	D Grade = "D"
	E Grade = "E"
	F Grade = "F"
)

var AllGrades = []Grade{A, B, C, D, E, F}

// thresholds are inclusive lower bounds, highest first.
var thresholds = []struct {
	minScore   float64
	grade      Grade
	gradePoint float64
}{
	{70, A, 5.0},
	{60, B, 4.0},
	{50, C, 3.0},
	{45, D, 2.0},
	{40, E, 1.0},
}

// GradeOf returns the letter grade and grade point for a total score.
// Scores are not range checked: anything below 40 is an F.
func GradeOf(totalScore float64) (Grade, float64) {
	for _, th := range thresholds {
		if totalScore >= th.minScore {
			return th.grade, th.gradePoint
		}
	}
	return F, 0.0
}

// IsWeak reports whether g is below a B.
func (g Grade) IsWeak() bool {
	switch g {
	case C, D, E, F:
		return true
	}
	return false
}

func (g Grade) IsStrong() bool { return g == A }

func (g Grade) Valid() bool {
	for _, grade := range AllGrades {
		if g == grade {
			return true
		}
	}
	return false
}
