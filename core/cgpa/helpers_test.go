package cgpa

import (
	"github.com/trezcool/cgpa/core/grading"
	"github.com/trezcool/cgpa/core/result"
)

// newResult builds a graded result for course code with the given credit hours, level & total score.
func newResult(code string, creditHours, level int, session string, semester result.Semester, total float64) result.Result {
	r := result.Result{
		Course: result.Course{
			Code:        code,
			Name:        code + " course",
			CreditHours: creditHours,
			Level:       level,
			Semester:    semester,
			Session:     session,
		},
		TotalScore: total,
		Level:      level,
		Semester:   semester,
		Session:    session,
	}
	r.Normalize()
	return r
}

// withGrade builds a level 100 result with the total score of the lower bound of grade.
func withGrade(code string, creditHours int, grade grading.Grade) result.Result {
	scores := map[grading.Grade]float64{
		grading.A: 70, grading.B: 60, grading.C: 50, grading.D: 45, grading.E: 40, grading.F: 0,
	}
	return newResult(code, creditHours, 100, "2023/2024", result.FirstSemester, scores[grade])
}
