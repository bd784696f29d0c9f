package cgpa

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/cgpa/core"
	"github.com/trezcool/cgpa/core/grading"
	"github.com/trezcool/cgpa/core/result"
)

// Hypothetical is a course result to preview, never persisted.
type Hypothetical struct {
	CourseCode  string   `json:"courseCode" validate:"required,notblank,max=32"`
	CourseName  string   `json:"courseName" validate:"required,notblank,max=255"`
	CreditHours int      `json:"creditHours" validate:"required,min=1"`
	CAScore     *float64 `json:"caScore" validate:"required,min=0,max=30"`
	ExamScore   *float64 `json:"examScore" validate:"required,min=0,max=70"`
}

func (h *Hypothetical) Validate(validate *validator.Validate) error {
	h.CourseCode = core.CleanString(h.CourseCode)
	h.CourseName = core.CleanString(h.CourseName)
	return validate.Struct(h)
}

type SimulatedCourse struct {
	Code        string        `json:"code"`
	Name        string        `json:"name"`
	CreditHours int           `json:"creditHours"`
	CAScore     float64       `json:"caScore"`
	ExamScore   float64       `json:"examScore"`
	TotalScore  float64       `json:"totalScore"`
	Grade       grading.Grade `json:"grade"`
	GradePoint  float64       `json:"gradePoint"`
}

type Simulation struct {
	Current   Aggregate       `json:"current"`
	Simulated Aggregate       `json:"simulated"`
	Change    float64         `json:"change"` // rounded to 2 decimals
	Course    SimulatedCourse `json:"course"`
}

// Simulate previews the CGPA if the hypothetical result h was recorded.
// The first existing result with the same course code (case-sensitive) has its grade replaced,
// keeping its credit hours; otherwise h is added as a new result.
// Courses are matched on code only: a retake in another session replaces the earlier result.
// existing is never modified.
func Simulate(existing []result.Result, h Hypothetical) Simulation {
	course := SimulatedCourse{
		Code:        h.CourseCode,
		Name:        h.CourseName,
		CreditHours: h.CreditHours,
		CAScore:     deref(h.CAScore),
		ExamScore:   deref(h.ExamScore),
	}
	course.TotalScore = course.CAScore + course.ExamScore
	course.Grade, course.GradePoint = grading.GradeOf(course.TotalScore)

	simulated := make([]result.Result, len(existing), len(existing)+1)
	copy(simulated, existing)

	replaced := false
	for i := range simulated {
		if simulated[i].Course.Code == h.CourseCode {
			simulated[i].GradePoint = course.GradePoint
			simulated[i].Grade = course.Grade
			simulated[i].TotalScore = course.TotalScore
			replaced = true
			break
		}
	}
	if !replaced {
		simulated = append(simulated, result.Result{
			Course: result.Course{
				Code:        h.CourseCode,
				Name:        h.CourseName,
				CreditHours: h.CreditHours,
			},
			TotalScore: course.TotalScore,
			Grade:      course.Grade,
			GradePoint: course.GradePoint,
		})
	}

	sim := Simulation{
		Current:   CalculateResults(existing),
		Simulated: CalculateResults(simulated),
		Course:    course,
	}
	sim.Change = round2(sim.Simulated.CGPA - sim.Current.CGPA)
	return sim
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
