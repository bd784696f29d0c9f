package result

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/cgpa/core"
	"github.com/trezcool/cgpa/core/grading"
)

type Semester string

const (
	FirstSemester  Semester = "First"
	SecondSemester Semester = "Second"
)

var Semesters = []Semester{FirstSemester, SecondSemester}

// Course is a subject offering. (Code, Session, Level) is unique in the catalog:
// the same code may be offered in another session or level as a distinct Course.
type Course struct {
	ID          string    `json:"id" db:"id"`
	Code        string    `json:"code" db:"code"`
	Name        string    `json:"name" db:"name"`
	CreditHours int       `json:"creditHours" db:"credit_hours"`
	Level       int       `json:"level" db:"level"`
	Semester    Semester  `json:"semester" db:"semester"`
	Session     string    `json:"session" db:"session"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"` // UTC
}

// Result is one scored outcome of a user in a course, for a session & semester.
// Grade and GradePoint are always derived from TotalScore; see Normalize.
type Result struct {
	ID         string        `json:"id"`
	UserID     string        `json:"userId"`
	Course     Course        `json:"course"`
	CAScore    *float64      `json:"caScore,omitempty"`
	ExamScore  *float64      `json:"examScore,omitempty"`
	TotalScore float64       `json:"totalScore"`
	Grade      grading.Grade `json:"grade"`
	GradePoint float64       `json:"gradePoint"`
	Level      int           `json:"level"`
	Semester   Semester      `json:"semester"`
	Session    string        `json:"session"`
	CreatedAt  time.Time     `json:"createdAt"` // UTC
	UpdatedAt  time.Time     `json:"updatedAt"` // UTC
}

// Normalize recomputes the total score, grade & grade point of r.
func (r *Result) Normalize() {
	s := grading.Scores{
		CAScore:    r.CAScore,
		ExamScore:  r.ExamScore,
		TotalScore: r.TotalScore,
	}
	grading.Normalize(&s)
	r.TotalScore = s.TotalScore
	r.Grade = s.Grade
	r.GradePoint = s.GradePoint
}

// NewResult contains information needed to upload a Result.
type NewResult struct {
	CourseCode  string   `json:"courseCode" validate:"required,notblank,max=32"`
	CourseName  string   `json:"courseName" validate:"required,notblank,max=255"`
	CreditHours int      `json:"creditHours" validate:"required,min=1"`
	Level       int      `json:"level" validate:"required,min=100"`
	Semester    Semester `json:"semester" validate:"required,oneof=First Second"`
	Session     string   `json:"session" validate:"required,notblank,max=16"`
	TotalScore  *float64 `json:"totalScore" validate:"required,min=0,max=100"`
	CAScore     *float64 `json:"caScore" validate:"omitempty,min=0,max=30"`
	ExamScore   *float64 `json:"examScore" validate:"omitempty,min=0,max=70"`
}

func (nr *NewResult) Validate(validate *validator.Validate) error {
	nr.CourseCode = core.CleanString(nr.CourseCode)
	nr.CourseName = core.CleanString(nr.CourseName)
	nr.Session = core.CleanString(nr.Session)
	return validate.Struct(nr)
}

// UpdateResult defines the score corrections that may be applied to an existing Result.
type UpdateResult struct {
	CAScore    *float64 `json:"caScore" validate:"omitempty,min=0,max=30"`
	ExamScore  *float64 `json:"examScore" validate:"omitempty,min=0,max=70"`
	TotalScore *float64 `json:"totalScore" validate:"omitempty,min=0,max=100"`
}

func (ur *UpdateResult) Validate(validate *validator.Validate) error { return validate.Struct(ur) }

type QueryFilter struct {
	Level    int      `query:"level"`
	Semester Semester `query:"semester"`
	Session  string   `query:"session"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Level == 0 && qf.Semester == "" && qf.Session == ""
}

func (qf *QueryFilter) Clean() {
	qf.Session = core.CleanString(qf.Session)
}

// Match reports whether r passes all the set fields of qf.
func (qf *QueryFilter) Match(r Result) bool {
	if qf == nil {
		return true
	}
	if qf.Level != 0 && r.Level != qf.Level {
		return false
	}
	if qf.Semester != "" && r.Semester != qf.Semester {
		return false
	}
	if qf.Session != "" && r.Session != qf.Session {
		return false
	}
	return true
}

// Orderable fields of Result queries.
const (
	OrderSession    = "session"
	OrderLevel      = "level"
	OrderSemester   = "semester"
	OrderTotalScore = "total_score"
	OrderCreatedAt  = "created_at"
)

var (
	OrderingFields = []string{OrderSession, OrderLevel, OrderSemester, OrderTotalScore, OrderCreatedAt}

	// DefaultOrdering lists the latest sessions & levels first.
	DefaultOrdering = []core.DBOrdering{
		{Field: OrderSession},
		{Field: OrderLevel},
		{Field: OrderSemester, Ascending: true},
	}
)
