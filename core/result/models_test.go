package result_test

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/cgpa/core"
	"github.com/trezcool/cgpa/core/result"
	"github.com/trezcool/cgpa/tests"
)

func failedTags(err error) map[string]string {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return nil
	}
	tags := make(map[string]string, len(vErrs))
	for _, fe := range vErrs {
		tags[fe.Field()] = fe.Tag()
	}
	return tags
}

func TestNewResult_Validate(t *testing.T) {
	validate, _ := core.NewValidator()

	tests := []struct {
		name     string
		nr       result.NewResult
		wantTags map[string]string
	}{
		{
			name: "required fields",
			nr:   result.NewResult{CourseCode: "  ", Session: "\t"},
			wantTags: map[string]string{
				"courseCode":  "required",
				"courseName":  "required",
				"creditHours": "required",
				"level":       "required",
				"semester":    "required",
				"session":     "required",
				"totalScore":  "required",
			},
		},
		{
			name: "out of range",
			nr: result.NewResult{
				CourseCode:  "CSC101",
				CourseName:  "Intro",
				CreditHours: -1,
				Level:       50,
				Semester:    "Third",
				Session:     "2023/2024",
				TotalScore:  testutil.Score(101),
				CAScore:     testutil.Score(31),
				ExamScore:   testutil.Score(-1),
			},
			wantTags: map[string]string{
				"creditHours": "min",
				"level":       "min",
				"semester":    "oneof",
				"totalScore":  "max",
				"caScore":     "max",
				"examScore":   "min",
			},
		},
		{
			name: "longer than the columns",
			nr: result.NewResult{
				CourseCode:  strings.Repeat("C", 33),
				CourseName:  strings.Repeat("n", 256),
				CreditHours: 3,
				Level:       100,
				Semester:    result.FirstSemester,
				Session:     "2023/2024 Harmattan",
				TotalScore:  testutil.Score(65),
			},
			wantTags: map[string]string{
				"courseCode": "max",
				"courseName": "max",
				"session":    "max",
			},
		},
		{
			name: "as long as the columns",
			nr: result.NewResult{
				CourseCode:  strings.Repeat("C", 32),
				CourseName:  strings.Repeat("n", 255),
				CreditHours: 3,
				Level:       100,
				Semester:    result.FirstSemester,
				Session:     "2023/2024 Rain 1",
				TotalScore:  testutil.Score(65),
			},
		},
		{
			name: "zero total score is valid",
			nr:   testutil.NewResult("CSC101", 3, 100, result.FirstSemester, "2023/2024", 0),
		},
		{
			name: "valid",
			nr:   testutil.NewResult(" CSC101 ", 3, 100, result.SecondSemester, " 2023/2024 ", 65),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.nr.Validate(validate)
			assert.Equal(t, tt.wantTags, failedTags(err))
		})
	}
}

func TestUpdateResult_Validate(t *testing.T) {
	validate, _ := core.NewValidator()

	ur := result.UpdateResult{}
	assert.NoError(t, ur.Validate(validate))

	ur = result.UpdateResult{CAScore: testutil.Score(30), ExamScore: testutil.Score(70), TotalScore: testutil.Score(100)}
	assert.NoError(t, ur.Validate(validate))

	ur = result.UpdateResult{CAScore: testutil.Score(-1), ExamScore: testutil.Score(71), TotalScore: testutil.Score(100.5)}
	assert.Equal(t, map[string]string{"caScore": "min", "examScore": "max", "totalScore": "max"}, failedTags(ur.Validate(validate)))
}

func TestQueryFilter_Match(t *testing.T) {
	res := result.Result{Level: 200, Semester: result.FirstSemester, Session: "2023/2024"}

	tests := []struct {
		name   string
		filter *result.QueryFilter
		want   bool
	}{
		{name: "nil", want: true},
		{name: "empty", filter: &result.QueryFilter{}, want: true},
		{name: "level", filter: &result.QueryFilter{Level: 200}, want: true},
		{name: "other level", filter: &result.QueryFilter{Level: 100}},
		{name: "other semester", filter: &result.QueryFilter{Semester: result.SecondSemester}},
		{name: "other session", filter: &result.QueryFilter{Session: "2022/2023"}},
		{name: "all", filter: &result.QueryFilter{Level: 200, Semester: result.FirstSemester, Session: "2023/2024"}, want: true},
		{name: "one mismatch", filter: &result.QueryFilter{Level: 200, Semester: result.FirstSemester, Session: "2024/2025"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Match(res))
		})
	}
}
