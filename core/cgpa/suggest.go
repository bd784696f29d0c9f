package cgpa

import (
	"fmt"
	"strings"

	"github.com/trezcool/cgpa/core/grading"
	"github.com/trezcool/cgpa/core/result"
)

const (
	SuggestionImprovement = "improvement"
	SuggestionPattern     = "pattern"

	// prefixLen is the length of the department prefix of a course code, e.g. "CSC" in "CSC201".
	prefixLen = 3

	weakPrefixAverage   = 3.0
	firstClassCGPA      = 3.5
	strongFoundationGPA = 4.5
	heavyCreditHours    = 3
)

// predictive insights
const (
	InsightEGrades = "If you get two more E grades next semester, a first-class finish becomes unrealistic; " +
		"lock down those weak spots now."
	InsightLevelDrop = "80% of students see a large drop in grades after 100 level; " +
		"keep your 200 level GPA at 3.5 or above to stay in first-class contention."
	InsightBelowFirstClass = "Your 200 level CGPA is already below 3.5; " +
		"double down on consistent study habits to remain competitive."
	InsightStrongFoundation = "You have a strong 100 level foundation; " +
		"sustain at least a 3.5 CGPA in higher levels to protect your first-class trajectory."
	InsightHeavyCourses = "Focus entirely on getting more A grades in 3-unit courses; " +
		"they swing your CGPA faster than lighter classes."
)

// defaultInsights are always part of the insights, after the ones triggered by the results.
var defaultInsights = [...]string{InsightEGrades, InsightLevelDrop, InsightHeavyCourses}

type (
	Suggestion struct {
		Type    string `json:"type"`
		Title   string `json:"title"`
		Message string `json:"message"`
		Courses string `json:"courses,omitempty"` // comma separated course codes
	}

	WeakArea struct {
		CourseCode  string        `json:"courseCode"`
		CourseName  string        `json:"courseName"`
		Grade       grading.Grade `json:"grade"`
		TotalScore  float64       `json:"totalScore"`
		CreditHours int           `json:"creditHours"`
	}

	StrongArea struct {
		CourseCode string        `json:"courseCode"`
		CourseName string        `json:"courseName"`
		Grade      grading.Grade `json:"grade"`
		TotalScore float64       `json:"totalScore"`
	}

	Stats struct {
		TotalCourses  int `json:"totalCourses"`
		WeakCourses   int `json:"weakCourses"`
		StrongCourses int `json:"strongCourses"`
		EGrades       int `json:"eGrades"`
	}

	Suggestions struct {
		Suggestions        []Suggestion `json:"suggestions"`
		WeakAreas          []WeakArea   `json:"weakAreas"`
		StrongAreas        []StrongArea `json:"strongAreas"`
		Stats              Stats        `json:"stats"`
		PredictiveInsights []string     `json:"predictiveInsights"`
	}
)

// Suggest analyses results for weak & strong courses, weak departments and first-class risks.
func Suggest(results []result.Result) Suggestions {
	out := Suggestions{
		Suggestions:        []Suggestion{},
		WeakAreas:          []WeakArea{},
		StrongAreas:        []StrongArea{},
		PredictiveInsights: []string{},
	}
	if len(results) == 0 {
		return out
	}

	var eCount int
	for _, r := range results {
		switch {
		case r.Grade.IsWeak():
			out.WeakAreas = append(out.WeakAreas, WeakArea{
				CourseCode:  r.Course.Code,
				CourseName:  r.Course.Name,
				Grade:       r.Grade,
				TotalScore:  r.TotalScore,
				CreditHours: r.Course.CreditHours,
			})
		case r.Grade.IsStrong():
			out.StrongAreas = append(out.StrongAreas, StrongArea{
				CourseCode: r.Course.Code,
				CourseName: r.Course.Name,
				Grade:      r.Grade,
				TotalScore: r.TotalScore,
			})
		}
		if r.Grade == grading.E {
			eCount++
		}
	}

	if len(out.WeakAreas) > 0 {
		codes := make([]string, 0, len(out.WeakAreas))
		for _, w := range out.WeakAreas {
			codes = append(codes, w.CourseCode)
		}
		out.Suggestions = append(out.Suggestions, Suggestion{
			Type:  SuggestionImprovement,
			Title: "Focus on Weak Courses",
			Message: fmt.Sprintf("You have %d course(s) with grades below B. "+
				"Consider focusing more study time on these courses.", len(out.WeakAreas)),
			Courses: strings.Join(codes, ", "),
		})
	}
	out.Suggestions = append(out.Suggestions, patternSuggestions(results)...)

	out.Stats = Stats{
		TotalCourses:  len(results),
		WeakCourses:   len(out.WeakAreas),
		StrongCourses: len(out.StrongAreas),
		EGrades:       eCount,
	}
	out.PredictiveInsights = predictiveInsights(results, eCount)
	return out
}

func coursePrefix(r result.Result) string {
	code := []rune(r.Course.Code)
	if len(code) > prefixLen {
		code = code[:prefixLen]
	}
	return string(code)
}

// patternSuggestions flags the course prefixes whose average grade point is below a C.
func patternSuggestions(results []result.Result) []Suggestion {
	var suggestions []Suggestion
	Group(results, coursePrefix).Each(func(prefix string, group []result.Result) {
		var sum float64
		for _, r := range group {
			sum += r.GradePoint
		}
		avg := sum / float64(len(group))
		if avg < weakPrefixAverage {
			suggestions = append(suggestions, Suggestion{
				Type:  SuggestionPattern,
				Title: fmt.Sprintf("Weak Performance in %s Courses", prefix),
				Message: fmt.Sprintf("Your average in %s courses is %.2f. "+
					"Consider getting additional help in this area.", prefix, avg),
			})
		}
	})
	return suggestions
}

func predictiveInsights(results []result.Result, eCount int) []string {
	var insights []string

	if eCount > 0 {
		insights = append(insights, InsightEGrades)
	}

	levels := Group(results, levelKey)
	if hundred, ok := levels.Get(100); ok {
		insights = append(insights, InsightLevelDrop)
		twoHundred, hasTwoHundred := levels.Get(200)
		if hasTwoHundred && CalculateResults(twoHundred).CGPA < firstClassCGPA {
			insights = append(insights, InsightBelowFirstClass)
		} else if CalculateResults(hundred).CGPA >= strongFoundationGPA {
			insights = append(insights, InsightStrongFoundation)
		}
	}

	for _, r := range results {
		if r.Course.CreditHours >= heavyCreditHours && r.Grade != grading.A {
			insights = append(insights, InsightHeavyCourses)
			break
		}
	}

	return appendMissing(insights, defaultInsights[:]...)
}

// appendMissing appends the messages not yet in insights, keeping the first-seen order.
func appendMissing(insights []string, messages ...string) []string {
	seen := make(map[string]bool, len(insights)+len(messages))
	for _, msg := range insights {
		seen[msg] = true
	}
	for _, msg := range messages {
		if !seen[msg] {
			insights = append(insights, msg)
			seen[msg] = true
		}
	}
	return insights
}
