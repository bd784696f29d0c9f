// Package cgpa aggregates results into credit-weighted grade point averages,
// simulates hypothetical results and derives study suggestions.
// Everything here is a pure computation over results already loaded in memory.
package cgpa

import (
	"math"

	"github.com/trezcool/cgpa/core/result"
)

// Aggregate is the credit-weighted summary of a set of results.
type Aggregate struct {
	CGPA             float64 `json:"cgpa"` // rounded to 2 decimals
	TotalPoints      float64 `json:"totalPoints"`
	TotalCreditHours int     `json:"totalCreditHours"`
}

// Entry is the part of a result that counts towards an Aggregate.
type Entry struct {
	GradePoint  float64
	CreditHours int
}

func EntryOf(r result.Result) Entry {
	return Entry{GradePoint: r.GradePoint, CreditHours: r.Course.CreditHours}
}

// Calculate sums GradePoint × CreditHours over entries and divides by the total credit hours.
// No entries (or no credit) gives the zero Aggregate.
func Calculate(entries []Entry) Aggregate {
	var agg Aggregate
	for _, e := range entries {
		agg.TotalPoints += e.GradePoint * float64(e.CreditHours)
		agg.TotalCreditHours += e.CreditHours
	}
	if agg.TotalCreditHours > 0 {
		agg.CGPA = round2(agg.TotalPoints / float64(agg.TotalCreditHours))
	}
	return agg
}

// CalculateResults is Calculate over the entries of results.
func CalculateResults(results []result.Result) Aggregate {
	entries := make([]Entry, 0, len(results))
	for _, r := range results {
		entries = append(entries, EntryOf(r))
	}
	return Calculate(entries)
}

func levelKey(r result.Result) int { return r.Level }

func semesterKey(r result.Result) string { return r.Session + " - " + string(r.Semester) }

// ByLevel aggregates results per level, in order of first occurrence.
func ByLevel(results []result.Result) *OrderedMap[int, Aggregate] {
	return MapValues(Group(results, levelKey), CalculateResults)
}

// BySemester aggregates results per "<session> - <semester>", in order of first occurrence.
func BySemester(results []result.Result) *OrderedMap[string, Aggregate] {
	return MapValues(Group(results, semesterKey), CalculateResults)
}

type Summary struct {
	Overall    Aggregate                      `json:"overall"`
	ByLevel    *OrderedMap[int, Aggregate]    `json:"byLevel"`
	BySemester *OrderedMap[string, Aggregate] `json:"bySemester"`
	Results    int                            `json:"results"`
}

func Summarize(results []result.Result) Summary {
	return Summary{
		Overall:    CalculateResults(results),
		ByLevel:    ByLevel(results),
		BySemester: BySemester(results),
		Results:    len(results),
	}
}

// round2 rounds x to 2 decimals, halves away from zero.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
