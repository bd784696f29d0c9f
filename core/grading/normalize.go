package grading

// Scores holds the score fields of a result record.
type Scores struct {
	CAScore    *float64
	ExamScore  *float64
	TotalScore float64
	Grade      Grade
	GradePoint float64
}

// Normalize makes s canonical: when both the CA and exam scores are set, the total is recomputed
// from them (any supplied total is overwritten); otherwise the supplied total is kept.
// Grade and GradePoint are then derived from the total.
// It must run on every create & update, before the record is persisted.
func Normalize(s *Scores) {
	if s.CAScore != nil && s.ExamScore != nil {
		s.TotalScore = *s.CAScore + *s.ExamScore
	}
	s.Grade, s.GradePoint = GradeOf(s.TotalScore)
}
