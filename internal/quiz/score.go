package quiz

// Band buckets a quiz result for feedback messaging.
type Band string

const (
	BandExcellent    Band = "excellent"
	BandGood         Band = "good"
	BandKeepStudying Band = "keep_studying"
)

// Result is the outcome of scoring a session. Questions without a
// recorded answer count against the student.
type Result struct {
	Correct    int
	Total      int
	Percentage float64
}

// Band returns the feedback bucket for the result: 80% and above is
// excellent, 60% up to 80% is good, anything below keeps studying.
func (r Result) Band() Band {
	switch {
	case r.Percentage >= 80:
		return BandExcellent
	case r.Percentage >= 60:
		return BandGood
	default:
		return BandKeepStudying
	}
}

// Score tallies recorded answers against the correct labels.
func (s *Session) Score() Result {
	correct := 0
	for i, q := range s.questions {
		if ans, ok := s.answers[i]; ok && ans == q.Correct {
			correct++
		}
	}
	total := len(s.questions)
	return Result{
		Correct:    correct,
		Total:      total,
		Percentage: float64(correct) / float64(total) * 100,
	}
}
