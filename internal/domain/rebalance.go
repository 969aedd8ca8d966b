package domain

// Randomizer is the subset of *rand.Rand used for shuffling.
type Randomizer interface {
	Intn(n int) int
	Float64() float64
}

// RebalanceQuestion moves the correct option to a uniformly random slot.
// The remaining options are Fisher-Yates shuffled around it, so the option
// multiset and the correct option's text are preserved.
func RebalanceQuestion(q Question, rng Randomizer) Question {
	correct := q.Options[q.CorrectIndex]
	others := make([]string, 0, len(q.Options)-1)
	for i, opt := range q.Options {
		if i != q.CorrectIndex {
			others = append(others, opt)
		}
	}
	for i := len(others) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		others[i], others[j] = others[j], others[i]
	}

	slot := rng.Intn(len(q.Options))
	options := make([]string, 0, len(q.Options))
	options = append(options, others[:slot]...)
	options = append(options, correct)
	options = append(options, others[slot:]...)

	return Question{
		Text:         q.Text,
		Options:      options,
		CorrectIndex: slot,
		Explanation:  q.Explanation,
	}
}

// ShuffleQuestions returns a uniformly permuted copy of questions.
func ShuffleQuestions(questions []Question, rng Randomizer) []Question {
	out := make([]Question, len(questions))
	for i, q := range questions {
		out[i] = q.clone()
	}
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
