package tokens

// Estimator maps message content to an estimated token cost. Estimates
// must be deterministic and side-effect free so budget enforcement is
// reproducible across runs; an empty string always costs 0.
type Estimator interface {
	Estimate(content string) int
}

// Heuristic estimates tokens with the ~4 chars/token approximation.
// Monotonic in string length, which keeps budget trimming stable even
// when content differs from the live tokenizer's vocabulary.
type Heuristic struct{}

func NewHeuristic() Heuristic {
	return Heuristic{}
}

func (Heuristic) Estimate(content string) int {
	if len(content) == 0 {
		return 0
	}
	return (len(content) + 3) / 4
}
