package memory

import (
	"sort"

	"github.com/sandevgo/recallbot/internal/core"
	"github.com/sandevgo/recallbot/internal/tokens"
)

// Selection tiers. The current query is mandatory; window entries are
// always preferred over retrieved ones. On equal timestamps the lower
// tier also wins the chronological tie, keeping output deterministic.
const (
	tierCurrent = iota
	tierWindow
	tierRetrieved
)

// Synthesizer merges the recent-turn window and the retrieval candidates
// into one chronological, deduplicated, token-budgeted context. It holds
// no per-user state; synthesis is a pure transformation over the two
// inputs for the duration of one request.
type Synthesizer struct {
	estimator tokens.Estimator
	budget    int
}

func NewSynthesizer(estimator tokens.Estimator, budget int) *Synthesizer {
	return &Synthesizer{
		estimator: estimator,
		budget:    budget,
	}
}

// candidate carries selection bookkeeping for one pooled message.
type candidate struct {
	msg  core.Message
	tier int
	seq  int // position in the source list, breaks remaining ties
}

// Synthesize expects window newest-first and retrieved score-descending,
// as the stores produce them. currentQuery is the just-received user
// message, not yet persisted anywhere.
func (s *Synthesizer) Synthesize(window, retrieved []core.Message, currentQuery core.Message) core.SynthesizedContext {
	pool := mergePool(window, retrieved)

	// The current query is mandatory. Its cost is reserved before any
	// candidate is considered; the budget may be exceeded by exactly this
	// one message rather than ever dropping the current turn.
	cost := s.estimator.Estimate(currentQuery.Content)
	selected := []candidate{{msg: currentQuery, tier: tierCurrent}}

	// Greedy walk in priority order. Skipping an oversized candidate does
	// not stop the walk; a smaller later candidate may still fit.
	for _, c := range pool {
		need := s.estimator.Estimate(c.msg.Content)
		if cost+need > s.budget {
			continue
		}
		cost += need
		selected = append(selected, c)
	}

	// Reconstruct conversational chronology, independent of the selection
	// priority used above.
	sort.SliceStable(selected, func(i, j int) bool {
		a, b := selected[i], selected[j]
		if a.msg.Timestamp != b.msg.Timestamp {
			return a.msg.Timestamp < b.msg.Timestamp
		}
		if a.tier != b.tier {
			return a.tier < b.tier
		}
		return a.seq < b.seq
	})

	messages := make([]core.Message, 0, len(selected))
	for _, c := range selected {
		messages = append(messages, c.msg)
	}
	return core.SynthesizedContext{Messages: messages, TokenCost: cost}
}

// mergePool deduplicates the two streams and lays them out in selection
// priority order: window entries by recency, then surviving retrieved
// entries by descending score with newer-timestamp tie-breaks. On a
// duplicate the window copy is authoritative; the retrieved copy is
// dropped entirely.
func mergePool(window, retrieved []core.Message) []candidate {
	type contentKey struct {
		content string
		ts      int64
	}

	seenID := make(map[string]struct{}, len(window))
	seenContent := make(map[contentKey]struct{}, len(window))

	pool := make([]candidate, 0, len(window)+len(retrieved))
	for i, m := range window {
		if m.ID != "" {
			seenID[m.ID] = struct{}{}
		}
		seenContent[contentKey{m.Content, m.Timestamp}] = struct{}{}
		pool = append(pool, candidate{msg: m, tier: tierWindow, seq: i})
	}

	ranked := make([]candidate, 0, len(retrieved))
	for i, m := range retrieved {
		if m.ID != "" {
			if _, dup := seenID[m.ID]; dup {
				continue
			}
		}
		// Ids can differ across sources for the same turn (the index keeps
		// its own point ids), so an exact (content, timestamp) match is
		// also a duplicate.
		if _, dup := seenContent[contentKey{m.Content, m.Timestamp}]; dup {
			continue
		}
		ranked = append(ranked, candidate{msg: m, tier: tierRetrieved, seq: i})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].msg, ranked[j].msg
		if a.RelevanceScore != b.RelevanceScore {
			return a.RelevanceScore > b.RelevanceScore
		}
		return a.Timestamp > b.Timestamp
	})

	return append(pool, ranked...)
}
