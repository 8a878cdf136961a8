package memory

import (
	"testing"

	"github.com/sandevgo/recallbot/internal/core"
)

// charEstimator prices one token per byte so tests can steer the budget
// precisely.
type charEstimator struct{}

func (charEstimator) Estimate(content string) int { return len(content) }

func windowMsg(id, content string, ts int64) core.Message {
	return core.Message{ID: id, Role: core.RoleUser, Content: content, Timestamp: ts, Source: core.SourceWindow}
}

func retrievedMsg(id, content string, ts int64, score float64) core.Message {
	return core.Message{ID: id, Role: core.RoleUser, Content: content, Timestamp: ts, Source: core.SourceRetrieved, RelevanceScore: score}
}

func query(content string, ts int64) core.Message {
	return core.Message{ID: "query", Role: core.RoleUser, Content: content, Timestamp: ts, Source: core.SourceWindow}
}

func ids(msgs []core.Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.ID)
	}
	return out
}

func assertOrder(t *testing.T, got []core.Message, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d messages %v, got %d: %v", len(want), want, len(got), ids(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s (full order %v)", i, id, got[i].ID, ids(got))
		}
	}
}

func TestSynthesizeEmptyInputsYieldsQueryOnly(t *testing.T) {
	s := NewSynthesizer(charEstimator{}, 100)

	out := s.Synthesize(nil, nil, query("hello", 10))

	assertOrder(t, out.Messages, "query")
	if out.TokenCost != 5 {
		t.Errorf("expected token cost 5, got %d", out.TokenCost)
	}
}

func TestSynthesizeQueryMandatoryEvenOverBudget(t *testing.T) {
	s := NewSynthesizer(charEstimator{}, 0)

	out := s.Synthesize(
		[]core.Message{windowMsg("w1", "hi", 1)},
		[]core.Message{retrievedMsg("r1", "x", 1, 0.9)},
		query("12345", 10),
	)

	// Budget may be exceeded by exactly the mandatory message; the current
	// turn is never dropped.
	assertOrder(t, out.Messages, "query")
	if out.TokenCost != 5 {
		t.Errorf("expected token cost 5, got %d", out.TokenCost)
	}
}

func TestSynthesizeChronologicalOrder(t *testing.T) {
	s := NewSynthesizer(charEstimator{}, 1000)

	out := s.Synthesize(
		[]core.Message{windowMsg("x", "window turn", 5)},
		[]core.Message{
			retrievedMsg("y", "older but relevant", 2, 0.9),
			retrievedMsg("z", "oldest", 1, 0.8),
		},
		query("now", 6),
	)

	assertOrder(t, out.Messages, "z", "y", "x", "query")

	prev := int64(-1)
	for _, m := range out.Messages {
		if m.Timestamp < prev {
			t.Fatalf("output not non-decreasing by timestamp: %v", ids(out.Messages))
		}
		prev = m.Timestamp
	}
}

func TestSynthesizeDedupByID(t *testing.T) {
	s := NewSynthesizer(charEstimator{}, 1000)

	out := s.Synthesize(
		[]core.Message{windowMsg("m1", "shared turn", 3)},
		[]core.Message{retrievedMsg("m1", "shared turn", 3, 0.95)},
		query("q", 10),
	)

	assertOrder(t, out.Messages, "m1", "query")
	if out.Messages[0].Source != core.SourceWindow {
		t.Errorf("window copy must win the dedup, got source %q", out.Messages[0].Source)
	}
	if out.Messages[0].RelevanceScore != 0 {
		t.Error("window copy must not carry the retrieved copy's score")
	}
}

func TestSynthesizeDedupByContentAndTimestamp(t *testing.T) {
	s := NewSynthesizer(charEstimator{}, 1000)

	// Same turn, but the index kept its own point id.
	out := s.Synthesize(
		[]core.Message{windowMsg("w1", "same words", 7)},
		[]core.Message{retrievedMsg("point-42", "same words", 7, 0.9)},
		query("q", 10),
	)

	assertOrder(t, out.Messages, "w1", "query")
}

func TestSynthesizeWindowPreferredOverRetrieved(t *testing.T) {
	// Budget: query(1) + one 4-byte message.
	s := NewSynthesizer(charEstimator{}, 5)

	out := s.Synthesize(
		[]core.Message{windowMsg("w1", "wwww", 2)},
		[]core.Message{retrievedMsg("r1", "rrrr", 1, 0.99)},
		query("q", 10),
	)

	assertOrder(t, out.Messages, "w1", "query")
}

func TestSynthesizeGreedySkipDoesNotStopWalk(t *testing.T) {
	// Budget: query(1) + 4. The newest window entry costs 3 and fits; the
	// older one costs 10 and is skipped; a 1-byte retrieved entry still
	// fits afterwards.
	s := NewSynthesizer(charEstimator{}, 5)

	out := s.Synthesize(
		[]core.Message{
			windowMsg("w-new", "abc", 4),
			windowMsg("w-old", "0123456789", 3),
		},
		[]core.Message{retrievedMsg("r1", "r", 1, 0.9)},
		query("q", 10),
	)

	assertOrder(t, out.Messages, "r1", "w-new", "query")
	if out.TokenCost != 5 {
		t.Errorf("expected token cost 5, got %d", out.TokenCost)
	}
}

func TestSynthesizeRetrievedRankedByScoreThenRecency(t *testing.T) {
	// Budget: query(1) + one 2-byte candidate.
	s := NewSynthesizer(charEstimator{}, 3)

	t.Run("higher score wins", func(t *testing.T) {
		out := s.Synthesize(nil,
			[]core.Message{
				retrievedMsg("low", "aa", 9, 0.7),
				retrievedMsg("high", "bb", 1, 0.9),
			},
			query("q", 10),
		)
		assertOrder(t, out.Messages, "high", "query")
	})

	t.Run("score tie broken by newer timestamp", func(t *testing.T) {
		out := s.Synthesize(nil,
			[]core.Message{
				retrievedMsg("older", "aa", 2, 0.8),
				retrievedMsg("newer", "bb", 5, 0.8),
			},
			query("q", 10),
		)
		assertOrder(t, out.Messages, "newer", "query")
	})
}

func TestSynthesizeTimestampTieBrokenBySourceTier(t *testing.T) {
	s := NewSynthesizer(charEstimator{}, 1000)

	out := s.Synthesize(
		[]core.Message{windowMsg("w1", "window copy", 5)},
		[]core.Message{retrievedMsg("r1", "retrieved copy", 5, 0.9)},
		query("q", 5),
	)

	// All three share t=5: the mandatory query sorts first, then window
	// before retrieved.
	assertOrder(t, out.Messages, "query", "w1", "r1")
}

func TestSynthesizeNoDuplicateIDsAndBudgetRespected(t *testing.T) {
	s := NewSynthesizer(charEstimator{}, 20)

	window := []core.Message{
		windowMsg("w1", "seven77", 9),
		windowMsg("w2", "eight888", 8),
		windowMsg("w3", "nine99999", 7),
	}
	retrieved := []core.Message{
		retrievedMsg("w2", "eight888", 8, 0.99), // duplicate of a window entry
		retrievedMsg("r1", "old relevant", 2, 0.9),
		retrievedMsg("r2", "older", 1, 0.8),
	}

	out := s.Synthesize(window, retrieved, query("qq", 10))

	seen := make(map[string]struct{})
	for _, m := range out.Messages {
		if _, dup := seen[m.ID]; dup {
			t.Fatalf("duplicate id %s in output %v", m.ID, ids(out.Messages))
		}
		seen[m.ID] = struct{}{}
	}
	if _, ok := seen["query"]; !ok {
		t.Fatal("current query missing from output")
	}

	total := 0
	for _, m := range out.Messages {
		total += len(m.Content)
	}
	if total > 20 {
		t.Errorf("total cost %d exceeds budget 20 although the query alone fits", total)
	}
	if total != out.TokenCost {
		t.Errorf("reported cost %d does not match actual %d", out.TokenCost, total)
	}
}
