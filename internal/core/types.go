package core

const (
	RecallName    = "RecallBot"
	RecallVersion = "0.1.0"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message provenance. Window messages come from the bounded recent-turn
// store; retrieved messages come from the similarity index.
const (
	SourceWindow    = "window"
	SourceRetrieved = "retrieved"
)

// Message is one conversational turn fragment.
type Message struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds, non-decreasing per user
	SessionID string `json:"session_id,omitempty"`
	Source    string `json:"source,omitempty"`
	// RelevanceScore is set only on retrieved messages, in [0,1],
	// higher is more relevant.
	RelevanceScore float64 `json:"relevance_score,omitempty"`
}

// SynthesizedContext is the merged, deduplicated, budget-trimmed context
// for one turn, ordered ascending by timestamp with unique message ids.
type SynthesizedContext struct {
	Messages  []Message
	TokenCost int
}
