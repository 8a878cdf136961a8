package redis

import (
	"strings"
	"testing"

	"github.com/sandevgo/recallbot/internal/core"
)

func TestMessageCodecRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		msg  core.Message
	}{
		{
			name: "user turn",
			msg: core.Message{
				ID:        "m1",
				Role:      core.RoleUser,
				Content:   "what did I say yesterday?",
				Timestamp: 1700000000123,
				SessionID: "telegram-chat-42",
			},
		},
		{
			name: "assistant turn",
			msg: core.Message{
				ID:        "m2",
				Role:      core.RoleAssistant,
				Content:   "you asked about the dentist",
				Timestamp: 1700000001456,
				SessionID: "telegram-chat-42",
				Source:    core.SourceWindow,
			},
		},
		{
			name: "minimal entry",
			msg:  core.Message{ID: "m3", Role: core.RoleUser, Content: "hi", Timestamp: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := encodeMessage(tt.msg)
			if err != nil {
				t.Fatalf("encode failed: %v", err)
			}

			got, err := decodeMessage(data)
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}

			want := tt.msg
			want.Source = core.SourceWindow
			if got != want {
				t.Errorf("round trip changed the message:\n got %+v\nwant %+v", got, want)
			}
		})
	}
}

func TestDecodeStampsWindowSource(t *testing.T) {
	// An entry written with retrieval provenance still reads back as a
	// window message.
	data, err := encodeMessage(core.Message{
		ID:             "m1",
		Role:           core.RoleUser,
		Content:        "old turn",
		Timestamp:      5,
		Source:         core.SourceRetrieved,
		RelevanceScore: 0.9,
	})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	got, err := decodeMessage(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.Source != core.SourceWindow {
		t.Errorf("expected window source, got %q", got.Source)
	}
}

func TestEncodeOmitsEmptyOptionalFields(t *testing.T) {
	data, err := encodeMessage(core.Message{ID: "m1", Role: core.RoleUser, Content: "hi", Timestamp: 1})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	for _, field := range []string{"session_id", "source", "relevance_score"} {
		if strings.Contains(string(data), field) {
			t.Errorf("zero-valued %s should be omitted from the stored entry: %s", field, data)
		}
	}
}

func TestDecodeRejectsCorruptEntry(t *testing.T) {
	if _, err := decodeMessage([]byte("{not json")); err == nil {
		t.Fatal("expected error for corrupt window entry")
	}
}
