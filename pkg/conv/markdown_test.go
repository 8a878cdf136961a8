package conv

import (
	"testing"
)

func TestMarkdownToTelegramHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty reply",
			input:    "",
			expected: "",
		},
		{
			name:     "plain reply",
			input:    "Your meeting with Dana is on Thursday at 10am.",
			expected: "Your meeting with Dana is on Thursday at 10am.\n",
		},
		{
			name:     "recalled fact in bold",
			input:    "You told me your flight lands at **18:45**.",
			expected: "You told me your flight lands at <strong>18:45</strong>.\n",
		},
		{
			name:     "emphasis on uncertainty",
			input:    "I *think* you meant the other project.",
			expected: "I <em>think</em> you meant the other project.\n",
		},
		{
			name:     "inline code in answer",
			input:    "Set `RECALL_WINDOW_SIZE` to raise the window capacity.",
			expected: "Set <code>RECALL_WINDOW_SIZE</code> to raise the window capacity.\n",
		},
		{
			name:     "code block with language",
			input:    "```go\nfunc main() {}\n```",
			expected: "<pre><code class=\"language-go\">func main() {}\n</code></pre>\n",
		},
		{
			name:     "quoted earlier turn",
			input:    "> remind me about the dentist\nYou asked this on Monday.",
			expected: "<blockquote>\nremind me about the dentist\nYou asked this on Monday.\n</blockquote>\n",
		},
		{
			name:     "link in answer",
			input:    "[the docs you saved](https://example.com/docs)",
			expected: "<a href=\"https://example.com/docs\">the docs you saved</a>\n",
		},
		{
			name:     "model header stripped to text",
			input:    "# Summary",
			expected: "Summary\n",
		},
		{
			name:     "hostile model output sanitized",
			input:    "<script>alert('xss')</script>",
			expected: "\n",
		},
		{
			name:     "mixed formatting",
			input:    "**Remembered:** the birthday is *next week*, note saved as `bday`.",
			expected: "<strong>Remembered:</strong> the birthday is <em>next week</em>, note saved as <code>bday</code>.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MarkdownToTelegramHTML([]byte(tt.input))
			if got != tt.expected {
				t.Errorf("MarkdownToTelegramHTML(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
