package tokens

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	tk     *tiktoken.Tiktoken
	tkOnce sync.Once
)

func getTokenizer() *tiktoken.Tiktoken {
	tkOnce.Do(func() {
		var err error
		tk, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			panic("failed to load tiktoken: " + err.Error())
		}
	})
	return tk
}

// Tiktoken counts exact cl100k_base tokens. More accurate than Heuristic
// but not strictly monotonic in string length.
type Tiktoken struct{}

func NewTiktoken() Tiktoken {
	return Tiktoken{}
}

func (Tiktoken) Estimate(content string) int {
	if content == "" {
		return 0
	}
	return len(getTokenizer().Encode(content, nil, nil))
}
