package prompt

import (
	tiktoken "github.com/pkoukk/tiktoken-go"

	"toolwire/internal/domain"
)

// TiktokenCounter counts tokens with a BPE encoding so the context
// guard works with real token counts instead of byte heuristics.
type TiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenCounter loads the named encoding (e.g. "cl100k_base").
func NewTiktokenCounter(encoding string) (*TiktokenCounter, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, domain.WrapOp("prompt.tokens", err)
	}
	return &TiktokenCounter{enc: enc}, nil
}

func (c *TiktokenCounter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

// EstimateCounter approximates tokens as bytes/4. Used when the BPE
// dictionary cannot be loaded (offline start without a cached encoding).
type EstimateCounter struct{}

func (EstimateCounter) Count(text string) int {
	return (len(text) + 3) / 4
}

var (
	_ domain.TokenCounter = (*TiktokenCounter)(nil)
	_ domain.TokenCounter = EstimateCounter{}
)
