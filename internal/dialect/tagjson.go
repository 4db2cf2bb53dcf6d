package dialect

import (
	"encoding/json"
	"strings"

	"toolwire/internal/domain"
)

// tagCallBody is the JSON payload between <tool_call> markers.
type tagCallBody struct {
	Tool      string          `json:"tool"`
	Arguments json.RawMessage `json:"arguments"`
}

// parseTagJSON extracts the first <tool_call>...</tool_call> block.
// The text outside every block becomes the clean text; only the first
// block is parsed as the actionable call. Anything that fails to decode,
// even after normalization, falls through to "no call" with the raw
// text untouched.
func parseTagJSON(raw string) Result {
	start := strings.Index(raw, tagOpen)
	if start < 0 {
		return noCall(raw, domain.DialectTagJSON)
	}
	rel := strings.Index(raw[start+len(tagOpen):], tagClose)
	if rel < 0 {
		return noCall(raw, domain.DialectTagJSON)
	}

	inner := raw[start+len(tagOpen) : start+len(tagOpen)+rel]

	var body tagCallBody
	if err := json.Unmarshal([]byte(NormalizeJSON(inner)), &body); err != nil {
		return noCall(raw, domain.DialectTagJSON)
	}
	if body.Tool == "" {
		return noCall(raw, domain.DialectTagJSON)
	}

	// Absent or unrepairable arguments become an empty object; the call
	// itself is still surfaced.
	args := map[string]any{}
	if len(body.Arguments) > 0 {
		if err := json.Unmarshal(body.Arguments, &args); err != nil {
			args = map[string]any{}
		}
	}

	return Result{
		HasCall:   true,
		Name:      body.Tool,
		Arguments: args,
		CleanText: stripBlocks(raw, tagOpen, tagClose),
		CallID:    newCallID(),
		Dialect:   domain.DialectTagJSON,
	}
}
