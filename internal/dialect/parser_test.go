package dialect

import (
	"testing"

	"toolwire/internal/domain"
)

func TestDetectTagJSON(t *testing.T) {
	raw := `Sure. <tool_call>{"tool":"t","arguments":{}}</tool_call>`
	if d := Detect(raw); d != domain.DialectTagJSON {
		t.Fatalf("expected tag-JSON dialect, got %q", d)
	}
}

func TestDetectFuncCall(t *testing.T) {
	raw := `<|tool_call_start|>[get_weather(location="SF")]<|tool_call_end|>`
	if d := Detect(raw); d != domain.DialectFuncCall {
		t.Fatalf("expected function-call dialect, got %q", d)
	}
}

func TestDetectNoMarkersDefaultsToTagJSON(t *testing.T) {
	if d := Detect("just a plain answer"); d != domain.DialectTagJSON {
		t.Fatalf("expected default dialect, got %q", d)
	}
}

func TestParseTagJSONWellFormed(t *testing.T) {
	raw := `Let me check. <tool_call>{"tool":"t","arguments":{"a":1}}</tool_call> One moment.`
	res := Parse(raw)

	if !res.HasCall {
		t.Fatal("expected a call")
	}
	if res.Name != "t" {
		t.Fatalf("tool name = %q, want t", res.Name)
	}
	if v, ok := res.Arguments["a"].(float64); !ok || v != 1 {
		t.Fatalf("arguments[a] = %v, want 1", res.Arguments["a"])
	}
	if res.CleanText != "Let me check.  One moment." {
		t.Fatalf("clean text = %q", res.CleanText)
	}
	if res.CallID == "" {
		t.Fatal("expected a synthesized call id")
	}
	if res.Dialect != domain.DialectTagJSON {
		t.Fatalf("dialect = %q", res.Dialect)
	}
}

func TestParseNoMarkersIsIdempotent(t *testing.T) {
	inputs := []string{
		"It is 18°C in SF.",
		"",
		"text with a { brace and a : colon",
	}
	for _, in := range inputs {
		res := Parse(in)
		if res.HasCall {
			t.Fatalf("unexpected call for %q", in)
		}
		if res.CleanText != in {
			t.Fatalf("clean text changed: %q -> %q", in, res.CleanText)
		}
	}
}

func TestParseTagJSONUnquotedKeys(t *testing.T) {
	raw := `<tool_call>{tool: "get_weather", arguments: {location: "Paris"}}</tool_call>`
	res := Parse(raw)

	if !res.HasCall {
		t.Fatal("expected a call after normalization")
	}
	if res.Name != "get_weather" {
		t.Fatalf("tool name = %q", res.Name)
	}
	if res.Arguments["location"] != "Paris" {
		t.Fatalf("arguments[location] = %v", res.Arguments["location"])
	}
}

func TestParseTagJSONMissingArgumentsDefaultsToEmpty(t *testing.T) {
	res := Parse(`<tool_call>{"tool":"ping"}</tool_call>`)
	if !res.HasCall {
		t.Fatal("expected a call")
	}
	if len(res.Arguments) != 0 {
		t.Fatalf("expected empty arguments, got %v", res.Arguments)
	}
}

func TestParseTagJSONMalformedFallsThrough(t *testing.T) {
	cases := []string{
		`<tool_call>{"tool":"t"`,                      // truncated markers
		`<tool_call>not json at all</tool_call>`,      // unparseable body
		`<tool_call>{"arguments":{}}</tool_call>`,     // missing tool name
		`mentions <tool_call> in prose without close`, // marker-looking substring
	}
	for _, raw := range cases {
		res := Parse(raw)
		if res.HasCall {
			t.Fatalf("unexpected call for %q", raw)
		}
		if res.CleanText != raw {
			t.Fatalf("clean text must be unchanged for %q, got %q", raw, res.CleanText)
		}
	}
}

func TestParseTagJSONOnlyFirstBlockIsActionable(t *testing.T) {
	raw := `a <tool_call>{"tool":"one","arguments":{}}</tool_call> b ` +
		`<tool_call>{"tool":"two","arguments":{}}</tool_call> c`
	res := Parse(raw)

	if !res.HasCall || res.Name != "one" {
		t.Fatalf("expected first call, got %+v", res)
	}
	if res.CleanText != "a  b  c" {
		t.Fatalf("later blocks must be stripped from clean text, got %q", res.CleanText)
	}
}

func TestParseFuncCallWellFormed(t *testing.T) {
	raw := `<|tool_call_start|>[get_weather(location="SF", units='metric', days=3, detailed=true, factor=1.5)]<|tool_call_end|>`
	res := Parse(raw)

	if !res.HasCall {
		t.Fatal("expected a call")
	}
	if res.Name != "get_weather" {
		t.Fatalf("tool name = %q", res.Name)
	}
	if res.Arguments["location"] != "SF" {
		t.Fatalf("location = %v", res.Arguments["location"])
	}
	if res.Arguments["units"] != "metric" {
		t.Fatalf("units = %v", res.Arguments["units"])
	}
	if res.Arguments["days"] != int64(3) {
		t.Fatalf("days = %v (%T)", res.Arguments["days"], res.Arguments["days"])
	}
	if res.Arguments["detailed"] != true {
		t.Fatalf("detailed = %v", res.Arguments["detailed"])
	}
	if res.Arguments["factor"] != 1.5 {
		t.Fatalf("factor = %v", res.Arguments["factor"])
	}
	if res.Dialect != domain.DialectFuncCall {
		t.Fatalf("dialect = %q", res.Dialect)
	}
}

func TestParseFuncCallWithoutBrackets(t *testing.T) {
	res := Parse(`<|tool_call_start|>ping(host="localhost")<|tool_call_end|>`)
	if !res.HasCall || res.Name != "ping" {
		t.Fatalf("expected ping call, got %+v", res)
	}
}

func TestParseFuncCallQuotedCommaStaysIntact(t *testing.T) {
	res := Parse(`<|tool_call_start|>[say(text="hello, world")]<|tool_call_end|>`)
	if !res.HasCall {
		t.Fatal("expected a call")
	}
	if res.Arguments["text"] != "hello, world" {
		t.Fatalf("text = %v", res.Arguments["text"])
	}
}

func TestParseFuncCallUnparseableLiteralKeptAsString(t *testing.T) {
	res := Parse(`<|tool_call_start|>[run(mode=fast-ish)]<|tool_call_end|>`)
	if !res.HasCall {
		t.Fatal("expected a call")
	}
	if res.Arguments["mode"] != "fast-ish" {
		t.Fatalf("mode = %v", res.Arguments["mode"])
	}
}

func TestParseFuncCallMalformedFallsThrough(t *testing.T) {
	cases := []string{
		`<|tool_call_start|>[(location="SF")]<|tool_call_end|>`,    // missing identifier
		`<|tool_call_start|>[get_weather(location=]<|tool_call_end|>`, // unbalanced parens
		`<|tool_call_start|>no call here<|tool_call_end|>`,
		`<|tool_call_start|> dangling start marker`,
	}
	for _, raw := range cases {
		res := Parse(raw)
		if res.HasCall {
			t.Fatalf("unexpected call for %q", raw)
		}
		if res.CleanText != raw {
			t.Fatalf("clean text must be unchanged for %q", raw)
		}
	}
}

func TestParseFuncCallUnbalancedParensIsNoCall(t *testing.T) {
	cases := []string{
		`<|tool_call_start|>[get_weather((location="SF")]<|tool_call_end|>`, // extra open
		`<|tool_call_start|>[f(g(x=1)]<|tool_call_end|>`,                    // nested open never closed
		`<|tool_call_start|>[f(x=1))]<|tool_call_end|>`,                     // close before the end
		`<|tool_call_start|>[f(x="1)]<|tool_call_end|>`,                     // closing paren swallowed by open quote
	}
	for _, raw := range cases {
		res := Parse(raw)
		if res.HasCall {
			t.Fatalf("unexpected call for %q: %+v", raw, res)
		}
		if res.CleanText != raw {
			t.Fatalf("clean text must be unchanged for %q, got %q", raw, res.CleanText)
		}
	}
}

func TestParseWithDialectExplicitSelection(t *testing.T) {
	// Tag-JSON content parsed with the function-call dialect finds nothing.
	raw := `<tool_call>{"tool":"t","arguments":{}}</tool_call>`
	res := ParseWithDialect(raw, domain.DialectFuncCall)
	if res.HasCall {
		t.Fatal("explicit dialect must not cross-parse")
	}
	if res.CleanText != raw {
		t.Fatalf("clean text changed: %q", res.CleanText)
	}
}

func TestCallIDsAreUnique(t *testing.T) {
	raw := `<tool_call>{"tool":"t","arguments":{}}</tool_call>`
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		res := Parse(raw)
		if seen[res.CallID] {
			t.Fatalf("duplicate call id %q", res.CallID)
		}
		seen[res.CallID] = true
	}
}
