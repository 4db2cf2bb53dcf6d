package dialect

import (
	"strconv"
	"strings"

	"toolwire/internal/domain"
)

// parseFuncCall extracts the first function-call block:
// <|tool_call_start|>[name(arg="val", n=2)]<|tool_call_end|>
// The surrounding brackets are optional. A missing identifier or
// unbalanced parentheses is "no call detected", never a hard failure.
func parseFuncCall(raw string) Result {
	start := strings.Index(raw, funcStart)
	if start < 0 {
		return noCall(raw, domain.DialectFuncCall)
	}
	rel := strings.Index(raw[start+len(funcStart):], funcEnd)
	if rel < 0 {
		return noCall(raw, domain.DialectFuncCall)
	}

	inner := strings.TrimSpace(raw[start+len(funcStart) : start+len(funcStart)+rel])
	inner = strings.TrimPrefix(inner, "[")
	inner = strings.TrimSuffix(inner, "]")
	inner = strings.TrimSpace(inner)

	name, args, ok := parseCallExpr(inner)
	if !ok {
		return noCall(raw, domain.DialectFuncCall)
	}

	return Result{
		HasCall:   true,
		Name:      name,
		Arguments: args,
		CleanText: stripBlocks(raw, funcStart, funcEnd),
		CallID:    newCallID(),
		Dialect:   domain.DialectFuncCall,
	}
}

// parseCallExpr parses identifier(key=value, ...) into a name and an
// argument map.
func parseCallExpr(expr string) (string, map[string]any, bool) {
	open := strings.IndexByte(expr, '(')
	if open <= 0 || !strings.HasSuffix(expr, ")") {
		return "", nil, false
	}

	name := strings.TrimSpace(expr[:open])
	if !isIdentifier(name) {
		return "", nil, false
	}
	if !balancedCall(expr[open:]) {
		return "", nil, false
	}

	args := map[string]any{}
	argText := expr[open+1 : len(expr)-1]
	for _, pair := range splitArgs(argText) {
		eq := strings.IndexByte(pair, '=')
		if eq <= 0 {
			continue
		}
		key := strings.TrimSpace(pair[:eq])
		if !isIdentifier(key) {
			continue
		}
		args[key] = parseLiteral(strings.TrimSpace(pair[eq+1:]))
	}

	return name, args, true
}

// balancedCall reports whether s is one parenthesized group: it opens
// at the first byte, every paren outside a quoted literal is matched,
// and the group closes exactly at the last byte. Anything else means
// the call expression is truncated or garbled.
func balancedCall(s string) bool {
	depth := 0
	var quote byte
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case quote != 0:
			if c == '\\' {
				escaped = true
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth < 0 {
				return false
			}
			if depth == 0 && i != len(s)-1 {
				return false
			}
		}
	}
	return depth == 0 && quote == 0
}

// splitArgs splits a comma-separated argument list, respecting quotes.
func splitArgs(s string) []string {
	var parts []string
	var b strings.Builder
	var quote byte
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			b.WriteByte(c)
			escaped = false
		case quote != 0 && c == '\\':
			b.WriteByte(c)
			escaped = true
		case quote != 0:
			b.WriteByte(c)
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
			b.WriteByte(c)
		case c == ',':
			parts = append(parts, b.String())
			b.Reset()
		default:
			b.WriteByte(c)
		}
	}
	if strings.TrimSpace(b.String()) != "" {
		parts = append(parts, b.String())
	}
	return parts
}

// parseLiteral decodes a single argument value. Quoted text is a string,
// bare numbers become float64 or int depending on the decimal point,
// true/false become booleans, and anything else is kept verbatim.
func parseLiteral(tok string) any {
	if len(tok) >= 2 {
		if (tok[0] == '"' && tok[len(tok)-1] == '"') || (tok[0] == '\'' && tok[len(tok)-1] == '\'') {
			return unescape(tok[1 : len(tok)-1])
		}
	}
	switch tok {
	case "true":
		return true
	case "false":
		return false
	}
	if strings.ContainsAny(tok, ".eE") {
		if f, err := strconv.ParseFloat(tok, 64); err == nil {
			return f
		}
	} else if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return n
	}
	return tok
}

// unescape resolves backslash escapes inside a quoted literal.
func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			switch c {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(c)
			}
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isIdentifier(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentPart(s[i]) {
			return false
		}
	}
	return true
}
