package dialect

import "strings"

// NormalizeJSON repairs the most common malformation in model-emitted
// JSON: object keys written without quotes ({tool: "x"} -> {"tool": "x"}).
// The repair is purely syntactic; it inserts quotes around bare
// identifier-like tokens that are immediately followed by a colon, and
// never adds or removes data. Text inside quoted strings is left alone,
// including escaped quotes, so values containing colons or braces survive.
func NormalizeJSON(text string) string {
	var b strings.Builder
	b.Grow(len(text) + 16)

	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if inString {
			b.WriteByte(c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}

		if c == '"' {
			inString = true
			b.WriteByte(c)
			continue
		}

		if isIdentStart(c) {
			j := i
			for j < len(text) && isIdentPart(text[j]) {
				j++
			}
			// Peek past whitespace for a colon: identifier in key position.
			k := j
			for k < len(text) && (text[k] == ' ' || text[k] == '\t' || text[k] == '\n' || text[k] == '\r') {
				k++
			}
			if k < len(text) && text[k] == ':' {
				b.WriteByte('"')
				b.WriteString(text[i:j])
				b.WriteByte('"')
			} else {
				b.WriteString(text[i:j])
			}
			i = j - 1
			continue
		}

		b.WriteByte(c)
	}

	return b.String()
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
