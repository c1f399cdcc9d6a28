package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const eof = -1

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStartRune(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPartRune(r rune) bool {
	return isIdentStartRune(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) ||
		unicode.Is(unicode.Mc, r) || unicode.Is(unicode.Pc, r) || r == 0x200C || r == 0x200D
}

func isLineTerminator(r rune) bool {
	return r == '\n' || r == '\r' || r == 0x2028 || r == 0x2029
}

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\v', '\f', 0xA0, 0xFEFF:
		return true
	}
	return isLineTerminator(r) || unicode.Is(unicode.Zs, r)
}

func isXMLNameStartByte(c byte) bool {
	return c == '_' || c == ':' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isXMLNameRune(r rune) bool {
	return r == '_' || r == ':' || r == '-' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// decodeEscape decodes \uXXXX, \u{X...} or \xXX at the start of s.
// It returns the rune, the number of bytes consumed and whether the
// sequence was well formed.
func decodeEscape(s string) (rune, int, bool) {
	if len(s) < 2 || s[0] != '\\' {
		return 0, 0, false
	}
	switch s[1] {
	case 'u':
		if len(s) > 2 && s[2] == '{' {
			end := 3
			for end < len(s) && isHex(s[end]) {
				end++
			}
			if end == 3 || end >= len(s) || s[end] != '}' || end-3 > 6 {
				return 0, 0, false
			}
			v, err := strconv.ParseUint(s[3:end], 16, 32)
			if err != nil || v > unicode.MaxRune {
				return 0, 0, false
			}
			return rune(v), end + 1, true
		}
		if len(s) < 6 {
			return 0, 0, false
		}
		for i := 2; i < 6; i++ {
			if !isHex(s[i]) {
				return 0, 0, false
			}
		}
		v, _ := strconv.ParseUint(s[2:6], 16, 32)
		return rune(v), 6, true
	case 'x':
		if len(s) < 4 || !isHex(s[2]) || !isHex(s[3]) {
			return 0, 0, false
		}
		v, _ := strconv.ParseUint(s[2:4], 16, 32)
		return rune(v), 4, true
	}
	return 0, 0, false
}

// DecodeEscapes replaces every well-formed \u and \x escape in s with the
// character it denotes, leaving quotes, backslashes and line terminators
// escaped. Tokens keep this form of their source text.
func DecodeEscapes(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); {
		if s[i] == '\\' && i+1 < len(s) {
			if r, n, ok := decodeEscape(s[i:]); ok && !keepEscaped(r) {
				out = utf8.AppendRune(out, r)
				i += n
				continue
			}
			out = append(out, s[i], s[i+1])
			i += 2
			continue
		}
		out = append(out, s[i])
		i++
	}
	return string(out)
}

func keepEscaped(r rune) bool {
	return r == '"' || r == '\'' || r == '\\' || isLineTerminator(r) || r == 0 || !utf8.ValidRune(r)
}

// StringValue returns the value of a string literal token text: the quotes
// are removed and every escape sequence is resolved.
func StringValue(text string) string {
	if len(text) > 0 && (text[0] == '"' || text[0] == '\'') {
		q := text[0]
		text = text[1:]
		if len(text) > 0 && text[len(text)-1] == q {
			text = text[:len(text)-1]
		}
	}
	if strings.IndexByte(text, '\\') < 0 {
		return text
	}
	var b strings.Builder
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '\\' || i+1 == len(text) {
			b.WriteByte(c)
			continue
		}
		if r, n, ok := decodeEscape(text[i:]); ok {
			b.WriteRune(r)
			i += n - 1
			continue
		}
		i++
		switch text[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\n':
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
		default:
			b.WriteByte(text[i])
		}
	}
	return b.String()
}
