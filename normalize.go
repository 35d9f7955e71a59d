package officebuddy

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Strategy is one attempt at recovering a JSON object from model output.
type Strategy struct {
	Name  string
	Parse func(text string) (map[string]any, bool)
}

// DefaultStrategies is the recovery cascade used by Normalize, in order.
var DefaultStrategies = []Strategy{
	{Name: "direct", Parse: parseDirect},
	{Name: "fenced", Parse: parseFenced},
	{Name: "braced", Parse: parseBraced},
	{Name: "repaired", Parse: parseRepaired},
}

// Normalize recovers a JSON object from raw model output that may be wrapped
// in prose or code fences or contain minor syntax errors.
// Returns false when no strategy succeeds; malformed input is never an error.
// Only objects are returned, though an object nested in an array is found by
// the brace scan.
func Normalize(text string) (map[string]any, bool) {
	obj, _, ok := NormalizeStrategies(DefaultStrategies, text)
	return obj, ok
}

// NormalizeStrategies tries each strategy in order and returns the first
// object recovered along with the name of the strategy that produced it.
func NormalizeStrategies(strategies []Strategy, text string) (map[string]any, string, bool) {
	for _, s := range strategies {
		if obj, ok := s.Parse(text); ok {
			return obj, s.Name, true
		}
	}
	return nil, "", false
}

// parseObject decodes s, accepting only a JSON object.
func parseObject(s string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

func parseDirect(text string) (map[string]any, bool) {
	return parseObject(strings.TrimSpace(text))
}

var fencedRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

func parseFenced(text string) (map[string]any, bool) {
	m := fencedRe.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	return parseObject(m[1])
}

func parseBraced(text string) (map[string]any, bool) {
	candidate, ok := braceCandidate(text)
	if !ok {
		return nil, false
	}
	return parseObject(candidate)
}

func parseRepaired(text string) (map[string]any, bool) {
	candidate, ok := braceCandidate(text)
	if !ok {
		return nil, false
	}
	return parseObject(repairJSON(candidate))
}

// braceCandidate returns the substring from the first '{' to its matching
// '}'. Braces inside string literals are ignored. When the braces never
// balance, the candidate ends at the nearest '}' instead.
func braceCandidate(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	end := strings.IndexByte(text[start:], '}')
	if end < 0 {
		return "", false
	}
	return text[start : start+end+1], true
}

// repairJSON fixes common syntax errors in model output: stray backticks,
// bare or half-quoted object keys, and trailing commas before '}' or ']'.
// String literals are copied through untouched.
func repairJSON(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 16)

	inString := false
	escaped := false
	expectKey := false
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])

		if inString {
			sb.WriteRune(r)
			i += size
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}

		switch {
		case r == '`':
			i += size
			continue
		case r == '"':
			inString = true
			expectKey = false
		case r == '{':
			expectKey = true
		case r == ',':
			if closesAfter(s[i+size:]) {
				i += size
				continue
			}
			expectKey = true
		case unicode.IsSpace(r):
		case expectKey && isIdentStart(r):
			key, n := identifier(s[i:])
			rest := s[i+n:]
			trimmed := strings.TrimLeftFunc(rest, unicode.IsSpace)
			switch {
			case strings.HasPrefix(trimmed, ":"):
				sb.WriteString(`"` + key + `"`)
				i += n
				expectKey = false
				continue
			case strings.HasPrefix(trimmed, `"`) &&
				strings.HasPrefix(strings.TrimLeftFunc(trimmed[1:], unicode.IsSpace), ":"):
				// Missing opening quote: key": value
				sb.WriteString(`"` + key + `"`)
				i += n + (len(rest) - len(trimmed)) + 1
				expectKey = false
				continue
			}
			expectKey = false
		default:
			expectKey = false
		}

		sb.WriteRune(r)
		i += size
	}
	return sb.String()
}

// closesAfter reports whether s, ignoring leading whitespace and backticks,
// starts with a closing brace or bracket.
func closesAfter(s string) bool {
	t := strings.TrimLeftFunc(s, func(r rune) bool { return unicode.IsSpace(r) || r == '`' })
	return strings.HasPrefix(t, "}") || strings.HasPrefix(t, "]")
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func identifier(s string) (string, int) {
	n := 0
	for n < len(s) {
		r, size := utf8.DecodeRuneInString(s[n:])
		if r != '_' && r != '$' && r != '-' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		n += size
	}
	return s[:n], n
}
