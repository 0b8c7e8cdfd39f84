package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// jsonrepair.go normalizes raw vendor output that is supposed to be JSON
// but frequently arrives wrapped in Markdown fences, padded with prose, or
// carrying minor syntax defects like trailing commas. The repair pass is
// best-effort: it handles the vendor failure modes observed in practice,
// not arbitrarily malformed input. It is pure and shared by all three
// adapters so the heuristics never leak into vendor-specific code.

// ParseJSONObject runs the full repair pipeline over raw vendor text and
// parses the result into a generic JSON object.
func ParseJSONObject(raw string) (map[string]any, error) {
	candidate := ExtractJSONCandidate(raw)
	repaired := RepairJSON(candidate)

	var obj map[string]any
	if err := json.Unmarshal([]byte(repaired), &obj); err != nil {
		return nil, fmt.Errorf("parse failed: %w", err)
	}
	return obj, nil
}

// ExtractJSONCandidate strips Markdown code fences and surrounding prose,
// returning the span most likely to be the JSON object. If no brace pair is
// found the trimmed input is returned unchanged so the parser can report a
// useful error.
func ExtractJSONCandidate(raw string) string {
	text := strings.TrimSpace(raw)

	text = stripCodeFence(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return text
}

// stripCodeFence removes a leading ``` or ```json fence and its closing
// fence. Text that is not fenced passes through untouched.
func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}

	// Drop the opening fence line, including any language tag.
	if idx := strings.Index(text, "\n"); idx >= 0 {
		text = text[idx+1:]
	} else {
		return strings.TrimPrefix(text, "```")
	}

	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}

	return strings.TrimSpace(text)
}

// RepairJSON fixes trailing commas before closing braces and brackets.
// The scan is string-literal aware so commas inside quoted values are
// never touched.
func RepairJSON(text string) string {
	var b strings.Builder
	b.Grow(len(text))

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

		switch c {
		case '"':
			inString = true
			b.WriteByte(c)
		case ',':
			// Look ahead past whitespace; drop the comma if the next
			// structural character closes a container.
			j := i + 1
			for j < len(text) && isJSONSpace(text[j]) {
				j++
			}
			if j < len(text) && (text[j] == '}' || text[j] == ']') {
				continue
			}
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}

func isJSONSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
