package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

var trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)

// CleanAndParseJSON recovers a JSON object from model output that may be
// wrapped in prose or markdown code fences, or carry trailing commas. It is
// the single shared contract between whatever a model chose to emit and a
// record this system can trust: every AI-backed tier parses through it.
//
// Steps, each applied to the output of the previous:
//  1. strip ```json / ``` fence markers
//  2. slice from the first '{' to the last '}' (drops surrounding prose)
//  3. remove trailing commas before a closing '}' or ']'
//  4. strict JSON parse
//
// Returns (nil, false) when no object can be recovered; it never panics and
// the caller keeps the original text for diagnostics.
func CleanAndParseJSON(raw string) (map[string]any, bool) {
	s := strings.ReplaceAll(raw, "```json", "")
	s = strings.ReplaceAll(s, "```", "")

	first := strings.Index(s, "{")
	last := strings.LastIndex(s, "}")
	if first != -1 && last != -1 && last > first {
		s = s[first : last+1]
	}

	s = trailingCommaRe.ReplaceAllString(s, "$1")

	var parsed map[string]any
	if err := json.Unmarshal([]byte(s), &parsed); err != nil {
		return nil, false
	}
	return parsed, true
}
