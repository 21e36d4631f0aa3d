package llm

import "strings"

// refusalOpeners are phrases a refusal-style response typically starts with.
var refusalOpeners = []string{
	"i can't",
	"i cannot",
	"i can not",
	"i'm sorry",
	"i am sorry",
	"i'm unable",
	"i am unable",
	"unfortunately",
	"sorry,",
	"as an ai",
}

// IsRefusal heuristically detects a natural-language refusal where JSON was
// requested: the response opens like an apology or decline and contains no
// JSON structure at all. Valid JSON that merely mentions being unable to do
// something is not a refusal.
func IsRefusal(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	if strings.ContainsAny(trimmed, "{[") {
		return false
	}

	lowered := strings.ToLower(trimmed)
	for _, opener := range refusalOpeners {
		if strings.HasPrefix(lowered, opener) {
			return true
		}
	}
	return false
}

// refusalSnippet bounds refusal text for error messages.
func refusalSnippet(text string) string {
	const max = 120
	trimmed := strings.TrimSpace(text)
	if len(trimmed) > max {
		return trimmed[:max] + "..."
	}
	return trimmed
}
