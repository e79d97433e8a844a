package anytype

import "regexp"

// credentialPatterns match secrets that may appear in response bodies,
// e.g. the api_keys endpoint echoing a key in an error payload.
var credentialPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)"(api_key|app_key|session_token|token)"\s*:\s*"[^"]*"`),
	regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9._~+/=-]{8,}`),
	regexp.MustCompile(`(?i)(api[_-]?key|token|secret)\s*[:=]\s*["']?[^\s"',}]{8,}["']?`),
}

const redactedPlaceholder = "[REDACTED]"

// scrubCredentials replaces known credential patterns in text.
func scrubCredentials(text string) string {
	for _, pat := range credentialPatterns {
		text = pat.ReplaceAllString(text, redactedPlaceholder)
	}
	return text
}
