// Package security provides key handling helpers for clizin.
package security

import (
	"fmt"
	"regexp"
	"strings"

	apperrors "github.com/clizin/clizin/internal/pkg/errors"
)

// APIKeyFormat defines the expected key shape per provider.
var APIKeyFormat = map[string]*regexp.Regexp{
	"openai": regexp.MustCompile(`^sk-[a-zA-Z0-9_\-]{20,}$`),
	"google": regexp.MustCompile(`^AIza[0-9A-Za-z_\-]{35}$`),
}

var keyHints = map[string]string{
	"openai": "sk-...",
	"google": "AIza...",
}

// MaskAPIKey masks an API key, showing only the last 4 characters.
func MaskAPIKey(key string) string {
	return apperrors.MaskAPIKey(key)
}

// ValidateAPIKeyFormat checks the shape of apiKey for provider. A non-nil
// result is advisory; providers remain the authority on key validity.
func ValidateAPIKeyFormat(provider, apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return fmt.Errorf("API key is required for %s provider", provider)
	}

	if len(apiKey) < 20 {
		return fmt.Errorf("API key appears to be invalid (too short)")
	}

	pattern, exists := APIKeyFormat[provider]
	if exists && !pattern.MatchString(apiKey) {
		return fmt.Errorf("API key format looks unusual for %s provider (expected format: %s)", provider, keyHints[provider])
	}

	return nil
}

// SanitizeForLogging masks potential secrets in s.
func SanitizeForLogging(s string) string {
	patterns := []struct {
		regex       *regexp.Regexp
		replacement string
	}{
		{regexp.MustCompile(`sk-[a-zA-Z0-9_\-]{20,}`), "sk-****"},
		{regexp.MustCompile(`AIza[0-9A-Za-z_\-]{20,}`), "AIza****"},
		{regexp.MustCompile(`Bearer\s+[a-zA-Z0-9._-]+`), "Bearer ****"},
		{regexp.MustCompile(`([?&]key=)[^&\s"']+`), "${1}****"},
		{regexp.MustCompile(`(?i)(api[_-]?key|apikey|api_secret|secret[_-]?key)\s*[:=]\s*["']?[a-zA-Z0-9._-]+["']?`), "$1=****"},
	}

	result := s
	for _, p := range patterns {
		result = p.regex.ReplaceAllString(result, p.replacement)
	}

	return result
}

// OutboundNotice is shown before the first key is stored.
const OutboundNotice = `clizin sends the staged diff of your repository to the selected provider
(OpenAI or Google) to generate a commit message. Do not stage secrets you
would not share with that provider.`

// StorageNotice describes where keys are kept.
func StorageNotice(path string) string {
	return fmt.Sprintf("API keys are stored in plain text in %s (mode 0600).", path)
}
