package llm

import "strings"

// Clean strips markdown code fences and stray "markdown" language tags that
// models wrap around their output. Other whitespace is left untouched.
func Clean(text string) string {
	if !strings.Contains(text, "```") && !strings.HasPrefix(text, "markdown") {
		return text
	}

	cleaned := strings.ReplaceAll(text, "```markdown", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	for strings.HasPrefix(cleaned, "markdown") {
		cleaned = strings.TrimPrefix(cleaned, "markdown")
	}
	return cleaned
}
