package directive

import "strings"

// DefaultLanguage applies when the message has no bracketed directive.
const DefaultLanguage = "en"

// Directive is the target language and the text to translate into it.
type Directive struct {
	Language string
	Text     string
}

// Parse extracts a leading "[code]" directive. Only the first closing bracket
// counts; anything without a leading "[" and some "]" translates to English.
func Parse(content string) Directive {
	if strings.HasPrefix(content, "[") {
		if end := strings.Index(content, "]"); end >= 0 {
			return Directive{
				Language: strings.TrimSpace(content[1:end]),
				Text:     strings.TrimSpace(content[end+1:]),
			}
		}
	}
	return Directive{Language: DefaultLanguage, Text: strings.TrimSpace(content)}
}
