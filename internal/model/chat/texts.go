package chat

import (
	"fmt"
	"strings"
)

// Fixed system texts shown to channel users.
const (
	RefusalText = "⚠️ Sorry, but your message contains inappropriate words and cannot be translated. Please try again with respectful language."
	FailureText = "⚠️ Sorry, but your message could not be translated. Please check the language code or try again."

	translationTemplate = "✅ **Translation:** \n> %s"
)

// TranslationText wraps a provider result in the user-facing success template.
func TranslationText(translated string) string {
	return fmt.Sprintf(translationTemplate, translated)
}

// WelcomeText renders the greeting that heads every transcript.
func WelcomeText(languages []string) string {
	names := make([]string, 0, len(languages))
	for _, code := range languages {
		if name, ok := languageNames[code]; ok {
			names = append(names, fmt.Sprintf("%s (%s)", name, code))
		} else {
			names = append(names, code)
		}
	}

	var listed string
	switch len(names) {
	case 0:
		listed = "none"
	case 1:
		listed = names[0]
	default:
		listed = strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}

	return "👋 Welcome to the Translation Channel! \n" +
		"Simply type your message with the target language in brackets, like this: **[fr] Hello**. \n" +
		"If you don't specify a language (or omit brackets), I'll automatically translate it to English! 🌎✨ \n" +
		"Available languages: " + listed + ". Enjoy! 😊"
}

var languageNames = map[string]string{
	"en": "English",
	"fr": "French",
	"de": "German",
	"es": "Spanish",
	"it": "Italian",
	"nl": "Dutch",
	"pt": "Portuguese",
	"pl": "Polish",
	"sv": "Swedish",
	"da": "Danish",
	"ja": "Japanese",
	"zh": "Chinese",
}
