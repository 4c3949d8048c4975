package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// SourceAuto asks the provider to detect the source language itself.
const SourceAuto = "auto"

var (
	ErrUnsupportedLanguage = errors.New("unsupported language code")
	ErrProviderUnavailable = errors.New("translation provider unavailable")
	ErrEmptyText           = errors.New("nothing to translate")
)

// Translator is the external translation capability.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// ChainTranslator translates through an LLM prompt chain.
type ChainTranslator struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewChainTranslator compiles the translation chain on top of chatModel.
func NewChainTranslator(ctx context.Context, chatModel model.ChatModel) (*ChainTranslator, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("chat model is required")
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(translateSystemPrompt),
		schema.UserMessage("{text}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile translation chain: %w", err)
	}
	return &ChainTranslator{chain: runnable}, nil
}

// Translate runs the chain and returns the model's trimmed reply.
func (t *ChainTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	input := map[string]any{
		"source": describeSource(source),
		"target": target,
		"text":   text,
	}

	msg, err := t.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", fmt.Errorf("%w: empty model reply", ErrProviderUnavailable)
	}
	return strings.TrimSpace(msg.Content), nil
}

func describeSource(source string) string {
	if source == "" || source == SourceAuto {
		return "detect it automatically"
	}
	return "ISO 639-1 code " + source
}

// Unavailable stands in when no provider credentials are configured.
type Unavailable struct{}

// Translate always fails.
func (Unavailable) Translate(context.Context, string, string, string) (string, error) {
	return "", fmt.Errorf("%w: no provider configured", ErrProviderUnavailable)
}

const translateSystemPrompt = "You are a translation engine. The source language is: {source}. " +
	"Translate the user's message into the language with ISO 639-1 code {target}. " +
	"Reply with the translated text only. Do not add quotes, notes or explanations. " +
	"If the message is already in the target language, repeat it unchanged."
