package translation

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestChainTranslatorRendersPrompt(t *testing.T) {
	fake := &fakeChatModel{reply: "  Bonjour  "}
	tr, err := NewChainTranslator(context.Background(), fake)
	if err != nil {
		t.Fatalf("NewChainTranslator err: %v", err)
	}

	got, err := tr.Translate(context.Background(), "Hello", SourceAuto, "fr")
	if err != nil {
		t.Fatalf("Translate err: %v", err)
	}
	if got != "Bonjour" {
		t.Fatalf("unexpected translation %q", got)
	}

	if len(fake.seen) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(fake.seen))
	}
	if !strings.Contains(fake.seen[0].Content, "ISO 639-1 code fr") {
		t.Fatalf("system prompt missing target: %q", fake.seen[0].Content)
	}
	if !strings.Contains(fake.seen[0].Content, "detect it automatically") {
		t.Fatalf("system prompt missing auto source: %q", fake.seen[0].Content)
	}
	if fake.seen[1].Content != "Hello" {
		t.Fatalf("unexpected user message %q", fake.seen[1].Content)
	}
}

func TestChainTranslatorProviderError(t *testing.T) {
	fake := &fakeChatModel{err: errors.New("network down")}
	tr, err := NewChainTranslator(context.Background(), fake)
	if err != nil {
		t.Fatalf("NewChainTranslator err: %v", err)
	}

	if _, err := tr.Translate(context.Background(), "Hello", SourceAuto, "fr"); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestChainTranslatorEmptyReply(t *testing.T) {
	tr, err := NewChainTranslator(context.Background(), &fakeChatModel{reply: "   "})
	if err != nil {
		t.Fatalf("NewChainTranslator err: %v", err)
	}

	if _, err := tr.Translate(context.Background(), "Hello", SourceAuto, "fr"); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestNewChainTranslatorRequiresModel(t *testing.T) {
	if _, err := NewChainTranslator(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil model")
	}
}
