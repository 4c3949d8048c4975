package translation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/zhouzirui/lingua-channel/internal/model/chat"
)

type stubTranslator struct {
	calls  []string
	err    error
	prefix string
}

func (s *stubTranslator) Translate(_ context.Context, text, source, target string) (string, error) {
	s.calls = append(s.calls, source+">"+target+":"+text)
	if s.err != nil {
		return "", s.err
	}
	return s.prefix + target + ":" + text, nil
}

var languages = []string{"en", "fr", "de", "es", "it", "nl", "pt"}

func TestResolveSupported(t *testing.T) {
	stub := &stubTranslator{}
	d := NewDispatcher(stub, languages, nil)

	got, err := d.Resolve(context.Background(), "fr", "Hello")
	if err != nil {
		t.Fatalf("Resolve err: %v", err)
	}
	if got != chat.TranslationText("fr:Hello") {
		t.Fatalf("unexpected result %q", got)
	}
	if len(stub.calls) != 1 || stub.calls[0] != "auto>fr:Hello" {
		t.Fatalf("unexpected provider calls %v", stub.calls)
	}
}

func TestResolveUnsupportedSkipsProvider(t *testing.T) {
	stub := &stubTranslator{}
	d := NewDispatcher(stub, languages, nil)

	for _, code := range []string{"xx", "FR", "f", ""} {
		if _, err := d.Resolve(context.Background(), code, "Hi"); !errors.Is(err, ErrUnsupportedLanguage) {
			t.Fatalf("code %q: expected ErrUnsupportedLanguage, got %v", code, err)
		}
	}
	if len(stub.calls) != 0 {
		t.Fatalf("provider must not be called, got %v", stub.calls)
	}
}

func TestResolveProviderFailure(t *testing.T) {
	d := NewDispatcher(&stubTranslator{err: errors.New("timeout")}, languages, nil)

	if _, err := d.Resolve(context.Background(), "de", "Hi"); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestResolveEmptyText(t *testing.T) {
	d := NewDispatcher(&stubTranslator{}, languages, nil)

	if _, err := d.Resolve(context.Background(), "de", "  "); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
}

func TestToPivot(t *testing.T) {
	stub := &stubTranslator{}
	d := NewDispatcher(stub, []string{"fr"}, nil)

	got, err := d.ToPivot(context.Background(), "Bonjour")
	if err != nil {
		t.Fatalf("ToPivot err: %v", err)
	}
	if got != "en:Bonjour" {
		t.Fatalf("unexpected pivot %q", got)
	}

	if got, err := d.ToPivot(context.Background(), ""); err != nil || got != "" {
		t.Fatalf("empty pivot should be a no-op, got %q %v", got, err)
	}
	if len(stub.calls) != 1 {
		t.Fatalf("unexpected provider calls %v", stub.calls)
	}
}

func TestNilTranslatorIsUnavailable(t *testing.T) {
	d := NewDispatcher(nil, languages, nil)

	if _, err := d.Resolve(context.Background(), "fr", "Hi"); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestSuggest(t *testing.T) {
	d := NewDispatcher(nil, languages, nil)
	if got := d.Suggest("fra"); !strings.Contains(got, "[fr]") {
		t.Fatalf("unexpected suggestion %q", got)
	}
}
