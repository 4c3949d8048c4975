package moderation

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

type fakeChatModel struct {
	reply string
	err   error
	calls int
}

func (m *fakeChatModel) Generate(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(m.reply, nil), nil
}

func (m *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (m *fakeChatModel) BindTools(_ []*schema.ToolInfo) error { return nil }

type fakePivot struct {
	out string
	err error
}

func (p fakePivot) ToPivot(context.Context, string) (string, error) { return p.out, p.err }

func TestServiceWordListOnly(t *testing.T) {
	svc, err := NewService(context.Background(), nil, Config{LLMEnabled: true}, nil)
	if err != nil {
		t.Fatalf("NewService err: %v", err)
	}
	if svc.LLMEnabled() {
		t.Fatal("llm must be disabled without a model")
	}
	if !svc.ContainsProfanity(context.Background(), "well shit") {
		t.Fatal("expected word list hit")
	}
	if svc.ContainsProfanity(context.Background(), "good morning") {
		t.Fatal("unexpected hit")
	}
}

func TestServiceLLMVerdict(t *testing.T) {
	fake := &fakeChatModel{reply: "```json\n{\"profane\": true}\n```"}
	svc, err := NewService(context.Background(), fake, Config{LLMEnabled: true}, nil)
	if err != nil {
		t.Fatalf("NewService err: %v", err)
	}

	if !svc.ContainsProfanity(context.Background(), "some veiled insult") {
		t.Fatal("expected llm verdict to be used")
	}
	if fake.calls != 1 {
		t.Fatalf("expected one model call, got %d", fake.calls)
	}
}

func TestServiceWordListShortCircuitsLLM(t *testing.T) {
	fake := &fakeChatModel{reply: `{"profane": false}`}
	svc, err := NewService(context.Background(), fake, Config{LLMEnabled: true}, nil)
	if err != nil {
		t.Fatalf("NewService err: %v", err)
	}

	if !svc.ContainsProfanity(context.Background(), "fuck") {
		t.Fatal("expected word list hit")
	}
	if fake.calls != 0 {
		t.Fatalf("model must not be called on a word list hit, got %d", fake.calls)
	}
}

func TestServiceLLMFailureFallsBack(t *testing.T) {
	for name, fake := range map[string]*fakeChatModel{
		"error":   {err: errors.New("quota")},
		"garbage": {reply: "I think so"},
	} {
		t.Run(name, func(t *testing.T) {
			svc, err := NewService(context.Background(), fake, Config{LLMEnabled: true}, nil)
			if err != nil {
				t.Fatalf("NewService err: %v", err)
			}
			if svc.ContainsProfanity(context.Background(), "hello friend") {
				t.Fatal("expected fallback to clean word list verdict")
			}
		})
	}
}

func TestFilterUsesPivotText(t *testing.T) {
	svc, _ := NewService(context.Background(), nil, Config{}, nil)

	rejected, err := NewFilter(fakePivot{out: "you bastard"}, svc, nil).Rejects(context.Background(), "du Mistkerl")
	if err != nil || !rejected {
		t.Fatalf("expected rejection, got %v %v", rejected, err)
	}

	rejected, err = NewFilter(fakePivot{out: "hello"}, svc, nil).Rejects(context.Background(), "fuck")
	if err != nil || rejected {
		t.Fatalf("classification must use the pivot text, got %v %v", rejected, err)
	}
}

func TestFilterPivotFailure(t *testing.T) {
	svc, _ := NewService(context.Background(), nil, Config{}, nil)
	boom := errors.New("provider down")

	if _, err := NewFilter(fakePivot{err: boom}, svc, nil).Rejects(context.Background(), "hi"); !errors.Is(err, boom) {
		t.Fatalf("expected pivot error, got %v", err)
	}
}
