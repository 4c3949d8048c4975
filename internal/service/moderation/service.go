package moderation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/lingua-channel/internal/analysis/profanity"
	"github.com/zhouzirui/lingua-channel/internal/logging"
	"github.com/zhouzirui/lingua-channel/internal/telemetry"
)

// Config 控制内容审核服务的行为。
type Config struct {
	LLMEnabled bool
	Words      []string
}

// Classifier 判断一段英文文本是否包含不当用语。
type Classifier interface {
	ContainsProfanity(ctx context.Context, text string) bool
}

// Pivoter normalizes arbitrary-language text into the moderation language.
type Pivoter interface {
	ToPivot(ctx context.Context, text string) (string, error)
}

// Service 使用词表判断，并在启用时交给大模型复核词表未命中的文本。
type Service struct {
	detector   *profanity.Detector
	classifier compose.Runnable[map[string]any, *schema.Message]
	logger     *logging.Logger
}

// NewService 创建审核服务。chatModel 为空或未启用时只使用词表。
func NewService(ctx context.Context, chatModel model.ChatModel, cfg Config, logger *logging.Logger) (*Service, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	svc := &Service{detector: profanity.NewDetector(cfg.Words), logger: logger}

	if !cfg.LLMEnabled || chatModel == nil {
		return svc, nil
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(moderationSystemPrompt),
		schema.UserMessage("{text}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile moderation chain: %w", err)
	}
	svc.classifier = runnable
	return svc, nil
}

// LLMEnabled 返回是否启用了大模型复核。
func (s *Service) LLMEnabled() bool {
	return s != nil && s.classifier != nil
}

// ContainsProfanity 先查词表，未命中时询问大模型；模型失败按词表结果处理。
func (s *Service) ContainsProfanity(ctx context.Context, text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	if s.detector.ContainsProfanity(text) {
		return true
	}
	if !s.LLMEnabled() {
		return false
	}

	msg, err := s.classifier.Invoke(ctx, map[string]any{"text": text})
	if err != nil {
		s.logger.Warnf("[moderation] classifier invoke failed, use word list: %v", err)
		return false
	}
	if msg == nil {
		return false
	}

	verdict, err := parseVerdict(msg.Content)
	if err != nil {
		s.logger.Warnf("[moderation] classifier output parse failed, use word list: %v", err)
		return false
	}
	return verdict.Profane
}

// Filter applies the classifier to the pivot-language rendering of a message.
type Filter struct {
	pivot      Pivoter
	classifier Classifier
	logger     *logging.Logger
}

// NewFilter wires the pivot translator and classifier.
func NewFilter(pivot Pivoter, classifier Classifier, logger *logging.Logger) *Filter {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Filter{pivot: pivot, classifier: classifier, logger: logger}
}

// Rejects reports whether content must be refused. An error means the pivot
// translation failed and nothing could be classified.
func (f *Filter) Rejects(ctx context.Context, content string) (rejected bool, err error) {
	ctx, span := telemetry.StartSpan(ctx, "moderation.check")
	defer func() { telemetry.EndSpan(span, err) }()

	normalized, err := f.pivot.ToPivot(ctx, content)
	if err != nil {
		return false, err
	}

	if f.classifier.ContainsProfanity(ctx, normalized) {
		f.logger.Infof("[moderation] message refused corr=%s", telemetry.GetCorrelation(ctx))
		return true, nil
	}
	return false, nil
}

type verdictPayload struct {
	Profane bool `json:"profane"`
}

// parseVerdict 解析大模型返回的 JSON。
func parseVerdict(content string) (*verdictPayload, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("missing json object")
	}

	payload := &verdictPayload{}
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), payload); err != nil {
		return nil, err
	}
	return payload, nil
}

const moderationSystemPrompt = "You are a content moderator for a public chat channel. " +
	"Decide whether the user's message contains profanity, slurs or obscene language. " +
	"Answer with a single JSON object with one boolean field named profane and nothing else."
