package intake

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/zhouzirui/lingua-channel/internal/analysis/directive"
	"github.com/zhouzirui/lingua-channel/internal/logging"
	"github.com/zhouzirui/lingua-channel/internal/model/chat"
	"github.com/zhouzirui/lingua-channel/internal/service/translation"
	"github.com/zhouzirui/lingua-channel/internal/telemetry"
)

// Outcome is the business result of one submission.
type Outcome string

const (
	Stored      Outcome = telemetry.OutcomeStored
	Refused     Outcome = telemetry.OutcomeRefused
	Unsupported Outcome = telemetry.OutcomeUnsupported
	Failed      Outcome = telemetry.OutcomeFailed
)

// Moderator decides whether a message must be refused.
type Moderator interface {
	Rejects(ctx context.Context, content string) (bool, error)
}

// Resolver turns a language directive into the system reply text.
type Resolver interface {
	Resolve(ctx context.Context, code, text string) (string, error)
	Suggest(code string) string
}

// Appender persists messages at the end of the transcript.
type Appender interface {
	Append(ctx context.Context, messages ...chat.Message) error
}

// Service runs moderation, directive parsing and translation for each
// message and records the outcome in the transcript.
type Service struct {
	moderator  Moderator
	resolver   Resolver
	transcript Appender
	logger     *logging.Logger
}

// NewService wires the pipeline stages.
func NewService(moderator Moderator, resolver Resolver, transcript Appender, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{moderator: moderator, resolver: resolver, transcript: transcript, logger: logger}
}

// Submit processes one validated message. Refusals and translation problems
// are outcomes, not errors; an error means the transcript could not be written.
func (s *Service) Submit(ctx context.Context, sub Submission) (Outcome, error) {
	corr := telemetry.GetCorrelation(ctx)
	if corr == "" {
		corr = uuid.NewString()
		ctx = telemetry.WithCorrelation(ctx, corr)
	}
	log := s.logger.WithField("corr", corr)

	content := strings.TrimSpace(sub.Content)
	outcome, messages := s.evaluate(ctx, log, content, sub)

	if err := s.transcript.Append(ctx, messages...); err != nil {
		log.Errorf("[intake] failed to append outcome=%s %s: %v", outcome, sub, err)
		return outcome, fmt.Errorf("failed to record message: %w", err)
	}

	telemetry.RecordOutcome(string(outcome))
	log.Infof("[intake] recorded outcome=%s %s", outcome, sub)
	return outcome, nil
}

func (s *Service) evaluate(ctx context.Context, log *logging.Logger, content string, sub Submission) (Outcome, []chat.Message) {
	rejected, err := s.moderator.Rejects(ctx, content)
	if err != nil {
		log.Warnf("[intake] moderation pivot failed: %v", err)
		return Failed, []chat.Message{chat.SystemMessage(chat.FailureText, sub.Timestamp)}
	}
	if rejected {
		return Refused, []chat.Message{chat.SystemMessage(chat.RefusalText, sub.Timestamp)}
	}

	d := directive.Parse(content)
	reply, err := s.resolver.Resolve(ctx, d.Language, d.Text)
	switch {
	case errors.Is(err, translation.ErrUnsupportedLanguage):
		return Unsupported, []chat.Message{chat.SystemMessage(s.resolver.Suggest(d.Language), sub.Timestamp)}
	case err != nil:
		log.Warnf("[intake] translation failed lang=%s: %v", d.Language, err)
		return Failed, []chat.Message{chat.SystemMessage(chat.FailureText, sub.Timestamp)}
	}

	user := chat.Message{
		Content:   content,
		Sender:    sub.Sender,
		Timestamp: sub.Timestamp,
		Extra:     sub.Extra,
	}
	return Stored, []chat.Message{user, chat.SystemMessage(reply, sub.Timestamp)}
}
