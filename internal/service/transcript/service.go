package transcript

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/zhouzirui/lingua-channel/internal/logging"
	"github.com/zhouzirui/lingua-channel/internal/model/chat"
	"github.com/zhouzirui/lingua-channel/internal/store"
	"github.com/zhouzirui/lingua-channel/internal/telemetry"
)

// Service serializes every read-modify-write of the transcript behind one
// mutex so concurrent appends never lose each other's messages.
type Service struct {
	mu      sync.Mutex
	backend store.Backend
	limit   int
	logger  *logging.Logger
}

// NewService wraps backend with a window of limit messages.
func NewService(backend store.Backend, limit int, logger *logging.Logger) *Service {
	if limit < 2 {
		limit = 2
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{backend: backend, limit: limit, logger: logger}
}

// errUnchanged aborts a mutation that has nothing to write.
var errUnchanged = errors.New("transcript unchanged")

// LoadAll returns the persisted transcript. Unreadable state is logged,
// counted and reported as an empty transcript.
func (s *Service) LoadAll(ctx context.Context) []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages, err := s.backend.Load(ctx)
	if err != nil {
		if errors.Is(err, store.ErrCorrupt) {
			s.reportCorrupt(err)
		} else {
			s.logger.Errorf("[transcript] failed to load transcript, serving empty: %v", err)
		}
		return []chat.Message{}
	}
	return messages
}

// Append adds messages in order and persists the trimmed window atomically
// with respect to other Append calls.
func (s *Service) Append(ctx context.Context, messages ...chat.Message) error {
	return s.mutate(ctx, func(current []chat.Message) ([]chat.Message, error) {
		return append(current, messages...), nil
	})
}

// EnsureWelcome puts a system welcome message at the head of the transcript
// unless one is already there.
func (s *Service) EnsureWelcome(ctx context.Context, content string) error {
	return s.mutate(ctx, func(current []chat.Message) ([]chat.Message, error) {
		if len(current) > 0 && current[0].IsSystem() {
			return nil, errUnchanged
		}
		welcome := chat.SystemMessage(content, time.Now().UTC().Format("2006-01-02T15:04:05.000000"))
		s.logger.Infof("[transcript] inserting welcome message ahead of %d existing messages", len(current))
		return append([]chat.Message{welcome}, current...), nil
	})
}

// mutate runs apply on the current transcript and saves the trimmed result.
// Corrupt state counts as empty; any other load failure aborts without writing
// so persisted history is never replaced by a partial view.
func (s *Service) mutate(ctx context.Context, apply func([]chat.Message) ([]chat.Message, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var saved []chat.Message
	step := func(current []chat.Message, loadErr error) ([]chat.Message, error) {
		if loadErr != nil {
			s.reportCorrupt(loadErr)
			current = []chat.Message{}
		}
		next, err := apply(current)
		if err != nil {
			return nil, err
		}
		saved = Window(next, s.limit)
		return saved, nil
	}

	var err error
	if updater, ok := s.backend.(store.Updater); ok {
		err = updater.Update(ctx, step)
	} else {
		err = s.readModifyWrite(ctx, step)
	}
	if errors.Is(err, errUnchanged) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to persist transcript: %w", err)
	}
	telemetry.SetTranscriptLength(len(saved))
	return nil
}

func (s *Service) readModifyWrite(ctx context.Context, step store.UpdateFunc) error {
	current, loadErr := s.backend.Load(ctx)
	if loadErr != nil && !errors.Is(loadErr, store.ErrCorrupt) {
		s.logger.Errorf("[transcript] failed to load transcript, refusing to overwrite: %v", loadErr)
		return loadErr
	}

	next, err := step(current, loadErr)
	if err != nil {
		return err
	}
	return s.backend.Save(ctx, next)
}

func (s *Service) reportCorrupt(err error) {
	telemetry.RecordStoreCorrupt()
	s.logger.Warnf("[transcript] persisted transcript unreadable, treating as empty: %v", err)
}

// Window keeps the most recent limit messages. A system message at the head
// stays pinned there and counts toward the limit, so the transcript always
// opens with the welcome at the cost of dropping one extra older entry.
func Window(messages []chat.Message, limit int) []chat.Message {
	if len(messages) <= limit {
		return messages
	}
	if messages[0].IsSystem() {
		tail := messages[len(messages)-(limit-1):]
		out := make([]chat.Message, 0, limit)
		out = append(out, messages[0])
		return append(out, tail...)
	}
	return append([]chat.Message(nil), messages[len(messages)-limit:]...)
}
