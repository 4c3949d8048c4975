package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/zhouzirui/lingua-channel/internal/model/chat"
)

// FileStore keeps the transcript in one JSON file.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the JSON file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the file. A missing file is an empty transcript and a malformed
// one wraps ErrCorrupt. Read failures are returned as they are.
func (s *FileStore) Load(_ context.Context) ([]chat.Message, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []chat.Message{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	return decodeMessages(data)
}

// Save writes to a temporary file and renames it over the transcript so
// readers never observe a partial write.
func (s *FileStore) Save(_ context.Context, messages []chat.Message) error {
	data, err := json.Marshal(nonNil(messages))
	if err != nil {
		return fmt.Errorf("failed to encode transcript: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create transcript directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write transcript: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace transcript: %w", err)
	}
	return nil
}

// Close is a no-op for files.
func (s *FileStore) Close() error {
	return nil
}

func decodeMessages(data []byte) ([]chat.Message, error) {
	var messages []chat.Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return nonNil(messages), nil
}

func nonNil(messages []chat.Message) []chat.Message {
	if messages == nil {
		return []chat.Message{}
	}
	return messages
}
