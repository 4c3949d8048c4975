// Package store persists the channel transcript as a single serialized list,
// read whole and rewritten whole.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/zhouzirui/lingua-channel/internal/config"
	"github.com/zhouzirui/lingua-channel/internal/model/chat"
)

// ErrCorrupt marks persisted state that exists but cannot be decoded.
var ErrCorrupt = errors.New("transcript state is corrupt")

// Backend reads and writes the whole transcript. Load returns an empty slice
// when nothing has been persisted yet.
type Backend interface {
	Load(ctx context.Context) ([]chat.Message, error)
	Save(ctx context.Context, messages []chat.Message) error
	Close() error
}

// UpdateFunc maps the current transcript to the one to persist. loadErr is
// non-nil only when the stored state is corrupt; current is then empty.
// Returning an error aborts the update without writing.
type UpdateFunc func(current []chat.Message, loadErr error) ([]chat.Message, error)

// Updater is implemented by backends that can run a read-modify-write as one
// transaction, so writers in other processes cannot interleave.
type Updater interface {
	Update(ctx context.Context, fn UpdateFunc) error
}

// Open builds the backend selected by cfg.
func Open(ctx context.Context, cfg config.StoreConfig) (Backend, error) {
	switch cfg.Backend {
	case config.StoreFile, "":
		return NewFileStore(cfg.FilePath), nil
	case config.StorePostgres:
		return OpenSQL(ctx, DialectPostgres, cfg.DSN)
	case config.StoreSQLite:
		return OpenSQL(ctx, DialectSQLite, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
