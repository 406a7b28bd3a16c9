package override

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/NicXVII/analisiPortafoglio/internal/domain"
)

// Store is the append-only audit trail for accepted overrides. Records are
// never edited or deleted once written.
type Store interface {
	Append(ctx context.Context, rec domain.OverrideRecord) error
	// List returns records in write order; an empty authorizer means all.
	List(ctx context.Context, authorizer string) ([]domain.OverrideRecord, error)
}

// FileStore is a JSONL audit file, one record per line, mutex-serialized.
// It is the default store when no database is configured.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore opens (or creates) the audit file at path.
func NewFileStore(path string) (*FileStore, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening override audit file: %w", err)
	}
	f.Close()
	return &FileStore{path: path}, nil
}

func (s *FileStore) Append(_ context.Context, rec domain.OverrideRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening override audit file: %w", err)
	}
	defer f.Close()

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding override record: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("appending override record: %w", err)
	}
	return f.Sync()
}

func (s *FileStore) List(_ context.Context, authorizer string) ([]domain.OverrideRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening override audit file: %w", err)
	}
	defer f.Close()

	var records []domain.OverrideRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec domain.OverrideRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("decoding override record: %w", err)
		}
		if authorizer != "" && rec.Authorizer != authorizer {
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading override audit file: %w", err)
	}
	return records, nil
}
