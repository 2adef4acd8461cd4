package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/funvibe/hxtype/internal/typesystem"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
)

// Entry is one cached signature.
type Entry struct {
	Key            string
	Source         string
	Specialization string
	Rendered       string // with constants and argument names
	Plain          string // canonical signature
	RequiredArgs   int
	Session        uuid.UUID
	CreatedAt      time.Time
}

// Store persists canonical renderings of resolved type expressions.
// Each opened store gets its own session ID, recorded with every write.
type Store struct {
	path    string
	db      *sql.DB
	session uuid.UUID
	mu      sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("cache path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("cache path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory %q: %w", dir, err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite cache %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite cache %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db, session: uuid.New()}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func (s *Store) Session() uuid.UUID {
	return s.session
}

// Key derives the cache key for a type expression resolved under spec.
func Key(source string, spec *typesystem.Specialization) string {
	sum := sha256.Sum256([]byte(source + "\x00" + spec.Key()))
	return hex.EncodeToString(sum[:])
}

// NewEntry describes a resolved type for storage.
func NewEntry(source string, spec *typesystem.Specialization, h *typesystem.ResultHolder) Entry {
	e := Entry{
		Key:            Key(source, spec),
		Source:         source,
		Specialization: spec.Key(),
		Rendered:       h.String(),
		Plain:          h.StringWithoutConstant(),
	}
	if fn := h.FunctionType(); fn != nil {
		e.RequiredArgs = fn.GetNonOptionalArgumentsCount()
	}
	return e
}

// Get returns the entry stored under key. The boolean is false when there is none.
func (s *Store) Get(key string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		e         Entry
		session   string
		createdAt string
	)
	err := s.withRetry("get signature", func() error {
		return s.db.QueryRow(`
SELECT cache_key, source, specialization, rendered, plain, required_args, session_id, created_at_utc
FROM signatures WHERE cache_key = ?`, key).Scan(
			&e.Key, &e.Source, &e.Specialization, &e.Rendered, &e.Plain, &e.RequiredArgs, &session, &createdAt)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}

	if e.Session, err = uuid.Parse(session); err != nil {
		return Entry{}, false, fmt.Errorf("signature %s: invalid session id: %w", key, err)
	}
	if ts, perr := time.Parse(time.RFC3339Nano, createdAt); perr == nil {
		e.CreatedAt = ts
	}
	return e, true, nil
}

// Put stores e, replacing any entry with the same key. The store's session
// ID is recorded with the entry.
func (s *Store) Put(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.Key == "" {
		return fmt.Errorf("put signature: empty key")
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	query := `
INSERT INTO signatures (cache_key, source, specialization, rendered, plain, required_args, session_id, created_at_utc)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(cache_key) DO UPDATE SET
  source=excluded.source,
  specialization=excluded.specialization,
  rendered=excluded.rendered,
  plain=excluded.plain,
  required_args=excluded.required_args,
  session_id=excluded.session_id,
  created_at_utc=excluded.created_at_utc
`
	return s.withRetry("put signature", func() error {
		_, err := s.db.Exec(query,
			e.Key, e.Source, e.Specialization, e.Rendered, e.Plain, e.RequiredArgs,
			s.session.String(), e.CreatedAt.UTC().Format(time.RFC3339Nano))
		return err
	})
}

// Count returns the number of stored entries.
func (s *Store) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	err := s.withRetry("count signatures", func() error {
		return s.db.QueryRow(`SELECT COUNT(*) FROM signatures`).Scan(&n)
	})
	return n, err
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	if errors.Is(lastErr, sql.ErrNoRows) {
		return lastErr
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}
