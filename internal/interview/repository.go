package interview

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrSessionNotFound = errors.New("interview session not found")

// Repository persists session snapshots. The snapshot is the plain-data
// Session struct only; resuming an interview reconstructs everything from
// it, never from a serialized engine instance.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Session, error)
	Save(ctx context.Context, s *Session) error
}

type postgresRepo struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepo{db: db}
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Session, error) {
	var snapshot []byte
	query := `SELECT snapshot FROM interview_sessions WHERE id = $1`
	if err := r.db.GetContext(ctx, &snapshot, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	var s Session
	if err := json.Unmarshal(snapshot, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session snapshot: %w", err)
	}
	return &s, nil
}

func (r *postgresRepo) Save(ctx context.Context, s *Session) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	s.UpdatedAt = time.Now()

	snapshot, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session snapshot: %w", err)
	}

	query := `
		INSERT INTO interview_sessions (id, state, language, snapshot, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			state = $2,
			snapshot = $4,
			updated_at = $6
	`
	_, err = r.db.ExecContext(ctx, query,
		s.ID, s.State, s.Language, snapshot, s.CreatedAt, s.UpdatedAt)
	return err
}

// memoryRepo backs DB-less runs. It round-trips sessions through JSON so
// in-memory behavior matches the Postgres snapshot path exactly.
type memoryRepo struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID][]byte
}

func NewMemoryRepository() Repository {
	return &memoryRepo{sessions: make(map[uuid.UUID][]byte)}
}

func (r *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	snapshot, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	var s Session
	if err := json.Unmarshal(snapshot, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *memoryRepo) Save(_ context.Context, s *Session) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	s.UpdatedAt = time.Now()

	snapshot, err := json.Marshal(s)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.sessions[s.ID] = snapshot
	r.mu.Unlock()
	return nil
}
