// Package task persists navigation tasks and their step history in
// SQLite, with TTL-based expiry.
package task

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/navigator-ai/navcore/internal/agent"
)

// ErrNotFound is returned when a task ID is unknown or expired.
var ErrNotFound = errors.New("task not found")

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	task_id TEXT PRIMARY KEY,
	task TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	expires_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_expires ON tasks(expires_at);
CREATE TABLE IF NOT EXISTS history (
	task_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	url TEXT NOT NULL DEFAULT '',
	actions_json TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	PRIMARY KEY (task_id, seq)
);
`

// Task is a stored navigation task.
type Task struct {
	ID        string    `json:"task_id"`
	Task      string    `json:"task"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is a SQLite-backed task store.
type Store struct {
	db     *sql.DB
	ttl    time.Duration
	logger *slog.Logger
}

// Open opens (creating if needed) the task database at path. Tasks live
// for ttl after creation; Cleanup removes expired rows.
func Open(path string, ttl time.Duration, logger *slog.Logger) (*Store, error) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("open task db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init task db: %w", err)
	}
	return &Store{db: db, ttl: ttl, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Create stores a new task and returns it with a fresh ID.
func (s *Store) Create(ctx context.Context, taskText string) (*Task, error) {
	t := &Task{
		ID:        NewID(),
		Task:      taskText,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (task_id, task, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		t.ID, t.Task, t.CreatedAt.UnixMilli(), t.CreatedAt.Add(s.ttl).UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return t, nil
}

// Get fetches a task by ID. Expired tasks count as not found.
func (s *Store) Get(ctx context.Context, id string) (*Task, error) {
	var t Task
	var createdMs int64
	err := s.db.QueryRowContext(ctx,
		`SELECT task_id, task, created_at FROM tasks WHERE task_id = ? AND expires_at > ?`,
		id, time.Now().UnixMilli()).Scan(&t.ID, &t.Task, &createdMs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select task: %w", err)
	}
	t.CreatedAt = time.UnixMilli(createdMs).UTC()
	return &t, nil
}

// AppendHistory records one executed step for a task. The sequence number
// is assigned inside a write transaction so concurrent updates for the
// same task cannot claim the same slot.
func (s *Store) AppendHistory(ctx context.Context, id string, entry agent.HistoryEntry) error {
	actions, err := json.Marshal(entry.Actions)
	if err != nil {
		return fmt.Errorf("marshal actions: %w", err)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history tx: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM history WHERE task_id = ?`, id).Scan(&seq); err != nil {
		return fmt.Errorf("next history seq: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO history (task_id, seq, url, actions_json, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, seq, entry.URL, string(actions), time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit history: %w", err)
	}
	return nil
}

// History returns a task's steps in execution order.
func (s *Store) History(ctx context.Context, id string) ([]agent.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT url, actions_json FROM history WHERE task_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}
	defer rows.Close()

	entries := []agent.HistoryEntry{}
	for rows.Next() {
		var entry agent.HistoryEntry
		var actionsJSON string
		if err := rows.Scan(&entry.URL, &actionsJSON); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		if err := json.Unmarshal([]byte(actionsJSON), &entry.Actions); err != nil {
			return nil, fmt.Errorf("decode actions: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Cleanup deletes expired tasks and their history. Returns the number of
// tasks removed.
func (s *Store) Cleanup(ctx context.Context) (int64, error) {
	now := time.Now().UnixMilli()
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM history WHERE task_id IN (SELECT task_id FROM tasks WHERE expires_at <= ?)`, now); err != nil {
		return 0, fmt.Errorf("delete expired history: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE expires_at <= ?`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired tasks: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// StartCleanup runs Cleanup on a ticker until ctx is cancelled.
func (s *Store) StartCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := s.Cleanup(ctx)
				if err != nil {
					s.logger.Error("task cleanup failed", "error", err)
				} else if n > 0 {
					s.logger.Info("expired tasks removed", "count", n)
				}
			}
		}
	}()
}
