package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/maastricht-university/emotiai/emotion"
)

const DefaultLimit = 20

// Entry is one rendered result.
type Entry struct {
	ID            string                `json:"id"`
	Timestamp     time.Time             `json:"timestamp"`
	Session       string                `json:"session,omitempty"`
	Modality      emotion.Modality      `json:"modality"`
	Label         string                `json:"label"`
	Emotion       string                `json:"emotion"`
	Confidence    int                   `json:"confidence"`
	Faces         int                   `json:"faces"`
	Probabilities emotion.Probabilities `json:"probabilities,omitempty"`
	Transcript    string                `json:"transcript,omitempty"`
}

// Journal is a SQLite-backed history of rendered results.
type Journal struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates the database file and schema if needed.
func Open(ctx context.Context, path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("journal dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("journal open: %w", err)
	}
	db.SetMaxOpenConns(1)

	j := &Journal{db: db}
	if err := j.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal schema: %w", err)
	}
	return j, nil
}

func (j *Journal) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS results (
		id TEXT PRIMARY KEY,
		timestamp TEXT NOT NULL,
		session TEXT,
		modality TEXT NOT NULL,
		label TEXT NOT NULL,
		emotion TEXT NOT NULL,
		confidence INTEGER NOT NULL,
		faces INTEGER NOT NULL,
		probabilities TEXT,
		transcript TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_results_timestamp ON results(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_results_session ON results(session);
	`
	_, err := j.db.ExecContext(ctx, schema)
	return err
}

// Record stores e, filling in ID and Timestamp when empty.
func (j *Journal) Record(ctx context.Context, e *Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	var probs []byte
	if len(e.Probabilities) > 0 {
		var err error
		if probs, err = json.Marshal(e.Probabilities); err != nil {
			return fmt.Errorf("journal encode: %w", err)
		}
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO results (id, timestamp, session, modality, label, emotion, confidence, faces, probabilities, transcript)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Timestamp.UTC().Format(time.RFC3339Nano), e.Session, string(e.Modality),
		e.Label, e.Emotion, e.Confidence, e.Faces, string(probs), e.Transcript,
	)
	if err != nil {
		return fmt.Errorf("journal insert: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, timestamp, session, modality, label, emotion, confidence, faces, probabilities, transcript
		FROM results ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("journal query: %w", err)
	}
	defer rows.Close()

	var out []*Entry
	for rows.Next() {
		var (
			e                  Entry
			ts, modality       string
			session, probs, tr sql.NullString
		)
		if err := rows.Scan(&e.ID, &ts, &session, &modality, &e.Label, &e.Emotion,
			&e.Confidence, &e.Faces, &probs, &tr); err != nil {
			return nil, fmt.Errorf("journal scan: %w", err)
		}
		if e.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("journal timestamp %q: %w", ts, err)
		}
		e.Session = session.String
		e.Modality = emotion.Modality(modality)
		e.Transcript = tr.String
		if probs.String != "" {
			if err := json.Unmarshal([]byte(probs.String), &e.Probabilities); err != nil {
				return nil, fmt.Errorf("journal probabilities: %w", err)
			}
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (j *Journal) Close() error { return j.db.Close() }
