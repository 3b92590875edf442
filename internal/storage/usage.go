package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// DialogEvent is one served dialog request.
type DialogEvent struct {
	RequestID    string
	NPCClass     string
	Engine       string
	FromProvider bool
	Cached       bool
	Failed       bool
	Latency      time.Duration
	CreatedAt    time.Time
}

// UsageSummary aggregates the usage log. Fallbacks are provider-backed
// requests answered with static lines.
type UsageSummary struct {
	Total         int64            `json:"total"`
	ProviderCalls int64            `json:"provider_calls"`
	CacheHits     int64            `json:"cache_hits"`
	Fallbacks     int64            `json:"fallbacks"`
	Failures      int64            `json:"failures"`
	ByClass       map[string]int64 `json:"by_class"`
}

// UsageStore records dialog events in SQLite. It is write-mostly
// telemetry; nothing in the dialog path reads it back.
type UsageStore struct {
	db *sql.DB
}

const createDialogEvents = `
CREATE TABLE IF NOT EXISTS dialog_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	request_id TEXT NOT NULL,
	npc_class TEXT NOT NULL,
	engine TEXT NOT NULL,
	from_provider INTEGER NOT NULL DEFAULT 0,
	cached INTEGER NOT NULL DEFAULT 0,
	failed INTEGER NOT NULL DEFAULT 0,
	latency_ms INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_dialog_events_class ON dialog_events(npc_class);
`

// Open opens or creates the usage database at path and runs migrations.
func Open(path string) (*UsageStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open usage db: %w", err)
	}
	// SQLite allows a single writer
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createDialogEvents); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate usage db: %w", err)
	}

	return &UsageStore{db: db}, nil
}

// Record stores one dialog event. A zero CreatedAt means now.
func (s *UsageStore) Record(ctx context.Context, ev DialogEvent) error {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO dialog_events (request_id, npc_class, engine, from_provider, cached, failed, latency_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.RequestID, ev.NPCClass, ev.Engine, ev.FromProvider, ev.Cached, ev.Failed, ev.Latency.Milliseconds(), ev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record dialog event: %w", err)
	}
	return nil
}

// Summary aggregates every recorded event.
func (s *UsageStore) Summary(ctx context.Context) (UsageSummary, error) {
	sum := UsageSummary{ByClass: map[string]int64{}}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(from_provider), 0),
			COALESCE(SUM(cached), 0),
			COALESCE(SUM(CASE WHEN engine != 'rule' AND from_provider = 0 AND cached = 0 AND failed = 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(failed), 0)
		FROM dialog_events`,
	).Scan(&sum.Total, &sum.ProviderCalls, &sum.CacheHits, &sum.Fallbacks, &sum.Failures)
	if err != nil {
		return UsageSummary{}, fmt.Errorf("summarize usage: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT npc_class, COUNT(*) FROM dialog_events GROUP BY npc_class ORDER BY npc_class`)
	if err != nil {
		return UsageSummary{}, fmt.Errorf("summarize usage by class: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var class string
		var n int64
		if err := rows.Scan(&class, &n); err != nil {
			return UsageSummary{}, fmt.Errorf("scan class count: %w", err)
		}
		sum.ByClass[class] = n
	}
	if err := rows.Err(); err != nil {
		return UsageSummary{}, fmt.Errorf("iterate class counts: %w", err)
	}

	return sum, nil
}

// Close releases the database.
func (s *UsageStore) Close() error {
	return s.db.Close()
}
