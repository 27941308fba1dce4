// Package sqlite provides the append-only collection event journal on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/mintage/internal/collection/domain"
	"github.com/louisbranch/mintage/internal/collection/event"
	"github.com/louisbranch/mintage/internal/platform/storage/sqlitemigrate"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const defaultListLimit = 100

// Journal is a SQLite-backed event journal.
type Journal struct {
	sqlDB *sql.DB
}

// Open opens the journal database and applies bundled migrations.
func Open(path string) (*Journal, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("journal path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := sqlitemigrate.Apply(context.Background(), sqlDB, migrationFS, "migrations"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Journal{sqlDB: sqlDB}, nil
}

// Close releases the underlying SQLite database.
func (j *Journal) Close() error {
	if j == nil || j.sqlDB == nil {
		return nil
	}
	return j.sqlDB.Close()
}

// AppendEvent persists the event and returns it with its sequence number set.
func (j *Journal) AppendEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	if err := ctx.Err(); err != nil {
		return event.Event{}, err
	}
	if j == nil || j.sqlDB == nil {
		return event.Event{}, fmt.Errorf("journal is not configured")
	}
	if !evt.Type.IsValid() {
		return event.Event{}, fmt.Errorf("event type is required")
	}
	if strings.TrimSpace(evt.ID) == "" {
		return event.Event{}, fmt.Errorf("event id is required")
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	evt.Timestamp = evt.Timestamp.UTC().Truncate(time.Millisecond)

	result, err := j.sqlDB.ExecContext(ctx,
		`INSERT INTO events (event_id, timestamp, event_type, actor, payload)
		 VALUES (?, ?, ?, ?, ?)`,
		evt.ID,
		evt.Timestamp.UnixMilli(),
		string(evt.Type),
		string(evt.Actor),
		string(evt.PayloadJSON),
	)
	if err != nil {
		return event.Event{}, fmt.Errorf("append event: %w", err)
	}

	seq, err := result.LastInsertId()
	if err != nil {
		return event.Event{}, fmt.Errorf("event sequence: %w", err)
	}
	evt.Seq = uint64(seq)
	return evt, nil
}

// ListEvents returns up to limit events with Seq > afterSeq, oldest first.
func (j *Journal) ListEvents(ctx context.Context, afterSeq uint64, limit int) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if j == nil || j.sqlDB == nil {
		return nil, fmt.Errorf("journal is not configured")
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := j.sqlDB.QueryContext(ctx,
		`SELECT seq, event_id, timestamp, event_type, actor, payload
		 FROM events
		 WHERE seq > ?
		 ORDER BY seq ASC
		 LIMIT ?`,
		int64(afterSeq), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		var (
			seq       int64
			id        string
			timestamp int64
			eventType string
			actor     string
			payload   string
		)
		if err := rows.Scan(&seq, &id, &timestamp, &eventType, &actor, &payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, event.Event{
			Seq:         uint64(seq),
			ID:          id,
			Timestamp:   time.UnixMilli(timestamp).UTC(),
			Type:        event.Type(eventType),
			Actor:       domain.Account(actor),
			PayloadJSON: []byte(payload),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}
