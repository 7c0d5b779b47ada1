package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"reader365/internal/modules/alarm/domain"
	alarmout "reader365/internal/modules/alarm/port/out"

	_ "modernc.org/sqlite"
)

// Fixed width so fired_at compares correctly as text.
const firedAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteFireHistory struct {
	db *sql.DB
}

func NewSQLiteFireHistory(dbPath string) (*SQLiteFireHistory, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	history := &SQLiteFireHistory{db: db}
	if err := history.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return history, nil
}

var _ alarmout.FireHistory = (*SQLiteFireHistory)(nil)

func (h *SQLiteFireHistory) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS fire_history (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  alarm_id INTEGER NOT NULL,
  name TEXT NOT NULL,
  alarm_time TEXT NOT NULL,
  date_key TEXT NOT NULL,
  message TEXT NOT NULL,
  sound_enabled INTEGER NOT NULL,
  fired_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_fire_history_fired_at ON fire_history(fired_at);
`
	if _, err := h.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create fire_history table: %w", err)
	}
	return nil
}

func (h *SQLiteFireHistory) Append(ctx context.Context, event domain.FireEvent) error {
	const stmt = `
INSERT INTO fire_history (alarm_id, name, alarm_time, date_key, message, sound_enabled, fired_at)
VALUES (?, ?, ?, ?, ?, ?, ?);
`
	sound := 0
	if event.SoundEnabled {
		sound = 1
	}
	_, err := h.db.ExecContext(ctx, stmt,
		event.AlarmID,
		event.Name,
		event.Time,
		event.DateKey,
		event.Message,
		sound,
		event.FiredAt.UTC().Format(firedAtLayout),
	)
	if err != nil {
		return fmt.Errorf("append fire history: %w", err)
	}
	return nil
}

// Recent returns the newest events first.
func (h *SQLiteFireHistory) Recent(ctx context.Context, limit int) ([]domain.FireEvent, error) {
	rows, err := h.db.QueryContext(ctx, `
SELECT alarm_id, name, alarm_time, date_key, message, sound_enabled, fired_at
FROM fire_history
ORDER BY seq DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query fire history: %w", err)
	}
	defer rows.Close()

	out := []domain.FireEvent{}
	for rows.Next() {
		var (
			event   domain.FireEvent
			sound   int
			firedAt string
		)
		if err := rows.Scan(&event.AlarmID, &event.Name, &event.Time, &event.DateKey, &event.Message, &sound, &firedAt); err != nil {
			return nil, fmt.Errorf("scan fire history: %w", err)
		}
		event.SoundEnabled = sound == 1
		parsed, err := time.Parse(firedAtLayout, firedAt)
		if err != nil {
			return nil, fmt.Errorf("parse fired_at %q: %w", firedAt, err)
		}
		event.FiredAt = parsed.Local()
		out = append(out, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fire history: %w", err)
	}
	return out, nil
}

func (h *SQLiteFireHistory) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := h.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fire_history WHERE fired_at >= ?`,
		since.UTC().Format(firedAtLayout)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count fire history: %w", err)
	}
	return count, nil
}

func (h *SQLiteFireHistory) Close() error {
	return h.db.Close()
}
