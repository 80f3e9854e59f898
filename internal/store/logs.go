package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lazypower/keepsharp/internal/model"
)

const logColumns = `id, skill_id, practiced_at, duration_minutes, quality, notes, created_at`

func scanLog(row scanner) (model.PracticeLog, error) {
	var l model.PracticeLog
	var practicedAt, createdAt int64
	err := row.Scan(&l.ID, &l.SkillID, &practicedAt, &l.DurationMinutes, &l.Quality, &l.Notes, &createdAt)
	l.PracticedAt = fromMillis(practicedAt)
	l.CreatedAt = fromMillis(createdAt)
	return l, err
}

func (r rw) queryLogs(ctx context.Context, query string, args ...any) ([]model.PracticeLog, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []model.PracticeLog{}
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// ListPracticeLogs returns every practice log, most recent first.
func (r rw) ListPracticeLogs(ctx context.Context) ([]model.PracticeLog, error) {
	logs, err := r.queryLogs(ctx, `SELECT `+logColumns+` FROM practice_logs ORDER BY practiced_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list practice logs: %w", err)
	}
	return logs, nil
}

// ListSkillLogs returns the logs of one skill, most recent first.
// A limit of zero or less returns all of them.
func (r rw) ListSkillLogs(ctx context.Context, skillID string, limit int) ([]model.PracticeLog, error) {
	if limit <= 0 {
		limit = -1
	}
	logs, err := r.queryLogs(ctx, `
		SELECT `+logColumns+` FROM practice_logs
		WHERE skill_id = ? ORDER BY practiced_at DESC, id LIMIT ?
	`, skillID, limit)
	if err != nil {
		return nil, fmt.Errorf("list skill logs: %w", err)
	}
	return logs, nil
}

// InsertLog stores a practice log, assigning an id when l.ID is empty.
func (r rw) InsertLog(ctx context.Context, l *model.PracticeLog) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO practice_logs (`+logColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, l.ID, l.SkillID, toMillis(l.PracticedAt), l.DurationMinutes, l.Quality, l.Notes, toMillis(l.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert log: %w", err)
	}
	return nil
}

// DeleteLog removes a single practice log.
func (r rw) DeleteLog(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM practice_logs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete log: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("log %s: %w", id, model.ErrNotFound)
	}
	return nil
}
