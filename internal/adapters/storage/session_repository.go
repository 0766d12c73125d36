package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xvierd/studyflow/internal/domain"
	"github.com/xvierd/studyflow/internal/ports"
)

// sessionRepository implements ports.SessionRepository using SQLite.
type sessionRepository struct {
	db *sql.DB
}

// newSessionRepository creates a new session repository.
func newSessionRepository(db *sql.DB) ports.SessionRepository {
	return &sessionRepository{db: db}
}

const sessionColumns = `
	id, mode, planned_seconds, elapsed_seconds, outcome, subject_id,
	subject_name, started_at, ended_at, git_branch, git_commit`

// Save persists a finished session.
func (r *sessionRepository) Save(ctx context.Context, session *domain.FocusSession) error {
	query := `
		INSERT INTO focus_sessions (` + sessionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		session.ID,
		string(session.Mode),
		session.PlannedSeconds,
		session.ElapsedSeconds,
		string(session.Outcome),
		session.SubjectID,
		session.SubjectName,
		session.StartedAt.UTC(),
		session.EndedAt.UTC(),
		session.GitBranch,
		session.GitCommit,
	)
	if isUniqueConstraintError(err) {
		return fmt.Errorf("failed to save session: %s already recorded", session.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// FindByID retrieves a session by its unique identifier.
func (r *sessionRepository) FindByID(ctx context.Context, id string) (*domain.FocusSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM focus_sessions WHERE id = ?`

	session, err := scanSession(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return session, nil
}

// FindRecent retrieves sessions started at or after since, newest first.
func (r *sessionRepository) FindRecent(ctx context.Context, since time.Time) ([]*domain.FocusSession, error) {
	return r.findBetween(ctx, since, time.Time{})
}

// GetDailyStats returns aggregated statistics for a specific date.
func (r *sessionRepository) GetDailyStats(ctx context.Context, date time.Time) (*domain.DailyStats, error) {
	startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	sessions, err := r.findBetween(ctx, startOfDay, endOfDay)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily stats: %w", err)
	}

	stats := &domain.DailyStats{Date: startOfDay}
	for _, s := range sessions {
		stats.AddSession(s)
	}
	return stats, nil
}

// DeleteAll removes every session.
func (r *sessionRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM focus_sessions`); err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}
	return nil
}

// findBetween returns sessions in [start, end); a zero end is open-ended.
func (r *sessionRepository) findBetween(ctx context.Context, start, end time.Time) ([]*domain.FocusSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM focus_sessions WHERE started_at >= ?`
	args := []any{start.UTC()}
	if !end.IsZero() {
		query += ` AND started_at < ?`
		args = append(args, end.UTC())
	}
	query += ` ORDER BY started_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []*domain.FocusSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

func scanSession(row rowScanner) (*domain.FocusSession, error) {
	var session domain.FocusSession
	var mode, outcome string
	var subjectID sql.NullString

	err := row.Scan(
		&session.ID,
		&mode,
		&session.PlannedSeconds,
		&session.ElapsedSeconds,
		&outcome,
		&subjectID,
		&session.SubjectName,
		&session.StartedAt,
		&session.EndedAt,
		&session.GitBranch,
		&session.GitCommit,
	)
	if err != nil {
		return nil, err
	}

	session.Mode = domain.TimerMode(mode)
	session.Outcome = domain.SessionOutcome(outcome)
	if subjectID.Valid {
		session.SubjectID = &subjectID.String
	}

	return &session, nil
}
