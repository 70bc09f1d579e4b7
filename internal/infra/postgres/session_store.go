// Package postgres persists sessions as JSONB documents with a version
// column guarding read-modify-write updates.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"navigator-profiler/internal/app"
	"navigator-profiler/internal/domain"
)

type SessionStore struct {
	pool *pgxpool.Pool
}

func NewSessionStore(pool *pgxpool.Pool) *SessionStore {
	return &SessionStore{pool: pool}
}

func (s *SessionStore) Create(ctx context.Context, session *domain.Session) error {
	session.Version = 1
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO sessions (id, nickname, status, created_at, version, data)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		session.ID, session.Nickname, string(session.Status), session.CreatedAt, session.Version, raw)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM sessions WHERE id = $1`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select session: %w", err)
	}
	var session domain.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

// Update writes the document conditionally on the version the caller read.
func (s *SessionStore) Update(ctx context.Context, session *domain.Session) error {
	readVersion := session.Version
	session.Version++
	raw, err := json.Marshal(session)
	if err != nil {
		session.Version = readVersion
		return fmt.Errorf("marshal session: %w", err)
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE sessions SET data = $1, status = $2, version = $3
		 WHERE id = $4 AND version = $5`,
		raw, string(session.Status), session.Version, session.ID, readVersion)
	if err != nil {
		session.Version = readVersion
		return fmt.Errorf("update session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		session.Version = readVersion
		var exists bool
		if err := s.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM sessions WHERE id = $1)`, session.ID).Scan(&exists); err != nil {
			return fmt.Errorf("update session: %w", err)
		}
		if !exists {
			return domain.ErrSessionNotFound
		}
		return domain.ErrVersionConflict
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (s *SessionStore) NicknameExists(ctx context.Context, nickname string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM sessions WHERE nickname = $1)`, nickname).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("nickname lookup: %w", err)
	}
	return exists, nil
}

func (s *SessionStore) List(ctx context.Context, filter app.ListFilter) ([]domain.SessionSummary, error) {
	query := `SELECT data FROM sessions WHERE 1=1`
	args := []interface{}{}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.CreatedBefore != nil {
		args = append(args, *filter.CreatedBefore)
		query += fmt.Sprintf(" AND created_at < $%d", len(args))
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	summaries := []domain.SessionSummary{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		var session domain.Session
		if err := json.Unmarshal(raw, &session); err != nil {
			return nil, fmt.Errorf("unmarshal session: %w", err)
		}
		summaries = append(summaries, session.Summarize())
	}
	return summaries, rows.Err()
}

func (s *SessionStore) Stats(ctx context.Context) (app.SummaryStats, error) {
	stats := app.SummaryStats{}
	err := s.pool.QueryRow(ctx,
		`SELECT count(*),
		        count(*) FILTER (WHERE status = 'Completed'),
		        count(*) FILTER (WHERE status = 'InProgress'),
		        count(*) FILTER (WHERE data ? 'reportFirstViewedAt' AND data->>'reportFirstViewedAt' IS NOT NULL)
		 FROM sessions`).
		Scan(&stats.TotalSessions, &stats.CompletedSessions, &stats.InProgressSessions, &stats.ReportsViewed)
	if err != nil {
		return app.SummaryStats{}, fmt.Errorf("session stats: %w", err)
	}
	if stats.TotalSessions > 0 {
		rate := float64(stats.CompletedSessions) / float64(stats.TotalSessions) * 100
		stats.CompletionRate = float64(int(rate*10+0.5)) / 10
	}
	return stats, nil
}

func (s *SessionStore) SaveContact(ctx context.Context, submission *domain.ContactSubmission) error {
	raw, err := json.Marshal(submission)
	if err != nil {
		return fmt.Errorf("marshal contact: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO contact_submissions (id, session_id, submitted_at, data)
		 VALUES ($1, $2, $3, $4)`,
		submission.ID, submission.SessionID, submission.SubmittedAt, raw)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}
