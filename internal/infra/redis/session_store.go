// Package redis persists session documents as JSON values in Redis. Each
// session lives under its own key; an index set supports listing and a
// nickname set supports uniqueness checks. Conditional updates use WATCH so
// concurrent writers cannot clobber each other.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"navigator-profiler/internal/app"
	"navigator-profiler/internal/domain"
)

type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func sessionKey(id string) string { return "navigator:session:" + id }

const (
	indexKey    = "navigator:sessions"
	nicknameKey = "navigator:nicknames"
)

func (s *SessionStore) Create(ctx context.Context, session *domain.Session) error {
	session.Version = 1
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(session.ID), raw, s.ttl)
	pipe.SAdd(ctx, indexKey, session.ID)
	pipe.SAdd(ctx, nicknameKey, session.Nickname)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	var session domain.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

// Update replaces the document only if the stored version still matches the
// one the caller read. WATCH aborts the transaction when another writer
// touches the key first.
func (s *SessionStore) Update(ctx context.Context, session *domain.Session) error {
	key := sessionKey(session.ID)
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return domain.ErrSessionNotFound
		}
		if err != nil {
			return err
		}
		var current domain.Session
		if err := json.Unmarshal(raw, &current); err != nil {
			return fmt.Errorf("unmarshal session: %w", err)
		}
		if current.Version != session.Version {
			return domain.ErrVersionConflict
		}

		session.Version++
		updated, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, s.ttl)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		session.Version--
		return domain.ErrVersionConflict
	}
	return err
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	session, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKey(id))
	pipe.SRem(ctx, indexKey, id)
	pipe.SRem(ctx, nicknameKey, session.Nickname)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) NicknameExists(ctx context.Context, nickname string) (bool, error) {
	exists, err := s.client.SIsMember(ctx, nicknameKey, nickname).Result()
	if err != nil {
		return false, fmt.Errorf("nickname lookup: %w", err)
	}
	return exists, nil
}

func (s *SessionStore) List(ctx context.Context, filter app.ListFilter) ([]domain.SessionSummary, error) {
	sessions, err := s.all(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.SessionSummary, 0, len(sessions))
	for _, session := range sessions {
		if filter.Status != "" && session.Status != filter.Status {
			continue
		}
		if filter.CreatedBefore != nil && !session.CreatedAt.Before(*filter.CreatedBefore) {
			continue
		}
		summaries = append(summaries, session.Summarize())
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(summaries) {
			return []domain.SessionSummary{}, nil
		}
		summaries = summaries[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(summaries) {
		summaries = summaries[:filter.Limit]
	}
	return summaries, nil
}

func (s *SessionStore) Stats(ctx context.Context) (app.SummaryStats, error) {
	sessions, err := s.all(ctx)
	if err != nil {
		return app.SummaryStats{}, err
	}

	stats := app.SummaryStats{}
	for _, session := range sessions {
		stats.TotalSessions++
		switch session.Status {
		case domain.StatusCompleted:
			stats.CompletedSessions++
		case domain.StatusInProgress:
			stats.InProgressSessions++
		}
		if session.ReportFirstViewedAt != nil {
			stats.ReportsViewed++
		}
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
	if err := s.client.Set(ctx, "navigator:contact:"+submission.ID, raw, 0).Err(); err != nil {
		return fmt.Errorf("save contact: %w", err)
	}
	return nil
}

func (s *SessionStore) all(ctx context.Context) ([]*domain.Session, error) {
	ids, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	sessions := make([]*domain.Session, 0, len(ids))
	for _, id := range ids {
		session, err := s.Get(ctx, id)
		if errors.Is(err, domain.ErrSessionNotFound) {
			// Expired document still referenced by the index.
			_ = s.client.SRem(ctx, indexKey, id).Err()
			continue
		}
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}
