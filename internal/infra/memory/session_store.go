package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"navigator-profiler/internal/app"
	"navigator-profiler/internal/domain"
)

// SessionStore is an in-memory implementation of app.SessionStore, used in
// tests and single-instance demos. Documents are stored as deep copies so
// callers always operate on snapshots, matching the persisted-store model.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	contacts map[string]*domain.ContactSubmission
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*domain.Session),
		contacts: make(map[string]*domain.ContactSubmission),
	}
}

func (s *SessionStore) Create(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session.Version = 1
	s.sessions[session.ID] = clone(session)
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return clone(session), nil
}

// Update is a compare-and-swap on the version the caller read.
func (s *SessionStore) Update(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.sessions[session.ID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	if current.Version != session.Version {
		return domain.ErrVersionConflict
	}
	session.Version++
	s.sessions[session.ID] = clone(session)
	return nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *SessionStore) NicknameExists(_ context.Context, nickname string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, session := range s.sessions {
		if session.Nickname == nickname {
			return true, nil
		}
	}
	return false, nil
}

func (s *SessionStore) List(_ context.Context, filter app.ListFilter) ([]domain.SessionSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]domain.SessionSummary, 0, len(s.sessions))
	for _, session := range s.sessions {
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

func (s *SessionStore) Stats(_ context.Context) (app.SummaryStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := app.SummaryStats{}
	for _, session := range s.sessions {
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

func (s *SessionStore) SaveContact(_ context.Context, submission *domain.ContactSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *submission
	s.contacts[submission.ID] = &copied
	return nil
}

// Contacts exposes stored submissions for tests.
func (s *SessionStore) Contacts() []domain.ContactSubmission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ContactSubmission, 0, len(s.contacts))
	for _, submission := range s.contacts {
		out = append(out, *submission)
	}
	return out
}

func clone(session *domain.Session) *domain.Session {
	raw, err := json.Marshal(session)
	if err != nil {
		panic(err)
	}
	var copied domain.Session
	if err := json.Unmarshal(raw, &copied); err != nil {
		panic(err)
	}
	return &copied
}
