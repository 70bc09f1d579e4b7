package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"navigator-profiler/internal/app"
	"navigator-profiler/internal/domain"
)

func newSession(id, nickname string, createdAt time.Time) *domain.Session {
	return &domain.Session{
		ID:        id,
		Nickname:  nickname,
		Status:    domain.StatusInProgress,
		CreatedAt: createdAt,
		Answers:   []domain.Answer{},
	}
}

func TestCreateAndGetReturnsCopies(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	session := newSession("s1", "Crimson-Fox-42", time.Now().UTC())
	if err := store.Create(ctx, session); err != nil {
		t.Fatalf("create: %v", err)
	}
	if session.Version != 1 {
		t.Fatalf("create did not set version, got %d", session.Version)
	}

	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	// Mutating the returned snapshot must not leak into the store.
	got.Answers = append(got.Answers, domain.Answer{QuestionNumber: 1})
	again, _ := store.Get(ctx, "s1")
	if len(again.Answers) != 0 {
		t.Fatalf("snapshot mutation leaked into store")
	}
}

func TestGetUnknownSession(t *testing.T) {
	store := NewSessionStore()
	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestUpdateBumpsVersion(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	store.Create(ctx, newSession("s1", "Crimson-Fox-42", time.Now().UTC()))

	session, _ := store.Get(ctx, "s1")
	session.Status = domain.StatusCompleted
	if err := store.Update(ctx, session); err != nil {
		t.Fatalf("update: %v", err)
	}
	if session.Version != 2 {
		t.Fatalf("version after update = %d", session.Version)
	}

	stored, _ := store.Get(ctx, "s1")
	if stored.Status != domain.StatusCompleted || stored.Version != 2 {
		t.Fatalf("stored session = %+v", stored)
	}
}

func TestUpdateRejectsStaleVersion(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	store.Create(ctx, newSession("s1", "Crimson-Fox-42", time.Now().UTC()))

	first, _ := store.Get(ctx, "s1")
	second, _ := store.Get(ctx, "s1")

	if err := store.Update(ctx, first); err != nil {
		t.Fatalf("first update: %v", err)
	}
	if err := store.Update(ctx, second); !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
}

func TestUpdateUnknownSession(t *testing.T) {
	store := NewSessionStore()
	err := store.Update(context.Background(), newSession("missing", "Crimson-Fox-42", time.Now().UTC()))
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	store.Create(ctx, newSession("s1", "Crimson-Fox-42", time.Now().UTC()))

	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("deleted session still readable: %v", err)
	}
	if err := store.Delete(ctx, "s1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound on repeat delete, got %v", err)
	}
}

func TestNicknameExists(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	store.Create(ctx, newSession("s1", "Crimson-Fox-42", time.Now().UTC()))

	taken, err := store.NicknameExists(ctx, "Crimson-Fox-42")
	if err != nil || !taken {
		t.Fatalf("taken = %v, err = %v", taken, err)
	}
	free, err := store.NicknameExists(ctx, "Azure-Wolf-17")
	if err != nil || free {
		t.Fatalf("free nickname reported taken")
	}
}

func TestListFiltersAndPaginates(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	base := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"s1", "s2", "s3"} {
		session := newSession(id, "Nick-Name-1"+id, base.Add(time.Duration(i)*time.Hour))
		if id == "s3" {
			session.Status = domain.StatusCompleted
		}
		store.Create(ctx, session)
	}

	all, err := store.List(ctx, app.ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(all))
	}
	// Newest first.
	if all[0].ID != "s3" || all[2].ID != "s1" {
		t.Fatalf("order = %s, %s, %s", all[0].ID, all[1].ID, all[2].ID)
	}

	completed, _ := store.List(ctx, app.ListFilter{Status: domain.StatusCompleted})
	if len(completed) != 1 || completed[0].ID != "s3" {
		t.Fatalf("status filter = %+v", completed)
	}

	cutoff := base.Add(90 * time.Minute)
	old, _ := store.List(ctx, app.ListFilter{CreatedBefore: &cutoff})
	if len(old) != 2 {
		t.Fatalf("cutoff filter returned %d", len(old))
	}

	page, _ := store.List(ctx, app.ListFilter{Offset: 1, Limit: 1})
	if len(page) != 1 || page[0].ID != "s2" {
		t.Fatalf("pagination = %+v", page)
	}

	empty, _ := store.List(ctx, app.ListFilter{Offset: 10})
	if len(empty) != 0 {
		t.Fatalf("offset past end returned %d", len(empty))
	}
}

func TestStats(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	now := time.Now().UTC()

	inProgress := newSession("s1", "Crimson-Fox-42", now)
	store.Create(ctx, inProgress)

	done := newSession("s2", "Azure-Wolf-17", now)
	done.Status = domain.StatusCompleted
	done.ReportFirstViewedAt = &now
	store.Create(ctx, done)

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := app.SummaryStats{
		TotalSessions:      2,
		CompletedSessions:  1,
		InProgressSessions: 1,
		ReportsViewed:      1,
		CompletionRate:     50.0,
	}
	if stats != want {
		t.Fatalf("stats = %+v, want %+v", stats, want)
	}
}

func TestStatsEmptyStore(t *testing.T) {
	store := NewSessionStore()
	stats, err := store.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.CompletionRate != 0 {
		t.Fatalf("completion rate on empty store = %v", stats.CompletionRate)
	}
}

func TestSaveContact(t *testing.T) {
	store := NewSessionStore()
	submission := &domain.ContactSubmission{
		ID:        "s1_contact_20250812_143005",
		SessionID: "s1",
		Nickname:  "Crimson-Fox-42",
		Email:     "dana@example.com",
		Status:    "New",
	}
	if err := store.SaveContact(context.Background(), submission); err != nil {
		t.Fatalf("save contact: %v", err)
	}
	contacts := store.Contacts()
	if len(contacts) != 1 || contacts[0].ID != submission.ID {
		t.Fatalf("contacts = %+v", contacts)
	}
}
