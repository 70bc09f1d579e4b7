package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"navigator-profiler/internal/app"
	"navigator-profiler/internal/bank"
	"navigator-profiler/internal/domain"
	"navigator-profiler/internal/infra/memory"
	"navigator-profiler/internal/report"
)

type queueNamer struct {
	names []string
	next  int
}

func (n *queueNamer) Nickname(context.Context) (string, error) {
	if n.next >= len(n.names) {
		return n.names[len(n.names)-1], nil
	}
	name := n.names[n.next]
	n.next++
	return name, nil
}

func newService(t *testing.T, names ...string) (*app.AssessmentService, *memory.SessionStore) {
	t.Helper()
	if len(names) == 0 {
		names = []string{"Crimson-Fox-42"}
	}
	store := memory.NewSessionStore()
	assembler := report.NewAssembler(nil, time.Second)
	svc := app.NewAssessmentService(store, assembler, &queueNamer{names: names})
	return svc, store
}

func answerFirst(t *testing.T, svc *app.AssessmentService, id string, count int) {
	t.Helper()
	ctx := context.Background()
	for n := 1; n <= count; n++ {
		pair, err := bank.Pair(n)
		if err != nil {
			t.Fatalf("pair %d: %v", n, err)
		}
		if err := svc.SubmitAnswer(ctx, id, n, pair.A.ID); err != nil {
			t.Fatalf("answer %d: %v", n, err)
		}
	}
}

func TestStartCreatesInProgressSession(t *testing.T) {
	svc, _ := newService(t, "Amber-Otter-31")
	session, err := svc.Start(context.Background())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if session.ID == "" {
		t.Fatalf("missing session id")
	}
	if session.Nickname != "Amber-Otter-31" {
		t.Fatalf("nickname = %s", session.Nickname)
	}
	if session.Status != domain.StatusInProgress {
		t.Fatalf("status = %s", session.Status)
	}
	if len(session.Answers) != 0 {
		t.Fatalf("new session has %d answers", len(session.Answers))
	}
}

func TestStartRetriesTakenNickname(t *testing.T) {
	svc, _ := newService(t, "Amber-Otter-31", "Amber-Otter-31", "Violet-Crane-58")
	ctx := context.Background()

	first, err := svc.Start(ctx)
	if err != nil {
		t.Fatalf("first start: %v", err)
	}
	second, err := svc.Start(ctx)
	if err != nil {
		t.Fatalf("second start: %v", err)
	}
	if first.Nickname == second.Nickname {
		t.Fatalf("nickname %s reused", first.Nickname)
	}
	if second.Nickname != "Violet-Crane-58" {
		t.Fatalf("expected retry to land on fresh nickname, got %s", second.Nickname)
	}
}

func TestNextQuestionAdvances(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	session, _ := svc.Start(ctx)

	prompt, err := svc.NextQuestion(ctx, session.ID)
	if err != nil {
		t.Fatalf("next question: %v", err)
	}
	if prompt.QuestionNumber != 1 || prompt.TotalQuestions != domain.TotalQuestions {
		t.Fatalf("prompt = %+v", prompt)
	}

	answerFirst(t, svc, session.ID, 3)
	prompt, err = svc.NextQuestion(ctx, session.ID)
	if err != nil {
		t.Fatalf("next question after 3 answers: %v", err)
	}
	if prompt.QuestionNumber != 4 {
		t.Fatalf("expected question 4, got %d", prompt.QuestionNumber)
	}
}

func TestNextQuestionUnknownSession(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.NextQuestion(context.Background(), "missing")
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSubmitAnswerOutOfSequence(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	session, _ := svc.Start(ctx)
	answerFirst(t, svc, session.ID, 3)

	pair, _ := bank.Pair(5)
	err := svc.SubmitAnswer(ctx, session.ID, 5, pair.A.ID)
	var oos *domain.OutOfSequenceError
	if !errors.As(err, &oos) {
		t.Fatalf("expected OutOfSequenceError, got %v", err)
	}
	if oos.Expected != 4 || oos.Got != 5 {
		t.Fatalf("sequence error = %+v", oos)
	}
}

func TestSubmitAnswerRevisitRejected(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	session, _ := svc.Start(ctx)
	answerFirst(t, svc, session.ID, 3)

	pair, _ := bank.Pair(3)
	err := svc.SubmitAnswer(ctx, session.ID, 3, pair.B.ID)
	if !domain.IsSequenceError(err) {
		t.Fatalf("expected sequence guard, got %v", err)
	}

	stored, _ := svc.GetSession(ctx, session.ID)
	if len(stored.Answers) != 3 {
		t.Fatalf("rejected answer was persisted, %d answers", len(stored.Answers))
	}
}

func TestSubmitAnswerInvalidChoice(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	session, _ := svc.Start(ctx)

	other, _ := bank.Pair(2)
	err := svc.SubmitAnswer(ctx, session.ID, 1, other.A.ID)
	var invalid *domain.InvalidChoiceError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidChoiceError, got %v", err)
	}
	if invalid.QuestionNumber != 1 || invalid.StatementID != other.A.ID {
		t.Fatalf("invalid choice error = %+v", invalid)
	}
}

func TestFortiethAnswerCompletesSession(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	session, _ := svc.Start(ctx)
	answerFirst(t, svc, session.ID, domain.TotalQuestions)

	stored, err := svc.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != domain.StatusCompleted {
		t.Fatalf("status = %s", stored.Status)
	}
	if stored.CompletedAt == nil {
		t.Fatalf("completion timestamp not set")
	}

	if _, err := svc.NextQuestion(ctx, session.ID); !errors.Is(err, domain.ErrAssessmentComplete) {
		t.Fatalf("expected ErrAssessmentComplete from next question, got %v", err)
	}
	pair, _ := bank.Pair(1)
	if err := svc.SubmitAnswer(ctx, session.ID, 41, pair.A.ID); !errors.Is(err, domain.ErrAssessmentComplete) {
		t.Fatalf("expected ErrAssessmentComplete from submit, got %v", err)
	}
}

func TestGenerateReportOneTimeView(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	session, _ := svc.Start(ctx)
	answerFirst(t, svc, session.ID, domain.TotalQuestions)

	generated, err := svc.GenerateReport(ctx, session.ID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if generated.PrimaryArchetype != "The Critical Interrogator" {
		t.Fatalf("primary = %s", generated.PrimaryArchetype)
	}
	if generated.ReportContent == "" {
		t.Fatalf("report content missing")
	}

	if _, err := svc.GenerateReport(ctx, session.ID); !errors.Is(err, domain.ErrReportAlreadyViewed) {
		t.Fatalf("expected ErrReportAlreadyViewed, got %v", err)
	}
}

func TestGenerateReportRequiresCompletion(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	session, _ := svc.Start(ctx)
	answerFirst(t, svc, session.ID, 10)

	if _, err := svc.GenerateReport(ctx, session.ID); !errors.Is(err, domain.ErrNotCompleted) {
		t.Fatalf("expected ErrNotCompleted, got %v", err)
	}
}

func TestDownloadReport(t *testing.T) {
	svc, _ := newService(t, "Amber-Otter-31")
	ctx := context.Background()
	session, _ := svc.Start(ctx)
	answerFirst(t, svc, session.ID, domain.TotalQuestions)

	if _, _, err := svc.DownloadReport(ctx, session.ID); !errors.Is(err, domain.ErrReportNotGenerated) {
		t.Fatalf("expected ErrReportNotGenerated before generation, got %v", err)
	}

	if _, err := svc.GenerateReport(ctx, session.ID); err != nil {
		t.Fatalf("generate: %v", err)
	}

	// Downloads stay available after the one-time view is consumed.
	for i := 0; i < 2; i++ {
		filename, content, err := svc.DownloadReport(ctx, session.ID)
		if err != nil {
			t.Fatalf("download %d: %v", i, err)
		}
		if filename != "navigator-report-Amber-Otter-31.md" {
			t.Fatalf("filename = %s", filename)
		}
		if !strings.Contains(content, "# AI Navigator Profile Report") {
			t.Fatalf("unexpected download content")
		}
	}
}

func TestSubmitContact(t *testing.T) {
	svc, store := newService(t)
	svc.WithClock(func() time.Time {
		return time.Date(2025, 8, 12, 14, 30, 5, 0, time.UTC)
	})
	ctx := context.Background()
	session, _ := svc.Start(ctx)

	if err := svc.SubmitContact(ctx, session.ID, "Dana", "dana@example.com", "Loved the assessment"); err != nil {
		t.Fatalf("contact: %v", err)
	}

	contacts := store.Contacts()
	if len(contacts) != 1 {
		t.Fatalf("expected 1 submission, got %d", len(contacts))
	}
	got := contacts[0]
	if got.ID != session.ID+"_contact_20250812_143005" {
		t.Fatalf("submission id = %s", got.ID)
	}
	if got.Nickname != session.Nickname || got.Email != "dana@example.com" || got.Status != "New" {
		t.Fatalf("submission = %+v", got)
	}
}

func TestSubmitContactUnknownSession(t *testing.T) {
	svc, _ := newService(t)
	err := svc.SubmitContact(context.Background(), "missing", "Dana", "dana@example.com", "hi")
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSubscribeStreamsProgress(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	session, _ := svc.Start(ctx)

	updates, cancel, err := svc.Subscribe(ctx, session.ID)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	initial := <-updates
	if initial.CompletedQuestions != 0 || initial.TotalQuestions != domain.TotalQuestions {
		t.Fatalf("initial snapshot = %+v", initial)
	}

	answerFirst(t, svc, session.ID, 1)
	select {
	case update := <-updates:
		if update.CompletedQuestions != 1 {
			t.Fatalf("update = %+v", update)
		}
		if update.Percentage != 2.5 {
			t.Fatalf("percentage = %v", update.Percentage)
		}
	case <-time.After(time.Second):
		t.Fatalf("no progress update delivered")
	}
}

func TestResetSession(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	session, _ := svc.Start(ctx)
	answerFirst(t, svc, session.ID, domain.TotalQuestions)
	if _, err := svc.GenerateReport(ctx, session.ID); err != nil {
		t.Fatalf("generate: %v", err)
	}

	reset, err := svc.ResetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if reset.Status != domain.StatusInProgress || len(reset.Answers) != 0 {
		t.Fatalf("reset session = %+v", reset)
	}
	if reset.Result != nil || reset.CompletedAt != nil || reset.ReportFirstViewedAt != nil {
		t.Fatalf("reset did not clear report state")
	}

	prompt, err := svc.NextQuestion(ctx, session.ID)
	if err != nil {
		t.Fatalf("next question after reset: %v", err)
	}
	if prompt.QuestionNumber != 1 {
		t.Fatalf("expected question 1 after reset, got %d", prompt.QuestionNumber)
	}
}

func TestCleanupSessions(t *testing.T) {
	svc, _ := newService(t, "Amber-Otter-31", "Violet-Crane-58", "Coral-Bison-77")
	ctx := context.Background()

	base := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return base.Add(-48 * time.Hour) })
	stale, _ := svc.Start(ctx)

	svc.WithClock(func() time.Time { return base })
	fresh, _ := svc.Start(ctx)

	dry, err := svc.CleanupSessions(ctx, 24*time.Hour, "", true)
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if !dry.DryRun || dry.SessionsFound != 1 || dry.SessionsDeleted != 0 {
		t.Fatalf("dry run result = %+v", dry)
	}
	if len(dry.Sessions) != 1 || dry.Sessions[0].ID != stale.ID {
		t.Fatalf("dry run listed wrong sessions: %+v", dry.Sessions)
	}

	purged, err := svc.CleanupSessions(ctx, 24*time.Hour, "", false)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if purged.SessionsDeleted != 1 {
		t.Fatalf("deleted %d sessions", purged.SessionsDeleted)
	}

	if _, err := svc.GetSession(ctx, stale.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("stale session survived cleanup: %v", err)
	}
	if _, err := svc.GetSession(ctx, fresh.ID); err != nil {
		t.Fatalf("fresh session removed: %v", err)
	}
}

func TestListSessions(t *testing.T) {
	svc, _ := newService(t, "Amber-Otter-31", "Violet-Crane-58")
	ctx := context.Background()

	one, _ := svc.Start(ctx)
	answerFirst(t, svc, one.ID, domain.TotalQuestions)
	if _, err := svc.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	summaries, stats, err := svc.ListSessions(ctx, app.ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if stats.TotalSessions != 2 || stats.CompletedSessions != 1 || stats.InProgressSessions != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.CompletionRate != 50.0 {
		t.Fatalf("completion rate = %v", stats.CompletionRate)
	}

	completedOnly, _, err := svc.ListSessions(ctx, app.ListFilter{Status: domain.StatusCompleted})
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if len(completedOnly) != 1 || completedOnly[0].ID != one.ID {
		t.Fatalf("filtered summaries = %+v", completedOnly)
	}
}
