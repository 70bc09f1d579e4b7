package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"navigator-profiler/internal/bank"
	"navigator-profiler/internal/domain"
	"navigator-profiler/internal/report"
	"navigator-profiler/internal/scoring"
)

// ListFilter narrows admin session listings.
type ListFilter struct {
	Status        domain.Status
	Limit         int
	Offset        int
	CreatedBefore *time.Time
}

// SummaryStats aggregates session counts for the admin surface.
type SummaryStats struct {
	TotalSessions      int     `json:"totalSessions"`
	CompletedSessions  int     `json:"completedSessions"`
	InProgressSessions int     `json:"inProgressSessions"`
	ReportsViewed      int     `json:"reportsViewed"`
	CompletionRate     float64 `json:"completionRate"`
}

// SessionStore abstracts how session documents are persisted (in-memory,
// Redis, Postgres). Update is conditional on the version the caller read and
// returns domain.ErrVersionConflict when it loses a race.
type SessionStore interface {
	Create(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Update(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id string) error
	NicknameExists(ctx context.Context, nickname string) (bool, error)
	List(ctx context.Context, filter ListFilter) ([]domain.SessionSummary, error)
	Stats(ctx context.Context) (SummaryStats, error)
	SaveContact(ctx context.Context, submission *domain.ContactSubmission) error
}

// NicknameGenerator produces candidate display handles in the
// Color-Animal-NN format.
type NicknameGenerator interface {
	Nickname(ctx context.Context) (string, error)
}

// QuestionPrompt is what the client sees for the next question.
type QuestionPrompt struct {
	QuestionNumber int                 `json:"questionNumber"`
	TotalQuestions int                 `json:"totalQuestions"`
	Statements     domain.QuestionPair `json:"statements"`
}

// CleanupResult reports what a purge run removed (or would remove).
type CleanupResult struct {
	DryRun          bool                    `json:"dry_run"`
	SessionsFound   int                     `json:"sessions_found,omitempty"`
	SessionsDeleted int                     `json:"sessions_deleted"`
	CutoffDate      time.Time               `json:"cutoff_date"`
	Sessions        []domain.SessionSummary `json:"sessions,omitempty"`
}

// AssessmentService contains the assessment use cases: session lifecycle,
// answer progression, scoring, and report issuance.
type AssessmentService struct {
	store     SessionStore
	assembler *report.Assembler
	namer     NicknameGenerator
	hub       *ProgressHub
	reports   singleflight.Group
	now       func() time.Time
}

func NewAssessmentService(store SessionStore, assembler *report.Assembler, namer NicknameGenerator) *AssessmentService {
	return &AssessmentService{
		store:     store,
		assembler: assembler,
		namer:     namer,
		hub:       NewProgressHub(),
		now:       time.Now,
	}
}

// WithClock is test-only for deterministic timestamps.
func (s *AssessmentService) WithClock(now func() time.Time) *AssessmentService {
	s.now = now
	return s
}

const maxNicknameAttempts = 10

// Start creates a new InProgress session with a unique nickname.
func (s *AssessmentService) Start(ctx context.Context) (*domain.Session, error) {
	nickname, err := s.uniqueNickname(ctx)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		ID:        uuid.NewString(),
		Nickname:  nickname,
		Status:    domain.StatusInProgress,
		CreatedAt: s.now().UTC(),
		Answers:   []domain.Answer{},
	}
	if err := s.store.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

func (s *AssessmentService) uniqueNickname(ctx context.Context) (string, error) {
	for attempt := 1; attempt <= maxNicknameAttempts; attempt++ {
		nickname, err := s.namer.Nickname(ctx)
		if err != nil {
			log.Printf("nickname attempt %d failed: %v", attempt, err)
			continue
		}
		taken, err := s.store.NicknameExists(ctx, nickname)
		if err != nil {
			return "", fmt.Errorf("nickname lookup: %w", err)
		}
		if !taken {
			return nickname, nil
		}
	}
	return "", fmt.Errorf("no unique nickname after %d attempts: %w", maxNicknameAttempts, domain.ErrNicknameTaken)
}

// GetSession returns the current session document.
func (s *AssessmentService) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	return s.store.Get(ctx, id)
}

// NextQuestion returns the pair the session must answer next.
func (s *AssessmentService) NextQuestion(ctx context.Context, id string) (QuestionPrompt, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return QuestionPrompt{}, err
	}
	if session.Status == domain.StatusCompleted {
		return QuestionPrompt{}, domain.ErrAssessmentComplete
	}

	next := session.NextQuestionNumber()
	if next > domain.TotalQuestions {
		// Unreachable given the auto-transition at answer 40, kept as a guard.
		return QuestionPrompt{}, domain.ErrAllQuestionsAnswered
	}

	pair, err := bank.Pair(next)
	if err != nil {
		return QuestionPrompt{}, err
	}
	return QuestionPrompt{
		QuestionNumber: next,
		TotalQuestions: domain.TotalQuestions,
		Statements:     pair,
	}, nil
}

// SubmitAnswer appends one choice, enforcing strict in-order progression.
// Answer 40 completes the session in the same conditional write.
func (s *AssessmentService) SubmitAnswer(ctx context.Context, id string, questionNumber, statementID int) error {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if session.Status == domain.StatusCompleted {
		return domain.ErrAssessmentComplete
	}

	if err := appendAnswer(session, questionNumber, statementID, s.now().UTC()); err != nil {
		return err
	}
	if err := s.store.Update(ctx, session); err != nil {
		return err
	}

	s.hub.Publish(progressOf(session))
	return nil
}

// appendAnswer applies the submit-answer transition guards in order, each a
// distinct failure, then mutates the session snapshot.
func appendAnswer(session *domain.Session, questionNumber, statementID int, now time.Time) error {
	if expected := session.NextQuestionNumber(); questionNumber != expected {
		return &domain.OutOfSequenceError{Expected: expected, Got: questionNumber}
	}
	for _, answer := range session.Answers {
		if answer.QuestionNumber == questionNumber {
			return &domain.DuplicateAnswerError{QuestionNumber: questionNumber}
		}
	}

	pair, err := bank.Pair(questionNumber)
	if err != nil {
		return err
	}
	if statementID != pair.A.ID && statementID != pair.B.ID {
		return &domain.InvalidChoiceError{QuestionNumber: questionNumber, StatementID: statementID}
	}

	construct, err := bank.Classify(statementID)
	if err != nil {
		return err
	}

	session.Answers = append(session.Answers, domain.Answer{
		QuestionNumber:    questionNumber,
		PairID:            questionNumber,
		ChosenStatementID: statementID,
		ChosenConstruct:   construct,
	})

	if len(session.Answers) == domain.TotalQuestions {
		session.Status = domain.StatusCompleted
		completedAt := now
		session.CompletedAt = &completedAt
	}
	return nil
}

// GenerateReport computes and persists the report for a completed session.
// The report is one-time-retrievable: once ReportFirstViewedAt is stamped,
// further calls fail with domain.ErrReportAlreadyViewed. Concurrent calls for
// one session collapse into a single generation.
func (s *AssessmentService) GenerateReport(ctx context.Context, id string) (domain.Report, error) {
	result, err, _ := s.reports.Do(id, func() (interface{}, error) {
		return s.generateReport(ctx, id)
	})
	if err != nil {
		return domain.Report{}, err
	}
	return result.(domain.Report), nil
}

func (s *AssessmentService) generateReport(ctx context.Context, id string) (domain.Report, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.Report{}, err
	}
	if session.Status != domain.StatusCompleted {
		return domain.Report{}, domain.ErrNotCompleted
	}
	if session.ReportFirstViewedAt != nil {
		return domain.Report{}, domain.ErrReportAlreadyViewed
	}

	scores, err := scoring.Score(session.Answers)
	if err != nil {
		return domain.Report{}, err
	}
	generated := s.assembler.Assemble(ctx, session.Nickname, scores)

	now := s.now().UTC()
	session.Result = &generated
	session.ReportFirstViewedAt = &now
	if session.CompletedAt == nil {
		session.CompletedAt = &now
	}
	if err := s.store.Update(ctx, session); err != nil {
		return domain.Report{}, err
	}
	return generated, nil
}

// DownloadReport renders the markdown export. Read-only: available any time
// after the report exists and never consumes the one-time view token.
func (s *AssessmentService) DownloadReport(ctx context.Context, id string) (filename, content string, err error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return "", "", err
	}
	if session.Status != domain.StatusCompleted {
		return "", "", domain.ErrNotCompleted
	}
	if session.Result == nil {
		return "", "", domain.ErrReportNotGenerated
	}
	return report.Filename(session.Nickname), report.RenderMarkdown(session, s.now().UTC()), nil
}

// SubmitContact stores a contact-form message against an existing session.
func (s *AssessmentService) SubmitContact(ctx context.Context, id, name, email, message string) error {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	now := s.now().UTC()
	submission := &domain.ContactSubmission{
		ID:          fmt.Sprintf("%s_contact_%s", session.ID, now.Format("20060102_150405")),
		SessionID:   session.ID,
		Nickname:    session.Nickname,
		Name:        name,
		Email:       email,
		Message:     message,
		SubmittedAt: now,
		Status:      "New",
	}
	return s.store.SaveContact(ctx, submission)
}

// Subscribe streams progress updates for one session. The caller must invoke
// the returned cancel function to avoid leaks.
func (s *AssessmentService) Subscribe(ctx context.Context, id string) (<-chan Progress, func(), error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := s.hub.Subscribe(session.ID, progressOf(session))
	return ch, cancel, nil
}

// ListSessions returns sanitized summaries plus aggregate stats.
func (s *AssessmentService) ListSessions(ctx context.Context, filter ListFilter) ([]domain.SessionSummary, SummaryStats, error) {
	sessions, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, SummaryStats{}, err
	}
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, SummaryStats{}, err
	}
	return sessions, stats, nil
}

// ResetSession is the administrative override that returns a session to its
// initial state. Not a normal state-machine transition.
func (s *AssessmentService) ResetSession(ctx context.Context, id string) (*domain.Session, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	session.Status = domain.StatusInProgress
	session.Answers = []domain.Answer{}
	session.Result = nil
	session.CompletedAt = nil
	session.ReportFirstViewedAt = nil
	if err := s.store.Update(ctx, session); err != nil {
		return nil, err
	}
	s.hub.Publish(progressOf(session))
	return session, nil
}

// CleanupSessions purges sessions created before the cutoff. With dryRun it
// only reports what would be removed.
func (s *AssessmentService) CleanupSessions(ctx context.Context, olderThan time.Duration, status domain.Status, dryRun bool) (CleanupResult, error) {
	cutoff := s.now().UTC().Add(-olderThan)
	candidates, err := s.store.List(ctx, ListFilter{Status: status, CreatedBefore: &cutoff})
	if err != nil {
		return CleanupResult{}, err
	}

	result := CleanupResult{DryRun: dryRun, CutoffDate: cutoff}
	if dryRun {
		result.SessionsFound = len(candidates)
		result.Sessions = candidates
		return result, nil
	}

	for _, candidate := range candidates {
		if err := s.store.Delete(ctx, candidate.ID); err != nil {
			log.Printf("cleanup: delete session %s: %v", candidate.ID, err)
			continue
		}
		result.SessionsDeleted++
	}
	return result, nil
}

func progressOf(session *domain.Session) Progress {
	completed := len(session.Answers)
	return Progress{
		SessionID:          session.ID,
		Status:             session.Status,
		CompletedQuestions: completed,
		TotalQuestions:     domain.TotalQuestions,
		Percentage:         float64(completed) / float64(domain.TotalQuestions) * 100,
	}
}
