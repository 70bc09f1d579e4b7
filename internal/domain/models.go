package domain

import "time"

// Status is the lifecycle state of an assessment session.
type Status string

const (
	StatusInProgress Status = "InProgress"
	StatusCompleted  Status = "Completed"
)

// TotalQuestions is the fixed length of the assessment.
const TotalQuestions = 40

// Statement is a single forced-choice assertion tagged to one construct
// through its identifier band (101-105, 201-205, ..., 1101-1105).
type Statement struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// QuestionPair is one of the 40 A/B statement pairs presented to the user.
type QuestionPair struct {
	A Statement `json:"A"`
	B Statement `json:"B"`
}

// Answer records a single choice. ChosenConstruct is derived at submit time
// from the statement id, never supplied by the caller.
type Answer struct {
	QuestionNumber    int    `json:"questionNumber"`
	PairID            int    `json:"pairId"`
	ChosenStatementID int    `json:"chosenStatementId"`
	ChosenConstruct   string `json:"chosenConstruct"`
}

// ConstructScore is the tally for one of the 11 constructs plus its
// normalized value. Percentile is a fixed linear clamp against the maximum
// possible raw count, not a population percentile.
type ConstructScore struct {
	Name       string  `json:"name"`
	Score      int     `json:"score"`
	Percentile float64 `json:"percentile"`
}

// ArchetypeScore is the weighted sum over an archetype's formula constructs.
type ArchetypeScore struct {
	Name       string  `json:"name"`
	Score      int     `json:"score"`
	Percentile float64 `json:"percentile"`
}

// ReportScores groups the two score families of a finished assessment.
type ReportScores struct {
	Archetypes []ArchetypeScore `json:"archetypes"`
	Constructs []ConstructScore `json:"constructs"`
}

// Report is the final computed artifact attached to a completed session.
// It is immutable once persisted and viewed.
type Report struct {
	PrimaryArchetype   string       `json:"primaryArchetype"`
	SecondaryArchetype string       `json:"secondaryArchetype"`
	Scores             ReportScores `json:"scores"`
	ReportContent      string       `json:"reportContent"`
}

// Session is the aggregate root: one user's end-to-end assessment attempt.
// Version supports optimistic concurrency on read-modify-write updates.
type Session struct {
	ID                  string     `json:"id"`
	Nickname            string     `json:"nickname"`
	ContactEmail        *string    `json:"contactEmail"`
	Status              Status     `json:"status"`
	CreatedAt           time.Time  `json:"createdAt"`
	CompletedAt         *time.Time `json:"completedAt"`
	ReportFirstViewedAt *time.Time `json:"reportFirstViewedAt"`
	Answers             []Answer   `json:"answers"`
	Result              *Report    `json:"result"`
	Version             int64      `json:"version"`
}

// NextQuestionNumber is the only legal question to answer next.
func (s *Session) NextQuestionNumber() int {
	return len(s.Answers) + 1
}

// ContactSubmission is a user message captured against a session.
type ContactSubmission struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"sessionId"`
	Nickname    string    `json:"nickname"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submittedAt"`
	Status      string    `json:"status"`
}

// SessionSummary is the sanitized admin view of a session.
type SessionSummary struct {
	ID                  string     `json:"id"`
	Nickname            string     `json:"nickname"`
	Status              Status     `json:"status"`
	CreatedAt           time.Time  `json:"createdAt"`
	CompletedAt         *time.Time `json:"completedAt"`
	ReportFirstViewedAt *time.Time `json:"reportFirstViewedAt"`
	AnswersCount        int        `json:"answersCount"`
	HasResult           bool       `json:"hasResult"`
	PrimaryArchetype    string     `json:"primaryArchetype,omitempty"`
	SecondaryArchetype  string     `json:"secondaryArchetype,omitempty"`
}

// Summarize projects a session into its admin summary.
func (s *Session) Summarize() SessionSummary {
	summary := SessionSummary{
		ID:                  s.ID,
		Nickname:            s.Nickname,
		Status:              s.Status,
		CreatedAt:           s.CreatedAt,
		CompletedAt:         s.CompletedAt,
		ReportFirstViewedAt: s.ReportFirstViewedAt,
		AnswersCount:        len(s.Answers),
		HasResult:           s.Result != nil,
	}
	if s.Result != nil {
		summary.PrimaryArchetype = s.Result.PrimaryArchetype
		summary.SecondaryArchetype = s.Result.SecondaryArchetype
	}
	return summary
}
