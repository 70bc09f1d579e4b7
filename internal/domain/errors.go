package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned when no session exists for the given id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrQuestionNotFound indicates a question number outside [1, 40].
	ErrQuestionNotFound = errors.New("question not found")
	// ErrUnknownStatement signals a statement id outside every construct band.
	// The bank and the scoring table share one source, so hitting this means
	// stored data no longer matches the current tables. Fatal, not recoverable.
	ErrUnknownStatement = errors.New("statement id does not resolve to a construct")
	// ErrAssessmentComplete is returned for progression calls on a finished session.
	ErrAssessmentComplete = errors.New("assessment already completed")
	// ErrAllQuestionsAnswered is the defensive guard for question numbers past 40.
	ErrAllQuestionsAnswered = errors.New("all questions completed")
	// ErrNotCompleted rejects report operations before the last answer.
	ErrNotCompleted = errors.New("assessment not completed")
	// ErrReportAlreadyViewed enforces the one-time-view rule on the report.
	ErrReportAlreadyViewed = errors.New("report already viewed")
	// ErrReportNotGenerated rejects downloads before the report exists.
	ErrReportNotGenerated = errors.New("report not generated")
	// ErrNicknameTaken is returned when a generated handle already exists.
	ErrNicknameTaken = errors.New("nickname already in use")
	// ErrVersionConflict means a conditional session update lost a race.
	ErrVersionConflict = errors.New("session was modified concurrently")
	// ErrNarrativeUnavailable wraps narrative generator failures.
	ErrNarrativeUnavailable = errors.New("narrative generator unavailable")
)

// OutOfSequenceError rejects answers that skip or revisit questions.
type OutOfSequenceError struct {
	Expected int
	Got      int
}

func (e *OutOfSequenceError) Error() string {
	return fmt.Sprintf("expected question %d, got %d", e.Expected, e.Got)
}

// DuplicateAnswerError rejects a second answer for an already answered
// question. Redundant with the sequence guard under append-only discipline
// but checked independently to catch concurrent double-submission.
type DuplicateAnswerError struct {
	QuestionNumber int
}

func (e *DuplicateAnswerError) Error() string {
	return fmt.Sprintf("question %d already answered", e.QuestionNumber)
}

// InvalidChoiceError rejects a statement id that belongs to neither side of
// the pair being answered.
type InvalidChoiceError struct {
	QuestionNumber int
	StatementID    int
}

func (e *InvalidChoiceError) Error() string {
	return fmt.Sprintf("statement %d is not part of question %d", e.StatementID, e.QuestionNumber)
}

// IsSequenceError reports whether err is one of the submit-answer guards.
func IsSequenceError(err error) bool {
	var oos *OutOfSequenceError
	var dup *DuplicateAnswerError
	var inv *InvalidChoiceError
	return errors.As(err, &oos) || errors.As(err, &dup) || errors.As(err, &inv)
}
