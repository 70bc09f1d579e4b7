// Package bank holds the fixed assessment content: the 40 statement pairs
// and the mapping from statement ids to the 11 psychometric constructs.
// Everything here is a versioned constant; changing any table invalidates
// the comparability of previously computed results.
package bank

import (
	"fmt"

	"navigator-profiler/internal/domain"
)

// TotalPairs is the number of question pairs in the bank.
const TotalPairs = domain.TotalQuestions

// constructs lists the 11 construct names in band order: band n (ids
// n*100+1 .. n*100+5) maps to constructs[n-1].
var constructs = [...]string{
	"Need for Cognition",
	"Actively Open-Minded Thinking",
	"Epistemic Curiosity",
	"Tolerance for Ambiguity",
	"Intellectual Humility",
	"Trait Emotional Intelligence",
	"Holistic Thinking Preference",
	"Experimental Drive",
	"Deliberative Stance",
	"Principled Ethics Orientation",
	"General Trust Propensity",
}

var pairs [TotalPairs]domain.QuestionPair

func init() {
	for i, ids := range pairIDs {
		pairs[i] = domain.QuestionPair{
			A: mustStatement(ids[0]),
			B: mustStatement(ids[1]),
		}
	}
}

func mustStatement(id int) domain.Statement {
	text, ok := statementTexts[id]
	if !ok {
		panic(fmt.Sprintf("bank: statement %d has no text", id))
	}
	if _, err := Classify(id); err != nil {
		panic(fmt.Sprintf("bank: statement %d outside construct bands", id))
	}
	return domain.Statement{ID: id, Text: text}
}

// Pair returns the question pair for n in [1, TotalPairs].
func Pair(n int) (domain.QuestionPair, error) {
	if n < 1 || n > TotalPairs {
		return domain.QuestionPair{}, fmt.Errorf("question %d: %w", n, domain.ErrQuestionNotFound)
	}
	return pairs[n-1], nil
}

// Classify resolves a statement id to its construct name. Ids follow the
// band scheme n*100+1 .. n*100+5 for n in 1..11; anything else is a table
// mismatch, never a runtime fallback.
func Classify(statementID int) (string, error) {
	band := statementID / 100
	offset := statementID % 100
	if band < 1 || band > len(constructs) || offset < 1 || offset > 5 {
		return "", fmt.Errorf("statement %d: %w", statementID, domain.ErrUnknownStatement)
	}
	return constructs[band-1], nil
}

// Constructs returns the 11 construct names in canonical band order.
func Constructs() []string {
	out := make([]string, len(constructs))
	copy(out, constructs[:])
	return out
}
