// Package scoring turns a completed answer list into construct tallies and
// ranked archetype scores. Pure functions, no I/O.
package scoring

import (
	"fmt"
	"math"
	"sort"

	"navigator-profiler/internal/bank"
	"navigator-profiler/internal/domain"
)

// Archetype is one of the 3 fixed composite profiles. Its Formula names the
// constructs whose raw tallies sum into its score.
type Archetype struct {
	Name    string
	Formula []string
}

// Archetypes lists the fixed profiles in canonical declaration order, which
// doubles as the tie-break order when raw scores are equal.
var Archetypes = []Archetype{
	{
		Name: "The Critical Interrogator",
		Formula: []string{
			"Need for Cognition",
			"Actively Open-Minded Thinking",
			"Epistemic Curiosity",
			"Intellectual Humility",
			"Deliberative Stance",
		},
	},
	{
		Name: "The Human-Centric Strategist",
		Formula: []string{
			"Trait Emotional Intelligence",
			"Holistic Thinking Preference",
			"Principled Ethics Orientation",
			"General Trust Propensity",
		},
	},
	{
		Name: "The Curious Experimenter",
		Formula: []string{
			"Tolerance for Ambiguity",
			"Experimental Drive",
			"Epistemic Curiosity",
			"Actively Open-Minded Thinking",
		},
	},
}

// Result is the full scoring output for one session.
type Result struct {
	Constructs []domain.ConstructScore
	Archetypes []domain.ArchetypeScore
	Primary    domain.ArchetypeScore
	Secondary  domain.ArchetypeScore
}

// Percentile applies the fixed linear clamp used for every normalized score:
// count/40*100 bounded to [5, 95], one decimal. Not a population percentile;
// kept for output compatibility with previously issued reports.
func Percentile(count int) float64 {
	v := float64(count) / float64(domain.TotalQuestions) * 100
	v = math.Min(95, math.Max(5, v))
	return math.Round(v*10) / 10
}

// Score tallies answers into the 11 constructs and derives archetype scores
// and ranking. Each answer's stored construct is re-derived from its
// statement id; a mismatch means the stored data and the current tables have
// drifted, which is surfaced as an integrity error, never silently corrected.
func Score(answers []domain.Answer) (Result, error) {
	counts := make(map[string]int, 11)
	for _, name := range bank.Constructs() {
		counts[name] = 0
	}

	for _, answer := range answers {
		construct, err := bank.Classify(answer.ChosenStatementID)
		if err != nil {
			return Result{}, fmt.Errorf("answer %d: %w", answer.QuestionNumber, err)
		}
		if answer.ChosenConstruct != "" && answer.ChosenConstruct != construct {
			return Result{}, fmt.Errorf("answer %d: stored construct %q does not match %q: %w",
				answer.QuestionNumber, answer.ChosenConstruct, construct, domain.ErrUnknownStatement)
		}
		counts[construct]++
	}

	constructScores := make([]domain.ConstructScore, 0, len(counts))
	for _, name := range bank.Constructs() {
		constructScores = append(constructScores, domain.ConstructScore{
			Name:       name,
			Score:      counts[name],
			Percentile: Percentile(counts[name]),
		})
	}

	archetypeScores := make([]domain.ArchetypeScore, 0, len(Archetypes))
	for _, archetype := range Archetypes {
		raw := 0
		for _, construct := range archetype.Formula {
			raw += counts[construct]
		}
		archetypeScores = append(archetypeScores, domain.ArchetypeScore{
			Name:       archetype.Name,
			Score:      raw,
			Percentile: Percentile(raw),
		})
	}

	ranked := make([]domain.ArchetypeScore, len(archetypeScores))
	copy(ranked, archetypeScores)
	// Stable sort keeps declaration order on equal raw scores.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return Result{
		Constructs: constructScores,
		Archetypes: archetypeScores,
		Primary:    ranked[0],
		Secondary:  ranked[1],
	}, nil
}
