// Package report builds the final assessment artifact: it combines scoring
// output with prose from a pluggable narrative generator and falls back to a
// deterministic local template when that collaborator is unavailable.
package report

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"navigator-profiler/internal/domain"
	"navigator-profiler/internal/scoring"
)

// NarrativePayload is the fixed input contract for narrative generation.
type NarrativePayload struct {
	Nickname  string
	Scores    scoring.Result
	Primary   domain.ArchetypeScore
	Secondary domain.ArchetypeScore
}

// NarrativeGenerator produces the personalized prose section of a report.
// Implementations may be an LLM, a template engine, or a static bank; any
// failure is recovered locally by the assembler.
type NarrativeGenerator interface {
	Generate(ctx context.Context, payload NarrativePayload) (string, error)
}

// Assembler builds report records. Timeout bounds the narrative call so
// report generation never stalls on a slow collaborator.
type Assembler struct {
	narrative NarrativeGenerator
	timeout   time.Duration
}

func NewAssembler(narrative NarrativeGenerator, timeout time.Duration) *Assembler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Assembler{narrative: narrative, timeout: timeout}
}

// Assemble produces the final report for a completed assessment. Persistence
// is the caller's responsibility.
func (a *Assembler) Assemble(ctx context.Context, nickname string, scores scoring.Result) domain.Report {
	content := a.narrativeOrFallback(ctx, NarrativePayload{
		Nickname:  nickname,
		Scores:    scores,
		Primary:   scores.Primary,
		Secondary: scores.Secondary,
	})

	return domain.Report{
		PrimaryArchetype:   scores.Primary.Name,
		SecondaryArchetype: scores.Secondary.Name,
		Scores: domain.ReportScores{
			Archetypes: scores.Archetypes,
			Constructs: scores.Constructs,
		},
		ReportContent: content,
	}
}

func (a *Assembler) narrativeOrFallback(ctx context.Context, payload NarrativePayload) string {
	if a.narrative != nil {
		nctx, cancel := context.WithTimeout(ctx, a.timeout)
		defer cancel()
		content, err := a.narrative.Generate(nctx, payload)
		if err == nil && strings.TrimSpace(content) != "" {
			return content
		}
		if err != nil {
			log.Printf("narrative generation failed, using fallback: %v", err)
		}
	}
	return FallbackNarrative(payload.Nickname, payload.Primary, payload.Secondary)
}

// FallbackNarrative renders the deterministic local report used whenever the
// narrative collaborator fails or is not configured.
func FallbackNarrative(nickname string, primary, secondary domain.ArchetypeScore) string {
	primaryCopy := profileFor(primary.Name)

	var b strings.Builder
	fmt.Fprintf(&b, "# Your AI Navigator Profile\n\n")
	fmt.Fprintf(&b, "**Nickname:** %s\n\n", nickname)
	fmt.Fprintf(&b, "### Executive Summary\n\n")
	fmt.Fprintf(&b, "Your assessment results show a strong profile as a %s, with complementary strengths from %s.\n\n",
		primary.Name, secondary.Name)
	fmt.Fprintf(&b, "---\n\n")
	fmt.Fprintf(&b, "### Your Primary Archetype: %s\n\n", primary.Name)
	fmt.Fprintf(&b, "%s\n\n", primaryCopy.description)
	fmt.Fprintf(&b, "**Signature Strengths:**\n")
	for _, s := range primaryCopy.strengths {
		fmt.Fprintf(&b, "* %s\n", s)
	}
	fmt.Fprintf(&b, "\n**Potential Blind Spots:**\n")
	for _, s := range primaryCopy.blindSpots {
		fmt.Fprintf(&b, "* %s\n", s)
	}
	fmt.Fprintf(&b, "\n---\n\n")
	fmt.Fprintf(&b, "### Developmental Opportunities\n\n")
	fmt.Fprintf(&b, "* **To enhance your %s style:** Focus on balancing analysis with action, and consider the human impact of your decisions.\n", primary.Name)
	fmt.Fprintf(&b, "* **To leverage your %s strengths:** Integrate complementary approaches to create more well-rounded solutions.\n\n", secondary.Name)
	fmt.Fprintf(&b, "---\n\n")
	fmt.Fprintf(&b, "### Detailed Trait Scores\n\n")
	fmt.Fprintf(&b, "Your assessment measured 11 core constructs that contribute to effective AI navigation. Your scores reflect your natural preferences and tendencies in these areas.\n\n")
	fmt.Fprintf(&b, "---\n\n")
	fmt.Fprintf(&b, "**Note:** This is a basic report. For a more detailed, personalized analysis, please try again later when the AI report generation service is available.\n")
	return b.String()
}

// Prompt renders the narrative-generation prompt from the fixed payload.
// Exported so narrative implementations share one prompt source.
func Prompt(payload NarrativePayload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a personalized AI Navigator Profile report for the user with nickname %q.\n\n", payload.Nickname)
	fmt.Fprintf(&b, "Assessment Results:\n")
	fmt.Fprintf(&b, "- Primary Archetype: %s (Score: %d, Percentile: %.1f)\n",
		payload.Primary.Name, payload.Primary.Score, payload.Primary.Percentile)
	fmt.Fprintf(&b, "- Secondary Archetype: %s (Score: %d, Percentile: %.1f)\n\n",
		payload.Secondary.Name, payload.Secondary.Score, payload.Secondary.Percentile)

	fmt.Fprintf(&b, "Construct Scores:\n")
	for _, score := range payload.Scores.Constructs {
		fmt.Fprintf(&b, "- %s: %d (Percentile: %.1f)\n", score.Name, score.Score, score.Percentile)
	}

	fmt.Fprintf(&b, "\nArchetype Information:\n")
	for _, archetype := range []domain.ArchetypeScore{payload.Primary, payload.Secondary} {
		profile := profileFor(archetype.Name)
		fmt.Fprintf(&b, "## %s\n%s\n**Strengths:**\n", archetype.Name, profile.description)
		for _, s := range profile.strengths {
			fmt.Fprintf(&b, "- %s\n", s)
		}
		fmt.Fprintf(&b, "**Potential Blind Spots:**\n")
		for _, s := range profile.blindSpots {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}

	fmt.Fprintf(&b, "\nPlease generate a comprehensive, empowering report in Markdown with these sections: ")
	fmt.Fprintf(&b, "an Executive Summary interpreting the mix of primary and secondary archetypes, ")
	fmt.Fprintf(&b, "a personalized description of the primary archetype with signature strengths and potential blind spots, ")
	fmt.Fprintf(&b, "developmental opportunities covering both archetypes, ")
	fmt.Fprintf(&b, "and the detailed trait percentiles listed above. Be empowering and constructive.\n")
	return b.String()
}

// SystemPrompt frames the narrative model's role.
const SystemPrompt = "You are an expert psychometrician and career development specialist. Generate personalized, empowering reports based on assessment data."
