package report

import (
	"fmt"
	"strings"
	"time"

	"navigator-profiler/internal/domain"
)

const dateLayout = "January 2, 2006 at 3:04 PM UTC"

// Filename returns the attachment name for a downloaded report.
func Filename(nickname string) string {
	return fmt.Sprintf("navigator-report-%s.md", nickname)
}

// RenderMarkdown produces the downloadable document for a completed session.
// The export is read-only and does not consume the one-time view token.
func RenderMarkdown(session *domain.Session, now time.Time) string {
	result := session.Result

	completed := "Unknown"
	if session.CompletedAt != nil {
		completed = session.CompletedAt.UTC().Format(dateLayout)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# AI Navigator Profile Report\n\n")
	fmt.Fprintf(&b, "**Nickname:** %s  \n", session.Nickname)
	fmt.Fprintf(&b, "**Assessment Completed:** %s\n\n---\n\n", completed)

	fmt.Fprintf(&b, "## Executive Summary\n\n")
	fmt.Fprintf(&b, "This report presents your AI Navigator Profile based on your responses to 40 carefully designed questions. Your profile reveals your natural tendencies and preferences when working with AI systems and navigating complex technological environments.\n\n---\n\n")

	primary := profileFor(result.PrimaryArchetype)
	fmt.Fprintf(&b, "## Your Primary Archetype: %s\n\n%s\n\n", result.PrimaryArchetype, primary.description)
	fmt.Fprintf(&b, "### Signature Strengths\n\n%s\n\n", bulleted(primary.strengths))
	fmt.Fprintf(&b, "### Potential Blind Spots\n\n%s\n\n", bulleted(primary.blindSpots))

	if result.SecondaryArchetype != "" {
		secondary := profileFor(result.SecondaryArchetype)
		fmt.Fprintf(&b, "\n## Your Secondary Archetype: %s\n\n%s\n\n", result.SecondaryArchetype, secondary.description)
		fmt.Fprintf(&b, "### Complementary Strengths\n\n%s\n\n", bulleted(secondary.strengths))
		fmt.Fprintf(&b, "### Integration Opportunities\n\n%s\n\n", bulleted(secondary.integration))
	}

	fmt.Fprintf(&b, "\n## Detailed Assessment Scores\n\n### Archetype Scores\n\n")
	for _, score := range result.Scores.Archetypes {
		fmt.Fprintf(&b, "- **%s:** %d points (%.1fth percentile)\n", score.Name, score.Score, score.Percentile)
	}

	fmt.Fprintf(&b, "\n### Construct Scores\n\nThe following shows your percentile scores across the 11 core constructs that contribute to effective AI navigation:\n\n")
	for _, score := range result.Scores.Constructs {
		fmt.Fprintf(&b, "- **%s:** %.1fth percentile\n", score.Name, score.Percentile)
	}

	if result.ReportContent != "" {
		fmt.Fprintf(&b, "\n---\n\n## Personalized Insights\n\n%s\n\n", result.ReportContent)
	}

	fmt.Fprintf(&b, "\n---\n\n## About This Assessment\n\n")
	fmt.Fprintf(&b, "This AI Navigator Profile was generated using a scientifically-grounded psychometric framework designed to identify the core traits of successful AI navigators. The assessment measures 11 key constructs across three primary archetypes:\n\n")
	fmt.Fprintf(&b, "- **The Critical Interrogator:** Analytical thinking and systematic problem-solving\n")
	fmt.Fprintf(&b, "- **The Human-Centric Strategist:** Emotional intelligence and ethical decision-making  \n")
	fmt.Fprintf(&b, "- **The Curious Experimenter:** Adaptability and hands-on learning\n\n")
	fmt.Fprintf(&b, "Your results reflect your natural preferences and tendencies. Remember that every archetype brings valuable perspectives to AI navigation work, and your unique combination of traits creates your distinctive approach.\n\n---\n\n")
	fmt.Fprintf(&b, "**Report Generated:** %s  \n", now.UTC().Format(dateLayout))
	fmt.Fprintf(&b, "**Assessment ID:** %s\n", session.ID)

	return b.String()
}

func bulleted(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	return strings.Join(lines, "\n")
}
