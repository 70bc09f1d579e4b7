package report

// Static descriptive copy for the three archetypes, rendered into prompts,
// fallback reports, and the markdown export.

type archetypeCopy struct {
	description   string
	strengths     []string
	blindSpots    []string
	integration   []string
}

var archetypeProfiles = map[string]archetypeCopy{
	"The Critical Interrogator": {
		description: "You excel at rigorous analysis and systematic thinking. You naturally question assumptions, seek evidence, and build robust arguments. Your strength lies in breaking down complex problems into manageable components and evaluating information critically.",
		strengths: []string{
			"Exceptional analytical thinking and logical reasoning",
			"Strong ability to identify flaws in arguments and assumptions",
			"Systematic approach to problem-solving",
			"High standards for evidence and proof",
			"Excellent attention to detail and precision",
		},
		blindSpots: []string{
			"May over-analyze simple situations",
			"Can be perceived as overly critical or skeptical",
			"May miss intuitive or creative solutions",
			"Could overlook emotional or human factors",
			"Risk of analysis paralysis in time-sensitive situations",
		},
		integration: []string{
			"Use analytical skills to evaluate human dynamics more systematically",
			"Apply logical frameworks to ethical decision-making",
			"Balance rigor with empathy in collaborative settings",
		},
	},
	"The Human-Centric Strategist": {
		description: "You naturally understand and work with human dynamics, emotional intelligence, and ethical considerations. You excel at building trust, fostering collaboration, and considering the broader impact of decisions on people and systems.",
		strengths: []string{
			"Strong emotional intelligence and people skills",
			"Ability to build trust and foster collaboration",
			"Holistic understanding of human dynamics",
			"Strong ethical compass and principled decision-making",
			"Natural ability to see the big picture",
		},
		blindSpots: []string{
			"May prioritize relationships over necessary conflict",
			"Could overlook technical or analytical details",
			"Risk of being overly trusting or optimistic",
			"May avoid difficult but necessary decisions",
			"Could miss opportunities for efficiency or optimization",
		},
		integration: []string{
			"Leverage emotional intelligence to enhance analytical processes",
			"Use collaborative skills to improve experimental approaches",
			"Apply ethical frameworks to experimental decision-making",
		},
	},
	"The Curious Experimenter": {
		description: "You thrive on exploration, experimentation, and learning through hands-on experience. You're comfortable with uncertainty and enjoy trying new approaches to solve problems. Your strength lies in rapid prototyping and iterative improvement.",
		strengths: []string{
			"Natural curiosity and love of learning",
			"Comfort with uncertainty and ambiguity",
			"Strong experimental and hands-on approach",
			"Ability to quickly adapt and iterate",
			"Openness to new ideas and perspectives",
		},
		blindSpots: []string{
			"May lack systematic planning and follow-through",
			"Could jump between projects without completion",
			"Risk of being scattered or unfocused",
			"May overlook established best practices",
			"Could underestimate the importance of stability",
		},
		integration: []string{
			"Channel curiosity into more systematic exploration",
			"Use experimental mindset to enhance analytical creativity",
			"Apply hands-on learning to improve human-centric approaches",
		},
	},
}

func profileFor(name string) archetypeCopy {
	if p, ok := archetypeProfiles[name]; ok {
		return p
	}
	return archetypeCopy{
		description: name + " represents your dominant approach to AI navigation work.",
		strengths:   []string{"Strong analytical capabilities", "Effective problem-solving approach"},
		blindSpots:  []string{"May need to balance different approaches", "Consider complementary perspectives"},
		integration: []string{"Integrate complementary approaches to create well-rounded solutions", "Balance different perspectives for optimal outcomes"},
	}
}
