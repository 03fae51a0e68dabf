package scoring

import "fmt"

const lowDimensionThreshold = 40

var dimensionLabels = map[Dimension]string{
	DimRelevance:         "relevance to the role",
	DimSkills:            "required skills coverage",
	DimTechnicalDepth:    "technical depth",
	DimExperience:        "years of experience",
	DimProjectComplexity: "project complexity",
	DimCommunication:     "written communication",
	DimCultureFit:        "culture fit signals",
	DimEducation:         "education background",
	DimKeywords:          "keyword alignment",
}

// buildFeedback assembles the human-readable feedback lines in a fixed
// order: parsing warning, weak dimensions, modifier reasons, then the
// AI pros and cons. The ordering is stable so a rescore with identical
// inputs produces identical feedback.
func buildFeedback(in Input, dims map[Dimension]int, modifiers []ModifierResult, adj Adjustment) []string {
	feedback := make([]string, 0, 8)

	if in.ParsingFailed {
		feedback = append(feedback, "Resume could not be parsed; scored from form answers only.")
	}

	for _, d := range Dimensions {
		if score, ok := dims[d]; ok && score < lowDimensionThreshold {
			feedback = append(feedback, fmt.Sprintf("Low %s (%d/100).", dimensionLabels[d], score))
		}
	}

	for _, m := range modifiers {
		feedback = append(feedback, m.Reason)
	}

	for _, pro := range adj.Pros {
		feedback = append(feedback, "Strength: "+pro)
	}
	for _, con := range adj.Cons {
		feedback = append(feedback, "Concern: "+con)
	}

	if adj.Summary == SummaryUnavailable {
		feedback = append(feedback, SummaryUnavailable+"; score reflects heuristic analysis only.")
	}

	return feedback
}
