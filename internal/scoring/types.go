package scoring

import "fmt"

// Dimension names one of the nine scoring axes.
type Dimension string

const (
	DimRelevance         Dimension = "relevance"
	DimSkills            Dimension = "skills_match"
	DimTechnicalDepth    Dimension = "technical_depth"
	DimExperience        Dimension = "experience"
	DimProjectComplexity Dimension = "project_complexity"
	DimCommunication     Dimension = "communication"
	DimCultureFit        Dimension = "culture_fit"
	DimEducation         Dimension = "education"
	DimKeywords          Dimension = "keywords"
)

// weightPercent holds the fixed dimension weights in integer percent so
// the sum-to-one invariant can be checked exactly.
var weightPercent = map[Dimension]int{
	DimRelevance:         25,
	DimSkills:            20,
	DimTechnicalDepth:    15,
	DimExperience:        10,
	DimProjectComplexity: 10,
	DimCommunication:     5,
	DimCultureFit:        5,
	DimEducation:         5,
	DimKeywords:          5,
}

// Dimensions lists all nine dimensions in fixed presentation order.
var Dimensions = []Dimension{
	DimRelevance,
	DimSkills,
	DimTechnicalDepth,
	DimExperience,
	DimProjectComplexity,
	DimCommunication,
	DimCultureFit,
	DimEducation,
	DimKeywords,
}

func init() {
	if err := CheckInvariants(); err != nil {
		panic(err)
	}
}

// CheckInvariants verifies the fixed weight table. A violation is a
// programmer error, never a degraded-input condition.
func CheckInvariants() error {
	if len(weightPercent) != len(Dimensions) {
		return fmt.Errorf("scoring: weight table has %d entries, want %d", len(weightPercent), len(Dimensions))
	}
	sum := 0
	for _, d := range Dimensions {
		w, ok := weightPercent[d]
		if !ok {
			return fmt.Errorf("scoring: dimension %s has no weight", d)
		}
		if w <= 0 {
			return fmt.Errorf("scoring: dimension %s has non-positive weight %d", d, w)
		}
		sum += w
	}
	if sum != 100 {
		return fmt.Errorf("scoring: weights sum to %d%%, want 100%%", sum)
	}
	return nil
}

// Weights returns the dimension weights as fractions summing to 1.0.
func Weights() map[Dimension]float64 {
	out := make(map[Dimension]float64, len(weightPercent))
	for d, w := range weightPercent {
		out[d] = float64(w) / 100.0
	}
	return out
}

// JobContext is the requirement side of a scoring call.
type JobContext struct {
	Title          string
	Description    string
	RequiredSkills []string
}

// Input is the candidate side of a scoring call. ResumeText may be empty
// when extraction failed; scorers must degrade, never panic.
type Input struct {
	ResumeText    string
	ParsingFailed bool
	Answers       map[string]string
}

// AdjustmentBound caps the AI adjustment delta in either direction.
const AdjustmentBound = 15

// SummaryUnavailable is the sentinel summary used when the AI analysis
// could not be obtained.
const SummaryUnavailable = "AI analysis unavailable"

// Adjustment is the validated outcome of the external AI analysis.
type Adjustment struct {
	Summary string   `json:"summary"`
	Pros    []string `json:"pros"`
	Cons    []string `json:"cons"`
	Delta   int      `json:"delta"`
}

// NeutralAdjustment is substituted when the AI call fails or times out.
func NeutralAdjustment() Adjustment {
	return Adjustment{Summary: SummaryUnavailable, Pros: []string{}, Cons: []string{}}
}

// Clamp bounds the delta to [-AdjustmentBound, AdjustmentBound] and
// defaults missing list fields to empty.
func (a Adjustment) Clamp() Adjustment {
	if a.Delta > AdjustmentBound {
		a.Delta = AdjustmentBound
	}
	if a.Delta < -AdjustmentBound {
		a.Delta = -AdjustmentBound
	}
	if a.Pros == nil {
		a.Pros = []string{}
	}
	if a.Cons == nil {
		a.Cons = []string{}
	}
	return a
}

// ModifierResult records one applied bonus/penalty rule.
type ModifierResult struct {
	Name   string `json:"name"`
	Delta  int    `json:"delta"`
	Reason string `json:"reason"`
}

// Breakdown is the full explainable scoring result for one candidate.
// It is recomputed atomically: a candidate either has a complete
// Breakdown or none.
type Breakdown struct {
	DimensionScores map[Dimension]int     `json:"dimensionScores"`
	Weights         map[Dimension]float64 `json:"weights"`
	WeightedSum     int                   `json:"weightedSum"`
	AIAdjustment    int                   `json:"aiAdjustment"`
	AISummary       string                `json:"aiSummary"`
	AIPros          []string              `json:"aiPros"`
	AICons          []string              `json:"aiCons"`
	Modifiers       []ModifierResult      `json:"modifiersApplied"`
	TotalScore      int                   `json:"totalScore"`
	Grade           string                `json:"grade"`
	Feedback        []string              `json:"feedback"`
}
