package scoring

import (
	"context"
	"time"

	"screening-backend/internal/shared/telemetry"
)

// Analyzer is the external AI text-analysis capability. Implementations
// must honor the context deadline; the engine substitutes a neutral
// adjustment on error or timeout.
type Analyzer interface {
	Analyze(ctx context.Context, job JobContext, resumeText string, answers map[string]string) (Adjustment, error)
}

// Engine combines the nine dimension scorers, the AI adjustment and the
// modifier rules into a Breakdown. The engine itself is stateless:
// scoring is a pure function of its inputs plus the analyzer's reply.
type Engine struct {
	AI        Analyzer
	AITimeout time.Duration
}

// Score produces the complete Breakdown for one candidate. The AI call
// runs concurrently with the dimension scorers; its failure or timeout
// degrades to a neutral adjustment and never fails the score.
func (e *Engine) Score(ctx context.Context, in Input, job JobContext) Breakdown {
	adjCh := e.startAnalysis(ctx, in, job)

	dims := scoreDimensions(in, job)
	weightedSum := weighted(dims)

	adj := NeutralAdjustment()
	if adjCh != nil {
		adj = <-adjCh
	}

	modifiers := applyModifiers(in, dims)

	total := weightedSum + adj.Delta
	for _, m := range modifiers {
		total += m.Delta
	}
	total = clampTotal(total)

	return Breakdown{
		DimensionScores: dims,
		Weights:         Weights(),
		WeightedSum:     weightedSum,
		AIAdjustment:    adj.Delta,
		AISummary:       adj.Summary,
		AIPros:          adj.Pros,
		AICons:          adj.Cons,
		Modifiers:       modifiers,
		TotalScore:      total,
		Grade:           GradeFor(total),
		Feedback:        buildFeedback(in, dims, modifiers, adj),
	}
}

// startAnalysis launches the AI call with its own timeout and returns a
// channel that always yields exactly one (possibly neutral) adjustment.
// A nil channel means no analyzer is configured.
func (e *Engine) startAnalysis(ctx context.Context, in Input, job JobContext) <-chan Adjustment {
	if e.AI == nil {
		return nil
	}
	timeout := e.AITimeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	ch := make(chan Adjustment, 1)
	go func() {
		aiCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		adj, err := e.AI.Analyze(aiCtx, job, in.ResumeText, in.Answers)
		if err != nil {
			telemetry.Error("ai.analysis_failed", map[string]any{
				"error": err.Error(),
			})
			ch <- NeutralAdjustment()
			return
		}
		ch <- adj.Clamp()
	}()
	return ch
}

func weighted(dims map[Dimension]int) int {
	sum := 0
	for d, score := range dims {
		sum += score * weightPercent[d]
	}
	// integer rounding to nearest
	return (sum + 50) / 100
}

func clampTotal(total int) int {
	if total < 0 {
		return 0
	}
	if total > 100 {
		return 100
	}
	return total
}

// GradeFor maps a total score to its letter grade.
func GradeFor(total int) string {
	switch {
	case total >= 80:
		return "A"
	case total >= 65:
		return "B"
	case total >= 50:
		return "C"
	default:
		return "D"
	}
}
