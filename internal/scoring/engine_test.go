package scoring

import (
	"context"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"
)

type stubAnalyzer struct {
	adj   Adjustment
	err   error
	block bool
}

func (s *stubAnalyzer) Analyze(ctx context.Context, job JobContext, resumeText string, answers map[string]string) (Adjustment, error) {
	if s.block {
		<-ctx.Done()
		return Adjustment{}, ctx.Err()
	}
	return s.adj, s.err
}

var strongJob = JobContext{
	Title:          "Senior Backend Engineer",
	Description:    "Senior backend engineer with 5+ years experience building distributed systems in Python and PostgreSQL. Bachelor degree required. You will design scalable microservices, optimize performance, and mentor junior engineers.",
	RequiredSkills: []string{"python", "postgresql"},
}

var strongInput = Input{
	ResumeText: "Jane Doe\n" +
		"Senior Backend Engineer\n" +
		"jane@example.com | linkedin.com/in/janedoe | github.com/janedoe\n\n" +
		"8 years of experience building distributed systems in Python and PostgreSQL.\n" +
		"Designed scalable microservices and optimized performance for 40 million users.\n" +
		"Led a team of 6 engineers and mentored junior engineers.\n" +
		"Reduced latency 45% and improved throughput 3x.\n" +
		"Bachelor of Science in Computer Science.",
	Answers: map[string]string{
		"Why do you want to join?": "I enjoy collaborating with product teams and giving honest feedback in code review. Mentoring newer engineers is the part of the job I value most, and I want to keep doing that here.",
		"Describe a hard problem":  "We had a Postgres replication lag incident that took down search. I led the investigation, wrote a runbook with the team, and we cut recovery time from hours to minutes.",
	},
}

func TestWeightsSumToOne(t *testing.T) {
	if err := CheckInvariants(); err != nil {
		t.Fatalf("CheckInvariants: %v", err)
	}
	sum := 0.0
	for _, w := range Weights() {
		sum += w
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Fatalf("weights sum to %v, want 1.0", sum)
	}
}

func TestScoreDeterministic(t *testing.T) {
	eng := &Engine{}
	first := eng.Score(context.Background(), strongInput, strongJob)
	second := eng.Score(context.Background(), strongInput, strongJob)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("rescore with identical inputs diverged:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestScoreStrongCandidate(t *testing.T) {
	eng := &Engine{}
	bd := eng.Score(context.Background(), strongInput, strongJob)

	if bd.TotalScore < 80 {
		t.Fatalf("total = %d, want >= 80; breakdown %+v", bd.TotalScore, bd)
	}
	if bd.Grade != "A" {
		t.Fatalf("grade = %q, want A", bd.Grade)
	}
	if got := modifierNames(bd.Modifiers); !contains(got, "unicorn") || !contains(got, "leadership") {
		t.Fatalf("modifiers = %v, want unicorn and leadership", got)
	}
	if got := modifierNames(bd.Modifiers); contains(got, "missing_profile_link") || contains(got, "red_flag") {
		t.Fatalf("unexpected penalties applied: %v", got)
	}
}

func TestScoreDegradedInput(t *testing.T) {
	eng := &Engine{}
	bd := eng.Score(context.Background(), Input{ParsingFailed: true}, strongJob)

	if bd.TotalScore < 0 || bd.TotalScore > 100 {
		t.Fatalf("total = %d, want within [0,100]", bd.TotalScore)
	}
	if bd.Grade != "D" {
		t.Fatalf("grade = %q, want D", bd.Grade)
	}
	if len(bd.Feedback) == 0 || !strings.Contains(bd.Feedback[0], "could not be parsed") {
		t.Fatalf("feedback = %v, want parsing warning first", bd.Feedback)
	}
	for _, d := range Dimensions {
		if _, ok := bd.DimensionScores[d]; !ok {
			t.Fatalf("dimension %s missing from degraded breakdown", d)
		}
	}
}

func TestScoreClampsAdjustment(t *testing.T) {
	tests := []struct {
		name  string
		delta int
		want  int
	}{
		{"above bound", 50, AdjustmentBound},
		{"below bound", -50, -AdjustmentBound},
		{"within bound", 7, 7},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			eng := &Engine{AI: &stubAnalyzer{adj: Adjustment{Summary: "ok", Delta: tc.delta}}, AITimeout: time.Second}
			bd := eng.Score(context.Background(), strongInput, strongJob)
			if bd.AIAdjustment != tc.want {
				t.Fatalf("adjustment = %d, want %d", bd.AIAdjustment, tc.want)
			}
		})
	}
}

func TestScoreClampsTotalAtZero(t *testing.T) {
	eng := &Engine{AI: &stubAnalyzer{adj: Adjustment{Summary: "bad", Delta: -50}}, AITimeout: time.Second}
	bd := eng.Score(context.Background(), Input{ParsingFailed: true}, strongJob)
	if bd.TotalScore != 0 {
		t.Fatalf("total = %d, want clamped to 0", bd.TotalScore)
	}
}

func TestScoreAnalyzerFailure(t *testing.T) {
	eng := &Engine{AI: &stubAnalyzer{err: errors.New("upstream 503")}, AITimeout: time.Second}
	bd := eng.Score(context.Background(), strongInput, strongJob)

	if bd.AIAdjustment != 0 {
		t.Fatalf("adjustment = %d, want neutral 0", bd.AIAdjustment)
	}
	if bd.AISummary != SummaryUnavailable {
		t.Fatalf("summary = %q, want %q", bd.AISummary, SummaryUnavailable)
	}
	found := false
	for _, line := range bd.Feedback {
		if strings.Contains(line, SummaryUnavailable) {
			found = true
		}
	}
	if !found {
		t.Fatalf("feedback %v missing unavailable notice", bd.Feedback)
	}
}

func TestScoreAnalyzerTimeout(t *testing.T) {
	eng := &Engine{AI: &stubAnalyzer{block: true}, AITimeout: 20 * time.Millisecond}
	done := make(chan Breakdown, 1)
	go func() { done <- eng.Score(context.Background(), strongInput, strongJob) }()

	select {
	case bd := <-done:
		if bd.AISummary != SummaryUnavailable {
			t.Fatalf("summary = %q, want neutral fallback", bd.AISummary)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Score did not return after analyzer timeout")
	}
}

func TestGradeFor(t *testing.T) {
	tests := []struct {
		total int
		want  string
	}{
		{100, "A"}, {80, "A"}, {79, "B"}, {65, "B"},
		{64, "C"}, {50, "C"}, {49, "D"}, {0, "D"},
	}
	for _, tc := range tests {
		if got := GradeFor(tc.total); got != tc.want {
			t.Errorf("GradeFor(%d) = %q, want %q", tc.total, got, tc.want)
		}
	}
}

func modifierNames(mods []ModifierResult) []string {
	out := make([]string, len(mods))
	for i, m := range mods {
		out[i] = m.Name
	}
	return out
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
