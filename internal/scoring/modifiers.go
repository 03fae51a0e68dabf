package scoring

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Modifier rule constants. The keyword and pattern lists below are
// tunable configuration; the rule shape (bounded signed delta plus
// reason) is the contract.
const (
	missingProfilePenalty = -3
	redFlagPenalty        = -5
	aiAnswersPenalty      = -10
	unicornBonus          = 5
	leadershipBonus       = 3

	unicornSkillsThreshold     = 85
	unicornExperienceThreshold = 85
)

var profileHosts = []string{"linkedin.com", "github.com", "gitlab.com", "bitbucket.org"}

var employmentGapPattern = regexp.MustCompile(`(?:career|employment)\s+(?:gap|break)|gap\s+in\s+(?:my\s+)?employment`)

// yearRange matches date spans like "2019-2021" or "2019 – 2020".
var yearRange = regexp.MustCompile(`\b(19|20)(\d{2})\s*[-–—]\s*(19|20)(\d{2})\b`)

var aiTemplatePhrases = []string{
	"as an ai language model",
	"i am writing to express my",
	"i am excited to apply",
	"leverage my skills",
	"fast-paced environment",
	"passionate about delivering",
	"aligns perfectly with",
}

var leadershipTerms = []string{
	"led a team", "led the team", "managed", "mentored", "head of",
	"director", "team lead", "engineering manager", "supervised",
}

// applyModifiers evaluates the bonus/penalty rules in fixed declared
// order. Each rule is independent; all deltas are additive.
func applyModifiers(in Input, dims map[Dimension]int) []ModifierResult {
	combined := strings.ToLower(in.ResumeText)
	var answers strings.Builder
	for _, a := range in.Answers {
		answers.WriteString(strings.ToLower(a))
		answers.WriteByte(' ')
	}
	answerText := answers.String()
	combined += " " + answerText

	var out []ModifierResult

	if !containsAny(combined, profileHosts) {
		out = append(out, ModifierResult{
			Name:   "missing_profile_link",
			Delta:  missingProfilePenalty,
			Reason: "No professional profile link (LinkedIn/GitHub) found",
		})
	}

	for _, flag := range detectRedFlags(strings.ToLower(in.ResumeText)) {
		out = append(out, ModifierResult{
			Name:   "red_flag",
			Delta:  redFlagPenalty,
			Reason: flag,
		})
	}

	if looksAIGenerated(in.Answers, answerText) {
		out = append(out, ModifierResult{
			Name:   "ai_generated_answers",
			Delta:  aiAnswersPenalty,
			Reason: "Answers match AI-generated writing patterns",
		})
	}

	if dims[DimSkills] >= unicornSkillsThreshold && dims[DimExperience] >= unicornExperienceThreshold {
		out = append(out, ModifierResult{
			Name:   "unicorn",
			Delta:  unicornBonus,
			Reason: "Exceptional skills and experience match",
		})
	}

	if leadershipHits(combined) >= 2 {
		out = append(out, ModifierResult{
			Name:   "leadership",
			Delta:  leadershipBonus,
			Reason: "Strong leadership signals",
		})
	}

	return out
}

// detectRedFlags returns a human-readable reason per detected flag.
// Flags accumulate without bound; total clamping happens at aggregation.
func detectRedFlags(resume string) []string {
	var flags []string

	if employmentGapPattern.MatchString(resume) {
		flags = append(flags, "Employment gap mentioned in resume")
	}

	ranges := yearRange.FindAllStringSubmatch(resume, -1)
	shortStints := 0
	for _, m := range ranges {
		start, err1 := strconv.Atoi(m[1] + m[2])
		end, err2 := strconv.Atoi(m[3] + m[4])
		if err1 != nil || err2 != nil {
			continue
		}
		if end < start {
			flags = append(flags, fmt.Sprintf("Inconsistent date range %d-%d", start, end))
			continue
		}
		if end-start <= 1 {
			shortStints++
		}
	}
	if len(ranges) >= 4 && shortStints*2 > len(ranges) {
		flags = append(flags, "Frequent short stints suggest job hopping")
	}

	return flags
}

// looksAIGenerated flags answers that hit multiple template phrases or
// show anomalous length uniformity across three or more answers.
func looksAIGenerated(answers map[string]string, answerText string) bool {
	phraseHits := 0
	for _, phrase := range aiTemplatePhrases {
		if strings.Contains(answerText, phrase) {
			phraseHits++
		}
	}
	if phraseHits >= 2 {
		return true
	}

	lengths := make([]int, 0, len(answers))
	for _, a := range answers {
		if trimmed := strings.TrimSpace(a); trimmed != "" {
			lengths = append(lengths, len(trimmed))
		}
	}
	if len(lengths) < 3 {
		return false
	}
	minLen, maxLen := lengths[0], lengths[0]
	for _, l := range lengths[1:] {
		if l < minLen {
			minLen = l
		}
		if l > maxLen {
			maxLen = l
		}
	}
	// Real people write uneven answers; near-identical lengths on long
	// answers are suspicious.
	return maxLen >= 200 && (maxLen-minLen)*20 < maxLen
}

func leadershipHits(text string) int {
	hits := 0
	for _, term := range leadershipTerms {
		if strings.Contains(text, term) {
			hits++
		}
	}
	return hits
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
