package scoring

import (
	"regexp"
	"strconv"
	"strings"
)

// floorScore is what resume-based scorers return for missing text:
// low, but never zero, so degraded candidates still rank.
const floorScore = 5

var stopWords = map[string]struct{}{
	"will": {}, "work": {}, "with": {}, "have": {}, "this": {}, "that": {},
	"from": {}, "they": {}, "been": {}, "were": {}, "your": {}, "their": {},
	"about": {}, "which": {}, "what": {}, "team": {}, "role": {}, "join": {},
	"more": {}, "than": {}, "into": {}, "each": {}, "such": {}, "well": {},
}

// skillVariations maps shorthand skills to the spellings they may take in
// free text, in both directions.
var skillVariations = map[string][]string{
	"js":         {"javascript"},
	"ts":         {"typescript"},
	"py":         {"python"},
	"cpp":        {"c++"},
	"ml":         {"machine learning"},
	"ai":         {"artificial intelligence"},
	"react":      {"reactjs", "react.js"},
	"node":       {"nodejs", "node.js"},
	"vue":        {"vuejs", "vue.js"},
	"postgres":   {"postgresql"},
	"kubernetes": {"k8s"},
}

var depthTerms = []string{
	"architect", "designed", "led", "optimized", "scale", "scalab",
	"distributed", "microservice", "performance", "refactor", "migrat",
	"mentored", "owned", "throughput", "latency",
}

var impactVerbs = []string{
	"improved", "reduced", "increased", "grew", "saved", "cut", "boosted",
	"delivered", "shipped", "launched", "automated",
}

var cultureTerms = []string{
	"team", "collaborat", "mentor", "together", "feedback", "pair",
	"culture", "help", "communicat", "cross-functional",
}

var (
	achievementNumber = regexp.MustCompile(`\d+(?:\.\d+)?\s*(?:%|percent|x\b|users|customers|requests|million|billion|k\b)`)
	resumeYears       = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)\+?\s*years?\s+(?:of\s+)?experience`),
		regexp.MustCompile(`experience[:\s]+(\d+)\+?\s*years?`),
		regexp.MustCompile(`(\d+)\+?\s*years?\s+in\b`),
	}
	requiredYears = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)\+?\s*years?\s+(?:of\s+)?experience`),
		regexp.MustCompile(`minimum\s+of\s+(\d+)\s+years?`),
		regexp.MustCompile(`at\s+least\s+(\d+)\s+years?`),
	}
)

// scoreDimensions evaluates all nine dimensions. Every scorer is a pure
// function of its inputs and returns a value in [0,100].
func scoreDimensions(in Input, job JobContext) map[Dimension]int {
	resume := strings.ToLower(in.ResumeText)
	desc := strings.ToLower(job.Description)

	return map[Dimension]int{
		DimRelevance:         scoreRelevance(resume, desc),
		DimSkills:            scoreSkills(resume, job.RequiredSkills),
		DimTechnicalDepth:    scoreTechnicalDepth(resume),
		DimExperience:        scoreExperience(resume, desc),
		DimProjectComplexity: scoreProjectComplexity(resume),
		DimCommunication:     scoreCommunication(in.Answers),
		DimCultureFit:        scoreCultureFit(in.Answers),
		DimEducation:         scoreEducation(resume, desc),
		DimKeywords:          scoreKeywords(resume, desc),
	}
}

// tokenize splits lowercased text into words of 4+ characters, minus
// stop words.
func tokenize(text string) map[string]struct{} {
	out := make(map[string]struct{})
	var word strings.Builder
	flush := func() {
		w := word.String()
		word.Reset()
		if len(w) < 4 {
			return
		}
		if _, stop := stopWords[w]; stop {
			return
		}
		out[w] = struct{}{}
	}
	for _, r := range text {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '+' || r == '#' {
			word.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return out
}

// scoreRelevance measures job-description token coverage in the resume,
// normalized by the requirement's own vocabulary size.
func scoreRelevance(resume, desc string) int {
	if resume == "" {
		return floorScore
	}
	jobTokens := tokenize(desc)
	if len(jobTokens) == 0 {
		return 50
	}
	resumeTokens := tokenize(resume)
	matched := 0
	for tok := range jobTokens {
		if _, ok := resumeTokens[tok]; ok {
			matched++
		}
	}
	score := matched * 150 / len(jobTokens)
	return clampScore(score, floorScore)
}

// scoreSkills measures coverage of the requirement's derived skill set,
// matching exact spellings and common variations.
func scoreSkills(resume string, skills []string) int {
	if resume == "" {
		return floorScore
	}
	if len(skills) == 0 {
		return 50
	}
	matched := 0
	for _, skill := range skills {
		if skillPresent(resume, strings.ToLower(skill)) {
			matched++
		}
	}
	score := matched * 100 / len(skills)
	return clampScore(score, floorScore)
}

func skillPresent(resume, skill string) bool {
	if strings.Contains(resume, skill) {
		return true
	}
	for _, variant := range skillVariations[skill] {
		if strings.Contains(resume, variant) {
			return true
		}
	}
	// reverse direction: resume says "js", requirement says "javascript"
	for short, longs := range skillVariations {
		for _, long := range longs {
			if long == skill && containsWord(resume, short) {
				return true
			}
		}
	}
	// light stemming: trailing plural
	trimmed := strings.TrimSuffix(skill, "s")
	return trimmed != skill && strings.Contains(resume, trimmed)
}

func containsWord(text, word string) bool {
	for _, field := range strings.FieldsFunc(text, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '+' || r == '#')
	}) {
		if field == word {
			return true
		}
	}
	return false
}

// scoreTechnicalDepth measures density of seniority/complexity language.
func scoreTechnicalDepth(resume string) int {
	if resume == "" {
		return floorScore
	}
	hits := 0
	for _, term := range depthTerms {
		hits += strings.Count(resume, term)
	}
	return clampScore(hits*12, floorScore)
}

// scoreExperience maps extracted years of experience onto a saturating
// curve, against the requirement's stated minimum when present.
func scoreExperience(resume, desc string) int {
	if resume == "" {
		return floorScore
	}
	years, found := extractYears(resume, resumeYears)
	if !found {
		return 50
	}
	required, hasRequired := extractYears(desc, requiredYears)
	if !hasRequired {
		switch {
		case years < 1:
			return 30
		case years < 2:
			return 50
		case years < 4:
			return 70
		case years < 7:
			return 85
		default:
			return 100
		}
	}
	switch {
	case years >= required+1:
		return 100
	case years >= required:
		return 95
	case years*4 >= required*3:
		return 75
	case years*2 >= required:
		return 50
	default:
		return 20
	}
}

func extractYears(text string, patterns []*regexp.Regexp) (int, bool) {
	for _, pattern := range patterns {
		m := pattern.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		if years, err := strconv.Atoi(m[1]); err == nil {
			return years, true
		}
	}
	return 0, false
}

// scoreProjectComplexity counts quantifiable achievement patterns:
// numbers with impact units plus impact verbs.
func scoreProjectComplexity(resume string) int {
	if resume == "" {
		return floorScore
	}
	hits := len(achievementNumber.FindAllString(resume, -1))
	for _, verb := range impactVerbs {
		hits += strings.Count(resume, verb)
	}
	return clampScore(hits*15, floorScore)
}

// scoreCommunication grades the free-text answers by average length.
// Very short answers read as low effort; extremely long ones as padding.
func scoreCommunication(answers map[string]string) int {
	total, count := 0, 0
	for _, a := range answers {
		trimmed := strings.TrimSpace(a)
		if trimmed == "" {
			continue
		}
		total += len(trimmed)
		count++
	}
	if count == 0 {
		return 40
	}
	avg := total / count
	switch {
	case avg < 40:
		return 30
	case avg < 120:
		return 60
	case avg < 400:
		return 85
	default:
		return 70
	}
}

// scoreCultureFit looks for collaboration signals in the answers.
func scoreCultureFit(answers map[string]string) int {
	if len(answers) == 0 {
		return 30
	}
	var joined strings.Builder
	for _, a := range answers {
		joined.WriteString(strings.ToLower(a))
		joined.WriteByte(' ')
	}
	text := joined.String()
	hits := 0
	for _, term := range cultureTerms {
		if strings.Contains(text, term) {
			hits++
		}
	}
	if hits == 0 {
		return 30
	}
	return clampScore(40+hits*15, floorScore)
}

// scoreEducation matches detected degree level against the requirement's
// implied education bar.
func scoreEducation(resume, desc string) int {
	if resume == "" {
		return floorScore
	}
	hasPhD := strings.Contains(resume, "phd") || strings.Contains(resume, "ph.d") || strings.Contains(resume, "doctorate")
	hasMasters := strings.Contains(resume, "master") || strings.Contains(resume, "mba") || strings.Contains(resume, "m.s")
	hasBachelors := strings.Contains(resume, "bachelor") || strings.Contains(resume, "b.s") || strings.Contains(resume, "b.tech") || strings.Contains(resume, "b.a")

	switch {
	case strings.Contains(desc, "phd") || strings.Contains(desc, "doctorate"):
		if hasPhD {
			return 100
		}
		if hasMasters {
			return 80
		}
		return 60
	case strings.Contains(desc, "master") || strings.Contains(desc, "mba"):
		if hasMasters {
			return 100
		}
		if hasPhD {
			return 90
		}
		return 70
	case strings.Contains(desc, "bachelor") || strings.Contains(desc, "degree"):
		if hasBachelors || hasMasters || hasPhD {
			return 100
		}
		return 60
	default:
		switch {
		case hasPhD:
			return 100
		case hasMasters:
			return 90
		case hasBachelors:
			return 80
		default:
			return 70
		}
	}
}

// scoreKeywords measures raw frequency of job-description terms in the
// resume, rewarding repeated use of the requirement's vocabulary.
func scoreKeywords(resume, desc string) int {
	if resume == "" {
		return floorScore
	}
	jobTokens := tokenize(desc)
	if len(jobTokens) == 0 {
		return 50
	}
	freq := 0
	for tok := range jobTokens {
		freq += strings.Count(resume, tok)
	}
	return clampScore(freq*4, floorScore)
}

func clampScore(score, floor int) int {
	if score > 100 {
		return 100
	}
	if score < floor {
		return floor
	}
	return score
}
