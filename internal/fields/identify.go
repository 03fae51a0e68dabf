package fields

import "strings"

// Role keyword tables. Positive entries add their weight when the
// lowercased label contains the keyword; negative entries subtract.
// The tables are tunable configuration, not contracts: only the
// competition shape is fixed.
var (
	nameKeywords = []labelWeight{
		{"name", 3},
		{"applicant", 2},
		{"candidate", 2},
	}
	nameNegatives = []labelWeight{
		{"company", 4},
		{"reference", 4},
		{"manager", 4},
		{"file", 4},
	}
	phoneKeywords = []labelWeight{
		{"phone", 3},
		{"mobile", 3},
		{"cell", 2},
		{"contact number", 2},
		{"whatsapp", 2},
	}
	resumeKeywords = []labelWeight{
		{"resume", 3},
		{"curriculum vitae", 3},
		{"cv", 2},
		{"upload", 1},
		{"attach", 1},
	}
)

// fileKindBonus is the single highest contribution for the resume role:
// a field declared as a file upload almost always carries the resume.
const fileKindBonus = 5

type labelWeight struct {
	keyword string
	weight  int
}

// Identify resolves semantic roles from an ordered list of form fields.
// collectedEmail is the platform-level respondent email, preferred over
// any email-looking field. Identification never fails: roles without a
// convincing field are simply left unassigned.
func Identify(formFields []FormField, collectedEmail string) Identified {
	out := Identified{RemainingAnswers: make(map[string]string)}
	claimed := make([]bool, len(formFields))

	if idx := bestMatch(formFields, scoreNameLabel); idx >= 0 {
		out.Name = strings.TrimSpace(formFields[idx].Value)
		claimed[idx] = true
	}
	if idx := bestMatch(formFields, scorePhoneLabel); idx >= 0 {
		out.Phone = strings.TrimSpace(formFields[idx].Value)
		claimed[idx] = true
	}
	if idx := bestMatch(formFields, scoreResumeField); idx >= 0 {
		out.ResumeReference = strings.TrimSpace(formFields[idx].Value)
		claimed[idx] = true
	}

	out.Email = strings.TrimSpace(collectedEmail)
	if out.Email == "" {
		for i, f := range formFields {
			if claimed[i] {
				continue
			}
			if strings.Contains(strings.ToLower(f.Label), "email") {
				out.Email = strings.TrimSpace(f.Value)
				claimed[i] = true
				break
			}
		}
	}

	for i, f := range formFields {
		if claimed[i] {
			continue
		}
		out.RemainingAnswers[f.Label] = f.Value
	}
	return out
}

// bestMatch runs one role's competition: strictly highest positive score
// wins, first-seen field wins ties (declaration order).
func bestMatch(formFields []FormField, score func(FormField) int) int {
	best := -1
	bestScore := 0
	for i, f := range formFields {
		if s := score(f); s > bestScore {
			best = i
			bestScore = s
		}
	}
	return best
}

func scoreNameLabel(f FormField) int {
	label := strings.ToLower(f.Label)
	score := 0
	for _, kw := range nameKeywords {
		if strings.Contains(label, kw.keyword) {
			score += kw.weight
		}
	}
	for _, kw := range nameNegatives {
		if strings.Contains(label, kw.keyword) {
			score -= kw.weight
		}
	}
	return score
}

func scorePhoneLabel(f FormField) int {
	label := strings.ToLower(f.Label)
	score := 0
	for _, kw := range phoneKeywords {
		if strings.Contains(label, kw.keyword) {
			score += kw.weight
		}
	}
	if f.Kind == KindPhone {
		score += 2
	}
	return score
}

func scoreResumeField(f FormField) int {
	label := strings.ToLower(f.Label)
	score := 0
	if f.Kind == KindFile {
		score += fileKindBonus
	}
	for _, kw := range resumeKeywords {
		if strings.Contains(label, kw.keyword) {
			score += kw.weight
		}
	}
	return score
}
