package jobs

import "strings"

// commonSkills is the vocabulary scanned when a requirement does not
// list skills explicitly. Multi-word entries are matched as substrings.
var commonSkills = []string{
	"python", "java", "javascript", "typescript", "golang", "rust", "ruby",
	"c++", "c#", "php", "kotlin", "swift", "scala",
	"react", "angular", "vue", "node", "django", "flask", "spring", "rails",
	"postgresql", "mysql", "mongodb", "redis", "elasticsearch", "kafka",
	"docker", "kubernetes", "terraform", "aws", "gcp", "azure",
	"graphql", "grpc", "rest", "sql", "nosql",
	"machine learning", "data science", "tensorflow", "pytorch",
	"ci/cd", "git", "linux",
}

// skillAliases folds alternate spellings onto the canonical entry so a
// description saying "Golang" and a resume saying "go" still meet.
var skillAliases = map[string]string{
	"go": "golang",
	"js": "javascript",
	"ts": "typescript",
	"k8s": "kubernetes",
	"postgres": "postgresql",
}

// DeriveSkills returns the normalized required-skill set for a
// requirement. Explicit skills win; otherwise the description is
// scanned against the common vocabulary. Order is stable: explicit
// order as given, scanned order as declared above.
func DeriveSkills(description string, explicit []string) []string {
	if len(explicit) > 0 {
		out := make([]string, 0, len(explicit))
		seen := make(map[string]struct{}, len(explicit))
		for _, s := range explicit {
			skill := strings.ToLower(strings.TrimSpace(s))
			if skill == "" {
				continue
			}
			if canonical, ok := skillAliases[skill]; ok {
				skill = canonical
			}
			if _, dup := seen[skill]; dup {
				continue
			}
			seen[skill] = struct{}{}
			out = append(out, skill)
		}
		return out
	}

	desc := strings.ToLower(description)
	var out []string
	for _, skill := range commonSkills {
		if containsSkill(desc, skill) {
			out = append(out, skill)
		}
	}
	return out
}

// containsSkill matches on word boundaries for short names so "go"
// inside "good" or "java" inside "javascript" do not count.
func containsSkill(desc, skill string) bool {
	idx := 0
	for {
		pos := strings.Index(desc[idx:], skill)
		if pos < 0 {
			return false
		}
		pos += idx
		end := pos + len(skill)
		beforeOK := pos == 0 || !isWordChar(desc[pos-1])
		afterOK := end == len(desc) || !isWordChar(desc[end])
		if beforeOK && afterOK {
			return true
		}
		idx = pos + 1
	}
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}
