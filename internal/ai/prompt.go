package ai

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"screening-backend/internal/scoring"
)

const systemPrompt = "You are a candidate screening analyst. Respond with JSON only. " +
	"Output must match the schema exactly: " +
	`{"summary": string, "pros": [string], "cons": [string], "score_adjustment": integer}. ` +
	"score_adjustment must be between -15 and 15. No markdown."

const maxPromptResumeChars = 12000

// buildMessages assembles the chat messages for one candidate analysis.
// Answers are rendered in sorted key order so the prompt for identical
// inputs is byte-identical.
func buildMessages(job scoring.JobContext, resumeText string, answers map[string]string) []chatMessage {
	var b strings.Builder
	fmt.Fprintf(&b, "Role: %s\n\nJob Description:\n%s\n", job.Title, orNA(job.Description))
	if len(job.RequiredSkills) > 0 {
		fmt.Fprintf(&b, "\nRequired Skills: %s\n", strings.Join(job.RequiredSkills, ", "))
	}

	resume := strings.TrimSpace(resumeText)
	if len(resume) > maxPromptResumeChars {
		cut := maxPromptResumeChars
		// cut on a rune boundary so the prompt stays valid UTF-8
		for cut > 0 && !utf8.RuneStart(resume[cut]) {
			cut--
		}
		resume = resume[:cut]
	}
	fmt.Fprintf(&b, "\nResume Text:\n%s\n", orNA(resume))

	if len(answers) > 0 {
		b.WriteString("\nApplication Answers:\n")
		keys := make([]string, 0, len(answers))
		for k := range answers {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "Q: %s\nA: %s\n", k, answers[k])
		}
	}

	b.WriteString("\nAssess strengths and concerns relative to the role. " +
		"Return the JSON object only.")

	return []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: b.String()},
	}
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
