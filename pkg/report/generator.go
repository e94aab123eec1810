package report

import (
	"fmt"
	"strings"
	"time"

	"ai-interviewer-be/internal/dto"
	"ai-interviewer-be/pkg/store"
)

// Generator renders the final plain-text interview report.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Render(candidate store.Candidate, scores dto.AggregateScores, decision dto.Decision, transcript []store.TranscriptEntry) string {
	var sb strings.Builder

	name := candidate.Name
	if name == "" {
		name = "Unknown"
	}

	sb.WriteString("INTERVIEW REPORT\n")
	sb.WriteString("----------------\n")
	sb.WriteString(fmt.Sprintf("Date: %s\n", time.Now().Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Candidate: %s\n\n", name))

	sb.WriteString("SCORES:\n")
	sb.WriteString(fmt.Sprintf("- Technical: %.1f\n", scores.Technical))
	sb.WriteString(fmt.Sprintf("- Communication: %.1f\n", scores.Communication))
	sb.WriteString(fmt.Sprintf("- Confidence: %.1f\n\n", scores.Confidence))

	sb.WriteString(fmt.Sprintf("FINAL DECISION: %s\n", decision.Verdict))
	sb.WriteString(fmt.Sprintf("Overall Score: %.2f\n\n", decision.FinalScore))

	sb.WriteString("FEEDBACK:\n")
	sb.WriteString(feedback(scores))

	if len(transcript) > 0 {
		sb.WriteString("\n\nTRANSCRIPT:\n")
		for _, entry := range transcript {
			sb.WriteString(fmt.Sprintf("[%s] %s\n", entry.Role, entry.Text))
		}
	}

	return sb.String()
}

func feedback(scores dto.AggregateScores) string {
	var lines []string
	if scores.Technical > 80 {
		lines = append(lines, "Strong technical understanding.")
	} else {
		lines = append(lines, "Needs improvement in technical concepts.")
	}
	if scores.Communication > 80 {
		lines = append(lines, "Clear and articulate communication.")
	}
	if scores.Confidence > 80 {
		lines = append(lines, "Confident delivery throughout the interview.")
	}
	return strings.Join(lines, "\n")
}
