package service

import (
	"math"

	"ai-interviewer-be/internal/dto"
	"ai-interviewer-be/pkg/store"
)

type IDecisionService interface {
	// Aggregate reduces the session's per-criterion score lists to means.
	Aggregate(session *store.Session) dto.AggregateScores

	// Decide computes the final verdict from aggregate scores. Callers invoke
	// this at most once per session.
	Decide(scores dto.AggregateScores) dto.Decision
}

type decisionService struct {
	hireThreshold float64
}

// NewDecisionService builds the engine with an explicit threshold so the
// hiring policy stays testable configuration rather than a buried literal.
func NewDecisionService(hireThreshold float64) IDecisionService {
	return &decisionService{
		hireThreshold: hireThreshold,
	}
}

func (s *decisionService) Aggregate(session *store.Session) dto.AggregateScores {
	return dto.AggregateScores{
		Technical:     mean(session.Technical),
		Communication: mean(session.Communication),
		Confidence:    mean(session.Confidence),
	}
}

func (s *decisionService) Decide(scores dto.AggregateScores) dto.Decision {
	final := (scores.Technical + scores.Communication + scores.Confidence) / 3

	verdict := dto.VerdictReject
	if final > s.hireThreshold {
		verdict = dto.VerdictHire
	}

	return dto.Decision{
		FinalScore: math.Round(final*100) / 100,
		Verdict:    verdict,
		Scores:     scores,
	}
}

// mean guards the empty list (question budget misconfiguration) by yielding
// zero instead of dividing by zero.
func mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}
