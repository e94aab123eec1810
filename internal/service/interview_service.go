package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-interviewer-be/internal/constant"
	"ai-interviewer-be/internal/dto"
	"ai-interviewer-be/internal/pkg/logger"
	"ai-interviewer-be/internal/repository/memory"
	"ai-interviewer-be/pkg/events"
	"ai-interviewer-be/pkg/extract"
	"ai-interviewer-be/pkg/llm"
	"ai-interviewer-be/pkg/report"
	"ai-interviewer-be/pkg/store"
)

// TurnResult tells the dispatcher what to emit after a turn-controller step.
type TurnResult struct {
	// Ignored is set when the message arrived in an unexpected state and was
	// dropped under the lenient-receiver policy.
	Ignored bool

	// Question is the next question to emit, when the interview continues.
	Question string

	// Concluded is set once the final answer has been scored; Report and
	// Decision are then populated and the session is terminated.
	Concluded bool
	Report    string
	Decision  dto.Decision
}

type IInterviewService interface {
	// HandleInit builds the candidate context and produces the first question.
	HandleInit(ctx context.Context, session *store.Session, payload dto.InitPayload) (TurnResult, error)

	// HandleAnswer scores an answer and either produces the next question or
	// concludes the session. Callers must serialize invocations per session.
	HandleAnswer(ctx context.Context, session *store.Session, answer string) (TurnResult, error)
}

type interviewService struct {
	llmProvider     llm.LLMProvider
	extractor       *extract.Extractor
	decisionService IDecisionService
	reportGenerator *report.Generator
	publisher       IPublisherService
	sessionRepo     *memory.SessionRepository
	logger          logger.ILogger

	questionBudget int
	llmTimeout     time.Duration
}

func NewInterviewService(
	llmProvider llm.LLMProvider,
	extractor *extract.Extractor,
	decisionService IDecisionService,
	reportGenerator *report.Generator,
	publisher IPublisherService,
	sessionRepo *memory.SessionRepository,
	log logger.ILogger,
	questionBudget int,
	llmTimeout time.Duration,
) IInterviewService {
	return &interviewService{
		llmProvider:     llmProvider,
		extractor:       extractor,
		decisionService: decisionService,
		reportGenerator: reportGenerator,
		publisher:       publisher,
		sessionRepo:     sessionRepo,
		logger:          log,
		questionBudget:  questionBudget,
		llmTimeout:      llmTimeout,
	}
}

func (s *interviewService) HandleInit(ctx context.Context, session *store.Session, payload dto.InitPayload) (TurnResult, error) {
	if session.State != store.StateAwaitingInit {
		s.logger.Warn("Interview", "init received in unexpected state, ignoring", map[string]interface{}{
			"session_id": session.ID,
			"state":      session.State,
		})
		return TurnResult{Ignored: true}, nil
	}

	resume := payload.Resume
	if resume == "" && payload.ResumeToken != "" {
		if text, found := s.sessionRepo.GetResume(payload.ResumeToken); found {
			resume = text
		} else {
			s.logger.Warn("Interview", "resume token not found, continuing without resume", map[string]interface{}{
				"session_id": session.ID,
			})
		}
	}

	session.Candidate = store.Candidate{
		Name:        payload.Name,
		Email:       payload.Email,
		Resume:      resume,
		ResumeToken: payload.ResumeToken,
	}
	session.State = store.StateAwaitingAnswer

	question := s.nextQuestion(ctx, session)
	return TurnResult{Question: question}, nil
}

func (s *interviewService) HandleAnswer(ctx context.Context, session *store.Session, answer string) (TurnResult, error) {
	if session.State != store.StateAwaitingAnswer {
		s.logger.Warn("Interview", "answer received in unexpected state, ignoring", map[string]interface{}{
			"session_id": session.ID,
			"state":      session.State,
		})
		return TurnResult{Ignored: true}, nil
	}

	session.AppendTranscript(store.RoleCandidate, answer)

	record := s.scoreAnswer(ctx, session, answer)
	session.AppendScores(record.Technical, record.Communication, record.Confidence)

	if session.TurnIndex < s.questionBudget {
		question := s.nextQuestion(ctx, session)
		return TurnResult{Question: question}, nil
	}

	return s.conclude(session)
}

// nextQuestion asks the generator for the next turn, increments the turn
// counter and records the question. Generator failures degrade to the
// extractor's fallback turn so the dialogue never stalls.
func (s *interviewService) nextQuestion(ctx context.Context, session *store.Session) string {
	callCtx, cancel := context.WithTimeout(ctx, s.llmTimeout)
	defer cancel()

	raw, err := llm.Complete(callCtx, s.llmProvider, constant.InterviewerSystemPrompt, s.questionPrompt(session))
	if err != nil {
		s.logger.Warn("Interview", "question generation failed, using fallback", map[string]interface{}{
			"session_id": session.ID,
			"error":      err.Error(),
		})
		raw = ""
	}

	turn := s.extractor.ExtractTurn(raw)
	session.IdealAnswer = turn.IdealAnswer
	session.TurnIndex++
	session.AppendTranscript(store.RoleInterviewer, turn.Question)
	return turn.Question
}

func (s *interviewService) scoreAnswer(ctx context.Context, session *store.Session, answer string) extract.ScoreRecord {
	callCtx, cancel := context.WithTimeout(ctx, s.llmTimeout)
	defer cancel()

	raw, err := llm.Complete(callCtx, s.llmProvider, constant.EvaluatorSystemPrompt, s.scorePrompt(session, answer))
	if err != nil {
		s.logger.Warn("Interview", "answer scoring failed, using neutral scores", map[string]interface{}{
			"session_id": session.ID,
			"error":      err.Error(),
		})
		raw = ""
	}

	return s.extractor.ExtractScores(raw)
}

func (s *interviewService) conclude(session *store.Session) (TurnResult, error) {
	session.State = store.StateConcluding

	aggregate := s.decisionService.Aggregate(session)
	decision := s.decisionService.Decide(aggregate)
	reportText := s.reportGenerator.Render(session.Candidate, aggregate, decision, session.Transcript)

	session.State = store.StateTerminated

	// Report delivery is fire-and-forget: the candidate's closing message
	// never waits on (or learns about) the hiring manager's email.
	if err := s.publisher.Publish(events.NewInterviewCompleted(
		session.ID,
		session.Candidate.Name,
		reportText,
		decision.FinalScore,
		decision.Verdict,
	)); err != nil {
		s.logger.Error("Interview", "failed to publish completion event", map[string]interface{}{
			"session_id": session.ID,
			"error":      err.Error(),
		})
	}

	s.logger.Info("Interview", "session concluded", map[string]interface{}{
		"session_id":  session.ID,
		"verdict":     decision.Verdict,
		"final_score": decision.FinalScore,
		"turns":       session.TurnIndex,
	})

	return TurnResult{
		Concluded: true,
		Report:    reportText,
		Decision:  decision,
	}, nil
}

func (s *interviewService) questionPrompt(session *store.Session) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidate: %s\n", session.Candidate.Name))
	if session.Candidate.Resume != "" {
		sb.WriteString(fmt.Sprintf("Resume:\n%s\n", session.Candidate.Resume))
	}
	if len(session.Transcript) > 0 {
		sb.WriteString("\nDialogue so far:\n")
		for _, entry := range session.Transcript {
			sb.WriteString(fmt.Sprintf("[%s] %s\n", entry.Role, entry.Text))
		}
	}
	sb.WriteString(fmt.Sprintf("\nGenerate question %d of %d.", session.TurnIndex+1, s.questionBudget))
	return sb.String()
}

func (s *interviewService) scorePrompt(session *store.Session, answer string) string {
	question := ""
	for i := len(session.Transcript) - 1; i >= 0; i-- {
		if session.Transcript[i].Role == store.RoleInterviewer {
			question = session.Transcript[i].Text
			break
		}
	}
	return fmt.Sprintf("Question: %s\n\nIdeal answer: %s\n\nCandidate answer: %s",
		question, session.IdealAnswer, answer)
}
