package service

import (
	"context"
	"fmt"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ai-interviewer-be/internal/constant"
	"ai-interviewer-be/internal/dto"
	"ai-interviewer-be/internal/repository/memory"
	"ai-interviewer-be/pkg/events"
	"ai-interviewer-be/pkg/extract"
	"ai-interviewer-be/pkg/fraud"
	"ai-interviewer-be/pkg/llm"
	"ai-interviewer-be/pkg/report"
	"ai-interviewer-be/pkg/store"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{}) {}
func (nopLogger) Warn(module, message string, details map[string]interface{}) {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error { return nil }

// fakeLLM answers question prompts and score prompts with scripted JSON.
type fakeLLM struct {
	mu        sync.Mutex
	turnJSON  string
	scoreJSON string
	err       error
	calls     int
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.err != nil {
		return "", f.err
	}
	if len(history) > 0 && history[0].Content == constant.InterviewerSystemPrompt {
		return f.turnJSON, nil
	}
	return f.scoreJSON, nil
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *fakePublisher) Publish(event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func newTestService(provider llm.LLMProvider, publisher IPublisherService, repo *memory.SessionRepository, budget int) IInterviewService {
	return NewInterviewService(
		provider,
		extract.New(nopLogger{}),
		NewDecisionService(70),
		report.NewGenerator(),
		publisher,
		repo,
		nopLogger{},
		budget,
		time.Second,
	)
}

func TestHandleInitProducesFirstQuestion(t *testing.T) {
	provider := &fakeLLM{
		turnJSON:  `{"question": "What is a mutex?", "ideal_answer": "A mutual exclusion lock."}`,
		scoreJSON: `{"technical_score": 80, "communication_score": 90, "confidence_score": 70}`,
	}
	svc := newTestService(provider, &fakePublisher{}, memory.NewSessionRepository(), 5)

	session := store.NewSession("s1")
	result, err := svc.HandleInit(context.Background(), session, dto.InitPayload{Name: "Ada", Resume: "10 years of Go"})

	assert.NoError(t, err)
	assert.False(t, result.Ignored)
	assert.Equal(t, "What is a mutex?", result.Question)
	assert.Equal(t, store.StateAwaitingAnswer, session.State)
	assert.Equal(t, 1, session.TurnIndex)
	assert.Equal(t, "A mutual exclusion lock.", session.IdealAnswer)
	assert.Len(t, session.Transcript, 1)
	assert.Equal(t, store.RoleInterviewer, session.Transcript[0].Role)
}

func TestInterviewTerminatesAfterQuestionBudget(t *testing.T) {
	provider := &fakeLLM{
		turnJSON:  `{"question": "Next question?", "ideal_answer": "Ideal."}`,
		scoreJSON: `{"technical_score": 80, "communication_score": 90, "confidence_score": 70}`,
	}
	publisher := &fakePublisher{}
	svc := newTestService(provider, publisher, memory.NewSessionRepository(), 5)

	session := store.NewSession("s1")
	ctx := context.Background()

	initResult, err := svc.HandleInit(ctx, session, dto.InitPayload{Name: "Ada"})
	assert.NoError(t, err)

	questions := []string{initResult.Question}
	var final TurnResult
	for i := 0; i < 5; i++ {
		result, err := svc.HandleAnswer(ctx, session, fmt.Sprintf("answer %d", i+1))
		assert.NoError(t, err)
		if result.Concluded {
			final = result
			break
		}
		questions = append(questions, result.Question)
	}

	// Exactly 5 questions were asked, then the session concluded.
	assert.Len(t, questions, 5)
	assert.True(t, final.Concluded)
	assert.True(t, session.Terminated())
	assert.Equal(t, 5, session.TurnIndex)

	// Scores 80/90/70 each turn -> means 80/90/70 -> final 80 -> HIRE.
	assert.Equal(t, dto.VerdictHire, final.Decision.Verdict)
	assert.Equal(t, 80.0, final.Decision.FinalScore)
	assert.Contains(t, final.Report, "Ada")
	assert.Contains(t, final.Report, dto.VerdictHire)

	// Exactly one completion event was published.
	assert.Len(t, publisher.events, 1)
	assert.Equal(t, events.TypeInterviewCompleted, publisher.events[0].EventType())
}

func TestRejectVerdictForLowScores(t *testing.T) {
	provider := &fakeLLM{
		turnJSON:  `{"question": "Q", "ideal_answer": "A"}`,
		scoreJSON: `{"technical_score": 60, "communication_score": 65, "confidence_score": 55}`,
	}
	svc := newTestService(provider, &fakePublisher{}, memory.NewSessionRepository(), 1)

	session := store.NewSession("s1")
	ctx := context.Background()

	_, err := svc.HandleInit(ctx, session, dto.InitPayload{Name: "Bob"})
	assert.NoError(t, err)

	result, err := svc.HandleAnswer(ctx, session, "my answer")
	assert.NoError(t, err)
	assert.True(t, result.Concluded)
	assert.Equal(t, dto.VerdictReject, result.Decision.Verdict)
	assert.Equal(t, 60.0, result.Decision.FinalScore)
}

func TestOutOfStateMessagesAreIgnored(t *testing.T) {
	provider := &fakeLLM{
		turnJSON:  `{"question": "Q", "ideal_answer": "A"}`,
		scoreJSON: `{"technical_score": 80, "communication_score": 80, "confidence_score": 80}`,
	}
	svc := newTestService(provider, &fakePublisher{}, memory.NewSessionRepository(), 1)
	ctx := context.Background()

	// Answer before init.
	session := store.NewSession("s1")
	result, err := svc.HandleAnswer(ctx, session, "too early")
	assert.NoError(t, err)
	assert.True(t, result.Ignored)
	assert.Equal(t, store.StateAwaitingInit, session.State)

	// Duplicate init.
	_, err = svc.HandleInit(ctx, session, dto.InitPayload{Name: "Ada"})
	assert.NoError(t, err)
	result, err = svc.HandleInit(ctx, session, dto.InitPayload{Name: "Eve"})
	assert.NoError(t, err)
	assert.True(t, result.Ignored)
	assert.Equal(t, "Ada", session.Candidate.Name)

	// Anything after termination.
	_, err = svc.HandleAnswer(ctx, session, "final answer")
	assert.NoError(t, err)
	assert.True(t, session.Terminated())
	result, err = svc.HandleAnswer(ctx, session, "late answer")
	assert.NoError(t, err)
	assert.True(t, result.Ignored)
}

func TestGeneratorFailureDegradesToFallbacks(t *testing.T) {
	provider := &fakeLLM{err: fmt.Errorf("upstream timeout")}
	svc := newTestService(provider, &fakePublisher{}, memory.NewSessionRepository(), 1)

	session := store.NewSession("s1")
	ctx := context.Background()

	initResult, err := svc.HandleInit(ctx, session, dto.InitPayload{Name: "Ada"})
	assert.NoError(t, err)
	assert.Equal(t, extract.FallbackQuestion, initResult.Question)

	result, err := svc.HandleAnswer(ctx, session, "some answer")
	assert.NoError(t, err)
	assert.True(t, result.Concluded)

	// Neutral triple from the extractor fallback: final 50 -> REJECT.
	assert.Equal(t, 50.0, result.Decision.FinalScore)
	assert.Equal(t, dto.VerdictReject, result.Decision.Verdict)
}

func TestInitResolvesResumeToken(t *testing.T) {
	provider := &fakeLLM{
		turnJSON:  `{"question": "Q", "ideal_answer": "A"}`,
		scoreJSON: `{"technical_score": 80, "communication_score": 80, "confidence_score": 80}`,
	}
	repo := memory.NewSessionRepository()
	repo.SaveResume("tok-123", "Ten years of distributed systems.")
	svc := newTestService(provider, &fakePublisher{}, repo, 5)

	session := store.NewSession("s1")
	_, err := svc.HandleInit(context.Background(), session, dto.InitPayload{Name: "Ada", ResumeToken: "tok-123"})
	assert.NoError(t, err)
	assert.Equal(t, "Ten years of distributed systems.", session.Candidate.Resume)
}

type oneFaceDetector struct{}

func (oneFaceDetector) Detect(img image.Image) ([]fraud.Region, error) {
	return []fraud.Region{{X: 1, Y: 1, Size: 4}}, nil
}

func TestFrameAnalysisDoesNotDisturbTurnSequence(t *testing.T) {
	provider := &fakeLLM{
		turnJSON:  `{"question": "Q", "ideal_answer": "A"}`,
		scoreJSON: `{"technical_score": 80, "communication_score": 80, "confidence_score": 80}`,
	}
	svc := newTestService(provider, &fakePublisher{}, memory.NewSessionRepository(), 5)
	monitor := fraud.NewMonitor(oneFaceDetector{}, nopLogger{})

	session := store.NewSession("s1")
	ctx := context.Background()
	_, err := svc.HandleInit(ctx, session, dto.InitPayload{Name: "Ada"})
	assert.NoError(t, err)

	// Frame telemetry runs fully concurrent with the answer turn.
	frame := image.NewRGBA(image.Rect(0, 0, 16, 16))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			signal, err := monitor.Analyze(frame)
			assert.NoError(t, err)
			assert.False(t, signal.IsSuspicious)
		}()
	}

	result, err := svc.HandleAnswer(ctx, session, "answer one")
	wg.Wait()

	assert.NoError(t, err)
	assert.False(t, result.Concluded)
	// The turn counter advanced exactly once for the answer.
	assert.Equal(t, 2, session.TurnIndex)
	assert.Equal(t, store.StateAwaitingAnswer, session.State)
}
