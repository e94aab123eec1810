package bootstrap

import (
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"ai-interviewer-be/internal/config"
	"ai-interviewer-be/internal/controller"
	"ai-interviewer-be/internal/pkg/logger"
	"ai-interviewer-be/internal/pkg/mailer"
	"ai-interviewer-be/internal/repository/memory"
	"ai-interviewer-be/internal/service"
	"ai-interviewer-be/internal/websocket"
	"ai-interviewer-be/pkg/document"
	"ai-interviewer-be/pkg/extract"
	"ai-interviewer-be/pkg/fraud"
	"ai-interviewer-be/pkg/llm/factory"
	"ai-interviewer-be/pkg/report"
)

const interviewCompletedTopic = "INTERVIEW_COMPLETED"

type Container struct {
	// Controllers
	InterviewController controller.IInterviewController

	// WebSocket dispatcher (route registered by the server)
	Dispatcher *websocket.Dispatcher

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Core Facades
	Logger logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	sessionLogger := logger.NewIsolatedLogger(cfg.App.SessionLogFilePath)

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Collaborators
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		providerBaseURL(cfg),
		cfg.Ai.GroqAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	faceDetector, err := fraud.NewPigoDetector(cfg.Fraud.CascadePath)
	if err != nil {
		log.Fatalf("[FATAL] Failed to load face cascade: %v", err)
	}
	fraudMonitor := fraud.NewMonitor(faceDetector, sessionLogger)

	pdfExtractor := document.NewPDFExtractor()
	responseExtractor := extract.New(sysLogger)
	reportGenerator := report.NewGenerator()

	// In-memory session storage
	sessionRepo := memory.NewSessionRepository()

	// 4. Services
	publisherService := service.NewPublisherService(interviewCompletedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		interviewCompletedTopic,
		emailService,
		cfg.Interview.ReportRecipient,
		sysLogger,
	)

	decisionService := service.NewDecisionService(cfg.Interview.HireThreshold)
	interviewService := service.NewInterviewService(
		llmProvider,
		responseExtractor,
		decisionService,
		reportGenerator,
		publisherService,
		sessionRepo,
		sessionLogger,
		cfg.Interview.QuestionBudget,
		time.Duration(cfg.Ai.TimeoutSeconds)*time.Second,
	)
	uploadService := service.NewUploadService(pdfExtractor, sessionRepo, sysLogger)

	// 5. Protocol Dispatcher
	dispatcher := websocket.NewDispatcher(interviewService, fraudMonitor, sessionRepo, sessionLogger)

	// 6. Controllers
	interviewController := controller.NewInterviewController(uploadService, cfg.App.JwtSecret)

	return &Container{
		InterviewController: interviewController,
		Dispatcher:          dispatcher,
		ConsumerService:     consumerService,
		Logger:              sysLogger,
	}
}

func providerBaseURL(cfg *config.Config) string {
	if cfg.Ai.LLMProvider == "ollama" {
		return cfg.Ai.OllamaBaseURL
	}
	return cfg.Ai.GroqBaseURL
}
