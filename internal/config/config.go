package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	SMTP      SMTPConfig
	Ai        AIConfig
	Interview InterviewConfig
	Fraud     FraudConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	SessionLogFilePath string
	CorsAllowedOrigins string
	JwtSecret          string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type AIConfig struct {
	LLMProvider    string // "groq" or "ollama"
	LLMModel       string // e.g. "llama-3.3-70b-versatile", "llama3"
	GroqAPIKey     string
	GroqBaseURL    string
	OllamaBaseURL  string
	TimeoutSeconds int
}

type InterviewConfig struct {
	QuestionBudget  int     // questions asked per session
	HireThreshold   float64 // mean-of-means strictly above this => HIRE
	ReportRecipient string  // hiring manager inbox for final reports
}

type FraudConfig struct {
	CascadePath string // pigo facefinder cascade binary
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			SessionLogFilePath: getEnv("SESSION_LOG_FILE_PATH", "logs/interview.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			JwtSecret:          getEnv("JWT_SECRET", "dev-secret"),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "AI Interviewer"),
		},
		Ai: AIConfig{
			LLMProvider:    getEnv("LLM_PROVIDER", "groq"),
			LLMModel:       getEnv("LLM_MODEL", "llama-3.3-70b-versatile"),
			GroqAPIKey:     getEnv("GROQ_API_KEY", ""),
			GroqBaseURL:    getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
			OllamaBaseURL:  getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			TimeoutSeconds: getEnvAsInt("LLM_TIMEOUT_SECONDS", 60),
		},
		Interview: InterviewConfig{
			QuestionBudget:  getEnvAsInt("INTERVIEW_QUESTION_BUDGET", 5),
			HireThreshold:   getEnvAsFloat("INTERVIEW_HIRE_THRESHOLD", 70),
			ReportRecipient: getEnv("INTERVIEW_REPORT_RECIPIENT", ""),
		},
		Fraud: FraudConfig{
			CascadePath: getEnv("FACE_CASCADE_PATH", "assets/facefinder"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
