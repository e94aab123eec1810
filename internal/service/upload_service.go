package service

import (
	"fmt"

	"github.com/google/uuid"

	"ai-interviewer-be/internal/pkg/logger"
	"ai-interviewer-be/internal/repository/memory"
	"ai-interviewer-be/pkg/document"
)

type IUploadService interface {
	// StoreResume extracts text from an uploaded PDF and parks it under a
	// token the init message can reference.
	StoreResume(data []byte) (token string, characters int, err error)
}

type uploadService struct {
	extractor   document.Extractor
	sessionRepo *memory.SessionRepository
	logger      logger.ILogger
}

func NewUploadService(extractor document.Extractor, sessionRepo *memory.SessionRepository, log logger.ILogger) IUploadService {
	return &uploadService{
		extractor:   extractor,
		sessionRepo: sessionRepo,
		logger:      log,
	}
}

func (s *uploadService) StoreResume(data []byte) (string, int, error) {
	text, err := s.extractor.ExtractText(data)
	if err != nil {
		return "", 0, fmt.Errorf("extract resume text: %w", err)
	}

	token := uuid.NewString()
	s.sessionRepo.SaveResume(token, text)

	s.logger.Info("Upload", "resume stored", map[string]interface{}{
		"token":      token,
		"characters": len(text),
	})
	return token, len(text), nil
}
