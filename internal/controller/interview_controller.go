package controller

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ai-interviewer-be/internal/dto"
	"ai-interviewer-be/internal/pkg/serverutils"
	"ai-interviewer-be/internal/service"
)

type IInterviewController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	UploadResume(ctx *fiber.Ctx) error
}

type interviewController struct {
	uploadService service.IUploadService
	jwtSecret     string
}

func NewInterviewController(uploadService service.IUploadService, jwtSecret string) IInterviewController {
	return &interviewController{
		uploadService: uploadService,
		jwtSecret:     jwtSecret,
	}
}

func (c *interviewController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/interview/v1")
	h.Post("session", c.CreateSession)
	h.Post("resume", c.UploadResume)
}

func (c *interviewController) CreateSession(ctx *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.CandidateName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "candidate_name is required")
	}

	sessionID := uuid.NewString()
	roomToken, err := serverutils.SignRoomToken(c.jwtSecret, sessionID, req.CandidateName)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create interview session", dto.CreateSessionResponse{
		SessionId: sessionID,
		RoomToken: roomToken,
	}))
}

func (c *interviewController) UploadResume(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("resume")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "resume file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cannot open uploaded file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cannot read uploaded file")
	}

	token, characters, err := c.uploadService.StoreResume(data)
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	return ctx.JSON(serverutils.SuccessResponse("Success upload resume", dto.UploadResumeResponse{
		ResumeToken: token,
		Characters:  characters,
	}))
}
