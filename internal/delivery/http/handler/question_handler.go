package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"sseojum/internal/ai/generation"
	"sseojum/internal/delivery/http/dto"
	"sseojum/internal/delivery/http/middleware"
	"sseojum/internal/domain/question"
	"sseojum/internal/domain/session"
	"sseojum/internal/pkg/response"
	"sseojum/internal/usecase"
)

type QuestionHandler struct {
	uc usecase.QuestionUsecase
}

type reviseRequest struct {
	SessionID       string `json:"session_id"`
	QuestionNumber  int    `json:"question_number"`
	Action          string `json:"action"`
	RevisionRequest string `json:"revision_request"`
}

type addQuestionRequest struct {
	Question string `json:"question"`
}

func NewQuestionHandler(uc usecase.QuestionUsecase) *QuestionHandler {
	return &QuestionHandler{uc: uc}
}

func (h *QuestionHandler) Revise(c fiber.Ctx) error {
	var req reviseRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid session id", nil, err)
	}
	action, err := usecase.ParseReviseAction(req.Action)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Action must be undo, redo or revise", nil, err)
	}

	res, err := h.uc.Revise(c.Context(), sessionID, req.QuestionNumber, action, req.RevisionRequest)
	if err != nil {
		return mapQuestionError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewReviseResponse(res))
}

func (h *QuestionHandler) Add(c fiber.Ctx) error {
	sessionID, err := sessionIDFromParams(c)
	if err != nil {
		return err
	}

	var req addQuestionRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	q, err := h.uc.AddQuestion(c.Context(), sessionID, req.Question)
	if err != nil {
		return mapQuestionError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, dto.NewQuestionResponse(q))
}

func mapQuestionError(err error) error {
	var genErr *generation.GenerationError
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Question text is required", nil, err)
	case errors.Is(err, usecase.ErrEmptyRevisionRequest):
		return middleware.NewAppError(fiber.StatusBadRequest, "Revision request is required", nil, err)
	case errors.Is(err, usecase.ErrQuestionLimitReached):
		return middleware.NewAppError(fiber.StatusConflict, "Question limit reached for this session", nil, err)
	case errors.Is(err, session.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Session not found", nil, err)
	case errors.Is(err, question.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Question not found", nil, err)
	case errors.As(err, &genErr):
		return middleware.NewAppError(fiber.StatusBadGateway, "Answer generation failed", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
