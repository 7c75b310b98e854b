package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"sseojum/internal/delivery/http/dto"
	"sseojum/internal/delivery/http/middleware"
	"sseojum/internal/domain/session"
	"sseojum/internal/pkg/response"
	"sseojum/internal/usecase"
)

type SessionHandler struct {
	uc usecase.SessionUsecase
}

func NewSessionHandler(uc usecase.SessionUsecase) *SessionHandler {
	return &SessionHandler{uc: uc}
}

func (h *SessionHandler) Get(c fiber.Ctx) error {
	id, err := sessionIDFromParams(c)
	if err != nil {
		return err
	}

	s, err := h.uc.GetSession(c.Context(), id)
	if err != nil {
		return mapSessionError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSessionResponse(s))
}

func (h *SessionHandler) Delete(c fiber.Ctx) error {
	id, err := sessionIDFromParams(c)
	if err != nil {
		return err
	}

	if err := h.uc.DeleteSession(c.Context(), id); err != nil {
		return mapSessionError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func sessionIDFromParams(c fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid session id", nil, err)
	}
	return id, nil
}

func mapSessionError(err error) error {
	if errors.Is(err, session.ErrNotFound) {
		return middleware.NewAppError(fiber.StatusNotFound, "Session not found", nil, err)
	}
	return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
}
