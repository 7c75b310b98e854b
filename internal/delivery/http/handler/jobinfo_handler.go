package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"sseojum/internal/crawler"
	"sseojum/internal/delivery/http/dto"
	"sseojum/internal/delivery/http/middleware"
	"sseojum/internal/pkg/response"
	"sseojum/internal/usecase"
)

type JobInfoHandler struct {
	uc usecase.JobInfoUsecase
}

type jobInfoRequest struct {
	URL string `json:"url"`
}

func NewJobInfoHandler(uc usecase.JobInfoUsecase) *JobInfoHandler {
	return &JobInfoHandler{uc: uc}
}

func (h *JobInfoHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/job-info", h.Preload)
}

func (h *JobInfoHandler) Preload(c fiber.Ctx) error {
	var req jobInfoRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	info, err := h.uc.Preload(c.Context(), req.URL)
	if err != nil {
		return mapJobInfoError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobInfoResponse(info))
}

func mapJobInfoError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput), errors.Is(err, crawler.ErrInvalidURL):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid job posting url", nil, err)
	case errors.Is(err, crawler.ErrDisallowedByRobots):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Posting disallows crawling", nil, err)
	case errors.Is(err, crawler.ErrInsufficientContent):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Could not extract a job description from the page", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusBadGateway, "Failed to fetch the job posting", nil, err)
	}
}
