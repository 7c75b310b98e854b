package handler

import (
	"errors"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"sseojum/internal/ai/generation"
	"sseojum/internal/delivery/http/dto"
	"sseojum/internal/delivery/http/middleware"
	"sseojum/internal/fileextract"
	"sseojum/internal/pkg/response"
	"sseojum/internal/usecase"
)

// UploadHandler accepts the multipart upload that starts a session: the
// resume file, the job-description fields, and up to three questions.
type UploadHandler struct {
	uc usecase.SessionUsecase
}

func NewUploadHandler(uc usecase.SessionUsecase) *UploadHandler {
	return &UploadHandler{uc: uc}
}

func (h *UploadHandler) Upload(c fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Expected multipart form data", nil, err)
	}

	files := form.File["resume"]
	if len(files) == 0 {
		return middleware.NewAppError(fiber.StatusBadRequest, "Missing resume file", nil, nil)
	}
	resumeData, err := readFormFile(files[0])
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Could not read resume file", nil, err)
	}

	in := usecase.CreateSessionInput{
		UserID:                  userIDFromLocals(c),
		ResumeFilename:          files[0].Filename,
		ResumeData:              resumeData,
		CompanyName:             formValue(form, "company_name"),
		JobTitle:                formValue(form, "job_title"),
		MainResponsibilities:    formValue(form, "main_responsibilities"),
		Requirements:            formValue(form, "requirements"),
		PreferredQualifications: formValue(form, "preferred_qualifications"),
		CompanyInfo:             formValue(form, "company_info"),
		JDText:                  formValue(form, "jd_text"),
		JobInfoURL:              formValue(form, "job_info_url"),
		Questions:               form.Value["questions"],
	}

	s, err := h.uc.CreateSession(c.Context(), in)
	if err != nil {
		return mapUploadError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, dto.NewSessionResponse(s))
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func formValue(form *multipart.Form, key string) string {
	vs := form.Value[key]
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

// userIDFromLocals reads the authenticated user when the optional auth
// middleware ran; anonymous uploads are allowed.
func userIDFromLocals(c fiber.Ctx) *uuid.UUID {
	v := c.Locals(middleware.CtxUserIDKey)
	if v == nil {
		return nil
	}
	id, ok := v.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return nil
	}
	return &id
}

func mapUploadError(err error) error {
	var genErr *generation.GenerationError
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "At least one question is required", nil, err)
	case errors.Is(err, usecase.ErrTooManyQuestions):
		return middleware.NewAppError(fiber.StatusBadRequest, "Too many questions", nil, err)
	case errors.Is(err, fileextract.ErrUnsupportedType):
		return middleware.NewAppError(fiber.StatusBadRequest, "Unsupported resume file type", nil, err)
	case errors.Is(err, fileextract.ErrFileTooLarge):
		return middleware.NewAppError(fiber.StatusRequestEntityTooLarge, "Resume file is too large", nil, err)
	case errors.Is(err, fileextract.ErrEmptyDocument):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "No text could be extracted from the resume", nil, err)
	case errors.As(err, &genErr):
		return middleware.NewAppError(fiber.StatusBadGateway, "Answer generation failed", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
