package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"

	"sseojum/internal/ai/generation"
	"sseojum/internal/ai/prompt"
	"sseojum/internal/domain/question"
	"sseojum/internal/domain/session"
	"sseojum/internal/fileextract"
	"sseojum/internal/repository"
)

var ErrTooManyQuestions = errors.New("too many questions for one session")

// AnswerGenerator is satisfied by *generation.Engine.
type AnswerGenerator interface {
	Generate(ctx context.Context, in generation.GenerateInput) (generation.GenerateOutput, error)
	Revise(ctx context.Context, in generation.ReviseInput) (string, error)
}

type ResumeExtractor interface {
	Extract(filename string, data []byte) (string, error)
}

type CreateSessionInput struct {
	UserID *uuid.UUID

	ResumeFilename string
	ResumeData     []byte

	CompanyName             string
	JobTitle                string
	MainResponsibilities    string
	Requirements            string
	PreferredQualifications string
	CompanyInfo             string
	JDText                  string

	// JobInfoURL points at a posting already staged via the job-info
	// endpoint; its crawled text fills JDText when JDText is empty.
	JobInfoURL string

	Questions []string
}

type SessionUsecase interface {
	CreateSession(ctx context.Context, in CreateSessionInput) (session.Session, error)
	GetSession(ctx context.Context, id uuid.UUID) (session.Session, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
}

type Session struct {
	sessions  repository.SessionRepository
	questions repository.QuestionRepository
	extractor ResumeExtractor
	generator AnswerGenerator
	jobInfo   JobInfoUsecase

	maxQuestions int
	logger       *log.Logger
}

func NewSessionUsecase(
	sessions repository.SessionRepository,
	questions repository.QuestionRepository,
	extractor ResumeExtractor,
	generator AnswerGenerator,
	jobInfo JobInfoUsecase,
	maxQuestions int,
	logger *log.Logger,
) *Session {
	if maxQuestions <= 0 {
		maxQuestions = 3
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Session{
		sessions:     sessions,
		questions:    questions,
		extractor:    extractor,
		generator:    generator,
		jobInfo:      jobInfo,
		maxQuestions: maxQuestions,
		logger:       logger,
	}
}

// CreateSession extracts the resume, generates an initial answer for each
// question, and persists the session. A failed generation skips that one
// question; the upload as a whole still succeeds.
func (u *Session) CreateSession(ctx context.Context, in CreateSessionInput) (session.Session, error) {
	questions := trimNonEmpty(in.Questions)
	if len(questions) == 0 {
		return session.Session{}, ErrInvalidInput
	}
	if len(questions) > u.maxQuestions {
		return session.Session{}, ErrTooManyQuestions
	}

	resumeText, err := u.extractor.Extract(in.ResumeFilename, in.ResumeData)
	if err != nil {
		return session.Session{}, err
	}

	s := session.Session{
		ID:                      uuid.New(),
		UserID:                  in.UserID,
		CompanyName:             strings.TrimSpace(in.CompanyName),
		JobTitle:                strings.TrimSpace(in.JobTitle),
		MainResponsibilities:    strings.TrimSpace(in.MainResponsibilities),
		Requirements:            strings.TrimSpace(in.Requirements),
		PreferredQualifications: strings.TrimSpace(in.PreferredQualifications),
		CompanyInfo:             strings.TrimSpace(in.CompanyInfo),
		JDText:                  strings.TrimSpace(in.JDText),
		ResumeText:              resumeText,
	}

	if s.JDText == "" && strings.TrimSpace(in.JobInfoURL) != "" && u.jobInfo != nil {
		if staged, ok := u.jobInfo.Staged(ctx, in.JobInfoURL); ok {
			s.JDText = staged.JobDescription
		}
	}

	job := jobFields(s)
	for i, text := range questions {
		out, err := u.generator.Generate(ctx, generation.GenerateInput{
			Question:    text,
			ResumeText:  s.ResumeText,
			Job:         job,
			CompanyInfo: s.CompanyInfo,
		})
		if err != nil {
			u.logger.Printf("session: initial answer for question %d failed, skipping: %v", i+1, err)
			continue
		}
		if s.CompanyInfo == "" {
			s.CompanyInfo = out.CompanyInfo
		}
		s.Questions = append(s.Questions, question.Question{
			SessionID:      s.ID,
			QuestionNumber: len(s.Questions) + 1,
			Question:       text,
			History:        question.NewHistory(out.Answer),
		})
	}

	if err := u.sessions.Create(ctx, s); err != nil {
		return session.Session{}, ErrInternal
	}
	for i := range s.Questions {
		id, err := u.questions.Create(ctx, s.Questions[i])
		if err != nil {
			return session.Session{}, ErrInternal
		}
		s.Questions[i].ID = id
	}

	return s, nil
}

func (u *Session) GetSession(ctx context.Context, id uuid.UUID) (session.Session, error) {
	s, err := u.sessions.GetByID(ctx, id)
	if err != nil {
		return session.Session{}, err
	}
	qs, err := u.questions.ListBySession(ctx, id)
	if err != nil {
		return session.Session{}, ErrInternal
	}
	s.Questions = qs
	return s, nil
}

func (u *Session) DeleteSession(ctx context.Context, id uuid.UUID) error {
	return u.sessions.Delete(ctx, id)
}

func jobFields(s session.Session) prompt.JobFields {
	return prompt.JobFields{
		CompanyName:             s.CompanyName,
		JobTitle:                s.JobTitle,
		MainResponsibilities:    s.MainResponsibilities,
		Requirements:            s.Requirements,
		PreferredQualifications: s.PreferredQualifications,
		JDText:                  s.JDText,
	}
}

func trimNonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

var _ ResumeExtractor = (*fileextract.Extractor)(nil)
