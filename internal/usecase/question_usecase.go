package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"sseojum/internal/ai/generation"
	"sseojum/internal/domain/question"
	"sseojum/internal/repository"
)

var (
	ErrQuestionLimitReached = errors.New("question limit reached for session")
	ErrInvalidAction        = errors.New("invalid revision action")
	ErrEmptyRevisionRequest = errors.New("empty revision request")
)

type ReviseAction string

const (
	ActionUndo   ReviseAction = "undo"
	ActionRedo   ReviseAction = "redo"
	ActionRevise ReviseAction = "revise"
)

func ParseReviseAction(s string) (ReviseAction, error) {
	switch ReviseAction(strings.ToLower(strings.TrimSpace(s))) {
	case ActionUndo:
		return ActionUndo, nil
	case ActionRedo:
		return ActionRedo, nil
	case ActionRevise:
		return ActionRevise, nil
	default:
		return "", ErrInvalidAction
	}
}

type ReviseResult struct {
	Answer       string
	VersionIndex int
	HasUndo      bool
	HasRedo      bool
}

type QuestionUsecase interface {
	AddQuestion(ctx context.Context, sessionID uuid.UUID, text string) (question.Question, error)
	Revise(ctx context.Context, sessionID uuid.UUID, questionNumber int, action ReviseAction, revisionRequest string) (ReviseResult, error)
}

// Question serializes undo/redo/revise per question with a keyed mutex, so
// concurrent calls against the same question cannot interleave a
// read-modify-write of its history. Different questions stay independent.
type Question struct {
	sessions  repository.SessionRepository
	questions repository.QuestionRepository
	generator AnswerGenerator

	maxQuestions int
	logger       *log.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewQuestionUsecase(
	sessions repository.SessionRepository,
	questions repository.QuestionRepository,
	generator AnswerGenerator,
	maxQuestions int,
	logger *log.Logger,
) *Question {
	if maxQuestions <= 0 {
		maxQuestions = 3
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Question{
		sessions:     sessions,
		questions:    questions,
		generator:    generator,
		maxQuestions: maxQuestions,
		logger:       logger,
		locks:        map[string]*sync.Mutex{},
	}
}

func (u *Question) lockFor(sessionID uuid.UUID, number int) *sync.Mutex {
	key := fmt.Sprintf("%s:%d", sessionID, number)
	u.mu.Lock()
	defer u.mu.Unlock()
	if m, ok := u.locks[key]; ok {
		return m
	}
	m := &sync.Mutex{}
	u.locks[key] = m
	return m
}

// AddQuestion appends one question to an existing session and generates its
// initial answer. Unlike upload, a failed generation fails the call: the
// user asked for exactly this question.
func (u *Question) AddQuestion(ctx context.Context, sessionID uuid.UUID, text string) (question.Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return question.Question{}, ErrInvalidInput
	}

	s, err := u.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return question.Question{}, err
	}

	count, err := u.questions.CountBySession(ctx, sessionID)
	if err != nil {
		return question.Question{}, ErrInternal
	}
	if count >= u.maxQuestions {
		return question.Question{}, ErrQuestionLimitReached
	}

	out, err := u.generator.Generate(ctx, generation.GenerateInput{
		Question:    text,
		ResumeText:  s.ResumeText,
		Job:         jobFields(s),
		CompanyInfo: s.CompanyInfo,
	})
	if err != nil {
		return question.Question{}, err
	}

	q := question.Question{
		SessionID:      sessionID,
		QuestionNumber: count + 1,
		Question:       text,
		History:        question.NewHistory(out.Answer),
	}
	id, err := u.questions.Create(ctx, q)
	if err != nil {
		return question.Question{}, ErrInternal
	}
	q.ID = id
	return q, nil
}

func (u *Question) Revise(ctx context.Context, sessionID uuid.UUID, questionNumber int, action ReviseAction, revisionRequest string) (ReviseResult, error) {
	lock := u.lockFor(sessionID, questionNumber)
	lock.Lock()
	defer lock.Unlock()

	q, err := u.questions.GetBySessionAndNumber(ctx, sessionID, questionNumber)
	if err != nil {
		return ReviseResult{}, err
	}

	switch action {
	case ActionUndo:
		h, err := q.History.Undo()
		if err != nil {
			return ReviseResult{}, err
		}
		return u.persist(ctx, q, h, q.Revisions)

	case ActionRedo:
		h, err := q.History.Redo()
		if err != nil {
			return ReviseResult{}, err
		}
		return u.persist(ctx, q, h, q.Revisions)

	case ActionRevise:
		return u.revise(ctx, q, revisionRequest)

	default:
		return ReviseResult{}, ErrInvalidAction
	}
}

// revise calls the model first and touches the stored history only after a
// fully successful generation. A failed or cancelled call leaves the
// question exactly as it was.
func (u *Question) revise(ctx context.Context, q question.Question, revisionRequest string) (ReviseResult, error) {
	revisionRequest = strings.TrimSpace(revisionRequest)
	if revisionRequest == "" {
		return ReviseResult{}, ErrEmptyRevisionRequest
	}
	if err := q.History.Validate(); err != nil {
		return ReviseResult{}, err
	}

	s, err := u.sessions.GetByID(ctx, q.SessionID)
	if err != nil {
		return ReviseResult{}, err
	}

	newAnswer, err := u.generator.Revise(ctx, generation.ReviseInput{
		Question:        q.Question,
		ResumeText:      s.ResumeText,
		Job:             jobFields(s),
		CompanyInfo:     s.CompanyInfo,
		OriginalAnswer:  q.CurrentAnswer(),
		EditInstruction: revisionRequest,
		AnswerHistory:   q.History.Answers[:q.History.Current+1],
	})
	if err != nil {
		return ReviseResult{}, err
	}

	h, err := q.History.AfterRevision(newAnswer)
	if err != nil {
		return ReviseResult{}, err
	}
	revisions := append(q.Revisions, question.RevisionPrompt{
		Prompt:       revisionRequest,
		Timestamp:    time.Now().UTC(),
		VersionIndex: h.Current,
	})
	return u.persist(ctx, q, h, revisions)
}

func (u *Question) persist(ctx context.Context, q question.Question, h question.History, revisions []question.RevisionPrompt) (ReviseResult, error) {
	if err := u.questions.UpdateHistory(ctx, q.ID, h, revisions); err != nil {
		return ReviseResult{}, ErrInternal
	}
	return ReviseResult{
		Answer:       h.Answers[h.Current],
		VersionIndex: h.Current,
		HasUndo:      h.CanUndo(),
		HasRedo:      h.CanRedo(),
	}, nil
}
