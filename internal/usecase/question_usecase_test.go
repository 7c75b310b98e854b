package usecase

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/google/uuid"

	"sseojum/internal/ai/generation"
	"sseojum/internal/domain/question"
	"sseojum/internal/domain/session"
)

type fakeSessionRepo struct {
	sessions map[uuid.UUID]session.Session
}

func newFakeSessionRepo(sessions ...session.Session) *fakeSessionRepo {
	r := &fakeSessionRepo{sessions: map[uuid.UUID]session.Session{}}
	for _, s := range sessions {
		r.sessions[s.ID] = s
	}
	return r
}

func (r *fakeSessionRepo) Create(_ context.Context, s session.Session) error {
	r.sessions[s.ID] = s
	return nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id uuid.UUID) (session.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return session.Session{}, session.ErrNotFound
	}
	return s, nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.sessions[id]; !ok {
		return session.ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

type fakeQuestionRepo struct {
	byID    map[int64]question.Question
	nextID  int64
	updates int
}

func newFakeQuestionRepo(questions ...question.Question) *fakeQuestionRepo {
	r := &fakeQuestionRepo{byID: map[int64]question.Question{}, nextID: 1}
	for _, q := range questions {
		if q.ID == 0 {
			q.ID = r.nextID
		}
		if q.ID >= r.nextID {
			r.nextID = q.ID + 1
		}
		r.byID[q.ID] = q
	}
	return r
}

func (r *fakeQuestionRepo) Create(_ context.Context, q question.Question) (int64, error) {
	q.ID = r.nextID
	r.nextID++
	r.byID[q.ID] = q
	return q.ID, nil
}

func (r *fakeQuestionRepo) GetBySessionAndNumber(_ context.Context, sessionID uuid.UUID, number int) (question.Question, error) {
	for _, q := range r.byID {
		if q.SessionID == sessionID && q.QuestionNumber == number {
			return q, nil
		}
	}
	return question.Question{}, question.ErrNotFound
}

func (r *fakeQuestionRepo) ListBySession(_ context.Context, sessionID uuid.UUID) ([]question.Question, error) {
	var out []question.Question
	for _, q := range r.byID {
		if q.SessionID == sessionID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *fakeQuestionRepo) CountBySession(_ context.Context, sessionID uuid.UUID) (int, error) {
	n := 0
	for _, q := range r.byID {
		if q.SessionID == sessionID {
			n++
		}
	}
	return n, nil
}

func (r *fakeQuestionRepo) UpdateHistory(_ context.Context, id int64, h question.History, revisions []question.RevisionPrompt) error {
	q, ok := r.byID[id]
	if !ok {
		return question.ErrNotFound
	}
	q.History = h
	q.Revisions = revisions
	r.byID[id] = q
	r.updates++
	return nil
}

type fakeGenerator struct {
	answer        string
	err           error
	generateCalls int
	reviseCalls   int
}

func (g *fakeGenerator) Generate(context.Context, generation.GenerateInput) (generation.GenerateOutput, error) {
	g.generateCalls++
	if g.err != nil {
		return generation.GenerateOutput{}, g.err
	}
	return generation.GenerateOutput{Answer: g.answer}, nil
}

func (g *fakeGenerator) Revise(context.Context, generation.ReviseInput) (string, error) {
	g.reviseCalls++
	if g.err != nil {
		return "", g.err
	}
	return g.answer, nil
}

func testQuestionUsecase(sessions *fakeSessionRepo, questions *fakeQuestionRepo, gen *fakeGenerator) *Question {
	return NewQuestionUsecase(sessions, questions, gen, 3, log.New(io.Discard, "", 0))
}

func seedSessionAndQuestion(history question.History) (uuid.UUID, *fakeSessionRepo, *fakeQuestionRepo) {
	sessionID := uuid.New()
	sessions := newFakeSessionRepo(session.Session{ID: sessionID, CompanyName: "네이버", ResumeText: "경력 요약"})
	questions := newFakeQuestionRepo(question.Question{
		ID:             1,
		SessionID:      sessionID,
		QuestionNumber: 1,
		Question:       "지원 동기는 무엇인가요",
		History:        history,
	})
	return sessionID, sessions, questions
}

func TestReviseCreatesNewVersion(t *testing.T) {
	sessionID, sessions, questions := seedSessionAndQuestion(question.NewHistory("v0"))
	gen := &fakeGenerator{answer: "v1"}
	u := testQuestionUsecase(sessions, questions, gen)

	res, err := u.Revise(context.Background(), sessionID, 1, ActionRevise, "더 간결하게")
	if err != nil {
		t.Fatalf("Revise: %v", err)
	}
	if res.Answer != "v1" || res.VersionIndex != 1 {
		t.Errorf("result = %+v, want answer v1 at index 1", res)
	}
	if !res.HasUndo || res.HasRedo {
		t.Errorf("flags = undo:%v redo:%v, want undo:true redo:false", res.HasUndo, res.HasRedo)
	}

	stored := questions.byID[1]
	if len(stored.Revisions) != 1 || stored.Revisions[0].Prompt != "더 간결하게" || stored.Revisions[0].VersionIndex != 1 {
		t.Errorf("revision log = %+v", stored.Revisions)
	}
}

func TestUndoRedoBoundariesAreNoOps(t *testing.T) {
	sessionID, sessions, questions := seedSessionAndQuestion(question.History{Answers: []string{"v0", "v1"}, Current: 1})
	u := testQuestionUsecase(sessions, questions, &fakeGenerator{})

	ctx := context.Background()
	res, err := u.Revise(ctx, sessionID, 1, ActionUndo, "")
	if err != nil || res.Answer != "v0" {
		t.Fatalf("undo: res=%+v err=%v", res, err)
	}
	res, err = u.Revise(ctx, sessionID, 1, ActionUndo, "")
	if err != nil || res.Answer != "v0" {
		t.Fatalf("undo at lower bound: res=%+v err=%v", res, err)
	}
	if res.HasUndo {
		t.Error("at the oldest version HasUndo must be false")
	}
	res, err = u.Revise(ctx, sessionID, 1, ActionRedo, "")
	if err != nil || res.Answer != "v1" {
		t.Fatalf("redo: res=%+v err=%v", res, err)
	}
	res, err = u.Revise(ctx, sessionID, 1, ActionRedo, "")
	if err != nil || res.Answer != "v1" {
		t.Fatalf("redo at upper bound: res=%+v err=%v", res, err)
	}
	if res.HasRedo {
		t.Error("at the newest version HasRedo must be false")
	}
}

func TestReviseAfterUndoDiscardsNewerVersions(t *testing.T) {
	sessionID, sessions, questions := seedSessionAndQuestion(question.History{Answers: []string{"v0", "v1"}, Current: 1})
	gen := &fakeGenerator{answer: "v1b"}
	u := testQuestionUsecase(sessions, questions, gen)

	ctx := context.Background()
	if _, err := u.Revise(ctx, sessionID, 1, ActionUndo, ""); err != nil {
		t.Fatalf("undo: %v", err)
	}
	res, err := u.Revise(ctx, sessionID, 1, ActionRevise, "다른 방향으로")
	if err != nil {
		t.Fatalf("revise: %v", err)
	}
	if res.Answer != "v1b" || res.HasRedo {
		t.Errorf("res = %+v, want v1b with no redo branch", res)
	}

	stored := questions.byID[1]
	want := []string{"v0", "v1b"}
	if len(stored.History.Answers) != len(want) {
		t.Fatalf("stored history = %v, want %v", stored.History.Answers, want)
	}
	for i := range want {
		if stored.History.Answers[i] != want[i] {
			t.Errorf("stored history = %v, want %v", stored.History.Answers, want)
			break
		}
	}
}

func TestFailedReviseLeavesHistoryUntouched(t *testing.T) {
	sessionID, sessions, questions := seedSessionAndQuestion(question.NewHistory("v0"))
	genErr := &generation.GenerationError{Op: "revise", Err: errors.New("deadline exceeded")}
	u := testQuestionUsecase(sessions, questions, &fakeGenerator{err: genErr})

	_, err := u.Revise(context.Background(), sessionID, 1, ActionRevise, "더 길게")
	var ge *generation.GenerationError
	if !errors.As(err, &ge) {
		t.Fatalf("err = %v, want *GenerationError", err)
	}
	if questions.updates != 0 {
		t.Errorf("history writes = %d, want 0 after failed generation", questions.updates)
	}
	stored := questions.byID[1]
	if len(stored.History.Answers) != 1 || stored.History.Answers[0] != "v0" {
		t.Errorf("stored history mutated: %v", stored.History.Answers)
	}
}

func TestReviseRejectsEmptyRequest(t *testing.T) {
	sessionID, sessions, questions := seedSessionAndQuestion(question.NewHistory("v0"))
	u := testQuestionUsecase(sessions, questions, &fakeGenerator{answer: "v1"})

	if _, err := u.Revise(context.Background(), sessionID, 1, ActionRevise, "   "); !errors.Is(err, ErrEmptyRevisionRequest) {
		t.Errorf("err = %v, want ErrEmptyRevisionRequest", err)
	}
}

func TestCorruptHistorySurfacesInvalidState(t *testing.T) {
	sessionID, sessions, questions := seedSessionAndQuestion(question.History{Answers: []string{"v0"}, Current: 5})
	u := testQuestionUsecase(sessions, questions, &fakeGenerator{answer: "v1"})

	ctx := context.Background()
	for _, action := range []ReviseAction{ActionUndo, ActionRedo, ActionRevise} {
		if _, err := u.Revise(ctx, sessionID, 1, action, "수정"); !errors.Is(err, question.ErrInvalidState) {
			t.Errorf("action %s: err = %v, want ErrInvalidState", action, err)
		}
	}
	if questions.updates != 0 {
		t.Errorf("corrupt history must never be written back, got %d writes", questions.updates)
	}
}

func TestAddQuestionEnforcesLimit(t *testing.T) {
	sessionID := uuid.New()
	sessions := newFakeSessionRepo(session.Session{ID: sessionID})
	var seeded []question.Question
	for i := 1; i <= 3; i++ {
		seeded = append(seeded, question.Question{
			ID: int64(i), SessionID: sessionID, QuestionNumber: i, History: question.NewHistory("답"),
		})
	}
	questions := newFakeQuestionRepo(seeded...)
	gen := &fakeGenerator{answer: "새 답변"}
	u := testQuestionUsecase(sessions, questions, gen)

	_, err := u.AddQuestion(context.Background(), sessionID, "성장 과정을 말씀해주세요")
	if !errors.Is(err, ErrQuestionLimitReached) {
		t.Fatalf("err = %v, want ErrQuestionLimitReached", err)
	}
	if gen.generateCalls != 0 {
		t.Errorf("generator called %d times for a rejected question", gen.generateCalls)
	}
}

func TestAddQuestionGeneratesInitialAnswer(t *testing.T) {
	sessionID := uuid.New()
	sessions := newFakeSessionRepo(session.Session{ID: sessionID, ResumeText: "이력서"})
	questions := newFakeQuestionRepo(question.Question{
		ID: 1, SessionID: sessionID, QuestionNumber: 1, History: question.NewHistory("기존 답"),
	})
	gen := &fakeGenerator{answer: "생성된 답변"}
	u := testQuestionUsecase(sessions, questions, gen)

	q, err := u.AddQuestion(context.Background(), sessionID, "실패 경험을 말씀해주세요")
	if err != nil {
		t.Fatalf("AddQuestion: %v", err)
	}
	if q.QuestionNumber != 2 {
		t.Errorf("question number = %d, want 2", q.QuestionNumber)
	}
	if q.CurrentAnswer() != "생성된 답변" {
		t.Errorf("initial answer = %q", q.CurrentAnswer())
	}
}

func TestParseReviseAction(t *testing.T) {
	for in, want := range map[string]ReviseAction{"undo": ActionUndo, " Redo ": ActionRedo, "REVISE": ActionRevise} {
		got, err := ParseReviseAction(in)
		if err != nil || got != want {
			t.Errorf("ParseReviseAction(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseReviseAction("purge"); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("unknown action err = %v, want ErrInvalidAction", err)
	}
}
