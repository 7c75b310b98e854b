package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"sseojum/internal/database"
	"sseojum/internal/domain/question"
)

type QuestionRepository interface {
	Create(ctx context.Context, q question.Question) (int64, error)
	GetBySessionAndNumber(ctx context.Context, sessionID uuid.UUID, number int) (question.Question, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]question.Question, error)
	CountBySession(ctx context.Context, sessionID uuid.UUID) (int, error)
	UpdateHistory(ctx context.Context, id int64, h question.History, revisions []question.RevisionPrompt) error
}

type PostgresQuestionRepository struct {
	db database.DB
}

func NewPostgresQuestionRepository(db database.DB) *PostgresQuestionRepository {
	return &PostgresQuestionRepository{db: db}
}

func (r *PostgresQuestionRepository) Create(ctx context.Context, q question.Question) (int64, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO questions (
			session_id, question_number, question, answer_history, current_version_index, revision_prompts
		) VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id`,
		q.SessionID,
		q.QuestionNumber,
		q.Question,
		question.EncodeAnswerHistory(q.History.Answers),
		q.History.Current,
		question.EncodeRevisionPrompts(q.Revisions),
	)

	var id int64
	if err := row.Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PostgresQuestionRepository) GetBySessionAndNumber(ctx context.Context, sessionID uuid.UUID, number int) (question.Question, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, session_id, question_number, question, answer_history, current_version_index, revision_prompts, created_at
		FROM questions WHERE session_id = $1 AND question_number = $2`,
		sessionID, number,
	)
	return scanQuestion(row)
}

func (r *PostgresQuestionRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]question.Question, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, session_id, question_number, question, answer_history, current_version_index, revision_prompts, created_at
		FROM questions WHERE session_id = $1 ORDER BY question_number ASC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]question.Question, 0)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresQuestionRepository) CountBySession(ctx context.Context, sessionID uuid.UUID) (int, error) {
	row := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM questions WHERE session_id = $1`, sessionID)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresQuestionRepository) UpdateHistory(ctx context.Context, id int64, h question.History, revisions []question.RevisionPrompt) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE questions SET answer_history = $2, current_version_index = $3, revision_prompts = $4 WHERE id = $1`,
		id,
		question.EncodeAnswerHistory(h.Answers),
		h.Current,
		question.EncodeRevisionPrompts(revisions),
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return question.ErrNotFound
	}
	return nil
}

type questionRow interface {
	Scan(dest ...any) error
}

func scanQuestion(row questionRow) (question.Question, error) {
	var (
		q            question.Question
		historyRaw   string
		revisionsRaw string
	)
	err := row.Scan(&q.ID, &q.SessionID, &q.QuestionNumber, &q.Question, &historyRaw, &q.History.Current, &revisionsRaw, &q.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return question.Question{}, question.ErrNotFound
		}
		return question.Question{}, err
	}
	q.History.Answers = question.ParseAnswerHistory(historyRaw)
	q.Revisions = question.ParseRevisionPrompts(revisionsRaw)
	return q, nil
}
