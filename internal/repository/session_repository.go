package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"sseojum/internal/database"
	"sseojum/internal/domain/session"
)

type SessionRepository interface {
	Create(ctx context.Context, s session.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (session.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PostgresSessionRepository struct {
	db database.DB
}

func NewPostgresSessionRepository(db database.DB) *PostgresSessionRepository {
	return &PostgresSessionRepository{db: db}
}

func (r *PostgresSessionRepository) Create(ctx context.Context, s session.Session) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO sessions (
			id, user_id, company_name, job_title, main_responsibilities,
			requirements, preferred_qualifications, company_info, jd_text, resume_text
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		s.ID, s.UserID, s.CompanyName, s.JobTitle, s.MainResponsibilities,
		s.Requirements, s.PreferredQualifications, s.CompanyInfo, s.JDText, s.ResumeText,
	)
	return err
}

func (r *PostgresSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (session.Session, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, company_name, job_title, main_responsibilities,
			requirements, preferred_qualifications, company_info, jd_text, resume_text, created_at
		FROM sessions WHERE id = $1`,
		id,
	)

	var s session.Session
	err := row.Scan(
		&s.ID, &s.UserID, &s.CompanyName, &s.JobTitle, &s.MainResponsibilities,
		&s.Requirements, &s.PreferredQualifications, &s.CompanyInfo, &s.JDText, &s.ResumeText, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.Session{}, session.ErrNotFound
		}
		return session.Session{}, err
	}
	return s, nil
}

func (r *PostgresSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// questions go with the session via ON DELETE CASCADE
	affected, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return session.ErrNotFound
	}
	return nil
}
