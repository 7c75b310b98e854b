package dto

import (
	"time"

	"github.com/google/uuid"

	"sseojum/internal/domain/question"
	"sseojum/internal/domain/session"
)

type QuestionResponse struct {
	QuestionNumber int    `json:"question_number"`
	Question       string `json:"question"`
	CurrentAnswer  string `json:"current_answer"`
	VersionIndex   int    `json:"version_index"`
	VersionCount   int    `json:"version_count"`
	HasUndo        bool   `json:"has_undo"`
	HasRedo        bool   `json:"has_redo"`
	RevisionCount  int    `json:"revision_count"`
}

type SessionResponse struct {
	SessionID               uuid.UUID          `json:"session_id"`
	CompanyName             string             `json:"company_name"`
	JobTitle                string             `json:"job_title"`
	MainResponsibilities    string             `json:"main_responsibilities"`
	Requirements            string             `json:"requirements"`
	PreferredQualifications string             `json:"preferred_qualifications"`
	CompanyInfo             string             `json:"company_info"`
	CreatedAt               time.Time          `json:"created_at"`
	Questions               []QuestionResponse `json:"questions"`
}

func NewQuestionResponse(q question.Question) QuestionResponse {
	return QuestionResponse{
		QuestionNumber: q.QuestionNumber,
		Question:       q.Question,
		CurrentAnswer:  q.CurrentAnswer(),
		VersionIndex:   q.History.Current,
		VersionCount:   len(q.History.Answers),
		HasUndo:        q.History.CanUndo(),
		HasRedo:        q.History.CanRedo(),
		RevisionCount:  len(q.Revisions),
	}
}

func NewSessionResponse(s session.Session) SessionResponse {
	questions := make([]QuestionResponse, 0, len(s.Questions))
	for _, q := range s.Questions {
		questions = append(questions, NewQuestionResponse(q))
	}
	return SessionResponse{
		SessionID:               s.ID,
		CompanyName:             s.CompanyName,
		JobTitle:                s.JobTitle,
		MainResponsibilities:    s.MainResponsibilities,
		Requirements:            s.Requirements,
		PreferredQualifications: s.PreferredQualifications,
		CompanyInfo:             s.CompanyInfo,
		CreatedAt:               s.CreatedAt,
		Questions:               questions,
	}
}
