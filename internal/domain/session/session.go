package session

import (
	"errors"
	"strings"
	"time"

	"sseojum/internal/domain/question"

	"github.com/google/uuid"
)

// Session is one job-application context: the job posting fields, the
// applicant's résumé text, and up to MaxQuestions cover-letter questions.
type Session struct {
	ID                      uuid.UUID
	UserID                  *uuid.UUID
	CompanyName             string
	JobTitle                string
	MainResponsibilities    string
	Requirements            string
	PreferredQualifications string
	CompanyInfo             string
	JDText                  string
	ResumeText              string
	CreatedAt               time.Time

	Questions []question.Question
}

// JDComposite flattens the job-description fields into the single text block
// the prompt assembler consumes. Empty fields are omitted.
func (s Session) JDComposite() string {
	if strings.TrimSpace(s.JDText) != "" {
		return s.JDText
	}

	var b strings.Builder
	writeField := func(label, v string) {
		v = strings.TrimSpace(v)
		if v == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(v)
	}
	writeField("회사명", s.CompanyName)
	writeField("모집 직무", s.JobTitle)
	writeField("주요 업무", s.MainResponsibilities)
	writeField("자격 요건", s.Requirements)
	writeField("우대 사항", s.PreferredQualifications)
	return b.String()
}

var ErrNotFound = errors.New("session not found")
