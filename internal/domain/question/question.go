package question

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Question is one self-introduction prompt inside a session, together with
// the full version history of its generated answers.
type Question struct {
	ID             int64
	SessionID      uuid.UUID
	QuestionNumber int
	Question       string
	History        History
	Revisions      []RevisionPrompt
	CreatedAt      time.Time
}

// RevisionPrompt records one user-issued revision request and the version
// it produced.
type RevisionPrompt struct {
	Prompt       string    `json:"prompt"`
	Timestamp    time.Time `json:"timestamp"`
	VersionIndex int       `json:"version_index"`
}

// CurrentAnswer returns the answer the current pointer designates, or ""
// when the history is empty.
func (q Question) CurrentAnswer() string {
	if err := q.History.Validate(); err != nil {
		return ""
	}
	return q.History.Answers[q.History.Current]
}

// ParseAnswerHistory decodes the JSON answer-history column. Rows written by
// early migrations can contain unescaped control characters; those are
// repaired before giving up.
func ParseAnswerHistory(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err == nil {
		return out
	}
	fixed := strings.ReplaceAll(strings.ReplaceAll(raw, "\r", ""), "\n", "\\n")
	if err := json.Unmarshal([]byte(fixed), &out); err == nil {
		return out
	}
	return nil
}

func EncodeAnswerHistory(answers []string) string {
	if answers == nil {
		answers = []string{}
	}
	b, err := json.Marshal(answers)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func ParseRevisionPrompts(raw string) []RevisionPrompt {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var out []RevisionPrompt
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

func EncodeRevisionPrompts(prompts []RevisionPrompt) string {
	if prompts == nil {
		prompts = []RevisionPrompt{}
	}
	b, err := json.Marshal(prompts)
	if err != nil {
		return "[]"
	}
	return string(b)
}

var ErrNotFound = errors.New("question not found")
