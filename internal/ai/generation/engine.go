package generation

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"google.golang.org/genai"

	"sseojum/internal/ai/classifier"
	"sseojum/internal/ai/guideline"
	"sseojum/internal/ai/prompt"
)

// GenerationError wraps any failure of a single generate/revise call: the
// model call itself, or a response no extraction path could read. Callers
// decide retry policy; the engine makes exactly one attempt.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("generation %s: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ModelClient is the single outbound call the engine makes per invocation.
type ModelClient interface {
	GenerateContent(ctx context.Context, promptText string) (*genai.GenerateContentResponse, error)
}

// QuestionClassifier is satisfied by *classifier.Classifier.
type QuestionClassifier interface {
	Classify(ctx context.Context, questionText string) classifier.Result
}

// Engine turns a question plus application materials into a cover-letter
// answer: classify, pick the guideline, assemble the prompt, call the model
// once, and normalize the response.
type Engine struct {
	model      ModelClient
	classifier QuestionClassifier
	guidelines *guideline.Repository
	logger     *log.Logger
}

func NewEngine(model ModelClient, qc QuestionClassifier, guidelines *guideline.Repository, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{model: model, classifier: qc, guidelines: guidelines, logger: logger}
}

type GenerateInput struct {
	Question    string
	ResumeText  string
	Job         prompt.JobFields
	CompanyInfo string
}

type GenerateOutput struct {
	Answer      string
	CompanyInfo string
}

// Generate produces the first draft for a question. A nil error guarantees
// a fully extracted, normalized answer; on error no partial output is
// returned, so callers can safely gate history mutations on success.
func (e *Engine) Generate(ctx context.Context, in GenerateInput) (GenerateOutput, error) {
	res := e.classifier.Classify(ctx, in.Question)
	rubric := e.guidelines.Get(res.Category)
	e.logger.Printf("generate: question classified as %s (chip=%v best=%.3f second=%.3f)",
		res.Category, res.ChipMatch, res.Best, res.Second)

	companyInfo := strings.TrimSpace(in.CompanyInfo)
	if companyInfo == "" {
		companyInfo = companyContext(in.Job)
	}

	p := prompt.BuildGeneration(prompt.GenerationInput{
		Question:    in.Question,
		ResumeText:  in.ResumeText,
		Job:         in.Job,
		CompanyInfo: companyInfo,
		Guideline:   rubric,
	})

	answer, err := e.invoke(ctx, "generate", p)
	if err != nil {
		return GenerateOutput{}, err
	}

	if offenders := CrossCheckCompanyNames(answer, in.ResumeText, in.Job.CompanyName); len(offenders) > 0 {
		e.logger.Printf("generate: answer mentions non-target company names: %v", offenders)
	}

	return GenerateOutput{Answer: answer, CompanyInfo: companyInfo}, nil
}

type ReviseInput struct {
	Question        string
	ResumeText      string
	Job             prompt.JobFields
	CompanyInfo     string
	OriginalAnswer  string
	EditInstruction string
	AnswerHistory   []string
}

// Revise rewrites an existing answer according to the user's instruction,
// with the same extraction discipline as Generate.
func (e *Engine) Revise(ctx context.Context, in ReviseInput) (string, error) {
	res := e.classifier.Classify(ctx, in.Question)
	rubric := e.guidelines.Get(res.Category)

	p := prompt.BuildRevision(prompt.RevisionInput{
		Question:        in.Question,
		ResumeText:      in.ResumeText,
		Job:             in.Job,
		CompanyInfo:     strings.TrimSpace(in.CompanyInfo),
		Guideline:       rubric,
		OriginalAnswer:  in.OriginalAnswer,
		EditInstruction: in.EditInstruction,
		AnswerHistory:   in.AnswerHistory,
	})

	answer, err := e.invoke(ctx, "revise", p)
	if err != nil {
		return "", err
	}

	if offenders := CrossCheckCompanyNames(answer, in.ResumeText, in.Job.CompanyName); len(offenders) > 0 {
		e.logger.Printf("revise: answer mentions non-target company names: %v", offenders)
	}

	return answer, nil
}

func (e *Engine) invoke(ctx context.Context, op string, promptText string) (string, error) {
	resp, err := e.model.GenerateContent(ctx, promptText)
	if err != nil {
		return "", &GenerationError{Op: op, Err: err}
	}

	text, err := ExtractText(resp)
	if err != nil {
		return "", &GenerationError{Op: op, Err: err}
	}

	answer := StripBoilerplate(text)
	if answer == "" {
		return "", &GenerationError{Op: op, Err: fmt.Errorf("model returned an empty answer")}
	}
	return answer, nil
}

// ExtractText reads the model response, tolerating both shapes the SDK can
// produce: the aggregate Text() accessor and the raw candidate/part tree.
// Neither yielding text is fatal for the call.
func ExtractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("nil model response")
	}

	if t := strings.TrimSpace(resp.Text()); t != "" {
		return t, nil
	}

	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var b strings.Builder
		for _, part := range cand.Content.Parts {
			if part == nil {
				continue
			}
			b.WriteString(part.Text)
		}
		if t := strings.TrimSpace(b.String()); t != "" {
			return t, nil
		}
	}

	return "", fmt.Errorf("model response contains no extractable text")
}

var boilerplatePrefixes = []string{
	"네, 알겠습니다",
	"네. 알겠습니다",
	"요청하신",
	"다음은",
	"아래는",
	"물론입니다",
	"As requested",
	"Here is",
	"Sure,",
}

// StripBoilerplate removes the meta lead-in the model sometimes prepends
// ("요청하신 자기소개서입니다:") along with markdown code fences.
func StripBoilerplate(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if i := strings.Index(s, "\n"); i >= 0 && i < 20 {
			s = s[i+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}

	first, rest, found := strings.Cut(s, "\n")
	if !found {
		return s
	}
	trimmedFirst := strings.TrimSpace(first)
	for _, prefix := range boilerplatePrefixes {
		if strings.HasPrefix(trimmedFirst, prefix) &&
			(strings.HasSuffix(trimmedFirst, ":") || strings.HasSuffix(trimmedFirst, "습니다.") || strings.HasSuffix(trimmedFirst, "입니다.")) {
			return strings.TrimSpace(rest)
		}
	}
	return s
}

var (
	companyPrefixRe = regexp.MustCompile(`(?:주식회사|㈜)\s*([가-힣A-Za-z0-9&.·-]+)`)
	companySuffixRe = regexp.MustCompile(`([가-힣A-Za-z0-9&.·-]+)\s*(?:주식회사|㈜|Inc\.|Corp\.)`)

	companyNameStopwords = map[string]struct{}{
		"에서": {}, "으로": {}, "이후": {}, "현재": {}, "근무": {}, "재직": {},
	}
)

// CrossCheckCompanyNames scans the answer for employer names that appear in
// the résumé but are not the target company. Offenders are reported, not
// removed: the prompt already forbids them, so a hit is a quality signal
// worth logging loudly.
func CrossCheckCompanyNames(answer, resumeText, targetCompany string) []string {
	target := strings.TrimSpace(targetCompany)

	var candidates []string
	for _, m := range companyPrefixRe.FindAllStringSubmatch(resumeText, -1) {
		candidates = append(candidates, m[1])
	}
	for _, m := range companySuffixRe.FindAllStringSubmatch(resumeText, -1) {
		candidates = append(candidates, m[1])
	}

	seen := map[string]struct{}{}
	var offenders []string
	for _, name := range candidates {
		name = strings.TrimSpace(name)
		if name == "" || name == target {
			continue
		}
		// dates, durations and stray particles next to 주식회사 are not names
		if len([]rune(name)) < 2 {
			continue
		}
		if name[0] >= '0' && name[0] <= '9' {
			continue
		}
		if _, stop := companyNameStopwords[name]; stop {
			continue
		}
		if target != "" && strings.Contains(target, name) {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		if strings.Contains(answer, name) {
			offenders = append(offenders, name)
		}
	}
	return offenders
}

func companyContext(f prompt.JobFields) string {
	var parts []string
	if v := strings.TrimSpace(f.CompanyName); v != "" {
		parts = append(parts, v)
	}
	if v := strings.TrimSpace(f.JobTitle); v != "" {
		parts = append(parts, v)
	}
	return strings.Join(parts, " · ")
}
