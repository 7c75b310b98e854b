package prompt

import (
	"fmt"
	"strings"
)

// JobFields is the job-description composite the HTTP layer collects from
// the user or the crawler.
type JobFields struct {
	CompanyName             string
	JobTitle                string
	MainResponsibilities    string
	Requirements            string
	PreferredQualifications string
	JDText                  string
}

// Composite flattens the fields into one block for the prompt. When the raw
// crawled text is present it wins; otherwise the structured fields are
// labeled individually.
func (f JobFields) Composite() string {
	if t := strings.TrimSpace(f.JDText); t != "" {
		return t
	}
	var b strings.Builder
	write := func(label, v string) {
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
	write("회사명", f.CompanyName)
	write("모집 직무", f.JobTitle)
	write("주요 업무", f.MainResponsibilities)
	write("자격 요건", f.Requirements)
	write("우대 사항", f.PreferredQualifications)
	return b.String()
}

// GenerationInput carries everything the generation prompt needs. Assembly
// is deterministic: identical inputs produce the identical prompt string.
type GenerationInput struct {
	Question    string
	ResumeText  string
	Job         JobFields
	CompanyInfo string
	Guideline   string
}

// RevisionInput extends generation with the current answer, the user's edit
// instruction, and the prior version history.
type RevisionInput struct {
	Question        string
	ResumeText      string
	Job             JobFields
	CompanyInfo     string
	Guideline       string
	OriginalAnswer  string
	EditInstruction string
	AnswerHistory   []string
}

const sharedDirectives = `### 작성 원칙
1. **사실 기반**: 제출된 자료(이력서·채용공고·회사 정보)에 있는 사실만 사용하세요. 자료에 없는 수치, 날짜, 프로젝트명을 만들어내지 마세요. 자료에 수치가 없으면 수치 없이 정성적으로 서술하세요.
2. **일화 선택**: 뒷받침 경험은 가장 적합한 것 **하나만** 선택하세요. 제출된 자료 전체를 요약하거나 나열하지 마세요.
3. **회사명 검증**: 최종 답변에 지원 회사가 아닌 다른 회사명이 등장하면 안 됩니다. 이력서의 회사명은 '과거' 경력일 뿐이므로 현재 지원하는 회사와 혼동하지 마세요.
4. **출력 형식**: 제목·헤더·마크다운 글머리표 없이 줄글 본문만 작성하세요. 한국어로 작성하되 기술 용어는 영어를 허용합니다. 작성 과정이나 자료 상태에 대한 메타 발언("이력서에 따르면" 등의 출처 언급 포함)을 하지 마세요.`

// BuildGeneration constructs the full generation prompt. Section framing
// follows the 정보 1/2/3 layout the service has always used.
func BuildGeneration(in GenerationInput) string {
	var b strings.Builder

	b.WriteString(`<|system|>
당신은 대한민국 최고의 자기소개서 작성 전문가입니다. 당신의 핵심 임무는 주어진 자기소개서 문항(정보 1)에 대해 심도 있게 답변하는 것입니다. 답변은 지원자의 이력서(정보 2)와 채용공고(정보 3)를 근거로, 지원자의 경험과 역량이 문항의 주제 및 지원 직무와 어떻게 연결되는지를 논리적으로 보여주어야 합니다.
|>

<|user|>
`)
	writeSection(&b, "정보 1: 자기소개서 문항", fmt.Sprintf("%q", in.Question))
	writeDelimited(&b, "정보 2: 지원자 이력서", "이력서", in.ResumeText)
	writeDelimited(&b, "정보 3: 채용공고", "채용공고", in.Job.Composite())
	if info := strings.TrimSpace(in.CompanyInfo); info != "" {
		writeDelimited(&b, "정보 4: 회사 정보", "회사 정보", info)
	}

	b.WriteString("\n")
	b.WriteString(sharedDirectives)
	b.WriteString("\n\n")
	writeSection(&b, "유형별 작성 지침", strings.TrimSpace(in.Guideline))

	b.WriteString(`
위 원칙과 지침을 모두 준수하여, '정보 1: 자기소개서 문항'에 대한 답변을 작성하세요.
|>`)
	return b.String()
}

// BuildRevision constructs the revision prompt. Beyond the shared
// directives it pins down the sub-part rule: parts of a multi-clause
// question the edit request does not touch must keep their existing answer.
func BuildRevision(in RevisionInput) string {
	var b strings.Builder

	b.WriteString(`<|system|>
당신은 전문 자기소개서 교정자이자 채용 리뷰어입니다. 당신의 핵심 임무는 원본 자기소개서가 '정보 1: 자기소개서 문항'의 의도를 더 잘 반영하고, 사용자의 '수정 요청 사항'을 완벽하게 적용하도록 수정하는 것입니다. 모든 수정은 제공된 자료(이력서·채용공고)에 근거해야 합니다.
|>

<|user|>
`)
	writeSection(&b, "정보 1: 자기소개서 문항", fmt.Sprintf("%q", in.Question))
	writeDelimited(&b, "정보 2: 지원자 이력서", "이력서", in.ResumeText)
	writeDelimited(&b, "정보 3: 채용공고", "채용공고", in.Job.Composite())
	if info := strings.TrimSpace(in.CompanyInfo); info != "" {
		writeDelimited(&b, "정보 4: 회사 정보", "회사 정보", info)
	}
	writeDelimited(&b, "정보 5: 원본 자기소개서", "원본 답변", in.OriginalAnswer)

	if len(in.AnswerHistory) > 1 {
		var h strings.Builder
		for i, ans := range in.AnswerHistory {
			if i == len(in.AnswerHistory)-1 {
				break // current version is already 정보 5
			}
			fmt.Fprintf(&h, "[버전 %d]\n%s\n", i+1, strings.TrimSpace(ans))
		}
		writeDelimited(&b, "정보 6: 이전 버전 이력 (참고용)", "이전 버전", strings.TrimSpace(h.String()))
	}

	writeSection(&b, "수정 요청 사항", fmt.Sprintf("%q", in.EditInstruction))

	b.WriteString("\n")
	b.WriteString(sharedDirectives)
	b.WriteString(`

### 수정 원칙
1. 사용자의 '수정 요청 사항'과 '자기소개서 문항'의 의도를 정확히 반영하세요.
2. 문항이 여러 요소를 묻는 경우, 수정 요청이 다루지 않는 요소의 답변 내용은 유지하세요. 일부만 고치라는 요청 때문에 나머지 요소의 답변이 사라지면 안 됩니다.
3. 원본의 핵심 메시지는 유지하되, 문항의 답변과 직결되도록 논리 구조를 다듬으세요.

`)
	writeSection(&b, "유형별 작성 지침", strings.TrimSpace(in.Guideline))

	b.WriteString(`
위 원칙에 따라, 원본 답변을 수정하여 '자기소개서 문항'에 더욱 충실하고 '수정 요청'이 완벽히 반영된 최종 본문만 출력하세요.
|>`)
	return b.String()
}

func writeSection(b *strings.Builder, title, body string) {
	fmt.Fprintf(b, "### %s\n%s\n\n", title, body)
}

func writeDelimited(b *strings.Builder, title, label, body string) {
	body = strings.TrimSpace(body)
	if body == "" {
		body = "(제출된 자료 없음)"
	}
	fmt.Fprintf(b, "### %s\n--- %s 시작 ---\n%s\n--- %s 끝 ---\n\n", title, label, body, label)
}
