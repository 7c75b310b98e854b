package prompt

import (
	"strings"
	"testing"
)

func sampleJob() JobFields {
	return JobFields{
		CompanyName:             "한빛소프트",
		JobTitle:                "백엔드 개발자",
		MainResponsibilities:    "API 서버 개발 및 운영",
		Requirements:            "Go 또는 Python 경험",
		PreferredQualifications: "대규모 트래픽 경험",
	}
}

func TestBuildGenerationDeterministic(t *testing.T) {
	in := GenerationInput{
		Question:   "지원 동기는 무엇인가요",
		ResumeText: "백엔드 개발 3년",
		Job:        sampleJob(),
		Guideline:  "[유형: 일반]\n지침",
	}
	a := BuildGeneration(in)
	b := BuildGeneration(in)
	if a != b {
		t.Fatalf("assembly must be deterministic")
	}
}

func TestBuildGenerationContainsAllSections(t *testing.T) {
	in := GenerationInput{
		Question:    "지원 동기는 무엇인가요",
		ResumeText:  "백엔드 개발 3년, 결제 시스템 운영",
		Job:         sampleJob(),
		CompanyInfo: "게임 개발사, 최근 신사업 확장",
		Guideline:   "[유형: 지원 동기]\n지침 내용",
	}
	got := BuildGeneration(in)

	for _, want := range []string{
		"정보 1: 자기소개서 문항",
		"지원 동기는 무엇인가요",
		"정보 2: 지원자 이력서",
		"결제 시스템 운영",
		"정보 3: 채용공고",
		"한빛소프트",
		"백엔드 개발자",
		"정보 4: 회사 정보",
		"신사업 확장",
		"[유형: 지원 동기]",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestBuildGenerationFactBoundednessDirectives(t *testing.T) {
	// Résumé with no metrics: the prompt must forbid invented numbers and
	// demand qualitative phrasing, and must pin the single-anecdote rule.
	in := GenerationInput{
		Question:   "직무 경험을 서술하세요",
		ResumeText: "쇼핑몰 서버를 개발하고 운영했습니다",
		Job:        sampleJob(),
		Guideline:  "지침",
	}
	got := BuildGeneration(in)

	for _, want := range []string{
		"자료에 없는 수치, 날짜, 프로젝트명을 만들어내지 마세요",
		"수치 없이 정성적으로",
		"하나만",
		"다른 회사명이 등장하면 안 됩니다",
		"마크다운 글머리표 없이",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("prompt missing directive %q", want)
		}
	}
}

func TestBuildGenerationEmptyResume(t *testing.T) {
	in := GenerationInput{
		Question:  "지원 동기는 무엇인가요",
		Job:       sampleJob(),
		Guideline: "지침",
	}
	got := BuildGeneration(in)
	if !strings.Contains(got, "(제출된 자료 없음)") {
		t.Fatalf("empty resume should be marked explicitly")
	}
}

func TestCompositePrefersRawJDText(t *testing.T) {
	f := sampleJob()
	f.JDText = "원문 채용공고 전체 텍스트"
	if got := f.Composite(); got != "원문 채용공고 전체 텍스트" {
		t.Fatalf("raw jd text should win, got %q", got)
	}

	f.JDText = ""
	got := f.Composite()
	if !strings.Contains(got, "회사명: 한빛소프트") || !strings.Contains(got, "우대 사항: 대규모 트래픽 경험") {
		t.Fatalf("structured composite malformed:\n%s", got)
	}
}

func TestBuildRevisionSections(t *testing.T) {
	in := RevisionInput{
		Question:        "성장 과정과 지원 동기를 함께 서술하세요",
		ResumeText:      "이력서 본문",
		Job:             sampleJob(),
		Guideline:       "지침",
		OriginalAnswer:  "현재 버전 답변",
		EditInstruction: "지원 동기 부분을 더 구체적으로",
		AnswerHistory:   []string{"첫 번째 버전", "현재 버전 답변"},
	}
	got := BuildRevision(in)

	for _, want := range []string{
		"정보 5: 원본 자기소개서",
		"현재 버전 답변",
		"수정 요청 사항",
		"지원 동기 부분을 더 구체적으로",
		"정보 6: 이전 버전 이력",
		"[버전 1]",
		"첫 번째 버전",
		"수정 요청이 다루지 않는 요소의 답변 내용은 유지하세요",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("revision prompt missing %q", want)
		}
	}
}

func TestBuildRevisionSingleVersionOmitsHistory(t *testing.T) {
	in := RevisionInput{
		Question:        "문항",
		Job:             sampleJob(),
		Guideline:       "지침",
		OriginalAnswer:  "유일한 버전",
		EditInstruction: "짧게 줄여주세요",
		AnswerHistory:   []string{"유일한 버전"},
	}
	got := BuildRevision(in)
	if strings.Contains(got, "정보 6") {
		t.Fatalf("single-version history should not emit a history section")
	}
}
