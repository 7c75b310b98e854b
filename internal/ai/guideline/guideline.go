package guideline

import "sseojum/internal/ai/category"

// Repository maps a question category to its structural writing rubric. It
// is a pure lookup: unknown or unclassified categories fall back to the
// generic rubric and Get never fails.
type Repository struct {
	rubrics map[category.Category]string
	generic string
}

func NewRepository() *Repository {
	return &Repository{rubrics: rubrics, generic: genericRubric}
}

func (r *Repository) Get(c category.Category) string {
	if r == nil {
		return genericRubric
	}
	if rubric, ok := r.rubrics[c]; ok {
		return rubric
	}
	return r.generic
}

// Generic returns the category-agnostic rubric used when classification is
// unconfident or unavailable.
func (r *Repository) Generic() string {
	if r == nil {
		return genericRubric
	}
	return r.generic
}

var rubrics = map[category.Category]string{
	category.StrengthWeakness: `[유형: 성격의 장단점]
1. 첫 문장에서 핵심이 되는 성격 특성(장점)을 명확한 주제문으로 제시하세요.
2. 그 특성이 드러난 구체적인 일화를 정확히 하나만 선택해 서술하세요. 여러 경험을 나열하지 마세요.
3. 단점은 회피하지 말고 하나를 솔직하게 제시하되, 개선을 위해 실제로 하고 있는 노력을 함께 서술하세요.
4. 마지막 문단에서 해당 장점이 지원 직무에서 어떻게 발휘될 수 있는지 연결하세요.`,

	category.Aspiration: `[유형: 입사 후 포부]
1. 채용공고의 주요 업무를 근거로, 입사 직후(1년 내) 기여할 수 있는 구체적 목표를 먼저 제시하세요.
2. 이어서 중장기 목표를 단계적으로 서술하되, 회사의 사업 방향과 맞닿아 있어야 합니다.
3. 목표 달성을 위해 현재 준비하고 있는 것을 이력서의 사실에 근거해 서술하세요.
4. 막연한 다짐("열심히 하겠습니다")이 아니라 직무 용어로 구체화하세요.`,

	category.JobExperience: `[유형: 직무 경험]
1. 지원 직무와 가장 관련성이 높은 경험을 하나만 선택하세요. 경력 요약이 되어서는 안 됩니다.
2. 상황-과제-행동-결과의 흐름으로 서술하되, 본인의 역할과 행동을 중심에 두세요.
3. 결과는 제출된 자료에 있는 사실만 사용하세요. 자료에 수치가 없으면 수치를 만들지 말고 정성적으로 서술하세요.
4. 마지막에 그 경험이 채용공고의 자격 요건과 어떻게 연결되는지 한 문장으로 정리하세요.`,

	category.FailureExperience: `[유형: 실패/역경 극복]
1. 실패 또는 어려움의 상황을 간결하게 제시하세요. 상황 설명이 글의 절반을 넘으면 안 됩니다.
2. 원인을 어떻게 분석했고, 구체적으로 어떤 행동으로 대응했는지를 중심으로 서술하세요.
3. 결과와 함께, 그 경험에서 얻은 교훈이 이후 행동을 어떻게 바꾸었는지 서술하세요.
4. 실패의 책임을 타인이나 환경으로 돌리는 서술은 피하세요.`,

	category.Motivation: `[유형: 지원 동기]
1. 회사에 대한 일반적 칭찬이 아니라, 지원자의 경험·관심과 회사/직무의 구체적 접점에서 출발하세요.
2. 회사 정보와 채용공고에 실제로 있는 내용만 근거로 사용하세요.
3. 직무 동기(이 일을 왜 하는가)와 회사 동기(왜 이 회사인가)를 모두 다루세요.
4. 입사 후 기여 방향을 한 문장으로 제시하며 마무리하세요.`,

	category.GrowthProcess: `[유형: 성장 과정]
1. 연대기식 나열이 아니라, 현재의 직무 역량이나 가치관 형성에 결정적이었던 경험 하나를 중심으로 구성하세요.
2. 그 경험이 형성한 가치관/태도를 명확한 문장으로 정의하세요.
3. 그 가치관이 최근의 행동(학업, 프로젝트, 직무 경험)에서 어떻게 드러났는지 연결하세요.
4. 마지막에 그 태도가 지원 직무에서 갖는 의미를 서술하세요.`,
}

// genericRubric handles unclassified questions, including compound questions
// that span multiple categories. It pushes the decision work into the model
// instead of forcing a wrong single-category fit.
var genericRubric = `[유형: 일반]
1. 먼저 문항이 '경험'을 묻는지 '생각/의견'을 묻는지 판단하고, 그에 맞는 서술 방식을 선택하세요.
2. 문항이 여러 요소를 묻는 복합 문항이라면, 각 요소에 빠짐없이 답하되 비중을 안배하세요.
3. 뒷받침 일화는 가장 적합한 것 하나만 선택하세요. 제출된 자료 전체를 요약하지 마세요.
4. 작성 후 스스로 점검하세요:
   - 제출된 자료에 없는 사실을 지어내지 않았는가?
   - 문항에서 벗어난 내용은 없는가?
   - 지원 회사와 직무의 맥락이 반영되어 있는가?
   점검에서 문제가 발견되면 수정한 최종본만 출력하세요.`
