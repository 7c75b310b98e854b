package category

// Category is a fixed semantic bucket for self-introduction questions. The
// set is closed; anything the classifier cannot place confidently becomes
// Unclassified and falls back to the generic guideline.
type Category string

const (
	StrengthWeakness  Category = "strength_weakness"
	Aspiration        Category = "aspiration"
	JobExperience     Category = "job_experience"
	FailureExperience Category = "failure_experience"
	Motivation        Category = "motivation"
	GrowthProcess     Category = "growth_process"
	Unclassified      Category = "unclassified"
)

// All lists the classifiable categories, excluding the sentinel.
func All() []Category {
	return []Category{
		StrengthWeakness,
		Aspiration,
		JobExperience,
		FailureExperience,
		Motivation,
		GrowthProcess,
	}
}

func (c Category) Valid() bool {
	switch c {
	case StrengthWeakness, Aspiration, JobExperience, FailureExperience, Motivation, GrowthProcess, Unclassified:
		return true
	}
	return false
}

// CanonicalQuestions holds the example questions embedded per category.
// Multiple examples per category are averaged into one centroid, which is
// noticeably more robust than a single exemplar.
var CanonicalQuestions = map[Category][]string{
	StrengthWeakness: {
		"성격의 장점, 단점, 강점, 약점",
		"본인의 장단점에 대해 말해주세요",
		"자신의 강점과 보완하고 싶은 약점은 무엇인가요",
	},
	Aspiration: {
		"입사 후 포부, 미래 계획, 커리어 목표",
		"입사 후 이루고 싶은 목표는 무엇인가요",
		"10년 뒤 본인의 모습을 그려보세요",
	},
	JobExperience: {
		"직무 수행 경험, 프로젝트, 업무 역량",
		"지원 직무와 관련된 경험을 소개해주세요",
		"해당 직무를 잘 수행할 수 있는 역량과 근거를 서술하세요",
	},
	FailureExperience: {
		"실패, 어려움, 역경, 문제 해결, 극복",
		"실패했던 경험과 이를 극복한 과정을 서술하세요",
		"가장 힘들었던 순간과 그 어려움을 어떻게 해결했는지 말해주세요",
	},
	Motivation: {
		"지원 동기, 회사에 지원하는 이유, 관심을 가지게 된 계기",
		"우리 회사에 지원한 이유는 무엇인가요",
		"해당 직무에 관심을 가지게 된 계기를 서술하세요",
	},
	GrowthProcess: {
		"성장 과정, 가치관, 인생관, 영향을 준 인물",
		"본인의 성장 과정에 대해 서술하세요",
		"살아오면서 가장 큰 영향을 준 인물이나 경험은 무엇인가요",
	},
}

// Chips are the canned prompts the frontend offers as one-tap buttons. An
// exact match skips the embedding call entirely.
var Chips = map[string]Category{
	"성격의 장단점은 무엇인가요":        StrengthWeakness,
	"입사 후 포부를 말씀해주세요":       Aspiration,
	"직무 관련 경험을 소개해주세요":      JobExperience,
	"실패를 극복한 경험을 말씀해주세요":    FailureExperience,
	"지원 동기는 무엇인가요":          Motivation,
	"본인의 성장 과정을 말씀해주세요":     GrowthProcess,
}
