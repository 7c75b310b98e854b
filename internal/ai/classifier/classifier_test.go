package classifier

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"testing"

	"sseojum/internal/ai/category"
)

// fakeEmbedder maps known substrings to fixed vectors so tests can steer
// similarity scores deterministically. Rules are checked in order; the
// first match wins. The last dimension is reserved for the default vector
// so unmatched text is orthogonal to every centroid.
type embedRule struct {
	substr string
	vec    []float32
}

type fakeEmbedder struct {
	rules []embedRule
	fail  bool
	calls int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	f.calls++
	if f.fail {
		return nil, fmt.Errorf("backend down")
	}
	for _, r := range f.rules {
		if strings.Contains(text, r.substr) {
			return r.vec, nil
		}
	}
	return []float32{0, 0, 0, 0, 1}, nil
}

func testRules() []embedRule {
	sw := []float32{1, 0, 0, 0, 0}
	asp := []float32{0, 1, 0, 0, 0}
	job := []float32{0, 0, 1, 0, 0}
	fail := []float32{0, 0, 0.9, 0.9, 0}
	mot := []float32{0.9, 0.9, 0, 0, 0}
	grow := []float32{0, 0.5, 0, 1, 0}
	compound := []float32{0.45, 0.95, 0, 0, 0}

	return []embedRule{
		// Compound question sits between motivation and aspiration.
		{"동기와 입사 후 포부", compound},
		{"실패", fail},
		{"극복", fail},
		{"어려움", fail},
		{"힘들었", fail},
		{"지원 동기", mot},
		{"지원한 이유", mot},
		{"계기", mot},
		{"성장", grow},
		{"가치관", grow},
		{"인생관", grow},
		{"인물", grow},
		{"장단점", sw},
		{"장점", sw},
		{"강점", sw},
		{"약점", sw},
		{"포부", asp},
		{"목표", asp},
		{"10년", asp},
		{"직무", job},
		{"역량", job},
		{"경험", job},
	}
}

func warmedClassifier(t *testing.T, emb *fakeEmbedder) *Classifier {
	t.Helper()
	c := New(emb, 0.58, 0.15, log.New(testWriter{t}, "", 0))
	if err := c.Warmup(context.Background()); err != nil {
		t.Fatalf("warmup: %v", err)
	}
	if !c.Ready() {
		t.Fatalf("classifier not ready after warmup")
	}
	return c
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimSpace(string(p)))
	return len(p), nil
}

func TestChipMatchSkipsEmbedding(t *testing.T) {
	emb := &fakeEmbedder{rules: testRules()}
	c := warmedClassifier(t, emb)
	callsAfterWarmup := emb.calls

	res := c.Classify(context.Background(), "성격의 장단점은 무엇인가요")
	if !res.ChipMatch {
		t.Fatalf("expected chip match")
	}
	if res.Category != category.StrengthWeakness {
		t.Fatalf("want strength_weakness, got %s", res.Category)
	}
	if emb.calls != callsAfterWarmup {
		t.Fatalf("chip match must not call the embedder (calls %d -> %d)", callsAfterWarmup, emb.calls)
	}
}

func TestClassifyConfidentMatch(t *testing.T) {
	c := warmedClassifier(t, &fakeEmbedder{rules: testRules()})

	res := c.Classify(context.Background(), "본인의 강점을 하나 말해주세요")
	if res.Category != category.StrengthWeakness {
		t.Fatalf("want strength_weakness, got %s (best=%.3f second=%.3f)", res.Category, res.Best, res.Second)
	}
	if res.ChipMatch {
		t.Fatalf("should have gone through the embedding path")
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := warmedClassifier(t, &fakeEmbedder{rules: testRules()})

	q := "지원 직무와 관련된 역량을 서술하세요"
	first := c.Classify(context.Background(), q)
	second := c.Classify(context.Background(), q)
	if first.Category != second.Category {
		t.Fatalf("classification not deterministic: %s vs %s", first.Category, second.Category)
	}
	if first.Category != category.JobExperience {
		t.Fatalf("want job_experience, got %s", first.Category)
	}
}

func TestAmbiguousQuestionFallsBack(t *testing.T) {
	c := warmedClassifier(t, &fakeEmbedder{rules: testRules()})

	// Scores confidently against both motivation and aspiration: the margin
	// gate must reject a single-category fit.
	res := c.Classify(context.Background(), "우리 회사에 지원하게 된 동기와 입사 후 포부를 함께 서술하세요")
	if res.Category != category.Unclassified {
		t.Fatalf("compound question should be unclassified, got %s (best=%.3f second=%.3f)",
			res.Category, res.Best, res.Second)
	}
	if res.Best < 0.58 {
		t.Fatalf("test vector setup broken: best %.3f should pass the confidence gate", res.Best)
	}
	if res.Best-res.Second >= 0.15 {
		t.Fatalf("test vector setup broken: margin %.3f not ambiguous", res.Best-res.Second)
	}
}

func TestLowConfidenceFallsBack(t *testing.T) {
	c := warmedClassifier(t, &fakeEmbedder{rules: testRules()})

	res := c.Classify(context.Background(), "아무 관련 없는 임의의 문장입니다")
	if res.Category != category.Unclassified {
		t.Fatalf("off-topic question should be unclassified, got %s (best=%.3f)", res.Category, res.Best)
	}
}

func TestEmbedderFailureDegrades(t *testing.T) {
	emb := &fakeEmbedder{rules: testRules()}
	c := warmedClassifier(t, emb)
	emb.fail = true

	res := c.Classify(context.Background(), "본인의 강점을 말해주세요")
	if res.Category != category.Unclassified {
		t.Fatalf("backend failure must degrade to unclassified, got %s", res.Category)
	}
}

func TestNotReadyClassifiesUnclassified(t *testing.T) {
	c := New(&fakeEmbedder{rules: testRules()}, 0.58, 0.15, log.New(testWriter{t}, "", 0))

	res := c.Classify(context.Background(), "본인의 강점을 말해주세요")
	if res.Category != category.Unclassified {
		t.Fatalf("pre-warmup classification should be unclassified, got %s", res.Category)
	}

	// Chips still work before warmup.
	res = c.Classify(context.Background(), "지원 동기는 무엇인가요")
	if res.Category != category.Motivation || !res.ChipMatch {
		t.Fatalf("chip fast path should not need warmup, got %+v", res)
	}
}

func TestWarmupFailureLeavesDegradedMode(t *testing.T) {
	emb := &fakeEmbedder{rules: testRules(), fail: true}
	c := New(emb, 0.58, 0.15, log.New(testWriter{t}, "", 0))

	if err := c.Warmup(context.Background()); err == nil {
		t.Fatalf("warmup should report the failure")
	}
	if c.Ready() {
		t.Fatalf("failed warmup must not mark classifier ready")
	}

	res := c.Classify(context.Background(), "본인의 강점")
	if res.Category != category.Unclassified {
		t.Fatalf("degraded mode must classify unclassified, got %s", res.Category)
	}
}

func TestCosineSimilarity(t *testing.T) {
	cases := []struct {
		a, b []float32
		want float64
	}{
		{[]float32{1, 0}, []float32{1, 0}, 1},
		{[]float32{1, 0}, []float32{0, 1}, 0},
		{[]float32{1, 1}, []float32{1, 0}, 1 / math.Sqrt2},
	}
	for i, tc := range cases {
		got, err := cosineSimilarity(tc.a, tc.b)
		if err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("case %d: want %f, got %f", i, tc.want, got)
		}
	}

	if _, err := cosineSimilarity([]float32{1}, []float32{1, 2}); err == nil {
		t.Fatalf("dimension mismatch should error")
	}
	if _, err := cosineSimilarity([]float32{0, 0}, []float32{1, 0}); err == nil {
		t.Fatalf("zero vector should error")
	}
}

func TestMeanVector(t *testing.T) {
	got, err := meanVector([][]float32{{1, 0}, {0, 1}})
	if err != nil {
		t.Fatalf("mean: %v", err)
	}
	if got[0] != 0.5 || got[1] != 0.5 {
		t.Fatalf("want [0.5 0.5], got %v", got)
	}

	if _, err := meanVector(nil); err == nil {
		t.Fatalf("empty input should error")
	}
	if _, err := meanVector([][]float32{{1}, {1, 2}}); err == nil {
		t.Fatalf("ragged input should error")
	}
}
