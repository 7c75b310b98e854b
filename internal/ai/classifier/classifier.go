package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"sort"
	"strings"
	"sync/atomic"

	"sseojum/internal/ai/category"
)

// Embedder produces a fixed-length vector for one input string. TaskType
// follows the Vertex AI convention: canonical questions are embedded as
// documents, incoming questions as queries.
type Embedder interface {
	Embed(ctx context.Context, text string, taskType string) ([]float32, error)
}

const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// Classifier maps a free-text question to its best-fitting category, or
// Unclassified when no confident match exists. Centroids are computed once
// during Warmup and read-only afterwards, so Classify is safe for concurrent
// use. Until warmup completes (or if it failed) every question classifies as
// Unclassified; generation proceeds on the generic guideline either way.
type Classifier struct {
	embedder  Embedder
	threshold float64
	margin    float64
	chips     map[string]category.Category
	logger    *log.Logger

	centroids map[category.Category][]float32
	ready     atomic.Bool
}

type Option func(*Classifier)

func WithChips(chips map[string]category.Category) Option {
	return func(c *Classifier) { c.chips = chips }
}

func New(embedder Embedder, threshold, margin float64, logger *log.Logger, opts ...Option) *Classifier {
	if logger == nil {
		logger = log.Default()
	}
	c := &Classifier{
		embedder:  embedder,
		threshold: threshold,
		margin:    margin,
		chips:     category.Chips,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Warmup embeds the canonical questions for every category, averages them
// into centroids, and issues one throwaway query embedding so the backend's
// lazy connection setup is not paid by the first real request. A failure
// leaves the classifier in degraded mode rather than returning an error the
// caller could do anything useful with; the error is returned for logging.
func (c *Classifier) Warmup(ctx context.Context) error {
	if c == nil || c.embedder == nil {
		return fmt.Errorf("classifier warmup: no embedder configured")
	}

	centroids := make(map[category.Category][]float32, len(category.CanonicalQuestions))
	for cat, questions := range category.CanonicalQuestions {
		vecs := make([][]float32, 0, len(questions))
		for _, q := range questions {
			v, err := c.embedder.Embed(ctx, q, TaskRetrievalDocument)
			if err != nil {
				return fmt.Errorf("embed canonical question for %s: %w", cat, err)
			}
			vecs = append(vecs, v)
		}
		centroid, err := meanVector(vecs)
		if err != nil {
			return fmt.Errorf("centroid for %s: %w", cat, err)
		}
		centroids[cat] = centroid
	}

	if _, err := c.embedder.Embed(ctx, "warmup", TaskRetrievalQuery); err != nil {
		return fmt.Errorf("warmup query embedding: %w", err)
	}

	c.centroids = centroids
	c.ready.Store(true)
	c.logger.Printf("classifier warmup complete: %d category centroids", len(centroids))
	return nil
}

// LoadCentroids installs precomputed centroids (the cmd/embeddings output)
// instead of embedding canonical questions at boot. The embedder is still
// needed at classify time.
func (c *Classifier) LoadCentroids(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var entries []struct {
		Key    string    `json:"key"`
		Vector []float32 `json:"vector"`
	}
	if err := json.Unmarshal(b, &entries); err != nil {
		return fmt.Errorf("parse centroids file: %w", err)
	}

	centroids := make(map[category.Category][]float32, len(entries))
	for _, e := range entries {
		cat := category.Category(e.Key)
		if !cat.Valid() || cat == category.Unclassified {
			return fmt.Errorf("centroids file: unknown category %q", e.Key)
		}
		if len(e.Vector) == 0 {
			return fmt.Errorf("centroids file: empty vector for %q", e.Key)
		}
		centroids[cat] = e.Vector
	}
	if len(centroids) != len(category.All()) {
		return fmt.Errorf("centroids file: have %d categories, want %d", len(centroids), len(category.All()))
	}

	c.centroids = centroids
	c.ready.Store(true)
	c.logger.Printf("classifier loaded %d precomputed centroids from %s", len(centroids), path)
	return nil
}

// Ready reports whether warmup has completed.
func (c *Classifier) Ready() bool {
	return c != nil && c.ready.Load()
}

// Result carries the classification outcome. Scores are present only when
// the embedding path ran, for logging and tuning.
type Result struct {
	Category  category.Category
	ChipMatch bool
	Best      float64
	Second    float64
}

// Classify is a pure function of the question text and the fixed category
// set; no session state affects it. Embedding failures degrade to
// Unclassified, never to an error.
func (c *Classifier) Classify(ctx context.Context, questionText string) Result {
	trimmed := strings.TrimSpace(questionText)
	if trimmed == "" {
		return Result{Category: category.Unclassified}
	}

	if cat, ok := c.chips[trimmed]; ok {
		return Result{Category: cat, ChipMatch: true}
	}

	if !c.Ready() {
		return Result{Category: category.Unclassified}
	}

	vec, err := c.embedder.Embed(ctx, trimmed, TaskRetrievalQuery)
	if err != nil {
		c.logger.Printf("classifier: embedding unavailable, falling back to unclassified: %v", err)
		return Result{Category: category.Unclassified}
	}

	type scored struct {
		cat   category.Category
		score float64
	}
	scores := make([]scored, 0, len(c.centroids))
	for cat, centroid := range c.centroids {
		s, err := cosineSimilarity(vec, centroid)
		if err != nil {
			c.logger.Printf("classifier: similarity against %s failed: %v", cat, err)
			return Result{Category: category.Unclassified}
		}
		scores = append(scores, scored{cat: cat, score: s})
	}
	if len(scores) == 0 {
		return Result{Category: category.Unclassified}
	}

	sort.Slice(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	best := scores[0]
	second := 0.0
	if len(scores) > 1 {
		second = scores[1].score
	}

	res := Result{Best: best.score, Second: second}

	// Both gates must pass: absolute confidence, and enough separation from
	// the runner-up. Compound questions that straddle two categories fail
	// the margin gate and fall back to the generic guideline.
	if best.score < c.threshold || best.score-second < c.margin {
		res.Category = category.Unclassified
		return res
	}

	res.Category = best.cat
	return res
}

func meanVector(vecs [][]float32) ([]float32, error) {
	if len(vecs) == 0 {
		return nil, fmt.Errorf("no vectors")
	}
	dim := len(vecs[0])
	if dim == 0 {
		return nil, fmt.Errorf("zero-dimension vector")
	}
	sum := make([]float64, dim)
	for _, v := range vecs {
		if len(v) != dim {
			return nil, fmt.Errorf("dimension mismatch: %d vs %d", len(v), dim)
		}
		for i, x := range v {
			sum[i] += float64(x)
		}
	}
	out := make([]float32, dim)
	n := float64(len(vecs))
	for i := range sum {
		out[i] = float32(sum[i] / n)
	}
	return out, nil
}

func cosineSimilarity(a, b []float32) (float64, error) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, fmt.Errorf("dimension mismatch: %d vs %d", len(a), len(b))
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0, fmt.Errorf("zero-norm vector")
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), nil
}
