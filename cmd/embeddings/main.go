// Command embeddings precomputes the classifier category centroids and
// writes them as JSON, so the server can boot with CENTROIDS_FILE instead
// of embedding every canonical question during warmup.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"sseojum/internal/ai/category"
	"sseojum/internal/ai/classifier"
	"sseojum/internal/ai/vertex"
	"sseojum/internal/config"
)

type centroidEntry struct {
	Key    string    `json:"key"`
	Vector []float32 `json:"vector"`
}

func main() {
	out := flag.String("out", "centroids.json", "output file for the category centroids")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	client, err := vertex.NewClient(ctx, cfg.VertexAI)
	if err != nil {
		log.Fatalf("failed to create vertex client: %v", err)
	}

	entries, err := computeCentroids(ctx, client)
	if err != nil {
		log.Fatalf("failed to compute centroids: %v", err)
	}

	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		log.Fatalf("failed to encode centroids: %v", err)
	}
	if err := os.WriteFile(*out, b, 0o644); err != nil {
		log.Fatalf("failed to write %s: %v", *out, err)
	}
	log.Printf("wrote %d category centroids to %s", len(entries), *out)
}

func computeCentroids(ctx context.Context, embedder classifier.Embedder) ([]centroidEntry, error) {
	entries := make([]centroidEntry, 0, len(category.CanonicalQuestions))
	for _, cat := range category.All() {
		questions := category.CanonicalQuestions[cat]
		if len(questions) == 0 {
			return nil, fmt.Errorf("category %s has no canonical questions", cat)
		}

		var sum []float64
		for _, q := range questions {
			vec, err := embedder.Embed(ctx, q, classifier.TaskRetrievalDocument)
			if err != nil {
				return nil, fmt.Errorf("embed %q: %w", q, err)
			}
			if sum == nil {
				sum = make([]float64, len(vec))
			}
			if len(vec) != len(sum) {
				return nil, fmt.Errorf("category %s: inconsistent embedding dimensions", cat)
			}
			for i, v := range vec {
				sum[i] += float64(v)
			}
		}

		centroid := make([]float32, len(sum))
		for i, v := range sum {
			centroid[i] = float32(v / float64(len(questions)))
		}
		entries = append(entries, centroidEntry{Key: string(cat), Vector: centroid})
		log.Printf("category %s: centroid from %d questions (%d dims)", cat, len(questions), len(centroid))
	}
	return entries, nil
}
