package usecase

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"log"
	"strings"
	"time"

	"sseojum/internal/crawler"
)

// JobInfo is a crawled job posting staged for an upcoming upload.
type JobInfo struct {
	URL             string   `json:"url"`
	JobDescription  string   `json:"job_description"`
	TitleCandidates []string `json:"title_candidates"`
}

type JobInfoUsecase interface {
	Preload(ctx context.Context, rawURL string) (JobInfo, error)
	Staged(ctx context.Context, rawURL string) (JobInfo, bool)
}

type JobCrawler interface {
	Fetch(ctx context.Context, rawURL string) (crawler.Result, error)
}

type JobInfoCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

// JobInfoService crawls a job-posting URL once and stages the result in the
// cache so the subsequent upload call can reuse it without a second crawl.
type JobInfoService struct {
	crawler JobCrawler
	cache   JobInfoCache
	logger  *log.Logger
}

func NewJobInfoUsecase(c JobCrawler, cache JobInfoCache, logger *log.Logger) *JobInfoService {
	if logger == nil {
		logger = log.Default()
	}
	return &JobInfoService{crawler: c, cache: cache, logger: logger}
}

func (s *JobInfoService) Preload(ctx context.Context, rawURL string) (JobInfo, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return JobInfo{}, ErrInvalidInput
	}

	if staged, ok := s.Staged(ctx, rawURL); ok {
		return staged, nil
	}

	res, err := s.crawler.Fetch(ctx, rawURL)
	if err != nil {
		return JobInfo{}, err
	}

	info := JobInfo{
		URL:             rawURL,
		JobDescription:  res.JobDescription,
		TitleCandidates: res.TitleCandidates,
	}
	if err := s.cache.SetJSON(ctx, jobInfoKey(rawURL), info, 0); err != nil {
		s.logger.Printf("jobinfo: staging cache write failed for %s: %v", rawURL, err)
	}
	return info, nil
}

func (s *JobInfoService) Staged(ctx context.Context, rawURL string) (JobInfo, bool) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return JobInfo{}, false
	}
	var info JobInfo
	ok, err := s.cache.GetJSON(ctx, jobInfoKey(rawURL), &info)
	if err != nil || !ok {
		return JobInfo{}, false
	}
	return info, true
}

func jobInfoKey(rawURL string) string {
	h := sha1.Sum([]byte(rawURL))
	return "jobinfo:" + hex.EncodeToString(h[:])
}
