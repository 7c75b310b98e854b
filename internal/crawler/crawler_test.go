package crawler

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sseojum/internal/config"
)

const jobPageHTML = `<!DOCTYPE html>
<html>
<head>
<title>백엔드 개발자 채용 | 쎠줌컴퍼니</title>
<meta property="og:title" content="백엔드 개발자 (3년 이상)"/>
<script>window.tracker = "should never appear";</script>
</head>
<body>
<nav>메뉴 홈 로그인</nav>
<h1>백엔드 개발자</h1>
<div class="content">
<p>주요 업무: Go 기반 API 서버 개발 및 운영, 데이터 파이프라인 유지보수를 담당합니다.</p>
<p>자격 요건: 서버 개발 경력 3년 이상, RDBMS 사용 경험이 있으신 분을 찾습니다.</p>
<p>우대 사항: 대용량 트래픽 처리 경험, 클라우드 인프라 운영 경험.</p>
</div>
<footer>회사 소개 채용 문의</footer>
</body>
</html>`

func newTestCrawler(minLen int, useHeadless bool) *Crawler {
	return New(config.CrawlerConfig{
		Timeout:       5 * time.Second,
		MinTextLength: minLen,
		UseHeadless:   useHeadless,
	}, log.New(io.Discard, "", 0))
}

func TestFetchStaticPage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/job", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(jobPageHTML))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestCrawler(50, false)
	res, err := c.Fetch(context.Background(), srv.URL+"/job")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if !strings.Contains(res.JobDescription, "자격 요건") {
		t.Errorf("description missing requirements section: %q", res.JobDescription)
	}
	if strings.Contains(res.JobDescription, "should never appear") {
		t.Error("script content leaked into the description")
	}
	if strings.Contains(res.JobDescription, "메뉴 홈 로그인") {
		t.Error("nav content leaked into the description")
	}
	if res.UsedHeadless {
		t.Error("static fetch should not report headless use")
	}

	wantTitles := map[string]bool{}
	for _, title := range res.TitleCandidates {
		wantTitles[title] = true
	}
	if !wantTitles["백엔드 개발자 (3년 이상)"] {
		t.Errorf("og:title candidate missing, got %v", res.TitleCandidates)
	}
	if !wantTitles["백엔드 개발자"] {
		t.Errorf("h1 candidate missing, got %v", res.TitleCandidates)
	}
}

func TestFetchRespectsRobotsDisallow(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
	})
	mux.HandleFunc("/private/job", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(jobPageHTML))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestCrawler(50, false)
	_, err := c.Fetch(context.Background(), srv.URL+"/private/job")
	if !errors.Is(err, ErrDisallowedByRobots) {
		t.Fatalf("err = %v, want ErrDisallowedByRobots", err)
	}
}

func TestFetchFallsBackToHeadless(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/job", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div id="root"></div></body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestCrawler(50, true)
	var headlessCalls int
	c.headlessFetch = func(_ context.Context, pageURL string) (string, error) {
		headlessCalls++
		return jobPageHTML, nil
	}

	res, err := c.Fetch(context.Background(), srv.URL+"/job")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if headlessCalls != 1 {
		t.Errorf("headless calls = %d, want 1", headlessCalls)
	}
	if !res.UsedHeadless {
		t.Error("result should report headless use")
	}
	if !strings.Contains(res.JobDescription, "우대 사항") {
		t.Errorf("headless description missing content: %q", res.JobDescription)
	}
}

func TestFetchInsufficientEvenAfterHeadless(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/job", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><script>boot()</script></body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestCrawler(50, true)
	c.headlessFetch = func(context.Context, string) (string, error) {
		return `<html><body><script>boot()</script></body></html>`, nil
	}

	_, err := c.Fetch(context.Background(), srv.URL+"/job")
	if !errors.Is(err, ErrInsufficientContent) {
		t.Fatalf("err = %v, want ErrInsufficientContent", err)
	}
}

func TestFetchRejectsInvalidURL(t *testing.T) {
	c := newTestCrawler(50, false)
	for _, raw := range []string{"", "   ", "ftp://example.com/job", "not a url", "/relative/path"} {
		if _, err := c.Fetch(context.Background(), raw); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("Fetch(%q) err = %v, want ErrInvalidURL", raw, err)
		}
	}
}
