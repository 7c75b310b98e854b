package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"github.com/gocolly/colly/v2"
	"github.com/temoto/robotstxt"

	"sseojum/internal/config"
)

const crawlerUserAgent = "sseojum-crawler/0.1"

var (
	ErrInvalidURL          = errors.New("invalid job posting url")
	ErrDisallowedByRobots  = errors.New("url disallowed by robots.txt")
	ErrInsufficientContent = errors.New("page yielded insufficient job description text")
)

// Result is the cleaned output of one job-posting fetch.
type Result struct {
	JobDescription  string
	TitleCandidates []string
	UsedHeadless    bool
}

// Crawler turns a job-posting URL into cleaned description text. A static
// colly fetch runs first; when the page is JS-rendered and the static pass
// yields too little text, a headless browser pass retries the same URL.
type Crawler struct {
	timeout       time.Duration
	minTextLength int
	useHeadless   bool
	logger        *log.Logger
	httpClient    *http.Client

	// replaceable so tests do not need a browser
	headlessFetch func(ctx context.Context, pageURL string) (string, error)
}

func New(cfg config.CrawlerConfig, logger *log.Logger) *Crawler {
	if logger == nil {
		logger = log.Default()
	}
	c := &Crawler{
		timeout:       cfg.Timeout,
		minTextLength: cfg.MinTextLength,
		useHeadless:   cfg.UseHeadless,
		logger:        logger,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
	if c.timeout <= 0 {
		c.timeout = 25 * time.Second
	}
	if c.minTextLength <= 0 {
		c.minTextLength = 200
	}
	c.headlessFetch = c.fetchHeadless
	return c
}

// Fetch crawls one job-posting URL and returns the cleaned description.
func (c *Crawler) Fetch(ctx context.Context, rawURL string) (Result, error) {
	u, err := parseJobURL(rawURL)
	if err != nil {
		return Result{}, err
	}

	allowed, err := c.robotsAllowed(ctx, u)
	if err != nil {
		c.logger.Printf("crawler: robots.txt check failed for %s, proceeding: %v", u.Host, err)
	} else if !allowed {
		return Result{}, ErrDisallowedByRobots
	}

	html, err := c.fetchStatic(ctx, u.String())
	if err != nil {
		return Result{}, fmt.Errorf("fetch job posting: %w", err)
	}

	res, ok := c.extract(html)
	if ok {
		return res, nil
	}

	if !c.useHeadless {
		if res.JobDescription == "" {
			return Result{}, ErrInsufficientContent
		}
		return res, nil
	}

	c.logger.Printf("crawler: static fetch of %s insufficient (%d chars), retrying headless", u.Host, len(res.JobDescription))

	headlessHTML, err := c.headlessFetch(ctx, u.String())
	if err != nil {
		if res.JobDescription != "" {
			return res, nil
		}
		return Result{}, fmt.Errorf("headless fetch: %w", err)
	}

	headlessRes, ok := c.extract(headlessHTML)
	headlessRes.UsedHeadless = true
	if ok {
		return headlessRes, nil
	}
	if len(headlessRes.JobDescription) > len(res.JobDescription) {
		res = headlessRes
	}
	if res.JobDescription == "" {
		return Result{}, ErrInsufficientContent
	}
	return res, nil
}

func parseJobURL(rawURL string) (*url.URL, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, ErrInvalidURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, ErrInvalidURL
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidURL
	}
	return u, nil
}

func (c *Crawler) robotsAllowed(ctx context.Context, u *url.URL) (bool, error) {
	robotsURL := u.Scheme + "://" + u.Host + "/robots.txt"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return true, err
	}
	req.Header.Set("User-Agent", crawlerUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		// no robots.txt means no restrictions
		return true, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return true, err
	}
	robots, err := robotstxt.FromBytes(body)
	if err != nil {
		return true, err
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	return robots.FindGroup(crawlerUserAgent).Test(path), nil
}

func (c *Crawler) fetchStatic(ctx context.Context, pageURL string) (string, error) {
	col := colly.NewCollector()
	col.SetRequestTimeout(c.timeout)
	_ = col.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: 1, Delay: 300 * time.Millisecond})

	col.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", crawlerUserAgent)
		r.Headers.Set("Accept-Language", "ko-KR,ko;q=0.9,en;q=0.5")
	})

	var html string
	col.OnResponse(func(r *colly.Response) {
		html = string(r.Body)
	})

	var reqErr error
	col.OnError(func(r *colly.Response, err error) {
		reqErr = err
	})

	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if err := col.Visit(pageURL); err != nil {
		return "", err
	}
	col.Wait()
	if reqErr != nil {
		return "", reqErr
	}
	if strings.TrimSpace(html) == "" {
		return "", fmt.Errorf("empty response body")
	}
	return html, nil
}

func (c *Crawler) fetchHeadless(ctx context.Context, pageURL string) (string, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(crawlerUserAgent),
		)...,
	)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	reqCtx, reqCancel := context.WithTimeout(browserCtx, c.timeout)
	defer reqCancel()

	var html string
	err := chromedp.Run(reqCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(1500*time.Millisecond),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", err
	}
	return html, nil
}

// extract cleans the raw HTML and reports whether the result passes the
// sufficiency check (enough text, and it looks like a job posting).
func (c *Crawler) extract(html string) (Result, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Result{}, false
	}

	titles := titleCandidates(doc)

	doc.Find("script, style, noscript, iframe, svg, nav, header, footer, aside, form").Remove()
	text := cleanText(doc.Find("body").Text())

	res := Result{JobDescription: text, TitleCandidates: titles}
	return res, c.sufficient(text)
}

func titleCandidates(doc *goquery.Document) []string {
	var out []string
	seen := map[string]struct{}{}
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		add(og)
	}
	add(doc.Find("title").First().Text())
	add(doc.Find("h1").First().Text())
	return out
}

var blankRunRe = regexp.MustCompile(`\n{2,}`)

func cleanText(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	joined := strings.Join(lines, "\n")
	joined = blankRunRe.ReplaceAllString(joined, "\n")
	return strings.TrimSpace(joined)
}

var jobKeywords = []string{
	"자격", "우대", "업무", "채용", "모집", "경력", "지원",
	"responsibilit", "requirement", "qualification", "experience",
}

func (c *Crawler) sufficient(text string) bool {
	if len(text) < c.minTextLength {
		return false
	}
	lower := strings.ToLower(text)
	for _, kw := range jobKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
