// Package validate probes cited source URLs for accessibility. Validation
// is a diagnostic layer on the final report; it never changes a verdict.
package validate

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/claimlens/claimlens/internal/model"
	"github.com/claimlens/claimlens/internal/util"
)

const validateMaxRetries = 3

// validateSleepFunc is the sleep function used between retries (injectable for tests)
var validateSleepFunc = time.Sleep

// Validator probes cited sources concurrently
type Validator struct {
	httpClient *http.Client
	maxWorkers int
	robots     *util.RobotsChecker
	userAgent  string
}

// NewValidator creates a new validator
func NewValidator(cfg model.ValidateConfig) *Validator {
	maxWorkers := cfg.Workers
	if maxWorkers <= 0 {
		maxWorkers = 8
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Validator{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		maxWorkers: maxWorkers,
		robots:     util.NewRobotsChecker(cfg.UserAgent, timeout),
		userAgent:  cfg.UserAgent,
	}
}

// Validate probes all URLs concurrently and returns results in input order.
func (v *Validator) Validate(ctx context.Context, urls []string) []model.SourceValidation {
	if len(urls) == 0 {
		return []model.SourceValidation{}
	}

	results := make([]model.SourceValidation, len(urls))
	var wg sync.WaitGroup

	// Semaphore bounds concurrent probes
	semaphore := make(chan struct{}, v.maxWorkers)

	for i, u := range urls {
		wg.Add(1)
		go func(idx int, url string) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = model.SourceValidation{
					URL:   url,
					Error: "context cancelled",
				}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			results[idx] = v.probeWithRetry(ctx, url)
		}(i, u)
	}

	wg.Wait()

	return results
}

// probe checks a single URL with a HEAD request, honoring robots.txt
func (v *Validator) probe(ctx context.Context, url string) model.SourceValidation {
	result := model.SourceValidation{URL: url}

	allowed, err := v.robots.CanFetch(ctx, url)
	if err != nil {
		result.Error = fmt.Sprintf("robots check: %v", err)
		return result
	}
	if !allowed {
		result.Error = "disallowed by robots.txt"
		return result
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		result.Error = fmt.Sprintf("create request: %v", err)
		return result
	}
	req.Header.Set("User-Agent", v.userAgent)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		result.Error = fmt.Sprintf("request failed: %v", err)
		return result
	}
	defer func() { _ = resp.Body.Close() }()

	result.StatusCode = resp.StatusCode
	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		result.IsAccessible = true
	}
	if resp.Request.URL.String() != url {
		result.RedirectURL = resp.Request.URL.String()
	}

	return result
}

// probeWithRetry retries transient failures with exponential backoff
func (v *Validator) probeWithRetry(ctx context.Context, url string) model.SourceValidation {
	var result model.SourceValidation
	for attempt := 0; attempt < validateMaxRetries; attempt++ {
		result = v.probe(ctx, url)
		if !isRetryable(result) || ctx.Err() != nil {
			return result
		}
		if attempt < validateMaxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			validateSleepFunc(backoff)
		}
	}
	return result
}

// isRetryable returns true for results that indicate transient failures
func isRetryable(result model.SourceValidation) bool {
	if result.StatusCode >= 500 && result.StatusCode < 600 {
		return true
	}
	if result.StatusCode == 429 {
		return true
	}
	if result.Error != "" {
		s := strings.ToLower(result.Error)
		return strings.Contains(s, "timeout") ||
			strings.Contains(s, "connection refused") ||
			strings.Contains(s, "connection reset")
	}
	return false
}
