// Package captcha provides solvers for the numeric captcha gating the web
// treasure-box claim.
package captcha

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/bilive-keeper/internal/domain"
	"github.com/bnema/bilive-keeper/internal/ports"
)

const (
	defaultRequestTimeout = 20 * time.Second
	maxAnswerBytes        = 64
)

// RemoteSolver posts the captcha image to an external recognition service
// and expects the numeric answer as the response body. An answer the
// service cannot produce is reported as domain.ErrCaptchaUnsolved, which
// the claim sequence treats as recoverable.
type RemoteSolver struct {
	Endpoint       string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

var _ ports.CaptchaSolver = (*RemoteSolver)(nil)

func (s *RemoteSolver) Solve(ctx context.Context, image []byte) (int, error) {
	if s.Endpoint == "" {
		return -1, errors.New("captcha solver endpoint is required")
	}
	if len(image) == 0 {
		return -1, domain.ErrCaptchaUnsolved
	}

	requestTimeout := s.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}
	requestCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, s.Endpoint, bytes.NewReader(image))
	if err != nil {
		return -1, fmt.Errorf("create solve request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	httpClient := s.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return -1, fmt.Errorf("solve captcha: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return -1, fmt.Errorf("solve captcha: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAnswerBytes))
	if err != nil {
		return -1, fmt.Errorf("read solve response: %w", err)
	}

	answer, err := strconv.Atoi(strings.TrimSpace(string(body)))
	if err != nil || answer < 0 {
		return -1, domain.ErrCaptchaUnsolved
	}

	return answer, nil
}

// DisabledSolver rejects every captcha. Wired when no recognition service
// is configured, so cookie-only accounts degrade to the retry policy
// instead of failing hard.
type DisabledSolver struct{}

var _ ports.CaptchaSolver = DisabledSolver{}

func (DisabledSolver) Solve(context.Context, []byte) (int, error) {
	return -1, domain.ErrCaptchaUnsolved
}
