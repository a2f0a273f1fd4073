package ports

import "context"

// CaptchaSolver turns a captcha image into a numeric answer. Implementations
// return domain.ErrCaptchaUnsolved when no answer could be produced; the
// claim state machine treats that as a recoverable failure.
type CaptchaSolver interface {
	Solve(ctx context.Context, image []byte) (int, error)
}
