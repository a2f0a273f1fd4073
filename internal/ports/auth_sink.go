package ports

import "github.com/bnema/bilive-keeper/internal/domain"

// AuthSink receives terminal authentication failures. The scheduler calls it
// synchronously and performs no remediation itself; re-login belongs to the
// operator layer.
type AuthSink interface {
	SessionInvalid(id domain.AccountID)
	TokenInvalid(id domain.AccountID)
}
