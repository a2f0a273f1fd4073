package domain

// AuthSignalKind classifies a terminal authentication failure. These are
// surfaced to the operator layer and never retried by the scheduler, since
// retrying cannot succeed without new credentials.
type AuthSignalKind string

const (
	SessionInvalid AuthSignalKind = "session_invalid"
	TokenInvalid   AuthSignalKind = "token_invalid"
)

type AuthSignal struct {
	AccountID AccountID
	Kind      AuthSignalKind
}
