package domain

type CredentialKind string

const (
	CredentialAccessToken CredentialKind = "access_token"
	CredentialCookie      CredentialKind = "cookie"
)

func (k CredentialKind) Valid() bool {
	switch k {
	case CredentialAccessToken, CredentialCookie:
		return true
	default:
		return false
	}
}
