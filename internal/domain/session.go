package domain

// Session is the immutable per-round credential handle for one account.
// It is resolved once when a round starts and injected into every task
// instance; tasks never re-resolve credentials mid-flight.
type Session struct {
	AccountID AccountID
	Nickname  string

	// AccessToken authenticates the signed (client-app) endpoints.
	AccessToken string
	// Cookie authenticates the web (browsing-session) endpoints.
	Cookie string
}

func (s Session) HasToken() bool {
	return s.AccessToken != ""
}

func (s Session) HasCookie() bool {
	return s.Cookie != ""
}

func (s Session) Label() string {
	if s.Nickname != "" {
		return s.Nickname
	}
	return string(s.AccountID)
}
