package domain

type AccountID string

type Account struct {
	ID          AccountID
	Nickname    string
	Active      bool
	Tasks       TaskFlags
	Credentials CredentialRefs
}

// TaskFlags selects which scheduled work an account participates in.
type TaskFlags struct {
	DoSign      bool
	TreasureBox bool
	EventRooms  bool
}

type CredentialRefs struct {
	// AccessTokenRef and CookieRef point to secret-store entries,
	// typically in "bilibili://<id>/<kind>" form.
	AccessTokenRef string
	CookieRef      string
}

func (a Account) Label() string {
	if a.Nickname != "" {
		return a.Nickname
	}
	return string(a.ID)
}
