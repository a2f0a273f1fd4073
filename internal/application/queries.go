package application

import "github.com/bnema/bilive-keeper/internal/domain"

// Status is the read model rendered by `bk status`.
type Status struct {
	Account          domain.Account
	TokenConfigured  bool
	CookieConfigured bool
}

func statusFor(account domain.Account) Status {
	return Status{
		Account:          account,
		TokenConfigured:  account.Credentials.AccessTokenRef != "",
		CookieConfigured: account.Credentials.CookieRef != "",
	}
}
