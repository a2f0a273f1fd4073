package domain

import "errors"

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrRoomNotFound      = errors.New("room not found")
	ErrSecretNotFound    = errors.New("secret not found")
	ErrCredentialMissing = errors.New("account credential missing")
	ErrCaptchaUnsolved   = errors.New("captcha unsolved")
)
