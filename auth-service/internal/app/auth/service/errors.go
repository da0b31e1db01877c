package service

import "errors"

// Сервисные ошибки, которые handler транслирует в HTTP статусы
var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrNotApproved         = errors.New("account is pending admin approval")
	ErrEmailTaken          = errors.New("email is already registered")
	ErrAccountNotFound     = errors.New("account not found")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrLastAdmin           = errors.New("cannot delete the last admin account")
)
