package client

import "errors"

var (
	ErrUnavailable           = errors.New("server unavailable")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrLocalDataNotAvailable = errors.New("local data unavailable")
	ErrUnknownResource       = errors.New("unknown resource")
)
