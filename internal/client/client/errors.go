package client

import "errors"

var (
	ErrUnavailable     = errors.New("server unavailable")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotSignedIn     = errors.New("not signed in")
	ErrAlreadyExists   = errors.New("account already exists")
	ErrAccountNotFound = errors.New("account not found")
)
