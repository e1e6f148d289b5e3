package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound   = errors.New("not found")
	ErrBusyTyping = errors.New("a reply is still being typed")
	ErrNoSession  = errors.New("no active session")
)
