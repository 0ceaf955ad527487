package service

import "errors"

// Sentinel kinds for service errors. The HTTP layer maps them to status codes.
var (
	ErrBadRequest     = errors.New("bad request")
	ErrPlayerNotFound = errors.New("player not found")
	ErrUpstream       = errors.New("upstream failure")
	ErrInvalidRecord  = errors.New("invalid player record")
)
