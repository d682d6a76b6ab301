package domain

import "errors"

var ErrUnauthorized = errors.New("authentication required")
var ErrNoSession = errors.New("no active session")
var ErrNoStoredSession = errors.New("no stored session")
var ErrEmptyContent = errors.New("post content is empty")
var ErrBusy = errors.New("operation already in flight")
var ErrConnectionPending = errors.New("platform connection not yet visible")
