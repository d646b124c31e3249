package yt_dlp_api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable means the upstream resource does not exist or is restricted.
	ErrUnavailable = errors.New("resource not found or unavailable")
	// ErrBadInput means the caller supplied a malformed or disallowed value.
	ErrBadInput = errors.New("invalid input")
	// ErrUpstreamUnreachable means a third-party fetch failed at the transport level.
	ErrUpstreamUnreachable = errors.New("upstream unreachable")
)

// UpstreamStatusError carries an error status code returned by a third party, to be
// passed through to the caller unchanged.
type UpstreamStatusError struct {
	StatusCode int
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}
