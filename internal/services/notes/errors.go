package notes

import "errors"

// ErrClosed is returned by a coordinator after Close.
var ErrClosed = errors.New("coordinator closed")

// ErrNoCurrentKey is returned by Retry before any Query.
var ErrNoCurrentKey = errors.New("no current query key")
