package core

import "errors"

// ErrWindowUnavailable marks a window-store read that failed after
// retries. Unlike retrieval degradation it is fatal to the request: the
// window is the primary memory and its absence is user-visible.
var ErrWindowUnavailable = errors.New("window store unavailable")
