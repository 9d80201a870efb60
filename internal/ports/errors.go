package ports

import "errors"

// ErrCacheMiss is returned by Cache.Get when a key is absent or expired.
// Store implementations translate their native miss signal so callers can
// tell "absent" from "store unavailable".
var ErrCacheMiss = errors.New("cache: key not found")
