package asyncpool

import "errors"

// ErrNotAvailable is returned by the ambient SubmitAwaitable when no
// pool has been started with Init, or it has already been torn down
// with Shutdown.
var ErrNotAvailable = errors.New("asyncpool: no pool is available")
