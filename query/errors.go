package query

import "errors"

// ErrQueryCancelled is surfaced to the awaiter of a fetch that was
// superseded by a newer invalidation or removal before it completed. The
// cache entry itself is left untouched, per the superseded-fetch contract.
var ErrQueryCancelled = errors.New("query: fetch was superseded")
