package saga

import "errors"

// ErrCancelled is returned from any suspension point (Select, Delay, Call)
// inside a task whose ancestor was cancelled (spec's saga cancellation
// propagation, mirrored from reacton's own ErrCancelled sentinel).
var ErrCancelled = errors.New("saga: task was cancelled")
