package scheduler

import "errors"

// ErrStopped is returned when work is handed to a loop that has stopped.
var ErrStopped = errors.New("scheduler: loop stopped")
