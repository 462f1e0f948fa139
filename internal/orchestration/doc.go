// Package orchestration runs playback sessions: it owns the scheduler loop
// a controller ticks on, forwards controller transitions onto that loop,
// fans value reports out to a ProgressReporter, and ties the optional
// metrics server into the same lifecycle.
package orchestration
