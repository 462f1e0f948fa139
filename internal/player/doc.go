// Package player drives a single integer value along an easing curve in
// real time.
//
// A Controller is configured with an easing.Config, then played with Start,
// Continue or ReverseContinue. Each play session derives fresh easing
// factors, registers a repeating tick with a scheduler.Scheduler and reports
// every changed value to the progress callback until the end of the segment
// is reached, at which point the completion callback fires exactly once.
//
// The controller performs no locking. Every method and every tick must run
// on the scheduler's callback goroutine (see scheduler.Loop.Post), and the
// progress and completion callbacks must not call back into the controller
// synchronously.
package player
