// Package easing derives and evaluates the three-phase motion curves used by
// the playback controller.
//
// A curve moves a value from Start to End in up to three phases:
//
//	accelerate  x = A·t²                   (uniform acceleration from rest)
//	linear      x = v·t                    (cruise at the linear rate)
//	decelerate  x = DA·t² + DB·t           (uniform deceleration back to rest)
//
// The phases are joined so that both the value and its first derivative are
// continuous at each boundary. Derive solves for the coefficients once per
// play session; ValueAt is then a pure function of elapsed time.
//
// New curve families implement Strategy; the controller never needs to know
// which one it is driving.
package easing
