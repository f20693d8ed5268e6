// Package clock provides a tiny time abstraction.
//
// Code that compares against expiry instants depends on Clocker instead of
// calling time.Now directly, so tests can freeze and advance time with Manual.
package clock
