// Package hash provides helpers for hashing and verifying secrets.
//
// Two implementations are provided. Bcrypt is slow and salted and is meant for
// passwords. HMACSHA256 is fast and deterministic and is meant for short lived
// secrets that must never be stored in clear, such as login confirmation codes.
package hash
