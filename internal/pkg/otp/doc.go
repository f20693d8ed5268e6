// Package otp generates one-time confirmation codes delivered out of band
// (for example by SMS).
//
// Codes are drawn from crypto/rand. They carry no secret of their own: the
// caller stores a keyed digest of the code together with an expiry and
// compares the digest when the code comes back.
package otp
