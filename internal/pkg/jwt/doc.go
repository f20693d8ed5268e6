// Package jwt issues and verifies the session tokens handed out after a
// successful login.
//
// It includes a Claims type (registered claims plus the principal), an HS512
// implementation, and context helpers for the authenticated claims.
package jwt
