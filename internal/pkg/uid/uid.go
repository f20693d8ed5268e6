// Package uid generates identifiers.
//
// StringID is used for opaque identifiers such as correlation and token ids.
// NumberID is used for primary keys (snowflake).
package uid

import "github.com/google/uuid"

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}

// NumberID generates positive, roughly time ordered int64 identifiers.
type NumberID interface {
	Generate() int64
}

// UUID is a StringID producing version 7 UUIDs, so ids sort by creation time
// in logs and token stores.
type UUID struct{}

func NewUUID() *UUID { return &UUID{} }

func (*UUID) Generate() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	// The v7 clock source failed, random ids keep callers working.
	return uuid.NewString()
}
