package entity

import (
	"errors"
	"strings"
)

var ErrSortDirectionUnknown = errors.New("identity: sort direction is unknown")

type SortDirection int8

const (
	SortAsc  SortDirection = 0
	SortDesc SortDirection = 1
)

// ParseSortDirection accepts "asc" and "desc" in any case. An empty value is ascending.
func ParseSortDirection(raw string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "asc":
		return SortAsc, nil
	case "desc":
		return SortDesc, nil
	default:
		return SortAsc, ErrSortDirectionUnknown
	}
}

func (sd SortDirection) String() string {
	if sd == SortDesc {
		return "desc"
	}
	return "asc"
}
