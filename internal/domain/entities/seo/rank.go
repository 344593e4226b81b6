package seo

import (
	"fmt"
	"strings"
)

// Rank is the discrete quality tier derived from the composite score.
type Rank string

const (
	RankS Rank = "S"
	RankA Rank = "A"
	RankB Rank = "B"
	RankC Rank = "C"
)

var rankOrdinals = map[Rank]int{
	RankS: 4,
	RankA: 3,
	RankB: 2,
	RankC: 1,
}

// Ordinal orders ranks S > A > B > C. Unknown ranks are 0.
func (r Rank) Ordinal() int {
	return rankOrdinals[r]
}

// Valid reports whether r is one of S, A, B, C.
func (r Rank) Valid() bool {
	_, ok := rankOrdinals[r]
	return ok
}

// AtLeast reports whether r is ranked at or above min.
func (r Rank) AtLeast(min Rank) bool {
	return r.Ordinal() >= min.Ordinal()
}

// ParseRank accepts s/a/b/c in any case.
func ParseRank(s string) (Rank, error) {
	r := Rank(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown rank %q", ErrInvalidFilter, s)
	}
	return r, nil
}
