package ahp

import (
	"fmt"
	"sort"
	"strings"
)

// PriorityRanking assigns each dimension a distinct rank, 1 being the most important.
type PriorityRanking map[Dimension]int

// ParsePriorities converts a decoded request body into a validated ranking.
func ParsePriorities(raw map[string]int) (PriorityRanking, error) {
	if len(raw) == 0 {
		return nil, &InvalidInputError{Reason: "priorities are required"}
	}
	r := make(PriorityRanking, len(raw))
	var unknown []string
	for code, rank := range raw {
		d := Dimension(strings.ToUpper(strings.TrimSpace(code)))
		if !d.Valid() {
			unknown = append(unknown, code)
			continue
		}
		r[d] = rank
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &InvalidInputError{Reason: "unknown dimension codes: " + strings.Join(unknown, ", ")}
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// NaturalRanking ranks the dimensions in their fixed order, RL first.
func NaturalRanking() PriorityRanking {
	r := make(PriorityRanking, DimensionCount)
	for i, d := range dimensionOrder {
		r[d] = i + 1
	}
	return r
}

// Validate checks that every dimension is present and the ranks are exactly 1..8.
func (r PriorityRanking) Validate() error {
	seen := make(map[int]Dimension, DimensionCount)
	for _, d := range dimensionOrder {
		rank, ok := r[d]
		if !ok {
			return &InvalidInputError{Reason: "missing dimension: " + string(d)}
		}
		if rank < 1 || rank > DimensionCount {
			return &InvalidInputError{Reason: fmt.Sprintf("rank %d for %s is outside 1..%d", rank, d, DimensionCount)}
		}
		if prev, dup := seen[rank]; dup {
			return &InvalidInputError{Reason: fmt.Sprintf("rank %d assigned to both %s and %s", rank, prev, d)}
		}
		seen[rank] = d
	}
	if len(r) != DimensionCount {
		return &InvalidInputError{Reason: fmt.Sprintf("expected %d dimensions, got %d", DimensionCount, len(r))}
	}
	return nil
}

// Codes returns the ranking keyed by dimension code, for serialization.
func (r PriorityRanking) Codes() map[string]int {
	out := make(map[string]int, len(r))
	for d, rank := range r {
		out[string(d)] = rank
	}
	return out
}
