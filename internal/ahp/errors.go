package ahp

import (
	"fmt"
	"net/http"
)

// InvalidInputError is returned when a priority ranking is not a permutation of 1..8
// over the required dimension codes.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid priority ranking: " + e.Reason
}

// StatusCode maps the error to an HTTP status.
func (e *InvalidInputError) StatusCode() int { return http.StatusBadRequest }

// UnsupportedDimensionCountError is returned when the random index table has no
// entry for a matrix of size N.
type UnsupportedDimensionCountError struct {
	N int
}

func (e *UnsupportedDimensionCountError) Error() string {
	return fmt.Sprintf("unsupported matrix dimension %d: random index defined for 1..%d", e.N, len(randomIndex))
}

func (e *UnsupportedDimensionCountError) StatusCode() int { return http.StatusBadRequest }
