package query

import (
	"errors"
	"fmt"
)

// ErrTooFewGames is returned when fewer than two games contributed samples,
// leaving the t distribution without degrees of freedom.
var ErrTooFewGames = errors.New("too few games for a confidence interval")

// EmptySelectionError is returned when a query matches no row/seat combination.
type EmptySelectionError struct {
	Query Query
}

func (e *EmptySelectionError) Error() string {
	return fmt.Sprintf("empty selection for %s", e.Query)
}
