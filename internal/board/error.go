package board

import "fmt"

// OutOfBoundsError is the panic value for coordinates outside the board or
// for non-positive board dimensions. Both are caller bugs.
type OutOfBoundsError struct {
	Row, Column   int
	Rows, Columns int
}

// [OutOfBoundsError] implements [error]
func (e OutOfBoundsError) Error() string {
	return fmt.Sprintf(
		"cell %d:%d is out of bounds of a %dx%d board",
		e.Row, e.Column, e.Rows, e.Columns,
	)
}

// AssertionError is the panic value for broken internal invariants.
type AssertionError struct {
	message string
}

// [AssertionError] implements [error]
func (e AssertionError) Error() string {
	return e.message
}
