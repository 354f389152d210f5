package ppt

import "fmt"

// FormatError is returned when PPT text does not follow the grammar.
// Line is 1-based and refers to the original input.
type FormatError struct {
	Line   int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}
