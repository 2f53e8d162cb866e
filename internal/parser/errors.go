package parser

import "fmt"

// MalformedLineError is returned when a line carries an event phrase but one
// of the fields required for that event is missing or out of its domain.
type MalformedLineError struct {
	Line   string
	Field  string
	Reason string
	Err    error
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("malformed line %q: %s: %s", e.Line, e.Field, e.Reason)
}

func (e *MalformedLineError) Unwrap() error {
	return e.Err
}

func malformed(line, field, format string, args ...any) *MalformedLineError {
	return &MalformedLineError{Line: line, Field: field, Reason: fmt.Sprintf(format, args...)}
}

// GameError ties a parse failure to the game log it came from.
// LineNumber is 1-based and zero when the failure concerns the whole log.
type GameError struct {
	Source     string
	LineNumber int
	Err        error
}

func (e *GameError) Error() string {
	if e.LineNumber > 0 {
		return fmt.Sprintf("game %s, line %d: %v", e.Source, e.LineNumber, e.Err)
	}
	return fmt.Sprintf("game %s: %v", e.Source, e.Err)
}

func (e *GameError) Unwrap() error {
	return e.Err
}
