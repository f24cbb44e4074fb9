// Package errors provides coded, actionable errors for mumulib.
//
// Each error has a unique code (e.g., "M001") that maps to a category, a
// short message and a longer explanation. Errors compare equal under
// errors.Is when their codes match, so packages can export sentinels built
// from codes and still attach per-call detail:
//
//	var ErrPatternNotFound = errors.New("M001")
//
//	return errors.New("M001").WithDetail(`no pattern named "person"`)
//
// Format renders the error for a terminal:
//
//	ERROR M001: Pattern not found
//
//	  no pattern named "person"
//
//	  Hint: Check that an element carries data-pat="person"
package errors
