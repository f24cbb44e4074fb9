package patslot

import "github.com/fzzzy/mumulib/internal/errors"

// Sentinel errors, matched with errors.Is.
var (
	// ErrPatternNotFound is returned when no node carries the requested data-pat.
	ErrPatternNotFound = errors.New("M001")

	// ErrInvalidAttributeBinding is returned when an element value is bound
	// to an attribute.
	ErrInvalidAttributeBinding = errors.New("M002")

	// ErrTemplateFetchFailed is returned when an alternate template source
	// cannot be fetched.
	ErrTemplateFetchFailed = errors.New("M003")

	// ErrTemplateParseFailed is returned when a fetched template cannot be parsed.
	ErrTemplateParseFailed = errors.New("M004")

	// ErrDeferredFailed is returned when a deferred slot value rejects.
	ErrDeferredFailed = errors.New("M005")
)
