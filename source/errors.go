package source

import (
	"errors"
	"fmt"
)

// ErrNotFound signals the source was reachable but returned no match for the
// query. The resolver uses it to decide whether a fallback query is worth
// trying.
var ErrNotFound = errors.New("source: track not found")

// ErrUnreachable indicates a transport failure or non-success status from
// the metadata source.
type ErrUnreachable struct {
	Err error
}

func (e ErrUnreachable) Error() string {
	return fmt.Errorf("source unreachable: %w", e.Err).Error()
}

func (e ErrUnreachable) Unwrap() error {
	return e.Err
}

// ErrExtraction indicates the source responded but the expected structure
// (JSON fields, label paragraphs) could not be located. Not retried.
type ErrExtraction struct {
	Err error
}

func (e ErrExtraction) Error() string {
	return fmt.Errorf("extraction failed: %w", e.Err).Error()
}

func (e ErrExtraction) Unwrap() error {
	return e.Err
}

// Retriable reports whether err should degrade to a fallback query instead
// of aborting the lookup. Both an empty result and an unreachable source
// qualify; a broken detail page does not.
func Retriable(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var unreachable ErrUnreachable
	return errors.As(err, &unreachable)
}

func errorTypeLabel(err error) string {
	if err == nil {
		return "unknown"
	}
	if errors.Is(err, ErrNotFound) {
		return "not_found"
	}
	var unreachable ErrUnreachable
	if errors.As(err, &unreachable) {
		return "unreachable"
	}
	var extraction ErrExtraction
	if errors.As(err, &extraction) {
		return "extraction"
	}
	return "other"
}
