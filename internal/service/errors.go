package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shortenerproject/shortener/internal/alias"
)

// Service errors. Callers match them with errors.Is.
var (
	ErrInvalidOriginURL = errors.New("invalid origin URL")
	ErrOwnerNotFound    = errors.New("owner not found")
	ErrAliasNotFound    = errors.New("alias not found")
	// ErrOriginURLTooLong is the ErrInvalidOriginURL case for an origin of
	// more than maxOriginURLLength characters.
	ErrOriginURLTooLong = fmt.Errorf("%w: longer than %d characters", ErrInvalidOriginURL, maxOriginURLLength)
	// ErrRecordNotFound covers both a missing record and a record owned by
	// someone else.
	ErrRecordNotFound   = errors.New("record not found")
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrAllocationExhausted is an operational fault: every alias candidate
	// within the attempt budget was already taken.
	ErrAllocationExhausted = alias.ErrExhausted
)

// unavailable marks err as a store failure while keeping the cause
// reachable through errors.Is and errors.As. Cancellation and deadline
// errors belong to the caller and pass through unmarked.
func unavailable(err error) error {
	if errors.Is(err, ErrStoreUnavailable) || isContextError(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
