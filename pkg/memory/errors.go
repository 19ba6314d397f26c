package memory

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// NotFoundError is returned when the document file does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("memory document not found: %s", e.Path)
}

// AlreadyExistsError is returned when init or the importer targets a
// location that already holds a document.
type AlreadyExistsError struct {
	Path string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("memory document already exists: %s", e.Path)
}

// FeatureNotFoundError is returned when an operation names a feature ID
// that is not in the document.
type FeatureNotFoundError struct {
	FeatureID string
}

func (e *FeatureNotFoundError) Error() string {
	return fmt.Sprintf("feature not found: %s", e.FeatureID)
}

// DuplicateFeatureError is returned when adding a feature whose ID is
// already taken.
type DuplicateFeatureError struct {
	FeatureID string
}

func (e *DuplicateFeatureError) Error() string {
	return fmt.Sprintf("feature %s already exists", e.FeatureID)
}

// AlreadyLockedError is returned when lock is called while another
// feature is held. It names the current holder so the caller can decide
// what to do next.
type AlreadyLockedError struct {
	FeatureID string // Feature currently held
	Owner     string // Identity recorded at acquisition, may be empty
}

func (e *AlreadyLockedError) Error() string {
	if e.Owner != "" {
		return fmt.Sprintf("already locked: feature %s is held by %s", e.FeatureID, e.Owner)
	}
	return fmt.Sprintf("already locked: feature %s is in progress", e.FeatureID)
}

// InvalidStatusError is returned when a status value is not a member of
// the feature status enum.
type InvalidStatusError struct {
	Status string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid status %q (valid: untested, passing, failing, in_progress, blocked)", e.Status)
}

// InvalidTransitionError is returned when a status change is not in the
// transition table.
type InvalidTransitionError struct {
	FeatureID string
	From, To  Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition for %s: %s -> %s", e.FeatureID, e.From, e.To)
}

// LockNotStaleError is returned by conditional unlock when the lock is
// younger than the staleness threshold.
type LockNotStaleError struct {
	FeatureID string
	Owner     string
	Age       time.Duration
	Threshold time.Duration
}

func (e *LockNotStaleError) Error() string {
	return fmt.Sprintf("lock on %s held by %s for %s, not stale yet (threshold %s)",
		e.FeatureID, e.Owner, e.Age.Round(time.Second), e.Threshold)
}

// ValidationFailedError aggregates every structural problem found by
// the validator so callers can report all of them at once.
type ValidationFailedError struct {
	Problems []error
}

func (e *ValidationFailedError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Error()
	}
	return fmt.Sprintf("document validation failed (%d problems): %s", len(e.Problems), strings.Join(msgs, "; "))
}

// RevisionConflictError is returned when the on-disk revision changed
// underneath a mutation, which means a non-cooperating writer bypassed
// the advisory lock.
type RevisionConflictError struct {
	Expected, Found int64
}

func (e *RevisionConflictError) Error() string {
	return fmt.Sprintf("revision conflict: expected %d on disk, found %d (concurrent writer?)", e.Expected, e.Found)
}

// IsNotFound returns true if the error means the document is missing.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsAlreadyLocked returns true if the error is a lock conflict.
func IsAlreadyLocked(err error) bool {
	var al *AlreadyLockedError
	return errors.As(err, &al)
}
