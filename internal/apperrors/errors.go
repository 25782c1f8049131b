package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrStoreUnavailable indicates the backing store could not be reached.
// Transient; callers may retry.
var ErrStoreUnavailable = errors.New("store unavailable")

// ErrPersistFailure indicates a snapshot write did not commit. Retryable,
// but retry policy belongs to the invoking trigger, not to the writer.
var ErrPersistFailure = errors.New("persist failure")

// ErrNoAccounts is the defined empty-result outcome of an aggregation:
// the user has no active accounts, so no snapshot is written.
// This is a normal outcome, not a failure.
var ErrNoAccounts = errors.New("no accounts to aggregate")

// ErrUnauthenticated indicates the caller presented no valid identity.
// Fatal for that call; not retryable without new credentials.
var ErrUnauthenticated = errors.New("unauthenticated")
