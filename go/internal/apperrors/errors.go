package apperrors

import "errors"

// Error kinds shared across the draft services and the HTTP mapping. Wrap them
// with fmt.Errorf("context: %w", Err...) and test with errors.Is.
var (
	// ErrConfiguration: the draft setup is invalid and must be fixed by the
	// commissioner before building (bad rounds/time, team count, order mode).
	ErrConfiguration = errors.New("invalid draft configuration")

	// ErrState: the operation is not valid in the draft's or pick's current
	// state (picking on an inactive draft, no pick on the clock, and so on).
	ErrState = errors.New("operation not valid in current draft state")

	// ErrAuthorization: the acting user does not manage the team on the clock.
	ErrAuthorization = errors.New("acting user does not own this pick")

	// ErrConflict: a uniqueness rule lost a race or was violated (player
	// already drafted, duplicate order position). Expected under concurrency;
	// callers should re-fetch state.
	ErrConflict = errors.New("conflicting draft update")

	// ErrNotFound: unknown draft, team or player id.
	ErrNotFound = errors.New("requested resource not found")
)
