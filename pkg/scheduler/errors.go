package scheduler

import "errors"

var (
	// ErrWeekBusy means another run or clear is active for the same week.
	// The caller may retry once the holder finishes.
	ErrWeekBusy = errors.New("another scheduling operation is running for this week")

	// ErrInvalidWindow means a fairness query mixed or omitted window forms
	ErrInvalidWindow = errors.New("fairness window requires either period_days or start_date and end_date")

	// ErrStaffNotFound is returned by staff-filtered fairness queries
	ErrStaffNotFound = errors.New("staff not found")
)

// ValidationError rejects a request before any engine invocation or state
// mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Reason
}

// PersistError distinguishes "scheduling computed results but could not save
// them" from slot-level failures. Result holds what the engine achieved.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return "scheduled but failed to persist assignments: " + e.Err.Error()
}

func (e *PersistError) Unwrap() error { return e.Err }
