package schedule

import "errors"

// Custom schedule engine errors
var (
	// ErrReferenceNotFound indicates a spot, show, or DJ id in a record did
	// not resolve to a persisted entity
	ErrReferenceNotFound = errors.New("referenced entity not found")

	// ErrMalformedRecord indicates a batch record was missing a required
	// field or carried a non-numeric value
	ErrMalformedRecord = errors.New("malformed spot record")

	// ErrScheduleNotFound indicates the target schedule does not exist
	ErrScheduleNotFound = errors.New("schedule not found")

	// ErrInvalidIncrement indicates a grid increment outside (0, 86400]
	ErrInvalidIncrement = errors.New("invalid grid increment")
)

// IsReferenceNotFound checks if the error is a reference lookup failure
func IsReferenceNotFound(err error) bool {
	return errors.Is(err, ErrReferenceNotFound)
}

// IsMalformedRecord checks if the error is a malformed record error
func IsMalformedRecord(err error) bool {
	return errors.Is(err, ErrMalformedRecord)
}
