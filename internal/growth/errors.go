package growth

import "errors"

var (
	// ErrInvalidConfig wraps every configuration rejection.
	ErrInvalidConfig = errors.New("invalid growth configuration")
	// ErrInsufficientDensity is returned when the soil index is too sparse to
	// steer a root toward its target.
	ErrInsufficientDensity = errors.New("insufficient soil density")
)

// Status is the displayable outcome of a growth call.
type Status struct {
	Success bool
	Message string
}

// Describe converts the error returned by a growth entry point into a Status.
func Describe(err error) Status {
	if err == nil {
		return Status{Success: true, Message: "ok"}
	}
	return Status{Success: false, Message: err.Error()}
}
