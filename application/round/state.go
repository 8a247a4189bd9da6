package round

// Status is the lifecycle state of a processing run.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusRunning    Status = "running"
	StatusCancelling Status = "cancelling"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// IsActive returns true while the run is still producing results.
func (s Status) IsActive() bool {
	return s == StatusRunning || s == StatusCancelling
}

// IsFinished returns true once the run has reached a terminal state.
func (s Status) IsFinished() bool {
	return s == StatusCompleted || s == StatusFailed
}
