package scheduler

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrSchedulerNotFound indicates the scheduler binary was not found
	ErrSchedulerNotFound = errors.New("scheduler binary not found in PATH")

	// ErrJobSubmissionFailed indicates the scheduler rejected the job
	ErrJobSubmissionFailed = errors.New("job submission failed")

	// ErrOutputDir indicates the save directory could not be created
	ErrOutputDir = errors.New("cannot create output directory")
)

// Exit codes reported when the scheduler command itself could not provide one.
const (
	ExitNotFound = 127
	ExitFailure  = 1
)

// SubmissionError represents an error during job submission
type SubmissionError struct {
	Scheduler string // Scheduler name
	JobName   string // Job name
	ExitCode  int    // Exit status of the submission command
	Err       error  // Underlying error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("%s submission failed for job %s (exit %d): %v",
		e.Scheduler, e.JobName, e.ExitCode, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// NewSubmissionError creates a new SubmissionError
func NewSubmissionError(scheduler SchedulerType, jobName string, exitCode int, err error) *SubmissionError {
	return &SubmissionError{
		Scheduler: string(scheduler),
		JobName:   jobName,
		ExitCode:  exitCode,
		Err:       err,
	}
}
