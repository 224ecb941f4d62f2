package validate

import (
	"errors"
	"fmt"

	"github.com/Justype/qcsub/internal/env"
	"github.com/Justype/qcsub/internal/job"
)

// ErrInvalidJob is returned by Result.Err when any check failed.
var ErrInvalidJob = errors.New("job failed validation")

// ProblemKind identifies which check failed.
type ProblemKind string

const (
	ProblemInputMissing   ProblemKind = "input"
	ProblemOutputExists   ProblemKind = "output"
	ProblemThreads        ProblemKind = "threads"
	ProblemWallTime       ProblemKind = "walltime"
	ProblemMemory         ProblemKind = "memory"
	ProblemRestartDir     ProblemKind = "restart"
	ProblemOutDirAbsolute ProblemKind = "outdir"
	ProblemBranch         ProblemKind = "branch"
	ProblemInstall        ProblemKind = "install"
	ProblemScratch        ProblemKind = "scratch"
	ProblemAuxData        ProblemKind = "auxdata"
	ProblemPlatform       ProblemKind = "platform"
)

// Problem is one failed check.
type Problem struct {
	Kind    ProblemKind
	Message string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s", p.Kind, p.Message)
}

// Result is the outcome of Validate. Job and Env are the validated values that
// script generation and submission consume.
type Result struct {
	Job      job.Job
	Env      env.Reader
	Problems []Problem
	Warnings []string
}

// Count returns the number of detected problems. Zero means the job may proceed.
func (r *Result) Count() int {
	if r == nil {
		return 0
	}
	return len(r.Problems)
}

// OK reports whether every check passed.
func (r *Result) OK() bool {
	return r != nil && len(r.Problems) == 0
}

// CountKind returns how many problems of kind were reported.
func (r *Result) CountKind(kind ProblemKind) int {
	n := 0
	for _, p := range r.Problems {
		if p.Kind == kind {
			n++
		}
	}
	return n
}

// Has reports whether a problem of kind was reported.
func (r *Result) Has(kind ProblemKind) bool {
	return r.CountKind(kind) > 0
}

// Err returns nil for a valid job, otherwise ErrInvalidJob wrapped with the tally.
func (r *Result) Err() error {
	if r.OK() {
		return nil
	}
	if r == nil {
		return fmt.Errorf("%w: not validated", ErrInvalidJob)
	}
	return fmt.Errorf("%w: %d problem(s)", ErrInvalidJob, len(r.Problems))
}
