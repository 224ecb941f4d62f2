// Package scheduler builds PBS and Slurm submission commands and runs them,
// feeding the job script on standard input.
package scheduler

import (
	"os/exec"
	"strings"

	"github.com/Justype/qcsub/internal/env"
	"github.com/Justype/qcsub/internal/job"
)

// SchedulerType represents the type of job scheduler
type SchedulerType string

const (
	SchedulerUnknown SchedulerType = ""
	SchedulerSLURM   SchedulerType = "SLURM"
	SchedulerPBS     SchedulerType = "PBS"
)

// SchedulerInfo holds information about the detected scheduler
type SchedulerInfo struct {
	Type      SchedulerType // Scheduler type
	Binary    string        // Path to scheduler binary (e.g., "/usr/bin/sbatch")
	InJob     bool          // Whether we're currently inside a scheduled job
	Available bool          // Whether the binary was found
}

// Scheduler describes how one batch system is driven.
type Scheduler interface {
	// Type returns the scheduler kind.
	Type() SchedulerType

	// Binary returns the submission command: a configured path or the default name.
	Binary() string

	// JobIDVar is the shell expression that expands to the job id on the compute node.
	JobIDVar() string

	// SubmitArgs returns the arguments for the submission command (without the binary).
	SubmitArgs(j job.Job) []string
}

// New returns the PBS or Slurm scheduler. bin overrides the default command name.
func New(slurm bool, bin string) Scheduler {
	if slurm {
		return NewSlurmScheduler(bin)
	}
	return NewPbsScheduler(bin)
}

// CommandLine renders the full submission command for display.
func CommandLine(s Scheduler, j job.Job) string {
	parts := append([]string{s.Binary()}, s.SubmitArgs(j)...)
	for i, p := range parts {
		if strings.ContainsAny(p, " \t\"'$") {
			parts[i] = "'" + strings.ReplaceAll(p, "'", `'\''`) + "'"
		}
	}
	return strings.Join(parts, " ")
}

// GetInfo reports whether the scheduler's binary resolves on this machine.
func GetInfo(s Scheduler, e env.Reader) *SchedulerInfo {
	info := &SchedulerInfo{
		Type:   s.Type(),
		Binary: s.Binary(),
		InJob:  IsInsideJob(e),
	}
	if path, err := exec.LookPath(s.Binary()); err == nil {
		info.Binary = path
		info.Available = true
	}
	return info
}

// DetectType returns the type of scheduler available on the system.
func DetectType() SchedulerType {
	if _, err := exec.LookPath(SlurmBinary); err == nil {
		return SchedulerSLURM
	}
	// TODO: Distinguish PBS from other qsub implementations (SGE, etc.)
	if _, err := exec.LookPath(PbsBinary); err == nil {
		return SchedulerPBS
	}
	return SchedulerUnknown
}

// IsInsideJob reports whether e belongs to a running scheduler job.
func IsInsideJob(e env.Reader) bool {
	for _, key := range []string{"SLURM_JOB_ID", "PBS_JOBID"} {
		if _, ok := e.Lookup(key); ok {
			return true
		}
	}
	return false
}
