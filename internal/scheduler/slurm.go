package scheduler

import (
	"fmt"

	"github.com/Justype/qcsub/internal/job"
)

// SlurmBinary is the default Slurm submission command.
const SlurmBinary = "sbatch"

// SlurmScheduler implements the Scheduler interface for SLURM
type SlurmScheduler struct {
	sbatchBin string
}

// NewSlurmScheduler creates a SLURM scheduler; an empty sbatchBin means "sbatch" from PATH.
func NewSlurmScheduler(sbatchBin string) *SlurmScheduler {
	if sbatchBin == "" {
		sbatchBin = SlurmBinary
	}
	return &SlurmScheduler{sbatchBin: sbatchBin}
}

func (s *SlurmScheduler) Type() SchedulerType { return SchedulerSLURM }

func (s *SlurmScheduler) Binary() string { return s.sbatchBin }

func (s *SlurmScheduler) JobIDVar() string { return "$SLURM_JOB_ID" }

// SubmitArgs builds the sbatch arguments. Time is given in minutes, memory in MB.
func (s *SlurmScheduler) SubmitArgs(j job.Job) []string {
	args := []string{
		"--export=ALL",
		"--output=" + j.Output,
		"--job-name=" + j.Name(),
		"--ntasks=1",
		fmt.Sprintf("--cpus-per-task=%d", j.Threads),
		fmt.Sprintf("--mem=%d", j.MemMB),
		fmt.Sprintf("--time=%d", j.WallMinutes()),
	}
	if j.Queue != "" {
		args = append(args, "--partition="+j.Queue)
	}
	return args
}
