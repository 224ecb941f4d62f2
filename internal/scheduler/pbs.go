package scheduler

import (
	"fmt"
	"strconv"

	"github.com/Justype/qcsub/internal/job"
)

// PbsBinary is the default PBS submission command.
const PbsBinary = "qsub"

// PbsScheduler implements the Scheduler interface for PBS/Torque
type PbsScheduler struct {
	qsubBin string
}

// NewPbsScheduler creates a PBS scheduler; an empty qsubBin means "qsub" from PATH.
func NewPbsScheduler(qsubBin string) *PbsScheduler {
	if qsubBin == "" {
		qsubBin = PbsBinary
	}
	return &PbsScheduler{qsubBin: qsubBin}
}

func (p *PbsScheduler) Type() SchedulerType { return SchedulerPBS }

func (p *PbsScheduler) Binary() string { return p.qsubBin }

func (p *PbsScheduler) JobIDVar() string { return "$PBS_JOBID" }

// SubmitArgs builds the qsub arguments. Walltime is given in seconds.
//
//	qsub -V -j oe -o <out> -N <name> -l nodes=1:ppn=<n> -l mem=<m>mb -l walltime=<s> [-q <queue>]
func (p *PbsScheduler) SubmitArgs(j job.Job) []string {
	args := []string{
		"-V",
		"-j", "oe",
		"-o", j.Output,
		"-N", j.Name(),
		"-l", fmt.Sprintf("nodes=1:ppn=%d", j.Threads),
		"-l", fmt.Sprintf("mem=%dmb", j.MemMB),
		"-l", "walltime=" + strconv.Itoa(j.WallSeconds()),
	}
	if j.Queue != "" {
		args = append(args, "-q", j.Queue)
	}
	return args
}
