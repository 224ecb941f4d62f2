// Package job defines the configuration of a single Q-Chem batch submission.
package job

import (
	"path/filepath"

	"github.com/Justype/qcsub/internal/utils"
)

// OutputExt is appended to the input base name when no output path is given.
const OutputExt = ".out"

// CheckpointExt is appended to the input base name for the bare-mode checkpoint file.
const CheckpointExt = ".chk"

// Job holds everything needed to build and submit one batch job.
// The validator fills Output and InputAbs; after that a Job is treated as read-only.
type Job struct {
	Input    string // input file as given on the command line
	InputAbs string // absolute input path (set by validation)
	Output   string // output/log path; derived from Input when empty
	WorkDir  string // submission directory

	Threads   int
	MemMB     int
	TimeHours int

	Queue   string // queue or partition, optional
	Branch  string // alternate install path or name under $QCROOT, optional
	OutDir  string // relative output/scratch subdirectory
	Restart string // restart input directory, optional

	Save     bool // keep scratch output
	Bare     bool // call the compute executable directly
	Slurm    bool // submit with sbatch instead of qsub
	CoreDump bool // raise the core-dump limit
	DryRun   bool // validate and print only
}

// Name is the run name: the input file name without directory or extension.
func (j Job) Name() string {
	return utils.BaseNameNoExt(j.Input)
}

// DefaultOutput is the output path used when none was given: <name>.out in the work directory.
func (j Job) DefaultOutput() string {
	name := j.Name() + OutputExt
	if j.WorkDir == "" {
		return name
	}
	return filepath.Join(j.WorkDir, name)
}

// CheckpointName is the checkpoint file name exported in bare mode.
func (j Job) CheckpointName() string {
	return j.Name() + CheckpointExt
}

// Abs resolves path against the work directory.
func (j Job) Abs(path string) string {
	if filepath.IsAbs(path) || j.WorkDir == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(j.WorkDir, path)
}

// OutDirAbs is the user output directory under the work directory.
func (j Job) OutDirAbs() string {
	return j.Abs(j.OutDir)
}

// WallSeconds is the wall-clock limit in seconds (PBS walltime).
func (j Job) WallSeconds() int {
	return j.TimeHours * 3600
}

// WallMinutes is the wall-clock limit in minutes (Slurm --time).
func (j Job) WallMinutes() int {
	return j.TimeHours * 60
}
