package scheduler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/Justype/qcsub/internal/env"
	"github.com/Justype/qcsub/internal/job"
	"github.com/Justype/qcsub/internal/utils"
)

// Runner runs one external command to completion and reports its exit status.
type Runner interface {
	Run(name string, args []string, stdin []byte, environ []string) (int, error)
}

// ExecRunner runs commands with os/exec, passing stdout and stderr through.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run resolves name on PATH and waits for it. A missing binary yields ExitNotFound
// and ErrSchedulerNotFound; a nonzero exit yields the command's own status.
func (r ExecRunner) Run(name string, args []string, stdin []byte, environ []string) (int, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return ExitNotFound, fmt.Errorf("%w: %s: %v", ErrSchedulerNotFound, name, err)
	}

	cmd := exec.Command(path, args...)
	cmd.Stdin = bytes.NewReader(stdin)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	cmd.Env = environ

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return ExitFailure, err
	}
	return 0, nil
}

// Submit sends script to the scheduler and returns the submission command's exit status.
//
// When the job saves its output the user output directory is created first.
// The environment snapshot becomes the child's environment, so variables
// resolved during validation reach the job through qsub -V / sbatch --export=ALL.
func Submit(s Scheduler, j job.Job, script []byte, e env.Reader, r Runner) (int, error) {
	if j.Save {
		dir := j.OutDirAbs()
		if err := utils.EnsureDir(dir); err != nil {
			return ExitFailure, fmt.Errorf("%w %s: %v", ErrOutputDir, dir, err)
		}
		utils.PrintDebug("Created output directory %s", utils.StylePath(dir))
	}

	if r == nil {
		r = ExecRunner{}
	}

	args := s.SubmitArgs(j)
	utils.PrintDebug("Executing: %s", utils.StyleCommand(CommandLine(s, j)))

	code, err := r.Run(s.Binary(), args, script, e.Environ())
	if err != nil {
		return code, NewSubmissionError(s.Type(), j.Name(), code, err)
	}
	if code != 0 {
		return code, NewSubmissionError(s.Type(), j.Name(), code, ErrJobSubmissionFailed)
	}
	return 0, nil
}
