package script

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Justype/qcsub/internal/env"
	"github.com/Justype/qcsub/internal/job"
	"github.com/Justype/qcsub/internal/utils"
	"github.com/Justype/qcsub/internal/validate"
)

// ErrNotValidated is returned when generation is asked for a job that did not pass validation.
var ErrNotValidated = errors.New("script requested for a job that failed validation")

// TimestampFormat is the time component of bare-mode scratch directory names.
const TimestampFormat = "20060102-150405"

const separator = "========================================"

// Options controls the parts of the script that depend on where and when it is generated.
type Options struct {
	JobIDVar string           // shell expression for the scheduler job id, e.g. "$PBS_JOBID"
	Now      func() time.Time // clock for the bare-mode scratch name; time.Now when nil
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// Generate builds the job script for a validated job. The result must carry no problems.
func Generate(res *validate.Result, opts Options) (*Script, error) {
	if res == nil || !res.OK() || res.Env == nil {
		return nil, ErrNotValidated
	}

	j := res.Job
	e := res.Env
	s := New()

	writeHeader(s, j, e, opts.JobIDVar)
	s.Blank()
	if j.Bare {
		writeBare(s, j, e, opts)
	} else {
		writeWrapped(s, j, e)
	}
	s.Blank()
	writeFooter(s, opts.JobIDVar)

	return s, nil
}

// BareScratchDir is the per-invocation scratch directory used in bare mode. The job id
// variable expands on the node; everything before it is literal.
func BareScratchDir(j job.Job, e env.Reader, jobIDVar string, now time.Time) Arg {
	prefix := filepath.Join(e.Get(env.VarScratch), fmt.Sprintf("%s.%s.", j.Name(), now.Format(TimestampFormat)))
	return Concat(Quote(prefix), Expand(jobIDVar))
}

// RunDir is the scratch run directory used by the launcher in wrapped mode.
func RunDir(j job.Job, e env.Reader) string {
	return filepath.Join(e.Get(env.VarScratch), j.Name())
}

// ScratchOutput is where the launcher writes its output in wrapped mode.
func ScratchOutput(j job.Job, e env.Reader) string {
	return filepath.Join(e.Get(env.VarScratch), j.Name()+job.OutputExt)
}

func writeBare(s *Script, j job.Job, e env.Reader, opts Options) {
	scratchDir := BareScratchDir(j, e, opts.JobIDVar, opts.now())

	s.Add(Word("mkdir"), Word("-p"), scratchDir)
	if j.Restart != "" {
		rsync(s, dirArg(j.Restart), Concat(scratchDir, Quote("/")))
	}
	s.Add(Word("cd"), scratchDir)
	if j.CoreDump {
		s.Add(Word("ulimit"), Word("-c"), Word("unlimited"))
	}
	s.AddRedirect("2>&1", Quote(e.Get(env.VarProgram)), Quote(j.InputAbs), Quote(j.OutDir))
	if !j.Save {
		s.Add(Word("rm"), Word("-rf"), Quote(j.OutDir))
	}
	rsync(s, Concat(scratchDir, Quote("/")), dirArg(j.WorkDir))
}

func writeWrapped(s *Script, j job.Job, e env.Reader) {
	runDir := RunDir(j, e)
	out := ScratchOutput(j, e)
	launcher := filepath.Join(e.Get(env.VarInstall), validate.LauncherRelPath)

	s.Add(Word("mkdir"), Word("-p"), Quote(runDir))
	if j.Restart != "" {
		rsync(s, dirArg(j.Restart), dirArg(runDir))
	}
	s.Add(Word("cd"), Quote(j.WorkDir))
	if j.CoreDump {
		s.Add(Word("ulimit"), Word("-c"), Word("unlimited"))
	}

	args := []Arg{}
	if j.Save {
		args = append(args, Word("-save"))
	}
	args = append(args,
		Word("-nt"), Word(strconv.Itoa(j.Threads)),
		Quote(j.InputAbs), Quote(out), Quote(j.Name()),
	)
	s.Add(Quote(launcher), args...)
	if j.Save {
		rsync(s, dirArg(runDir), dirArg(j.OutDirAbs()))
	}

	s.Add(Word("cat"), Quote(out))
	s.Add(Word("rm"), Word("-f"), Quote(out))
	s.Add(Word("rm"), Word("-rf"), Quote(runDir))
}

// rsync copies the contents of src into dst. Both must end in exactly one slash.
func rsync(s *Script, src, dst Arg) {
	s.Add(Word("rsync"), Word("-a"), src, dst)
}

// dirArg quotes a directory path with exactly one trailing slash.
func dirArg(path string) Arg {
	return Quote(utils.WithTrailingSlash(path))
}

// writeHeader writes the job info block printed at the top of the scheduler log.
func writeHeader(s *Script, j job.Job, e env.Reader, jobIDVar string) {
	mode := "launcher"
	if j.Bare {
		mode = "bare"
	}
	s.Raw("# Print job information")
	s.Raw("_START_TIME=$SECONDS")
	s.Raw("_format_time() { local s=$1; printf '%02d:%02d:%02d' $((s/3600)) $((s%3600/60)) $((s%60)); }")
	s.Echo(Quote(separator))
	s.Echo(Quote("Job ID:    "), Expand(jobIDVar))
	s.Echo(Quote("Job Name:  " + j.Name()))
	s.Echo(Quote("Input:     " + j.InputAbs))
	s.Echo(Quote("Mode:      " + mode))
	s.Echo(Quote(fmt.Sprintf("Threads:   %d", j.Threads)))
	s.Echo(Quote(fmt.Sprintf("Memory:    %d MB", j.MemMB)))
	s.Echo(Quote(fmt.Sprintf("Time:      %02d:00:00", j.TimeHours)))
	s.Echo(Quote("Install:   " + e.Get(env.VarInstall)))
	s.Echo(Quote("Host:      "), Expand("$(hostname)"))
	s.Echo(Quote("Started:   "), Expand("$(date '+%Y-%m-%d %T')"))
	s.Echo(Quote(separator))
}

// writeFooter writes the completion block.
func writeFooter(s *Script, jobIDVar string) {
	s.Echo(Quote(separator))
	s.Echo(Quote("Job ID:    "), Expand(jobIDVar))
	s.Echo(Quote("Elapsed:   "), Expand("$(_format_time $(($SECONDS - $_START_TIME)))"))
	s.Echo(Quote("Completed: "), Expand("$(date '+%Y-%m-%d %T')"))
	s.Echo(Quote(separator))
}
