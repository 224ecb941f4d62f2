// Package validate checks a job and its environment before any script is generated.
//
// Every check runs and every failure is reported, so the user sees the full list
// in one pass. Validation is also the only place the environment is mutated:
// thread count, active install, library path, executable path and checkpoint name
// are resolved here so later steps can read them without further checks.
package validate

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/Justype/qcsub/internal/config"
	"github.com/Justype/qcsub/internal/env"
	"github.com/Justype/qcsub/internal/job"
	"github.com/Justype/qcsub/internal/utils"
)

// Install layout relative to an install root.
const (
	ProgramRelPath  = "exe/qcprog.exe"
	LauncherRelPath = "bin/qchem"
	LibRelDir       = "lib"
)

// Options carries host-specific inputs so validation never reads ambient machine state.
type Options struct {
	Host    string              // host name used for the thread-limit lookup
	Limits  config.ThreadLimits // per-cluster thread limits
	AuxVars []string            // auxiliary-data variables that must exist
}

// DefaultOptions builds Options from the loaded configuration.
func DefaultOptions(host string) Options {
	return Options{
		Host:    host,
		Limits:  config.Global.ThreadLimits,
		AuxVars: config.Global.AuxVars,
	}
}

// IsInstall reports whether dir looks like a usable install (the compute executable exists and is executable).
func IsInstall(dir string) bool {
	if dir == "" {
		return false
	}
	return utils.IsExecutable(filepath.Join(dir, ProgramRelPath))
}

type validator struct {
	job  job.Job
	env  *env.Env
	opts Options
	res  *Result
}

// Validate runs all checks against j and e. It mutates e (never the process environment)
// and returns the validated job together with the problems found.
func Validate(j job.Job, e *env.Env, opts Options) *Result {
	v := &validator{
		job:  j,
		env:  e,
		opts: opts,
		res:  &Result{},
	}

	v.checkInput()
	v.checkOutput()
	v.checkThreads()
	v.checkWallTime()
	v.checkMemory()
	v.checkRestart()
	v.checkOutDir()
	v.checkBranch()
	v.checkInstall()
	v.checkScratch()
	v.checkAuxData()
	v.checkPlatform()
	v.exportCheckpoint()

	v.res.Job = v.job
	v.res.Env = v.env
	return v.res
}

func (v *validator) fail(kind ProblemKind, format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	v.res.Problems = append(v.res.Problems, Problem{Kind: kind, Message: msg})
	utils.PrintError("%s", msg)
}

func (v *validator) warn(format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	v.res.Warnings = append(v.res.Warnings, msg)
	utils.PrintWarning("%s", msg)
}

func (v *validator) checkInput() {
	path := v.job.Abs(v.job.Input)
	v.job.InputAbs = path
	if v.job.Input == "" || !utils.FileExists(path) {
		v.fail(ProblemInputMissing, "Input file %s does not exist or is not a regular file", utils.StylePath(v.job.Input))
	}
}

func (v *validator) checkOutput() {
	if v.job.Output == "" {
		v.job.Output = v.job.DefaultOutput()
	} else {
		v.job.Output = v.job.Abs(v.job.Output)
	}
	if utils.PathExists(v.job.Output) {
		v.fail(ProblemOutputExists, "Output file %s already exists; refusing to overwrite", utils.StylePath(v.job.Output))
	}
}

func (v *validator) checkThreads() {
	limit, known := v.opts.Limits.Lookup(v.opts.Host)
	if !known {
		v.warn("Host %s is not in the cluster table; assuming at most %s threads",
			utils.StyleName(utils.ShortHostname(v.opts.Host)), utils.StyleNumber(limit))
	}
	if v.job.Threads < 1 || v.job.Threads > limit {
		v.fail(ProblemThreads, "Thread count %d is outside the allowed range [1, %d]", v.job.Threads, limit)
		return
	}
	v.env.Set(env.VarThreads, strconv.Itoa(v.job.Threads))
}

func (v *validator) checkWallTime() {
	if v.job.TimeHours <= 0 {
		v.fail(ProblemWallTime, "Wall-clock limit must be positive, got %d hour(s)", v.job.TimeHours)
	}
}

func (v *validator) checkMemory() {
	if v.job.MemMB <= 0 {
		v.fail(ProblemMemory, "Memory limit must be positive, got %d MB", v.job.MemMB)
	}
}

func (v *validator) checkRestart() {
	if v.job.Restart == "" {
		return
	}
	v.job.Restart = v.job.Abs(v.job.Restart)
	if !utils.DirExists(v.job.Restart) {
		v.fail(ProblemRestartDir, "Restart directory %s does not exist or is not a directory", utils.StylePath(v.job.Restart))
	}
}

// checkOutDir requires a path below the working directory. Bare mode removes it
// with rm -rf from inside scratch, so ".." components are refused as well.
func (v *validator) checkOutDir() {
	switch {
	case filepath.IsAbs(v.job.OutDir):
		v.fail(ProblemOutDirAbsolute, "Output directory %s must be a relative path", utils.StylePath(v.job.OutDir))
	case !filepath.IsLocal(filepath.Clean(v.job.OutDir)):
		v.fail(ProblemOutDirAbsolute, "Output directory %s must stay inside the working directory", utils.StylePath(v.job.OutDir))
	}
}

func (v *validator) checkBranch() {
	if v.job.Branch == "" {
		return
	}

	resolved := ""
	if candidate := v.job.Abs(v.job.Branch); IsInstall(candidate) {
		resolved = candidate
	} else if root := v.env.Get(env.VarRoot); root != "" {
		if candidate := filepath.Join(root, v.job.Branch); IsInstall(candidate) {
			resolved = candidate
		}
	}

	if resolved == "" {
		v.fail(ProblemBranch, "Cannot resolve branch %s (not an install, and not found under $%s)",
			utils.StylePath(v.job.Branch), env.VarRoot)
		return
	}

	utils.PrintDebug("Using branch %s", utils.StylePath(resolved))
	v.env.Set(env.VarInstall, resolved)
	v.env.PrependPath(env.VarLibPath, filepath.Join(resolved, LibRelDir))
	v.env.Set(env.VarProgram, filepath.Join(resolved, ProgramRelPath))
}

func (v *validator) checkInstall() {
	root := v.env.Get(env.VarInstall)
	if !IsInstall(root) {
		if root == "" {
			v.fail(ProblemInstall, "$%s is not set", env.VarInstall)
		} else {
			v.fail(ProblemInstall, "$%s=%s is not a valid install (missing %s)",
				env.VarInstall, utils.StylePath(root), ProgramRelPath)
		}
		return
	}
	if v.env.Get(env.VarProgram) == "" {
		v.env.Set(env.VarProgram, filepath.Join(root, ProgramRelPath))
	}
}

func (v *validator) checkScratch() {
	scratch, ok := v.env.Lookup(env.VarScratch)
	switch {
	case !ok || scratch == "":
		v.fail(ProblemScratch, "$%s is not set", env.VarScratch)
	case !filepath.IsAbs(scratch):
		v.fail(ProblemScratch, "$%s=%s must be an absolute path", env.VarScratch, utils.StylePath(scratch))
	}
}

func (v *validator) checkAuxData() {
	for _, name := range v.opts.AuxVars {
		value := v.env.Get(name)
		switch {
		case value == "":
			v.fail(ProblemAuxData, "$%s is not set", name)
		case !filepath.IsAbs(value):
			v.fail(ProblemAuxData, "$%s=%s must be an absolute path", name, utils.StylePath(value))
		case !utils.PathExists(value):
			v.fail(ProblemAuxData, "$%s=%s does not exist", name, utils.StylePath(value))
		}
	}
}

func (v *validator) checkPlatform() {
	if v.env.Get(env.VarPlatform) == "" {
		v.fail(ProblemPlatform, "$%s is not set", env.VarPlatform)
	}
}

func (v *validator) exportCheckpoint() {
	if !v.job.Bare {
		return
	}
	v.env.Set(env.VarCheckpoint, v.job.CheckpointName())
}
