package script

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Justype/qcsub/internal/config"
	"github.com/Justype/qcsub/internal/env"
	"github.com/Justype/qcsub/internal/job"
	"github.com/Justype/qcsub/internal/utils"
	"github.com/Justype/qcsub/internal/validate"
)

var fixedTime = time.Date(2026, 10, 19, 14, 30, 5, 0, time.UTC)

func fixedClock() time.Time { return fixedTime }

func testResult() *validate.Result {
	e := env.New()
	e.Set(env.VarInstall, "/opt/qchem")
	e.Set(env.VarScratch, "/scratch/alice")
	e.Set(env.VarProgram, "/opt/qchem/exe/qcprog.exe")
	return &validate.Result{
		Job: job.Job{
			Input:     "job.in",
			InputAbs:  "/home/alice/calc/job.in",
			Output:    "/home/alice/calc/job.out",
			WorkDir:   "/home/alice/calc",
			Threads:   4,
			MemMB:     8192,
			TimeHours: 12,
			OutDir:    "./run",
		},
		Env: e,
	}
}

func pbsOptions() Options {
	return Options{JobIDVar: "$PBS_JOBID", Now: fixedClock}
}

func lines(t *testing.T, s *Script) []string {
	t.Helper()
	return strings.Split(strings.TrimSuffix(s.String(), "\n"), "\n")
}

// indexOf returns the index of the first line equal to want, or -1.
func indexOf(lines []string, want string) int {
	for i, l := range lines {
		if l == want {
			return i
		}
	}
	return -1
}

func TestGenerateRefusesInvalidResult(t *testing.T) {
	res := testResult()
	res.Problems = []validate.Problem{{Kind: validate.ProblemScratch, Message: "bad"}}

	s, err := Generate(res, pbsOptions())

	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrNotValidated)

	_, err = Generate(nil, pbsOptions())
	assert.ErrorIs(t, err, ErrNotValidated)
}

func TestGenerateWrapped(t *testing.T) {
	s, err := Generate(testResult(), pbsOptions())
	require.NoError(t, err)
	got := lines(t, s)

	assert.Equal(t, Shebang, got[0])
	launcher := `"/opt/qchem/bin/qchem" -nt 4 "/home/alice/calc/job.in" "/scratch/alice/job.out" "job"`
	expected := []string{
		`mkdir -p "/scratch/alice/job"`,
		`cd "/home/alice/calc"`,
		launcher,
		`cat "/scratch/alice/job.out"`,
		`rm -f "/scratch/alice/job.out"`,
		`rm -rf "/scratch/alice/job"`,
	}
	prev := -1
	for _, want := range expected {
		idx := indexOf(got, want)
		require.NotEqual(t, -1, idx, "missing line %q in:\n%s", want, s.String())
		assert.Greater(t, idx, prev, "line %q out of order", want)
		prev = idx
	}

	assert.NotContains(t, s.String(), "ulimit")
	assert.NotContains(t, s.String(), "rsync")
	assert.Contains(t, s.String(), `echo "Job ID:    $PBS_JOBID"`)
	assert.Contains(t, s.String(), `echo "Started:   $(date '+%Y-%m-%d %T')"`)
	assert.Contains(t, s.String(), `echo "Completed: $(date '+%Y-%m-%d %T')"`)
}

func TestGenerateWrappedSaveRestartCore(t *testing.T) {
	res := testResult()
	res.Job.Save = true
	res.Job.CoreDump = true
	res.Job.Restart = "/home/alice/calc/prev"

	s, err := Generate(res, pbsOptions())
	require.NoError(t, err)
	got := lines(t, s)

	restart := indexOf(got, `rsync -a "/home/alice/calc/prev/" "/scratch/alice/job/"`)
	cd := indexOf(got, `cd "/home/alice/calc"`)
	ulimit := indexOf(got, `ulimit -c unlimited`)
	launch := indexOf(got, `"/opt/qchem/bin/qchem" -save -nt 4 "/home/alice/calc/job.in" "/scratch/alice/job.out" "job"`)
	saveBack := indexOf(got, `rsync -a "/scratch/alice/job/" "/home/alice/calc/run/"`)
	cat := indexOf(got, `cat "/scratch/alice/job.out"`)

	for name, idx := range map[string]int{"restart": restart, "cd": cd, "ulimit": ulimit, "launch": launch, "save": saveBack, "cat": cat} {
		require.NotEqual(t, -1, idx, "missing %s line in:\n%s", name, s.String())
	}
	assert.Less(t, restart, cd)
	assert.Less(t, cd, ulimit)
	assert.Less(t, ulimit, launch)
	assert.Less(t, launch, saveBack)
	assert.Less(t, saveBack, cat)
}

func TestGenerateBare(t *testing.T) {
	res := testResult()
	res.Job.Bare = true
	res.Job.Restart = "/home/alice/calc/prev///"

	s, err := Generate(res, pbsOptions())
	require.NoError(t, err)
	got := lines(t, s)

	scratch := "/scratch/alice/job.20261019-143005.$PBS_JOBID"
	expected := []string{
		fmt.Sprintf(`mkdir -p "%s"`, scratch),
		fmt.Sprintf(`rsync -a "/home/alice/calc/prev/" "%s/"`, scratch),
		fmt.Sprintf(`cd "%s"`, scratch),
		`"/opt/qchem/exe/qcprog.exe" "/home/alice/calc/job.in" "./run" 2>&1`,
		`rm -rf "./run"`,
		fmt.Sprintf(`rsync -a "%s/" "/home/alice/calc/"`, scratch),
	}
	prev := -1
	for _, want := range expected {
		idx := indexOf(got, want)
		require.NotEqual(t, -1, idx, "missing line %q in:\n%s", want, s.String())
		assert.Greater(t, idx, prev, "line %q out of order", want)
		prev = idx
	}
	assert.NotContains(t, s.String(), "bin/qchem")
}

func TestGenerateBareSaveKeepsOutput(t *testing.T) {
	res := testResult()
	res.Job.Bare = true
	res.Job.Save = true
	res.Job.CoreDump = true

	s, err := Generate(res, Options{JobIDVar: "$SLURM_JOB_ID", Now: fixedClock})
	require.NoError(t, err)

	assert.NotContains(t, s.String(), `rm -rf "./run"`)
	assert.Contains(t, s.String(), "ulimit -c unlimited\n")
	assert.Contains(t, s.String(), "/scratch/alice/job.20261019-143005.$SLURM_JOB_ID")
}

func TestGenerateKeepsUserPathsLiteral(t *testing.T) {
	for _, bare := range []bool{false, true} {
		res := testResult()
		res.Job.Bare = bare
		res.Job.Input = "$HOME.in"
		res.Job.InputAbs = "/home/alice/calc/$HOME.in"
		res.Job.WorkDir = "/home/alice/calc"

		s, err := Generate(res, pbsOptions())
		require.NoError(t, err)

		assert.Contains(t, s.String(), `"/home/alice/calc/\$HOME.in"`, "bare=%v", bare)
		assert.NotContains(t, s.String(), `"/home/alice/calc/$HOME.in"`, "bare=%v", bare)
		assert.Contains(t, s.String(), `echo "Job ID:    $PBS_JOBID"`)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	for _, bare := range []bool{false, true} {
		res := testResult()
		res.Job.Bare = bare

		a, err := Generate(res, pbsOptions())
		require.NoError(t, err)
		b, err := Generate(res, pbsOptions())
		require.NoError(t, err)
		assert.Equal(t, a.Bytes(), b.Bytes(), "bare=%v", bare)
	}
}

func TestGenerateBareDiffersOnlyInTimestamp(t *testing.T) {
	res := testResult()
	res.Job.Bare = true
	later := fixedTime.Add(90 * time.Minute)

	a, err := Generate(res, pbsOptions())
	require.NoError(t, err)
	b, err := Generate(res, Options{JobIDVar: "$PBS_JOBID", Now: func() time.Time { return later }})
	require.NoError(t, err)

	normalized := strings.ReplaceAll(b.String(), later.Format(TimestampFormat), fixedTime.Format(TimestampFormat))
	assert.NotEqual(t, a.String(), b.String())
	assert.Equal(t, a.String(), normalized)
}

func TestGenerateEndToEnd(t *testing.T) {
	oldOut, oldErr := utils.Stdout, utils.Stderr
	utils.Stdout, utils.Stderr = io.Discard, io.Discard
	t.Cleanup(func() { utils.Stdout, utils.Stderr = oldOut, oldErr })

	root := t.TempDir()
	workDir := filepath.Join(root, "calc")
	install := filepath.Join(root, "qchem")
	scratch := filepath.Join(root, "scratch")
	aux := filepath.Join(root, "qcaux")
	for _, dir := range []string{workDir, filepath.Join(install, "exe"), scratch, aux} {
		require.NoError(t, os.MkdirAll(dir, 0755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(install, validate.ProgramRelPath), []byte("#!/bin/sh\n"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(workDir, "job.in"), []byte("$rem\n$end\n"), 0644))

	e := env.New()
	e.Set(env.VarInstall, install)
	e.Set(env.VarScratch, scratch)
	e.Set(env.VarAux, aux)
	e.Set(env.VarPlatform, "LINUX_Ix86_64")

	j := job.Job{Input: "job.in", WorkDir: workDir, Threads: 4, MemMB: 8192, TimeHours: 12, OutDir: "./run"}
	opts := validate.Options{
		Host:    "edison",
		Limits:  config.ThreadLimits{Hosts: map[string]int{"edison": 48}, Default: 64},
		AuxVars: []string{env.VarAux},
	}

	res := validate.Validate(j, e, opts)
	require.Equal(t, 0, res.Count(), "problems: %v", res.Problems)

	s, err := Generate(res, pbsOptions())
	require.NoError(t, err)

	want := fmt.Sprintf(`-nt 4 "%s" "%s/job.out" "job"`, filepath.Join(workDir, "job.in"), scratch)
	assert.Contains(t, s.String(), want)
}
