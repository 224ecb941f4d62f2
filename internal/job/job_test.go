package job

import "testing"

func TestJobDerivedNames(t *testing.T) {
	j := Job{Input: "inputs/job.in", WorkDir: "/home/alice/calc"}

	if got := j.Name(); got != "job" {
		t.Errorf("Name() = %q; want job", got)
	}
	if got := j.DefaultOutput(); got != "/home/alice/calc/job.out" {
		t.Errorf("DefaultOutput() = %q", got)
	}
	if got := j.CheckpointName(); got != "job.chk" {
		t.Errorf("CheckpointName() = %q", got)
	}
}

func TestJobAbs(t *testing.T) {
	j := Job{WorkDir: "/home/alice/calc", OutDir: "./run"}

	if got := j.OutDirAbs(); got != "/home/alice/calc/run" {
		t.Errorf("OutDirAbs() = %q", got)
	}
	if got := j.Abs("/tmp/x/"); got != "/tmp/x" {
		t.Errorf("Abs(/tmp/x/) = %q", got)
	}
	if got := (Job{}).Abs("rel/dir"); got != "rel/dir" {
		t.Errorf("Abs without WorkDir = %q", got)
	}
}

func TestJobWallTime(t *testing.T) {
	j := Job{TimeHours: 12}
	if got := j.WallSeconds(); got != 43200 {
		t.Errorf("WallSeconds() = %d; want 43200", got)
	}
	if got := j.WallMinutes(); got != 720 {
		t.Errorf("WallMinutes() = %d; want 720", got)
	}
}
