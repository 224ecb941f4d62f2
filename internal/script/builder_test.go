package script

import "testing"

func TestArgString(t *testing.T) {
	tests := []struct {
		arg  Arg
		want string
	}{
		{Word("-nt"), "-nt"},
		{Quote("/scratch/alice/job"), `"/scratch/alice/job"`},
		{Quote("with space"), `"with space"`},
		{Quote(`say "hi"`), `"say \"hi\""`},
		{Quote("back`tick`"), "\"back\\`tick\\`\""},
		{Quote(`C:\path`), `"C:\\path"`},
		{Quote("/home/a$b/job.in"), `"/home/a\$b/job.in"`},
		{Expand("$QCSCRATCH/$PBS_JOBID"), `"$QCSCRATCH/$PBS_JOBID"`},
		{Expand(`$(date '+%T') "now"`), `"$(date '+%T') \"now\""`},
		{Concat(Quote("/scratch/$x/job."), Expand("$PBS_JOBID")), `"/scratch/\$x/job.$PBS_JOBID"`},
		{Concat(Concat(Quote("/s/"), Expand("$ID")), Quote("/")), `"/s/$ID/"`},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.arg.String(); got != tt.want {
				t.Errorf("String() = %s; want %s", got, tt.want)
			}
		})
	}
}

func TestStatementString(t *testing.T) {
	st := Statement{
		Command:  Quote("/opt/qchem/exe/qcprog.exe"),
		Args:     []Arg{Quote("/home/alice/job.in"), Quote("./run")},
		Redirect: "2>&1",
	}
	want := `"/opt/qchem/exe/qcprog.exe" "/home/alice/job.in" "./run" 2>&1`
	if got := st.String(); got != want {
		t.Errorf("String() = %s; want %s", got, want)
	}

	raw := Statement{Raw: "_START_TIME=$SECONDS", Command: Word("ignored")}
	if got := raw.String(); got != "_START_TIME=$SECONDS" {
		t.Errorf("raw String() = %s", got)
	}

	blank := Statement{Blank: true, Command: Word("ignored"), Raw: "ignored"}
	if got := blank.String(); got != "" {
		t.Errorf("blank String() = %q; want empty", got)
	}
	if lines := New().Blank().Lines(); len(lines) != 2 || lines[1] != "" {
		t.Errorf("Blank() lines = %q; want shebang and an empty line", lines)
	}
}

func TestScriptBytes(t *testing.T) {
	s := New()
	s.Echo(Quote("start")).Blank().Add(Word("cd"), Quote("/tmp")).Raw("exit 0")

	want := "#!/bin/bash\necho \"start\"\n\ncd \"/tmp\"\nexit 0\n"
	if got := string(s.Bytes()); got != want {
		t.Errorf("Bytes() = %q; want %q", got, want)
	}
	if n := len(s.Lines()); n != 5 {
		t.Errorf("Lines() has %d entries; want 5", n)
	}
}
