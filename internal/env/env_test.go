package env

import (
	"reflect"
	"testing"
)

func TestFromListAndGet(t *testing.T) {
	e := FromList([]string{"QC=/opt/qchem", "EMPTY=", "BROKEN", "=nokey", "QC=/opt/qchem-dev", "EQ=a=b"})

	if got := e.Get(VarInstall); got != "/opt/qchem-dev" {
		t.Errorf("Get(QC) = %q; want later entry to win", got)
	}
	if v, ok := e.Lookup("EMPTY"); !ok || v != "" {
		t.Errorf("Lookup(EMPTY) = %q, %v; want set and empty", v, ok)
	}
	if _, ok := e.Lookup("BROKEN"); ok {
		t.Errorf("entry without '=' should be ignored")
	}
	if got := e.Get("EQ"); got != "a=b" {
		t.Errorf("Get(EQ) = %q; want value split on first '='", got)
	}
}

func TestPrependPath(t *testing.T) {
	e := New()
	e.PrependPath(VarLibPath, "/opt/qchem/lib")
	if got := e.Get(VarLibPath); got != "/opt/qchem/lib" {
		t.Errorf("first prepend = %q", got)
	}
	e.PrependPath(VarLibPath, "/dev/qchem/lib")
	if got := e.Get(VarLibPath); got != "/dev/qchem/lib:/opt/qchem/lib" {
		t.Errorf("second prepend = %q", got)
	}
}

func TestEnvironSorted(t *testing.T) {
	e := New()
	e.Set("B", "2")
	e.Set("A", "1")
	e.Set("C", "")

	want := []string{"A=1", "B=2", "C="}
	if got := e.Environ(); !reflect.DeepEqual(got, want) {
		t.Errorf("Environ() = %v; want %v", got, want)
	}
}

func TestEnvSatisfiesReader(t *testing.T) {
	var _ Reader = New()
}
