// Package env holds the environment a submission is prepared against.
//
// The validator is the only writer. Script generation and submission read it,
// and the submitter hands it to the scheduler command as the child environment,
// so the process environment itself is never modified.
package env

import (
	"os"
	"sort"
	"strings"
)

// Variables consumed and produced while preparing a job.
const (
	VarInstall    = "QC"              // active software root
	VarRoot       = "QCROOT"          // directory holding branch installs
	VarScratch    = "QCSCRATCH"       // scratch root
	VarAux        = "QCAUX"           // auxiliary data (basis sets, grids)
	VarPlatform   = "QCPLATFORM"      // platform identifier
	VarLibPath    = "LD_LIBRARY_PATH" // library search path
	VarThreads    = "OMP_NUM_THREADS" // thread count
	VarProgram    = "QCPROG"          // compute executable
	VarCheckpoint = "QCCHKPT"         // checkpoint file name (bare mode)
)

// Reader is the read-only view handed to script generation and submission.
type Reader interface {
	Get(key string) string
	Lookup(key string) (string, bool)
	Environ() []string
}

// Env is a mutable key/value environment.
type Env struct {
	vars map[string]string
}

// New returns an empty environment.
func New() *Env {
	return &Env{vars: make(map[string]string)}
}

// FromOS snapshots the current process environment.
func FromOS() *Env {
	return FromList(os.Environ())
}

// FromList builds an environment from "KEY=VALUE" entries. Later entries win.
func FromList(list []string) *Env {
	e := New()
	for _, kv := range list {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		e.vars[key] = value
	}
	return e
}

// Get returns the value of key, or "" when unset.
func (e *Env) Get(key string) string {
	return e.vars[key]
}

// Lookup returns the value of key and whether it is set.
func (e *Env) Lookup(key string) (string, bool) {
	v, ok := e.vars[key]
	return v, ok
}

// Set assigns key.
func (e *Env) Set(key, value string) {
	e.vars[key] = value
}

// PrependPath puts dir in front of a colon-separated list variable.
func (e *Env) PrependPath(key, dir string) {
	if cur := e.vars[key]; cur != "" {
		e.vars[key] = dir + ":" + cur
		return
	}
	e.vars[key] = dir
}

// Keys returns all variable names in sorted order.
func (e *Env) Keys() []string {
	keys := make([]string, 0, len(e.vars))
	for k := range e.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Environ returns "KEY=VALUE" entries sorted by key, suitable for exec.Cmd.Env.
func (e *Env) Environ() []string {
	keys := e.Keys()
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+e.vars[k])
	}
	return out
}
