package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileAndDirExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "h2o.in")
	if err := os.WriteFile(file, []byte("$molecule\n$end\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if !FileExists(file) {
		t.Errorf("FileExists(%s) = false; want true", file)
	}
	if FileExists(dir) {
		t.Errorf("FileExists(%s) = true for a directory", dir)
	}
	if !DirExists(dir) {
		t.Errorf("DirExists(%s) = false; want true", dir)
	}
	if DirExists(file) {
		t.Errorf("DirExists(%s) = true for a file", file)
	}
	if !PathExists(file) || PathExists(filepath.Join(dir, "missing")) {
		t.Errorf("PathExists gave wrong answer")
	}
}

func TestIsExecutable(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, "qcprog.exe")
	plain := filepath.Join(dir, "README")
	if err := os.WriteFile(exe, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(plain, []byte("text"), 0644); err != nil {
		t.Fatal(err)
	}

	if !IsExecutable(exe) {
		t.Errorf("IsExecutable(%s) = false; want true", exe)
	}
	if IsExecutable(plain) {
		t.Errorf("IsExecutable(%s) = true; want false", plain)
	}
	if IsExecutable(dir) {
		t.Errorf("IsExecutable on a directory returned true")
	}
}

func TestBaseNameNoExt(t *testing.T) {
	tests := map[string]string{
		"/data/h2o.in":     "h2o",
		"job.in":           "job",
		"job":              "job",
		"run/opt.freq.inp": "opt.freq",
	}
	for input, want := range tests {
		if got := BaseNameNoExt(input); got != want {
			t.Errorf("BaseNameNoExt(%q) = %q; want %q", input, got, want)
		}
	}
}

func TestWithTrailingSlash(t *testing.T) {
	tests := map[string]string{
		"/scratch/job":   "/scratch/job/",
		"/scratch/job/":  "/scratch/job/",
		"/scratch/job//": "/scratch/job/",
		"/":              "/",
	}
	for input, want := range tests {
		if got := WithTrailingSlash(input); got != want {
			t.Errorf("WithTrailingSlash(%q) = %q; want %q", input, got, want)
		}
	}
}
