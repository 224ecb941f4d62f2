// Package script assembles the shell script a batch job runs.
//
// A Script is an ordered list of statements. Nothing is executed here; the
// script is serialized once with Bytes and piped to the scheduler.
package script

import (
	"bytes"
	"strings"
)

// Shebang is the first line of every generated script.
const Shebang = "#!/bin/bash"

// Arg is one word of a statement. A quoted arg is wrapped in double quotes and may
// be built from several parts; literal parts have '$' escaped, expanding parts
// keep it so variables and command substitutions work on the node.
type Arg struct {
	parts  []part
	quoted bool
}

type part struct {
	text   string
	expand bool
}

// Word returns an unquoted argument (flags, numbers). It is emitted as is.
func Word(s string) Arg { return Arg{parts: []part{{text: s, expand: true}}} }

// Quote returns a double-quoted literal (paths, names).
func Quote(s string) Arg { return Arg{parts: []part{{text: s}}, quoted: true} }

// Expand returns a double-quoted argument in which $VAR and $(...) expand.
func Expand(s string) Arg { return Arg{parts: []part{{text: s, expand: true}}, quoted: true} }

// Concat joins args into one double-quoted word, each part keeping its own expansion rule.
func Concat(args ...Arg) Arg {
	out := Arg{quoted: true}
	for _, a := range args {
		out.parts = append(out.parts, a.parts...)
	}
	return out
}

func (a Arg) String() string {
	var b strings.Builder
	if !a.quoted {
		for _, p := range a.parts {
			b.WriteString(p.text)
		}
		return b.String()
	}
	b.WriteByte('"')
	for _, p := range a.parts {
		writeDoubleQuoted(&b, p.text, p.expand)
	}
	b.WriteByte('"')
	return b.String()
}

// writeDoubleQuoted escapes the characters that terminate or alter a double-quoted word.
func writeDoubleQuoted(b *strings.Builder, s string, expand bool) {
	for _, r := range s {
		switch r {
		case '"', '\\', '`':
			b.WriteByte('\\')
		case '$':
			if !expand {
				b.WriteByte('\\')
			}
		}
		b.WriteRune(r)
	}
}

// Statement is one shell command line. Blank renders an empty line. Raw, when set,
// is emitted verbatim; it is used for shell idioms that are not a single command.
// Either one makes the other fields ignored.
type Statement struct {
	Command  Arg
	Args     []Arg
	Redirect string
	Raw      string
	Blank    bool
}

// String renders the statement as a single line without a trailing newline.
func (s Statement) String() string {
	if s.Blank {
		return ""
	}
	if s.Raw != "" {
		return s.Raw
	}
	parts := make([]string, 0, len(s.Args)+2)
	parts = append(parts, s.Command.String())
	for _, a := range s.Args {
		parts = append(parts, a.String())
	}
	if s.Redirect != "" {
		parts = append(parts, s.Redirect)
	}
	return strings.Join(parts, " ")
}

// Script is an ordered list of statements.
type Script struct {
	statements []Statement
}

// New returns an empty script.
func New() *Script {
	return &Script{}
}

// Add appends a command with its arguments.
func (s *Script) Add(cmd Arg, args ...Arg) *Script {
	s.statements = append(s.statements, Statement{Command: cmd, Args: args})
	return s
}

// AddRedirect appends a command whose output is redirected (e.g. "2>&1").
func (s *Script) AddRedirect(redirect string, cmd Arg, args ...Arg) *Script {
	s.statements = append(s.statements, Statement{Command: cmd, Args: args, Redirect: redirect})
	return s
}

// Raw appends a verbatim line.
func (s *Script) Raw(line string) *Script {
	s.statements = append(s.statements, Statement{Raw: line})
	return s
}

// Echo appends echo with parts joined into one double-quoted word.
func (s *Script) Echo(parts ...Arg) *Script {
	return s.Add(Word("echo"), Concat(parts...))
}

// Blank appends an empty line.
func (s *Script) Blank() *Script {
	s.statements = append(s.statements, Statement{Blank: true})
	return s
}

// Lines renders every statement, shebang first.
func (s *Script) Lines() []string {
	lines := make([]string, 0, len(s.statements)+1)
	lines = append(lines, Shebang)
	for _, st := range s.statements {
		lines = append(lines, st.String())
	}
	return lines
}

// Bytes serializes the script, one statement per line, ending in a newline.
func (s *Script) Bytes() []byte {
	var buf bytes.Buffer
	for _, line := range s.Lines() {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// String is Bytes as a string.
func (s *Script) String() string {
	return string(s.Bytes())
}
