package main

import (
	"errors"
	"fmt"
	"strings"
)

var (
	errUnmatched     = errors.New("directive without matching #if")
	errUnterminated  = errors.New("unterminated conditional")
	errMissingGuard  = errors.New("missing include guard")
	errGuardTooEarly = errors.New("include guard closed before end of header")
)

// CheckError is returned when a generated header fails validation.
type CheckError struct {
	Header string
	Line   int
	Err    error
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Header, e.Line, e.Err)
}

func (e *CheckError) Unwrap() error {
	return e.Err
}

type directive struct {
	line int
	name string
	arg  string
}

// directives returns the preprocessor directives of src. Line continuations
// are not joined; generated headers do not use them.
func directives(src []byte) []directive {
	var ds []directive
	for i, line := range strings.Split(string(src), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line[1:])
		if len(fields) == 0 {
			continue
		}
		d := directive{line: i + 1, name: fields[0]}
		if len(fields) > 1 {
			d.arg = fields[1]
		}
		ds = append(ds, d)
	}
	return ds
}

func isIf(name string) bool {
	return name == "if" || name == "ifdef" || name == "ifndef"
}

// checkHeader verifies that the conditionals of a header are balanced and
// that the whole header is wrapped in an include guard.
func checkHeader(header string, src []byte) error {
	ds := directives(src)

	var open []directive
	for _, d := range ds {
		switch {
		case isIf(d.name):
			open = append(open, d)
		case d.name == "elif" || d.name == "else" || d.name == "endif":
			if len(open) == 0 {
				return &CheckError{Header: header, Line: d.line, Err: fmt.Errorf("%w: #%s", errUnmatched, d.name)}
			}
			if d.name == "endif" {
				open = open[:len(open)-1]
			}
		}
	}
	if len(open) > 0 {
		d := open[len(open)-1]
		return &CheckError{Header: header, Line: d.line, Err: fmt.Errorf("%w: #%s %s", errUnterminated, d.name, d.arg)}
	}
	return checkGuard(header, ds)
}

func checkGuard(header string, ds []directive) error {
	var rest []directive
	for _, d := range ds {
		if d.name != "pragma" {
			rest = append(rest, d)
		}
	}
	if len(rest) < 3 ||
		rest[0].name != "ifndef" ||
		rest[1].name != "define" ||
		rest[1].arg != rest[0].arg ||
		rest[len(rest)-1].name != "endif" {
		line := 1
		if len(rest) > 0 {
			line = rest[0].line
		}
		return &CheckError{Header: header, Line: line, Err: errMissingGuard}
	}

	depth := 0
	for i, d := range rest {
		switch {
		case isIf(d.name):
			depth++
		case d.name == "endif":
			depth--
			if depth == 0 && i != len(rest)-1 {
				return &CheckError{Header: header, Line: d.line, Err: errGuardTooEarly}
			}
		}
	}
	return nil
}
