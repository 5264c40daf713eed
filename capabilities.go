package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Capability flags written by the toolkit's configure step into basis/config.h.
const (
	HaveTR1Tuple = "HAVE_TR1_TUPLE"
	HavePthread  = "HAVE_PTHREAD"
)

// Capabilities holds boolean capability flags by macro name.
// A name that is not present reads as false.
type Capabilities map[string]bool

// Has reports whether the named capability is set.
func (c Capabilities) Has(name string) bool {
	return c[name]
}

// Merge copies every entry of other into c, replacing existing values.
func (c Capabilities) Merge(other Capabilities) {
	for name, v := range other {
		c[name] = v
	}
}

// Names returns the capability names in sorted order.
func (c Capabilities) Names() []string {
	return slices.Sorted(maps.Keys(c))
}

// ParseError is returned when a capability source cannot be read.
type ParseError struct {
	File string
	Line int // 0 when the error is not tied to a line
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var errNotBool = errors.New("not a boolean value")

var (
	identRE      = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	undefComment = regexp.MustCompile(`^/\*\s*#\s*undef\s+([A-Za-z_][A-Za-z0-9_]*)\s*\*/$`)
)

// parseBool interprets a macro value the way the preprocessor would in #if,
// plus the spellings CMake uses for options. An empty value is true, matching
// a bare "#define NAME".
func parseBool(s string) (bool, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "1", "true", "on", "yes":
		return true, nil
	case "0", "false", "off", "no":
		return false, nil
	}
	// One layer of parentheses, as in "#define HAVE_PTHREAD (1)".
	if inner, ok := strings.CutPrefix(s, "("); ok {
		if inner, ok = strings.CutSuffix(inner, ")"); ok {
			s = strings.TrimSpace(inner)
		}
	}
	digits := strings.TrimRight(s, "uUlL")
	if n, err := strconv.ParseInt(digits, 0, 64); err == nil {
		return n != 0, nil
	}
	if n, err := strconv.ParseUint(digits, 0, 64); err == nil {
		return n != 0, nil
	}
	return false, errNotBool
}

// stripComment drops a trailing C or C++ comment from a directive line.
func stripComment(line string) string {
	if i := strings.Index(line, "/*"); i >= 0 {
		line = line[:i]
	}
	if i := strings.Index(line, "//"); i >= 0 {
		line = line[:i]
	}
	return line
}

// parseConfigHeader reads a configured config.h. Every object-like #define is
// recorded in the returned table; those with boolean values are also returned
// as capabilities. "#undef NAME", also in its commented-out form as written by
// CMake's configure_file, marks the capability as absent.
func parseConfigHeader(file string, r io.Reader) (Capabilities, *Defines, error) {
	caps := make(Capabilities)
	defs := &Defines{}

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if m := undefComment.FindStringSubmatch(line); m != nil {
			caps[m[1]] = false
			continue
		}
		if !strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(stripComment(line[1:]))
		if len(fields) < 2 || !identRE.MatchString(fields[1]) {
			// Function-like macros and directives without a name.
			continue
		}
		name := fields[1]
		switch fields[0] {
		case "define", "cmakedefine":
			value := strings.Join(fields[2:], " ")
			defs.Set(name, value)
			if b, err := parseBool(value); err == nil {
				caps[name] = b
			}
		case "undef":
			defs.Undef(name)
			caps[name] = false
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, &ParseError{File: file, Line: lineNum, Err: err}
	}
	return caps, defs, nil
}

// readConfigHeader opens path, or uses stdin when path is "-".
func readConfigHeader(path string, stdin io.Reader) (Capabilities, *Defines, error) {
	if path == "-" {
		return parseConfigHeader("<stdin>", stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("error reading config header: %w", err)
	}
	defer f.Close()
	return parseConfigHeader(path, f)
}

// capsFile is the layout of a YAML capability file:
//
//	capabilities:
//	  HAVE_TR1_TUPLE: true
//	  HAVE_PTHREAD: false
type capsFile struct {
	Capabilities map[string]bool `yaml:"capabilities"`
}

// loadCapsFile reads a YAML capability file. Unknown top-level keys are
// rejected so that a misspelled section does not silently yield no flags.
func loadCapsFile(path string) (Capabilities, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error reading capability file: %w", err)
	}
	defer f.Close()

	var cf capsFile
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cf); err != nil && !errors.Is(err, io.EOF) {
		return nil, &ParseError{File: path, Err: err}
	}
	caps := make(Capabilities, len(cf.Capabilities))
	for name, v := range cf.Capabilities {
		if !identRE.MatchString(name) {
			return nil, &ParseError{File: path, Err: fmt.Errorf("invalid macro name %q", name)}
		}
		caps[name] = v
	}
	return caps, nil
}

// defineFlags collects repeated -D NAME[=VALUE] flags.
type defineFlags []string

func (d *defineFlags) String() string {
	return strings.Join(*d, " ")
}

func (d *defineFlags) Set(v string) error {
	*d = append(*d, v)
	return nil
}

// parseDefineFlags interprets -D arguments. Like a compiler, "-D NAME" defines
// NAME as 1.
func parseDefineFlags(args []string) (Capabilities, *Defines, error) {
	caps := make(Capabilities)
	defs := &Defines{}
	for _, arg := range args {
		name, value, found := strings.Cut(arg, "=")
		if !identRE.MatchString(name) {
			return nil, nil, &ParseError{File: "-D", Err: fmt.Errorf("invalid macro name %q", name)}
		}
		if !found {
			value = "1"
		}
		b, err := parseBool(value)
		if err != nil {
			return nil, nil, &ParseError{File: "-D", Err: fmt.Errorf("%s=%s: %w", name, value, err)}
		}
		caps[name] = b
		defs.Set(name, value)
	}
	return caps, defs, nil
}
