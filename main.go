package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/term"
	"golang.org/x/tools/txtar"
	"gopkg.in/yaml.v3"
)

type options struct {
	ConfigPath string   // configured config.h, "-" for stdin
	CapsPath   string   // YAML capability file
	Defines    []string // -D NAME[=VALUE]
	Header     string   // test.h, basis.h or all
	Format     string   // header, defines, cmake or yaml
	OutDir     string
	Verbose    bool

	gen generator
}

var formats = []string{"header", "defines", "cmake", "yaml"}

// parseFlags parses args into options using fs.
func parseFlags(fs *flag.FlagSet, args []string) (*options, error) {
	opts := &options{}
	var defines defineFlags
	fs.StringVar(&opts.ConfigPath, "config", "", "configured basis/config.h to read capabilities from (- for stdin)")
	fs.StringVar(&opts.CapsPath, "caps", "", "YAML file with a capabilities mapping")
	fs.Var(&defines, "D", "set a capability, `NAME[=VALUE]`; may be repeated")
	fs.StringVar(&opts.Header, "header", "test.h", "header to generate: test.h, basis.h or all")
	fs.StringVar(&opts.Format, "format", "header", "output format: "+strings.Join(formats, ", "))
	fs.StringVar(&opts.OutDir, "o", "", "directory to write headers to (default stdout)")
	fs.BoolVar(&opts.Verbose, "v", false, "enable debug logging")
	fs.StringVar(&opts.gen.Namespace, "namespace", "SBIA", "namespace of include guards and include paths")
	fs.StringVar(&opts.gen.Copyright, "copyright", "", "copyright line for the header comment")
	fs.StringVar(&opts.gen.License, "license", "", "license notice for the header comment")
	fs.StringVar(&opts.gen.Contact, "contact", "", "contact line for the header comment")
	fs.BoolVar(&opts.gen.Conditional, "conditional", false, "emit #if blocks over the HAVE_ flags instead of resolved values")
	fs.StringVar(&opts.gen.Template, "template", "", "txtar archive of header templates to use instead of the built-in ones")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	opts.Defines = defines

	if !slices.Contains(formats, opts.Format) {
		return nil, fmt.Errorf("unknown format %q", opts.Format)
	}
	if opts.gen.Conditional && opts.Format != "header" {
		return nil, errors.New("-conditional only applies to -format=header")
	}
	if opts.gen.Namespace != "" && !identRE.MatchString(opts.gen.Namespace) {
		return nil, fmt.Errorf("invalid namespace %q", opts.gen.Namespace)
	}
	if _, err := selectHeaders(opts.Header); err != nil {
		return nil, err
	}
	return opts, nil
}

func selectHeaders(name string) ([]string, error) {
	if name == "all" {
		return headerNames, nil
	}
	if slices.Contains(headerNames, name) {
		return []string{name}, nil
	}
	return nil, fmt.Errorf("unknown header %q", name)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// loadInputs gathers capabilities and predefined macros from every source.
// Later sources win: config header, then capability file, then -D flags.
func loadInputs(opts *options, stdin io.Reader) (Capabilities, *Defines, error) {
	caps := make(Capabilities)
	defs := &Defines{}

	if opts.ConfigPath != "" {
		c, d, err := readConfigHeader(opts.ConfigPath, stdin)
		if err != nil {
			return nil, nil, err
		}
		caps.Merge(c)
		defs.Merge(d)
	}
	if opts.CapsPath != "" {
		c, err := loadCapsFile(opts.CapsPath)
		if err != nil {
			return nil, nil, err
		}
		caps.Merge(c)
	}
	c, d, err := parseDefineFlags(opts.Defines)
	if err != nil {
		return nil, nil, err
	}
	caps.Merge(c)
	defs.Merge(d)
	return caps, defs, nil
}

func run(opts *options, stdin io.Reader, stdout io.Writer, logger *slog.Logger) error {
	caps, defs, err := loadInputs(opts, stdin)
	if err != nil {
		return err
	}
	logger.Debug("loaded inputs", "capabilities", len(caps), "defines", defs.Len())
	for _, name := range caps.Names() {
		logger.Debug("capability", "name", name, "value", caps[name])
	}

	flags := resolveFlags(caps)
	for _, old := range defs.Apply(flags) {
		v, _ := defs.Lookup(old.Name)
		logger.Debug("overriding predefined flag", "name", old.Name, "was", old.Value, "now", v)
	}
	framework := defs.Subset(frameworkFlags()...)
	for _, e := range framework.Entries() {
		logger.Debug("resolved", "name", e.Name, "value", e.Value)
	}

	switch opts.Format {
	case "defines":
		_, err := fmt.Fprintln(stdout, strings.Join(framework.CompilerArgs(), " "))
		return err
	case "cmake":
		return framework.WriteCMake(stdout)
	case "yaml":
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(framework); err != nil {
			return err
		}
		return enc.Close()
	}

	headers, err := selectHeaders(opts.Header)
	if err != nil {
		return err
	}
	if opts.OutDir != "" {
		return writeHeaders(opts, headers, framework, logger)
	}
	if len(headers) == 1 {
		return opts.gen.generate(stdout, headers[0], framework)
	}
	archive, err := opts.gen.generateArchive(headers, framework)
	if len(archive.Files) > 0 {
		if _, werr := stdout.Write(txtar.Format(archive)); werr != nil && err == nil {
			err = werr
		}
	}
	return err
}

func writeHeaders(opts *options, headers []string, defs *Defines, logger *slog.Logger) error {
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return err
	}
	var firstErr error
	for _, h := range headers {
		src, err := opts.gen.render(h, defs)
		if err != nil {
			if src == nil {
				return err
			}
			logger.Warn("header failed check", "header", h, "err", err)
			if firstErr == nil {
				firstErr = err
			}
		}
		path := filepath.Join(opts.OutDir, h)
		if err := os.WriteFile(path, src, 0o644); err != nil {
			return err
		}
		logger.Info("wrote header", "path", path)
	}
	return firstErr
}

func main() {
	opts, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "basisgen:", err)
		os.Exit(2)
	}

	if opts.ConfigPath == "-" && isInteractive() {
		flag.Usage()
		fmt.Fprintln(os.Stderr, "Expects config.h on stdin")
		os.Exit(1)
	}

	logger := newLogger(os.Stderr, opts.Verbose)
	if err := run(opts, os.Stdin, os.Stdout, logger); err != nil {
		fmt.Fprintln(os.Stderr, "basisgen:", err)
		os.Exit(1)
	}
}

// isInteractive reports whether stdin is a terminal, in which case no
// config.h is being piped in.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
