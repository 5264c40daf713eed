package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"text/template"

	"golang.org/x/tools/txtar"
)

type generator struct {
	Namespace   string // include guard and include path namespace, e.g. SBIA
	Copyright   string // copyright line for the header comment
	License     string // license notice below the copyright
	Contact     string
	Conditional bool   // emit #if blocks over the capabilities instead of resolved values

	Template string // txtar archive to use instead of the built-in templates

	templates map[string]*template.Template
}

func (g *generator) loadTemplates() error {
	var templateData []byte

	// An unreadable -template archive leaves the built-in headers in effect.
	if g.Template != "" {
		if data, err := os.ReadFile(g.Template); err == nil {
			templateData = data
		}
	}

	if templateData == nil {
		templateData = defaultTemplates
	}

	archive := txtar.Parse(templateData)
	templates := make(map[string]*template.Template, len(archive.Files))
	for _, file := range archive.Files {
		t, err := template.New(file.Name).Option("missingkey=error").Parse(string(file.Data))
		if err != nil {
			return fmt.Errorf("error parsing template %s: %w", file.Name, err)
		}
		templates[file.Name] = t
	}
	g.templates = templates
	return nil
}

// overrides builds the framework flag blocks of test.h. In resolved mode the
// values come from defs, which must have had the flags applied; a nil defs
// resolves against no capabilities at all.
func (g *generator) overrides(defs *Defines) []override {
	if defs == nil && !g.Conditional {
		defs = &Defines{}
		defs.Apply(resolveFlags(nil))
	}
	result := make([]override, 0, len(flagRules))
	for _, r := range flagRules {
		o := override{
			Name:        r.Flag,
			Comment:     r.Comment,
			Conditional: g.Conditional,
			Capability:  r.Capability,
			IfSet:       boolValue(!r.Negate),
			IfUnset:     boolValue(r.Negate),
		}
		if !g.Conditional {
			v, ok := defs.Lookup(r.Flag)
			if !ok {
				v = boolValue(r.resolve(nil))
			}
			o.Value = v
		}
		result = append(result, o)
	}
	return result
}

// render executes the template of header. If the result fails checkHeader the
// unchecked source is returned along with the *CheckError.
func (g *generator) render(header string, defs *Defines) ([]byte, error) {
	if g.templates == nil {
		if err := g.loadTemplates(); err != nil {
			return nil, err
		}
	}
	tmpl, ok := g.templates[header+".tmpl"]
	if !ok {
		return nil, fmt.Errorf("no template for %s", header)
	}

	data := headerData{
		File:        header,
		Guard:       guardName(g.Namespace, header),
		IncludeRoot: includeRoot(g.Namespace),
		Copyright:   g.Copyright,
		License:     g.License,
		Contact:     g.Contact,
		Overrides:   g.overrides(defs),
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("error rendering %s: %w", header, err)
	}

	src := buf.Bytes()
	if err := checkHeader(header, src); err != nil {
		return src, err
	}
	return src, nil
}

// generate renders header to output. A header that fails validation is still
// written so the user can see what was generated.
func (g *generator) generate(output io.Writer, header string, defs *Defines) error {
	src, err := g.render(header, defs)
	if src != nil {
		if _, werr := output.Write(src); werr != nil && err == nil {
			err = werr
		}
	}
	return err
}

// generateArchive renders every header into a txtar archive. Headers that
// fail validation are still added; the first error is returned with the
// archive.
func (g *generator) generateArchive(headers []string, defs *Defines) (*txtar.Archive, error) {
	archive := &txtar.Archive{}
	var firstErr error
	for _, h := range headers {
		src, err := g.render(h, defs)
		if src != nil {
			archive.Files = append(archive.Files, txtar.File{Name: h, Data: src})
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return archive, firstErr
}
