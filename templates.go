package main

import (
	_ "embed"
	"path/filepath"
	"strings"
	"unicode"
)

//go:embed templates.txt
var defaultTemplates []byte

// headerNames lists the umbrella headers in generation order.
var headerNames = []string{"basis.h", "test.h"}

// headerData is passed to the header templates.
type headerData struct {
	File        string // header file name, e.g. test.h
	Guard       string // include guard macro
	IncludeRoot string // include path prefix of the toolkit headers
	Copyright   string
	License     string
	Contact     string
	Overrides   []override
}

// override is one framework flag block in test.h.
type override struct {
	Name        string
	Value       string // resolved value, unset in conditional mode
	Comment     string
	Conditional bool   // decide at compile time from Capability
	Capability  string
	IfSet       string // value when Capability is true
	IfUnset     string
}

// guardName derives the include guard of a header, e.g. SBIA_BASIS_TEST_H_
// for test.h. The main header basis.h maps to SBIA_BASIS_H_.
func guardName(namespace, header string) string {
	base := strings.TrimSuffix(header, filepath.Ext(header))
	var parts []string
	if namespace != "" {
		parts = append(parts, strings.ToUpper(namespace))
	}
	parts = append(parts, "BASIS")
	if base != "basis" {
		parts = append(parts, macroCase(base))
	}
	return strings.Join(parts, "_") + "_H_"
}

// macroCase upper-cases s and replaces characters not allowed in a macro
// name with underscores.
func macroCase(s string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return unicode.ToUpper(r)
		}
		return '_'
	}, s)
}

// includeRoot returns the include path prefix of the toolkit headers.
func includeRoot(namespace string) string {
	if namespace == "" {
		return "basis"
	}
	return strings.ToLower(namespace) + "/basis"
}
