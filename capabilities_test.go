package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleConfig = `/* basis/config.h, generated by CMake */
#ifndef SBIA_BASIS_CONFIG_H_
#define SBIA_BASIS_CONFIG_H_

#define HAVE_TR1_TUPLE 1
/* #undef HAVE_PTHREAD */
#  define HAVE_SSTREAM   // C++ streams
#define HAVE_LONG_LONG 0
#define BASIS_VERSION "1.2.0"
#define MAX(a, b) ((a) > (b) ? (a) : (b))
#define GTEST_HAS_PTHREAD 1

#endif
`

func TestParseConfigHeader(t *testing.T) {
	caps, defs, err := parseConfigHeader("config.h", strings.NewReader(sampleConfig))
	require.NoError(t, err)

	require.Equal(t, Capabilities{
		HaveTR1Tuple:        true,
		HavePthread:         false,
		"HAVE_SSTREAM":      true,
		"HAVE_LONG_LONG":    false,
		"GTEST_HAS_PTHREAD": true,
		// A bare #define reads as true, include guards included.
		"SBIA_BASIS_CONFIG_H_": true,
	}, caps)

	v, ok := defs.Lookup("BASIS_VERSION")
	require.True(t, ok)
	require.Equal(t, `"1.2.0"`, v)
	_, ok = defs.Lookup("MAX")
	require.False(t, ok)
	v, ok = defs.Lookup("SBIA_BASIS_CONFIG_H_")
	require.True(t, ok)
	require.Equal(t, "", v)
}

func TestParseConfigHeaderUndef(t *testing.T) {
	src := "#define HAVE_PTHREAD 1\n#undef HAVE_PTHREAD\n"
	caps, defs, err := parseConfigHeader("config.h", strings.NewReader(src))
	require.NoError(t, err)
	require.False(t, caps.Has(HavePthread))
	_, ok := caps[HavePthread]
	require.True(t, ok)
	require.Equal(t, 0, defs.Len())
}

func TestParseConfigHeaderPreprocessorValues(t *testing.T) {
	src := "#define HAVE_PTHREAD (1)\n#define HAVE_TR1_TUPLE 18446744073709551615ULL\n"
	caps, _, err := parseConfigHeader("config.h", strings.NewReader(src))
	require.NoError(t, err)
	require.True(t, caps.Has(HavePthread))
	require.True(t, caps.Has(HaveTR1Tuple))
	require.Equal(t, Flags{UseOwnTR1Tuple: false, HasPthread: true}, resolveFlags(caps))
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"", "1", "TRUE", "on", "yes", "2", "0x1", "1L", "(1)", "( 1 )", "18446744073709551615ULL"} {
		b, err := parseBool(s)
		require.NoError(t, err, s)
		require.True(t, b, s)
	}
	for _, s := range []string{"0", "false", "OFF", "no", "0UL", "(0)"} {
		b, err := parseBool(s)
		require.NoError(t, err, s)
		require.False(t, b, s)
	}
	for _, s := range []string{`"1.2.0"`, "/usr/lib", "maybe", "((1))"} {
		_, err := parseBool(s)
		require.ErrorIs(t, err, errNotBool, s)
	}
}

func TestParseDefineFlags(t *testing.T) {
	caps, defs, err := parseDefineFlags([]string{"HAVE_PTHREAD", "HAVE_TR1_TUPLE=off", "GTEST_HAS_PTHREAD=0"})
	require.NoError(t, err)
	require.Equal(t, Capabilities{HavePthread: true, HaveTR1Tuple: false, GTestHasPthread: false}, caps)
	require.Equal(t, []Define{
		{HavePthread, "1"},
		{HaveTR1Tuple, "off"},
		{GTestHasPthread, "0"},
	}, defs.Entries())
}

func TestParseDefineFlagsErrors(t *testing.T) {
	_, _, err := parseDefineFlags([]string{"1BAD=1"})
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	require.Equal(t, "-D", perr.File)

	_, _, err = parseDefineFlags([]string{"HAVE_PTHREAD=sometimes"})
	require.ErrorIs(t, err, errNotBool)
	require.EqualError(t, err, "-D: HAVE_PTHREAD=sometimes: not a boolean value")
}

func TestLoadCapsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "caps.yaml")
	require.NoError(t, os.WriteFile(path, []byte("capabilities:\n  HAVE_TR1_TUPLE: true\n  HAVE_PTHREAD: false\n"), 0o644))

	caps, err := loadCapsFile(path)
	require.NoError(t, err)
	require.Equal(t, Capabilities{HaveTR1Tuple: true, HavePthread: false}, caps)
}

func TestLoadCapsFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "caps.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	caps, err := loadCapsFile(path)
	require.NoError(t, err)
	require.Empty(t, caps)
}

func TestLoadCapsFileUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "caps.yaml")
	require.NoError(t, os.WriteFile(path, []byte("capabilites:\n  HAVE_PTHREAD: true\n"), 0o644))

	_, err := loadCapsFile(path)
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	require.Equal(t, path, perr.File)
}

func TestLoadCapsFileMissing(t *testing.T) {
	_, err := loadCapsFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestCapabilitiesMerge(t *testing.T) {
	caps := Capabilities{HavePthread: true, HaveTR1Tuple: true}
	caps.Merge(Capabilities{HavePthread: false})
	require.False(t, caps.Has(HavePthread))
	require.True(t, caps.Has(HaveTR1Tuple))
	require.Equal(t, []string{HavePthread, HaveTR1Tuple}, caps.Names())
}
