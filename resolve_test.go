package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveFlags(t *testing.T) {
	tests := []struct {
		tr1Tuple, pthread bool
		wantOwnTuple      string
		wantPthread       string
	}{
		{true, true, "0", "1"},
		{true, false, "0", "0"},
		{false, true, "1", "1"},
		{false, false, "1", "0"},
	}
	for _, tt := range tests {
		caps := Capabilities{HaveTR1Tuple: tt.tr1Tuple, HavePthread: tt.pthread}
		defs := &Defines{}
		defs.Apply(resolveFlags(caps))

		v, ok := defs.Lookup(GTestUseOwnTR1Tuple)
		require.True(t, ok)
		require.Equal(t, tt.wantOwnTuple, v, "caps %v", caps)
		v, ok = defs.Lookup(GTestHasPthread)
		require.True(t, ok)
		require.Equal(t, tt.wantPthread, v, "caps %v", caps)
	}
}

func TestResolveFlagsAbsentIsFalse(t *testing.T) {
	explicit := Capabilities{HaveTR1Tuple: false, HavePthread: false}
	require.Equal(t, resolveFlags(explicit), resolveFlags(Capabilities{}))
	require.Equal(t, resolveFlags(explicit), resolveFlags(nil))

	onlyPthread := Capabilities{HavePthread: true}
	require.Equal(t, Flags{UseOwnTR1Tuple: true, HasPthread: true}, resolveFlags(onlyPthread))
}

func TestResolveFlagsIgnoresUnrelated(t *testing.T) {
	caps := Capabilities{"HAVE_SSTREAM": true, "GTEST_HAS_PTHREAD": true}
	require.Equal(t, Flags{UseOwnTR1Tuple: true, HasPthread: false}, resolveFlags(caps))
}

func TestFlagsGet(t *testing.T) {
	f := Flags{UseOwnTR1Tuple: true}
	v, ok := f.Get(GTestUseOwnTR1Tuple)
	require.True(t, ok)
	require.True(t, v)
	v, ok = f.Get(GTestHasPthread)
	require.True(t, ok)
	require.False(t, v)
	_, ok = f.Get("GTEST_HAS_TR1_TUPLE")
	require.False(t, ok)
}

func TestFrameworkFlags(t *testing.T) {
	require.Equal(t, []string{GTestUseOwnTR1Tuple, GTestHasPthread}, frameworkFlags())
}
