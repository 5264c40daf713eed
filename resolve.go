package main

// Feature flags read by the bundled Google Test framework.
const (
	GTestUseOwnTR1Tuple = "GTEST_USE_OWN_TR1_TUPLE"
	GTestHasPthread     = "GTEST_HAS_PTHREAD"
)

// flagRule ties a framework flag to the capability it follows.
type flagRule struct {
	Flag       string
	Capability string
	Negate     bool   // flag is set when the capability is missing
	Comment    string // emitted above the override in test.h
}

// flagRules lists the framework flags in the order they are written.
var flagRules = []flagRule{
	{
		Flag:       GTestUseOwnTR1Tuple,
		Capability: HaveTR1Tuple,
		Negate:     true,
		Comment:    "let Google use their own tr1/tuple implementation if the compiler does not support it",
	},
	{
		Flag:       GTestHasPthread,
		Capability: HavePthread,
		Comment:    "disable use of pthreads library if not available",
	},
}

func (r flagRule) resolve(caps Capabilities) bool {
	return caps.Has(r.Capability) != r.Negate
}

// frameworkFlags returns the names of all framework flags.
func frameworkFlags() []string {
	names := make([]string, len(flagRules))
	for i, r := range flagRules {
		names[i] = r.Flag
	}
	return names
}

// Flags are the resolved framework flags.
type Flags struct {
	UseOwnTR1Tuple bool
	HasPthread     bool
}

// resolveFlags maps capabilities onto framework flags. It is total: missing
// capabilities count as unavailable, and a nil map is valid.
func resolveFlags(caps Capabilities) Flags {
	var f Flags
	for _, r := range flagRules {
		f.set(r.Flag, r.resolve(caps))
	}
	return f
}

func (f *Flags) set(name string, v bool) {
	switch name {
	case GTestUseOwnTR1Tuple:
		f.UseOwnTR1Tuple = v
	case GTestHasPthread:
		f.HasPthread = v
	}
}

// Get returns the value of the named framework flag.
func (f Flags) Get(name string) (v, ok bool) {
	switch name {
	case GTestUseOwnTR1Tuple:
		return f.UseOwnTR1Tuple, true
	case GTestHasPthread:
		return f.HasPthread, true
	}
	return false, false
}

// boolValue renders b as a preprocessor literal.
func boolValue(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
