// basisgen generates the umbrella headers of the BASIS C++ toolkit.
//
// basis.h re-exports the command-line parser and the path and configuration
// utilities. test.h re-exports Google Test and Google Mock after fixing the
// two feature flags the framework reads:
//
//	GTEST_USE_OWN_TR1_TUPLE = !HAVE_TR1_TUPLE
//	GTEST_HAS_PTHREAD       =  HAVE_PTHREAD
//
// Any earlier definition of a framework flag is overridden. A capability that
// is never defined counts as unavailable.
//
// Capabilities are read from a configured config.h (-config), a YAML file
// (-caps) and -D flags, later sources taking precedence.
//
// Example:
//
//	basisgen -config=build/include/sbia/basis/config.h -o build/include/sbia
//
// or, to let the compiler decide at build time:
//
//	basisgen -conditional -header=test.h
//
// Output of -config with HAVE_PTHREAD defined and HAVE_TR1_TUPLE undefined:
//
//	// let Google use their own tr1/tuple implementation if the compiler does not support it
//	#ifdef GTEST_USE_OWN_TR1_TUPLE
//	#  undef GTEST_USE_OWN_TR1_TUPLE
//	#endif
//	#define GTEST_USE_OWN_TR1_TUPLE 1
//
//	// disable use of pthreads library if not available
//	#ifdef GTEST_HAS_PTHREAD
//	#  undef GTEST_HAS_PTHREAD
//	#endif
//	#define GTEST_HAS_PTHREAD 1
//
// The flags alone can be printed for a build system with -format=defines,
// -format=cmake or -format=yaml.
package main
