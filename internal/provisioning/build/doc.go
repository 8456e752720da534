// Package build compiles and installs the pinned proxy release from source.
//
// The whole build lives in a scratch directory that is recreated on entry
// and removed on exit regardless of outcome; the installed binary is the
// only durable result. There are no retries: the first failed step aborts
// the run.
package build
