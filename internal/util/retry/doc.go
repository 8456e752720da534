// Package retry re-runs operations that need time to settle, with
// exponential backoff between attempts.
//
// [WithExponentialBackoff] takes an attempt budget, an initial delay, and a
// growth multiplier. It backs the poll that waits for a terminated process
// to exit and gives the post-install round-trip probe time to reach a
// freshly started daemon. Errors wrapped with [Fatal] stop the loop
// immediately.
package retry
