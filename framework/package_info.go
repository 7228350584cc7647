// Package framework contains small pieces of harness infrastructure that are not specific to
// any one part of the behavior test workflow: the Logger abstraction shared by every package,
// a capturing logger for per-behavior debug output, the regex filters that let a tester
// restrict a run to some of the registered behaviors, and a small HTTP server that publishes
// local test pages.
//
// The domain-specific code (expanding behaviors, recording judgments, sequencing the run and
// emitting the report) lives in the behavior, results, runner and report packages.
package framework
