// Package testing provides test utilities, builders, and fixtures shared by
// unit tests and the pipeline scenario suite.
//
// This package centralizes common testing patterns to avoid duplication
// across test files:
//   - ConfigBuilder: fluent builder for test configurations
//   - HostFixture: pre-configured fake host for common pipeline scenarios
//   - RecordingObserver: observer that captures events for assertions
//   - MockCapability: shared mock for the firewall frontend
//
// Usage:
//
//	cfg := testing.NewConfigBuilder().
//	    WithPort(1080).
//	    WithUsers("admin", "backup").
//	    Build()
//
//	fixture := testing.NewHostFixture().HoldPort(999)
//	ctx := testing.NewPipelineContext(cfg, fixture.Host(), &testing.RecordingObserver{})
package testing
