// Package config defines the socksup.yaml configuration model.
//
// It covers loading and saving, defaulting, validation with error and
// warning severities, environment-variable timeout overrides, and the
// interactive setup wizard.
package config
