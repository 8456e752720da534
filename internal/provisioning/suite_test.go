// Package provisioning_test runs the pipeline end to end against an
// in-memory host, covering the scenarios the unit tests only exercise
// phase by phase.
package provisioning_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// TestProvisioningScenarios is the entry point for Ginkgo tests.
func TestProvisioningScenarios(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Provisioning Scenarios Suite")
}
