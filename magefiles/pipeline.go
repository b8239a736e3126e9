//go:build mage

package main

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// runCLI builds the binary if needed and runs it with the given args.
func runCLI(args ...string) error {
	mg.Deps(Build)
	cmd := exec.Command(filepath.Join(binDir, binName), args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Extract runs extraction over data/fhir with the default profile.
// See prd001-extraction for full requirements.
func Extract() error {
	return runCLI("extract", "data")
}

// Verify runs coverage verification over data/fhir with the default profile.
// See prd002-verification for full requirements.
func Verify() error {
	return runCLI("verify", "data")
}
