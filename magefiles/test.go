//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Test groups test targets.
type Test mg.Namespace

// All runs all tests.
func (Test) All() error {
	return sh.RunV(binGo, "test", "./...")
}

// Race runs all tests with the race detector. The race build also turns on
// the container's slot assertions.
func (Test) Race() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}

// Invariants runs the container tests with the invariants build tag.
func (Test) Invariants() error {
	return sh.RunV(binGo, "test", "-tags", "invariants", "./pkg/...")
}

// Cover writes a coverage profile to bin/cover.out and prints per-function
// totals.
func (Test) Cover() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	profile := filepath.Join(binaryDir, "cover.out")
	if err := sh.RunV(binGo, "test", "-coverprofile", profile, "./..."); err != nil {
		return fmt.Errorf("run tests: %w", err)
	}
	return sh.RunV(binGo, "tool", "cover", "-func", profile)
}
