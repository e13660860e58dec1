//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides build targets for stackmap using Mage.
//
// Usage:
//
//	mage build            Compile the stackmap binary to bin/
//	mage install          Install stackmap to GOPATH/bin
//	mage clean            Remove build artifacts
//	mage test:all         Run all tests
//	mage test:race        Run all tests with the race detector
//	mage test:invariants  Run the container tests with slot assertions on
//	mage test:cover       Write coverage to bin/cover.out and print totals
//	mage lint             Run golangci-lint
//	mage stats            Print Go lines of code per package
package main
