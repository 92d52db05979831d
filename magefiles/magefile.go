//go:build mage

// Package main provides build targets for the banana project using Mage.
//
// Usage:
//
//	mage build          Compile banana binary to bin/
//	mage test:all       Run all tests
//	mage test:unit      Run tests with the race detector, skipping cmd/
//	mage lint           Run golangci-lint
//	mage clean          Remove build artifacts
//	mage install        Install banana to GOPATH/bin
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binLint    = "golangci-lint"
	binaryName = "banana"
	binaryDir  = "bin"
	cmdDir     = "./cmd/banana"
)

// Build compiles the banana binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test groups test targets.
type Test mg.Namespace

// All runs every package's tests.
func (Test) All() error {
	return sh.RunV(binGo, "test", "./...")
}

// Unit runs library package tests with the race detector. The CLI package
// is skipped because it swaps process-wide stdio.
func (Test) Unit() error {
	pkgs, err := sh.Output(binGo, "list", "./...")
	if err != nil {
		return err
	}
	args := []string{"test", "-race"}
	for pkg := range strings.SplitSeq(pkgs, "\n") {
		if pkg != "" && !strings.Contains(pkg, "/cmd/") {
			args = append(args, pkg)
		}
	}
	return sh.RunV(binGo, args...)
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV(binLint, "run", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	return sh.Copy(filepath.Join(gopath, "bin", binaryName), filepath.Join(binaryDir, binaryName))
}
