//go:build mage

package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "lingocard"

// Default target to run when none is specified
var Default = Build

// Build compiles the lingocard binary.
func Build() error {
	return sh.RunV("go", "build", "-o", binary, "./cmd/lingocard")
}

// Install installs lingocard into GOPATH/bin.
func Install() error {
	return sh.RunV("go", "install", "./cmd/lingocard")
}

// Test runs all tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Race runs all tests with the race detector.
func Race() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Vet runs go vet.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs vet and the tests.
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Run builds and starts the desktop window.
func Run() error {
	mg.Deps(Build)
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	return sh.RunV(filepath.Join(wd, binary))
}

// Clean removes the built binary.
func Clean() error {
	return sh.Rm(binary)
}
