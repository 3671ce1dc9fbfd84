//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "wikifreq"

// Default target when running mage without arguments
var Default = Build

// Build compiles the wikifreq binary
func Build() error {
	fmt.Println("Building", binary)
	return sh.RunV("go", "build", "-o", binary, "./cmd/wikifreq")
}

// Install installs wikifreq into GOPATH/bin
func Install() error {
	return sh.RunV("go", "install", "./cmd/wikifreq")
}

// Test runs all unit tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Race runs all unit tests with the race detector
func Race() error {
	// go-sqlite3 needs cgo for the race build
	return sh.RunWith(map[string]string{"CGO_ENABLED": "1"}, "go", "test", "-race", "./...")
}

// Lint runs go vet and checks formatting
func Lint() error {
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return err
	}
	if out != "" {
		return fmt.Errorf("files need gofmt:\n%s", out)
	}
	return nil
}

// Check runs lint and tests
func Check() {
	mg.SerialDeps(Lint, Test)
}

// Clean removes the built binary
func Clean() error {
	fmt.Println("Cleaning")
	return os.RemoveAll(binary)
}
