//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main contains Mage build targets for bidibo developer tooling.
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "bidibo"
	cmdPkg  = "./cmd/bidibo"
)

// Default is the target run by a bare "mage".
var Default = Build

// Build compiles the CLI binary into bin/. The version is taken from
// BIDIBO_VERSION when set.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	version := os.Getenv("BIDIBO_VERSION")
	if version == "" {
		version = "dev"
	}
	out := filepath.Join(binDir, binName)
	ldflags := "-X main.version=" + version
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs go vet and the unit tests with the race detector.
func Test() error {
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return fmt.Errorf("go vet: %w", err)
	}
	return sh.RunV("go", "test", "-race", "./...")
}

// Sample builds the CLI and converts the deck named by BIDIBO_SAMPLE into
// output/, writing previews and a run report.
func Sample() error {
	mg.Deps(Build)

	src := os.Getenv("BIDIBO_SAMPLE")
	if src == "" {
		return fmt.Errorf("set BIDIBO_SAMPLE to a PDF path or URL")
	}
	return sh.RunV(filepath.Join(binDir, binName), "process", src,
		"--output-dir", "output", "--previews", "--report", filepath.Join("output", "report.yaml"))
}

// Clean removes build and sample output.
func Clean() error {
	for _, dir := range []string{binDir, "output"} {
		if err := sh.Rm(dir); err != nil {
			return err
		}
	}
	return nil
}

// Stats prints project metrics: Go production and test LOC per package.
func Stats() error {
	prod, test, err := countGoLines(".")
	if err != nil {
		return err
	}

	var prodTotal, testTotal int
	for _, pkg := range sortedKeys(prod, test) {
		fmt.Printf("  %-24s %6d %6d\n", pkg, prod[pkg], test[pkg])
		prodTotal += prod[pkg]
		testTotal += test[pkg]
	}
	fmt.Printf("Lines of code (Go, production): %d\n", prodTotal)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testTotal)
	return nil
}

// countGoLines counts non-blank lines of Go files per directory, split into
// production and test files. Directories starting with "_" or "." are skipped.
func countGoLines(root string) (prod, test map[string]int, err error) {
	prod, test = map[string]int{}, map[string]int{}
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			name := info.Name()
			if path != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := 0
		for _, line := range bytes.Split(data, []byte("\n")) {
			if len(bytes.TrimSpace(line)) > 0 {
				n++
			}
		}
		dir := filepath.Dir(path)
		if strings.HasSuffix(path, "_test.go") {
			test[dir] += n
		} else {
			prod[dir] += n
		}
		return nil
	})
	return prod, test, err
}

func sortedKeys(maps ...map[string]int) []string {
	seen := map[string]bool{}
	var keys []string
	for _, m := range maps {
		for k := range m {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	slices.Sort(keys)
	return keys
}
