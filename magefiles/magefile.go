//go:build mage

// Package main contains Mage build targets for utmconv developer tooling.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir     = "bin"
	binName    = "utmconv"
	cmdPkg     = "./cmd/utmconv"
	sessionDir = ".utmconv"
	sampleCSV  = "testdata/sample.csv"
)

// samplePoints are eastings/northings around Abu Dhabi and Dubai (zone 40N).
var samplePoints = []string{
	"235000,2700000",
	"330000,2790000",
	"500000,2800000",
	"412345.6,2765432.1",
}

// Init creates the session directory and a sample CSV for bulk conversion.
func Init() error {
	for _, dir := range []string{sessionDir, filepath.Dir(sampleCSV)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	data := strings.Join(samplePoints, "\n") + "\n"
	if err := os.WriteFile(sampleCSV, []byte(data), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", sampleCSV, err)
	}
	fmt.Println("  ", sampleCSV)
	return nil
}

// Build compiles the CLI binary into bin/, stamping the git version.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || version == "" {
		version = "dev"
	}
	out := filepath.Join(binDir, binName)
	ldflags := "-X main.version=" + version
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s (%s)\n", out, version)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Check builds and tests.
func Check() {
	mg.SerialDeps(Build, Test)
}

// Stats prints Go production/test line counts and documentation word count.
func Stats() error {
	var prod, tests, words int
	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != "." && (strings.HasPrefix(d.Name(), ".") || strings.HasPrefix(d.Name(), "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		switch {
		case strings.HasSuffix(path, "_test.go"):
			tests += nonBlankLines(data)
		case strings.HasSuffix(path, ".go"):
			prod += nonBlankLines(data)
		case strings.HasSuffix(path, ".md"):
			words += len(bytes.Fields(data))
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prod)
	fmt.Printf("Lines of code (Go, tests):      %d\n", tests)
	fmt.Printf("Words (documentation):           %d\n", words)
	return nil
}

func nonBlankLines(data []byte) int {
	n := 0
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			n++
		}
	}
	return n
}
