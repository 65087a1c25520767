//go:build mage

// Package main provides build targets for the locations project using Mage.
//
// Usage:
//
//	mage build           Compile the locations binary to bin/
//	mage test            Run unit tests, then the WireMock integration tests
//	mage testUnit        Run unit tests
//	mage testIntegration Run tests tagged integration (needs Docker)
//	mage lint            Run golangci-lint
//	mage clean           Remove build artifacts
//	mage install         Install locations to GOPATH/bin
//	mage stats           Print Go lines of code per package
package main

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "locations"
	binaryDir  = "bin"
	cmdDir     = "./cmd/locations"
	versionVar = "github.com/mesh-intelligence/locations/internal/cli.Version"
)

// Build compiles the locations binary to bin/. VERSION, when set, is
// stamped into the binary.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	args := []string{"build", "-v", "-o", filepath.Join(binaryDir, binaryName)}
	if v := os.Getenv("VERSION"); v != "" {
		args = append(args, "-ldflags", fmt.Sprintf("-X %s=%s", versionVar, v))
	}
	return sh.RunV(binGo, append(args, cmdDir)...)
}

// Test runs unit tests, then integration tests.
func Test() {
	mg.SerialDeps(TestUnit, TestIntegration)
}

// TestUnit runs the tests that need nothing but the Go toolchain.
func TestUnit() error {
	return sh.RunV(binGo, "test", "./...")
}

// TestIntegration runs the tests tagged integration. They start a WireMock
// container, so Docker must be available.
func TestIntegration() error {
	mg.Deps(Build)
	return sh.RunV(binGo, "test", "-tags", "integration", "-count=1", "./internal/initializer/...")
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
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
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}

// Stats prints production and test lines of Go code per package under cmd,
// internal and pkg.
func Stats() error {
	type counts struct{ prod, test int }
	perPkg := map[string]*counts{}

	for _, root := range []string{"cmd", "internal", "pkg"} {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() || !strings.HasSuffix(path, ".go") {
				return err
			}
			n, err := countLines(path)
			if err != nil {
				return err
			}
			pkg := filepath.Dir(path)
			c, ok := perPkg[pkg]
			if !ok {
				c = &counts{}
				perPkg[pkg] = c
			}
			if strings.HasSuffix(path, "_test.go") {
				c.test += n
			} else {
				c.prod += n
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	pkgs := make([]string, 0, len(perPkg))
	for pkg := range perPkg {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)

	var total counts
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PACKAGE\tPROD\tTEST")
	for _, pkg := range pkgs {
		c := perPkg[pkg]
		total.prod += c.prod
		total.test += c.test
		fmt.Fprintf(tw, "%s\t%d\t%d\n", pkg, c.prod, c.test)
	}
	fmt.Fprintf(tw, "total\t%d\t%d\n", total.prod, total.test)
	return tw.Flush()
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		count++
	}
	return count, scanner.Err()
}
