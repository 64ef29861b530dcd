//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	binary      = "chapmark"
	mainPackage = "./cmd/chapmark"
	minCoverage = 85.0
)

var Default = Build

// Build compiles the chapmark binary into the repository root.
func Build() error {
	return goCmd("build", "-o", binary, mainPackage)
}

// Test runs the unit test suite.
func Test() error {
	return goCmd("test", "./...")
}

// Race runs the timer and probe packages under the race detector.
func Race() error {
	return goCmd("test", "-race", "./internal/transport/...", "./internal/library/...", "./internal/player/...")
}

// Vet runs go vet over every package.
func Vet() error {
	return goCmd("vet", "./...")
}

// Run starts chapmark on the current directory without a player, which is
// enough to check the picker and sidecar editing.
func Run() error {
	return goCmd("run", mainPackage, "--no-player")
}

// Install installs chapmark into GOBIN.
func Install() error {
	return goCmd("install", mainPackage)
}

// Clean removes the built binary.
func Clean() error {
	if err := os.Remove(binary); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Coverage fails when total statement coverage drops below minCoverage.
func Coverage() error {
	profile := filepath.Join(os.TempDir(), binary+"-coverage.out")
	defer os.Remove(profile)
	if err := goCmd("test", "-coverprofile="+profile, "./..."); err != nil {
		return err
	}
	out, err := exec.Command("go", "tool", "cover", "-func="+profile).CombinedOutput()
	fmt.Print(string(out))
	if err != nil {
		return err
	}
	total, err := totalCoverage(string(out))
	if err != nil {
		return err
	}
	if total < minCoverage {
		return fmt.Errorf("coverage %.1f%% below required %.0f%%", total, minCoverage)
	}
	return nil
}

// totalCoverage reads the percentage from the "total:" line of
// go tool cover -func output.
func totalCoverage(report string) (float64, error) {
	for _, line := range strings.Split(report, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 || fields[0] != "total:" {
			continue
		}
		return strconv.ParseFloat(strings.TrimSuffix(fields[len(fields)-1], "%"), 64)
	}
	return 0, fmt.Errorf("no total line in coverage report")
}

func goCmd(args ...string) error {
	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
