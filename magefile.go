//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
)

// Default target to run when none is specified
// If not set, running mage will list available targets
var Default = Build

func cgoEnv() []string {
	ldflags := os.Getenv("CGO_LDFLAGS")
	cflags := os.Getenv("CGO_CFLAGS")
	return append(os.Environ(),
		"CGO_ENABLED=1",
		fmt.Sprintf("CGO_LDFLAGS=%s", ldflags),
		fmt.Sprintf("CGO_CFLAGS=%s", cflags))
}

func goCommand(args ...string) *exec.Cmd {
	cmd := exec.Command("go", args...)
	cmd.Env = cgoEnv()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}

func Build() error {
	mg.Deps(BuildSegmenter)
	fmt.Println("Compilation finished")
	return nil
}

func BuildSegmenter() error {
	fmt.Println("Building segmenter executable...")
	return goCommand("build", "-o", "./bin/segmenter", "./segmenter").Run()
}

// Test runs the unit tests. The writer package needs libhdf5 through cgo.
func Test() error {
	fmt.Println("Running tests...")
	return goCommand("test", "./...").Run()
}

func Clean() error {
	fmt.Println("Removing ./bin...")
	return os.RemoveAll("./bin")
}
