package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
)

var hosts = []string{"server", "debug", "viewer", "replay"}

// Runs one of the cmd/ hosts with go run; the first argument picks the host
// (default server) and the rest are passed through.
func main() {
	// Get the directory where the binary is located
	dir, err := filepath.Abs(filepath.Dir(os.Args[0]))
	if err != nil {
		panic(err)
	}

	host, args := "server", os.Args[1:]
	if len(args) > 0 && slices.Contains(hosts, args[0]) {
		host, args = args[0], args[1:]
	}

	goCmd := exec.Command("go", append([]string{"run", "./cmd/" + host}, args...)...)
	goCmd.Stdin = os.Stdin
	goCmd.Stdout = os.Stdout
	goCmd.Stderr = os.Stderr
	goCmd.Dir = dir

	if err := goCmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s host failed: %v\n", host, err)
		os.Exit(1)
	}
}
