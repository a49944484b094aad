// Package main provides the entry point for the ldapd directory server CLI.
package main

import "os"

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the CLI and returns an exit code. Separated from main() to
// facilitate testing.
func run(args []string) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}
