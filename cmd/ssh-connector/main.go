// Package main is the entry point for the ssh-connector binary.
//
// ssh-connector is a terminal application for connecting to servers over SSH
// with GSSAPI credential delegation. Servers are organized into named groups
// in a JSON document under ~/.ssh_connector.
//
// When invoked without arguments, it launches the interactive menu.
// When invoked with subcommands (e.g. "list", "connect", "pick"), it runs
// the corresponding CLI operation and exits.
//
// Usage:
//
//	ssh-connector                  # launch the interactive menu
//	ssh-connector list             # list configured groups and hosts
//	ssh-connector connect <host>   # open a session to a configured host
//	ssh-connector pick             # pick a host from a filterable list
//
// The CLI is constructed in internal/cli and the menu in internal/ui. This
// file simply wires them together and handles top-level error reporting.
package main

import (
	"fmt"
	"os"

	"github.com/sshconnector/ssh-connector/internal/cli"
)

func main() {
	// Build the root Cobra command tree, which includes all subcommands
	// (list, connect, pick, export, import, doctor) and defaults to the
	// interactive menu when no subcommand is provided.
	cmd := cli.NewRootCommand()

	// Execute the resolved command. Cobra handles argument parsing,
	// subcommand routing, and help/usage output automatically.
	// Any error returned by a RunE handler is printed to stderr
	// and the process exits with a non-zero status code.
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
