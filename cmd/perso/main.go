// Package main is the entry point for perso, a personal MCP server speaking
// JSON-RPC on standard input and output.
//
// Without a subcommand perso serves the protocol. The other subcommands run
// the same collaborators from a terminal: rendering the tool catalog and
// prompts, summarizing the mailbox, and querying the recipe database.
package main

import (
	"os"

	"perso/cmd/perso/commands"
)

var version = "dev"

func main() {
	if err := commands.NewRootCommand(version).Execute(); err != nil {
		os.Exit(1)
	}
}
