// Package main is the entry point for the voicelock CLI.
//
// Usage:
//
//	voicelock [flags] <command> [args]
//
// Commands:
//
//	enroll       - Record the reference voice
//	listen       - Listen for the trigger word and lock the screen
//	score        - Compare two recordings offline
//	fingerprint  - Print the acoustic fingerprint of a recording
//	devices      - List audio devices
//	config       - Show or initialize the configuration
//	version      - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/haivivi/voicelock/cmd/voicelock/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := commands.Hint(err); hint != "" {
			fmt.Fprintln(os.Stderr, hint)
		}
		os.Exit(commands.ExitCode(err))
	}
}
