package main

import (
	"fmt"
	"os"
)

const usageText = `notepad is a terminal client for a remote notes service.

Usage:
  notepad <command> [flags]

Commands:
  ui         run the terminal UI (default)
  ls         list notes
  config     print configuration (effective or defaults)
  devserver  run an in-memory notes service for local use
  help       show help

Flags:
  -h, --help   show help

Examples:
  notepad ui --base-url http://127.0.0.1:8080
  notepad ls --format json
  notepad config --default --format toml
  notepad devserver --addr 127.0.0.1:8080 --seed --data ~/.notepad/devserver.json
`

func printUsage() {
	fmt.Fprint(os.Stderr, usageText)
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		args = []string{"ui"}
	}

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return
	}

	wiring := defaultCommandWiring(os.Stdout, os.Stderr)
	commands := buildCommands(wiring)
	runner, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(2)
	}
	exitOnErr(args[0], runner.Run(args[1:]), wiring.stderr)
}
