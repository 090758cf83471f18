// Command reactonctl is a thin HTTP client CLI for a running reactond
// instance: get/set/watch/graph subcommands plus an interactive repl,
// grounded in evalgo-org-eve's cobra root-command bootstrap
// (cli/root.go) and haricheung-agentic-shell's chzyer/readline-driven
// shell loop for the repl subcommand.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var serverAddr string

var rootCmd = &cobra.Command{
	Use:   "reactonctl",
	Short: "command-line client for a reactond instance",
	Long: `reactonctl talks to a running reactond server over its JSON API:

  reactonctl get <name>
  reactonctl set <name> <json-value>
  reactonctl watch <name>
  reactonctl graph
  reactonctl repl`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverAddr, "addr", "http://127.0.0.1:8080", "reactond server address")
	rootCmd.AddCommand(getCmd, setCmd, watchCmd, graphCmd, replCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
