package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "interactive shell for get/set/graph against a reactond instance",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRepl(serverAddr)
	},
}

func runRepl(addr string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[36mreacton>\033[0m ",
		HistoryFile:     historyFilePath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("reactonctl: readline init: %w", err)
	}
	defer rl.Close()

	fmt.Println("reacton repl — get <name> | set <name> <json> | graph | exit")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "exit", "quit":
			return nil
		case "get":
			if len(fields) != 2 {
				fmt.Println("usage: get <name>")
				continue
			}
			out, err := getRef(addr, fields[1])
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				continue
			}
			data, _ := json.MarshalIndent(out, "", "  ")
			fmt.Println(string(data))
		case "set":
			if len(fields) < 3 {
				fmt.Println("usage: set <name> <json-value>")
				continue
			}
			raw := strings.Join(fields[2:], " ")
			var value any
			if err := json.Unmarshal([]byte(raw), &value); err != nil {
				fmt.Fprintf(os.Stderr, "reactonctl: %s is not valid JSON: %v\n", raw, err)
				continue
			}
			if err := setRef(addr, fields[1], value); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		case "graph":
			tree, err := fetchGraph(addr)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				continue
			}
			fmt.Println(tree)
		default:
			fmt.Printf("unknown command %q\n", fields[0])
		}
	}
}

func historyFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".reactonctl_history"
	}
	return home + "/.reactonctl_history"
}
