package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "read a reacton's current value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := getRef(serverAddr, args[0])
		if err != nil {
			return err
		}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(data))
		return nil
	},
}

var setCmd = &cobra.Command{
	Use:   "set <name> <json-value>",
	Short: "write a reacton's value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var value any
		if err := json.Unmarshal([]byte(args[1]), &value); err != nil {
			return fmt.Errorf("reactonctl: %s is not valid JSON: %w", args[1], err)
		}
		return setRef(serverAddr, args[0], value)
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch <name>",
	Short: "stream a reacton's updates (server-sent events)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := http.Get(serverAddr + "/v1/refs/" + args[0] + "/watch")
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()
			if strings.HasPrefix(line, "data:") {
				fmt.Println(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
			}
		}
		return scanner.Err()
	},
}

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "render the live dependency graph as an ASCII tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := fetchGraph(serverAddr)
		if err != nil {
			return err
		}
		fmt.Println(tree)
		return nil
	},
}
