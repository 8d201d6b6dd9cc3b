package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theyonatan/multiverse/pkg/client"
)

func apiClient(cmd *cobra.Command) *client.Client {
	addr, _ := cmd.Flags().GetString("server")
	return client.NewClient(addr)
}

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new universe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := apiClient(cmd).CreateUniverse(args[0]); err != nil {
			return err
		}
		fmt.Printf("Created universe '%s'\n", args[0])
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all universes",
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := apiClient(cmd).ListUniverses()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("No universes")
			return nil
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume <name>",
	Short: "Resume a paused universe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return apiClient(cmd).Resume(args[0])
	},
}

var pauseCmd = &cobra.Command{
	Use:   "pause <name>",
	Short: "Pause a universe's autonomous execution",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return apiClient(cmd).Pause(args[0])
	},
}

var collapseCmd = &cobra.Command{
	Use:   "collapse <name>",
	Short: "Destroy and delete a universe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return apiClient(cmd).Collapse(args[0])
	},
}

var shatterCmd = &cobra.Command{
	Use:   "shatter <name>",
	Short: "Damage a universe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		strength, _ := cmd.Flags().GetInt("strength")
		return apiClient(cmd).Shatter(args[0], strength)
	},
}

var healCmd = &cobra.Command{
	Use:   "heal <name>",
	Short: "Heal a universe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		strength, _ := cmd.Flags().GetInt("strength")
		return apiClient(cmd).Heal(args[0], strength)
	},
}

var crashCmd = &cobra.Command{
	Use:   "crash <name>",
	Short: "Force-crash a universe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return apiClient(cmd).Crash(args[0])
	},
}

var stateCmd = &cobra.Command{
	Use:   "state <name>",
	Short: "Ask a universe to publish a state snapshot to the feed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return apiClient(cmd).RequestState(args[0])
	},
}

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Fetch recent feed entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		entries, err := apiClient(cmd).Logs(limit)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Printf("[%s] %s\n", e.Level, e.Message)
		}
		return nil
	},
}

func init() {
	clientCmds := []*cobra.Command{
		createCmd, listCmd, resumeCmd, pauseCmd, collapseCmd,
		shatterCmd, healCmd, crashCmd, stateCmd, logsCmd,
	}
	for _, c := range clientCmds {
		c.Flags().String("server", "127.0.0.1:3000", "Server address")
		rootCmd.AddCommand(c)
	}

	shatterCmd.Flags().Int("strength", 10, "Damage to deal")
	healCmd.Flags().Int("strength", 10, "HP to restore")
	logsCmd.Flags().Int("limit", 100, "Maximum entries to fetch")
}
