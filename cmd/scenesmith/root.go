package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scenesmith/scenesmith/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "scenesmith",
	Short: "Scenesmith is a generation-aware 3D scene editor",
	Long: `Scenesmith edits 3D scenes whose entities carry their full generation
trail: every image and model produced for an entity stays addressable, and
every edit is an undoable command. The same scene can be driven from the
terminal, a JSON API, or an MCP agent.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultPath, "Path to the scenesmith config file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug detail to stderr")
}
