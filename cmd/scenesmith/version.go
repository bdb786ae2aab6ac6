package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scenesmith/scenesmith"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of scenesmith",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("scenesmith version %s\n", scenesmith.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
