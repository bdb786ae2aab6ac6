package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scenesmith/scenesmith/internal/presentation/tui"
	"github.com/scenesmith/scenesmith/internal/validator"
	"github.com/scenesmith/scenesmith/pkg/domain"
	"github.com/scenesmith/scenesmith/pkg/session"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage saved projects",
	Long:  `List, inspect, validate and remove scene documents in the configured project store.`,
}

var projectLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all saved projects",
	Run: func(cmd *cobra.Command, args []string) {
		store := getProjectStore(cmd)
		names, err := store.List(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing projects: %v\n", err)
			os.Exit(1)
		}

		if len(names) == 0 {
			fmt.Println("No saved projects found.")
			return
		}

		fmt.Println("Saved Projects:")
		for _, n := range names {
			fmt.Println("- " + n)
		}
	},
}

var projectInspectCmd = &cobra.Command{
	Use:   "inspect <project>",
	Short: "Inspect a saved project",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		project := loadProject(cmd, args[0])

		if jsonMode, _ := cmd.Flags().GetBool("json"); jsonMode {
			data, err := json.MarshalIndent(project, "", "  ")
			if err != nil {
				fmt.Printf("Error marshaling project: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(data))
			return
		}

		render := tui.NewRenderer()
		out, err := render(tui.ProjectMarkdown(project))
		if err != nil {
			fmt.Print(tui.ProjectMarkdown(project))
			return
		}
		fmt.Print(out)
	},
}

var projectRmCmd = &cobra.Command{
	Use:   "rm <project>...",
	Short: "Remove one or more saved projects",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := getProjectStore(cmd)
		hasError := false

		for _, name := range args {
			if err := store.Delete(cmd.Context(), name); err != nil {
				fmt.Printf("Error removing '%s': %v\n", name, err)
				hasError = true
			} else {
				fmt.Printf("Removed project '%s'\n", name)
			}
		}

		if hasError {
			os.Exit(1)
		}
	},
}

var projectValidateCmd = &cobra.Command{
	Use:   "validate <project>",
	Short: "Check a saved project for consistency",
	Long:  `Checks a stored scene document for duplicate UUIDs, broken attachments, parent cycles and malformed generation trails.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		project := loadProject(cmd, args[0])

		findings := validator.Validate(project)
		for _, f := range findings {
			fmt.Println(f.String())
		}

		if validator.HasErrors(findings) {
			os.Exit(1)
		}
		fmt.Println("Project is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectLsCmd)
	projectCmd.AddCommand(projectInspectCmd)
	projectCmd.AddCommand(projectRmCmd)
	projectCmd.AddCommand(projectValidateCmd)

	projectInspectCmd.Flags().Bool("json", false, "Print the raw document instead of a report")
}

func getProjectStore(cmd *cobra.Command) *session.Manager {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	store, locker, err := createStore(cfg)
	if err != nil {
		fmt.Printf("Error opening project store: %v\n", err)
		os.Exit(1)
	}
	return createManager(store, locker, createLogger(cmd))
}

func loadProject(cmd *cobra.Command, name string) *domain.Project {
	store := getProjectStore(cmd)
	project, err := store.Load(cmd.Context(), name)
	if err != nil {
		fmt.Printf("Error loading project '%s': %v\n", name, err)
		os.Exit(1)
	}
	return project
}
