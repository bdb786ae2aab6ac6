package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scenesmith/scenesmith"
	"github.com/scenesmith/scenesmith/internal/presentation/tui"
	"github.com/scenesmith/scenesmith/pkg/domain"
	"github.com/scenesmith/scenesmith/pkg/observability"
	"github.com/scenesmith/scenesmith/pkg/session"
)

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the interactive scene editor",
	Long: `Starts an interactive editing session. Entities can be spawned, moved,
generated against and undone from the prompt; 'save' and 'load' exchange
the scene with the configured project store.

With --project, the session checks out the named project exclusively,
edits it, and writes the result back on exit.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}

		logger := createLogger(cmd)
		verbose, _ := cmd.Flags().GetBool("verbose")

		var hooks []domain.LifecycleHooks
		if verbose {
			hooks = append(hooks, observability.DebugHooks(logger))
		}

		store, locker, err := createStore(cfg)
		if err != nil {
			fmt.Printf("Error opening project store: %v\n", err)
			os.Exit(1)
		}

		editor, err := createEditor(cfg, store, logger, hooks...)
		if err != nil {
			fmt.Printf("Error initializing editor: %v\n", err)
			os.Exit(1)
		}

		ctx := context.Background()

		// With --project, hold the project lease for the whole session.
		projectName, _ := cmd.Flags().GetString("project")
		var lease *session.Lease
		if projectName != "" {
			mgr := createManager(store, locker, logger)
			lease, err = mgr.CheckoutOrCreate(ctx, projectName)
			if err != nil {
				fmt.Printf("Error checking out project '%s': %v\n", projectName, err)
				os.Exit(1)
			}

			report, err := editor.Restore(ctx, lease.Project())
			if err != nil {
				fmt.Printf("Error restoring project '%s': %v\n", projectName, err)
				os.Exit(1)
			}
			fmt.Printf("Checked out project '%s' (%d entities)\n", projectName, report.Restored)
			for _, w := range report.Warnings {
				fmt.Println("  warning: " + w)
			}
		}

		headless, _ := cmd.Flags().GetBool("headless")
		if !headless {
			tui.PrintBanner()
		}

		sess := scenesmith.NewSession(editor)
		sess.Input = os.Stdin
		sess.Output = os.Stdout
		sess.Headless = headless

		if err := sess.Run(ctx); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		if lease != nil {
			if err := lease.Commit(ctx, editor.Export(projectName)); err != nil {
				fmt.Printf("Error saving project '%s': %v\n", projectName, err)
			} else {
				fmt.Printf("Saved project '%s'\n", projectName)
			}
			if err := lease.Release(ctx); err != nil {
				logger.Warn("lease release failed", "project", projectName, "error", err)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().Bool("headless", false, "Run without banner or prompts (strict IO)")
	editCmd.Flags().StringP("project", "p", "", "Check out a stored project for the session")

	// Make 'edit' the default when no subcommand is given.
	rootCmd.Run = editCmd.Run
}
