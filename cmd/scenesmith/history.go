package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scenesmith/scenesmith/internal/presentation/graph"
	"github.com/scenesmith/scenesmith/internal/presentation/tui"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history <project> <entity>",
	Short: "Show an entity's generation trail",
	Long: `Inspects a saved project and prints the generation history of one
entity: every image and model produced for it, the derivation edges
between them, and which entry the entity currently displays.

The entity may be addressed by UUID or by name.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		project := loadProject(cmd, args[0])

		rec, ok := project.Entity(args[1])
		if !ok {
			fmt.Printf("Error: no entity %q in project '%s'\n", args[1], args[0])
			os.Exit(1)
		}
		if rec.History == nil {
			fmt.Printf("Entity %q has no generation history.\n", args[1])
			return
		}

		name := rec.Name
		if name == "" {
			name = rec.UUID.String()
		}

		if mermaid, _ := cmd.Flags().GetBool("mermaid"); mermaid {
			fmt.Print(graph.RenderHistory(name, rec.History))
			return
		}

		md := tui.HistoryMarkdown(name, rec.History)
		render := tui.NewRenderer()
		out, err := render(md)
		if err != nil {
			fmt.Print(md)
			return
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().Bool("mermaid", false, "Emit a Mermaid diagram instead of a report")
}
