package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/loam"
	"github.com/spf13/cobra"

	loamcatalog "github.com/scenesmith/scenesmith/internal/adapters/loam"
	"github.com/scenesmith/scenesmith/internal/presentation/tui"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse and seed the preset library",
	Long:  `List and inspect the asset presets the editor can spawn entities from.`,
}

var catalogLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all presets in the library",
	Run: func(cmd *cobra.Command, args []string) {
		catalog := getCatalog(cmd)
		presets, err := catalog.List(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing presets: %v\n", err)
			os.Exit(1)
		}

		if len(presets) == 0 {
			fmt.Println("No presets found.")
			return
		}

		for _, p := range presets {
			fmt.Printf("- %-20s %-12s %s\n", p.ID, p.Kind, p.Name)
		}
	},
}

var catalogInspectCmd = &cobra.Command{
	Use:   "inspect <preset-id>",
	Short: "Inspect a preset",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		catalog := getCatalog(cmd)
		preset, err := catalog.Get(cmd.Context(), args[0])
		if err != nil {
			fmt.Printf("Error loading preset '%s': %v\n", args[0], err)
			os.Exit(1)
		}

		md := tui.PresetMarkdown(preset)
		render := tui.NewRenderer()
		out, err := render(md)
		if err != nil {
			fmt.Print(md)
			return
		}
		fmt.Print(out)
	},
}

var catalogSeedCmd = &cobra.Command{
	Use:   "seed [dir]",
	Short: "Write a starter preset library",
	Long:  `Generates a small library of ready-to-spawn presets so a fresh install has something on the shelf.`,
	Run: func(cmd *cobra.Command, args []string) {
		targetDir := "presets"
		if len(args) > 0 {
			targetDir = args[0]
		}

		if err := os.MkdirAll(targetDir, 0755); err != nil {
			fmt.Printf("Error creating directory: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Seeding starter presets in: %s\n", targetDir)

		repo, err := loam.Init(targetDir, loam.WithVersioning(false))
		if err != nil {
			fmt.Printf("Error initializing library: %v\n", err)
			os.Exit(1)
		}
		typedRepo := loam.NewTypedRepository[loamcatalog.PresetMetadata](repo)

		ctx := context.Background()
		for _, doc := range starterPresets() {
			if err := typedRepo.Save(ctx, &doc); err != nil {
				fmt.Printf("Error writing preset '%s': %v\n", doc.ID, err)
				os.Exit(1)
			}
		}

		fmt.Println("Done. Point catalog.root at", targetDir)
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogLsCmd)
	catalogCmd.AddCommand(catalogInspectCmd)
	catalogCmd.AddCommand(catalogSeedCmd)

	catalogCmd.PersistentFlags().String("root", "", "Preset library directory (overrides the config file)")
}

func getCatalog(cmd *cobra.Command) *loamcatalog.Catalog {
	root, _ := cmd.Flags().GetString("root")
	if root == "" {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		root = cfg.Catalog.Root
	}
	if root == "" {
		fmt.Println("No preset library configured. Set catalog.root or pass --root.")
		os.Exit(1)
	}

	catalog, err := loamcatalog.Open(root)
	if err != nil {
		fmt.Printf("Error opening preset library: %v\n", err)
		os.Exit(1)
	}
	return catalog
}

// starterPresets returns the documents 'catalog seed' writes: one prop with
// a ready-made asset, one plain shape and one light.
func starterPresets() []loam.DocumentModel[loamcatalog.PresetMetadata] {
	return []loam.DocumentModel[loamcatalog.PresetMetadata]{
		{
			ID:      "crate",
			Content: "A weathered wooden crate, ready to stack.",
			Data: loamcatalog.PresetMetadata{
				Name:     "Wooden Crate",
				Kind:     "generative",
				FileURL:  "https://assets.scenesmith.dev/starter/crate.glb",
				Tags:     []string{"prop", "wood"},
				Position: []float64{0, 0.5, 0},
			},
		},
		{
			ID:      "ground-plane",
			Content: "A flat ground plane to build on.",
			Data: loamcatalog.PresetMetadata{
				Name:  "Ground Plane",
				Kind:  "shape",
				Scale: []float64{20, 0.1, 20},
			},
		},
		{
			ID:      "key-light",
			Content: "Default three-point key light.",
			Data: loamcatalog.PresetMetadata{
				Name:     "Key Light",
				Kind:     "light",
				Rotation: []float64{-0.8, 0.3, 0},
				Position: []float64{4, 6, 4},
			},
		},
	}
}
