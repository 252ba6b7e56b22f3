// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/bidibo/internal/fetch"
	"github.com/pdiddy/bidibo/internal/inspect"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file-or-url>",
	Short: "List the pages of a PDF and their sizes",
	Long: `Inspect prints the page count and the size of every page in points, so
you can decide which pages to pass to "process --exclude".`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().Bool("yaml", false, "print the page list as YAML")

	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	loader := fetch.NewLoader(nil, fetchConfig(), log)
	src, err := loader.Load(context.Background(), args[0])
	if err != nil {
		return err
	}

	report, err := inspect.Inspect(src.Data)
	if err != nil {
		return fmt.Errorf("inspecting %s: %w", src.Name, err)
	}

	asYAML, _ := cmd.Flags().GetBool("yaml")
	if !asYAML {
		report.Print(cmd.OutOrStdout(), src.Name)
		return nil
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	defer enc.Close()
	return enc.Encode(report)
}
