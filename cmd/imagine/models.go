package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available models",
	Args:  cobra.NoArgs,
	RunE:  runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	models, err := newClient().Models.List(cmd.Context())

	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "ID\tNAME\tDEFAULT\tMAX")

	for _, m := range models {
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%dx%d\n", m.ID, m.Name, m.DefaultWidth, m.DefaultHeight, m.MaxWidth, m.MaxHeight)
	}

	return nil
}
