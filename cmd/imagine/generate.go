package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrianliechti/imagine/pkg/client"

	"github.com/spf13/cobra"
)

var (
	generateModel       string
	generateAspectRatio string
	generateFormat      string
	generateWidth       int
	generateHeight      int
	generateCount       int
	generateOutput      string
)

var generateCmd = &cobra.Command{
	Use:   "generate <prompt>",
	Short: "Generate images for a prompt",
	Long: `Generate images for a prompt and write them to the output directory.

Examples:
  imagine generate "a red fox in the snow"
  imagine generate "a lighthouse at dusk" --aspect-ratio 16:9 --format webp
  imagine generate "a logo" --aspect-ratio custom --width 512 --height 512`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&generateModel, "model", "", "model id")
	generateCmd.Flags().StringVar(&generateAspectRatio, "aspect-ratio", "", "aspect ratio (1:1, 16:9, 4:3, 3:2, 2:3, 9:16, custom)")
	generateCmd.Flags().StringVar(&generateFormat, "format", "", "output format (png, jpg, webp, gif)")
	generateCmd.Flags().IntVar(&generateWidth, "width", 0, "width for custom aspect ratio")
	generateCmd.Flags().IntVar(&generateHeight, "height", 0, "height for custom aspect ratio")
	generateCmd.Flags().IntVarP(&generateCount, "num", "n", 0, "number of images")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", ".", "output directory")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	req := client.ImageRequest{
		Prompt: strings.Join(args, " "),
		Model:  generateModel,

		AspectRatio: generateAspectRatio,
		Format:      generateFormat,
	}

	if generateWidth > 0 {
		req.Width = client.Ptr(generateWidth)
	}

	if generateHeight > 0 {
		req.Height = client.Ptr(generateHeight)
	}

	if generateCount > 0 {
		req.NumOutputs = client.Ptr(generateCount)
	}

	resp, err := newClient().Images.Generate(cmd.Context(), req)

	if err != nil {
		return fmt.Errorf("failed to generate image: %w", err)
	}

	if resp.Degraded {
		fmt.Fprintln(os.Stderr, "warning: no image returned by provider")
	}

	for i, resource := range resp.Resources {
		if resource.Failed() {
			fmt.Fprintf(os.Stderr, "%s: %s\n", resource.Locator, resource.Failure)
			continue
		}

		data, _, err := client.Decode(resource.Embedded)

		if err != nil {
			return err
		}

		name := filepath.Join(generateOutput, fmt.Sprintf("image-%d-%d.%s", resp.GeneratedAt.Unix(), i+1, resp.Format))

		if err := os.WriteFile(name, data, 0644); err != nil {
			return fmt.Errorf("failed to write image: %w", err)
		}

		fmt.Println(name)
	}

	return nil
}
