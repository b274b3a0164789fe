package main

import (
	"os"

	"github.com/adrianliechti/imagine/pkg/client"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	serverURL   string
	serverToken string
)

var rootCmd = &cobra.Command{
	Use:   "imagine",
	Short: "Generate images from text prompts",

	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "url", envOr("IMAGINE_URL", "http://localhost:3000"), "server url")
	rootCmd.PersistentFlags().StringVar(&serverToken, "token", os.Getenv("IMAGINE_TOKEN"), "server token")
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newClient() *client.Client {
	var options []client.RequestOption

	if serverToken != "" {
		options = append(options, client.WithToken(serverToken))
	}

	return client.New(serverURL, options...)
}

func envOr(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}
