// Package main is the operator CLI for the quoting platform.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quotewise-ai/quoting-platform/internal/store"
	"github.com/quotewise-ai/quoting-platform/pkg/logger"
)

var natsURL string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quotectl",
	Short: "Inspect and export quotes from the quoting platform",
	Long: `quotectl is an operator tool for the quoting platform's document store.

It connects directly to the store and lets you list an owner's quotes,
show a quote with its full message transcript, and export quotes as YAML.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&natsURL, "nats-url", "nats://localhost:4222", "document store URL")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(exportCmd)
}

// connect opens the document store for a command invocation.
func connect(ctx context.Context) (*store.Client, *store.DocumentStore, *store.MessageLog, error) {
	client, err := store.Connect(ctx, store.Config{URL: natsURL}, logger.NewNop())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connecting to document store: %w", err)
	}

	documents, err := store.NewDocumentStore(ctx, client)
	if err != nil {
		client.Close()
		return nil, nil, nil, fmt.Errorf("opening collections: %w", err)
	}

	return client, documents, store.NewMessageLog(client), nil
}
