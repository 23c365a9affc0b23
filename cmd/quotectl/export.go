package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/quotewise-ai/quoting-platform/internal/model"
)

// exportDoc is the YAML document produced by the export command.
type exportDoc struct {
	Quote    *model.Quote    `yaml:"quote"`
	Messages []model.Message `yaml:"messages"`
}

var exportCmd = &cobra.Command{
	Use:   "export <quote-id>",
	Short: "Export a quote and its transcript as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		client, documents, messages, err := connect(ctx)
		if err != nil {
			return err
		}
		defer client.Close()

		quote, err := documents.GetQuote(ctx, args[0])
		if err != nil {
			return fmt.Errorf("loading quote: %w", err)
		}

		transcript, _, _, err := messages.List(ctx, quote.ID, 0, 100)
		if err != nil {
			return fmt.Errorf("loading transcript: %w", err)
		}

		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()

		return enc.Encode(&exportDoc{
			Quote:    quote,
			Messages: transcript,
		})
	},
}
