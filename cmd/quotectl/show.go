package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var roleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("212"))

var showCmd = &cobra.Command{
	Use:   "show <quote-id>",
	Short: "Show a quote and its message transcript",
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

		fmt.Println(headerStyle.Render("Quote " + quote.ID))
		fmt.Printf("Owner:   %s\n", quote.Email)
		fmt.Printf("Status:  %s\n", statusStyle.Render(string(quote.Status)))
		fmt.Printf("Created: %s\n", dateStyle.Render(quote.CreatedAt.Format(time.RFC1123)))
		fmt.Printf("Issue:   %s\n", quote.Issue)
		if quote.ContractorNote != "" {
			fmt.Printf("Note:    %s\n", quote.ContractorNote)
		}
		for _, url := range quote.Images {
			fmt.Printf("Image:   %s\n", url)
		}

		transcript, _, _, err := messages.List(ctx, quote.ID, 0, 100)
		if err != nil {
			return fmt.Errorf("loading transcript: %w", err)
		}

		if len(transcript) > 0 {
			fmt.Println()
			fmt.Println(headerStyle.Render("Transcript"))
			for _, msg := range transcript {
				fmt.Printf("%s %s\n", roleStyle.Render(string(msg.Role)+":"), msg.Content)
			}
		}

		return nil
	},
}
