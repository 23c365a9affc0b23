package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/quotewise-ai/quoting-platform/internal/model"
)

var listEmail string

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List quotes for an owner",
	RunE: func(cmd *cobra.Command, args []string) error {
		if listEmail == "" {
			return fmt.Errorf("--email is required")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		client, documents, _, err := connect(ctx)
		if err != nil {
			return err
		}
		defer client.Close()

		quotes, err := documents.ListQuotesByOwner(ctx, model.Identity{Email: listEmail})
		if err != nil {
			return fmt.Errorf("listing quotes: %w", err)
		}

		if len(quotes) == 0 {
			fmt.Println("No quotes found.")
			return nil
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("%d quote(s) for %s", len(quotes), listEmail)))
		for _, q := range quotes {
			issue := q.Issue
			if len(issue) > 72 {
				issue = issue[:69] + "..."
			}
			fmt.Printf("%s  %s  %s\n  %s\n",
				idStyle.Render(q.ID),
				statusStyle.Render(string(q.Status)),
				dateStyle.Render(q.CreatedAt.Format("2006-01-02 15:04")),
				issue,
			)
		}

		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listEmail, "email", "", "owner email to list quotes for")
}
