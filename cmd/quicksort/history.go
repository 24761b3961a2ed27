package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quicksortapp/quicksort/internal/cli"
)

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <username>",
		Short: "Show a user's analysis history, newest first",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistory,
	}
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	user, err := store.GetUserByUsername(ctx, args[0])
	if err != nil {
		return err
	}

	records, err := store.ListHistory(ctx, user.ID)
	if err != nil {
		return err
	}

	rank, err := store.UserRank(ctx, user.ID)
	if err != nil {
		return err
	}

	cmd.Println(cli.TitleStyle.Render(fmt.Sprintf("%s: %.3f kg CO₂ saved, rank #%d",
		user.Username, user.TotalCarbonReduced, rank)))

	if len(records) == 0 {
		cmd.Println(cli.SubtleStyle.Render("no history yet"))
		return nil
	}

	for _, record := range records {
		label := record.Category
		if record.SubDetail != "" {
			label += " / " + record.SubDetail
		}
		cmd.Printf("%s  %s %s\n",
			record.CreatedAt.Format("2006-01-02"),
			label,
			cli.SuccessStyle.Render(fmt.Sprintf("+%.3f kg", record.CarbonReduced)),
		)
		if len(record.Guide) > 0 {
			cmd.Println(cli.SubtleStyle.Render("    " + strings.Join(record.Guide, " · ")))
		}
	}
	return nil
}
