package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quicksortapp/quicksort/internal/cli"
)

func leaderboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the top users by CO₂ reduction",
		RunE:  runLeaderboard,
	}

	cmd.Flags().Int("limit", 10, "number of users to show")
	return cmd
}

func runLeaderboard(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	users, err := store.Leaderboard(ctx, limit)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		cmd.Println(cli.SubtleStyle.Render("no users yet"))
		return nil
	}

	cmd.Println(cli.TitleStyle.Render("♻️  Leaderboard"))
	for i, user := range users {
		cmd.Printf("%s %s %s\n",
			cli.RankStyle.Render(fmt.Sprintf("%d.", i+1)),
			user.Username,
			cli.SubtleStyle.Render(fmt.Sprintf("%.3f kg CO₂", user.TotalCarbonReduced)),
		)
	}
	return nil
}
