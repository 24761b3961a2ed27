package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/quicksortapp/quicksort/internal/cli"
	"github.com/quicksortapp/quicksort/internal/model"
)

func guidesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "guides",
		Short: "Manage the disposal guide store",
	}

	cmd.AddCommand(guidesImportCmd())
	cmd.AddCommand(guidesListCmd())
	cmd.AddCommand(guidesCategoriesCmd())
	return cmd
}

func guidesImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import guide entries from a JSON file",
		Long: `Import disposal guide entries from a JSON file shaped as
{"category": {"sub-detail": ["instruction", ...], ...}, ...}.
Existing entries for the same (category, sub-detail) pair are replaced.`,
		Args: cobra.ExactArgs(1),
		RunE: runGuidesImport,
	}
}

func runGuidesImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read guide file: %w", err)
	}

	var guides map[string]map[string][]string
	if err := json.Unmarshal(data, &guides); err != nil {
		return fmt.Errorf("failed to parse guide file: %w", err)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	imported := 0
	for category, details := range guides {
		for subDetail, instructions := range details {
			entry := model.GuideEntry{
				Category:     category,
				SubDetail:    subDetail,
				Instructions: instructions,
			}
			if err := store.UpsertGuideEntry(ctx, entry); err != nil {
				return fmt.Errorf("failed to import %s/%s: %w", category, subDetail, err)
			}
			imported++
		}
	}

	cmd.Println(cli.SuccessStyle.Render(fmt.Sprintf("imported %d guide entries", imported)))
	return nil
}

func guidesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <category>",
		Short: "Show all guide entries for a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			details, err := store.GetCategoryDetails(ctx, args[0])
			if err != nil {
				return err
			}
			if len(details) == 0 {
				cmd.Println(cli.SubtleStyle.Render("no entries for category " + args[0]))
				return nil
			}

			subDetails := make([]string, 0, len(details))
			for subDetail := range details {
				subDetails = append(subDetails, subDetail)
			}
			sort.Strings(subDetails)

			cmd.Println(cli.TitleStyle.Render(args[0]))
			for _, subDetail := range subDetails {
				cmd.Println(cli.SuccessStyle.Render("• " + subDetail))
				for _, instruction := range details[subDetail] {
					cmd.Println("    " + instruction)
				}
			}
			return nil
		},
	}
}

func guidesCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List all categories in the guide store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			categories, err := store.ListGuideCategories(ctx)
			if err != nil {
				return err
			}
			for _, category := range categories {
				cmd.Println(category)
			}
			return nil
		},
	}
}
