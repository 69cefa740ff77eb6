package commands

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/recipecart/backend/internal/domain"
	"github.com/spf13/cobra"
)

var searchLimit int

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "Maximum number of recipes to extract (0 uses the configured default).")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Searches the recipe site, extracts every result and stores it under the query.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		records, err := a.Recipes.Search(cmd.Context(), strings.Join(args, " "), searchLimit)
		if err != nil {
			return err
		}

		renderRecords(cmd, records)
		return nil
	},
}

func renderRecords(cmd *cobra.Command, records []*domain.RecipeRecord) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"#", "Name", "Rating", "Ratings", "Reviews", "Servings", "Steps", "URL"})
	for i, r := range records {
		t.AppendRow(table.Row{i + 1, r.Name, r.RatingLabel(), r.RatingCount, r.ReviewCount, r.Servings, r.StepCountLabel(), r.SourceURL})
	}
	t.AppendFooter(table.Row{"", "Total", len(records)})
	t.Render()
}
