package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(recipeCmd)
}

var showCmd = &cobra.Command{
	Use:   "show <query...>",
	Short: "Prints the recipes stored under a previous search query.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		label := strings.Join(args, " ")
		rows, err := a.Recipes.Stored(cmd.Context(), label)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "nothing stored under %q\n", label)
			return nil
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Name", "Rating", "Ratings", "Reviews", "Servings", "URL"})
		for _, row := range rows {
			t.AppendRow(table.Row{row.Name, row.Rating, row.RatingCount, row.ReviewCount, row.Servings, row.SourceURL})
		}
		t.Render()
		return nil
	},
}

var recipeCmd = &cobra.Command{
	Use:   "recipe <url>",
	Short: "Extracts one recipe and prints every field with its allergen profile.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		r, err := a.Recipes.Recipe(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		profile := a.Allergens.Profile(r.Name, a.Normalizer.NormalizeEach(r.Ingredients))

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.SetTitle(r.Info())
		t.AppendRows([]table.Row{
			{"URL", r.SourceURL},
			{"Ratings", r.RatingCount},
			{"Reviews", r.ReviewCount},
			{"Servings", r.Servings},
			{"Steps", r.StepCountLabel()},
			{"Ingredients", strings.Join(r.Ingredients, "\n")},
			{"Nutrition", r.NutritionLabel()},
			{"Top reviews", r.ReviewsLabel()},
			{"Allergens", fmt.Sprintf("dairy %d, egg %d, peanut %d, tree nut %d, other %d",
				profile.Dairy, profile.Egg, profile.Peanut, profile.TreeNut, profile.Other)},
		})
		t.Render()
		return nil
	},
}
