package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/recipecart/backend/internal/domain"
	"github.com/spf13/cobra"
)

var dryRun bool

func init() {
	cartCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Match products but do not change the cart.")
	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(authorizeCmd)
}

var cartCmd = &cobra.Command{
	Use:   "cart <recipe-url> [--dry-run]",
	Short: "Adds the ingredients of a recipe to the Kroger cart.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := requireCart(a); err != nil {
			return err
		}

		r, err := a.Recipes.Recipe(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if dryRun {
			matches, skipped, err := a.Cart.Reconcile(cmd.Context(), a.Normalizer.Normalize(r.Ingredients))
			if err != nil {
				return err
			}
			renderMatches(cmd, matches)
			renderSkipped(cmd, skipped)
			return nil
		}

		result, err := a.Cart.Shop(cmd.Context(), r.Ingredients)
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Product", "Quantity"})
		for _, item := range result.Items {
			t.AppendRow(table.Row{item.ProductID, item.Quantity})
		}
		t.Render()
		renderSkipped(cmd, result.Skipped)

		if result.Committed {
			fmt.Fprintf(cmd.OutOrStdout(), "added %d products for %s\n", len(result.Items), r.Name)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "no products matched, cart unchanged")
		}
		return nil
	},
}

var authorizeCmd = &cobra.Command{
	Use:   "authorize",
	Short: "Runs the Kroger authorization flow if no usable token is stored.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := requireCart(a); err != nil {
			return err
		}

		token, err := a.Session.Token(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "authorized, token valid until %s\n", token.Expiry.Format("2006-01-02 15:04:05"))
		return nil
	},
}

func renderMatches(cmd *cobra.Command, matches []domain.ProductMatch) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"Term", "Product", "Description", "Score"})
	for _, m := range matches {
		if !m.Matched() {
			t.AppendRow(table.Row{m.QueryTerm, "-", "", ""})
			continue
		}
		t.AppendRow(table.Row{m.QueryTerm, *m.ProductID, m.Description, fmt.Sprintf("%.1f", m.Score)})
	}
	t.Render()
}

func renderSkipped(cmd *cobra.Command, skipped []domain.SkipReport) {
	if len(skipped) == 0 {
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetTitle("Skipped")
	t.AppendHeader(table.Row{"Term", "Reason"})
	for _, s := range skipped {
		t.AppendRow(table.Row{s.Term, s.Reason})
	}
	t.Render()
}
