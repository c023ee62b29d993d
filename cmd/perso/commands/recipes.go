package commands

import (
	"fmt"
	"time"

	"perso/internal/recipes"
	"perso/internal/ui"

	"github.com/spf13/cobra"
)

func newRecipesCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "Query the recipe database",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get <title>",
			Short: "Show one recipe",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				text, err := recipes.Lookup(cmd.Context(), app.RecipeStore(), args[0])
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return err
			},
		},
		&cobra.Command{
			Use:   "done <title>",
			Short: "Record that a recipe was cooked today",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				text, err := recipes.MarkDone(cmd.Context(), app.RecipeStore(), args[0], time.Now())
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return err
			},
		},
		newRecipesProposeCommand(app),
		newRecipesInitCommand(app),
	)
	return cmd
}

func newRecipesProposeCommand(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "propose <source>",
		Short: "List the least recently cooked recipes of a source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("invalid count %d: must be positive", limit)
			}
			text, err := recipes.Propose(cmd.Context(), app.RecipeStore(), args[0], limit)
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
	cmd.Flags().IntVarP(&limit, "count", "n", 5, "number of recipes to propose")
	return cmd
}

func newRecipesInitCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create an empty recipe database at the configured path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.Config.DatabasePath()
			err := recipes.Create(cmd.Context(), path)
			fmt.Fprintln(cmd.OutOrStdout(), ui.Status(err, "Recipe database ready at "+path))
			return err
		},
	}
}
