package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pageza/mealplanner/backend/internal/app"
	"github.com/pageza/mealplanner/backend/internal/plan"
	"github.com/pageza/mealplanner/backend/internal/service"
)

func newPlanCmd(logger func() *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Import or print the weekly plan",
	}
	cmd.AddCommand(newPlanImportCmd(logger), newPlanShowCmd(logger))
	return cmd
}

func newPlanImportCmd(logger func() *zap.Logger) *cobra.Command {
	var skipLLM bool
	var haveAtHome string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the weekly plan with the recipes in a file",
		Long: `Replace the weekly plan with the recipes in a file ("-" reads stdin).

Recipes use the same format as the web form: "# <url>" starts a recipe and
"## <ingredient>" lines follow it. Unless --skip-llm is set the shopping list
is generated and printed as HTML.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := app.New(cmd.Context(), cfg, logger())
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if skipLLM {
				entries, err := a.Ingredients.ImportPlan(cmd.Context(), text)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "imported %d meals\n", len(entries))
				return nil
			}

			list, err := a.Ingredients.Ingest(cmd.Context(), text, haveAtHome)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "imported %d recipes into %d meals (llm %.2fs)\n",
				list.RecipeCount, list.MealCount, list.LLMTime)
			fmt.Fprintln(out, list.HTML)
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipLLM, "skip-llm", false, "only replace the plan, do not generate a shopping list")
	cmd.Flags().StringVar(&haveAtHome, "have-at-home", "", "items to leave off the shopping list")
	return cmd
}

func newPlanShowCmd(logger func() *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the weekly plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := app.New(cmd.Context(), cfg, logger())
			if err != nil {
				return err
			}
			defer a.Close()

			view, err := a.WeeklySvc.GetWeeklyMealPlan(cmd.Context())
			if err != nil {
				return err
			}
			return printPlan(cmd.OutOrStdout(), view)
		},
	}
}

func readInput(stdin io.Reader, path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read recipes: %w", err)
	}
	return string(data), nil
}

func printPlan(w io.Writer, view service.WeeklyPlanView) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DAY\tMEAL\tRECIPE\tID")
	for _, day := range plan.Days() {
		for _, meal := range plan.MealTypes() {
			entries := view[day][meal]
			if len(entries) == 0 {
				fmt.Fprintf(tw, "%s\t%s\t-\t\n", day, meal)
				continue
			}
			for _, e := range entries {
				link := "-"
				if e.Link != nil {
					link = *e.Link
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", day, meal, link, e.ID)
			}
		}
	}
	return tw.Flush()
}
