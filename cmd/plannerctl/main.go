// Command plannerctl administers the meal planner: schema migrations, password
// hashes and plan import.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pageza/mealplanner/backend/config"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "plannerctl",
		Short:         "Administer the meal planner backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")

	logger := func() *zap.Logger {
		if !verbose {
			return zap.NewNop()
		}
		log, err := zap.NewDevelopment()
		if err != nil {
			return zap.NewNop()
		}
		return log
	}

	root.AddCommand(
		newMigrateCmd(logger),
		newHashPasswordCmd(),
		newPlanCmd(logger),
	)
	return root
}

// loadConfig reads configuration the same way the API server does.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
