package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"github.com/bookshelf/secureapp/internal/pkg/config"
	"github.com/bookshelf/secureapp/pkg/logger"
)

const serviceName = "secureapp"

var (
	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "secureapp",
	Short: "Role-guarded book catalog",
	Long: `secureapp serves a book catalog behind sliding sessions and role-based
access policies. Use "serve" to run the HTTP API and "create-db" to reset and
seed the database.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadFrom(cmd.Context(), envconfig.OsLookuper())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
		log = logger.Init(logger.Options{
			Level:   cfg.LogLevel,
			Pretty:  !cfg.IsProduction(),
			Service: serviceName,
		})
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(createDBCmd)
}
