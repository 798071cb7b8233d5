package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/bookshelf/secureapp/internal/core/service"
)

var createDBCmd = &cobra.Command{
	Use:   "create-db",
	Short: "Drop and recreate the database with the default roles and accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.close(context.Background())

		seed := service.NewSeedService(st.schema, st.tx, st.accounts, st.roles, st.assignments, log)
		if err := seed.Run(ctx, service.DefaultSeedRoles, service.DefaultSeedAccounts); err != nil {
			// A failed seed is reported and the command still exits cleanly.
			log.Error().Err(err).Msg("create-db failed")
			return nil
		}

		log.Info().
			Int("roles", len(service.DefaultSeedRoles)).
			Int("accounts", len(service.DefaultSeedAccounts)).
			Msg("database created")
		return nil
	},
}
