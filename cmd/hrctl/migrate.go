package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ogurasousui/shop-hr/internal/platform/migration"
)

func (a *app) migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|drop|version]",
		Short:     "Apply the embedded schema migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: migration.Actions,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			action := "up"
			if len(args) > 0 {
				action = args[0]
			}

			runner, err := migration.New(a.cfg.Database, a.logger)
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, runner.Close())
			}()

			if err := runner.Run(action); err != nil {
				return fmt.Errorf("migration %s failed: %w", action, err)
			}
			a.logger.Info("migration completed", "action", action, "driver", a.cfg.Database.Driver)
			return nil
		},
	}
}
