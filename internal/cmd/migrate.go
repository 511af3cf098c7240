package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avatarctic/realestate-crm/internal/infrastructure/db"
)

var migrateSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down|version]",
	Short: "Apply or roll back SQL migrations",
	Long: `Apply or roll back the SQL migrations in DB_MIGRATIONS_PATH.

  up       apply pending migrations (default)
  down     roll back; --steps limits how many
  version  print the current schema version`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"up", "down", "version"},
	RunE: func(cmd *cobra.Command, args []string) error {
		action := "up"
		if len(args) == 1 {
			action = args[0]
		}

		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		database, err := db.NewDatabaseWithConfig(&cfg.Database)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer database.Close()

		path := cfg.Database.MigrationsPath
		switch action {
		case "up":
			err = database.MigrateDirection(path, db.MigrateUp, migrateSteps)
		case "down":
			err = database.MigrateDirection(path, db.MigrateDown, migrateSteps)
		case "version":
			version, dirty, verr := database.MigrationVersion(path)
			if verr != nil {
				return verr
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
			return nil
		default:
			return fmt.Errorf("unknown migrate action %q", action)
		}
		if err != nil {
			return fmt.Errorf("migrate %s: %w", action, err)
		}
		logger.WithField("action", action).Info("migrations applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().IntVar(&migrateSteps, "steps", 0, "number of migrations to apply or roll back (0 = all)")
}
