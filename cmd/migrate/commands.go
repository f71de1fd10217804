package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"petchef/internal/config"
	"petchef/internal/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type openFunc func() (*gorm.DB, *config.Config, error)

func newRootCmd(open openFunc) *cobra.Command {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Inspect and change the PetChef database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newUpCmd(open),
		newAutoCmd(open),
		newStatusCmd(open),
		newDownCmd(open),
	)
	return root
}

func newUpCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply pending SQL migrations (postgres only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, _, err := open()
			if err != nil {
				return err
			}
			ran, err := database.NewMigrator(db).Up(cmd.Context())
			if errors.Is(err, database.ErrAutoMigrateOnly) {
				return fmt.Errorf("%w; use `migrate auto`", err)
			}
			for _, m := range ran {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", m.String())
			}
			if err != nil {
				return err
			}
			if len(ran) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			}
			return nil
		},
	}
}

func newAutoCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "auto",
		Short: "Create or widen every model table with GORM AutoMigrate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, cfg, err := open()
			if err != nil {
				return err
			}
			// Same production guard as DB_SCHEMA_MODE=auto at startup.
			auto := *cfg
			auto.DBSchemaMode = database.SchemaModeAuto
			if _, err := database.PlanSchema(&auto); err != nil {
				return err
			}
			if err := database.AutoMigrate(cmd.Context(), db); err != nil {
				return err
			}
			tables, err := database.ManagedTables(db)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "automigrated %s\n", strings.Join(tables, ", "))
			return nil
		},
	}
}

func newStatusCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show what startup would do to the schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, cfg, err := open()
			if err != nil {
				return err
			}
			report, err := database.InspectSchema(cmd.Context(), db, cfg)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "driver:\t%s\n", report.Driver)
			fmt.Fprintf(w, "mode:\t%s\n", report.Mode)
			fmt.Fprintf(w, "env:\t%s\n", report.Environment)
			fmt.Fprintf(w, "sql migrations:\t%s\n", onOff(report.SQL))
			fmt.Fprintf(w, "automigrate:\t%s\n", onOff(report.Auto))
			if report.SQL {
				for _, a := range report.Applied {
					fmt.Fprintf(w, "applied:\t%06d_%s\t%s\n", a.Version, a.Name, a.AppliedAt.Format("2006-01-02 15:04"))
				}
				for _, m := range report.Pending {
					fmt.Fprintf(w, "pending:\t%s\n", m.String())
				}
			}
			if missing := report.MissingTables(); len(missing) > 0 {
				fmt.Fprintf(w, "missing tables:\t%s\n", strings.Join(missing, ", "))
			} else {
				fmt.Fprintf(w, "missing tables:\tnone\n")
			}
			return w.Flush()
		},
	}
}

func newDownCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "down <version>",
		Short: "Revert one applied SQL migration (postgres only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q: %w", args[0], err)
			}
			db, _, err := open()
			if err != nil {
				return err
			}
			if err := database.NewMigrator(db).Down(cmd.Context(), version); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reverted %06d\n", version)
			return nil
		},
	}
}

func onOff(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
