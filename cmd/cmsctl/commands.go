package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	database "academy-cms/internal/db"
	"academy-cms/internal/models"
	"academy-cms/internal/timetable"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.AutoMigrate(); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	seed := &cobra.Command{
		Use:   "seed",
		Short: "Load initial data into empty tables",
	}

	var scheduleFile string
	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Seed the weekly timetable",
		Long: `Seed the schedules table when it is empty.

Without --file the built-in timetable is used.

Example:
  cmsctl seed schedule
  cmsctl seed schedule --file timetable.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			if scheduleFile != "" {
				b, err := os.ReadFile(scheduleFile)
				if err != nil {
					return fmt.Errorf("read schedule: %w", err)
				}
				data = b
			}
			n, err := database.SeedSchedules(client.DB, data)
			if err != nil {
				return fmt.Errorf("seed schedule: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d schedule rows\n", n)
			return nil
		},
	}
	scheduleCmd.Flags().StringVar(&scheduleFile, "file", "", "YAML file mapping day names to sessions")

	var instructorsFile string
	instructorsCmd := &cobra.Command{
		Use:   "instructors",
		Short: "Import instructors from a JSON export",
		Long: `Import instructors when the table is empty. Bios are converted
to HTML once during the import.

Example:
  cmsctl seed instructors --file instructors.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := database.MigrateInstructors(client.DB, instructorsFile)
			if err != nil {
				return fmt.Errorf("seed instructors: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d instructors\n", n)
			return nil
		},
	}
	instructorsCmd.Flags().StringVar(&instructorsFile, "file", "instructors.json", "JSON array of {id, name, bio, image}")

	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Create the admin account from auth.admin_username/admin_password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := database.SeedAdminUser(client.DB, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword)
			if err != nil {
				return fmt.Errorf("seed admin: %w", err)
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "created admin %q\n", cfg.Auth.AdminUsername)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "admin not created (users exist or credentials unset)")
			}
			return nil
		},
	}

	seed.AddCommand(scheduleCmd, instructorsCmd, adminCmd)
	return seed
}

func newRebuildBiosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild-bios",
		Short: "Re-run the bio converter over stored instructors",
		Long: `Convert every stored bio to HTML again. Bios that are already
HTML are left as they are, so the command is safe to repeat.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := database.RebuildBios(client.DB)
			if err != nil {
				return fmt.Errorf("rebuild bios: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %d bios\n", n)
			return nil
		},
	}
}

func newScheduleCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the weekly timetable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows []models.ScheduleEntry
			if err := client.DB.Order("id asc").Find(&rows).Error; err != nil {
				return fmt.Errorf("load schedule: %w", err)
			}
			week := timetable.GroupByWeek(rows)
			if asJSON {
				out, err := json.MarshalIndent(week, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal schedule: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			}
			return timetable.Format(cmd.OutOrStdout(), week)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	return cmd
}
