// Command cmsctl runs maintenance tasks against the academy database.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"academy-cms/internal/config"
	database "academy-cms/internal/db"
)

var (
	client *database.Client
	cfg    *config.Config

	// openDB is swapped in tests.
	openDB = func() (*config.Config, *database.Client, error) {
		c, err := config.Load()
		if err != nil {
			return nil, nil, err
		}
		db, err := database.New(c)
		if err != nil {
			return nil, nil, err
		}
		return c, db, nil
	}
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cmsctl",
		Short:         "Academy CMS maintenance",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if client != nil {
				return nil
			}
			c, db, err := openDB()
			if err != nil {
				return err
			}
			cfg, client = c, db
			return nil
		},
	}
	root.AddCommand(newMigrateCmd(), newSeedCmd(), newRebuildBiosCmd(), newScheduleCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cmsctl:", err)
		os.Exit(1)
	}
}
