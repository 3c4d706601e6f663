package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fixhub-io/fixhub-ce/internal/config"
	"github.com/fixhub-io/fixhub-ce/internal/database"
)

var (
	version = "dev"
	commit  = "none"
)

var configFlag string

var rootCmd = &cobra.Command{
	Use:     "fixhub-migrate",
	Short:   "FixHub database management tool",
	Long:    `Creates the FixHub schema and loads initial worker accounts.`,
	Version: fmt.Sprintf("%s (commit: %s)", version, commit),
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(configFlag); err != nil {
			return err
		}
		db, err := database.Connect(config.Get().Database)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.Migrate(db); err != nil {
			return err
		}
		fmt.Println("schema is up to date")
		return nil
	},
}

var seedFileFlag string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load worker accounts from a YAML seed file",
	Long: `Seed reads a YAML file of worker accounts and inserts them with
bcrypt-hashed passwords. It is a no-op when workers already exist.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(configFlag); err != nil {
			return err
		}
		db, err := database.Connect(config.Get().Database)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.Migrate(db); err != nil {
			return err
		}
		if err := database.Seed(db, seedFileFlag); err != nil {
			return err
		}
		fmt.Println("seed applied")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "config.yaml", "Path to config file")
	seedCmd.Flags().StringVar(&seedFileFlag, "file", "seed.yaml", "Path to seed file")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
