package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Register schema migrations before any command runs.
	_ "github.com/workhive/workhive/database/migrations"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "workhive",
	Short: "Workhive freelance marketplace backend",
	Long:  "Workhive serves the marketplace API and manages its database, outbox workers and schedules.",
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	rootCmd.AddCommand(queueWorkCmd)
	rootCmd.AddCommand(scheduleRunCmd)
}
