// Command cleanout is the marketplace's operational CLI.
//
//	cleanout serve             # start the HTTP server
//	cleanout migrate           # run pending migrations
//	cleanout migrate:rollback  # rollback the last batch
//	cleanout migrate:status    # show migration status
//	cleanout seed              # run the seeders
//	cleanout route:list        # list the API routes
//	cleanout queue:work        # run queue workers only
//	cleanout schedule:run      # run the scheduler only
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import migrations so their init() funcs run and register themselves.
	_ "github.com/chhotalabhavik/cleanout/database/migrations"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cleanout",
	Short: "Clean Out — marketplace backend CLI",
	Long:  "Clean Out is a marketplace backend for household items and cleaning services. Use this CLI to serve, migrate and operate it.",
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	// Workers
	rootCmd.AddCommand(queueWorkCmd)
	rootCmd.AddCommand(scheduleRunCmd)
}
