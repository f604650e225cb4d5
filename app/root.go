// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "go-enroll-sync",
	Short: "GoEnrollSync reconciles registry enrollments and directory users into one snapshot",
	Long: `GoEnrollSync keeps the application's users, students, access grants and
schools in step with the upstream education registry and the identity
directory. It fetches both sources, reconciles them against the persisted
snapshot and swaps the updated collections into the database.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
