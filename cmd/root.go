/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"
)

// rootCmd is the base command called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "newswire",
	Short: "Newswire news platform backend",
	Long: `Newswire is the backend for a role-based news platform:
journalists write articles and newsletters, editors approve them,
and readers follow publishers and journalists.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
