package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gitver",
	Short: "A CLI tool for deriving package versions from git state",
	Long: `gitver derives a version string from the repository: the newest reachable
tag, whether HEAD sits on it, and whether the working tree is dirty.`,
}

func Execute() error {
	return rootCmd.Execute()
}
