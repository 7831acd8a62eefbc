// Package main is the entry point for the questmap server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "questmap",
	Short: "Quest map spatial service",
	Long:  `Questmap validates dungeon placement, evaluates actor proximity, and serves per-frame rendering state for the quest map.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(seedCmd)
}
