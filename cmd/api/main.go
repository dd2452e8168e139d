package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/lifehub/core/cmd/api/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lifehub",
		Short: "LifeHub API Server",
		Long:  `LifeHub is a single-user life-management dashboard backend covering health, finance, productivity, goals and study tracking.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewSnapshotCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
