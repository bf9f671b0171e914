// Package main provides the entry point for the scam job detection web front end.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "scamjob_web",
	Short: "Scam Job Detection web front end",
	Long:  "Serves the scam job detection form, proxies predictions and explanations to the remote model service, and hosts the link preview tool.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
