// Package cmd wires configuration into the pipeline and exposes it as a
// CLI: `serve` runs the HTTP API, `generate` runs one pipeline pass from
// the terminal.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "reelforge",
	Short: "reelforge - AI Instagram content generation and publishing",
	Long: `reelforge generates complete Instagram content packages (sticker
image, caption, article, hashtags, reel video) from a topic, stores the
media artifacts in S3-compatible storage, and publishes them through the
Instagram Graph API.

Run 'reelforge serve' to start the HTTP API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
