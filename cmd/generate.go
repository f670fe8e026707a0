package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/reelforge/reelforge/internal/content"
	"github.com/reelforge/reelforge/internal/generate"
	"github.com/reelforge/reelforge/internal/log"
)

var generateFlags struct {
	tone     string
	audience string
	language string
}

var generateCmd = &cobra.Command{
	Use:   "generate <topic>",
	Short: "Run one generation pass and print the package as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd, args[0])
	},
}

func init() {
	generateCmd.Flags().StringVar(&generateFlags.tone, "tone", "", "tone of voice (e.g. playful, professional)")
	generateCmd.Flags().StringVar(&generateFlags.audience, "audience", "", "target audience")
	generateCmd.Flags().StringVar(&generateFlags.language, "language", "", "output language (default: the topic's language)")
	rootCmd.AddCommand(generateCmd)
}

// runGenerate runs the full pipeline once from the terminal. The package
// goes to stdout; logs go to stderr so output stays pipeable.
func runGenerate(cmd *cobra.Command, topic string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := log.New(log.Config{Level: slog.LevelWarn})

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	p, err := buildPipeline(ctx, cfg, logger)
	if err != nil {
		return err
	}

	pkg, err := p.generator.Generate(ctx, content.GenerationRequest{
		Topic:    topic,
		Tone:     generateFlags.tone,
		Audience: generateFlags.audience,
		Language: generateFlags.language,
	})
	if err != nil {
		var stageErr *generate.Error
		if errors.As(err, &stageErr) {
			return fmt.Errorf("generation failed at stage %q: %w", stageErr.Stage, stageErr.Err)
		}
		if errors.Is(err, context.Canceled) {
			return errors.New("generation canceled")
		}
		return err
	}

	out, err := json.MarshalIndent(pkg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding package: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
