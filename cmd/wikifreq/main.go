package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/wikifreq/internal/cli"
	"codeberg.org/snonux/wikifreq/internal/logger"
	"codeberg.org/snonux/wikifreq/internal/models"
	"codeberg.org/snonux/wikifreq/internal/processor"
	"codeberg.org/snonux/wikifreq/internal/sampler"
)

func main() {
	// Interrupts stop sampling gracefully, partial results are still written
	ctx, stop := interruptContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create flags instance
	flags := cli.NewFlags()

	// Create commands
	rootCmd := cli.CreateRootCommand(flags)
	translateCmd := cli.CreateTranslateCommand(flags)
	rootCmd.AddCommand(translateCmd)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := cli.ApplyConfig(cmd); err != nil {
			return err
		}
		logger.Setup(flags.LogLevel, flags.LogFormat, os.Stderr)
		return nil
	}

	// Set the run functions
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd.Context(), flags)
	}
	translateCmd.RunE = func(cmd *cobra.Command, args []string) error {
		_, err := processor.NewProcessor(flags).TranslateWordList(cmd.Context(), args[0])
		return err
	}

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// interruptContext is cancelled by the first of signals. Signal handling
// is released right after, so a second signal kills the process, e.g.
// during a slow request.
func interruptContext(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, signals...)
	go func() {
		<-ctx.Done()
		stop()
	}()
	return ctx, stop
}

func runCommand(ctx context.Context, flags *cli.Flags) error {
	// Handle --list-models flag
	if flags.ListModels {
		lister := models.NewLister(cli.GetOpenAIKey())
		return lister.ListAvailableModels(ctx, os.Stdout)
	}

	proc := processor.NewProcessor(flags)

	// Handle --list-runs flag
	if flags.ListRuns {
		return proc.ListRuns(ctx)
	}

	if _, err := proc.Run(ctx); err != nil {
		var empty *sampler.EmptyResultError
		if errors.As(err, &empty) {
			return fmt.Errorf("nothing written: %w", err)
		}
		return err
	}
	return nil
}
