package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/lingocard/internal/archive"
	"codeberg.org/snonux/lingocard/internal/cli"
	"codeberg.org/snonux/lingocard/internal/models"
	"codeberg.org/snonux/lingocard/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportError prints err unless the processor already showed it.
func reportError(w io.Writer, err error) {
	if processor.Reported(err) {
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	// Config file values fill in whatever was not given on the command line
	cli.ApplyConfig(flags)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Handle --archive flag
	if flags.Archive {
		path, err := archive.Output(flags.OutputDir)
		if err != nil {
			return fmt.Errorf("failed to archive output directory: %w", err)
		}
		fmt.Printf("Output directory archived to: %s\n", path)
		return nil
	}

	// Handle --list-models flag
	if flags.ListModels {
		lister := models.NewLister(cli.GetOpenAIKey())
		return lister.Print(ctx, os.Stdout, flags.OpenAIModel)
	}

	logger := cli.NewLogger(os.Stderr, flags.Verbose)

	// Create processor
	proc, err := processor.NewProcessor(flags, logger)
	if err != nil {
		return err
	}

	switch {
	case flags.BatchFile != "":
		if _, err := proc.ProcessBatch(ctx); err != nil {
			return err
		}
	case len(args) > 0:
		if err := proc.ProcessSingle(ctx, strings.Join(args, " ")); err != nil {
			return err
		}
	default:
		// No input provided - launch GUI mode by default
		return proc.RunGUIMode()
	}

	// Export the session if requested
	if flags.ExportFormat != "" {
		path, err := proc.Export(flags.ExportFormat)
		switch {
		case errors.Is(err, processor.ErrNoCards):
			fmt.Println("\nNo cards to export")
		case err != nil:
			fmt.Fprintf(os.Stderr, "Warning: Failed to export cards: %v\n", err)
		default:
			fmt.Printf("\nCards exported to: %s\n", path)
		}
	}

	return nil
}
