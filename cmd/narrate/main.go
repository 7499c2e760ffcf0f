package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string

	rootCmd = &cobra.Command{
		Use:   "narrate",
		Short: "Turn documents into narrated audio, subtitles and video",
		Long: `narrate extracts the readable text of HTML, EPUB, Markdown and plain
text documents, reads it aloud with a speech synthesizer, recognizes the
narration back into timed words and writes SRT subtitles and an optional
captioned video.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")

	rootCmd.AddCommand(runCmd, watchCmd, narrateCmd, subtitlesCmd, detectCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
