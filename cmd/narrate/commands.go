package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/narration-flow/internal/config"
	"github.com/nguyentantai21042004/narration-flow/internal/language"
	"github.com/nguyentantai21042004/narration-flow/internal/watcher"
)

var runCmd = &cobra.Command{
	Use:   "run [dir]",
	Short: "Process every document in a folder (default: paths.input)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		dir := a.cfg.Paths.Input
		if len(args) == 1 {
			dir = args[0]
		}
		a.banner(cmd.Context(), "Narration Pipeline (batch)")
		return a.processor.ProcessDir(cmd.Context(), dir)
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Process documents as they appear in paths.input",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		handler := func(ctx context.Context, path string) error {
			_, err := a.processor.Process(ctx, path)
			return err
		}
		w, err := watcher.New(watcher.Options{
			Dir:           a.cfg.Paths.Input,
			MaxConcurrent: a.cfg.Performance.MaxConcurrent,
			Settle:        watcher.DefaultSettle,
			Accept:        a.extractor.Supports,
		}, handler, a.log)
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer w.Stop()

		a.banner(ctx, "Narration Pipeline is ready!")
		a.log.Info(ctx, "Monitoring: %s", a.cfg.Paths.Input)
		a.log.Info(ctx, "Output: %s", a.cfg.Paths.Output)
		a.log.Info(ctx, "Press Ctrl+C to stop")

		err = w.Start(ctx)
		a.log.Info(ctx, "Narration Pipeline stopped")
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

var narrateCmd = &cobra.Command{
	Use:   "narrate <document>",
	Short: "Synthesize the narration audio for one document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		res, err := a.processor.Narrate(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.AudioPath)
		return nil
	},
}

var (
	subtitleLang   string
	subtitleOut    string
	subtitleWindow float64

	subtitlesCmd = &cobra.Command{
		Use:   "subtitles <audio.wav>",
		Short: "Recognize a mono 16-bit WAV file and write SRT subtitles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("window") {
				w := subtitleWindow
				a.cfg.Subtitles.Window = &w
				if err := a.cfg.Validate(); err != nil {
					return err
				}
			}

			var lang language.Code
			if subtitleLang != "" {
				if lang, err = language.ParseCode(subtitleLang); err != nil {
					return err
				}
			}
			out := subtitleOut
			if out == "" {
				out = defaultSRTPath(args[0])
			}

			n, err := a.processor.Subtitles(cmd.Context(), args[0], lang, out)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d cues)\n", out, n)
			return nil
		},
	}
)

// defaultSRTPath puts the subtitles next to the audio file.
func defaultSRTPath(wavPath string) string {
	return strings.TrimSuffix(wavPath, filepath.Ext(wavPath)) + ".srt"
}

var detectCmd = &cobra.Command{
	Use:   "detect [text|-]",
	Short: "Classify text as Spanish or English",
	Long:  "Classify the given text, or standard input when the argument is - or missing.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := ""
		if len(args) == 1 && args[0] != "-" {
			text = args[0]
		} else {
			b, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			text = string(b)
		}

		c := language.New(nil)
		es, en := c.Scores(text)
		fmt.Fprintf(cmd.OutOrStdout(), "%s\tes=%d en=%d\n", c.Detect(text), es, en)
		return nil
	},
}

func init() {
	subtitlesCmd.Flags().StringVarP(&subtitleLang, "lang", "l", "", "recognition language (es or en); guessed from the file name when empty")
	subtitlesCmd.Flags().StringVarP(&subtitleOut, "out", "o", "", "output .srt path (default: next to the audio)")
	subtitlesCmd.Flags().Float64VarP(&subtitleWindow, "window", "w", config.DefaultWindow, "cue window in seconds; 0 keeps the recognizer's own phrases")
}

