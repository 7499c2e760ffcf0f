package composer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/narration-flow/internal/apperr"
	"github.com/nguyentantai21042004/narration-flow/internal/subtitle"
)

const (
	softwareEncoder = "libx264"

	subtitleFile = "subtitle.srt"
	titleFile    = "title.txt"
	outputFile   = "output.mp4"
)

// Compose runs ffmpeg inside an isolated temp dir so the subtitle and title
// files can be referenced by relative name in the filter graph.
func (c *implComposer) Compose(ctx context.Context, in Input) error {
	if c.opts.BackgroundImage == "" {
		return apperr.Validation("background image is required to compose a video")
	}
	for _, p := range []string{c.opts.BackgroundImage, in.AudioPath} {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("stat input: %w", err)
		}
	}

	if c.opts.TempDir != "" {
		if err := os.MkdirAll(c.opts.TempDir, 0755); err != nil {
			return fmt.Errorf("create temp dir: %w", err)
		}
	}
	workDir, err := os.MkdirTemp(c.opts.TempDir, "compose-*")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	withSubs := false
	if in.SubtitlePath != "" {
		if err := writeUpperSubtitles(in.SubtitlePath, filepath.Join(workDir, subtitleFile)); err != nil {
			return err
		}
		withSubs = true
	}
	withTitle := strings.TrimSpace(in.Title) != ""
	if withTitle {
		if err := os.WriteFile(filepath.Join(workDir, titleFile), []byte(in.Title), 0644); err != nil {
			return fmt.Errorf("write title: %w", err)
		}
	}

	c.logger.Info(ctx, "Composing video: %s", filepath.Base(in.OutputPath))

	args, err := c.buildArgs(in, withSubs, withTitle, c.opts.Encoder)
	if err != nil {
		return err
	}
	if _, err := c.executor.ExecuteInDir(ctx, workDir, c.opts.FFmpegBinary, args...); err != nil {
		if c.opts.Encoder == softwareEncoder {
			return apperr.Upstream("ffmpeg", err)
		}
		c.logger.Warn(ctx, "Encoder %s failed, trying software encoder...", c.opts.Encoder)
		args, _ = c.buildArgs(in, withSubs, withTitle, softwareEncoder)
		if _, err := c.executor.ExecuteInDir(ctx, workDir, c.opts.FFmpegBinary, args...); err != nil {
			return apperr.Upstream("ffmpeg", fmt.Errorf("both hardware and software encoders failed: %w", err))
		}
	}

	if err := os.MkdirAll(filepath.Dir(in.OutputPath), 0755); err != nil {
		return fmt.Errorf("create video dir: %w", err)
	}
	tempOutput := filepath.Join(workDir, outputFile)
	if err := os.Rename(tempOutput, in.OutputPath); err != nil {
		// If rename fails, copy instead
		if err := copyFile(tempOutput, in.OutputPath); err != nil {
			return fmt.Errorf("move output to final location: %w", err)
		}
	}

	c.logger.Info(ctx, "Video composed: %s", in.OutputPath)
	return nil
}

func (c *implComposer) buildArgs(in Input, withSubs, withTitle bool, encoder string) ([]string, error) {
	image, err := filepath.Abs(c.opts.BackgroundImage)
	if err != nil {
		return nil, fmt.Errorf("resolve image path: %w", err)
	}
	voice, err := filepath.Abs(in.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("resolve audio path: %w", err)
	}

	fps := strconv.Itoa(c.opts.FPS)
	args := []string{
		"-y",
		"-loop", "1", "-framerate", fps, "-i", image,
		"-i", voice,
	}

	withMusic := c.opts.BackgroundMusic != ""
	if withMusic {
		music, err := filepath.Abs(c.opts.BackgroundMusic)
		if err != nil {
			return nil, fmt.Errorf("resolve music path: %w", err)
		}
		args = append(args, "-stream_loop", "-1", "-i", music)
	}

	args = append(args,
		"-filter_complex", c.filterGraph(withSubs, withTitle, withMusic),
		"-map", "[vout]",
		"-map", "[aout]",
		"-r", fps,
		"-c:v", encoder,
	)
	if encoder == softwareEncoder {
		args = append(args, "-preset", c.opts.Preset, "-crf", "23")
	}
	args = append(args,
		"-pix_fmt", "yuv420p",
		"-c:a", c.opts.AudioCodec,
		"-shortest",
		outputFile,
	)
	return args, nil
}

// filterGraph scales to even dimensions, burns subtitles and title, and
// mixes the background music under the narration for its duration.
func (c *implComposer) filterGraph(withSubs, withTitle, withMusic bool) string {
	video := []string{"scale=trunc(iw/2)*2:trunc(ih/2)*2"}
	if withSubs {
		video = append(video, fmt.Sprintf(
			"subtitles=%s:force_style='FontName=%s,FontSize=22,PrimaryColour=&H0000FFFF,OutlineColour=&H00000000,BorderStyle=1,Outline=1,Alignment=2,MarginV=40'",
			subtitleFile, c.opts.Font))
	}
	if withTitle {
		video = append(video, fmt.Sprintf(
			"drawtext=textfile=%s:font=%s:fontsize=16:fontcolor=0xe39b3f:x=(w-text_w)/2:y=h-text_h-10",
			titleFile, c.opts.Font))
	}

	graph := "[0:v]" + strings.Join(video, ",") + "[vout];"
	if withMusic {
		graph += fmt.Sprintf(
			"[2:a]volume=%s[bg];[1:a][bg]amix=inputs=2:duration=first:dropout_transition=0:normalize=0[aout]",
			strconv.FormatFloat(c.opts.BackgroundVolume, 'f', -1, 64))
	} else {
		graph += "[1:a]anull[aout]"
	}
	return graph
}

// writeUpperSubtitles copies an SRT file with its cue text upper-cased.
func writeUpperSubtitles(src, dst string) error {
	cues, err := subtitle.ParseSRTFile(src)
	if err != nil {
		return fmt.Errorf("read subtitles: %w", err)
	}
	for i := range cues {
		cues[i].Text = strings.ToUpper(cues[i].Text)
	}
	return subtitle.WriteSRTFile(dst, cues)
}

// copyFile copies a file from src to dst
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return fmt.Errorf("write destination: %w", err)
	}
	return nil
}
