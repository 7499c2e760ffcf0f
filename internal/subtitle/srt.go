package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/narration-flow/internal/apperr"
)

// WriteSRT serializes cues as SRT blocks, each terminated by a blank line.
func WriteSRT(w io.Writer, cues []Cue) error {
	bw := bufio.NewWriter(w)
	for _, c := range cues {
		if _, err := fmt.Fprintf(bw, "%d\n%s --> %s\n%s\n\n",
			c.Index, FormatTimestamp(c.Start), FormatTimestamp(c.End), c.Text); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// FormatSRT returns the SRT text for cues.
func FormatSRT(cues []Cue) string {
	var sb strings.Builder
	_ = WriteSRT(&sb, cues)
	return sb.String()
}

// WriteSRTFile writes cues to path, creating parent directories.
func WriteSRTFile(path string, cues []Cue) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create subtitle dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create subtitle file: %w", err)
	}
	if err := WriteSRT(f, cues); err != nil {
		f.Close()
		return fmt.Errorf("write subtitle file: %w", err)
	}
	return f.Close()
}

// ParseSRT reads SRT blocks. Multi-line cue text is joined with "\n".
func ParseSRT(r io.Reader) ([]Cue, error) {
	var (
		cues  []Cue
		cur   *Cue
		lines []string
		state int // 0 index, 1 timing, 2 text
	)

	flush := func() {
		if cur != nil {
			cur.Text = strings.Join(lines, "\n")
			cues = append(cues, *cur)
		}
		cur, lines, state = nil, nil, 0
	}

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		if strings.TrimSpace(line) == "" {
			if state == 1 {
				return nil, apperr.Validation("srt line %d: cue without timing", lineNum)
			}
			flush()
			continue
		}

		switch state {
		case 0:
			idx, err := strconv.Atoi(strings.TrimSpace(line))
			if err != nil {
				return nil, apperr.Validation("srt line %d: invalid index %q", lineNum, line)
			}
			cur = &Cue{Index: idx}
			state = 1
		case 1:
			startStr, endStr, ok := strings.Cut(line, "-->")
			if !ok {
				return nil, apperr.Validation("srt line %d: invalid timing %q", lineNum, line)
			}
			start, err := ParseTimestamp(startStr)
			if err != nil {
				return nil, fmt.Errorf("srt line %d: %w", lineNum, err)
			}
			end, err := ParseTimestamp(endStr)
			if err != nil {
				return nil, fmt.Errorf("srt line %d: %w", lineNum, err)
			}
			cur.Start, cur.End = start, end
			state = 2
		default:
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if state == 1 {
		return nil, apperr.Validation("srt: last cue has no timing")
	}
	flush()

	return cues, nil
}

// ParseSRTFile parses the SRT file at path.
func ParseSRTFile(path string) ([]Cue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseSRT(f)
}
