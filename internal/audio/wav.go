// Package audio inspects and writes the PCM WAV files exchanged with the
// synthesis and recognition backends.
package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/narration-flow/internal/apperr"
)

// ErrBadAudioFormat is returned for audio that is not mono 16-bit PCM WAV.
var ErrBadAudioFormat = fmt.Errorf("%w: bad audio format", apperr.ErrValidation)

const (
	formatPCM        = 1
	formatExtensible = 0xFFFE
)

// Format describes the PCM stream of a WAV file.
type Format struct {
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	BitsPerSample uint16
}

// BlockAlign returns the number of bytes per frame.
func (f Format) BlockAlign() int {
	return int(f.Channels) * int(f.BitsPerSample) / 8
}

// Info is what Inspect learns from a WAV header.
type Info struct {
	Format
	// DataOffset is the byte offset of the first sample.
	DataOffset int64
	// DataSize is the length of the sample data in bytes.
	DataSize int64
}

// Duration returns the length of the audio in seconds.
func (i Info) Duration() float64 {
	if i.SampleRate == 0 || i.BlockAlign() == 0 {
		return 0
	}
	return float64(i.DataSize) / float64(i.BlockAlign()) / float64(i.SampleRate)
}

// Inspect reads the RIFF header of a WAV stream without decoding samples.
func Inspect(r io.ReadSeeker) (Info, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return Info{}, fmt.Errorf("%w: short RIFF header", ErrBadAudioFormat)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return Info{}, fmt.Errorf("%w: not a RIFF/WAVE file", ErrBadAudioFormat)
	}

	var (
		info    Info
		haveFmt bool
		offset  int64 = 12
	)
	for {
		var hdr [8]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return Info{}, fmt.Errorf("%w: no data chunk", ErrBadAudioFormat)
			}
			return Info{}, err
		}
		offset += 8
		id := string(hdr[0:4])
		size := int64(binary.LittleEndian.Uint32(hdr[4:8]))

		switch id {
		case "fmt ":
			if size < 16 {
				return Info{}, fmt.Errorf("%w: fmt chunk too small", ErrBadAudioFormat)
			}
			buf := make([]byte, size)
			if _, err := io.ReadFull(r, buf); err != nil {
				return Info{}, fmt.Errorf("%w: truncated fmt chunk", ErrBadAudioFormat)
			}
			if size%2 == 1 {
				if _, err := r.Seek(1, io.SeekCurrent); err != nil {
					return Info{}, err
				}
			}
			info.AudioFormat = binary.LittleEndian.Uint16(buf[0:2])
			info.Channels = binary.LittleEndian.Uint16(buf[2:4])
			info.SampleRate = binary.LittleEndian.Uint32(buf[4:8])
			info.BitsPerSample = binary.LittleEndian.Uint16(buf[14:16])
			if info.AudioFormat == formatExtensible && size >= 26 {
				info.AudioFormat = binary.LittleEndian.Uint16(buf[24:26])
			}
			haveFmt = true
		case "data":
			if !haveFmt {
				return Info{}, fmt.Errorf("%w: data chunk before fmt chunk", ErrBadAudioFormat)
			}
			info.DataOffset = offset
			info.DataSize = size
			return info, nil
		default:
			if _, err := r.Seek(size+size%2, io.SeekCurrent); err != nil {
				return Info{}, err
			}
		}
		offset += size + size%2
	}
}

// RequireMonoPCM16 rejects anything but uncompressed mono 16-bit PCM.
func (i Info) RequireMonoPCM16() error {
	if i.AudioFormat != formatPCM {
		return fmt.Errorf("%w: encoding %d is not PCM", ErrBadAudioFormat, i.AudioFormat)
	}
	if i.Channels != 1 {
		return fmt.Errorf("%w: %d channels, want mono", ErrBadAudioFormat, i.Channels)
	}
	if i.BitsPerSample != 16 {
		return fmt.Errorf("%w: %d-bit samples, want 16-bit", ErrBadAudioFormat, i.BitsPerSample)
	}
	if i.SampleRate == 0 {
		return fmt.Errorf("%w: zero sample rate", ErrBadAudioFormat)
	}
	return nil
}

// OpenMonoPCM16 opens path, validates it and positions the file at the first sample.
// The caller closes the returned file.
func OpenMonoPCM16(path string) (*os.File, Info, error) {
	if !strings.EqualFold(filepath.Ext(path), ".wav") {
		return nil, Info{}, fmt.Errorf("%w: %s is not a .wav file", ErrBadAudioFormat, filepath.Base(path))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, Info{}, fmt.Errorf("open audio: %w", err)
	}
	info, err := Inspect(f)
	if err == nil {
		err = info.RequireMonoPCM16()
	}
	if err == nil {
		_, err = f.Seek(info.DataOffset, io.SeekStart)
	}
	if err != nil {
		f.Close()
		return nil, Info{}, err
	}
	return f, info, nil
}

// EncodeWAV wraps raw little-endian PCM samples in a canonical 44-byte header.
func EncodeWAV(pcm []byte, f Format) []byte {
	var buf bytes.Buffer
	buf.Grow(44 + len(pcm))

	byteRate := f.SampleRate * uint32(f.BlockAlign())
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVEfmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, f.AudioFormat)
	_ = binary.Write(&buf, binary.LittleEndian, f.Channels)
	_ = binary.Write(&buf, binary.LittleEndian, f.SampleRate)
	_ = binary.Write(&buf, binary.LittleEndian, byteRate)
	_ = binary.Write(&buf, binary.LittleEndian, uint16(f.BlockAlign()))
	_ = binary.Write(&buf, binary.LittleEndian, f.BitsPerSample)
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes()
}

// MonoPCM16 is the format the recognizers accept.
func MonoPCM16(sampleRate uint32) Format {
	return Format{AudioFormat: formatPCM, Channels: 1, SampleRate: sampleRate, BitsPerSample: 16}
}
