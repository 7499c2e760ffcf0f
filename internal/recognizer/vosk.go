package recognizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nguyentantai21042004/narration-flow/internal/apperr"
	"github.com/nguyentantai21042004/narration-flow/internal/audio"
	"github.com/nguyentantai21042004/narration-flow/internal/language"
	"github.com/nguyentantai21042004/narration-flow/internal/logger"
	"github.com/nguyentantai21042004/narration-flow/internal/subtitle"
)

// VoskOptions configures the vosk-server websocket backend.
type VoskOptions struct {
	// Servers maps a language code to a ws:// URL.
	Servers map[string]string
	// ChunkDuration is the seconds of audio sent per message.
	ChunkDuration float64
}

type voskRecognizer struct {
	servers       map[string]string
	chunkDuration float64
	dialer        *websocket.Dialer
	logger        logger.Logger
}

// NewVosk creates a Recognizer that streams audio to vosk-server.
func NewVosk(opts VoskOptions, log logger.Logger) Recognizer {
	if opts.ChunkDuration <= 0 {
		opts.ChunkDuration = 1.0
	}
	return &voskRecognizer{
		servers:       opts.Servers,
		chunkDuration: opts.ChunkDuration,
		dialer:        &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		logger:        log,
	}
}

type voskConfig struct {
	Config struct {
		SampleRate uint32 `json:"sample_rate"`
		Words      int    `json:"words"`
	} `json:"config"`
}

type voskResponse struct {
	Result  []subtitle.WordTiming `json:"result"`
	Text    string                `json:"text"`
	Partial string                `json:"partial"`
}

func (r *voskRecognizer) Recognize(ctx context.Context, wavPath string, lang language.Code) ([]subtitle.Chunk, error) {
	url, ok := r.servers[string(lang)]
	if !ok || url == "" {
		return nil, apperr.ResourceMissing("no vosk server configured for language %q", lang)
	}

	f, info, err := audio.OpenMonoPCM16(wavPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	conn, _, err := r.dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, apperr.Upstream("vosk", fmt.Errorf("dial %s: %w", url, err))
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	chunks, err := r.stream(conn, io.LimitReader(f, info.DataSize), info)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, apperr.Upstream("vosk", err)
	}

	r.logger.Debug(ctx, "Vosk returned %d utterances for %s", len(chunks), wavPath)
	return chunks, nil
}

// stream sends the config, one message per chunk of frames, then EOF,
// keeping every final result that carries word timings.
func (r *voskRecognizer) stream(conn *websocket.Conn, pcm io.Reader, info audio.Info) ([]subtitle.Chunk, error) {
	var cfg voskConfig
	cfg.Config.SampleRate = info.SampleRate
	cfg.Config.Words = 1
	if err := conn.WriteJSON(cfg); err != nil {
		return nil, fmt.Errorf("send config: %w", err)
	}

	frames := int(r.chunkDuration * float64(info.SampleRate))
	if frames < 1 {
		frames = 1
	}
	buf := make([]byte, frames*info.BlockAlign())

	var chunks []subtitle.Chunk
	for {
		n, err := io.ReadFull(pcm, buf)
		if n > 0 {
			if err := conn.WriteMessage(websocket.BinaryMessage, buf[:n]); err != nil {
				return nil, fmt.Errorf("send audio: %w", err)
			}
			chunk, ok, rerr := readResult(conn)
			if rerr != nil {
				return nil, rerr
			}
			if ok {
				chunks = append(chunks, chunk)
			}
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read audio: %w", err)
		}
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"eof" : 1}`)); err != nil {
		return nil, fmt.Errorf("send eof: %w", err)
	}
	chunk, ok, err := readResult(conn)
	if err != nil {
		return nil, err
	}
	if ok {
		chunks = append(chunks, chunk)
	}

	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return chunks, nil
}

func readResult(conn *websocket.Conn) (subtitle.Chunk, bool, error) {
	_, data, err := conn.ReadMessage()
	if err != nil {
		return subtitle.Chunk{}, false, fmt.Errorf("read result: %w", err)
	}
	var resp voskResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return subtitle.Chunk{}, false, fmt.Errorf("decode result: %w", err)
	}
	if len(resp.Result) == 0 {
		return subtitle.Chunk{}, false, nil
	}
	return subtitle.Chunk{Words: resp.Result}, true, nil
}
