package recognizer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	defaultEndpoint   = "wss://api.deepgram.com/v1/listen"
	defaultSampleRate = 16000
	defaultChannels   = 1
	chunkMs           = 100
	dialTimeout       = 5 * time.Second
)

// Stream is a Recognizer backed by a realtime websocket STT service.
// Audio comes from an external capture command writing PCM16 to stdout;
// interim results become drafts, endpoint-final results become finals.
type Stream struct {
	cfg Config

	mu  sync.Mutex
	run *streamRun
}

func NewStream(cfg Config) *Stream {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = defaultSampleRate
	}
	if cfg.Channels == 0 {
		cfg.Channels = defaultChannels
	}
	return &Stream{cfg: cfg}
}

func (s *Stream) Start(ctx context.Context, cb Callbacks) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.run != nil {
		return fmt.Errorf("recognizer already running")
	}
	run, err := startRun(ctx, s.cfg, cb)
	if err != nil {
		return err
	}
	s.run = run
	return nil
}

// Stop ends the current run. Calling it with no run in progress is a
// no-op, so a second toggle-off cannot fail.
func (s *Stream) Stop() error {
	s.mu.Lock()
	run := s.run
	s.run = nil
	s.mu.Unlock()
	if run == nil {
		return nil
	}
	return run.close()
}

type streamRun struct {
	conn   *websocket.Conn
	cmd    *exec.Cmd
	cancel context.CancelFunc
	wg     sync.WaitGroup

	closeOnce sync.Once
	closeErr  error
}

func startRun(ctx context.Context, cfg Config, cb Callbacks) (*streamRun, error) {
	endpoint, err := streamURL(cfg)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	if cfg.APIKey != "" {
		header.Set("Authorization", "Token "+cfg.APIKey)
	}

	dialCtx, cancelDial := context.WithTimeout(ctx, dialTimeout)
	defer cancelDial()
	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, endpoint, header)
	if err != nil {
		return nil, fmt.Errorf("connecting to recognizer: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	cmd, stdout, err := startSource(runCtx, cfg.SourceCommand)
	if err != nil {
		cancel()
		conn.Close()
		return nil, fmt.Errorf("starting audio source: %w", err)
	}

	r := &streamRun{conn: conn, cmd: cmd, cancel: cancel}
	cb.listening()

	r.wg.Add(2)
	go r.sendAudio(runCtx, stdout, cfg)
	go r.receive(newDispatcher(cb))
	return r, nil
}

func startSource(ctx context.Context, command []string) (*exec.Cmd, io.ReadCloser, error) {
	if len(command) == 0 {
		return nil, nil, fmt.Errorf("no audio source command configured")
	}
	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, err
	}
	return cmd, stdout, nil
}

func (r *streamRun) sendAudio(ctx context.Context, src io.Reader, cfg Config) {
	defer r.wg.Done()

	chunkBytes := cfg.SampleRate * cfg.Channels * 2 * chunkMs / 1000
	buf := make([]byte, chunkBytes)
	for {
		n, err := io.ReadFull(src, buf)
		if n > 0 {
			if werr := r.conn.WriteMessage(websocket.BinaryMessage, buf[:n]); werr != nil {
				return
			}
		}
		if err != nil {
			return
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func (r *streamRun) receive(d *dispatcher) {
	defer r.wg.Done()
	for {
		_, data, err := r.conn.ReadMessage()
		if err != nil {
			return
		}
		res, err := parseStreamResult(data)
		if err != nil {
			continue
		}
		d.handle(res)
	}
}

func (r *streamRun) close() error {
	r.closeOnce.Do(func() {
		r.cancel()
		r.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		r.closeErr = r.conn.Close()
		if r.cmd != nil {
			r.cmd.Wait()
		}
		r.wg.Wait()
	})
	return r.closeErr
}

func streamURL(cfg Config) (string, error) {
	endpoint, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return "", fmt.Errorf("parsing endpoint: %w", err)
	}
	q := endpoint.Query()
	if cfg.Model != "" {
		q.Set("model", cfg.Model)
	}
	if cfg.Language != "" {
		q.Set("language", cfg.Language)
	}
	q.Set("encoding", "linear16")
	q.Set("sample_rate", fmt.Sprintf("%d", cfg.SampleRate))
	q.Set("channels", fmt.Sprintf("%d", cfg.Channels))
	q.Set("interim_results", "true")
	if cfg.SilenceDuration > 0 {
		q.Set("endpointing", fmt.Sprintf("%d", int(cfg.SilenceDuration*1000)))
	}
	endpoint.RawQuery = q.Encode()
	return endpoint.String(), nil
}

type streamResult struct {
	Type        string `json:"type"`
	IsFinal     bool   `json:"is_final"`
	SpeechFinal bool   `json:"speech_final"`
	Channel     struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
		} `json:"alternatives"`
	} `json:"channel"`
}

func (r streamResult) transcript() string {
	if len(r.Channel.Alternatives) == 0 {
		return ""
	}
	return r.Channel.Alternatives[0].Transcript
}

func parseStreamResult(data []byte) (streamResult, error) {
	var res streamResult
	if err := json.Unmarshal(data, &res); err != nil {
		return streamResult{}, err
	}
	return res, nil
}

// dispatcher turns the wire protocol into callback invocations:
// interims are drafts, is_final commits a segment of the current
// utterance, speech_final ends the utterance.
type dispatcher struct {
	cb        Callbacks
	committed []string
	inSpeech  bool
}

func newDispatcher(cb Callbacks) *dispatcher {
	return &dispatcher{cb: cb}
}

func (d *dispatcher) handle(res streamResult) {
	if res.Type != "" && res.Type != "Results" {
		return
	}
	text := res.transcript()

	if res.SpeechFinal {
		full := strings.TrimSpace(strings.Join(append(d.committed, text), " "))
		d.committed = nil
		d.inSpeech = false
		if full != "" {
			d.cb.finalizing()
			d.cb.final(full)
		}
		d.cb.listening()
		return
	}

	if res.IsFinal {
		if text != "" {
			d.committed = append(d.committed, text)
		}
		d.cb.draft(strings.Join(d.committed, " "))
		return
	}

	if text == "" {
		return
	}
	if !d.inSpeech {
		d.inSpeech = true
		d.cb.speech()
	}
	d.cb.draft(strings.TrimSpace(strings.Join(append(d.committed, text), " ")))
}
