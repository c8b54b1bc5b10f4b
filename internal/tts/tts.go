// Package tts voices words through the Google Cloud Text-to-Speech REST API
// and keeps the resulting mp3 files on disk.
package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"ailingo/internal/domain"
	"ailingo/internal/metrics"

	"go.uber.org/zap"
)

// DefaultEndpoint is the Google Cloud TTS synthesize URL
const DefaultEndpoint = "https://texttospeech.googleapis.com/v1/text:synthesize"

// ErrUnavailable means no audio can be produced, e.g. without an API key
var ErrUnavailable = errors.New("tts: unavailable")

// Config configures a Client
type Config struct {
	Dir      string
	Language string
	APIKey   string
	Endpoint string
	Timeout  time.Duration
}

// Client produces cached mp3 files. Synthesis of the same key is
// serialized; different keys proceed in parallel.
type Client struct {
	dir        string
	language   string
	apiKey     string
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
	now        func() time.Time

	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// New creates a client and its audio directory
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("tts: audio dir is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("tts: create audio dir: %w", err)
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Client{
		dir:        cfg.Dir,
		language:   cfg.Language,
		apiKey:     cfg.APIKey,
		endpoint:   cfg.Endpoint,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
		now:        time.Now,
		locks:      make(map[string]*keyLock),
	}, nil
}

// Path returns where the mp3 for key is stored
func (c *Client) Path(key string) string {
	return filepath.Join(c.dir, key+".mp3")
}

// Synthesize returns the path of an mp3 voicing text. key names the cache
// file; when empty it is derived from text.
func (c *Client) Synthesize(ctx context.Context, key, text string) (string, error) {
	if key == "" {
		key = domain.WordKey(text)
	}
	if key == "" {
		return "", fmt.Errorf("tts: empty text")
	}

	path := c.Path(key)
	if fileExists(path) {
		metrics.Speech.WithLabelValues("cached").Inc()
		return path, nil
	}
	if c.apiKey == "" {
		return "", ErrUnavailable
	}

	unlock := c.lock(key)
	defer unlock()

	// Another caller may have written it while we waited
	if fileExists(path) {
		metrics.Speech.WithLabelValues("cached").Inc()
		return path, nil
	}

	audio, err := c.call(ctx, text)
	if err != nil {
		metrics.Speech.WithLabelValues("failed").Inc()
		return "", err
	}
	if err := writeAtomic(path, audio); err != nil {
		metrics.Speech.WithLabelValues("failed").Inc()
		return "", err
	}

	metrics.Speech.WithLabelValues("synthesized").Inc()
	c.logger.Debug("Synthesized audio", zap.String("key", key), zap.Int("bytes", len(audio)))
	return path, nil
}

func (c *Client) lock(key string) func() {
	c.mu.Lock()
	l, ok := c.locks[key]
	if !ok {
		l = &keyLock{}
		c.locks[key] = l
	}
	l.refs++
	c.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		c.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(c.locks, key)
		}
		c.mu.Unlock()
	}
}

type synthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string `json:"audioEncoding"`
	} `json:"audioConfig"`
}

func (c *Client) call(ctx context.Context, text string) ([]byte, error) {
	var body synthesizeRequest
	body.Input.Text = text
	body.Voice.LanguageCode = c.language
	body.AudioConfig.AudioEncoding = "MP3"

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("tts: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"?key="+c.apiKey, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("tts: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts: request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tts: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tts: api status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var result struct {
		AudioContent string `json:"audioContent"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("tts: parse response: %w", err)
	}

	audio, err := base64.StdEncoding.DecodeString(result.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("tts: decode audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("tts: empty audio")
	}
	return audio, nil
}

// Cleanup removes mp3 files older than maxAge and returns how many were
// removed
func (c *Client) Cleanup(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, fmt.Errorf("tts: read audio dir: %w", err)
	}

	cutoff := c.now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".mp3" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
				c.logger.Warn("Failed to remove audio file", zap.String("file", e.Name()), zap.Error(err))
				continue
			}
			removed++
		}
	}
	return removed, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir() && info.Size() > 0
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tts-*")
	if err != nil {
		return fmt.Errorf("tts: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("tts: write audio: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("tts: close audio: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("tts: store audio: %w", err)
	}
	return nil
}
