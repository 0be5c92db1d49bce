package imagesource

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultEndpoint = "https://api.unsplash.com"

	PlaceholderWidth  = 800
	PlaceholderHeight = 600

	maxImageBytes = 20 << 20
)

// PlaceholderColor is the fill of generated placeholder images (#4A90E2).
var PlaceholderColor = color.RGBA{R: 74, G: 144, B: 226, A: 255}

var (
	ErrNoAPIKey   = errors.New("imagesource: no api key")
	ErrNoImageURL = errors.New("imagesource: response has no urls.regular")
	ErrEmptyImage = errors.New("imagesource: image has no pixels")
	ErrTooLarge   = errors.New("imagesource: download exceeds size limit")
)

// Result describes the file written by Fetch. Reason is set when the
// placeholder replaced a remote photo.
type Result struct {
	Path        string
	Placeholder bool
	Reason      error
}

// Provider fetches a random photo for a keyword from an Unsplash-style API.
type Provider struct {
	Endpoint   string
	HTTPClient *http.Client
	Log        *logrus.Entry

	// MaxBytes caps every response body; larger bodies are a failure.
	MaxBytes int64
}

func New(endpoint string, timeout time.Duration, log *logrus.Entry) *Provider {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Provider{
		Endpoint:   strings.TrimRight(endpoint, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
		Log:        log,
		MaxBytes:   maxImageBytes,
	}
}

// Fetch writes an image for query to dest. Without an apiKey no request is
// made. Remote failures of any kind produce a placeholder instead; the error
// is non-nil only when dest itself cannot be written.
func (p *Provider) Fetch(ctx context.Context, query, dest, apiKey string) (Result, error) {
	var reason error
	if apiKey == "" {
		reason = ErrNoAPIKey
	} else if err := p.fetchRemote(ctx, query, dest, apiKey); err != nil {
		reason = err
		p.Log.WithFields(logrus.Fields{"query": query, "reason": err.Error()}).Warn("image fetch failed, using placeholder")
	} else {
		return Result{Path: dest}, nil
	}

	if err := WritePlaceholder(dest); err != nil {
		return Result{}, fmt.Errorf("write placeholder: %w", err)
	}
	return Result{Path: dest, Placeholder: true, Reason: reason}, nil
}

type randomPhoto struct {
	URLs struct {
		Regular string `json:"regular"`
	} `json:"urls"`
}

func (p *Provider) fetchRemote(ctx context.Context, query, dest, apiKey string) error {
	u, err := url.Parse(p.Endpoint + "/photos/random")
	if err != nil {
		return err
	}
	q := u.Query()
	q.Set("query", query)
	q.Set("client_id", apiKey)
	u.RawQuery = q.Encode()

	body, err := p.get(ctx, u.String(), "application/json")
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	var photo randomPhoto
	if err := json.Unmarshal(body, &photo); err != nil {
		return fmt.Errorf("decode search response: %w", err)
	}
	if photo.URLs.Regular == "" {
		return ErrNoImageURL
	}

	data, err := p.get(ctx, photo.URLs.Regular, "")
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("downloaded bytes are not an image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrEmptyImage, cfg.Width, cfg.Height)
	}
	return os.WriteFile(dest, data, 0644)
}

func (p *Provider) get(ctx context.Context, rawURL, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
		req.Header.Set("Accept-Version", "v1")
	}
	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	limit := p.MaxBytes
	if limit <= 0 {
		limit = maxImageBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w of %d bytes", ErrTooLarge, limit)
	}
	return data, nil
}

// WritePlaceholder writes an 800x600 solid PlaceholderColor image to dest,
// JPEG for .jpg/.jpeg and PNG otherwise.
func WritePlaceholder(dest string) error {
	img := image.NewRGBA(image.Rect(0, 0, PlaceholderWidth, PlaceholderHeight))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: PlaceholderColor}, image.Point{}, draw.Src)

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(dest)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 95})
	default:
		err = png.Encode(f, img)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
