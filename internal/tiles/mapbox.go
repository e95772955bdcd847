package tiles

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/disintegration/imaging"

	raster "github.com/ironsheep/greenery-detector/internal/imaging"
)

// Mapbox Static Images API defaults.
const (
	DefaultMapboxBaseURL = "https://api.mapbox.com"
	DefaultMapboxStyle   = "mapbox/satellite-v9"
	DefaultZoom          = 16
	DefaultWidth         = 800
	DefaultHeight        = 600
	DefaultTimeout       = 15 * time.Second

	// MaxMapboxSize is the largest width or height the API serves.
	MaxMapboxSize = 1280

	// MaxZoom is the deepest zoom level the API serves.
	MaxZoom = 22

	// maxTileBytes bounds the response body read from the provider.
	maxTileBytes = 20 << 20
)

// MapboxConfig configures the Mapbox Static Images source.
type MapboxConfig struct {
	AccessToken string        `mapstructure:"access_token"`
	BaseURL     string        `mapstructure:"base_url"`
	Style       string        `mapstructure:"style"`
	Zoom        int           `mapstructure:"zoom"`
	Width       int           `mapstructure:"width"`
	Height      int           `mapstructure:"height"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// DefaultMapboxConfig returns the defaults: satellite-v9 at zoom 16, 800×600.
// The access token is left empty.
func DefaultMapboxConfig() MapboxConfig {
	return MapboxConfig{
		BaseURL: DefaultMapboxBaseURL,
		Style:   DefaultMapboxStyle,
		Zoom:    DefaultZoom,
		Width:   DefaultWidth,
		Height:  DefaultHeight,
		Timeout: DefaultTimeout,
	}
}

// Validate checks the request geometry. A missing access token is not a
// validation failure here: it is reported by Fetch so the service can still
// analyze uploaded images without provider credentials.
func (c MapboxConfig) Validate() error {
	if c.BaseURL == "" {
		return raster.BadConfig("mapbox.base_url", "must not be empty")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return raster.BadConfig("mapbox.base_url", "%v", err)
	}
	if c.Style == "" {
		return raster.BadConfig("mapbox.style", "must not be empty")
	}
	if c.Zoom < 0 || c.Zoom > MaxZoom {
		return raster.BadConfig("mapbox.zoom", "%d outside [0, %d]", c.Zoom, MaxZoom)
	}
	if c.Width < 1 || c.Width > MaxMapboxSize {
		return raster.BadConfig("mapbox.width", "%d outside [1, %d]", c.Width, MaxMapboxSize)
	}
	if c.Height < 1 || c.Height > MaxMapboxSize {
		return raster.BadConfig("mapbox.height", "%d outside [1, %d]", c.Height, MaxMapboxSize)
	}
	if c.Timeout < 0 {
		return raster.BadConfig("mapbox.timeout", "must not be negative")
	}
	return nil
}

// MapboxSource fetches satellite imagery from the Mapbox Static Images API.
//
// Every image it returns is exactly Width×Height pixels in RGB order: if the
// provider serves another size (high-DPI responses), the image is resampled.
// The access token is fixed at construction and never mutated.
type MapboxSource struct {
	cfg    MapboxConfig
	client *http.Client
}

// NewMapboxSource validates cfg and builds a source. If client is nil, a
// client with cfg.Timeout is used.
func NewMapboxSource(cfg MapboxConfig, client *http.Client) (*MapboxSource, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &MapboxSource{cfg: cfg, client: client}, nil
}

// Config returns the source settings.
func (s *MapboxSource) Config() MapboxConfig {
	return s.cfg
}

// URL returns the static image URL for c, including the access token.
func (s *MapboxSource) URL(c Coordinates) string {
	q := url.Values{}
	q.Set("access_token", s.cfg.AccessToken)

	return fmt.Sprintf("%s/styles/v1/%s/static/%s,%s,%d,0,0/%dx%d?%s",
		s.cfg.BaseURL,
		s.cfg.Style,
		strconv.FormatFloat(c.Longitude, 'f', -1, 64),
		strconv.FormatFloat(c.Latitude, 'f', -1, 64),
		s.cfg.Zoom,
		s.cfg.Width,
		s.cfg.Height,
		q.Encode(),
	)
}

// Fetch downloads and decodes the satellite image centered on c.
//
// Errors:
//   - *imaging.ValidationError for invalid coordinates (no request is made)
//   - *imaging.ConfigError when no access token is configured
//   - *FetchError for transport failures, non-2xx responses and
//     undecodable bodies
func (s *MapboxSource) Fetch(ctx context.Context, c Coordinates) (*raster.Image, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if s.cfg.AccessToken == "" {
		return nil, raster.BadConfig("mapbox.access_token", "not set (MAPBOX_ACCESS_TOKEN)")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL(c), nil)
	if err != nil {
		return nil, &FetchError{Provider: "mapbox", Err: err}
	}
	req.Header.Set("Accept", "image/jpeg, image/png;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		// Strip the URL from transport errors so the token is never logged.
		if uerr, ok := err.(*url.Error); ok {
			err = uerr.Err
		}
		return nil, &FetchError{Provider: "mapbox", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &FetchError{
			Provider:   "mapbox",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s: %s", http.StatusText(resp.StatusCode), msg),
		}
	}

	decoded, err := imaging.Decode(io.LimitReader(resp.Body, maxTileBytes))
	if err != nil {
		return nil, &FetchError{
			Provider:   "mapbox",
			StatusCode: resp.StatusCode,
			Err:        raster.Invalid("image", "failed to decode provider response: %v", err),
		}
	}

	bounds := decoded.Bounds()
	if !bounds.Empty() && (bounds.Dx() != s.cfg.Width || bounds.Dy() != s.cfg.Height) {
		decoded = imaging.Resize(decoded, s.cfg.Width, s.cfg.Height, imaging.Linear)
	}

	out, err := raster.FromImage(decoded)
	if err != nil {
		return nil, &FetchError{Provider: "mapbox", StatusCode: resp.StatusCode, Err: err}
	}
	return out, nil
}
