package analysis

import (
	"context"
	"errors"
	"fmt"
	"image"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/ironsheep/greenery-detector/internal/detection"
	"github.com/ironsheep/greenery-detector/internal/imaging"
	"github.com/ironsheep/greenery-detector/internal/tiles"
)

// ErrBusy is returned when no analysis slot became free within the queue
// timeout, or the caller gave up while waiting.
var ErrBusy = errors.New("analysis queue is full, try again later")

// Config bounds the service's resource use.
type Config struct {
	// MaxConcurrent is the number of analyses allowed to run at once.
	// Zero means runtime.NumCPU().
	MaxConcurrent int `mapstructure:"max_concurrent"`

	// QueueTimeout is how long a request may wait for a free slot.
	// Zero means wait until the request context ends.
	QueueTimeout time.Duration `mapstructure:"queue_timeout"`
}

// DefaultConfig returns one slot per CPU and a 30 second queue timeout.
func DefaultConfig() Config {
	return Config{
		MaxConcurrent: runtime.NumCPU(),
		QueueTimeout:  30 * time.Second,
	}
}

// Validate rejects negative limits.
func (c Config) Validate() error {
	if c.MaxConcurrent < 0 {
		return imaging.BadConfig("analysis.max_concurrent", "must not be negative")
	}
	if c.QueueTimeout < 0 {
		return imaging.BadConfig("analysis.queue_timeout", "must not be negative")
	}
	return nil
}

// Result is the outcome of one analysis. Mask and Overlay are owned by the
// caller and are not retained by the service.
type Result struct {
	Percentage float64
	Width      int
	Height     int
	Mask       *imaging.Mask
	Overlay    *image.NRGBA // nil unless requested

	// Set only for location analyses.
	Coordinates     *tiles.Coordinates
	Footprint       *tiles.Footprint
	VegetatedAreaM2 float64

	Elapsed time.Duration
}

// Service runs the vegetation pipeline: fetch, detect, measure, composite.
//
// The pipeline stages are stateless; the service only adds the image source,
// default options and a bound on concurrent CPU-bound work. It is safe for
// concurrent use.
type Service struct {
	source   tiles.Source
	defaults Options
	zoom     int
	slots    chan struct{}
	timeout  time.Duration
	logger   *zap.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithZoom sets the zoom level used to compute location footprints.
func WithZoom(zoom int) Option {
	return func(s *Service) { s.zoom = zoom }
}

// WithLogger sets the service logger. The default discards output.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService builds a service. source may be nil if only AnalyzeImage is used.
func NewService(source tiles.Source, defaults Options, cfg Config, opts ...Option) (*Service, error) {
	if err := defaults.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slots := cfg.MaxConcurrent
	if slots == 0 {
		slots = runtime.NumCPU()
	}

	s := &Service{
		source:   source,
		defaults: defaults,
		zoom:     tiles.DefaultZoom,
		slots:    make(chan struct{}, slots),
		timeout:  cfg.QueueTimeout,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Defaults returns the options used when a request sets no overrides.
func (s *Service) Defaults() Options {
	return s.defaults
}

// AnalyzeImage runs detection on an already ingested image.
//
// If wantOverlay is set, the result carries the composited overlay as well.
// The call blocks only while waiting for a free slot; the computation itself
// is not interruptible.
func (s *Service) AnalyzeImage(ctx context.Context, img *imaging.Image, opts Options, wantOverlay bool) (*Result, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	start := time.Now()
	res, err := run(img, opts, wantOverlay)
	if err != nil {
		if errors.Is(err, imaging.ErrContract) {
			s.logger.DPanic("pipeline contract violated", zap.Error(err))
		}
		return nil, err
	}
	res.Elapsed = time.Since(start)

	s.logger.Debug("analysis complete",
		zap.Int("width", res.Width),
		zap.Int("height", res.Height),
		zap.Float64("percentage", res.Percentage),
		zap.Bool("overlay", wantOverlay),
		zap.Duration("elapsed", res.Elapsed))

	return res, nil
}

// AnalyzeLocation fetches the image centered on c and analyzes it.
//
// The result includes the image footprint and the vegetated area estimate.
// Fetch failures are returned unchanged so callers can inspect
// *tiles.FetchError.
func (s *Service) AnalyzeLocation(ctx context.Context, c tiles.Coordinates, opts Options, wantOverlay bool) (*Result, error) {
	if s.source == nil {
		return nil, imaging.BadConfig("mapbox", "no image source configured")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	fetchStart := time.Now()
	img, err := s.source.Fetch(ctx, c)
	if err != nil {
		s.logger.Warn("image fetch failed",
			zap.Stringer("coordinates", c),
			zap.Error(err))
		return nil, fmt.Errorf("fetch %s: %w", c, err)
	}
	s.logger.Debug("image fetched",
		zap.Stringer("coordinates", c),
		zap.Duration("elapsed", time.Since(fetchStart)))

	res, err := s.AnalyzeImage(ctx, img, opts, wantOverlay)
	if err != nil {
		return nil, err
	}

	fp := tiles.FootprintOf(c, s.zoom, img.Width, img.Height)
	res.Coordinates = &c
	res.Footprint = &fp
	res.VegetatedAreaM2 = fp.AreaM2 * res.Percentage / 100

	return res, nil
}

// acquire waits for a free analysis slot.
func (s *Service) acquire(ctx context.Context) (func(), error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	select {
	case s.slots <- struct{}{}:
		return func() { <-s.slots }, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrBusy, ctx.Err())
	}
}

// run executes the pure pipeline on one image.
func run(img *imaging.Image, opts Options, wantOverlay bool) (*Result, error) {
	det, err := detection.NewDetector(opts.Detection)
	if err != nil {
		return nil, err
	}

	mask, err := det.Detect(img)
	if err != nil {
		return nil, err
	}

	pct, err := detection.Percentage(mask)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Percentage: pct,
		Width:      img.Width,
		Height:     img.Height,
		Mask:       mask,
	}

	if wantOverlay {
		comp, err := imaging.NewCompositor(opts.Overlay)
		if err != nil {
			return nil, err
		}
		res.Overlay, err = comp.Overlay(img, mask)
		if err != nil {
			return nil, err
		}
	}

	return res, nil
}
