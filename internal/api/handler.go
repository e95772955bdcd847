package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ironsheep/greenery-detector/internal/analysis"
	"github.com/ironsheep/greenery-detector/internal/imaging"
	"github.com/ironsheep/greenery-detector/internal/tiles"
)

// Analyzer runs the vegetation pipeline. *analysis.Service implements it.
type Analyzer interface {
	Defaults() analysis.Options
	AnalyzeImage(ctx context.Context, img *imaging.Image, opts analysis.Options, wantOverlay bool) (*analysis.Result, error)
	AnalyzeLocation(ctx context.Context, c tiles.Coordinates, opts analysis.Options, wantOverlay bool) (*analysis.Result, error)
}

// BuildInfo is reported by the version endpoint.
type BuildInfo struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	GitCommit string `json:"git_commit"`
}

// HandlerConfig tunes response encoding and upload limits.
type HandlerConfig struct {
	JPEGQuality    int
	MaxUploadBytes int64
}

// Handler serves the HTTP endpoints.
type Handler struct {
	analyzer Analyzer
	cfg      HandlerConfig
	build    BuildInfo
	logger   *zap.Logger
}

// NewHandler creates a handler. A nil logger discards output.
func NewHandler(analyzer Analyzer, cfg HandlerConfig, build BuildInfo, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.JPEGQuality == 0 {
		cfg.JPEGQuality = imaging.DefaultJPEGQuality
	}
	return &Handler{analyzer: analyzer, cfg: cfg, build: build, logger: logger}
}

// DetectGreenery handles GET /detect_greenery and returns the overlay as JPEG.
func (h *Handler) DetectGreenery(c *gin.Context) {
	res, ok := h.analyzeLocation(c, true)
	if !ok {
		return
	}
	h.writeJPEG(c, res)
}

// GreeneryPercentage handles GET /greenery_percentage.
func (h *Handler) GreeneryPercentage(c *gin.Context) {
	res, ok := h.analyzeLocation(c, false)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newPercentageResponse(res))
}

// GreeneryMask handles GET /greenery_mask and returns the refined mask as a
// grayscale PNG.
func (h *Handler) GreeneryMask(c *gin.Context) {
	res, ok := h.analyzeLocation(c, false)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := imaging.EncodePNG(&buf, res.Mask.Gray()); err != nil {
		fail(c, fmt.Errorf("encode mask: %w", err))
		return
	}
	c.Header(HeaderPercentage, formatPercentage(res.Percentage))
	c.Data(http.StatusOK, imaging.MimePNG, buf.Bytes())
}

// Analyze handles POST /api/v1/analyze with a multipart "image" field.
// The response is JSON unless format=jpeg or format=png asks for the overlay.
func (h *Handler) Analyze(c *gin.Context) {
	format := c.DefaultQuery("format", "json")
	switch format {
	case "json", "jpeg", "png":
	default:
		badRequest(c, imaging.Invalid("format", "%q is not one of json, jpeg, png", format))
		return
	}

	opts, ok := h.options(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxUploadBytes)
	fh, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, ErrorResponse{
				Error: fmt.Sprintf("upload exceeds %d bytes", h.cfg.MaxUploadBytes),
			})
			return
		}
		badRequest(c, imaging.Invalid("image", "multipart field is required: %v", err))
		return
	}

	f, err := fh.Open()
	if err != nil {
		badRequest(c, imaging.Invalid("image", "unreadable upload: %v", err))
		return
	}
	defer f.Close()

	img, err := imaging.Decode(f)
	if err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.analyzer.AnalyzeImage(c.Request.Context(), img, opts, format != "json")
	if err != nil {
		fail(c, err)
		return
	}

	switch format {
	case "jpeg":
		h.writeJPEG(c, res)
	case "png":
		var buf bytes.Buffer
		if err := imaging.EncodePNG(&buf, res.Overlay); err != nil {
			fail(c, fmt.Errorf("encode overlay: %w", err))
			return
		}
		c.Header(HeaderPercentage, formatPercentage(res.Percentage))
		c.Data(http.StatusOK, imaging.MimePNG, buf.Bytes())
	default:
		c.JSON(http.StatusOK, newPercentageResponse(res))
	}
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Version handles GET /version.
func (h *Handler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, h.build)
}

// analyzeLocation parses the request and runs a location analysis. On
// failure the response has been written and ok is false.
func (h *Handler) analyzeLocation(c *gin.Context, wantOverlay bool) (*analysis.Result, bool) {
	coords, err := parseCoordinates(c)
	if err != nil {
		badRequest(c, err)
		return nil, false
	}

	opts, ok := h.options(c)
	if !ok {
		return nil, false
	}

	res, err := h.analyzer.AnalyzeLocation(c.Request.Context(), coords, opts, wantOverlay)
	if err != nil {
		fail(c, err)
		return nil, false
	}
	return res, true
}

// options applies query overrides to the analyzer defaults.
func (h *Handler) options(c *gin.Context) (analysis.Options, bool) {
	ov, err := parseOverrides(c)
	if err != nil {
		badRequest(c, err)
		return analysis.Options{}, false
	}

	opts := h.analyzer.Defaults()
	if ov.IsZero() {
		return opts, true
	}
	opts, err = opts.Apply(ov)
	if err != nil {
		badRequest(c, err)
		return analysis.Options{}, false
	}
	return opts, true
}

func (h *Handler) writeJPEG(c *gin.Context, res *analysis.Result) {
	var buf bytes.Buffer
	if err := imaging.EncodeJPEG(&buf, res.Overlay, h.cfg.JPEGQuality); err != nil {
		fail(c, fmt.Errorf("encode overlay: %w", err))
		return
	}
	c.Header(HeaderPercentage, formatPercentage(res.Percentage))
	c.Data(http.StatusOK, imaging.MimeJPEG, buf.Bytes())
}

func formatPercentage(p float64) string {
	return strconv.FormatFloat(p, 'f', 4, 64)
}
