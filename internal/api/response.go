package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ironsheep/greenery-detector/internal/analysis"
	"github.com/ironsheep/greenery-detector/internal/imaging"
	"github.com/ironsheep/greenery-detector/internal/tiles"
)

// HeaderPercentage carries the coverage percentage on image responses.
const HeaderPercentage = "X-Greenery-Percentage"

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

// PercentageResponse is the body of percentage responses.
type PercentageResponse struct {
	PercentageGreenery float64            `json:"percentage_greenery"`
	Width              int                `json:"width"`
	Height             int                `json:"height"`
	Coordinates        *tiles.Coordinates `json:"coordinates,omitempty"`
	Footprint          *tiles.Footprint   `json:"footprint,omitempty"`
	VegetatedAreaM2    *float64           `json:"vegetated_area_m2,omitempty"`
	ElapsedMs          float64            `json:"elapsed_ms"`
}

func newPercentageResponse(res *analysis.Result) PercentageResponse {
	out := PercentageResponse{
		PercentageGreenery: res.Percentage,
		Width:              res.Width,
		Height:             res.Height,
		Coordinates:        res.Coordinates,
		Footprint:          res.Footprint,
		ElapsedMs:          float64(res.Elapsed.Microseconds()) / 1000,
	}
	if res.Footprint != nil {
		area := res.VegetatedAreaM2
		out.VegetatedAreaM2 = &area
	}
	return out
}

// badRequest rejects a request whose parameters could not be used.
func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}

// fail maps an analysis error to a response.
//
//   - provider failures: 502 Bad Gateway
//   - queue full: 503 Service Unavailable
//   - invalid input: 400 Bad Request
//   - contract violations, server misconfiguration and anything else: 500
func fail(c *gin.Context, err error) {
	_ = c.Error(err)

	var fe *tiles.FetchError
	switch {
	case errors.As(err, &fe):
		c.AbortWithStatusJSON(http.StatusBadGateway, ErrorResponse{Error: err.Error(), Retryable: fe.Retryable()})
	case errors.Is(err, analysis.ErrBusy):
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error(), Retryable: true})
	case errors.Is(err, imaging.ErrValidation):
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, imaging.ErrContract):
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}
