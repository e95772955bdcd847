// Package api exposes the vegetation analysis over HTTP.
//
// # Endpoints
//
//	GET  /detect_greenery?latitude=&longitude=     overlay JPEG, X-Greenery-Percentage header
//	GET  /greenery_percentage?latitude=&longitude= coverage as JSON
//	GET  /greenery_mask?latitude=&longitude=       refined mask as grayscale PNG
//	POST /api/v1/analyze                           multipart upload, JSON or ?format=jpeg|png
//	GET  /api/v1/percentage?latitude=&longitude=   alias of /greenery_percentage
//	GET  /health
//	GET  /version
//
// Every analysis endpoint accepts optional threshold and blend overrides:
// hue_min, hue_max, sat_min, sat_max, val_min, val_max, kernel_size, alpha
// and beta.
//
// # Errors
//
// Errors are JSON objects with an "error" field. Invalid parameters map to
// 400, provider failures to 502, a full analysis queue to 503 and anything
// else to 500.
package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter builds the gin engine serving h.
func NewRouter(h *Handler, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(Logger(logger))
	r.Use(CORS())

	r.GET("/health", h.Health)
	r.GET("/version", h.Version)

	r.GET("/detect_greenery", h.DetectGreenery)
	r.GET("/greenery_percentage", h.GreeneryPercentage)
	r.GET("/greenery_mask", h.GreeneryMask)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/analyze", h.Analyze)
		v1.GET("/percentage", h.GreeneryPercentage)
	}

	return r
}
