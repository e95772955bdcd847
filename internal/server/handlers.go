package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ironsheep/greenery-detector/internal/analysis"
	"github.com/ironsheep/greenery-detector/internal/imaging"
	"github.com/ironsheep/greenery-detector/internal/tiles"
)

// errInvalidArgs marks tool calls rejected before any work was done.
var errInvalidArgs = errors.New("invalid arguments")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "greenery_percentage").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Malformed calls return -32602; failures while running the tool return
// -32000 with the error string as data.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, CodeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		if errors.Is(err, errInvalidArgs) {
			return s.errorResponse(req.ID, CodeInvalidParams, "Invalid params", err.Error())
		}
		s.logger.Warn("tool failed", zap.String("tool", params.Name), zap.Error(err))
		return s.errorResponse(req.ID, CodeToolFailed, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "greenery_percentage":
		return s.handleGreeneryPercentage(ctx, args)
	case "greenery_overlay":
		return s.handleGreeneryOverlay(ctx, args)
	case "greenery_analyze_file":
		return s.handleGreeneryAnalyzeFile(ctx, args)
	default:
		return nil, fmt.Errorf("%w: unknown tool: %s", errInvalidArgs, name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments, treating absent arguments as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidArgs, err)
	}
	return nil
}

// options applies the call's overrides to the analyzer defaults.
func (s *Server) options(ov analysis.Overrides) (analysis.Options, error) {
	opts, err := s.analyzer.Defaults().Apply(ov)
	if err != nil {
		return analysis.Options{}, fmt.Errorf("%w: %v", errInvalidArgs, err)
	}
	return opts, nil
}

type locationArgs struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	analysis.Overrides
}

func (a locationArgs) coordinates() (tiles.Coordinates, error) {
	if a.Latitude == nil || a.Longitude == nil {
		return tiles.Coordinates{}, fmt.Errorf("%w: latitude and longitude are required", errInvalidArgs)
	}
	c, err := tiles.NewCoordinates(*a.Latitude, *a.Longitude)
	if err != nil {
		return tiles.Coordinates{}, fmt.Errorf("%w: %v", errInvalidArgs, err)
	}
	return c, nil
}

// PercentageResult is returned by greenery_percentage and
// greenery_analyze_file.
type PercentageResult struct {
	PercentageGreenery float64            `json:"percentage_greenery"`
	Width              int                `json:"width"`
	Height             int                `json:"height"`
	Coordinates        *tiles.Coordinates `json:"coordinates,omitempty"`
	Footprint          *tiles.Footprint   `json:"footprint,omitempty"`
	VegetatedAreaM2    *float64           `json:"vegetated_area_m2,omitempty"`
}

func newPercentageResult(res *analysis.Result) *PercentageResult {
	out := &PercentageResult{
		PercentageGreenery: res.Percentage,
		Width:              res.Width,
		Height:             res.Height,
		Coordinates:        res.Coordinates,
		Footprint:          res.Footprint,
	}
	if res.Footprint != nil {
		area := res.VegetatedAreaM2
		out.VegetatedAreaM2 = &area
	}
	return out
}

// OverlayResult is returned by greenery_overlay.
type OverlayResult struct {
	PercentageGreenery float64            `json:"percentage_greenery"`
	Coordinates        *tiles.Coordinates `json:"coordinates,omitempty"`
	imaging.EncodedImage
}

func (s *Server) handleGreeneryPercentage(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a locationArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	c, err := a.coordinates()
	if err != nil {
		return nil, err
	}
	opts, err := s.options(a.Overrides)
	if err != nil {
		return nil, err
	}

	res, err := s.analyzer.AnalyzeLocation(ctx, c, opts, false)
	if err != nil {
		return nil, err
	}
	return newPercentageResult(res), nil
}

func (s *Server) handleGreeneryOverlay(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a locationArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	c, err := a.coordinates()
	if err != nil {
		return nil, err
	}
	opts, err := s.options(a.Overrides)
	if err != nil {
		return nil, err
	}

	res, err := s.analyzer.AnalyzeLocation(ctx, c, opts, true)
	if err != nil {
		return nil, err
	}

	enc, err := imaging.EncodeBase64(res.Overlay, imaging.MimeJPEG, s.jpegQuality)
	if err != nil {
		return nil, err
	}
	return &OverlayResult{
		PercentageGreenery: res.Percentage,
		Coordinates:        res.Coordinates,
		EncodedImage:       *enc,
	}, nil
}

type analyzeFileArgs struct {
	Path string `json:"path"`
	analysis.Overrides
}

func (s *Server) handleGreeneryAnalyzeFile(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a analyzeFileArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("%w: path is required", errInvalidArgs)
	}
	opts, err := s.options(a.Overrides)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Open(a.Path)
	if err != nil {
		return nil, err
	}

	res, err := s.analyzer.AnalyzeImage(ctx, img, opts, false)
	if err != nil {
		return nil, err
	}
	return newPercentageResult(res), nil
}
