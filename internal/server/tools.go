package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// tuningProperties are the optional threshold and blend overrides accepted
// by every tool.
func tuningProperties() map[string]interface{} {
	integer := func(desc string) map[string]interface{} {
		return map[string]interface{}{"type": "integer", "description": desc}
	}
	number := func(desc string) map[string]interface{} {
		return map[string]interface{}{"type": "number", "description": desc}
	}
	return map[string]interface{}{
		"hue_min":     integer("Lower hue bound, 0-179 (default 25)"),
		"hue_max":     integer("Upper hue bound, 0-179 (default 90)"),
		"sat_min":     integer("Lower saturation bound, 0-255 (default 40)"),
		"sat_max":     integer("Upper saturation bound, 0-255 (default 255)"),
		"val_min":     integer("Lower value bound, 0-255 (default 40)"),
		"val_max":     integer("Upper value bound, 0-255 (default 255)"),
		"kernel_size": integer("Closing kernel side in pixels; 0 or 1 disables refinement (default 5)"),
		"alpha":       number("Weight of the source image in the overlay, 0-1 (default 0.8)"),
		"beta":        number("Weight of the highlight layer in the overlay, 0-1 (default 0.2)"),
	}
}

// locationSchema builds the input schema of a coordinate-based tool.
func locationSchema() map[string]interface{} {
	props := tuningProperties()
	props["latitude"] = map[string]interface{}{
		"type":        "number",
		"description": "Latitude in decimal degrees, -90 to 90",
	}
	props["longitude"] = map[string]interface{}{
		"type":        "number",
		"description": "Longitude in decimal degrees, -180 to 180",
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   []string{"latitude", "longitude"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	fileProps := tuningProperties()
	fileProps["path"] = map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}

	return []Tool{
		{
			Name:        "greenery_percentage",
			Description: "Fetch the satellite image centered on a coordinate and return the percentage of pixels classified as vegetation, with the ground footprint and estimated vegetated area.",
			InputSchema: locationSchema(),
		},
		{
			Name:        "greenery_overlay",
			Description: "Fetch the satellite image centered on a coordinate and return it as a base64 JPEG with detected vegetation tinted green, plus the coverage percentage.",
			InputSchema: locationSchema(),
		},
		{
			Name:        "greenery_analyze_file",
			Description: "Return the vegetation coverage percentage of a local image file (JPEG, PNG or GIF).",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": fileProps,
				"required":   []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
