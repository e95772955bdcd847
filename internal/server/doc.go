// Package server implements the MCP (Model Context Protocol) server for
// vegetation analysis.
//
// This package provides a JSON-RPC 2.0 server that exposes the greenery
// pipeline through the MCP protocol, so MCP-compatible clients can ask for
// vegetation coverage at a coordinate or in a local image file.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - greenery_percentage: coverage, footprint and vegetated area at a coordinate
//   - greenery_overlay: base64 JPEG overlay and coverage at a coordinate
//   - greenery_analyze_file: coverage of a local image file
//
// Every tool accepts the optional overrides hue_min, hue_max, sat_min,
// sat_max, val_min, val_max, kernel_size, alpha and beta.
//
// # Error Handling
//
// Errors are returned as JSON-RPC error responses with:
//   - code: -32602 for malformed arguments or unknown tools, -32000 for
//     failures while running a tool, -32601 for unknown methods
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(service, server.WithLogger(logger))
//	if err := srv.Run(ctx); err != nil {
//	    logger.Fatal("mcp server failed", zap.Error(err))
//	}
//
// Logs go to stderr; stdout carries protocol traffic only.
package server
