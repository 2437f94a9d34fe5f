// Package mcp exposes the news views as Model Context Protocol tools over
// newline-delimited JSON-RPC on stdio.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/johnrirwin/headlinehub/internal/logging"
)

const maxMessageSize = 4 << 20

type Server struct {
	handler *Handler
	logger  *logging.Logger
}

func NewServer(handler *Handler, logger *logging.Logger) *Server {
	return &Server{
		handler: handler,
		logger:  logger,
	}
}

// Run serves stdin and stdout until EOF or ctx is done.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve handles one message per line from r, including a final line without a
// trailing newline, and writes one reply line per request to w.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxMessageSize)
	out := bufio.NewWriter(w)

	s.logger.Info("MCP server ready")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !scanner.Scan() {
			break
		}

		line := scanner.Bytes()
		if strings.TrimSpace(string(line)) == "" {
			continue
		}
		resp := s.handleRequest(ctx, line)
		if resp == nil {
			continue
		}
		if err := s.write(out, resp); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read error: %w", err)
	}
	return nil
}

func (s *Server) write(out *bufio.Writer, resp *Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("Failed to marshal response", logging.WithField("error", err.Error()))
		return nil
	}
	data = append(data, '\n')
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	return nil
}

// handleRequest returns nil for notifications.
func (s *Server) handleRequest(ctx context.Context, data []byte) *Response {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return errorFor(nil, codeParseError, "Parse error")
	}

	s.logger.Debug("Received request", logging.WithFields(map[string]interface{}{
		"method": req.Method,
		"id":     req.ID,
	}))

	switch req.Method {
	case "initialize":
		return resultFor(req.ID, InitializeResult{
			ProtocolVersion: protocolVersion,
			ServerInfo:      ServerInfo{Name: "headlinehub", Version: "1.0.0"},
			Capabilities:    Caps{Tools: &ToolsCap{}},
		})
	case "initialized", "notifications/initialized":
		return nil
	case "tools/list":
		return resultFor(req.ID, ToolsListResult{Tools: s.handler.GetTools()})
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "ping":
		return resultFor(req.ID, map[string]interface{}{})
	default:
		return errorFor(req.ID, codeMethodNotFound, "Method not found")
	}
}

// handleToolsCall reports tool failures inside the result so the client model
// sees them; only malformed params are protocol errors.
func (s *Server) handleToolsCall(ctx context.Context, req Request) *Response {
	var params CallToolParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorFor(req.ID, codeInvalidParams, "Invalid params: "+err.Error())
	}

	result, err := s.handler.HandleToolCall(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("Tool call failed", logging.WithFields(map[string]interface{}{
			"tool":  params.Name,
			"error": err.Error(),
		}))
		return resultFor(req.ID, textResult(map[string]string{"error": err.Error()}, true))
	}
	return resultFor(req.ID, textResult(result, false))
}
