package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"perso/internal/config"
	"perso/internal/logging"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
)

// Server reads requests line by line and answers them in order, one at a
// time.
type Server struct {
	config     *config.Config
	logger     *logging.AppLogger
	dispatcher *Dispatcher
	registry   *Registry
}

// NewServer creates a server answering with the tools backed by deps.
func NewServer(cfg *config.Config, logger *logging.AppLogger, deps Deps) (*Server, error) {
	registry, err := NewToolRegistry(deps)
	if err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	info := mcpgo.Implementation{
		Name:    cfg.Server.Name,
		Version: cfg.Server.Version,
	}

	return &Server{
		config:     cfg,
		logger:     logger,
		dispatcher: NewDispatcher(info, registry, logger),
		registry:   registry,
	}, nil
}

// Registry exposes the registered tools, for listings outside the protocol.
func (s *Server) Registry() *Registry {
	return s.registry
}

// ServeStdio serves on the process standard streams.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve processes in until EOF. Undecodable lines are dropped. Each response
// is written as a single line and flushed before the next line is read.
// Only read and write failures end the loop early.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Info("MCP server started",
		"name", s.config.Server.Name,
		"version", s.config.Server.Version,
		"tools", s.registry.Names(),
	)

	reader := bufio.NewReader(in)
	writer := bufio.NewWriter(out)
	encoder := json.NewEncoder(writer)
	encoder.SetEscapeHTML(false)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, readErr := reader.ReadBytes('\n')
		if len(line) > 0 {
			if err := s.handleLine(ctx, line, encoder, writer); err != nil {
				return err
			}
		}

		if errors.Is(readErr, io.EOF) {
			s.logger.Info("Input closed, stopping MCP server")
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("reading request: %w", readErr)
		}
	}
}

func (s *Server) handleLine(ctx context.Context, line []byte, encoder *json.Encoder, writer *bufio.Writer) error {
	start := time.Now()

	req, ok := decodeRequest(line)
	if !ok {
		s.logger.Debug("Dropping undecodable line", "bytes", len(line))
		return nil
	}

	resp := s.dispatcher.Dispatch(ctx, req)
	if resp == nil {
		return nil
	}

	// Encode marshals fully before writing, so a failure never leaves half a line
	if err := encoder.Encode(resp); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flushing response: %w", err)
	}

	s.logger.LogRequest(req.Method, string(resp.ID), start)
	return nil
}
