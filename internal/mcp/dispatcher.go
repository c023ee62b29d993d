package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"perso/internal/logging"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
)

var errNoCollaborator = errors.New("collaborator not configured")

// Dispatcher routes one request to its handler and builds the response.
type Dispatcher struct {
	info     mcpgo.Implementation
	registry *Registry
	logger   *logging.AppLogger
}

func NewDispatcher(info mcpgo.Implementation, registry *Registry, logger *logging.AppLogger) *Dispatcher {
	return &Dispatcher{
		info:     info,
		registry: registry,
		logger:   logger,
	}
}

// Dispatch returns the response for req, or nil when the method expects no
// answer.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) *Response {
	id := req.responseID()

	switch req.Method {
	case string(mcpgo.MethodInitialize):
		return newResult(id, d.initialize())
	case string(mcpgo.MethodToolsList):
		return newResult(id, mcpgo.NewListToolsResult(d.registry.Descriptors(), ""))
	case string(mcpgo.MethodToolsCall):
		return d.callTool(ctx, id, req.Params)
	case MethodNotificationInitialized:
		d.logger.Debug("Client initialized")
		return nil
	default:
		d.logger.Debug("Unknown method", "method", req.Method)
		return newError(id, mcpgo.METHOD_NOT_FOUND, "Méthode inconnue: "+req.Method)
	}
}

func (d *Dispatcher) initialize() initializeResult {
	return initializeResult{
		ProtocolVersion: ProtocolVersion,
		ServerInfo:      d.info,
		Capabilities:    capabilities{Tools: d.registry.Capabilities()},
	}
}

func (d *Dispatcher) callTool(ctx context.Context, id json.RawMessage, raw json.RawMessage) *Response {
	params, err := decodeCallParams(raw)
	if err != nil {
		d.logger.Warn("Invalid tools/call params", "error", err)
		return newError(id, mcpgo.INVALID_PARAMS, "Paramètres invalides: "+err.Error())
	}

	tool, ok := d.registry.Lookup(params.Name)
	if !ok {
		d.logger.Debug("Unknown tool", "tool", params.Name)
		return newError(id, mcpgo.METHOD_NOT_FOUND, "Outil inconnu: "+params.Name)
	}

	outcome := tool.Handler(ctx, mcpgo.CallToolRequest{Params: params})

	switch outcome.Kind {
	case OutcomeCollaboratorError:
		d.logger.Warn("Tool collaborator failed", "tool", params.Name, "error", outcome.Err)
	case OutcomeGuidance:
		d.logger.Info("Tool called without usable arguments", "tool", params.Name)
	default:
		d.logger.Debug("Tool call completed", "tool", params.Name, "bytes", len(outcome.Text))
	}

	return newResult(id, outcome.Result())
}
