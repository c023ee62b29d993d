package mcp

import (
	"bytes"
	"encoding/json"
	"math/big"
	"strconv"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
)

// ProtocolVersion is the MCP revision advertised by initialize.
const ProtocolVersion = "2024-11-05"

// MethodNotificationInitialized is acknowledged without any output.
const MethodNotificationInitialized = "notifications/initialized"

var nullID = json.RawMessage("null")

// Request is one decoded input line. The id is kept raw so it can be echoed
// exactly as received, whatever its JSON type.
type Request struct {
	ID     json.RawMessage
	Method string
	Params json.RawMessage
}

// envelope reads the members raw, so a member of an unexpected type never
// makes a valid object undecodable. jsonrpc is not checked.
type envelope struct {
	ID     json.RawMessage `json:"id"`
	Method json.RawMessage `json:"method"`
	Params json.RawMessage `json:"params"`
}

// Response carries exactly one of Result or Error.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// responseID is the id to echo: the request's own, or null when absent.
func (r Request) responseID() json.RawMessage {
	if len(r.ID) == 0 {
		return nullID
	}
	return r.ID
}

// decodeRequest parses one line. Anything but a JSON object is rejected.
func decodeRequest(line []byte) (Request, bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 || line[0] != '{' {
		return Request{}, false
	}

	var env envelope
	if err := json.Unmarshal(line, &env); err != nil {
		return Request{}, false
	}
	return Request{
		ID:     env.ID,
		Method: rawText(env.Method),
		Params: env.Params,
	}, true
}

// rawText returns a JSON string member as its value and any other member as
// its compact JSON text. Absent or null members give "".
func rawText(raw json.RawMessage) string {
	if len(raw) == 0 || bytes.Equal(raw, nullID) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func newResult(id json.RawMessage, result any) *Response {
	return &Response{
		JSONRPC: mcpgo.JSONRPC_VERSION,
		ID:      id,
		Result:  result,
	}
}

func newError(id json.RawMessage, code int, message string) *Response {
	return &Response{
		JSONRPC: mcpgo.JSONRPC_VERSION,
		ID:      id,
		Error:   &RPCError{Code: code, Message: message},
	}
}

type initializeResult struct {
	ProtocolVersion string               `json:"protocolVersion"`
	ServerInfo      mcpgo.Implementation `json:"serverInfo"`
	Capabilities    capabilities         `json:"capabilities"`
}

// capabilities lists each registered tool under tools, with an empty object
// as value.
type capabilities struct {
	Tools map[string]struct{} `json:"tools"`
}

type callParams struct {
	Name      json.RawMessage `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// decodeCallParams reads tools/call params. A name that is not a string is
// kept as its JSON text so it can be reported. Argument numbers decode to
// int when they are integers that fit, to json.Number for larger integers
// and to float64 otherwise.
func decodeCallParams(raw json.RawMessage) (mcpgo.CallToolParams, error) {
	var p callParams
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &p); err != nil {
			return mcpgo.CallToolParams{}, err
		}
	}

	params := mcpgo.CallToolParams{Name: rawText(p.Name)}
	if len(p.Arguments) == 0 {
		return params, nil
	}

	dec := json.NewDecoder(bytes.NewReader(p.Arguments))
	dec.UseNumber()
	var args any
	if err := dec.Decode(&args); err != nil {
		return mcpgo.CallToolParams{}, err
	}
	params.Arguments = normalizeNumbers(args)
	return params, nil
}

func normalizeNumbers(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for k, item := range v {
			v[k] = normalizeNumbers(item)
		}
		return v
	case []any:
		for i, item := range v {
			v[i] = normalizeNumbers(item)
		}
		return v
	case json.Number:
		if i, err := strconv.ParseInt(v.String(), 10, strconv.IntSize); err == nil {
			return int(i)
		}
		if _, ok := new(big.Int).SetString(v.String(), 10); ok {
			return v
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v
	default:
		return v
	}
}
