package mcp

import (
	mcpgo "github.com/mark3labs/mcp-go/mcp"
)

// OutcomeKind tells how a tool call ended.
type OutcomeKind int

const (
	// OutcomeOK carries the tool's answer.
	OutcomeOK OutcomeKind = iota
	// OutcomeGuidance answers missing or unusable arguments with usage text.
	OutcomeGuidance
	// OutcomeCollaboratorError reports a store, mailbox or clipboard failure.
	OutcomeCollaboratorError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOK:
		return "ok"
	case OutcomeGuidance:
		return "guidance"
	case OutcomeCollaboratorError:
		return "collaborator_error"
	default:
		return "unknown"
	}
}

// Outcome is the result of one tool handler. Every kind is delivered to the
// client the same way, as a successful call with a single text item; the
// kind only drives logging and tests.
type Outcome struct {
	Kind OutcomeKind
	Text string
	Err  error
}

func Ok(text string) Outcome {
	return Outcome{Kind: OutcomeOK, Text: text}
}

func Guidance(text string) Outcome {
	return Outcome{Kind: OutcomeGuidance, Text: text}
}

// CollaboratorError keeps the underlying error next to the text shown to the
// model.
func CollaboratorError(text string, err error) Outcome {
	return Outcome{Kind: OutcomeCollaboratorError, Text: text, Err: err}
}

// Result flattens the outcome into the tools/call result envelope.
func (o Outcome) Result() *mcpgo.CallToolResult {
	return mcpgo.NewToolResultText(o.Text)
}
