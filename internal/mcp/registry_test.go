package mcp

import (
	"context"
	"errors"
	"testing"

	"perso/internal/clipboard"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func call(t *testing.T, registry *Registry, name string, args map[string]any) Outcome {
	t.Helper()
	tool, ok := registry.Lookup(name)
	require.True(t, ok, "tool %s", name)
	return tool.Handler(context.Background(), mcpgo.CallToolRequest{
		Params: mcpgo.CallToolParams{Name: name, Arguments: args},
	})
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	noop := func(context.Context, mcpgo.CallToolRequest) Outcome { return Ok("") }

	require.NoError(t, r.Register(mcpgo.NewTool("un"), noop))
	require.NoError(t, r.Register(mcpgo.NewTool("deux"), noop))

	assert.Error(t, r.Register(mcpgo.NewTool("un"), noop), "duplicate names are rejected")
	assert.Error(t, r.Register(mcpgo.NewTool(""), noop))
	assert.Error(t, r.Register(mcpgo.NewTool("trois"), nil))

	assert.Equal(t, []string{"un", "deux"}, r.Names())
	assert.Len(t, r.Descriptors(), 2)
	assert.Equal(t, map[string]struct{}{"un": {}, "deux": {}}, r.Capabilities())

	_, ok := r.Lookup("trois")
	assert.False(t, ok)
}

func TestOutcomeKinds(t *testing.T) {
	failing := errors.New("boom")

	deps := newTestDeps(t)
	deps.Mail = fakeSummarizer{err: failing}
	deps.Clipboard = fakeClipboard{err: clipboard.ErrEmpty}
	registry, err := NewToolRegistry(deps)
	require.NoError(t, err)

	tests := []struct {
		name string
		tool string
		args map[string]any
		kind OutcomeKind
	}{
		{name: "calcul", tool: ToolCalcul, args: map[string]any{"a": 1.0, "b": 2.0}, kind: OutcomeOK},
		{name: "recipe found", tool: ToolMarqueRecette, args: map[string]any{"titre": "Recette 2"}, kind: OutcomeOK},
		{name: "recipe not found is data", tool: ToolMarqueRecette, args: map[string]any{"titre": "Nope"}, kind: OutcomeOK},
		{name: "missing title", tool: ToolMarqueRecette, args: nil, kind: OutcomeGuidance},
		{name: "proposal", tool: ToolProposeRecettes, args: map[string]any{"source": "Source B", "quantite": 1.0}, kind: OutcomeOK},
		{name: "quantity as text", tool: ToolProposeRecettes, args: map[string]any{"source": "Source B", "quantite": "2"}, kind: OutcomeOK},
		{name: "missing quantity", tool: ToolProposeRecettes, args: map[string]any{"source": "Source B"}, kind: OutcomeGuidance},
		{name: "mailbox failure", tool: ToolResumeEmails, kind: OutcomeCollaboratorError},
		{name: "empty clipboard", tool: ToolGourmandise, kind: OutcomeCollaboratorError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := call(t, registry, tt.tool, tt.args)
			assert.Equal(t, tt.kind, outcome.Kind, "text: %s", outcome.Text)
			assert.NotEmpty(t, outcome.Text)
		})
	}

	outcome := call(t, registry, ToolResumeEmails, nil)
	assert.ErrorIs(t, outcome.Err, failing)
}

func TestMissingCollaborators(t *testing.T) {
	registry, err := NewToolRegistry(Deps{})
	require.NoError(t, err)

	for _, tc := range []struct {
		tool string
		args map[string]any
	}{
		{tool: ToolResumeEmails},
		{tool: ToolMarqueRecette, args: map[string]any{"titre": "Recette 1"}},
		{tool: ToolProposeRecettes, args: map[string]any{"source": "Source A", "quantite": 1.0}},
		{tool: ToolPrepareSynthese},
	} {
		outcome := call(t, registry, tc.tool, tc.args)
		assert.Equal(t, OutcomeCollaboratorError, outcome.Kind, tc.tool)
		assert.NotEmpty(t, outcome.Text, tc.tool)
	}
}

func TestOutcome_Result(t *testing.T) {
	for _, o := range []Outcome{Ok("a"), Guidance("b"), CollaboratorError("c", errors.New("x"))} {
		result := o.Result()
		require.Len(t, result.Content, 1)
		text, ok := result.Content[0].(mcpgo.TextContent)
		require.True(t, ok)
		assert.Equal(t, "text", text.Type)
		assert.Equal(t, o.Text, text.Text)
		assert.False(t, result.IsError)
	}
}

func TestOutcomeKind_String(t *testing.T) {
	assert.Equal(t, "ok", OutcomeOK.String())
	assert.Equal(t, "guidance", OutcomeGuidance.String())
	assert.Equal(t, "collaborator_error", OutcomeCollaboratorError.String())
	assert.Equal(t, "unknown", OutcomeKind(42).String())
}
