// Package mcp implements the perso Model Context Protocol server.
//
// The server lets an LLM client call a handful of personal-assistant tools:
// adding two numbers, preparing an email summary prompt, marking a recipe as
// cooked, proposing recipes from a source, and priming a text synthesis or a
// recipe conversion with the current clipboard selection.
//
// # Implementation
//
// Protocol types (tool descriptors, argument helpers, the call result
// envelope and error codes) come from the mcp-go library
// (github.com/mark3labs/mcp-go). The transport loop is our own: request ids
// are echoed byte for byte, undecodable lines are dropped without a reply,
// and the capability set sent by initialize lists every tool by name.
//
// # Transport
//
// Requests are newline-delimited JSON-RPC 2.0 objects on stdin. Each one is
// handled completely, collaborator calls included, before the next line is
// read. Every request with a known method gets exactly one response line on
// stdout, flushed immediately; notifications/initialized gets none.
//
// # Errors
//
// Only routing failures become JSON-RPC errors (-32601 for an unknown method
// or tool). A tool call always succeeds at the protocol level: missing
// arguments and collaborator failures come back as text the model can read.
// Internally each call yields an Outcome whose kind separates the three
// cases, and collaborator failures are logged at warn level.
//
// # Usage
//
// The server is started as a subprocess by the MCP client:
//
//	perso serve
//
// # Architecture
//
//   - Server: line reader and response writer
//   - Dispatcher: method routing, initialize and tools/list payloads
//   - Registry: ordered tool set shared by initialize and tools/list
//   - Deps: recipe store, mailbox summarizer and clipboard reader
//
// # References
//
// - MCP Specification: https://modelcontextprotocol.io/specification
// - mcp-go Library: https://github.com/mark3labs/mcp-go
package mcp
