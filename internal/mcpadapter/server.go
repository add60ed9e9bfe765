// Package mcpadapter is the thin glue between the ToolHandlers and
// mark3labs/mcp-go's server: its Server.RegisterTool is the tool
// registrar of SPEC_FULL.md §4.11 ("assumed available" collaborator in
// spec §1). It owns tool
// descriptor -> mcp.Tool translation and stdio transport wiring; no
// protocol-framing logic lives here.
package mcpadapter

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ToolHandlerFunc is the signature every registered tool implements:
// receive the raw call arguments, return the uniform result envelope
// as a JSON-marshalable value plus whether it represents a failure.
type ToolHandlerFunc func(ctx context.Context, args map[string]any) (content string, structuredContent any, isError bool)

// Descriptor is everything needed to advertise one tool: its
// JSON-schema input shape and its advisory annotation hints (spec §6
// "Annotation hints").
type Descriptor struct {
	Description string
	Params      []ParamOption
	ReadOnly    bool
	Destructive bool
	Idempotent  bool
	OpenWorld   bool
}

// ParamOption builds one mcp.ToolOption for a tool's input schema.
type ParamOption func() mcp.ToolOption

// StringParam declares a string argument. required=true adds
// mcp.Required().
func StringParam(name, description string, required bool) ParamOption {
	return func() mcp.ToolOption {
		opts := []mcp.PropertyOption{mcp.Description(description)}
		if required {
			opts = append(opts, mcp.Required())
		}
		return mcp.WithString(name, opts...)
	}
}

// NumberParam declares a numeric argument with an inclusive range.
func NumberParam(name, description string, min, max float64) ParamOption {
	return func() mcp.ToolOption {
		return mcp.WithNumber(name,
			mcp.Description(description),
			mcp.Min(min),
			mcp.Max(max),
		)
	}
}

// EnumArrayParam declares a string-array argument whose items must
// each be one of enum.
func EnumArrayParam(name, description string, enum []string) ParamOption {
	return func() mcp.ToolOption {
		return mcp.WithArray(name,
			mcp.Description(description),
			mcp.Items(map[string]any{
				"type": "string",
				"enum": enum,
			}),
		)
	}
}

// Server wraps a mark3labs/mcp-go MCPServer bound to stdio, the
// transport spec §5 reserves standard output for exclusively.
type Server struct {
	mcp *server.MCPServer
}

// New builds a Server advertising name/version to clients during the
// protocol handshake.
func New(name, version string) *Server {
	return &Server{
		mcp: server.NewMCPServer(name, version, server.WithToolCapabilities(false)),
	}
}

// RegisterTool advertises one tool and binds handler to it. Every
// registered tool carries its annotation hints verbatim (spec §6);
// there is no default hint combination applied here.
func (s *Server) RegisterTool(toolName string, d Descriptor, handler ToolHandlerFunc) {
	opts := []mcp.ToolOption{
		mcp.WithDescription(d.Description),
		mcp.WithReadOnlyHintAnnotation(d.ReadOnly),
		mcp.WithDestructiveHintAnnotation(d.Destructive),
		mcp.WithIdempotentHintAnnotation(d.Idempotent),
		mcp.WithOpenWorldHintAnnotation(d.OpenWorld),
	}
	for _, p := range d.Params {
		opts = append(opts, p())
	}

	s.mcp.AddTool(mcp.NewTool(toolName, opts...), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := req.Params.Arguments.(map[string]any)
		text, structured, isError := handler(ctx, args)
		if isError {
			return mcp.NewToolResultError(text), nil
		}
		result := mcp.NewToolResultText(text)
		result.StructuredContent = structured
		return result, nil
	})
}

// ServeStdio blocks, serving the tool protocol over stdin/stdout (spec
// §5's transport invariant: stdout carries protocol frames only) until
// the transport closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}
