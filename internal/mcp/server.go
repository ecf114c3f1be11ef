package mcp

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/wrensense/internal/debug"
	"github.com/standardbeagle/wrensense/internal/engine"
	"github.com/standardbeagle/wrensense/internal/version"
)

// Server exposes the engine over the Model Context Protocol so editor
// agents can query symbol outlines, completions and diagnostics.
type Server struct {
	engine *engine.Engine
	server *mcp.Server
}

// NewServer creates an MCP server wrapping the given engine.
func NewServer(eng *engine.Engine) *Server {
	s := &Server{engine: eng}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    "wrensense-mcp-server",
		Version: version.Version,
	}, nil)

	s.registerTools()
	return s
}

// Run serves MCP over stdio until ctx is cancelled. Debug output is
// redirected away from stdout so it cannot corrupt the protocol stream.
func (s *Server) Run(ctx context.Context) error {
	debug.SetMCPMode(true)
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	pathProp := func(desc string) *jsonschema.Schema {
		return &jsonschema.Schema{Type: "string", Description: desc}
	}
	offsetProp := &jsonschema.Schema{
		Type:        "integer",
		Description: "Byte offset of the cursor within the file",
	}

	s.server.AddTool(&mcp.Tool{
		Name:        "outline",
		Description: "List the classes, methods and imports declared in a source file.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"path": pathProp("Path to the source file"),
			},
			Required: []string{"path"},
		},
	}, s.handleOutline)

	s.server.AddTool(&mcp.Tool{
		Name:        "diagnostics",
		Description: "Report parse errors and unresolved imports for a source file.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"path": pathProp("Path to the source file"),
			},
			Required: []string{"path"},
		},
	}, s.handleDiagnostics)

	s.server.AddTool(&mcp.Tool{
		Name:        "complete",
		Description: "Ranked code completion items for a cursor position. Resolves member receivers through local variable types.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"path":   pathProp("Path to the source file"),
				"offset": offsetProp,
			},
			Required: []string{"path", "offset"},
		},
	}, s.handleComplete)

	s.server.AddTool(&mcp.Tool{
		Name:        "signature",
		Description: "Signature help for the innermost open call at a cursor position, one entry per overload with the active parameter index.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"path":   pathProp("Path to the source file"),
				"offset": offsetProp,
			},
			Required: []string{"path", "offset"},
		},
	}, s.handleSignature)

	s.server.AddTool(&mcp.Tool{
		Name:        "aggregate",
		Description: "Workspace-wide class table visible from a file: its own classes, transitively imported classes and the core built-ins.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"path": pathProp("Path of the file whose import closure is aggregated"),
			},
			Required: []string{"path"},
		},
	}, s.handleAggregate)

	s.server.AddTool(&mcp.Tool{
		Name:        "index",
		Description: "Scan the project root and analyze every matching file, warming the cache.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{},
		},
	}, s.handleIndex)

	s.server.AddTool(&mcp.Tool{
		Name:        "stats",
		Description: "Cache occupancy and server version.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{},
		},
	}, s.handleStats)
}
