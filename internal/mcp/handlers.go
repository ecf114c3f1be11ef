package mcp

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/wrensense/internal/types"
	"github.com/standardbeagle/wrensense/internal/version"
)

type pathParams struct {
	Path string `json:"path"`
}

type positionParams struct {
	Path   string `json:"path"`
	Offset int    `json:"offset"`
}

type methodResponse struct {
	Name        string `json:"name"`
	Signature   string `json:"signature"`
	Static      bool   `json:"static,omitempty"`
	Constructor bool   `json:"constructor,omitempty"`
	Foreign     bool   `json:"foreign,omitempty"`
	Offset      int    `json:"offset"`
	Length      int    `json:"length"`
}

type classResponse struct {
	Name       string           `json:"name"`
	Superclass string           `json:"superclass,omitempty"`
	Foreign    bool             `json:"foreign,omitempty"`
	Methods    []methodResponse `json:"methods"`
	Fields     []string         `json:"fields,omitempty"`
	Offset     int              `json:"offset"`
	Length     int              `json:"length"`
}

type importResponse struct {
	Module  string   `json:"module"`
	Path    string   `json:"path"`
	Visible []string `json:"visible,omitempty"`
}

type outlineResponse struct {
	Path    string           `json:"path"`
	Version int32            `json:"version"`
	Classes []classResponse  `json:"classes"`
	Imports []importResponse `json:"imports"`
}

type diagnosticResponse struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Offset   int    `json:"offset"`
	Length   int    `json:"length"`
}

type completionResponse struct {
	Label     string `json:"label"`
	Kind      string `json:"kind"`
	Class     string `json:"class,omitempty"`
	Signature string `json:"signature,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

type signatureResponse struct {
	Label       string   `json:"label"`
	Class       string   `json:"class,omitempty"`
	Params      []string `json:"params"`
	ActiveParam int      `json:"active_param"`
}

type aggregateClassResponse struct {
	Name    string   `json:"name"`
	Methods []string `json:"methods"`
	Statics []string `json:"statics,omitempty"`
}

func (s *Server) handleOutline(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params pathParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return createParamError("outline", err)
	}

	index, err := s.engine.Outline(params.Path)
	if err != nil {
		return createErrorResponse(err)
	}

	resp := outlineResponse{
		Path:    index.Path,
		Version: index.Version,
		Classes: make([]classResponse, 0, len(index.Classes)),
		Imports: make([]importResponse, 0, len(index.Imports)),
	}
	for _, cls := range index.Classes {
		cr := classResponse{
			Name:       cls.Name,
			Superclass: cls.Superclass,
			Foreign:    cls.IsForeign,
			Offset:     cls.Span.Start,
			Length:     cls.Span.Length,
			Fields:     fieldNames(cls.Fields),
			Methods:    make([]methodResponse, 0, len(cls.Methods)+len(cls.StaticMethods)),
		}
		for _, m := range cls.Methods {
			cr.Methods = append(cr.Methods, toMethodResponse(m))
		}
		for _, m := range cls.StaticMethods {
			cr.Methods = append(cr.Methods, toMethodResponse(m))
		}
		resp.Classes = append(resp.Classes, cr)
	}
	for _, imp := range index.Imports {
		resp.Imports = append(resp.Imports, importResponse{
			Module:  imp.Module,
			Path:    imp.Path,
			Visible: imp.VisibleNames,
		})
	}
	return createJSONResponse(resp)
}

func toMethodResponse(m types.MethodSymbol) methodResponse {
	return methodResponse{
		Name:        m.Name,
		Signature:   m.Signature,
		Static:      m.IsStatic,
		Constructor: m.IsConstructor,
		Foreign:     m.IsForeign,
		Offset:      m.Span.Start,
		Length:      m.Span.Length,
	}
}

func fieldNames(fields []types.FieldSymbol) []string {
	if len(fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Name)
	}
	return names
}

func (s *Server) handleDiagnostics(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params pathParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return createParamError("diagnostics", err)
	}

	diags, err := s.engine.Diagnostics(ctx, params.Path)
	if err != nil {
		return createErrorResponse(err)
	}

	resp := make([]diagnosticResponse, 0, len(diags))
	for _, d := range diags {
		resp = append(resp, diagnosticResponse{
			Severity: d.Severity.String(),
			Code:     d.Code,
			Message:  d.Message,
			Offset:   d.Span.Start,
			Length:   d.Span.Length,
		})
	}
	return createJSONResponse(resp)
}

func (s *Server) handleComplete(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params positionParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return createParamError("complete", err)
	}

	items, err := s.engine.Complete(ctx, params.Path, params.Offset)
	if err != nil {
		return createErrorResponse(err)
	}

	resp := make([]completionResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, completionResponse{
			Label:     item.Label,
			Kind:      item.Kind.String(),
			Class:     item.Class,
			Signature: item.Signature,
			Detail:    item.Detail,
		})
	}
	return createJSONResponse(resp)
}

func (s *Server) handleSignature(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params positionParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return createParamError("signature", err)
	}

	infos, err := s.engine.Signature(ctx, params.Path, params.Offset)
	if err != nil {
		return createErrorResponse(err)
	}

	resp := make([]signatureResponse, 0, len(infos))
	for _, info := range infos {
		resp = append(resp, signatureResponse{
			Label:       info.Label,
			Class:       info.Class,
			Params:      info.Params,
			ActiveParam: info.ActiveParam,
		})
	}
	return createJSONResponse(resp)
}

func (s *Server) handleAggregate(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params pathParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return createParamError("aggregate", err)
	}

	agg, _, err := s.engine.AggregateFor(ctx, params.Path)
	if err != nil {
		return createErrorResponse(err)
	}

	resp := make([]aggregateClassResponse, 0, len(agg.Order))
	for _, name := range agg.Order {
		cls, ok := agg.Lookup(name)
		if !ok {
			continue
		}
		acr := aggregateClassResponse{Name: name}
		for _, overloads := range cls.Methods {
			for _, m := range overloads {
				acr.Methods = append(acr.Methods, m.Signature)
			}
		}
		for _, overloads := range cls.Statics {
			for _, m := range overloads {
				acr.Statics = append(acr.Statics, m.Signature)
			}
		}
		resp = append(resp, acr)
	}
	return createJSONResponse(resp)
}

func (s *Server) handleIndex(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	count, err := s.engine.IndexWorkspace(ctx)
	if err != nil {
		return createErrorResponse(err)
	}
	return createJSONResponse(map[string]interface{}{"files": count})
}

func (s *Server) handleStats(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats := s.engine.Stats()
	stats["version"] = version.Version
	return createJSONResponse(stats)
}
