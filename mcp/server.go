// Package mcp serves document composition to AI assistants over the Model
// Context Protocol: newline-delimited JSON-RPC 2.0 on stdio, protocol
// revision 2024-11-05, with tools and read-only resources.
//
// Register the server with an MCP client by its command name:
//
//	{
//	  "mcpServers": {
//	    "pdfcompose": {
//	      "command": "pdfcompose-mcp"
//	    }
//	  }
//	}
package mcp

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Version is reported in the initialize handshake.
const Version = "1.0.0"

// maxMessage bounds one request line; compose jobs carry base64 images.
const maxMessage = 16 << 20

// Tool is a callable operation offered to the client.
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
	Handler     ToolHandler            `json:"-"`
}

// ToolHandler runs a tool. An error is reported to the client as a tool
// result with IsError set, not as a protocol error.
type ToolHandler func(args map[string]interface{}) (ToolResult, error)

// ToolResult is what a tool returns.
type ToolResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// ContentBlock is one piece of a tool result.
type ContentBlock struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	MIMEType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

func errorResult(format string, args ...interface{}) ToolResult {
	return ToolResult{
		Content: []ContentBlock{{Type: "text", Text: "Error: " + fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

// Resource is a read-only document the client can fetch by URI.
type Resource struct {
	URI         string          `json:"uri"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	MIMEType    string          `json:"mimeType,omitempty"`
	Handler     ResourceHandler `json:"-"`
}

// ResourceHandler reads a resource.
type ResourceHandler func(uri string) ([]ResourceContent, error)

// ResourceContent is the body of a read resource.
type ResourceContent struct {
	URI      string `json:"uri"`
	MIMEType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
	Blob     string `json:"blob,omitempty"`
}

type methodFunc func(s *Server, req jsonrpcRequest) (interface{}, *jsonrpcError)

var methods = map[string]methodFunc{
	"initialize":                (*Server).initialize,
	"ping":                      (*Server).ping,
	"tools/list":                (*Server).listTools,
	"tools/call":                (*Server).callTool,
	"resources/list":            (*Server).listResources,
	"resources/read":            (*Server).readResource,
	"initialized":               nil,
	"notifications/initialized": nil,
}

// Server answers MCP requests read from input, one JSON object per line.
// Tools and resources must be added before Run.
type Server struct {
	tools     map[string]Tool
	resources map[string]Resource
	input     io.Reader
	output    io.Writer
	log       *zap.Logger

	mu sync.Mutex // serializes writes to output
}

// NewServer returns a server on stdin and stdout.
func NewServer() *Server {
	return NewServerWithIO(os.Stdin, os.Stdout)
}

// NewServerWithIO returns a server reading requests from in and writing
// responses to out.
func NewServerWithIO(in io.Reader, out io.Writer) *Server {
	return &Server{
		tools:     make(map[string]Tool),
		resources: make(map[string]Resource),
		input:     in,
		output:    out,
		log:       zap.NewNop(),
	}
}

// SetLogger sets the logger for protocol and tool errors.
func (s *Server) SetLogger(log *zap.Logger) {
	if log != nil {
		s.log = log
	}
}

// AddTool registers t, replacing any tool of the same name.
func (s *Server) AddTool(t Tool) {
	s.tools[t.Name] = t
}

// AddResource registers r, replacing any resource with the same URI.
func (s *Server) AddResource(r Resource) {
	s.resources[r.URI] = r
}

// Run answers requests until input is exhausted.
func (s *Server) Run() error {
	scanner := bufio.NewScanner(s.input)
	scanner.Buffer(make([]byte, 0, 64<<10), maxMessage)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var req jsonrpcRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.Warn("malformed request", zap.Error(err))
			s.reply(nil, nil, &jsonrpcError{Code: codeParseError, Message: "Parse error", Data: err.Error()})
			continue
		}
		s.dispatch(req)
	}
	return scanner.Err()
}

func (s *Server) dispatch(req jsonrpcRequest) {
	fn, known := methods[req.Method]
	switch {
	case !known:
		if req.notification() {
			s.log.Debug("ignoring notification", zap.String("method", req.Method))
			return
		}
		s.reply(req.ID, nil, &jsonrpcError{Code: codeMethodNotFound, Message: "Method not found", Data: req.Method})
		return
	case fn == nil:
		return
	}

	result, rpcErr := fn(s, req)
	if req.notification() {
		return
	}
	s.reply(req.ID, result, rpcErr)
}

func (s *Server) initialize(jsonrpcRequest) (interface{}, *jsonrpcError) {
	return initializeResult{
		ProtocolVersion: protocolVersion,
		ServerInfo:      serverInfo{Name: serverName, Version: Version},
	}, nil
}

func (s *Server) ping(jsonrpcRequest) (interface{}, *jsonrpcError) {
	return struct{}{}, nil
}

func (s *Server) listTools(jsonrpcRequest) (interface{}, *jsonrpcError) {
	out := toolsListResult{Tools: make([]Tool, 0, len(s.tools))}
	for _, t := range s.tools {
		out.Tools = append(out.Tools, t)
	}
	sort.Slice(out.Tools, func(i, j int) bool { return out.Tools[i].Name < out.Tools[j].Name })
	return out, nil
}

func (s *Server) callTool(req jsonrpcRequest) (interface{}, *jsonrpcError) {
	var params toolsCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return nil, &jsonrpcError{Code: codeInvalidParams, Message: "Invalid params", Data: err.Error()}
	}
	tool, ok := s.tools[params.Name]
	if !ok {
		return nil, &jsonrpcError{Code: codeInvalidParams, Message: "Unknown tool", Data: params.Name}
	}
	return s.runTool(tool, params.Arguments), nil
}

// runTool calls the tool handler. A failing or panicking handler becomes an
// error result so one bad document never stops the server.
func (s *Server) runTool(tool Tool, args map[string]interface{}) (result ToolResult) {
	log := s.log.With(zap.String("tool", tool.Name))
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			log.Error("tool panicked", zap.Any("panic", p), zap.Stack("stack"))
			result = errorResult("internal error in %s", tool.Name)
		}
	}()

	result, err := tool.Handler(args)
	if err != nil {
		log.Info("tool failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return errorResult("%v", err)
	}
	log.Debug("tool done", zap.Duration("elapsed", time.Since(start)))
	return result
}

func (s *Server) listResources(jsonrpcRequest) (interface{}, *jsonrpcError) {
	out := resourcesListResult{Resources: make([]Resource, 0, len(s.resources))}
	for _, r := range s.resources {
		out.Resources = append(out.Resources, r)
	}
	sort.Slice(out.Resources, func(i, j int) bool { return out.Resources[i].URI < out.Resources[j].URI })
	return out, nil
}

func (s *Server) readResource(req jsonrpcRequest) (interface{}, *jsonrpcError) {
	var params resourcesReadParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return nil, &jsonrpcError{Code: codeInvalidParams, Message: "Invalid params", Data: err.Error()}
	}
	r, ok := s.resources[params.URI]
	if !ok {
		return nil, &jsonrpcError{Code: codeInvalidParams, Message: "Unknown resource", Data: params.URI}
	}
	contents, err := r.Handler(params.URI)
	if err != nil {
		s.log.Warn("reading resource", zap.String("uri", params.URI), zap.Error(err))
		return nil, &jsonrpcError{Code: codeInternalError, Message: "Resource error", Data: err.Error()}
	}
	return resourcesReadResult{Contents: contents}, nil
}

func (s *Server) reply(id *json.RawMessage, result interface{}, rpcErr *jsonrpcError) {
	resp := jsonrpcResponse{JSONRPC: "2.0", ID: id, Error: rpcErr}
	if rpcErr == nil {
		resp.Result = result
	}
	data, err := json.Marshal(resp)
	if err != nil {
		s.log.Error("encoding response", zap.Error(err))
		return
	}
	data = append(data, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.output.Write(data); err != nil {
		s.log.Error("writing response", zap.Error(err))
	}
}
