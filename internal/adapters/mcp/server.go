package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/setlist"
	"github.com/aretw0/setlist/pkg/decode"
	"github.com/aretw0/setlist/pkg/forms"
	"github.com/aretw0/setlist/pkg/observability"
	"github.com/aretw0/setlist/pkg/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// FormSummary is one entry of the list_forms result.
type FormSummary struct {
	Name        string             `json:"name" jsonschema_description:"Form name to pass to decode_form"`
	Description string             `json:"description"`
	Schema      schema.Description `json:"schema" jsonschema_description:"Fields, constraints and message keys"`
}

// ListFormsResponse is the list_forms result.
type ListFormsResponse struct {
	Forms []FormSummary `json:"forms"`
}

// DecodeFormArgs are the decode_form arguments.
type DecodeFormArgs struct {
	Form    string `json:"form"`
	Payload string `json:"payload"`
}

// DecodeFormResponse is the decode_form result.
type DecodeFormResponse struct {
	OK         bool               `json:"ok" jsonschema_description:"True when the payload was accepted"`
	Value      any                `json:"value,omitempty" jsonschema_description:"The decoded value"`
	Violations []decode.Violation `json:"violations,omitempty" jsonschema_description:"Why the payload was rejected"`
}

// Server exposes the form registry as MCP tools.
type Server struct {
	metrics   *observability.Metrics
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance. metrics may be nil.
func NewServer(metrics *observability.Metrics) *Server {
	s := &Server{
		metrics:   metrics,
		mcpServer: server.NewMCPServer("setlist-mcp", strings.TrimSpace(setlist.Version)),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP server over SSE until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	listTool := mcp.NewTool("list_forms",
		mcp.WithDescription("List the forms this server can validate, with their fields and message keys."),
		mcp.WithOutputSchema[ListFormsResponse](),
	)
	s.mcpServer.AddTool(listTool, mcp.NewStructuredToolHandler(s.handleListForms))

	decodeTool := mcp.NewTool("decode_form",
		mcp.WithDescription("Validate a JSON payload against a form and return the decoded value or the violations."),
		mcp.WithString("form", mcp.Required(), mcp.Description("Form name, see list_forms")),
		mcp.WithString("payload", mcp.Required(), mcp.Description("JSON document to validate")),
		mcp.WithOutputSchema[DecodeFormResponse](),
	)
	s.mcpServer.AddTool(decodeTool, mcp.NewStructuredToolHandler(s.handleDecodeForm))
}

func (s *Server) handleListForms(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ListFormsResponse, error) {
	all := forms.All()
	resp := ListFormsResponse{Forms: make([]FormSummary, 0, len(all))}
	for _, f := range all {
		resp.Forms = append(resp.Forms, FormSummary{
			Name:        f.Name,
			Description: f.Description,
			Schema:      schema.Describe(f.Schema),
		})
	}
	return resp, nil
}

func (s *Server) handleDecodeForm(ctx context.Context, request mcp.CallToolRequest, args DecodeFormArgs) (DecodeFormResponse, error) {
	f, ok := forms.Lookup(args.Form)
	if !ok {
		return DecodeFormResponse{}, fmt.Errorf("unknown form %q", args.Form)
	}

	raw, err := decode.ParseJSON([]byte(args.Payload))
	if err == nil {
		var value any
		value, err = f.Decode(raw)
		if err == nil {
			s.metrics.Observe(f.Name, nil)
			return DecodeFormResponse{OK: true, Value: value}, nil
		}
	}
	s.metrics.Observe(f.Name, err)

	de, ok := decode.AsError(err)
	if !ok {
		return DecodeFormResponse{}, errors.Join(errors.New("decode failed"), err)
	}
	slog.Debug("MCP decode_form: rejected", "form", f.Name, "error", err)
	return DecodeFormResponse{Violations: de.Violations}, nil
}
