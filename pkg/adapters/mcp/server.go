// Package mcp exposes the trip planner as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/ecovoyage"
	"github.com/aretw0/ecovoyage/internal/flow"
	"github.com/aretw0/ecovoyage/internal/logging"
	"github.com/aretw0/ecovoyage/pkg/catalog"
	"github.com/aretw0/ecovoyage/pkg/domain"
	"github.com/aretw0/ecovoyage/pkg/input"
	"github.com/aretw0/ecovoyage/pkg/view"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// CatalogURI is the resource URI of the price catalog.
const CatalogURI = "ecovoyage://catalog"

// QuoteResponse is the structured result of estimate_trip.
type QuoteResponse struct {
	Breakdown domain.Breakdown `json:"breakdown" jsonschema_description:"Itemized costs in rupees"`
	Total     string           `json:"total" jsonschema_description:"Formatted grand total"`
}

// SessionResponse is the structured result of the session tools.
type SessionResponse struct {
	Trip    *domain.Trip `json:"trip" jsonschema_description:"The session's trip state"`
	Page    view.Page    `json:"page" jsonschema_description:"What the active screen displays"`
	Actions []flow.Event `json:"actions" jsonschema_description:"Actions accepted on the active screen"`
}

// Planner is the subset of *ecovoyage.Planner the MCP tools drive.
type Planner interface {
	Catalog() *catalog.Catalog
	Formatter() view.Formatter
	Quote(ctx context.Context, sel domain.Selections) (domain.Breakdown, error)
	Start(ctx context.Context, sessionID string) (*domain.Trip, error)
	SubmitPlan(ctx context.Context, sessionID string, sel domain.Selections) (*domain.Trip, error)
	SubmitContact(ctx context.Context, sessionID string, contact domain.Contact) (*domain.Trip, error)
	Restart(ctx context.Context, sessionID string) (*domain.Trip, error)
	Page(trip *domain.Trip) (view.Page, error)
}

var _ Planner = (*ecovoyage.Planner)(nil)

// Server wraps the planner and exposes it as an MCP Server.
type Server struct {
	planner   Planner
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(planner Planner, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		planner:   planner,
		mcpServer: server.NewMCPServer("ecovoyage-mcp", strings.TrimSpace(ecovoyage.Version)),
		logger:    logger,
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{Addr: addr, Handler: mux}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
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

func selectionOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("city", mcp.Description("Destination city name, e.g. Paris")),
		mcp.WithString("attractions", mcp.Description("Comma-separated attraction indexes within the city, e.g. \"0,2\"")),
		mcp.WithNumber("cuisine", mcp.Description("Cuisine index (default 0)")),
		mcp.WithNumber("hotel", mcp.Description("Hotel index (default 0)")),
		mcp.WithNumber("travel_class", mcp.Description("Travel class index (default 0)")),
		mcp.WithNumber("rooms", mcp.Description("Rooms (default 1)")),
		mcp.WithNumber("travelers", mcp.Description("Travelers (default 1)")),
		mcp.WithNumber("days", mcp.Description("Days (default 1)")),
	}
}

func (s *Server) registerTools() {
	estimate := append([]mcp.ToolOption{
		mcp.WithDescription("Estimate the cost of a trip without opening a session."),
	}, selectionOptions()...)
	estimate = append(estimate, mcp.WithOutputSchema[QuoteResponse]())
	s.mcpServer.AddTool(mcp.NewTool("estimate_trip", estimate...), mcp.NewStructuredToolHandler(s.handleEstimate))

	s.mcpServer.AddTool(mcp.NewTool("list_catalog",
		mcp.WithDescription("List cities, attractions, cuisines, hotels and travel classes with their prices."),
	), s.handleListCatalog)

	s.mcpServer.AddTool(mcp.NewTool("start_session",
		mcp.WithDescription("Open (or resume) a planning session on the planner screen."),
		mcp.WithString("session_id", mcp.Description("Session ID to resume; a new one is generated when empty")),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleStart))

	plan := append([]mcp.ToolOption{
		mcp.WithDescription("Submit the planner form and move to the login screen."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
	}, selectionOptions()...)
	plan = append(plan, mcp.WithOutputSchema[SessionResponse]())
	s.mcpServer.AddTool(mcp.NewTool("submit_plan", plan...), mcp.NewStructuredToolHandler(s.handleSubmitPlan))

	s.mcpServer.AddTool(mcp.NewTool("submit_contact",
		mcp.WithDescription("Submit contact details and confirm the trip."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Traveller name")),
		mcp.WithString("phone", mcp.Required(), mcp.Description("Phone number")),
		mcp.WithString("email", mcp.Required(), mcp.Description("Email address")),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleSubmitContact))

	s.mcpServer.AddTool(mcp.NewTool("restart",
		mcp.WithDescription("Discard the confirmed trip and return to an empty planner."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleRestart))
}

func (s *Server) handleEstimate(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (QuoteResponse, error) {
	sel, err := input.DecodeSelections(args, s.planner.Catalog())
	if err != nil {
		return QuoteResponse{}, err
	}
	b, err := s.planner.Quote(ctx, sel)
	if err != nil {
		return QuoteResponse{}, userError(err)
	}
	return QuoteResponse{Breakdown: b, Total: s.planner.Formatter().Format(b.GrandTotal)}, nil
}

func (s *Server) handleListCatalog(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(s.planner.Catalog())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode catalog: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleStart(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (SessionResponse, error) {
	id, _ := args["session_id"].(string)
	trip, err := s.planner.Start(ctx, id)
	return s.session(trip, err)
}

func (s *Server) handleSubmitPlan(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (SessionResponse, error) {
	id, _ := args["session_id"].(string)
	sel, err := input.DecodeSelections(args, s.planner.Catalog())
	if err != nil {
		return SessionResponse{}, err
	}
	trip, err := s.planner.SubmitPlan(ctx, id, sel)
	return s.session(trip, err)
}

func (s *Server) handleSubmitContact(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (SessionResponse, error) {
	id, _ := args["session_id"].(string)
	contact, err := input.DecodeContact(args)
	if err != nil {
		s.logger.Warn("MCP submit_contact: input rejected", "err", err)
		return SessionResponse{}, fmt.Errorf("input rejected: %w", err)
	}
	trip, err := s.planner.SubmitContact(ctx, id, contact)
	return s.session(trip, err)
}

func (s *Server) handleRestart(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (SessionResponse, error) {
	id, _ := args["session_id"].(string)
	trip, err := s.planner.Restart(ctx, id)
	return s.session(trip, err)
}

func (s *Server) session(trip *domain.Trip, err error) (SessionResponse, error) {
	if err != nil {
		return SessionResponse{}, userError(err)
	}
	page, err := s.planner.Page(trip)
	if err != nil {
		return SessionResponse{}, err
	}
	return SessionResponse{Trip: trip, Page: page, Actions: flow.Allowed(trip.Screen)}, nil
}

// userError prefixes the kind so agents can branch on it and keeps the
// message a person would see.
func userError(err error) error {
	return fmt.Errorf("%s: %s: %w", domain.ErrorKind(err), domain.UserMessage(err), err)
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(CatalogURI, "Trip Price Catalog",
		mcp.WithMIMEType("application/json"),
	), s.readCatalog)
}

func (s *Server) readCatalog(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(s.planner.Catalog())
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      CatalogURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
