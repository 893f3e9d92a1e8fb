// Package server exposes the agent and tool registry over HTTP and JSON-RPC.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/pilotedu/studypilot/agent"
	"github.com/pilotedu/studypilot/framework"
)

const version = "2.0.0"

// APIServer serves the chat, tools, and health endpoints.
type APIServer struct {
	Orchestrator *agent.Orchestrator
	Registry     *framework.Registry
	Provider     string
	Model        string
	Logger       *log.Logger
	Clock        framework.Clock
}

// ChatRequest is the POST /api/chat payload.
type ChatRequest struct {
	Message             string          `json:"message"`
	ConversationHistory []agent.Message `json:"conversationHistory"`
}

// ChatMetadata accompanies every chat response.
type ChatMetadata struct {
	Intent    string   `json:"intent,omitempty"`
	Model     string   `json:"model,omitempty"`
	ToolsUsed []string `json:"toolsUsed"`
	Timestamp string   `json:"timestamp"`
	Fallback  bool     `json:"fallback"`
	Error     string   `json:"error,omitempty"`
}

// ChatResponse is the POST /api/chat reply body.
type ChatResponse struct {
	Response       string         `json:"response"`
	VisualElements any            `json:"visualElements"`
	Actions        []agent.Action `json:"actions"`
	Metadata       ChatMetadata   `json:"metadata"`
	Error          string         `json:"error,omitempty"`
}

// ToolRequest is the POST /api/tools payload.
type ToolRequest struct {
	ToolName   string         `json:"toolName"`
	Parameters map[string]any `json:"parameters"`
}

// Serve starts listening on the provided address.
func (s *APIServer) Serve(addr string) error {
	return s.ServeContext(context.Background(), addr)
}

// ServeContext allows the caller to control shutdown via context cancellation.
func (s *APIServer) ServeContext(ctx context.Context, addr string) error {
	server := s.newHTTPServer(addr)
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	if s.Logger != nil {
		s.Logger.Printf("API listening on %s", addr)
	}
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *APIServer) newHTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
}

// Handler returns the HTTP mux, exposed separately so tests can drive it with
// httptest.
func (s *APIServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/api/tools", s.handleTools)
	mux.HandleFunc("/api/health", s.handleHealth)
	return mux
}

func (s *APIServer) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s *APIServer) handleChat(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleChatStatus(w)
	case http.MethodPost:
		s.handleChatMessage(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *APIServer) handleChatMessage(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeJSONStatus(w, http.StatusBadRequest, map[string]string{"error": "Message is required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Minute)
	defer cancel()

	reply := s.Orchestrator.ProcessMessage(ctx, req.Message, req.ConversationHistory)

	actions := reply.Actions
	if actions == nil {
		actions = []agent.Action{}
	}
	toolsUsed := reply.ToolsUsed
	if toolsUsed == nil {
		toolsUsed = []string{}
	}

	writeJSON(w, ChatResponse{
		Response:       reply.Response,
		VisualElements: reply.VisualElements,
		Actions:        actions,
		Metadata: ChatMetadata{
			Intent:    reply.Intent,
			Model:     reply.Model,
			ToolsUsed: toolsUsed,
			Timestamp: s.now().UTC().Format(time.RFC3339),
			Fallback:  reply.Fallback,
		},
	})
}

func (s *APIServer) handleChatStatus(w http.ResponseWriter) {
	writeJSON(w, map[string]any{
		"status":  "healthy",
		"agent":   "StudyPilot AI",
		"version": version,
		"llm": map[string]any{
			"provider":  s.Provider,
			"model":     s.Model,
			"connected": s.Provider != "fallback",
		},
		"capabilities": []string{
			"course_management",
			"deadline_tracking",
			"study_planning",
			"grade_analysis",
			"wellness_monitoring",
			"natural_language_understanding",
		},
	})
}

func (s *APIServer) handleTools(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleToolList(w)
	case http.MethodPost:
		s.handleToolExecute(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *APIServer) handleToolExecute(w http.ResponseWriter, r *http.Request) {
	var req ToolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ToolName == "" {
		writeJSONStatus(w, http.StatusBadRequest, map[string]string{"error": "Tool name is required"})
		return
	}
	if req.Parameters == nil {
		req.Parameters = map[string]any{}
	}

	execution := s.Registry.Execute(r.Context(), req.ToolName, req.Parameters)
	writeJSON(w, map[string]any{
		"success":    execution.Success,
		"toolName":   execution.ToolName,
		"result":     execution.Result,
		"error":      execution.Error,
		"executedAt": execution.ExecutedAt,
		"timestamp":  s.now().UTC().Format(time.RFC3339),
	})
}

func (s *APIServer) handleToolList(w http.ResponseWriter) {
	names := s.Registry.List()
	definitions := s.Registry.Definitions()

	categories := make(map[string][]string)
	for _, category := range []string{"lms", "calendar", "grades", "study", "wellness"} {
		var members []string
		for _, tool := range s.Registry.ByCategory(category) {
			members = append(members, tool.Name())
		}
		categories[category] = members
	}

	writeJSON(w, map[string]any{
		"count":       len(names),
		"tools":       names,
		"definitions": definitions,
		"categories":  categories,
		"timestamp":   s.now().UTC().Format(time.RFC3339),
	})
}

func (s *APIServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":    "healthy",
		"timestamp": s.now().UTC().Format(time.RFC3339),
		"version":   version,
		"ai": map[string]any{
			"provider":  s.Provider,
			"connected": s.Provider != "fallback",
			"model":     s.Model,
			"capabilities": []string{
				"intent_detection",
				"tool_calling",
				"context_awareness",
				"multi_turn_conversation",
			},
		},
		"features": map[string]bool{
			"courseManagement":   true,
			"deadlineTracking":   true,
			"studyPlanning":      true,
			"gradeAnalysis":      true,
			"wellnessMonitoring": true,
		},
	})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSONStatus(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
