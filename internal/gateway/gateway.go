// Package gateway exposes the tool registry over HTTP and WebSocket.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"

	"github.com/stellarlinkco/opentool/internal/agenterr"
	"github.com/stellarlinkco/opentool/internal/config"
	"github.com/stellarlinkco/opentool/internal/fsutil"
	"github.com/stellarlinkco/opentool/internal/id"
	"github.com/stellarlinkco/opentool/pkg/tool"
	toolbuiltin "github.com/stellarlinkco/opentool/pkg/tool/builtin"
)

// toolInfo is the wire shape of one registry entry.
type toolInfo struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Schema      *tool.JSONSchema `json:"schema"`
}

// executeRequest is the body of POST /v1/execute and of a WebSocket
// "execute" frame.
type executeRequest struct {
	Tool      string         `json:"tool"`
	Params    map[string]any `json:"params"`
	SessionID string         `json:"sessionID,omitempty"`
}

type wsFrame struct {
	Type      string         `json:"type"`
	Tool      string         `json:"tool,omitempty"`
	Params    map[string]any `json:"params,omitempty"`
	SessionID string         `json:"sessionID,omitempty"`
	Result    *tool.Result   `json:"result,omitempty"`
	Error     any            `json:"error,omitempty"`
}

type wsClient struct {
	conn *websocket.Conn
	id   string
}

// Server serves the tool API. Requests share one executor; each
// request gets its own tool context.
type Server struct {
	cfg      *config.Config
	registry *tool.Registry
	executor *tool.Executor
	server   *http.Server
	clients  sync.Map
	nextID   atomic.Int64
}

// New creates a Server over the given registry.
func New(cfg *config.Config, registry *tool.Registry) *Server {
	return &Server{
		cfg:      cfg,
		registry: registry,
		executor: tool.NewExecutor(registry),
	}
}

// Handler builds the HTTP mux. Exposed so tests can drive the server
// through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/tools", s.handleTools)
	mux.HandleFunc("/v1/execute", s.handleExecute)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.cfg.Gateway.Host, s.cfg.Gateway.Port),
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[gateway] listening on %s", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Printf("[gateway] shutting down...")
		return s.Shutdown()
	}
}

// Shutdown stops the HTTP server and closes all WebSocket clients.
func (s *Server) Shutdown() error {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(ctx); err != nil {
			log.Printf("[gateway] shutdown error: %v", err)
		}
	}
	s.clients.Range(func(key, value any) bool {
		c := value.(*wsClient)
		c.conn.CloseNow()
		return true
	})
	log.Printf("[gateway] stopped")
	return nil
}

func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	infos := make([]toolInfo, 0, s.registry.Len())
	for _, t := range s.registry.All() {
		infos = append(infos, toolInfo{
			Name:        t.Name(),
			Description: t.Description(),
			Schema:      t.Schema(),
		})
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, agenterr.InvalidArguments(req.Tool, fmt.Sprintf("invalid request body: %v", err)))
		return
	}

	result, err := s.execute(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) execute(ctx context.Context, req executeRequest) (*tool.Result, error) {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = id.Ascending(id.Session, "")
	}
	tc := tool.NewContext(sessionID, id.Ascending(id.Message, ""), s.cfg.Agent.Workspace)
	if s.cfg.Tools.BashTimeoutMS > 0 {
		tc.Extra = map[string]any{toolbuiltin.TimeoutExtraKey: s.cfg.Tools.BashTimeoutMS}
	}

	if err := s.checkWorkspace(tc, req.Params); err != nil {
		return nil, err
	}

	cr, err := s.executor.Execute(ctx, tool.Call{
		Name:    req.Tool,
		Params:  req.Params,
		Context: tc,
	})
	if err != nil {
		return nil, err
	}
	return cr.Result, nil
}

// checkWorkspace rejects calls whose path parameters resolve outside
// the configured workspace when restriction is enabled.
func (s *Server) checkWorkspace(tc *tool.Context, params map[string]any) error {
	if !s.cfg.Tools.RestrictToWorkspace {
		return nil
	}
	for _, key := range []string{"filePath", "path"} {
		raw, ok := params[key].(string)
		if !ok || raw == "" {
			continue
		}
		resolved := tc.Resolve(raw)
		if !fsutil.Contains(s.cfg.Agent.Workspace, resolved) {
			return agenterr.ToolExecution("", fmt.Sprintf("path is outside the workspace: %s", raw))
		}
	}
	return nil
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		log.Printf("[gateway] websocket accept error: %v", err)
		return
	}

	clientID := fmt.Sprintf("ws-%d", s.nextID.Add(1))
	client := &wsClient{conn: conn, id: clientID}
	s.clients.Store(clientID, client)
	log.Printf("[gateway] client connected: %s", clientID)

	defer func() {
		s.clients.Delete(clientID)
		conn.CloseNow()
		log.Printf("[gateway] client disconnected: %s", clientID)
	}()

	for {
		_, data, err := conn.Read(r.Context())
		if err != nil {
			return
		}

		var frame wsFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			continue
		}
		if frame.Type != "execute" || frame.Tool == "" {
			continue
		}

		result, execErr := s.execute(r.Context(), executeRequest{
			Tool:      frame.Tool,
			Params:    frame.Params,
			SessionID: frame.SessionID,
		})

		reply := wsFrame{Type: "result", Tool: frame.Tool, Result: result}
		if execErr != nil {
			reply = wsFrame{Type: "error", Tool: frame.Tool, Error: agenterr.Wrap(execErr)}
		}
		if err := s.writeWS(conn, reply); err != nil {
			log.Printf("[gateway] write to %s error: %v", clientID, err)
			return
		}
	}
}

func (s *Server) writeWS(conn *websocket.Conn, frame wsFrame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[gateway] encode response error: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	werr := agenterr.Wrap(err)
	status := http.StatusInternalServerError
	switch werr.Kind() {
	case agenterr.KindInvalidArguments:
		status = http.StatusBadRequest
	case agenterr.KindFileNotFound:
		status = http.StatusNotFound
	}
	writeJSON(w, status, werr)
}
