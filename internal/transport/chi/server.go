package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/agentcommerce/internal/domain"
	"github.com/kailas-cloud/agentcommerce/internal/domain/search/query"
	"github.com/kailas-cloud/agentcommerce/internal/domain/search/result"
	"github.com/kailas-cloud/agentcommerce/internal/logger"
	"github.com/kailas-cloud/agentcommerce/internal/metrics"
	"github.com/kailas-cloud/agentcommerce/internal/ui"
	healthuc "github.com/kailas-cloud/agentcommerce/internal/usecase/health"
	orderuc "github.com/kailas-cloud/agentcommerce/internal/usecase/order"
	restaurantuc "github.com/kailas-cloud/agentcommerce/internal/usecase/restaurant"
	"github.com/kailas-cloud/agentcommerce/internal/version"
)

// protocolVersion is answered when the client does not propose one.
const protocolVersion = "2025-06-18"

// Instructions tell the calling assistant how to treat UI output.
const Instructions = "Return MCP UI as the primary output. Do not summarize UI, do not propose filters or next steps, " +
	"and do not restate what is visible. After returning UI, WAIT for UI-dispatched tool messages (type=tool) " +
	"and respond with updated UI only. Emit plain text ONLY for errors or when no UI can be rendered."

// errorHandler tries to turn a tool error into a user-facing result. Returns true if handled.
type errorHandler func(err error) (toolResult, bool)

// searchService finds nearby entities for a query.
type searchService interface {
	Search(ctx context.Context, q *query.Query) (result.Result, error)
}

// Server exposes the search, lookup and ordering services over HTTP.
type Server struct {
	search        searchService
	restaurants   *restaurantuc.Service
	orders        *orderuc.Service
	health        *healthuc.Service
	ui            *ui.Renderer
	logger        *zap.Logger
	defaultLimit  int
	tools         []tool
	toolsByName   map[string]tool
	errorHandlers []errorHandler
}

// NewServer creates the HTTP server.
func NewServer(
	search searchService,
	restaurants *restaurantuc.Service,
	orders *orderuc.Service,
	health *healthuc.Service,
	renderer *ui.Renderer,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:       search,
		restaurants:  restaurants,
		orders:       orders,
		health:       health,
		ui:           renderer,
		logger:       logger,
		defaultLimit: query.DefaultLimit,
	}
	s.tools = s.buildTools()
	s.toolsByName = make(map[string]tool, len(s.tools))
	for _, t := range s.tools {
		s.toolsByName[t.Name] = t
	}
	s.errorHandlers = []errorHandler{
		searchErrorHandler,
		sentinelHandler(domain.ErrNotFound, func(error) string {
			return "Restaurant not found. Search again and pick a result from the list."
		}),
		sentinelHandler(domain.ErrInvalidOrder, func(err error) string {
			return "Could not build the order: " + err.Error()
		}),
	}
	return s
}

// WithDefaultLimit sets the result count used when find_restaurants omits limit.
func (s *Server) WithDefaultLimit(n int) *Server {
	if n > 0 {
		s.defaultLimit = min(n, query.MaxLimit)
	}
	return s
}

// Routes mounts every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Post("/mcp", s.HandleRPC)
	r.Get("/mcp", s.rpcMethodNotAllowed("Method not allowed."))
	r.Delete("/mcp", s.rpcMethodNotAllowed("DELETE not supported. Use POST for all requests."))
	r.Get("/authorize", s.Authorize)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Get("/", s.DevIndex)
	r.Route("/dev", func(r chi.Router) {
		r.Get("/", s.DevIndex)
		r.Get("/restaurants", s.DevRestaurants)
		r.Get("/restaurant/{id}", s.DevRestaurant)
		r.Get("/menu/{id}", s.DevMenu)
		r.Get("/order/{id}", s.DevOrder)
		r.Get("/receipt/{id}", s.DevReceipt)
	})
}

// HandleRPC handles POST /mcp: one JSON-RPC 2.0 request per body.
func (s *Server) HandleRPC(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeRPCError(w, http.StatusBadRequest, nil, newRPCError(codeParseError, "Parse error"))
		return
	}

	var req rpcRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeRPCError(w, http.StatusBadRequest, nil, newRPCError(codeParseError, "Parse error"))
		return
	}
	if req.JSONRPC != jsonRPCVersion || req.Method == "" {
		writeRPCError(w, http.StatusBadRequest, req.ID, newRPCError(codeInvalidRequest, "Invalid Request"))
		return
	}

	if req.isNotification() {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	switch req.Method {
	case "initialize":
		writeRPCResult(w, req.ID, s.initialize(req.Params))
	case "ping":
		writeRPCResult(w, req.ID, struct{}{})
	case "tools/list":
		writeRPCResult(w, req.ID, map[string]any{"tools": s.tools})
	case "tools/call":
		s.callTool(w, r, &req)
	default:
		writeRPCError(w, http.StatusOK, req.ID, newRPCError(codeMethodNotFound, "Method not found: "+req.Method))
	}
}

func (s *Server) initialize(params json.RawMessage) map[string]any {
	var p struct {
		ProtocolVersion string `json:"protocolVersion"`
	}
	_ = json.Unmarshal(params, &p)
	if p.ProtocolVersion == "" {
		p.ProtocolVersion = protocolVersion
	}
	return map[string]any{
		"protocolVersion": p.ProtocolVersion,
		"capabilities":    map[string]any{"tools": map[string]any{"listChanged": false}},
		"serverInfo":      map[string]any{"name": version.ServerName, "version": version.Version},
		"instructions":    Instructions,
	}
}

func (s *Server) callTool(w http.ResponseWriter, r *http.Request, req *rpcRequest) {
	var p struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(req.Params, &p); err != nil || p.Name == "" {
		writeRPCError(w, http.StatusOK, req.ID, newRPCError(codeInvalidParams, "Invalid params: tool name is required"))
		return
	}

	t, ok := s.toolsByName[p.Name]
	if !ok {
		metrics.ToolCallsTotal.WithLabelValues("unknown", "error").Inc()
		writeRPCError(w, http.StatusOK, req.ID, newRPCError(codeInvalidParams, "Tool "+p.Name+" not found"))
		return
	}

	ctx, log := logger.With(r.Context(), zap.String("tool", t.Name))
	res, err := t.call(ctx, p.Arguments)
	if err == nil {
		metrics.ToolCallsTotal.WithLabelValues(t.Name, "ok").Inc()
		writeRPCResult(w, req.ID, res)
		return
	}
	metrics.ToolCallsTotal.WithLabelValues(t.Name, "error").Inc()

	if errors.Is(err, errInvalidParams) {
		log.Debug("invalid tool arguments", zap.Error(err))
		writeRPCError(w, http.StatusOK, req.ID, newRPCError(codeInvalidParams, err.Error()))
		return
	}
	for _, h := range s.errorHandlers {
		if res, ok := h(err); ok {
			log.Warn("tool error", zap.Error(err))
			writeRPCResult(w, req.ID, res)
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeRPCError(w, http.StatusInternalServerError, req.ID, newRPCError(codeInternalError, "Internal server error"))
}

func (s *Server) rpcMethodNotAllowed(msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeRPCError(w, http.StatusMethodNotAllowed, nil, newRPCError(codeServerError, msg))
	}
}

// Authorize handles GET /authorize. It fakes a successful OAuth consent by
// redirecting back with a mock code and the caller's state.
func (s *Server) Authorize(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("redirect_uri")
	if raw == "" {
		http.Error(w, "Missing redirect_uri", http.StatusBadRequest)
		return
	}
	target, err := url.Parse(raw)
	if err != nil || target.Scheme == "" || target.Host == "" {
		http.Error(w, "Invalid redirect_uri", http.StatusBadRequest)
		return
	}

	q := target.Query()
	q.Set("code", mockAuthCode())
	if state := r.URL.Query().Get("state"); state != "" {
		q.Set("state", state)
	}
	target.RawQuery = q.Encode()
	http.Redirect(w, r, target.String(), http.StatusFound)
}

func mockAuthCode() string {
	return "mock_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())
	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}
