package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/backoffice/internal/dashboard"
	"github.com/rpggio/backoffice/internal/session"
)

// DashboardSource yields the live dashboard. *dashboard.Host implements it.
type DashboardSource interface {
	Dashboard() (*dashboard.Dashboard, error)
}

// Config wires the HTTP surface.
type Config struct {
	MCP    *sdkmcp.Server
	Source DashboardSource
	// Verifier enables bearer auth on /mcp and /live when set.
	Verifier       TokenVerifier
	Metrics        http.Handler
	SessionTimeout time.Duration
	Logger         *slog.Logger
}

// NewHandler returns the router serving /mcp, /live, /health and /metrics.
func NewHandler(cfg Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	protect := func(h http.Handler) http.Handler {
		h = SessionMiddleware(requestLogger(logger, h))
		if cfg.Verifier == nil {
			return h
		}
		return AuthMiddleware(cfg.Verifier)(h)
	}

	mux := http.NewServeMux()

	if cfg.MCP != nil {
		mcpHandler := protect(sdkmcp.NewStreamableHTTPHandler(
			func(*http.Request) *sdkmcp.Server { return cfg.MCP },
			&sdkmcp.StreamableHTTPOptions{SessionTimeout: cfg.SessionTimeout},
		))
		mux.Handle("/mcp", mcpHandler)
		mux.Handle("/mcp/", mcpHandler)
	}
	if cfg.Source != nil {
		mux.Handle("GET /live", protect(newLiveHandler(cfg.Source, logger)))
	}
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, healthOf(cfg.Source))
	})

	return mux
}

type health struct {
	Status   string `json:"status"`
	Identity string `json:"identity"`
	UserID   string `json:"user_id,omitempty"`
}

func healthOf(source DashboardSource) health {
	h := health{Status: "ok", Identity: "ready"}
	if source == nil {
		h.Identity = "none"
		return h
	}
	d, err := source.Dashboard()
	switch {
	case err == nil:
		h.UserID = d.Session().UserID()
	case errors.Is(err, session.ErrNotReady):
		h.Identity = "not ready"
	case errors.Is(err, session.ErrDemoMode):
		h.Identity = "demo mode"
	default:
		h.Identity = "unavailable"
	}
	return h
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
