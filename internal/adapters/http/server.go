package http

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/pixelwall"
	"github.com/aretw0/pixelwall/internal/logging"
	"github.com/aretw0/pixelwall/pkg/domain"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mitchellh/mapstructure"
)

// maxBodyBytes bounds an update request body.
const maxBodyBytes = 64 << 10

//go:embed openapi.yaml
var openapiSpec []byte

//go:embed web
var webFS embed.FS

var indexTemplate = template.Must(template.ParseFS(webFS, "web/index.html.tmpl"))

// Wall defines what the HTTP adapter needs from the Grid Store.
type Wall interface {
	Load(ctx context.Context) domain.Grid
	Update(ctx context.Context, req domain.UpdateRequest) error
	Size() int
	DefaultColor() string
}

// Server serves the pixel wall over HTTP.
type Server struct {
	Wall    Wall
	Logger  *slog.Logger
	Metrics http.Handler
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger used for request and error logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithMetrics mounts a Prometheus handler at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// NewHandler creates a new HTTP handler for the wall.
func NewHandler(wall Wall, opts ...Option) http.Handler {
	server := &Server{
		Wall:   wall,
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(server.logRequests)
	r.Use(enableCORS)

	r.Get("/", server.Index)
	r.Get("/pixels", server.GetPixels)
	r.Post("/update", server.UpdatePixel)
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(openapiSpec)
	})

	static, err := fs.Sub(webFS, "web/static")
	if err != nil {
		panic(err) // embedded at build time
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	if server.Metrics != nil {
		r.Handle("/metrics", server.Metrics)
	}

	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.Logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// Index renders the page that draws the wall.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Size         int
		Columns      int
		DefaultColor string
	}{
		Size:         s.Wall.Size(),
		Columns:      domain.Columns(s.Wall.Size()),
		DefaultColor: s.Wall.DefaultColor(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.Logger.Error("Index render failed", "error", err)
	}
}

// GetPixels handles the GET /pixels request. It always succeeds.
func (s *Server) GetPixels(w http.ResponseWriter, r *http.Request) {
	grid := s.Wall.Load(r.Context())
	s.writeJSON(w, http.StatusOK, grid)
}

// UpdateResponse is the body returned by POST /update.
type UpdateResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// UpdatePixel handles the POST /update request.
func (s *Server) UpdatePixel(w http.ResponseWriter, r *http.Request) {
	req := decodeUpdate(r.Body)

	err := s.Wall.Update(r.Context(), req)
	switch {
	case err == nil:
		s.writeJSON(w, http.StatusOK, UpdateResponse{Success: true})
	case domain.IsValidation(err):
		s.Logger.Debug("UpdatePixel: rejected", "error", err)
		s.writeJSON(w, http.StatusBadRequest, UpdateResponse{Error: err.Error()})
	default:
		s.Logger.Error("UpdatePixel failed", "error", err)
		s.writeJSON(w, http.StatusServiceUnavailable, UpdateResponse{Error: domain.ErrStorageUnavailable.Error()})
	}
}

// decodeUpdate reads an update body leniently. Anything that is not a JSON object
// is treated as an empty object, which then fails validation as missing fields.
func decodeUpdate(body io.Reader) domain.UpdateRequest {
	var raw map[string]any
	dec := json.NewDecoder(io.LimitReader(body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil || raw == nil {
		raw = map[string]any{}
	}

	var req domain.UpdateRequest
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: &req,
		// Field names are case-sensitive: "ID" is not "id".
		MatchName: func(mapKey, fieldName string) bool { return mapKey == fieldName },
	})
	if err != nil {
		return domain.UpdateRequest{}
	}
	if err := dec.Decode(raw); err != nil {
		return domain.UpdateRequest{}
	}
	return req
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if doc, err := loadSpec(); err == nil && doc.Info != nil {
		apiVersion = doc.Info.Version
	} else if err != nil {
		s.Logger.Error("Failed to load OpenAPI spec", "error", err)
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"app":           "pixelwall-http",
		"version":       strings.TrimSpace(pixelwall.Version),
		"api_version":   apiVersion,
		"size":          s.Wall.Size(),
		"default_color": s.Wall.DefaultColor(),
	})
}

var loadSpec = sync.OnceValues(func() (*openapi3.T, error) {
	return openapi3.NewLoader().LoadFromData(openapiSpec)
})

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("Response encode failed", "error", err)
	}
}
