package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/sagarc03/stratum"
)

// Service is the configuration the handler exposes. *stratum.Handle implements it.
type Service interface {
	Current() *stratum.Resolved
	Reload(ctx context.Context) (*stratum.Resolved, error)
}

type CORSConfig struct {
	Enabled          bool     `stratum:"enabled" default:"false" usage:"enable CORS"`
	AllowedOrigins   []string `stratum:"allowed_origins" default:"*" usage:"allowed origins"`
	AllowedMethods   []string `stratum:"allowed_methods" default:"GET,POST,OPTIONS" usage:"allowed methods"`
	AllowedHeaders   []string `stratum:"allowed_headers" default:"Authorization,Content-Type" usage:"allowed headers"`
	ExposedHeaders   []string `stratum:"exposed_headers" default:"" usage:"exposed headers"`
	AllowCredentials bool     `stratum:"allow_credentials" default:"false" usage:"allow credentials"`
	MaxAge           int      `stratum:"max_age" default:"300" validate:"gte=0" usage:"preflight cache seconds"`
}

type HandlerConfig struct {
	// Token, when set, is required as a bearer token on every route except /healthz.
	Token string
	CORS  CORSConfig
}

// Handler provides HTTP handlers for inspecting and reloading a configuration.
type Handler struct {
	config  HandlerConfig
	service Service
}

// NewHandler creates a new Handler with the given configuration and service.
func NewHandler(config *HandlerConfig, service Service) *Handler {
	return &Handler{
		config:  *config,
		service: service,
	}
}

// Router returns an http.Handler with every route configured.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.NotFound(writeNotFound)
	r.Get("/healthz", h.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(TokenMiddleware(h.config.Token))
		r.Get("/config", h.handleList)
		r.Get("/config/{key}", h.handleGet)
		r.Post("/reload", h.handleReload)
	})

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	if h.service.Current() == nil {
		HandleError(w, ErrNotReady)
		return
	}
	_ = WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleList(w http.ResponseWriter, _ *http.Request) {
	current := h.service.Current()
	if current == nil {
		HandleError(w, ErrNotReady)
		return
	}

	_ = WriteJSON(w, http.StatusOK, newConfigResponse(current))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	if !stratum.IsValidKey(key) {
		WriteError(w, http.StatusBadRequest, "invalid_key", "Invalid key")
		return
	}

	current := h.service.Current()
	if current == nil {
		HandleError(w, ErrNotReady)
		return
	}

	v, ok := current.Get(key)
	if !ok {
		HandleError(w, fmt.Errorf("%w: %s", stratum.ErrUnknownKey, key))
		return
	}

	_ = WriteJSON(w, http.StatusOK, v.Masked())
}

func (h *Handler) handleReload(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Reload(r.Context())
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, newConfigResponse(res))
}
