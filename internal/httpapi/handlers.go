package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/shopfabrik/catalog-service/internal/cache"
	"github.com/shopfabrik/catalog-service/internal/catalog"
	"github.com/shopfabrik/catalog-service/internal/models"
	"github.com/shopfabrik/catalog-service/internal/store"
)

// serviceName identifies this service in health responses.
const serviceName = "product-catalog"

// Handler binds the HTTP routes to the coordinator and the operational
// probes to the store and cache adapter.
type Handler struct {
	coordinator *catalog.Coordinator
	store       *store.Store
	cache       cache.Cache
	logger      zerolog.Logger
}

// NewHandler creates the route handler set.
func NewHandler(co *catalog.Coordinator, st *store.Store, c cache.Cache, logger zerolog.Logger) *Handler {
	return &Handler{
		coordinator: co,
		store:       st,
		cache:       c,
		logger:      logger,
	}
}

type healthResponse struct {
	Status        string `json:"status"`
	Service       string `json:"service"`
	Timestamp     string `json:"timestamp"`
	Redis         string `json:"redis"`
	ProductsCount int    `json:"productsCount"`
}

type readyResponse struct {
	Ready bool   `json:"ready"`
	Redis string `json:"redis"`
}

type listResponse struct {
	Data   []models.Product `json:"data"`
	Cached bool             `json:"cached"`
	Count  int              `json:"count"`
}

type productResponse struct {
	models.Product
	Cached bool `json:"cached"`
}

func redisState(available bool) string {
	if available {
		return "connected"
	}
	return "disconnected"
}

// Health reports process and cache connectivity. A reachable adapter
// whose ping fails yields 503; a deliberately disconnected adapter keeps
// the service healthy in degraded mode.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	redis := redisState(h.cache.Available())
	if h.cache.Available() {
		if _, err := h.cache.Ping(r.Context()); err != nil {
			h.logger.Warn().Err(err).Msg("Health ping failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:        "healthy",
		Service:       serviceName,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Redis:         redis,
		ProductsCount: h.store.Len(),
	})
}

// Ready reports readiness purely from adapter connectivity; the store is
// never touched.
func (h *Handler) Ready(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, readyResponse{
		Ready: true,
		Redis: redisState(h.cache.Available()),
	})
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	data, cached, err := h.coordinator.ListProducts(r.Context(), category)
	if err != nil {
		h.logger.Error().Err(err).Msg("Listing products failed")
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Data:   data,
		Cached: cached,
		Count:  len(data),
	})
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	p, cached, err := h.coordinator.GetProduct(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, productResponse{Product: p, Cached: cached})
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in models.CreateProduct
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "request body is not valid JSON")
		return
	}

	p, err := h.coordinator.CreateProduct(r.Context(), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var patch models.UpdateProduct
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "request body is not valid JSON")
		return
	}

	p, err := h.coordinator.UpdateProduct(r.Context(), id, patch)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.coordinator.DeleteProduct(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// NotFound answers every unmatched route.
func (h *Handler) NotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "Not found")
}

// parseID extracts the id route parameter. A non-integer id is a client
// error, answered directly with 400.
func parseID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "product id must be an integer")
		return 0, false
	}
	return id, true
}
