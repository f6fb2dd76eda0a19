package catalog

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/fixly-labs/backend-fixly/internal/common"
	"github.com/fixly-labs/backend-fixly/internal/obs"
)

// Handler exposes the catalog hierarchy endpoints.
type Handler struct {
	service *Service
	logger  zerolog.Logger
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Service *Service
	Logger  zerolog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{service: cfg.Service, logger: cfg.Logger}
}

// DeviceTypes handles GET /api/v1/device-types.
func (h *Handler) DeviceTypes(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	rows, err := h.service.DeviceTypes(r.Context())
	if err != nil {
		obs.CountCatalogFetch("deviceType", "error")
		h.writeDegraded(w, r, "deviceType", []DeviceType{}, err)
		return
	}
	obs.CountCatalogFetch("deviceType", "ok")
	common.JSON(w, http.StatusOK, map[string]any{"data": rows, "error": false})
}

// Brands handles GET /api/v1/device-types/{id}/brands.
func (h *Handler) Brands(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	typeID := chi.URLParam(r, "id")
	rows, err := h.service.BrandsForType(r.Context(), typeID)
	if err != nil {
		if writeAppError(w, err) {
			return
		}
		obs.CountCatalogFetch("brand", "error")
		h.writeDegraded(w, r, "brand", []Brand{}, err)
		return
	}
	obs.CountCatalogFetch("brand", "ok")
	common.JSON(w, http.StatusOK, map[string]any{"data": rows, "error": false})
}

// Models handles GET /api/v1/brands/{id}/models.
func (h *Handler) Models(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	brandID := chi.URLParam(r, "id")
	rows, err := h.service.ModelsForBrand(r.Context(), brandID)
	if err != nil {
		if writeAppError(w, err) {
			return
		}
		obs.CountCatalogFetch("model", "error")
		h.writeDegraded(w, r, "model", []Model{}, err)
		return
	}
	obs.CountCatalogFetch("model", "ok")
	common.JSON(w, http.StatusOK, map[string]any{"data": rows, "error": false})
}

// Services handles GET /api/v1/device-types/{id}/services.
func (h *Handler) Services(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	typeID := chi.URLParam(r, "id")
	rows, err := h.service.ServicesForType(r.Context(), typeID)
	if err != nil {
		if writeAppError(w, err) {
			return
		}
		obs.CountCatalogFetch("service", "error")
		h.writeDegraded(w, r, "service", []ServiceItem{}, err)
		return
	}
	obs.CountCatalogFetch("service", "ok")
	common.JSON(w, http.StatusOK, map[string]any{"data": rows, "error": false})
}

// Parts handles GET /api/v1/parts?q=&limit=.
func (h *Handler) Parts(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	limit := common.AtoiDefault(r.URL.Query().Get("limit"), 0)
	rows, err := h.service.SearchParts(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		obs.CountCatalogFetch("part", "error")
		h.writeDegraded(w, r, "part", []Part{}, err)
		return
	}
	obs.CountCatalogFetch("part", "ok")
	common.JSON(w, http.StatusOK, map[string]any{"data": rows, "error": false})
}

// writeDegraded answers a failed list fetch with an empty list and an error
// flag instead of a failure status. The pickers stay usable while the backing
// store is down; clients surface the flag as a toast.
func (h *Handler) writeDegraded(w http.ResponseWriter, r *http.Request, level string, empty any, err error) {
	h.logger.Error().Err(err).
		Str("level", level).
		Str("path", r.URL.Path).
		Msg("catalog fetch failed, serving empty list")
	common.JSON(w, http.StatusOK, map[string]any{"data": empty, "error": true})
}

// writeAppError reports whether err carried an AppError and was written.
func writeAppError(w http.ResponseWriter, err error) bool {
	var appErr *common.AppError
	if !errors.As(err, &appErr) {
		return false
	}
	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	code := appErr.Code
	if code == "" {
		code = "INTERNAL"
	}
	message := appErr.Message
	if message == "" {
		message = "internal error"
	}
	common.JSONError(w, status, code, message, appErr.Details)
	return true
}
