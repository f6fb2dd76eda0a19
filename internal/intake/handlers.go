package intake

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/fixly-labs/backend-fixly/internal/common"
	"github.com/fixly-labs/backend-fixly/internal/obs"
)

// Handler exposes the guest intake endpoints.
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

// CreateLead handles POST /api/v1/intake/leads.
func (h *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "intake service not configured", nil)
		return
	}
	var in LeadInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		obs.CountIntake("lead", "rejected")
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
		return
	}
	lead, err := h.service.CreateLead(r.Context(), in)
	if err != nil {
		h.writeError(w, r, "lead", err)
		return
	}
	obs.CountIntake("lead", "ok")
	common.JSON(w, http.StatusCreated, map[string]any{"data": lead})
}

// CreateCheckIn handles POST /api/v1/intake/checkins.
func (h *Handler) CreateCheckIn(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "intake service not configured", nil)
		return
	}
	var in CheckInInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		obs.CountIntake("checkin", "rejected")
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
		return
	}
	checkin, err := h.service.CreateCheckIn(r.Context(), in)
	if err != nil {
		h.writeError(w, r, "checkin", err)
		return
	}
	obs.CountIntake("checkin", "ok")
	common.JSON(w, http.StatusCreated, map[string]any{"data": checkin})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, channel string, err error) {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		obs.CountIntake(channel, "rejected")
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		common.JSONError(w, status, appErr.Code, appErr.Message, appErr.Details)
		return
	}
	obs.CountIntake(channel, "error")
	h.logger.Error().Err(err).
		Str("channel", channel).
		Str("client_ip", common.ClientIP(r)).
		Msg("intake submission failed")
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "could not record submission", nil)
}
