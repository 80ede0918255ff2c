// itinerary.go
package itinerary

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"aventra/logger"
	"aventra/models"
	"aventra/utils"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

const (
	maxItineraryBody = 4 << 20
	requestTimeout   = 15 * time.Second
)

// Handler exposes the service over HTTP.
type Handler struct {
	svc           *Service
	log           *zap.Logger
	publicBaseURL string
}

func NewHandler(svc *Service, log *zap.Logger, publicBaseURL string) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		svc:           svc,
		log:           log,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// StatusFor maps a failed outcome to its HTTP status.
func StatusFor(kind FailureKind) int {
	switch kind {
	case FailureUnauthenticated:
		return http.StatusUnauthorized
	case FailureNotFound:
		return http.StatusNotFound
	case FailureForbidden:
		return http.StatusForbidden
	case FailureInvalid:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// POST /api/itineraries
func (h *Handler) Save(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var data models.GeneratedItinerary
	r.Body = http.MaxBytesReader(w, r.Body, maxItineraryBody)
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	res := h.svc.SaveItinerary(ctx, utils.CallerFromRequest(r), data)
	if !res.Success {
		utils.RespondWithJSON(w, StatusFor(res.Kind), res)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, res)
}

// GET /api/itineraries
func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	res := h.svc.GetUserItineraries(ctx, utils.CallerFromRequest(r))
	if !res.Success {
		utils.RespondWithJSON(w, StatusFor(res.Kind), res)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, res)
}

// GET /api/itineraries/all/:id
func (h *Handler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	res := h.svc.GetItinerary(ctx, ps.ByName("id"))
	if !res.Success {
		utils.RespondWithJSON(w, StatusFor(res.Kind), res)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, res)
}

// DELETE /api/itineraries/:id
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	res := h.svc.DeleteItinerary(ctx, utils.CallerFromRequest(r), ps.ByName("id"))
	if !res.Success {
		utils.RespondWithJSON(w, StatusFor(res.Kind), res)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, res)
}

// GET /api/itineraries/all/:id/pdf
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	tripID := ps.ByName("id")
	res := h.svc.GetItinerary(ctx, tripID)
	if !res.Success {
		utils.RespondWithJSON(w, StatusFor(res.Kind), res.Outcome)
		return
	}

	body, err := RenderPDF(res.Itinerary, h.ShareURL(tripID))
	if err != nil {
		logger.WithContext(ctx, h.log).Error("failed to render itinerary pdf",
			zap.String("trip_id", tripID), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=itinerary-"+tripID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// ShareURL is the client page that shows tripID.
func (h *Handler) ShareURL(tripID string) string {
	if h.publicBaseURL == "" {
		return ""
	}
	return h.publicBaseURL + "/plan/generated/" + tripID
}
