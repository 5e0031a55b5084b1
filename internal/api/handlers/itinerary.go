// Package handlers contains the HTTP handler implementations for the Wayfarer
// API. Handlers depend on narrow, locally defined interfaces so tests can mock
// the service and repository layers without touching the database.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"wayfarer/internal/core"
	"wayfarer/internal/types"
)

// ItineraryGenerator is the generation service contract.
type ItineraryGenerator interface {
	Generate(ctx context.Context, req types.GenerateLegRequest) (types.GenerationResult, error)
}

// LegGetter resolves a leg by id. Implemented by db.LegRepository.
type LegGetter interface {
	GetByID(ctx context.Context, legID string) (*types.Leg, error)
}

// GenerateItineraryBody is the request body for the generate endpoint. City
// and date range come from the stored leg, not from the caller.
type GenerateItineraryBody struct {
	UserID string            `json:"user_id"`
	Pace   types.PaceSetting `json:"pace"`
}

// ItineraryHandler serves the itinerary generation endpoint.
type ItineraryHandler struct {
	legs      LegGetter
	generator ItineraryGenerator
	logger    *slog.Logger
}

// NewItineraryHandler creates an ItineraryHandler with the given dependencies.
func NewItineraryHandler(legs LegGetter, generator ItineraryGenerator, logger *slog.Logger) *ItineraryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ItineraryHandler{
		legs:      legs,
		generator: generator,
		logger:    logger,
	}
}

// RegisterRoutes mounts itinerary routes on the provided chi.Router.
func (h *ItineraryHandler) RegisterRoutes(r chi.Router) {
	r.Route("/trips/{tripID}/legs/{legID}/itinerary", func(r chi.Router) {
		r.Post("/generate", h.Generate)
	})
}

// Generate handles POST /v1/trips/{tripID}/legs/{legID}/itinerary/generate.
//
// The leg's city and inclusive date range are read from the stored leg; the
// body supplies the acting user and the pace. A leg id that does not exist or
// does not belong to the addressed trip is a 404.
func (h *ItineraryHandler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tripID := chi.URLParam(r, "tripID")
	legID := chi.URLParam(r, "legID")

	var body GenerateItineraryBody
	if err := core.DecodeJSON(w, r, &body); err != nil {
		core.Error(w, r, err)
		return
	}

	leg, err := h.legs.GetByID(ctx, legID)
	if err != nil {
		var appErr *types.AppError
		if !errors.As(err, &appErr) || appErr.Code != types.ErrCodeNotFoundLeg {
			h.logger.ErrorContext(ctx, "failed to load leg",
				"leg_id", legID,
				"error", err,
			)
		}
		core.Error(w, r, err)
		return
	}

	if leg.TripID != tripID {
		// Do not reveal that the leg exists under a different trip.
		core.Error(w, r, types.NewAppError(
			types.ErrCodeNotFoundLeg,
			"leg not found",
			nil,
		))
		return
	}

	req := types.GenerateLegRequest{
		TripID:    tripID,
		LegID:     legID,
		UserID:    body.UserID,
		City:      leg.City,
		Country:   leg.Country,
		StartDate: leg.StartDate,
		EndDate:   leg.EndDate,
		Pace:      body.Pace,
	}

	result, err := h.generator.Generate(ctx, req)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusCreated, core.APIResponse{Data: result})
}
