package recommendation

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	appMiddleware "github.com/geulda/go-tour-recommendations/app/middleware"
	"github.com/geulda/go-tour-recommendations/app/observability/metrics"
	"github.com/geulda/go-tour-recommendations/internal/api"
	"github.com/geulda/go-tour-recommendations/internal/types"
)

type Handler struct {
	service  Service
	validate *validator.Validate
	logger   *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// Recommend handles POST /recommendations.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RecommendationHandler").Start(r.Context(), "Recommend")
	defer span.End()

	l := h.logger.With(slog.String("method", "Recommend"))

	var req types.RecommendRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.StructCtx(ctx, req); err != nil {
		l.WarnContext(ctx, "Request validation failed", slog.Any("error", err))
		span.SetStatus(codes.Error, "Validation failed")
		api.ErrorResponse(w, r, http.StatusBadRequest, "travelPurpose, stayDuration and transportation are required")
		return
	}

	requesterID, _ := appMiddleware.GetUserIDFromContext(ctx)

	start := time.Now()
	resp, err := h.service.Recommend(ctx, requesterID, req)
	if m := metrics.Get(); m != nil {
		m.RecommendRequestsTotal.Add(ctx, 1)
		m.RecommendDurationSeconds.Record(ctx, time.Since(start).Seconds())
	}
	if err != nil {
		h.writeServiceError(ctx, w, r, l, err)
		return
	}

	l.InfoContext(ctx, "Recommendation created",
		slog.String("session_id", resp.SessionID), slog.Int("places", len(resp.Places)))
	span.SetStatus(codes.Ok, "Recommendation created")
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// GetSession handles GET /recommendations/sessions/{sessionID}.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RecommendationHandler").Start(r.Context(), "GetSession")
	defer span.End()

	l := h.logger.With(slog.String("method", "GetSession"))

	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		span.SetStatus(codes.Error, "Missing session ID")
		api.ErrorResponse(w, r, http.StatusBadRequest, "session ID is required")
		return
	}

	if m := metrics.Get(); m != nil {
		m.SessionLookupsTotal.Add(ctx, 1)
	}

	record, err := h.service.GetSession(ctx, sessionID)
	if err != nil {
		h.writeServiceError(ctx, w, r, l, err)
		return
	}

	span.SetStatus(codes.Ok, "Session returned")
	api.WriteJSONResponse(w, r, http.StatusOK, record)
}

// writeServiceError maps the domain error taxonomy onto HTTP statuses:
// no-places and session-not-found are the caller's problem, AI failures are
// retryable upstream trouble.
func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, r *http.Request, l *slog.Logger, err error) {
	switch {
	case errors.Is(err, types.ErrSessionNotFound):
		l.InfoContext(ctx, "Session not found")
		api.ErrorResponse(w, r, http.StatusNotFound, "session not found or expired")
	case errors.Is(err, types.ErrNoPlacesFound):
		l.InfoContext(ctx, "No places found", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, types.ErrAIService):
		l.ErrorContext(ctx, "AI service failure", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadGateway, "recommendation service temporarily unavailable, please retry")
	default:
		l.ErrorContext(ctx, "Recommendation request failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "internal server error")
	}
}
