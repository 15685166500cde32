package vectorstore

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/geulda/go-tour-recommendations/internal/api"
	"github.com/geulda/go-tour-recommendations/internal/types"
)

// rebuildTimeout bounds a background rebuild kicked off over HTTP; embedding
// the whole catalog is slow but should never run unbounded.
const rebuildTimeout = 10 * time.Minute

type Handler struct {
	index  Index
	logger *slog.Logger
}

func NewHandler(index Index, logger *slog.Logger) *Handler {
	return &Handler{index: index, logger: logger}
}

// Rebuild handles POST /vector-index/rebuild. The rebuild runs in the
// background; callers poll Status for completion.
func (h *Handler) Rebuild(w http.ResponseWriter, r *http.Request) {
	_, span := otel.Tracer("VectorStoreHandler").Start(r.Context(), "Rebuild")
	defer span.End()

	l := h.logger.With(slog.String("method", "Rebuild"))

	if h.index.State() == StateBuilding {
		l.InfoContext(r.Context(), "Rebuild already in progress")
		api.ErrorResponse(w, r, http.StatusConflict, "index rebuild already in progress")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), rebuildTimeout)
		defer cancel()
		if err := h.index.Rebuild(ctx); err != nil {
			if errors.Is(err, types.ErrIndexNotReady) {
				h.logger.InfoContext(ctx, "Rebuild skipped, another build is running")
				return
			}
			h.logger.ErrorContext(ctx, "Index rebuild failed", slog.Any("error", err))
		}
	}()

	l.InfoContext(r.Context(), "Index rebuild started")
	span.SetStatus(codes.Ok, "Rebuild started")
	api.WriteJSONResponse(w, r, http.StatusAccepted, map[string]string{"status": StateBuilding.String()})
}

// Status handles GET /vector-index/status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	_, span := otel.Tracer("VectorStoreHandler").Start(r.Context(), "Status")
	defer span.End()

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"status": h.index.State().String()})
}
