package processor

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/your-org/videoforge/internal/ledger"
)

// HTTPHandler exposes the direct-invocation and status endpoints.
type HTTPHandler struct {
	service *Service
	ledger  ledger.Store
	logger  *zap.Logger
	router  chi.Router
}

// NewHTTPHandler constructs the HTTP handler and wires routes.
func NewHTTPHandler(service *Service, store ledger.Store, logger *zap.Logger) *HTTPHandler {
	h := &HTTPHandler{
		service: service,
		ledger:  store,
		logger:  logger,
	}
	h.buildRouter()
	return h
}

func (h *HTTPHandler) buildRouter() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Minute))

	r.Get("/healthz", h.handleHealth)
	r.Post("/api/v1/jobs", h.handleProcess)
	r.Get("/api/v1/videos/{videoID}", h.handleGetVideo)

	h.router = r
}

// Router exposes the configured chi router.
func (h *HTTPHandler) Router() http.Handler {
	return h.router
}

func (h *HTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

type processRequest struct {
	Name string `json:"name"`
}

func (h *HTTPHandler) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.ProcessVideo(r.Context(), req.Name)
	if err != nil {
		h.logger.Error("job failed", zap.String("object", req.Name), zap.Error(err))
		writeError(w, statusForError(err), err.Error())
		return
	}

	if result.Skipped {
		writeJSON(w, http.StatusOK, map[string]any{
			"video_id": result.VideoID,
			"skipped":  true,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"job_id":           result.JobID,
		"video_id":         result.VideoID,
		"processed_object": result.ProcessedObject,
		"url":              result.URL,
		"duration_seconds": result.Duration.Seconds(),
	})
}

func (h *HTTPHandler) handleGetVideo(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "videoID")

	entry, err := h.ledger.Get(r.Context(), videoID)
	if err != nil {
		h.logger.Error("ledger read failed", zap.String("video_id", videoID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "ledger read failed")
		return
	}
	if entry.IsNew() {
		writeError(w, http.StatusNotFound, "video not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"video_id":    videoID,
		"status":      entry.Status,
		"title":       entry.Title,
		"description": entry.Description,
		"filename":    entry.Filename,
		"uid":         entry.UID,
	})
}

func statusForError(err error) int {
	var jobErr *JobError
	if !errors.As(err, &jobErr) {
		return http.StatusInternalServerError
	}
	switch jobErr.Kind {
	case KindInvalidRequest:
		return http.StatusBadRequest
	case KindSourceMissing:
		return http.StatusNotFound
	case KindPermissionDenied:
		return http.StatusForbidden
	case KindTransientIO, KindPublishFailed:
		return http.StatusBadGateway
	case KindTranscodeFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{
		"error": msg,
	})
}
