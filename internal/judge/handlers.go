package judge

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jurylink/jurylink/internal/scoring"
	"github.com/jurylink/jurylink/internal/storage"
)

// Storage is the slice of the access store the judge handlers consume.
type Storage interface {
	TokenStore
	GetJudge(ctx context.Context, id int64) (*storage.Judge, error)
	GetHackathon(ctx context.Context, id int64) (*storage.Hackathon, error)
}

// Handler serves the token-gated judge endpoints.
type Handler struct {
	storage Storage
	scoring *scoring.Service
	logger  *slog.Logger
}

// NewHandler creates a judge handler.
func NewHandler(s Storage, svc *scoring.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{storage: s, scoring: svc, logger: logger}
}

// Routes returns the judge router. Every endpoint below the {token}
// segment runs behind the capability gate.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/{token}", func(r chi.Router) {
		r.Use(Middleware(h.storage, h.logger))
		r.Get("/info", h.HandleInfo)
		r.Get("/submissions", h.HandleListSubmissions)
		r.Post("/score", h.HandleScore)
	})

	return r
}

type infoResponse struct {
	Judge struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"judge"`
	Hackathon struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"hackathon"`
}

// HandleInfo returns the judge and hackathon summary for a valid token.
// GET /judge/{token}/info
func (h *Handler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	scope, ok := GetScope(r.Context())
	if !ok {
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "scope missing from context")
		return
	}

	j, err := h.storage.GetJudge(r.Context(), scope.JudgeID)
	if err != nil {
		h.logger.Error("failed to load judge", "judge_id", scope.JudgeID, "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal error")
		return
	}

	hack, err := h.storage.GetHackathon(r.Context(), scope.HackathonID)
	if err != nil {
		h.logger.Error("failed to load hackathon", "hackathon_id", scope.HackathonID, "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal error")
		return
	}

	var resp infoResponse
	resp.Judge.ID = j.ID
	resp.Judge.Name = j.Name
	resp.Hackathon.ID = hack.ID
	resp.Hackathon.Name = hack.Name

	writeJSON(w, http.StatusOK, resp)
}

type submissionResponse struct {
	ID          int64      `json:"id"`
	TeamName    string     `json:"teamName"`
	ProjectName string     `json:"projectName"`
	SubmittedAt time.Time  `json:"submittedAt"`
	MyScore     *float64   `json:"myScore"`
	MyNotes     string     `json:"myNotes,omitempty"`
	ScoredAt    *time.Time `json:"scoredAt,omitempty"`
}

// HandleListSubmissions lists the submissions in the token's scope, each
// with the judge's own prior score attached.
// GET /judge/{token}/submissions
func (h *Handler) HandleListSubmissions(w http.ResponseWriter, r *http.Request) {
	scope, ok := GetScope(r.Context())
	if !ok {
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "scope missing from context")
		return
	}

	list, err := h.scoring.ListSubmissions(r.Context(), scope.JudgeID, scope.HackathonID)
	if err != nil {
		h.logger.Error("failed to list submissions", "hackathon_id", scope.HackathonID, "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal error")
		return
	}

	resp := make([]submissionResponse, 0, len(list))
	for _, item := range list {
		sub := submissionResponse{
			ID:          item.ID,
			TeamName:    item.TeamName,
			ProjectName: item.ProjectName,
			SubmittedAt: item.SubmittedAt,
		}
		if item.MyScore != nil {
			score := item.MyScore.Score
			scoredAt := item.MyScore.ScoredAt
			sub.MyScore = &score
			sub.MyNotes = item.MyScore.Notes
			sub.ScoredAt = &scoredAt
		}
		resp = append(resp, sub)
	}

	writeJSON(w, http.StatusOK, map[string]any{"submissions": resp})
}

type scoreRequest struct {
	SubmissionID int64   `json:"submissionId"`
	Score        float64 `json:"score"`
	Notes        string  `json:"notes"`
}

// HandleScore records a score for a submission in the token's scope.
// POST /judge/{token}/score
func (h *Handler) HandleScore(w http.ResponseWriter, r *http.Request) {
	scope, ok := GetScope(r.Context())
	if !ok {
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "scope missing from context")
		return
	}

	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
		return
	}
	if req.SubmissionID == 0 {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "submissionId is required")
		return
	}

	recorded, err := h.scoring.UpsertScore(r.Context(), scope.JudgeID, scope.HackathonID,
		req.SubmissionID, req.Score, req.Notes, scoring.JudgeRange)
	if err != nil {
		switch {
		case errors.Is(err, scoring.ErrInvalidScore):
			WriteError(w, http.StatusBadRequest, ErrCodeInvalidScore, err.Error())
		case errors.Is(err, scoring.ErrForbidden):
			WriteError(w, http.StatusForbidden, ErrCodeForbidden, "submission is not part of this hackathon")
		case errors.Is(err, storage.ErrNotFound):
			WriteError(w, http.StatusNotFound, ErrCodeNotFound, "submission not found")
		default:
			h.logger.Error("failed to record score", "submission_id", req.SubmissionID, "error", err)
			WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"submissionId": recorded.SubmissionID,
		"score":        recorded.Score,
		"notes":        recorded.Notes,
		"scoredAt":     recorded.ScoredAt,
	})
}

// writeJSON writes a JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body) //nolint:errcheck
}
