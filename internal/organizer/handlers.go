package organizer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jurylink/jurylink/internal/mailer"
	"github.com/jurylink/jurylink/internal/mailqueue"
	"github.com/jurylink/jurylink/internal/scoring"
	"github.com/jurylink/jurylink/internal/storage"
	"github.com/jurylink/jurylink/internal/token"
)

// Storage is the slice of the access store the organizer handlers consume.
type Storage interface {
	KeyStore
	GetHackathon(ctx context.Context, id int64) (*storage.Hackathon, error)
	GetJudge(ctx context.Context, id int64) (*storage.Judge, error)
	ListHackathonJudges(ctx context.Context, hackathonID int64) ([]*storage.Judge, error)
	UpsertAccessToken(ctx context.Context, judgeID, hackathonID int64, tokenValue string, expiresAt time.Time) (*storage.AccessToken, error)
	DeleteAccessToken(ctx context.Context, judgeID, hackathonID int64) error
	Ping(ctx context.Context) error
}

// Config carries the delivery settings the handlers need.
type Config struct {
	// MailFrom is the sender address for all outbound mail.
	MailFrom string
	// PublicBaseURL is the externally reachable base for judging links.
	PublicBaseURL string
	// TokenExpiryDays is the default capability lifetime.
	TokenExpiryDays int
}

// Handler serves the organizer API.
type Handler struct {
	storage   Storage
	validator *Validator
	scoring   *scoring.Service
	queue     *mailqueue.Queue
	cfg       Config
	logger    *slog.Logger
}

// NewHandler creates an organizer handler.
func NewHandler(s Storage, svc *scoring.Service, queue *mailqueue.Queue, cfg Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TokenExpiryDays <= 0 {
		cfg.TokenExpiryDays = token.DefaultExpiryDays
	}
	return &Handler{
		storage:   s,
		validator: NewValidator(s),
		scoring:   svc,
		queue:     queue,
		cfg:       cfg,
		logger:    logger,
	}
}

// urlID parses a numeric chi URL parameter.
func urlID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

type notifyRequest struct {
	ExpiryDays int `json:"expiryDays"`
}

type notifyResponse struct {
	JudgeID     int64     `json:"judgeId"`
	HackathonID int64     `json:"hackathonId"`
	ExpiresAt   time.Time `json:"expiresAt"`
	QueueItemID string    `json:"queueItemId"`
}

// HandleNotifyJudge mints (or resends) a judging token for one judge and
// enqueues its delivery mail at high priority. Issuance and delivery are
// decoupled: the token exists once this returns, even if the mail later
// fails.
// POST /api/hackathons/{id}/judges/{judgeID}/notify
func (h *Handler) HandleNotifyJudge(w http.ResponseWriter, r *http.Request) {
	hackathonID, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, errCodeInvalidReq, "invalid hackathon id")
		return
	}
	judgeID, err := urlID(r, "judgeID")
	if err != nil {
		writeError(w, http.StatusBadRequest, errCodeInvalidReq, "invalid judge id")
		return
	}

	var req notifyRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, errCodeInvalidReq, "invalid request body")
			return
		}
	}
	expiryDays := req.ExpiryDays
	if expiryDays <= 0 {
		expiryDays = h.cfg.TokenExpiryDays
	}

	hack, err := h.storage.GetHackathon(r.Context(), hackathonID)
	if err != nil {
		h.notFoundOrInternal(w, err, "hackathon not found")
		return
	}
	j, err := h.judgeInHackathon(r.Context(), hackathonID, judgeID)
	if err != nil {
		h.notFoundOrInternal(w, err, "judge is not assigned to this hackathon")
		return
	}

	record, err := h.issueToken(r.Context(), j.ID, hackathonID, expiryDays)
	if err != nil {
		h.logger.Error("failed to issue judging token",
			"judge_id", judgeID, "hackathon_id", hackathonID, "error", err)
		writeError(w, http.StatusInternalServerError, errCodeInternalError, "internal error")
		return
	}

	msg := mailer.JudgeInvite(h.cfg.MailFrom, j.Email, j.Name, hack.Name,
		h.cfg.PublicBaseURL, record.TokenValue, record.ExpiresAt)
	itemID := h.queue.Enqueue(msg, mailqueue.PriorityHigh, "", nil)

	writeJSON(w, http.StatusAccepted, notifyResponse{
		JudgeID:     judgeID,
		HackathonID: hackathonID,
		ExpiresAt:   record.ExpiresAt,
		QueueItemID: itemID,
	})
}

type notifyAllResponse struct {
	BatchID string `json:"batchId"`
	Total   int    `json:"total"`
}

// HandleNotifyAll mints tokens for every judge of the hackathon and
// enqueues the whole fan-out as one normal-priority batch.
// POST /api/hackathons/{id}/notify
func (h *Handler) HandleNotifyAll(w http.ResponseWriter, r *http.Request) {
	hackathonID, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, errCodeInvalidReq, "invalid hackathon id")
		return
	}

	var req notifyRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, errCodeInvalidReq, "invalid request body")
			return
		}
	}
	expiryDays := req.ExpiryDays
	if expiryDays <= 0 {
		expiryDays = h.cfg.TokenExpiryDays
	}

	hack, err := h.storage.GetHackathon(r.Context(), hackathonID)
	if err != nil {
		h.notFoundOrInternal(w, err, "hackathon not found")
		return
	}

	judges, err := h.storage.ListHackathonJudges(r.Context(), hackathonID)
	if err != nil {
		h.logger.Error("failed to list judges", "hackathon_id", hackathonID, "error", err)
		writeError(w, http.StatusInternalServerError, errCodeInternalError, "internal error")
		return
	}
	if len(judges) == 0 {
		writeJSON(w, http.StatusOK, notifyAllResponse{Total: 0})
		return
	}

	// Mint and persist every token first; the batch total only covers
	// deliveries that actually enter the queue, so it always reaches a
	// terminal state.
	type delivery struct {
		msg mailer.Message
	}
	deliveries := make([]delivery, 0, len(judges))
	for _, j := range judges {
		record, err := h.issueToken(r.Context(), j.ID, hackathonID, expiryDays)
		if err != nil {
			h.logger.Error("failed to issue judging token in fan-out",
				"judge_id", j.ID, "hackathon_id", hackathonID, "error", err)
			continue
		}
		deliveries = append(deliveries, delivery{
			msg: mailer.JudgeInvite(h.cfg.MailFrom, j.Email, j.Name, hack.Name,
				h.cfg.PublicBaseURL, record.TokenValue, record.ExpiresAt),
		})
	}

	batchID := h.queue.CreateBatch("", len(deliveries))
	for _, d := range deliveries {
		h.queue.Enqueue(d.msg, mailqueue.PriorityNormal, batchID, nil)
	}

	writeJSON(w, http.StatusAccepted, notifyAllResponse{
		BatchID: batchID,
		Total:   len(deliveries),
	})
}

// issueToken mints a capability and persists it, overwriting any prior
// token for the (judge, hackathon) pair.
func (h *Handler) issueToken(ctx context.Context, judgeID, hackathonID int64, expiryDays int) (*storage.AccessToken, error) {
	capability, err := token.Generate(expiryDays)
	if err != nil {
		return nil, err
	}
	return h.storage.UpsertAccessToken(ctx, judgeID, hackathonID, capability.Value, capability.ExpiresAt)
}

type reviewRequest struct {
	JudgeID int64   `json:"judgeId"`
	Score   float64 `json:"score"`
	Notes   string  `json:"notes"`
}

// HandleReview records a score through the authenticated flow, which
// uses the 0-100 range rather than the tokenized flow's 0-10.
// POST /api/hackathons/{id}/submissions/{sid}/review
func (h *Handler) HandleReview(w http.ResponseWriter, r *http.Request) {
	hackathonID, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, errCodeInvalidReq, "invalid hackathon id")
		return
	}
	submissionID, err := urlID(r, "sid")
	if err != nil {
		writeError(w, http.StatusBadRequest, errCodeInvalidReq, "invalid submission id")
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errCodeInvalidReq, "invalid request body")
		return
	}
	if req.JudgeID == 0 {
		writeError(w, http.StatusBadRequest, errCodeInvalidReq, "judgeId is required")
		return
	}

	recorded, err := h.scoring.UpsertScore(r.Context(), req.JudgeID, hackathonID,
		submissionID, req.Score, req.Notes, scoring.ReviewRange)
	if err != nil {
		switch {
		case errors.Is(err, scoring.ErrInvalidScore):
			writeError(w, http.StatusBadRequest, errCodeInvalidScore, err.Error())
		case errors.Is(err, scoring.ErrForbidden):
			writeError(w, http.StatusForbidden, errCodeForbidden, "submission is not part of this hackathon")
		case errors.Is(err, storage.ErrNotFound):
			writeError(w, http.StatusNotFound, errCodeNotFound, "submission not found")
		default:
			h.logger.Error("failed to record review", "submission_id", submissionID, "error", err)
			writeError(w, http.StatusInternalServerError, errCodeInternalError, "internal error")
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

// HandleRevokeToken deletes a judge's live capability. Old links stop
// working on the next authentication attempt.
// DELETE /api/hackathons/{id}/judges/{judgeID}/token
func (h *Handler) HandleRevokeToken(w http.ResponseWriter, r *http.Request) {
	hackathonID, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, errCodeInvalidReq, "invalid hackathon id")
		return
	}
	judgeID, err := urlID(r, "judgeID")
	if err != nil {
		writeError(w, http.StatusBadRequest, errCodeInvalidReq, "invalid judge id")
		return
	}

	if err := h.storage.DeleteAccessToken(r.Context(), judgeID, hackathonID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, errCodeNotFound, "no live token for this judge")
			return
		}
		h.logger.Error("failed to revoke token",
			"judge_id", judgeID, "hackathon_id", hackathonID, "error", err)
		writeError(w, http.StatusInternalServerError, errCodeInternalError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleQueueStats returns the dispatch queue counters.
// GET /api/queue/stats
func (h *Handler) HandleQueueStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.queue.Stats())
}

// HandleBatchProgress returns the progress snapshot for one batch.
// GET /api/queue/batches/{batchID}
func (h *Handler) HandleBatchProgress(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batchID")
	progress, ok := h.queue.BatchProgress(batchID)
	if !ok {
		writeError(w, http.StatusNotFound, errCodeNotFound, "unknown batch")
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

// judgeInHackathon loads the judge and verifies the assignment.
func (h *Handler) judgeInHackathon(ctx context.Context, hackathonID, judgeID int64) (*storage.Judge, error) {
	judges, err := h.storage.ListHackathonJudges(ctx, hackathonID)
	if err != nil {
		return nil, err
	}
	for _, j := range judges {
		if j.ID == judgeID {
			return j, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (h *Handler) notFoundOrInternal(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, errCodeNotFound, message)
		return
	}
	h.logger.Error("storage lookup failed", "error", err)
	writeError(w, http.StatusInternalServerError, errCodeInternalError, "internal error")
}
