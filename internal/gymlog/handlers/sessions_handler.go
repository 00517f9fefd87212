package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/2beens/gymlog/internal/gymlog/sessions"
	"github.com/2beens/gymlog/internal/telemetry/tracing"
	"github.com/2beens/gymlog/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type addSessionRequest struct {
	User       string    `json:"user"`
	Exercise   string    `json:"exercise"`
	Date       string    `json:"date"`
	SetReps    []int     `json:"set_reps"`
	SetWeights []float64 `json:"set_weights"`
	Comment    string    `json:"comment"`
}

func (h *Handler) HandleAddSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymlog.sessions.add")
	defer span.End()

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req addSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("add session, unmarshal json params: %s", err)
		http.Error(w, "add session failed: invalid json", http.StatusBadRequest)
		return
	}

	req.User = strings.TrimSpace(req.User)
	if req.User == "" {
		http.Error(w, "user missing", http.StatusBadRequest)
		return
	}
	if req.Date == "" {
		req.Date = h.now().UTC().Format(sessions.DateLayout)
	}
	span.SetAttributes(
		attribute.String("user", req.User),
		attribute.String("exercise", req.Exercise),
	)

	validUser, err := h.users.IsValidUser(ctx, req.User)
	if err != nil {
		log.Errorf("add session, check user [%s]: %s", req.User, err)
		http.Error(w, "add session failed", http.StatusInternalServerError)
		span.RecordError(err)
		span.SetStatus(codes.Error, "check-user-err")
		return
	}
	if !validUser {
		log.Warnf("add session: unknown user [%s]", req.User)
		http.Error(w, "unknown user", http.StatusForbidden)
		span.SetStatus(codes.Error, "unknown-user")
		return
	}

	stored, err := h.sessions.Append(ctx, sessions.SessionRecord{
		User:       req.User,
		Exercise:   req.Exercise,
		Date:       req.Date,
		SetReps:    req.SetReps,
		SetWeights: req.SetWeights,
		Comment:    req.Comment,
	})
	if err != nil {
		if !rejectedBeforeWrite(err) {
			// the document may be stored even though the append failed
			h.log.Invalidate(ctx)
		}
		status, msg := appendErrorStatus(err)
		if status == http.StatusInternalServerError {
			log.Errorf("add session: %s", err)
		} else {
			log.Warnf("add session rejected: %s", err)
		}
		http.Error(w, msg, status)
		span.RecordError(err)
		span.SetStatus(codes.Error, sessions.RejectReason(err))
		return
	}

	// new data: cached log queries are stale
	h.log.Invalidate(ctx)

	storedJson, err := json.Marshal(stored)
	if err != nil {
		log.Errorf("add session, marshal stored session: %s", err)
		http.Error(w, "session stored, response failed", http.StatusInternalServerError)
		return
	}

	span.SetStatus(codes.Ok, "session-stored")
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, storedJson, http.StatusCreated)
}

// rejectedBeforeWrite reports whether the append failed without the store
// holding a new session.
func rejectedBeforeWrite(err error) bool {
	return errors.Is(err, sessions.ErrUnknownExercise) ||
		errors.Is(err, sessions.ErrInvalidSets) ||
		errors.Is(err, sessions.ErrInvalidDate) ||
		errors.Is(err, sessions.ErrSessionExists)
}

func appendErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, sessions.ErrUnknownExercise),
		errors.Is(err, sessions.ErrInvalidSets),
		errors.Is(err, sessions.ErrInvalidDate):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, sessions.ErrSessionExists):
		return http.StatusConflict, "session with the same identifier exists, please resubmit"
	case errors.Is(err, sessions.ErrWriteNotConfirmed):
		return http.StatusInternalServerError, "session write not confirmed, please resubmit"
	default:
		return http.StatusInternalServerError, "add session failed"
	}
}
