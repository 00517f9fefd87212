package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/2beens/gymlog/internal/gymlog/analyzer"
	"github.com/2beens/gymlog/internal/telemetry/tracing"
	"github.com/2beens/gymlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type UsersResponse struct {
	Users       []string `json:"users"`
	DefaultUser string   `json:"default_user,omitempty"`
}

type UserValidResponse struct {
	Alias string `json:"alias"`
	Valid bool   `json:"valid"`
}

func (h *Handler) HandleUsers(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymlog.users")
	defer span.End()

	users, err := h.users.ListUsers(ctx)
	if err != nil {
		log.Errorf("list users: %s", err)
		http.Error(w, "list users failed", http.StatusInternalServerError)
		span.RecordError(err)
		return
	}
	if users == nil {
		users = []string{}
	}

	respJson, err := json.Marshal(UsersResponse{
		Users:       users,
		DefaultUser: h.defaultUser,
	})
	if err != nil {
		log.Errorf("marshal users: %s", err)
		http.Error(w, "list users failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(respJson))
}

func (h *Handler) HandleIsValidUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymlog.users.valid")
	defer span.End()

	alias := mux.Vars(r)["alias"]
	span.SetAttributes(attribute.String("user", alias))

	valid, err := h.users.IsValidUser(ctx, alias)
	if err != nil {
		log.Errorf("check user [%s]: %s", alias, err)
		http.Error(w, "check user failed", http.StatusInternalServerError)
		span.RecordError(err)
		return
	}

	respJson, err := json.Marshal(UserValidResponse{Alias: alias, Valid: valid})
	if err != nil {
		log.Errorf("marshal user check: %s", err)
		http.Error(w, "check user failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(respJson))
}

func (h *Handler) HandleExercises(w http.ResponseWriter, _ *http.Request) {
	groupsJson, err := json.Marshal(h.sessions.Catalog().Groups())
	if err != nil {
		log.Errorf("marshal exercise catalog: %s", err)
		http.Error(w, "get exercises failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(groupsJson))
}

// HandleForm returns the session form settings for ?user= (or the default user):
// the catalog, the set and rep bounds, and the weight input per exercise.
func (h *Handler) HandleForm(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymlog.form")
	defer span.End()

	user := strings.TrimSpace(r.URL.Query().Get("user"))
	if user == "" {
		user = h.defaultUser
	}
	if user == "" {
		http.Error(w, "user missing", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("user", user))

	valid, err := h.users.IsValidUser(ctx, user)
	if err != nil {
		log.Errorf("form, check user [%s]: %s", user, err)
		http.Error(w, "get form failed", http.StatusInternalServerError)
		span.RecordError(err)
		return
	}
	if !valid {
		http.Error(w, "unknown user", http.StatusForbidden)
		return
	}

	rows, err := h.log.Query(ctx, analyzer.LogFilter{Users: []string{user}})
	if err != nil {
		log.Errorf("form, get log for [%s]: %s", user, err)
		http.Error(w, "get form failed", http.StatusInternalServerError)
		span.RecordError(err)
		return
	}

	formJson, err := json.Marshal(analyzer.NewFormSettings(user, h.sessions.Catalog(), rows))
	if err != nil {
		log.Errorf("marshal form settings: %s", err)
		http.Error(w, "get form failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(formJson))
}
