package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/gymlog/internal/gymlog/analyzer"
	"github.com/2beens/gymlog/internal/gymlog/export"
	"github.com/2beens/gymlog/internal/gymlog/sessions"
	"github.com/2beens/gymlog/internal/telemetry/tracing"
	"github.com/2beens/gymlog/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type LogBoundsResponse struct {
	Empty     bool     `json:"empty"`
	From      string   `json:"from,omitempty"`
	To        string   `json:"to,omitempty"`
	Users     []string `json:"users"`
	Exercises []string `json:"exercises"`
}

type LatestWeightResponse struct {
	User     string  `json:"user"`
	Exercise string  `json:"exercise"`
	Weight   float64 `json:"weight"`
}

// filterFromQuery reads ?user=..&user=..&exercise=..&from=YYYY-MM-DD&to=YYYY-MM-DD
func filterFromQuery(r *http.Request) (analyzer.LogFilter, error) {
	query := r.URL.Query()
	filter := analyzer.LogFilter{
		Users:     nonEmpty(query["user"]),
		Exercises: nonEmpty(query["exercise"]),
	}

	parseDate := func(param string) (*time.Time, error) {
		value := strings.TrimSpace(query.Get(param))
		if value == "" {
			return nil, nil
		}
		d, err := sessions.ParseDate(value)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", param, err)
		}
		return &d, nil
	}

	var err error
	if filter.From, err = parseDate("from"); err != nil {
		return analyzer.LogFilter{}, err
	}
	if filter.To, err = parseDate("to"); err != nil {
		return analyzer.LogFilter{}, err
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return analyzer.LogFilter{}, fmt.Errorf("from after to")
	}

	return filter, nil
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (h *Handler) HandleLog(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymlog.log")
	defer span.End()

	filter, err := filterFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rows, err := h.log.Query(ctx, filter)
	if err != nil {
		log.Errorf("get exercise log: %s", err)
		http.Error(w, "get exercise log failed", http.StatusInternalServerError)
		span.RecordError(err)
		return
	}
	if rows == nil {
		rows = []analyzer.LogRow{}
	}
	span.SetAttributes(attribute.Int("rows.count", len(rows)))

	rowsJson, err := json.Marshal(rows)
	if err != nil {
		log.Errorf("marshal exercise log: %s", err)
		http.Error(w, "get exercise log failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(rowsJson))
}

func (h *Handler) HandleLogBounds(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymlog.log.bounds")
	defer span.End()

	rows, err := h.log.Query(ctx, analyzer.LogFilter{})
	if err != nil {
		log.Errorf("get exercise log bounds: %s", err)
		http.Error(w, "get exercise log bounds failed", http.StatusInternalServerError)
		span.RecordError(err)
		return
	}

	resp := LogBoundsResponse{
		Empty:     true,
		Users:     analyzer.Users(rows),
		Exercises: analyzer.Exercises(rows),
	}
	if from, to, ok := analyzer.DateBounds(rows); ok {
		resp.Empty = false
		resp.From = from.Format(sessions.DateLayout)
		resp.To = to.Format(sessions.DateLayout)
	}

	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal exercise log bounds: %s", err)
		http.Error(w, "get exercise log bounds failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(respJson))
}

var exportContentTypes = map[string]string{
	"csv":  pkg.ContentType.CSV,
	"json": pkg.ContentType.JSON,
	"yaml": pkg.ContentType.YAML,
}

func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymlog.log.export")
	defer span.End()

	exporter, err := export.NewExporter(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("format", exporter.Extension()))

	rows, err := h.log.Query(ctx, analyzer.LogFilter{})
	if err != nil {
		log.Errorf("export exercise log: %s", err)
		http.Error(w, "export exercise log failed", http.StatusInternalServerError)
		span.RecordError(err)
		return
	}

	var buf bytes.Buffer
	if err := exporter.Export(rows, &buf); err != nil {
		log.Errorf("export exercise log as %s: %s", exporter.Extension(), err)
		http.Error(w, "export exercise log failed", http.StatusInternalServerError)
		span.RecordError(err)
		return
	}

	pkg.WriteAttachment(w, exportContentTypes[exporter.Extension()], export.FileName(exporter), buf.Bytes())
}

func (h *Handler) HandleLatestWeight(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymlog.latestweight")
	defer span.End()

	user := strings.TrimSpace(r.URL.Query().Get("user"))
	exercise := strings.TrimSpace(r.URL.Query().Get("exercise"))
	if user == "" || exercise == "" {
		http.Error(w, "user and exercise are required", http.StatusBadRequest)
		return
	}
	span.SetAttributes(
		attribute.String("user", user),
		attribute.String("exercise", exercise),
	)

	rows, err := h.log.Query(ctx, analyzer.LogFilter{
		Users:     []string{user},
		Exercises: []string{exercise},
	})
	if err != nil {
		log.Errorf("get latest weight: %s", err)
		http.Error(w, "get latest weight failed", http.StatusInternalServerError)
		span.RecordError(err)
		return
	}

	respJson, err := json.Marshal(LatestWeightResponse{
		User:     user,
		Exercise: exercise,
		Weight:   analyzer.LatestWeightIn(rows, user, exercise),
	})
	if err != nil {
		log.Errorf("marshal latest weight: %s", err)
		http.Error(w, "get latest weight failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(respJson))
}
