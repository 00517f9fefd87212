package sessions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/gymlog/internal/telemetry/metrics"
	"github.com/2beens/gymlog/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type Service struct {
	store          DocumentStore
	catalog        Catalog
	metricsManager *metrics.Manager
	now            func() time.Time
}

type NewServiceParams struct {
	Store   DocumentStore
	Catalog Catalog
	// MetricsManager is optional.
	MetricsManager *metrics.Manager
	// Now defaults to time.Now.
	Now func() time.Time
}

func NewService(params NewServiceParams) *Service {
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:          params.Store,
		catalog:        params.Catalog,
		metricsManager: params.MetricsManager,
		now:            now,
	}
}

func (s *Service) Catalog() Catalog {
	return s.catalog
}

// Append validates the record, stores it under a fresh timestamp identifier,
// and confirms the write by reading it back.
func (s *Service) Append(ctx context.Context, record SessionRecord) (_ SessionRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.gymlog.sessions.append")
	defer func() {
		if err != nil {
			s.metricsManager.SessionRejected(RejectReason(err))
		}
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("user", record.User),
		attribute.String("exercise", record.Exercise),
	)

	record.Comment = strings.TrimSpace(record.Comment)
	if err := s.validate(record); err != nil {
		return SessionRecord{}, err
	}

	record.ID = NewID(s.now())
	span.SetAttributes(attribute.String("session.id", record.ID))

	doc := NewDocument(record)
	if err := s.store.CreateSession(ctx, record.ID, doc); err != nil {
		return SessionRecord{}, fmt.Errorf("create session [%s]: %w", record.ID, err)
	}

	stored, err := s.store.GetSession(ctx, record.ID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return SessionRecord{}, fmt.Errorf("%w: %w", ErrWriteNotConfirmed, err)
		}
		return SessionRecord{}, fmt.Errorf("read back session [%s]: %w", record.ID, err)
	}
	if !stored.Equal(doc) {
		return SessionRecord{}, fmt.Errorf("%w: stored session [%s] differs", ErrWriteNotConfirmed, record.ID)
	}

	s.metricsManager.SessionAppended()
	log.Debugf("session [%s] stored for user [%s], exercise [%s]", record.ID, record.User, record.Exercise)

	return record, nil
}

func (s *Service) validate(record SessionRecord) error {
	if !s.catalog.Contains(record.Exercise) {
		return fmt.Errorf("%w: %s", ErrUnknownExercise, record.Exercise)
	}
	if err := ValidateSets(record.SetReps, record.SetWeights); err != nil {
		return err
	}
	if _, err := ParseDate(record.Date); err != nil {
		return err
	}
	return nil
}

// ListAll returns every stored session except the sentinel, in no particular order.
// Documents that do not match the session schema are logged and skipped.
func (s *Service) ListAll(ctx context.Context) (_ []SessionRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.gymlog.sessions.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	stored, err := s.store.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	records := make([]SessionRecord, 0, len(stored))
	skipped := 0
	for _, sd := range stored {
		if IsSentinel(sd.ID) {
			continue
		}
		if sd.Err != nil {
			log.Warnf("skipping session [%s]: %s", sd.ID, sd.Err)
			s.metricsManager.InvalidDocument()
			skipped++
			continue
		}
		record, err := sd.Doc.Record(sd.ID)
		if err != nil {
			log.Warnf("skipping session: %s", err)
			s.metricsManager.InvalidDocument()
			skipped++
			continue
		}
		records = append(records, record)
	}

	span.SetAttributes(
		attribute.Int("sessions.count", len(records)),
		attribute.Int("sessions.skipped", skipped),
	)

	return records, nil
}

func (s *Service) ListUsers(ctx context.Context) (_ []string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.gymlog.sessions.listusers")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *Service) IsValidUser(ctx context.Context, name string) (bool, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return false, err
	}
	return ContainsUser(users, name), nil
}

// RegisterUser adds an alias to the users registry. Operator only, never exposed over HTTP.
func (s *Service) RegisterUser(ctx context.Context, alias string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.gymlog.sessions.registeruser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	alias = strings.TrimSpace(alias)
	if alias == "" {
		return ErrInvalidUser
	}
	span.SetAttributes(attribute.String("user", alias))

	if err := s.store.RegisterUser(ctx, alias); err != nil {
		return fmt.Errorf("register user [%s]: %w", alias, err)
	}
	return nil
}

func ContainsUser(users []string, name string) bool {
	for _, u := range users {
		if u == name {
			return true
		}
	}
	return false
}
