// Package service implements the identity directory, contact disclosure,
// unlock-key issuance, and profile mutation operations.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"passport/internal/attendee/metrics"
	"passport/internal/attendee/models"
	"passport/internal/attendee/shortcode"
	"passport/internal/attendee/store/user"
	"passport/internal/lockout"
	"passport/internal/scanqueue"
	dErrors "passport/pkg/domain-errors"
	"passport/pkg/email"
	"passport/pkg/platform/sentinel"
	"passport/pkg/requestcontext"
)

// credentialRejected is the single message returned for every credential
// failure so responses never reveal which check failed.
const credentialRejected = "invalid credentials"

// Service orchestrates passport record operations over the directory store.
type Service struct {
	users   user.Store
	queue   scanqueue.Emitter
	guard   lockout.Guard
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type serviceConfig struct {
	queue   scanqueue.Emitter
	guard   lockout.Guard
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*serviceConfig)

func WithEmitter(queue scanqueue.Emitter) Option {
	return func(cfg *serviceConfig) { cfg.queue = queue }
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *serviceConfig) { cfg.logger = logger }
}

// WithLockout installs the credential brute-force guard.
func WithLockout(guard lockout.Guard) Option {
	return func(cfg *serviceConfig) { cfg.guard = guard }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(cfg *serviceConfig) { cfg.metrics = m }
}

func New(users user.Store, opts ...Option) *Service {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.queue == nil {
		cfg.queue = scanqueue.Nop{}
	}
	if cfg.guard == nil {
		cfg.guard = lockout.Nop{}
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return &Service{
		users:   users,
		queue:   cfg.queue,
		guard:   cfg.guard,
		logger:  cfg.logger,
		metrics: cfg.metrics,
	}
}

// Ingest creates a passport record from a registration event. The underlying
// write is conditional: an attendee whose profile was already initialized is
// left untouched and the call reports created=false. Safe to retry.
func (s *Service) Ingest(ctx context.Context, reg models.Registration) (*models.User, bool, error) {
	if strings.TrimSpace(reg.Barcode) == "" {
		return nil, false, dErrors.New(dErrors.CodeBadRequest, "barcode is required")
	}

	// The short code hashes the raw registration fields, so the display-name
	// fallback below must never feed into it.
	code := shortcode.Derive(reg.Barcode, reg.Email, reg.FirstName, reg.LastName)

	firstName, lastName := reg.FirstName, reg.LastName
	if firstName == "" && lastName == "" && reg.Email != "" {
		firstName, lastName = email.FallbackName(reg.Email)
	}

	now := requestcontext.Now(ctx)
	u := &models.User{
		ID:        reg.Barcode,
		ShortCode: code,
		FirstName: firstName,
		LastName:  lastName,
		Company:   reg.Company,
		Role:      reg.Role,
		Gender:    reg.Gender,
		Contact: models.ContactInfo{
			Email: reg.Email,
			Phone: reg.Phone,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.users.CreateIfUninitialized(ctx, u); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			s.logger.InfoContext(ctx, "ingest skipped, record already initialized",
				"short_code", u.ShortCode,
				"request_id", requestcontext.RequestID(ctx),
			)
			if s.metrics != nil {
				s.metrics.IngestsSkipped.Inc()
			}
			return u, false, nil
		}
		return nil, false, dErrors.Wrap(err, dErrors.CodeUnavailable, "directory unavailable")
	}

	s.queue.Emit(ctx, scanqueue.Event{
		Kind:       scanqueue.KindAttendeeIngested,
		UserID:     u.ID,
		OccurredAt: now,
	})
	if s.metrics != nil {
		s.metrics.AttendeesIngested.Inc()
	}
	return u, true, nil
}

// Resolve maps a public short code to its passport record.
func (s *Service) Resolve(ctx context.Context, code string) (*models.User, error) {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ResolveDuration.Observe(time.Since(start).Seconds())
		}
	}()

	code = shortcode.Normalize(code)
	if code == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "short code is required")
	}

	u, err := s.users.FindByShortCode(ctx, code)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "short code not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "directory unavailable")
	}
	return u, nil
}

// ActivationStatus reports which unlock proof methods a record supports and
// whether first-time setup already happened. The badge web client uses this
// to pick the right activation screen.
func (s *Service) ActivationStatus(ctx context.Context, code string) (method string, initialized bool, err error) {
	u, err := s.Resolve(ctx, code)
	if err != nil {
		return "", false, err
	}
	return u.ContactMethods(), u.Initialized, nil
}
