// Package service implements the sponsor stamp ledger: idempotent stamp
// recording with a cooldown window and the per-attendee stamp listing.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/segmentio/ksuid"

	attendee "passport/internal/attendee/models"
	"passport/internal/stamp/cooldown"
	"passport/internal/stamp/metrics"
	"passport/internal/stamp/models"
	"passport/internal/stamp/store/stamp"
	dErrors "passport/pkg/domain-errors"
	"passport/pkg/platform/sentinel"
	"passport/pkg/requestcontext"
)

// alreadyStamped is returned for every repeat scan inside the cooldown
// window, whichever layer detects it.
const alreadyStamped = "already stamped recently"

// Directory resolves attendee short codes. Satisfied by the attendee
// service.
type Directory interface {
	Resolve(ctx context.Context, code string) (*attendee.User, error)
}

// Service records and lists passport stamps.
type Service struct {
	stamps    stamp.Store
	directory Directory
	limiter   cooldown.Limiter
	window    time.Duration
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type serviceConfig struct {
	limiter cooldown.Limiter
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*serviceConfig)

// WithLimiter installs the best-effort repeat-scan guard.
func WithLimiter(l cooldown.Limiter) Option {
	return func(cfg *serviceConfig) { cfg.limiter = l }
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *serviceConfig) { cfg.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(cfg *serviceConfig) { cfg.metrics = m }
}

func New(stamps stamp.Store, directory Directory, window time.Duration, opts ...Option) *Service {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.limiter == nil {
		cfg.limiter = cooldown.Nop{}
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return &Service{
		stamps:    stamps,
		directory: directory,
		limiter:   cfg.limiter,
		window:    window,
		logger:    cfg.logger,
		metrics:   cfg.metrics,
	}
}

// RecordStamp appends a ledger row for the authenticated sponsor unless the
// pair was stamped within the cooldown window. The ledger query is the
// source of truth; the limiter only short-circuits obvious repeats.
func (s *Service) RecordStamp(ctx context.Context, code, notes string) error {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordDuration.Observe(time.Since(start).Seconds())
		}
	}()

	sponsorID := requestcontext.SponsorID(ctx)
	if sponsorID == "" {
		return dErrors.New(dErrors.CodeForbidden, "sponsor identity required")
	}
	sponsorName := requestcontext.SponsorName(ctx)

	u, err := s.directory.Resolve(ctx, code)
	if err != nil {
		return err
	}
	now := requestcontext.Now(ctx)

	reserved, err := s.limiter.Reserve(ctx, u.ID, sponsorID)
	if err != nil {
		// Advisory only. Fall through to the ledger check.
		s.logger.WarnContext(ctx, "cooldown limiter unavailable", "error", err.Error())
		reserved = true
	} else if !reserved {
		s.countRejected()
		return dErrors.New(dErrors.CodeConflict, alreadyStamped)
	}

	latest, err := s.stamps.LatestForPair(ctx, u.ID, sponsorID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		s.limiter.Release(ctx, u.ID, sponsorID)
		return dErrors.Wrap(err, dErrors.CodeInternal, "checking stamp ledger")
	}
	if latest != nil && now.Sub(latest.CreatedAt) < s.window {
		s.countRejected()
		return dErrors.New(dErrors.CodeConflict, alreadyStamped)
	}

	err = s.stamps.Append(ctx, models.Stamp{
		ID:          ksuid.New().String(),
		UserID:      u.ID,
		SponsorID:   sponsorID,
		SponsorName: sponsorName,
		Notes:       notes,
		CreatedAt:   now,
	})
	if err != nil {
		s.limiter.Release(ctx, u.ID, sponsorID)
		return dErrors.Wrap(err, dErrors.CodeInternal, "appending stamp")
	}

	if s.metrics != nil {
		s.metrics.StampsRecorded.Inc()
	}
	s.logger.InfoContext(ctx, "stamp recorded",
		"short_code", u.ShortCode,
		"sponsor_id", sponsorID,
	)
	return nil
}

// ListStamps returns the attendee's ledger entries, newest first.
func (s *Service) ListStamps(ctx context.Context, code string) ([]models.Entry, error) {
	u, err := s.directory.Resolve(ctx, code)
	if err != nil {
		return nil, err
	}

	stamps, err := s.stamps.ListByUser(ctx, u.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "listing stamps")
	}

	entries := make([]models.Entry, 0, len(stamps))
	for _, st := range stamps {
		entries = append(entries, models.Entry{
			SponsorID:   st.SponsorID,
			SponsorName: st.SponsorName,
			Notes:       st.Notes,
			Timestamp:   st.CreatedAt,
		})
	}
	return entries, nil
}

func (s *Service) countRejected() {
	if s.metrics != nil {
		s.metrics.CooldownRejected.Inc()
	}
}
