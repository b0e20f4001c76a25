// Package service implements sponsor authentication and credential
// provisioning.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"passport/internal/sponsor/metrics"
	"passport/internal/sponsor/models"
	"passport/internal/sponsor/store/sponsor"
	dErrors "passport/pkg/domain-errors"
	"passport/pkg/platform/sentinel"
	"passport/pkg/requestcontext"
)

// TokenIssuer signs sponsor tokens after a successful login.
type TokenIssuer interface {
	Issue(sponsor models.Sponsor, now time.Time) (string, error)
}

// Service authenticates sponsors and issues their signed tokens.
type Service struct {
	sponsors sponsor.Store
	issuer   TokenIssuer
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type serviceConfig struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*serviceConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *serviceConfig) { cfg.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(cfg *serviceConfig) { cfg.metrics = m }
}

func New(sponsors sponsor.Store, issuer TokenIssuer, opts ...Option) *Service {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return &Service{
		sponsors: sponsors,
		issuer:   issuer,
		logger:   cfg.logger,
		metrics:  cfg.metrics,
	}
}

// Authenticate verifies the sponsor's secret against its stored bcrypt hash
// and returns a signed token.
func (s *Service) Authenticate(ctx context.Context, sponsorID, secret string) (string, error) {
	if sponsorID == "" || secret == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, "sponsor_id and sponsor_key are required")
	}

	sp, err := s.sponsors.FindByID(ctx, sponsorID)
	if errors.Is(err, sentinel.ErrNotFound) {
		s.countFailure()
		return "", dErrors.New(dErrors.CodeNotFound, "sponsor not found")
	}
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "looking up sponsor")
	}

	if bcrypt.CompareHashAndPassword(sp.SecretHash, []byte(secret)) != nil {
		s.countFailure()
		s.logger.WarnContext(ctx, "sponsor login rejected", "sponsor_id", sponsorID)
		return "", dErrors.New(dErrors.CodeForbidden, "invalid credentials")
	}

	signed, err := s.issuer.Issue(*sp, requestcontext.Now(ctx))
	if err != nil {
		return "", err
	}
	if s.metrics != nil {
		s.metrics.TokensIssued.Inc()
	}
	return signed, nil
}

// Provision creates a sponsor account, hashing the secret before it is
// stored. An existing account with the same ID is left untouched.
func (s *Service) Provision(ctx context.Context, id, name, secret string) error {
	if id == "" || secret == "" {
		return dErrors.New(dErrors.CodeBadRequest, "sponsor id and secret are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "hashing sponsor secret")
	}

	err = s.sponsors.Create(ctx, models.Sponsor{
		ID:         id,
		Name:       name,
		SecretHash: hash,
		CreatedAt:  requestcontext.Now(ctx),
	})
	if errors.Is(err, sentinel.ErrConflict) {
		return dErrors.New(dErrors.CodeConflict, "sponsor already exists")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "creating sponsor")
	}
	return nil
}

func (s *Service) countFailure() {
	if s.metrics != nil {
		s.metrics.AuthFailures.Inc()
	}
}
