package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"passport/pkg/requestcontext"
)

// SponsorValidator verifies a signed sponsor token and returns its claims.
type SponsorValidator interface {
	Validate(tokenString string) (*SponsorClaims, error)
}

// SponsorClaims represents the claims we expect from the sponsor validator.
type SponsorClaims struct {
	SponsorID   string
	SponsorName string
}

// RequireSponsor rejects requests that do not carry a valid sponsor token.
// Every failure mode (missing header, malformed token, bad signature,
// expiry) yields the same response so callers learn nothing about which
// check failed.
func RequireSponsor(validator SponsorValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "sponsor auth missing token",
					"request_id", GetRequestID(ctx),
				)
				writeUniformRejection(w)
				return
			}

			claims, err := validator.Validate(token)
			if err != nil {
				logger.WarnContext(ctx, "sponsor auth rejected token",
					"error", err,
					"request_id", GetRequestID(ctx),
				)
				writeUniformRejection(w)
				return
			}

			ctx = requestcontext.WithSponsorID(ctx, claims.SponsorID)
			ctx = requestcontext.WithSponsorName(ctx, claims.SponsorName)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUniformRejection(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"forbidden","error_description":"invalid or expired token"}`))
}
