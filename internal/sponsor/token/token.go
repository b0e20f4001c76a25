// Package token issues and verifies HS256 sponsor tokens.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"passport/internal/platform/middleware"
	"passport/internal/sponsor/models"
	dErrors "passport/pkg/domain-errors"
)

const rejected = "invalid or expired token"

// Claims carries the sponsor identity inside a signed token.
type Claims struct {
	SponsorID   string `json:"sponsor_id"`
	SponsorName string `json:"sponsor_name"`
	jwt.RegisteredClaims
}

// Issuer signs and validates sponsor tokens. It implements
// middleware.SponsorValidator.
type Issuer struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
}

func NewIssuer(signingKey []byte, issuer string, ttl time.Duration) *Issuer {
	return &Issuer{signingKey: signingKey, issuer: issuer, ttl: ttl}
}

// Issue signs a token asserting the sponsor's identity until the TTL lapses.
func (i *Issuer) Issue(sponsor models.Sponsor, now time.Time) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		SponsorID:   sponsor.ID,
		SponsorName: sponsor.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    i.issuer,
		},
	})

	signed, err := tok.SignedString(i.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "signing sponsor token")
	}
	return signed, nil
}

// Validate parses and verifies a sponsor token. Every failure mode maps to
// the same forbidden error so callers cannot distinguish a forged token
// from an expired one.
func (i *Issuer) Validate(tokenString string) (*middleware.SponsorClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return i.signingKey, nil
	})
	if err != nil || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeForbidden, rejected)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.SponsorID == "" {
		return nil, dErrors.New(dErrors.CodeForbidden, rejected)
	}
	return &middleware.SponsorClaims{
		SponsorID:   claims.SponsorID,
		SponsorName: claims.SponsorName,
	}, nil
}
