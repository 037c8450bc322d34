package auth

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"hrms/internal/model"
)

const issuer = "hrms"

// ErrInvalidToken indicates the token failed signature or claim validation.
var ErrInvalidToken = errors.New("invalid token")

// Secret returns the signing key from JWT_SECRET. In release mode a missing
// secret is fatal; in development a fixed fallback keeps local runs working.
func Secret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		secret = "default_super_secret_key" // Development fallback only — DO NOT use in production
	}
	return []byte(secret)
}

// Claims is the access-token payload. CompanyID is the company context the
// session was derived for; ID (jti) keys the revocation blacklist.
type Claims struct {
	Role      model.Role `json:"role"`
	CompanyID string     `json:"company_id,omitempty"`
	jwt.RegisteredClaims
}

// IssueAccessToken signs a short-lived HS256 JWT for the user in the given
// company context and returns the token with its jti.
func IssueAccessToken(userID uuid.UUID, role model.Role, companyID *uuid.UUID, ttl time.Duration) (token string, jti string, err error) {
	if !role.Valid() {
		return "", "", errors.New("unknown role")
	}
	now := time.Now().UTC()
	jti = uuid.NewString()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        jti,
		},
	}
	if companyID != nil {
		claims.CompanyID = companyID.String()
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(Secret())
	if err != nil {
		return "", "", errors.New("failed to sign token")
	}
	return signed, jti, nil
}

// ParseAccessToken verifies signature, method and claims. Revocation is the
// caller's concern; a parsed token is not yet a trusted one.
func ParseAccessToken(raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return Secret(), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if claims.Issuer != issuer || claims.Subject == "" || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	if !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// UserID parses the token subject.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// Company parses the company context, nil when the session is global.
func (c *Claims) Company() *uuid.UUID {
	if c.CompanyID == "" {
		return nil
	}
	id, err := uuid.Parse(c.CompanyID)
	if err != nil {
		return nil
	}
	return &id
}
