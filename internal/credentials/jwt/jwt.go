// Package jwt mints and verifies the control plane's signed session tokens:
// operator logins and tenant impersonation grants. Both are HS256 JWTs with
// the same issuer; the claim set tells them apart.
package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"kurspanel/pkg/domain"
	dErrors "kurspanel/pkg/domain-errors"
	"kurspanel/pkg/platform/middleware/operator"
)

const issuer = "kurspanel"

// Claims is the signed session payload.
type Claims struct {
	jwt.RegisteredClaims
	Role         string   `json:"role"`
	TenantID     string   `json:"tenant_id,omitempty"`
	Scopes       []string `json:"scopes,omitempty"`
	Impersonated bool     `json:"impersonated,omitempty"`
	ActorName    string   `json:"actor_name,omitempty"`
}

// Signer issues and verifies session tokens.
type Signer struct {
	key []byte
}

func NewSigner(signingKey string) *Signer {
	return &Signer{key: []byte(signingKey)}
}

// IssueOperator mints an operator session token carrying capability scopes.
func (s *Signer) IssueOperator(name string, scopes []string, now time.Time, ttl time.Duration) (string, time.Time, error) {
	expiresAt := now.Add(ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   name,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role:   operator.RolePlatformOperator,
		Scopes: scopes,
	}
	token, err := s.sign(claims)
	return token, expiresAt, err
}

// IssueImpersonation mints a tenant-admin session for the named operator.
// The operator's identity stays in the claims so audit entries attribute
// every impersonated action to the operator, not the tenant.
func (s *Signer) IssueImpersonation(actorName string, tenant domain.TenantID, now time.Time, ttl time.Duration) (string, time.Time, error) {
	expiresAt := now.Add(ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   tenant.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role:         operator.RoleTenantAdmin,
		TenantID:     tenant.String(),
		Impersonated: true,
		ActorName:    actorName,
	}
	token, err := s.sign(claims)
	return token, expiresAt, err
}

func (s *Signer) sign(claims Claims) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign session token")
	}
	return signed, nil
}

// Verify parses and validates a session token and maps it to a principal.
func (s *Signer) Verify(tokenString string, now time.Time) (*operator.Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return s.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil || !token.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired session token")
	}

	return &operator.Principal{
		Name:         claims.Subject,
		Role:         claims.Role,
		TenantID:     domain.TenantID(claims.TenantID),
		Impersonated: claims.Impersonated,
		ActorName:    claims.ActorName,
		Scopes:       claims.Scopes,
	}, nil
}
