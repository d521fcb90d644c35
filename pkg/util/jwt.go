package util

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// UserMetadata profile fields the identity provider attaches to its tokens
type UserMetadata struct {
	FullName  string `json:"full_name,omitempty"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// DisplayName returns the best available display name
func (m UserMetadata) DisplayName() string {
	if m.FullName != "" {
		return m.FullName
	}
	return m.Name
}

// AuthClaims claims of an identity-provider access token.
// Subject (sub) identifies the user at the provider.
type AuthClaims struct {
	Email        string       `json:"email,omitempty"`
	IsAnonymous  bool         `json:"is_anonymous,omitempty"`
	UserMetadata UserMetadata `json:"user_metadata"`
	jwt.RegisteredClaims
}

// TokenOptions optional claims for GenerateToken
type TokenOptions struct {
	Email       string
	IsAnonymous bool
	Metadata    UserMetadata
	Issuer      string
}

// GenerateToken signs an HS256 token in the identity provider's format.
// Used by tests and local tooling; production tokens come from the provider.
func GenerateToken(subject string, opts TokenOptions, secret string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := AuthClaims{
		Email:        opts.Email,
		IsAnonymous:  opts.IsAnonymous,
		UserMetadata: opts.Metadata,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    opts.Issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies signature, expiry and (when set) issuer
func ValidateToken(tokenString, secret string, issuer ...string) (*AuthClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if len(issuer) > 0 && issuer[0] != "" {
		opts = append(opts, jwt.WithIssuer(issuer[0]))
	}

	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}
