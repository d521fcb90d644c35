package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-testing"

func TestGenerateToken(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		opts    TokenOptions
	}{
		{
			name:    "Regular user",
			subject: "0b7c5f3e-1111-4c1b-9d7e-aaaaaaaaaaaa",
			opts: TokenOptions{
				Email:    "test@example.com",
				Metadata: UserMetadata{FullName: "Test User"},
			},
		},
		{
			name:    "Anonymous session",
			subject: "0b7c5f3e-2222-4c1b-9d7e-bbbbbbbbbbbb",
			opts:    TokenOptions{IsAnonymous: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateToken(tt.subject, tt.opts, testSecret, 15*time.Minute)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := ValidateToken(token, testSecret)
			require.NoError(t, err)
			assert.Equal(t, tt.subject, claims.Subject)
			assert.Equal(t, tt.opts.Email, claims.Email)
			assert.Equal(t, tt.opts.IsAnonymous, claims.IsAnonymous)
			assert.Equal(t, tt.opts.Metadata.FullName, claims.UserMetadata.DisplayName())
		})
	}
}

func TestValidateToken(t *testing.T) {
	valid, err := GenerateToken("user-123", TokenOptions{Email: "test@example.com"}, testSecret, 15*time.Minute)
	require.NoError(t, err)

	noSubject, err := GenerateToken("", TokenOptions{}, testSecret, 15*time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr error
	}{
		{
			name:    "Valid token",
			token:   valid,
			secret:  testSecret,
			wantErr: nil,
		},
		{
			name:    "Invalid secret",
			token:   valid,
			secret:  "wrong-secret",
			wantErr: ErrInvalidToken,
		},
		{
			name:    "Invalid token format",
			token:   "invalid.token.format",
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
		{
			name:    "Empty token",
			token:   "",
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
		{
			name:    "Missing subject",
			token:   noSubject,
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, tt.secret)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
			} else {
				require.NoError(t, err)
				require.NotNil(t, claims)
				assert.Equal(t, "user-123", claims.Subject)
				assert.Equal(t, "test@example.com", claims.Email)
			}
		})
	}
}

func TestExpiredToken(t *testing.T) {
	token, err := GenerateToken("user-1", TokenOptions{}, testSecret, -1*time.Minute)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}

func TestValidateTokenIssuer(t *testing.T) {
	token, err := GenerateToken("user-1", TokenOptions{Issuer: "https://auth.example.com/auth/v1"}, testSecret, time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, testSecret, "https://auth.example.com/auth/v1")
	assert.NoError(t, err)

	_, err = ValidateToken(token, testSecret, "https://other.example.com")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// empty issuer disables the check
	_, err = ValidateToken(token, testSecret, "")
	assert.NoError(t, err)
}

func TestUserMetadataDisplayName(t *testing.T) {
	assert.Equal(t, "Full", UserMetadata{FullName: "Full", Name: "Short"}.DisplayName())
	assert.Equal(t, "Short", UserMetadata{Name: "Short"}.DisplayName())
	assert.Equal(t, "", UserMetadata{}.DisplayName())
}
