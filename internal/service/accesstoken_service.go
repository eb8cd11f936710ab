package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/fernet/fernet-go"
)

// AccessTokenTTL is how long a support access token stays valid.
const AccessTokenTTL = 30 * time.Minute

// ErrInvalidAccessToken indicates an expired, forged or malformed token.
var ErrInvalidAccessToken = errors.New("invalid or expired access token")

// AccessTokenService mints short-lived support-access tokens for the admin
// surface. Tokens are fernet-encrypted and expire after AccessTokenTTL, so
// no usable secret is ever stored at rest.
type AccessTokenService struct {
	key *fernet.Key
}

// NewAccessTokenService creates an AccessTokenService from a base64 fernet
// key (generate one with fernet.GenerateKeys).
func NewAccessTokenService(encodedKey string) (*AccessTokenService, error) {
	key, err := fernet.DecodeKey(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode access token key: %w", err)
	}
	return &AccessTokenService{key: key}, nil
}

// AccessToken is an issued token with its expiry.
type AccessToken struct {
	Token     string    `json:"token"`
	IssuedFor string    `json:"issuedFor"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Issue mints a token identifying who it was issued for.
func (s *AccessTokenService) Issue(issuedFor string, now time.Time) (AccessToken, error) {
	token, err := fernet.EncryptAndSign([]byte(issuedFor), s.key)
	if err != nil {
		return AccessToken{}, fmt.Errorf("failed to issue access token: %w", err)
	}

	return AccessToken{
		Token:     string(token),
		IssuedFor: issuedFor,
		ExpiresAt: now.UTC().Add(AccessTokenTTL),
	}, nil
}

// Verify checks a token's signature and TTL and returns who it was issued
// for.
func (s *AccessTokenService) Verify(token string) (string, error) {
	payload := fernet.VerifyAndDecrypt([]byte(token), AccessTokenTTL, []*fernet.Key{s.key})
	if payload == nil {
		return "", ErrInvalidAccessToken
	}
	return string(payload), nil
}
