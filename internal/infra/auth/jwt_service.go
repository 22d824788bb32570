// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"authflow/config"
	"authflow/internal/domain/entity"
	"authflow/internal/domain/service"
)

const challengeEntropyBytes = 32

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	accessSecret    []byte        // Secret key for signing access tokens.
	refreshSecret   []byte        // Secret key for signing refresh tokens.
	challengeSecret []byte        // Key mixed into every generated challenge.
	accessTTL       time.Duration // Time-to-live for access tokens.
	refreshTTL      time.Duration // Time-to-live for refresh tokens.
	now             func() time.Time
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" || cfg.SecretKey.Refresh == "" || cfg.SecretKey.Challenge == "" {
		return nil, errors.New("jwt and challenge secrets must be provided")
	}

	accessTTL, refreshTTL := 5*time.Minute, 24*time.Hour
	if cfg.Auth != nil {
		if cfg.Auth.AccessTTL > 0 {
			accessTTL = cfg.Auth.AccessTTL
		}
		if cfg.Auth.RefreshTTL > 0 {
			refreshTTL = cfg.Auth.RefreshTTL
		}
	}

	return &jwtService{
		accessSecret:    []byte(cfg.SecretKey.Access),
		refreshSecret:   []byte(cfg.SecretKey.Refresh),
		challengeSecret: []byte(cfg.SecretKey.Challenge),
		accessTTL:       accessTTL,
		refreshTTL:      refreshTTL,
		now:             time.Now,
	}, nil
}

// Issue creates a new session for the account. Both tokens carry the same challenge.
func (s *jwtService) Issue(accountID uuid.UUID, scope entity.Scope) (*entity.Session, error) {
	challenge, err := s.newChallenge()
	if err != nil {
		return nil, err
	}

	now := s.now()
	session := &entity.Session{
		AccountID:        accountID,
		Scope:            scope,
		Challenge:        challenge,
		AccessExpiresAt:  now.Add(s.accessTTL),
		RefreshExpiresAt: now.Add(s.refreshTTL),
	}

	session.RefreshToken, err = s.sign(accountID, scope, challenge, service.TokenTypeRefresh, now, session.RefreshExpiresAt, s.refreshSecret)
	if err != nil {
		return nil, err
	}

	session.AccessToken, err = s.sign(accountID, scope, challenge, service.TokenTypeAccess, now, session.AccessExpiresAt, s.accessSecret)
	if err != nil {
		return nil, err
	}

	return session, nil
}

// ValidateToken checks the validity of a token string of the given type.
func (s *jwtService) ValidateToken(tokenString, tokenType string) (*service.Claims, error) {
	var secret []byte
	switch tokenType {
	case service.TokenTypeAccess:
		secret = s.accessSecret
	case service.TokenTypeRefresh:
		secret = s.refreshSecret
	default:
		return nil, errors.Errorf("unknown token type %q", tokenType)
	}

	claims := &service.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, errors.Wrap(err, "parse token")
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}
	if claims.Type != tokenType {
		return nil, errors.Errorf("expected %s token, got %q", tokenType, claims.Type)
	}

	return claims, nil
}

// HashToken returns the hex SHA-256 digest of a credential.
func (s *jwtService) HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))

	return hex.EncodeToString(sum[:])
}

func (s *jwtService) sign(accountID uuid.UUID, scope entity.Scope, challenge, tokenType string, issuedAt, expiresAt time.Time, secret []byte) (string, error) {
	claims := service.Claims{
		AccountID: accountID,
		Scope:     scope,
		Challenge: challenge,
		Type:      tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", errors.Wrapf(err, "sign %s token", tokenType)
	}

	return signed, nil
}

// newChallenge keys fresh randomness with the challenge secret.
func (s *jwtService) newChallenge() (string, error) {
	nonce := make([]byte, challengeEntropyBytes)
	if _, err := rand.Read(nonce); err != nil {
		return "", errors.Wrap(err, "read challenge entropy")
	}

	mac := hmac.New(sha256.New, s.challengeSecret)
	mac.Write(nonce)

	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil)), nil
}
