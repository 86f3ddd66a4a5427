// Package auth issues the session tokens the websocket transport requires.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/form3tech-oss/jwt-go"
	"github.com/google/uuid"
)

const (
	DefaultTTL    = 12 * time.Hour
	DefaultName   = "Golfer"
	MaxNameLength = 24
)

var (
	ErrNoSecret     = errors.New("token secret is not configured")
	ErrInvalidToken = errors.New("invalid session token")
)

// Claims identifies a player for the lifetime of a session token.
type Claims struct {
	PlayerID string
	Name     string
}

// TokenService signs and verifies HS256 session tokens.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenService returns a service signing with secret. A zero ttl uses DefaultTTL.
func NewTokenService(secret, issuer string, ttl time.Duration) *TokenService {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &TokenService{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// Issue creates a fresh player identity for name and signs it.
func (s *TokenService) Issue(name string) (Claims, string, error) {
	if len(s.secret) == 0 {
		return Claims{}, "", ErrNoSecret
	}
	c := Claims{PlayerID: uuid.NewString(), Name: CleanName(name)}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss":  s.issuer,
		"sub":  c.PlayerID,
		"name": c.Name,
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
		"jti":  uuid.NewString(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return Claims{}, "", fmt.Errorf("sign token: %w", err)
	}
	return c, signed, nil
}

// Verify checks signature, expiry and issuer and returns the player identity.
func (s *TokenService) Verify(tokenString string) (Claims, error) {
	if len(s.secret) == 0 {
		return Claims{}, ErrNoSecret
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	if !claims.VerifyIssuer(s.issuer, true) {
		return Claims{}, fmt.Errorf("%w: wrong issuer", ErrInvalidToken)
	}

	sub, _ := claims["sub"].(string)
	if _, err := uuid.Parse(sub); err != nil {
		return Claims{}, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	name, _ := claims["name"].(string)
	return Claims{PlayerID: sub, Name: CleanName(name)}, nil
}

// CleanName trims a display name to something safe to show other players.
func CleanName(name string) string {
	name = strings.TrimSpace(strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || r == '{' || r == '}' {
			return -1
		}
		return r
	}, name))
	if name == "" {
		return DefaultName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		name = string([]rune(name)[:MaxNameLength])
	}
	return name
}
