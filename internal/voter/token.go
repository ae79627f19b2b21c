// Package voter issues and validates the anonymous voter identity used as
// the upvote idempotence key. The identity is a signed token carrying a
// random voter id; a browser holds one for the lifetime of its session and
// presents it on every request and websocket connect.
package voter

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName is the browser cookie carrying the voter token.
const CookieName = "voter_token"

var ErrInvalidToken = errors.New("invalid voter token")

// Claims holds the voter id alongside standard registered claims.
type Claims struct {
	VoterID string `json:"voter_id"`
	jwt.RegisteredClaims
}

// Service signs and validates voter tokens.
type Service struct {
	secret      []byte
	expireHours int
}

// NewService creates a voter token service.
func NewService(secret string, expireHours int) *Service {
	return &Service{
		secret:      []byte(secret),
		expireHours: expireHours,
	}
}

// Issue creates a token for a fresh random voter id and returns both.
func (s *Service) Issue() (token, voterID string, err error) {
	voterID = uuid.NewString()
	claims := Claims{
		VoterID: voterID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(s.expireHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ID:        uuid.NewString(),
		},
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", "", err
	}
	return token, voterID, nil
}

// Validate parses a token and returns the voter id it carries.
func (s *Service) Validate(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.VoterID == "" {
		return "", ErrInvalidToken
	}
	return claims.VoterID, nil
}
