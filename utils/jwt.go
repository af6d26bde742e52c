package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the decoded content of a session token. The role is
// not carried; it is read from the account on every request.
type SessionClaims struct {
	UserID   uint
	IssuedAt time.Time
	Expires  time.Time
}

func GenerateSessionToken(secret string, userID uint, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("session secret is empty")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  userID,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	})
	return token.SignedString([]byte(secret))
}

func ValidateToken(secret, tokenString string) (*SessionClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("error parsing token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	idFloat, ok := claims["id"].(float64)
	if !ok || idFloat <= 0 {
		return nil, errors.New("id not found or invalid type")
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, errors.New("invalid or missing expiration claim")
	}
	out := &SessionClaims{
		UserID:  uint(idFloat),
		Expires: exp.Time,
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	return out, nil
}

// NeedsRenewal reports whether less than half of the session lifetime is
// left, in which case the caller re-issues the token.
func (s *SessionClaims) NeedsRenewal(ttl time.Duration, now time.Time) bool {
	return s.Expires.Sub(now) < ttl/2
}
