package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/s21platform/chat-sync/internal/model"
)

// Parser reads the realtime connect token. Without a secret the signature is not checked:
// the server verifies it on connect, the client only needs the claims.
type Parser struct {
	secret []byte
}

func New(secret string) *Parser {
	return &Parser{
		secret: []byte(secret),
	}
}

func (p *Parser) GenerateConnectToken(userID string, ttl time.Duration) (string, int64, error) {
	if len(p.secret) == 0 {
		return "", 0, errors.New("failed to sign connect JWT token: no secret configured")
	}
	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := model.ConnectClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(p.secret)
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign connect JWT token: %w", err)
	}

	return tokenString, expiresAt.Unix(), nil
}

// ParseConnectToken returns the token claims. Expiry is not enforced here; see Expired.
func (p *Parser) ParseConnectToken(tokenString string) (*model.ConnectClaims, error) {
	claims := &model.ConnectClaims{}

	if len(p.secret) == 0 {
		if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
			return nil, fmt.Errorf("failed to parse connect JWT token: %w", err)
		}
	} else {
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return p.secret, nil
		}, jwt.WithoutClaimsValidation())
		if err != nil {
			return nil, fmt.Errorf("failed to parse connect JWT token: %w", err)
		}
		if !token.Valid {
			return nil, fmt.Errorf("invalid connect JWT token")
		}
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("invalid connect JWT token: missing subject")
	}
	return claims, nil
}

// Expired reports whether the claims carry an expiry at or before now.
func Expired(claims *model.ConnectClaims, now time.Time) bool {
	if claims == nil || claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}
