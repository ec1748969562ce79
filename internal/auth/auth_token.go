package auth

import (
	"errors"
	"os"
	"time"

	autherrors "go-hrops/internal/auth/errors"

	"github.com/golang-jwt/jwt/v5"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type tokenClaims struct {
	UserID    string
	ProfileID string
	Role      string
	Type      string
}

func secret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

func signToken(c tokenClaims, ttl time.Duration, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    c.UserID,
		"profile_id": c.ProfileID,
		"role":       c.Role,
		"typ":        c.Type,
		"iat":        now.Unix(),
		"exp":        now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

func parseToken(raw, wantType string) (tokenClaims, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return secret(), nil
	})
	if err != nil || !token.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return tokenClaims{}, autherrors.ErrTokenExpired
		}
		return tokenClaims{}, autherrors.ErrInvalidToken
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return tokenClaims{}, autherrors.ErrInvalidToken
	}
	c := tokenClaims{}
	c.UserID, _ = mc["user_id"].(string)
	c.ProfileID, _ = mc["profile_id"].(string)
	c.Role, _ = mc["role"].(string)
	c.Type, _ = mc["typ"].(string)
	if c.UserID == "" || c.Type != wantType {
		return tokenClaims{}, autherrors.ErrInvalidToken
	}
	return c, nil
}
