package crypto

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/popcatalog/popcatalog-go/internal/model"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims are the token claims for catalog authentication. The claim
// surface is deliberately minimal: identity and role, nothing else.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"userid"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// GenerateToken creates a signed HS256 token for the given user.
func GenerateToken(user model.User, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken parses and validates a token string, returning the claims
// if the signature matches the secret and the token has not expired.
func ValidateToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// VerifyToken reports whether a token is valid. It never returns an error;
// malformed, forged and expired tokens all verify as false.
func VerifyToken(tokenString, secret string) bool {
	_, err := ValidateToken(tokenString, secret)
	return err == nil
}
