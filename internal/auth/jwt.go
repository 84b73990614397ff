package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is applied when no TTL is configured.
const DefaultTokenTTL = 30 * time.Minute

// ErrInvalidToken is returned for malformed, tampered or expired tokens.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the verified identity carried by a bearer token.
type Claims struct {
	UserID uint
	Email  string
}

// TokenIssuer signs and verifies HS256 bearer tokens. Rotating the
// secret invalidates every outstanding token.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}

	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

func (i *TokenIssuer) Issue(userID uint, email string) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"sub":     email,
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(i.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

func (i *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	})

	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)

	if !ok {
		return nil, ErrInvalidToken
	}

	userIDFloat, ok := mapClaims["user_id"].(float64)

	if !ok {
		return nil, ErrInvalidToken
	}

	email, ok := mapClaims["sub"].(string)

	if !ok {
		return nil, ErrInvalidToken
	}

	return &Claims{UserID: uint(userIDFloat), Email: email}, nil
}
