package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTManager issues and verifies the stateless session credential.
// Tokens are HS256-signed with a single server-held secret and carry a
// fixed time-to-live; there is no server-side session table and no
// revocation before expiry.
type JWTManager struct {
	Secret []byte
	TTL    time.Duration
}

var ErrInvalidToken = errors.New("invalid token")

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{Secret: []byte(secret), TTL: ttl}
}

// TokenUser is the identity embedded in the token payload.
type TokenUser struct {
	ID string `json:"id"`
}

// Claims binds the user identity to the registered issuance/expiry
// metadata. The payload shape is {"user":{"id":...}}.
type Claims struct {
	User TokenUser `json:"user"`
	jwt.RegisteredClaims
}

// Generate signs a token for userID expiring TTL from now.
func (m *JWTManager) Generate(userID string) (string, time.Time, error) {
	exp := time.Now().Add(m.TTL)
	claims := &Claims{
		User: TokenUser{ID: userID},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

// Parse verifies signature and expiry and returns the embedded user id.
// Malformed, tampered and expired tokens all collapse into
// ErrInvalidToken so callers cannot tell which check failed.
func (m *JWTManager) Parse(tokenStr string) (string, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	})
	if err != nil || !tkn.Valid || claims.User.ID == "" {
		return "", ErrInvalidToken
	}
	return claims.User.ID, nil
}
