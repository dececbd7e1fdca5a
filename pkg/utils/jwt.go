package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "shundor-pos"

// RegisterClaims identifies the register that calls the sales API
type RegisterClaims struct {
	RegisterID string `json:"register_id"`
	jwt.RegisteredClaims
}

// JWTManager signs and validates register tokens with a shared secret
type JWTManager struct {
	secretKey []byte
	expiry    time.Duration
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secret string, expiry time.Duration) *JWTManager {
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &JWTManager{
		secretKey: []byte(secret),
		expiry:    expiry,
	}
}

// GenerateToken signs a short-lived token for the given register
func (m *JWTManager) GenerateToken(registerID string) (string, error) {
	now := time.Now()
	claims := &RegisterClaims{
		RegisterID: registerID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   registerID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// ValidateToken validates a register token and returns its claims
func (m *JWTManager) ValidateToken(tokenString string) (*RegisterClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &RegisterClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secretKey, nil
	}, jwt.WithIssuer(tokenIssuer))

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*RegisterClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.RegisterID == "" {
		return nil, errors.New("token has no register id")
	}

	return claims, nil
}
