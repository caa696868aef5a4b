package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/loresagaashi/cv-converter-agent/pkg/kernel"
)

// Config holds JWT settings injected from the environment
type Config struct {
	SecretKey      string
	AccessTokenTTL time.Duration
	Issuer         string
}

// DefaultConfig returns sane defaults; the secret must be overridden
func DefaultConfig() Config {
	return Config{
		AccessTokenTTL: 24 * time.Hour,
		Issuer:         "cv-converter-agent",
	}
}

// Claims are the token claims carried by an access token
type Claims struct {
	UserID  kernel.UserID `json:"user_id"`
	IsAdmin bool          `json:"is_admin"`
	jwt.RegisteredClaims
}

// TokenService issues and validates access tokens
type TokenService interface {
	GenerateAccessToken(userID kernel.UserID, isAdmin bool) (string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
}

type jwtService struct {
	config Config
}

// NewJWTService creates a TokenService backed by HMAC-signed JWTs
func NewJWTService(config Config) TokenService {
	return &jwtService{config: config}
}

func (s *jwtService) GenerateAccessToken(userID kernel.UserID, isAdmin bool) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:  userID,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.AccessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *jwtService) ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.config.SecretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
