package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

var (
	ErrEmptyToken   = errors.New("token string is empty")
	ErrInvalidToken = errors.New("token is not valid - unauthorized")
	ErrNoSecret     = errors.New("signing secret not configured")
)

// Signer issues and verifies HS256 tokens for one role.
type Signer struct {
	secret []byte
	role   Role
	ttl    time.Duration
	now    func() time.Time
}

func NewSigner(secret string, role Role, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Signer{
		secret: []byte(secret),
		role:   role,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *Signer) CreateToken(subject string) (TokenResponse, error) {
	if len(s.secret) == 0 {
		return TokenResponse{}, ErrNoSecret
	}

	expires := s.now().Add(s.ttl).Unix()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": int(s.role),
		"exp":  expires,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return TokenResponse{}, fmt.Errorf("sign token: %w", err)
	}

	return TokenResponse{AccessToken: tokenString, ExpiresAt: expires}, nil
}

func (s *Signer) ParseToken(tokenString string) (Claims, error) {
	if tokenString == "" {
		return Claims{}, ErrEmptyToken
	}
	if len(s.secret) == 0 {
		return Claims{}, ErrNoSecret
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("unauthorized: %w", err)
	}
	if !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, fmt.Errorf("claims of unauthorized type")
	}

	role, ok := mapClaims["role"].(float64)
	if !ok || Role(role) != s.role {
		return Claims{}, fmt.Errorf("%w: wrong role", ErrInvalidToken)
	}
	exp, _ := mapClaims["exp"].(float64)
	if int64(exp) < s.now().Unix() {
		return Claims{}, fmt.Errorf("%w: expired", ErrInvalidToken)
	}
	sub, _ := mapClaims["sub"].(string)

	return Claims{Subject: sub, Role: s.role, ExpiresAt: int64(exp)}, nil
}
