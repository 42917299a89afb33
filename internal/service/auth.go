package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/mealplanner/backend/internal/apperr"
	"github.com/pageza/mealplanner/backend/internal/types"
)

const tokenIssuer = "mealplanner"

// AuthService authenticates the single configured household account and
// issues signed session tokens.
type AuthService struct {
	username     string
	passwordHash []byte
	tokenKey     []byte
	ttl          time.Duration
	now          func() time.Time
}

func NewAuthService(username, passwordHash, tokenKey string, ttl time.Duration) *AuthService {
	return &AuthService{
		username:     username,
		passwordHash: []byte(passwordHash),
		tokenKey:     []byte(tokenKey),
		ttl:          ttl,
		now:          time.Now,
	}
}

// HashPassword returns a bcrypt hash suitable for APP_PASSWORD.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (s *AuthService) Login(_ context.Context, username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	// Compare the password even for an unknown user so timing does not reveal it.
	passErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		return "", apperr.Unauthorized(apperr.CodeInvalidCredentials, "Invalid username or password")
	}

	return s.GenerateToken(username)
}

// GenerateToken signs a session token for username.
func (s *AuthService) GenerateToken(username string) (string, error) {
	now := s.now()
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Username: username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.tokenKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.tokenKey, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, apperr.Unauthorized(apperr.CodeTokenExpired, "Session expired, please log in again")
	}
	if err != nil || claims.Username != s.username {
		return nil, apperr.Unauthorized(apperr.CodeTokenInvalid, "Invalid session")
	}
	return claims, nil
}
