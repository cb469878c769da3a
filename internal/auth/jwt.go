// Package auth provides JWT signing for admin tokens and respondent session bags.
// #IMPLEMENTATION_DECISION: HS256 with a shared secret - no key files to deploy;
// both token families are signed by the same service with distinct claim types
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kuesioner-tools/survey_backend/internal/models"
)

// Custom errors
var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenExpired  = errors.New("token has expired")
	ErrInvalidClaims = errors.New("invalid token claims")
)

// Claims represents the JWT claims for admin access tokens
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// RefreshClaims represents the JWT claims for admin refresh tokens
type RefreshClaims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	TokenType string `json:"type"`
}

// SessionClaims carries the respondent session bag across requests.
// The five fields mirror the server-side Response row; the guard re-validates
// them against the store on every step-gated request.
type SessionClaims struct {
	jwt.RegisteredClaims
	RespondentToken string `json:"respondent_token"`
	SurveyID        string `json:"survey_id"`
	SurveyCode      string `json:"survey_code"`
	ResponseID      string `json:"response_id"`
	CurrentStep     int    `json:"current_step"`
}

// IsComplete reports whether every session field is present
func (sc *SessionClaims) IsComplete() bool {
	return sc.RespondentToken != "" &&
		sc.SurveyID != "" &&
		sc.SurveyCode != "" &&
		sc.ResponseID != "" &&
		models.ResponseStep(sc.CurrentStep).IsValid()
}

// TokenPair represents an access and refresh token pair
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	ExpiresIn    int64     `json:"expires_in"`
}

// JWTService handles JWT token generation and validation
// #IMPLEMENTATION_DECISION: Service interface for testability
type JWTService interface {
	GenerateAccessToken(userID, email string) (string, time.Time, error)
	GenerateRefreshToken(userID string) (string, error)
	GenerateTokenPair(userID, email string) (*TokenPair, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*RefreshClaims, error)

	GenerateSessionToken(claims SessionClaims) (string, error)
	ValidateSessionToken(tokenString string) (*SessionClaims, error)
}

// jwtService implements JWTService
type jwtService struct {
	secret             []byte
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
	sessionExpiry      time.Duration
	issuer             string
}

// JWTConfig holds JWT service configuration
type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	SessionExpiry      time.Duration
	Issuer             string
}

// NewJWTService creates a new JWT service instance
// #LIBRARY_CHOICE: golang-jwt/jwt/v5 - well-maintained, supports HS256
func NewJWTService(cfg JWTConfig) (JWTService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	return &jwtService{
		secret:             []byte(cfg.Secret),
		accessTokenExpiry:  cfg.AccessTokenExpiry,
		refreshTokenExpiry: cfg.RefreshTokenExpiry,
		sessionExpiry:      cfg.SessionExpiry,
		issuer:             cfg.Issuer,
	}, nil
}

// GenerateAccessToken creates a new admin access token
func (s *jwtService) GenerateAccessToken(userID, email string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.accessTokenExpiry)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
		UserID: userID,
		Email:  email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// GenerateRefreshToken creates a new admin refresh token
func (s *jwtService) GenerateRefreshToken(userID string) (string, error) {
	now := time.Now()

	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
		UserID:    userID,
		TokenType: "refresh",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return tokenString, nil
}

// GenerateTokenPair creates both tokens for a login
func (s *jwtService) GenerateTokenPair(userID, email string) (*TokenPair, error) {
	accessToken, expiresAt, err := s.GenerateAccessToken(userID, email)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.GenerateRefreshToken(userID)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		ExpiresIn:    int64(time.Until(expiresAt).Seconds()),
	}, nil
}

// ValidateAccessToken parses and validates an admin access token
func (s *jwtService) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if err := s.parse(tokenString, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// ValidateRefreshToken parses and validates an admin refresh token
func (s *jwtService) ValidateRefreshToken(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.TokenType != "refresh" {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// GenerateSessionToken signs a respondent session bag
func (s *jwtService) GenerateSessionToken(claims SessionClaims) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   claims.ResponseID,
		ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionExpiry)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// ValidateSessionToken parses and validates a respondent session token
func (s *jwtService) ValidateSessionToken(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// parse validates signature, expiry, and issuer for any claim type
func (s *jwtService) parse(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrInvalidToken
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
