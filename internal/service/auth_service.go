package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"eduassist/internal/config"
	"eduassist/internal/domain"
	"eduassist/internal/dto"
	"eduassist/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	tokenIssuer       = "eduassist"
)

// AuthService defines the interface for authentication operations.
type AuthService interface {
	GetGoogleLoginURL(state string) string
	HandleGoogleCallback(ctx context.Context, code, receivedState, expectedState string) (*dto.TokenResponse, error)
	CreateJWT(email, name string) (string, error)
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
}

type authServiceImpl struct {
	oauth2Config *oauth2.Config
	cfg          config.AuthConfig
	userInfoURL  string
	allowed      map[string]struct{}
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(cfg config.AuthConfig) (AuthService, error) {
	return newAuthService(cfg, google.Endpoint, googleUserInfoURL)
}

func newAuthService(cfg config.AuthConfig, endpoint oauth2.Endpoint, userInfoURL string) (*authServiceImpl, error) {
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, errors.New("auth.jwt_secret is not configured")
	}
	if cfg.AccessTokenTTL <= 0 {
		cfg.AccessTokenTTL = 12 * time.Hour
	}

	allowed := make(map[string]struct{}, len(cfg.AllowedEmails))
	for _, email := range cfg.AllowedEmails {
		if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
			allowed[email] = struct{}{}
		}
	}
	if len(allowed) == 0 {
		logger.Get().Warn("auth.allowed_emails is empty; no teacher can sign in")
	}

	return &authServiceImpl{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     endpoint,
		},
		cfg:         cfg,
		userInfoURL: userInfoURL,
		allowed:     allowed,
	}, nil
}

func (s *authServiceImpl) GetGoogleLoginURL(state string) string {
	return s.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (s *authServiceImpl) HandleGoogleCallback(ctx context.Context, code, receivedState, expectedState string) (*dto.TokenResponse, error) {
	appLogger := logger.Get()
	if receivedState == "" || receivedState != expectedState {
		return nil, domain.NewUnauthorizedError("invalid oauth state")
	}

	googleToken, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, domain.NewError(domain.CodeUnauthorized, "failed to exchange oauth code", err)
	}

	client := s.oauth2Config.Client(ctx, googleToken)
	resp, err := client.Get(s.userInfoURL)
	if err != nil {
		return nil, domain.NewTransportFailureError("failed to get user info from google", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return nil, domain.NewTransportFailureError(fmt.Sprintf("google user info returned %d", resp.StatusCode), nil)
	}

	var userInfo dto.GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, domain.NewTransportFailureError("failed to decode user info", err)
	}
	email := strings.ToLower(strings.TrimSpace(userInfo.Email))
	if email == "" {
		return nil, domain.NewUnauthorizedError("google user info has no email")
	}
	if _, ok := s.allowed[email]; !ok {
		appLogger.Warn("Sign-in rejected for email outside the allow-list", zap.String("email", email))
		return nil, domain.NewForbiddenError("Tài khoản này không có quyền truy cập").WithContext("email", email)
	}

	accessToken, err := s.CreateJWT(email, userInfo.Name)
	if err != nil {
		return nil, domain.NewInternalError("failed to create access token", err)
	}
	appLogger.Info("Teacher signed in via Google OAuth", zap.String("email", email))

	return &dto.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.cfg.AccessTokenTTL.Seconds()),
		Email:       email,
	}, nil
}

func (s *authServiceImpl) CreateJWT(email, name string) (string, error) {
	now := time.Now()
	claims := dto.AuthClaims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *authServiceImpl) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			logger.Get().Debug("JWT token expired", zap.Error(err))
			return nil, domain.NewError(domain.CodeUnauthorized, "token expired", err)
		}
		logger.Get().Debug("JWT validation failed", zap.Error(err))
		return nil, domain.NewError(domain.CodeUnauthorized, "invalid token", err)
	}

	claims, ok := token.Claims.(*dto.AuthClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, domain.NewUnauthorizedError("invalid token")
	}
	// Revoke access for teachers removed from the allow-list.
	if _, allowed := s.allowed[strings.ToLower(claims.Subject)]; !allowed {
		return nil, domain.NewForbiddenError("account is no longer allowed")
	}
	return claims, nil
}
