package service

import (
	"context"
	"time"

	"dojo-events/core/cache"
	"dojo-events/core/constants"
	"dojo-events/core/errors"
	"dojo-events/core/logger"
	"dojo-events/core/utils"
	"dojo-events/modules/auth/dto"
	"dojo-events/modules/event/rules"
)

type AuthServiceInterface interface {
	GetGoogleAuthURL(ctx context.Context) (*dto.GoogleAuthURLResponse, *errors.AppError)
	HandleGoogleCallback(ctx context.Context, code, state string) (*dto.LoginResponse, *errors.AppError)
}

// AuthService signs members in with their Google account and issues the
// bearer tokens the event routes accept.
type AuthService struct {
	provider IdentityProvider
	cache    cache.Cache
	secret   string
	ttl      time.Duration
	admins   map[string]struct{}
}

func NewAuthService(provider IdentityProvider, c cache.Cache, secret string, ttl time.Duration, adminEmails []string) AuthServiceInterface {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		admins[rules.NormalizeEmail(email)] = struct{}{}
	}
	return &AuthService{
		provider: provider,
		cache:    c,
		secret:   secret,
		ttl:      ttl,
		admins:   admins,
	}
}

func (s *AuthService) GetGoogleAuthURL(ctx context.Context) (*dto.GoogleAuthURLResponse, *errors.AppError) {
	if s.provider == nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Google OAuth configuration is missing", nil)
	}

	state, err := utils.RandomString(32)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to generate state", err)
	}

	// One-time CSRF state, consumed by the callback.
	if err := s.cache.SetJSON(ctx, constants.RedisKeyOAuthState+state, true, constants.OAuthStateTTL); err != nil {
		logger.Error("AuthService:GetGoogleAuthURL:SaveState:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to store state token", err)
	}

	return &dto.GoogleAuthURLResponse{URL: s.provider.AuthCodeURL(state)}, nil
}

func (s *AuthService) HandleGoogleCallback(ctx context.Context, code, state string) (*dto.LoginResponse, *errors.AppError) {
	if s.provider == nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Google OAuth configuration is missing", nil)
	}
	if code == "" || state == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "code and state are required", nil)
	}

	key := constants.RedisKeyOAuthState + state
	var known bool
	if err := s.cache.GetJSON(ctx, key, &known); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			logger.Warn("AuthService:HandleGoogleCallback:StateNotFound", "state", state)
			return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid or expired state token", nil)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to validate state token", err)
	}
	if err := s.cache.Del(ctx, key); err != nil {
		logger.Warn("AuthService:HandleGoogleCallback:DeleteState:Error", "error", err)
	}

	info, err := s.provider.Identify(ctx, code)
	if err != nil {
		logger.Error("AuthService:HandleGoogleCallback:Identify:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrUnauthorized, "failed to verify Google account", err)
	}
	if !info.VerifiedEmail || info.Email == "" {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Google account email is not verified", nil)
	}

	email := rules.NormalizeEmail(info.Email)
	_, isAdmin := s.admins[email]

	token, err := utils.GenerateToken(s.secret, email, isAdmin, s.ttl)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to generate access token", err)
	}

	logger.Info("AuthService:HandleGoogleCallback:SignedIn", "email", email, "is_admin", isAdmin)
	return &dto.LoginResponse{
		AccessToken: token,
		Email:       email,
		IsAdmin:     isAdmin,
		ExpiresAt:   time.Now().Add(s.ttl),
	}, nil
}
