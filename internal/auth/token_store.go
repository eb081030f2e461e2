package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tourcatalog/internal/cache"
)

const refreshTokenKeyPrefix = "refresh_token:"

// ErrRefreshTokenNotFound is returned when a refresh token is unknown or expired.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// TokenStoreInterface defines the interface for token storage operations.
type TokenStoreInterface interface {
	StoreRefreshToken(ctx context.Context, tokenID string, sub Subject, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, tokenID string) (Subject, error)
	DeleteRefreshToken(ctx context.Context, tokenID string) error
}

// TokenStore keeps refresh tokens in Redis.
type TokenStore struct {
	cache *cache.Client
}

var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

type refreshTokenData struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// StoreRefreshToken stores a refresh token in Redis with TTL.
func (s *TokenStore) StoreRefreshToken(ctx context.Context, tokenID string, sub Subject, ttl time.Duration) error {
	payload, err := json.Marshal(refreshTokenData{UserID: sub.UserID, Email: sub.Email, Role: sub.Role})
	if err != nil {
		return fmt.Errorf("marshal token data: %w", err)
	}
	return s.cache.Set(ctx, refreshTokenKeyPrefix+tokenID, payload, ttl)
}

// GetRefreshToken retrieves refresh token data from Redis.
func (s *TokenStore) GetRefreshToken(ctx context.Context, tokenID string) (Subject, error) {
	data, err := s.cache.Get(ctx, refreshTokenKeyPrefix+tokenID)
	if err != nil || data == nil {
		return Subject{}, ErrRefreshTokenNotFound
	}

	var stored refreshTokenData
	if err := json.Unmarshal(data, &stored); err != nil {
		return Subject{}, fmt.Errorf("unmarshal token data: %w", err)
	}
	if stored.UserID == 0 || stored.Email == "" {
		return Subject{}, ErrRefreshTokenNotFound
	}
	return Subject{UserID: stored.UserID, Email: stored.Email, Role: stored.Role}, nil
}

// DeleteRefreshToken removes a refresh token from Redis.
func (s *TokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	return s.cache.Delete(ctx, refreshTokenKeyPrefix+tokenID)
}
