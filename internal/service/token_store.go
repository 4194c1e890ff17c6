package service

import (
	"context"
	"fmt"
	"time"

	"farumasi-backend/pkg/jwt"

	"github.com/redis/go-redis/v9"
)

// TokenStore is the whitelist of issued tokens. A token is usable only while its key exists.
type TokenStore interface {
	Store(ctx context.Context, userID int64, tokenID string, tokenType jwt.TokenType, ttl time.Duration) error
	Exists(ctx context.Context, userID int64, tokenID string, tokenType jwt.TokenType) (bool, error)
	Revoke(ctx context.Context, tokenID string, tokenType jwt.TokenType) error
	RevokeAll(ctx context.Context, userID int64) error
}

type redisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) TokenStore {
	return &redisTokenStore{client: client}
}

func tokenKey(tokenType jwt.TokenType, userID int64, tokenID string) string {
	return fmt.Sprintf("%s_token:%d:%s", tokenType, userID, tokenID)
}

func (s *redisTokenStore) Store(ctx context.Context, userID int64, tokenID string, tokenType jwt.TokenType, ttl time.Duration) error {
	return s.client.Set(ctx, tokenKey(tokenType, userID, tokenID), "valid", ttl).Err()
}

func (s *redisTokenStore) Exists(ctx context.Context, userID int64, tokenID string, tokenType jwt.TokenType) (bool, error) {
	n, err := s.client.Exists(ctx, tokenKey(tokenType, userID, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Revoke deletes a token without knowing its owner
func (s *redisTokenStore) Revoke(ctx context.Context, tokenID string, tokenType jwt.TokenType) error {
	return s.deleteMatching(ctx, fmt.Sprintf("%s_token:*:%s", tokenType, tokenID))
}

// RevokeAll deletes every token of a user
func (s *redisTokenStore) RevokeAll(ctx context.Context, userID int64) error {
	if err := s.deleteMatching(ctx, fmt.Sprintf("%s_token:%d:*", jwt.AccessToken, userID)); err != nil {
		return err
	}
	return s.deleteMatching(ctx, fmt.Sprintf("%s_token:%d:*", jwt.RefreshToken, userID))
}

func (s *redisTokenStore) deleteMatching(ctx context.Context, pattern string) error {
	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}
