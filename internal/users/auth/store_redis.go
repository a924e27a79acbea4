// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/advisor/internal/platform/constants"
)

// RedisTempTokenRepository implements [TempTokenRepository] on Redis.
//
// Records outlive their expiry by [constants.TempTokenRetention] so that a late
// read is reported as expired instead of unknown.
type RedisTempTokenRepository struct {
	client *redis.Client
}

// NewRedisTempTokenRepository creates a Redis-backed [TempTokenRepository].
func NewRedisTempTokenRepository(client *redis.Client) *RedisTempTokenRepository {
	return &RedisTempTokenRepository{client: client}
}

func tempTokenKey(token string) string {
	return constants.RedisPrefixTempToken + token
}

/*
Save stores the token as JSON with a TTL of its lifetime plus the retention window.
*/
func (repository *RedisTempTokenRepository) Save(context context.Context, token *TempToken) error {
	payload, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("redis_temp_token_encode_failed: %w", err)
	}

	ttl := max(token.ExpiresAt.Sub(token.CreatedAt), 0) + constants.TempTokenRetention

	// SetNX: token strings are random, a collision must not overwrite another member's record.
	stored, err := repository.client.SetNX(context, tempTokenKey(token.Token), payload, ttl).Result()
	if err != nil {
		return fmt.Errorf("redis_temp_token_save_failed: %w", err)
	}
	if !stored {
		return fmt.Errorf("redis_temp_token_save_failed: token %s already exists", redactToken(token.Token))
	}

	return nil
}

/*
Find loads and decodes the token record.
*/
func (repository *RedisTempTokenRepository) Find(context context.Context, tokenString string) (*TempToken, error) {
	payload, err := repository.client.Get(context, tempTokenKey(tokenString)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrTempTokenNotFound
		}
		return nil, fmt.Errorf("redis_temp_token_find_failed: %w", err)
	}

	var token TempToken
	if err := json.Unmarshal(payload, &token); err != nil {
		return nil, fmt.Errorf("redis_temp_token_decode_failed: %w", err)
	}

	return &token, nil
}

// redactToken keeps a short prefix for log correlation.
func redactToken(token string) string {
	const visible = 8
	if len(token) <= visible {
		return "***"
	}
	return token[:visible] + "***"
}
