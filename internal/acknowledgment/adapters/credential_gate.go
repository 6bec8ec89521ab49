// Package adapters connects the acknowledgment module to collaborators it
// does not own.
package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"siteops/internal/acknowledgment/sequencer"
	id "siteops/pkg/domain"
)

const (
	defaultGateKeyPrefix = "siteops:credential-change:"
	defaultGateReason    = "credential change required"
)

// RedisCredentialGate reads the credential-change precondition from Redis.
// The identity service sets "<prefix><userID>" while a user must change
// their credentials; the value is the reason shown to the user.
type RedisCredentialGate struct {
	client *redis.Client
	prefix string
}

func NewRedisCredentialGate(client *redis.Client, prefix string) *RedisCredentialGate {
	if prefix == "" {
		prefix = defaultGateKeyPrefix
	}
	return &RedisCredentialGate{client: client, prefix: prefix}
}

// Check reports whether userID may be shown obligations. Redis errors are
// returned so the sequencer fails closed.
func (g *RedisCredentialGate) Check(ctx context.Context, userID id.UserID) (sequencer.GateStatus, error) {
	reason, err := g.client.Get(ctx, g.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return sequencer.GateStatus{Satisfied: true}, nil
	}
	if err != nil {
		return sequencer.GateStatus{}, fmt.Errorf("read credential gate: %w", err)
	}
	if reason == "" {
		reason = defaultGateReason
	}
	return sequencer.GateStatus{Satisfied: false, Reason: reason}, nil
}

// Require flags userID as needing a credential change. A zero ttl keeps the
// flag until Clear.
func (g *RedisCredentialGate) Require(ctx context.Context, userID id.UserID, reason string, ttl time.Duration) error {
	if reason == "" {
		reason = defaultGateReason
	}
	return g.client.Set(ctx, g.key(userID), reason, ttl).Err()
}

func (g *RedisCredentialGate) Clear(ctx context.Context, userID id.UserID) error {
	return g.client.Del(ctx, g.key(userID)).Err()
}

func (g *RedisCredentialGate) key(userID id.UserID) string {
	return g.prefix + userID.String()
}
