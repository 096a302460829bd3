// Package redisstore implements the account and shop stores on Redis.
//
// Layout, under a configurable key prefix:
//
//	balances:<scope>     HASH  owner -> "<balance>:<lastGrantMicros>:<updatedMicros>"
//	leaderboard:<scope>  ZSET  owner -> balance
//	shop:<communityID>   HASH  lower(name) -> JSON item
//
// Every multi-key mutation runs inside one Lua script, so Redis applies it atomically.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/guild_economy/internal/apperrors"
	"github.com/SscSPs/guild_economy/internal/core/domain"
	"github.com/go-redis/redis/v8"
)

// DefaultKeyPrefix namespaces every key written by the stores.
const DefaultKeyPrefix = "economy:"

type keyspace struct {
	prefix string
}

func (k keyspace) balances(scope domain.Scope) string {
	return k.prefix + "balances:" + scope.String()
}

func (k keyspace) leaderboard(scope domain.Scope) string {
	return k.prefix + "leaderboard:" + scope.String()
}

func (k keyspace) shop(communityID string) string {
	return k.prefix + "shop:" + communityID
}

// encodeTime stores times as unix microseconds; epoch is 0.
func encodeTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return strconv.FormatInt(t.UnixMicro(), 10)
}

// decodeAccount parses the "<balance>:<lastGrant>:<updated>" hash value.
func decodeAccount(key domain.AccountKey, raw string) (domain.Account, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 3 {
		return domain.Account{}, fmt.Errorf("malformed account record %q for %s", raw, key)
	}
	nums := make([]int64, 3)
	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return domain.Account{}, fmt.Errorf("malformed account record %q for %s: %w", raw, key, err)
		}
		nums[i] = n
	}
	return domain.Account{
		Key:         key,
		Balance:     nums[0],
		LastGrantAt: time.UnixMicro(nums[1]).UTC(),
		UpdatedAt:   time.UnixMicro(nums[2]).UTC(),
	}, nil
}

var transientReplyPrefixes = []string{"LOADING", "BUSY", "TRYAGAIN", "CLUSTERDOWN", "READONLY", "MASTERDOWN"}

// classifyRedisError maps transport failures and transient server replies to
// storage-unavailable errors.
func classifyRedisError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Unavailable(op, err)
	}
	var replyErr redis.Error
	if errors.As(err, &replyErr) {
		msg := replyErr.Error()
		for _, prefix := range transientReplyPrefixes {
			if strings.HasPrefix(msg, prefix) {
				return apperrors.Unavailable(op, err)
			}
		}
		return apperrors.NewAppError(http.StatusInternalServerError, op, err)
	}
	// Anything else never reached a server reply: dial, read or pool errors.
	return apperrors.Unavailable(op, err)
}
