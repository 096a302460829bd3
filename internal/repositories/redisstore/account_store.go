package redisstore

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/SscSPs/guild_economy/internal/apperrors"
	"github.com/SscSPs/guild_economy/internal/core/domain"
	portsrepo "github.com/SscSPs/guild_economy/internal/core/ports/repositories"
	"github.com/go-redis/redis/v8"
)

// KEYS[1] balances hash, KEYS[2] leaderboard zset; ARGV[1] owner.
var getAccountScript = redis.NewScript(`
local v = redis.call('HGET', KEYS[1], ARGV[1])
if not v then
  v = '0:0:0'
  redis.call('HSET', KEYS[1], ARGV[1], v)
  redis.call('ZADD', KEYS[2], 0, ARGV[1])
end
return v
`)

// KEYS come in pairs per adjustment: balances hash, leaderboard zset.
// ARGV[1] is now in microseconds, then four values per adjustment:
// owner, delta, expected last grant ('' for none), last grant to set ('' for none).
// Every adjustment is checked against staged state before anything is written.
var adjustScript = redis.NewScript(`
local function fmt(x) return string.format('%.0f', x) end
local function load(hkey, owner)
  local v = redis.call('HGET', hkey, owner)
  if not v then return {balance = 0, last = 0, updated = 0} end
  local b, l, u = string.match(v, '^(%-?%d+):(%-?%d+):(%-?%d+)$')
  return {balance = tonumber(b), last = tonumber(l), updated = tonumber(u)}
end
local now = tonumber(ARGV[1])
local n = #KEYS / 2
local staged, order = {}, {}
for i = 1, n do
  local hkey, zkey = KEYS[2*i-1], KEYS[2*i]
  local base = 2 + (i-1)*4
  local owner, delta, expect, set = ARGV[base], tonumber(ARGV[base+1]), ARGV[base+2], ARGV[base+3]
  local id = hkey .. '\n' .. owner
  local st = staged[id]
  if not st then
    st = load(hkey, owner)
    st.hkey, st.zkey, st.owner = hkey, zkey, owner
    staged[id] = st
    order[#order+1] = id
  end
  if expect ~= '' and tonumber(expect) ~= st.last then
    return {'precondition', tostring(i), fmt(st.balance)}
  end
  if st.balance + delta < 0 then
    return {'insufficient', tostring(i), fmt(st.balance)}
  end
  st.balance = st.balance + delta
  if set ~= '' and tonumber(set) > st.last then st.last = tonumber(set) end
  st.updated = now
end
for _, id in ipairs(order) do
  local st = staged[id]
  redis.call('HSET', st.hkey, st.owner, fmt(st.balance) .. ':' .. fmt(st.last) .. ':' .. fmt(st.updated))
  redis.call('ZADD', st.zkey, fmt(st.balance), st.owner)
end
local out = {'ok'}
for i = 1, n do
  local st = staged[KEYS[2*i-1] .. '\n' .. ARGV[2 + (i-1)*4]]
  out[#out+1] = fmt(st.balance) .. ':' .. fmt(st.last) .. ':' .. fmt(st.updated)
end
return out
`)

// KEYS[1] balances hash, KEYS[2] leaderboard zset; ARGV[1] limit (<= 0 for all).
// Returns owner/record pairs for the top entries plus every owner tied with the
// last one, read in one step so a transfer is never seen half applied.
var topAccountsScript = redis.NewScript(`
local limit = tonumber(ARGV[1])
local stop = -1
if limit > 0 then stop = limit - 1 end
local top = redis.call('ZREVRANGE', KEYS[2], 0, stop, 'WITHSCORES')
local owners = {}
for i = 1, #top, 2 do owners[#owners+1] = top[i] end
if limit > 0 and #owners == limit then
  local boundary = top[#top]
  local ties = redis.call('ZRANGEBYSCORE', KEYS[2], boundary, boundary)
  for _, o in ipairs(ties) do owners[#owners+1] = o end
end
local out = {}
for _, o in ipairs(owners) do
  local v = redis.call('HGET', KEYS[1], o)
  if v then
    out[#out+1] = o
    out[#out+1] = v
  end
end
return out
`)

// AccountStore keeps balances in Redis hashes with a sorted set per scope for ranking.
type AccountStore struct {
	rdb   redis.UniversalClient
	keys  keyspace
	clock func() time.Time
}

// NewAccountStore creates a store writing under prefix.
func NewAccountStore(rdb redis.UniversalClient, prefix string) *AccountStore {
	return &AccountStore{rdb: rdb, keys: keyspace{prefix: prefix}, clock: time.Now}
}

var _ portsrepo.AtomicAccountStore = (*AccountStore)(nil)

func (s *AccountStore) GetAccount(ctx context.Context, key domain.AccountKey) (*domain.Account, error) {
	raw, err := getAccountScript.Run(ctx, s.rdb,
		[]string{s.keys.balances(key.Scope), s.keys.leaderboard(key.Scope)},
		key.OwnerID,
	).Text()
	if err != nil {
		return nil, classifyRedisError("failed to get account", err)
	}
	acc, err := decodeAccount(key, raw)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to get account", err)
	}
	return &acc, nil
}

func (s *AccountStore) Adjust(ctx context.Context, adj domain.Adjustment) (*domain.Account, error) {
	accounts, err := s.AdjustAll(ctx, []domain.Adjustment{adj})
	if err != nil {
		return nil, err
	}
	return &accounts[0], nil
}

func (s *AccountStore) AdjustAll(ctx context.Context, adjs []domain.Adjustment) ([]domain.Account, error) {
	if len(adjs) == 0 {
		return nil, nil
	}
	keys, args := s.adjustArgs(adjs)
	reply, err := adjustScript.Run(ctx, s.rdb, keys, args...).StringSlice()
	if err != nil {
		return nil, classifyRedisError("failed to adjust accounts", err)
	}
	if len(reply) == 0 {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to adjust accounts", fmt.Errorf("empty script reply"))
	}

	switch reply[0] {
	case "ok":
	case "precondition", "insufficient":
		return nil, rejection(reply, adjs)
	default:
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to adjust accounts", fmt.Errorf("unexpected script status %q", reply[0]))
	}

	if len(reply) != len(adjs)+1 {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to adjust accounts", fmt.Errorf("expected %d records, got %d", len(adjs), len(reply)-1))
	}
	accounts := make([]domain.Account, len(adjs))
	for i, adj := range adjs {
		acc, err := decodeAccount(adj.Key, reply[i+1])
		if err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to adjust accounts", err)
		}
		accounts[i] = acc
	}
	return accounts, nil
}

func (s *AccountStore) TopAccounts(ctx context.Context, scope domain.Scope, limit int) ([]domain.Account, error) {
	reply, err := topAccountsScript.Run(ctx, s.rdb,
		[]string{s.keys.balances(scope), s.keys.leaderboard(scope)},
		strconv.Itoa(limit),
	).StringSlice()
	if err != nil {
		return nil, classifyRedisError("failed to query leaderboard", err)
	}

	seen := make(map[string]bool, len(reply)/2)
	accounts := make([]domain.Account, 0, len(reply)/2)
	for i := 0; i+1 < len(reply); i += 2 {
		owner := reply[i]
		if seen[owner] {
			continue
		}
		seen[owner] = true
		acc, err := decodeAccount(domain.NewAccountKey(owner, scope), reply[i+1])
		if err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query leaderboard", err)
		}
		accounts = append(accounts, acc)
	}

	domain.RankAccounts(accounts)
	if limit > 0 && len(accounts) > limit {
		accounts = accounts[:limit]
	}
	return accounts, nil
}

func (s *AccountStore) adjustArgs(adjs []domain.Adjustment) ([]string, []interface{}) {
	keys := make([]string, 0, 2*len(adjs))
	args := make([]interface{}, 0, 1+4*len(adjs))
	args = append(args, strconv.FormatInt(s.clock().UnixMicro(), 10))
	for _, adj := range adjs {
		keys = append(keys, s.keys.balances(adj.Key.Scope), s.keys.leaderboard(adj.Key.Scope))
		args = append(args,
			adj.Key.OwnerID,
			strconv.FormatInt(adj.Delta, 10),
			encodeTime(adj.ExpectLastGrantAt),
			encodeTime(adj.SetLastGrantAt),
		)
	}
	return keys, args
}

// rejection builds the error for a "precondition" or "insufficient" reply,
// which names the 1-based index of the failing adjustment and its staged balance.
func rejection(reply []string, adjs []domain.Adjustment) error {
	var adj domain.Adjustment
	if len(reply) > 1 {
		if i, err := strconv.Atoi(reply[1]); err == nil && i >= 1 && i <= len(adjs) {
			adj = adjs[i-1]
		}
	}
	if reply[0] == "precondition" {
		return fmt.Errorf("%w: last grant of %s changed", apperrors.ErrPreconditionFailed, adj.Key)
	}
	balance := "?"
	if len(reply) > 2 {
		balance = reply[2]
	}
	return fmt.Errorf("%w: %s has %s, needs %d", apperrors.ErrInsufficientFunds, adj.Key, balance, -adj.Delta)
}
