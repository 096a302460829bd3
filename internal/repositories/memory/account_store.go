// Package memory provides process-local stores. They satisfy the same
// contracts as the database-backed stores and back the default configuration
// and the service tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/guild_economy/internal/apperrors"
	"github.com/SscSPs/guild_economy/internal/core/domain"
	portsrepo "github.com/SscSPs/guild_economy/internal/core/ports/repositories"
)

type accountEntry struct {
	mu  sync.Mutex
	acc domain.Account
}

// AccountStore keeps one mutex per account. The map itself is only locked to
// find or create entries, so operations on different keys never wait on each other.
type AccountStore struct {
	mu      sync.RWMutex
	entries map[domain.AccountKey]*accountEntry
	clock   func() time.Time
}

// NewAccountStore creates an empty store.
func NewAccountStore() *AccountStore {
	return &AccountStore{
		entries: make(map[domain.AccountKey]*accountEntry),
		clock:   time.Now,
	}
}

var _ portsrepo.AtomicAccountStore = (*AccountStore)(nil)

// entry returns the entry for key, creating the default record if absent.
func (s *AccountStore) entry(key domain.AccountKey) *accountEntry {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok = s.entries[key]; ok {
		return e
	}
	e = &accountEntry{acc: domain.NewAccount(key)}
	s.entries[key] = e
	return e
}

func (s *AccountStore) GetAccount(ctx context.Context, key domain.AccountKey) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e := s.entry(key)
	e.mu.Lock()
	acc := e.acc
	e.mu.Unlock()
	return &acc, nil
}

func (s *AccountStore) Adjust(ctx context.Context, adj domain.Adjustment) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e := s.entry(adj.Key)
	e.mu.Lock()
	defer e.mu.Unlock()

	next, err := apply(adj, e.acc, s.clock())
	if err != nil {
		return nil, err
	}
	e.acc = next
	return &next, nil
}

// AdjustAll locks every affected entry in ascending key order, checks every
// adjustment against staged state, and only then writes.
func (s *AccountStore) AdjustAll(ctx context.Context, adjs []domain.Adjustment) ([]domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(adjs) == 0 {
		return nil, nil
	}

	// Resolve entries before taking any entry lock; entry() may need the map lock.
	keys := uniqueSortedKeys(adjs)
	locked := make([]*accountEntry, len(keys))
	for i, key := range keys {
		locked[i] = s.entry(key)
	}
	for _, e := range locked {
		e.mu.Lock()
	}
	defer func() {
		for i := len(locked) - 1; i >= 0; i-- {
			locked[i].mu.Unlock()
		}
	}()

	staged := make(map[domain.AccountKey]domain.Account, len(keys))
	for i, key := range keys {
		staged[key] = locked[i].acc
	}
	now := s.clock()
	for _, adj := range adjs {
		next, err := apply(adj, staged[adj.Key], now)
		if err != nil {
			return nil, err
		}
		staged[adj.Key] = next
	}

	for i, key := range keys {
		locked[i].acc = staged[key]
	}
	results := make([]domain.Account, len(adjs))
	for i, adj := range adjs {
		results[i] = staged[adj.Key]
	}
	return results, nil
}

// TopAccounts locks every account of the scope in key order for the duration
// of the read, so a multi-key adjustment is seen either entirely or not at all.
func (s *AccountStore) TopAccounts(ctx context.Context, scope domain.Scope, limit int) ([]domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The map stays read-locked until every entry lock is held so no account
	// can be created, and credited, behind the snapshot.
	s.mu.RLock()
	inScope := make([]*accountEntry, 0)
	keys := make([]domain.AccountKey, 0)
	for key, e := range s.entries {
		if key.Scope == scope {
			inScope = append(inScope, e)
			keys = append(keys, key)
		}
	}
	sort.Sort(entriesByKey{keys: keys, entries: inScope})
	for _, e := range inScope {
		e.mu.Lock()
	}
	s.mu.RUnlock()
	snapshot := make([]domain.Account, len(inScope))
	for i, e := range inScope {
		snapshot[i] = e.acc
	}
	for i := len(inScope) - 1; i >= 0; i-- {
		inScope[i].mu.Unlock()
	}

	domain.RankAccounts(snapshot)
	if limit > 0 && len(snapshot) > limit {
		snapshot = snapshot[:limit]
	}
	return snapshot, nil
}

func apply(adj domain.Adjustment, acc domain.Account, now time.Time) (domain.Account, error) {
	next, fundsOK, guardOK := adj.Apply(acc, now)
	if !guardOK {
		return acc, fmt.Errorf("%w: last grant of %s changed", apperrors.ErrPreconditionFailed, adj.Key)
	}
	if !fundsOK {
		return acc, fmt.Errorf("%w: %s has %d, needs %d", apperrors.ErrInsufficientFunds, adj.Key, acc.Balance, -adj.Delta)
	}
	return next, nil
}

func uniqueSortedKeys(adjs []domain.Adjustment) []domain.AccountKey {
	sorted := domain.SortAdjustments(adjs)
	keys := make([]domain.AccountKey, 0, len(sorted))
	for _, adj := range sorted {
		if len(keys) == 0 || keys[len(keys)-1] != adj.Key {
			keys = append(keys, adj.Key)
		}
	}
	return keys
}

type entriesByKey struct {
	keys    []domain.AccountKey
	entries []*accountEntry
}

func (b entriesByKey) Len() int           { return len(b.keys) }
func (b entriesByKey) Less(i, j int) bool { return b.keys[i].Less(b.keys[j]) }
func (b entriesByKey) Swap(i, j int) {
	b.keys[i], b.keys[j] = b.keys[j], b.keys[i]
	b.entries[i], b.entries[j] = b.entries[j], b.entries[i]
}
