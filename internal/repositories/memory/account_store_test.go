package memory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/guild_economy/internal/apperrors"
	"github.com/SscSPs/guild_economy/internal/core/domain"
	"github.com/SscSPs/guild_economy/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var community = domain.CommunityScope("guild-1")

func TestAccountStore_GetAccountCreatesDefault(t *testing.T) {
	store := memory.NewAccountStore()
	key := domain.NewAccountKey("alice", community)

	acc, err := store.GetAccount(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, key, acc.Key)
	assert.Zero(t, acc.Balance)
	assert.True(t, acc.LastGrantAt.Equal(domain.Epoch))

	// The created record is visible to later callers.
	_, err = store.Adjust(context.Background(), domain.Adjustment{Key: key, Delta: 7})
	require.NoError(t, err)
	acc, err = store.GetAccount(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, int64(7), acc.Balance)
}

func TestAccountStore_AdjustRejectsNegativeBalance(t *testing.T) {
	store := memory.NewAccountStore()
	key := domain.NewAccountKey("alice", community)
	ctx := context.Background()

	_, err := store.Adjust(ctx, domain.Adjustment{Key: key, Delta: 100})
	require.NoError(t, err)

	_, err = store.Adjust(ctx, domain.Adjustment{Key: key, Delta: -101})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)

	acc, err := store.GetAccount(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(100), acc.Balance)
}

func TestAccountStore_AdjustGuard(t *testing.T) {
	store := memory.NewAccountStore()
	key := domain.NewAccountKey("alice", domain.GlobalScope())
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	epoch := domain.Epoch

	acc, err := store.Adjust(ctx, domain.Adjustment{Key: key, Delta: 500, ExpectLastGrantAt: &epoch, SetLastGrantAt: &now})
	require.NoError(t, err)
	assert.Equal(t, now, acc.LastGrantAt)

	_, err = store.Adjust(ctx, domain.Adjustment{Key: key, Delta: 500, ExpectLastGrantAt: &epoch, SetLastGrantAt: &now})
	assert.ErrorIs(t, err, apperrors.ErrPreconditionFailed)

	acc, err = store.GetAccount(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(500), acc.Balance)
}

func TestAccountStore_ConcurrentGuardedAdjustsApplyOnce(t *testing.T) {
	store := memory.NewAccountStore()
	key := domain.NewAccountKey("alice", community)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	epoch := domain.Epoch

	const workers = 64
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Adjust(context.Background(), domain.Adjustment{Key: key, Delta: 1000, ExpectLastGrantAt: &epoch, SetLastGrantAt: &now})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	acc, err := store.GetAccount(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), acc.Balance)
}

func TestAccountStore_AdjustAllIsAllOrNothing(t *testing.T) {
	store := memory.NewAccountStore()
	ctx := context.Background()
	alice := domain.NewAccountKey("alice", community)
	bob := domain.NewAccountKey("bob", community)

	_, err := store.Adjust(ctx, domain.Adjustment{Key: alice, Delta: 50})
	require.NoError(t, err)

	_, err = store.AdjustAll(ctx, []domain.Adjustment{
		{Key: bob, Delta: 80},
		{Key: alice, Delta: -80},
	})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)

	a, _ := store.GetAccount(ctx, alice)
	b, _ := store.GetAccount(ctx, bob)
	assert.Equal(t, int64(50), a.Balance)
	assert.Zero(t, b.Balance)

	results, err := store.AdjustAll(ctx, []domain.Adjustment{
		{Key: bob, Delta: 30},
		{Key: alice, Delta: -30},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "bob", results[0].Key.OwnerID, "results follow the caller's order")
	assert.Equal(t, int64(30), results[0].Balance)
	assert.Equal(t, int64(20), results[1].Balance)
}

func TestAccountStore_OpposingTransfersDoNotDeadlock(t *testing.T) {
	store := memory.NewAccountStore()
	ctx := context.Background()
	alice := domain.NewAccountKey("alice", community)
	bob := domain.NewAccountKey("bob", community)
	_, _ = store.Adjust(ctx, domain.Adjustment{Key: alice, Delta: 1000})
	_, _ = store.Adjust(ctx, domain.Adjustment{Key: bob, Delta: 1000})

	done := make(chan struct{})
	go func() {
		var wg sync.WaitGroup
		for i := 0; i < 200; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				_, _ = store.AdjustAll(ctx, []domain.Adjustment{{Key: alice, Delta: -1}, {Key: bob, Delta: 1}})
			}()
			go func() {
				defer wg.Done()
				_, _ = store.AdjustAll(ctx, []domain.Adjustment{{Key: bob, Delta: -1}, {Key: alice, Delta: 1}})
			}()
		}
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("opposing transfers did not complete")
	}

	a, _ := store.GetAccount(ctx, alice)
	b, _ := store.GetAccount(ctx, bob)
	assert.Equal(t, int64(2000), a.Balance+b.Balance)
}

func TestAccountStore_TopAccounts(t *testing.T) {
	store := memory.NewAccountStore()
	ctx := context.Background()
	for owner, balance := range map[string]int64{"carol": 10, "bob": 50, "alice": 10, "dave": 5} {
		_, err := store.Adjust(ctx, domain.Adjustment{Key: domain.NewAccountKey(owner, community), Delta: balance})
		require.NoError(t, err)
	}
	_, err := store.Adjust(ctx, domain.Adjustment{Key: domain.NewAccountKey("zed", domain.GlobalScope()), Delta: 999})
	require.NoError(t, err)

	top, err := store.TopAccounts(ctx, community, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "bob", top[0].Key.OwnerID)
	assert.Equal(t, "alice", top[1].Key.OwnerID)
	assert.Equal(t, "carol", top[2].Key.OwnerID)
}

func TestAccountStore_TopAccountsNeverSeesHalfATransfer(t *testing.T) {
	store := memory.NewAccountStore()
	ctx := context.Background()
	alice := domain.NewAccountKey("alice", community)
	bob := domain.NewAccountKey("bob", community)
	_, _ = store.Adjust(ctx, domain.Adjustment{Key: alice, Delta: 500})

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				_, _ = store.AdjustAll(ctx, []domain.Adjustment{{Key: alice, Delta: -1}, {Key: bob, Delta: 1}})
				_, _ = store.AdjustAll(ctx, []domain.Adjustment{{Key: bob, Delta: -1}, {Key: alice, Delta: 1}})
			}
		}
	}()

	for i := 0; i < 500; i++ {
		top, err := store.TopAccounts(ctx, community, 10)
		require.NoError(t, err)
		var total int64
		for _, acc := range top {
			total += acc.Balance
		}
		if !assert.Equal(t, int64(500), total) {
			break
		}
	}
	close(stop)
	wg.Wait()
}

func TestAccountStore_TopAccountsSeesNewRecipientsWhole(t *testing.T) {
	store := memory.NewAccountStore()
	ctx := context.Background()
	alice := domain.NewAccountKey("alice", community)
	const total = int64(1000000)
	_, err := store.Adjust(ctx, domain.Adjustment{Key: alice, Delta: total})
	require.NoError(t, err)
	for i := 0; i < 3000; i++ {
		_, err := store.GetAccount(ctx, domain.NewAccountKey(fmt.Sprintf("member-%04d", i), community))
		require.NoError(t, err)
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for n := 0; ; n++ {
			select {
			case <-stop:
				return
			default:
				recipient := domain.NewAccountKey(fmt.Sprintf("new-%07d", n), community)
				_, _ = store.AdjustAll(ctx, []domain.Adjustment{{Key: alice, Delta: -1}, {Key: recipient, Delta: 1}})
			}
		}
	}()

	for i := 0; i < 200; i++ {
		top, err := store.TopAccounts(ctx, community, 0)
		require.NoError(t, err)
		var sum int64
		for _, acc := range top {
			sum += acc.Balance
		}
		if !assert.Equal(t, total, sum, "iteration %d over %d accounts", i, len(top)) {
			break
		}
	}
	close(stop)
	wg.Wait()
}

func TestAccountStore_CanceledContext(t *testing.T) {
	store := memory.NewAccountStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Adjust(ctx, domain.Adjustment{Key: domain.NewAccountKey("alice", community), Delta: 1})
	assert.ErrorIs(t, err, context.Canceled)
}
