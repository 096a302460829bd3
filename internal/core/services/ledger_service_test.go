package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/guild_economy/internal/apperrors"
	"github.com/SscSPs/guild_economy/internal/core/domain"
	portssvc "github.com/SscSPs/guild_economy/internal/core/ports/services"
	"github.com/SscSPs/guild_economy/internal/core/services"
	"github.com/SscSPs/guild_economy/internal/repositories/memory"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var day1 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// --- Ledger against the in-memory store ---

type LedgerServiceTestSuite struct {
	suite.Suite
	store   *memory.AccountStore
	service portssvc.LedgerSvcFacade
	ctx     context.Context
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.store = memory.NewAccountStore()
	suite.service = services.NewLedgerService(suite.store)
	suite.ctx = context.Background()
}

func (suite *LedgerServiceTestSuite) balances(owner, community string) *domain.Balances {
	b, err := suite.service.GetBalances(suite.ctx, owner, community)
	suite.Require().NoError(err)
	return b
}

func (suite *LedgerServiceTestSuite) TestGetBalances_NewOwnerStartsAtZero() {
	b := suite.balances("alice", "g1")
	suite.Equal(int64(0), b.CommunityBalance)
	suite.Equal(int64(0), b.GlobalBalance)
	suite.Equal("g1", b.CommunityID)
}

func (suite *LedgerServiceTestSuite) TestGetBalances_Validation() {
	_, err := suite.service.GetBalances(suite.ctx, " ", "g1")
	suite.ErrorIs(err, apperrors.ErrValidation)
	_, err = suite.service.GetBalances(suite.ctx, "alice", "")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestClaimDaily_GrantsBothScopes() {
	claim, err := suite.service.ClaimDaily(suite.ctx, "alice", "g1", day1)
	suite.Require().NoError(err)
	suite.True(claim.Community.Granted)
	suite.True(claim.Global.Granted)
	suite.Equal(domain.DefaultCommunityDailyBonus, claim.Community.Amount)
	suite.Equal(domain.DefaultGlobalDailyBonus, claim.Global.Amount)
	suite.Equal(day1.Add(24*time.Hour), claim.Community.NextEligibleAt)
	suite.NoError(claim.Err())

	b := suite.balances("alice", "g1")
	suite.Equal(int64(1000), b.CommunityBalance)
	suite.Equal(int64(500), b.GlobalBalance)
}

func (suite *LedgerServiceTestSuite) TestClaimDaily_CooldownThenNextWindow() {
	_, err := suite.service.ClaimDaily(suite.ctx, "alice", "g1", day1)
	suite.Require().NoError(err)

	claim, err := suite.service.ClaimDaily(suite.ctx, "alice", "g1", day1.Add(23*time.Hour))
	suite.Require().NoError(err)
	suite.False(claim.AnyGranted())
	suite.ErrorIs(claim.Err(), apperrors.ErrCooldownActive)
	suite.Equal(day1.Add(24*time.Hour), claim.Global.NextEligibleAt)

	var cd *apperrors.CooldownError
	suite.Require().True(errors.As(claim.Err(), &cd))

	claim, err = suite.service.ClaimDaily(suite.ctx, "alice", "g1", day1.Add(24*time.Hour))
	suite.Require().NoError(err)
	suite.True(claim.Community.Granted)
	suite.True(claim.Global.Granted)

	b := suite.balances("alice", "g1")
	suite.Equal(int64(2000), b.CommunityBalance)
	suite.Equal(int64(1000), b.GlobalBalance)
}

func (suite *LedgerServiceTestSuite) TestClaimDaily_ScopesAreIndependent() {
	_, err := suite.service.ClaimDaily(suite.ctx, "alice", "g1", day1)
	suite.Require().NoError(err)

	// Same day, another community: only the community scope is fresh.
	claim, err := suite.service.ClaimDaily(suite.ctx, "alice", "g2", day1.Add(time.Hour))
	suite.Require().NoError(err)
	suite.True(claim.Community.Granted)
	suite.False(claim.Global.Granted)
	suite.NoError(claim.Err())

	suite.Equal(int64(500), suite.balances("alice", "g2").GlobalBalance)
}

func (suite *LedgerServiceTestSuite) TestClaimDaily_ConcurrentClaimsGrantOnce() {
	const workers = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	communityGrants, globalGrants := 0, 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claim, err := suite.service.ClaimDaily(suite.ctx, "alice", "g1", day1)
			if err != nil {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if claim.Community.Granted {
				communityGrants++
			}
			if claim.Global.Granted {
				globalGrants++
			}
		}()
	}
	wg.Wait()

	suite.Equal(1, communityGrants)
	suite.Equal(1, globalGrants)
	b := suite.balances("alice", "g1")
	suite.Equal(int64(1000), b.CommunityBalance)
	suite.Equal(int64(500), b.GlobalBalance)
}

func (suite *LedgerServiceTestSuite) TestClaimDaily_CustomBonusAndCooldown() {
	svc := services.NewLedgerService(suite.store,
		services.WithDailyBonus(10, 5),
		services.WithDailyCooldown(time.Hour),
	)
	claim, err := svc.ClaimDaily(suite.ctx, "bob", "g1", day1)
	suite.Require().NoError(err)
	suite.Equal(int64(10), claim.Community.Balance)

	claim, err = svc.ClaimDaily(suite.ctx, "bob", "g1", day1.Add(time.Hour))
	suite.Require().NoError(err)
	suite.Equal(int64(20), claim.Community.Balance)
	suite.Equal(int64(10), claim.Global.Balance)
}

func (suite *LedgerServiceTestSuite) TestTransfer_MovesFundsAndCreatesRecipient() {
	_, err := suite.service.ClaimDaily(suite.ctx, "alice", "g1", day1)
	suite.Require().NoError(err)

	result, err := suite.service.Transfer(suite.ctx, "alice", "bob", domain.CommunityScope("g1"), 300)
	suite.Require().NoError(err)
	suite.Equal(int64(700), result.FromBalance)
	suite.Equal(int64(300), result.ToBalance)

	result, err = suite.service.Transfer(suite.ctx, "alice", "bob", domain.GlobalScope(), 500)
	suite.Require().NoError(err)
	suite.Equal(int64(0), result.FromBalance)

	bob := suite.balances("bob", "g1")
	suite.Equal(int64(300), bob.CommunityBalance)
	suite.Equal(int64(500), bob.GlobalBalance)
}

func (suite *LedgerServiceTestSuite) TestTransfer_InsufficientFundsChangesNothing() {
	_, err := suite.service.ClaimDaily(suite.ctx, "alice", "g1", day1)
	suite.Require().NoError(err)

	_, err = suite.service.Transfer(suite.ctx, "alice", "bob", domain.GlobalScope(), 501)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)

	suite.Equal(int64(500), suite.balances("alice", "g1").GlobalBalance)
	suite.Equal(int64(0), suite.balances("bob", "g1").GlobalBalance)
}

func (suite *LedgerServiceTestSuite) TestTransfer_Validation() {
	scope := domain.CommunityScope("g1")
	tests := []struct {
		name   string
		from   string
		to     string
		scope  domain.Scope
		amount int64
		want   error
	}{
		{"zero amount", "alice", "bob", scope, 0, apperrors.ErrInvalidAmount},
		{"negative amount", "alice", "bob", scope, -5, apperrors.ErrInvalidAmount},
		{"self transfer", "alice", "alice", scope, 5, apperrors.ErrSelfTransferNotAllowed},
		{"missing recipient", "alice", "", scope, 5, apperrors.ErrValidation},
		{"bad scope", "alice", "bob", domain.CommunityScope(""), 5, apperrors.ErrValidation},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.service.Transfer(suite.ctx, tt.from, tt.to, tt.scope, tt.amount)
			suite.ErrorIs(err, tt.want)
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
}

func (suite *LedgerServiceTestSuite) TestTransfer_ConcurrentOpposingTransfersConserveTotal() {
	scope := domain.CommunityScope("g1")
	for _, owner := range []string{"alice", "bob"} {
		_, err := suite.store.Adjust(suite.ctx, domain.Adjustment{Key: domain.NewAccountKey(owner, scope), Delta: 100})
		suite.Require().NoError(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = suite.service.Transfer(suite.ctx, "alice", "bob", scope, 7)
		}()
		go func() {
			defer wg.Done()
			_, _ = suite.service.Transfer(suite.ctx, "bob", "alice", scope, 5)
		}()
	}
	wg.Wait()

	a := suite.balances("alice", "g1")
	b := suite.balances("bob", "g1")
	suite.Equal(int64(200), a.CommunityBalance+b.CommunityBalance)
	suite.GreaterOrEqual(a.CommunityBalance, int64(0))
	suite.GreaterOrEqual(b.CommunityBalance, int64(0))
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}

// --- Ledger against a single-key store ---

type LedgerCompensationTestSuite struct {
	suite.Suite
	mockStore *MockAccountStore
	service   portssvc.LedgerSvcFacade
	ctx       context.Context
	from      domain.AccountKey
	to        domain.AccountKey
}

func (suite *LedgerCompensationTestSuite) SetupTest() {
	suite.mockStore = new(MockAccountStore)
	suite.service = services.NewLedgerService(suite.mockStore, services.WithLedgerStorageTimeout(50*time.Millisecond))
	suite.ctx = context.Background()
	suite.from = domain.NewAccountKey("alice", domain.GlobalScope())
	suite.to = domain.NewAccountKey("bob", domain.GlobalScope())
}

func (suite *LedgerCompensationTestSuite) TestTransfer_DebitThenCredit() {
	suite.mockStore.On("Adjust", mock.Anything, withDelta(suite.from, -40)).
		Return(&domain.Account{Key: suite.from, Balance: 60}, nil).Once()
	suite.mockStore.On("Adjust", mock.Anything, withDelta(suite.to, 40)).
		Return(&domain.Account{Key: suite.to, Balance: 40}, nil).Once()

	result, err := suite.service.Transfer(suite.ctx, "alice", "bob", domain.GlobalScope(), 40)
	suite.Require().NoError(err)
	suite.Equal(int64(60), result.FromBalance)
	suite.Equal(int64(40), result.ToBalance)
	suite.mockStore.AssertExpectations(suite.T())
}

func (suite *LedgerCompensationTestSuite) TestTransfer_InsufficientFundsSkipsCredit() {
	suite.mockStore.On("Adjust", mock.Anything, withDelta(suite.from, -40)).
		Return(nil, apperrors.ErrInsufficientFunds).Once()

	_, err := suite.service.Transfer(suite.ctx, "alice", "bob", domain.GlobalScope(), 40)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.mockStore.AssertExpectations(suite.T())
	suite.mockStore.AssertNotCalled(suite.T(), "Adjust", mock.Anything, withDelta(suite.to, 40))
}

func (suite *LedgerCompensationTestSuite) TestTransfer_FailedCreditRevertsDebit() {
	creditErr := apperrors.Unavailable("credit", errors.New("connection reset"))
	suite.mockStore.On("Adjust", mock.Anything, withDelta(suite.from, -40)).
		Return(&domain.Account{Key: suite.from, Balance: 60}, nil).Once()
	suite.mockStore.On("Adjust", mock.Anything, withDelta(suite.to, 40)).
		Return(nil, creditErr).Once()
	suite.mockStore.On("Adjust", mock.Anything, withDelta(suite.from, 40)).
		Return(&domain.Account{Key: suite.from, Balance: 100}, nil).Once()

	_, err := suite.service.Transfer(suite.ctx, "alice", "bob", domain.GlobalScope(), 40)
	suite.ErrorIs(err, apperrors.ErrStorageUnavailable)
	suite.mockStore.AssertExpectations(suite.T())
}

func (suite *LedgerCompensationTestSuite) TestTransfer_FailedCompensationIsReported() {
	creditErr := errors.New("credit lost")
	revertErr := errors.New("revert lost")
	suite.mockStore.On("Adjust", mock.Anything, withDelta(suite.from, -40)).
		Return(&domain.Account{Key: suite.from, Balance: 60}, nil).Once()
	suite.mockStore.On("Adjust", mock.Anything, withDelta(suite.to, 40)).
		Return(nil, creditErr).Once()
	suite.mockStore.On("Adjust", mock.Anything, withDelta(suite.from, 40)).
		Return(nil, revertErr).Once()

	_, err := suite.service.Transfer(suite.ctx, "alice", "bob", domain.GlobalScope(), 40)
	suite.ErrorIs(err, apperrors.ErrStorageUnavailable)
	suite.ErrorIs(err, creditErr)
	suite.ErrorIs(err, revertErr)
	suite.mockStore.AssertExpectations(suite.T())
}

func (suite *LedgerCompensationTestSuite) TestTransfer_CompensationSurvivesCanceledCaller() {
	ctx, cancel := context.WithCancel(suite.ctx)
	suite.mockStore.On("Adjust", mock.Anything, withDelta(suite.from, -40)).
		Return(&domain.Account{Key: suite.from, Balance: 60}, nil).Once()
	suite.mockStore.On("Adjust", mock.Anything, withDelta(suite.to, 40)).
		Run(func(mock.Arguments) { cancel() }).
		Return(nil, context.Canceled).Once()
	suite.mockStore.On("Adjust", mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil }), withDelta(suite.from, 40)).
		Return(&domain.Account{Key: suite.from, Balance: 100}, nil).Once()

	_, err := suite.service.Transfer(ctx, "alice", "bob", domain.GlobalScope(), 40)
	suite.ErrorIs(err, context.Canceled)
	suite.mockStore.AssertExpectations(suite.T())
}

func (suite *LedgerCompensationTestSuite) TestStorageTimeoutIsUnavailable() {
	suite.mockStore.On("GetAccount", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, context.DeadlineExceeded)

	_, err := suite.service.GetBalances(suite.ctx, "alice", "g1")
	suite.ErrorIs(err, apperrors.ErrStorageUnavailable)
}

func (suite *LedgerCompensationTestSuite) TestClaimDaily_LostRaceReportsNotGranted() {
	community := domain.NewAccountKey("alice", domain.CommunityScope("g1"))
	global := suite.from
	claimed := day1.Add(-time.Minute)

	for _, key := range []domain.AccountKey{community, global} {
		suite.mockStore.On("GetAccount", mock.Anything, key).
			Return(&domain.Account{Key: key, LastGrantAt: domain.Epoch}, nil).Once()
	}
	// community: another claim won the race
	suite.mockStore.On("Adjust", mock.Anything, withDelta(community, 1000)).
		Return(nil, apperrors.ErrPreconditionFailed).Once()
	suite.mockStore.On("GetAccount", mock.Anything, community).
		Return(&domain.Account{Key: community, Balance: 1000, LastGrantAt: claimed}, nil).Once()
	// global: storage failure
	suite.mockStore.On("Adjust", mock.Anything, withDelta(global, 500)).
		Return(nil, apperrors.Unavailable("adjust", errors.New("timeout"))).Once()

	claim, err := suite.service.ClaimDaily(suite.ctx, "alice", "g1", day1)
	suite.ErrorIs(err, apperrors.ErrStorageUnavailable)
	suite.Require().NotNil(claim)
	suite.False(claim.Community.Granted)
	suite.Equal(int64(1000), claim.Community.Balance)
	suite.Equal(claimed.Add(24*time.Hour), claim.Community.NextEligibleAt)
	suite.mockStore.AssertExpectations(suite.T())
}

func TestLedgerCompensationTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerCompensationTestSuite))
}
