package domain

import (
	"sort"
	"time"
)

// Epoch is the LastGrantAt of an account that has never received a grant.
var Epoch = time.Unix(0, 0).UTC()

// AccountKey identifies exactly one account: an owner within a scope.
type AccountKey struct {
	OwnerID string `json:"ownerID"`
	Scope   Scope  `json:"scope"`
}

// NewAccountKey builds the key for ownerID in scope.
func NewAccountKey(ownerID string, scope Scope) AccountKey {
	return AccountKey{OwnerID: ownerID, Scope: scope}
}

// String returns "<scope>/<owner>".
func (k AccountKey) String() string {
	return k.Scope.String() + "/" + k.OwnerID
}

// Less orders keys by scope text, then owner id. Multi-key mutations lock in this order.
func (k AccountKey) Less(other AccountKey) bool {
	ks, ko := k.Scope.String(), other.Scope.String()
	if ks != ko {
		return ks < ko
	}
	return k.OwnerID < other.OwnerID
}

// Account is a balance held by one owner in one scope.
type Account struct {
	Key         AccountKey `json:"key"`
	Balance     int64      `json:"balance"`
	LastGrantAt time.Time  `json:"lastGrantAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewAccount returns the default record created on first access.
func NewAccount(key AccountKey) Account {
	return Account{Key: key, LastGrantAt: Epoch, UpdatedAt: Epoch}
}

// NextGrantAt returns the earliest time the account can receive its next grant.
func (a Account) NextGrantAt(cooldown time.Duration) time.Time {
	return a.LastGrantAt.Add(cooldown)
}

// GrantEligible reports whether at least cooldown has elapsed since the last grant.
func (a Account) GrantEligible(now time.Time, cooldown time.Duration) bool {
	return now.Sub(a.LastGrantAt) >= cooldown
}

// Adjustment is a precondition-guarded change to a single account.
// Delta is applied only if the resulting balance is non-negative and, when
// ExpectLastGrantAt is set, the stored LastGrantAt still equals it.
// SetLastGrantAt is written in the same atomic step.
type Adjustment struct {
	Key               AccountKey
	Delta             int64
	ExpectLastGrantAt *time.Time
	SetLastGrantAt    *time.Time
}

// Inverse returns the compensating adjustment for an applied adjustment.
func (a Adjustment) Inverse() Adjustment {
	return Adjustment{Key: a.Key, Delta: -a.Delta}
}

// Apply evaluates the adjustment against acc. fundsOK is false when the delta would
// take the balance below zero; guardOK is false when the LastGrantAt guard does not
// hold. In either case acc is returned unchanged. LastGrantAt never moves backwards.
func (a Adjustment) Apply(acc Account, now time.Time) (next Account, fundsOK bool, guardOK bool) {
	if a.ExpectLastGrantAt != nil && !acc.LastGrantAt.Equal(*a.ExpectLastGrantAt) {
		return acc, true, false
	}
	if acc.Balance+a.Delta < 0 {
		return acc, false, true
	}
	next = acc
	next.Balance += a.Delta
	if a.SetLastGrantAt != nil && a.SetLastGrantAt.After(next.LastGrantAt) {
		next.LastGrantAt = *a.SetLastGrantAt
	}
	next.UpdatedAt = now
	return next, true, true
}

// SortAdjustments orders adjustments by account key so locks are taken in a fixed order.
func SortAdjustments(adjs []Adjustment) []Adjustment {
	sorted := make([]Adjustment, len(adjs))
	copy(sorted, adjs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Key.Less(sorted[j].Key)
	})
	return sorted
}

// RankAccounts sorts accounts by balance descending, ties by owner id ascending.
func RankAccounts(accounts []Account) {
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].Balance != accounts[j].Balance {
			return accounts[i].Balance > accounts[j].Balance
		}
		return accounts[i].Key.OwnerID < accounts[j].Key.OwnerID
	})
}

// Balances holds an owner's balance in both scopes visible from one community.
type Balances struct {
	OwnerID          string `json:"ownerID"`
	CommunityID      string `json:"communityID"`
	CommunityBalance int64  `json:"communityBalance"`
	GlobalBalance    int64  `json:"globalBalance"`
}

// TransferResult reports both balances after a transfer.
type TransferResult struct {
	Scope       Scope  `json:"scope"`
	FromOwnerID string `json:"fromOwnerID"`
	ToOwnerID   string `json:"toOwnerID"`
	Amount      int64  `json:"amount"`
	FromBalance int64  `json:"fromBalance"`
	ToBalance   int64  `json:"toBalance"`
}
