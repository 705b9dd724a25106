// Package ledger keeps provider sub-accounts funded ahead of demand. It owns
// the top-up policy, refund tracking, and the settlement signing key stored in
// the ledger's encrypted metadata.
package ledger

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	ecies "github.com/ecies/go/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/0gfoundation/0g-serving-client/internal/cache"
	"github.com/0gfoundation/0g-serving-client/internal/chain"
	"github.com/0gfoundation/0g-serving-client/internal/fee"
	"github.com/0gfoundation/0g-serving-client/internal/settlesig"
)

// Contract is the slice of the chain client the manager uses; tests install a
// fake.
type Contract interface {
	GetAccount(ctx context.Context, user, provider common.Address) (chain.InferenceServingAccount, error)
	GetLedger(ctx context.Context, user common.Address) (chain.InferenceServingLedger, error)
	LockTime(ctx context.Context) (*big.Int, error)
	AddLedger(ctx context.Context, signer [2]*big.Int, additionalInfo string, value *big.Int) error
	TransferFund(ctx context.Context, provider common.Address, amount *big.Int) error
	RequestRefund(ctx context.Context, provider common.Address, amount *big.Int) error
	RetrieveFund(ctx context.Context, providers []common.Address) error
	DeleteAccount(ctx context.Context, provider common.Address) error
	UserAddress() common.Address
}

// Thresholds are the three tunable multipliers of (inputPrice + outputPrice)
// that drive the top-up state machine. Staying above Trigger at all times
// guarantees a provider-initiated settlement can never push the sub-account
// negative; Check amortizes remote balance reads across requests.
type Thresholds struct {
	Check   int64
	Trigger int64
	Target  int64
}

// DefaultThresholds suit per-token pricing on mainline models.
var DefaultThresholds = Thresholds{Check: 100, Trigger: 200, Target: 500}

const (
	// settleKeyTTL bounds how long the decrypted settlement key stays cached.
	settleKeyTTL = 5 * time.Minute
	// reconcileMarkTTL: how long a completed reconciliation suppresses the
	// "first check" full read.
	reconcileMarkTTL = time.Hour
)

// Manager implements the sub-account funding policy.
type Manager struct {
	contract Contract
	key      *ecdsa.PrivateKey
	cache    *cache.Cache
	spend    *fee.SpendTracker
	th       Thresholds
	log      *zap.Logger

	mu    sync.Mutex
	locks map[common.Address]*sync.Mutex
}

func NewManager(contract Contract, key *ecdsa.PrivateKey, c *cache.Cache, spend *fee.SpendTracker, th Thresholds, log *zap.Logger) *Manager {
	return &Manager{
		contract: contract,
		key:      key,
		cache:    c,
		spend:    spend,
		th:       th,
		log:      log,
		locks:    make(map[common.Address]*sync.Mutex),
	}
}

// providerLock serializes balance reconciliation per provider so concurrent
// requests cannot double-fund a sub-account.
func (m *Manager) providerLock(provider common.Address) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[provider]
	if !ok {
		l = &sync.Mutex{}
		m.locks[provider] = l
	}
	return l
}

// Available is the only amount usable for fee settlement.
func Available(acc chain.InferenceServingAccount) *big.Int {
	return new(big.Int).Sub(acc.Balance, acc.PendingRefund)
}

func (m *Manager) user() common.Address { return m.contract.UserAddress() }

func markKey(user, provider common.Address) string {
	return "topup:checked:" + strings.ToLower(user.Hex()) + ":" + strings.ToLower(provider.Hex())
}

// EnsureFunds runs the top-up check for one provider. The fast path consults
// only the cached cumulative spend; a full remote reconciliation happens on
// the first check of a session and whenever spend crosses the check threshold.
func (m *Manager) EnsureFunds(ctx context.Context, provider common.Address, svc chain.InferenceServingService) error {
	lock := m.providerLock(provider)
	lock.Lock()
	defer lock.Unlock()

	unit := new(big.Int).Add(svc.InputPrice, svc.OutputPrice)
	check := new(big.Int).Mul(unit, big.NewInt(m.th.Check))

	_, _, checked, err := m.cache.GetItem(ctx, markKey(m.user(), provider))
	if err != nil {
		return fmt.Errorf("read reconcile marker: %w", err)
	}
	if checked {
		total, err := m.spend.Total(ctx, m.user().Hex(), provider.Hex())
		if err != nil {
			return fmt.Errorf("read cached spend: %w", err)
		}
		if total.Cmp(check) < 0 {
			return nil
		}
	}
	return m.reconcile(ctx, provider, unit)
}

// reconcile re-reads the remote balance and tops up when it has fallen below
// the trigger threshold. A missing account reads as balance zero: the
// subsequent transfer provisions it.
func (m *Manager) reconcile(ctx context.Context, provider common.Address, unit *big.Int) error {
	trigger := new(big.Int).Mul(unit, big.NewInt(m.th.Trigger))
	target := new(big.Int).Mul(unit, big.NewInt(m.th.Target))

	avail := big.NewInt(0)
	acc, err := m.contract.GetAccount(ctx, m.user(), provider)
	switch {
	case errors.Is(err, chain.ErrAccountNotFound):
		m.log.Info("sub-account not provisioned yet, treating balance as zero",
			zap.String("provider", provider.Hex()))
	case err != nil:
		return err
	default:
		avail = Available(acc)
	}

	if avail.Cmp(trigger) < 0 {
		m.log.Info("topping up sub-account",
			zap.String("provider", provider.Hex()),
			zap.String("available", avail.String()),
			zap.String("transfer", target.String()),
		)
		if err := m.contract.TransferFund(ctx, provider, target); err != nil {
			return fmt.Errorf("top up: %w", err)
		}
	}

	if err := m.spend.Reset(ctx, m.user().Hex(), provider.Hex()); err != nil {
		return fmt.Errorf("reset cached spend: %w", err)
	}
	return m.cache.SetItem(ctx, markKey(m.user(), provider), []byte("1"), reconcileMarkTTL, cache.KindBytes)
}

// ProvisionAccount creates the (user, provider) sub-account with a zero-value
// transfer if it does not exist yet.
func (m *Manager) ProvisionAccount(ctx context.Context, provider common.Address) error {
	_, err := m.contract.GetAccount(ctx, m.user(), provider)
	if err == nil {
		return nil
	}
	if !errors.Is(err, chain.ErrAccountNotFound) {
		return err
	}
	m.log.Info("provisioning sub-account", zap.String("provider", provider.Hex()))
	return m.contract.TransferFund(ctx, provider, big.NewInt(0))
}

// Refund is a pending refund with its remaining lock countdown.
type Refund struct {
	Amount     *big.Int
	CreatedAt  time.Time
	Processed  bool
	RemainTime time.Duration
	// Eligible refunds have served their lock time and can be finalized.
	Eligible bool
}

// ListRefunds returns the account's pending refunds with remaining lock time
// computed against the contract's lock window.
func (m *Manager) ListRefunds(ctx context.Context, provider common.Address) ([]Refund, error) {
	acc, err := m.contract.GetAccount(ctx, m.user(), provider)
	if err != nil {
		return nil, err
	}
	lockTime, err := m.contract.LockTime(ctx)
	if err != nil {
		return nil, err
	}
	lock := time.Duration(lockTime.Int64()) * time.Second

	now := time.Now()
	out := make([]Refund, 0, len(acc.Refunds))
	for _, r := range acc.Refunds {
		createdAt := time.Unix(r.CreatedAt.Int64(), 0)
		remain := lock - now.Sub(createdAt)
		out = append(out, Refund{
			Amount:     r.Amount,
			CreatedAt:  createdAt,
			Processed:  r.Processed,
			RemainTime: remain,
			Eligible:   !r.Processed && remain <= 0,
		})
	}
	return out, nil
}

// RequestRefund starts the lock countdown on amount.
func (m *Manager) RequestRefund(ctx context.Context, provider common.Address, amount *big.Int) error {
	return m.contract.RequestRefund(ctx, provider, amount)
}

// RetrieveAllFunds requests refunds from every provider sub-account listed on
// the ledger.
func (m *Manager) RetrieveAllFunds(ctx context.Context) error {
	led, err := m.contract.GetLedger(ctx, m.user())
	if err != nil {
		return err
	}
	if len(led.InferenceProviders) == 0 {
		return nil
	}
	return m.contract.RetrieveFund(ctx, led.InferenceProviders)
}

// DeleteAccount removes the sub-account on-chain and drops local state tied
// to it.
func (m *Manager) DeleteAccount(ctx context.Context, provider common.Address) error {
	if err := m.contract.DeleteAccount(ctx, provider); err != nil {
		return err
	}
	if err := m.spend.Reset(ctx, m.user().Hex(), provider.Hex()); err != nil {
		return err
	}
	return m.cache.RemoveItem(ctx, markKey(m.user(), provider))
}

func settleKeyCacheKey(user common.Address) string {
	return "settlekey:" + strings.ToLower(user.Hex())
}

// EnsureSigningKey returns the user's settlement keypair, creating the ledger
// with a fresh key on first use. The seed is ECIES-encrypted under the user's
// secp256k1 key before it goes into remote metadata, decrypted lazily and
// cached with a TTL.
func (m *Manager) EnsureSigningKey(ctx context.Context) (*settlesig.KeyPair, error) {
	raw, _, found, err := m.cache.GetItem(ctx, settleKeyCacheKey(m.user()))
	if err != nil {
		return nil, err
	}
	if found {
		return settlesig.FromSeed(raw)
	}

	eciesKey := ecies.NewPrivateKeyFromBytes(crypto.FromECDSA(m.key))

	led, err := m.contract.GetLedger(ctx, m.user())
	if errors.Is(err, chain.ErrLedgerNotFound) {
		return m.createLedgerWithKey(ctx, eciesKey)
	}
	if err != nil {
		return nil, err
	}

	ciphertext, err := hex.DecodeString(led.AdditionalInfo)
	if err != nil {
		return nil, fmt.Errorf("decode ledger key material: %w", err)
	}
	seed, err := ecies.Decrypt(eciesKey, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("decrypt ledger key material: %w", err)
	}
	kp, err := settlesig.FromSeed(seed)
	if err != nil {
		return nil, err
	}
	if err := m.cache.SetItem(ctx, settleKeyCacheKey(m.user()), seed, settleKeyTTL, cache.KindBytes); err != nil {
		return nil, err
	}
	return kp, nil
}

func (m *Manager) createLedgerWithKey(ctx context.Context, eciesKey *ecies.PrivateKey) (*settlesig.KeyPair, error) {
	kp, err := settlesig.GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	ciphertext, err := ecies.Encrypt(eciesKey.PublicKey, kp.Seed())
	if err != nil {
		return nil, fmt.Errorf("encrypt key material: %w", err)
	}
	m.log.Info("creating ledger with fresh settlement signer",
		zap.String("user", m.user().Hex()))
	if err := m.contract.AddLedger(ctx, kp.PackedPublicKey(), hex.EncodeToString(ciphertext), big.NewInt(0)); err != nil {
		return nil, err
	}
	if err := m.cache.SetItem(ctx, settleKeyCacheKey(m.user()), kp.Seed(), settleKeyTTL, cache.KindBytes); err != nil {
		return nil, err
	}
	return kp, nil
}
