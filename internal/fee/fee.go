// Package fee computes per-request inference fees and tracks the locally
// cached cumulative spend that decides when a remote balance re-check is due.
package fee

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/0gfoundation/0g-serving-client/internal/cache"
)

// Decimals is the fixed scale between the human-facing unit and the smallest
// indivisible unit.
const Decimals = 18

// unitScale = 10^18. All conversions are integer arithmetic; floating point
// would drift.
var unitScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(Decimals), nil)

// InputFee is contentSize * inputPrice, both in smallest units.
func InputFee(contentSize int64, inputPrice *big.Int) *big.Int {
	return new(big.Int).Mul(big.NewInt(contentSize), inputPrice)
}

// OutputFee is responseSize * outputPrice.
func OutputFee(responseSize int64, outputPrice *big.Int) *big.Int {
	return new(big.Int).Mul(big.NewInt(responseSize), outputPrice)
}

// FromSmallestUnit renders v as a decimal string, e.g. 1500000000000000000
// becomes "1.5".
func FromSmallestUnit(v *big.Int) string {
	sign := ""
	abs := new(big.Int).Abs(v)
	if v.Sign() < 0 {
		sign = "-"
	}
	whole, frac := new(big.Int).QuoRem(abs, unitScale, new(big.Int))
	fracStr := strings.TrimRight(fmt.Sprintf("%0*s", Decimals, frac.String()), "0")
	if fracStr == "" {
		fracStr = "0"
	}
	return sign + whole.String() + "." + fracStr
}

// ToSmallestUnit parses a decimal string back into smallest units. Fractional
// digits beyond the 18-decimal scale are rejected rather than rounded.
func ToSmallestUnit(s string) (*big.Int, error) {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	wholeStr, fracStr, _ := strings.Cut(s, ".")
	if wholeStr == "" {
		wholeStr = "0"
	}
	if fracStr == "" {
		fracStr = "0"
	}
	if len(fracStr) > Decimals {
		return nil, fmt.Errorf("amount %q exceeds %d decimal places", s, Decimals)
	}

	whole, ok := new(big.Int).SetString(wholeStr, 10)
	if !ok {
		return nil, fmt.Errorf("bad amount %q", s)
	}
	frac, ok := new(big.Int).SetString(fracStr+strings.Repeat("0", Decimals-len(fracStr)), 10)
	if !ok {
		return nil, fmt.Errorf("bad amount %q", s)
	}

	v := new(big.Int).Mul(whole, unitScale)
	v.Add(v, frac)
	if neg {
		v.Neg(v)
	}
	return v, nil
}

// SpendTracker accumulates fees per (user, provider) pair in the cache with a
// short TTL. An expired counter silently reads as zero; that is safe because
// the reconciliation path re-derives ground truth from the remote balance.
type SpendTracker struct {
	cache *cache.Cache
	ttl   time.Duration
}

// DefaultSpendTTL bounds how stale the cached cumulative spend can get.
const DefaultSpendTTL = time.Minute

func NewSpendTracker(c *cache.Cache, ttl time.Duration) *SpendTracker {
	if ttl <= 0 {
		ttl = DefaultSpendTTL
	}
	return &SpendTracker{cache: c, ttl: ttl}
}

func spendKey(user, provider string) string {
	return "spend:" + strings.ToLower(user) + ":" + strings.ToLower(provider)
}

// Add records a fee and returns the new cumulative total.
func (t *SpendTracker) Add(ctx context.Context, user, provider string, fee *big.Int) (*big.Int, error) {
	return t.cache.IncrBy(ctx, spendKey(user, provider), fee, t.ttl)
}

// Total returns the current cumulative spend (zero on a cold counter).
func (t *SpendTracker) Total(ctx context.Context, user, provider string) (*big.Int, error) {
	return t.cache.GetCounter(ctx, spendKey(user, provider))
}

// Reset clears the counter after a reconciliation against the remote balance.
func (t *SpendTracker) Reset(ctx context.Context, user, provider string) error {
	return t.cache.RemoveItem(ctx, spendKey(user, provider))
}
