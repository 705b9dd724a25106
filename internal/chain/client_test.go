package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

// fakeBackend satisfies the backend interface with scripted nonces and an
// optional receipt. The embedded ContractBackend is nil; the Client never
// touches it because every transaction is built by the test's fn.
type fakeBackend struct {
	bind.ContractBackend

	mu         sync.Mutex
	nonces     []uint64
	nonceCalls int
	receipt    *types.Receipt
}

func (f *fakeBackend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.nonceCalls
	if i >= len(f.nonces) {
		i = len(f.nonces) - 1
	}
	f.nonceCalls++
	return f.nonces[i], nil
}

func (f *fakeBackend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.receipt == nil {
		return nil, errors.New("not found")
	}
	return f.receipt, nil
}

func newTestClient(t *testing.T, eth backend, gas GasPolicy) *Client {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return &Client{
		eth:      eth,
		chainID:  big.NewInt(31337),
		key:      key,
		userAddr: crypto.PubkeyToAddress(key.PublicKey),
		gas:      gas,
		log:      zap.NewNop(),
	}
}

// recordingTx captures the nonce and gas price of every submission attempt.
// The first attempt carries no gas price; the node would suggest one, so the
// fake starts at 100.
func recordingTx(nonces *[]uint64, prices *[]int64) func(*bind.TransactOpts) (*types.Transaction, error) {
	return func(opts *bind.TransactOpts) (*types.Transaction, error) {
		price := opts.GasPrice
		if price == nil {
			price = big.NewInt(100)
		}
		*nonces = append(*nonces, opts.Nonce.Uint64())
		*prices = append(*prices, price.Int64())
		to := common.Address{}
		return types.NewTx(&types.LegacyTx{
			Nonce:    opts.Nonce.Uint64(),
			GasPrice: price,
			Gas:      21000,
			To:       &to,
		}), nil
	}
}

func TestSubmit_TimeoutFatalWithoutGasCeiling(t *testing.T) {
	eth := &fakeBackend{nonces: []uint64{7}}
	c := newTestClient(t, eth, GasPolicy{
		StepRatio: 11,
		TxTimeout: 20 * time.Millisecond,
		NonceGap:  5,
	})

	var nonces []uint64
	var prices []int64
	err := c.submit(context.Background(), "transferFund", nil, recordingTx(&nonces, &prices))
	if !errors.Is(err, ErrTransactionTimeout) {
		t.Fatalf("got %v want ErrTransactionTimeout", err)
	}
	if len(prices) != 1 {
		t.Errorf("attempts: got %d want 1 (no ceiling means no resubmission)", len(prices))
	}
}

func TestSubmit_EscalatesToCeilingThenTimesOut(t *testing.T) {
	eth := &fakeBackend{nonces: []uint64{7}}
	c := newTestClient(t, eth, GasPolicy{
		MaxGasPrice: big.NewInt(121),
		StepRatio:   11,
		TxTimeout:   20 * time.Millisecond,
		NonceGap:    5,
	})

	var nonces []uint64
	var prices []int64
	err := c.submit(context.Background(), "transferFund", nil, recordingTx(&nonces, &prices))
	if !errors.Is(err, ErrTransactionTimeout) {
		t.Fatalf("got %v want ErrTransactionTimeout", err)
	}
	want := []int64{100, 110, 121}
	if len(prices) != len(want) {
		t.Fatalf("attempts: got %v want %v", prices, want)
	}
	for i := range want {
		if prices[i] != want[i] {
			t.Errorf("attempt %d gas price: got %d want %d", i, prices[i], want[i])
		}
	}
	for i, n := range nonces {
		if n != 7 {
			t.Errorf("attempt %d nonce: got %d want 7 (resubmission replaces, not appends)", i, n)
		}
	}
}

func TestSubmit_AdoptsRemoteNonceAfterDrift(t *testing.T) {
	// First read seeds the local nonce at 10; the re-read between attempts
	// reports 20, past the gap of 5, and must be adopted.
	eth := &fakeBackend{nonces: []uint64{10, 20}}
	c := newTestClient(t, eth, GasPolicy{
		MaxGasPrice: big.NewInt(110),
		StepRatio:   11,
		TxTimeout:   20 * time.Millisecond,
		NonceGap:    5,
	})

	var nonces []uint64
	var prices []int64
	err := c.submit(context.Background(), "transferFund", nil, recordingTx(&nonces, &prices))
	if !errors.Is(err, ErrTransactionTimeout) {
		t.Fatalf("got %v want ErrTransactionTimeout", err)
	}
	want := []uint64{10, 20}
	if len(nonces) != len(want) {
		t.Fatalf("nonces: got %v want %v", nonces, want)
	}
	for i := range want {
		if nonces[i] != want[i] {
			t.Errorf("attempt %d nonce: got %d want %d", i, nonces[i], want[i])
		}
	}
}

func TestSubmit_SuccessAdvancesNonce(t *testing.T) {
	eth := &fakeBackend{
		nonces:  []uint64{3},
		receipt: &types.Receipt{Status: types.ReceiptStatusSuccessful},
	}
	c := newTestClient(t, eth, GasPolicy{
		StepRatio: 11,
		TxTimeout: 20 * time.Millisecond,
		NonceGap:  5,
	})

	var nonces []uint64
	var prices []int64
	fn := recordingTx(&nonces, &prices)
	if err := c.submit(context.Background(), "addLedger", nil, fn); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if err := c.submit(context.Background(), "transferFund", nil, fn); err != nil {
		t.Fatalf("second submit: %v", err)
	}
	want := []uint64{3, 4}
	for i := range want {
		if nonces[i] != want[i] {
			t.Errorf("submit %d nonce: got %d want %d", i, nonces[i], want[i])
		}
	}
	if eth.nonceCalls != 1 {
		t.Errorf("remote nonce reads: got %d want 1 (local counter covers later txs)", eth.nonceCalls)
	}
}

func TestSubmit_RevertedReceiptIsError(t *testing.T) {
	eth := &fakeBackend{
		nonces:  []uint64{0},
		receipt: &types.Receipt{Status: types.ReceiptStatusFailed},
	}
	c := newTestClient(t, eth, GasPolicy{
		StepRatio: 11,
		TxTimeout: 20 * time.Millisecond,
		NonceGap:  5,
	})

	var nonces []uint64
	var prices []int64
	err := c.submit(context.Background(), "requestRefund", nil, recordingTx(&nonces, &prices))
	if err == nil {
		t.Fatal("reverted receipt not reported")
	}
}

func TestNextGasPrice_Escalation(t *testing.T) {
	g0 := big.NewInt(100)
	max := big.NewInt(121) // g0 * 1.21

	first := NextGasPrice(g0, 11, max)
	if first.Int64() != 110 {
		t.Errorf("first escalation: got %d want 110", first.Int64())
	}
	second := NextGasPrice(first, 11, max)
	if second.Int64() != 121 {
		t.Errorf("second escalation: got %d want 121", second.Int64())
	}
	// Third escalation would exceed the ceiling; it must clamp.
	third := NextGasPrice(second, 11, max)
	if third.Int64() != 121 {
		t.Errorf("clamped escalation: got %d want 121", third.Int64())
	}
}

func TestNextGasPrice_NoMax(t *testing.T) {
	got := NextGasPrice(big.NewInt(1000), 11, nil)
	if got.Int64() != 1100 {
		t.Errorf("got %d want 1100", got.Int64())
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		raw  string
		want error
	}{
		{"execution reverted: AccountNotExists", ErrAccountNotFound},
		{"execution reverted: LedgerNotExists", ErrLedgerNotFound},
		{"execution reverted: ServiceNotExist", ErrServiceNotFound},
		{"execution reverted: InsufficientBalance", ErrInsufficientBalance},
	}
	for _, c := range cases {
		got := classify("op", fmt.Errorf("%s", c.raw))
		if !errors.Is(got, c.want) {
			t.Errorf("classify(%q): got %v want %v", c.raw, got, c.want)
		}
	}
}

func TestClassify_TransportPassesThrough(t *testing.T) {
	raw := errors.New("connection refused")
	got := classify("op", raw)
	if !errors.Is(got, raw) {
		t.Errorf("transport error not preserved: %v", got)
	}
	if isFinal(got) {
		t.Error("transport error classified as final")
	}
}

func TestClassify_Nil(t *testing.T) {
	if classify("op", nil) != nil {
		t.Error("classify(nil) != nil")
	}
}
